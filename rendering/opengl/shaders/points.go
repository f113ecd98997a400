package shaders

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

const pointVertexShader = `
#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 color;

uniform mat4 modelView;
uniform mat4 projection;
uniform float pointSize;  // World units
uniform float pointScale; // Viewport height / 2

out vec3 vColor;

void main() {
    vec4 mvPosition = modelView * vec4(position, 1.0);
    gl_Position = projection * mvPosition;

    // Attenuate with depth, never thinner than one pixel
    gl_PointSize = max(1.0, pointSize * pointScale / -mvPosition.z);

    vColor = color;
}
`

const pointFragmentShader = `
#version 410 core

in vec3 vColor;
out vec4 fragColor;

void main() {
    fragColor = vec4(vColor, 1.0);
}
`

// Uniforms set by the point renderer
const (
	UniformModelView  = "modelView"
	UniformProjection = "projection"
	UniformPointSize  = "pointSize"
	UniformPointScale = "pointScale"
)

// Vertex attribute locations
const (
	PositionLocation = 0
	ColorLocation    = 1
)

// CompilePointShaders builds the program used to draw the point cloud
func CompilePointShaders() (uint32, error) {
	return buildProgram(
		stage{"vertex", gl.VERTEX_SHADER, pointVertexShader},
		stage{"fragment", gl.FRAGMENT_SHADER, pointFragmentShader},
	)
}
