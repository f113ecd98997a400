package shaders

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// stage is one shader of a program
type stage struct {
	name   string
	kind   uint32
	source string
}

// buildProgram compiles every stage and links them. The compiled shaders are
// always deleted before returning; a linked program keeps its own copy.
func buildProgram(stages ...stage) (uint32, error) {
	compiled := make([]uint32, 0, len(stages))
	defer func() {
		for _, shader := range compiled {
			gl.DeleteShader(shader)
		}
	}()

	for _, st := range stages {
		shader, err := compile(st.kind, st.source)
		if err != nil {
			return 0, fmt.Errorf("%s shader: %w", st.name, err)
		}
		compiled = append(compiled, shader)
	}

	program := gl.CreateProgram()
	for _, shader := range compiled {
		gl.AttachShader(program, shader)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		buf := make([]byte, length+1)
		gl.GetProgramInfoLog(program, length, nil, &buf[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", infoLog(buf))
	}

	for _, shader := range compiled {
		gl.DetachShader(program, shader)
	}
	return program, nil
}

func compile(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		buf := make([]byte, length+1)
		gl.GetShaderInfoLog(shader, length, nil, &buf[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", infoLog(buf))
	}

	return shader, nil
}

// infoLog turns a NUL-terminated driver log into one trimmed string
func infoLog(buf []byte) string {
	if i := strings.IndexByte(string(buf), 0); i >= 0 {
		buf = buf[:i]
	}
	msg := strings.TrimSpace(string(buf))
	if msg == "" {
		return "no info log"
	}
	return msg
}
