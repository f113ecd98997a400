package opengl

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"mandelbulb/config"
	"mandelbulb/core"
	"mandelbulb/rendering/opengl/shaders"
	"mandelbulb/view"
)

// PointRenderer draws a point cloud in a native OpenGL window
type PointRenderer struct {
	window *glfw.Window
	state  *view.State

	program uint32

	// Uniform locations
	modelViewLoc  int32
	projectionLoc int32
	pointSizeLoc  int32
	pointScaleLoc int32

	// Point buffers
	vao         uint32
	positionVBO uint32
	colorVBO    uint32
	pointCount  int32

	pointSize  float32
	background [3]float64
}

// NewPointRenderer opens a window and compiles the point shaders.
// It must be called from the main goroutine.
func NewPointRenderer(cfg config.ViewerSettings, state *view.State) (*PointRenderer, error) {
	runtime.LockOSThread()

	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// Configure OpenGL context
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	// Create window
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, "Mandelbulb", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Println("OpenGL version:", version)

	r := &PointRenderer{
		window:     window,
		state:      state,
		pointSize:  float32(cfg.PointSize),
		background: cfg.Background,
	}

	// Setup OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(float32(cfg.Background[0]), float32(cfg.Background[1]), float32(cfg.Background[2]), 1.0)

	program, err := shaders.CompilePointShaders()
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to compile point shaders: %v", err)
	}
	r.program = program
	r.modelViewLoc = gl.GetUniformLocation(program, gl.Str(shaders.UniformModelView+"\x00"))
	r.projectionLoc = gl.GetUniformLocation(program, gl.Str(shaders.UniformProjection+"\x00"))
	r.pointSizeLoc = gl.GetUniformLocation(program, gl.Str(shaders.UniformPointSize+"\x00"))
	r.pointScaleLoc = gl.GetUniformLocation(program, gl.Str(shaders.UniformPointScale+"\x00"))

	// High-DPI displays report a framebuffer larger than the window
	fbWidth, fbHeight := window.GetFramebufferSize()
	r.onResize(fbWidth, fbHeight)

	// Setup callbacks
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.onResize(width, height)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		r.onScroll(xoff, yoff)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	return r, nil
}

// CreateBuffers uploads the cloud as two vertex buffers
func (r *PointRenderer) CreateBuffers(cloud *core.PointCloud) {
	positions, colors := cloud.Float32()

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	// Position attribute
	gl.GenBuffers(1, &r.positionVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.positionVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.VertexAttribPointer(shaders.PositionLocation, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shaders.PositionLocation)

	// Color attribute
	gl.GenBuffers(1, &r.colorVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.colorVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(colors)*4, gl.Ptr(colors), gl.STATIC_DRAW)
	gl.VertexAttribPointer(shaders.ColorLocation, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shaders.ColorLocation)

	r.pointCount = int32(cloud.Len())

	// Unbind
	gl.BindVertexArray(0)
}

// Render advances the rotation one frame and draws the cloud
func (r *PointRenderer) Render() {
	r.state.Advance()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if r.pointCount > 0 {
		modelView := r.state.View().Mul4(r.state.Model())
		projection := r.state.Projection()

		gl.UseProgram(r.program)
		gl.UniformMatrix4fv(r.modelViewLoc, 1, false, &modelView[0])
		gl.UniformMatrix4fv(r.projectionLoc, 1, false, &projection[0])
		gl.Uniform1f(r.pointSizeLoc, r.pointSize)
		gl.Uniform1f(r.pointScaleLoc, r.state.PointScale())

		gl.BindVertexArray(r.vao)
		gl.DrawArrays(gl.POINTS, 0, r.pointCount)
		gl.BindVertexArray(0)
	}

	r.window.SwapBuffers()
}

func (r *PointRenderer) onResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.state.Resize(width, height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *PointRenderer) onScroll(xoff, yoff float64) {
	r.state.Wheel(yoff)
}

// SetTitle updates the window title
func (r *PointRenderer) SetTitle(title string) {
	r.window.SetTitle(title)
}

func (r *PointRenderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

func (r *PointRenderer) PollEvents() {
	glfw.PollEvents()
}

// Terminate releases GPU resources and closes the window
func (r *PointRenderer) Terminate() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		gl.DeleteBuffers(1, &r.positionVBO)
		gl.DeleteBuffers(1, &r.colorVBO)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	r.window.Destroy()
	glfw.Terminate()
}
