package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	resizeHandlers []ResizeCallback
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

// ResizeCallback receives the new window size in screen coordinates.
type ResizeCallback func(width, height int)

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

// CursorCallback receives the cursor position in screen coordinates.
type CursorCallback func(x, y float64)

// MouseButtonCallback receives press/release transitions.
type MouseButtonCallback func(button int, pressed bool, mods int)

// KeyCallback receives press and repeat events; release events are dropped.
type KeyCallback func(key int, mods int)

// NewWindow creates the window and makes its OpenGL 4.1 core context current.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// ScaleToMonitor may have enlarged the window, so read the size back.
	width, height := handle.GetSize()
	window := &Window{
		Handle: handle,
		Width:  width,
		Height: height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		window.notifyResize()
	})
	// Moving to a monitor with another scale changes only the framebuffer.
	handle.SetFramebufferSizeCallback(func(w *glfw.Window, _, _ int) {
		window.notifyResize()
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// ContentScale reports the device pixel ratio of the monitor the window is on.
func (w *Window) ContentScale() float32 {
	x, _ := w.Handle.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// OnResize registers a handler run when the window or its framebuffer
// changes size. It receives the window size in screen coordinates.
func (w *Window) OnResize(cb ResizeCallback) {
	w.resizeHandlers = append(w.resizeHandlers, cb)
}

func (w *Window) notifyResize() {
	for _, cb := range w.resizeHandlers {
		cb(w.Width, w.Height)
	}
}

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

func (w *Window) SetCursorCallback(cb CursorCallback) {
	w.Handle.SetCursorPosCallback(func(win *glfw.Window, x, y float64) {
		cb(x, y)
	})
}

func (w *Window) SetMouseButtonCallback(cb MouseButtonCallback) {
	w.Handle.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		cb(int(button), action == glfw.Press, int(mods))
	})
}

func (w *Window) SetKeyCallback(cb KeyCallback) {
	w.Handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		cb(int(key), int(mods))
	})
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	MouseLeft   = int(glfw.MouseButtonLeft)
	MouseRight  = int(glfw.MouseButtonRight)
	MouseMiddle = int(glfw.MouseButtonMiddle)
)

const ModShift = int(glfw.ModShift)

const (
	KeyH      = int(glfw.KeyH)
	KeyEscape = int(glfw.KeyEscape)
	KeyTab    = int(glfw.KeyTab)
	KeyRight  = int(glfw.KeyRight)
	KeyLeft   = int(glfw.KeyLeft)
	KeyDown   = int(glfw.KeyDown)
	KeyUp     = int(glfw.KeyUp)
)
