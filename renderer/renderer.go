package renderer

import (
	"fmt"
	"image"
	"log/slog"

	"ring-arena/core"
	"ring-arena/math"
	"ring-arena/panel"
	"ring-arena/scene"
)

// DefaultMaxPixelRatio caps the device pixel ratio used for the drawing buffer.
const DefaultMaxPixelRatio = 2

// Backend is the graphics API the engine draws through.
type Backend interface {
	// SetViewport sizes the drawing buffer in device pixels.
	SetViewport(width, height int)
	BeginFrame(clear core.Color, lights []*scene.Light, ambient core.Color, camPos math.Vec3)
	DrawMesh(mesh *scene.Mesh, mvp, model math.Mat4)
	// DrawOverlay composites img over the frame at dst, given in drawing
	// buffer pixels with a top-left origin. changed is false when img holds
	// the same pixels as on the previous call.
	DrawOverlay(img *image.RGBA, dst image.Rectangle, changed bool)
	EndFrame()
	Destroy()
}

// DrawStats describes the last rendered frame.
type DrawStats struct {
	Objects   int
	Vertices  int
	Triangles int
}

// RenderEngine renders a scene from a camera through a Backend.
type RenderEngine struct {
	backend  Backend
	logger   *slog.Logger
	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls *scene.OrbitControls
	Panel    *panel.Panel

	MaxPixelRatio    float32
	ShowLightHelpers bool
	HelperSize       float32

	width, height int
	pixelRatio    float32
	helpers       map[*scene.Light]*scene.Mesh
	stats         DrawStats
}

func NewRenderEngine(backend Backend, s *scene.Scene, camera *scene.Camera, logger *slog.Logger) *RenderEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderEngine{
		backend:          backend,
		logger:           logger,
		Scene:            s,
		Camera:           camera,
		MaxPixelRatio:    DefaultMaxPixelRatio,
		ShowLightHelpers: true,
		HelperSize:       1,
		pixelRatio:       1,
		helpers:          make(map[*scene.Light]*scene.Mesh),
	}
}

// Resize adapts the engine to a viewport of width×height logical pixels on
// a display with the given device scale. Non-positive sizes are ignored.
func (re *RenderEngine) Resize(width, height int, deviceScale float32) {
	if width <= 0 || height <= 0 {
		re.logger.Debug("Ignoring resize", "width", width, "height", height)
		return
	}
	re.width, re.height = width, height

	ratio := deviceScale
	if ratio <= 0 {
		ratio = 1
	}
	if re.MaxPixelRatio > 0 && ratio > re.MaxPixelRatio {
		ratio = re.MaxPixelRatio
	}
	re.pixelRatio = ratio

	if re.Camera != nil {
		re.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
	if re.Controls != nil {
		re.Controls.SetViewportHeight(float32(height))
	}
	if re.Panel != nil {
		re.Panel.SetViewport(width)
	}

	bw, bh := re.DrawingBufferSize()
	re.backend.SetViewport(bw, bh)
	re.logger.Debug("Resized", "width", width, "height", height, "pixelRatio", ratio, "buffer", fmt.Sprintf("%dx%d", bw, bh))
}

// Size returns the logical viewport size.
func (re *RenderEngine) Size() (int, int) { return re.width, re.height }

func (re *RenderEngine) PixelRatio() float32 { return re.pixelRatio }

// DrawingBufferSize is the logical size scaled by the pixel ratio, floored.
func (re *RenderEngine) DrawingBufferSize() (int, int) {
	return int(float32(re.width) * re.pixelRatio), int(float32(re.height) * re.pixelRatio)
}

// Stats returns counters from the last Render.
func (re *RenderEngine) Stats() DrawStats { return re.stats }

// Render applies pending orbit input, then draws the visible nodes, the
// light helpers and the panel overlay in one pass.
func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	if re.Controls != nil {
		re.Controls.Update()
	}

	cam := re.Camera
	re.backend.BeginFrame(re.Scene.ClearColor, re.Scene.Lights, re.Scene.Ambient, cam.Position)

	viewProj := cam.GetViewProjectionMatrix()
	var stats DrawStats
	for _, node := range re.Scene.GetVisibleNodes() {
		model := node.GetWorldMatrix()
		re.backend.DrawMesh(node.Mesh, model.Mul(viewProj), model)

		stats.Objects++
		stats.Vertices += len(node.Mesh.Vertices)
		stats.Triangles += node.Mesh.TriangleCount()
	}
	re.stats = stats

	if re.ShowLightHelpers {
		re.drawLightHelpers(viewProj)
	}

	if re.Panel != nil && re.Panel.Visible {
		re.drawPanel()
	}

	re.backend.EndFrame()
	return nil
}

// drawLightHelpers draws a wire sphere at each point light in its colour.
func (re *RenderEngine) drawLightHelpers(viewProj math.Mat4) {
	for _, l := range re.Scene.Lights {
		if l == nil || l.Type != scene.LightTypePoint {
			continue
		}
		mesh, ok := re.helpers[l]
		if !ok {
			mesh = scene.Wireframe(scene.CreateSphere(1, 4, 2))
			mesh.Name = l.Name + "Helper"
			mesh.Material = scene.NewBasicMaterial(mesh.Name, l.Color)
			re.helpers[l] = mesh
		}
		mesh.Material.Albedo = l.Color

		s := re.HelperSize
		model := math.Mat4Scale(math.Vec3{X: s, Y: s, Z: s}).Mul(math.Mat4Translation(l.Position))
		re.backend.DrawMesh(mesh, model.Mul(viewProj), model)
	}
}

func (re *RenderEngine) drawPanel() {
	b := re.Panel.Bounds()
	if b.Empty() {
		return
	}
	r := re.pixelRatio
	dst := image.Rect(
		int(float32(b.Min.X)*r), int(float32(b.Min.Y)*r),
		int(float32(b.Max.X)*r), int(float32(b.Max.Y)*r),
	)
	img, changed := re.Panel.Image()
	re.backend.DrawOverlay(img, dst, changed)
}

// Destroy releases backend resources.
func (re *RenderEngine) Destroy() {
	re.backend.Destroy()
	re.logger.Info("Render engine destroyed")
}
