// Package arena assembles the ring arena: it builds the scene from literal
// tables, binds the parameter panel, and advances everything once per frame.
package arena

import (
	"fmt"
	"log/slog"

	"ring-arena/animation"
	"ring-arena/config"
	"ring-arena/frame"
	"ring-arena/math"
	"ring-arena/panel"
	"ring-arena/renderer"
	"ring-arena/scene"
)

// Context carries everything a frame needs. There is one per running arena.
type Context struct {
	Config   *config.Config
	Logger   *slog.Logger
	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls *scene.OrbitControls
	Panel    *panel.Panel
	Engine   *renderer.RenderEngine
	Arena    *Arena

	panelGrab bool
}

// New builds the arena and its render engine on backend. The engine is not
// sized until the first Resize.
func New(cfg *config.Config, backend renderer.Backend, logger *slog.Logger) (*Context, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Context{
		Config: cfg,
		Logger: logger,
		Scene:  scene.NewScene(),
		Panel:  panel.New(),
	}
	c.Scene.ClearColor = cfg.ClearColor()

	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	c.Camera = scene.NewCamera(cameraFOV, aspect, cameraNear, cameraFar)
	c.Camera.SetPosition(cameraPos)
	c.Controls = scene.NewOrbitControls(c.Camera)

	c.Arena = Build(c)
	c.bindPanel()
	c.Panel.Visible = cfg.Panel.Visible

	c.Engine = renderer.NewRenderEngine(backend, c.Scene, c.Camera, logger)
	c.Engine.Controls = c.Controls
	c.Engine.Panel = c.Panel
	c.Engine.MaxPixelRatio = cfg.Render.MaxPixelRatio
	c.Engine.ShowLightHelpers = cfg.Render.ShowLightHelpers
	return c, nil
}

// Tick spins the rings, steps the patrolling walls and renders one frame.
func (c *Context) Tick(t frame.Tick) error {
	a := c.Arena
	animation.AdvanceRotation(a.Rotating, t.Elapsed)
	WallPatrol.Advance(a.Patrolling)
	if err := c.Engine.Render(); err != nil {
		return fmt.Errorf("frame %d: %w", t.Frame, err)
	}
	return nil
}

// bindPanel wires the "ring", "test" and "light1" folders. Folders start
// collapsed.
func (c *Context) bindPanel() {
	const lim, step = 100, 0.01
	a := c.Arena

	ring := c.Panel.AddFolder("ring")
	for _, ctl := range bindPosition(ring, a.Ring) {
		ctl.Range(-lim, lim).WithStep(step)
	}

	test := c.Panel.AddFolder("test")
	bindPosition(test, a.TestWall)

	light := c.Panel.AddFolder("light1")
	light.Add(panel.Bind("x", &a.Light.Position.X)).Range(-lim, lim).WithStep(step)
	light.Add(panel.Bind("y", &a.Light.Position.Y)).Range(-lim, lim).WithStep(step)
	light.Add(panel.Bind("z", &a.Light.Position.Z)).Range(-lim, lim).WithStep(step)
	light.Add(panel.Bind("intensity", &a.Light.Intensity)).Range(0, 5).WithStep(step)

	for _, f := range c.Panel.Folders {
		f.Open = false
	}
}

// bindPosition adds x, y and z controllers that move n through SetPosition
// so its world matrix is refreshed.
func bindPosition(f *panel.Folder, n *scene.Node) []*panel.Controller {
	axes := []struct {
		name string
		sel  func(*math.Vec3) *float32
	}{
		{"x", func(v *math.Vec3) *float32 { return &v.X }},
		{"y", func(v *math.Vec3) *float32 { return &v.Y }},
		{"z", func(v *math.Vec3) *float32 { return &v.Z }},
	}
	ctls := make([]*panel.Controller, 0, len(axes))
	for _, ax := range axes {
		ax := ax
		get := func() float32 {
			p := n.Position()
			return *ax.sel(&p)
		}
		set := func(v float32) {
			p := n.Position()
			*ax.sel(&p) = v
			n.SetPosition(p)
		}
		ctls = append(ctls, f.Add(panel.Func(ax.name, get, set)))
	}
	return ctls
}
