package arena

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ring-arena/config"
	"ring-arena/core"
	"ring-arena/frame"
	"ring-arena/math"
	"ring-arena/scene"
)

type nopBackend struct {
	frames int
	meshes []string
}

func (b *nopBackend) SetViewport(int, int) {}
func (b *nopBackend) BeginFrame(core.Color, []*scene.Light, core.Color, math.Vec3) {
	b.meshes = b.meshes[:0]
}
func (b *nopBackend) DrawMesh(m *scene.Mesh, _, _ math.Mat4)         { b.meshes = append(b.meshes, m.Name) }
func (b *nopBackend) DrawOverlay(*image.RGBA, image.Rectangle, bool) {}
func (b *nopBackend) EndFrame()                                      { b.frames++ }
func (b *nopBackend) Destroy()                                       {}

func newTestContext(t *testing.T, mutate func(*config.Config)) (*Context, *nopBackend) {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.NormalMap = ""
	if mutate != nil {
		mutate(cfg)
	}
	b := &nopBackend{}
	c, err := New(cfg, b, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c, b
}

func TestBuild(t *testing.T) {
	t.Run("should add every table entry once", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		a := c.Arena
		assert.Len(t, a.Static, 4)
		assert.Len(t, a.Rotating, len(RingTable))
		assert.Len(t, a.Patrolling, len(WallTable))
		assert.Equal(t, 10, a.NodeCount())
		assert.Equal(t, a.NodeCount(), c.Scene.ObjectCount())
	})
	t.Run("should place entities at their table positions", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		for i, p := range RingTable {
			assert.Equal(t, p.Pos, c.Arena.Rotating[i].Node.Position(), p.Name)
		}
		w1 := c.Arena.Patrolling[0]
		assert.Equal(t, math.Vec3{X: 36, Y: 10, Z: 53}, w1.Node.Position())
		assert.Equal(t, -1, w1.Dir)
		assert.Equal(t, sideWallPos, c.Scene.Root.Find("wall").Position())
		assert.Equal(t, cratePos, c.Scene.Root.Find("crate").Position())
		assert.Equal(t, math.Vec3Zero, c.Arena.TestWall.Position())
	})
	t.Run("should create one unbounded white point light", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		require.Len(t, c.Scene.Lights, 1)
		l := c.Scene.Lights[0]
		assert.Equal(t, scene.LightTypePoint, l.Type)
		assert.Equal(t, core.ColorWhite, l.Color)
		assert.Equal(t, float32(1.8), l.Intensity)
		assert.Equal(t, float32(0), l.Range)
		assert.Equal(t, lightPos, l.Position)
		assert.Equal(t, core.ColorBlack, c.Scene.Ambient)
	})
	t.Run("should share the ring geometry", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		mesh := c.Arena.Rotating[0].Node.Mesh
		for _, m := range c.Arena.Rotating {
			assert.Same(t, mesh, m.Node.Mesh)
		}
		assert.Equal(t, float32(0.4), mesh.Material.Metallic)
		assert.Equal(t, float32(0.2), mesh.Material.Roughness)
	})
	t.Run("should place the camera", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		assert.Equal(t, cameraPos, c.Camera.Position)
		assert.Equal(t, float32(75), c.Camera.FOV)
		assert.InDelta(t, 1280.0/720.0, c.Camera.AspectRatio, 1e-6)
	})
}

func TestBuildNormalMap(t *testing.T) {
	t.Run("should attach a loadable normal map to the floor", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "normal.png")
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := 0; i < 16; i++ {
			img.Set(i%4, i/4, color.RGBA{128, 128, 255, 255})
		}
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())

		c, _ := newTestContext(t, func(cfg *config.Config) { cfg.Assets.NormalMap = path })
		floor := c.Scene.Root.Find("floor")
		require.NotNil(t, floor)
		tex := floor.Mesh.Material.NormalTexture
		require.NotNil(t, tex)
		assert.Equal(t, 4, tex.Width)
		assert.Same(t, floor.Mesh.Material, c.Scene.Root.Find("wall").Mesh.Material)
	})
	t.Run("should build without a missing normal map", func(t *testing.T) {
		c, _ := newTestContext(t, func(cfg *config.Config) {
			cfg.Assets.NormalMap = filepath.Join(t.TempDir(), "missing.png")
		})
		floor := c.Scene.Root.Find("floor")
		assert.Nil(t, floor.Mesh.Material.NormalTexture)
		assert.Equal(t, 10, c.Arena.NodeCount())
	})
}

func TestTick(t *testing.T) {
	t.Run("should spin rings and step walls each frame", func(t *testing.T) {
		c, b := newTestContext(t, nil)
		c.Engine.Resize(800, 600, 1)
		require.NoError(t, c.Tick(frame.Tick{Frame: 1, Elapsed: 2}))
		for _, m := range c.Arena.Rotating {
			assert.Equal(t, float32(1), m.Node.Transform.Rotation.Y, m.Name)
		}
		w1 := c.Arena.Patrolling[0]
		assert.Equal(t, float32(35.5), w1.X())
		assert.Equal(t, -1, w1.Dir)
		assert.Equal(t, 1, b.frames)
		assert.Contains(t, b.meshes, "light1Helper")
	})
	t.Run("should keep rotation absolute", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		require.NoError(t, c.Tick(frame.Tick{Frame: 1, Elapsed: 3}))
		require.NoError(t, c.Tick(frame.Tick{Frame: 2, Elapsed: 3}))
		assert.Equal(t, float32(1.5), c.Arena.Ring.Transform.Rotation.Y)
	})
	t.Run("should leave static entities alone", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		before := make([]math.Vec3, len(c.Arena.Static))
		for i, n := range c.Arena.Static {
			before[i] = n.Position()
		}
		for i := 0; i < 100; i++ {
			require.NoError(t, c.Tick(frame.Tick{Frame: uint64(i), Elapsed: float64(i) / 60}))
		}
		for i, n := range c.Arena.Static {
			assert.Equal(t, before[i], n.Position(), n.Name)
			assert.Equal(t, math.Vec3Zero, n.Transform.Rotation, n.Name)
		}
	})
}

func TestPanelBindings(t *testing.T) {
	t.Run("should list folders in order, collapsed", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		var names []string
		for _, f := range c.Panel.Folders {
			names = append(names, f.Name)
			assert.False(t, f.Open, f.Name)
		}
		assert.Equal(t, []string{"ring", "test", "light1"}, names)
	})
	t.Run("should clamp and snap ring edits and move the node", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		x := c.Panel.Folder("ring").Controllers[0]
		x.SetValue(150)
		assert.Equal(t, float32(100), c.Arena.Ring.Position().X)
		x.SetValue(12.3456)
		assert.InDelta(t, 12.35, c.Arena.Ring.Position().X, 1e-4)
		assert.InDelta(t, 12.35, c.Arena.Ring.GetWorldMatrix()[3][0], 1e-4)
	})
	t.Run("should edit the test wall without limits", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		for _, ctl := range c.Panel.Folder("test").Controllers {
			assert.False(t, ctl.Ranged(), ctl.Name)
		}
		z := c.Panel.Folder("test").Controllers[2]
		z.SetValue(-250.123)
		assert.Equal(t, float32(-250.123), c.Arena.TestWall.Position().Z)
	})
	t.Run("should drive the light", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		f := c.Panel.Folder("light1")
		require.Len(t, f.Controllers, 4)
		f.Controllers[3].SetValue(9)
		assert.Equal(t, float32(5), c.Arena.Light.Intensity)
		f.Controllers[1].SetValue(-20)
		assert.Equal(t, float32(-20), c.Arena.Light.Position.Y)
	})
	t.Run("should show programmatic writes unvalidated", func(t *testing.T) {
		c, _ := newTestContext(t, nil)
		c.Arena.Light.Intensity = 42
		assert.Equal(t, float32(42), c.Panel.Folder("light1").Controllers[3].Value())
	})
	t.Run("should honour the configured visibility", func(t *testing.T) {
		c, _ := newTestContext(t, func(cfg *config.Config) { cfg.Panel.Visible = false })
		assert.False(t, c.Panel.Visible)
	})
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Height = 0
	_, err := New(cfg, &nopBackend{}, nil)
	assert.Error(t, err)
}
