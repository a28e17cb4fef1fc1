package arena

import (
	"ring-arena/animation"
	"ring-arena/core"
	"ring-arena/math"
	"ring-arena/scene"
)

// Arena is the populated scene: the moving collections plus the handles the
// panel edits.
type Arena struct {
	Static     []*scene.Node
	Rotating   []*animation.Movable
	Patrolling []*animation.Movable

	Ring     *scene.Node // panel "ring" folder
	TestWall *scene.Node // panel "test" folder
	Light    *scene.Light
}

// NodeCount is the number of entities the arena added to the scene.
func (a *Arena) NodeCount() int {
	return len(a.Static) + len(a.Rotating) + len(a.Patrolling)
}

// Build creates every entity once from the literal tables and attaches it to
// c.Scene. A normal map that fails to load is logged and the floor is drawn
// without it.
func Build(c *Context) *Arena {
	s := c.Scene
	s.Ambient = core.ColorBlack
	a := &Arena{}

	floorMat := scene.DefaultMaterial()
	floorMat.Name = "floor"
	if path := c.Config.Assets.NormalMap; path != "" {
		tex, err := scene.LoadTexture(path)
		if err != nil {
			c.Logger.Warn("Normal map not loaded", "path", path, "error", err)
		} else {
			floorMat.NormalTexture = tex
			c.Logger.Debug("Normal map loaded", "path", path, "width", tex.Width, "height", tex.Height)
		}
	}
	red := scene.NewBasicMaterial("red", core.ColorRed)
	gold := scene.NewStandardMaterial("ring", ringColor, 0.4, 0.2)

	addStatic := func(name string, mesh *scene.Mesh, pos math.Vec3) *scene.Node {
		n := scene.NewMeshNode(name, mesh, pos)
		s.AddNode(n)
		a.Static = append(a.Static, n)
		return n
	}

	floor := box(floorSize, floorMat)
	scene.ComputeTangents(floor)
	addStatic("floor", floor, math.Vec3Zero)

	side := box(sideWallSize, floorMat)
	scene.ComputeTangents(side)
	addStatic("wall", side, sideWallPos)

	addStatic("crate", box(crateSize, red), cratePos)

	wallMesh := box(wallSize, red)
	a.TestWall = addStatic("testWall", wallMesh, math.Vec3Zero)

	torus := scene.CreateTorus(ringRadius, ringTube, ringTubeSegments, ringSegments)
	torus.Name = "ring"
	torus.Material = gold
	for _, p := range RingTable {
		n := scene.NewMeshNode(p.Name, torus, p.Pos)
		s.AddNode(n)
		a.Rotating = append(a.Rotating, animation.NewMovable(p.Name, n, p.Dir))
		if a.Ring == nil {
			a.Ring = n
		}
	}

	for _, p := range WallTable {
		n := scene.NewMeshNode(p.Name, wallMesh, p.Pos)
		s.AddNode(n)
		a.Patrolling = append(a.Patrolling, animation.NewMovable(p.Name, n, p.Dir))
	}

	a.Light = scene.NewPointLight("light1", core.ColorWhite, lightIntensity, lightPos)
	s.AddLight(a.Light)

	c.Logger.Info("Arena built",
		"static", len(a.Static),
		"rotating", len(a.Rotating),
		"patrolling", len(a.Patrolling),
		"lights", len(s.Lights))
	return a
}

func box(size math.Vec3, mat *scene.Material) *scene.Mesh {
	m := scene.CreateBox(size.X, size.Y, size.Z)
	m.Material = mat
	return m
}
