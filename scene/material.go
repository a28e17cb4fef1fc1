package scene

import "ring-arena/core"

// Material describes surface appearance properties for a mesh.
// Lit materials use the Cook-Torrance BRDF; Unlit ones output Albedo directly.
type Material struct {
	Name      string
	Albedo    core.Color // base diffuse color (multiplied with albedo texture if set)
	Unlit     bool       // skip lighting calculation, output raw albedo/texture color
	Metallic  float32    // 0 = dielectric, 1 = fully metallic
	Roughness float32    // 0 = perfectly smooth, 1 = fully rough

	// Optional albedo texture; if set, it is multiplied with Albedo.
	AlbedoTexture *Texture

	// Optional tangent-space normal map (RGB → XYZ normals, stored 0-1 → -1..1).
	// Requires tangents, see ComputeTangents.
	NormalTexture *Texture
}

// DefaultMaterial returns a plain white rough dielectric.
func DefaultMaterial() *Material {
	return NewStandardMaterial("Default", core.ColorWhite, 0, 1)
}

// NewBasicMaterial returns a flat-coloured material that ignores lights.
func NewBasicMaterial(name string, albedo core.Color) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Unlit:     true,
		Roughness: 1,
	}
}

// NewStandardMaterial creates a lit PBR material.
func NewStandardMaterial(name string, albedo core.Color, metallic, roughness float32) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Metallic:  metallic,
		Roughness: roughness,
	}
}
