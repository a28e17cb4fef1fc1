package opengl

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"ring-arena/core"
	"ring-arena/math"
	"ring-arena/renderer"
	"ring-arena/scene"
)

const maxPointLights = 8

var _ renderer.Backend = (*Renderer)(nil)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32
	logger  *slog.Logger

	// Vertex transform uniforms
	mvpLoc   int32
	modelLoc int32

	// Directional light
	lightDirLoc       int32
	lightColorLoc     int32
	lightIntensityLoc int32
	ambientColorLoc   int32

	// Point lights
	pointLightCountLoc     int32
	pointLightPosLoc       [maxPointLights]int32
	pointLightColorLoc     [maxPointLights]int32
	pointLightIntensityLoc [maxPointLights]int32
	pointLightRangeLoc     [maxPointLights]int32

	// Camera uniform (for specular)
	cameraPosLoc int32

	// Material uniforms
	matAlbedoLoc    int32
	matMetallicLoc  int32
	matRoughnessLoc int32
	unlitLoc        int32

	// Texture uniforms
	albedoTexLoc    int32
	hasTextureLoc   int32
	normalTexLoc    int32
	hasNormalTexLoc int32

	// Drawing buffer and the window framebuffer it is presented to
	viewportW       int32
	viewportH       int32
	framebufferSize func() (int, int)
	target          *RenderTarget
	offscreen       bool

	overlay *Overlay

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// vertex shader: MVP + model transform, world-space position and normal to fragment.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;
layout(location = 4) in vec3 inTangent;
layout(location = 5) in vec3 inBitangent;

uniform mat4 mvp;
uniform mat4 model;

out vec4 fragColor;
out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;
out vec3 fragTangent;
out vec3 fragBitangent;

void main() {
    mat3 normalMat = mat3(model);
    vec4 worldPos  = model * vec4(inPosition, 1.0);

    gl_Position   = mvp * vec4(inPosition, 1.0);
    fragColor     = inColor;
    fragNormal    = normalMat * inNormal;
    fragUV        = inUV;
    fragWorldPos  = worldPos.xyz;
    fragTangent   = normalMat * inTangent;
    fragBitangent = normalMat * inBitangent;
}
` + "\x00"

// fragment shader: Cook-Torrance with one directional and up to 8 point
// lights, or flat colour when unlit. Punctual intensities are scaled by PI so
// a white Lambert surface facing a light of intensity 1 comes out at 1.
const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;
in vec3 fragTangent;
in vec3 fragBitangent;

out vec4 outColor;

// Directional light
uniform vec3  lightDir;
uniform vec3  lightColor;
uniform float lightIntensity;
uniform vec3  ambientColor;

// Point lights; range 0 means no distance falloff
#define MAX_POINT_LIGHTS 8
uniform int   pointLightCount;
uniform vec3  pointLightPos[MAX_POINT_LIGHTS];
uniform vec3  pointLightColor[MAX_POINT_LIGHTS];
uniform float pointLightIntensity[MAX_POINT_LIGHTS];
uniform float pointLightRange[MAX_POINT_LIGHTS];

uniform vec3 cameraPos;

uniform vec3  matAlbedo;
uniform float matMetallic;
uniform float matRoughness;
uniform bool  unlit;

// Albedo texture (unit 0)
uniform sampler2D albedoTex;
uniform bool      hasTexture;

// Tangent-space normal map (unit 2)
uniform sampler2D normalTex;
uniform bool      hasNormalTex;

const float PI = 3.14159265359;

float DistributionGGX(vec3 N, vec3 H, float roughness) {
    float a  = roughness * roughness;
    float a2 = a * a;
    float NdH = max(dot(N, H), 0.0);
    float d   = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float GeometrySchlickGGX(float cosTheta, float roughness) {
    float r = roughness + 1.0;
    float k = (r * r) / 8.0;
    return cosTheta / (cosTheta * (1.0 - k) + k);
}

float GeometrySmith(float NdV, float NdL, float roughness) {
    return GeometrySchlickGGX(NdV, roughness) * GeometrySchlickGGX(NdL, roughness);
}

vec3 FresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

// Evaluate one Cook-Torrance lobe. L = unit vector toward light, rad = light radiance.
vec3 evalPBR(vec3 N, vec3 V, vec3 L, vec3 rad, vec3 albedo, float metallic, float roughness, vec3 F0) {
    float NdL = max(dot(N, L), 0.0);
    if (NdL <= 0.0) return vec3(0.0);

    vec3  H   = normalize(V + L);
    float NdV = max(dot(N, V), 0.0);

    float D  = DistributionGGX(N, H, roughness);
    float G  = GeometrySmith(NdV, NdL, roughness);
    vec3  F  = FresnelSchlick(max(dot(H, V), 0.0), F0);

    vec3 kD       = (vec3(1.0) - F) * (1.0 - metallic);
    vec3 specular = D * G * F / max(4.0 * NdV * NdL, 0.001);

    return (kD * albedo / PI + specular) * rad * NdL;
}

void main() {
    vec4 baseColor = fragColor * vec4(matAlbedo, 1.0);
    if (hasTexture) {
        baseColor *= texture(albedoTex, fragUV);
    }
    if (unlit) {
        outColor = baseColor;
        return;
    }

    vec3 N;
    if (hasNormalTex) {
        vec3 T  = normalize(fragTangent);
        vec3 B  = normalize(fragBitangent);
        vec3 Nv = normalize(fragNormal);
        mat3 TBN = mat3(T, B, Nv);
        N = normalize(TBN * (texture(normalTex, fragUV).rgb * 2.0 - 1.0));
    } else {
        N = normalize(fragNormal);
    }
    vec3 V = normalize(cameraPos - fragWorldPos);

    float metallic  = matMetallic;
    float roughness = clamp(matRoughness, 0.04, 1.0);
    vec3  albedo    = baseColor.rgb;
    vec3  F0        = mix(vec3(0.04), albedo, metallic);

    vec3 color = ambientColor * albedo * (1.0 - metallic);

    vec3 dirRad = lightColor * lightIntensity * PI;
    color += evalPBR(N, V, normalize(-lightDir), dirRad, albedo, metallic, roughness, F0);

    for (int i = 0; i < pointLightCount && i < MAX_POINT_LIGHTS; i++) {
        vec3  toLight = pointLightPos[i] - fragWorldPos;
        float atten   = 1.0;
        if (pointLightRange[i] > 0.0) {
            float dist  = length(toLight);
            float range = pointLightRange[i];
            atten = clamp(1.0 - (dist*dist)/(range*range), 0.0, 1.0);
            atten *= atten;
        }
        vec3 ptRad = pointLightColor[i] * pointLightIntensity[i] * atten * PI;
        color += evalPBR(N, V, normalize(toLight), ptRad, albedo, metallic, roughness, F0);
    }

    outColor = vec4(color, baseColor.a);
}
` + "\x00"

// ── NewRenderer ───────────────────────────────────────────────────────────────

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
// framebufferSize reports the window's framebuffer in pixels; when it differs
// from the viewport the frame is drawn off-screen and scaled on EndFrame.
func NewRenderer(framebufferSize func() (int, int), logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("main shader compile: %w", err)
	}

	overlay, err := newOverlay()
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		program:         prog,
		logger:          logger,
		framebufferSize: framebufferSize,
		overlay:         overlay,

		mvpLoc:   gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		modelLoc: gl.GetUniformLocation(prog, gl.Str("model\x00")),

		lightDirLoc:       gl.GetUniformLocation(prog, gl.Str("lightDir\x00")),
		lightColorLoc:     gl.GetUniformLocation(prog, gl.Str("lightColor\x00")),
		lightIntensityLoc: gl.GetUniformLocation(prog, gl.Str("lightIntensity\x00")),
		ambientColorLoc:   gl.GetUniformLocation(prog, gl.Str("ambientColor\x00")),

		pointLightCountLoc: gl.GetUniformLocation(prog, gl.Str("pointLightCount\x00")),
		cameraPosLoc:       gl.GetUniformLocation(prog, gl.Str("cameraPos\x00")),

		matAlbedoLoc:    gl.GetUniformLocation(prog, gl.Str("matAlbedo\x00")),
		matMetallicLoc:  gl.GetUniformLocation(prog, gl.Str("matMetallic\x00")),
		matRoughnessLoc: gl.GetUniformLocation(prog, gl.Str("matRoughness\x00")),
		unlitLoc:        gl.GetUniformLocation(prog, gl.Str("unlit\x00")),

		albedoTexLoc:    gl.GetUniformLocation(prog, gl.Str("albedoTex\x00")),
		hasTextureLoc:   gl.GetUniformLocation(prog, gl.Str("hasTexture\x00")),
		normalTexLoc:    gl.GetUniformLocation(prog, gl.Str("normalTex\x00")),
		hasNormalTexLoc: gl.GetUniformLocation(prog, gl.Str("hasNormalTex\x00")),

		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
	}

	for i := 0; i < maxPointLights; i++ {
		r.pointLightPosLoc[i] = gl.GetUniformLocation(prog,
			gl.Str(fmt.Sprintf("pointLightPos[%d]\x00", i)))
		r.pointLightColorLoc[i] = gl.GetUniformLocation(prog,
			gl.Str(fmt.Sprintf("pointLightColor[%d]\x00", i)))
		r.pointLightIntensityLoc[i] = gl.GetUniformLocation(prog,
			gl.Str(fmt.Sprintf("pointLightIntensity[%d]\x00", i)))
		r.pointLightRangeLoc[i] = gl.GetUniformLocation(prog,
			gl.Str(fmt.Sprintf("pointLightRange[%d]\x00", i)))
	}

	// Bind texture units: albedo=0, normalMap=2
	gl.UseProgram(prog)
	gl.Uniform1i(r.albedoTexLoc, 0)
	gl.Uniform1i(r.normalTexLoc, 2)

	return r, nil
}

// ── Viewport ──────────────────────────────────────────────────────────────────

// SetViewport sizes the drawing buffer.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// scaled reports whether the drawing buffer differs from the window framebuffer.
func (r *Renderer) scaled() (fbW, fbH int32, ok bool) {
	if r.framebufferSize == nil {
		return 0, 0, false
	}
	w, h := r.framebufferSize()
	fbW, fbH = int32(w), int32(h)
	return fbW, fbH, fbW != r.viewportW || fbH != r.viewportH
}

// ── Frame ─────────────────────────────────────────────────────────────────────

// BeginFrame clears the drawing buffer and sets per-frame lighting and camera
// uniforms.
func (r *Renderer) BeginFrame(clear core.Color, lights []*scene.Light, ambient core.Color, camPos math.Vec3) {
	var fbo uint32
	r.offscreen = false
	if _, _, ok := r.scaled(); ok {
		if err := r.ensureTarget(); err != nil {
			r.logger.Error("Off-screen target unavailable, drawing unscaled", "error", err)
			r.framebufferSize = nil
		} else {
			fbo = r.target.FBO
			r.offscreen = true
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.Uniform3f(r.ambientColorLoc, ambient.R, ambient.G, ambient.B)
	gl.Uniform3f(r.cameraPosLoc, camPos.X, camPos.Y, camPos.Z)

	// No directional light unless the scene has one.
	dirLight := math.Vec3{Y: -1}
	dirColor := core.ColorBlack
	dirIntensity := float32(0)

	pointIdx := 0
	for _, l := range lights {
		if l == nil {
			continue
		}
		switch l.Type {
		case scene.LightTypeDirectional:
			dirLight = l.Direction.Normalize()
			dirColor = l.Color
			dirIntensity = l.Intensity
		case scene.LightTypePoint:
			if pointIdx < maxPointLights {
				gl.Uniform3f(r.pointLightPosLoc[pointIdx], l.Position.X, l.Position.Y, l.Position.Z)
				gl.Uniform3f(r.pointLightColorLoc[pointIdx], l.Color.R, l.Color.G, l.Color.B)
				gl.Uniform1f(r.pointLightIntensityLoc[pointIdx], l.Intensity)
				gl.Uniform1f(r.pointLightRangeLoc[pointIdx], l.Range)
				pointIdx++
			}
		}
	}

	gl.Uniform3f(r.lightDirLoc, dirLight.X, dirLight.Y, dirLight.Z)
	gl.Uniform3f(r.lightColorLoc, dirColor.R, dirColor.G, dirColor.B)
	gl.Uniform1f(r.lightIntensityLoc, dirIntensity)
	gl.Uniform1i(r.pointLightCountLoc, int32(pointIdx))
}

// EndFrame presents an off-screen frame to the window framebuffer when the
// drawing buffer is scaled. Swapping is left to the window.
func (r *Renderer) EndFrame() {
	if !r.offscreen {
		return
	}
	fbW, fbH, _ := r.scaled()
	r.target.BlitTo(0, fbW, fbH)
}

func (r *Renderer) ensureTarget() error {
	if r.target == nil {
		t, err := NewRenderTarget(int(r.viewportW), int(r.viewportH))
		if err != nil {
			return err
		}
		r.target = t
		return nil
	}
	if r.target.Width != r.viewportW || r.target.Height != r.viewportH {
		return r.target.Resize(int(r.viewportW), int(r.viewportH))
	}
	return nil
}

// ── DrawMesh ──────────────────────────────────────────────────────────────────

// DrawMesh draws a mesh with the given MVP and model matrices.
// Material properties are read from mesh.Material.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))

	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)

	primitive := uint32(gl.TRIANGLES)
	if mesh.DrawMode == scene.DrawLines {
		primitive = gl.LINES
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(primitive, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

// DrawOverlay composites img over the frame at dst (top-left origin).
func (r *Renderer) DrawOverlay(img *image.RGBA, dst image.Rectangle, changed bool) {
	r.overlay.Draw(img, dst, changed, r.viewportW, r.viewportH)
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform3f(r.matAlbedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B)
	gl.Uniform1f(r.matMetallicLoc, mat.Metallic)
	gl.Uniform1f(r.matRoughnessLoc, mat.Roughness)
	if mat.Unlit {
		gl.Uniform1i(r.unlitLoc, 1)
	} else {
		gl.Uniform1i(r.unlitLoc, 0)
	}

	// Albedo texture (unit 0)
	if tex := r.ensureTexture(mat.AlbedoTexture); tex != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		gl.Uniform1i(r.hasTextureLoc, 1)
	} else {
		gl.Uniform1i(r.hasTextureLoc, 0)
	}

	// Normal map (unit 2)
	if nrm := r.ensureTexture(mat.NormalTexture); nrm != nil {
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, nrm.GLID)
		gl.Uniform1i(r.hasNormalTexLoc, 1)
	} else {
		gl.Uniform1i(r.hasNormalTexLoc, 0)
	}
}

// ensureTexture uploads tex on first use. It returns nil when there is
// nothing to bind.
func (r *Renderer) ensureTexture(tex *scene.Texture) *scene.Texture {
	if tex == nil {
		return nil
	}
	if tex.GLID == 0 {
		if err := UploadTexture(tex); err != nil {
			r.logger.Warn("Texture upload failed", "texture", tex.Name, "error", err)
			return nil
		}
	}
	return tex
}

// ── Resource management ───────────────────────────────────────────────────────

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		if mesh.Material != nil {
			DeleteTexture(mesh.Material.AlbedoTexture)
			DeleteTexture(mesh.Material.NormalTexture)
		}
		r.ReleaseMesh(mesh)
	}
	if r.target != nil {
		r.target.Destroy()
	}
	r.overlay.Destroy()
	gl.DeleteProgram(r.program)
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)},
		{3, unsafe.Offsetof(v.Normal)},
		{2, unsafe.Offsetof(v.UV)},
		{4, unsafe.Offsetof(v.Color)},
		{3, unsafe.Offsetof(v.Tangent)},
		{3, unsafe.Offsetof(v.Bitangent)},
	}
	for i, a := range attribs {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointer(uint32(i), a.size, gl.FLOAT, false, stride, gl.PtrOffset(int(a.offset)))
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
