package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Overlay draws an RGBA image as a screen-aligned quad on top of the frame.
type Overlay struct {
	prog    uint32
	rectLoc int32
	texLoc  int32
	vao     uint32
	tex     uint32
	texW    int
	texH    int
}

// overlayVertSrc: quad from gl_VertexID; rect is (x0, y0, x1, y1) in NDC.
const overlayVertSrc = `
#version 410 core
uniform vec4 rect;
out vec2 fragUV;
void main() {
    const vec2 corner[4] = vec2[4](
        vec2(0.0, 0.0),
        vec2(1.0, 0.0),
        vec2(0.0, 1.0),
        vec2(1.0, 1.0)
    );
    vec2 c = corner[gl_VertexID];
    gl_Position = vec4(mix(rect.xy, rect.zw, c), 0.0, 1.0);
    fragUV      = vec2(c.x, 1.0 - c.y);
}
` + "\x00"

const overlayFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;
uniform sampler2D overlayTex;
void main() {
    outColor = texture(overlayTex, fragUV);
}
` + "\x00"

func newOverlay() (*Overlay, error) {
	prog, err := newProgram(overlayVertSrc, overlayFragSrc)
	if err != nil {
		return nil, fmt.Errorf("overlay shader: %w", err)
	}
	o := &Overlay{
		prog:    prog,
		rectLoc: gl.GetUniformLocation(prog, gl.Str("rect\x00")),
		texLoc:  gl.GetUniformLocation(prog, gl.Str("overlayTex\x00")),
	}
	gl.UseProgram(prog)
	gl.Uniform1i(o.texLoc, 0)
	gl.GenVertexArrays(1, &o.vao)
	return o, nil
}

// Draw composites img at dst, given in top-left pixel coordinates of a
// viewport of size vw×vh. The texture is re-uploaded only when img changed
// or its size differs from the last upload.
func (o *Overlay) Draw(img *image.RGBA, dst image.Rectangle, changed bool, vw, vh int32) {
	if img == nil || dst.Empty() || vw <= 0 || vh <= 0 {
		return
	}
	if changed || o.tex == 0 || o.texW != img.Rect.Dx() || o.texH != img.Rect.Dy() {
		o.upload(img)
	}

	fw, fh := float32(vw), float32(vh)
	x0 := float32(dst.Min.X)/fw*2 - 1
	x1 := float32(dst.Max.X)/fw*2 - 1
	y0 := 1 - float32(dst.Max.Y)/fh*2
	y1 := 1 - float32(dst.Min.Y)/fh*2

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(o.prog)
	gl.Uniform4f(o.rectLoc, x0, y0, x1, y1)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.tex)
	gl.BindVertexArray(o.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (o *Overlay) upload(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	defer gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	pix := gl.Ptr(img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y):])
	if o.tex != 0 && o.texW == w && o.texH == h {
		gl.BindTexture(gl.TEXTURE_2D, o.tex)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h),
			gl.RGBA, gl.UNSIGNED_BYTE, pix)
		return
	}
	if o.tex != 0 {
		gl.DeleteTextures(1, &o.tex)
	}
	o.tex = allocTexture(gl.CLAMP_TO_EDGE, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, pix)
	o.texW, o.texH = w, h
}

// Destroy frees the overlay's GPU objects.
func (o *Overlay) Destroy() {
	if o.tex != 0 {
		gl.DeleteTextures(1, &o.tex)
		o.tex = 0
	}
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
		o.vao = 0
	}
	if o.prog != 0 {
		gl.DeleteProgram(o.prog)
		o.prog = 0
	}
}
