package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// RenderTarget is an off-screen colour+depth framebuffer sized to the
// drawing buffer. It is used when the drawing buffer and the window
// framebuffer disagree (pixel ratio capped below the display scale).
type RenderTarget struct {
	FBO      uint32
	ColorTex uint32
	DepthRB  uint32
	Width    int32
	Height   int32
}

// NewRenderTarget allocates a target of the given pixel size.
func NewRenderTarget(width, height int) (*RenderTarget, error) {
	t := &RenderTarget{}
	if err := t.alloc(width, height); err != nil {
		t.free()
		return nil, err
	}
	return t, nil
}

func (t *RenderTarget) alloc(width, height int) error {
	t.Width = int32(width)
	t.Height = int32(height)

	t.ColorTex = allocTexture(gl.CLAMP_TO_EDGE, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		t.Width, t.Height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &t.DepthRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.DepthRB)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.Width, t.Height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_2D, t.ColorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.RENDERBUFFER, t.DepthRB)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete (0x%X)", status)
	}
	return nil
}

func (t *RenderTarget) free() {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
		t.FBO = 0
	}
	if t.ColorTex != 0 {
		gl.DeleteTextures(1, &t.ColorTex)
		t.ColorTex = 0
	}
	if t.DepthRB != 0 {
		gl.DeleteRenderbuffers(1, &t.DepthRB)
		t.DepthRB = 0
	}
}

// Resize reallocates the target at the new pixel size.
func (t *RenderTarget) Resize(width, height int) error {
	t.free()
	return t.alloc(width, height)
}

// BlitTo scales the target's colour buffer onto fbo, covering (0,0)-(w,h).
func (t *RenderTarget) BlitTo(fbo uint32, w, h int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.FBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbo)
	gl.BlitFramebuffer(0, 0, t.Width, t.Height, 0, 0, w, h,
		gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

// Destroy frees the GPU objects.
func (t *RenderTarget) Destroy() {
	t.free()
}
