package arena

import (
	"ring-arena/panel"
	"ring-arena/scene"
)

// Pointer and keyboard input in logical window coordinates. The panel sees
// events first; whatever it does not capture goes to the orbit controls.

func (c *Context) PointerDown(button int, x, y float64) {
	if button == scene.ButtonLeft && c.Panel.PointerDown(x, y) {
		c.panelGrab = true
		return
	}
	if c.Panel.Contains(x, y) {
		return
	}
	c.Controls.PointerDown(button, x, y)
}

func (c *Context) PointerMove(x, y float64) {
	if c.panelGrab {
		c.Panel.PointerMove(x, y)
		return
	}
	c.Controls.PointerMove(x, y)
}

func (c *Context) PointerUp(button int) {
	if c.panelGrab {
		c.Panel.PointerUp()
		c.panelGrab = false
		return
	}
	c.Controls.PointerUp(button)
}

// Wheel dollies the camera unless the pointer is over the panel.
func (c *Context) Wheel(x, y, yoff float64) {
	if c.Panel.Contains(x, y) {
		return
	}
	c.Controls.Wheel(yoff)
}

// Key forwards a navigation key to the panel and reports whether it was used.
func (c *Context) Key(k panel.Key, shift bool) bool {
	if k == panel.KeyNone {
		return false
	}
	return c.Panel.Key(k, shift)
}
