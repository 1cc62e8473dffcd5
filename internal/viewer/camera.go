// Package viewer renders a roadmap/path snapshot with Gio: a pan/zoom
// inspector window, not part of the planning core.
package viewer

import (
	"gioui.org/io/pointer"
)

// Camera manages the view transform (pan and zoom) between world
// metres and screen pixels.
type Camera struct {
	OffsetX float32
	OffsetY float32
	Zoom    float32

	dragging   bool
	dragStartX float32
	dragStartY float32
	lastX      float32
	lastY      float32
}

// NewCamera creates a camera centred with a modest default zoom,
// suitable for a roadmap spanning a few metres.
func NewCamera() *Camera {
	return &Camera{
		OffsetX: 400,
		OffsetY: 300,
		Zoom:    80,
	}
}

// Reset restores the default view.
func (c *Camera) Reset() {
	c.OffsetX = 400
	c.OffsetY = 300
	c.Zoom = 80
}

// WorldToScreen converts world metres to screen pixels.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	screenX = float32(worldX)*c.Zoom + c.OffsetX
	screenY = -float32(worldY)*c.Zoom + c.OffsetY
	return
}

// ScreenToWorld converts screen pixels back to world metres.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	worldX = float64((screenX - c.OffsetX) / c.Zoom)
	worldY = float64(-(screenY - c.OffsetY) / c.Zoom)
	return
}

// HandleEvent applies a pointer event's effect on pan/zoom.
func (c *Camera) HandleEvent(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
			c.dragStartX = ev.Position.X
			c.dragStartY = ev.Position.Y
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.OffsetX += ev.Position.X - c.lastX
			c.OffsetY += ev.Position.Y - c.lastY
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		if ev.Scroll.Y == 0 {
			return
		}
		worldX, worldY := c.ScreenToWorld(ev.Position.X, ev.Position.Y)

		zoomFactor := float32(1.1)
		if ev.Scroll.Y > 0 {
			c.Zoom /= zoomFactor
		} else {
			c.Zoom *= zoomFactor
		}
		if c.Zoom < 5 {
			c.Zoom = 5
		}
		if c.Zoom > 2000 {
			c.Zoom = 2000
		}

		newScreenX, newScreenY := c.WorldToScreen(worldX, worldY)
		c.OffsetX += ev.Position.X - newScreenX
		c.OffsetY += ev.Position.Y - newScreenY
	}
}

// FitBounds adjusts the camera to frame a world-space bounding box.
func (c *Camera) FitBounds(minX, minY, maxX, maxY float64, screenWidth, screenHeight, margin float32) {
	worldW := maxX - minX
	worldH := maxY - minY
	if worldW <= 0 || worldH <= 0 {
		return
	}

	availW := screenWidth - 2*margin
	availH := screenHeight - 2*margin

	zoomX := availW / float32(worldW)
	zoomY := availH / float32(worldH)
	c.Zoom = zoomX
	if zoomY < zoomX {
		c.Zoom = zoomY
	}
	if c.Zoom < 5 {
		c.Zoom = 5
	}
	if c.Zoom > 2000 {
		c.Zoom = 2000
	}

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	c.OffsetX = screenWidth/2 - float32(centerX)*c.Zoom
	c.OffsetY = screenHeight/2 + float32(centerY)*c.Zoom
}
