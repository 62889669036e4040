package scene

import "fyne.io/fyne/v2"

// HitTest returns the index of the top-most draggable drawable under p.
func HitTest(ds []Drawable, p fyne.Position) (int, bool) {
	for i := len(ds) - 1; i >= 0; i-- {
		if ds[i].Drag != DragNone && Contains(ds[i], p) {
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether p lies inside the drawable's filled area.
// Segments have no area.
func Contains(d Drawable, p fyne.Position) bool {
	switch d.Prim {
	case PrimRect:
		return p.X >= d.Pos.X && p.X <= d.Pos.X+d.Size.Width &&
			p.Y >= d.Pos.Y && p.Y <= d.Pos.Y+d.Size.Height
	case PrimCircle, PrimHandle:
		dx, dy := p.X-d.Pos.X, p.Y-d.Pos.Y
		return dx*dx+dy*dy <= d.Radius*d.Radius
	}
	return false
}

// Bounds returns the top-left corner and size of the drawable's box.
func Bounds(d Drawable) (fyne.Position, fyne.Size) {
	switch d.Prim {
	case PrimCircle, PrimHandle:
		return fyne.NewPos(d.Pos.X-d.Radius, d.Pos.Y-d.Radius), fyne.NewSquareSize(2 * d.Radius)
	case PrimSegment:
		minX, maxX := d.Pos.X, d.To.X
		if minX > maxX {
			minX, maxX = maxX, minX
		}
		minY, maxY := d.Pos.Y, d.To.Y
		if minY > maxY {
			minY, maxY = maxY, minY
		}
		return fyne.NewPos(minX, minY), fyne.NewSize(maxX-minX, maxY-minY)
	}
	return d.Pos, d.Size
}
