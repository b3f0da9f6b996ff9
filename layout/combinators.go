package layout

// Combinators only go through the public setters, getters and Bounds of a Box and return
// the same box so that calls can be chained:
//
//	r := NewBox(outer, unit).Left(16).Right(16).Below(header, 8).Height(48).LayoutBounds()

// CenterHorizontallyPx centers the box on the outer rectangle shifted by dx.
func (b *Box) CenterHorizontallyPx(dx Pixel) *Box {
	b.SetCenterXPx(Pixel(b.bounds.Width/2 + dx.Value()))
	return b
}

// CenterHorizontally is CenterHorizontallyPx with dx in logical units.
func (b *Box) CenterHorizontally(dx float64) *Box {
	return b.CenterHorizontallyPx(b.unit.ToPixels(dx))
}

// CenterVerticallyPx centers the box on the outer rectangle shifted by dy.
func (b *Box) CenterVerticallyPx(dy Pixel) *Box {
	b.SetCenterYPx(Pixel(b.bounds.Height/2 + dy.Value()))
	return b
}

// CenterVertically is CenterVerticallyPx with dy in logical units.
func (b *Box) CenterVertically(dy float64) *Box {
	return b.CenterVerticallyPx(b.unit.ToPixels(dy))
}

// Left sets the left inset in logical units.
func (b *Box) Left(l float64) *Box { b.SetLeft(l); return b }

// LeftPx sets the left inset in pixels.
func (b *Box) LeftPx(l Pixel) *Box { b.SetLeftPx(l); return b }

// Right sets the right inset in logical units.
func (b *Box) Right(r float64) *Box { b.SetRight(r); return b }

// RightPx sets the right inset in pixels.
func (b *Box) RightPx(r Pixel) *Box { b.SetRightPx(r); return b }

// Top sets the top inset in logical units.
func (b *Box) Top(t float64) *Box { b.SetTop(t); return b }

// TopPx sets the top inset in pixels.
func (b *Box) TopPx(t Pixel) *Box { b.SetTopPx(t); return b }

// Bottom sets the bottom inset in logical units.
func (b *Box) Bottom(v float64) *Box { b.SetBottom(v); return b }

// BottomPx sets the bottom inset in pixels.
func (b *Box) BottomPx(v Pixel) *Box { b.SetBottomPx(v); return b }

// Width sets the width in logical units.
func (b *Box) Width(w float64) *Box { b.SetWidth(w); return b }

// WidthPx sets the width in pixels.
func (b *Box) WidthPx(w Pixel) *Box { b.SetWidthPx(w); return b }

// Height sets the height in logical units.
func (b *Box) Height(h float64) *Box { b.SetHeight(h); return b }

// HeightPx sets the height in pixels.
func (b *Box) HeightPx(h Pixel) *Box { b.SetHeightPx(h); return b }

// BeforePx places the box to the left of ref, d pixels away. ref is in the same
// coordinate space as the outer rectangle.
func (b *Box) BeforePx(ref Rect, d Pixel) *Box {
	b.SetRightPx(Pixel(b.bounds.Right() - ref.Left() + d.Value()))
	return b
}

// Before is BeforePx in logical units.
func (b *Box) Before(ref Rect, d float64) *Box { return b.BeforePx(ref, b.unit.ToPixels(d)) }

// AfterPx places the box to the right of ref, d pixels away.
func (b *Box) AfterPx(ref Rect, d Pixel) *Box {
	b.SetLeftPx(Pixel(ref.Right() - b.bounds.Left() + d.Value()))
	return b
}

// After is AfterPx in logical units.
func (b *Box) After(ref Rect, d float64) *Box { return b.AfterPx(ref, b.unit.ToPixels(d)) }

// BelowPx places the box under ref, d pixels away.
func (b *Box) BelowPx(ref Rect, d Pixel) *Box {
	b.SetTopPx(Pixel(ref.Bottom() - b.bounds.Top() + d.Value()))
	return b
}

// Below is BelowPx in logical units.
func (b *Box) Below(ref Rect, d float64) *Box { return b.BelowPx(ref, b.unit.ToPixels(d)) }

// AbovePx places the box over ref, d pixels away.
func (b *Box) AbovePx(ref Rect, d Pixel) *Box {
	b.SetBottomPx(Pixel(b.bounds.Bottom() - ref.Top() + d.Value()))
	return b
}

// Above is AbovePx in logical units.
func (b *Box) Above(ref Rect, d float64) *Box { return b.AbovePx(ref, b.unit.ToPixels(d)) }

// MinWidthPx raises the width to mw when the resolved width is smaller. The check uses
// the width resolved at call time, so later size setters are not clamped.
func (b *Box) MinWidthPx(mw Pixel) *Box {
	if b.LayoutWidth() < mw.Value() {
		b.SetWidthPx(mw)
	}
	return b
}

// MinWidth is MinWidthPx in logical units.
func (b *Box) MinWidth(mw float64) *Box { return b.MinWidthPx(b.unit.ToPixels(mw)) }

// MaxWidthPx lowers the width to mw when the resolved width is larger.
func (b *Box) MaxWidthPx(mw Pixel) *Box {
	if b.LayoutWidth() > mw.Value() {
		b.SetWidthPx(mw)
	}
	return b
}

// MaxWidth is MaxWidthPx in logical units.
func (b *Box) MaxWidth(mw float64) *Box { return b.MaxWidthPx(b.unit.ToPixels(mw)) }

// MinHeightPx raises the height to mh when the resolved height is smaller.
func (b *Box) MinHeightPx(mh Pixel) *Box {
	if b.LayoutHeight() < mh.Value() {
		b.SetHeightPx(mh)
	}
	return b
}

// MinHeight is MinHeightPx in logical units.
func (b *Box) MinHeight(mh float64) *Box { return b.MinHeightPx(b.unit.ToPixels(mh)) }

// MaxHeightPx lowers the height to mh when the resolved height is larger.
func (b *Box) MaxHeightPx(mh Pixel) *Box {
	if b.LayoutHeight() > mh.Value() {
		b.SetHeightPx(mh)
	}
	return b
}

// MaxHeight is MaxHeightPx in logical units.
func (b *Box) MaxHeight(mh float64) *Box { return b.MaxHeightPx(b.unit.ToPixels(mh)) }
