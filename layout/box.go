package layout

// NotSet is returned by LayoutBottom (and LayoutBottomInset) when the vertical axis
// cannot be resolved. The other edges fall back to 0 instead.
const NotSet = -1.0

// Constraint names one of the eight optional slots of a Box.
type Constraint int

const (
	ConstraintLeft Constraint = iota
	ConstraintRight
	ConstraintTop
	ConstraintBottom
	ConstraintWidth
	ConstraintHeight
	ConstraintCenterX
	ConstraintCenterY
)

var constraintNames = [...]string{"left", "right", "top", "bottom", "width", "height", "centerX", "centerY"}

func (c Constraint) String() string {
	if c < 0 || int(c) >= len(constraintNames) {
		return "unknown"
	}
	return constraintNames[c]
}

// AllConstraints lists the slots in declaration order.
var AllConstraints = []Constraint{
	ConstraintLeft, ConstraintRight, ConstraintTop, ConstraintBottom,
	ConstraintWidth, ConstraintHeight, ConstraintCenterX, ConstraintCenterY,
}

type slot struct {
	value Pixel
	set   bool
}

func (s slot) v() float64 { return float64(s.value) }

func setTo(p Pixel) slot { return slot{value: p, set: true} }

// Box resolves the geometry of one rectangle against a fixed outer rectangle.
//
// Edges are stored as insets from the matching outer edge, centers as offsets from the
// outer left/top edge. Setters drop previously set slots that the new value makes
// redundant; getters derive absolute geometry and never modify the slots.
//
// A Box is meant for a single layout pass and is not safe for concurrent use.
type Box struct {
	bounds Rect
	unit   Unit

	left, right, top, bottom slot
	width, height            slot
	centerX, centerY         slot
}

// NewBox creates a box relative to outer. A nil unit means Identity.
func NewBox(outer Rect, unit Unit) *Box {
	if unit == nil {
		unit = Identity
	}
	return &Box{bounds: outer, unit: unit}
}

// Bounds returns the outer rectangle.
func (b *Box) Bounds() Rect { return b.bounds }

// Unit returns the provider used for logical values.
func (b *Box) Unit() Unit { return b.unit }

func (b *Box) slot(c Constraint) *slot {
	switch c {
	case ConstraintLeft:
		return &b.left
	case ConstraintRight:
		return &b.right
	case ConstraintTop:
		return &b.top
	case ConstraintBottom:
		return &b.bottom
	case ConstraintWidth:
		return &b.width
	case ConstraintHeight:
		return &b.height
	case ConstraintCenterX:
		return &b.centerX
	case ConstraintCenterY:
		return &b.centerY
	}
	return nil
}

// Constraint reports the stored value of a slot and whether it is set.
func (b *Box) Constraint(c Constraint) (Pixel, bool) {
	s := b.slot(c)
	if s == nil || !s.set {
		return 0, false
	}
	return s.value, true
}

// Constraints returns a copy of every set slot.
func (b *Box) Constraints() map[Constraint]Pixel {
	out := make(map[Constraint]Pixel, len(AllConstraints))
	for _, c := range AllConstraints {
		if v, ok := b.Constraint(c); ok {
			out[c] = v
		}
	}
	return out
}

// SetLeftPx sets the left inset, dropping centerX or width when the axis would be over-constrained.
func (b *Box) SetLeftPx(l Pixel) {
	if b.centerX.set && b.width.set {
		b.centerX = slot{}
	}
	if b.right.set && b.width.set {
		b.width = slot{}
	}
	b.left = setTo(l)
}

// SetLeft sets the left inset in logical units.
func (b *Box) SetLeft(l float64) { b.SetLeftPx(b.unit.ToPixels(l)) }

// SetRightPx sets the right inset, dropping centerX or width on conflict.
func (b *Box) SetRightPx(r Pixel) {
	if b.centerX.set && b.width.set {
		b.centerX = slot{}
	}
	if b.left.set && b.width.set {
		b.width = slot{}
	}
	b.right = setTo(r)
}

// SetRight sets the right inset in logical units.
func (b *Box) SetRight(r float64) { b.SetRightPx(b.unit.ToPixels(r)) }

// SetTopPx sets the top inset, dropping centerY or height on conflict.
func (b *Box) SetTopPx(t Pixel) {
	if b.centerY.set && b.height.set {
		b.centerY = slot{}
	}
	if b.bottom.set && b.height.set {
		b.height = slot{}
	}
	b.top = setTo(t)
}

// SetTop sets the top inset in logical units.
func (b *Box) SetTop(t float64) { b.SetTopPx(b.unit.ToPixels(t)) }

// SetBottomPx sets the bottom inset, dropping centerY or height on conflict.
func (b *Box) SetBottomPx(v Pixel) {
	if b.centerY.set && b.height.set {
		b.centerY = slot{}
	}
	if b.top.set && b.height.set {
		b.height = slot{}
	}
	b.bottom = setTo(v)
}

// SetBottom sets the bottom inset in logical units.
func (b *Box) SetBottom(v float64) { b.SetBottomPx(b.unit.ToPixels(v)) }

// SetWidthPx sets the width. With both edges set the left inset is dropped.
func (b *Box) SetWidthPx(w Pixel) {
	if b.left.set && b.right.set {
		b.left = slot{}
	}
	if b.centerX.set && (b.left.set || b.right.set) {
		b.centerX = slot{}
	}
	b.width = setTo(w)
}

// SetWidth sets the width in logical units.
func (b *Box) SetWidth(w float64) { b.SetWidthPx(b.unit.ToPixels(w)) }

// SetHeightPx sets the height. With both edges set the top inset is dropped.
func (b *Box) SetHeightPx(h Pixel) {
	if b.top.set && b.bottom.set {
		b.top = slot{}
	}
	if b.centerY.set && (b.top.set || b.bottom.set) {
		b.centerY = slot{}
	}
	b.height = setTo(h)
}

// SetHeight sets the height in logical units.
func (b *Box) SetHeight(h float64) { b.SetHeightPx(b.unit.ToPixels(h)) }

// SetCenterXPx turns a left/right pair into a width of right-left before storing the
// center.
func (b *Box) SetCenterXPx(cx Pixel) {
	if b.left.set && b.right.set {
		b.width = setTo(Pixel(b.right.v() - b.left.v()))
		b.left, b.right = slot{}, slot{}
	}
	if (b.left.set || b.right.set) && b.width.set {
		b.width = slot{}
	}
	b.centerX = setTo(cx)
}

// SetCenterX sets the horizontal center in logical units.
func (b *Box) SetCenterX(cx float64) { b.SetCenterXPx(b.unit.ToPixels(cx)) }

// SetCenterYPx turns a top/bottom pair into the height they span inside the outer
// rectangle. Unlike SetCenterXPx the outer height takes part in the derivation.
func (b *Box) SetCenterYPx(cy Pixel) {
	if b.top.set && b.bottom.set {
		b.height = setTo(Pixel(b.bounds.Height - b.bottom.v() - b.top.v()))
		b.top, b.bottom = slot{}, slot{}
	}
	if (b.top.set || b.bottom.set) && b.height.set {
		b.height = slot{}
	}
	b.centerY = setTo(cy)
}

// SetCenterY sets the vertical center in logical units.
func (b *Box) SetCenterY(cy float64) { b.SetCenterYPx(b.unit.ToPixels(cy)) }

// LayoutWidth is the resolved width, 0 when the horizontal axis is under-constrained.
func (b *Box) LayoutWidth() float64 {
	switch {
	case b.width.set:
		return b.width.v()
	case b.left.set && b.right.set:
		return b.bounds.Width - b.right.v() - b.left.v()
	case b.centerX.set && b.left.set:
		return (b.centerX.v() - b.left.v()) * 2
	case b.centerX.set && b.right.set:
		return (b.centerX.v() - b.right.v()) * 2
	}
	return 0
}

// LayoutHeight is the resolved height, 0 when the vertical axis is under-constrained.
func (b *Box) LayoutHeight() float64 {
	switch {
	case b.height.set:
		return b.height.v()
	case b.top.set && b.bottom.set:
		return b.bounds.Height - b.bottom.v() - b.top.v()
	case b.centerY.set && b.top.set:
		return (b.centerY.v() - b.top.v()) * 2
	case b.centerY.set && b.bottom.set:
		return (b.centerY.v() - b.bottom.v()) * 2
	}
	return 0
}

// LayoutLeft is the absolute left edge.
func (b *Box) LayoutLeft() float64 {
	switch {
	case b.left.set:
		return b.bounds.Left() + b.left.v()
	case b.centerX.set && b.width.set:
		return b.bounds.Left() + b.centerX.v() - b.width.v()/2
	case b.right.set && b.width.set:
		return b.bounds.Right() - b.right.v() - b.width.v()
	}
	return 0
}

// LayoutRight is the absolute right edge.
func (b *Box) LayoutRight() float64 {
	switch {
	case b.right.set:
		return b.bounds.Right() - b.right.v()
	case b.centerX.set && b.width.set:
		return b.bounds.Left() + b.centerX.v() + b.width.v()/2
	case b.left.set && b.width.set:
		return b.bounds.Left() + b.left.v() + b.width.v()
	}
	return 0
}

// LayoutTop is the absolute top edge.
func (b *Box) LayoutTop() float64 {
	switch {
	case b.top.set:
		return b.bounds.Top() + b.top.v()
	case b.centerY.set && b.height.set:
		return b.bounds.Top() + b.centerY.v() - b.height.v()/2
	case b.bottom.set && b.height.set:
		return b.bounds.Bottom() - b.bottom.v() - b.height.v()
	}
	return 0
}

// LayoutBottom is the absolute bottom edge, or NotSet when it cannot be derived.
func (b *Box) LayoutBottom() float64 {
	switch {
	case b.bottom.set:
		return b.bounds.Bottom() - b.bottom.v()
	case b.centerY.set && b.height.set:
		return b.bounds.Top() + b.centerY.v() + b.height.v()/2
	case b.top.set && b.height.set:
		return b.bounds.Top() + b.top.v() + b.height.v()
	}
	return NotSet
}

// LayoutRightInset is the distance between the outer right edge and LayoutRight.
func (b *Box) LayoutRightInset() float64 {
	return b.bounds.Right() - b.LayoutRight()
}

// LayoutBottomInset is the distance between the outer bottom edge and LayoutBottom.
// Resolvedness comes from the slots, so a real edge at -1 is still reported.
func (b *Box) LayoutBottomInset() float64 {
	if !b.bottomResolved() {
		return NotSet
	}
	return b.bounds.Bottom() - b.LayoutBottom()
}

func (b *Box) bottomResolved() bool {
	return b.bottom.set || (b.height.set && (b.top.set || b.centerY.set))
}

// LayoutCenter is the absolute center point.
func (b *Box) LayoutCenter() Point {
	return Point{
		X: b.LayoutLeft() + b.LayoutWidth()/2,
		Y: b.LayoutTop() + b.LayoutHeight()/2,
	}
}

// LayoutSize is the resolved width and height.
func (b *Box) LayoutSize() Size {
	return Size{Width: b.LayoutWidth(), Height: b.LayoutHeight()}
}

// LayoutBounds composes the resolved rectangle in outer coordinates.
func (b *Box) LayoutBounds() Rect {
	return Rect{X: b.LayoutLeft(), Y: b.LayoutTop(), Width: b.LayoutWidth(), Height: b.LayoutHeight()}
}
