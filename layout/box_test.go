package layout

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newTestBox() *Box { return NewBox(NewRect(0, 0, 100, 100), nil) }

func assertSet(t *testing.T, b *Box, c Constraint, want bool) {
	t.Helper()
	if _, ok := b.Constraint(c); ok != want {
		t.Fatalf("constraint %s: set=%v, want %v (slots %v)", c, ok, want, b.Constraints())
	}
}

// 示例 1：left + width。
func TestLeftAndWidth(t *testing.T) {
	b := newTestBox()
	b.SetLeft(10)
	b.SetWidth(30)
	if got := b.LayoutLeft(); !approx(got, 10) {
		t.Fatalf("LayoutLeft = %g, want 10", got)
	}
	if got := b.LayoutWidth(); !approx(got, 30) {
		t.Fatalf("LayoutWidth = %g, want 30", got)
	}
	if got := b.LayoutRight(); !approx(got, 40) {
		t.Fatalf("LayoutRight = %g, want 40", got)
	}
	if got := b.LayoutRightInset(); !approx(got, 60) {
		t.Fatalf("LayoutRightInset = %g, want 60", got)
	}
}

// 示例 2：centerX + width。
func TestCenterXAndWidth(t *testing.T) {
	b := newTestBox()
	b.SetCenterX(50)
	b.SetWidth(20)
	if got := b.LayoutLeft(); !approx(got, 40) {
		t.Fatalf("LayoutLeft = %g, want 40", got)
	}
	if got := b.LayoutRight(); !approx(got, 60) {
		t.Fatalf("LayoutRight = %g, want 60", got)
	}
	if got := b.LayoutRightInset(); !approx(got, 40) {
		t.Fatalf("LayoutRightInset = %g, want 40", got)
	}
	assertSet(t, b, ConstraintCenterX, true)
}

// 示例 3：left + right 之后设置 width 会清除 left。
func TestWidthAfterLeftRightClearsLeft(t *testing.T) {
	b := newTestBox()
	b.SetLeft(10)
	b.SetRight(10)
	b.SetWidth(50)
	assertSet(t, b, ConstraintLeft, false)
	assertSet(t, b, ConstraintRight, true)
	assertSet(t, b, ConstraintWidth, true)
	if got := b.LayoutLeft(); !approx(got, 40) {
		t.Fatalf("LayoutLeft = %g, want 40 (100-10-50)", got)
	}
	if got := b.LayoutWidth(); !approx(got, 50) {
		t.Fatalf("LayoutWidth = %g, want 50", got)
	}
}

func TestTwoOfThreeHorizontalIdentity(t *testing.T) {
	b := NewBox(NewRect(0, 0, 200, 80), nil)
	b.SetLeft(15)
	b.SetRight(25)
	if got, want := b.LayoutWidth(), 200.0-25-15; !approx(got, want) {
		t.Fatalf("LayoutWidth = %g, want %g", got, want)
	}

	v := NewBox(NewRect(0, 0, 200, 80), nil)
	v.SetTop(5)
	v.SetBottom(20)
	if got, want := v.LayoutHeight(), 80.0-20-5; !approx(got, want) {
		t.Fatalf("LayoutHeight = %g, want %g", got, want)
	}
}

func TestInvalidationTable(t *testing.T) {
	cases := []struct {
		name    string
		apply   func(b *Box)
		cleared []Constraint
		kept    []Constraint
	}{
		{
			name:    "left clears centerX when width set",
			apply:   func(b *Box) { b.SetCenterX(50); b.SetWidth(20); b.SetLeft(5) },
			cleared: []Constraint{ConstraintCenterX},
			kept:    []Constraint{ConstraintWidth, ConstraintLeft},
		},
		{
			name:    "left clears width when right set",
			apply:   func(b *Box) { b.SetRight(5); b.SetWidth(20); b.SetLeft(5) },
			cleared: []Constraint{ConstraintWidth},
			kept:    []Constraint{ConstraintRight, ConstraintLeft},
		},
		{
			name:    "right clears width when left set",
			apply:   func(b *Box) { b.SetLeft(5); b.SetWidth(20); b.SetRight(5) },
			cleared: []Constraint{ConstraintWidth},
			kept:    []Constraint{ConstraintLeft, ConstraintRight},
		},
		{
			name:    "right clears centerX when width set",
			apply:   func(b *Box) { b.SetCenterX(50); b.SetWidth(20); b.SetRight(5) },
			cleared: []Constraint{ConstraintCenterX},
			kept:    []Constraint{ConstraintWidth, ConstraintRight},
		},
		{
			name:    "width clears left when both edges set",
			apply:   func(b *Box) { b.SetLeft(5); b.SetRight(5); b.SetWidth(20) },
			cleared: []Constraint{ConstraintLeft},
			kept:    []Constraint{ConstraintRight, ConstraintWidth},
		},
		{
			name:    "width clears centerX when an edge set",
			apply:   func(b *Box) { b.SetLeft(5); b.SetCenterX(50); b.SetWidth(20) },
			cleared: []Constraint{ConstraintCenterX},
			kept:    []Constraint{ConstraintLeft, ConstraintWidth},
		},
		{
			name:    "top clears height when bottom set",
			apply:   func(b *Box) { b.SetBottom(5); b.SetHeight(20); b.SetTop(5) },
			cleared: []Constraint{ConstraintHeight},
			kept:    []Constraint{ConstraintBottom, ConstraintTop},
		},
		{
			name:    "top clears centerY when height set",
			apply:   func(b *Box) { b.SetCenterY(50); b.SetHeight(20); b.SetTop(5) },
			cleared: []Constraint{ConstraintCenterY},
			kept:    []Constraint{ConstraintHeight, ConstraintTop},
		},
		{
			name:    "bottom clears height when top set",
			apply:   func(b *Box) { b.SetTop(5); b.SetHeight(20); b.SetBottom(5) },
			cleared: []Constraint{ConstraintHeight},
			kept:    []Constraint{ConstraintTop, ConstraintBottom},
		},
		{
			name: "left clears centerX and width in one call",
			apply: func(b *Box) {
				b.centerX, b.width, b.right = setTo(50), setTo(20), setTo(5)
				b.SetLeft(5)
			},
			cleared: []Constraint{ConstraintCenterX, ConstraintWidth},
			kept:    []Constraint{ConstraintRight, ConstraintLeft},
		},
		{
			name:    "bottom clears centerY when height set",
			apply:   func(b *Box) { b.SetCenterY(50); b.SetHeight(20); b.SetBottom(5) },
			cleared: []Constraint{ConstraintCenterY},
			kept:    []Constraint{ConstraintHeight, ConstraintBottom},
		},
		{
			name:    "height clears top when both edges set",
			apply:   func(b *Box) { b.SetTop(5); b.SetBottom(5); b.SetHeight(20) },
			cleared: []Constraint{ConstraintTop},
			kept:    []Constraint{ConstraintBottom, ConstraintHeight},
		},
		{
			name:    "height clears centerY when an edge set",
			apply:   func(b *Box) { b.SetBottom(5); b.SetCenterY(50); b.SetHeight(20) },
			cleared: []Constraint{ConstraintCenterY},
			kept:    []Constraint{ConstraintBottom, ConstraintHeight},
		},
		{
			name:    "centerX clears width when one edge set",
			apply:   func(b *Box) { b.SetLeft(5); b.SetWidth(20); b.SetCenterX(50) },
			cleared: []Constraint{ConstraintWidth},
			kept:    []Constraint{ConstraintLeft, ConstraintCenterX},
		},
		{
			name:    "centerY clears height when one edge set",
			apply:   func(b *Box) { b.SetTop(5); b.SetHeight(20); b.SetCenterY(50) },
			cleared: []Constraint{ConstraintHeight},
			kept:    []Constraint{ConstraintTop, ConstraintCenterY},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newTestBox()
			c.apply(b)
			for _, k := range c.cleared {
				assertSet(t, b, k, false)
			}
			for _, k := range c.kept {
				assertSet(t, b, k, true)
			}
		})
	}
}

func TestCenterXDerivesWidthFromEdges(t *testing.T) {
	b := newTestBox()
	b.SetLeft(20)
	b.SetRight(70)
	b.SetCenterX(50)
	assertSet(t, b, ConstraintLeft, false)
	assertSet(t, b, ConstraintRight, false)
	if got := b.LayoutWidth(); !approx(got, 50) {
		t.Fatalf("LayoutWidth = %g, want right-left = 50", got)
	}
	if got := b.LayoutLeft(); !approx(got, 25) {
		t.Fatalf("LayoutLeft = %g, want 25", got)
	}
}

// 纵向推导使用外框高度，与横向规则不同。
func TestCenterYDerivesHeightFromBounds(t *testing.T) {
	b := NewBox(NewRect(0, 0, 100, 200), nil)
	b.SetTop(20)
	b.SetBottom(30)
	b.SetCenterY(100)
	assertSet(t, b, ConstraintTop, false)
	assertSet(t, b, ConstraintBottom, false)
	if got := b.LayoutHeight(); !approx(got, 150) {
		t.Fatalf("LayoutHeight = %g, want 200-30-20 = 150", got)
	}
}

func TestGetterFallbacks(t *testing.T) {
	b := NewBox(NewRect(10, 10, 100, 100), nil)
	if got := b.LayoutWidth(); got != 0 {
		t.Fatalf("LayoutWidth = %g, want 0", got)
	}
	if got := b.LayoutLeft(); got != 0 {
		t.Fatalf("LayoutLeft = %g, want 0", got)
	}
	if got := b.LayoutRight(); got != 0 {
		t.Fatalf("LayoutRight = %g, want 0", got)
	}
	if got := b.LayoutTop(); got != 0 {
		t.Fatalf("LayoutTop = %g, want 0", got)
	}
	if got := b.LayoutBottom(); got != NotSet {
		t.Fatalf("LayoutBottom = %g, want NotSet", got)
	}
	if got := b.LayoutBottomInset(); got != NotSet {
		t.Fatalf("LayoutBottomInset = %g, want NotSet", got)
	}
}

func TestCenterWithEdgeDerivesSize(t *testing.T) {
	b := newTestBox()
	b.SetLeft(20)
	b.SetCenterX(50)
	if got := b.LayoutWidth(); !approx(got, 60) {
		t.Fatalf("LayoutWidth = %g, want (50-20)*2", got)
	}
	b.SetTop(10)
	b.SetCenterY(30)
	if got := b.LayoutHeight(); !approx(got, 40) {
		t.Fatalf("LayoutHeight = %g, want (30-10)*2", got)
	}
}

func TestEdgesUseOuterOrigin(t *testing.T) {
	b := NewBox(NewRect(50, 100, 200, 300), nil)
	b.SetRight(10)
	b.SetWidth(40)
	b.SetBottom(20)
	b.SetHeight(60)
	want := NewRect(200, 320, 40, 60)
	if got := b.LayoutBounds(); got != want {
		t.Fatalf("LayoutBounds = %+v, want %+v", got, want)
	}
	if got := b.LayoutBottom(); !approx(got, 380) {
		t.Fatalf("LayoutBottom = %g, want 380", got)
	}
	if got := b.LayoutBottomInset(); !approx(got, 20) {
		t.Fatalf("LayoutBottomInset = %g, want 20", got)
	}
	c := b.LayoutCenter()
	if !approx(c.X, 220) || !approx(c.Y, 350) {
		t.Fatalf("LayoutCenter = %+v", c)
	}
}

func TestGettersAreIdempotent(t *testing.T) {
	b := newTestBox()
	b.SetLeft(3)
	b.SetCenterX(40)
	b.SetTop(7)
	b.SetHeight(11)
	before := b.Constraints()
	first := b.LayoutBounds()
	second := b.LayoutBounds()
	if first != second {
		t.Fatalf("LayoutBounds changed between reads: %+v vs %+v", first, second)
	}
	if b.LayoutSize() != b.LayoutSize() || b.LayoutCenter() != b.LayoutCenter() {
		t.Fatalf("size/center reads differ")
	}
	after := b.Constraints()
	if len(before) != len(after) {
		t.Fatalf("getters changed slots: %v -> %v", before, after)
	}
	for k, v := range before {
		if after[k] != v {
			t.Fatalf("slot %s changed from %g to %g", k, v, after[k])
		}
	}
}

func TestLogicalSettersUseUnit(t *testing.T) {
	b := NewBox(NewRect(0, 0, 400, 400), DensityUnit{Scale: 2})
	b.SetLeft(10)
	b.SetWidthPx(Px(30))
	if got := b.LayoutLeft(); !approx(got, 20) {
		t.Fatalf("LayoutLeft = %g, want 20", got)
	}
	if got := b.LayoutWidth(); !approx(got, 30) {
		t.Fatalf("LayoutWidth = %g, want 30 (absolute pixels)", got)
	}
	if b.Unit() == nil {
		t.Fatalf("unit should never be nil")
	}
	if NewBox(Rect{}, nil).Unit() != Identity {
		t.Fatalf("nil unit should default to Identity")
	}
}

func TestConstraintString(t *testing.T) {
	if ConstraintCenterY.String() != "centerY" {
		t.Fatalf("unexpected name %q", ConstraintCenterY.String())
	}
	if Constraint(42).String() != "unknown" {
		t.Fatalf("out-of-range constraint should be unknown")
	}
}

// 底边恰好落在 -1 时仍视为已解析。
func TestBottomInsetAtMinusOne(t *testing.T) {
	b := NewBox(NewRect(0, -50, 100, 100), nil).Top(0).Height(49)
	if got := b.LayoutBottom(); !approx(got, -1) {
		t.Fatalf("LayoutBottom = %g, want -1", got)
	}
	if got := b.LayoutBottomInset(); !approx(got, 51) {
		t.Fatalf("LayoutBottomInset = %g, want 51", got)
	}
}
