package rasterrenderer

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/ByLCY/layoutbox/layout"
)

func sampleResult() *layout.Result {
	fill := layout.Color{R: 255, G: 0, B: 0}
	return &layout.Result{
		Resources: layout.ResourceSet{
			Fonts: map[string]layout.FontResource{"Body": {Name: "Body", Src: "builtin:sans", Size: 14}},
		},
		Frames: []layout.Frame{
			{
				Name:   "A",
				Bounds: layout.NewRect(0, 0, 100, 60),
				Boxes: []layout.BoxResult{
					{Name: "red", Outer: layout.NewRect(0, 0, 100, 60), Rect: layout.NewRect(10, 10, 40, 20), Fill: &fill, Label: "hi"},
				},
			},
			{Name: "B", Bounds: layout.NewRect(0, 0, 80, 40)},
		},
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := NewRenderer(Options{Scale: 2, Outline: true}).Render(sampleResult())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 2*(60+16+40) {
		t.Fatalf("unexpected image size %dx%d", b.Dx(), b.Dy())
	}
	// 填充区域内部（避开描边与文字）应为红色。
	r, g, bl, _ := img.At(2*45, 2*27).RGBA()
	if r>>8 != 255 || g>>8 != 0 || bl>>8 != 0 {
		t.Fatalf("expected red fill, got %d,%d,%d", r>>8, g>>8, bl>>8)
	}
}

func TestMeasureText(t *testing.T) {
	r := NewRenderer(Options{})
	font := layout.FontResource{Src: "builtin:sans", Size: 14}
	one, err := r.MeasureText("hello", font, 0)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if one.Width <= 0 || one.Height <= 0 {
		t.Fatalf("expected positive size, got %+v", one)
	}
	two, err := r.MeasureText("hello\nhello", font, 0)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if math.Abs(two.Width-one.Width) > 1e-9 || math.Abs(two.Height-2*one.Height) > 1e-9 {
		t.Fatalf("expected two stacked lines, got %+v vs %+v", two, one)
	}
	if _, err := r.MeasureText("x", layout.FontResource{Src: "builtin:nope"}, 0); err == nil {
		t.Fatalf("expected error for unknown builtin font")
	}
}

func TestRenderRejectsEmpty(t *testing.T) {
	if _, err := NewRenderer(Options{}).Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}
