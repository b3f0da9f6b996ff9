package canvasrenderer

import (
	"bytes"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/layoutbox/layout"
)

func sampleResult() *layout.Result {
	accent := layout.Color{R: 15, G: 98, B: 254}
	return &layout.Result{
		Meta: layout.DocumentMeta{Title: "Sample", Keywords: []string{"a", "b"}},
		Resources: layout.ResourceSet{
			Fonts: map[string]layout.FontResource{"Body": {Name: "Body", Src: "builtin:sans", Size: 14}},
		},
		Frames: []layout.Frame{
			{
				Name:   "Phone",
				Bounds: layout.NewRect(0, 0, 360, 640),
				Boxes: []layout.BoxResult{
					{Name: "header", Outer: layout.NewRect(0, 0, 360, 640), Rect: layout.NewRect(0, 0, 360, 56), Fill: &accent},
					{Name: "title", Outer: layout.NewRect(0, 0, 360, 56), Rect: layout.NewRect(16, 16, 200, 24), Label: "Hello"},
				},
			},
			{
				Name:   "Tablet",
				Bounds: layout.NewRect(100, 100, 800, 600),
				Boxes: []layout.BoxResult{
					{Name: "body", Outer: layout.NewRect(100, 100, 800, 600), Rect: layout.NewRect(110, 110, 300, 100), Label: "multi\nline"},
				},
			},
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRendererWithOptions(Options{Outline: true, ShowOuter: true})
	data, err := r.Render(sampleResult())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without frames")
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]bool{"": false, "bold": true, "Semibold Italic": true}
	for style, nonRegular := range cases {
		if got := parseFontStyle(style) != canvas.FontRegular; got != nonRegular {
			t.Fatalf("parseFontStyle(%q) non-regular=%v, want %v", style, got, nonRegular)
		}
	}
}
