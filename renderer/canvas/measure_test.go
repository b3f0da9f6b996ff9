package canvasrenderer

import (
	"math"
	"testing"

	"github.com/ByLCY/layoutbox/layout"
)

// 每个字符宽 10px，便于断言换行结果。
func fixedWidth(s string) float64 { return float64(len([]rune(s))) * 10 }

func TestWrapTextGreedy(t *testing.T) {
	lines := wrapText("hello world again", 100, fixedWidth, "")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Content != "hello " || lines[0].Width != 60 {
		t.Fatalf("unexpected first line %+v", lines[0])
	}
}

func TestWrapTextHonorsNewlines(t *testing.T) {
	lines := wrapText("foo\n\nbar", 1000, fixedWidth, "")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestWrapTextNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	first := "SAMPLE-A"
	lines := wrapText(first+"\nSAMPLE-B", fixedWidth(first), fixedWidth, "")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines without blank, got %d: %+v", len(lines), lines)
	}
	if lines[0].Content != first || lines[1].Content != "SAMPLE-B" {
		t.Fatalf("unexpected lines %+v", lines)
	}
}

func TestWrapTextWidthLimit(t *testing.T) {
	lines := wrapText("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 75, fixedWidth, "")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if ln.Width > 75 {
			t.Fatalf("line %d width exceeds limit: %g", i, ln.Width)
		}
	}
}

func TestWrapTextModes(t *testing.T) {
	if lines := wrapText("one two three", 30, fixedWidth, "nowrap"); len(lines) != 1 {
		t.Fatalf("nowrap should keep a single line, got %d", len(lines))
	}
	lines := wrapText("ab cd", 30, fixedWidth, "break-word")
	if len(lines) != 2 || lines[0].Content != "ab " || lines[1].Content != "cd" {
		t.Fatalf("unexpected break-word lines %+v", lines)
	}
	if lines := wrapText("", 30, fixedWidth, ""); len(lines) != 1 || lines[0].Content != "" {
		t.Fatalf("empty text should produce one blank line, got %+v", lines)
	}
}

func TestMeasureTextWithBuiltinFont(t *testing.T) {
	r := NewRenderer(".")
	font := layout.FontResource{Name: "Mono", Src: "builtin:mono", Size: 16}

	a, err := r.MeasureText("iiii", font, 0)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	b, err := r.MeasureText("MMMM", font, 0)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if a.Width <= 0 || a.Height <= 0 {
		t.Fatalf("expected positive size, got %+v", a)
	}
	if math.Abs(a.Width-b.Width) > 1e-6 {
		t.Fatalf("monospaced widths differ: %g vs %g", a.Width, b.Width)
	}

	wrapped, err := r.MeasureText("MMMM MMMM MMMM", font, b.Width+1)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if math.Abs(wrapped.Height-3*a.Height) > 1e-6 {
		t.Fatalf("expected 3 lines of height %g, got %g", a.Height, wrapped.Height)
	}
}

// 组合字符与预组字符在 NFC 归一化后测得相同宽度。
func TestMeasureTextNormalizes(t *testing.T) {
	r := NewRenderer(".")
	font := layout.FontResource{Src: "builtin:sans", Size: 14}
	composed, err := r.MeasureText("caf\u00e9", font, 0)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	decomposed, err := r.MeasureText("cafe\u0301", font, 0)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if math.Abs(composed.Width-decomposed.Width) > 1e-6 {
		t.Fatalf("widths differ after normalization: %g vs %g", composed.Width, decomposed.Width)
	}
}

func TestMeasureTextFallsBackForMissingFont(t *testing.T) {
	r := NewRenderer(t.TempDir())
	size, err := r.MeasureText("hello", layout.FontResource{Name: "X", Src: "missing.ttf", Size: 12}, 0)
	if err != nil {
		t.Fatalf("expected fallback font, got %v", err)
	}
	if size.Width <= 0 {
		t.Fatalf("expected positive width, got %+v", size)
	}
}
