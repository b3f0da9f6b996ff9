package svgrenderer

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ByLCY/layoutbox/layout"
	"github.com/ByLCY/layoutbox/renderer"
)

// Options configures the SVG renderer.
type Options struct {
	// Outline 为每个盒子绘制描边。
	Outline bool
	// ShowOuter 以虚线绘制盒子的外框。
	ShowOuter bool
	// Labels 控制是否输出标签文本。
	Labels bool
}

// Renderer writes all frames of a result into one SVG document, stacked top to bottom.
// svgo works in integer user units, so coordinates are rounded to whole pixels.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

func NewRenderer(opts Options) *Renderer { return &Renderer{opts: opts} }

func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || len(result.Frames) == 0 {
		return nil, fmt.Errorf("缺少可渲染的 frame")
	}
	sheet := renderer.Stack(result.Frames)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(px(sheet.Width), px(sheet.Height))
	if result.Meta.Title != "" {
		canvas.Title(result.Meta.Title)
	}
	for _, p := range sheet.Placements {
		r.drawFrame(canvas, p, result.Resources)
	}
	canvas.End()
	return buf.Bytes(), nil
}

func (r *Renderer) drawFrame(canvas *svg.SVG, p renderer.Placement, res layout.ResourceSet) {
	f := p.Frame
	canvas.Gid(idFor(f.Name))
	canvas.Rect(px(f.Bounds.X+p.Offset.X), px(f.Bounds.Y+p.Offset.Y), px(f.Bounds.Width), px(f.Bounds.Height),
		"fill:#ffffff;stroke:#d0d0d0;stroke-width:1")
	for _, box := range f.Boxes {
		rect := box.Rect
		x, y := px(rect.X+p.Offset.X), px(rect.Y+p.Offset.Y)
		w, h := px(rect.Width), px(rect.Height)

		if r.opts.ShowOuter {
			o := box.Outer
			canvas.Rect(px(o.X+p.Offset.X), px(o.Y+p.Offset.Y), px(o.Width), px(o.Height),
				"fill:none;stroke:#999999;stroke-width:0.5;stroke-dasharray:3,3")
		}
		if box.Fill != nil || r.opts.Outline {
			canvas.Rect(x, y, w, h, boxStyle(box, r.opts.Outline), fmt.Sprintf(`data-box="%s"`, box.Name))
		}
		if r.opts.Labels && box.Label != "" {
			size := fontSize(box.Font, res)
			style := fmt.Sprintf("font-family:%s;font-size:%dpx;fill:%s", fontFamily(box.Font, res), size, hex(textColor(box)))
			for i, line := range strings.Split(box.Label, "\n") {
				baseline := y + size + int(math.Round(float64(i)*float64(size)*1.2))
				canvas.Text(x, baseline, line, style)
			}
		}
	}
	canvas.Gend()
}

func boxStyle(box layout.BoxResult, outline bool) string {
	fill := "none"
	if box.Fill != nil {
		fill = hex(*box.Fill)
	}
	if !outline {
		return "fill:" + fill + ";stroke:none"
	}
	stroke := layout.Color{R: 120, G: 120, B: 120}
	if box.Color != nil {
		stroke = *box.Color
	}
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", fill, hex(stroke))
}

func textColor(box layout.BoxResult) layout.Color {
	if box.Color != nil {
		return *box.Color
	}
	return layout.Color{R: 30, G: 30, B: 30}
}

func fontSize(name string, res layout.ResourceSet) int {
	if f, ok := lookupFont(name, res); ok && f.Size > 0 {
		return px(f.Size)
	}
	return 14
}

// fontFamily 把内置字体映射为通用字体族，其他字体使用资源名。
func fontFamily(name string, res layout.ResourceSet) string {
	f, ok := lookupFont(name, res)
	if !ok {
		return "sans-serif"
	}
	switch {
	case strings.HasSuffix(f.Src, ":mono"):
		return "monospace"
	case strings.Contains(f.Src, ":serif"):
		return "serif"
	case strings.HasPrefix(f.Src, "builtin:"), strings.HasPrefix(f.Src, "embed:"):
		return "sans-serif"
	}
	return fmt.Sprintf("'%s',sans-serif", f.Name)
}

func lookupFont(name string, res layout.ResourceSet) (layout.FontResource, bool) {
	if f, ok := res.Fonts[name]; ok {
		return f, true
	}
	f, ok := res.Fonts["Body"]
	return f, ok
}

func hex(c layout.Color) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func px(v float64) int { return int(math.Round(v)) }

func idFor(name string) string {
	return "frame-" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
