package rasterrenderer

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/ByLCY/layoutbox/fonts"
	"github.com/ByLCY/layoutbox/layout"
	"github.com/ByLCY/layoutbox/renderer"
)

// Options configures the PNG renderer.
type Options struct {
	// Scale 为输出图像每个布局像素对应的图像像素数，<=0 时为 1。
	Scale     float64
	Outline   bool
	ShowOuter bool
}

// Renderer rasterizes a layout result into a PNG with github.com/fogleman/gg. Frames are
// stacked vertically on a single image. It also measures labels with the same faces.
type Renderer struct {
	opts Options

	mu    sync.Mutex
	fonts map[string]*truetype.Font
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

func NewRenderer(opts Options) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Renderer{opts: opts, fonts: map[string]*truetype.Font{}}
}

func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || len(result.Frames) == 0 {
		return nil, fmt.Errorf("缺少可渲染的 frame")
	}
	sheet := renderer.Stack(result.Frames)
	w := int(math.Ceil(sheet.Width * r.opts.Scale))
	h := int(math.Ceil(sheet.Height * r.opts.Scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(0.94, 0.94, 0.94)
	dc.Clear()
	dc.Scale(r.opts.Scale, r.opts.Scale)

	for _, p := range sheet.Placements {
		if err := r.drawFrame(dc, p, result.Resources); err != nil {
			return nil, fmt.Errorf("frame %s: %w", p.Frame.Name, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawFrame(dc *gg.Context, p renderer.Placement, res layout.ResourceSet) error {
	f := p.Frame
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(f.Bounds.X+p.Offset.X, f.Bounds.Y+p.Offset.Y, f.Bounds.Width, f.Bounds.Height)
	dc.Fill()

	for _, box := range f.Boxes {
		x, y := box.Rect.X+p.Offset.X, box.Rect.Y+p.Offset.Y
		if r.opts.ShowOuter {
			o := box.Outer
			dc.SetRGB255(160, 160, 160)
			dc.SetLineWidth(0.5)
			dc.SetDash(3, 3)
			dc.DrawRectangle(o.X+p.Offset.X, o.Y+p.Offset.Y, o.Width, o.Height)
			dc.Stroke()
			dc.SetDash()
		}
		if box.Fill != nil {
			setColor(dc, *box.Fill)
			dc.DrawRectangle(x, y, box.Rect.Width, box.Rect.Height)
			dc.Fill()
		}
		if r.opts.Outline {
			stroke := layout.Color{R: 120, G: 120, B: 120}
			if box.Color != nil {
				stroke = *box.Color
			}
			setColor(dc, stroke)
			dc.SetLineWidth(1)
			dc.DrawRectangle(x, y, box.Rect.Width, box.Rect.Height)
			dc.Stroke()
		}
		if box.Label == "" {
			continue
		}
		face, err := r.face(resolveFont(box.Font, res))
		if err != nil {
			return fmt.Errorf("box %s: %w", box.Name, err)
		}
		dc.SetFontFace(face)
		text := layout.Color{R: 30, G: 30, B: 30}
		if box.Color != nil {
			text = *box.Color
		}
		setColor(dc, text)
		ascent := float64(face.Metrics().Ascent) / 64
		for i, line := range wrapLines(dc, box.Label, box.Rect.Width) {
			dc.DrawString(line, x, y+ascent+float64(i)*dc.FontHeight()*1.2)
		}
	}
	return nil
}

// MeasureText 实现 layout.Measurer，行高为字体高度的 1.2 倍，与绘制一致。
func (r *Renderer) MeasureText(content string, font layout.FontResource, maxWidth float64) (layout.Size, error) {
	face, err := r.face(font)
	if err != nil {
		return layout.Size{}, err
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	lines := wrapLines(dc, content, maxWidth)
	var width float64
	for _, ln := range lines {
		w, _ := dc.MeasureString(ln)
		width = math.Max(width, w)
	}
	return layout.Size{Width: width, Height: float64(len(lines)) * dc.FontHeight() * 1.2}, nil
}

func wrapLines(dc *gg.Context, s string, width float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if width <= 0 || para == "" {
			out = append(out, para)
			continue
		}
		out = append(out, dc.WordWrap(para, width)...)
	}
	return out
}

func (r *Renderer) face(res layout.FontResource) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src := res.Src
	if src == "" {
		src = fonts.DefaultSource
	}
	f, ok := r.fonts[src]
	if !ok {
		data, err := fonts.Load(src)
		if err != nil {
			return nil, err
		}
		if f, err = truetype.Parse(data); err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
		}
		r.fonts[src] = f
	}
	size := res.Size
	if size <= 0 {
		size = 14
	}
	// 布局单位为 96dpi 像素，truetype 以 72dpi 的点为单位。
	return truetype.NewFace(f, &truetype.Options{Size: size * 0.75, DPI: 96}), nil
}

func resolveFont(name string, res layout.ResourceSet) layout.FontResource {
	if f, ok := res.Fonts[name]; ok {
		return f
	}
	if f, ok := res.Fonts["Body"]; ok {
		return f
	}
	return layout.FontResource{Src: fonts.DefaultSource, Size: 14}
}

func setColor(dc *gg.Context, c layout.Color) { dc.SetRGB255(c.R, c.G, c.B) }
