package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/layoutbox/fonts"
	"github.com/ByLCY/layoutbox/layout"
	"github.com/ByLCY/layoutbox/renderer"
)

const (
	// 布局坐标为 96dpi 下的像素，PDF 使用毫米。
	mmPerPx = 25.4 / 96
	ptPerPx = 72.0 / 96

	outlineWidthPx = 1.0
)

var defaultStroke = layout.Color{R: 120, G: 120, B: 120}
var defaultText = layout.Color{R: 30, G: 30, B: 30}

// Renderer draws layout results via github.com/tdewolff/canvas and measures labels with
// the same font faces, so that `fit` and the PDF output agree.
type Renderer struct {
	baseDir string
	opts    Options

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Outline 为每个盒子绘制描边，默认开启。
	Outline bool
	// ShowOuter 额外以虚线绘制每个盒子的外框，便于调试约束。
	ShowOuter bool
	// Wrap 为标签换行模式：normal（默认）、nowrap 或 break-word。
	Wrap string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer {
	return NewRendererWithOptions(Options{BaseDir: baseDir, Outline: true})
}

// NewRendererWithOptions creates a renderer with explicit options.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		baseDir:      opts.BaseDir,
		opts:         opts,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Render renders every frame of the result as one PDF page.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Frames) == 0 {
		return nil, fmt.Errorf("缺少可渲染的 frame")
	}

	var buf bytes.Buffer
	first := result.Frames[0].Bounds
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	applyMeta(writer, result.Meta)
	for i, frame := range result.Frames {
		w, h := toMm(frame.Bounds.Width), toMm(frame.Bounds.Height)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与布局一致

		if err := r.drawFrame(ctx, frame, result.Resources); err != nil {
			return nil, fmt.Errorf("frame %s: %w", frame.Name, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawFrame(ctx *canvas.Context, frame layout.Frame, resources layout.ResourceSet) error {
	origin := frame.Bounds
	for _, box := range frame.Boxes {
		rect := box.Rect
		rect.X -= origin.X
		rect.Y -= origin.Y

		if r.opts.ShowOuter {
			outer := box.Outer
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			ctx.SetStrokeColor(colorFromLayout(defaultStroke))
			ctx.SetStrokeWidth(toMm(outlineWidthPx) / 2)
			ctx.SetDashes(0, 1.0, 1.0)
			ctx.DrawPath(toMm(outer.X-origin.X), toMm(outer.Y-origin.Y), canvas.Rectangle(toMm(outer.Width), toMm(outer.Height)))
			ctx.SetDashes(0)
		}

		if box.Fill != nil || r.opts.Outline {
			if box.Fill != nil {
				ctx.SetFillColor(colorFromLayout(*box.Fill))
			} else {
				ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			}
			if r.opts.Outline {
				stroke := defaultStroke
				if box.Color != nil {
					stroke = *box.Color
				}
				ctx.SetStrokeColor(colorFromLayout(stroke))
				ctx.SetStrokeWidth(toMm(outlineWidthPx))
			} else {
				ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
			}
			ctx.DrawPath(toMm(rect.X), toMm(rect.Y), canvas.Rectangle(toMm(rect.Width), toMm(rect.Height)))
		}

		if box.Label != "" {
			font := resolveFontResource(box.Font, resources.Fonts)
			textColor := defaultText
			if box.Color != nil {
				textColor = *box.Color
			}
			if err := r.drawLabel(ctx, box.Label, rect, font, textColor); err != nil {
				return fmt.Errorf("box %s: %w", box.Name, err)
			}
		}
	}
	return nil
}

// drawLabel 在矩形内从顶部开始逐行绘制标签，超出矩形的行不做裁剪。
func (r *Renderer) drawLabel(ctx *canvas.Context, label string, rect layout.Rect, font layout.FontResource, col layout.Color) error {
	face, err := r.fontFace(font, col)
	if err != nil {
		return err
	}
	lines := wrapText(normalize(label), rect.Width, faceWidth(face), r.opts.Wrap)
	metrics := face.Metrics()
	cursorY := toMm(rect.Y)
	for _, line := range lines {
		textLine := canvas.NewTextLine(face, line.Content, canvas.Left)
		ctx.DrawText(toMm(rect.X), cursorY+metrics.Ascent, textLine)
		cursorY += metrics.LineHeight
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := font.Size
	if size <= 0 {
		size = 14
	}
	return family.Face(size*ptPerPx, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := fonts.Load(r.resolveFontPath(font.Src))
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

// resolveFontPath 把相对路径挂到 baseDir 下，builtin 与绝对路径保持不变。
func (r *Renderer) resolveFontPath(src string) string {
	if src == "" || fonts.IsBuiltin(src) || filepath.IsAbs(src) || r.baseDir == "" {
		return src
	}
	if _, err := os.Stat(src); err == nil {
		return src
	}
	return filepath.Join(r.baseDir, src)
}

// fallback 需在持有 fontMu 时调用。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(fonts.DefaultSource)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("layoutbox-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts["Body"]; ok {
		return font
	}
	return layout.FontResource{Name: "default", Src: "builtin:sans", Size: 14}
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func toMm(px float64) float64 { return px * mmPerPx }

func toPx(mm float64) float64 { return mm / mmPerPx }
