package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/layoutbox/layout"
)

// Line 是换行后的一行文本，宽度为像素。
type Line struct {
	Content string
	Width   float64
}

// MeasureText 实现 layout.Measurer：按 maxWidth（像素）贪心换行后返回文本块尺寸。
// 宽度取最长的一行，高度为行数乘以字体行高。
func (r *Renderer) MeasureText(content string, font layout.FontResource, maxWidth float64) (layout.Size, error) {
	lines, lineHeight, err := r.WrapText(content, font, maxWidth)
	if err != nil {
		return layout.Size{}, err
	}
	var width float64
	for _, ln := range lines {
		width = math.Max(width, ln.Width)
	}
	return layout.Size{Width: width, Height: float64(len(lines)) * lineHeight}, nil
}

// WrapText 使用渲染时相同的字体面换行，返回各行与行高（像素）。
func (r *Renderer) WrapText(content string, font layout.FontResource, maxWidth float64) ([]Line, float64, error) {
	face, err := r.fontFace(font, defaultText)
	if err != nil {
		return nil, 0, err
	}
	lines := wrapText(normalize(content), maxWidth, faceWidth(face), r.opts.Wrap)
	return lines, toPx(face.Metrics().LineHeight), nil
}

// normalize 统一为 NFC，使组合字符与预组字符测得相同宽度。
func normalize(s string) string {
	return norm.NFC.String(strings.ReplaceAll(s, "\r", ""))
}

// faceWidth 返回以像素计的文本宽度函数。
func faceWidth(face *canvas.FontFace) func(string) float64 {
	return func(s string) float64 { return toPx(face.TextWidth(s)) }
}

// wrapText 是与字体无关的贪心换行：
//   - nowrap 只按显式换行拆分；
//   - break-word 忽略空白，纯按宽度切分；
//   - 其余模式优先在空白处断行，单词超宽时在词内拆分。
func wrapText(content string, limit float64, width func(string) float64, mode string) []Line {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	if mode == "nowrap" {
		parts := strings.Split(content, "\n")
		lines := make([]Line, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, Line{Content: p, Width: width(p)})
		}
		return lines
	}

	var lines []Line
	var builder strings.Builder
	current := 0.0
	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, Line{})
			}
			return
		}
		lines = append(lines, Line{Content: builder.String(), Width: current})
		builder.Reset()
		current = 0
	}
	add := func(piece string, w float64) {
		if current > 0 && current+w > limit {
			emit(false)
		}
		builder.WriteString(piece)
		current += w
	}

	var tokens []string
	if mode == "break-word" {
		for _, r := range content {
			tokens = append(tokens, string(r))
		}
	} else {
		tokens = tokenize(content)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}
		w := width(token)
		if mode != "break-word" && current > 0 && current+w > limit && strings.TrimSpace(token) == "" {
			// 行尾空白不单独占一行
			emit(false)
			continue
		}
		if w <= limit {
			add(token, w)
			continue
		}
		for _, chunk := range splitByWidth(token, limit, width) {
			add(chunk, width(chunk))
		}
	}
	emit(true)
	return lines
}

// tokenize 把文本切成交替的空白段与非空白段，显式换行单独成段。
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(token string, limit float64, width func(string) float64) []string {
	var parts []string
	var runes []rune
	for _, r := range token {
		runes = append(runes, r)
		if len(runes) > 1 && width(string(runes)) > limit {
			parts = append(parts, string(runes[:len(runes)-1]))
			runes = []rune{r}
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
