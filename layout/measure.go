package layout

// View is anything that can report the size it would like to occupy when offered a
// candidate size, such as a text label measured by a renderer.
type View interface {
	PreferredSize(candidate Size) Size
}

// ViewFunc adapts a function to the View interface.
type ViewFunc func(candidate Size) Size

func (f ViewFunc) PreferredSize(candidate Size) Size { return f(candidate) }

// SizeToFit asks v for its preferred size and stores it as width and height. The
// candidate is the currently resolved size; an axis resolving to 0 offers the outer
// extent instead.
func (b *Box) SizeToFit(v View) *Box {
	if v == nil {
		return b
	}
	candidate := b.LayoutSize()
	if candidate.Width <= 0 {
		candidate.Width = b.bounds.Width
	}
	if candidate.Height <= 0 {
		candidate.Height = b.bounds.Height
	}
	preferred := v.PreferredSize(candidate)
	b.SetWidthPx(Pixel(preferred.Width))
	b.SetHeightPx(Pixel(preferred.Height))
	return b
}

// Measurer 负责在给定最大宽度内测量文本，返回像素尺寸，由渲染后端实现。
type Measurer interface {
	MeasureText(content string, font FontResource, maxWidth float64) (Size, error)
}

// textView 把一段标签文本包装成 View，测量失败时退回候选尺寸。
type textView struct {
	content  string
	font     FontResource
	measurer Measurer
	err      error
}

func (v *textView) PreferredSize(candidate Size) Size {
	size, err := v.measurer.MeasureText(v.content, v.font, candidate.Width)
	if err != nil {
		v.err = err
		return candidate
	}
	return size
}
