package renderer

import (
	"math"

	"github.com/ByLCY/layoutbox/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PDF、SVG 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// FrameGap 是单页输出中相邻 frame 之间的间距（像素）。
const FrameGap = 16.0

// Placement 记录 frame 在单页输出中的左上角位置。
type Placement struct {
	Frame  layout.Frame
	Offset layout.Point
}

// Sheet 描述把多个 frame 自上而下堆叠到同一张画布上的结果，供 SVG 与位图输出使用。
type Sheet struct {
	Width      float64
	Height     float64
	Placements []Placement
}

// Stack 按顺序纵向排列 frame，画布宽度取最宽的 frame。
// 偏移已经抵消了 frame 自身的原点，因此 box.Rect 加上 Offset 即为画布坐标。
func Stack(frames []layout.Frame) Sheet {
	var sheet Sheet
	y := 0.0
	for i, f := range frames {
		if i > 0 {
			y += FrameGap
		}
		sheet.Placements = append(sheet.Placements, Placement{
			Frame:  f,
			Offset: layout.Point{X: -f.Bounds.X, Y: y - f.Bounds.Y},
		})
		sheet.Width = math.Max(sheet.Width, f.Bounds.Width)
		y += f.Bounds.Height
	}
	sheet.Height = y
	return sheet
}
