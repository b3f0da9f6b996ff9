package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。所有坐标单位均为像素。

// Result 保存所有 frame 的布局结果与资源信息。
type Result struct {
	Frames    []Frame      `json:"frames"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录解析出的字体与颜色定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color        `json:"colors"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name  string  `json:"name"`
	Src   string  `json:"src"`
	Style string  `json:"style"`
	Size  float64 `json:"size"` // 字号（px）
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Frame 对应 DSL 中的一个 frame：外框矩形、单位信息与解析后的全部盒子。
type Frame struct {
	Name    string      `json:"name"`
	Bounds  Rect        `json:"bounds"`
	Density float64     `json:"density"`
	DPI     float64     `json:"dpi"`
	Boxes   []BoxResult `json:"boxes"`
}

// Find 按名称查找盒子。
func (f *Frame) Find(name string) (BoxResult, bool) {
	for _, b := range f.Boxes {
		if b.Name == name {
			return b, true
		}
	}
	return BoxResult{}, false
}

// BoxResult 表示一个已经解析出绝对坐标的盒子。
type BoxResult struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
	Depth  int    `json:"depth"`
	Outer  Rect   `json:"outer"`
	Rect   Rect   `json:"rect"`
	Center Point  `json:"center"`
	// Constraints 记录解析结束时仍然生效的约束槽（像素）。
	Constraints map[string]float64 `json:"constraints"`
	Label       string             `json:"label,omitempty"`
	Font        string             `json:"font,omitempty"`
	Color       *Color             `json:"color,omitempty"`
	Fill        *Color             `json:"fill,omitempty"`
}

// DocumentMeta 保存文档元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
