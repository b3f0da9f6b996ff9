package layout

import "log/slog"

// BuildOptions 配置布局阶段所需的依赖，例如文本测量后端与日志。
type BuildOptions struct {
	Measurer Measurer
	Logger   *slog.Logger
	// Density 与 DPI 在 frame 未声明时作为默认值。
	Density float64
	DPI     float64
}

func (o BuildOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
