package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"

	"github.com/ByLCY/layoutbox/config"
	"github.com/ByLCY/layoutbox/dsl"
	"github.com/ByLCY/layoutbox/layout"
	"github.com/ByLCY/layoutbox/renderer"
	canvasrenderer "github.com/ByLCY/layoutbox/renderer/canvas"
	rasterrenderer "github.com/ByLCY/layoutbox/renderer/raster"
	svgrenderer "github.com/ByLCY/layoutbox/renderer/svg"
)

// options 汇总命令行参数，非空值覆盖配置文件。
type options struct {
	input      string
	output     string
	format     string
	debugPath  string
	dataJSON   string
	configPath string
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "examples/login.lbox", "DSL 文件路径")
	flag.StringVar(&opts.output, "out", "output/login.pdf", "输出文件路径")
	flag.StringVar(&opts.format, "format", "", "输出格式 pdf|svg|png（默认取配置或输出文件扩展名）")
	flag.StringVar(&opts.debugPath, "debug", "", "布局调试 JSON 输出路径")
	flag.StringVar(&opts.dataJSON, "data", "", "绑定到 DSL 的 JSON 数据")
	flag.StringVar(&opts.configPath, "config", "", "YAML 配置文件路径")
	flag.BoolVar(&opts.verbose, "v", false, "输出调试日志")
	flag.Parse()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(2)
	}
	logger := newLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	if err := run(opts, cfg, logger); err != nil {
		logger.Error("生成失败", "err", err)
		os.Exit(1)
	}
	logger.Info("已生成", "out", opts.output, "format", cfg.Render.Format)
}

// loadConfig 读取配置文件（可选）并应用命令行覆盖。
func loadConfig(opts options) (*config.AppConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadAppConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	switch {
	case opts.format != "":
		cfg.Render.Format = strings.ToLower(opts.format)
	case opts.configPath == "" && opts.output != "":
		if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), "."); ext != "" {
			cfg.Render.Format = ext
		}
	}
	if opts.debugPath != "" {
		cfg.Debug.JSON = opts.debugPath
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.LoggingConfig, w *os.File) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !*cfg.Color,
	}))
}

// run 串联解析、布局与渲染。
func run(opts options, cfg *config.AppConfig, logger *slog.Logger) error {
	var data any
	if opts.dataJSON != "" {
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.ParseFile(opts.input, file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	baseDir := filepath.Dir(opts.input)
	if cfg.Render.FontDir != "" {
		baseDir = cfg.Render.FontDir
	}
	r, measurer, err := newRenderer(cfg.Render, baseDir)
	if err != nil {
		return err
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Measurer: measurer,
		Logger:   logger,
		Density:  cfg.Units.Density,
		DPI:      cfg.Units.DPI,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.Debug.JSON != "" {
		if err := writeDebug(result, cfg.Debug.JSON); err != nil {
			return err
		}
		logger.Debug("debug JSON written", "path", cfg.Debug.JSON)
	}

	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// newRenderer 按格式选择渲染器。PDF 与 PNG 使用自身字体测量文本，SVG 借用 canvas 的测量。
func newRenderer(cfg *config.RenderConfig, baseDir string) (renderer.Renderer, layout.Measurer, error) {
	pdfRenderer := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:   baseDir,
		Outline:   *cfg.Outline,
		ShowOuter: cfg.ShowOuter,
		Wrap:      cfg.Wrap,
	})
	switch cfg.Format {
	case config.FormatPDF:
		return pdfRenderer, pdfRenderer, nil
	case config.FormatSVG:
		return svgrenderer.NewRenderer(svgrenderer.Options{
			Outline:   *cfg.Outline,
			ShowOuter: cfg.ShowOuter,
			Labels:    *cfg.Labels,
		}), pdfRenderer, nil
	case config.FormatPNG:
		png := rasterrenderer.NewRenderer(rasterrenderer.Options{
			Scale:     cfg.Scale,
			Outline:   *cfg.Outline,
			ShowOuter: cfg.ShowOuter,
		})
		return png, png, nil
	}
	return nil, nil, fmt.Errorf("不支持的输出格式 %q", cfg.Format)
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
