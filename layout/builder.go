package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ByLCY/layoutbox/binding"
	"github.com/ByLCY/layoutbox/dsl"
)

const (
	defaultFontSize = 14.0
	defaultDensity  = 1.0
)

var (
	ErrUnknownBox     = errors.New("unknown box")
	ErrDuplicateBox   = errors.New("duplicate box")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidLength  = errors.New("invalid length")
	ErrNoMeasurer     = errors.New("fit requires a measurer")
	ErrReservedName   = errors.New("reserved box name")
)

// Build 根据 DSL AST 为每个 frame 解析全部盒子的绝对几何信息。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	meta := collectMeta(doc)

	var frames []Frame
	for _, section := range doc.Sections {
		if section.Frame == nil {
			continue
		}
		frame, err := buildFrame(section.Frame, res, data, opts)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", section.Frame.Name, err)
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("文档中缺少 frame 段落")
	}

	return &Result{
		Frames:    frames,
		Resources: res,
		Meta:      meta,
	}, nil
}

// frameScope 保存单个 frame 解析期间共享的状态。
type frameScope struct {
	frame    *Frame
	unit     Unit
	dpi      float64
	eval     *binding.Evaluator
	res      ResourceSet
	measurer Measurer
	log      *slog.Logger
	resolved map[string]Rect
}

func buildFrame(section *dsl.FrameSection, res ResourceSet, data any, opts BuildOptions) (Frame, error) {
	if section.Block == nil {
		return Frame{}, fmt.Errorf("frame 段落缺少内容")
	}
	bounds, density, dpi, err := resolveFrameSpec(section.Params, opts)
	if err != nil {
		return Frame{}, err
	}

	frame := Frame{
		Name:    section.Name,
		Bounds:  bounds,
		Density: density,
		DPI:     dpi,
	}
	scope := &frameScope{
		frame:    &frame,
		unit:     DensityUnit{Scale: density},
		dpi:      dpi,
		eval:     binding.New(data),
		res:      res,
		measurer: opts.Measurer,
		log:      opts.logger().With("frame", section.Name),
		resolved: map[string]Rect{},
	}
	if err := scope.eval.Set("frame", rectVars(bounds)); err != nil {
		return Frame{}, err
	}

	for _, stmt := range section.Block.Statements {
		cmd := stmt.Command
		if cmd == nil || cmd.Name != "box" {
			return Frame{}, fmt.Errorf("%s: frame 内只允许 box 语句", statementPos(stmt))
		}
		if err := scope.buildBox(cmd, bounds, "", 0); err != nil {
			return Frame{}, err
		}
	}
	scope.log.Debug("frame resolved", "bounds", bounds, "boxes", len(frame.Boxes))
	return frame, nil
}

// buildBox 为一个 box 语句创建新的 Box，按源码顺序应用约束，记录结果后再处理子 box。
// 子 box 以父 box 的解析结果作为外框。
func (s *frameScope) buildBox(cmd *dsl.Command, outer Rect, parent string, depth int) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("%s: box 缺少名称", cmd.Pos)
	}
	name := cmd.Args[0].Value
	if _, ok := s.resolved[name]; ok {
		return fmt.Errorf("%s: %w: %s", cmd.Pos, ErrDuplicateBox, name)
	}
	if reservedNames[name] || s.eval.IsBuiltin(name) {
		return fmt.Errorf("%s: %w: %s", cmd.Pos, ErrReservedName, name)
	}
	if cmd.Block == nil {
		return fmt.Errorf("%s: box %s 缺少约束块", cmd.Pos, name)
	}
	if err := s.eval.Set("outer", rectVars(outer)); err != nil {
		return err
	}

	box := NewBox(outer, s.unit)
	st := &boxState{result: BoxResult{Name: name, Parent: parent, Depth: depth, Outer: outer}}
	var children []*dsl.Command
	for _, stmt := range cmd.Block.Statements {
		var err error
		switch {
		case stmt.Text != nil:
			st.result.Label = s.eval.Interpolate(string(stmt.Text.Value))
		case stmt.Assignment != nil:
			err = s.applyAssignment(box, st, stmt.Assignment)
		case stmt.Command != nil && stmt.Command.Name == "box":
			children = append(children, stmt.Command)
		case stmt.Command != nil:
			err = s.applyCommand(box, st, stmt.Command)
		}
		if err != nil {
			return fmt.Errorf("box %s: %w", name, err)
		}
	}

	rect := box.LayoutBounds()
	st.result.Rect = rect
	st.result.Center = box.LayoutCenter()
	st.result.Constraints = make(map[string]float64)
	for c, v := range box.Constraints() {
		st.result.Constraints[c.String()] = v.Value()
	}
	s.resolved[name] = rect
	s.frame.Boxes = append(s.frame.Boxes, st.result)
	if err := s.eval.Set(name, rectVars(rect)); err != nil {
		// 名称含有连字符等字符时无法作为表达式变量，仅能被相对命令引用。
		s.log.Debug("box not bound for expressions", "box", name)
	}
	s.log.Debug("box resolved", "box", name, "parent", parent, "rect", rect)

	for _, child := range children {
		if err := s.buildBox(child, rect, name, depth+1); err != nil {
			return err
		}
	}
	return nil
}

var reservedNames = map[string]bool{"frame": true, "outer": true, "data": true}

type boxState struct {
	result BoxResult
}

func (s *frameScope) applyCommand(box *Box, st *boxState, cmd *dsl.Command) error {
	name := strings.ToLower(cmd.Name)
	args := cmd.Args

	switch name {
	case "label":
		if len(args) == 0 {
			return fmt.Errorf("%s: label 缺少文本", cmd.Pos)
		}
		st.result.Label = s.eval.Interpolate(args[0].Value)
		return nil
	case "font":
		if len(args) == 0 {
			return fmt.Errorf("%s: font 缺少名称", cmd.Pos)
		}
		st.result.Font = args[0].Value
		return nil
	case "color", "fill":
		if len(args) == 0 {
			return fmt.Errorf("%s: %s 缺少颜色", cmd.Pos, name)
		}
		c, err := resolveColor(args[len(args)-1].Value, s.res)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		if name == "color" {
			st.result.Color = &c
		} else {
			st.result.Fill = &c
		}
		return nil
	case "fit":
		return s.fit(box, st, cmd)
	case "center":
		dx, dy := Pixel(0), Pixel(0)
		var err error
		if len(args) > 0 {
			if dx, err = s.length(args[0], box.Bounds().Width); err != nil {
				return err
			}
		}
		if len(args) > 1 {
			if dy, err = s.length(args[1], box.Bounds().Height); err != nil {
				return err
			}
		}
		box.CenterHorizontallyPx(dx).CenterVerticallyPx(dy)
		return nil
	case "center-x", "center-y":
		d := Pixel(0)
		if len(args) > 0 {
			var err error
			if d, err = s.length(args[0], axisReference(name, box.Bounds())); err != nil {
				return err
			}
		}
		applyLength(box, name, d)
		return nil
	case "before", "after", "above", "below":
		if len(args) == 0 {
			return fmt.Errorf("%s: %s 缺少参照 box", cmd.Pos, name)
		}
		ref, ok := s.resolved[args[0].Value]
		if !ok {
			return fmt.Errorf("%s: %w: %s", cmd.Pos, ErrUnknownBox, args[0].Value)
		}
		d := Pixel(0)
		if len(args) > 1 {
			var err error
			if d, err = s.length(args[1], axisReference(name, box.Bounds())); err != nil {
				return err
			}
		}
		switch name {
		case "before":
			box.BeforePx(ref, d)
		case "after":
			box.AfterPx(ref, d)
		case "above":
			box.AbovePx(ref, d)
		case "below":
			box.BelowPx(ref, d)
		}
		return nil
	}

	if !isLengthKey(name) {
		return fmt.Errorf("%s: %w: %s", cmd.Pos, ErrUnknownCommand, cmd.Name)
	}
	if len(args) == 0 {
		return fmt.Errorf("%s: %s 缺少长度", cmd.Pos, name)
	}
	px, err := s.length(args[0], axisReference(name, box.Bounds()))
	if err != nil {
		return err
	}
	applyLength(box, name, px)
	return nil
}

func (s *frameScope) applyAssignment(box *Box, st *boxState, a *dsl.Assignment) error {
	key := strings.ToLower(a.Key)
	switch key {
	case "label":
		st.result.Label = s.eval.Interpolate(valueToString(a.Value))
		return nil
	case "font":
		st.result.Font = valueToString(a.Value)
		return nil
	case "color", "fill":
		c, err := resolveColor(valueToString(a.Value), s.res)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
		if key == "color" {
			st.result.Color = &c
		} else {
			st.result.Fill = &c
		}
		return nil
	}
	if !isLengthKey(key) {
		return fmt.Errorf("%s: %w: %s", a.Pos, ErrUnknownCommand, a.Key)
	}
	if a.Value == nil || a.Value.Expr == nil {
		return fmt.Errorf("%s: %w: %s 需要数值表达式", a.Pos, ErrInvalidLength, a.Key)
	}

	ref := axisReference(key, box.Bounds())
	if lit, ok := a.Value.Expr.Literal(); ok && lit.Type == "Number" {
		px, err := s.length(lit, ref)
		if err != nil {
			return err
		}
		applyLength(box, key, px)
		return nil
	}
	for _, part := range a.Value.Expr.Parts {
		if part.Type != "Number" {
			continue
		}
		if l, ok := ParseLength(part.Value); ok && l.Kind != KindNone {
			return fmt.Errorf("%s: %w: 单位只能用于单个数值 %s，表达式中请使用裸数字", part.Pos, ErrInvalidLength, part.Value)
		}
	}
	v, err := s.eval.Eval(a.Value.Expr.Source())
	if err != nil {
		return fmt.Errorf("%s: %w", a.Pos, err)
	}
	applyLength(box, key, box.Unit().ToPixels(v))
	return nil
}

func (s *frameScope) fit(box *Box, st *boxState, cmd *dsl.Command) error {
	if s.measurer == nil {
		return fmt.Errorf("%s: %w", cmd.Pos, ErrNoMeasurer)
	}
	font := resolveFont(st.result.Font, s.res)
	tv := &textView{content: st.result.Label, font: font, measurer: s.measurer}
	box.SizeToFit(tv)
	if tv.err != nil {
		return fmt.Errorf("%s: 测量文本失败: %w", cmd.Pos, tv.err)
	}
	return nil
}

// length 把一个长度 token 解析成像素；reference 用于百分比。
func (s *frameScope) length(lex *dsl.Lexeme, reference float64) (Pixel, error) {
	l, ok := ParseLength(lex.Value)
	if !ok {
		return 0, fmt.Errorf("%s: %w: %q", lex.Pos, ErrInvalidLength, lex.Value)
	}
	return l.Pixels(s.unit, s.dpi, reference), nil
}

var lengthKeys = map[string]bool{
	"left": true, "right": true, "top": true, "bottom": true,
	"width": true, "height": true, "cx": true, "cy": true,
	"center-x": true, "center-y": true,
	"min-width": true, "max-width": true, "min-height": true, "max-height": true,
}

func isLengthKey(key string) bool { return lengthKeys[key] }

// applyLength 将像素值交给对应的 setter 或组合子。
func applyLength(box *Box, key string, px Pixel) {
	switch key {
	case "left":
		box.SetLeftPx(px)
	case "right":
		box.SetRightPx(px)
	case "top":
		box.SetTopPx(px)
	case "bottom":
		box.SetBottomPx(px)
	case "width":
		box.SetWidthPx(px)
	case "height":
		box.SetHeightPx(px)
	case "cx":
		box.SetCenterXPx(px)
	case "cy":
		box.SetCenterYPx(px)
	case "center-x":
		box.CenterHorizontallyPx(px)
	case "center-y":
		box.CenterVerticallyPx(px)
	case "min-width":
		box.MinWidthPx(px)
	case "max-width":
		box.MaxWidthPx(px)
	case "min-height":
		box.MinHeightPx(px)
	case "max-height":
		box.MaxHeightPx(px)
	}
}

// axisReference 返回百分比所参照的外框尺寸。
func axisReference(key string, outer Rect) float64 {
	switch key {
	case "top", "bottom", "height", "cy", "center-y", "min-height", "max-height", "above", "below":
		return outer.Height
	default:
		return outer.Width
	}
}

func rectVars(r Rect) map[string]any {
	return map[string]any{
		"x":       r.X,
		"y":       r.Y,
		"left":    r.Left(),
		"top":     r.Top(),
		"right":   r.Right(),
		"bottom":  r.Bottom(),
		"width":   r.Width,
		"height":  r.Height,
		"centerX": r.Center().X,
		"centerY": r.Center().Y,
	}
}

// resolveFrameSpec 解析 frame 头部：`<w> <h> [at <x> <y>] [density N] [dpi N]`。
func resolveFrameSpec(params []*dsl.Lexeme, opts BuildOptions) (Rect, float64, float64, error) {
	density := opts.Density
	if density <= 0 {
		density = defaultDensity
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	var size []Length
	var origin []Length
	for i := 0; i < len(params); i++ {
		token := params[i]
		switch token.Value {
		case "at":
			if len(origin) > 0 {
				return Rect{}, 0, 0, fmt.Errorf("%s: 重复的 at", token.Pos)
			}
			for j := 0; j < 2 && i+1 < len(params); j++ {
				l, ok := ParseLength(params[i+1].Value)
				if !ok {
					break
				}
				origin = append(origin, l)
				i++
			}
			if len(origin) != 2 {
				return Rect{}, 0, 0, fmt.Errorf("%s: at 需要 x 与 y 两个数值", token.Pos)
			}
		case "density", "dpi":
			if i+1 >= len(params) {
				return Rect{}, 0, 0, fmt.Errorf("%s: %s 缺少数值", token.Pos, token.Value)
			}
			v, err := strconv.ParseFloat(params[i+1].Value, 64)
			if err != nil || v <= 0 {
				return Rect{}, 0, 0, fmt.Errorf("%s: 非法的 %s: %s", token.Pos, token.Value, params[i+1].Value)
			}
			if token.Value == "density" {
				density = v
			} else {
				dpi = v
			}
			i++
		default:
			l, ok := ParseLength(token.Value)
			if !ok || len(size) == 2 {
				return Rect{}, 0, 0, fmt.Errorf("%s: 无法识别的 frame 参数 %s", token.Pos, token.Value)
			}
			size = append(size, l)
		}
	}
	if len(size) != 2 {
		return Rect{}, 0, 0, fmt.Errorf("frame 需要宽度与高度")
	}

	// frame 尺寸中的裸数字视为像素，物理单位按 dpi 换算。
	toPx := func(l Length) float64 {
		if l.Kind == KindNone {
			return l.Value
		}
		return l.Pixels(DensityUnit{Scale: density}, dpi, 0).Value()
	}
	bounds := Rect{Width: toPx(size[0]), Height: toPx(size[1])}
	if origin != nil {
		bounds.X = toPx(origin[0])
		bounds.Y = toPx(origin[1])
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return Rect{}, 0, 0, fmt.Errorf("frame 尺寸必须为正数")
	}
	return bounds, density, dpi, nil
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
	}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil || len(cmd.Args) == 0 {
				continue
			}
			switch cmd.Name {
			case "font":
				font := parseFontResource(cmd)
				res.Fonts[font.Name] = font
			case "color":
				name := cmd.Args[0].Value
				c, err := parseColor(cmd.Args[len(cmd.Args)-1].Value)
				if err != nil {
					return res, fmt.Errorf("%s: 颜色 %s 解析失败: %w", cmd.Pos, name, err)
				}
				res.Colors[name] = c
			}
		}
	}
	return res, nil
}

func parseFontResource(cmd *dsl.Command) FontResource {
	font := FontResource{Name: cmd.Args[0].Value, Size: defaultFontSize}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := valueToString(stmt.Assignment.Value)
		switch stmt.Assignment.Key {
		case "src":
			font.Src = val
		case "style":
			font.Style = val
		case "size":
			if l, ok := ParseLength(val); ok && l.Value > 0 {
				font.Size = l.Pixels(Identity, DefaultDPI, 0).Value()
			}
		}
	}
	return font
}

func resolveFont(name string, res ResourceSet) FontResource {
	if font, ok := res.Fonts[name]; ok {
		return font
	}
	if font, ok := res.Fonts["Body"]; ok {
		return font
	}
	return FontResource{Name: "default", Src: "builtin:sans", Size: defaultFontSize}
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	var meta DocumentMeta
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			a := stmt.Assignment
			if a == nil {
				continue
			}
			switch a.Key {
			case "title":
				meta.Title = valueToString(a.Value)
			case "author":
				meta.Author = valueToString(a.Value)
			case "subject":
				meta.Subject = valueToString(a.Value)
			case "creator":
				meta.Creator = valueToString(a.Value)
			case "keywords":
				meta.Keywords = valueToStringSlice(a.Value)
			}
		}
	}
	return meta
}

func resolveColor(value string, res ResourceSet) (Color, error) {
	if c, ok := res.Colors[value]; ok {
		return c, nil
	}
	return parseColor(value)
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("非法的颜色值 %q", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("非法的颜色值 %q", value)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}

func statementPos(stmt *dsl.Statement) string {
	switch {
	case stmt.Command != nil:
		return stmt.Command.Pos.String()
	case stmt.Assignment != nil:
		return stmt.Assignment.Pos.String()
	default:
		return "frame"
	}
}
