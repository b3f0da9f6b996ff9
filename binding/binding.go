package binding

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/dop251/goja"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

var (
	// ErrNotNumber 表示表达式没有得到有限的数值。
	ErrNotNumber = errors.New("expression is not a finite number")
	// ErrShadowsBuiltin 表示变量名会覆盖 Math、Number 等运行时内置对象。
	ErrShadowsBuiltin = errors.New("name shadows a JavaScript built-in")
)

// Evaluator 使用 goja 运行时计算 DSL 中的表达式与 ${...} 插值。
// 每次布局创建一个 Evaluator，不可并发使用。
type Evaluator struct {
	vm    *goja.Runtime
	bound map[string]bool
}

// New 创建一个 Evaluator，data 以 `data` 以及其顶层键的名字暴露给表达式。
// 与内置对象同名的顶层键只能通过 data.<key> 访问。
func New(data any) *Evaluator {
	e := &Evaluator{vm: goja.New(), bound: map[string]bool{}}
	if data != nil {
		_ = e.bind("data", data)
		if m, ok := data.(map[string]any); ok {
			for k, v := range m {
				if k != "data" && isIdentifier(k) && !e.IsBuiltin(k) {
					_ = e.bind(k, v)
				}
			}
		}
	}
	return e
}

// Set 绑定一个全局变量，例如 frame 或已解析盒子的几何信息。
// 已由 Set 绑定过的名字可以重新绑定，内置对象不能被覆盖。
func (e *Evaluator) Set(name string, value any) error {
	if !isIdentifier(name) {
		return fmt.Errorf("binding: 非法的变量名 %q", name)
	}
	if e.IsBuiltin(name) {
		return fmt.Errorf("binding: %w: %s", ErrShadowsBuiltin, name)
	}
	return e.bind(name, value)
}

// IsBuiltin 报告 name 是否为运行时自带的全局名，例如 Math 或 parseInt。
func (e *Evaluator) IsBuiltin(name string) bool {
	return !e.bound[name] && e.vm.GlobalObject().Get(name) != nil
}

func (e *Evaluator) bind(name string, value any) error {
	if err := e.vm.Set(name, value); err != nil {
		return err
	}
	e.bound[name] = true
	return nil
}

// Eval 计算表达式并返回数值结果。
func (e *Evaluator) Eval(expr string) (float64, error) {
	v, err := e.vm.RunString(expr)
	if err != nil {
		return 0, fmt.Errorf("binding: 计算 %q 失败: %w", expr, err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, expr)
	}
	f := v.ToFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, expr)
	}
	return f, nil
}

// Interpolate 将文本中的 ${expr} 替换为表达式的值。
// 表达式无法计算或结果为 undefined 时保留原占位符。
func (e *Evaluator) Interpolate(text string) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		src := strings.TrimSpace(groups[1])
		if src == "" {
			return match
		}
		v, err := e.vm.RunString(src)
		if err != nil || v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
			return match
		}
		return v.String()
	})
}

// Interpolate 是一次性的便捷函数：为 data 创建 Evaluator 并替换文本中的占位符。
// 若 data 为空则返回原文本。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return New(data).Interpolate(text)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
