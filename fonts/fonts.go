// Package fonts resolves font sources used by layout documents into raw font data.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// ErrUnknownBuiltin 表示 builtin:* 名称没有对应的内置字体。
var ErrUnknownBuiltin = errors.New("unknown builtin font")

const (
	builtinPrefix = "builtin:"
	// DefaultSource 是未声明字体时使用的内置字体。
	DefaultSource = builtinPrefix + "sans"
)

var builtins = map[string][]byte{
	"sans":         lmsans10regular.TTF,
	"sans-bold":    lmsans10bold.TTF,
	"serif":        lmroman10regular.TTF,
	"serif-bold":   lmroman10bold.TTF,
	"serif-italic": lmroman10italic.TTF,
	"mono":         lmmono10regular.TTF,
}

// Load 返回字体数据。src 可写为 "builtin:sans"、"embed:sans" 或字体文件路径；
// 空字符串等同于 DefaultSource。
func Load(src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		src = DefaultSource
	}
	if name, ok := builtinName(src); ok {
		data, found := builtins[name]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownBuiltin, name)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// IsBuiltin reports whether src refers to a bundled font.
func IsBuiltin(src string) bool {
	_, ok := builtinName(strings.TrimSpace(src))
	return ok
}

// Builtins lists the bundled font names in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtinName(src string) (string, bool) {
	for _, prefix := range []string{builtinPrefix, "embed:"} {
		if strings.HasPrefix(src, prefix) {
			return strings.ToLower(strings.TrimPrefix(src, prefix)), true
		}
	}
	return "", false
}
