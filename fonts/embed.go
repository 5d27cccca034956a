package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

var builtin = map[string][]byte{
	"Go-Regular": goregular.TTF,
	"Go-Medium":  gomedium.TTF,
	"Go-Bold":    gobold.TTF,
	"Go-Mono":    gomono.TTF,
}

// Default 是未配置字体时使用的内置字体名。
const Default = "Go-Medium"

// Load 返回内置字体的字节数据，name 可写为 "embed:Go-Medium" 或直接 "Go-Medium"，可带 .ttf 后缀。
func Load(name string) ([]byte, error) {
	clean := strings.TrimSuffix(strings.TrimPrefix(name, "embed:"), ".ttf")
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 可选 %s", clean, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 列出全部内置字体名。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
