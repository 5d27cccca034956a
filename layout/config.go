package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/titlecard/dsl"
)

// ConfigFromDocument 在 base 的基础上应用配置文件中的各项设置。
// 未出现的配置项保持 base 中的值；未知的段落或键会报错并带上位置。
func ConfigFromDocument(doc *dsl.Document, base Config) (Config, error) {
	if doc == nil {
		return base, fmt.Errorf("配置文档为空")
	}
	cfg := base
	for _, stmt := range doc.Statements {
		var err error
		switch {
		case stmt.Assignment != nil:
			err = applyTopLevel(&cfg, stmt.Assignment)
		case stmt.Command != nil:
			err = applySection(&cfg, stmt.Command)
		}
		if err != nil {
			return base, err
		}
	}
	return cfg, cfg.Validate()
}

func applyTopLevel(cfg *Config, a *dsl.Assignment) error {
	switch strings.ToLower(a.Key) {
	case "gap", "mid-gap":
		return setHeightFraction(&cfg.MidGap, cfg, a)
	case "title":
		cfg.Title = valueToString(a.Value)
		return nil
	case "output":
		cfg.Output = valueToString(a.Value)
		return nil
	default:
		return unknownKey(a)
	}
}

func applySection(cfg *Config, cmd *dsl.Command) error {
	if cmd.Block == nil {
		return fmt.Errorf("%s: %s 段落缺少内容", cmd.Pos, cmd.Name)
	}
	name := strings.ToLower(cmd.Name)
	for _, stmt := range cmd.Block.Statements {
		a := stmt.Assignment
		if a == nil {
			return fmt.Errorf("%s: %s 段落内只允许 key: value", cmd.Pos, cmd.Name)
		}
		var err error
		switch name {
		case "canvas":
			err = applyCanvas(cfg, a)
		case "title":
			err = applyTitle(cfg, a)
		case "caption":
			err = applyCaption(cfg, a)
		case "background":
			err = applyBackground(cfg, a)
		case "font":
			err = applyFont(cfg, cmd, a)
		case "output":
			err = applyOutput(cfg, a)
		default:
			return fmt.Errorf("%s: 未知段落 %q", cmd.Pos, cmd.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyCanvas(cfg *Config, a *dsl.Assignment) error {
	switch strings.ToLower(a.Key) {
	case "height":
		h, err := valueToInt(a)
		if err != nil {
			return err
		}
		cfg.Height = h
	case "aspect":
		w, h, err := parseAspect(valueToString(a.Value))
		if err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
		cfg.AspectW, cfg.AspectH = w, h
	default:
		return unknownKey(a)
	}
	return nil
}

func applyTitle(cfg *Config, a *dsl.Assignment) error {
	switch strings.ToLower(a.Key) {
	case "text":
		cfg.Title = valueToString(a.Value)
	case "scale", "size":
		return setHeightFraction(&cfg.TitleScale, cfg, a)
	case "color":
		c, err := valueToColor(a)
		if err != nil {
			return err
		}
		cfg.TitleColor = c
	default:
		return unknownKey(a)
	}
	return nil
}

func applyCaption(cfg *Config, a *dsl.Assignment) error {
	switch strings.ToLower(a.Key) {
	case "scale", "size":
		return setHeightFraction(&cfg.CaptionScale, cfg, a)
	case "margin":
		l, err := valueToLength(a)
		if err != nil {
			return err
		}
		cfg.Margin = l.Fraction(float64(cfg.Dimensions().Width))
	case "line-spacing":
		return setHeightFraction(&cfg.LineSpacing, cfg, a)
	case "max-lines":
		n, err := valueToInt(a)
		if err != nil {
			return err
		}
		cfg.MaxLines = n
	case "wide":
		b, err := valueToBool(a)
		if err != nil {
			return err
		}
		cfg.Wide = b
	case "color":
		c, err := valueToColor(a)
		if err != nil {
			return err
		}
		cfg.CaptionColor = c
	default:
		return unknownKey(a)
	}
	return nil
}

func applyBackground(cfg *Config, a *dsl.Assignment) error {
	switch strings.ToLower(a.Key) {
	case "colors":
		if a.Value.Array == nil {
			c, err := valueToColor(a)
			if err != nil {
				return err
			}
			cfg.Background = []Color{c}
			return nil
		}
		stops := make([]Color, 0, len(a.Value.Array.Values))
		for _, v := range a.Value.Array.Values {
			c, err := parseColor(valueToString(v))
			if err != nil {
				return fmt.Errorf("%s: %w", a.Pos, err)
			}
			stops = append(stops, c)
		}
		cfg.Background = stops
	case "from", "to":
		c, err := valueToColor(a)
		if err != nil {
			return err
		}
		stops := append([]Color(nil), cfg.Background...)
		for len(stops) < 2 {
			stops = append(stops, c)
		}
		if strings.ToLower(a.Key) == "from" {
			stops[0] = c
		} else {
			stops[len(stops)-1] = c
		}
		cfg.Background = stops
	default:
		return unknownKey(a)
	}
	return nil
}

func applyFont(cfg *Config, cmd *dsl.Command, a *dsl.Assignment) error {
	if len(cmd.Args) > 0 {
		cfg.Font.Name = cmd.Args[0].Value
	}
	switch strings.ToLower(a.Key) {
	case "src":
		cfg.Font.Src = valueToString(a.Value)
	case "style":
		cfg.Font.Style = valueToString(a.Value)
	default:
		return unknownKey(a)
	}
	return nil
}

func applyOutput(cfg *Config, a *dsl.Assignment) error {
	switch strings.ToLower(a.Key) {
	case "path":
		cfg.Output = valueToString(a.Value)
	default:
		return unknownKey(a)
	}
	return nil
}

// setHeightFraction 解析长度并换算为画布高度的分数，px 按当前高度换算。
func setHeightFraction(dst *float64, cfg *Config, a *dsl.Assignment) error {
	l, err := valueToLength(a)
	if err != nil {
		return err
	}
	*dst = l.Fraction(float64(cfg.Height))
	return nil
}

func unknownKey(a *dsl.Assignment) error {
	return fmt.Errorf("%s: 未知配置项 %q", a.Pos, a.Key)
}

func parseAspect(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("宽高比应形如 16:9，实际 %q", value)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("宽高比 %q 无法解析: %w", value, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("宽高比 %q 无法解析: %w", value, err)
	}
	return w, h, nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
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

func valueToLength(a *dsl.Assignment) (Length, error) {
	l, err := ParseLength(valueToString(a.Value))
	if err != nil {
		return Length{}, fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
	}
	return l, nil
}

func valueToInt(a *dsl.Assignment) (int, error) {
	n, err := strconv.Atoi(valueToString(a.Value))
	if err != nil {
		return 0, fmt.Errorf("%s: %s 需要整数: %w", a.Pos, a.Key, err)
	}
	return n, nil
}

func valueToBool(a *dsl.Assignment) (bool, error) {
	b, err := strconv.ParseBool(valueToString(a.Value))
	if err != nil {
		return false, fmt.Errorf("%s: %s 需要 true/false: %w", a.Pos, a.Key, err)
	}
	return b, nil
}

func valueToColor(a *dsl.Assignment) (Color, error) {
	c, err := parseColor(valueToString(a.Value))
	if err != nil {
		return Color{}, fmt.Errorf("%s: %w", a.Pos, err)
	}
	return c, nil
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var rgb [3]int
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		rgb[i] = int(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
