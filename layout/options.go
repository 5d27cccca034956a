package layout

import "fmt"

// Metrics 负责测量文本在给定字号（像素）下的渲染包围盒。
// 对同一字体、字号与字符串，结果必须是确定的。
type Metrics interface {
	Measure(text string, size float64) (Size, error)
}

// Config 汇总标题卡的全部可调参数。比例类字段均为相对画布高度的分数，Margin 相对画布宽度。
type Config struct {
	Height  int
	AspectW int
	AspectH int

	Title        string
	TitleScale   float64
	CaptionScale float64
	MidGap       float64
	Margin       float64
	LineSpacing  float64
	MaxLines     int
	Wide         bool

	TitleColor   Color
	CaptionColor Color
	Background   []Color // 自上而下的渐变色标
	Font         FontResource
	Output       string
}

// DefaultConfig 返回默认配置：1080p、16:9、白字、近黑渐变背景。
func DefaultConfig() Config {
	return Config{
		Height:       1080,
		AspectW:      16,
		AspectH:      9,
		Title:        "N O  M O R E",
		TitleScale:   1 / 6.75,
		CaptionScale: 1 / 10.8,
		MidGap:       1 / 10.8,
		Margin:       0.8,
		LineSpacing:  0.0125,
		MaxLines:     4,
		TitleColor:   Color{R: 255, G: 255, B: 255},
		CaptionColor: Color{R: 255, G: 255, B: 255},
		Background:   []Color{{R: 0, G: 0, B: 0}, {R: 26, G: 25, B: 28}},
		Font:         FontResource{Name: "Body", Src: "embed:Go-Medium"},
		Output:       "output.png",
	}
}

// Dimensions 按宽高比由高度推导画布尺寸。
func (c Config) Dimensions() Dimensions {
	return Dimensions{Width: c.Height * c.AspectW / c.AspectH, Height: c.Height}
}

// Validate 检查配置是否可用于排版。
func (c Config) Validate() error {
	switch {
	case c.Height <= 0:
		return fmt.Errorf("画布高度必须为正数: %d", c.Height)
	case c.AspectW <= 0 || c.AspectH <= 0:
		return fmt.Errorf("宽高比无效: %d:%d", c.AspectW, c.AspectH)
	case c.TitleScale <= 0:
		return fmt.Errorf("标题比例必须为正数: %g", c.TitleScale)
	case c.CaptionScale <= 0:
		return fmt.Errorf("字幕比例必须为正数: %g", c.CaptionScale)
	case c.MidGap < 0:
		return fmt.Errorf("中线间距不能为负: %g", c.MidGap)
	case c.Margin <= 0 || c.Margin > 1:
		return fmt.Errorf("margin 必须在 (0, 1] 内: %g", c.Margin)
	case c.LineSpacing < 0:
		return fmt.Errorf("行距不能为负: %g", c.LineSpacing)
	case c.MaxLines < 1:
		return fmt.Errorf("最大行数至少为 1: %d", c.MaxLines)
	case len(c.Background) == 0:
		return fmt.Errorf("背景至少需要一个颜色")
	}
	return nil
}

// limit 返回单行可用宽度（像素，向下取整）。
func (c Config) limit() int {
	return int(float64(c.Dimensions().Width) * c.Margin)
}

func (c Config) titleSize() float64   { return float64(c.Height) * c.TitleScale }
func (c Config) captionSize() float64 { return float64(c.Height) * c.CaptionScale }
