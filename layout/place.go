package layout

import "fmt"

// Place 计算标题与各行字幕的坐标：标题位于垂直中线上方 MidGap 处，
// 字幕从中线下方 MidGap 处开始逐行向下堆叠，所有文本水平居中。
// lines 被视为已满足宽度与行数约束，这里不再校验。
func Place(title string, lines WrappedLines, m Metrics, cfg Config) (Placement, error) {
	var p Placement
	if m == nil {
		return p, fmt.Errorf("layout: 缺少测量后端 Metrics")
	}
	if err := cfg.Validate(); err != nil {
		return p, err
	}
	dim := cfg.Dimensions()
	gap := int(float64(dim.Height) * cfg.MidGap)

	titleSize := cfg.titleSize()
	ts, err := m.Measure(title, titleSize)
	if err != nil {
		return p, fmt.Errorf("测量标题失败: %w", err)
	}
	if ts.Width > dim.Width {
		return p, fmt.Errorf("%w: %q 宽 %dpx，画布宽 %dpx", ErrTitleTooWide, title, ts.Width, dim.Width)
	}
	p.Title = PlacedText{
		Content: title,
		X:       center(dim.Width, ts.Width),
		Y:       center(dim.Height, ts.Height) - gap,
		Size:    titleSize,
		Width:   ts.Width,
		Height:  ts.Height,
		Color:   cfg.TitleColor,
	}

	captionSize := cfg.captionSize()
	spacing := int(float64(dim.Height) * cfg.LineSpacing)
	p.Lines = make([]PlacedText, 0, len(lines))
	for i, line := range lines {
		s, err := m.Measure(line, captionSize)
		if err != nil {
			return p, fmt.Errorf("测量第 %d 行失败: %w", i+1, err)
		}
		p.Lines = append(p.Lines, PlacedText{
			Content: line,
			X:       center(dim.Width, s.Width),
			// 行高取本行实测高度，字形越高后续行下移越多
			Y:      center(dim.Height, s.Height) + gap + i*(s.Height+spacing),
			Size:   captionSize,
			Width:  s.Width,
			Height: s.Height,
			Color:  cfg.CaptionColor,
		})
	}
	return p, nil
}

func center(constraint, size int) int {
	return (constraint - size) / 2
}
