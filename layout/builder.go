package layout

// Build 串联换行与定位，生成一张可直接渲染的标题卡。
// 换行失败时返回 *WrapError，调用方可据此重新提示输入。
func Build(caption string, m Metrics, cfg Config) (*Card, error) {
	lines, err := Wrap(caption, m, cfg)
	if err != nil {
		return nil, err
	}
	p, err := Place(cfg.Title, lines, m, cfg)
	if err != nil {
		return nil, err
	}
	return &Card{
		Dimensions: cfg.Dimensions(),
		Background: append([]Color(nil), cfg.Background...),
		Font:       cfg.Font,
		Title:      p.Title,
		Lines:      p.Lines,
	}, nil
}
