package layout

// 该文件定义标题卡的数据模型，供换行、定位、渲染与调试 JSON 共用。

// Dimensions 是画布的像素尺寸，由配置高度与宽高比推导。
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size 是一段文本在给定字号下的包围盒（像素）。
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Token 是换行的最小单位，不会被拆开。
type Token = string

// WrappedLines 按阅读顺序保存折行结果，每行由分隔符连接的若干 Token 组成。
type WrappedLines []string

// FontResource 描述字体来源，src 可以是文件路径或 embed:<name>。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// PlacedText 表示已经定好坐标的一段文本，(X, Y) 为包围盒左上角。
type PlacedText struct {
	Content string  `json:"content"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Size    float64 `json:"size"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Color   Color   `json:"color"`
}

// Placement 是 Place 的结果：标题与各行字幕的位置。
type Placement struct {
	Title PlacedText   `json:"title"`
	Lines []PlacedText `json:"lines"`
}

// Card 保存一张标题卡的完整排版结果，渲染器只消费它。
type Card struct {
	Dimensions Dimensions   `json:"dimensions"`
	Background []Color      `json:"background"`
	Font       FontResource `json:"font"`
	Title      PlacedText   `json:"title"`
	Lines      []PlacedText `json:"lines"`
}
