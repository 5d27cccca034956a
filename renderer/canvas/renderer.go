package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/titlecard/fonts"
	"github.com/ByLCY/titlecard/layout"
	"github.com/ByLCY/titlecard/renderer"
)

// 画布 1 单位按 1mm 计，光栅化分辨率为 1 像素/mm，因此 1 单位 = 1 像素。
const (
	mmToPt     = 72.0 / 25.4
	resolution = canvas.Resolution(1.0) // 像素/mm
)

// Renderer measures and draws title cards via github.com/tdewolff/canvas.
// 字体族缓存由互斥锁保护；字体后端本身不保证可重入，服务端仍应按请求各建一个实例。
type Renderer struct {
	baseDir string
	font    layout.FontResource // Measure 使用的字体

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Metrics    = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// NewRenderer creates a renderer that measures with font and resolves relative font paths against baseDir.
func NewRenderer(baseDir string, font layout.FontResource) *Renderer {
	if font.Src == "" {
		font = layout.FontResource{Name: "Body", Src: "embed:" + fonts.Default}
	}
	return &Renderer{
		baseDir:      baseDir,
		font:         font,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Measure 实现 layout.Metrics：宽度取字形前进宽度之和，高度取字形轮廓包围盒的高度，均向上取整。
// 因此高度随内容变化，例如含降部的行比纯大写的行更高。
func (r *Renderer) Measure(text string, size float64) (layout.Size, error) {
	face, err := r.fontFace(r.font, size, layout.Color{})
	if err != nil {
		return layout.Size{}, err
	}
	bounds, err := glyphBounds(face, text)
	if err != nil {
		return layout.Size{}, err
	}
	return layout.Size{
		Width:  int(math.Ceil(face.TextWidth(text))),
		Height: int(math.Ceil(bounds.H())),
	}, nil
}

// glyphBounds 返回文本字形轮廓相对基线的包围盒（y 轴向上）。空白文本的包围盒为零。
func glyphBounds(face *canvas.FontFace, text string) (canvas.Rect, error) {
	p, _, err := face.ToPath(text)
	if err != nil {
		return canvas.Rect{}, fmt.Errorf("生成 %q 的字形轮廓失败: %w", text, err)
	}
	return p.Bounds(), nil
}

// Render 合成标题卡并光栅化为 RGBA 图像。
func (r *Renderer) Render(card *layout.Card) (image.Image, error) {
	if card == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if card.Dimensions.Width <= 0 || card.Dimensions.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d", card.Dimensions.Width, card.Dimensions.Height)
	}
	font := card.Font
	if font.Src == "" {
		font = r.font
	}

	c := canvas.New(float64(card.Dimensions.Width), float64(card.Dimensions.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	drawGradient(ctx, card.Dimensions, card.Background)

	// 先标题，后逐行字幕
	if err := r.drawText(ctx, font, card.Title); err != nil {
		return nil, err
	}
	for _, line := range card.Lines {
		if err := r.drawText(ctx, font, line); err != nil {
			return nil, err
		}
	}

	return rasterizer.Draw(c, resolution, canvas.DefaultColorSpace), nil
}

// drawGradient 自上而下逐行填充，颜色在相邻色标之间线性插值。
func drawGradient(ctx *canvas.Context, dim layout.Dimensions, stops []layout.Color) {
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	width := float64(dim.Width)
	for y := 0; y < dim.Height; y++ {
		ctx.SetFillColor(GradientAt(stops, y, dim.Height))
		ctx.DrawPath(0, float64(y), canvas.Rectangle(width, 1))
	}
}

// GradientAt 返回第 y 行（共 height 行）的背景颜色。
func GradientAt(stops []layout.Color, y, height int) color.RGBA {
	switch len(stops) {
	case 0:
		return color.RGBA{A: 255}
	case 1:
		return toRGBA(stops[0])
	}
	t := 0.0
	if height > 1 {
		t = float64(y) / float64(height-1)
	}
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return toRGBA(stops[len(stops)-1])
	}
	frac := pos - float64(i)
	a, b := stops[i], stops[i+1]
	lerp := func(x, y int) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

func (r *Renderer) drawText(ctx *canvas.Context, font layout.FontResource, pt layout.PlacedText) error {
	if pt.Content == "" {
		return nil
	}
	face, err := r.fontFace(font, pt.Size, pt.Color)
	if err != nil {
		return err
	}
	bounds, err := glyphBounds(face, pt.Content)
	if err != nil {
		return err
	}
	// 基线位置：包围盒顶部加上字形在基线以上的高度
	baseline := float64(pt.Y) + bounds.Y1
	ctx.DrawText(float64(pt.X), baseline, canvas.NewTextLine(face, pt.Content, canvas.Left))
	return nil
}

// fontFace 以像素字号创建字体面；canvas 的字号单位为 pt，这里做一次 px→pt。
func (r *Renderer) fontFace(font layout.FontResource, sizePx float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*mmToPt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	data, err := r.loadFontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("解析字体 %s 失败: %w", font.Src, err)
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func toRGBA(c layout.Color) color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}
