package canvasrenderer

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gomedium"

	"github.com/ByLCY/titlecard/layout"
)

func newTestRenderer() *Renderer {
	return NewRenderer(".", layout.DefaultConfig().Font)
}

func TestMeasureIsMonotonicAndStable(t *testing.T) {
	r := newTestRenderer()
	const size = 100

	one, err := r.Measure("A", size)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	two, err := r.Measure("AA", size)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	if one.Width <= 0 || two.Width <= one.Width {
		t.Fatalf("width should grow with text: %d -> %d", one.Width, two.Width)
	}
	if one.Height <= 0 || one.Height != two.Height {
		t.Fatalf("same glyphs should share a height: %d vs %d", one.Height, two.Height)
	}

	again, _ := r.Measure("AA", size)
	if again != two {
		t.Fatalf("measure is not deterministic: %+v vs %+v", two, again)
	}

	bigger, _ := r.Measure("AA", size*2)
	if bigger.Width <= two.Width || bigger.Height <= two.Height {
		t.Fatalf("size should scale the box: %+v vs %+v", two, bigger)
	}
}

// 高度取字形轮廓：短横线低于大写字母，带降部的字母使行变高。
func TestMeasureHeightFollowsGlyphs(t *testing.T) {
	r := newTestRenderer()
	const size = 100
	dash, _ := r.Measure("-", size)
	caps, _ := r.Measure("AAA", size)
	desc, err := r.Measure("Ag", size)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	if dash.Height <= 0 || dash.Height >= caps.Height {
		t.Fatalf("dash should be shorter than caps: %d vs %d", dash.Height, caps.Height)
	}
	if desc.Height <= caps.Height {
		t.Fatalf("descender should add height: %d vs %d", desc.Height, caps.Height)
	}
}

func TestPlaceUsesMeasuredLineHeight(t *testing.T) {
	r := newTestRenderer()
	cfg := layout.DefaultConfig()
	flat, err := layout.Place(cfg.Title, layout.WrappedLines{"AAA", "AA"}, r, cfg)
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	tall, err := layout.Place(cfg.Title, layout.WrappedLines{"AAA", "Ag"}, r, cfg)
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	if tall.Lines[1].Height <= flat.Lines[1].Height || tall.Lines[1].Y == flat.Lines[1].Y {
		t.Fatalf("line position ignores glyph height: %+v vs %+v", flat.Lines[1], tall.Lines[1])
	}
}

func TestMeasureUnknownFont(t *testing.T) {
	for _, src := range []string{"embed:Nope", "does-not-exist.ttf"} {
		r := NewRenderer(t.TempDir(), layout.FontResource{Name: "Body", Src: src})
		if _, err := r.Measure("A", 12); err == nil {
			t.Fatalf("expected error for font %q", src)
		}
	}
}

func TestFontFromRelativePath(t *testing.T) {
	want, err := newTestRenderer().Measure("HELLO", 50)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "body.ttf"), gomedium.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	r := NewRenderer(dir, layout.FontResource{Name: "Body", Src: "body.ttf"})
	got, err := r.Measure("HELLO", 50)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	if got != want {
		t.Fatalf("file font measured differently: %+v vs %+v", got, want)
	}
}

func TestWrapWithEmbeddedFont(t *testing.T) {
	r := newTestRenderer()
	cfg := layout.DefaultConfig()

	wide := cfg
	wide.Wide = true
	lines, err := layout.Wrap("Shorties", r, wide)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "S H O R T I E S" {
		t.Fatalf("unexpected wide wrap: %q", lines)
	}

	if _, err := layout.Wrap(strings.Repeat("W", 40), r, cfg); !errors.Is(err, layout.ErrWordTooLong) {
		t.Fatalf("expected ErrWordTooLong, got %v", err)
	}
	if _, err := layout.Wrap(strings.Repeat("lorem ipsum ", 40), r, cfg); !errors.Is(err, layout.ErrTooManyLines) {
		t.Fatalf("expected ErrTooManyLines, got %v", err)
	}
}

// 由短词拼出总宽约为 1.2 倍预算的字幕，应当恰好拆成两行且每行都不超宽。
func TestWrapDynamicTwoLines(t *testing.T) {
	r := newTestRenderer()
	cfg := layout.DefaultConfig()
	limit := int(float64(cfg.Dimensions().Width) * cfg.Margin)
	size := float64(cfg.Height) * cfg.CaptionScale

	words := []string{}
	for {
		words = append(words, "ECHO")
		s, err := r.Measure(strings.Join(words, " "), size)
		if err != nil {
			t.Fatalf("Measure error: %v", err)
		}
		if float64(s.Width) > 1.2*float64(limit) {
			break
		}
	}

	lines, err := layout.Wrap(strings.Join(words, " "), r, cfg)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
	for _, line := range lines {
		s, _ := r.Measure(line, size)
		if s.Width > limit {
			t.Fatalf("line %q width %d exceeds %d", line, s.Width, limit)
		}
	}
	if strings.Join(lines, " ") != strings.Join(words, " ") {
		t.Fatalf("tokens changed: %q", lines)
	}
}

func TestRenderProducesGradientCard(t *testing.T) {
	r := newTestRenderer()
	cfg := layout.DefaultConfig()
	cfg.Height = 360 // 640x360，足够验证且渲染较快
	cfg.Background = []layout.Color{{R: 0, G: 0, B: 0}, {R: 200, G: 100, B: 50}}

	card, err := layout.Build("Alpha beta gamma", r, cfg)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	img, err := r.Render(card)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 360 {
		t.Fatalf("unexpected image bounds %v", b)
	}

	assertNear(t, img.At(3, 3), GradientAt(cfg.Background, 3, 360))
	assertNear(t, img.At(3, 356), GradientAt(cfg.Background, 356, 360))

	// 标题区域中应存在接近白色的像素
	found := false
	for y := card.Title.Y; y < card.Title.Y+card.Title.Height && !found; y++ {
		for x := card.Title.X; x < card.Title.X+card.Title.Width; x++ {
			rr, gg, bb, _ := img.At(x, y).RGBA()
			if rr>>8 > 240 && gg>>8 > 240 && bb>>8 > 240 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("title text was not drawn inside its placement box")
	}
}

func TestRenderRejectsInvalidCard(t *testing.T) {
	r := newTestRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil card")
	}
	if _, err := r.Render(&layout.Card{}); err == nil {
		t.Fatalf("expected error for zero-sized card")
	}
}

func TestGradientAt(t *testing.T) {
	stops := []layout.Color{{R: 0, G: 0, B: 0}, {R: 26, G: 25, B: 28}}
	if got := GradientAt(stops, 0, 1080); got != (color.RGBA{A: 255}) {
		t.Fatalf("top row should equal first stop, got %+v", got)
	}
	if got := GradientAt(stops, 1079, 1080); got != (color.RGBA{R: 26, G: 25, B: 28, A: 255}) {
		t.Fatalf("bottom row should equal last stop, got %+v", got)
	}
	mid := GradientAt([]layout.Color{{R: 0}, {R: 100}, {R: 0}}, 50, 101)
	if mid.R != 100 {
		t.Fatalf("middle stop should be hit exactly, got %+v", mid)
	}
	if got := GradientAt(nil, 10, 20); got != (color.RGBA{A: 255}) {
		t.Fatalf("no stops should render black, got %+v", got)
	}
	if got := GradientAt(stops[1:], 10, 20); got != (color.RGBA{R: 26, G: 25, B: 28, A: 255}) {
		t.Fatalf("single stop should be solid, got %+v", got)
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"":            canvas.FontRegular,
		"Bold":        canvas.FontBold,
		"bold italic": canvas.FontBold | canvas.FontItalic,
		"DemiBold":    canvas.FontSemiBold,
		"light":       canvas.FontLight,
		"ExtraBold":   canvas.FontExtraBold,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", in, got, want)
		}
	}
}

func assertNear(t *testing.T, got color.Color, want color.RGBA) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	diff := func(a uint32, b uint8) int {
		d := int(a>>8) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}
	if diff(r, want.R) > 2 || diff(g, want.G) > 2 || diff(b, want.B) > 2 {
		t.Fatalf("pixel %v not near %v", got, want)
	}
}
