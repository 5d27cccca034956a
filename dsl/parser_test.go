package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/titlecard/dsl"
)

const sampleCard = `
// 默认标题卡
card NoMore v1 {
  canvas {
    height: 720
    aspect: "16:9"
  }

  title {
    text: "N O  M O R E"
    scale: 14.815%
    color: #FFFFFF
  }

  caption {
    scale: 100px
    margin: 0.8
    max-lines: 3
    wide: true
  }

  gap: 9.26%
  background { colors: [#000000, #1A191C] }
  font Body {
    src: "embed:Go-Bold"
  }
}
`

func TestParseCard(t *testing.T) {
	doc, err := dsl.ParseString(sampleCard)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "NoMore" {
		t.Fatalf("expected card name NoMore, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Statements) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(doc.Statements))
	}

	canvasCmd := doc.Statements[0].Command
	if canvasCmd == nil || canvasCmd.Name != "canvas" {
		t.Fatalf("expected canvas section, got %+v", doc.Statements[0])
	}
	height := canvasCmd.Block.Statements[0].Assignment
	if height == nil || height.Key != "height" || height.Value.Number == nil || *height.Value.Number != "720" {
		t.Fatalf("unexpected height assignment: %+v", canvasCmd.Block.Statements[0])
	}
	aspect := canvasCmd.Block.Statements[1].Assignment
	if aspect == nil || aspect.Value.String == nil || string(*aspect.Value.String) != "16:9" {
		t.Fatalf("unexpected aspect assignment: %+v", canvasCmd.Block.Statements[1])
	}

	title := doc.Statements[1].Command
	if title == nil || len(title.Block.Statements) != 3 {
		t.Fatalf("title section malformed: %+v", doc.Statements[1])
	}
	if got := string(*title.Block.Statements[0].Assignment.Value.String); got != "N O  M O R E" {
		t.Fatalf("expected title text to keep double space, got %q", got)
	}
	if got := *title.Block.Statements[1].Assignment.Value.Number; got != "14.815%" {
		t.Fatalf("expected percent length, got %s", got)
	}
	if c := title.Block.Statements[2].Assignment.Value.Color; c == nil || *c != "#FFFFFF" {
		t.Fatalf("expected full six digit color, got %v", c)
	}

	caption := doc.Statements[2].Command
	wide := caption.Block.Statements[3].Assignment
	if wide == nil || wide.Key != "wide" || wide.Value.Expr == nil {
		t.Fatalf("expected wide expression, got %+v", caption.Block.Statements[3])
	}
	if got := tokensToString(wide.Value.Expr.Parts); got != "true" {
		t.Fatalf("unexpected wide tokens: %s", got)
	}
	if caption.Block.Statements[2].Assignment.Key != "max-lines" {
		t.Fatalf("expected hyphenated key, got %s", caption.Block.Statements[2].Assignment.Key)
	}

	gap := doc.Statements[3].Assignment
	if gap == nil || gap.Key != "gap" {
		t.Fatalf("expected top-level gap assignment, got %+v", doc.Statements[3])
	}

	bg := doc.Statements[4].Command
	colors := bg.Block.Statements[0].Assignment
	if colors == nil || colors.Value.Array == nil || len(colors.Value.Array.Values) != 2 {
		t.Fatalf("expected two background colors, got %+v", bg.Block.Statements[0])
	}
	if got := *colors.Value.Array.Values[1].Color; got != "#1A191C" {
		t.Fatalf("unexpected second color: %s", got)
	}

	font := doc.Statements[5].Command
	if font == nil || len(font.Args) != 1 || font.Args[0].Value != "Body" {
		t.Fatalf("unexpected font args: %+v", font)
	}
}

func TestParseRejectsMissingBrace(t *testing.T) {
	if _, err := dsl.ParseString("card Broken v1 {\n  title { text: \"x\" }\n"); err == nil {
		t.Fatalf("expected error for unterminated card")
	}
}

func TestParseFromReader(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader("card Minimal {\n}\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Minimal" || doc.Version != "" || len(doc.Statements) != 0 {
		t.Fatalf("unexpected minimal document: %+v", doc)
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
