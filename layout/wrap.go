package layout

import (
	"fmt"
	"strings"
)

// Normalize 去掉首尾空白并转为大写。大小写转换只作用于 ASCII 字母，其他文字保持不变。
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, strings.TrimSpace(raw))
}

// Separator 返回 Token 之间的分隔符：宽排模式下为两个空格，否则为一个。
func Separator(wide bool) string {
	if wide {
		return "  "
	}
	return " "
}

// Tokenize 按空格切分出 Token。宽排模式下每个 Token 的字符之间插入一个空格。
func Tokenize(text string, wide bool) []Token {
	words := strings.FieldsFunc(text, func(r rune) bool { return r == ' ' })
	if !wide {
		return words
	}
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = letterSpace(w)
	}
	return tokens
}

func letterSpace(word string) string {
	var b strings.Builder
	for i, r := range []rune(word) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Wrap 将字幕拆成不超过 cfg.MaxLines 行、每行不超过宽度预算的若干行。
//
// 行数按整段文本的宽度估算，再把宽度均分成若干条带（band）：每个 Token
// 依据“到它为止的前缀”实测宽度落入哪条带来决定行号。前缀整体测量而非逐词
// 累加，以保留字体引擎的字距与连字效果。均分后若某行仍超出预算，则多分一条
// 带重试，直到满足预算或超过最大行数，最后退回逐词填充。
func Wrap(raw string, m Metrics, cfg Config) (WrappedLines, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Metrics")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	text := Normalize(raw)
	if text == "" {
		return nil, &WrapError{Kind: ErrEmptyInput}
	}

	tokens := Tokenize(text, cfg.Wide)
	sep := Separator(cfg.Wide)
	size := cfg.captionSize()
	limit := cfg.limit()
	if limit <= 0 {
		return nil, fmt.Errorf("单行宽度预算无效: %dpx", limit)
	}

	for _, tok := range tokens {
		s, err := m.Measure(tok, size)
		if err != nil {
			return nil, fmt.Errorf("测量单词 %q 失败: %w", tok, err)
		}
		if s.Width > limit {
			return nil, &WrapError{Kind: ErrWordTooLong, Token: tok, Limit: limit}
		}
	}

	acc := make([]int, len(tokens))
	for i := range tokens {
		s, err := m.Measure(strings.Join(tokens[:i+1], sep), size)
		if err != nil {
			return nil, fmt.Errorf("测量文本宽度失败: %w", err)
		}
		acc[i] = s.Width
	}
	total := acc[len(acc)-1]

	need := bandCount(total, limit)
	if need > cfg.MaxLines {
		return nil, &WrapError{Kind: ErrTooManyLines, Lines: need, Limit: limit}
	}
	for n := need; n <= cfg.MaxLines; n++ {
		lines := assignBands(tokens, acc, total, n, sep)
		ok, err := fitsLimit(lines, m, size, limit)
		if err != nil {
			return nil, err
		}
		if ok {
			return lines, nil
		}
	}

	// 均分无法满足预算时退回逐词填充；填充法行数最少，它仍超限才判定为过长。
	lines, err := greedyFill(tokens, sep, m, size, limit)
	if err != nil {
		return nil, err
	}
	if len(lines) > cfg.MaxLines {
		return nil, &WrapError{Kind: ErrTooManyLines, Lines: len(lines), Limit: limit}
	}
	return lines, nil
}

// bandCount 计算容纳 total 宽度所需的条带数；恰好为整数倍时不额外多开一行。
func bandCount(total, limit int) int {
	n := total / limit
	if total%limit != 0 || n == 0 {
		n++
	}
	return n
}

// assignBands 把 Token 按前缀宽度分配到 n 条带中，空带被丢弃。
func assignBands(tokens []Token, acc []int, total, n int, sep string) WrappedLines {
	target := (total + n - 1) / n
	if target <= 0 {
		target = 1
	}
	buckets := make([][]string, n)
	prev := 0
	for i, tok := range tokens {
		line := acc[i] / target
		if acc[i]%target == 0 && line > 0 {
			line--
		}
		// 前缀宽度在字距影响下可能不单调，行号不得回退
		if line < prev {
			line = prev
		}
		if line > n-1 {
			line = n - 1
		}
		buckets[line] = append(buckets[line], tok)
		prev = line
	}

	lines := make(WrappedLines, 0, n)
	for _, b := range buckets {
		if len(b) == 0 {
			continue
		}
		lines = append(lines, strings.Join(b, sep))
	}
	return lines
}

// greedyFill 逐词追加到当前行，追加后超出预算则另起一行。
func greedyFill(tokens []Token, sep string, m Metrics, size float64, limit int) (WrappedLines, error) {
	var lines WrappedLines
	current := ""
	for _, tok := range tokens {
		if current == "" {
			current = tok
			continue
		}
		candidate := current + sep + tok
		s, err := m.Measure(candidate, size)
		if err != nil {
			return nil, fmt.Errorf("测量行 %q 失败: %w", candidate, err)
		}
		if s.Width > limit {
			lines = append(lines, current)
			current = tok
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines, nil
}

func fitsLimit(lines WrappedLines, m Metrics, size float64, limit int) (bool, error) {
	for _, line := range lines {
		s, err := m.Measure(line, size)
		if err != nil {
			return false, fmt.Errorf("测量行 %q 失败: %w", line, err)
		}
		if s.Width > limit {
			return false, nil
		}
	}
	return true, nil
}
