package template

import (
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokVar
	tokIf
	tokElse
	tokEndIf
	tokEach
	tokEndEach
)

type token struct {
	kind tokenKind
	raw  string // 原始文本，含 {{ }}
	expr string // 标签内的表达式
	pos  int
}

// emptyBlock is a {{#if}} or {{#each}} tag without an expression. It is
// rendered as text.
type emptyBlock struct {
	keyword string
	pos     int
}

// lex splits src into text and tag tokens. An opening delimiter without a
// matching close stays in the text; its offset is returned in unterminated.
func lex(src string) (tokens []token, unterminated []int, empty []emptyBlock) {
	var text strings.Builder
	textStart := 0
	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, token{kind: tokText, raw: text.String(), pos: textStart})
			text.Reset()
		}
	}

	i := 0
	for i < len(src) {
		start := strings.Index(src[i:], openDelim)
		if start < 0 {
			if text.Len() == 0 {
				textStart = i
			}
			text.WriteString(src[i:])
			break
		}
		start += i
		if text.Len() == 0 {
			textStart = i
		}
		text.WriteString(src[i:start])

		end := strings.Index(src[start+len(openDelim):], closeDelim)
		if end < 0 {
			unterminated = append(unterminated, start)
			text.WriteString(src[start:])
			break
		}
		end += start + len(openDelim)
		inner := src[start+len(openDelim) : end]

		// {{a {{b}}：前一个 {{ 未闭合
		if nested := strings.Index(inner, openDelim); nested >= 0 {
			unterminated = append(unterminated, start)
			text.WriteString(src[start : start+len(openDelim)+nested])
			i = start + len(openDelim) + nested
			continue
		}

		raw := src[start : end+len(closeDelim)]
		tok, ok := classify(raw, inner, start)
		if !ok {
			if kw := blockKeyword(inner); kw != "" {
				empty = append(empty, emptyBlock{keyword: kw, pos: start})
			}
			text.WriteString(raw)
		} else {
			flush()
			tokens = append(tokens, tok)
		}
		i = end + len(closeDelim)
	}
	flush()
	return tokens, unterminated, empty
}

func classify(raw, inner string, pos int) (token, bool) {
	expr := strings.TrimSpace(inner)
	if expr == "" {
		return token{}, false
	}
	tok := token{raw: raw, pos: pos}
	switch {
	case expr == "else":
		tok.kind = tokElse
	case expr == "/if":
		tok.kind = tokEndIf
	case expr == "/each":
		tok.kind = tokEndEach
	case hasKeyword(expr, "#if"):
		tok.kind, tok.expr = tokIf, strings.TrimSpace(expr[len("#if"):])
	case hasKeyword(expr, "#each"):
		tok.kind, tok.expr = tokEach, strings.TrimSpace(expr[len("#each"):])
	default:
		tok.kind, tok.expr = tokVar, expr
	}
	if (tok.kind == tokIf || tok.kind == tokEach) && tok.expr == "" {
		return token{}, false
	}
	return tok, true
}

// blockKeyword 返回无表达式的块标签关键字
func blockKeyword(inner string) string {
	switch strings.TrimSpace(inner) {
	case "#if":
		return "#if"
	case "#each":
		return "#each"
	}
	return ""
}

func hasKeyword(expr, kw string) bool {
	if !strings.HasPrefix(expr, kw) {
		return false
	}
	rest := expr[len(kw):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n'
}

type node interface {
	isNode()
}

type textNode struct {
	text string
}

type varNode struct {
	raw  string
	expr string
}

type ifNode struct {
	cond      string
	then      []node
	otherwise []node
}

type eachNode struct {
	path string
	body []node
}

func (textNode) isNode() {}
func (varNode) isNode()  {}
func (ifNode) isNode()   {}
func (eachNode) isNode() {}

// Template is a parsed template ready to be rendered any number of times.
type Template struct {
	src   string
	nodes []node
}

// Source returns the text the template was parsed from.
func (t *Template) Source() string {
	return t.src
}

// Parse builds the block tree for src. Parsing never fails: stray or
// unclosed block tags are kept as literal text.
func Parse(src string) *Template {
	tokens, _, _ := lex(src)
	p := &parser{tokens: tokens}
	nodes, _ := p.parseUntil(nil)
	return &Template{src: src, nodes: nodes}
}

type parser struct {
	tokens []token
	pos    int
}

// parseUntil consumes tokens until one of the stop kinds is reached. The stop
// token is consumed and returned; end is nil when input ran out first.
func (p *parser) parseUntil(stop []tokenKind) (nodes []node, end *token) {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		for _, k := range stop {
			if tok.kind == k {
				return nodes, &tok
			}
		}

		switch tok.kind {
		case tokText:
			nodes = appendText(nodes, tok.raw)
		case tokVar:
			nodes = append(nodes, varNode{raw: tok.raw, expr: tok.expr})
		case tokIf:
			nodes = append(nodes, p.parseIf(tok)...)
		case tokEach:
			nodes = append(nodes, p.parseEach(tok)...)
		default:
			// 多余的 else、/if、/each 原样输出
			nodes = appendText(nodes, tok.raw)
		}
	}
	return nodes, nil
}

func (p *parser) parseIf(open token) []node {
	then, end := p.parseUntil([]tokenKind{tokElse, tokEndIf})
	if end == nil {
		return append([]node{textNode{text: open.raw}}, then...)
	}
	n := ifNode{cond: open.expr, then: then}
	if end.kind == tokEndIf {
		return []node{n}
	}

	elseTok := *end
	otherwise, end := p.parseUntil([]tokenKind{tokEndIf})
	if end == nil {
		out := append([]node{textNode{text: open.raw}}, then...)
		out = appendText(out, elseTok.raw)
		return append(out, otherwise...)
	}
	n.otherwise = otherwise
	return []node{n}
}

func (p *parser) parseEach(open token) []node {
	body, end := p.parseUntil([]tokenKind{tokEndEach})
	if end == nil {
		return append([]node{textNode{text: open.raw}}, body...)
	}
	return []node{eachNode{path: open.expr, body: body}}
}

func appendText(nodes []node, text string) []node {
	if n := len(nodes); n > 0 {
		if prev, ok := nodes[n-1].(textNode); ok {
			nodes[n-1] = textNode{text: prev.text + text}
			return nodes
		}
	}
	return append(nodes, textNode{text: text})
}
