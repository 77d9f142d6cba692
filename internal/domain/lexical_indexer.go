package domain

import (
	"bytes"
	"context"
	"slices"

	"gooze.dev/pkg/mutest/internal/adapter"
	"gooze.dev/pkg/mutest/internal/domain/mutagens"
	m "gooze.dev/pkg/mutest/internal/model"
)

// controlKeywords can precede "( ... ) {" without declaring a function.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"with": true, "return": true, "function": true, "synchronized": true,
	"foreach": true, "using": true, "lock": true, "fixed": true, "else": true,
	"do": true, "try": true, "new": true, "typeof": true, "sizeof": true,
	"await": true, "super": true, "this": true,
}

// LexicalIndexer finds function boundaries from declaration keywords, method
// headers and brace matching, or indentation for Python.
type LexicalIndexer struct{}

var _ adapter.FunctionIndexer = (*LexicalIndexer)(nil)

// NewLexicalIndexer returns the default function indexer.
func NewLexicalIndexer() *LexicalIndexer {
	return &LexicalIndexer{}
}

// Functions returns every named function of source. Anonymous functions are
// skipped so their bodies attribute to the surrounding named function.
func (ix *LexicalIndexer) Functions(ctx context.Context, lang m.Language, source []byte) ([]m.FunctionSpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := lang.Profile()
	scan := mutagens.NewScan(source, profile)

	if profile.IndentedBlocks {
		return indentedFunctions(scan), nil
	}

	return bracedFunctions(scan), nil
}

func bracedFunctions(scan *mutagens.Scan) []m.FunctionSpan {
	toks := scan.Tokens
	functions := make([]m.FunctionSpan, 0)
	methods := scan.Profile.Language != m.LanguageGo

	for i, tok := range toks {
		switch {
		case tok.Kind == mutagens.TokenIdent && slices.Contains(scan.Profile.DeclKeywords, tok.Text):
			if fn, ok := declaredFunction(scan, i); ok {
				functions = append(functions, fn)
			}
		case tok.Is("=>"):
			if fn, ok := arrowFunction(scan, i); ok {
				functions = append(functions, fn)
			}
		case methods && tok.Kind == mutagens.TokenIdent:
			if fn, ok := methodFunction(scan, i); ok {
				functions = append(functions, fn)
			}
		}
	}

	return functions
}

// declaredFunction handles "function name(", "func name(", "func (r T) name("
// and assigned anonymous forms such as "const name = function(".
func declaredFunction(scan *mutagens.Scan, kw int) (m.FunctionSpan, bool) {
	toks := scan.Tokens
	next := scan.NextSignificant(kw)

	if next >= 0 && toks[next].Is("(") && scan.Profile.Language == m.LanguageGo {
		// Either a receiver or a function literal.
		closeRecv := scan.Closing(next)
		if closeRecv < 0 {
			return m.FunctionSpan{}, false
		}

		if name := scan.NextSignificant(closeRecv); name >= 0 && toks[name].Kind == mutagens.TokenIdent {
			next = name
		}
	}

	if next >= 0 && toks[next].Is("*") {
		next = scan.NextSignificant(next)
	}

	name := ""
	if next >= 0 && toks[next].Kind == mutagens.TokenIdent {
		name = toks[next].Text
	} else {
		name = assignedName(scan, kw)
	}

	if name == "" {
		return m.FunctionSpan{}, false
	}

	open := bodyOpen(scan, kw)
	if open < 0 {
		return m.FunctionSpan{}, false
	}

	closeBody := scan.Closing(open)
	if closeBody < 0 {
		return m.FunctionSpan{}, false
	}

	return m.FunctionSpan{Name: name, Start: toks[kw].Offset, End: toks[closeBody].End()}, true
}

// arrowFunction handles "name = (args) => { ... }" with a block body.
func arrowFunction(scan *mutagens.Scan, arrow int) (m.FunctionSpan, bool) {
	toks := scan.Tokens

	open := scan.NextSignificant(arrow)
	if open < 0 || !toks[open].Is("{") {
		return m.FunctionSpan{}, false
	}

	params := scan.PrevSignificant(arrow)
	if params < 0 {
		return m.FunctionSpan{}, false
	}

	if toks[params].Is(")") {
		params = scan.Opening(params)
		if params < 0 {
			return m.FunctionSpan{}, false
		}
	}

	if prev := scan.PrevSignificant(params); prev >= 0 && toks[prev].Is("async") {
		params = prev
	}

	name := assignedName(scan, params)
	closeBody := scan.Closing(open)

	if name == "" || closeBody < 0 {
		return m.FunctionSpan{}, false
	}

	return m.FunctionSpan{Name: name, Start: toks[params].Offset, End: toks[closeBody].End()}, true
}

// methodFunction handles "name(args) {" headers of C-like methods and
// JavaScript class members.
func methodFunction(scan *mutagens.Scan, i int) (m.FunctionSpan, bool) {
	toks := scan.Tokens
	tok := toks[i]

	if controlKeywords[tok.Text] || slices.Contains(scan.Profile.DeclKeywords, tok.Text) {
		return m.FunctionSpan{}, false
	}

	if prev := scan.PrevSignificant(i); prev >= 0 {
		p := toks[prev]
		if slices.Contains(scan.Profile.DeclKeywords, p.Text) || p.Is(".") || p.Is("new") {
			return m.FunctionSpan{}, false
		}
	}

	open := scan.NextSignificant(i)
	if open < 0 || !toks[open].Is("(") {
		return m.FunctionSpan{}, false
	}

	closeParams := scan.Closing(open)
	if closeParams < 0 {
		return m.FunctionSpan{}, false
	}

	// Allow trailing qualifiers such as "const", "override" or "throws A, B".
	j := scan.NextSignificant(closeParams)
	for j >= 0 && (toks[j].Kind == mutagens.TokenIdent || toks[j].Is(",") || toks[j].Is(".")) {
		j = scan.NextSignificant(j)
	}

	if j < 0 || !toks[j].Is("{") {
		return m.FunctionSpan{}, false
	}

	closeBody := scan.Closing(j)
	if closeBody < 0 {
		return m.FunctionSpan{}, false
	}

	return m.FunctionSpan{Name: tok.Text, Start: tok.Offset, End: toks[closeBody].End()}, true
}

// assignedName returns the target of "name =", "name :=" or "name:" right
// before token i, or "".
func assignedName(scan *mutagens.Scan, i int) string {
	toks := scan.Tokens

	op := scan.PrevSignificant(i)
	if op < 0 || !(toks[op].Is("=") || toks[op].Is(":=") || toks[op].Is(":")) {
		return ""
	}

	target := scan.PrevSignificant(op)
	if target < 0 {
		return ""
	}

	if toks[target].Kind == mutagens.TokenIdent || toks[target].Kind == mutagens.TokenString {
		return string(bytes.Trim([]byte(toks[target].Text), `"'`))
	}

	return ""
}

// bodyOpen finds the "{" opening the body of the function declared at kw: the
// first brace at the keyword's depth after its parameter list.
func bodyOpen(scan *mutagens.Scan, kw int) int {
	toks := scan.Tokens
	depth := toks[kw].Depth
	sawParams := false

	for j := kw + 1; j < len(toks); j++ {
		tok := toks[j]

		if tok.Depth < depth || (tok.Depth == depth && (tok.Is(";") || tok.Is("}"))) {
			return -1
		}

		// Newline-terminated languages keep the signature on one line.
		if tok.Kind == mutagens.TokenNewline && tok.Depth == depth && scan.Profile.StatementEndsAt == "" {
			return -1
		}

		if tok.Depth != depth {
			continue
		}

		if tok.Is("(") {
			sawParams = true
		}

		if tok.Is("{") && sawParams {
			return j
		}
	}

	return -1
}

// indentedFunctions finds Python "def" blocks. A block ends before the first
// non-blank line indented no deeper than its header.
func indentedFunctions(scan *mutagens.Scan) []m.FunctionSpan {
	toks := scan.Tokens
	src := scan.Src
	index := NewOffsetIndex(src, nil)
	functions := make([]m.FunctionSpan, 0)

	for i, tok := range toks {
		if !tok.Is("def") {
			continue
		}

		name := scan.NextSignificant(i)
		if name < 0 || toks[name].Kind != mutagens.TokenIdent {
			continue
		}

		line, _ := index.Position(tok.Offset)
		start, _ := index.LineBounds(line)
		headerIndent := indentOf(src[start:])
		end := blockEnd(scan, index, name, line, headerIndent)

		functions = append(functions, m.FunctionSpan{Name: toks[name].Text, Start: tok.Offset, End: end})
	}

	return functions
}

func blockEnd(scan *mutagens.Scan, index *OffsetIndex, name, header, headerIndent int) int {
	// The header may span several lines; the body starts after its colon.
	colon := -1

	for j := name + 1; j < len(scan.Tokens); j++ {
		if scan.Tokens[j].Is(":") && scan.Tokens[j].Depth == scan.Tokens[name].Depth {
			colon = j
			break
		}
	}

	if colon >= 0 {
		header, _ = index.Position(scan.Tokens[colon].Offset)
	}

	_, end := index.LineBounds(header)

	for line := header + 1; line <= index.Lines(); line++ {
		start, stop := index.LineBounds(line)
		text := bytes.TrimSpace(scan.Src[start:stop])

		if len(text) == 0 || text[0] == '#' {
			continue
		}

		if indentOf(scan.Src[start:stop]) <= headerIndent {
			break
		}

		end = stop
	}

	return end
}

func indentOf(line []byte) int {
	n := 0

	for _, c := range line {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 8 - n%8
		default:
			return n
		}
	}

	return n
}
