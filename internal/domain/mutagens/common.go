package mutagens

import (
	m "gooze.dev/pkg/mutest/internal/model"
)

// Site is a region of the source an operator's matcher selected.
type Site struct {
	Span  m.Span
	Text  string
	Token int // index of the anchoring token in Scan.Tokens
}

// Rewrite is one alternative text for a site.
type Rewrite struct {
	Replacement string
	Label       string
}

// Match is a site paired with one of its rewrites.
type Match struct {
	Span        m.Span
	Original    string
	Replacement string
	Label       string
}

// Operator is an immutable matcher+rewrite pair for one category.
type Operator struct {
	category m.Category
	matcher  func(*Scan) []Site
	rewrite  func(*Scan, Site) []Rewrite
}

// NewOperator builds an operator from its parts.
func NewOperator(category m.Category, matcher func(*Scan) []Site, rewrite func(*Scan, Site) []Rewrite) Operator {
	return Operator{category: category, matcher: matcher, rewrite: rewrite}
}

// Category returns the category the operator belongs to.
func (o Operator) Category() m.Category {
	return o.category
}

// Matches runs the matcher over the scan and expands every site into its
// rewrites. Sites come back in source order and never overlap each other.
func (o Operator) Matches(scan *Scan) []Match {
	if o.matcher == nil || o.rewrite == nil {
		return nil
	}

	matches := make([]Match, 0)
	lastEnd := -1

	for _, site := range o.matcher(scan) {
		if site.Span.Offset < lastEnd {
			continue
		}

		lastEnd = site.Span.End()

		for _, rw := range o.rewrite(scan, site) {
			matches = append(matches, Match{
				Span:        site.Span,
				Original:    site.Text,
				Replacement: rw.Replacement,
				Label:       rw.Label,
			})
		}
	}

	return matches
}

// tokenSites returns a site for every token accepted by keep.
func tokenSites(scan *Scan, keep func(i int, tok Token) bool) []Site {
	sites := make([]Site, 0)

	for i, tok := range scan.Tokens {
		if keep(i, tok) {
			sites = append(sites, Site{Span: tok.Span(), Text: tok.Text, Token: i})
		}
	}

	return sites
}

// PrevSignificant returns the index of the closest token before i that is
// not a newline, or -1.
func (s *Scan) PrevSignificant(i int) int {
	for j := i - 1; j >= 0; j-- {
		if s.Tokens[j].Kind != TokenNewline {
			return j
		}
	}

	return -1
}

// NextSignificant returns the index of the closest token after i that is not
// a newline, or -1.
func (s *Scan) NextSignificant(i int) int {
	for j := i + 1; j < len(s.Tokens); j++ {
		if s.Tokens[j].Kind != TokenNewline {
			return j
		}
	}

	return -1
}

// isBinary reports whether the operator token at i has an operand on its left.
func (s *Scan) isBinary(i int) bool {
	prev := s.PrevSignificant(i)
	if prev < 0 || s.NextSignificant(i) < 0 {
		return false
	}

	return endsOperand(s.Tokens[prev])
}

// firstOnLine reports whether token i is the first token of its line.
func (s *Scan) firstOnLine(i int) bool {
	return i == 0 || s.Tokens[i-1].Kind == TokenNewline
}

// Closing returns the index of the bracket that closes the one at open.
func (s *Scan) Closing(open int) int {
	depth := s.Tokens[open].Depth

	for j := open + 1; j < len(s.Tokens); j++ {
		tok := s.Tokens[j]
		if tok.Kind == TokenOperator && tok.Depth == depth && (tok.Text == ")" || tok.Text == "]" || tok.Text == "}") {
			return j
		}
	}

	return -1
}

// Opening returns the index of the bracket opened by the one at closeIdx.
func (s *Scan) Opening(closeIdx int) int {
	depth := s.Tokens[closeIdx].Depth

	for j := closeIdx - 1; j >= 0; j-- {
		tok := s.Tokens[j]
		if tok.Kind == TokenOperator && tok.Depth == depth && (tok.Text == "(" || tok.Text == "[" || tok.Text == "{") {
			return j
		}
	}

	return -1
}

// spanOf covers tokens first..last inclusive.
func (s *Scan) spanOf(first, last int) m.Span {
	start := s.Tokens[first].Offset
	return m.Span{Offset: start, Length: s.Tokens[last].End() - start}
}

func (s *Scan) text(span m.Span) string {
	return string(s.Src[span.Offset:span.End()])
}

// swapRewrite builds a rewrite function from a fixed table of alternatives.
func swapRewrite(table map[string][]string) func(*Scan, Site) []Rewrite {
	return func(_ *Scan, site Site) []Rewrite {
		alternatives := table[site.Text]
		rewrites := make([]Rewrite, 0, len(alternatives))

		for _, alt := range alternatives {
			rewrites = append(rewrites, Rewrite{Replacement: alt, Label: site.Text + " → " + alt})
		}

		return rewrites
	}
}
