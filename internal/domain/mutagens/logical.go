package mutagens

import (
	m "gooze.dev/pkg/mutest/internal/model"
)

// Logical swaps && ↔ || and drops negations (!x → x), including the keyword
// forms of languages that spell them out.
func Logical() Operator {
	return NewOperator(m.CategoryLogical, matchLogical, rewriteLogical)
}

func matchLogical(scan *Scan) []Site {
	sites := make([]Site, 0)
	profile := scan.Profile

	for i, tok := range scan.Tokens {
		switch {
		case tok.Kind == TokenOperator && (tok.Text == "&&" || tok.Text == "||"):
			sites = append(sites, Site{Span: tok.Span(), Text: tok.Text, Token: i})
		case tok.Kind == TokenIdent && profile.AndKeyword != "" && (tok.Text == profile.AndKeyword || tok.Text == profile.OrKeyword):
			sites = append(sites, Site{Span: tok.Span(), Text: tok.Text, Token: i})
		case tok.Kind == TokenOperator && tok.Text == "!" && scan.isPrefixNegation(i):
			sites = append(sites, Site{Span: tok.Span(), Text: tok.Text, Token: i})
		case tok.Kind == TokenIdent && profile.NotKeyword != "" && tok.Text == profile.NotKeyword && scan.isPrefixNegation(i):
			span := scan.keywordSpan(tok, scan.Tokens[scan.NextSignificant(i)].Offset)
			sites = append(sites, Site{Span: span, Text: scan.text(span), Token: i})
		}
	}

	return sites
}

// keywordSpan covers tok and the blanks after it on the same line, stopping
// at limit.
func (s *Scan) keywordSpan(tok Token, limit int) m.Span {
	end := tok.Offset + len(tok.Text)
	for end < limit && (s.Src[end] == ' ' || s.Src[end] == '\t') {
		end++
	}

	return m.Span{Offset: tok.Offset, Length: end - tok.Offset}
}

// isPrefixNegation reports whether the negation at i applies to the operand
// that follows it, rather than being part of "is not" or "not in".
func (s *Scan) isPrefixNegation(i int) bool {
	next := s.NextSignificant(i)
	if next < 0 {
		return false
	}

	if s.Tokens[next].Is("in") {
		return false
	}

	prev := s.PrevSignificant(i)
	if prev >= 0 && (s.Tokens[prev].Is("is") || (s.Tokens[i].Kind == TokenOperator && endsOperand(s.Tokens[prev]))) {
		return false
	}

	return true
}

func rewriteLogical(scan *Scan, site Site) []Rewrite {
	profile := scan.Profile
	tok := scan.Tokens[site.Token]

	switch {
	case tok.Text == "&&":
		return []Rewrite{{Replacement: "||", Label: "&& → ||"}}
	case tok.Text == "||":
		return []Rewrite{{Replacement: "&&", Label: "|| → &&"}}
	case tok.Text == profile.AndKeyword && profile.AndKeyword != "":
		return []Rewrite{{Replacement: profile.OrKeyword, Label: profile.AndKeyword + " → " + profile.OrKeyword}}
	case tok.Text == profile.OrKeyword && profile.OrKeyword != "":
		return []Rewrite{{Replacement: profile.AndKeyword, Label: profile.OrKeyword + " → " + profile.AndKeyword}}
	case tok.Text == "!":
		return []Rewrite{{Replacement: "", Label: "!x → x"}}
	default:
		return []Rewrite{{Replacement: "", Label: tok.Text + " x → x"}}
	}
}
