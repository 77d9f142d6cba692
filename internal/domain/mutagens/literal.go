package mutagens

import (
	"strconv"
	"strings"

	m "gooze.dev/pkg/mutest/internal/model"
)

// Literal perturbs literals: numbers become n+1, booleans are toggled and
// non-empty strings become empty.
func Literal() Operator {
	return NewOperator(m.CategoryLiteral, matchLiterals, rewriteLiteral)
}

func matchLiterals(scan *Scan) []Site {
	profile := scan.Profile

	return tokenSites(scan, func(i int, tok Token) bool {
		switch tok.Kind {
		case TokenNumber:
			return true
		case TokenIdent:
			return tok.Text == profile.True || tok.Text == profile.False
		case TokenString:
			return !tok.Char && stringContent(tok.Text) != "" && !scan.inImport(i)
		case TokenRegex, TokenOperator, TokenNewline:
		}

		return false
	})
}

func rewriteLiteral(scan *Scan, site Site) []Rewrite {
	tok := scan.Tokens[site.Token]
	profile := scan.Profile

	switch tok.Kind {
	case TokenNumber:
		next, ok := incrementNumber(tok.Text)
		if !ok {
			return nil
		}

		return []Rewrite{{Replacement: next, Label: tok.Text + " → " + next}}
	case TokenIdent:
		flipped := profile.True
		if tok.Text == profile.True {
			flipped = profile.False
		}

		return []Rewrite{{Replacement: flipped, Label: tok.Text + " → " + flipped}}
	case TokenString:
		empty := emptyString(tok.Text)
		return []Rewrite{{Replacement: empty, Label: "string → " + empty}}
	case TokenRegex, TokenOperator, TokenNewline:
	}

	return nil
}

// numberSuffixes are type suffixes kept verbatim when incrementing.
const numberSuffixes = "lLfFdDuUmMn"

// incrementNumber returns the literal for n+1 in a form every supported
// language accepts.
func incrementNumber(text string) (string, bool) {
	body := strings.ReplaceAll(text, "_", "")
	suffix := ""

	isHex := strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X")
	for !isHex && len(body) > 1 && strings.ContainsRune(numberSuffixes, rune(body[len(body)-1])) {
		suffix = body[len(body)-1:] + suffix
		body = body[:len(body)-1]
	}

	base := 0
	if isLegacyOctal(body) {
		base = 10
	}

	if n, err := strconv.ParseInt(body, base, 64); err == nil {
		return strconv.FormatInt(n+1, 10) + suffix, true
	}

	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return "", false
	}

	out := strconv.FormatFloat(f+1, 'g', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}

	return out + suffix, true
}

// isLegacyOctal catches literals such as 010 whose base differs between
// languages; they are incremented as decimals instead.
func isLegacyOctal(body string) bool {
	return len(body) > 1 && body[0] == '0' && body[1] >= '0' && body[1] <= '9'
}

func stringContent(literal string) string {
	for _, delim := range []string{`"""`, `'''`, `"`, `'`, "`"} {
		if len(literal) >= 2*len(delim) && strings.HasPrefix(literal, delim) && strings.HasSuffix(literal, delim) {
			return literal[len(delim) : len(literal)-len(delim)]
		}
	}

	return ""
}

func emptyString(literal string) string {
	quote := literal[:1]
	return quote + quote
}

// importWords introduce module paths, which are never worth mutating.
var importWords = map[string]bool{
	"import": true, "from": true, "require": true, "package": true, "include": true,
}

// inImport reports whether the string at i names a module.
func (s *Scan) inImport(i int) bool {
	prev := s.PrevSignificant(i)
	if prev < 0 {
		return false
	}

	if s.Tokens[prev].Kind == TokenIdent && importWords[s.Tokens[prev].Text] {
		return true
	}

	if s.Tokens[i].Depth == 0 {
		return false
	}

	// import ( "fmt" ... ) and require("x")
	for j := prev; j >= 0; j-- {
		tok := s.Tokens[j]
		if tok.Is("(") && tok.Depth == s.Tokens[i].Depth-1 {
			before := s.PrevSignificant(j)
			return before >= 0 && s.Tokens[before].Kind == TokenIdent && importWords[s.Tokens[before].Text]
		}

		if tok.Depth < s.Tokens[i].Depth-1 {
			return false
		}
	}

	return false
}
