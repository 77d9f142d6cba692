// Package mutagens provides the lexical matchers and rewrites behind every
// mutation operator.
package mutagens

import (
	"strings"

	m "gooze.dev/pkg/mutest/internal/model"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenIdent is an identifier or keyword.
	TokenIdent TokenKind = iota
	// TokenNumber is a numeric literal.
	TokenNumber
	// TokenString is a string, template or character literal.
	TokenString
	// TokenRegex is a JavaScript regular expression literal.
	TokenRegex
	// TokenOperator is any operator or punctuation.
	TokenOperator
	// TokenNewline marks the end of a physical line.
	TokenNewline
)

// Token is one lexeme of the source. Comments and blanks never produce tokens.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
	// Depth is the bracket nesting level the token sits at. Opening and
	// closing brackets carry the depth of their surroundings.
	Depth int
	// Char is set for single-quoted character literals.
	Char bool
}

// End returns the exclusive end offset of the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Span returns the byte range covered by the token.
func (t Token) Span() m.Span {
	return m.Span{Offset: t.Offset, Length: len(t.Text)}
}

// Is reports whether the token is the given operator or keyword.
func (t Token) Is(text string) bool {
	return (t.Kind == TokenOperator || t.Kind == TokenIdent) && t.Text == text
}

// operators sorted longest first so the lexer applies maximal munch.
var operators = []string{
	">>>=",
	"===", "!==", "<<=", ">>=", "**=", "...", ">>>", "&&=", "||=", "??=", "&^=",
	"==", "!=", ">=", "<=", "&&", "||", "++", "--", "+=", "-=", "*=", "/=", "%=",
	"&=", "|=", "^=", "<<", ">>", "=>", "->", "<-", "::", ":=", "**", "??", "?.", "&^",
}

// Scan is the lexed form of a source, built once and shared by every operator.
type Scan struct {
	Src     []byte
	Tokens  []Token
	Profile m.LanguageProfile
}

// NewScan lexes src with the given language profile.
func NewScan(src []byte, profile m.LanguageProfile) *Scan {
	lx := lexer{src: src, profile: profile}
	lx.run()

	return &Scan{Src: src, Tokens: lx.tokens, Profile: profile}
}

type lexer struct {
	src     []byte
	profile m.LanguageProfile
	pos     int
	depth   int
	tokens  []Token
	lineBeg bool
}

//nolint:cyclop // A flat dispatch over the next byte keeps the lexer readable.
func (lx *lexer) run() {
	lx.lineBeg = true

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == '\n':
			lx.emit(TokenNewline, lx.pos, lx.pos+1)
			lx.lineBeg = true
		case c == ' ' || c == '\t' || c == '\r' || c == '\f':
			lx.pos++
		case lx.atComment():
			lx.skipComment()
		case lx.profile.Preprocessor && c == '#' && lx.lineBeg:
			lx.skipLine()
		case isIdentStart(c):
			lx.lexIdent()
		case isDigit(c) || (c == '.' && lx.peekDigit(1)):
			lx.lexNumber()
		case c == '"' || c == '\'' || (c == '`' && lx.profile.Backticks):
			lx.lexString()
		case c == '/' && lx.regexAllowed():
			lx.lexRegex()
		default:
			lx.lexOperator()
		}
	}
}

func (lx *lexer) emit(kind TokenKind, start, end int) {
	text := string(lx.src[start:end])
	depth := lx.depth

	if kind == TokenOperator {
		switch text {
		case "(", "[", "{":
			lx.depth++
		case ")", "]", "}":
			if lx.depth > 0 {
				lx.depth--
			}

			depth = lx.depth
		}
	}

	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Offset: start, Depth: depth})
	lx.pos = end

	if kind != TokenNewline {
		lx.lineBeg = false
	}
}

func (lx *lexer) hasPrefix(prefix string) bool {
	return strings.HasPrefix(string(lx.src[lx.pos:min(len(lx.src), lx.pos+len(prefix))]), prefix)
}

func (lx *lexer) peekDigit(ahead int) bool {
	i := lx.pos + ahead
	return i < len(lx.src) && isDigit(lx.src[i])
}

func (lx *lexer) atComment() bool {
	if lx.profile.LineComment != "" && lx.hasPrefix(lx.profile.LineComment) {
		return true
	}

	if lx.profile.BlockComments && lx.hasPrefix("/*") {
		return true
	}

	return lx.profile.HashComments && lx.src[lx.pos] == '#'
}

func (lx *lexer) skipComment() {
	if lx.profile.BlockComments && lx.hasPrefix("/*") {
		end := strings.Index(string(lx.src[lx.pos+2:]), "*/")
		if end < 0 {
			lx.pos = len(lx.src)
			return
		}

		lx.pos += end + 4

		return
	}

	lx.skipLine()
}

// skipLine advances to the next newline without consuming it.
func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) lexIdent() {
	start := lx.pos
	end := start

	for end < len(lx.src) && isIdentPart(lx.src[end]) {
		end++
	}

	lx.emit(TokenIdent, start, end)
}

func (lx *lexer) lexNumber() {
	start := lx.pos
	end := start
	hex := lx.hasPrefix("0x") || lx.hasPrefix("0X")

	for end < len(lx.src) {
		c := lx.src[end]

		switch {
		case isIdentPart(c) && c != '$':
			end++
		case c == '.' && end+1 < len(lx.src) && isDigit(lx.src[end+1]):
			end++
		case (c == '+' || c == '-') && !hex && end > start && (lx.src[end-1] == 'e' || lx.src[end-1] == 'E'):
			end++
		default:
			lx.emit(TokenNumber, start, end)
			return
		}
	}

	lx.emit(TokenNumber, start, end)
}

func (lx *lexer) lexString() {
	start := lx.pos
	quote := lx.src[start]

	if lx.profile.TripleQuotes && (lx.hasPrefix(`"""`) || lx.hasPrefix(`'''`)) {
		delim := string(lx.src[start : start+3])

		end := strings.Index(string(lx.src[start+3:]), delim)
		if end < 0 {
			lx.emit(TokenString, start, len(lx.src))
		} else {
			lx.emit(TokenString, start, start+3+end+3)
		}

		return
	}

	// Go raw strings have no escapes; template literals span lines.
	raw := quote == '`' && lx.profile.Language == m.LanguageGo
	multiline := quote == '`'
	end := start + 1

	for end < len(lx.src) {
		c := lx.src[end]

		if c == '\\' && !raw {
			end += 2
			continue
		}

		if c == '\n' && !multiline {
			break
		}

		end++

		if c == quote {
			break
		}
	}

	end = min(end, len(lx.src))
	lx.emit(TokenString, start, end)

	if quote == '\'' && lx.profile.CharLiterals {
		lx.tokens[len(lx.tokens)-1].Char = true
	}
}

// regexAllowed reports whether a slash at the current position starts a
// regular expression literal rather than a division.
func (lx *lexer) regexAllowed() bool {
	if lx.profile.Language != m.LanguageJavaScript && lx.profile.Language != m.LanguageTypeScript {
		return false
	}

	if lx.hasPrefix("//") || lx.hasPrefix("/*") {
		return false
	}

	prev, ok := lx.lastSignificant()
	if !ok {
		return true
	}

	return !endsOperand(prev)
}

func (lx *lexer) lastSignificant() (Token, bool) {
	for i := len(lx.tokens) - 1; i >= 0; i-- {
		if lx.tokens[i].Kind != TokenNewline {
			return lx.tokens[i], true
		}
	}

	return Token{}, false
}

func (lx *lexer) lexRegex() {
	start := lx.pos
	end := start + 1
	inClass := false

	for end < len(lx.src) && lx.src[end] != '\n' {
		c := lx.src[end]
		end++

		switch {
		case c == '\\':
			end++
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			for end < len(lx.src) && isIdentPart(lx.src[end]) {
				end++
			}

			lx.emit(TokenRegex, start, min(end, len(lx.src)))

			return
		}
	}

	// Not a terminated literal after all: treat the slash as an operator.
	lx.emit(TokenOperator, start, start+1)
}

func (lx *lexer) lexOperator() {
	for _, op := range operators {
		if lx.hasPrefix(op) {
			lx.emit(TokenOperator, lx.pos, lx.pos+len(op))
			return
		}
	}

	lx.emit(TokenOperator, lx.pos, lx.pos+1)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// nonOperandKeywords are identifiers after which an expression starts rather
// than ends.
var nonOperandKeywords = map[string]bool{
	"return": true, "typeof": true, "case": true, "in": true, "of": true,
	"delete": true, "void": true, "throw": true, "new": true, "instanceof": true,
	"yield": true, "await": true, "else": true, "do": true, "and": true,
	"or": true, "not": true, "is": true, "if": true, "elif": true, "while": true,
	"assert": true, "lambda": true, "go": true, "defer": true, "chan": true,
}

// endsOperand reports whether tok can be the last token of an operand, which
// makes a following operator binary.
func endsOperand(tok Token) bool {
	switch tok.Kind {
	case TokenNumber, TokenString, TokenRegex:
		return true
	case TokenIdent:
		return !nonOperandKeywords[tok.Text]
	case TokenOperator:
		return tok.Text == ")" || tok.Text == "]" || tok.Text == "++" || tok.Text == "--"
	case TokenNewline:
		return false
	}

	return false
}
