package mutagens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "gooze.dev/pkg/mutest/internal/model"
)

func texts(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != TokenNewline {
			out = append(out, tok.Text)
		}
	}

	return out
}

func TestNewScan(t *testing.T) {
	t.Run("applies maximal munch to operators", func(t *testing.T) {
		scan := NewScan([]byte("a === b !== c && !d"), m.LanguageJavaScript.Profile())
		assert.Equal(t, []string{"a", "===", "b", "!==", "c", "&&", "!", "d"}, texts(scan.Tokens))
	})

	t.Run("skips comments", func(t *testing.T) {
		src := "a + b // c - d\n/* e * f */ g"
		scan := NewScan([]byte(src), m.LanguageJavaScript.Profile())
		assert.Equal(t, []string{"a", "+", "b", "g"}, texts(scan.Tokens))
	})

	t.Run("keeps string contents opaque", func(t *testing.T) {
		scan := NewScan([]byte(`x = "a + b" + 'c\'d'`), m.LanguageJavaScript.Profile())
		assert.Equal(t, []string{"x", "=", `"a + b"`, "+", `'c\'d'`}, texts(scan.Tokens))
		assert.Equal(t, TokenString, scan.Tokens[2].Kind)
	})

	t.Run("recognises regex literals in javascript", func(t *testing.T) {
		scan := NewScan([]byte("const r = /a+b/g; x = a / b"), m.LanguageJavaScript.Profile())
		require.Equal(t, TokenRegex, scan.Tokens[3].Kind)
		assert.Equal(t, "/a+b/g", scan.Tokens[3].Text)
		assert.Equal(t, []string{"const", "r", "=", "/a+b/g", ";", "x", "=", "a", "/", "b"}, texts(scan.Tokens))
	})

	t.Run("uses hash comments for python", func(t *testing.T) {
		scan := NewScan([]byte("x = 1 # y + 2\n"), m.LanguagePython.Profile())
		assert.Equal(t, []string{"x", "=", "1"}, texts(scan.Tokens))
	})

	t.Run("skips preprocessor directives", func(t *testing.T) {
		scan := NewScan([]byte("#include <stdio.h>\nint a = b < c;"), m.LanguageC.Profile())
		assert.Equal(t, []string{"int", "a", "=", "b", "<", "c", ";"}, texts(scan.Tokens))
	})

	t.Run("lexes python triple quoted strings", func(t *testing.T) {
		scan := NewScan([]byte("s = \"\"\"a\n+b\"\"\"\n"), m.LanguagePython.Profile())
		assert.Equal(t, []string{"s", "=", "\"\"\"a\n+b\"\"\""}, texts(scan.Tokens))
	})

	t.Run("marks character literals", func(t *testing.T) {
		scan := NewScan([]byte("c := 'a'"), m.LanguageGo.Profile())
		require.Len(t, scan.Tokens, 3)
		assert.True(t, scan.Tokens[2].Char)
	})

	t.Run("tracks bracket depth", func(t *testing.T) {
		scan := NewScan([]byte("f(a[1]) {b}"), m.LanguageJavaScript.Profile())
		depths := make([]int, 0, len(scan.Tokens))
		for _, tok := range scan.Tokens {
			depths = append(depths, tok.Depth)
		}

		assert.Equal(t, []int{0, 0, 1, 1, 2, 1, 0, 0, 1, 0}, depths)
	})

	t.Run("lexes numbers with exponents and suffixes", func(t *testing.T) {
		scan := NewScan([]byte("x = 1.5e-3 + 0xFF + 10L"), m.LanguageJava.Profile())
		assert.Equal(t, []string{"x", "=", "1.5e-3", "+", "0xFF", "+", "10L"}, texts(scan.Tokens))
	})
}
