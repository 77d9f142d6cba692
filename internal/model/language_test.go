package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)

	lang, err = ParseLanguage(" C# ")
	require.NoError(t, err)
	assert.Equal(t, LanguageCSharp, lang)

	lang, err = ParseLanguage("python")
	require.NoError(t, err)
	assert.Equal(t, LanguagePython, lang)

	_, err = ParseLanguage("cobol")
	assert.Error(t, err)
}

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path Path
		want Language
		ok   bool
	}{
		{"src/isEven.js", LanguageJavaScript, true},
		{"lib/Calc.JAVA", LanguageJava, true},
		{"pkg/add.go", LanguageGo, true},
		{"app.tsx", LanguageTypeScript, true},
		{"vector.hpp", LanguageCPP, true},
		{"Makefile", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			got, ok := LanguageForPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLanguage_ProfileFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultLanguage, Language("cobol").Profile().Language)
	assert.Equal(t, "source.py", LanguagePython.Profile().DefaultFile)
	assert.Len(t, Languages(), 8)
}
