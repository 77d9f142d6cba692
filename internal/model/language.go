package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language selects the lexical profile used to scan a source file.
type Language string

// Supported languages.
const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageJava       Language = "java"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageC          Language = "c"
	LanguageCPP        Language = "cpp"
	LanguageCSharp     Language = "csharp"
)

// DefaultLanguage is used when a caller does not name one.
const DefaultLanguage = LanguageJavaScript

// GuardStyle describes how the condition of an if/while statement is delimited.
type GuardStyle int

const (
	// GuardParens means the condition is wrapped in parentheses: if (cond) {.
	GuardParens GuardStyle = iota
	// GuardBrace means the condition runs up to the opening brace: if cond {.
	GuardBrace
	// GuardColon means the condition runs up to a colon: if cond:.
	GuardColon
)

// LanguageProfile is the lexical description of a language.
type LanguageProfile struct {
	Language        Language
	LineComment     string
	BlockComments   bool
	HashComments    bool
	Backticks       bool // backtick-delimited strings/templates
	TripleQuotes    bool
	CharLiterals    bool // single quotes delimit character literals
	Preprocessor    bool // lines starting with # are directives
	True            string
	False           string
	Null            string
	AndKeyword      string // word form of &&, empty when absent
	OrKeyword       string
	NotKeyword      string
	DeclKeywords    []string
	GuardStyle      GuardStyle
	IndentedBlocks  bool
	StatementEndsAt string // explicit statement terminator, empty for newline-terminated
	DefaultFile     string
}

var profiles = map[Language]LanguageProfile{
	LanguageJavaScript: {
		Language: LanguageJavaScript, LineComment: "//", BlockComments: true, Backticks: true,
		True: "true", False: "false", Null: "null",
		DeclKeywords: []string{"function"}, GuardStyle: GuardParens, StatementEndsAt: ";",
		DefaultFile: "source.js",
	},
	LanguageTypeScript: {
		Language: LanguageTypeScript, LineComment: "//", BlockComments: true, Backticks: true,
		True: "true", False: "false", Null: "null",
		DeclKeywords: []string{"function"}, GuardStyle: GuardParens, StatementEndsAt: ";",
		DefaultFile: "source.ts",
	},
	LanguageJava: {
		Language: LanguageJava, LineComment: "//", BlockComments: true, CharLiterals: true,
		True: "true", False: "false", Null: "null",
		GuardStyle: GuardParens, StatementEndsAt: ";",
		DefaultFile: "Source.java",
	},
	LanguageGo: {
		Language: LanguageGo, LineComment: "//", BlockComments: true, Backticks: true, CharLiterals: true,
		True: "true", False: "false", Null: "nil",
		DeclKeywords: []string{"func"}, GuardStyle: GuardBrace,
		DefaultFile: "source.go",
	},
	LanguagePython: {
		Language: LanguagePython, HashComments: true, TripleQuotes: true,
		True: "True", False: "False", Null: "None",
		AndKeyword: "and", OrKeyword: "or", NotKeyword: "not",
		DeclKeywords: []string{"def"}, GuardStyle: GuardColon, IndentedBlocks: true,
		DefaultFile: "source.py",
	},
	LanguageC: {
		Language: LanguageC, LineComment: "//", BlockComments: true, CharLiterals: true, Preprocessor: true,
		True: "true", False: "false", Null: "NULL",
		GuardStyle: GuardParens, StatementEndsAt: ";",
		DefaultFile: "source.c",
	},
	LanguageCPP: {
		Language: LanguageCPP, LineComment: "//", BlockComments: true, CharLiterals: true, Preprocessor: true,
		True: "true", False: "false", Null: "nullptr",
		GuardStyle: GuardParens, StatementEndsAt: ";",
		DefaultFile: "source.cpp",
	},
	LanguageCSharp: {
		Language: LanguageCSharp, LineComment: "//", BlockComments: true, CharLiterals: true,
		True: "true", False: "false", Null: "null",
		GuardStyle: GuardParens, StatementEndsAt: ";",
		DefaultFile: "Source.cs",
	},
}

var languageAliases = map[string]Language{
	"js":   LanguageJavaScript,
	"node": LanguageJavaScript,
	"ts":   LanguageTypeScript,
	"py":   LanguagePython,
	"c++":  LanguageCPP,
	"cs":   LanguageCSharp,
	"c#":   LanguageCSharp,
}

// ParseLanguage resolves a language name or alias. An empty name yields the
// default language.
func ParseLanguage(name string) (Language, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultLanguage, nil
	}

	if lang, ok := languageAliases[name]; ok {
		return lang, nil
	}

	if _, ok := profiles[Language(name)]; ok {
		return Language(name), nil
	}

	return "", fmt.Errorf("unsupported language %q", name)
}

// Profile returns the lexical profile of the language, falling back to the
// default language for unknown values.
func (l Language) Profile() LanguageProfile {
	if p, ok := profiles[l]; ok {
		return p
	}

	return profiles[DefaultLanguage]
}

// Languages lists every supported language.
func Languages() []Language {
	return []Language{
		LanguageJavaScript, LanguageTypeScript, LanguageJava, LanguageGo,
		LanguagePython, LanguageC, LanguageCPP, LanguageCSharp,
	}
}

var extensionLanguages = map[string]Language{
	".js": LanguageJavaScript, ".mjs": LanguageJavaScript, ".cjs": LanguageJavaScript, ".jsx": LanguageJavaScript,
	".ts": LanguageTypeScript, ".tsx": LanguageTypeScript, ".mts": LanguageTypeScript,
	".java": LanguageJava,
	".go":   LanguageGo,
	".py":   LanguagePython,
	".c":    LanguageC, ".h": LanguageC,
	".cc": LanguageCPP, ".cpp": LanguageCPP, ".cxx": LanguageCPP, ".hpp": LanguageCPP,
	".cs": LanguageCSharp,
}

// LanguageForPath guesses the language of a file from its extension.
func LanguageForPath(path Path) (Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(string(path)))]
	return lang, ok
}
