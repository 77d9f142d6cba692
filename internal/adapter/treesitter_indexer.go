package adapter

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"

	m "gooze.dev/pkg/mutest/internal/model"
)

// FunctionIndexer finds the named functions of a source file.
type FunctionIndexer interface {
	Functions(ctx context.Context, lang m.Language, source []byte) ([]m.FunctionSpan, error)
}

type grammar struct {
	language *sitter.Language
	query    string
}

// Every query captures the whole function as @fn and its name as @name.
var grammars = map[m.Language]grammar{
	m.LanguageGo: {
		language: golang.GetLanguage(),
		query: `
			(function_declaration name: (identifier) @name) @fn
			(method_declaration name: (field_identifier) @name) @fn
		`,
	},
	m.LanguageJavaScript: {
		language: javascript.GetLanguage(),
		query: `
			(function_declaration name: (identifier) @name) @fn
			(method_definition name: (property_identifier) @name) @fn
			(variable_declarator name: (identifier) @name value: (arrow_function) @fn)
		`,
	},
	m.LanguagePython: {
		language: python.GetLanguage(),
		query: `(function_definition name: (identifier) @name) @fn`,
	},
	m.LanguageJava: {
		language: java.GetLanguage(),
		query: `
			(method_declaration name: (identifier) @name) @fn
			(constructor_declaration name: (identifier) @name) @fn
		`,
	},
}

// TreeSitterIndexer finds functions with tree-sitter grammars. Languages
// without a grammar, and sources that do not parse cleanly, go to the
// fallback indexer.
type TreeSitterIndexer struct {
	fallback FunctionIndexer
}

// NewTreeSitterIndexer constructs a TreeSitterIndexer.
func NewTreeSitterIndexer(fallback FunctionIndexer) *TreeSitterIndexer {
	return &TreeSitterIndexer{fallback: fallback}
}

// Functions implements FunctionIndexer.
func (ix *TreeSitterIndexer) Functions(ctx context.Context, lang m.Language, source []byte) ([]m.FunctionSpan, error) {
	g, ok := grammars[lang]
	if !ok {
		return ix.fallbackFunctions(ctx, lang, source, "no grammar")
	}

	functions, err := parseFunctions(ctx, g, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		slog.Debug("Tree-sitter indexing failed", "language", lang, "error", err)

		return ix.fallbackFunctions(ctx, lang, source, err.Error())
	}

	return functions, nil
}

func (ix *TreeSitterIndexer) fallbackFunctions(ctx context.Context, lang m.Language, source []byte, reason string) ([]m.FunctionSpan, error) {
	if ix.fallback == nil {
		return nil, fmt.Errorf("tree-sitter cannot index %s: %s", lang, reason)
	}

	return ix.fallback.Functions(ctx, lang, source)
}

func parseFunctions(ctx context.Context, g grammar, source []byte) ([]m.FunctionSpan, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(g.language)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("source has syntax errors")
	}

	query, err := sitter.NewQuery([]byte(g.query), g.language)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	defer query.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	qc.Exec(query, root)

	functions := make([]m.FunctionSpan, 0)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}

		var fn m.FunctionSpan

		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "fn":
				fn.Start = int(c.Node.StartByte())
				fn.End = int(c.Node.EndByte())
			case "name":
				fn.Name = c.Node.Content(source)
			}
		}

		if fn.Name != "" && fn.End > fn.Start {
			functions = append(functions, fn)
		}
	}

	return functions, nil
}
