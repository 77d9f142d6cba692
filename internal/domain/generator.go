// Package domain contains the mutation testing pipeline: generation,
// execution, aggregation, selection and trend analysis.
package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"gooze.dev/pkg/mutest/internal/adapter"
	"gooze.dev/pkg/mutest/internal/domain/mutagens"
	m "gooze.dev/pkg/mutest/internal/model"
)

// Generator scans a source with the operators of a catalog and emits located
// mutants.
type Generator interface {
	Generate(ctx context.Context, args GenerateArgs) (Generation, error)
}

// GenerateArgs holds the inputs of a generation pass.
type GenerateArgs struct {
	Source   []byte
	File     m.Path
	Language m.Language
	// Catalog defaults to every built-in category when nil.
	Catalog *Catalog
}

// Generation is the output of a generation pass.
type Generation struct {
	Mutants  []m.Mutant
	Warnings []GenerationWarning
}

type generator struct {
	indexer adapter.FunctionIndexer
	now     func() time.Time
}

// NewGenerator creates a Generator. A nil indexer selects the lexical one.
func NewGenerator(indexer adapter.FunctionIndexer) Generator {
	if indexer == nil {
		indexer = NewLexicalIndexer()
	}

	return &generator{indexer: indexer, now: time.Now}
}

func (g *generator) Generate(ctx context.Context, args GenerateArgs) (Generation, error) {
	if len(strings.TrimSpace(string(args.Source))) == 0 {
		return Generation{}, &MissingInputError{Field: "source"}
	}

	catalog := args.Catalog
	if catalog == nil {
		var err error
		if catalog, err = BuildCatalog(); err != nil {
			return Generation{}, err
		}
	}

	file := args.File
	if file == "" {
		file = m.Path(args.Language.Profile().DefaultFile)
	}

	profile := args.Language.Profile()
	scan := mutagens.NewScan(args.Source, profile)
	warnings := newWarningSet()

	functions, err := g.indexer.Functions(ctx, profile.Language, args.Source)
	if err != nil {
		if ctx.Err() != nil {
			return Generation{}, fmt.Errorf("index functions of %s: %w", file, ctx.Err())
		}

		slog.Warn("Function index unavailable", "file", file, "error", err)
		warnings.add(0, fmt.Sprintf("function index unavailable: %v", err))
	}

	index := NewOffsetIndex(args.Source, functions)
	ignore := buildIgnoreIndex(args.Source, index)
	mutants := make([]m.Mutant, 0)
	seen := make(map[string]bool)
	created := g.now()

	for _, op := range catalog.Operators() {
		if err := ctx.Err(); err != nil {
			return Generation{}, fmt.Errorf("generate mutants for %s: %w", file, err)
		}

		for _, match := range op.Matches(scan) {
			if match.Replacement == match.Original {
				continue
			}

			line, column := index.Position(match.Span.Offset)
			if ignore.ignores(line, op.Category()) {
				continue
			}

			// The same rewrite of the same span belongs to the earliest category.
			key := fmt.Sprintf("%d:%d:%s", match.Span.Offset, match.Span.Length, match.Replacement)
			if seen[key] {
				continue
			}

			seen[key] = true

			mutant, ok := buildMutant(args.Source, file, index, op.Category(), match, line, column)
			if !ok {
				continue
			}

			if !mutant.hasFunction {
				warnings.add(line, fmt.Sprintf("no enclosing function for offset %d, attributed to %q", match.Span.Offset, m.UnknownFunction))
			}

			mutant.Timestamp = created
			mutants = append(mutants, mutant.Mutant)
		}
	}

	sortMutants(mutants, catalog)

	slog.Debug("Generated mutants", "file", file, "count", len(mutants), "warnings", len(warnings.list))

	return Generation{Mutants: mutants, Warnings: warnings.list}, nil
}

type located struct {
	m.Mutant
	hasFunction bool
}

func buildMutant(src []byte, file m.Path, index *OffsetIndex, category m.Category, match mutagens.Match, line, column int) (located, bool) {
	start, end := index.Window(match.Span)
	end = max(end, match.Span.End())
	window := string(src[start:end])
	rel := match.Span.Offset - start
	mutatedWindow := window[:rel] + match.Replacement + window[rel+match.Span.Length:]

	original := strings.TrimSpace(window)
	mutated := strings.TrimSpace(mutatedWindow)

	if original == mutated {
		return located{}, false
	}

	function, ok := index.EnclosingFunction(match.Span.Offset)

	return located{
		Mutant: m.Mutant{
			ID:       mutantID(file, category, match.Span.Offset, match.Replacement),
			Category: category,
			Operator: match.Label,
			Location: m.Location{
				File:              file,
				Line:              line,
				Column:            column,
				EnclosingFunction: function,
			},
			Span:         match.Span,
			Replacement:  match.Replacement,
			OriginalCode: original,
			MutatedCode:  mutated,
			Diff:         windowDiff(file, line, window, mutatedWindow),
			Status:       m.StatusPending,
		},
		hasFunction: ok,
	}, true
}

// mutantID is stable across runs on unchanged input.
func mutantID(file m.Path, category m.Category, offset int, replacement string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d|%s", file, category, offset, replacement))
	return hex.EncodeToString(sum[:])[:16]
}

func windowDiff(file m.Path, line int, before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before + "\n"),
		B:        difflib.SplitLines(after + "\n"),
		FromFile: fmt.Sprintf("%s:%d", file, line),
		ToFile:   fmt.Sprintf("%s:%d (mutant)", file, line),
		Context:  0,
	})
	if err != nil {
		slog.Debug("Failed to render mutant diff", "file", file, "line", line, "error", err)
		return ""
	}

	return diff
}

// sortMutants orders by catalog position, offset then replacement and
// assigns the generation sequence.
func sortMutants(mutants []m.Mutant, catalog *Catalog) {
	sort.SliceStable(mutants, func(i, j int) bool {
		a, b := mutants[i], mutants[j]
		if a.Category != b.Category {
			return catalog.Rank(a.Category) < catalog.Rank(b.Category)
		}

		if a.Span.Offset != b.Span.Offset {
			return a.Span.Offset < b.Span.Offset
		}

		return a.Replacement < b.Replacement
	})

	for i := range mutants {
		mutants[i].Seq = i
	}
}

type warningSet struct {
	lines map[int]bool
	list  []GenerationWarning
}

func newWarningSet() *warningSet {
	return &warningSet{lines: make(map[int]bool)}
}

// add keeps at most one warning per line.
func (w *warningSet) add(line int, message string) {
	if w.lines[line] {
		return
	}

	w.lines[line] = true
	w.list = append(w.list, GenerationWarning{Line: line, Message: message})
}

var ignorePattern = regexp.MustCompile(`(?://|#|/\*)\s*mutest:ignore\b[ \t]*([A-Za-z_, \t]*)`)

// ignoreRule is an empty set for "every category".
type ignoreRule map[m.Category]bool

func (r ignoreRule) ignores(category m.Category) bool {
	return len(r) == 0 || r[category]
}

type ignoreIndex map[int]ignoreRule

// buildIgnoreIndex reads "mutest:ignore [categories]" comments. An annotation
// covers its own line and the line below it.
func buildIgnoreIndex(src []byte, index *OffsetIndex) ignoreIndex {
	ignore := make(ignoreIndex)

	for line := 1; line <= index.Lines(); line++ {
		start, end := index.LineBounds(line)

		match := ignorePattern.FindSubmatch(src[start:end])
		if match == nil {
			continue
		}

		rule := make(ignoreRule)

		for _, name := range strings.FieldsFunc(string(match[1]), func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			if category, ok := m.ParseCategory(name); ok {
				rule[category] = true
			}
		}

		ignore[line] = rule
		ignore[line+1] = rule
	}

	return ignore
}

func (ix ignoreIndex) ignores(line int, category m.Category) bool {
	rule, ok := ix[line]
	return ok && rule.ignores(category)
}
