// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// Source is a single source file snapshot handed to the engine.
type Source struct {
	// File is the path of the source relative to the project root. It is used
	// both for reporting and as the write target inside a sandbox.
	File     Path
	Content  []byte
	Language Language
}

// FunctionSpan is the byte range [Start, End) of one named function.
type FunctionSpan struct {
	Name  string
	Start int
	End   int
}
