package instr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
)

// SourceFile is one parsed Go source file to scan for assert directives
type SourceFile struct {
	// Path the file was read from, used for diagnostics and output naming
	Path string
	// Package clause of the file
	Package string

	fset *token.FileSet
	src  []byte
	file *ast.File
}

// AnnotatedDecl is a top-level declaration carrying an assert directive. The
// declaration kind is validated later by the introspector, so a directive
// attached to a non-function still reaches the pipeline and fails there.
type AnnotatedDecl struct {
	Decl ast.Decl
	// The assert directive itself; its Args hold the unparsed argument list
	Directive Attribute
	// Position of the directive comment
	Pos token.Position
}

// ParseSourceFile reads and parses a Go source file
func ParseSourceFile(path string) (*SourceFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseSource(path, src)
}

// ParseSource parses Go source held in memory. The file name is only used
// for diagnostics.
func ParseSource(filename string, src []byte) (*SourceFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	return &SourceFile{
		Path:    filename,
		Package: file.Name.Name,
		fset:    fset,
		src:     src,
		file:    file,
	}, nil
}

// AnnotatedDecls returns every top-level declaration whose doc block carries
// an assert directive, in source order. A declaration with several assert
// directives yields one entry per directive.
func (f *SourceFile) AnnotatedDecls() []AnnotatedDecl {
	annotated := []AnnotatedDecl{}

	for _, decl := range f.file.Decls {
		doc := declDoc(decl)
		if doc == nil {
			continue
		}

		for _, comment := range doc.List {
			attr, ok := ParseAttribute(comment.Text)
			if !ok || attr.Kind != AttributeAssert {
				continue
			}

			annotated = append(annotated, AnnotatedDecl{
				Decl:      decl,
				Directive: attr,
				Pos:       f.fset.Position(comment.Pos()),
			})
		}
	}

	return annotated
}

func declDoc(decl ast.Decl) *ast.CommentGroup {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return d.Doc
	case *ast.GenDecl:
		return d.Doc
	}

	return nil
}

// declSource returns the source text of a declaration including its doc
// block, so re-emitting it preserves the original exactly as written
func (f *SourceFile) declSource(decl ast.Decl) string {
	start := decl.Pos()
	if doc := declDoc(decl); doc != nil {
		start = doc.Pos()
	}

	return string(f.src[f.fset.Position(start).Offset:f.fset.Position(decl.End()).Offset])
}
