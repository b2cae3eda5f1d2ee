package instr

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/Manu343726/instrcheck/pkg/utils"
)

// Parameter is one named parameter of the annotated function
type Parameter struct {
	Name string
	// Type expression as written in the source, forwarded verbatim
	Type string
}

func (p Parameter) String() string {
	return p.Name + " " + p.Type
}

// Signature is the introspected signature of the annotated function
type Signature struct {
	Name   string
	Params []Parameter
	// Result list as written in the source, empty for functions with no
	// return values
	Results string
	// Classified instrcheck directives attached to the function, excluding
	// the assert directive itself
	Attributes []Attribute
}

// TargetAttributes returns the attributes that carry instruction-set
// preconditions. A generated shim must replicate them so it compiles under
// the same codegen constraints as the original function.
func (s *Signature) TargetAttributes() []Attribute {
	return utils.Filter(s.Attributes, func(a Attribute) bool {
		return a.Kind.IsTarget()
	})
}

// IntrospectFunction validates that the annotated declaration is a plain
// function with simple named parameters and projects it into a Signature.
// Any declaration the generator cannot safely wrap is a fatal error.
func IntrospectFunction(fset *token.FileSet, src []byte, decl ast.Decl) (*Signature, error) {
	fn, ok := decl.(*ast.FuncDecl)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotAFunction, declKind(decl))
	}

	if fn.Recv != nil {
		return nil, fmt.Errorf("%w: %s is a method", ErrNotAFunction, fn.Name.Name)
	}

	if fn.Type.TypeParams != nil {
		return nil, fmt.Errorf("%w: %s has type parameters", ErrUnsupportedParameter, fn.Name.Name)
	}

	sig := &Signature{
		Name:       fn.Name.Name,
		Params:     []Parameter{},
		Attributes: []Attribute{},
	}

	for _, field := range fn.Type.Params.List {
		if len(field.Names) == 0 {
			return nil, fmt.Errorf("%w: %s has an unnamed parameter of type %s",
				ErrUnsupportedParameter, fn.Name.Name, sourceText(fset, src, field.Type))
		}

		if _, variadic := field.Type.(*ast.Ellipsis); variadic {
			return nil, fmt.Errorf("%w: %s has a variadic parameter %s",
				ErrUnsupportedParameter, fn.Name.Name, field.Names[0].Name)
		}

		typeText := sourceText(fset, src, field.Type)
		for _, name := range field.Names {
			if name.Name == "_" {
				return nil, fmt.Errorf("%w: %s has a blank parameter of type %s",
					ErrUnsupportedParameter, fn.Name.Name, typeText)
			}

			sig.Params = append(sig.Params, Parameter{Name: name.Name, Type: typeText})
		}
	}

	if fn.Type.Results != nil {
		sig.Results = sourceText(fset, src, fn.Type.Results)
	}

	if fn.Doc != nil {
		for _, comment := range fn.Doc.List {
			attr, ok := ParseAttribute(comment.Text)
			if !ok || attr.Kind == AttributeAssert {
				continue
			}

			sig.Attributes = append(sig.Attributes, attr)
		}
	}

	return sig, nil
}

// sourceText slices the original source text covered by a syntax node
func sourceText(fset *token.FileSet, src []byte, node ast.Node) string {
	return string(src[fset.Position(node.Pos()).Offset:fset.Position(node.End()).Offset])
}

func declKind(decl ast.Decl) string {
	gen, ok := decl.(*ast.GenDecl)
	if !ok {
		return fmt.Sprintf("%T", decl)
	}

	switch gen.Tok {
	case token.VAR:
		return "a variable declaration"
	case token.CONST:
		return "a constant declaration"
	case token.TYPE:
		return "a type declaration"
	case token.IMPORT:
		return "an import declaration"
	}

	return gen.Tok.String()
}
