package instr

import (
	"fmt"
)

// Expansion is the result of expanding one assert directive: the introspected
// function, the parsed invocation, the shim plan when overrides were given,
// and the generated test case. The original declaration is carried verbatim
// so the emitted output is strictly additive.
type Expansion struct {
	Function   *Signature
	Invocation *Invocation
	// Nil when the invocation has no overrides
	Shim *ShimPlan
	Test *TestCase
	// Source text of the annotated declaration, doc block included, exactly
	// as written
	OriginalSource string
}

// Expand runs the whole pipeline for a single annotated declaration: parse
// the directive arguments, introspect the function, plan the shim, build the
// test case. Every stage failure is fatal to the expansion and reported with
// the directive's source position.
func Expand(config Config, file *SourceFile, annotated AnnotatedDecl) (*Expansion, error) {
	invocation, err := ParseInvocation(annotated.Directive.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", annotated.Pos, err)
	}

	sig, err := IntrospectFunction(file.fset, file.src, annotated.Decl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", annotated.Pos, err)
	}

	shim, err := PlanShim(sig, invocation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", annotated.Pos, err)
	}

	return &Expansion{
		Function:       sig,
		Invocation:     invocation,
		Shim:           shim,
		Test:           NewTestCase(sig, invocation, shim, config),
		OriginalSource: file.declSource(annotated.Decl),
	}, nil
}

// ExpandFile expands every assert directive of a source file in source order.
// The first failure aborts the whole file, no partial output is produced.
//
// Shims are emitted as file-level functions, so two overriding directives on
// the same function would both declare <fn>_shim. The first shim keeps that
// name; later ones are renamed <fn>_<instruction>_shim so every declaration
// in the generated file is unique.
func ExpandFile(config Config, file *SourceFile) ([]*Expansion, error) {
	annotated := file.AnnotatedDecls()
	expansions := make([]*Expansion, 0, len(annotated))
	shimNames := map[string]bool{}

	for _, decl := range annotated {
		expansion, err := Expand(config, file, decl)
		if err != nil {
			return nil, err
		}

		if shim := expansion.Shim; shim != nil {
			if shimNames[shim.Name] {
				shim.Name = expansion.Function.Name + "_" + expansion.Invocation.Instr + "_shim"
				expansion.Test.Target = shim.Name
			}

			shimNames[shim.Name] = true
		}

		expansions = append(expansions, expansion)
	}

	return expansions, nil
}
