package instr

import (
	"fmt"
)

// ShimPlan describes a forwarding wrapper around the annotated function. The
// shim keeps the non-overridden parameters, pins the overridden ones to their
// expressions, and calls the original in a single statement, so the runtime
// checker can exercise the original's code path through a narrower signature.
type ShimPlan struct {
	// Shim function name, always <function>_shim
	Name string
	// Name of the wrapped function
	Target string
	// Forwarded parameters, in original relative order
	Params []Parameter
	// Call arguments in original parameter order: the override expression for
	// overridden parameters, the forwarded identifier otherwise
	Args []string
	// Result list copied from the wrapped function
	Results string
	// Target attributes copied from the wrapped function. Overriding an
	// argument must not relax the instruction-selection preconditions.
	Attributes []Attribute
}

// PlanShim builds the shim plan for a function and its invocation. When the
// invocation has no overrides no shim is needed and PlanShim returns nil: the
// generated test targets the original function directly.
//
// Every override must name exactly one parameter of the function. An override
// that names no parameter, or names one twice, is a fatal error rather than
// being silently dropped.
func PlanShim(sig *Signature, invocation *Invocation) (*ShimPlan, error) {
	if len(invocation.Overrides) == 0 {
		return nil, nil
	}

	overridden := map[string]string{}
	for _, override := range invocation.Overrides {
		if _, duplicate := overridden[override.Name]; duplicate {
			return nil, fmt.Errorf("%w: %s is overridden more than once", ErrUnknownOverride, override.Name)
		}

		if !sig.hasParameter(override.Name) {
			return nil, fmt.Errorf("%w: %s does not name a parameter of %s",
				ErrUnknownOverride, override.Name, sig.Name)
		}

		overridden[override.Name] = override.Expr
	}

	plan := &ShimPlan{
		Name:       sig.Name + "_shim",
		Target:     sig.Name,
		Params:     []Parameter{},
		Args:       make([]string, 0, len(sig.Params)),
		Results:    sig.Results,
		Attributes: sig.TargetAttributes(),
	}

	for _, param := range sig.Params {
		if expr, ok := overridden[param.Name]; ok {
			plan.Args = append(plan.Args, expr)
		} else {
			plan.Params = append(plan.Params, param)
			plan.Args = append(plan.Args, param.Name)
		}
	}

	return plan, nil
}

func (s *Signature) hasParameter(name string) bool {
	for _, param := range s.Params {
		if param.Name == name {
			return true
		}
	}

	return false
}
