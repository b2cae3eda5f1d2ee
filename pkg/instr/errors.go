package instr

import "errors"

var (
	// The assert directive arguments do not match the expected grammar
	ErrInvocationSyntax = errors.New("invalid assert directive")
	// The assert directive is attached to something that is not a plain function
	ErrNotAFunction = errors.New("assert directive must be attached to a function")
	// A parameter of the annotated function cannot be forwarded or overridden
	ErrUnsupportedParameter = errors.New("unsupported parameter")
	// An argument override does not name exactly one parameter of the function
	ErrUnknownOverride = errors.New("invalid argument override")
)
