package instr

import (
	"strings"
)

// AttributeKind is the resolved classification of an instrcheck directive.
// Directives are classified against an explicit registry instead of matching
// name prefixes, so a directive that merely shares a leading substring with
// the target family is never misclassified.
type AttributeKind int

const (
	// An instrcheck directive with no special meaning for the generator
	AttributeOther AttributeKind = iota
	// The assert directive that requests test generation
	AttributeAssert
	// A target CPU feature precondition, e.g. //instrcheck:targetfeature(avx2)
	AttributeTargetFeature
	// A target architecture precondition, e.g. //instrcheck:targetarch(amd64)
	AttributeTargetArch
)

var attributeKindNames = map[AttributeKind]string{
	AttributeOther:         "other",
	AttributeAssert:        "assert",
	AttributeTargetFeature: "target feature",
	AttributeTargetArch:    "target architecture",
}

func (k AttributeKind) String() string {
	return attributeKindNames[k]
}

// IsTarget reports whether the attribute communicates an instruction-set or
// architecture precondition that generated shims must replicate.
func (k AttributeKind) IsTarget() bool {
	return k == AttributeTargetFeature || k == AttributeTargetArch
}

// Attribute is one instrcheck directive comment attached to a declaration
type Attribute struct {
	Kind AttributeKind
	// Directive name, without the tool prefix
	Name string
	// Raw argument list as written, parentheses included. Empty if the
	// directive takes no arguments.
	Args string
	// The full comment line, forwarded verbatim when the attribute is copied
	// to a generated shim
	Text string
}

// Comment prefix of all instrcheck directives. Following the Go directive
// convention there is no space between "//" and the tool name.
const DirectivePrefix = "//instrcheck:"

// Registry of known directive names
var directiveKinds = map[string]AttributeKind{
	"assert":        AttributeAssert,
	"targetfeature": AttributeTargetFeature,
	"targetarch":    AttributeTargetArch,
}

// ParseAttribute parses a single comment line into an Attribute. Comments
// that are not instrcheck directives return ok == false and are ignored by
// the introspector.
func ParseAttribute(comment string) (Attribute, bool) {
	if !strings.HasPrefix(comment, DirectivePrefix) {
		return Attribute{}, false
	}

	body := comment[len(DirectivePrefix):]

	end := 0
	for end < len(body) && isDirectiveNameChar(body[end]) {
		end++
	}

	name := body[:end]
	if name == "" {
		return Attribute{}, false
	}

	kind, known := directiveKinds[name]
	if !known {
		kind = AttributeOther
	}

	return Attribute{
		Kind: kind,
		Name: name,
		Args: strings.TrimSpace(body[end:]),
		Text: comment,
	}, true
}

func isDirectiveNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
