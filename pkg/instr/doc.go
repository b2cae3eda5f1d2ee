// Package instr generates instruction-assertion tests for annotated Go
// functions.
//
// A function annotated with an assert directive:
//
//	//instrcheck:targetfeature(avx2)
//	//instrcheck:assert(addl, b = 1)
//	func add(a int32, b int32) int32 { return a + b }
//
// expands into a test function assert_add_addl that passes the code address,
// display name and expected mnemonic of the function under test to an
// external runtime assertion helper. When the directive overrides arguments,
// a forwarding shim add_shim is synthesized with the remaining parameters and
// the original's target attributes, and the test asserts on the shim instead.
//
// The package never inspects machine code: disassembly and instruction
// matching belong to the runtime helper.
package instr

// DocString returns the user documentation of the directive language
func DocString() string {
	return `instrcheck directives

Directives are comments in a function's doc block, written without a space
after the comment marker:

  //instrcheck:assert(instruction, name = expression, ...)

      Generate a test named assert_<function>_<instruction> that asks the
      runtime assertion helper to verify the compiled function contains the
      given instruction. Each "name = expression" pair pins one parameter to
      a fixed Go expression; the remaining parameters are forwarded through a
      synthesized <function>_shim. Every override must name a parameter of
      the function exactly once.

  //instrcheck:targetfeature(<feature>)
  //instrcheck:targetarch(<arch>)

      Declare instruction-set preconditions of the function. They are copied
      onto any generated shim, so pinning an argument never relaxes the
      codegen constraints the assertion depends on.

The annotated function itself is never modified. Generated tests are written
to a companion <file>_instrcheck_test.go and are marked skipped unless
generation ran in optimized mode.`
}
