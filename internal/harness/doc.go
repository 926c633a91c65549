// Package harness runs conformance scenarios against the analyzer.
//
// A scenario names a rule file, the analyzer options to use and the outcome
// it expects. Run compiles the rules, analyzes them, records the run in a
// fresh in-memory store and compares what was read back with the
// expectation.
//
// # Scenario Format
//
//	name: duplicate_group
//	description: "Two groups share a name"
//	rules: rules/duplicate_group.cue
//	options:
//	  bail_on_first_error: false
//	  warnings_as_errors: false
//	expect:
//	  pass: false
//	  diagnostics:
//	    - severity: error
//	      code: E201
//	      message: 'Found multiple inference group with name "MyGroup".'
//	assertions:
//	  - type: diagnostic_count
//	    code: E201
//	    count: 1
//
// The rules path is resolved relative to the scenario file. The expected
// diagnostics are compared in order and must match the recorded list
// exactly; code may be omitted.
//
// # Assertion Types
//
//   - diagnostic_contains: a diagnostic with the code whose message contains
//     the given text
//   - diagnostic_order: the codes appear in the given order
//   - diagnostic_count: the code appears exactly count times
//
// # Golden Files
//
// NewSnapshot gives the canonical JSON form of a run that golden files
// compare. Positions and the source path are left out so a snapshot does
// not depend on where the rules live. The package tests keep theirs under
// testdata/golden/<name>.golden; the CLI test command under
// <scenarios-dir>/golden.
package harness
