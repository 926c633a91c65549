// Package analyzer checks a rule module for semantic consistency before code
// generation.
//
// The analyzer reports duplicate names at three scopes (groups in a module,
// environment fields and inference definitions in a group, globals and
// arguments in an inference definition) and checks that every deduction
// target is used with one shape throughout its inference definition,
// including nested while clauses.
//
// Problems in the module are returned as Diagnostics, never as Go errors.
// A panic carrying *ast.DefectError means the analyzer met a node variant it
// does not know, which is a bug in this package.
//
// Usage:
//
//	res := analyzer.Analyze(module, analyzer.Options{BailOnFirstError: true})
//	if !res.Pass {
//	    for _, d := range res.Diagnostics {
//	        fmt.Println(d)
//	    }
//	}
package analyzer

// Version identifies the rule set implemented by this package. It is recorded
// with every stored run and compiled module.
const Version = "1.0.0"
