// Package targets decides whether two uses of a deduction target agree on
// shape.
//
// AreCompatible compares two targets directly. Table records the bindings
// made by the premises of one inference definition so that later premises
// and the proposition can be checked against them.
package targets
