// Package ast provides the syntax tree for inference-rule modules.
//
// A Module is produced once by a front end (see internal/compiler) and is
// read-only afterwards. Nothing in this package validates rules; the tree is
// plain data plus a few pure helpers:
//   - Canonicalize and Root render dotted identifier chains
//   - TargetName and ShapeOf match exhaustively over deduction targets
//   - MarshalCanonical and ModuleDigest produce a stable encoding of a module
//
// PremiseDefn and DeductionTarget are closed sum types. Their marker methods
// are unexported so no other package can add a variant; every switch over
// them ends in a default that panics with a *DefectError.
//
// This package imports nothing internal.
package ast
