package walk

import "github.com/roach88/inferc/internal/ast"

// Continue is the value every Base hook returns.
const Continue = true

// Base implements Visitor with hooks that always continue. Embed it and
// override only the hooks a pass needs.
type Base struct{}

var _ Visitor = Base{}

func (Base) PreModule(*ast.Module) bool  { return Continue }
func (Base) PostModule(*ast.Module) bool { return Continue }

func (Base) PreGroup(*ast.InferenceGroup, *ast.Module) bool  { return Continue }
func (Base) PostGroup(*ast.InferenceGroup, *ast.Module) bool { return Continue }

func (Base) PreEnvironment(*ast.EnvironmentDefn, *ast.InferenceGroup) bool  { return Continue }
func (Base) PostEnvironment(*ast.EnvironmentDefn, *ast.InferenceGroup) bool { return Continue }

func (Base) PreInference(*ast.InferenceDefn, *ast.InferenceGroup) bool  { return Continue }
func (Base) PostInference(*ast.InferenceDefn, *ast.InferenceGroup) bool { return Continue }

func (Base) PreGlobal(*ast.GlobalDecl, *ast.InferenceDefn) bool  { return Continue }
func (Base) PostGlobal(*ast.GlobalDecl, *ast.InferenceDefn) bool { return Continue }

func (Base) PreArgument(*ast.InferenceArgument, *ast.InferenceDefn) bool  { return Continue }
func (Base) PostArgument(*ast.InferenceArgument, *ast.InferenceDefn) bool { return Continue }

func (Base) PrePremise(ast.PremiseDefn, ast.Node) bool  { return Continue }
func (Base) PostPremise(ast.PremiseDefn, ast.Node) bool { return Continue }

func (Base) PreWhile(*ast.WhileClause, *ast.InferencePremiseDefn) bool  { return Continue }
func (Base) PostWhile(*ast.WhileClause, *ast.InferencePremiseDefn) bool { return Continue }

func (Base) PreRange(*ast.RangeClause, *ast.InferenceEqualityDefn) bool  { return Continue }
func (Base) PostRange(*ast.RangeClause, *ast.InferenceEqualityDefn) bool { return Continue }

func (Base) PreProposition(*ast.PropositionDefn, *ast.InferenceDefn) bool  { return Continue }
func (Base) PostProposition(*ast.PropositionDefn, *ast.InferenceDefn) bool { return Continue }

func (Base) PreTarget(ast.DeductionTarget, ast.Node) bool  { return Continue }
func (Base) PostTarget(ast.DeductionTarget, ast.Node) bool { return Continue }
