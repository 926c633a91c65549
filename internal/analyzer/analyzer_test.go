package analyzer

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inferc/internal/ast"
)

func quiet() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func moduleOf(groups ...*ast.InferenceGroup) *ast.Module {
	return &ast.Module{Groups: groups}
}

func groupOf(name string, defs ...*ast.InferenceDefn) *ast.InferenceGroup {
	return &ast.InferenceGroup{Name: name, Inferences: defs}
}

func rule(name string, proposition ast.DeductionTarget, premises ...ast.PremiseDefn) *ast.InferenceDefn {
	return &ast.InferenceDefn{
		Name:        name,
		Premises:    premises,
		Proposition: &ast.PropositionDefn{Target: proposition},
	}
}

func messages(res Result) []string {
	out := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		out = append(out, d.Message)
	}
	return out
}

func TestScenarioDuplicateGroup(t *testing.T) {
	m := moduleOf(groupOf("MyGroup"), groupOf("MyGroup"))

	res := Analyze(m, quiet())

	assert.False(t, res.Pass)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, `Found multiple inference group with name "MyGroup".`, res.Diagnostics[0].Message)
	assert.Equal(t, SeverityError, res.Diagnostics[0].Severity)
	assert.Equal(t, CodeDuplicateGroup, res.Diagnostics[0].Code)
}

func TestDuplicateGroupReportedOncePerName(t *testing.T) {
	m := moduleOf(groupOf("A"), groupOf("A"), groupOf("B"), groupOf("A"), groupOf("B"))

	res := Analyze(m, quiet())

	assert.False(t, res.Pass)
	assert.Equal(t, []string{
		`Found multiple inference group with name "A".`,
		`Found multiple inference group with name "B".`,
	}, messages(res))
}

func TestScenarioDuplicateArgument(t *testing.T) {
	d := rule("Call", ast.Computed("Ret"))
	d.Arguments = []*ast.InferenceArgument{
		{Name: "Arg1", TypeName: "Node"},
		{Name: "Arg1", TypeName: "Node"},
	}

	res := Analyze(moduleOf(groupOf("G", d)), quiet())

	assert.False(t, res.Pass)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, `Found duplicate symbol (argument) with name "Arg1".`, res.Diagnostics[0].Message)
	assert.Equal(t, "Call", res.Diagnostics[0].Inference)
	assert.Equal(t, "G", res.Diagnostics[0].Group)
}

func TestScenarioSizeLiteralRedeclaration(t *testing.T) {
	tests := []struct {
		name          string
		first, second ast.DeductionTarget
	}{
		{"unsized then sized", ast.Array("ArgumentsTypes"), ast.SizedArray("ArgumentsTypes", 5)},
		{"sized then unsized", ast.SizedArray("ArgumentsTypes", 5), ast.Array("ArgumentsTypes")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := rule("CallExpr", ast.Computed("Ret"),
				ast.Prove("Node.args", tt.first),
				ast.Prove("Node.params", tt.second))

			res := Analyze(moduleOf(groupOf("G", d)), quiet())

			assert.False(t, res.Pass)
			assert.Equal(t, []string{`Found duplicate and incompatible target in inference "CallExpr".`}, messages(res))
			assert.Equal(t, CodeIncompatibleTarget, res.Diagnostics[0].Code)
		})
	}
}

func TestScenarioUnboundProposition(t *testing.T) {
	d := rule("Ident", ast.Singular("Never"), ast.Prove("Node.name", ast.Singular("Name")))

	res := Analyze(moduleOf(groupOf("G", d)), quiet())

	assert.False(t, res.Pass)
	assert.Equal(t, []string{`Invalid proposition target type in inference "Ident".`}, messages(res))
}

func TestScenarioSingularRangeBound(t *testing.T) {
	d := rule("Loop", ast.Array("Xs"),
		ast.Prove("Node.xs", ast.Array("Xs")),
		ast.Prove("Node.n", ast.Singular("N")),
		ast.Compare(ast.Array("Xs"), ast.OpEqual, ast.Array("Xs")).Over("i", "i", ast.Singular("N")))

	res := Analyze(moduleOf(groupOf("G", d)), quiet())

	assert.False(t, res.Pass)
	assert.Equal(t, []string{`Invalid target in range clause in inference "Loop".`}, messages(res))
}

func TestScenarioWellFormedPasses(t *testing.T) {
	d := rule("CallExpr", ast.Computed("ReturnOf", ast.Singular("ArgT")),
		ast.Prove("Node.callee", ast.Singular("Callee")),
		ast.Prove("Node.args", ast.Array("ArgumentsTypes"),
			ast.Prove("Node.args.elem", ast.Singular("ArgT"))),
		ast.Prove("Callee.params", ast.Array("ParamTypes")),
		ast.Compare(ast.Array("ArgumentsTypes"), ast.OpEqual, ast.Array("ParamTypes")).
			Over("i", "i", ast.Array("ArgumentsTypes")))
	d.Globals = []*ast.GlobalDecl{{Name: "Ctx"}}
	d.Arguments = []*ast.InferenceArgument{{Name: "Node", TypeName: "CallExpr"}}
	g := groupOf("Calls", d)
	g.Environment = []*ast.EnvironmentDefn{{Key: "package", Value: "checker"}}

	res := Analyze(moduleOf(g), quiet())

	assert.True(t, res.Pass)
	assert.Empty(t, res.Diagnostics)
	assert.NotNil(t, res.Diagnostics)
}

func TestPropositionBoundBySingularPasses(t *testing.T) {
	d := rule("Ident", ast.Singular("Name"), ast.Prove("Node.name", ast.Singular("Name")))

	res := Analyze(moduleOf(groupOf("G", d)), quiet())

	assert.True(t, res.Pass)
}

func TestPropositionClashingBindingFails(t *testing.T) {
	d := rule("Ident", ast.SizedArray("Xs", 3), ast.Prove("Node.xs", ast.SizedArray("Xs", 2)))

	res := Analyze(moduleOf(groupOf("G", d)), quiet())

	assert.False(t, res.Pass)
	assert.Equal(t, CodeInvalidProposition, res.Diagnostics[0].Code)
}

func TestMissingPropositionFails(t *testing.T) {
	d := &ast.InferenceDefn{Name: "Empty"}

	res := Analyze(moduleOf(groupOf("G", d)), quiet())

	assert.False(t, res.Pass)
	assert.Equal(t, []string{`Invalid proposition target type in inference "Empty".`}, messages(res))
}

func TestIdempotent(t *testing.T) {
	d := rule("R", ast.Singular("Missing"),
		ast.Prove("a", ast.Array("X")),
		ast.Prove("b", ast.SizedArray("X", 1)))
	d.Globals = []*ast.GlobalDecl{{Name: "g"}, {Name: "g"}}
	m := moduleOf(groupOf("G", d), groupOf("G"))

	a := New(quiet())
	first := a.Analyze(m)
	second := a.Analyze(m)
	fresh := Analyze(m, quiet())

	assert.Equal(t, first, second)
	assert.Equal(t, first, fresh)
	assert.Len(t, first.Diagnostics, 4)
}

func TestAllViolationsReportedWithoutBail(t *testing.T) {
	d1 := rule("R", ast.Computed("f"), ast.Prove("a", ast.Array("X")), ast.Prove("b", ast.SizedArray("X", 1)))
	d2 := rule("R", ast.Singular("Nope"))
	m := moduleOf(groupOf("G", d1, d2))

	res := Analyze(m, quiet())

	assert.False(t, res.Pass)
	assert.Equal(t, []string{
		`Found multiple inference definition with name "R".`,
		`Found duplicate and incompatible target in inference "R".`,
		`Invalid proposition target type in inference "R".`,
	}, messages(res))
}

func TestBailOnFirstError(t *testing.T) {
	d1 := rule("R", ast.Computed("f"), ast.Prove("a", ast.Array("X")), ast.Prove("b", ast.SizedArray("X", 1)))
	d2 := rule("S", ast.Singular("Nope"))
	m := moduleOf(groupOf("G", d1, d2))

	opts := quiet()
	opts.BailOnFirstError = true
	res := Analyze(m, opts)

	assert.False(t, res.Pass)
	assert.Equal(t, []string{`Found duplicate and incompatible target in inference "R".`}, messages(res))
}

func TestWarningsDoNotFail(t *testing.T) {
	d := rule("R", ast.Computed("f"))
	d.Globals = []*ast.GlobalDecl{{Name: "g"}, {Name: "g"}}
	g := groupOf("G", d)
	g.Environment = []*ast.EnvironmentDefn{{Key: "k", Value: "1"}, {Key: "k", Value: "2"}}

	res := Analyze(moduleOf(g), quiet())

	assert.True(t, res.Pass)
	assert.Equal(t, 2, res.Warnings())
	assert.Equal(t, []string{
		`Found duplicate environment field with name "k".`,
		`Found duplicate symbol (global) with name "g".`,
	}, messages(res))
	v, _ := g.EnvironmentValue("k")
	assert.Equal(t, "2", v)
}

func TestWarningsAsErrorsStopsAtFirstWarning(t *testing.T) {
	d := rule("R", ast.Singular("Nope"))
	g := groupOf("G", d)
	g.Environment = []*ast.EnvironmentDefn{{Key: "k"}, {Key: "k"}}

	opts := quiet()
	opts.WarningsAsErrors = true
	res := Analyze(moduleOf(g), opts)

	assert.False(t, res.Pass)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, SeverityError, res.Diagnostics[0].Severity)
	assert.Equal(t, CodeDuplicateEnvironment, res.Diagnostics[0].Code)
}

func TestWhileClauseSharesTable(t *testing.T) {
	t.Run("body sees outer binding", func(t *testing.T) {
		d := rule("Loop", ast.Singular("Elem"),
			ast.Prove("Node.xs", ast.Array("Xs"),
				ast.Prove("Node.xs.elem", ast.Singular("Elem")),
				ast.Prove("Node.xs.again", ast.SizedArray("Xs", 4))))

		res := Analyze(moduleOf(groupOf("G", d)), quiet())

		assert.False(t, res.Pass)
		assert.Equal(t, []string{`Found duplicate and incompatible target in inference "Loop".`}, messages(res))
	})

	t.Run("outer sees body binding", func(t *testing.T) {
		d := rule("Loop", ast.Singular("Elem"),
			ast.Prove("Node.xs", ast.Array("Xs"),
				ast.Prove("Node.xs.elem", ast.Singular("Elem"))))

		res := Analyze(moduleOf(groupOf("G", d)), quiet())

		assert.True(t, res.Pass)
	})
}

func TestTablesAreLocalToInference(t *testing.T) {
	d1 := rule("A", ast.Array("X"), ast.Prove("a", ast.Array("X")))
	d2 := rule("B", ast.SizedArray("X", 2), ast.Prove("b", ast.SizedArray("X", 2)))

	res := Analyze(moduleOf(groupOf("G", d1, d2)), quiet())

	assert.True(t, res.Pass, "%v", res.Diagnostics)
}

func TestEqualityChecks(t *testing.T) {
	tests := []struct {
		name     string
		premises []ast.PremiseDefn
		want     []string
	}{
		{
			name:     "nil operand",
			premises: []ast.PremiseDefn{ast.Compare(nil, ast.OpEqual, ast.Singular("x"))},
			want:     []string{`Invalid target type in inference "R".`},
		},
		{
			name:     "singular against unsized array",
			premises: []ast.PremiseDefn{ast.Compare(ast.Singular("x"), ast.OpLess, ast.Array("ys"))},
			want:     []string{},
		},
		{
			name: "operand shape differs from binding",
			premises: []ast.PremiseDefn{
				ast.Prove("a", ast.Array("xs")),
				ast.Compare(ast.Singular("xs"), ast.OpEqual, ast.Singular("y")),
			},
			want: []string{},
		},
		{
			name: "sized against unsized under range",
			premises: []ast.PremiseDefn{
				ast.Prove("a", ast.Array("xs")),
				ast.Compare(ast.SizedArray("xs", 3), ast.OpEqual, ast.Array("ys")).Over("i", "j", ast.Array("xs")),
			},
			want: []string{`Incompatible targets in expression in inference "R".`},
		},
		{
			name: "singular operands under range",
			premises: []ast.PremiseDefn{
				ast.Prove("a", ast.Array("xs")),
				ast.Compare(ast.Singular("x"), ast.OpEqual, ast.Singular("y")).Over("i", "j", ast.Array("xs")),
			},
			want: []string{`Incompatible targets in expression in inference "R".`},
		},
		{
			name:     "missing range bound",
			premises: []ast.PremiseDefn{ast.Compare(ast.Array("a"), ast.OpEqual, ast.Array("b")).Over("i", "j", nil)},
			want:     []string{`Invalid target in range clause in inference "R".`},
		},
		{
			name: "computed bound and operands",
			premises: []ast.PremiseDefn{
				ast.Compare(ast.Computed("f"), ast.OpNotEqual, ast.Array("b")).Over("i", "j", ast.Computed("len")),
			},
			want: []string{},
		},
		{
			name:     "sized singular comparison",
			premises: []ast.PremiseDefn{ast.Compare(ast.Singular("x"), ast.OpLessEqual, ast.SizedArray("ys", 2))},
			want:     []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := rule("R", ast.Computed("out"), tt.premises...)

			res := Analyze(moduleOf(groupOf("G", d)), quiet())

			assert.Equal(t, tt.want, messages(res))
			assert.Equal(t, len(tt.want) == 0, res.Pass)
		})
	}
}

func TestComputedOperandAcceptsAnyShape(t *testing.T) {
	d := rule("R", ast.Computed("out"),
		ast.Prove("a", ast.Array("xs")),
		ast.Compare(ast.Computed("f"), ast.OpEqual, ast.Array("xs")),
		ast.Compare(ast.Singular("s"), ast.OpEqual, ast.Computed("g")))

	res := Analyze(moduleOf(groupOf("G", d)), quiet())

	assert.True(t, res.Pass)
}

func TestHandlerReceivesEveryDiagnostic(t *testing.T) {
	var got []Diagnostic
	opts := quiet()
	opts.Handler = func(d Diagnostic) { got = append(got, d) }

	res := Analyze(moduleOf(groupOf("A"), groupOf("A"), groupOf("B"), groupOf("B")), opts)

	assert.Equal(t, res.Diagnostics, got)
}

func TestAbsentProveTargetIsInvalid(t *testing.T) {
	var missing *ast.ArrayTarget
	for name, target := range map[string]ast.DeductionTarget{"nil": nil, "typed nil": missing} {
		t.Run(name, func(t *testing.T) {
			d := rule("R", ast.Computed("out"), ast.Prove("a", target))

			res := Analyze(moduleOf(groupOf("G", d)), quiet())

			assert.False(t, res.Pass)
			assert.Equal(t, []string{`Invalid target type in inference "R".`}, messages(res))
			assert.Equal(t, CodeInvalidTargetType, res.Diagnostics[0].Code)
		})
	}
}

type strangeTarget struct{ ast.SingularTarget }

func TestUnknownTargetVariantIsDefect(t *testing.T) {
	d := rule("R", ast.Computed("out"), ast.Prove("a", &strangeTarget{}))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, ast.IsDefect(err))
	}()
	Analyze(moduleOf(groupOf("G", d)), quiet())
}

func TestVerboseLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{
		Verbose: true,
		Logger:  slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}

	Analyze(moduleOf(groupOf("A"), groupOf("A")), opts)

	assert.Contains(t, buf.String(), "analysis finished")
	assert.Contains(t, buf.String(), "errors=1")
	assert.NotContains(t, buf.String(), "checking group")
}

func TestDiagnosticJSON(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeDuplicateGlobal,
		Message:  `Found duplicate symbol (global) with name "g".`,
		Pos:      ast.Pos{File: "r.cue", Line: 2, Column: 3},
	}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"severity":"warning","code":"E204","message":"Found duplicate symbol (global) with name \"g\".","pos":{"file":"r.cue","line":2,"column":3}}`,
		string(data))

	var back Diagnostic
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	assert.Equal(t, `r.cue:2:3: warning[E204]: Found duplicate symbol (global) with name "g".`, d.String())
}
