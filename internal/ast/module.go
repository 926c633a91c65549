package ast

// Module is the root of a rule file: an ordered list of groups.
type Module struct {
	Groups []*InferenceGroup
	Pos    Pos
}

// InferenceGroup is a named namespace of environment metadata and rules.
type InferenceGroup struct {
	Name        string
	Environment []*EnvironmentDefn
	Inferences  []*InferenceDefn
	Pos         Pos
}

// EnvironmentDefn is a free-form key/value pair consumed by synthesis.
type EnvironmentDefn struct {
	Key   string
	Value string
	Pos   Pos
}

// InferenceDefn is one named inference rule.
type InferenceDefn struct {
	Name        string
	Globals     []*GlobalDecl
	Arguments   []*InferenceArgument
	Premises    []PremiseDefn
	Proposition *PropositionDefn
	Pos         Pos
}

// GlobalDecl names a global symbol visible to generated code.
type GlobalDecl struct {
	Name string
	Pos  Pos
}

// InferenceArgument is a formal parameter of a rule.
type InferenceArgument struct {
	Name     string
	TypeName string
	Pos      Pos
}

// PropositionDefn is the conclusion of a rule.
type PropositionDefn struct {
	Target DeductionTarget
	Pos    Pos
}

func (*Module) Kind() Kind            { return KindModule }
func (*InferenceGroup) Kind() Kind    { return KindGroup }
func (*EnvironmentDefn) Kind() Kind   { return KindEnvironment }
func (*InferenceDefn) Kind() Kind     { return KindInference }
func (*GlobalDecl) Kind() Kind        { return KindGlobal }
func (*InferenceArgument) Kind() Kind { return KindArgument }
func (*PropositionDefn) Kind() Kind   { return KindProposition }

func (m *Module) Position() Pos            { return m.Pos }
func (g *InferenceGroup) Position() Pos    { return g.Pos }
func (e *EnvironmentDefn) Position() Pos   { return e.Pos }
func (d *InferenceDefn) Position() Pos     { return d.Pos }
func (g *GlobalDecl) Position() Pos        { return g.Pos }
func (a *InferenceArgument) Position() Pos { return a.Pos }
func (p *PropositionDefn) Position() Pos   { return p.Pos }

// EnvironmentValue returns the value of the last field declared with key.
// Later declarations overwrite earlier ones.
func (g *InferenceGroup) EnvironmentValue(key string) (string, bool) {
	for i := len(g.Environment) - 1; i >= 0; i-- {
		if g.Environment[i].Key == key {
			return g.Environment[i].Value, true
		}
	}
	return "", false
}

// Inference returns the first inference definition named name.
func (g *InferenceGroup) Inference(name string) *InferenceDefn {
	for _, d := range g.Inferences {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Group returns the first group named name.
func (m *Module) Group(name string) *InferenceGroup {
	for _, g := range m.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}
