package ast

// FormatVersion versions the plain-value encoding produced by ToCanonicalMap.
const FormatVersion = "1"

// ToCanonicalMap converts a module into plain values accepted by
// MarshalCanonical. Positions are left out so that a digest depends only on
// the rules themselves.
func ToCanonicalMap(m *Module) map[string]any {
	groups := make([]any, 0, len(m.Groups))
	for _, g := range m.Groups {
		groups = append(groups, groupMap(g))
	}
	return map[string]any{
		"format_version": FormatVersion,
		"groups":         groups,
	}
}

func groupMap(g *InferenceGroup) map[string]any {
	env := make([]any, 0, len(g.Environment))
	for _, e := range g.Environment {
		env = append(env, map[string]any{"key": e.Key, "value": e.Value})
	}
	inferences := make([]any, 0, len(g.Inferences))
	for _, d := range g.Inferences {
		inferences = append(inferences, inferenceMap(d))
	}
	return map[string]any{
		"name":        g.Name,
		"environment": env,
		"inferences":  inferences,
	}
}

func inferenceMap(d *InferenceDefn) map[string]any {
	globals := make([]any, 0, len(d.Globals))
	for _, g := range d.Globals {
		globals = append(globals, g.Name)
	}
	args := make([]any, 0, len(d.Arguments))
	for _, a := range d.Arguments {
		args = append(args, map[string]any{"name": a.Name, "type": a.TypeName})
	}
	out := map[string]any{
		"name":      d.Name,
		"globals":   globals,
		"arguments": args,
		"premises":  premiseList(d.Premises),
	}
	if d.Proposition != nil && d.Proposition.Target != nil {
		out["proposition"] = targetMap(d.Proposition.Target)
	}
	return out
}

func premiseList(premises []PremiseDefn) []any {
	out := make([]any, 0, len(premises))
	for _, p := range premises {
		out = append(out, premiseMap(p))
	}
	return out
}

func premiseMap(p PremiseDefn) map[string]any {
	switch v := p.(type) {
	case *InferencePremiseDefn:
		out := map[string]any{"prove": Canonicalize(v.Source)}
		if v.Target != nil {
			out["target"] = targetMap(v.Target)
		}
		if v.While != nil {
			out["while"] = premiseList(v.While.Premises)
		}
		return out
	case *InferenceEqualityDefn:
		out := map[string]any{"op": string(v.Op)}
		if v.LHS != nil {
			out["lhs"] = targetMap(v.LHS)
		}
		if v.RHS != nil {
			out["rhs"] = targetMap(v.RHS)
		}
		if v.Range != nil {
			r := map[string]any{"lhs_idx": v.Range.LHSIndex, "rhs_idx": v.Range.RHSIndex}
			if v.Range.Bound != nil {
				r["bound"] = targetMap(v.Range.Bound)
			}
			out["range"] = r
		}
		return out
	default:
		Defect("ast.premiseMap", p)
		return nil
	}
}

func targetMap(t DeductionTarget) map[string]any {
	switch v := t.(type) {
	case *SingularTarget:
		return map[string]any{"singular": v.Name}
	case *ArrayTarget:
		out := map[string]any{"array": v.Name}
		if v.Size != nil {
			out["size"] = *v.Size
		}
		return out
	case *ComputedTarget:
		args := make([]any, 0, len(v.Args))
		for _, a := range v.Args {
			if a != nil {
				args = append(args, targetMap(a))
			}
		}
		return map[string]any{"computed": v.Name, "args": args}
	default:
		Defect("ast.targetMap", t)
		return nil
	}
}
