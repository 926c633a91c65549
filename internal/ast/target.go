package ast

// DeductionTarget names a binding and constrains the shape it may be used
// with elsewhere in the same inference definition.
//
// Implemented only by *SingularTarget, *ArrayTarget and *ComputedTarget.
type DeductionTarget interface {
	Node
	TargetName() string
	deductionTarget()
}

// SingularTarget is a scalar binding.
type SingularTarget struct {
	Name string
	Pos  Pos
}

// ArrayTarget is a sequence binding. Size is nil when the length is only
// known at generation time.
type ArrayTarget struct {
	Name string
	Size *int
	Pos  Pos
}

// ComputedTarget is the result of a named function applied to sub-targets.
// Its shape is unknown until code generation.
type ComputedTarget struct {
	Name string
	Args []DeductionTarget
	Pos  Pos
}

func (*SingularTarget) deductionTarget() {}
func (*ArrayTarget) deductionTarget()    {}
func (*ComputedTarget) deductionTarget() {}

func (*SingularTarget) Kind() Kind { return KindTarget }
func (*ArrayTarget) Kind() Kind    { return KindTarget }
func (*ComputedTarget) Kind() Kind { return KindTarget }

func (t *SingularTarget) Position() Pos { return t.Pos }
func (t *ArrayTarget) Position() Pos    { return t.Pos }
func (t *ComputedTarget) Position() Pos { return t.Pos }

func (t *SingularTarget) TargetName() string { return t.Name }
func (t *ArrayTarget) TargetName() string    { return t.Name }
func (t *ComputedTarget) TargetName() string { return t.Name }

// HasSize reports whether the array carries a size literal.
func (t *ArrayTarget) HasSize() bool {
	return t.Size != nil
}

// Shape is the variant of a deduction target.
type Shape int

const (
	ShapeSingular Shape = iota + 1
	ShapeArray
	ShapeComputed
)

func (s Shape) String() string {
	switch s {
	case ShapeSingular:
		return "singular"
	case ShapeArray:
		return "array"
	case ShapeComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// ShapeOf returns the variant of t. It panics with a *DefectError for nil or
// for a type outside the closed set.
func ShapeOf(t DeductionTarget) Shape {
	switch t.(type) {
	case *SingularTarget:
		return ShapeSingular
	case *ArrayTarget:
		return ShapeArray
	case *ComputedTarget:
		return ShapeComputed
	default:
		Defect("ast.ShapeOf", t)
		return 0
	}
}

// IsKnownTarget reports whether t is a non-nil member of the closed set.
func IsKnownTarget(t DeductionTarget) bool {
	switch v := t.(type) {
	case *SingularTarget:
		return v != nil
	case *ArrayTarget:
		return v != nil
	case *ComputedTarget:
		return v != nil
	default:
		return false
	}
}

// Singular builds a scalar target.
func Singular(name string) *SingularTarget {
	return &SingularTarget{Name: name}
}

// Array builds an array target whose length is decided at generation time.
func Array(name string) *ArrayTarget {
	return &ArrayTarget{Name: name}
}

// SizedArray builds an array target with a size literal.
func SizedArray(name string, size int) *ArrayTarget {
	return &ArrayTarget{Name: name, Size: &size}
}

// Computed builds a computed target over args.
func Computed(name string, args ...DeductionTarget) *ComputedTarget {
	return &ComputedTarget{Name: name, Args: args}
}
