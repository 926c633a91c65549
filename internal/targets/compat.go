package targets

import "github.com/roach88/inferc/internal/ast"

// AreCompatible reports whether a and b may denote the same binding.
//
//   - Singular and Singular are always compatible.
//   - Two arrays are compatible when both carry a size literal or neither does.
//   - A computed target is compatible with anything.
//   - Singular and Array are compatible when the array is sized, since a sized
//     reference can address a single element.
//
// Names are not compared.
func AreCompatible(a, b ast.DeductionTarget) bool {
	return compatible(a, b, false)
}

// compatible applies the size-literal rule. With strictSize set, two sized
// arrays must also carry the same size.
func compatible(a, b ast.DeductionTarget, strictSize bool) bool {
	shapeA, shapeB := ast.ShapeOf(a), ast.ShapeOf(b)
	if shapeA == ast.ShapeComputed || shapeB == ast.ShapeComputed {
		return true
	}

	switch {
	case shapeA == ast.ShapeSingular && shapeB == ast.ShapeSingular:
		return true
	case shapeA == ast.ShapeArray && shapeB == ast.ShapeArray:
		arrA, arrB := a.(*ast.ArrayTarget), b.(*ast.ArrayTarget)
		if arrA.HasSize() != arrB.HasSize() {
			return false
		}
		if strictSize && arrA.HasSize() {
			return *arrA.Size == *arrB.Size
		}
		return true
	case shapeA == ast.ShapeArray:
		return a.(*ast.ArrayTarget).HasSize()
	case shapeB == ast.ShapeArray:
		return b.(*ast.ArrayTarget).HasSize()
	default:
		ast.Defect("targets.compatible", a)
		return false
	}
}
