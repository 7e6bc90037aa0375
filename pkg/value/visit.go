package value

// Visitor has one case per Kind. Implementations are checked by the compiler,
// so adding a Kind to the union breaks every converter until it handles it.
type Visitor[T any] interface {
	VisitNull() T
	VisitBool(b bool) T
	VisitInt(i int64) T
	VisitDouble(f float64) T
	VisitString(s string) T
	VisitSequence(items []Value) T
	VisitMapping(m *Mapping) T
}

// Visit dispatches v to the matching case of vis.
func Visit[T any](v Value, vis Visitor[T]) T {
	switch v.kind {
	case KindBool:
		return vis.VisitBool(v.b)
	case KindInt:
		return vis.VisitInt(v.i)
	case KindDouble:
		return vis.VisitDouble(v.f)
	case KindString:
		return vis.VisitString(v.s)
	case KindSequence:
		return vis.VisitSequence(v.seq)
	case KindMapping:
		return vis.VisitMapping(v.m)
	default:
		return vis.VisitNull()
	}
}
