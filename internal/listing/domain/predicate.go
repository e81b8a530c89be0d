package domain

// Op is the closed set of comparison operators a Predicate may carry.
type Op string

const (
	OpEq  Op = "eq"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpIn  Op = "in"
)

// RangeOp reports whether token names one of the range operators.
func RangeOp(token string) (Op, bool) {
	switch Op(token) {
	case OpLt, OpLte, OpGt, OpGte:
		return Op(token), true
	}
	return "", false
}

// Predicate is a filter tree understood by the listing repository.
// Implementations are Equality, Range, SetMembership and And.
type Predicate interface {
	isPredicate()
}

type Equality struct {
	Field string
	Value any
}

type Range struct {
	Field string
	Op    Op
	Value any
}

type SetMembership struct {
	Field  string
	Values []any
}

// And is a conjunction. An empty And matches every record.
type And []Predicate

func (Equality) isPredicate()      {}
func (Range) isPredicate()         {}
func (SetMembership) isPredicate() {}
func (And) isPredicate()           {}

// MatchAll returns the predicate that matches every listing.
func MatchAll() Predicate { return And{} }

type SortField struct {
	Field      string
	Descending bool
}

// View shapes a result set. A zero Limit means unbounded.
type View struct {
	Sort    []SortField
	Skip    int64
	Limit   int64
	Exclude []string
}
