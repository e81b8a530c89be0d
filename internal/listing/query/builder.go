package query

import (
	"sort"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
)

// Control keys shape the result and are never filters.
const (
	KeySort   = "sort"
	KeyPage   = "page"
	KeyFields = "fields"
	KeyLimit  = "limit"
)

func isControlKey(k string) bool {
	switch k {
	case KeySort, KeyPage, KeyFields, KeyLimit:
		return true
	}
	return false
}

// BuildPredicate turns the filter part of a parameter bag into a conjunction.
// Operator objects become Range clauses, repeated keys SetMembership, and
// plain values Equality. Fields outside the allow-list are rejected.
func BuildPredicate(p Params) (domain.Predicate, error) {
	fields := make([]string, 0, len(p))
	for k := range p {
		if !isControlKey(k) {
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)

	clauses := domain.And{}
	for _, field := range fields {
		kind, err := LookupField(field)
		if err != nil {
			return nil, err
		}
		v := p[field]
		switch {
		case v.IsOps():
			ranges, err := rangeClauses(field, kind, v.Ops)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, ranges...)
		case v.IsList():
			values := make([]any, 0, len(v.List))
			for _, raw := range v.List {
				val, err := Coerce(field, kind, raw)
				if err != nil {
					return nil, err
				}
				values = append(values, val)
			}
			clauses = append(clauses, domain.SetMembership{Field: field, Values: values})
		default:
			val, err := Coerce(field, kind, v.Scalar)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, domain.Equality{Field: field, Value: val})
		}
	}
	return clauses, nil
}

func rangeClauses(field string, kind Kind, ops map[string]string) ([]domain.Predicate, error) {
	if kind == KindBool {
		return nil, domain.InputError("field %q does not support range operators", field)
	}
	tokens := make([]string, 0, len(ops))
	for t := range ops {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	out := make([]domain.Predicate, 0, len(tokens))
	for _, t := range tokens {
		op, ok := domain.RangeOp(t)
		if !ok {
			return nil, domain.InputError("unsupported operator %q on field %q", t, field)
		}
		val, err := Coerce(field, kind, ops[t])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Range{Field: field, Op: op, Value: val})
	}
	return out, nil
}
