package query

import (
	"net/url"
	"sort"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
)

// Value is one entry of a parameter bag. Exactly one of Scalar, List or Ops
// is meaningful: Ops when the key was written as field[op]=v, List when the
// key was repeated, Scalar otherwise.
type Value struct {
	Scalar string
	List   []string
	Ops    map[string]string
}

func (v Value) IsOps() bool  { return len(v.Ops) > 0 }
func (v Value) IsList() bool { return len(v.List) > 0 }

// Params is the raw, untyped parameter bag of the list endpoint.
type Params map[string]Value

// ParseParams turns a query string into a Params bag. `price[gte]=5000`
// becomes an operator object on price, `food=veg&food=both` becomes a list.
func ParseParams(values url.Values) (Params, error) {
	params := make(Params, len(values))

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		field, token, isOp, err := splitKey(key)
		if err != nil {
			return nil, err
		}

		cur := params[field]
		if isOp {
			if cur.Scalar != "" || cur.IsList() {
				return nil, domain.InputError("parameter %q mixes a value and an operator", field)
			}
			if cur.Ops == nil {
				cur.Ops = make(map[string]string)
			}
			cur.Ops[token] = vals[len(vals)-1]
			params[field] = cur
			continue
		}

		if cur.IsOps() {
			return nil, domain.InputError("parameter %q mixes a value and an operator", field)
		}
		if len(vals) == 1 {
			cur.Scalar = vals[0]
		} else {
			cur.List = append([]string(nil), vals...)
		}
		params[field] = cur
	}
	return params, nil
}

func splitKey(key string) (field, token string, isOp bool, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.IndexByte(key, ']') >= 0 {
			return "", "", false, domain.InputError("malformed parameter %q", key)
		}
		return key, "", false, nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") {
		return "", "", false, domain.InputError("malformed parameter %q", key)
	}
	field = key[:open]
	token = key[open+1 : len(key)-1]
	if token == "" || strings.ContainsAny(token, "[]") {
		return "", "", false, domain.InputError("malformed parameter %q", key)
	}
	return field, token, true, nil
}
