package query

import "strings"

// Spec produces a SQL boolean expression with ? placeholders and its
// arguments. An empty clause means no constraint.
type Spec func() (clause string, args []any)

// All matches every row.
func All() Spec {
	return func() (string, []any) { return "", nil }
}

// And combines specs so a row must satisfy each of them. Specs without a
// clause are skipped; And of nothing matches every row.
func And(specs ...Spec) Spec {
	return func() (string, []any) {
		var clauses []string
		var args []any
		for _, s := range specs {
			if s == nil {
				continue
			}
			c, a := s()
			if c == "" {
				continue
			}
			clauses = append(clauses, "("+c+")")
			args = append(args, a...)
		}
		return strings.Join(clauses, " AND "), args
	}
}

// Contains matches rows whose column holds term as a case-sensitive
// substring. A term without any non-space character is no constraint.
//
// column must be a trusted identifier, never request input.
func Contains(column, term string) Spec {
	return func() (string, []any) {
		if strings.TrimSpace(term) == "" {
			return "", nil
		}
		return "instr(" + column + ", ?) > 0", []any{term}
	}
}

// Equal matches rows whose column equals value. An empty value is no
// constraint.
func Equal(column, value string) Spec {
	return func() (string, []any) {
		if value == "" {
			return "", nil
		}
		return column + " = ?", []any{value}
	}
}

// Where renders spec as a WHERE clause, or "" when it has no constraint.
func Where(spec Spec) (string, []any) {
	if spec == nil {
		return "", nil
	}
	clause, args := spec()
	if clause == "" {
		return "", nil
	}
	return "WHERE " + clause, args
}
