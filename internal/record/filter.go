package record

import (
	"fmt"
	"strings"
)

// Filter is a predicate over records. It renders to the remote server's
// string filter syntax and evaluates in-process for the local stores, so
// every backend applies the same restriction semantics.
//
// Comparisons are lexicographic on the stored string values. For dates
// this is exactly right: YYYY-MM-DD strings are zero-padded ISO, so
// string order is date order, and a half-open [day, day+1) range matches
// any timestamp precision the server stores.
type Filter interface {
	String() string
	Match(Record) bool
}

type compare struct {
	field string
	op    string
	value string
}

func (c compare) String() string {
	return fmt.Sprintf("%s %s %q", c.field, c.op, c.value)
}

func (c compare) Match(r Record) bool {
	v := r.GetString(c.field)
	switch c.op {
	case "=":
		return v == c.value
	case ">=":
		return v >= c.value
	case "<=":
		return v <= c.value
	case "<":
		return v < c.value
	case ">":
		return v > c.value
	}
	return false
}

// Eq matches records whose field equals value exactly.
func Eq(field, value string) Filter { return compare{field, "=", value} }

// Gte matches field >= value (lexicographic).
func Gte(field, value string) Filter { return compare{field, ">=", value} }

// Lte matches field <= value (lexicographic).
func Lte(field, value string) Filter { return compare{field, "<=", value} }

// Lt matches field < value (lexicographic).
func Lt(field, value string) Filter { return compare{field, "<", value} }

type group struct {
	op      string // "&&" or "||"
	clauses []Filter
}

func (g group) String() string {
	if len(g.clauses) == 1 {
		return g.clauses[0].String()
	}
	parts := make([]string, len(g.clauses))
	for i, c := range g.clauses {
		s := c.String()
		// Parenthesize nested groups so || binds correctly inside &&.
		if sub, ok := c.(group); ok && len(sub.clauses) > 1 {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " "+g.op+" ")
}

func (g group) Match(r Record) bool {
	if g.op == "||" {
		for _, c := range g.clauses {
			if c.Match(r) {
				return true
			}
		}
		return false
	}
	for _, c := range g.clauses {
		if !c.Match(r) {
			return false
		}
	}
	return true
}

// And matches records satisfying every clause.
func And(clauses ...Filter) Filter { return group{"&&", clauses} }

// Or matches records satisfying at least one clause.
func Or(clauses ...Filter) Filter { return group{"||", clauses} }

// AnyOf matches records whose field equals any of the given values.
func AnyOf(field string, values ...string) Filter {
	clauses := make([]Filter, len(values))
	for i, v := range values {
		clauses[i] = Eq(field, v)
	}
	return group{"||", clauses}
}

// DayRange matches records whose date field falls on the given calendar
// day, using the half-open range [day, nextDay).
func DayRange(field, day, nextDay string) Filter {
	return And(Gte(field, day), Lt(field, nextDay))
}
