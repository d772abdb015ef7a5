// Package filters maps AngularJS filter names to TypeScript code generation
// rules. Each rule emits the call text for one filter application and carries
// the ambient declaration that makes the delegated compiler check its types.
package filters

import (
	"fmt"
	"strings"
)

// Unbounded marks a rule that accepts any number of arguments
const Unbounded = -1

// UnknownFilterError reports a filter name missing from the registry
type UnknownFilterError struct {
	Name       string
	Expression string
	Location   string
	Offset     int
}

// Error implements the error interface
func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("Unknown filter [%s] at offset %d in [%s] in %s", e.Name, e.Offset, e.Expression, e.Location)
}

// ArityError reports a known filter applied with the wrong argument count
type ArityError struct {
	Name       string
	Min        int
	Max        int
	Got        int
	Expression string
	Location   string
	Offset     int
}

// Error implements the error interface
func (e *ArityError) Error() string {
	want := fmt.Sprintf("%d", e.Min)
	if e.Max == Unbounded {
		want = fmt.Sprintf("at least %d", e.Min)
	} else if e.Max != e.Min {
		want = fmt.Sprintf("%d to %d", e.Min, e.Max)
	}
	return fmt.Sprintf("Filter [%s] expects %s argument(s), got %d at offset %d in [%s] in %s", e.Name, want, e.Got, e.Offset, e.Expression, e.Location)
}

// Rule is the code-generation rule for one filter. Emit receives the already
// rewritten base text as argTexts[0] followed by the rewritten filter
// arguments, and returns the host-language expression text. ResultType tags
// the emitted expression's type; "any" when it depends on the base.
// Declaration is the TypeScript ambient signature the synthesis stage prepends
// once per used filter.
type Rule struct {
	Name        string
	MinArgs     int
	MaxArgs     int
	ResultType  string
	Declaration string
	Emit        func(argTexts []string) string
}

// CheckArity validates the argument count against the rule. got excludes the base.
func (r *Rule) CheckArity(got int, expression, location string, offset int) error {
	if got < r.MinArgs || (r.MaxArgs != Unbounded && got > r.MaxArgs) {
		return &ArityError{Name: r.Name, Min: r.MinArgs, Max: r.MaxArgs, Got: got, Expression: expression, Location: location, Offset: offset}
	}
	return nil
}

// Registry maps filter names to rules. The zero value is unusable; construct
// with NewRegistry and extend with Register.
type Registry struct {
	rules map[string]*Rule
}

// NewRegistry creates a Registry populated with the built-in filter set
func NewRegistry() *Registry {
	reg := &Registry{rules: map[string]*Rule{}}
	for _, rule := range builtinRules() {
		reg.Register(rule)
	}
	return reg
}

// Register adds a rule, replacing any existing rule with the same name
func (reg *Registry) Register(rule *Rule) {
	reg.rules[rule.Name] = rule
}

// Lookup returns the rule for a filter name
func (reg *Registry) Lookup(name string) (*Rule, bool) {
	rule, ok := reg.rules[name]
	return rule, ok
}

// Declaration returns the ambient declaration for a registered filter name,
// or the empty string when the name is unknown.
func (reg *Registry) Declaration(name string) string {
	if rule, ok := reg.rules[name]; ok {
		return rule.Declaration
	}
	return ""
}

// callEmit emits `name(base, args...)` — the default shape for built-ins,
// matching their ambient declarations.
func callEmit(name string) func(argTexts []string) string {
	return func(argTexts []string) string {
		return fmt.Sprintf("%s(%s)", name, strings.Join(argTexts, ", "))
	}
}

func builtinRules() []*Rule {
	return []*Rule{
		{
			Name:        "currency",
			MinArgs:     0,
			MaxArgs:     2,
			ResultType:  "string",
			Declaration: "declare function currency(amount: number, symbol?: string, fractionSize?: number): string;",
			Emit:        callEmit("currency"),
		},
		{
			Name:        "date",
			MinArgs:     0,
			MaxArgs:     2,
			ResultType:  "string",
			Declaration: "declare function date(input: Date | number | string, format?: string, timezone?: string): string;",
			Emit:        callEmit("date"),
		},
		{
			Name:        "filter",
			MinArgs:     1,
			MaxArgs:     2,
			ResultType:  "any",
			Declaration: "declare function filter<T>(input: T[], criteria: any, comparator?: any): T[];",
			Emit:        callEmit("filter"),
		},
		{
			Name:        "json",
			MinArgs:     0,
			MaxArgs:     1,
			ResultType:  "string",
			Declaration: "declare function json(input: any, spacing?: number): string;",
			Emit:        callEmit("json"),
		},
		{
			Name:        "limitTo",
			MinArgs:     1,
			MaxArgs:     2,
			ResultType:  "any",
			Declaration: "declare function limitTo<T>(input: T, limit: number | string, begin?: number | string): T;",
			Emit:        callEmit("limitTo"),
		},
		{
			Name:        "lowercase",
			MinArgs:     0,
			MaxArgs:     0,
			ResultType:  "string",
			Declaration: "declare function lowercase(input: string): string;",
			Emit:        callEmit("lowercase"),
		},
		{
			Name:        "number",
			MinArgs:     0,
			MaxArgs:     1,
			ResultType:  "string",
			Declaration: "declare function number(input: number | string, fractionSize?: number): string;",
			Emit:        callEmit("number"),
		},
		{
			Name:        "orderBy",
			MinArgs:     0,
			MaxArgs:     2,
			ResultType:  "any",
			Declaration: "declare function orderBy<T>(input: T[], expression?: any, reverse?: boolean): T[];",
			Emit:        callEmit("orderBy"),
		},
		{
			Name:        "uppercase",
			MinArgs:     0,
			MaxArgs:     0,
			ResultType:  "string",
			Declaration: "declare function uppercase(input: string): string;",
			Emit:        callEmit("uppercase"),
		},
	}
}
