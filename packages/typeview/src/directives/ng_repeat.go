package directives

import (
	"fmt"
	"regexp"

	"ngtv-go/packages/typeview/src/markup"
	"ngtv-go/packages/typeview/src/scope"
)

// ngRepeatExpr matches the repeat microsyntax:
// `lhs in collection [as alias] [track by expr]`.
var ngRepeatExpr = regexp.MustCompile(`^\s*([\s\S]+?)\s+in\s+([\s\S]+?)(?:\s+as\s+([$a-zA-Z_][$\w]*))?(?:\s+track\s+by\s+([\s\S]+?))?\s*$`)

// ngRepeatLhs matches the left-hand side: a single loop variable or a
// `(key, value)` pair.
var ngRepeatLhs = regexp.MustCompile(`^(?:([$a-zA-Z_][$\w]*)|\(\s*([$a-zA-Z_][$\w]*)\s*,\s*([$a-zA-Z_][$\w]*)\s*\))$`)

// RepeatSyntaxError reports an ng-repeat value that does not match the
// microsyntax.
type RepeatSyntaxError struct {
	Expression string
}

// Error implements the error interface
func (e *RepeatSyntaxError) Error() string {
	return fmt.Sprintf("Invalid ng-repeat expression [%s]", e.Expression)
}

// repeatSpecials are the implicit loop locals AngularJS exposes inside a
// repeat block, declared in the synthesized loop body so unqualified uses
// type-check.
var repeatSpecials = []scope.Local{
	{Name: "$index", Type: "number"},
	{Name: "$first", Type: "boolean"},
	{Name: "$middle", Type: "boolean"},
	{Name: "$last", Type: "boolean"},
	{Name: "$even", Type: "boolean"},
	{Name: "$odd", Type: "boolean"},
}

// evaluateRepeat translates the repeat microsyntax into a TypeScript loop
// header. The collection expression is rewritten against the outer stack;
// the loop variable's type is left to the delegated compiler's inference
// over the iterated accessor.
func evaluateRepeat(node *markup.Node, value string, ctx *Context) (*Response, error) {
	match := ngRepeatExpr.FindStringSubmatch(value)
	if match == nil {
		return nil, &RepeatSyntaxError{Expression: value}
	}
	lhs, collection, alias, trackBy := match[1], match[2], match[3], match[4]

	lhsMatch := ngRepeatLhs.FindStringSubmatch(lhs)
	if lhsMatch == nil {
		return nil, &RepeatSyntaxError{Expression: value}
	}

	rewritten, err := ctx.Rewrite(collection)
	if err != nil {
		return nil, err
	}

	var header []string
	var locals []scope.Local
	if lhsMatch[1] != "" {
		item := lhsMatch[1]
		header = append(header, fmt.Sprintf("for (const %s of %s) {", item, rewritten.Text))
		locals = append(locals, scope.Local{Name: item, Type: "any"})
	} else {
		key, val := lhsMatch[2], lhsMatch[3]
		header = append(header, fmt.Sprintf("for (const [%s, %s] of Object.entries(%s)) {", key, val, rewritten.Text))
		locals = append(locals,
			scope.Local{Name: key, Type: "string"},
			scope.Local{Name: val, Type: "any"},
		)
	}

	for _, special := range repeatSpecials {
		header = append(header, fmt.Sprintf("const %s: %s = undefined as any;", special.Name, special.Type))
	}
	locals = append(locals, repeatSpecials...)

	if alias != "" {
		header = append(header, fmt.Sprintf("const %s = %s;", alias, rewritten.Text))
		locals = append(locals, scope.Local{Name: alias, Type: "any"})
	}

	response := &Response{
		Change: &ScopeChange{
			Header:  header,
			Locals:  locals,
			Closing: "}",
		},
	}
	if trackBy != "" {
		// Rewritten by the walker inside the new scope, so the loop
		// variable and $index resolve as locals.
		response.Bindings = append(response.Bindings, Binding{Text: trackBy, Type: "any"})
	}
	return response, nil
}
