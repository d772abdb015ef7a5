// Package rewriter re-serializes parsed template expressions as TypeScript,
// qualifying every free value-position identifier with the enclosing
// component accessor while leaving property names, object-literal keys and
// literal contents untouched.
package rewriter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ngtv-go/packages/typeview/src/expression_parser"
	"ngtv-go/packages/typeview/src/filters"
	"ngtv-go/packages/typeview/src/scope"
)

// Result is the outcome of rewriting one expression
type Result struct {
	// Text is the rewritten host-language expression
	Text string
	// ResultType is the type tag of the last filter in the chain, or the
	// empty string when the expression has no filters
	ResultType string
	// FiltersUsed lists the distinct filter names applied, sorted
	FiltersUsed []string
}

// Rewriter rewrites expressions against a scope stack. Output is a pure
// function of the expression text and the stack.
type Rewriter struct {
	Filters *filters.Registry
	Prefix  string

	parser *expression_parser.Parser
}

// New creates a Rewriter qualifying free identifiers with the given prefix
func New(reg *filters.Registry, prefix string) *Rewriter {
	return &Rewriter{
		Filters: reg,
		Prefix:  prefix,
		parser:  expression_parser.NewParser(expression_parser.NewLexer()),
	}
}

// Rewrite parses and rewrites one expression
func (rw *Rewriter) Rewrite(src, location string, scopes scope.Stack) (*Result, error) {
	ast, err := rw.parser.ParseExpression(src, location)
	if err != nil {
		return nil, err
	}
	return rw.RewriteAST(ast, scopes)
}

// RewriteAST rewrites an already parsed expression
func (rw *Rewriter) RewriteAST(ast *expression_parser.ASTWithSource, scopes scope.Stack) (*Result, error) {
	visitor := &rewriteVisitor{
		rewriter: rw,
		scopes:   scopes,
		source:   ast.Source,
		location: ast.Location,
		used:     map[string]bool{},
	}
	text := visitor.Visit(ast.AST, nil).(string)
	if visitor.err != nil {
		return nil, visitor.err
	}
	names := make([]string, 0, len(visitor.used))
	for name := range visitor.used {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Result{Text: text, ResultType: visitor.resultType, FiltersUsed: names}, nil
}

// rewriteVisitor walks the expression tree depth-first and emits text
type rewriteVisitor struct {
	rewriter   *Rewriter
	scopes     scope.Stack
	source     string
	location   string
	used       map[string]bool
	resultType string
	err        error
}

// Visit is the default visit method
func (v *rewriteVisitor) Visit(ast expression_parser.AST, context interface{}) interface{} {
	if v.err != nil {
		return ""
	}
	return ast.Visit(v, context)
}

// VisitImplicitReceiver emits nothing; value-position identifiers are
// resolved in VisitPropertyRead.
func (v *rewriteVisitor) VisitImplicitReceiver(ast *expression_parser.ImplicitReceiver, context interface{}) interface{} {
	return ""
}

// VisitThisReceiver emits the component accessor
func (v *rewriteVisitor) VisitThisReceiver(ast *expression_parser.ThisReceiver, context interface{}) interface{} {
	return v.rewriter.Prefix
}

// VisitPropertyRead resolves value-position identifiers against the scope
// stack; property-name positions are emitted verbatim.
func (v *rewriteVisitor) VisitPropertyRead(ast *expression_parser.PropertyRead, context interface{}) interface{} {
	if _, ok := ast.Receiver.(*expression_parser.ImplicitReceiver); ok {
		if _, found := v.scopes.Resolve(ast.Name); found {
			// Locals are in direct lexical scope at the emission site.
			return ast.Name
		}
		return v.rewriter.Prefix + "." + ast.Name
	}
	return fmt.Sprintf("%s.%s", v.Visit(ast.Receiver, context).(string), ast.Name)
}

// VisitSafePropertyRead visits a safe property read
func (v *rewriteVisitor) VisitSafePropertyRead(ast *expression_parser.SafePropertyRead, context interface{}) interface{} {
	return fmt.Sprintf("%s?.%s", v.Visit(ast.Receiver, context).(string), ast.Name)
}

// VisitKeyedRead visits a keyed read; both operands are rewritten
func (v *rewriteVisitor) VisitKeyedRead(ast *expression_parser.KeyedRead, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s]",
		v.Visit(ast.Receiver, context).(string),
		v.Visit(ast.Key, context).(string))
}

// VisitCall visits a call
func (v *rewriteVisitor) VisitCall(ast *expression_parser.Call, context interface{}) interface{} {
	args := make([]string, len(ast.Args))
	for i, arg := range ast.Args {
		args[i] = v.Visit(arg, context).(string)
	}
	return fmt.Sprintf("%s(%s)", v.Visit(ast.Receiver, context).(string), strings.Join(args, ", "))
}

// VisitBinary visits a binary expression
func (v *rewriteVisitor) VisitBinary(ast *expression_parser.Binary, context interface{}) interface{} {
	return fmt.Sprintf("%s %s %s",
		v.Visit(ast.Left, context).(string),
		ast.Operation,
		v.Visit(ast.Right, context).(string))
}

// VisitUnary visits a unary expression
func (v *rewriteVisitor) VisitUnary(ast *expression_parser.Unary, context interface{}) interface{} {
	return fmt.Sprintf("%s%s", ast.Operator, v.Visit(ast.Expr, context).(string))
}

// VisitPrefixNot visits a prefix not
func (v *rewriteVisitor) VisitPrefixNot(ast *expression_parser.PrefixNot, context interface{}) interface{} {
	return fmt.Sprintf("!%s", v.Visit(ast.Expression, context).(string))
}

// VisitConditional visits a conditional expression
func (v *rewriteVisitor) VisitConditional(ast *expression_parser.Conditional, context interface{}) interface{} {
	return fmt.Sprintf("%s ? %s : %s",
		v.Visit(ast.Condition, context).(string),
		v.Visit(ast.TrueExp, context).(string),
		v.Visit(ast.FalseExp, context).(string))
}

// VisitLiteralPrimitive visits a literal primitive
func (v *rewriteVisitor) VisitLiteralPrimitive(ast *expression_parser.LiteralPrimitive, context interface{}) interface{} {
	if ast.Value == nil {
		return "null"
	}
	switch value := ast.Value.(type) {
	case expression_parser.Undefined:
		return "undefined"
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case string:
		return strconv.Quote(value)
	default:
		panic(fmt.Sprintf("rewriter: unsupported primitive type %T", ast.Value))
	}
}

// VisitLiteralArray visits a literal array
func (v *rewriteVisitor) VisitLiteralArray(ast *expression_parser.LiteralArray, context interface{}) interface{} {
	parts := make([]string, len(ast.Expressions))
	for i, expr := range ast.Expressions {
		parts[i] = v.Visit(expr, context).(string)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// VisitLiteralMap visits a literal map; keys are emitted verbatim, values
// are rewritten.
func (v *rewriteVisitor) VisitLiteralMap(ast *expression_parser.LiteralMap, context interface{}) interface{} {
	pairs := make([]string, len(ast.Keys))
	for i, key := range ast.Keys {
		keyText := key.Key
		if key.Quoted {
			keyText = strconv.Quote(key.Key)
		}
		pairs[i] = fmt.Sprintf("%s: %s", keyText, v.Visit(ast.Values[i], context).(string))
	}
	return fmt.Sprintf("{%s}", strings.Join(pairs, ", "))
}

// VisitRegularExpressionLiteral converts a regex literal to constructor form;
// the slash-delimited syntax is ambiguous with the filter operator and is
// never re-emitted as-is.
func (v *rewriteVisitor) VisitRegularExpressionLiteral(ast *expression_parser.RegularExpressionLiteral, context interface{}) interface{} {
	if ast.Flags != "" {
		return fmt.Sprintf("new RegExp(%s, %s)", strconv.Quote(ast.Body), strconv.Quote(ast.Flags))
	}
	return fmt.Sprintf("new RegExp(%s)", strconv.Quote(ast.Body))
}

// VisitParenthesizedExpression visits a parenthesized expression
func (v *rewriteVisitor) VisitParenthesizedExpression(ast *expression_parser.ParenthesizedExpression, context interface{}) interface{} {
	return fmt.Sprintf("(%s)", v.Visit(ast.Expression, context).(string))
}

// VisitFilterChain rewrites the base, then threads it through each filter
// rule left to right: filter k's emitted text is the base text for k+1.
func (v *rewriteVisitor) VisitFilterChain(ast *expression_parser.FilterChain, context interface{}) interface{} {
	text := v.Visit(ast.Base, context).(string)
	if v.err != nil {
		return ""
	}
	resultType := ""
	for _, call := range ast.Filters {
		rule, ok := v.rewriter.Filters.Lookup(call.Name)
		if !ok {
			v.err = &filters.UnknownFilterError{Name: call.Name, Expression: v.source, Location: v.location, Offset: call.NameSpan.Start}
			return ""
		}
		if err := rule.CheckArity(len(call.Args), v.source, v.location, call.NameSpan.Start); err != nil {
			v.err = err
			return ""
		}
		argTexts := make([]string, 0, len(call.Args)+1)
		argTexts = append(argTexts, text)
		for _, arg := range call.Args {
			argTexts = append(argTexts, v.Visit(arg, context).(string))
		}
		if v.err != nil {
			return ""
		}
		text = rule.Emit(argTexts)
		resultType = rule.ResultType
		v.used[call.Name] = true
	}
	v.resultType = resultType
	return text
}
