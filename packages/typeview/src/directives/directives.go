// Package directives defines the open registry of markup-construct handlers
// that the view walker consults at every node. A handler recognizes one tag
// or attribute name and yields bound expressions and/or a scope transition.
package directives

import (
	"ngtv-go/packages/typeview/src/markup"
	"ngtv-go/packages/typeview/src/rewriter"
	"ngtv-go/packages/typeview/src/scope"
)

// Binding is one bound expression produced by a handler. Text is the raw
// template expression; the walker rewrites it against the scope stack that is
// live once the handler's own scope change (if any) has been applied. Type is
// the declared TypeScript type of the binding ("any" unless known).
type Binding struct {
	Text string
	Type string
}

// ScopeChange describes a new nesting level: host-language lines opening the
// construct (already rewritten by the handler against the outer stack), the
// locals the level introduces, and the text that closes it.
type ScopeChange struct {
	Header  []string
	Locals  []scope.Local
	Closing string
}

// Response is what a handler returns for a node it recognizes. A nil
// Response means the handler does not apply. Bindings and Change may both be
// set; bindings are rewritten inside the new scope.
type Response struct {
	Bindings []Binding
	Change   *ScopeChange
}

// Expressions builds a Response carrying bindings and no scope change
func Expressions(bindings ...Binding) *Response {
	return &Response{Bindings: bindings}
}

// Context gives handlers access to the walk state at the current node
type Context struct {
	// Scopes is the stack of currently open frames, innermost last
	Scopes scope.Stack
	// Rewrite rewrites an expression against the current stack
	Rewrite func(expr string) (*rewriter.Result, error)
}

// TagHandler recognizes one element name
type TagHandler struct {
	Tag      string
	Evaluate func(node *markup.Node, ctx *Context) (*Response, error)
}

// AttributeHandler recognizes one attribute name
type AttributeHandler struct {
	Attribute string
	Evaluate  func(node *markup.Node, value string, ctx *Context) (*Response, error)
}

// Registry holds the registered handlers. It is additive: every handler
// matching a node runs, in registration order. Unrecognized constructs are
// skipped without error.
type Registry struct {
	Tags       []TagHandler
	Attributes []AttributeHandler
}

// NewRegistry creates a Registry populated with the built-in directive set
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.RegisterAttribute(AttributeHandler{Attribute: "ng-repeat", Evaluate: evaluateRepeat})
	reg.RegisterAttribute(AttributeHandler{Attribute: "ng-if", Evaluate: evaluateIf})
	for _, name := range []string{
		"ng-show",
		"ng-hide",
		"ng-disabled",
		"ng-checked",
		"ng-class",
		"ng-style",
		"ng-bind",
		"ng-bind-html",
		"ng-model",
		"ng-click",
		"ng-change",
		"ng-submit",
		"ng-switch",
	} {
		reg.RegisterAttribute(AttributeHandler{Attribute: name, Evaluate: evaluateExpressionAttribute})
	}
	return reg
}

// RegisterTag appends a tag handler
func (reg *Registry) RegisterTag(handler TagHandler) {
	reg.Tags = append(reg.Tags, handler)
}

// RegisterAttribute appends an attribute handler
func (reg *Registry) RegisterAttribute(handler AttributeHandler) {
	reg.Attributes = append(reg.Attributes, handler)
}

// TagHandlers returns all handlers registered for a tag name, in
// registration order
func (reg *Registry) TagHandlers(tag string) []TagHandler {
	var matched []TagHandler
	for _, handler := range reg.Tags {
		if handler.Tag == tag {
			matched = append(matched, handler)
		}
	}
	return matched
}

// AttributeHandlers returns all handlers registered for an attribute name,
// in registration order
func (reg *Registry) AttributeHandlers(name string) []AttributeHandler {
	var matched []AttributeHandler
	for _, handler := range reg.Attributes {
		if handler.Attribute == name {
			matched = append(matched, handler)
		}
	}
	return matched
}

// evaluateExpressionAttribute covers directives whose value is a single
// expression with no scope effect.
func evaluateExpressionAttribute(node *markup.Node, value string, ctx *Context) (*Response, error) {
	return Expressions(Binding{Text: value, Type: "any"}), nil
}

// evaluateIf opens an `if` block around the subtree so that the delegated
// compiler narrows types the same way the template's conditional rendering
// does.
func evaluateIf(node *markup.Node, value string, ctx *Context) (*Response, error) {
	condition, err := ctx.Rewrite(value)
	if err != nil {
		return nil, err
	}
	return &Response{
		Change: &ScopeChange{
			Header:  []string{"if (" + condition.Text + ") {"},
			Closing: "}",
		},
	}, nil
}
