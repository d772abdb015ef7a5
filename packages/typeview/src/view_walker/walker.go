// Package view_walker traverses a template's markup tree, consults the
// directive handler registry at each node, maintains the scope stack, and
// linearizes the result into an ordered instruction stream.
package view_walker

import (
	"fmt"
	"sort"
	"strings"

	"ngtv-go/packages/typeview/src/directives"
	"ngtv-go/packages/typeview/src/expression_parser"
	"ngtv-go/packages/typeview/src/markup"
	"ngtv-go/packages/typeview/src/rewriter"
	"ngtv-go/packages/typeview/src/scope"
)

// Instruction is one element of the linearized stream
type Instruction interface {
	instruction()
}

// VariableInstruction binds one rewritten expression with its declared type
type VariableInstruction struct {
	Text string
	Type string
}

func (*VariableInstruction) instruction() {}

// ScopeOpenInstruction marks the start of a nesting level; Header holds the
// host-language lines opening the construct.
type ScopeOpenInstruction struct {
	Header []string
}

func (*ScopeOpenInstruction) instruction() {}

// ScopeCloseInstruction marks the end of a nesting level
type ScopeCloseInstruction struct {
	ClosingText string
}

func (*ScopeCloseInstruction) instruction() {}

// UnbalancedScopeError reports a scope close with no matching open frame.
// It indicates a directive-handler defect and is fatal to the file's analysis.
type UnbalancedScopeError struct {
	Location string
}

// Error implements the error interface
func (e *UnbalancedScopeError) Error() string {
	return fmt.Sprintf("Scope close with no open frame in %s", e.Location)
}

// WalkResult is the outcome of walking one template
type WalkResult struct {
	Instructions []Instruction
	FiltersUsed  []string
}

// Walker drives the directive registry over a markup tree
type Walker struct {
	Directives *directives.Registry
	Rewriter   *rewriter.Rewriter
}

// NewWalker creates a new Walker
func NewWalker(reg *directives.Registry, rw *rewriter.Rewriter) *Walker {
	return &Walker{Directives: reg, Rewriter: rw}
}

// Walk traverses the markup tree in pre-order and returns the instruction
// stream. location names the template for error reporting.
func (w *Walker) Walk(nodes []*markup.Node, location string) (*WalkResult, error) {
	walk := &treeWalk{walker: w, location: location, used: map[string]bool{}}
	if err := walk.walkNodes(nodes); err != nil {
		return nil, err
	}
	filtersUsed := make([]string, 0, len(walk.used))
	for name := range walk.used {
		filtersUsed = append(filtersUsed, name)
	}
	sort.Strings(filtersUsed)
	return &WalkResult{Instructions: walk.instructions, FiltersUsed: filtersUsed}, nil
}

// treeWalk is the state of a single traversal
type treeWalk struct {
	walker       *Walker
	location     string
	scopes       scope.Stack
	depth        int
	instructions []Instruction
	used         map[string]bool
}

func (t *treeWalk) rewrite(expr string) (*rewriter.Result, error) {
	result, err := t.walker.Rewriter.Rewrite(expr, t.location, t.scopes)
	if err != nil {
		return nil, err
	}
	for _, name := range result.FiltersUsed {
		t.used[name] = true
	}
	return result, nil
}

func (t *treeWalk) context() *directives.Context {
	return &directives.Context{
		Scopes:  t.scopes,
		Rewrite: t.rewrite,
	}
}

func (t *treeWalk) walkNodes(nodes []*markup.Node) error {
	for _, node := range nodes {
		if err := t.walkNode(node); err != nil {
			return err
		}
	}
	return nil
}

func (t *treeWalk) walkNode(node *markup.Node) error {
	if node.IsText() {
		return t.emitInterpolations(node.Text)
	}

	// All matching handlers run: tag handlers in registration order, then
	// attribute handlers in attribute-declaration order.
	opened := 0
	for _, handler := range t.walker.Directives.TagHandlers(node.Tag) {
		response, err := handler.Evaluate(node, t.context())
		if err != nil {
			return err
		}
		n, err := t.applyResponse(response)
		if err != nil {
			return err
		}
		opened += n
	}

	handled := map[string]bool{}
	for _, attr := range node.Attributes {
		for _, handler := range t.walker.Directives.AttributeHandlers(attr.Name) {
			handled[attr.Name] = true
			response, err := handler.Evaluate(node, attr.Value, t.context())
			if err != nil {
				return err
			}
			n, err := t.applyResponse(response)
			if err != nil {
				return err
			}
			opened += n
		}
	}

	// Attributes nobody claimed may still interpolate.
	for _, attr := range node.Attributes {
		if handled[attr.Name] {
			continue
		}
		if err := t.emitInterpolations(attr.Value); err != nil {
			return err
		}
	}

	if err := t.walkNodes(node.Children); err != nil {
		return err
	}

	// Close the frames this node opened, innermost first.
	for i := 0; i < opened; i++ {
		if err := t.closeScope(); err != nil {
			return err
		}
	}
	return nil
}

// applyResponse linearizes one handler response. It returns the number of
// scope frames opened, which the caller must close when leaving the node.
func (t *treeWalk) applyResponse(response *directives.Response) (int, error) {
	if response == nil {
		return 0, nil
	}

	opened := 0
	if change := response.Change; change != nil {
		t.instructions = append(t.instructions, &ScopeOpenInstruction{Header: change.Header})
		t.depth++
		closing := change.Closing
		t.scopes.Push(scope.NewFrame(t.depth, func() string { return closing }, change.Locals))
		opened++
	}

	// Bindings see the handler's own scope change, so expressions such as a
	// repeat's track-by resolve the loop locals.
	for _, binding := range response.Bindings {
		result, err := t.rewrite(binding.Text)
		if err != nil {
			return opened, err
		}
		t.instructions = append(t.instructions, &VariableInstruction{
			Text: result.Text,
			Type: variableType(binding.Type, result.ResultType),
		})
	}
	return opened, nil
}

func (t *treeWalk) closeScope() error {
	if t.scopes.Depth() == 0 {
		return &UnbalancedScopeError{Location: t.location}
	}
	frame := t.scopes.Pop()
	t.instructions = append(t.instructions, &ScopeCloseInstruction{ClosingText: frame.ClosingText()})
	return nil
}

// emitInterpolations extracts each {{ ... }} segment of a text block and
// emits one variable instruction per segment.
func (t *treeWalk) emitInterpolations(text string) error {
	rest := text
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			return nil
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			return &expression_parser.SyntaxError{
				Msg:      "Unterminated interpolation",
				Input:    rest[start:],
				Location: t.location,
				Offset:   0,
			}
		}
		expr := strings.TrimSpace(rest[start+2 : start+2+end])
		if expr != "" {
			result, err := t.rewrite(expr)
			if err != nil {
				return err
			}
			t.instructions = append(t.instructions, &VariableInstruction{
				Text: result.Text,
				Type: variableType("any", result.ResultType),
			})
		}
		rest = rest[start+2+end+2:]
	}
}

// variableType picks the declared type for a binding: the filter chain's
// result type when one applies, the handler's declared type otherwise.
func variableType(declared, filtered string) string {
	if filtered != "" {
		return filtered
	}
	if declared == "" {
		return "any"
	}
	return declared
}
