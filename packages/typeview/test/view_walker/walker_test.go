package view_walker_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngtv-go/packages/typeview/src/directives"
	"ngtv-go/packages/typeview/src/expression_parser"
	"ngtv-go/packages/typeview/src/filters"
	"ngtv-go/packages/typeview/src/markup"
	"ngtv-go/packages/typeview/src/rewriter"
	"ngtv-go/packages/typeview/src/view_walker"
)

func newWalker(reg *directives.Registry) *view_walker.Walker {
	rw := rewriter.New(filters.NewRegistry(), "$scope")
	return view_walker.NewWalker(reg, rw)
}

func walk(t *testing.T, template string) *view_walker.WalkResult {
	t.Helper()
	return walkWith(t, directives.NewRegistry(), template)
}

func walkWith(t *testing.T, reg *directives.Registry, template string) *view_walker.WalkResult {
	t.Helper()
	nodes, err := markup.Parse(template, "test.html")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	result, err := newWalker(reg).Walk(nodes, "test.html")
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	return result
}

// humanize flattens the instruction stream into comparable rows
func humanize(result *view_walker.WalkResult) []string {
	var rows []string
	for _, instruction := range result.Instructions {
		switch instr := instruction.(type) {
		case *view_walker.VariableInstruction:
			rows = append(rows, fmt.Sprintf("bind %s : %s", instr.Text, instr.Type))
		case *view_walker.ScopeOpenInstruction:
			rows = append(rows, "open "+strings.Join(instr.Header, " / "))
		case *view_walker.ScopeCloseInstruction:
			rows = append(rows, "close "+instr.ClosingText)
		}
	}
	return rows
}

// header lines shared by every simple repeat
var repeatSpecialLines = strings.Join([]string{
	"const $index: number = undefined as any;",
	"const $first: boolean = undefined as any;",
	"const $middle: boolean = undefined as any;",
	"const $last: boolean = undefined as any;",
	"const $even: boolean = undefined as any;",
	"const $odd: boolean = undefined as any;",
}, " / ")

func TestWalk_Interpolations(t *testing.T) {
	t.Run("should bind each interpolated segment", func(t *testing.T) {
		result := walk(t, "<div>{{a}} and {{b}}</div>")
		expected := []string{
			"bind $scope.a : any",
			"bind $scope.b : any",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should scan unhandled attributes for interpolations", func(t *testing.T) {
		result := walk(t, `<a href="/u/{{user.id}}" title="static">{{user.name}}</a>`)
		expected := []string{
			"bind $scope.user.id : any",
			"bind $scope.user.name : any",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should take the filter result type for the binding", func(t *testing.T) {
		result := walk(t, "<p>{{name | uppercase}}</p>")
		expected := []string{"bind uppercase($scope.name) : string"}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report an unterminated interpolation", func(t *testing.T) {
		nodes, err := markup.Parse("<div>{{x</div>", "test.html")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		_, err = newWalker(directives.NewRegistry()).Walk(nodes, "test.html")
		var syntaxErr *expression_parser.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("Expected *SyntaxError, got %T: %v", err, err)
		}
		if !strings.Contains(syntaxErr.Msg, "Unterminated interpolation") {
			t.Errorf("Unexpected message: %q", syntaxErr.Msg)
		}
	})

	t.Run("should aggregate used filters sorted by name", func(t *testing.T) {
		result := walk(t, "<p>{{a | uppercase}} {{b | json}}</p>")
		if diff := cmp.Diff([]string{"json", "uppercase"}, result.FiltersUsed); diff != "" {
			t.Errorf("FiltersUsed mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestWalk_Scopes(t *testing.T) {
	t.Run("should wrap a conditional subtree in an if block", func(t *testing.T) {
		result := walk(t, `<div ng-if="ok"><span>{{x}}</span></div>`)
		expected := []string{
			"open if ($scope.ok) {",
			"bind $scope.x : any",
			"close }",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should resolve loop locals inside a repeat", func(t *testing.T) {
		result := walk(t, `<ul><li ng-repeat="item in items">{{item.name}} {{total}}</li></ul>`)
		expected := []string{
			"open for (const item of $scope.items) { / " + repeatSpecialLines,
			"bind item.name : any",
			"bind $scope.total : any",
			"close }",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should shadow outer loop variables in nested repeats", func(t *testing.T) {
		result := walk(t, `<div ng-repeat="item in items"><div ng-repeat="item in item.children">{{item.name}}</div>{{item.name}}</div>`)
		expected := []string{
			"open for (const item of $scope.items) { / " + repeatSpecialLines,
			"open for (const item of item.children) { / " + repeatSpecialLines,
			"bind item.name : any",
			"close }",
			"bind item.name : any",
			"close }",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should rewrite track by inside the loop scope", func(t *testing.T) {
		result := walk(t, `<li ng-repeat="item in items track by item.id"></li>`)
		expected := []string{
			"open for (const item of $scope.items) { / " + repeatSpecialLines,
			"bind item.id : any",
			"close }",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should apply handlers in attribute declaration order", func(t *testing.T) {
		result := walk(t, `<div ng-if="ok" ng-repeat="x in xs">{{x}}</div>`)
		expected := []string{
			"open if ($scope.ok) {",
			"open for (const x of $scope.xs) { / " + repeatSpecialLines,
			"bind x : any",
			"close }",
			"close }",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should collect filters used in loop headers", func(t *testing.T) {
		result := walk(t, `<li ng-repeat="item in items | orderBy:'name'">{{item}}</li>`)
		if diff := cmp.Diff([]string{"orderBy"}, result.FiltersUsed); diff != "" {
			t.Errorf("FiltersUsed mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestWalk_CustomHandlers(t *testing.T) {
	t.Run("should run every matching handler in registration order", func(t *testing.T) {
		reg := directives.NewRegistry()
		reg.RegisterAttribute(directives.AttributeHandler{
			Attribute: "data-check",
			Evaluate: func(node *markup.Node, value string, ctx *directives.Context) (*directives.Response, error) {
				return directives.Expressions(directives.Binding{Text: "'one'", Type: "string"}), nil
			},
		})
		reg.RegisterAttribute(directives.AttributeHandler{
			Attribute: "data-check",
			Evaluate: func(node *markup.Node, value string, ctx *directives.Context) (*directives.Response, error) {
				return directives.Expressions(directives.Binding{Text: "'two'", Type: "string"}), nil
			},
		})
		result := walkWith(t, reg, `<div data-check="x"></div>`)
		expected := []string{
			`bind "one" : string`,
			`bind "two" : string`,
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should consult tag handlers before attribute handlers", func(t *testing.T) {
		reg := directives.NewRegistry()
		reg.RegisterTag(directives.TagHandler{
			Tag: "section",
			Evaluate: func(node *markup.Node, ctx *directives.Context) (*directives.Response, error) {
				return directives.Expressions(directives.Binding{Text: "'tag'", Type: "string"}), nil
			},
		})
		result := walkWith(t, reg, `<section ng-show="visible"></section>`)
		expected := []string{
			`bind "tag" : string`,
			"bind $scope.visible : any",
		}
		if diff := cmp.Diff(expected, humanize(result)); diff != "" {
			t.Errorf("Instructions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should skip unrecognized constructs without error", func(t *testing.T) {
		result := walk(t, `<custom-element data-widget="w"></custom-element>`)
		if len(result.Instructions) != 0 {
			t.Errorf("Expected no instructions, got %d", len(result.Instructions))
		}
	})
}

func TestUnbalancedScopeError(t *testing.T) {
	t.Run("should name the template", func(t *testing.T) {
		err := &view_walker.UnbalancedScopeError{Location: "card.html"}
		want := "Scope close with no open frame in card.html"
		if err.Error() != want {
			t.Errorf("Expected %q, got %q", want, err.Error())
		}
	})
}
