package rewriter_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngtv-go/packages/typeview/src/filters"
	"ngtv-go/packages/typeview/src/rewriter"
	"ngtv-go/packages/typeview/src/scope"
)

func newRewriter() *rewriter.Rewriter {
	return rewriter.New(filters.NewRegistry(), "$scope")
}

func rewrite(t *testing.T, src string, scopes scope.Stack) *rewriter.Result {
	t.Helper()
	result, err := newRewriter().Rewrite(src, "test.html", scopes)
	if err != nil {
		t.Fatalf("Rewrite(%q) failed: %v", src, err)
	}
	return result
}

func expectText(t *testing.T, src, want string) {
	t.Helper()
	result := rewrite(t, src, nil)
	if result.Text != want {
		t.Errorf("Rewrite(%q) = %q, want %q", src, result.Text, want)
	}
}

func loopFrame(depth int, names ...string) *scope.Frame {
	locals := make([]scope.Local, len(names))
	for i, name := range names {
		locals[i] = scope.Local{Name: name, Type: "any"}
	}
	return scope.NewFrame(depth, func() string { return "}" }, locals)
}

func TestRewriter_Identifiers(t *testing.T) {
	t.Run("should qualify a free identifier with the accessor", func(t *testing.T) {
		expectText(t, "name", "$scope.name")
	})

	t.Run("should qualify only the head of a property chain", func(t *testing.T) {
		expectText(t, "a.b.c", "$scope.a.b.c")
	})

	t.Run("should prefix each free occurrence but no property position", func(t *testing.T) {
		expectText(t,
			"movieInfo.legendEnabled && movieInfo.legend.length > 0",
			"$scope.movieInfo.legendEnabled && $scope.movieInfo.legend.length > 0")
	})

	t.Run("should replace this with the accessor", func(t *testing.T) {
		expectText(t, "this.x", "$scope.x")
	})

	t.Run("should rewrite both operands of a keyed read", func(t *testing.T) {
		expectText(t, "items[idx]", "$scope.items[$scope.idx]")
	})

	t.Run("should rewrite call receivers and arguments", func(t *testing.T) {
		expectText(t, "fmt(x, 2)", "$scope.fmt($scope.x, 2)")
	})

	t.Run("should leave scope locals unqualified", func(t *testing.T) {
		scopes := scope.Stack{loopFrame(1, "item")}
		result, err := newRewriter().Rewrite("item.name + other", "test.html", scopes)
		if err != nil {
			t.Fatalf("Rewrite failed: %v", err)
		}
		if result.Text != "item.name + $scope.other" {
			t.Errorf("Unexpected text: %q", result.Text)
		}
	})

	t.Run("should let a local shadow a component property of the same name", func(t *testing.T) {
		scopes := scope.Stack{loopFrame(1, "total")}
		result, err := newRewriter().Rewrite("total + 1", "test.html", scopes)
		if err != nil {
			t.Fatalf("Rewrite failed: %v", err)
		}
		if result.Text != "total + 1" {
			t.Errorf("Unexpected text: %q", result.Text)
		}
	})
}

func TestRewriter_Literals(t *testing.T) {
	t.Run("should emit primitives verbatim", func(t *testing.T) {
		expectText(t, "1.5 + 2", "1.5 + 2")
		expectText(t, "x ? null : undefined", "$scope.x ? null : undefined")
		expectText(t, "!done", "!$scope.done")
		expectText(t, "true", "true")
	})

	t.Run("should quote string literals", func(t *testing.T) {
		expectText(t, `'say "hi"'`, `"say \"hi\""`)
	})

	t.Run("should rewrite array elements", func(t *testing.T) {
		expectText(t, "[1, x]", "[1, $scope.x]")
	})

	t.Run("should never treat object keys as identifiers", func(t *testing.T) {
		expectText(t, "{a: b, 'c d': e}", `{a: $scope.b, "c d": $scope.e}`)
	})

	t.Run("should convert regex literals to constructor form", func(t *testing.T) {
		expectText(t, "/ab+c/gi", `new RegExp("ab+c", "gi")`)
		expectText(t, "/ab+c/", `new RegExp("ab+c")`)
	})

	t.Run("should preserve safe navigation", func(t *testing.T) {
		expectText(t, "a?.b", "$scope.a?.b")
	})
}

func TestRewriter_Filters(t *testing.T) {
	t.Run("should emit a filter as a call on the base", func(t *testing.T) {
		result := rewrite(t, "name | uppercase", nil)
		if result.Text != "uppercase($scope.name)" {
			t.Errorf("Unexpected text: %q", result.Text)
		}
		if result.ResultType != "string" {
			t.Errorf("Unexpected result type: %q", result.ResultType)
		}
		if diff := cmp.Diff([]string{"uppercase"}, result.FiltersUsed); diff != "" {
			t.Errorf("FiltersUsed mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should thread a chain left to right", func(t *testing.T) {
		result := rewrite(t, "x | filter:q | limitTo:3", nil)
		if result.Text != "limitTo(filter($scope.x, $scope.q), 3)" {
			t.Errorf("Unexpected text: %q", result.Text)
		}
		if result.ResultType != "any" {
			t.Errorf("Unexpected result type: %q", result.ResultType)
		}
		if diff := cmp.Diff([]string{"filter", "limitTo"}, result.FiltersUsed); diff != "" {
			t.Errorf("FiltersUsed mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should resolve filter arguments against the scope stack", func(t *testing.T) {
		scopes := scope.Stack{loopFrame(1, "q")}
		result, err := newRewriter().Rewrite("x | filter:q", "test.html", scopes)
		if err != nil {
			t.Fatalf("Rewrite failed: %v", err)
		}
		if result.Text != "filter($scope.x, q)" {
			t.Errorf("Unexpected text: %q", result.Text)
		}
	})

	t.Run("should leave the result type empty without filters", func(t *testing.T) {
		result := rewrite(t, "x + 1", nil)
		if result.ResultType != "" {
			t.Errorf("Expected empty result type, got %q", result.ResultType)
		}
		if len(result.FiltersUsed) != 0 {
			t.Errorf("Expected no filters, got %v", result.FiltersUsed)
		}
	})

	t.Run("should collect filters from parenthesized sub-chains", func(t *testing.T) {
		result := rewrite(t, "(a | json) + b", nil)
		if result.Text != "(json($scope.a)) + $scope.b" {
			t.Errorf("Unexpected text: %q", result.Text)
		}
		if result.ResultType != "" {
			t.Errorf("Expected empty result type at the top level, got %q", result.ResultType)
		}
		if diff := cmp.Diff([]string{"json"}, result.FiltersUsed); diff != "" {
			t.Errorf("FiltersUsed mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should reject unknown filters with their offset", func(t *testing.T) {
		_, err := newRewriter().Rewrite("x | nope", "test.html", nil)
		var unknownErr *filters.UnknownFilterError
		if !errors.As(err, &unknownErr) {
			t.Fatalf("Expected *UnknownFilterError, got %T: %v", err, err)
		}
		if unknownErr.Name != "nope" || unknownErr.Offset != 4 {
			t.Errorf("Unexpected error fields: %+v", unknownErr)
		}
		if unknownErr.Expression != "x | nope" {
			t.Errorf("Expected the expression in the error, got %q", unknownErr.Expression)
		}
	})

	t.Run("should reject wrong arity", func(t *testing.T) {
		_, err := newRewriter().Rewrite("x | lowercase:1", "test.html", nil)
		var arityErr *filters.ArityError
		if !errors.As(err, &arityErr) {
			t.Fatalf("Expected *ArityError, got %T: %v", err, err)
		}
		if arityErr.Name != "lowercase" || arityErr.Got != 1 {
			t.Errorf("Unexpected error fields: %+v", arityErr)
		}
	})
}

func TestRewriter_Determinism(t *testing.T) {
	t.Run("should produce identical output across runs", func(t *testing.T) {
		first := rewrite(t, "items | orderBy:'name' | limitTo:count", scope.Stack{loopFrame(1, "count")})
		second := rewrite(t, "items | orderBy:'name' | limitTo:count", scope.Stack{loopFrame(1, "count")})
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Rewrite is not deterministic (-first +second):\n%s", diff)
		}
	})
}
