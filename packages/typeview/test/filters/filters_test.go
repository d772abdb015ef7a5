package filters_test

import (
	"errors"
	"testing"

	"ngtv-go/packages/typeview/src/filters"
)

func TestRegistry(t *testing.T) {
	t.Run("should carry the built-in filter set", func(t *testing.T) {
		reg := filters.NewRegistry()
		for _, name := range []string{"currency", "date", "filter", "json", "limitTo", "lowercase", "number", "orderBy", "uppercase"} {
			if _, ok := reg.Lookup(name); !ok {
				t.Errorf("Expected built-in filter %q", name)
			}
		}
	})

	t.Run("should not know unregistered names", func(t *testing.T) {
		reg := filters.NewRegistry()
		if _, ok := reg.Lookup("nope"); ok {
			t.Errorf("Lookup(nope) should fail")
		}
		if decl := reg.Declaration("nope"); decl != "" {
			t.Errorf("Expected empty declaration, got %q", decl)
		}
	})

	t.Run("should let callers register and replace rules", func(t *testing.T) {
		reg := filters.NewRegistry()
		reg.Register(&filters.Rule{
			Name:        "uppercase",
			MinArgs:     0,
			MaxArgs:     0,
			ResultType:  "string",
			Declaration: "declare function uppercase(input: any): string;",
			Emit:        func(argTexts []string) string { return "String(" + argTexts[0] + ").toUpperCase()" },
		})
		rule, ok := reg.Lookup("uppercase")
		if !ok {
			t.Fatalf("Lookup(uppercase) failed after Register")
		}
		if got := rule.Emit([]string{"$scope.x"}); got != "String($scope.x).toUpperCase()" {
			t.Errorf("Unexpected emit: %q", got)
		}
	})

	t.Run("should emit call syntax for built-ins", func(t *testing.T) {
		reg := filters.NewRegistry()
		rule, _ := reg.Lookup("limitTo")
		if got := rule.Emit([]string{"$scope.items", "3"}); got != "limitTo($scope.items, 3)" {
			t.Errorf("Unexpected emit: %q", got)
		}
	})
}

func TestCheckArity(t *testing.T) {
	t.Run("should accept counts inside the declared range", func(t *testing.T) {
		reg := filters.NewRegistry()
		rule, _ := reg.Lookup("limitTo")
		if err := rule.CheckArity(1, "x | limitTo:3", "test.html", 0); err != nil {
			t.Errorf("CheckArity(1) failed: %v", err)
		}
		if err := rule.CheckArity(2, "x | limitTo:3:1", "test.html", 0); err != nil {
			t.Errorf("CheckArity(2) failed: %v", err)
		}
	})

	t.Run("should reject too few arguments", func(t *testing.T) {
		reg := filters.NewRegistry()
		rule, _ := reg.Lookup("limitTo")
		err := rule.CheckArity(0, "x | limitTo", "test.html", 5)
		var arityErr *filters.ArityError
		if !errors.As(err, &arityErr) {
			t.Fatalf("Expected *ArityError, got %T", err)
		}
		if arityErr.Got != 0 || arityErr.Min != 1 || arityErr.Offset != 5 {
			t.Errorf("Unexpected error fields: %+v", arityErr)
		}
		if arityErr.Expression != "x | limitTo" {
			t.Errorf("Expected the expression in the error, got %q", arityErr.Expression)
		}
	})

	t.Run("should reject too many arguments", func(t *testing.T) {
		reg := filters.NewRegistry()
		rule, _ := reg.Lookup("lowercase")
		err := rule.CheckArity(1, "x | lowercase:1", "test.html", 0)
		var arityErr *filters.ArityError
		if !errors.As(err, &arityErr) {
			t.Fatalf("Expected *ArityError, got %T", err)
		}
	})

	t.Run("should accept any count for unbounded rules", func(t *testing.T) {
		rule := &filters.Rule{Name: "concat", MinArgs: 1, MaxArgs: filters.Unbounded}
		if err := rule.CheckArity(7, "x | concat:1:2:3:4:5:6:7", "test.html", 0); err != nil {
			t.Errorf("CheckArity(7) failed: %v", err)
		}
	})
}

func TestErrorMessages(t *testing.T) {
	t.Run("should name the unknown filter, its expression and its offset", func(t *testing.T) {
		err := &filters.UnknownFilterError{Name: "nope", Expression: "x | nope", Location: "test.html", Offset: 4}
		want := "Unknown filter [nope] at offset 4 in [x | nope] in test.html"
		if err.Error() != want {
			t.Errorf("Expected %q, got %q", want, err.Error())
		}
	})

	t.Run("should describe ranges in arity errors", func(t *testing.T) {
		err := &filters.ArityError{Name: "limitTo", Min: 1, Max: 2, Got: 3, Expression: "x | limitTo:1:2:3", Location: "test.html", Offset: 2}
		want := "Filter [limitTo] expects 1 to 2 argument(s), got 3 at offset 2 in [x | limitTo:1:2:3] in test.html"
		if err.Error() != want {
			t.Errorf("Expected %q, got %q", want, err.Error())
		}
	})
}
