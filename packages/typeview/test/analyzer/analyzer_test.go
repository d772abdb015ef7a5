package analyzer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngtv-go/packages/typeview/src/analyzer"
)

func widgetPair() analyzer.Pair {
	return analyzer.Pair{
		ComponentName: "WidgetList",
		ScopeTypeName: "WidgetListScope",
		TemplateURL:   "widget_list.html",
		Template:      `<ul><li ng-repeat="w in widgets">{{w.name | uppercase}}</li></ul>`,
		ScopeInterface: `interface WidgetListScope {
    widgets: Widget[];
}`,
	}
}

func TestAnalyzeTemplate(t *testing.T) {
	t.Run("should synthesize a check unit end to end", func(t *testing.T) {
		a := analyzer.New("")
		output, err := a.AnalyzeTemplate(widgetPair())
		require.NoError(t, err)

		expected := `// Code generated by ngtv-go for component WidgetList. DO NOT EDIT.

interface WidgetListScope {
    widgets: Widget[];
}

declare function uppercase(input: string): string;

function WidgetList__viewCheck($scope: WidgetListScope) {
    for (const w of $scope.widgets) {
        const $index: number = undefined as any;
        const $first: boolean = undefined as any;
        const $middle: boolean = undefined as any;
        const $last: boolean = undefined as any;
        const $even: boolean = undefined as any;
        const $odd: boolean = undefined as any;
        const _v1: string = uppercase(w.name);
    }
}
`
		assert.Equal(t, expected, output)
	})

	t.Run("should honor a custom accessor prefix", func(t *testing.T) {
		a := analyzer.New("vm")
		pair := analyzer.Pair{
			ComponentName: "Badge",
			ScopeTypeName: "BadgeScope",
			TemplateURL:   "badge.html",
			Template:      "<span>{{label}}</span>",
		}
		output, err := a.AnalyzeTemplate(pair)
		require.NoError(t, err)
		assert.Contains(t, output, "const _v1: any = vm.label;")
		assert.Contains(t, output, "function Badge__viewCheck($scope: BadgeScope) {")
	})

	t.Run("should fail on unknown filters and name the template", func(t *testing.T) {
		a := analyzer.New("")
		pair := analyzer.Pair{
			ComponentName: "Broken",
			ScopeTypeName: "BrokenScope",
			TemplateURL:   "broken.html",
			Template:      "<p>{{x | nope}}</p>",
		}
		_, err := a.AnalyzeTemplate(pair)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown filter [nope]")
		assert.Contains(t, err.Error(), "broken.html")
	})

	t.Run("should be deterministic across runs", func(t *testing.T) {
		a := analyzer.New("")
		first, err := a.AnalyzeTemplate(widgetPair())
		require.NoError(t, err)
		second, err := a.AnalyzeTemplate(widgetPair())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestAnalyzeAll(t *testing.T) {
	goodPair := func(name string) analyzer.Pair {
		return analyzer.Pair{
			ComponentName: name,
			ScopeTypeName: name + "Scope",
			TemplateURL:   name + ".html",
			Template:      "<div>{{value}}</div>",
		}
	}
	badPair := analyzer.Pair{
		ComponentName: "BadComp",
		ScopeTypeName: "BadScope",
		TemplateURL:   "bad.html",
		Template:      "<div>{{x | nope}}</div>",
	}

	t.Run("should isolate per-pair failures", func(t *testing.T) {
		a := analyzer.New("")
		analyses, err := a.AnalyzeAll(context.Background(), []analyzer.Pair{
			goodPair("First"), badPair, goodPair("Third"),
		}, 2)
		require.Error(t, err)
		require.Len(t, analyses, 3)

		assert.NoError(t, analyses[0].Err)
		assert.Contains(t, analyses[0].Output, "First__viewCheck")
		assert.Error(t, analyses[1].Err)
		assert.NoError(t, analyses[2].Err)
		assert.Contains(t, analyses[2].Output, "Third__viewCheck")

		assert.Contains(t, err.Error(), "BadComp")
		assert.Contains(t, err.Error(), "Unknown filter [nope]")
	})

	t.Run("should keep results aligned with their pairs", func(t *testing.T) {
		a := analyzer.New("")
		pairs := []analyzer.Pair{goodPair("A"), goodPair("B"), goodPair("C"), goodPair("D")}
		analyses, err := a.AnalyzeAll(context.Background(), pairs, 4)
		require.NoError(t, err)
		require.Len(t, analyses, len(pairs))
		for i, analysis := range analyses {
			assert.Equal(t, pairs[i].ComponentName, analysis.Pair.ComponentName)
			assert.Contains(t, analysis.Output, pairs[i].ComponentName+"__viewCheck")
		}
	})

	t.Run("should succeed with no pairs", func(t *testing.T) {
		a := analyzer.New("")
		analyses, err := a.AnalyzeAll(context.Background(), nil, 0)
		require.NoError(t, err)
		assert.Empty(t, analyses)
	})
}
