// Package analyzer ties the pipeline together: parse the markup, walk it,
// rewrite its expressions and synthesize the TypeScript check unit, for one
// (component, template) pair or for many pairs concurrently.
package analyzer

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"ngtv-go/packages/typeview/src/directives"
	"ngtv-go/packages/typeview/src/filters"
	"ngtv-go/packages/typeview/src/markup"
	"ngtv-go/packages/typeview/src/rewriter"
	"ngtv-go/packages/typeview/src/synthesis"
	"ngtv-go/packages/typeview/src/view_walker"
)

// DefaultPrefix is the component accessor used when none is configured
const DefaultPrefix = "$scope"

// Pair is one component/template pair to analyze
type Pair struct {
	ComponentName  string
	ScopeTypeName  string
	TemplateURL    string
	Template       string
	ScopeInterface string
}

// Analysis is the per-pair outcome. Err is set when this pair's analysis
// failed; other pairs are unaffected.
type Analysis struct {
	Pair   Pair
	Output string
	Err    error
}

// Analyzer runs the synthesis pipeline. Filters and Directives are open
// registries; callers may extend them before analyzing.
type Analyzer struct {
	Filters    *filters.Registry
	Directives *directives.Registry

	walker *view_walker.Walker
}

// New creates an Analyzer with the built-in registries. prefix is the
// component accessor to qualify free identifiers with; empty selects
// DefaultPrefix.
func New(prefix string) *Analyzer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	filterRegistry := filters.NewRegistry()
	directiveRegistry := directives.NewRegistry()
	rw := rewriter.New(filterRegistry, prefix)
	return &Analyzer{
		Filters:    filterRegistry,
		Directives: directiveRegistry,
		walker:     view_walker.NewWalker(directiveRegistry, rw),
	}
}

// AnalyzeTemplate runs the pipeline for one pair. It is a pure, synchronous
// computation with no I/O; both inputs and output are in-memory text.
func (a *Analyzer) AnalyzeTemplate(pair Pair) (string, error) {
	nodes, err := markup.Parse(pair.Template, pair.TemplateURL)
	if err != nil {
		return "", err
	}
	result, err := a.walker.Walk(nodes, pair.TemplateURL)
	if err != nil {
		return "", errors.Wrapf(err, "analyzing template %s", pair.TemplateURL)
	}
	unit := &synthesis.Unit{
		ComponentName:  pair.ComponentName,
		ScopeTypeName:  pair.ScopeTypeName,
		ScopeInterface: pair.ScopeInterface,
	}
	return synthesis.Synthesize(unit, result, a.Filters), nil
}

// AnalyzeAll analyzes every pair, running up to parallelism analyses
// concurrently. Each pair's failure is isolated into its Analysis; the
// returned error aggregates the per-pair failures.
func (a *Analyzer) AnalyzeAll(ctx context.Context, pairs []Pair, parallelism int) ([]Analysis, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	analyses := make([]Analysis, len(pairs))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	for i, pair := range pairs {
		i, pair := i, pair
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				analyses[i] = Analysis{Pair: pair, Err: err}
				return nil
			}
			output, err := a.AnalyzeTemplate(pair)
			analyses[i] = Analysis{Pair: pair, Output: output, Err: err}
			// Per-pair failures must not cancel the remaining analyses.
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return analyses, err
	}

	var merged *multierror.Error
	for _, analysis := range analyses {
		if analysis.Err != nil {
			merged = multierror.Append(merged, errors.Wrap(analysis.Err, analysis.Pair.ComponentName))
		}
	}
	return analyses, merged.ErrorOrNil()
}
