package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"ngtv-go/packages/typeview/src/analyzer"
	"ngtv-go/packages/typeview/src/expression_parser"
)

// config is the on-disk project description. Paths are resolved relative to
// the config file's directory.
type config struct {
	Prefix string       `yaml:"prefix"`
	Pairs  []pairConfig `yaml:"pairs"`
}

type pairConfig struct {
	Component      string `yaml:"component"`
	ScopeType      string `yaml:"scopeType"`
	Template       string `yaml:"template"`
	ScopeInterface string `yaml:"scopeInterface"`
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var outDir string
	var parallelism int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one view-check unit per configured component/template pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, baseDir, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			pairs := make([]analyzer.Pair, 0, len(cfg.Pairs))
			for _, pc := range cfg.Pairs {
				pair, err := loadPair(baseDir, pc)
				if err != nil {
					return err
				}
				pairs = append(pairs, pair)
			}

			a := analyzer.New(cfg.Prefix)
			analyses, aggregate := a.AnalyzeAll(cmd.Context(), pairs, parallelism)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return errors.Wrap(err, "creating output directory")
			}
			for _, analysis := range analyses {
				if analysis.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", analysis.Pair.TemplateURL, analysis.Err)
					var syntaxErr *expression_parser.SyntaxError
					if stderrors.As(analysis.Err, &syntaxErr) {
						fmt.Fprintf(cmd.ErrOrStderr(), "  at %s\n", syntaxErr.Span().Start)
					}
					continue
				}
				target := filepath.Join(outDir, analysis.Pair.ComponentName+"_viewcheck.ts")
				if err := os.WriteFile(target, []byte(analysis.Output), 0o644); err != nil {
					return errors.Wrapf(err, "writing %s", target)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			}
			if aggregate != nil {
				return fmt.Errorf("one or more templates failed analysis")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ngtv.yaml", "project config file")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "viewchecks", "directory for generated units")
	cmd.Flags().IntVarP(&parallelism, "parallelism", "p", runtime.NumCPU(), "concurrent template analyses")
	return cmd
}

func loadConfig(path string) (*config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading config")
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, "", errors.Wrap(err, "parsing config")
	}
	return &cfg, filepath.Dir(path), nil
}

func loadPair(baseDir string, pc pairConfig) (analyzer.Pair, error) {
	templatePath := filepath.Join(baseDir, pc.Template)
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return analyzer.Pair{}, errors.Wrapf(err, "reading template for %s", pc.Component)
	}
	scopeInterface, err := os.ReadFile(filepath.Join(baseDir, pc.ScopeInterface))
	if err != nil {
		return analyzer.Pair{}, errors.Wrapf(err, "reading scope interface for %s", pc.Component)
	}
	return analyzer.Pair{
		ComponentName:  pc.Component,
		ScopeTypeName:  pc.ScopeType,
		TemplateURL:    templatePath,
		Template:       string(template),
		ScopeInterface: string(scopeInterface),
	}, nil
}
