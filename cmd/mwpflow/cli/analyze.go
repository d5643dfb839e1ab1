package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/mwpflow/config"
	"github.com/katalvlaran/mwpflow/internal/analyzer"
	"github.com/katalvlaran/mwpflow/mwpast"
	"github.com/katalvlaran/mwpflow/mwplang"
	"github.com/katalvlaran/mwpflow/mwpresult"
)

type analyzeFlags struct {
	strict  bool
	fin     bool
	silent  bool
	info    bool
	debug   bool
	noTime  bool
	noSave  bool
	outDir  string
}

func newAnalyzeCommand() *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze <path> [<path>...]",
		Short: "Analyze one or more source files for polynomial growth bounds",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "reject functions containing unsupported constructs instead of skipping them")
	cmd.Flags().BoolVar(&flags.fin, "fin", false, "keep the relation matrix in the result of a function found infinite")
	cmd.Flags().BoolVar(&flags.silent, "silent", false, "suppress all log output")
	cmd.Flags().BoolVar(&flags.info, "info", false, "log at info level")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "log at debug level, including every skipped construct")
	cmd.Flags().BoolVar(&flags.noTime, "no_time", false, "omit the analysis duration from the printed summary")
	cmd.Flags().BoolVar(&flags.noSave, "no_save", false, "do not persist results as JSON")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", ".", "directory to write JSON results into")

	return cmd
}

func (f *analyzeFlags) logger() zerolog.Logger {
	switch {
	case f.silent:
		return zerolog.Nop()
	case f.debug:
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	case f.info:
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	default:
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	}
}

func runAnalyze(cmd *cobra.Command, paths []string, flags *analyzeFlags) error {
	logger := flags.logger()
	cfg := config.New(
		config.WithStrict(flags.strict),
		config.WithEarlyExit(!flags.fin),
		config.WithLogger(logger),
	)

	for _, path := range paths {
		if err := analyzePath(cmd, path, cfg, flags, logger); err != nil {
			return fmt.Errorf("mwpflow: analyzing %s: %w", path, err)
		}
	}

	return nil
}

func analyzePath(cmd *cobra.Command, path string, cfg config.Config, flags *analyzeFlags, logger zerolog.Logger) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	prog, err := mwplang.ReferenceParser{}.Parse(src)
	if err != nil {
		return fmt.Errorf("parse failure: %w", err)
	}
	prog = mwplang.Desugar(prog)

	results, err := analyzeConcurrently(cmd, prog, cfg)
	if err != nil {
		return err
	}

	for _, res := range results {
		printSummary(cmd, res, flags)
	}

	if !flags.noSave {
		if err := persistResults(path, flags.outDir, results); err != nil {
			return fmt.Errorf("persisting results: %w", err)
		}
	}

	return nil
}

// analyzeConcurrently runs internal/analyzer.AnalyzeFunction over every
// function of prog in parallel, bounded by GOMAXPROCS
// (golang.org/x/sync/errgroup), per spec §5's explicit invitation to
// analyze distinct functions concurrently since contexts are per-invocation
// and the underlying values immutable.
func analyzeConcurrently(cmd *cobra.Command, prog *mwpast.Program, cfg config.Config) ([]mwpresult.Result, error) {
	results := make([]mwpresult.Result, len(prog.Functions))

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, fn := range prog.Functions {
		i, fn := i, fn
		g.Go(func() error {
			results[i] = analyzer.AnalyzeFunction(fn, cfg)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func printSummary(cmd *cobra.Command, res mwpresult.Result, flags *analyzeFlags) {
	out := cmd.OutOrStdout()
	header := fmt.Sprintf("%s: %s", res.FunctionName, res.Status)
	if !flags.noTime {
		header += fmt.Sprintf(" (%s)", res.Duration())
	}
	fmt.Fprintln(out, header)

	switch res.Status {
	case mwpresult.StatusBounded:
		fmt.Fprintln(out, "  "+res.BoundString)
	case mwpresult.StatusInfinite:
		for src, dsts := range res.ProblematicFlows {
			fmt.Fprintf(out, "  %s -> %s\n", src, strings.Join(dsts, ", "))
		}
	case mwpresult.StatusError:
		fmt.Fprintln(out, "  error: "+res.Error)
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(out, "  warning: "+w.Reason)
	}
}

func persistResults(sourcePath, outDir string, results []mwpresult.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	name := fmt.Sprintf("%s.%d.json", base, time.Now().UnixNano())
	dest := filepath.Join(outDir, name)

	return writeResultsJSON(dest, results)
}
