package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-reports/folio/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple outputs)
	data       string   // external data context file (json, toml, yaml)
	formats    []string // output formats: "typ", "json"
	noPreamble bool     // omit the #set preamble from Typst output
	noCache    bool     // disable the render cache
	refresh    bool     // recompile even when cached IR exists
}

// newRenderCmd creates the render command for generating Typst markup from
// report definitions. A single definition renders directly; multiple
// definitions render as a batch with a progress display.
//
// Default settings:
//   - format: typ (Typst markup)
//   - cache: enabled (~/.cache/folio)
//   - preamble: included when the definition carries document options
func newRenderCmd() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [definition...]",
		Short: "Render report definitions to Typst markup",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			runner := newRunner(opts.noCache)
			defer runner.Close()

			if len(args) == 1 {
				return runRender(cmd.Context(), runner, args[0], &opts)
			}
			return runRenderBatch(cmd.Context(), runner, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "data context file (json, toml, yaml)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): typ (default), json (comma-separated)")
	cmd.Flags().BoolVar(&opts.noPreamble, "no-preamble", false, "omit the document preamble from Typst output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even when cached IR exists")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["typ"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatTyp}
	}
	return strings.Split(s, ",")
}

// pipelineOptions translates render flags into pipeline options for one input.
func pipelineOptions(ctx context.Context, input string, opts *renderOpts) pipeline.Options {
	return pipeline.Options{
		DefinitionPath: input,
		DataPath:       opts.data,
		Formats:        opts.formats,
		NoPreamble:     opts.noPreamble,
		Refresh:        opts.refresh,
		Logger:         loggerFromContext(ctx),
	}
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.typ, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath builds the output file path for one format. The explicit
// output path is used verbatim for a single format; multiple formats
// share the base path with per-format extensions.
func outputPath(input string, format string, opts *renderOpts) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

// runRender executes the pipeline for a single definition and writes each
// requested format next to the input (or to --output).
func runRender(ctx context.Context, runner *pipeline.Runner, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Rendering %s", input)

	p := newProgress(logger)
	result, err := runner.Execute(ctx, pipelineOptions(ctx, input, opts))
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d layouts", result.Stats.LayoutCount))

	for _, format := range opts.formats {
		path := outputPath(input, format, opts)
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.Stats.LayoutCount, result.CacheInfo.RenderHit)
	return nil
}

// runRenderBatch renders multiple definitions with an interactive progress
// display. Failures are reported per file; the batch continues past them
// and the command fails if any input failed.
func runRenderBatch(ctx context.Context, runner *pipeline.Runner, inputs []string, opts *renderOpts) error {
	results, err := renderBatch(ctx, runner, inputs, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			printError("%s: %v", res.input, res.err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d definitions failed", failed, len(inputs))
	}
	printSuccess("Rendered %d definitions", len(inputs))
	return nil
}

// renderOne runs the full pipeline for one batch input and writes its
// outputs. It is the worker behind the batch progress display.
func renderOne(ctx context.Context, runner *pipeline.Runner, input string, opts *renderOpts) batchResult {
	result, err := runner.Execute(ctx, pipelineOptions(ctx, input, opts))
	if err != nil {
		return batchResult{input: input, err: err}
	}
	for _, format := range opts.formats {
		path := outputPath(input, format, opts)
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return batchResult{input: input, err: err}
		}
	}
	return batchResult{
		input:   input,
		layouts: result.Stats.LayoutCount,
		cached:  result.CacheInfo.RenderHit,
	}
}

// writeArtifact writes one rendered artifact to path.
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	return nil
}
