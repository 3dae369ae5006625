package cli

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/folio-reports/folio/pkg/ir"
	"github.com/folio-reports/folio/pkg/pipeline"
)

// newCompileCmd creates the compile command, which stops the pipeline after
// the compile stage and emits the normalized IR as JSON. Useful for
// debugging definitions and for feeding the IR to other tools.
func newCompileCmd() *cobra.Command {
	var (
		output  string
		compact bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "compile [definition]",
		Short: "Compile a report definition to layout IR JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := newRunner(noCache)
			defer runner.Close()

			opts := pipeline.Options{
				DefinitionPath: args[0],
				Refresh:        refresh,
				Logger:         loggerFromContext(cmd.Context()),
			}

			sp := newSpinnerWithContext(cmd.Context(), "Compiling "+args[0])
			sp.Start()

			def, defHash, err := runner.Load(opts)
			if err != nil {
				sp.Stop()
				return err
			}
			layouts, err := runner.Compile(cmd.Context(), def, defHash, opts)
			if err != nil {
				sp.Stop()
				return err
			}
			sp.Stop()

			// ir.Marshal output is already indented.
			data, err := ir.Marshal(layouts)
			if err != nil {
				return err
			}
			if compact {
				var buf bytes.Buffer
				if err := json.Compact(&buf, data); err != nil {
					return err
				}
				buf.WriteByte('\n')
				data = buf.Bytes()
			}

			if err := writeArtifact(output, data); err != nil {
				return err
			}
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&compact, "compact", false, "emit compact JSON instead of indented")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompile even when cached IR exists")

	return cmd
}
