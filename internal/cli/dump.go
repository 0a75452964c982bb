package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var dumpFormats = []string{"json", "yaml"}

var dumpRunner = runDump

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the service description built from a declaration",
		Long: "Load a declaration file, assemble every operation it declares and print " +
			"the resulting service description document.",
		Example: strings.TrimSpace(`  apidesc dump --input users.yaml
  apidesc --config apidesc-run.yaml dump --format yaml --out users.desc.yaml`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveRunConfig(cmd, dumpFormats)
			if err != nil {
				return err
			}
			return dumpRunner(cmd.Context(), cfg)
		},
	}
	addRunFlags(cmd.Flags(), dumpFormats)
	return cmd
}

func runDump(ctx context.Context, cfg *RunConfig) error {
	desc, err := describe(ctx, cfg)
	if err != nil {
		return err
	}
	data, err := encode(desc.Document(), cfg.Format)
	if err != nil {
		return err
	}
	return writeOutput(cfg, data)
}
