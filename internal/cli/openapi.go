package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/apidesc/internal/openapi"
)

var openapiFormats = []string{"yaml", "json"}

var openapiRunner = runOpenAPI

func newOpenAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export a declaration as an OpenAPI 3 document",
		Long: "Load a declaration file, assemble its service description and export it " +
			"as a validated OpenAPI " + openapi.Version + " document.",
		Example: strings.TrimSpace(`  apidesc openapi --input users.yaml --out openapi.yaml
  apidesc openapi --input https://example.com/users.yaml --format json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveRunConfig(cmd, openapiFormats)
			if err != nil {
				return err
			}
			return openapiRunner(cmd.Context(), cfg)
		},
	}
	addRunFlags(cmd.Flags(), openapiFormats)
	return cmd
}

func runOpenAPI(ctx context.Context, cfg *RunConfig) error {
	desc, err := describe(ctx, cfg)
	if err != nil {
		return err
	}
	doc, err := openapi.Export(ctx, desc, openapi.WithLogger(cfg.log()))
	if err != nil {
		return err
	}
	data, err := encode(doc, cfg.Format)
	if err != nil {
		return err
	}
	return writeOutput(cfg, data)
}
