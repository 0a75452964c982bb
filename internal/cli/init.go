package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample declaration file",
		Long:  "Scaffold a commented declaration file that shows how services, operations and parameters are described.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().String("out", "apidesc.yaml", "Where to write the sample declaration")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "apidesc.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force && st.Mode().IsRegular() {
		return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
	}

	run := &RunConfig{Out: absPath, logger: newLogger(os.Stderr, cfg.Verbose)}
	if err := writeOutput(run, []byte(strings.TrimSpace(sampleDeclarationYAML)+"\n")); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	run.log().DebugContext(ctx, "sample declaration written", "path", absPath)
	fmt.Fprintf(os.Stdout, "Wrote sample declaration to %s\n", absPath)
	return nil
}

// sampleDeclarationYAML is a commented declaration documenting the format.
const sampleDeclarationYAML = `# apidesc declaration (YAML or JSON)
# Describes one web service and the operations it exposes.

name: Users
apiVersion: "1.0"
baseUrl: https://api.example.com
description: User directory

# Headers sent with every request unless the request sets them.
headers:
  Accept: application/json

operations:
  - name: GetUser
    httpMethod: GET
    uri: /users/{id}
    summary: Fetch one user
    responseModel: User
    errorResponses:
      - code: 404
        reason: User not found
        class: UserNotFound
    parameters:
      # Types: array, object, string, boolean, integer, number, numeric, null, any.
      # Locations: uri, query, header, body, json, xml, formParam, multipart.
      - name: id
        type: string
        location: uri
        required: true
        validate:
          pattern: "^[0-9]+$"

  - name: CreateUser
    httpMethod: POST
    uri: /users
    summary: Create a user
    parameters:
      - name: email
        type: string
        location: json
        required: true
        validate:
          maxLength: 254
      - name: roles
        type: array
        location: json
        items:
          type: string
          validate:
            enum: [admin, member]
      - name: birthday
        type: [string, "null"]
        location: json
        validate:
          format: date
`
