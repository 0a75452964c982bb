package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/apidesc/internal/declare"
	"github.com/mark3labs/apidesc/internal/service"
	"github.com/mark3labs/apidesc/internal/spec"
)

// describe loads the declaration named by cfg and assembles its service
// description.
func describe(ctx context.Context, cfg *RunConfig) (*service.Description, error) {
	f, err := declare.Load(ctx, cfg.Input,
		declare.WithHTTPTimeout(cfg.Timeout),
		declare.WithMaxRetries(cfg.Retries),
		declare.WithLogger(cfg.log()),
	)
	if err != nil {
		return nil, friendlyError(err)
	}
	svc, err := service.New(ctx, service.Config{
		Name:        f.Name,
		APIVersion:  f.APIVersion,
		BaseURL:     f.BaseURL,
		Description: f.Description,
		Groups:      []spec.Group{f},
		Headers:     f.Headers,
	}, service.WithLogger(cfg.log()))
	if err != nil {
		return nil, friendlyError(err)
	}
	return svc.Description(), nil
}

// encode renders v as indented JSON or as YAML. YAML goes through JSON so
// that custom JSON marshalers (OpenAPI extensions) are honored.
func encode(v any, format string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	if format == "json" {
		return append(data, '\n'), nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	blockStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles a JSON source leaves on
// nodes so the encoder picks plain block YAML.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// writeOutput writes data to path atomically, or to cfg.stdout when path is
// empty.
func writeOutput(cfg *RunConfig, data []byte) error {
	if cfg.Out == "" {
		w := cfg.stdout
		if w == nil {
			w = os.Stdout
		}
		_, err := w.Write(data)
		return err
	}
	absPath, err := filepath.Abs(cfg.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("cannot create parent directory: %v", err))
	}
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return newUsageError(fmt.Sprintf("cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("cannot place file at %s: %v", absPath, err))
	}
	cfg.log().Info("wrote output", "path", absPath, "bytes", len(data))
	return nil
}
