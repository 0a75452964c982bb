// Package service assembles operation groups into a service description
// and prepares the round-tripper a transport sends requests through.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mark3labs/apidesc/internal/spec"
)

// Middleware wraps the next round-tripper in the chain.
type Middleware func(next http.RoundTripper) http.RoundTripper

// Config describes a web service and where its operations come from.
type Config struct {
	Name        string
	APIVersion  string
	BaseURL     string
	Description string
	Groups      []spec.Group
	Middlewares []Middleware
	// Headers are added to every request that does not already set them.
	Headers map[string]string
}

// Description is the document handed to a transport.
type Description struct {
	Name        string
	APIVersion  string
	BaseURL     string
	Description string
	Operations  spec.Document
}

// Document returns the description as a plain nested document. Empty
// metadata fields are pruned.
func (d *Description) Document() map[string]any {
	out := map[string]any{"operations": map[string]any(d.Operations)}
	for k, v := range map[string]string{
		"name":        d.Name,
		"apiVersion":  d.APIVersion,
		"baseUrl":     d.BaseURL,
		"description": d.Description,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Service holds an assembled description. It is safe for concurrent use
// once built.
type Service struct {
	desc        *Description
	middlewares []Middleware
	headers     http.Header
	log         *slog.Logger
}

type options struct {
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used while assembling the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New validates cfg and collects every group's operations into one
// description. Later groups overwrite operations of earlier ones with the
// same name.
func New(ctx context.Context, cfg Config, opts ...Option) (*Service, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	for i, mw := range cfg.Middlewares {
		if mw == nil {
			return nil, wrap(cfg.Name, spec.NewConfigurationError(fmt.Sprintf("middleware #%d is not a valid middleware", i)))
		}
	}

	ops := make(spec.Document)
	for i, g := range cfg.Groups {
		if g == nil {
			return nil, wrap(cfg.Name, spec.NewConfigurationError(fmt.Sprintf("group #%d is not a valid api group", i)))
		}
		doc, err := g.GetAllAPI()
		if err != nil {
			return nil, wrap(cfg.Name, fmt.Errorf("group #%d (%T): %w", i, g, err))
		}
		o.logger.DebugContext(ctx, "collected api group",
			slog.String("group", fmt.Sprintf("%T", g)),
			slog.Int("operations", len(doc)),
		)
		ops.Merge(doc)
	}
	if err := checkExtends(ops); err != nil {
		return nil, wrap(cfg.Name, err)
	}

	headers := make(http.Header, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	o.logger.InfoContext(ctx, "service description assembled",
		slog.String("service", cfg.Name),
		slog.Int("groups", len(cfg.Groups)),
		slog.Int("operations", len(ops)),
	)
	return &Service{
		desc: &Description{
			Name:        cfg.Name,
			APIVersion:  cfg.APIVersion,
			BaseURL:     cfg.BaseURL,
			Description: cfg.Description,
			Operations:  ops,
		},
		middlewares: append([]Middleware(nil), cfg.Middlewares...),
		headers:     headers,
		log:         o.logger,
	}, nil
}

// Description returns the assembled description.
func (s *Service) Description() *Description { return s.desc }

// checkExtends verifies every "extends" names an operation of the document.
// Inheritance itself is resolved by the transport.
func checkExtends(ops spec.Document) error {
	for _, name := range ops.Names() {
		attrs, ok := ops.Operation(name)
		if !ok {
			continue
		}
		parent, _ := attrs["extends"].(string)
		if parent == "" {
			continue
		}
		if parent == name {
			return spec.NewConfigurationError(fmt.Sprintf("operation %q extends itself", name))
		}
		if _, ok := ops[parent]; !ok {
			return spec.NewConfigurationError(fmt.Sprintf("operation %q extends unknown operation %q", name, parent))
		}
	}
	return nil
}

func wrap(name string, err error) error {
	if name == "" {
		return fmt.Errorf("service: %w", err)
	}
	return fmt.Errorf("service %q: %w", name, err)
}
