// Package openapi renders a service description as an OpenAPI 3 document.
package openapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/apidesc/internal/service"
	"github.com/mark3labs/apidesc/internal/spec"
)

// Version is the OpenAPI version of exported documents.
const Version = "3.0.3"

// bodyMediaTypes maps body locations to the media type they are sent as.
var bodyMediaTypes = map[spec.Location]string{
	spec.LocationJSON:      "application/json",
	spec.LocationXML:       "application/xml",
	spec.LocationFormParam: "application/x-www-form-urlencoded",
	spec.LocationMultipart: "multipart/form-data",
	spec.LocationBody:      "application/octet-stream",
}

type config struct {
	logger   *slog.Logger
	validate bool
}

// Option configures Export.
type Option func(*config)

// WithLogger sets the logger used for skipped parameters.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithoutValidation skips validating the exported document.
func WithoutValidation() Option {
	return func(c *config) { c.validate = false }
}

// Export converts desc into an OpenAPI 3 document and validates it.
//
// Parameters without a location are sent as query parameters. Response-side
// parameters (statusCode, reasonPhrase, responseBody) are not exported.
func Export(ctx context.Context, desc *service.Description, opts ...Option) (*openapi3.T, error) {
	cfg := config{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if desc == nil {
		return nil, fmt.Errorf("openapi: nil description")
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       orDefault(desc.Name, "API"),
			Version:     orDefault(desc.APIVersion, "0.0.0"),
			Description: desc.Description,
		},
		Paths: openapi3.Paths{},
	}
	if desc.BaseURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: desc.BaseURL}}
	}

	for _, name := range desc.Operations.Names() {
		attrs, ok := desc.Operations.Operation(name)
		if !ok {
			return nil, fmt.Errorf("openapi: operation %q: not an attribute document", name)
		}
		method := strings.ToUpper(stringOf(attrs, "httpMethod"))
		if method == "" {
			return nil, fmt.Errorf("openapi: operation %q: missing httpMethod", name)
		}
		path := pathOf(stringOf(attrs, "uri"))
		if item := doc.Paths[path]; item != nil && item.GetOperation(method) != nil {
			cfg.logger.WarnContext(ctx, "operation replaces another on the same route",
				slog.String("operation", name), slog.String("method", method), slog.String("path", path))
		}
		doc.AddOperation(path, method, exportOperation(ctx, cfg.logger, name, path, attrs))
	}

	if cfg.validate {
		if err := doc.Validate(ctx); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return doc, nil
}

func exportOperation(ctx context.Context, log *slog.Logger, name, path string, attrs map[string]any) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: name,
		Summary:     stringOf(attrs, "summary"),
		Description: stringOf(attrs, "notes"),
		Deprecated:  boolOf(attrs, "deprecated"),
		Responses:   responsesOf(attrs),
	}
	if u := stringOf(attrs, "documentationUrl"); u != "" {
		op.ExternalDocs = &openapi3.ExternalDocs{URL: u}
	}
	ext := map[string]any{}
	if parent := stringOf(attrs, "extends"); parent != "" {
		ext["x-extends"] = parent
	}
	if data := mapOf(attrs, "data"); len(data) > 0 {
		ext["x-data"] = data
	}
	if extra := mapOf(attrs, "additionalParameters"); extra != nil {
		ext["x-additional-parameters"] = extra
	}

	pathVars := templateVars(path)
	declared := map[string]bool{}
	bodies := map[string]*openapi3.Schema{}
	bodyRequired := false
	params := mapOf(attrs, "parameters")
	for _, pname := range sortedKeys(params) {
		pattrs, _ := params[pname].(map[string]any)
		if pattrs == nil {
			continue
		}
		wire := wireName(pname, pattrs)
		loc := spec.Location(stringOf(pattrs, "location"))
		if loc == "" {
			loc = spec.LocationQuery
		}
		switch loc {
		case spec.LocationURI:
			if !pathVars[wire] {
				log.DebugContext(ctx, "skipping uri parameter missing from template",
					slog.String("operation", name), slog.String("parameter", wire))
				continue
			}
			declared[wire] = true
			p := openapi3.NewPathParameter(wire)
			fillParameter(p, pattrs)
			p.Required = true
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		case spec.LocationQuery, spec.LocationHeader:
			p := openapi3.NewQueryParameter(wire)
			if loc == spec.LocationHeader {
				p = openapi3.NewHeaderParameter(wire)
			}
			fillParameter(p, pattrs)
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		case spec.LocationBody:
			bodies[bodyMediaTypes[loc]] = schemaFor(pattrs)
			bodyRequired = bodyRequired || boolOf(pattrs, "required")
		case spec.LocationJSON, spec.LocationXML, spec.LocationFormParam, spec.LocationMultipart:
			media := bodyMediaTypes[loc]
			obj := bodies[media]
			if obj == nil {
				obj = openapi3.NewObjectSchema()
				bodies[media] = obj
			}
			obj.WithPropertyRef(wire, openapi3.NewSchemaRef("", schemaFor(pattrs)))
			if boolOf(pattrs, "required") {
				obj.Required = append(obj.Required, wire)
				bodyRequired = true
			}
		default:
			log.DebugContext(ctx, "skipping response-side parameter",
				slog.String("operation", name), slog.String("parameter", wire), slog.String("location", string(loc)))
		}
	}

	// Template variables nobody declared still have to be described.
	for _, v := range sortedVars(pathVars) {
		if !declared[v] {
			p := openapi3.NewPathParameter(v).WithSchema(openapi3.NewStringSchema())
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		}
	}

	if len(bodies) > 0 {
		content := openapi3.Content{}
		for media, schema := range bodies {
			content[media] = &openapi3.MediaType{Schema: openapi3.NewSchemaRef("", schema)}
		}
		op.RequestBody = &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{Required: bodyRequired, Content: content}}
	}
	if len(ext) > 0 {
		op.Extensions = ext
	}
	return op
}

func fillParameter(p *openapi3.Parameter, attrs map[string]any) {
	p.Description = stringOf(attrs, "description")
	p.Required = boolOf(attrs, "required")
	p.Schema = openapi3.NewSchemaRef("", schemaFor(attrs))
}

func responsesOf(attrs map[string]any) openapi3.Responses {
	responses := openapi3.Responses{}
	success := openapi3.NewResponse().WithDescription("Successful response")
	if model := stringOf(attrs, "responseModel"); model != "" {
		success.Extensions = map[string]any{"x-response-model": model}
	}
	responses["default"] = &openapi3.ResponseRef{Value: success}

	for _, raw := range sliceOf(attrs, "errorResponses") {
		er, _ := raw.(map[string]any)
		if er == nil {
			continue
		}
		code, ok := intOf(er["code"])
		if !ok || code < 100 || code > 599 {
			continue
		}
		reason := stringOf(er, "reason")
		if reason == "" {
			reason = http.StatusText(int(code))
		}
		resp := openapi3.NewResponse().WithDescription(reason)
		if class := stringOf(er, "class"); class != "" {
			resp.Extensions = map[string]any{"x-error-class": class}
		}
		responses[strconv.FormatInt(code, 10)] = &openapi3.ResponseRef{Value: resp}
	}
	return responses
}

var templateVarRe = regexp.MustCompile(`\{([+#./;?&]?)([A-Za-z0-9_.,:*\-]+)\}`)

// pathOf turns a URI template into an OpenAPI path: absolute URLs keep only
// their path and expansions other than simple ones are dropped.
func pathOf(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		rest := uri[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			uri = rest[j:]
		} else {
			uri = "/"
		}
	}
	uri = templateVarRe.ReplaceAllStringFunc(uri, func(m string) string {
		sub := templateVarRe.FindStringSubmatch(m)
		name := strings.TrimSuffix(sub[2], "*")
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[:i]
		}
		if (sub[1] == "" || sub[1] == "+") && !strings.Contains(name, ",") {
			return "{" + name + "}"
		}
		return ""
	})
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	return uri
}

func templateVars(path string) map[string]bool {
	vars := map[string]bool{}
	for _, m := range templateVarRe.FindAllStringSubmatch(path, -1) {
		vars[m[2]] = true
	}
	return vars
}

func sortedVars(vars map[string]bool) []string {
	m := make(map[string]any, len(vars))
	for v := range vars {
		m[v] = nil
	}
	return sortedKeys(m)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
