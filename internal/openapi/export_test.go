package openapi

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/apidesc/internal/service"
	"github.com/mark3labs/apidesc/internal/spec"
)

type opsGroup []*spec.Operation

func (g opsGroup) GetAllAPI() (spec.Document, error) { return spec.Collect(g...) }

func describe(t *testing.T, ops ...*spec.Operation) *service.Description {
	t.Helper()
	svc, err := service.New(context.Background(), service.Config{
		Name:       "Users",
		APIVersion: "2024-01-01",
		BaseURL:    "https://api.example.com",
		Groups:     []spec.Group{opsGroup(ops)},
	})
	require.NoError(t, err)
	return svc.Description()
}

func TestExport_GetUser(t *testing.T) {
	t.Parallel()

	desc := describe(t, spec.NewOperation("GetUser", spec.GET, "/users/{id}").
		Summary("Fetch a user").
		ResponseModel("User").
		AddParams(func(s *spec.ParamSet) {
			s.String("id").Required().URI()
		}))

	doc, err := Export(context.Background(), desc)
	require.NoError(t, err)

	assert.Equal(t, Version, doc.OpenAPI)
	assert.Equal(t, "Users", doc.Info.Title)
	assert.Equal(t, "2024-01-01", doc.Info.Version)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://api.example.com", doc.Servers[0].URL)

	item := doc.Paths["/users/{id}"]
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	assert.Equal(t, "GetUser", item.Get.OperationID)
	assert.Equal(t, "Fetch a user", item.Get.Summary)

	require.Len(t, item.Get.Parameters, 1)
	p := item.Get.Parameters[0].Value
	assert.Equal(t, "id", p.Name)
	assert.Equal(t, openapi3.ParameterInPath, p.In)
	assert.True(t, p.Required)
	assert.Equal(t, openapi3.TypeString, p.Schema.Value.Type)

	success := item.Get.Responses["default"]
	require.NotNil(t, success)
	assert.Equal(t, "User", success.Value.Extensions["x-response-model"])
}

func TestExport_BodyAndHeaderParameters(t *testing.T) {
	t.Parallel()

	desc := describe(t, spec.NewOperation("SearchUsers", spec.POST, "users/search").
		AddParams(func(s *spec.ParamSet) {
			s.String("name").Required().JSON()
			s.Integer("age").JSON().Validate(spec.WithMinimum(0), spec.WithMaximum(150))
			s.String("trace").Header().SendAs("X-Trace-Id").Default("none")
			s.Integer("limit").Validate(spec.WithMaximum(100))
			s.String("statusCode").In(spec.LocationStatusCode)
		}))

	doc, err := Export(context.Background(), desc)
	require.NoError(t, err)

	op := doc.Paths["/users/search"].Post
	require.NotNil(t, op)

	byName := map[string]*openapi3.Parameter{}
	for _, ref := range op.Parameters {
		byName[ref.Value.Name] = ref.Value
	}
	require.Len(t, byName, 2)
	require.Contains(t, byName, "X-Trace-Id")
	assert.Equal(t, openapi3.ParameterInHeader, byName["X-Trace-Id"].In)
	assert.Equal(t, "none", byName["X-Trace-Id"].Schema.Value.Default)
	require.Contains(t, byName, "limit")
	assert.Equal(t, openapi3.ParameterInQuery, byName["limit"].In)
	require.NotNil(t, byName["limit"].Schema.Value.Max)
	assert.Equal(t, 100.0, *byName["limit"].Schema.Value.Max)

	require.NotNil(t, op.RequestBody)
	body := op.RequestBody.Value
	assert.True(t, body.Required)
	media := body.Content.Get("application/json")
	require.NotNil(t, media)
	schema := media.Schema.Value
	assert.Equal(t, openapi3.TypeObject, schema.Type)
	assert.Equal(t, []string{"name"}, schema.Required)
	assert.Contains(t, schema.Properties, "name")
	require.Contains(t, schema.Properties, "age")
	assert.Equal(t, 150.0, *schema.Properties["age"].Value.Max)
}

func TestExport_PathTemplates(t *testing.T) {
	t.Parallel()

	desc := describe(t,
		spec.NewOperation("ListMembers", spec.GET, "https://api.example.com/v1/orgs/{org}/members{?page}").
			AddParams(func(s *spec.ParamSet) {
				s.String("team").URI()
			}),
	)

	doc, err := Export(context.Background(), desc)
	require.NoError(t, err)

	item := doc.Paths["/v1/orgs/{org}/members"]
	require.NotNil(t, item)
	require.Len(t, item.Get.Parameters, 1)
	p := item.Get.Parameters[0].Value
	assert.Equal(t, "org", p.Name)
	assert.True(t, p.Required)
	assert.Equal(t, openapi3.TypeString, p.Schema.Value.Type)
}

func TestExport_ErrorResponsesAndExtensions(t *testing.T) {
	t.Parallel()

	desc := describe(t,
		spec.NewOperation("BaseUser", spec.GET, "/users/{id}").
			AddParams(func(s *spec.ParamSet) { s.String("id").Required().URI() }),
		spec.NewOperation("DeleteUser", spec.DELETE, "/users/{id}").
			Extends("BaseUser").
			Deprecated().
			Notes("Removes the user").
			DocumentationURL("https://docs.example.com/delete").
			Data("scope", "admin").
			ErrorResponse(404, "", "UserNotFound").
			ErrorResponse(409, "Still referenced", "").
			AddParams(func(s *spec.ParamSet) { s.String("id").Required().URI() }),
	)

	doc, err := Export(context.Background(), desc)
	require.NoError(t, err)

	op := doc.Paths["/users/{id}"].Delete
	require.NotNil(t, op)
	assert.True(t, op.Deprecated)
	assert.Equal(t, "Removes the user", op.Description)
	require.NotNil(t, op.ExternalDocs)
	assert.Equal(t, "https://docs.example.com/delete", op.ExternalDocs.URL)
	assert.Equal(t, "BaseUser", op.Extensions["x-extends"])
	assert.Equal(t, map[string]any{"scope": "admin"}, op.Extensions["x-data"])

	notFound := op.Responses["404"]
	require.NotNil(t, notFound)
	assert.Equal(t, "Not Found", *notFound.Value.Description)
	assert.Equal(t, "UserNotFound", notFound.Value.Extensions["x-error-class"])

	conflict := op.Responses["409"]
	require.NotNil(t, conflict)
	assert.Equal(t, "Still referenced", *conflict.Value.Description)
	assert.Nil(t, conflict.Value.Extensions)
}

func TestExport_Schemas(t *testing.T) {
	t.Parallel()

	desc := describe(t, spec.NewOperation("CreateEvent", spec.POST, "/events").
		AddParams(func(s *spec.ParamSet) {
			s.String("at").JSON().Validate(spec.WithFormat(spec.FormatDateTime))
			s.String("contact").JSON().Validate(spec.WithFormat(spec.FormatTimestamp))
			s.String("note").Null().JSON()
			s.String("ref").Integer().JSON()
			s.Array("tags").JSON().
				Validate(spec.WithMinItems(1)).
				SetItems(spec.Build(func(items *spec.ParamSet) {
					items.String("tag").Validate(spec.WithEnum("a", "b"))
				}))
			s.String("secret").Static().JSON()
		}))

	doc, err := Export(context.Background(), desc)
	require.NoError(t, err)

	props := doc.Paths["/events"].Post.RequestBody.Value.Content.Get("application/json").Schema.Value.Properties

	assert.Equal(t, "date-time", props["at"].Value.Format)
	assert.Empty(t, props["contact"].Value.Format)
	assert.Equal(t, "timestamp", props["contact"].Value.Extensions["x-format"])

	assert.True(t, props["note"].Value.Nullable)
	assert.Equal(t, openapi3.TypeString, props["note"].Value.Type)

	require.Len(t, props["ref"].Value.AnyOf, 2)
	assert.Equal(t, openapi3.TypeString, props["ref"].Value.AnyOf[0].Value.Type)
	assert.Equal(t, openapi3.TypeInteger, props["ref"].Value.AnyOf[1].Value.Type)

	tags := props["tags"].Value
	assert.Equal(t, openapi3.TypeArray, tags.Type)
	assert.Equal(t, uint64(1), tags.MinItems)
	require.NotNil(t, tags.Items)
	assert.Equal(t, []any{"a", "b"}, tags.Items.Value.Enum)

	assert.True(t, props["secret"].Value.ReadOnly)
}

func TestExport_DecodedDocument(t *testing.T) {
	t.Parallel()

	// Documents read back from JSON carry float64 numbers and []any lists.
	desc := &service.Description{
		Operations: spec.Document{
			"ListUsers": map[string]any{
				"httpMethod": "get",
				"uri":        "/users",
				"errorResponses": []any{
					map[string]any{"code": float64(500)},
				},
				"parameters": map[string]any{
					"0": map[string]any{
						"type":    []any{"integer"},
						"maximum": float64(10),
					},
				},
			},
		},
	}

	doc, err := Export(context.Background(), desc)
	require.NoError(t, err)

	assert.Equal(t, "API", doc.Info.Title)
	assert.Equal(t, "0.0.0", doc.Info.Version)
	assert.Empty(t, doc.Servers)

	op := doc.Paths["/users"].Get
	require.NotNil(t, op)
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "0", op.Parameters[0].Value.Name)
	assert.Equal(t, 10.0, *op.Parameters[0].Value.Schema.Value.Max)
	assert.Equal(t, "Internal Server Error", *op.Responses["500"].Value.Description)

	unchecked, err := Export(context.Background(), desc, WithoutValidation())
	require.NoError(t, err)
	assert.Equal(t, doc.Paths["/users"].Get.OperationID, unchecked.Paths["/users"].Get.OperationID)
}

func TestExport_Errors(t *testing.T) {
	t.Parallel()

	_, err := Export(context.Background(), nil)
	assert.Error(t, err)

	_, err = Export(context.Background(), &service.Description{
		Operations: spec.Document{"Broken": map[string]any{"uri": "/x"}},
	})
	assert.ErrorContains(t, err, `operation "Broken": missing httpMethod`)

	_, err = Export(context.Background(), &service.Description{
		Operations: spec.Document{"Odd": "not a document"},
	})
	assert.ErrorContains(t, err, `operation "Odd"`)
}

func TestPathOf(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                              "/",
		"users":                         "/users",
		"/users/{id}":                   "/users/{id}",
		"/files/{+path}":                "/files/{path}",
		"/search{?q,page}":              "/search",
		"/items/{id*}":                  "/items/{id}",
		"http://example.com":            "/",
		"https://example.com/a/{b}?c=d": "/a/{b}",
		"/users/{id}#fragment":          "/users/{id}",
	}
	for in, want := range cases {
		assert.Equal(t, want, pathOf(in), "input %q", in)
	}
}
