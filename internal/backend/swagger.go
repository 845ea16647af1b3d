package backend

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-openapi/spec"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// Swagger renders a Swagger 2.0 document. The application path becomes the
// base path; entries group into tags by their first path segment.
type Swagger struct {
	title   string
	version string
}

// NewSwagger creates the Swagger 2.0 backend.
func NewSwagger() *Swagger {
	return &Swagger{title: "REST resources", version: "1.0"}
}

// SetInfo overrides the document title and version.
func (b *Swagger) SetInfo(title, version string) {
	b.title = title
	b.version = version
}

// Name implements Backend.
func (b *Swagger) Name() string { return "swagger" }

// Render implements Backend.
func (b *Swagger) Render(resources *domain.Resources) ([]byte, error) {
	swagger := &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger: "2.0",
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:   b.title,
					Version: b.version,
				},
			},
			BasePath: resources.ApplicationPath,
			Paths:    &spec.Paths{Paths: make(map[string]spec.PathItem)},
		},
	}

	for i := range resources.Entries {
		entry := &resources.Entries[i]
		path := relativeTemplate(entry.Template, resources.ApplicationPath)

		operation := b.buildOperation(entry, path)
		item := swagger.Paths.Paths[path]
		switch entry.Verb {
		case "GET":
			item.Get = operation
		case "POST":
			item.Post = operation
		case "PUT":
			item.Put = operation
		case "DELETE":
			item.Delete = operation
		case "PATCH":
			item.Patch = operation
		case "OPTIONS":
			item.Options = operation
		case "HEAD":
			item.Head = operation
		default:
			continue
		}
		swagger.Paths.Paths[path] = item
	}

	return json.MarshalIndent(swagger, "", "    ")
}

func (b *Swagger) buildOperation(entry *domain.ResourceEntry, path string) *spec.Operation {
	operation := &spec.Operation{
		OperationProps: spec.OperationProps{
			Summary:   entry.Doc,
			Consumes:  entry.RequestMediaTypes,
			Produces:  entry.ResponseMediaTypes,
			Responses: &spec.Responses{ResponsesProps: spec.ResponsesProps{StatusCodeResponses: make(map[int]spec.Response)}},
		},
	}
	if tag := tagForPath(path); tag != "" {
		operation.Tags = []string{tag}
	}

	for _, binding := range entry.Parameters {
		location, ok := parameterLocation(binding.Kind)
		if !ok || location == "cookie" {
			// Swagger 2.0 has no cookie or matrix locations.
			continue
		}
		parameter := spec.Parameter{
			ParamProps: spec.ParamProps{
				Name:     binding.Name,
				In:       location,
				Required: location == "path",
			},
		}
		if schemaType, format, ok := primitiveType(binding.JavaType); ok {
			parameter.SimpleSchema = spec.SimpleSchema{Type: schemaType, Format: format}
		} else {
			parameter.SimpleSchema = spec.SimpleSchema{Type: "string"}
		}
		if binding.DefaultValue != "" {
			parameter.SimpleSchema.Default = binding.DefaultValue
		}
		operation.Parameters = append(operation.Parameters, parameter)
	}

	if entry.RequestBodyType != "" {
		operation.Parameters = append(operation.Parameters, spec.Parameter{
			ParamProps: spec.ParamProps{
				Name:     "body",
				In:       "body",
				Required: true,
				Schema:   entitySchema(entry.RequestBodyType),
			},
		})
	}

	for _, response := range entry.Responses {
		for _, status := range response.SortedStatuses() {
			specResponse := spec.Response{
				ResponseProps: spec.ResponseProps{
					Description: http.StatusText(status),
				},
			}
			if response.EntityType != "" {
				specResponse.Schema = entitySchema(response.EntityType)
			}
			if headers := response.SortedHeaders(); len(headers) > 0 {
				specResponse.Headers = make(map[string]spec.Header, len(headers))
				for _, header := range headers {
					specResponse.Headers[header] = spec.Header{SimpleSchema: spec.SimpleSchema{Type: "string"}}
				}
			}
			if existing, ok := operation.Responses.StatusCodeResponses[status]; ok {
				mergeSwaggerResponse(&existing, &specResponse)
				operation.Responses.StatusCodeResponses[status] = existing
				continue
			}
			operation.Responses.StatusCodeResponses[status] = specResponse
		}
	}

	return operation
}

func mergeSwaggerResponse(dst, src *spec.Response) {
	if dst.Schema == nil {
		dst.Schema = src.Schema
	}
	for name, header := range src.Headers {
		if dst.Headers == nil {
			dst.Headers = make(map[string]spec.Header)
		}
		dst.Headers[name] = header
	}
}

func entitySchema(javaType string) *spec.Schema {
	schema := &spec.Schema{}
	if schemaType, format, ok := primitiveType(javaType); ok {
		schema.Type = spec.StringOrArray{schemaType}
		schema.Format = format
		return schema
	}
	schema.Type = spec.StringOrArray{"object"}
	schema.Title = simpleTypeName(javaType)
	return schema
}

// tagForPath derives a tag from the first path segment, title-cased.
func tagForPath(path string) string {
	for _, segment := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if segment == "" || strings.HasPrefix(segment, "{") {
			continue
		}
		return cases.Title(language.English).String(segment)
	}
	return ""
}
