package backend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// OpenAPI renders an OpenAPI 3 document.
type OpenAPI struct {
	title   string
	version string
}

// NewOpenAPI creates the OpenAPI 3 backend.
func NewOpenAPI() *OpenAPI {
	return &OpenAPI{title: "REST resources", version: "1.0"}
}

// SetInfo overrides the document title and version.
func (b *OpenAPI) SetInfo(title, version string) {
	b.title = title
	b.version = version
}

// Name implements Backend.
func (b *OpenAPI) Name() string { return "openapi" }

// Render implements Backend.
func (b *OpenAPI) Render(resources *domain.Resources) ([]byte, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   b.title,
			Version: b.version,
		},
		Paths: openapi3.NewPaths(),
	}
	if resources.ApplicationPath != "" && resources.ApplicationPath != "/" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: resources.ApplicationPath}}
	}

	for i := range resources.Entries {
		entry := &resources.Entries[i]
		path := relativeTemplate(entry.Template, resources.ApplicationPath)

		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}
		item.SetOperation(entry.Verb, b.buildOperation(entry))
	}

	return json.MarshalIndent(doc, "", "    ")
}

func (b *OpenAPI) buildOperation(entry *domain.ResourceEntry) *openapi3.Operation {
	operation := openapi3.NewOperation()
	operation.Summary = entry.Doc
	operation.Responses = openapi3.NewResponses()

	for _, binding := range entry.Parameters {
		location, ok := parameterLocation(binding.Kind)
		if !ok || location == "formData" {
			// Form fields belong to the request body in OpenAPI 3.
			continue
		}
		operation.Parameters = append(operation.Parameters, &openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:     binding.Name,
				In:       location,
				Required: location == "path",
				Schema:   &openapi3.SchemaRef{Value: openAPISchema(binding.JavaType)},
			},
		})
	}

	if entry.RequestBodyType != "" {
		content := openapi3.Content{}
		for _, mediaType := range entry.RequestMediaTypes {
			content[mediaType] = &openapi3.MediaType{
				Schema: &openapi3.SchemaRef{Value: openAPISchema(entry.RequestBodyType)},
			}
		}
		operation.RequestBody = &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{Required: true, Content: content},
		}
	}

	for _, response := range entry.Responses {
		for _, status := range response.SortedStatuses() {
			description := http.StatusText(status)
			value := &openapi3.Response{Description: &description}
			if response.EntityType != "" {
				value.Content = openapi3.Content{}
				for _, mediaType := range entry.ResponseMediaTypes {
					value.Content[mediaType] = &openapi3.MediaType{
						Schema: &openapi3.SchemaRef{Value: openAPISchema(response.EntityType)},
					}
				}
			}
			if headers := response.SortedHeaders(); len(headers) > 0 {
				value.Headers = openapi3.Headers{}
				for _, header := range headers {
					value.Headers[header] = &openapi3.HeaderRef{
						Value: &openapi3.Header{
							Parameter: openapi3.Parameter{
								Schema: &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
							},
						},
					}
				}
			}
			operation.Responses.Set(fmt.Sprintf("%d", status), &openapi3.ResponseRef{Value: value})
		}
	}

	return operation
}

func openAPISchema(javaType string) *openapi3.Schema {
	if schemaType, format, ok := primitiveType(javaType); ok {
		return &openapi3.Schema{
			Type:   &openapi3.Types{schemaType},
			Format: format,
		}
	}
	return &openapi3.Schema{
		Type:  &openapi3.Types{openapi3.TypeObject},
		Title: simpleTypeName(javaType),
	}
}
