// Package backend renders the assembled Resources into output documents:
// Swagger 2.0, OpenAPI 3 and a plain-text overview table.
package backend

import (
	"fmt"
	"strings"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// Backend renders a Resources value into one output document.
type Backend interface {
	// Name is the identifier used for backend selection and file naming.
	Name() string
	Render(resources *domain.Resources) ([]byte, error)
}

// ForName resolves a backend by its identifier.
func ForName(name string) (Backend, error) {
	switch name {
	case "swagger":
		return NewSwagger(), nil
	case "openapi":
		return NewOpenAPI(), nil
	case "plaintext":
		return NewPlainText(), nil
	}
	return nil, fmt.Errorf("unknown backend %q (swagger, openapi, plaintext)", name)
}

// primitiveType maps a Java type to a JSON schema primitive; ok is false
// for object types.
func primitiveType(javaType string) (schemaType, format string, ok bool) {
	switch javaType {
	case "java.lang.String", "char", "java.lang.Character":
		return "string", "", true
	case "int", "java.lang.Integer", "short", "java.lang.Short", "byte", "java.lang.Byte":
		return "integer", "int32", true
	case "long", "java.lang.Long", "java.math.BigInteger":
		return "integer", "int64", true
	case "boolean", "java.lang.Boolean":
		return "boolean", "", true
	case "float", "java.lang.Float":
		return "number", "float", true
	case "double", "java.lang.Double", "java.math.BigDecimal":
		return "number", "double", true
	}
	return "", "", false
}

// simpleTypeName strips the package from a Java type for display.
func simpleTypeName(javaType string) string {
	if idx := strings.LastIndex(javaType, "."); idx >= 0 {
		return javaType[idx+1:]
	}
	return javaType
}

// relativeTemplate strips the application path prefix so documents can
// carry it as the base path.
func relativeTemplate(template, applicationPath string) string {
	if applicationPath == "/" || applicationPath == "" {
		return template
	}
	rel := strings.TrimPrefix(template, applicationPath)
	if rel == "" {
		return "/"
	}
	return rel
}

// parameterLocation maps a binding kind to the document parameter location.
// Matrix parameters have no standard location and are not rendered.
func parameterLocation(kind domain.ParameterKind) (string, bool) {
	switch kind {
	case domain.BindingPath:
		return "path", true
	case domain.BindingQuery:
		return "query", true
	case domain.BindingHeader:
		return "header", true
	case domain.BindingForm:
		return "formData", true
	case domain.BindingCookie:
		return "cookie", true
	}
	return "", false
}
