package classes_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/jaxdoc/internal/analysis/classes"
	"github.com/griffnb/jaxdoc/internal/classfile/classfiletest"
	"github.com/griffnb/jaxdoc/internal/domain"
)

type fakeProvider map[string][]byte

func (p fakeProvider) ReadClass(binaryName string) ([]byte, error) {
	data, ok := p[binaryName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrClassNotFound, binaryName)
	}
	return data, nil
}

func (p fakeProvider) Contains(binaryName string) bool {
	_, ok := p[binaryName]
	return ok
}

func newAnalyzer(provider fakeProvider) *classes.Service {
	return classes.NewService(classes.NewResolver(provider))
}

func analyze(t *testing.T, provider fakeProvider, binaryName string) *domain.ClassResult {
	t.Helper()
	result := &domain.ClassResult{OriginalClass: binaryName}
	require.NoError(t, newAnalyzer(provider).Analyze(binaryName, result))
	return result
}

func TestAnalyze(t *testing.T) {
	t.Run("should extract class-level annotations", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				Annotate(classfiletest.Annotation("javax.ws.rs.Consumes", classfiletest.StrArray("value", "application/json"))).
				Annotate(classfiletest.Annotation("javax.ws.rs.Produces", classfiletest.StrArray("value", "application/json"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		assert.Equal(t, "/users", result.Path)
		assert.Equal(t, []string{"application/json"}, result.RequestMediaTypes)
		assert.Equal(t, []string{"application/json"}, result.ResponseMediaTypes)
		assert.False(t, result.HasApplicationPath)
	})

	t.Run("should mark the application root", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.App": classfiletest.NewClass("com.example.App").
				Annotate(classfiletest.Annotation("jakarta.ws.rs.ApplicationPath", classfiletest.Str("value", "/api"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.App")
		assert.True(t, result.HasApplicationPath)
		assert.Equal(t, "/api", result.ApplicationPath)
	})

	t.Run("should extract a simple resource method", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				AddMethod(classfiletest.NewMethod("list", "()Ljava/lang/String;").
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		require.Len(t, result.Methods, 1)
		method := result.Methods[0]
		assert.Equal(t, "list", method.MethodName)
		assert.Equal(t, []string{"GET"}, method.Verbs)
		assert.Equal(t, "java.lang.String", method.ReturnType)
		assert.False(t, method.AnnotationsInherited)
		assert.Same(t, result, method.Parent)
	})

	t.Run("should expand multiple verb annotations on one method", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				AddMethod(classfiletest.NewMethod("upsert", "()V").
					Annotate(classfiletest.Annotation("javax.ws.rs.PUT")).
					Annotate(classfiletest.Annotation("javax.ws.rs.POST"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		require.Len(t, result.Methods, 1)
		assert.Equal(t, []string{"PUT", "POST"}, result.Methods[0].Verbs)
	})

	t.Run("should resolve custom verbs through the http-method meta-annotation", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.PING": classfiletest.NewAnnotationType("com.example.PING").
				Annotate(classfiletest.Annotation("javax.ws.rs.HttpMethod", classfiletest.Str("value", "PING"))).
				Bytes(),
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				AddMethod(classfiletest.NewMethod("ping", "()V").
					Annotate(classfiletest.Annotation("com.example.PING"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		require.Len(t, result.Methods, 1)
		assert.Equal(t, []string{"PING"}, result.Methods[0].Verbs)
	})

	t.Run("a custom verb annotation plus the matching direct verb emits one verb", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.FETCH": classfiletest.NewAnnotationType("com.example.FETCH").
				Annotate(classfiletest.Annotation("javax.ws.rs.HttpMethod", classfiletest.Str("value", "GET"))).
				Bytes(),
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				AddMethod(classfiletest.NewMethod("list", "()V").
					Annotate(classfiletest.Annotation("javax.ws.rs.GET")).
					Annotate(classfiletest.Annotation("com.example.FETCH"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		require.Len(t, result.Methods, 1)
		assert.Equal(t, []string{"GET"}, result.Methods[0].Verbs)
	})

	t.Run("should skip constructors, static and synthetic methods", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				AddMethod(classfiletest.NewMethod("<init>", "()V").
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				AddMethod(classfiletest.NewMethod("helper", "()V").Static().
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				AddMethod(classfiletest.NewMethod("bridge", "()V").Synthetic().
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		assert.Empty(t, result.Methods)
	})

	t.Run("should bind parameters in declaration order with one body", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				AddMethod(classfiletest.NewMethod("update", "(Ljava/lang/String;Lcom/example/User;Lcom/example/User;I)V").
					Annotate(classfiletest.Annotation("javax.ws.rs.PUT")).
					AnnotateParam(0, classfiletest.Annotation("javax.ws.rs.PathParam", classfiletest.Str("value", "id"))).
					AnnotateParam(3, classfiletest.Annotation("javax.ws.rs.QueryParam", classfiletest.Str("value", "limit"))).
					AnnotateParam(3, classfiletest.Annotation("javax.ws.rs.DefaultValue", classfiletest.Str("value", "10")))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		require.Len(t, result.Methods, 1)
		params := result.Methods[0].Parameters

		// the second unannotated parameter is dropped
		require.Len(t, params, 3)
		assert.Equal(t, domain.BindingPath, params[0].Kind)
		assert.Equal(t, "id", params[0].Name)
		assert.Equal(t, "java.lang.String", params[0].JavaType)

		assert.Equal(t, domain.BindingBody, params[1].Kind)
		assert.Equal(t, "com.example.User", params[1].JavaType)

		assert.Equal(t, domain.BindingQuery, params[2].Kind)
		assert.Equal(t, "limit", params[2].Name)
		assert.Equal(t, "10", params[2].DefaultValue)
		assert.Equal(t, "int", params[2].JavaType)
	})

	t.Run("context parameters never take the body slot", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				AddMethod(classfiletest.NewMethod("create", "(Ljavax/ws/rs/core/UriInfo;Lcom/example/User;)V").
					Annotate(classfiletest.Annotation("javax.ws.rs.POST")).
					AnnotateParam(0, classfiletest.Annotation("javax.ws.rs.core.Context"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		require.Len(t, result.Methods, 1)
		params := result.Methods[0].Parameters
		require.Len(t, params, 2)
		assert.Equal(t, domain.BindingContext, params[0].Kind)
		assert.Equal(t, domain.BindingBody, params[1].Kind)
	})

	t.Run("should record instance field bindings only", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Users": classfiletest.NewClass("com.example.Users").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
				Field("tenant", "Ljava/lang/String;",
					classfiletest.Annotation("javax.ws.rs.QueryParam", classfiletest.Str("value", "tenant"))).
				Field("plain", "I").
				StaticField("shared", "Ljava/lang/String;",
					classfiletest.Annotation("javax.ws.rs.QueryParam", classfiletest.Str("value", "shared"))).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Users")
		require.Len(t, result.Fields, 1)
		assert.Equal(t, domain.BindingQuery, result.Fields[0].Kind)
		assert.Equal(t, "tenant", result.Fields[0].Name)
		assert.Equal(t, "java.lang.String", result.Fields[0].JavaType)
	})

	t.Run("should fail on malformed class files", func(t *testing.T) {
		provider := fakeProvider{"com.example.Bad": {0xDE, 0xAD}}
		err := newAnalyzer(provider).Analyze("com.example.Bad", &domain.ClassResult{})
		assert.ErrorIs(t, err, domain.ErrMalformedClassFile)
	})
}
