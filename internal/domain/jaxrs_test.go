package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationMatching(t *testing.T) {
	t.Run("accepts both framework namespaces", func(t *testing.T) {
		assert.True(t, IsPathAnnotation("javax.ws.rs.Path"))
		assert.True(t, IsPathAnnotation("jakarta.ws.rs.Path"))
		assert.False(t, IsPathAnnotation("com.example.Path"))

		assert.True(t, IsApplicationPathAnnotation("jakarta.ws.rs.ApplicationPath"))
		assert.True(t, IsHttpMethodAnnotation("javax.ws.rs.HttpMethod"))
	})

	t.Run("resolves verb annotations", func(t *testing.T) {
		for _, verb := range []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH"} {
			resolved, ok := VerbForAnnotation("javax.ws.rs." + verb)
			require.True(t, ok, verb)
			assert.Equal(t, verb, resolved)
		}
		_, ok := VerbForAnnotation("javax.ws.rs.Path")
		assert.False(t, ok)
	})

	t.Run("resolves binding annotations", func(t *testing.T) {
		kind, ok := BindingForAnnotation("javax.ws.rs.PathParam")
		require.True(t, ok)
		assert.Equal(t, BindingPath, kind)

		kind, ok = BindingForAnnotation("jakarta.ws.rs.core.Context")
		require.True(t, ok)
		assert.Equal(t, BindingContext, kind)

		_, ok = BindingForAnnotation("javax.ws.rs.GET")
		assert.False(t, ok)
	})

	t.Run("recognizes response types", func(t *testing.T) {
		assert.True(t, IsResponseType("javax.ws.rs.core.Response"))
		assert.True(t, IsResponseBuilderType("jakarta.ws.rs.core.Response$ResponseBuilder"))
		assert.True(t, IsStatusEnumType("javax.ws.rs.core.Response$Status"))
		assert.False(t, IsResponseType("com.example.Response"))
	})
}

func TestStatusForConstant(t *testing.T) {
	code, ok := StatusForConstant("ACCEPTED")
	require.True(t, ok)
	assert.Equal(t, 202, code)

	code, ok = StatusForConstant("NOT_FOUND")
	require.True(t, ok)
	assert.Equal(t, 404, code)

	_, ok = StatusForConstant("NOT_A_STATUS")
	assert.False(t, ok)
}

func TestHttpResponseMerge(t *testing.T) {
	a := NewHttpResponse()
	a.Statuses[200] = struct{}{}
	a.Headers["X-A"] = struct{}{}

	b := NewHttpResponse()
	b.Statuses[404] = struct{}{}
	b.Headers["X-B"] = struct{}{}
	b.EntityType = "java.lang.String"

	a.Merge(b)
	assert.Equal(t, []int{200, 404}, a.SortedStatuses())
	assert.Equal(t, []string{"X-A", "X-B"}, a.SortedHeaders())
	assert.Equal(t, "java.lang.String", a.EntityType)
}

func TestMethodResultVerbs(t *testing.T) {
	m := &MethodResult{}
	m.AddVerb("GET")
	m.AddVerb("GET")
	m.AddVerb("POST")
	assert.Equal(t, []string{"GET", "POST"}, m.Verbs)
}

func TestIsResource(t *testing.T) {
	assert.False(t, (&ClassResult{}).IsResource())
	assert.True(t, (&ClassResult{Path: "/users"}).IsResource())

	c := &ClassResult{}
	c.AddMethod(&MethodResult{Verbs: []string{"GET"}})
	assert.True(t, c.IsResource())
}
