package classes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/jaxdoc/internal/classfile/classfiletest"
)

func TestSupertypeResolution(t *testing.T) {
	t.Run("should inherit annotations from an implemented interface", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.IOrders": classfiletest.NewInterface("com.example.IOrders").
				AddMethod(classfiletest.NewMethod("all", "()Ljavax/ws/rs/core/Response;").Abstract().
					Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/orders"))).
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				Bytes(),
			"com.example.Orders": classfiletest.NewClass("com.example.Orders").
				Implements("com.example.IOrders").
				AddMethod(classfiletest.NewMethod("all", "()Ljavax/ws/rs/core/Response;")).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Orders")
		require.Len(t, result.Methods, 1)
		method := result.Methods[0]
		assert.Equal(t, []string{"GET"}, method.Verbs)
		assert.Equal(t, "/orders", method.Path)
		assert.True(t, method.AnnotationsInherited)
	})

	t.Run("should inherit through the superclass chain", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Base": classfiletest.NewClass("com.example.Base").
				AddMethod(classfiletest.NewMethod("get", "()Ljava/lang/String;").
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				Bytes(),
			"com.example.Mid": classfiletest.NewClass("com.example.Mid").
				Super("com.example.Base").
				Bytes(),
			"com.example.Leaf": classfiletest.NewClass("com.example.Leaf").
				Super("com.example.Mid").
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/leaf"))).
				AddMethod(classfiletest.NewMethod("get", "()Ljava/lang/String;")).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Leaf")
		require.Len(t, result.Methods, 1)
		assert.Equal(t, []string{"GET"}, result.Methods[0].Verbs)
	})

	t.Run("should require a compatible signature", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.IOrders": classfiletest.NewInterface("com.example.IOrders").
				AddMethod(classfiletest.NewMethod("all", "(I)Ljavax/ws/rs/core/Response;").Abstract().
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				Bytes(),
			"com.example.Orders": classfiletest.NewClass("com.example.Orders").
				Implements("com.example.IOrders").
				AddMethod(classfiletest.NewMethod("all", "()Ljavax/ws/rs/core/Response;")).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Orders")
		assert.Empty(t, result.Methods)
	})

	t.Run("should skip unloadable supertypes", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.Orders": classfiletest.NewClass("com.example.Orders").
				Implements("com.example.Missing").
				AddMethod(classfiletest.NewMethod("all", "()Ljavax/ws/rs/core/Response;")).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Orders")
		assert.Empty(t, result.Methods)
	})

	t.Run("first match wins across a diamond", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.A": classfiletest.NewInterface("com.example.A").
				AddMethod(classfiletest.NewMethod("all", "()Ljava/lang/String;").Abstract().
					Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
				Bytes(),
			"com.example.B": classfiletest.NewInterface("com.example.B").
				AddMethod(classfiletest.NewMethod("all", "()Ljava/lang/String;").Abstract().
					Annotate(classfiletest.Annotation("javax.ws.rs.POST"))).
				Bytes(),
			"com.example.Orders": classfiletest.NewClass("com.example.Orders").
				Implements("com.example.A", "com.example.B").
				AddMethod(classfiletest.NewMethod("all", "()Ljava/lang/String;")).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Orders")
		require.Len(t, result.Methods, 1)
		assert.Equal(t, []string{"GET"}, result.Methods[0].Verbs)
	})

	t.Run("inherits parameter bindings declared on the interface", func(t *testing.T) {
		provider := fakeProvider{
			"com.example.IOrders": classfiletest.NewInterface("com.example.IOrders").
				AddMethod(classfiletest.NewMethod("byID", "(Ljava/lang/String;)Ljava/lang/String;").Abstract().
					Annotate(classfiletest.Annotation("javax.ws.rs.GET")).
					AnnotateParam(0, classfiletest.Annotation("javax.ws.rs.PathParam", classfiletest.Str("value", "id")))).
				Bytes(),
			"com.example.Orders": classfiletest.NewClass("com.example.Orders").
				Implements("com.example.IOrders").
				AddMethod(classfiletest.NewMethod("byID", "(Ljava/lang/String;)Ljava/lang/String;")).
				Bytes(),
		}

		result := analyze(t, provider, "com.example.Orders")
		require.Len(t, result.Methods, 1)
		params := result.Methods[0].Parameters
		require.Len(t, params, 1)
		assert.Equal(t, "id", params[0].Name)
	})
}
