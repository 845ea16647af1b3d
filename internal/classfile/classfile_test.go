package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/jaxdoc/internal/classfile"
	"github.com/griffnb/jaxdoc/internal/classfile/classfiletest"
)

func TestParse(t *testing.T) {
	t.Run("should parse class header", func(t *testing.T) {
		data := classfiletest.NewClass("com.example.Orders").
			Super("com.example.Base").
			Implements("com.example.IOrders", "java.io.Serializable").
			Bytes()

		class, err := classfile.Parse(data)
		require.NoError(t, err)

		assert.Equal(t, "com/example/Orders", class.Name())
		assert.Equal(t, "com.example.Orders", class.BinaryName())
		assert.Equal(t, "com/example/Base", class.SuperName())
		assert.Equal(t, []string{"com/example/IOrders", "java/io/Serializable"}, class.InterfaceNames())
	})

	t.Run("should reject bad magic", func(t *testing.T) {
		_, err := classfile.Parse([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0})
		assert.Error(t, err)
	})

	t.Run("should reject truncated input", func(t *testing.T) {
		data := classfiletest.NewClass("com.example.Orders").Bytes()
		_, err := classfile.Parse(data[:len(data)-6])
		assert.Error(t, err)
	})

	t.Run("should parse class annotations with elements", func(t *testing.T) {
		data := classfiletest.NewClass("com.example.Users").
			Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/users"))).
			Annotate(classfiletest.Annotation("javax.ws.rs.Produces",
				classfiletest.StrArray("value", "application/json", "application/xml"))).
			Bytes()

		class, err := classfile.Parse(data)
		require.NoError(t, err)

		annotations := class.Annotations()
		require.Len(t, annotations, 2)
		assert.Equal(t, "javax.ws.rs.Path", annotations[0].Type)
		path, ok := annotations[0].String("value")
		require.True(t, ok)
		assert.Equal(t, "/users", path)

		assert.Equal(t, "javax.ws.rs.Produces", annotations[1].Type)
		assert.Equal(t, []string{"application/json", "application/xml"}, annotations[1].Strings("value"))
	})

	t.Run("should parse fields and methods with annotations", func(t *testing.T) {
		data := classfiletest.NewClass("com.example.Users").
			Field("tenant", "Ljava/lang/String;",
				classfiletest.Annotation("javax.ws.rs.QueryParam", classfiletest.Str("value", "tenant"))).
			AddMethod(classfiletest.NewMethod("list", "()Ljava/lang/String;").
				Annotate(classfiletest.Annotation("javax.ws.rs.GET")).
				AnnotateParam(0, classfiletest.Annotation("javax.ws.rs.PathParam", classfiletest.Str("value", "id")))).
			Bytes()

		class, err := classfile.Parse(data)
		require.NoError(t, err)

		require.Len(t, class.Fields, 1)
		field := class.Fields[0]
		assert.Equal(t, "tenant", field.Name)
		fieldAnns := field.Annotations(&class.Pool)
		require.Len(t, fieldAnns, 1)
		assert.Equal(t, "javax.ws.rs.QueryParam", fieldAnns[0].Type)

		method := class.Method("list", "()Ljava/lang/String;")
		require.NotNil(t, method)
		methodAnns := method.Annotations(&class.Pool)
		require.Len(t, methodAnns, 1)
		assert.Equal(t, "javax.ws.rs.GET", methodAnns[0].Type)

		paramAnns := method.ParameterAnnotations(&class.Pool)
		require.Len(t, paramAnns, 1)
		require.Len(t, paramAnns[0], 1)
		assert.Equal(t, "javax.ws.rs.PathParam", paramAnns[0][0].Type)
	})

	t.Run("should decode method bodies", func(t *testing.T) {
		builder := classfiletest.NewClass("com.example.Users")
		stringRef := builder.StringConst("hello")
		body := classfiletest.NewAsm().Ldc(stringRef).Areturn().Bytes()
		builder.AddMethod(classfiletest.NewMethod("greet", "()Ljava/lang/String;").Code(1, 1, body))

		class, err := classfile.Parse(builder.Bytes())
		require.NoError(t, err)

		method := class.Method("greet", "")
		require.NotNil(t, method)
		code := method.Code(&class.Pool)
		require.NotNil(t, code)
		assert.Equal(t, 1, code.MaxStack)
		require.Len(t, code.Instructions, 2)
		assert.Equal(t, classfile.OpLdcW, code.Instructions[0].Op)
		assert.Equal(t, classfile.OpAreturn, code.Instructions[1].Op)

		value, ok := class.Pool.String(uint16(code.Instructions[0].Index))
		require.True(t, ok)
		assert.Equal(t, "hello", value)
	})
}

func TestNameConversion(t *testing.T) {
	assert.Equal(t, "a.b.C", classfile.ToBinaryName("a/b/C"))
	assert.Equal(t, "a/b/C", classfile.ToInternalName("a.b.C"))
}
