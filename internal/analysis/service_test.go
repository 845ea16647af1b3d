package analysis_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/jaxdoc/internal/analysis"
	"github.com/griffnb/jaxdoc/internal/classfile/classfiletest"
	"github.com/griffnb/jaxdoc/internal/domain"
)

const (
	builderDescriptor  = "Ljavax/ws/rs/core/Response$ResponseBuilder;"
	responseDescriptor = "Ljavax/ws/rs/core/Response;"
)

func writeClass(t *testing.T, root, binaryName string, data []byte) {
	t.Helper()
	entry := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(binaryName, ".", "/"))+".class")
	require.NoError(t, os.MkdirAll(filepath.Dir(entry), 0o755))
	require.NoError(t, os.WriteFile(entry, data, 0o644))
}

// usersClass builds @Path("users/") class with one @GET method returning a
// string literal.
func usersClass() []byte {
	b := classfiletest.NewClass("com.example.Users")
	hello := b.StringConst("hello")
	body := classfiletest.NewAsm().Ldc(hello).Areturn().Bytes()
	b.Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "users/"))).
		AddMethod(classfiletest.NewMethod("list", "()Ljava/lang/String;").
			Annotate(classfiletest.Annotation("javax.ws.rs.GET")).
			Code(1, 1, body))
	return b.Bytes()
}

func applicationClass() []byte {
	return classfiletest.NewClass("com.example.App").
		Annotate(classfiletest.Annotation("javax.ws.rs.ApplicationPath", classfiletest.Str("value", "/api/"))).
		Bytes()
}

func TestAnalyze(t *testing.T) {
	t.Run("simple resource with application path", func(t *testing.T) {
		project := t.TempDir()
		writeClass(t, project, "com.example.Users", usersClass())
		writeClass(t, project, "com.example.App", applicationClass())

		service := analysis.New(&analysis.Config{ProjectClassPaths: []string{project}})
		resources, err := service.Analyze()
		require.NoError(t, err)

		assert.Equal(t, "/api", resources.ApplicationPath)
		require.Len(t, resources.Entries, 1)
		entry := resources.Entries[0]
		assert.Equal(t, "/api/users", entry.Template)
		assert.Equal(t, "GET", entry.Verb)
		require.Len(t, entry.Responses, 1)
		assert.Equal(t, []int{200}, entry.Responses[0].SortedStatuses())
		assert.Equal(t, "java.lang.String", entry.Responses[0].EntityType)
	})

	t.Run("no project class paths is a fatal configuration error", func(t *testing.T) {
		_, err := analysis.New(&analysis.Config{}).Analyze()
		assert.ErrorIs(t, err, domain.ErrInvalidLocation)
	})

	t.Run("missing locations fail fast", func(t *testing.T) {
		service := analysis.New(&analysis.Config{
			ProjectClassPaths: []string{filepath.Join(t.TempDir(), "nope")},
		})
		_, err := service.Analyze()
		assert.ErrorIs(t, err, domain.ErrInvalidLocation)
	})

	t.Run("annotated interface in a dependency location drives the concrete class", func(t *testing.T) {
		iface := classfiletest.NewInterface("com.lib.IOrders").
			AddMethod(classfiletest.NewMethod("all", "()"+responseDescriptor).Abstract().
				Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/orders"))).
				Annotate(classfiletest.Annotation("javax.ws.rs.GET"))).
			Bytes()

		impl := classfiletest.NewClass("com.example.Orders")
		ok := impl.MethodRef("javax.ws.rs.core.Response", "ok", "()"+builderDescriptor)
		build := impl.MethodRef("javax.ws.rs.core.Response$ResponseBuilder", "build", "()"+responseDescriptor)
		body := classfiletest.NewAsm().Invokestatic(ok).Invokevirtual(build).Areturn().Bytes()
		impl.Implements("com.lib.IOrders").
			AddMethod(classfiletest.NewMethod("all", "()"+responseDescriptor).Code(1, 1, body))

		project := t.TempDir()
		dependency := t.TempDir()
		writeClass(t, project, "com.example.Orders", impl.Bytes())
		writeClass(t, dependency, "com.lib.IOrders", iface)

		service := analysis.New(&analysis.Config{
			ProjectClassPaths:    []string{project},
			DependencyClassPaths: []string{dependency},
		})
		resources, err := service.Analyze()
		require.NoError(t, err)

		require.Len(t, resources.Entries, 1)
		entry := resources.Entries[0]
		assert.Equal(t, "/orders", entry.Template)
		assert.Equal(t, "GET", entry.Verb)
		require.Len(t, entry.Responses, 1)
		assert.Equal(t, []int{200}, entry.Responses[0].SortedStatuses())
	})

	t.Run("classes reached through calls are analyzed", func(t *testing.T) {
		helper := classfiletest.NewClass("com.example.Helper")
		status := helper.MethodRef("javax.ws.rs.core.Response", "status", "(I)"+builderDescriptor)
		build := helper.MethodRef("javax.ws.rs.core.Response$ResponseBuilder", "build", "()"+responseDescriptor)
		helperBody := classfiletest.NewAsm().Iconst(404).Invokestatic(status).Invokevirtual(build).Areturn().Bytes()
		helper.AddMethod(classfiletest.NewMethod("notFound", "()"+responseDescriptor).Static().Code(1, 0, helperBody))

		res := classfiletest.NewClass("com.example.Res")
		call := res.MethodRef("com.example.Helper", "notFound", "()"+responseDescriptor)
		mainBody := classfiletest.NewAsm().Invokestatic(call).Areturn().Bytes()
		res.Annotate(classfiletest.Annotation("javax.ws.rs.Path", classfiletest.Str("value", "/things"))).
			AddMethod(classfiletest.NewMethod("find", "()"+responseDescriptor).
				Annotate(classfiletest.Annotation("javax.ws.rs.GET")).
				Code(1, 1, mainBody))

		project := t.TempDir()
		writeClass(t, project, "com.example.Res", res.Bytes())
		writeClass(t, project, "com.example.Helper", helper.Bytes())

		service := analysis.New(&analysis.Config{ProjectClassPaths: []string{project}})
		resources, err := service.Analyze()
		require.NoError(t, err)

		require.Len(t, resources.Entries, 1)
		assert.Equal(t, []int{404}, resources.Entries[0].Responses[0].SortedStatuses())
	})

	t.Run("analysis is deterministic", func(t *testing.T) {
		project := t.TempDir()
		writeClass(t, project, "com.example.Users", usersClass())
		writeClass(t, project, "com.example.App", applicationClass())

		service := analysis.New(&analysis.Config{ProjectClassPaths: []string{project}})
		first, err := service.Analyze()
		require.NoError(t, err)
		second, err := service.Analyze()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unrelated classes do not change existing entries", func(t *testing.T) {
		project := t.TempDir()
		writeClass(t, project, "com.example.Users", usersClass())

		base, err := analysis.New(&analysis.Config{ProjectClassPaths: []string{project}}).Analyze()
		require.NoError(t, err)

		extended := t.TempDir()
		writeClass(t, extended, "com.example.Users", usersClass())
		writeClass(t, extended, "org.other.Plain", classfiletest.NewClass("org.other.Plain").Bytes())

		withExtra, err := analysis.New(&analysis.Config{ProjectClassPaths: []string{extended}}).Analyze()
		require.NoError(t, err)
		assert.Equal(t, base.Entries, withExtra.Entries)
	})

	t.Run("every emitted status lies in range or is the sentinel", func(t *testing.T) {
		project := t.TempDir()
		writeClass(t, project, "com.example.Users", usersClass())

		resources, err := analysis.New(&analysis.Config{ProjectClassPaths: []string{project}}).Analyze()
		require.NoError(t, err)
		for _, entry := range resources.Entries {
			for _, response := range entry.Responses {
				for status := range response.Statuses {
					valid := status == domain.UnknownStatus || (status >= 100 && status <= 599)
					assert.True(t, valid, "status %d out of range", status)
				}
			}
		}
	})
}
