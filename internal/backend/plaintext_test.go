package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/jaxdoc/internal/domain"
)

func TestPlainTextRender(t *testing.T) {
	t.Run("renders an overview table", func(t *testing.T) {
		data, err := NewPlainText().Render(sampleResources())
		require.NoError(t, err)

		out := string(data)
		assert.Contains(t, out, "base path: /api")
		assert.Contains(t, out, "GET")
		assert.Contains(t, out, "/api/users/{id}")
		assert.Contains(t, out, "200 [String] (X-Test)")
		assert.Contains(t, out, "404")
	})

	t.Run("handles empty surfaces", func(t *testing.T) {
		data, err := NewPlainText().Render(&domain.Resources{ApplicationPath: "/"})
		require.NoError(t, err)
		assert.Contains(t, string(data), "no resources found")
	})
}
