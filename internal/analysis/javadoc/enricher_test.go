package javadoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/jaxdoc/internal/domain"
)

const usersSource = `package com.example;

/**
 * Manages user accounts.
 *
 * @author somebody
 */
@Path("/users")
public class Users {

    /**
     * Lists all users in the
     * current tenant.
     *
     * @return the user list
     */
    @GET
    public String list() {
        return "";
    }

    public String listInternal() {
        return "";
    }
}
`

func TestEnrich(t *testing.T) {
	t.Run("attaches class and method docs from source", func(t *testing.T) {
		sourceDir := t.TempDir()
		sourceFile := filepath.Join(sourceDir, "com", "example", "Users.java")
		require.NoError(t, os.MkdirAll(filepath.Dir(sourceFile), 0o755))
		require.NoError(t, os.WriteFile(sourceFile, []byte(usersSource), 0o644))

		class := &domain.ClassResult{OriginalClass: "com.example.Users"}
		class.AddMethod(&domain.MethodResult{MethodName: "list"})

		NewService().Enrich([]*domain.ClassResult{class}, nil, []string{sourceDir}, nil)

		assert.Equal(t, "Manages user accounts.", class.Doc)
		assert.Equal(t, "Lists all users in the current tenant.", class.Methods[0].Doc)
	})

	t.Run("missing sources leave results untouched", func(t *testing.T) {
		class := &domain.ClassResult{OriginalClass: "com.example.Users"}
		NewService().Enrich([]*domain.ClassResult{class}, nil, []string{t.TempDir()}, nil)
		assert.Empty(t, class.Doc)
	})

	t.Run("no source paths is a no-op", func(t *testing.T) {
		class := &domain.ClassResult{OriginalClass: "com.example.Users"}
		NewService().Enrich([]*domain.ClassResult{class}, nil, nil, nil)
		assert.Empty(t, class.Doc)
	})
}
