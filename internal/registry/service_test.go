package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	t.Run("enqueue is idempotent by binary name", func(t *testing.T) {
		s := NewService()
		first := s.Enqueue("com.example.Users")
		second := s.Enqueue("com.example.Users")
		assert.Same(t, first, second)
		assert.Len(t, s.Results(), 1)
	})

	t.Run("drains in first-enqueue order", func(t *testing.T) {
		s := NewService()
		s.Enqueue("a.A")
		s.Enqueue("b.B")
		s.Enqueue("a.A")
		s.Enqueue("c.C")

		var drained []string
		for {
			name, result, ok := s.NextPending()
			if !ok {
				break
			}
			require.NotNil(t, result)
			drained = append(drained, name)
			s.MarkDone(name)
		}
		assert.Equal(t, []string{"a.A", "b.B", "c.C"}, drained)
	})

	t.Run("classes enqueued during the drain join the tail", func(t *testing.T) {
		s := NewService()
		s.Enqueue("a.A")

		name, _, ok := s.NextPending()
		require.True(t, ok)
		require.Equal(t, "a.A", name)

		s.Enqueue("b.B")
		s.MarkDone("a.A")

		name, _, ok = s.NextPending()
		require.True(t, ok)
		assert.Equal(t, "b.B", name)

		_, _, ok = s.NextPending()
		assert.False(t, ok)
	})

	t.Run("in-progress entries are not handed out twice", func(t *testing.T) {
		s := NewService()
		s.Enqueue("a.A")
		_, _, ok := s.NextPending()
		require.True(t, ok)
		_, _, ok = s.NextPending()
		assert.False(t, ok)
	})

	t.Run("result carries the binary class name", func(t *testing.T) {
		s := NewService()
		result := s.Enqueue("com.example.Users")
		assert.Equal(t, "com.example.Users", result.OriginalClass)
	})
}
