package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	t.Run("diverging int literals widen to primitive", func(t *testing.T) {
		joined := join(intValue(200), intValue(404))
		assert.Equal(t, kindPrimitive, joined.kind)

		joined = join(intValue(200), intValue(200))
		assert.Equal(t, kindIntLit, joined.kind)
		assert.Equal(t, int64(200), joined.i)
	})

	t.Run("diverging strings keep the string type", func(t *testing.T) {
		joined := join(stringValue("a"), stringValue("b"))
		assert.Equal(t, kindTypeRef, joined.kind)
		assert.Equal(t, "java.lang.String", joined.typeName())
	})

	t.Run("builder states union per field", func(t *testing.T) {
		a := newBuilderState()
		a.statuses[200] = struct{}{}
		a.headers["X-A"] = struct{}{}
		b := newBuilderState()
		b.statuses[404] = struct{}{}

		joined := join(value{kind: kindBuilder, state: a}, value{kind: kindBuilder, state: b})
		require.Equal(t, kindBuilder, joined.kind)
		assert.Len(t, joined.state.statuses, 2)
		assert.Len(t, joined.state.headers, 1)
	})

	t.Run("null joins to the other side", func(t *testing.T) {
		joined := join(value{kind: kindNull}, stringValue("x"))
		assert.Equal(t, kindStringLit, joined.kind)
	})

	t.Run("mismatched kinds widen to unknown", func(t *testing.T) {
		joined := join(intValue(1), stringValue("x"))
		assert.Equal(t, kindUnknown, joined.kind)
	})
}

func TestBuilderStateResponse(t *testing.T) {
	state := newBuilderState()
	resp := state.response()
	assert.Equal(t, []int{200}, resp.SortedStatuses(), "empty status set defaults to 200")

	state.statuses[404] = struct{}{}
	resp = state.response()
	assert.Equal(t, []int{404}, resp.SortedStatuses())
}
