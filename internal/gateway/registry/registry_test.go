package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	echo := func(ctx context.Context, params json.RawMessage) (any, error) {
		return string(params), nil
	}

	r := New(map[string]Func{
		"echo": echo,
		"noop": func(ctx context.Context, params json.RawMessage) (any, error) { return nil, nil },
	})

	t.Run("known operation", func(t *testing.T) {
		fn, err := r.Resolve("echo")
		require.NoError(t, err)
		require.NotNil(t, fn)

		result, err := fn(context.Background(), json.RawMessage(`{"x":1}`))
		require.NoError(t, err)
		assert.Equal(t, `{"x":1}`, result)
	})

	t.Run("unknown operation", func(t *testing.T) {
		fn, err := r.Resolve("transcode")
		require.Error(t, err)
		assert.Nil(t, fn)
		assert.ErrorIs(t, err, domain.ErrUnknownOperation)
		assert.Contains(t, err.Error(), "transcode")
	})
}

func TestRegistry_Has(t *testing.T) {
	r := New(map[string]Func{
		"echo": func(ctx context.Context, params json.RawMessage) (any, error) { return nil, nil },
	})

	assert.True(t, r.Has("echo"))
	assert.False(t, r.Has("missing"))
}

func TestRegistry_Names(t *testing.T) {
	r := New(map[string]Func{
		"sleep":  func(ctx context.Context, params json.RawMessage) (any, error) { return nil, nil },
		"echo":   func(ctx context.Context, params json.RawMessage) (any, error) { return nil, nil },
		"digest": func(ctx context.Context, params json.RawMessage) (any, error) { return nil, nil },
	})

	assert.Equal(t, []string{"digest", "echo", "sleep"}, r.Names())
}

func TestRegistry_TableIsCopied(t *testing.T) {
	ops := map[string]Func{
		"echo": func(ctx context.Context, params json.RawMessage) (any, error) { return nil, nil },
	}

	r := New(ops)
	delete(ops, "echo")

	assert.True(t, r.Has("echo"), "mutating the source table must not affect the registry")
}
