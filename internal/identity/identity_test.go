package identity

import (
	"context"
	"testing"

	"github.com/josephgoksu/DBAtlas/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(store.NewMemoryStore())

	name, err := p.Username(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)

	got, err := p.SetUsername(ctx, "  @octo-cat ")
	require.NoError(t, err)
	assert.Equal(t, "octo-cat", got)

	name, err = p.Username(ctx)
	require.NoError(t, err)
	assert.Equal(t, "octo-cat", name)

	require.NoError(t, p.Clear(ctx))
	name, err = p.Username(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)
	require.NoError(t, p.Clear(ctx))
}

func TestSetUsername_Rejects(t *testing.T) {
	p := NewProvider(store.NewMemoryStore())
	for _, bad := range []string{"", "-leading", "has space", "double--dash", "a_b"} {
		_, err := p.SetUsername(context.Background(), bad)
		assert.ErrorIs(t, err, ErrInvalidUsername, bad)
	}
}
