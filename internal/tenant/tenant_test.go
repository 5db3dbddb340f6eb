package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRegistry(t *testing.T) {
	r, err := NewStaticRegistry([]Tenant{
		{Cloudname: "acme", Bucket: "acme-images"},
		{Cloudname: "globex", Bucket: "shared"},
		{Cloudname: "initech", Bucket: "shared"},
	})
	require.NoError(t, err)

	got, err := r.Lookup(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme-images", got.Bucket)

	_, err = r.Lookup(context.Background(), "umbrella")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"acme-images", "shared"}, r.Buckets())
}

func TestNewStaticRegistry_Duplicate(t *testing.T) {
	_, err := NewStaticRegistry([]Tenant{
		{Cloudname: "acme", Bucket: "a"},
		{Cloudname: "acme", Bucket: "b"},
	})
	assert.Error(t, err)
}
