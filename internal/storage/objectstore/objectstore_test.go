package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareCardKey(t *testing.T) {
	assert.Equal(t, "client/abc/share/roast_1-7.png", ShareCardKey("client:abc:", "roast_1", 7))
	assert.Equal(t, "share/roast_1-0.png", ShareCardKey("", "roast_1", 0))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("http://localhost:8080/objects/")

	_, err := m.URL(ctx, "missing.png")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Put(ctx, "a/b.png", []byte{1, 2, 3}, "image/png"))
	u, err := m.URL(ctx, "a/b.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/objects/a/b.png", u)

	body, ct, err := m.Get("a/b.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, body)
	assert.Equal(t, "image/png", ct)
}

func TestNewS3Validates(t *testing.T) {
	_, err := NewS3(S3Config{})
	require.Error(t, err)
	_, err = NewS3(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.Error(t, err)

	s, err := NewS3(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "cards", PublicBaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	u, err := s.URL(context.Background(), "/x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.png", u)
}
