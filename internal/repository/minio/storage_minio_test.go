package minio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

func TestObjectURL(t *testing.T) {
	client, err := NewClient("localhost:9000", "key", "secret", false)
	require.NoError(t, err)

	direct := NewStorage(client, "")
	require.Equal(t, "http://localhost:9000/profiles/users/a.png", direct.objectURL("profiles", "/users/a.png"))

	public := NewStorage(client, "https://cdn.example.com/")
	require.Equal(t, "https://cdn.example.com/profiles/users/a.png", public.objectURL("profiles", "users/a.png"))
}

func TestUnconfiguredStorageFailsClosed(t *testing.T) {
	var s *Storage
	_, err := s.Upload(context.Background(), "b", "o", "image/png", strings.NewReader("x"), 1)
	require.ErrorIs(t, err, ports.ErrNotConfigured)
	require.ErrorIs(t, s.Remove(context.Background(), "b", "o"), ports.ErrNotConfigured)
}
