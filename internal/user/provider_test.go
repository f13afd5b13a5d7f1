package user

import (
	"os"
	"path/filepath"
	"testing"

	"portfolio_engine/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	p := NewProvider([]model.User{
		{ID: "u1", Name: "Test User", Token: "t1"},
		{ID: "u2", Name: "No Token"},
	})

	u, err := p.GetUserByToken("t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Test User", u.Name)

	_, err = p.GetUserByToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.GetUserByToken("nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewStaticProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	content := "users:\n  - id: admin\n    name: Site Owner\n    token: secret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := NewStaticProvider(path)
	require.NoError(t, err)

	u, err := p.GetUserByToken("secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.ID)
	assert.Equal(t, "Site Owner", u.Name)
}

func TestNewStaticProvider_MissingFile(t *testing.T) {
	_, err := NewStaticProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
