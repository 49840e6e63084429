package auth_test

import (
	"testing"

	"github.com/hugh/go-rental/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3nha-segura")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha-segura", hash)

	again, err := auth.HashPassword("s3nha-segura")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")

	_, err = auth.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrEmptyPassword)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3nha-segura")
	require.NoError(t, err)

	assert.NoError(t, auth.VerifyPassword(hash, "s3nha-segura"))

	for _, wrong := range []string{"", "s3nha-segur", "s3nha-segura ", "S3NHA-SEGURA", "other"} {
		assert.ErrorIs(t, auth.VerifyPassword(hash, wrong), auth.ErrInvalidCredentials, "password %q", wrong)
	}

	assert.ErrorIs(t, auth.VerifyPassword("not-a-bcrypt-hash", "s3nha-segura"), auth.ErrInvalidCredentials)
}
