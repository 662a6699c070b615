package utils

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := []byte("test-secret")
	id := uuid.Must(uuid.NewV4())

	token, err := GenerateToken(secret, time.Hour, id, "alice")
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
}

func TestValidateToken_Rejects(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	token, err := GenerateToken([]byte("one"), time.Hour, id, "alice")
	require.NoError(t, err)
	_, err = ValidateToken([]byte("two"), token)
	assert.Error(t, err)

	expired, err := GenerateToken([]byte("one"), -time.Minute, id, "alice")
	require.NoError(t, err)
	_, err = ValidateToken([]byte("one"), expired)
	assert.Error(t, err)
}
