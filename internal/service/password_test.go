package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/service"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := service.NewPasswordHasher(testBcryptCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := h.Verify("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	h := service.NewPasswordHasher(testBcryptCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_TooLong(t *testing.T) {
	h := service.NewPasswordHasher(testBcryptCost)

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := service.NewPasswordHasher(testBcryptCost)

	ok, err := h.Verify("anything", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}
