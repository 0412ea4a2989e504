package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useArrayKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	orig := openKeyring
	openKeyring = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { openKeyring = orig })
}

func TestSetGetDelete(t *testing.T) {
	useArrayKeyring(t)

	require.NoError(t, Set(TokenKey, "tok"))
	got, err := Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, Delete(TokenKey))
	_, err = Get(TokenKey)
	assert.ErrorIs(t, err, keyring.ErrKeyNotFound)
}

func TestToken_EnvironmentWins(t *testing.T) {
	useArrayKeyring(t)
	require.NoError(t, Set(TokenKey, "from-keyring"))

	t.Setenv("EDGEINBOX_TOKEN", "")
	t.Setenv("LIBSQL_CLIENT_TOKEN", "from-env")
	got, err := Token()
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	t.Setenv("LIBSQL_CLIENT_TOKEN", "")
	got, err = Token()
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", got)
}
