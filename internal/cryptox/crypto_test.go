package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	passphrase := []byte("device-passphrase")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveKey(passphrase, salt)
	key2 := DeriveKey(passphrase, salt)

	require.Len(t, key1, KeySize)
	require.True(t, bytes.Equal(key1, key2), "same inputs must derive the same key")
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	passphrase := []byte("device-passphrase")

	key1 := DeriveKey(passphrase, []byte("salt-1"))
	key2 := DeriveKey(passphrase, []byte("salt-2"))

	require.False(t, bytes.Equal(key1, key2))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("p"), []byte("s"))
	plaintext := []byte(`{"id":"B1","email":"buyer@example.com"}`)

	sealed, err := Seal(plaintext, key)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "buyer@example.com")

	opened, err := Open(sealed, key)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := DeriveKey([]byte("p"), []byte("s"))

	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	sealed, err := Seal([]byte("secret"), DeriveKey([]byte("right"), []byte("s")))
	require.NoError(t, err)

	_, err = Open(sealed, DeriveKey([]byte("wrong"), []byte("s")))
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	_, err := Open([]byte{1, 2, 3}, DeriveKey([]byte("p"), []byte("s")))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
}
