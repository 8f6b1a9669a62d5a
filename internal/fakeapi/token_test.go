package fakeapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := generateToken("ada@example.com", secret, time.Minute)
	require.NoError(t, err)

	email, err := emailFromToken(tok, secret)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", email)
}

func TestToken_WrongSecret(t *testing.T) {
	tok, err := generateToken("ada@example.com", []byte("a"), time.Minute)
	require.NoError(t, err)

	_, err = emailFromToken(tok, []byte("b"))
	require.Error(t, err)
}

func TestToken_Expired(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := generateToken("ada@example.com", secret, -time.Minute)
	require.NoError(t, err)

	_, err = emailFromToken(tok, secret)
	require.Error(t, err)
}

func TestToken_Garbage(t *testing.T) {
	_, err := emailFromToken("not-a-jwt", []byte("s3cret"))
	require.Error(t, err)
}
