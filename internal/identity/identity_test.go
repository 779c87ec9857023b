package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	pub, priv, err := Generate()
	require.NoError(t, err)
	require.False(t, pub.IsZero())
	require.Equal(t, pub, FromPrivate(priv))

	parsed, err := Parse(pub.String())
	require.NoError(t, err)
	require.Equal(t, pub, parsed)
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse("zzzz")
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = Parse("abcdef")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestSignVerify(t *testing.T) {
	pub, priv, err := Generate()
	require.NoError(t, err)

	msg := OperationMessage("contribute", pub.Bytes(), []byte{1, 2, 3})
	sig := Sign(priv, msg)
	require.NoError(t, Verify(pub, msg, sig))
}

func TestVerifyRejectsTampering(t *testing.T) {
	pub, priv, err := Generate()
	require.NoError(t, err)

	msg := OperationMessage("finalize_project", pub.Bytes())
	sig := Sign(priv, msg)

	other := OperationMessage("claim_refund", pub.Bytes())
	require.ErrorIs(t, Verify(pub, other, sig), ErrInvalidSignature)

	sig[0] ^= 0xff
	require.ErrorIs(t, Verify(pub, msg, sig), ErrInvalidSignature)

	require.ErrorIs(t, Verify(pub, msg, []byte("short")), ErrInvalidSignature)
}

func TestOperationMessageFieldBoundaries(t *testing.T) {
	// ["ab","c"] and ["a","bc"] must encode differently.
	a := OperationMessage("op", []byte("ab"), []byte("c"))
	b := OperationMessage("op", []byte("a"), []byte("bc"))
	require.NotEqual(t, a, b)
}
