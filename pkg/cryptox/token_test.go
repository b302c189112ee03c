package cryptox

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]+$`)

func TestGenerateInviteToken(t *testing.T) {
	t.Parallel()

	t.Run("produces lowercase hex of the requested length", func(t *testing.T) {
		token, err := GenerateInviteToken(InviteTokenLength)
		require.NoError(t, err)
		require.Len(t, token, InviteTokenLength)
		require.Regexp(t, hexPattern, token)
	})

	t.Run("handles odd lengths", func(t *testing.T) {
		token, err := GenerateInviteToken(47)
		require.NoError(t, err)
		require.Len(t, token, 47)
	})

	t.Run("rejects non-positive lengths", func(t *testing.T) {
		_, err := GenerateInviteToken(0)
		require.Error(t, err)
	})

	t.Run("never repeats in practice", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			token := MustGenerateInviteToken(InviteTokenLength)
			_, dup := seen[token]
			require.False(t, dup, "duplicate token generated")
			seen[token] = struct{}{}
		}
	})
}
