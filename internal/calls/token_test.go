package calls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("devkey", "secret")

	token, err := issuer.Issue("padmamangal-group", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, grant, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity)
	assert.True(t, grant.RoomJoin)
	assert.True(t, grant.CanPublish)
	assert.True(t, grant.CanSubscribe)
	assert.Equal(t, "padmamangal-group", grant.Room)
}

func TestIssueRequiresRoomAndIdentity(t *testing.T) {
	issuer := NewTokenIssuer("devkey", "secret")

	_, err := issuer.Issue("", "alice")
	assert.Error(t, err)

	_, err = issuer.Issue("room", "")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("devkey", "secret").Issue("room", "alice")
	require.NoError(t, err)

	_, _, err = NewTokenIssuer("devkey", "other-secret").Verify(token)
	assert.Error(t, err)
}
