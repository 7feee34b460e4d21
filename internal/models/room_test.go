package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectRoomIDIsOrderIndependent(t *testing.T) {
	assert.Equal(t, DirectRoomID("alice", "bob"), DirectRoomID("bob", "alice"))
	assert.Equal(t, "alice__bob", DirectRoomID("bob", "alice"))
}

func TestDirectPeer(t *testing.T) {
	roomID := DirectRoomID("alice", "bob")
	assert.Equal(t, "bob", DirectPeer(roomID, "alice"))
	assert.Equal(t, "alice", DirectPeer(roomID, "bob"))
	assert.Equal(t, "", DirectPeer(GroupRoomID, "alice"))
}
