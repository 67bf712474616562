package gumble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserState_FirstMessageDefaultsChannelToZero(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 0})

	c.dispatch(&UserStateMessage{Session: 7, Name: strPtr("Alice")})

	u := c.UserBySession(7)
	require.NotNil(t, u)
	root := c.ChannelByID(0)
	require.NotNil(t, u.Channel())
	assert.Same(t, root, u.Channel())
	assert.Contains(t, root.Users(), u)

	require.Len(t, listener.newUsers, 1)
	changes := listener.snapshotUserChanges()
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Changes["channel_id"])
}

func TestUserState_SubsequentOmittedChannelPreservesPrevious(t *testing.T) {
	c, _ := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 0})
	c.dispatch(&ChannelStateMessage{ChannelID: 3})
	c.dispatch(&UserStateMessage{Session: 7, Name: strPtr("Alice"), ChannelID: u32Ptr(3)})

	c.dispatch(&UserStateMessage{Session: 7, Mute: boolPtr(true)})

	u := c.UserBySession(7)
	ch3 := c.ChannelByID(3)
	assert.Same(t, ch3, u.Channel())
	assert.True(t, u.Mute())
}

func TestUserState_MembershipReconciliationOnChannelMove(t *testing.T) {
	c, _ := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 0})
	c.dispatch(&ChannelStateMessage{ChannelID: 9})
	c.dispatch(&UserStateMessage{Session: 7, Name: strPtr("Alice")})

	root := c.ChannelByID(0)
	other := c.ChannelByID(9)
	require.Contains(t, root.Users(), c.UserBySession(7))

	c.dispatch(&UserStateMessage{Session: 7, ChannelID: u32Ptr(9)})

	assert.NotContains(t, root.Users(), c.UserBySession(7))
	assert.Contains(t, other.Users(), c.UserBySession(7))
}

func TestUserRemove_PreservesOtherUsers(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 0})
	c.dispatch(&UserStateMessage{Session: 1, Name: strPtr("Actor")})
	c.dispatch(&UserStateMessage{Session: 42, Name: strPtr("Target")})

	c.dispatch(&UserRemoveMessage{Session: 42, Actor: u32Ptr(1), Reason: strPtr("Reason"), Ban: true})

	assert.Nil(t, c.UserBySession(42))
	remaining := c.UserBySession(1)
	require.NotNil(t, remaining)
	assert.Equal(t, "Actor", remaining.Name())

	require.Len(t, listener.userRemoves, 1)
	event := listener.userRemoves[0]
	assert.Equal(t, "Reason", event.Reason)
	assert.True(t, event.Ban)
	assert.Equal(t, "Actor", event.Actor.Name())
}

func TestUser_SetChannel_ChannelUnresolvableLeavesHasChannelTrueButResolvesNil(t *testing.T) {
	c, _ := newTestClient(t)
	c.dispatch(&UserStateMessage{Session: 7, Name: strPtr("Alice"), ChannelID: u32Ptr(99)})

	u := c.UserBySession(7)
	u.mu.RLock()
	hasChannel := u.hasChannel
	u.mu.RUnlock()
	assert.True(t, hasChannel)
	assert.Nil(t, u.Channel())
}

func TestPermissionDenied_Permission(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 1})
	c.dispatch(&UserStateMessage{Session: 1, Name: strPtr("Alice")})

	c.dispatch(&PermissionDeniedMessage{
		Kind:       PermissionDeniedPermission,
		Session:    u32Ptr(1),
		ChannelID:  u32Ptr(1),
		Permission: u32Ptr(4),
	})

	require.Len(t, listener.denials, 1)
	d := listener.denials[0]
	assert.Equal(t, PermissionDeniedPermission, d.Kind)
	assert.Equal(t, c.UserBySession(1), d.User)
	assert.Equal(t, c.ChannelByID(1), d.Channel)
	assert.Equal(t, "4", d.Detail)
}

func TestPermissionDenied_UnrecognizedKindIsProtocolViolation(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&PermissionDeniedMessage{Kind: PermissionDeniedKind(999)})

	require.Len(t, listener.errors, 1)
	var violation *ProtocolViolationError
	assert.ErrorAs(t, listener.errors[0].Err, &violation)

	assert.Equal(t, StateDisconnected, c.State())
	require.Len(t, listener.disconnects, 1)
}

func TestTextMessage_ResolvesSenderAndTargets(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 1})
	c.dispatch(&UserStateMessage{Session: 1, Name: strPtr("Alice")})
	c.dispatch(&UserStateMessage{Session: 2, Name: strPtr("Bob")})

	c.dispatch(&TextMessageMessage{
		Actor:      u32Ptr(1),
		Sessions:   []uint32{2},
		ChannelIDs: []uint32{1},
		Text:       "hi",
	})

	require.Len(t, listener.texts, 1)
	msg := listener.texts[0]
	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, c.UserBySession(1), msg.Sender)
	require.Len(t, msg.ToUsers, 1)
	assert.Equal(t, c.UserBySession(2), msg.ToUsers[0])
	require.Len(t, msg.ToChannels, 1)
	assert.Equal(t, c.ChannelByID(1), msg.ToChannels[0])
}

func TestSendTextMessage_BuildsCorrectFields(t *testing.T) {
	c, _ := newTestClient(t)
	data := newFakeDataChannel()
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()

	to := &User{client: c, session: 9}
	ch := newChannel(c, 3)

	err := c.SendTextMessage("hello", []*User{to}, []*Channel{ch}, nil)
	require.NoError(t, err)

	require.Len(t, data.Sent(), 1)
	sent, ok := data.Sent()[0].(*TextMessageMessage)
	require.True(t, ok)
	assert.Equal(t, "hello", sent.Text)
	assert.Equal(t, []uint32{9}, sent.Sessions)
	assert.Equal(t, []uint32{3}, sent.ChannelIDs)
}

func TestSetSelfMute_UnmutingClearsSelfDeaf(t *testing.T) {
	c, _ := newTestClient(t)
	data := newFakeDataChannel()
	c.mu.Lock()
	c.data = data
	self := uint32(1)
	c.selfSession = &self
	c.userBySession[1] = &User{client: c, session: 1}
	c.mu.Unlock()

	require.NoError(t, c.SetSelfMute(false))

	sent := data.Sent()
	require.Len(t, sent, 1)
	msg, ok := sent[0].(*UserStateMessage)
	require.True(t, ok)
	require.NotNil(t, msg.SelfMute)
	assert.False(t, *msg.SelfMute)
	require.NotNil(t, msg.SelfDeaf)
	assert.False(t, *msg.SelfDeaf)
}

func TestSetSelfDeaf_DeafeningSetsSelfMute(t *testing.T) {
	c, _ := newTestClient(t)
	data := newFakeDataChannel()
	c.mu.Lock()
	c.data = data
	self := uint32(1)
	c.selfSession = &self
	c.userBySession[1] = &User{client: c, session: 1}
	c.mu.Unlock()

	require.NoError(t, c.SetSelfDeaf(true))

	sent := data.Sent()
	require.Len(t, sent, 1)
	msg, ok := sent[0].(*UserStateMessage)
	require.True(t, ok)
	require.NotNil(t, msg.SelfDeaf)
	assert.True(t, *msg.SelfDeaf)
	require.NotNil(t, msg.SelfMute)
	assert.True(t, *msg.SelfMute)
}
