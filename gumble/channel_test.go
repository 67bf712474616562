package gumble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func u32Ptr(v uint32) *uint32 { return &v }
func i32Ptr(v int32) *int32   { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestChannel_ApplyState_ReportsPresentFields(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 42, Name: strPtr("Test")})

	ch := c.ChannelByID(42)
	require.NotNil(t, ch)
	assert.Equal(t, "Test", ch.Name())
	assert.Contains(t, c.Channels(), ch)

	changes := listener.snapshotChannelChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, map[string]bool{"name": true}, changes[0].Changes)
}

func TestChannel_ApplyState_RepeatedAssertionReportsAgain(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 42, Name: strPtr("Test")})
	c.dispatch(&ChannelStateMessage{ChannelID: 42, Name: strPtr("Test")})

	changes := listener.snapshotChannelChanges()
	require.Len(t, changes, 2)
	assert.True(t, changes[0].Changes["name"])
	assert.True(t, changes[1].Changes["name"])
}

func TestChannel_Rename_EmitsUpdateOnly(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 42, Name: strPtr("Test")})
	c.dispatch(&ChannelStateMessage{ChannelID: 42, Name: strPtr("New Name")})

	require.Len(t, listener.newChannels, 1)
	changes := listener.snapshotChannelChanges()
	require.Len(t, changes, 2)
	assert.Equal(t, "New Name", changes[1].Channel.Name())
	assert.True(t, changes[1].Changes["name"])
	_, hadDescription := changes[1].Changes["description"]
	assert.False(t, hadDescription)
}

func TestChannel_Links_ReplaceSemantics(t *testing.T) {
	c, _ := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 1})
	c.dispatch(&ChannelStateMessage{ChannelID: 2})
	c.dispatch(&ChannelStateMessage{ChannelID: 3})
	root := c.ChannelByID(1)

	c.dispatch(&ChannelStateMessage{ChannelID: 1, Links: []uint32{2, 3}})
	assert.ElementsMatch(t, []uint32{2, 3}, linkIDs(root))

	c.dispatch(&ChannelStateMessage{ChannelID: 1, Links: []uint32{2}})
	assert.ElementsMatch(t, []uint32{2}, linkIDs(root))
}

func TestChannel_Links_AddThenRemove(t *testing.T) {
	c, _ := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 1})
	c.dispatch(&ChannelStateMessage{ChannelID: 2})
	c.dispatch(&ChannelStateMessage{ChannelID: 3})
	root := c.ChannelByID(1)

	c.dispatch(&ChannelStateMessage{ChannelID: 1, LinksAdd: []uint32{2, 3}})
	assert.ElementsMatch(t, []uint32{2, 3}, linkIDs(root))

	c.dispatch(&ChannelStateMessage{ChannelID: 1, LinksRemove: []uint32{2}, LinksAdd: []uint32{2}})
	assert.ElementsMatch(t, []uint32{2, 3}, linkIDs(root))
}

func TestChannel_ParentChild(t *testing.T) {
	c, _ := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 0})
	c.dispatch(&ChannelStateMessage{ChannelID: 5, Parent: u32Ptr(0)})

	root := c.ChannelByID(0)
	child := c.ChannelByID(5)
	require.NotNil(t, root)
	require.NotNil(t, child)
	assert.Same(t, root, child.Parent())
	assert.Contains(t, root.Children(), child)
}

func TestChannelRemove_DetachesFromParent(t *testing.T) {
	c, listener := newTestClient(t)
	c.dispatch(&ChannelStateMessage{ChannelID: 0})
	c.dispatch(&ChannelStateMessage{ChannelID: 5, Parent: u32Ptr(0)})

	c.dispatch(&ChannelRemoveMessage{ChannelID: 5})

	root := c.ChannelByID(0)
	assert.Nil(t, c.ChannelByID(5))
	assert.Empty(t, root.Children())
	require.Len(t, listener.channelRemoves, 1)
}

func linkIDs(ch *Channel) []uint32 {
	out := make([]uint32, 0)
	for _, linked := range ch.Links() {
		out = append(out, linked.ID())
	}
	return out
}
