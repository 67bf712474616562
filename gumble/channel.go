package gumble

import "sync"

// Channel is a client-side model of one server channel, identified by a
// stable id (0 is always the root). Attributes are read-only from the
// outside; mutation happens only through the dispatcher applying a
// ChannelState/ChannelRemove (§4.2, §9).
type Channel struct {
	client *Client
	id     uint32

	mu                  sync.RWMutex
	name                string
	description         string
	descriptionHash     []byte
	descriptionRequested bool
	temporary           bool
	position            int32
	maxUsers            uint32
	hasParent           bool
	parentID            uint32
	linkIDs             map[uint32]bool

	users    []*User
	children []*Channel
}

func newChannel(client *Client, id uint32) *Channel {
	return &Channel{client: client, id: id, linkIDs: make(map[uint32]bool)}
}

// ID returns the channel's stable id.
func (c *Channel) ID() uint32 { return c.id }

// IsRoot reports whether this is the server's root channel (id 0).
func (c *Channel) IsRoot() bool { return c.id == 0 }

// Name returns the channel's display name.
func (c *Channel) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Description returns the channel's description text, if known.
func (c *Channel) Description() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.description
}

// DescriptionHash returns the hash of the channel's description.
func (c *Channel) DescriptionHash() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.descriptionHash
}

// Temporary reports whether the channel is temporary (created on demand,
// removed when empty).
func (c *Channel) Temporary() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.temporary
}

// Position is the channel's sort-order hint among its siblings.
func (c *Channel) Position() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

// MaxUsers is the channel's user-count limit, or 0 for unlimited.
func (c *Channel) MaxUsers() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxUsers
}

// Parent returns the channel's parent, or nil if it is the root or the
// parent id is unresolvable.
func (c *Channel) Parent() *Channel {
	c.mu.RLock()
	id, ok := c.parentID, c.hasParent
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return c.client.ChannelByID(id)
}

// Children returns the channels that were added to this channel's children
// when their parent was set to it. A channel whose parent update arrived
// before this channel existed is not listed.
func (c *Channel) Children() []*Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Channel, len(c.children))
	copy(out, c.children)
	return out
}

// Users returns the users currently in this channel.
func (c *Channel) Users() Users {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(Users, len(c.users))
	copy(out, c.users)
	return out
}

// Links returns the channels this channel is linked to (resolvable ones
// only).
func (c *Channel) Links() []*Channel {
	c.mu.RLock()
	ids := make([]uint32, 0, len(c.linkIDs))
	for id := range c.linkIDs {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	out := make([]*Channel, 0, len(ids))
	for _, id := range ids {
		if ch := c.client.ChannelByID(id); ch != nil {
			out = append(out, ch)
		}
	}
	return out
}

// addUser appends u to this channel's membership. Called only from
// User.setChannel, under the dispatch goroutine.
func (c *Channel) addUser(u *User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.users {
		if existing == u {
			return
		}
	}
	c.users = append(c.users, u)
}

// removeUser removes u from this channel's membership, if present.
func (c *Channel) removeUser(u *User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.users {
		if existing == u {
			c.users = append(c.users[:i], c.users[i+1:]...)
			return
		}
	}
}

// addChild appends child to this channel's children list.
func (c *Channel) addChild(child *Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.children {
		if existing == child {
			return
		}
	}
	c.children = append(c.children, child)
}

// removeChild removes child from this channel's children list, if present.
func (c *Channel) removeChild(child *Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// setParent performs the forest-reparenting side of a parent update: leave
// the old parent's children, set the new parent id, join the new parent's
// children if resolvable.
func (c *Channel) setParent(id uint32) {
	if old := c.Parent(); old != nil {
		old.removeChild(c)
	}
	c.mu.Lock()
	c.parentID = id
	c.hasParent = true
	c.mu.Unlock()
	if next := c.client.ChannelByID(id); next != nil {
		next.addChild(c)
	}
}

// applyState applies the present fields of msg (other than links, parent,
// and channel_id/id, which the dispatcher handles with cross-index
// bookkeeping) and returns the set of field names that were present.
func (c *Channel) applyState(msg *ChannelStateMessage) map[string]bool {
	changes := make(map[string]bool)
	c.mu.Lock()
	if msg.Name != nil {
		c.name = *msg.Name
		changes["name"] = true
	}
	if msg.Description != nil {
		c.description = *msg.Description
		changes["description"] = true
	}
	if msg.DescriptionHash != nil {
		c.descriptionHash = msg.DescriptionHash
		c.descriptionRequested = false
		changes["description_hash"] = true
	}
	if msg.Temporary != nil {
		c.temporary = *msg.Temporary
		changes["temporary"] = true
	}
	if msg.Position != nil {
		c.position = *msg.Position
		changes["position"] = true
	}
	if msg.MaxUsers != nil {
		c.maxUsers = *msg.MaxUsers
		changes["max_users"] = true
	}
	c.mu.Unlock()
	return changes
}

// applyLinks implements the link-set update rule (§4.2): if Links is
// present it replaces the set entirely; otherwise LinksRemove is applied
// before LinksAdd, and LinksAdd ignores ids already present. Returns true
// if the link set was touched by this message.
func (c *Channel) applyLinks(msg *ChannelStateMessage) bool {
	touched := false
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Links != nil {
		c.linkIDs = make(map[uint32]bool, len(msg.Links))
		for _, id := range msg.Links {
			c.linkIDs[id] = true
		}
		return true
	}
	for _, id := range msg.LinksRemove {
		if c.linkIDs[id] {
			delete(c.linkIDs, id)
			touched = true
		}
	}
	for _, id := range msg.LinksAdd {
		if !c.linkIDs[id] {
			c.linkIDs[id] = true
			touched = true
		}
	}
	return touched
}

// unlinkFrom removes id from this channel's link set, mirroring a removal
// applied on the other side of a link (§4.1, ChannelState links_remove
// mirroring).
func (c *Channel) unlinkFrom(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.linkIDs, id)
}

// remove implements Channel._remove (§4.2): detach from parent, if
// resolvable.
func (c *Channel) remove() {
	if parent := c.Parent(); parent != nil {
		parent.removeChild(c)
	}
}
