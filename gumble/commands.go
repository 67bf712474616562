package gumble

import "errors"

// errNoSelf is returned by self-targeted command helpers before
// ServerSync has bound the client's own session.
var errNoSelf = errors.New("gumble: self session not yet known")

// SetSelfMute sends a self-mute update for the local user. Unmuting also
// clears self-deaf, since a deafened user cannot be un-muted without also
// being un-deafened (§4.1, §8). The local model is not mutated directly;
// the authoritative UserState will arrive from the server.
func (c *Client) SetSelfMute(mute bool) error {
	self := c.Self()
	if self == nil {
		return errNoSelf
	}
	msg := &UserStateMessage{Session: self.Session(), SelfMute: &mute}
	if !mute {
		deaf := false
		msg.SelfDeaf = &deaf
	}
	return c.Send(msg)
}

// SetSelfDeaf sends a self-deafen update for the local user. Deafening
// also sets self-mute, since a deafened user cannot hear themself
// unmuted (§4.1, §8).
func (c *Client) SetSelfDeaf(deaf bool) error {
	self := c.Self()
	if self == nil {
		return errNoSelf
	}
	msg := &UserStateMessage{Session: self.Session(), SelfDeaf: &deaf}
	if deaf {
		mute := true
		msg.SelfMute = &mute
	}
	return c.Send(msg)
}

// SetMute sends a server-enforced mute update for target. Unmuting also
// clears the server-enforced deaf flag, mirroring the self-mute coupling
// (§4.1). The caller must hold the necessary server permission; denial
// surfaces as a denied() event, not a return error.
func (c *Client) SetMute(target *User, mute bool) error {
	msg := &UserStateMessage{Session: target.Session(), Mute: &mute}
	if !mute {
		deaf := false
		msg.Deaf = &deaf
	}
	return c.Send(msg)
}

// SetDeaf sends a server-enforced deafen update for target. Deafening also
// sets the server-enforced mute flag (§4.1).
func (c *Client) SetDeaf(target *User, deaf bool) error {
	msg := &UserStateMessage{Session: target.Session(), Deaf: &deaf}
	if deaf {
		mute := true
		msg.Mute = &mute
	}
	return c.Send(msg)
}

// SetComment sends a comment update for the local user.
func (c *Client) SetComment(text string) error {
	self := c.Self()
	if self == nil {
		return errNoSelf
	}
	return c.Send(&UserStateMessage{Session: self.Session(), Comment: &text})
}

// SetTexture sends an avatar texture update for the local user.
func (c *Client) SetTexture(data []byte) error {
	self := c.Self()
	if self == nil {
		return errNoSelf
	}
	return c.Send(&UserStateMessage{Session: self.Session(), Texture: data})
}

// Join sends a request to move the local user into channel. Membership is
// only reflected locally once the server's own UserState arrives.
func (c *Client) Join(channel *Channel) error {
	self := c.Self()
	if self == nil {
		return errNoSelf
	}
	id := channel.ID()
	return c.Send(&UserStateMessage{Session: self.Session(), ChannelID: &id})
}

// SendTextMessage sends text to the given users, channels, and channel
// trees (§4.1, §6).
func (c *Client) SendTextMessage(text string, toUsers []*User, toChannels, toTrees []*Channel) error {
	sessions := make([]uint32, len(toUsers))
	for i, u := range toUsers {
		sessions[i] = u.Session()
	}
	channelIDs := make([]uint32, len(toChannels))
	for i, ch := range toChannels {
		channelIDs[i] = ch.ID()
	}
	treeIDs := make([]uint32, len(toTrees))
	for i, ch := range toTrees {
		treeIDs[i] = ch.ID()
	}
	return c.Send(&TextMessageMessage{Sessions: sessions, ChannelIDs: channelIDs, TreeIDs: treeIDs, Text: text})
}

// RequestTexture asks the server to resend this user's avatar texture, if
// it has not already been requested since the last texture_hash update
// (§3 invariant: hashes invalidate the already-requested flag).
func (u *User) RequestTexture() error {
	u.mu.Lock()
	if u.textureRequested {
		u.mu.Unlock()
		return nil
	}
	u.textureRequested = true
	u.mu.Unlock()
	return u.client.Send(&RequestBlobMessage{SessionTexture: []uint32{u.session}})
}

// RequestComment asks the server to resend this user's comment.
func (u *User) RequestComment() error {
	u.mu.Lock()
	if u.commentRequested {
		u.mu.Unlock()
		return nil
	}
	u.commentRequested = true
	u.mu.Unlock()
	return u.client.Send(&RequestBlobMessage{SessionComment: []uint32{u.session}})
}

// RequestDescription asks the server to resend this channel's description.
func (ch *Channel) RequestDescription() error {
	ch.mu.Lock()
	if ch.descriptionRequested {
		ch.mu.Unlock()
		return nil
	}
	ch.descriptionRequested = true
	ch.mu.Unlock()
	return ch.client.Send(&RequestBlobMessage{ChannelDescription: []uint32{ch.id}})
}
