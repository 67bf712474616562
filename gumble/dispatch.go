package gumble

import (
	"fmt"
	"time"
)

// dispatch routes one decoded control message to its handler (§4.1). It
// runs exclusively on the mailbox goroutine. An unrecognized MessageType is
// logged and ignored, never an error.
func (c *Client) dispatch(msg Message) {
	c.metrics.dispatched(msg.Type())
	switch m := msg.(type) {
	case *VersionMessage:
		c.handleVersion(m)
	case *UDPTunnelMessage:
		c.handleVoicePacket(m.Packet)
	case *ChannelStateMessage:
		c.handleChannelState(m)
	case *ChannelRemoveMessage:
		c.handleChannelRemove(m)
	case *UserStateMessage:
		c.handleUserState(m)
	case *UserRemoveMessage:
		c.handleUserRemove(m)
	case *ServerSyncMessage:
		c.handleServerSync(m)
	case *PingMessage:
		c.handlePing(m)
	case *RejectMessage:
		c.handleReject(m)
	case *TextMessageMessage:
		c.handleTextMessage(m)
	case *PermissionDeniedMessage:
		c.handlePermissionDenied(m)
	default:
		c.logger.Debug("ignoring unrecognized control message", "type", msg.Type())
	}
}

func (c *Client) handleVersion(m *VersionMessage) {
	v := &Version{Release: "", OS: "", OSVersion: ""}
	if m.Version != nil {
		v.Major, v.Minor, v.Patch = ParseVersion(*m.Version)
	}
	if m.Release != nil {
		v.Release = *m.Release
	}
	if m.OS != nil {
		v.OS = *m.OS
	}
	if m.OSVersion != nil {
		v.OSVersion = *m.OSVersion
	}
	c.mu.Lock()
	c.serverVersion = v
	c.mu.Unlock()
}

func (c *Client) channelForID(id uint32) (*Channel, bool) {
	c.mu.RLock()
	ch, ok := c.channelByID[id]
	c.mu.RUnlock()
	return ch, ok
}

func (c *Client) userForSession(session uint32) (*User, bool) {
	c.mu.RLock()
	u, ok := c.userBySession[session]
	c.mu.RUnlock()
	return u, ok
}

// handleChannelState upserts a Channel, per §4.1/§4.2: mirror
// links_remove onto the other side first, allocate-and-index if new, then
// apply fields and reparent, then apply the link set, then emit.
func (c *Client) handleChannelState(m *ChannelStateMessage) {
	for _, otherID := range m.LinksRemove {
		if other, ok := c.channelForID(otherID); ok {
			other.unlinkFrom(m.ChannelID)
		}
	}

	ch, existed := c.channelForID(m.ChannelID)
	isNew := !existed
	if isNew {
		ch = newChannel(c, m.ChannelID)
		c.mu.Lock()
		c.channelByID[m.ChannelID] = ch
		c.channelOrder = append(c.channelOrder, ch)
		c.mu.Unlock()
		c.config.Listeners.each(func(l EventListener) {
			l.OnNewChannel(&ChannelChangeEvent{Channel: ch, Changes: nil})
		})
	}

	changes := ch.applyState(m)
	if m.Parent != nil {
		ch.setParent(*m.Parent)
		changes["parent"] = true
	}
	if ch.applyLinks(m) {
		changes["links"] = true
	}

	if len(changes) > 0 {
		c.config.Listeners.each(func(l EventListener) {
			l.OnChannelChange(&ChannelChangeEvent{Channel: ch, Changes: changes})
		})
	}
}

func (c *Client) handleChannelRemove(m *ChannelRemoveMessage) {
	ch, ok := c.channelForID(m.ChannelID)
	if !ok {
		return
	}
	ch.remove()
	c.mu.Lock()
	delete(c.channelByID, m.ChannelID)
	for i, x := range c.channelOrder {
		if x == ch {
			c.channelOrder = append(c.channelOrder[:i], c.channelOrder[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.config.Listeners.each(func(l EventListener) {
		l.OnChannelRemove(&ChannelChangeEvent{Channel: ch, Changes: nil})
	})
}

// handleUserState upserts a User, per §4.1/§4.2: the server omits
// channel_id when placing a brand-new user in channel 0, so the very first
// UserState for a session defaults it to 0; subsequent updates that omit
// channel_id preserve whatever channel the user is already in.
func (c *Client) handleUserState(m *UserStateMessage) {
	u, existed := c.userForSession(m.Session)
	isNew := !existed
	if isNew {
		u = &User{client: c, session: m.Session}
		c.mu.Lock()
		c.userBySession[m.Session] = u
		c.userOrder = append(c.userOrder, u)
		c.mu.Unlock()
		c.config.Listeners.each(func(l EventListener) {
			l.OnNewUser(&UserChangeEvent{User: u, Changes: nil})
		})
	}

	changes := u.applyState(m)

	channelID := m.ChannelID
	if channelID == nil && isNew {
		zero := uint32(0)
		channelID = &zero
	}
	if channelID != nil {
		u.setChannel(*channelID)
		changes["channel_id"] = true
	}

	var actor *User
	if m.Actor != nil {
		actor, _ = c.userForSession(*m.Actor)
	}

	if len(changes) > 0 {
		c.config.Listeners.each(func(l EventListener) {
			l.OnUserChange(&UserChangeEvent{User: u, Actor: actor, Changes: changes})
		})
	}
}

func (c *Client) handleUserRemove(m *UserRemoveMessage) {
	u, ok := c.userForSession(m.Session)
	if !ok {
		return
	}
	u.cancelIdleTimer()

	var actor *User
	if m.Actor != nil {
		actor, _ = c.userForSession(*m.Actor)
	}
	reason := ""
	if m.Reason != nil {
		reason = *m.Reason
	}

	event := u.remove(actor, reason, m.Ban)
	c.mu.Lock()
	delete(c.userBySession, m.Session)
	for i, x := range c.userOrder {
		if x == u {
			c.userOrder = append(c.userOrder[:i], c.userOrder[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.config.Listeners.each(func(l EventListener) {
		l.OnUserRemove(event)
	})
}

// handleServerSync finalizes the handshake (§4.1): bind self_session,
// capture max_bandwidth/welcome_message, start the ping scheduler, emit
// connected(), and resolve the blocking Connect() call.
func (c *Client) handleServerSync(m *ServerSyncMessage) {
	c.mu.Lock()
	c.state = StateConnected
	c.selfSession = m.Session
	if m.MaxBandwidth != nil {
		bw := int(*m.MaxBandwidth)
		c.maxBandwidth = &bw
	}
	c.welcomeMessage = m.WelcomeText
	c.mu.Unlock()

	c.startPingScheduler()

	c.config.Listeners.each(func(l EventListener) {
		l.OnConnect(&ConnectEvent{Client: c})
	})

	select {
	case c.connectResult <- nil:
	default:
	}
}

// handlePing decrements the in-flight counter (warning and ignoring an
// already-zero counter), feeds the data-RTT statistics, and emits
// dataPing (§4.1, §4.5).
func (c *Client) handlePing(m *PingMessage) {
	c.mu.Lock()
	if c.inFlightPings == 0 {
		c.mu.Unlock()
		c.logger.Warn("received Ping with no pings in flight")
		return
	}
	c.inFlightPings--
	c.mu.Unlock()
	c.metrics.setPingsInFlight(c.inFlightPings)

	rtt := float64(time.Since(timestampToTime(m.Timestamp)).Milliseconds())
	c.mu.Lock()
	c.dataRTT.Add(rtt)
	c.mu.Unlock()
	c.metrics.setDataRTT(rtt)

	c.config.Listeners.each(func(l EventListener) {
		l.OnDataPing(&DataPingEvent{RTTMillis: rtt})
	})
}

func (c *Client) handleReject(m *RejectMessage) {
	c.config.Listeners.each(func(l EventListener) {
		l.OnReject(&RejectEvent{Type: m.Type, Reason: m.Reason})
	})
	c.disconnect(DisconnectServer, &RejectedError{Type: m.Type, Reason: m.Reason})
}

func (c *Client) handleTextMessage(m *TextMessageMessage) {
	var sender *User
	if m.Actor != nil {
		sender, _ = c.userForSession(*m.Actor)
	}
	toUsers := make([]*User, 0, len(m.Sessions))
	for _, s := range m.Sessions {
		if u, ok := c.userForSession(s); ok {
			toUsers = append(toUsers, u)
		}
	}
	toChannels := make([]*Channel, 0, len(m.ChannelIDs))
	for _, id := range m.ChannelIDs {
		if ch, ok := c.channelForID(id); ok {
			toChannels = append(toChannels, ch)
		}
	}
	toTrees := make([]*Channel, 0, len(m.TreeIDs))
	for _, id := range m.TreeIDs {
		if ch, ok := c.channelForID(id); ok {
			toTrees = append(toTrees, ch)
		}
	}
	c.config.Listeners.each(func(l EventListener) {
		l.OnTextMessage(&TextMessageEvent{Sender: sender, Text: m.Text, ToUsers: toUsers, ToChannels: toChannels, ToTrees: toTrees})
	})
}

// handlePermissionDenied dispatches on the closed set of denial kinds
// (§4.1); an unrecognized kind is a protocol violation.
func (c *Client) handlePermissionDenied(m *PermissionDeniedMessage) {
	var user *User
	var channel *Channel
	detail := ""

	switch m.Kind {
	case PermissionDeniedText:
		if m.Reason != nil {
			detail = *m.Reason
		}
	case PermissionDeniedPermission:
		if m.Session != nil {
			user, _ = c.userForSession(*m.Session)
		}
		if m.ChannelID != nil {
			channel, _ = c.channelForID(*m.ChannelID)
		}
		if m.Permission != nil {
			detail = permissionDetail(*m.Permission)
		}
	case PermissionDeniedSuperUser, PermissionDeniedTextTooLong, PermissionDeniedTemporaryChannel,
		PermissionDeniedChannelFull, PermissionDeniedNestingLimit:
		// no parameters
	case PermissionDeniedChannelName, PermissionDeniedUserName:
		if m.Name != nil {
			detail = *m.Name
		}
	case PermissionDeniedMissingCertificate:
		if m.Session != nil {
			user, _ = c.userForSession(*m.Session)
		}
	default:
		violation := &ProtocolViolationError{Detail: "unrecognized PermissionDenied kind"}
		c.emitError(violation)
		c.disconnect(DisconnectError, violation)
		return
	}

	c.config.Listeners.each(func(l EventListener) {
		l.OnPermissionDenied(&PermissionDeniedEvent{Kind: m.Kind, User: user, Channel: channel, Detail: detail})
	})
}

func permissionDetail(permission uint32) string {
	return fmt.Sprintf("%d", permission)
}
