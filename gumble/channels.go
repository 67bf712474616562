package gumble

// Channels is an ordered (insertion order) snapshot of the channels known
// to a server, as returned by Client.Channels().
type Channels []*Channel

// ByID returns the channel with the given id, or nil.
func (c Channels) ByID(id uint32) *Channel {
	for _, ch := range c {
		if ch.id == id {
			return ch
		}
	}
	return nil
}

// ByName returns the first channel with the given name, or nil.
func (c Channels) ByName(name string) *Channel {
	for _, ch := range c {
		if ch.Name() == name {
			return ch
		}
	}
	return nil
}
