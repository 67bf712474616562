package gumble

// Users is an ordered (insertion order) snapshot of the users connected to
// a server, as returned by Client.Users().
type Users []*User

// BySession returns the user with the given session id, or nil.
func (u Users) BySession(session uint32) *User {
	for _, user := range u {
		if user.session == session {
			return user
		}
	}
	return nil
}

// ByName returns the first user with the given display name, or nil.
func (u Users) ByName(name string) *User {
	for _, user := range u {
		if user.Name() == name {
			return user
		}
	}
	return nil
}
