package entities

// Identity is the caller as reported by the identity provider.
type Identity struct {
	UserID   string
	SignedIn bool
}

// Anonymous returns a signed-out identity.
func Anonymous() Identity {
	return Identity{}
}

// SignedInAs returns a signed-in identity for userID.
func SignedInAs(userID string) Identity {
	return Identity{
		UserID:   userID,
		SignedIn: userID != "",
	}
}
