package session

// Identity is the opaque user reference reported by the backend.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the current authentication state: the identity (nil when signed
// out) and whether that determination is still pending.
type Session struct {
	Identity *Identity
	Loading  bool
}

// SignedIn reports whether a resolved identity is present.
func (s Session) SignedIn() bool {
	return !s.Loading && s.Identity != nil
}
