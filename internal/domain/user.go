package domain

// Identity is the authenticated remote principal used to scope mirrored records.
// An empty UserID means no identity: every remote operation is a no-op.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// Authenticated reports whether the identity can scope remote rows.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}
