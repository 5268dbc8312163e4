package auth

import "context"

// Identity is the authenticated caller of a request. It is resolved once by
// the entry access middleware and threaded through context; operations never
// read authentication state from anywhere else.
type Identity struct {
	// User is the caller's user name.
	User string

	// Admin marks platform administrators, who bypass entry membership
	// and ownership checks.
	Admin bool

	// Entries lists the entries (tenants) the caller belongs to.
	Entries []string
}

// CanAccessEntry reports whether the identity may operate within the entry.
func (id Identity) CanAccessEntry(entry string) bool {
	if id.Admin {
		return true
	}
	for _, e := range id.Entries {
		if e == entry {
			return true
		}
	}
	return false
}

type identityKey struct{}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext extracts the identity resolved by the middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
