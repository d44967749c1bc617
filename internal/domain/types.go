package domain

// RequestContext carries the authenticated owner resolved from the session token.
type RequestContext struct {
	OwnerID string `json:"ownerId"`
	Email   string `json:"email"`
}
