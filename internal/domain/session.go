package domain

// SessionPayload is the signed content of an editor session token.
// Exp is a unix timestamp in milliseconds; expiry is the only invalidation
// path, there is no server-side session store or revocation list.
type SessionPayload struct {
	Username string `json:"username"`
	Exp      int64  `json:"exp"`
}
