package events

const (
	// KindAuthChallenge identifies the server's authentication challenge.
	KindAuthChallenge Kind = "auth_challenge"
	// KindAuthResult identifies the outcome of authentication.
	KindAuthResult Kind = "auth_result"
	// KindAuthResponse identifies the client's answer to a challenge. It is
	// only ever sent, never received.
	KindAuthResponse Kind = "auth_response"
)

// AuthChallenge asks the client to echo Token back in an auth_response.
type AuthChallenge struct {
	Base
	Token   string `json:"token" validate:"required"`
	Message string `json:"message,omitempty"`
}

// NewAuthChallenge creates an authentication challenge event.
func NewAuthChallenge(token string, opts ...BaseOption) AuthChallenge {
	return AuthChallenge{Base: newBase(KindAuthChallenge, opts), Token: token}
}

type AuthResult struct {
	Base
	Success  *bool  `json:"success" validate:"required"`
	ClientID string `json:"client_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Succeeded reports whether the server accepted the client.
func (e AuthResult) Succeeded() bool {
	return e.Success != nil && *e.Success
}

// NewAuthResult creates an authentication result event.
func NewAuthResult(success bool, opts ...BaseOption) AuthResult {
	return AuthResult{Base: newBase(KindAuthResult, opts), Success: &success}
}

// NewAuthResponse answers an authentication challenge.
func NewAuthResponse(token string) ClientMessage {
	return ClientMessage{Type: KindAuthResponse, Data: map[string]any{"token": token}}
}
