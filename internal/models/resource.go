package models

// Disposer is a cleanup call recorded for a temporary resource.
type Disposer struct {
	Method string
	Params map[string]any
}

// Credentials used to sign in a session.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Permission  string         `json:"permission"`
	Groups      []string       `json:"groups,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
}
