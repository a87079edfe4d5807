// internal/session/entity.go
package session

import "strings"

// Profile represents a user profile as captured at registration
type Profile struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password,omitempty"`
}

// Session is the single process-wide authentication state. It is created on
// successful login or registration, destroyed on logout, and persisted so it
// survives restarts.
type Session struct {
	Email     string  `json:"email"`
	Profile   Profile `json:"profile"`
	AuthToken string  `json:"auth_token,omitempty"`
}

// DisplayName returns the profile name, deriving one from the email's local
// part when the profile carries no name.
func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.Profile.Name)
	if name != "" {
		return name
	}
	local, _, _ := strings.Cut(s.Email, "@")
	return local
}

// localUser is one entry of the local fallback credential table. Passwords
// are stored as bcrypt hashes, never plaintext.
type localUser struct {
	Profile      Profile `json:"profile"`
	PasswordHash string  `json:"password_hash"`
}

// Machine-readable result codes for login and registration
const (
	CodeEmailRequired    = "email-required"
	CodePasswordRequired = "password-required"
	CodeNameRequired     = "name-required"
	CodeSurnameRequired  = "surname-required"
	CodeAddressRequired  = "address-required"
	CodePasswordLength   = "password-length"
	CodeNoUser           = "no-user"
	CodeBadPass          = "bad-pass"
	CodeEmailExists      = "email-exists"
	CodeUnknown          = "unknown"
)

// Result is the outcome of a login or registration attempt. Code is empty
// on success; on failure it carries one of the Code* constants so callers
// can produce specific messaging (for example offering registration when
// the email is unrecognized).
type Result struct {
	OK      bool     `json:"ok"`
	Code    string   `json:"code,omitempty"`
	Session *Session `json:"session,omitempty"`
}

func failure(code string) Result {
	return Result{OK: false, Code: code}
}
