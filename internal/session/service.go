// internal/session/service.go
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/config"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service manages the authenticated identity. Login and registration go to
// the remote users service first and fall back to a local credential table
// when the remote is unreachable. The current session is persisted so it
// survives restarts.
type Service struct {
	store  *store.Store
	remote *usersClient
	logger *logrus.Logger

	mu      sync.Mutex
	current *Session
}

// NewService creates a new session service and restores any persisted session
func NewService(cfg *config.Config, s *store.Store, logger *logrus.Logger) *Service {
	service := &Service{
		store:  s,
		remote: newUsersClient(cfg.Services.UsersBaseURL, cfg.Services.Timeout),
		logger: logger,
	}
	service.restore()
	return service
}

// restore loads the persisted session and auth token, if any
func (s *Service) restore() {
	var persisted Session
	found, err := s.store.Get(store.KeyCurrentUser, &persisted)
	if err != nil || !found {
		return
	}

	var token string
	if ok, err := s.store.Get(store.KeyAuthToken, &token); err == nil && ok {
		persisted.AuthToken = token
	}

	s.current = &persisted
	s.logger.WithField("email", persisted.Email).Debug("Restored persisted session")
}

// Login authenticates a user for the given tenant
func (s *Service) Login(ctx context.Context, email, password, tenantID string) Result {
	if strings.TrimSpace(email) == "" {
		return failure(CodeEmailRequired)
	}
	if password == "" {
		return failure(CodePasswordRequired)
	}

	// Remote authentication first
	remote, err := s.remote.login(ctx, email, password, tenantID)
	if err == nil {
		sess := sessionFromRemote(email, remote)
		s.establish(sess)
		return Result{OK: true, Session: sess}
	}

	s.logger.WithFields(logrus.Fields{
		"email": email,
		"error": err.Error(),
	}).Warn("Remote login unavailable, trying local credential table")

	// Local fallback: distinguish unknown user from wrong password
	users, err := s.loadLocalUsers()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to read local credential table")
		return failure(CodeUnknown)
	}

	entry, ok := users[email]
	if !ok {
		return failure(CodeNoUser)
	}
	if bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)) != nil {
		return failure(CodeBadPass)
	}

	sess := &Session{Email: email, Profile: entry.Profile}
	s.establish(sess)
	return Result{OK: true, Session: sess}
}

// Register creates a new account for the given tenant and auto-logs it in
func (s *Service) Register(ctx context.Context, profile Profile, tenantID string) Result {
	if code := validateProfile(profile); code != "" {
		return failure(code)
	}

	// Remote registration first
	remote, err := s.remote.register(ctx, profile, tenantID)
	if err == nil {
		sess := sessionFromRemote(profile.Email, remote)
		if sess.Profile.Name == "" {
			sess.Profile = scrubbed(profile)
		}
		s.establish(sess)
		return Result{OK: true, Session: sess}
	}

	s.logger.WithFields(logrus.Fields{
		"email": profile.Email,
		"error": err.Error(),
	}).Warn("Remote registration unavailable, falling back to local storage")

	users, err := s.loadLocalUsers()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to read local credential table")
		return failure(CodeUnknown)
	}

	if _, exists := users[profile.Email]; exists {
		return failure(CodeEmailExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(profile.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to hash password")
		return failure(CodeUnknown)
	}

	users[profile.Email] = localUser{Profile: scrubbed(profile), PasswordHash: string(hash)}
	if err := s.store.Put(store.KeyUsersDB, users); err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to write local credential table")
		return failure(CodeUnknown)
	}

	sess := &Session{Email: profile.Email, Profile: scrubbed(profile)}
	s.establish(sess)
	return Result{OK: true, Session: sess}
}

// Logout clears the session and persisted auth token, unconditionally
func (s *Service) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Delete(store.KeyCurrentUser); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to clear persisted session")
	}
	if err := s.store.Delete(store.KeyAuthToken); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to clear persisted auth token")
	}
}

// Current returns a copy of the active session, or nil when anonymous
func (s *Service) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Token returns the stored auth token for authenticated remote calls. An
// expired token is dropped rather than sent.
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.AuthToken == "" {
		return ""
	}
	if expired(s.current.AuthToken) {
		s.logger.Debug("Dropping expired auth token")
		s.current.AuthToken = ""
		return ""
	}
	return s.current.AuthToken
}

// Validate asks the remote users service whether the stored token is valid
func (s *Service) Validate(ctx context.Context, tenantID string) (bool, error) {
	token := s.Token()
	if token == "" {
		return false, nil
	}
	return s.remote.validate(ctx, token, tenantID)
}

// establish stores the session in memory and persists it. The auth token
// lives in its own slot for reuse by authenticated purchase calls.
func (s *Service) establish(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if err := s.store.Put(store.KeyCurrentUser, sess); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to persist session")
	}
	if sess.AuthToken != "" {
		if err := s.store.Put(store.KeyAuthToken, sess.AuthToken); err != nil {
			s.logger.WithField("error", err.Error()).Warn("Failed to persist auth token")
		}
	}
}

func (s *Service) loadLocalUsers() (map[string]localUser, error) {
	users := make(map[string]localUser)
	if _, err := s.store.Get(store.KeyUsersDB, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// validateProfile returns the first field-specific error code, or empty
func validateProfile(profile Profile) string {
	if strings.TrimSpace(profile.Name) == "" {
		return CodeNameRequired
	}
	if strings.TrimSpace(profile.Surname) == "" {
		return CodeSurnameRequired
	}
	if strings.TrimSpace(profile.Email) == "" {
		return CodeEmailRequired
	}
	if strings.TrimSpace(profile.Address) == "" {
		return CodeAddressRequired
	}
	if profile.Password == "" {
		return CodePasswordRequired
	}
	if len(profile.Password) < 5 {
		return CodePasswordLength
	}
	return ""
}

// sessionFromRemote builds a session from the remote profile fields,
// deriving a display name from the email local part when absent.
func sessionFromRemote(email string, remote *authResponse) *Session {
	if remote.Email != "" {
		email = remote.Email
	}

	name := remote.Nombre
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return &Session{
		Email: email,
		Profile: Profile{
			Name:    name,
			Surname: remote.Apellido,
			Email:   email,
			Address: remote.Direccion,
		},
		AuthToken: remote.Token,
	}
}

// scrubbed returns the profile without its password
func scrubbed(profile Profile) Profile {
	profile.Password = ""
	return profile
}

// expired reports whether a JWT carries an exp claim in the past. The token
// is issued and verified by the remote service; only the expiry is inspected
// here, so the signature is deliberately not checked.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque non-JWT tokens pass through untouched
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(time.Now())
}
