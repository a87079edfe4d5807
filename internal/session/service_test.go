package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/config"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable is a base URL no server listens on, so dials fail immediately
const unreachable = "http://127.0.0.1:1"

func newTestService(t *testing.T, usersURL string) (*Service, *store.Store) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	localStore, err := store.Open(filepath.Join(t.TempDir(), "store.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { localStore.Close() })

	cfg := &config.Config{
		Services: config.ServicesConfig{
			UsersBaseURL: usersURL,
			Timeout:      2 * time.Second,
		},
	}

	return NewService(cfg, localStore, logger), localStore
}

func validProfile() Profile {
	return Profile{
		Name:     "Ana",
		Surname:  "García",
		Email:    "ana@x.com",
		Address:  "Av. Siempre Viva 123",
		Password: "secret",
	}
}

func TestLogin_ValidationBeforeAnyIO(t *testing.T) {
	// A server that fails the test if it is ever reached
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("validation errors must not trigger network calls")
	}))
	defer server.Close()

	svc, _ := newTestService(t, server.URL)
	ctx := context.Background()

	assert.Equal(t, CodeEmailRequired, svc.Login(ctx, "", "whatever", "dogshop").Code)
	assert.Equal(t, CodePasswordRequired, svc.Login(ctx, "a@x.com", "", "dogshop").Code)
}

func TestLogin_RemoteSuccessEstablishesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		io.WriteString(w, `{"token": "tok-123", "nombre": "Ana", "apellido": "García", "email": "ana@x.com", "direccion": "Calle 1"}`)
	}))
	defer server.Close()

	svc, localStore := newTestService(t, server.URL)

	result := svc.Login(context.Background(), "ana@x.com", "secret", "dogshop")
	require.True(t, result.OK)
	assert.Equal(t, "Ana", result.Session.Profile.Name)
	assert.Equal(t, "tok-123", svc.Token())

	// Session and token are persisted in their own slots
	var persisted Session
	found, err := localStore.Get(store.KeyCurrentUser, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ana@x.com", persisted.Email)

	var token string
	found, err = localStore.Get(store.KeyAuthToken, &token)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tok-123", token)
}

func TestLogin_DisplayNameDerivedFromEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"token": "tok"}`)
	}))
	defer server.Close()

	svc, _ := newTestService(t, server.URL)

	result := svc.Login(context.Background(), "pepita@x.com", "secret", "catshop")
	require.True(t, result.OK)
	assert.Equal(t, "pepita", result.Session.DisplayName())
}

func TestLogin_LocalFallbackDistinguishesErrors(t *testing.T) {
	svc, _ := newTestService(t, unreachable)
	ctx := context.Background()

	// Seed the local credential table through registration
	require.True(t, svc.Register(ctx, validProfile(), "dogshop").OK)
	svc.Logout()

	assert.Equal(t, CodeNoUser, svc.Login(ctx, "unknown@x.com", "whatever", "dogshop").Code)
	assert.Equal(t, CodeBadPass, svc.Login(ctx, "ana@x.com", "wrongpass", "dogshop").Code)

	result := svc.Login(ctx, "ana@x.com", "secret", "dogshop")
	require.True(t, result.OK)
	assert.Equal(t, "Ana", result.Session.Profile.Name)
}

func TestRegister_PasswordLengthRejectedBeforeIO(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("validation errors must not trigger network calls")
	}))
	defer server.Close()

	svc, localStore := newTestService(t, server.URL)

	profile := validProfile()
	profile.Password = "ab12"
	assert.Equal(t, CodePasswordLength, svc.Register(context.Background(), profile, "dogshop").Code)

	// Nothing may have been written either
	users := map[string]localUser{}
	found, err := localStore.Get(store.KeyUsersDB, &users)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRegister_FieldSpecificCodes(t *testing.T) {
	svc, _ := newTestService(t, unreachable)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Profile)
		want   string
	}{
		{name: "missing name", mutate: func(p *Profile) { p.Name = "" }, want: CodeNameRequired},
		{name: "missing surname", mutate: func(p *Profile) { p.Surname = "" }, want: CodeSurnameRequired},
		{name: "missing email", mutate: func(p *Profile) { p.Email = "" }, want: CodeEmailRequired},
		{name: "missing address", mutate: func(p *Profile) { p.Address = "" }, want: CodeAddressRequired},
		{name: "missing password", mutate: func(p *Profile) { p.Password = "" }, want: CodePasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := validProfile()
			tt.mutate(&profile)
			assert.Equal(t, tt.want, svc.Register(ctx, profile, "dogshop").Code)
		})
	}
}

func TestRegister_LocalFallbackRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t, unreachable)
	ctx := context.Background()

	require.True(t, svc.Register(ctx, validProfile(), "dogshop").OK)
	svc.Logout()

	assert.Equal(t, CodeEmailExists, svc.Register(ctx, validProfile(), "dogshop").Code)
}

func TestRegister_AutoLogin(t *testing.T) {
	svc, _ := newTestService(t, unreachable)

	result := svc.Register(context.Background(), validProfile(), "vetshop")
	require.True(t, result.OK)

	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, "ana@x.com", current.Email)
	assert.Empty(t, current.Profile.Password, "passwords never live in the session")
}

func TestLogout_ClearsEverything(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"token": "tok"}`)
	}))
	defer server.Close()

	svc, localStore := newTestService(t, server.URL)
	require.True(t, svc.Login(context.Background(), "ana@x.com", "secret", "dogshop").OK)

	svc.Logout()

	assert.Nil(t, svc.Current())
	assert.Empty(t, svc.Token())

	var anything string
	found, _ := localStore.Get(store.KeyCurrentUser, &anything)
	assert.False(t, found)
	found, _ = localStore.Get(store.KeyAuthToken, &anything)
	assert.False(t, found)
}

func TestSession_SurvivesRestart(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	path := filepath.Join(t.TempDir(), "store.db")
	cfg := &config.Config{Services: config.ServicesConfig{UsersBaseURL: unreachable, Timeout: time.Second}}

	first, err := store.Open(path, logger)
	require.NoError(t, err)

	svc := NewService(cfg, first, logger)
	require.True(t, svc.Register(context.Background(), validProfile(), "dogshop").OK)
	require.NoError(t, first.Close())

	second, err := store.Open(path, logger)
	require.NoError(t, err)
	defer second.Close()

	restored := NewService(cfg, second, logger)
	current := restored.Current()
	require.NotNil(t, current)
	assert.Equal(t, "ana@x.com", current.Email)
}
