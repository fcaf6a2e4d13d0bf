package identity

import (
	"context"
	"strings"
	"sync"

	"echodrop/internal/models"
	"echodrop/internal/observability"
)

// State is the identity lifecycle state.
type State string

const (
	StateUninitialized    State = "uninitialized"
	StateLoading          State = "loading"
	StateReadyNoProfile   State = "ready_no_profile"
	StateReadyWithProfile State = "ready_with_profile"
)

// ProfileAPI is the backend surface the manager needs for profiles.
type ProfileAPI interface {
	// Get returns the profile for userID, or a NOT_FOUND error when the
	// user has not created one yet.
	Get(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUsername(ctx context.Context, userID, username string) (*models.User, error)
}

// Manager owns the anonymous identity lifecycle. On first launch it mints
// a new identity and persists the credentials; on later launches it
// restores them. The profile (username + avatar) is created separately
// and its presence decides the ready state.
type Manager struct {
	store      CredentialStore
	auth       AuthProvider
	profiles   ProfileAPI
	avatarBase string
	log        *observability.StructuredLogger

	mu    sync.RWMutex
	state State
	creds *Credentials
	user  *models.User
}

// NewManager creates an identity Manager. avatarBase is the avatar
// service URL avatars are derived from.
func NewManager(store CredentialStore, auth AuthProvider, profiles ProfileAPI, avatarBase string) *Manager {
	return &Manager{
		store:      store,
		auth:       auth,
		profiles:   profiles,
		avatarBase: avatarBase,
		log:        observability.NewStructuredLogger(),
		state:      StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// UserID returns the current anonymous user ID, empty before Init.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil {
		return ""
	}
	return m.creds.UserID
}

// Token returns the current session token, empty before Init.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil {
		return ""
	}
	return m.creds.Token
}

// CurrentUser returns the profile, or nil when none exists yet.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Init restores the stored identity or mints a new one, then loads the
// profile. It leaves the manager in ReadyNoProfile or ReadyWithProfile.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	m.state = StateLoading
	m.mu.Unlock()

	creds, err := m.restoreOrMint(ctx)
	if err != nil {
		m.mu.Lock()
		m.state = StateUninitialized
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.creds = creds
	m.mu.Unlock()

	return m.loadProfile(ctx)
}

// restoreOrMint loads stored credentials, discarding them when the token
// no longer validates, and mints a fresh identity when needed.
func (m *Manager) restoreOrMint(ctx context.Context) (*Credentials, error) {
	creds, err := m.store.Load()
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if creds != nil {
		if _, err := m.auth.Validate(creds.Token); err == nil {
			return creds, nil
		}
		m.log.LogWithCorrelation(ctx, "stored token invalid, minting new identity", nil)
	}

	creds, err = m.auth.NewAnonymousSession(ctx)
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	if err := m.store.Save(creds); err != nil {
		return nil, models.NewInternalError(err)
	}
	return creds, nil
}

// loadProfile fetches the profile and settles the ready state.
func (m *Manager) loadProfile(ctx context.Context) error {
	user, err := m.profiles.Get(ctx, m.UserID())

	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case err == nil:
		m.user = user
		m.state = StateReadyWithProfile
		return nil
	case models.IsCode(err, models.CodeNotFound):
		m.user = nil
		m.state = StateReadyNoProfile
		return nil
	default:
		// Identity is usable even when the profile fetch fails; the
		// next profile read retries. The failure never propagates.
		m.user = nil
		m.state = StateReadyNoProfile
		m.log.LogWithCorrelation(ctx, "profile fetch failed, continuing without profile",
			map[string]interface{}{"error": err.Error()})
		return nil
	}
}

// CreateProfile picks a username and creates the profile. The avatar is
// derived from the username.
func (m *Manager) CreateProfile(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}

	m.mu.RLock()
	state := m.state
	userID := ""
	if m.creds != nil {
		userID = m.creds.UserID
	}
	m.mu.RUnlock()

	if state != StateReadyNoProfile && state != StateReadyWithProfile {
		return nil, models.NewNotAuthenticatedError("identity not initialized")
	}
	if state == StateReadyWithProfile {
		return nil, models.NewValidationError("profile already exists")
	}

	user, err := m.profiles.Create(ctx, &models.User{
		ID:        userID,
		Username:  username,
		AvatarURL: AvatarURL(m.avatarBase, username),
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.state = StateReadyWithProfile
	m.mu.Unlock()
	return user, nil
}

// CreateRandomProfile creates a profile with a generated username.
func (m *Manager) CreateRandomProfile(ctx context.Context) (*models.User, error) {
	return m.CreateProfile(ctx, RandomUsername())
}

// UpdateUsername renames the profile and refreshes the derived avatar.
func (m *Manager) UpdateUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}

	m.mu.RLock()
	state := m.state
	userID := ""
	if m.creds != nil {
		userID = m.creds.UserID
	}
	m.mu.RUnlock()

	if state != StateReadyWithProfile {
		return nil, models.NewValidationError("no profile to update")
	}

	user, err := m.profiles.UpdateUsername(ctx, userID, username)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return user, nil
}

// SignOut discards the current identity and immediately mints a fresh
// anonymous one. The old identity and its content are unrecoverable.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.store.Clear(); err != nil {
		return models.NewInternalError(err)
	}

	creds, err := m.auth.NewAnonymousSession(ctx)
	if err != nil {
		return models.NewBackendError(err)
	}
	if err := m.store.Save(creds); err != nil {
		return models.NewInternalError(err)
	}

	m.mu.Lock()
	m.creds = creds
	m.user = nil
	m.state = StateReadyNoProfile
	m.mu.Unlock()

	m.log.LogWithCorrelation(ctx, "signed out, new anonymous identity minted", nil)
	return nil
}
