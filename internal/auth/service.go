package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"finergy-service/internal/docstore"
	"finergy-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	usersCollection       = "users"
	credentialsCollection = "credentials"

	minPasswordLength = 6
)

// TokenStore abstracts where session tokens live (in-memory or Redis).
type TokenStore interface {
	Put(ctx context.Context, token, userID string) error
	Lookup(ctx context.Context, token string) (userID string, ok bool, err error)
	Delete(ctx context.Context, token string) error
}

// EventType marks a sign-in/sign-out transition.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is one auth-state transition delivered to subscribers.
type Event struct {
	Type     EventType
	Identity domain.Identity
}

// Service implements credential-based sign-up/sign-in against the document
// store and bearer-token sessions against a TokenStore.
type Service struct {
	store  docstore.Store
	tokens TokenStore
	clock  func() time.Time

	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

func NewService(store docstore.Store, tokens TokenStore) *Service {
	return &Service{
		store:       store,
		tokens:      tokens,
		clock:       time.Now,
		subscribers: make(map[chan Event]struct{}),
	}
}

// SignUp creates credentials and a user profile document, then opens a
// session. The returned token authenticates subsequent requests.
func (s *Service) SignUp(ctx context.Context, email, password, username string) (domain.Identity, string, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return domain.Identity{}, "", fmt.Errorf("%w: invalid email", domain.ErrBadCredentials)
	}
	if len(password) < minPasswordLength {
		return domain.Identity{}, "", fmt.Errorf("%w: password too short", domain.ErrBadCredentials)
	}
	if strings.TrimSpace(username) == "" {
		return domain.Identity{}, "", fmt.Errorf("%w: username required", domain.ErrBadCredentials)
	}

	_, err := s.store.Get(ctx, credentialsCollection, email)
	if err == nil {
		return domain.Identity{}, "", domain.ErrEmailTaken
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return domain.Identity{}, "", fmt.Errorf("check credentials: %w: %v", domain.ErrStorageUnavailable, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("hash password: %w", err)
	}

	userID := uuid.NewString()
	now := s.clock()

	credFields := docstore.Document{
		"userId":       userID,
		"email":        email,
		"passwordHash": string(hash),
		"createdAt":    now.Format(time.RFC3339Nano),
	}
	if err := s.store.Merge(ctx, credentialsCollection, email, credFields); err != nil {
		return domain.Identity{}, "", fmt.Errorf("save credentials: %w: %v", domain.ErrStorageUnavailable, err)
	}

	userFields := docstore.Document{
		"id":    userID,
		"email": email,
		"profile": map[string]any{
			"username":    username,
			"createdAt":   now.Format(time.RFC3339Nano),
			"lastUpdated": now.Format(time.RFC3339Nano),
		},
	}
	if err := s.store.Merge(ctx, usersCollection, userID, userFields); err != nil {
		return domain.Identity{}, "", fmt.Errorf("save profile: %w: %v", domain.ErrStorageUnavailable, err)
	}

	identity := domain.Identity{UserID: userID, Email: email, Username: username}
	token, err := s.openSession(ctx, identity)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return identity, token, nil
}

// SignIn verifies credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Identity, string, error) {
	email = normalizeEmail(email)

	cred, err := s.store.Get(ctx, credentialsCollection, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Identity{}, "", domain.ErrBadCredentials
	}
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("load credentials: %w: %v", domain.ErrStorageUnavailable, err)
	}

	hash := cred.StringAt("passwordHash")
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return domain.Identity{}, "", domain.ErrBadCredentials
	}

	identity, err := s.identityFor(ctx, cred.StringAt("userId"))
	if err != nil {
		return domain.Identity{}, "", err
	}
	token, err := s.openSession(ctx, identity)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return identity, token, nil
}

// Identify resolves a bearer token to its identity, or ErrUnauthenticated.
func (s *Service) Identify(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	userID, ok, err := s.tokens.Lookup(ctx, token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("lookup session: %w: %v", domain.ErrStorageUnavailable, err)
	}
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return s.identityFor(ctx, userID)
}

// SignOut closes the session. Unknown tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, token string) error {
	identity, err := s.Identify(ctx, token)
	if errors.Is(err, domain.ErrUnauthenticated) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("close session: %w: %v", domain.ErrStorageUnavailable, err)
	}
	s.broadcast(Event{Type: EventSignedOut, Identity: identity})
	return nil
}

// Subscribe returns a channel of auth-state transitions. The caller must
// invoke the returned cancel function to avoid leaks.
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Service) openSession(ctx context.Context, identity domain.Identity) (string, error) {
	token := uuid.NewString()
	if err := s.tokens.Put(ctx, token, identity.UserID); err != nil {
		return "", fmt.Errorf("open session: %w: %v", domain.ErrStorageUnavailable, err)
	}
	s.broadcast(Event{Type: EventSignedIn, Identity: identity})
	return token, nil
}

func (s *Service) identityFor(ctx context.Context, userID string) (domain.Identity, error) {
	if userID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	doc, err := s.store.Get(ctx, usersCollection, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load user: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return domain.Identity{
		UserID:   userID,
		Email:    doc.StringAt("email"),
		Username: doc.StringAt("profile", "username"),
	}, nil
}

func (s *Service) broadcast(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the oldest event so a slow subscriber never blocks auth.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
