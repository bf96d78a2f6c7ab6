package credentials

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/MrEthical07/goAuthState/session"
	"github.com/MrEthical07/goAuthState/token"
)

// StaticExchanger verifies secrets against an in-memory directory of
// argon2id hashes and issues tokens through a [token.Manager].
type StaticExchanger struct {
	mu       sync.RWMutex
	accounts map[string]account
	issuer   *token.Manager
	params   Params
	// decoy is verified for unknown identifiers so lookups cost the same.
	decoy string
}

type account struct {
	hash     string
	user     session.UserProfile
	disabled bool
}

// NewStaticExchanger returns an empty directory.
func NewStaticExchanger(issuer *token.Manager, params Params) (*StaticExchanger, error) {
	if issuer == nil {
		return nil, errors.New("token manager is required")
	}
	decoy, err := HashSecret(params, "decoy-secret-value")
	if err != nil {
		return nil, err
	}
	return &StaticExchanger{
		accounts: make(map[string]account),
		issuer:   issuer,
		params:   params,
		decoy:    decoy,
	}, nil
}

// AddUser hashes secret and registers identifier.
func (s *StaticExchanger) AddUser(identifier, secret string, user session.UserProfile) error {
	hash, err := HashSecret(s.params, secret)
	if err != nil {
		return err
	}
	return s.AddHashed(identifier, hash, user)
}

// AddHashed registers identifier with a precomputed PHC hash.
func (s *StaticExchanger) AddHashed(identifier, hash string, user session.UserProfile) error {
	id := normalizeIdentifier(identifier)
	if id == "" {
		return errors.New("identifier is required")
	}
	if err := session.ValidateUser(user); err != nil {
		return err
	}
	if _, _, _, err := decodeHash(hash); err != nil {
		return err
	}

	s.mu.Lock()
	s.accounts[id] = account{hash: hash, user: user}
	s.mu.Unlock()
	return nil
}

// Disable rejects future exchanges for identifier.
func (s *StaticExchanger) Disable(identifier string) {
	id := normalizeIdentifier(identifier)
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[id]; ok {
		acc.disabled = true
		s.accounts[id] = acc
	}
}

// Exchange implements [Exchanger].
func (s *StaticExchanger) Exchange(ctx context.Context, identifier, secret string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, unavailable(err)
	}

	s.mu.RLock()
	acc, found := s.accounts[normalizeIdentifier(identifier)]
	s.mu.RUnlock()

	hash := acc.hash
	if !found {
		hash = s.decoy
	}
	ok, err := VerifySecret(secret, hash)
	if err != nil {
		return Result{}, unavailable(err)
	}
	if !found || !ok || acc.disabled {
		return Result{}, rejected("identifier or secret is incorrect")
	}

	tok, err := s.issuer.Issue(acc.user.ID, acc.user.Username, acc.user.Role)
	if err != nil {
		return Result{}, unavailable(err)
	}
	return Result{Token: tok, User: acc.user}, nil
}

func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
