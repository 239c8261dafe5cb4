// Package auth is a client-only account demo ported as-is: accounts live in
// the local store keyed by email, and passwords are stored and compared in
// PLAIN TEXT. This is deliberately non-production behavior preserved from
// the demonstrated contract; a real system must never do this.
package auth

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"menucart/internal/logger"
)

// StorageKey is the logical key the account mapping persists under.
const StorageKey = "users"

var (
	ErrMissingName        = errors.New("full name is required")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account is a demo account. Password is plaintext on purpose, see the
// package comment.
type Account struct {
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// Persister is the slice of the persistent store auth needs.
type Persister interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Service reads and writes the email-to-account mapping. No session or
// token is ever issued; success is purely a UI acknowledgment.
type Service struct {
	persist Persister
}

func NewService(p Persister) *Service {
	return &Service{persist: p}
}

// Register creates a new account. Fails with ErrMissingName when fullName
// is empty and ErrAlreadyExists when the email is already taken; the
// existing account is left untouched in that case.
func (s *Service) Register(email, password, fullName string) error {
	if strings.TrimSpace(fullName) == "" {
		return ErrMissingName
	}

	accounts := s.loadAccounts()
	if _, ok := accounts[email]; ok {
		return ErrAlreadyExists
	}

	accounts[email] = Account{FullName: fullName, Password: password}
	if err := s.saveAccounts(accounts); err != nil {
		return err
	}

	logger.LogInfo("Registered demo account for %s", email)
	return nil
}

// Login checks email and password against the stored mapping. An absent
// email and a wrong password are indistinguishable to the caller.
func (s *Service) Login(email, password string) error {
	accounts := s.loadAccounts()

	account, ok := accounts[email]
	if !ok || account.Password != password {
		return ErrInvalidCredentials
	}

	logger.LogInfo("Demo login for %s", email)
	return nil
}

// loadAccounts returns the stored mapping. Absent or malformed state is an
// empty mapping, same recovery policy as the cart.
func (s *Service) loadAccounts() map[string]Account {
	accounts := make(map[string]Account)

	raw, ok, err := s.persist.Get(StorageKey)
	if err != nil {
		logger.LogWarn("Could not read stored accounts: %v", err)
		return accounts
	}
	if !ok || raw == "" {
		return accounts
	}

	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		logger.LogWarn("Stored accounts are malformed, starting empty: %v", err)
		return make(map[string]Account)
	}

	return accounts
}

func (s *Service) saveAccounts(accounts map[string]Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return errors.Wrap(err, "failed to serialize accounts")
	}
	if err := s.persist.Put(StorageKey, string(data)); err != nil {
		return errors.Wrap(err, "failed to persist accounts")
	}
	return nil
}
