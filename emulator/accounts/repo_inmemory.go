package accounts

import (
	"fmt"
	"sync"

	errs "github.com/jrsteele09/go-session-gateway/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string // normalized email -> local id
}

// NewInMemoryRepo creates a new in-memory account repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryRepo) Create(account Account) error {
	if account.LocalID == "" {
		return fmt.Errorf("localID is required")
	}
	email := NormalizeEmail(account.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return errs.ErrAccountExists
	}
	if _, ok := r.byID[account.LocalID]; ok {
		return errs.ErrAccountExists
	}
	account.Email = email
	r.byID[account.LocalID] = account
	r.byEmail[email] = account.LocalID
	return nil
}

func (r *InMemoryRepo) Upsert(account Account) error {
	if account.LocalID == "" {
		return fmt.Errorf("localID is required")
	}
	email := NormalizeEmail(account.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byEmail[email]; ok && owner != account.LocalID {
		return errs.ErrAccountExists
	}
	if existing, ok := r.byID[account.LocalID]; ok {
		delete(r.byEmail, existing.Email)
	}
	account.Email = email
	r.byID[account.LocalID] = account
	r.byEmail[email] = account.LocalID
	return nil
}

func (r *InMemoryRepo) GetByEmail(email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return Account{}, errs.ErrAccountNotFound
	}
	return r.byID[id], nil
}

func (r *InMemoryRepo) GetByID(localID string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[localID]
	if !ok {
		return Account{}, errs.ErrAccountNotFound
	}
	return account, nil
}

// Delete removes an account. Deleting an unknown account is not an error.
func (r *InMemoryRepo) Delete(localID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[localID]
	if !ok {
		return nil
	}
	delete(r.byID, localID)
	delete(r.byEmail, account.Email)
	return nil
}
