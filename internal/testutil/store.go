package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
	"github.com/Veraticus/lil-bank-buddy/internal/service"
	"github.com/Veraticus/lil-bank-buddy/internal/storage"
)

var _ service.TransactionStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory TransactionStore for core tests.
type MemoryStore struct {
	accounts map[string][]model.Transaction
	errs     map[string]error
	reads    map[string]int
	mu       sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string][]model.Transaction),
		errs:     make(map[string]error),
		reads:    make(map[string]int),
	}
}

// With registers an account holding transactions and returns the store.
func (m *MemoryStore) With(account string, transactions ...model.Transaction) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account] = append(m.accounts[account], transactions...)
	if m.accounts[account] == nil {
		m.accounts[account] = []model.Transaction{}
	}
	return m
}

// FailWith makes every read of account return err.
func (m *MemoryStore) FailWith(account string, err error) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[account] = err
	return m
}

// Reads returns how many times account was read.
func (m *MemoryStore) Reads(account string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[account]
}

// ReadAll implements service.TransactionStore.
func (m *MemoryStore) ReadAll(_ context.Context, account string) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads[account]++
	if err := m.errs[account]; err != nil {
		return nil, err
	}
	transactions, ok := m.accounts[account]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrAccountNotFound, account)
	}
	return slices.Clone(transactions), nil
}

// Write implements service.TransactionStore.
func (m *MemoryStore) Write(_ context.Context, account string, transactions []model.Transaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[account] = append(m.accounts[account], transactions...)
	if m.accounts[account] == nil {
		m.accounts[account] = []model.Transaction{}
	}
	return len(transactions), nil
}

// Exists implements service.TransactionStore.
func (m *MemoryStore) Exists(_ context.Context, account string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.accounts[account]
	return ok, nil
}
