package venmo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// PaymentRequest is one request recorded by MockService.
type PaymentRequest struct {
	Amount decimal.Decimal
	Note   string
	UserID string
}

// MockService is an in-memory Service for tests and local development.
type MockService struct {
	mu          sync.Mutex
	me          Profile
	users       map[string]Profile
	friends     []Profile
	findErrs    map[string]error
	paymentErrs map[string]error
	requests    []PaymentRequest
}

var _ Service = (*MockService)(nil)

// NewMockService returns a mock whose owner is me and whose directory holds
// users. Every user is also a friend of me.
func NewMockService(me Profile, users ...Profile) *MockService {
	m := &MockService{
		me:          me,
		users:       make(map[string]Profile),
		findErrs:    make(map[string]error),
		paymentErrs: make(map[string]error),
	}
	for _, u := range users {
		m.users[strings.ToLower(u.Username)] = u
		m.friends = append(m.friends, u)
	}
	return m
}

// FailFindUser makes FindUser(username) return err.
func (m *MockService) FailFindUser(username string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findErrs[strings.ToLower(username)] = err
}

// FailPayment makes RequestPayment for userID return err.
func (m *MockService) FailPayment(userID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paymentErrs[userID] = err
}

// Requests returns a copy of the payment requests issued so far.
func (m *MockService) Requests() []PaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PaymentRequest(nil), m.requests...)
}

func (m *MockService) GetProfile(ctx context.Context) (*Profile, error) {
	p := m.me
	return &p, nil
}

func (m *MockService) ListFriends(ctx context.Context, userID string) ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if userID != m.me.ID {
		return nil, nil
	}
	return append([]Profile(nil), m.friends...), nil
}

func (m *MockService) FindUser(ctx context.Context, username string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(username)
	if err, ok := m.findErrs[key]; ok {
		return nil, err
	}
	u, ok := m.users[key]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MockService) RequestPayment(ctx context.Context, amount decimal.Decimal, note, userID string) error {
	if amount.IsNegative() {
		return fmt.Errorf("request payment: %w", ErrNegativeAmount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.paymentErrs[userID]; ok {
		return err
	}
	m.requests = append(m.requests, PaymentRequest{Amount: amount, Note: note, UserID: userID})
	return nil
}
