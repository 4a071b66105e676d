package identity

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"studytrail/internal/account/models"
)

// InMemoryProvider issues accounts in process memory for tests and dev.
type InMemoryProvider struct {
	mu      sync.Mutex
	byEmail map[string]*models.Account
	hashes  map[string]string
	cost    int
	clock   func() time.Time
}

type MemoryOption func(*InMemoryProvider)

// WithMemoryCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithMemoryCost(cost int) MemoryOption {
	return func(p *InMemoryProvider) {
		p.cost = cost
	}
}

func NewInMemory(opts ...MemoryOption) *InMemoryProvider {
	p := &InMemoryProvider{
		byEmail: make(map[string]*models.Account),
		hashes:  make(map[string]string),
		cost:    bcrypt.DefaultCost,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *InMemoryProvider) CreateAccount(_ context.Context, req CreateAccountRequest) (*models.Account, error) {
	account, hash, err := prepare(req, p.cost, p.clock())
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byEmail[account.Email]; exists {
		return nil, emailTaken()
	}
	p.byEmail[account.Email] = account
	p.hashes[account.Email] = hash

	clone := *account
	return &clone, nil
}

// PasswordHash returns the stored hash for email, if any.
func (p *InMemoryProvider) PasswordHash(email string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	hash, ok := p.hashes[email]
	return hash, ok
}
