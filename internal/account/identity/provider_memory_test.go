package identity

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	dErrors "studytrail/pkg/domain-errors"
)

type InMemoryProviderSuite struct {
	suite.Suite
	provider *InMemoryProvider
}

func TestInMemoryProviderSuite(t *testing.T) {
	suite.Run(t, new(InMemoryProviderSuite))
}

func (s *InMemoryProviderSuite) SetupTest() {
	s.provider = NewInMemory(WithMemoryCost(bcrypt.MinCost))
}

func (s *InMemoryProviderSuite) TestCreateAccount() {
	account, err := s.provider.CreateAccount(context.Background(), CreateAccountRequest{
		Email:         "  Ann@X.com ",
		Password:      "correct horse",
		EmailVerified: true,
		Metadata:      map[string]string{"first_name": "Ann", "last_name": "Lee"},
	})

	s.Require().NoError(err)
	s.False(account.ID.IsNil())
	s.Equal("ann@x.com", account.Email)
	s.Equal("Ann", account.FirstName)
	s.Equal("Lee", account.LastName)
	s.True(account.EmailVerified)
	s.False(account.CreatedAt.IsZero())

	hash, ok := s.provider.PasswordHash("ann@x.com")
	s.Require().True(ok)
	s.NotEqual("correct horse", hash)
	s.NoError(CheckPassword(hash, "correct horse"))
	s.True(dErrors.HasCode(CheckPassword(hash, "wrong"), dErrors.CodeUnauthorized))
}

func (s *InMemoryProviderSuite) TestDuplicateEmailIsConflict() {
	ctx := context.Background()
	_, err := s.provider.CreateAccount(ctx, CreateAccountRequest{Email: "a@x.com", Password: "pw"})
	s.Require().NoError(err)

	_, err = s.provider.CreateAccount(ctx, CreateAccountRequest{Email: "A@X.COM", Password: "other"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *InMemoryProviderSuite) TestConcurrentSignupsForOneEmail() {
	ctx := context.Background()
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.provider.CreateAccount(ctx, CreateAccountRequest{Email: "race@x.com", Password: "pw"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if dErrors.HasCode(err, dErrors.CodeConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, created)
	s.Equal(7, conflicts)
}

func (s *InMemoryProviderSuite) TestValidation() {
	ctx := context.Background()
	tests := map[string]CreateAccountRequest{
		"missing email":     {Password: "pw"},
		"malformed email":   {Email: "nope", Password: "pw"},
		"missing password":  {Email: "a@x.com"},
		"password too long": {Email: "b@x.com", Password: strings.Repeat("p", 73)},
	}
	for name, req := range tests {
		s.Run(name, func() {
			_, err := s.provider.CreateAccount(ctx, req)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
}
