package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/pkg"
)

const (
	localAuthIDPrefix = "local|"
	minPasswordLength = 8
)

type userStore interface {
	Add(ctx context.Context, user User) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo userStore
	tx   db.Transactor
	now  func() time.Time
}

func NewService(repo userStore, tx db.Transactor) *Service {
	return &Service{
		repo: repo,
		tx:   tx,
		now:  time.Now,
	}
}

type SignupParams struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (p SignupParams) Validate() error {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: invalid email", apperr.ErrValidation)
	}
	if len(p.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", apperr.ErrValidation, minPasswordLength)
	}
	if len(p.Password) > pkg.MaxPasswordLength {
		return fmt.Errorf("%w: password must have at most %d bytes", apperr.ErrValidation, pkg.MaxPasswordLength)
	}
	return nil
}

// Signup registers a user with the local identity provider.
func (s *Service) Signup(ctx context.Context, params SignupParams) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.signup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	if err := params.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := pkg.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New()
	user := User{
		ID:           id,
		AuthID:       localAuthIDPrefix + id.String(),
		Email:        params.Email,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Add(ctx, user); err != nil {
		return nil, err
	}

	log.Infof("new user signed up: %s", user.ID)
	return &user, nil
}

// Authenticate checks the credentials. Unknown email and wrong password
// are not distinguished.
func (s *Service) Authenticate(ctx context.Context, email, password string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: wrong credentials", apperr.ErrUnauthenticated)
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: wrong credentials", apperr.ErrUnauthenticated)
	}

	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.DeleteCascade(ctx, id)
	})
}
