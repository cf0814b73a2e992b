package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"signa/internal/domain"
)

// ErrInvalidDraft is returned by Create when a required field is blank.
var ErrInvalidDraft = errors.New("name, surname, email and address are required")

// Service wraps domain.UserAPI behind the session guard.
type Service struct {
	api   domain.UserAPI
	guard domain.Guard
	log   *zap.Logger
}

// New returns a users Service.
func New(api domain.UserAPI, guard domain.Guard, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, guard: guard, log: log}
}

// List returns every account known to the backend.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	out, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return out, nil
}

// Get loads one account by id.
func (s *Service) Get(ctx context.Context, id domain.UserID) (domain.User, error) {
	if err := s.require(); err != nil {
		return domain.User{}, err
	}
	out, err := s.api.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("loading user %s: %w", id, err)
	}
	return out, nil
}

// Create registers a new account. All draft fields are required.
func (s *Service) Create(ctx context.Context, d domain.UserDraft) (domain.SignResult, error) {
	if err := s.require(); err != nil {
		return domain.SignResult{}, err
	}
	for _, v := range []string{d.Name, d.Surname, d.Email, d.Address} {
		if strings.TrimSpace(v) == "" {
			return domain.SignResult{}, ErrInvalidDraft
		}
	}
	out, err := s.api.CreateUser(ctx, d)
	if err != nil {
		return domain.SignResult{}, fmt.Errorf("creating user: %w", err)
	}
	s.log.Info("user created", zap.String("email", d.Email))
	return out, nil
}

// Update applies a partial update; an empty patch is rejected.
func (s *Service) Update(ctx context.Context, id domain.UserID, p domain.UserPatch) (domain.SignResult, error) {
	if err := s.require(); err != nil {
		return domain.SignResult{}, err
	}
	if p.Empty() {
		return domain.SignResult{}, errors.New("nothing to update")
	}
	out, err := s.api.UpdateUser(ctx, id, p)
	if err != nil {
		return domain.SignResult{}, fmt.Errorf("updating user %s: %w", id, err)
	}
	return out, nil
}

// Delete removes an account. The backend decides whether that is a soft delete.
func (s *Service) Delete(ctx context.Context, id domain.UserID) error {
	if err := s.require(); err != nil {
		return err
	}
	if _, err := s.api.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	s.log.Info("user deleted", zap.Int64("user_id", int64(id)))
	return nil
}

func (s *Service) require() error {
	if s.guard == nil {
		return nil
	}
	return s.guard.Require()
}
