package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signa/internal/domain"
	"signa/internal/services/users"
	"signa/internal/session"
)

type fakeUsers struct {
	domain.UserAPI
	created []domain.UserDraft
	deleted []domain.UserID
	err     error
}

func (f *fakeUsers) CreateUser(_ context.Context, d domain.UserDraft) (domain.SignResult, error) {
	f.created = append(f.created, d)
	return domain.SignResult{Message: "created"}, f.err
}

func (f *fakeUsers) DeleteUser(_ context.Context, id domain.UserID) (domain.Ack, error) {
	f.deleted = append(f.deleted, id)
	return domain.Ack{}, f.err
}

type guard struct{ err error }

func (g guard) Require() error { return g.err }

func TestCreate_ValidatesDraft(t *testing.T) {
	f := &fakeUsers{}
	svc := users.New(f, guard{}, nil)

	_, err := svc.Create(context.Background(), domain.UserDraft{Name: "Ana", Surname: " ", Email: "a@b.com", Address: "Main 1"})
	assert.ErrorIs(t, err, users.ErrInvalidDraft)
	assert.Empty(t, f.created)

	_, err = svc.Create(context.Background(), domain.UserDraft{Name: "Ana", Surname: "Ruiz", Email: "a@b.com", Address: "Main 1"})
	require.NoError(t, err)
	assert.Len(t, f.created, 1)
}

func TestDelete_WrapsBackendError(t *testing.T) {
	cause := errors.New("in use")
	svc := users.New(&fakeUsers{err: cause}, guard{}, nil)
	err := svc.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "deleting user 3")
}

func TestGuarded(t *testing.T) {
	f := &fakeUsers{}
	svc := users.New(f, guard{err: session.ErrUnauthenticated}, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), session.ErrUnauthenticated)
	assert.Empty(t, f.deleted)
}

func TestUpdate_RejectsEmptyPatch(t *testing.T) {
	svc := users.New(&fakeUsers{}, guard{}, nil)
	_, err := svc.Update(context.Background(), 1, domain.UserPatch{})
	assert.Error(t, err)
}
