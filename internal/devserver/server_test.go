package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"signa/internal/api"
	"signa/internal/domain"
)

type tokenHeaders struct{ token string }

func (h *tokenHeaders) AuthHeaders() http.Header {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	if h.token != "" {
		hdr.Set("Authorization", "Bearer "+h.token)
	}
	return hdr
}

// skew shifts the server clock.
var skew atomic.Int64

func start(t *testing.T) (*Server, *api.Client, *tokenHeaders) {
	t.Helper()
	skew.Store(0)
	s, err := New(Options{
		Secret:     []byte("test-secret"),
		BcryptCost: bcrypt.MinCost,
		Now:        func() time.Time { return time.Now().Add(time.Duration(skew.Load())) },
	})
	require.NoError(t, err)
	_, err = s.AddAccount(domain.UserDraft{Name: "Admin", Surname: "Root", Email: "admin@signa.local", Address: "HQ"}, "admin")
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	hdr := &tokenHeaders{}
	return s, api.New(srv.URL+"/api", srv.Client(), hdr, nil), hdr
}

func login(t *testing.T, c *api.Client, hdr *tokenHeaders, user, pass string) domain.LoginResult {
	t.Helper()
	res, err := c.Login(context.Background(), domain.Credentials{Username: user, Password: pass})
	require.NoError(t, err)
	hdr.token = res.AccessToken
	return res
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	_, c, hdr := start(t)

	_, err := c.Login(context.Background(), domain.Credentials{Username: "admin@signa.local", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
	assert.Equal(t, "invalid credentials", err.Error())

	res := login(t, c, hdr, "admin@signa.local", "admin")
	assert.Equal(t, "Admin", res.User.Name)
	assert.Equal(t, int64(24*60*60), res.ExpiresIn)
	assert.NotEmpty(t, res.AccessToken)
}

func TestRequiresBearer(t *testing.T) {
	_, c, hdr := start(t)

	_, err := c.ListSigns(context.Background())
	require.Error(t, err)
	assert.Equal(t, "authorization token required", err.Error())

	hdr.token = "garbage"
	_, err = c.ListSigns(context.Background())
	assert.Equal(t, "invalid or expired token", err.Error())

	login(t, c, hdr, "admin@signa.local", "admin")
	skew.Store(int64(25 * time.Hour))
	_, err = c.ListSigns(context.Background())
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
}

func TestSignLifecycle(t *testing.T) {
	_, c, hdr := start(t)
	ctx := context.Background()
	login(t, c, hdr, "admin@signa.local", "admin")

	draft := domain.SignDraft{SignName: "Acme", Name: "Ana", Surname: "Ruiz", Email: "Ana@Example.com", Address: "Main 1"}
	created, err := c.CreateSign(ctx, draft)
	require.NoError(t, err)
	require.NotNil(t, created.UserCreated)
	assert.True(t, *created.UserCreated)
	assert.Equal(t, "ana@example.com", created.User.Email)

	// The generated password logs the new owner in.
	_, password, ok := strings.Cut(created.Note, "password: ")
	require.True(t, ok)
	login(t, c, hdr, "ana@example.com", password)

	draft.SignName = "Acme"
	_, err = c.CreateSign(ctx, draft)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	draft.SignName = "Globex"
	second, err := c.CreateSign(ctx, draft)
	require.NoError(t, err)
	assert.False(t, *second.UserCreated)
	assert.Equal(t, created.User.ID, second.User.ID)

	recs, err := c.ListSigns(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Acme", recs[0].Sign.SignName)

	name := "Globex"
	_, err = c.UpdateSign(ctx, created.Sign.ID, domain.SignPatch{SignName: &name})
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	addr := "Main 2"
	updated, err := c.UpdateSign(ctx, created.Sign.ID, domain.SignPatch{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Main 2", updated.User.Address)
	assert.Equal(t, "Acme", updated.Sign.SignName)

	_, err = c.UpdateSign(ctx, created.Sign.ID, domain.SignPatch{})
	assert.Equal(t, "no data to update", err.Error())

	_, err = c.DeleteSign(ctx, created.Sign.ID)
	require.NoError(t, err)
	_, err = c.GetSign(ctx, created.Sign.ID)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	_, err = c.DeleteSign(ctx, created.Sign.ID)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))

	recs, err = c.ListSigns(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Globex", recs[0].Sign.SignName)
}

func TestUsers(t *testing.T) {
	_, c, hdr := start(t)
	ctx := context.Background()
	login(t, c, hdr, "admin@signa.local", "admin")

	res, err := c.CreateUser(ctx, domain.UserDraft{Name: "Bo", Surname: "Li", Email: "bo@example.com", Address: "Side 2"})
	require.NoError(t, err)
	id := res.User.ID

	_, err = c.CreateUser(ctx, domain.UserDraft{Name: "Bo", Surname: "Li", Email: "bo@example.com", Address: "Side 2"})
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	pw := "fresh"
	_, err = c.UpdateUser(ctx, id, domain.UserPatch{Password: &pw})
	require.NoError(t, err)
	login(t, c, hdr, "bo@example.com", "fresh")

	u, err := c.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", u.Username)

	_, err = c.DeleteUser(ctx, id)
	require.NoError(t, err)
	_, err = c.GetUser(ctx, id)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
}
