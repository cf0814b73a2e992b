package devserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"signa/internal/domain"
)

// DefaultTokenTTL matches the backend's 24 hour access tokens.
const DefaultTokenTTL = 24 * time.Hour

var errDuplicateEmail = errors.New("email already registered")

// Options tunes a Server. Secret is required.
type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	Log      *zap.Logger
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// Now defaults to time.Now.
	Now func() time.Time
}

type account struct {
	owner    domain.Owner
	password []byte // bcrypt hash
}

type sign struct {
	sign  domain.Sign
	owner domain.UserID
}

// Server holds accounts and signs in memory.
type Server struct {
	secret []byte
	ttl    time.Duration
	cost   int
	log    *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	accounts map[domain.UserID]*account
	byEmail  map[string]domain.UserID
	signs    map[domain.SignID]*sign
	nextUser domain.UserID
	nextSign domain.SignID
}

// New returns an empty Server.
func New(opts Options) (*Server, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("devserver: empty token secret")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		secret:   opts.Secret,
		ttl:      opts.TokenTTL,
		cost:     opts.BcryptCost,
		log:      opts.Log,
		now:      opts.Now,
		accounts: make(map[domain.UserID]*account),
		byEmail:  make(map[string]domain.UserID),
		signs:    make(map[domain.SignID]*sign),
	}, nil
}

// AddAccount creates an active account that logs in with its email and
// password.
func (s *Server) AddAccount(d domain.UserDraft, password string) (domain.UserID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.createAccountLocked(d, hash)
	if err != nil {
		return 0, err
	}
	return acc.owner.ID, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)

	api.HandleFunc("/sign/create", s.authed(s.createSign)).Methods(http.MethodPost)
	api.HandleFunc("/sign/list", s.authed(s.listSigns)).Methods(http.MethodGet)
	api.HandleFunc("/sign/{id:[0-9]+}", s.authed(s.getSign)).Methods(http.MethodGet)
	api.HandleFunc("/sign/{id:[0-9]+}", s.authed(s.updateSign)).Methods(http.MethodPatch)
	api.HandleFunc("/sign/{id:[0-9]+}", s.authed(s.deleteSign)).Methods(http.MethodDelete)

	api.HandleFunc("/users", s.authed(s.listUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users", s.authed(s.createUser)).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}", s.authed(s.getUser)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", s.authed(s.updateUser)).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id:[0-9]+}", s.authed(s.deleteUser)).Methods(http.MethodDelete)
	return r
}

// issueToken signs an access token for acc.
func (s *Server) issueToken(acc *account) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  int64(acc.owner.ID),
		"username": acc.owner.Email,
		"name":     acc.owner.Name,
		"surname":  acc.owner.Surname,
		"email":    acc.owner.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// verifyToken checks signature and expiry.
func (s *Server) verifyToken(raw string) error {
	_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	return err
}

func (s *Server) createAccountLocked(d domain.UserDraft, hash []byte) (*account, error) {
	email := strings.ToLower(strings.TrimSpace(d.Email))
	if _, ok := s.byEmail[email]; ok {
		return nil, fmt.Errorf("%w: %s", errDuplicateEmail, d.Email)
	}
	s.nextUser++
	acc := &account{
		owner: domain.Owner{
			ID:      s.nextUser,
			Name:    d.Name,
			Surname: d.Surname,
			Email:   email,
			Address: d.Address,
			Status:  true,
		},
		password: hash,
	}
	s.accounts[acc.owner.ID] = acc
	s.byEmail[email] = acc.owner.ID
	return acc, nil
}

// activeSignLocked returns the sign with id if it and its owner are active.
func (s *Server) activeSignLocked(id domain.SignID) (*sign, *account, bool) {
	sg, ok := s.signs[id]
	if !ok || !sg.sign.Status {
		return nil, nil, false
	}
	acc := s.accounts[sg.owner]
	if acc == nil || !acc.owner.Status {
		return nil, nil, false
	}
	return sg, acc, true
}

func (s *Server) signNameTakenLocked(name string, except domain.SignID) bool {
	for id, sg := range s.signs {
		if id != except && sg.sign.Status && strings.EqualFold(sg.sign.SignName, name) {
			return true
		}
	}
	return false
}

func (s *Server) sortedSignIDsLocked() []domain.SignID {
	ids := make([]domain.SignID, 0, len(s.signs))
	for id := range s.signs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// generatePassword returns a random password for new owner accounts.
func generatePassword() string {
	return rand.Text()[:16]
}
