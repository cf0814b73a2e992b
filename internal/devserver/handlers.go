package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"signa/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// authed rejects requests without a valid bearer token.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "authorization token required")
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			writeError(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}
		if err := s.verifyToken(token); err != nil {
			s.log.Debug("token rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	s.mu.RLock()
	var acc *account
	if id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(creds.Username))]; ok {
		acc = s.accounts[id]
	}
	s.mu.RUnlock()

	if acc == nil || !acc.owner.Status || bcrypt.CompareHashAndPassword(acc.password, []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.issueToken(acc)
	if err != nil {
		s.log.Error("signing token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, domain.LoginResult{
		Message:     "login successful",
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.ttl / time.Second),
		User: domain.Profile{
			ID:       acc.owner.ID,
			Name:     acc.owner.Name,
			Surname:  acc.owner.Surname,
			Email:    acc.owner.Email,
			Username: creds.Username,
		},
	})
}

func (s *Server) createSign(w http.ResponseWriter, r *http.Request) {
	var d domain.SignDraft
	if !decode(w, r, &d) {
		return
	}
	for name, v := range map[string]string{
		"sign_name": d.SignName, "name": d.Name, "surname": d.Surname, "email": d.Email, "address": d.Address,
	} {
		if strings.TrimSpace(v) == "" {
			writeError(w, http.StatusBadRequest, "required field: "+name)
			return
		}
	}

	// Hash outside the lock; unused when the owner already exists.
	password := generatePassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signNameTakenLocked(d.SignName, 0) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("a sign named '%s' already exists", d.SignName))
		return
	}

	res := domain.SignResult{Message: "sign created"}
	created := false
	acc := s.accounts[s.byEmail[strings.ToLower(strings.TrimSpace(d.Email))]]
	if acc == nil {
		acc, err = s.createAccountLocked(domain.UserDraft{Name: d.Name, Surname: d.Surname, Email: d.Email, Address: d.Address}, hash)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created = true
		res.Note = "user and credentials created. password: " + password
	} else {
		acc.owner.Status = true
		res.Note = "existing user reused"
	}
	res.UserCreated, res.CredentialsCreated = &created, &created

	s.nextSign++
	sg := &sign{sign: domain.Sign{ID: s.nextSign, SignName: d.SignName, Status: true}, owner: acc.owner.ID}
	s.signs[sg.sign.ID] = sg

	res.Sign, res.User = sg.sign, acc.owner
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) listSigns(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := []domain.SignRecord{}
	for _, id := range s.sortedSignIDsLocked() {
		if sg, acc, ok := s.activeSignLocked(id); ok {
			recs = append(recs, domain.SignRecord{Sign: sg.sign, User: acc.owner})
		}
	}
	writeJSON(w, http.StatusOK, domain.SignList{
		Success:    true,
		Data:       recs,
		StatusCode: http.StatusOK,
		Message:    "signs retrieved",
		Total:      len(recs),
	})
}

func (s *Server) getSign(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sg, acc, ok := s.activeSignLocked(domain.SignID(pathID(r)))
	if !ok {
		writeError(w, http.StatusNotFound, "sign not found")
		return
	}
	writeJSON(w, http.StatusOK, domain.SignResult{Message: "sign retrieved", Sign: sg.sign, User: acc.owner})
}

func (s *Server) updateSign(w http.ResponseWriter, r *http.Request) {
	var p domain.SignPatch
	if !decode(w, r, &p) {
		return
	}
	if p.Empty() {
		writeError(w, http.StatusBadRequest, "no data to update")
		return
	}
	hash, ok := s.hashOptional(w, p.Password)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sg, acc, ok := s.activeSignLocked(domain.SignID(pathID(r)))
	if !ok {
		writeError(w, http.StatusNotFound, "sign not found")
		return
	}
	if p.SignName != nil && !strings.EqualFold(*p.SignName, sg.sign.SignName) && s.signNameTakenLocked(*p.SignName, sg.sign.ID) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("a sign named '%s' already exists", *p.SignName))
		return
	}
	if err := s.applyOwnerLocked(acc, p.Name, p.Surname, p.Email, p.Address, hash); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.SignName != nil {
		sg.sign.SignName = *p.SignName
	}
	writeJSON(w, http.StatusOK, domain.SignResult{Message: "sign updated", Sign: sg.sign, User: acc.owner})
}

func (s *Server) deleteSign(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sg, _, ok := s.activeSignLocked(domain.SignID(pathID(r)))
	if !ok {
		writeError(w, http.StatusNotFound, "sign not found or already deleted")
		return
	}
	sg.sign.Status = false
	writeJSON(w, http.StatusOK, domain.Ack{Message: "sign deleted"})
}

func userOf(acc *account) domain.User {
	return domain.User{
		ID:       acc.owner.ID,
		Name:     acc.owner.Name,
		Surname:  acc.owner.Surname,
		Email:    acc.owner.Email,
		Username: acc.owner.Email,
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.User{}
	for id := domain.UserID(1); id <= s.nextUser; id++ {
		if acc := s.accounts[id]; acc != nil && acc.owner.Status {
			out = append(out, userOf(acc))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) activeAccountLocked(r *http.Request) (*account, bool) {
	acc := s.accounts[domain.UserID(pathID(r))]
	return acc, acc != nil && acc.owner.Status
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.activeAccountLocked(r)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userOf(acc))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var d domain.UserDraft
	if !decode(w, r, &d) {
		return
	}
	for name, v := range map[string]string{"name": d.Name, "surname": d.Surname, "email": d.Email, "address": d.Address} {
		if strings.TrimSpace(v) == "" {
			writeError(w, http.StatusBadRequest, "required field: "+name)
			return
		}
	}
	password := generatePassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.createAccountLocked(d, hash)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created := true
	writeJSON(w, http.StatusCreated, domain.SignResult{
		Message:            "user created",
		User:               acc.owner,
		UserCreated:        &created,
		CredentialsCreated: &created,
		Note:               "password: " + password,
	})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var p domain.UserPatch
	if !decode(w, r, &p) {
		return
	}
	if p.Empty() {
		writeError(w, http.StatusBadRequest, "no data to update")
		return
	}
	hash, ok := s.hashOptional(w, p.Password)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.activeAccountLocked(r)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err := s.applyOwnerLocked(acc, p.Name, p.Surname, p.Email, p.Address, hash); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.SignResult{Message: "user updated", User: acc.owner})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.activeAccountLocked(r)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found or already deleted")
		return
	}
	acc.owner.Status = false
	writeJSON(w, http.StatusOK, domain.Ack{Message: "user deleted"})
}

// hashOptional hashes a new password when one is given. It writes the error
// response itself and reports false on failure.
func (s *Server) hashOptional(w http.ResponseWriter, password *string) ([]byte, bool) {
	if password == nil {
		return nil, true
	}
	if *password == "" {
		writeError(w, http.StatusBadRequest, "password must not be empty")
		return nil, false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), s.cost)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return hash, true
}

func (s *Server) applyOwnerLocked(acc *account, name, surname, email, address *string, hash []byte) error {
	if email != nil {
		e := strings.ToLower(strings.TrimSpace(*email))
		if id, ok := s.byEmail[e]; ok && id != acc.owner.ID {
			return fmt.Errorf("%w: %s", errDuplicateEmail, *email)
		}
		if e == "" {
			return errors.New("email must not be empty")
		}
		delete(s.byEmail, acc.owner.Email)
		s.byEmail[e] = acc.owner.ID
		acc.owner.Email = e
	}
	if name != nil {
		acc.owner.Name = *name
	}
	if surname != nil {
		acc.owner.Surname = *surname
	}
	if address != nil {
		acc.owner.Address = *address
	}
	if hash != nil {
		acc.password = hash
	}
	return nil
}
