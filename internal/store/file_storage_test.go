package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"signa/internal/domain"
	"signa/internal/store"
)

func TestFileStorage_SetGet_OK(t *testing.T) {
	home := t.TempDir()
	var s domain.Storage = store.NewFileStorage(home)

	if err := s.Set(map[string]string{"access_token": "tok", "user": `{"id":1}`}); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := s.Get("access_token")
	if err != nil || !ok || got != "tok" {
		t.Fatalf("get access_token = %q, %v, %v", got, ok, err)
	}
	got, ok, err = s.Get("user")
	if err != nil || !ok || got != `{"id":1}` {
		t.Fatalf("get user = %q, %v, %v", got, ok, err)
	}
}

func TestFileStorage_MissingFile_IsEmpty(t *testing.T) {
	s := store.NewFileStorage(t.TempDir())

	_, ok, err := s.Get("access_token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected no value in fresh storage")
	}
}

func TestFileStorage_Remove_ClearsKeysTogether(t *testing.T) {
	s := store.NewFileStorage(t.TempDir())
	if err := s.Set(map[string]string{"access_token": "tok", "user": "{}"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Remove("access_token", "user"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, k := range []string{"access_token", "user"} {
		if _, ok, _ := s.Get(k); ok {
			t.Fatalf("%s still present after remove", k)
		}
	}
}

func TestFileStorage_FileMode(t *testing.T) {
	home := t.TempDir()
	s := store.NewFileStorage(home)
	if err := s.Set(map[string]string{"k": "v"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	fi, err := os.Stat(filepath.Join(home, "storage.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", fi.Mode().Perm())
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "storage.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := store.NewFileStorage(home)

	if _, _, err := s.Get("user"); !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("get err = %v, want ErrCorrupt", err)
	}
	if err := s.Remove("user"); err != nil {
		t.Fatalf("remove over corrupt file: %v", err)
	}
	if _, _, err := s.Get("user"); err != nil {
		t.Fatalf("get after reset: %v", err)
	}
}

func TestFileStorage_NullFileIsCorrupt(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "storage.json"), []byte("null"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := store.NewFileStorage(home)

	if _, _, err := s.Get("user"); !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("get err = %v, want ErrCorrupt", err)
	}
	if err := s.Set(map[string]string{"user": "x"}); !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("set err = %v, want ErrCorrupt", err)
	}
	if err := s.Remove("user"); err != nil {
		t.Fatalf("remove over null file: %v", err)
	}
	if err := s.Set(map[string]string{"user": "x"}); err != nil {
		t.Fatalf("set after reset: %v", err)
	}
}

func TestFileStorage_Probe(t *testing.T) {
	home := t.TempDir()
	if err := store.NewFileStorage(home).Probe(); err != nil {
		t.Fatalf("probe: %v", err)
	}

	missing := filepath.Join(home, "nope")
	if err := store.NewFileStorage(missing).Probe(); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("probe missing dir err = %v, want ErrUnavailable", err)
	}
	if err := store.NewFileStorage("").Probe(); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("probe empty dir err = %v, want ErrUnavailable", err)
	}
}

func TestSealedFileStorage_RoundTrip(t *testing.T) {
	home := t.TempDir()
	s := store.NewSealedFileStorage(home, "pass")
	if err := s.Set(map[string]string{"access_token": "secret-token"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(home, "storage.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(raw), "secret-token") {
		t.Fatal("sealed file exposes plaintext token")
	}

	got, ok, err := store.NewSealedFileStorage(home, "pass").Get("access_token")
	if err != nil || !ok || got != "secret-token" {
		t.Fatalf("get = %q, %v, %v", got, ok, err)
	}
}

func TestSealedFileStorage_WrongPassphrase_IsCorrupt(t *testing.T) {
	home := t.TempDir()
	if err := store.NewSealedFileStorage(home, "correct").Set(map[string]string{"k": "v"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, _, err := store.NewSealedFileStorage(home, "wrong").Get("k"); !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt with wrong passphrase, got %v", err)
	}
}
