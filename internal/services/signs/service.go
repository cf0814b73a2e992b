package signs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"signa/internal/domain"
	"signa/internal/schedule"
)

const (
	DefaultSuccessClear = 3 * time.Second
	DefaultErrorClear   = 5 * time.Second

	DeletedMessage   = "sign deleted"
	UpdatedMessage   = "sign updated"
	NoChangesMessage = "no changes to update"

	// maxParallelFetch bounds GetMany.
	maxParallelFetch = 4
)

var (
	// ErrNoChanges is returned by Update when the edit matches the record.
	ErrNoChanges = errors.New(NoChangesMessage)
	// ErrNotListed is returned when an id is not in the loaded list.
	ErrNotListed = errors.New("sign not in the loaded list")
)

// Options tunes a Service. The zero value uses the defaults.
type Options struct {
	SuccessClear time.Duration
	ErrorClear   time.Duration
	Log          *zap.Logger
}

// Service keeps the sign listing and performs edits and deletes against it.
type Service struct {
	api          domain.SignAPI
	guard        domain.Guard
	log          *zap.Logger
	successClear time.Duration
	errorClear   time.Duration
	tasks        schedule.Group

	mu      sync.Mutex
	records []domain.SignRecord
	message string
	errMsg  string
}

// New returns a Service with an empty list.
func New(api domain.SignAPI, guard domain.Guard, opts Options) *Service {
	if opts.SuccessClear <= 0 {
		opts.SuccessClear = DefaultSuccessClear
	}
	if opts.ErrorClear <= 0 {
		opts.ErrorClear = DefaultErrorClear
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Service{
		api:          api,
		guard:        guard,
		log:          opts.Log,
		successClear: opts.SuccessClear,
		errorClear:   opts.ErrorClear,
	}
}

// Refresh replaces the list with the backend's. On failure the list is emptied.
func (s *Service) Refresh(ctx context.Context) ([]domain.SignRecord, error) {
	if err := s.require(); err != nil {
		return nil, err
	}

	recs, err := s.api.ListSigns(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.records = nil
		s.flashErrorLocked(err.Error())
		return nil, fmt.Errorf("loading signs: %w", err)
	}
	s.records = slices.Clone(recs)
	s.errMsg = ""
	s.log.Debug("signs loaded", zap.Int("count", len(recs)))
	return slices.Clone(recs), nil
}

// Records returns a copy of the loaded list.
func (s *Service) Records() []domain.SignRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Find returns the listed record with id.
func (s *Service) Find(id domain.SignID) (domain.SignRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.records[i], true
	}
	return domain.SignRecord{}, false
}

// Get fetches one sign from the backend.
func (s *Service) Get(ctx context.Context, id domain.SignID) (domain.SignResult, error) {
	if err := s.require(); err != nil {
		return domain.SignResult{}, err
	}
	res, err := s.api.GetSign(ctx, id)
	if err != nil {
		return domain.SignResult{}, fmt.Errorf("loading sign %s: %w", id, err)
	}
	return res, nil
}

// GetMany fetches several signs concurrently. Results keep the order of ids;
// the first failure cancels the rest.
func (s *Service) GetMany(ctx context.Context, ids []domain.SignID) ([]domain.SignResult, error) {
	if err := s.require(); err != nil {
		return nil, err
	}

	out := make([]domain.SignResult, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetch)
	for i, id := range ids {
		g.Go(func() error {
			res, err := s.api.GetSign(ctx, id)
			if err != nil {
				return fmt.Errorf("loading sign %s: %w", id, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the sign from the list, then from the backend. If the
// backend call fails the record is put back where it was.
func (s *Service) Delete(ctx context.Context, id domain.SignID) error {
	if err := s.require(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	var removed domain.SignRecord
	if idx >= 0 {
		removed = s.records[idx]
		s.records = slices.Delete(s.records, idx, idx+1)
	}
	s.mu.Unlock()

	_, err := s.api.DeleteSign(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if idx >= 0 {
			s.records = slices.Insert(s.records, min(idx, len(s.records)), removed)
		}
		s.flashErrorLocked(err.Error())
		return fmt.Errorf("deleting sign %s: %w", id, err)
	}
	s.flashMessageLocked(DeletedMessage)
	s.log.Info("sign deleted", zap.Int64("sign_id", int64(id)))
	return nil
}

// Update sends the fields of edited that differ from rec. With nothing to
// send it returns ErrNoChanges without calling the backend.
func (s *Service) Update(ctx context.Context, rec domain.SignRecord, edited domain.SignDraft) (domain.SignResult, error) {
	if err := s.require(); err != nil {
		return domain.SignResult{}, err
	}

	patch := Diff(rec, edited)
	if patch.Empty() {
		s.mu.Lock()
		s.flashMessageLocked(NoChangesMessage)
		s.mu.Unlock()
		return domain.SignResult{}, ErrNoChanges
	}

	res, err := s.api.UpdateSign(ctx, rec.Sign.ID, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.flashErrorLocked(err.Error())
		return domain.SignResult{}, fmt.Errorf("updating sign %s: %w", rec.Sign.ID, err)
	}
	if i := s.indexLocked(rec.Sign.ID); i >= 0 {
		s.records[i] = res.Record()
	}
	s.errMsg = ""
	s.flashMessageLocked(UpdatedMessage)
	return res, nil
}

// Edit applies change to a copy of the listed record with id and sends the
// difference. Refresh must have loaded the record first.
func (s *Service) Edit(ctx context.Context, id domain.SignID, change func(*domain.SignDraft)) (domain.SignResult, error) {
	rec, ok := s.Find(id)
	if !ok {
		return domain.SignResult{}, fmt.Errorf("sign %s: %w", id, ErrNotListed)
	}
	edited := domain.DraftOf(rec)
	change(&edited)
	return s.Update(ctx, rec, edited)
}

// Message returns the current success message.
func (s *Service) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Error returns the current error message.
func (s *Service) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Close cancels pending message clears.
func (s *Service) Close() {
	s.tasks.Close()
}

func (s *Service) require() error {
	if s.guard == nil {
		return nil
	}
	return s.guard.Require()
}

func (s *Service) indexLocked(id domain.SignID) int {
	return slices.IndexFunc(s.records, func(r domain.SignRecord) bool { return r.Sign.ID == id })
}

func (s *Service) flashMessageLocked(msg string) {
	s.message = msg
	s.tasks.After(s.successClear, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.message == msg {
			s.message = ""
		}
	})
}

func (s *Service) flashErrorLocked(msg string) {
	s.errMsg = msg
	s.tasks.After(s.errorClear, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.errMsg == msg {
			s.errMsg = ""
		}
	})
}

// Diff returns the patch turning rec into edited.
func Diff(rec domain.SignRecord, edited domain.SignDraft) domain.SignPatch {
	var p domain.SignPatch
	orig := domain.DraftOf(rec)
	if edited.SignName != orig.SignName {
		p.SignName = &edited.SignName
	}
	if edited.Name != orig.Name {
		p.Name = &edited.Name
	}
	if edited.Surname != orig.Surname {
		p.Surname = &edited.Surname
	}
	if edited.Email != orig.Email {
		p.Email = &edited.Email
	}
	if edited.Address != orig.Address {
		p.Address = &edited.Address
	}
	return p
}
