package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"signa/internal/domain"
	"signa/internal/schedule"
)

const (
	// DefaultRedirectDelay is how long the success message stays up before
	// the flow navigates to the listing.
	DefaultRedirectDelay = 2000 * time.Millisecond

	SuccessMessage = "sign created"
	// FallbackError is shown when a failed submission carries no message.
	FallbackError = "error creating sign"
)

var (
	// ErrNotAtReview is returned by Submit outside the review step.
	ErrNotAtReview = errors.New("submit is only allowed at the review step")
	// ErrBusy is returned by Submit while another submission is in flight.
	ErrBusy = errors.New("a submission is already in progress")
)

// Options tunes a Flow. The zero value uses the defaults.
type Options struct {
	RedirectDelay time.Duration
	Log           *zap.Logger
}

// Flow is the step flow controller. It is safe for concurrent use.
type Flow struct {
	api   domain.SignAPI
	guard domain.Guard
	nav   domain.Navigator
	log   *zap.Logger
	delay time.Duration
	tasks schedule.Group

	mu       sync.Mutex
	step     Step
	draft    domain.SignDraft
	busy     bool
	message  string
	errMsg   string
	redirect *schedule.Task
}

// New returns a Flow at the first step with an empty draft.
func New(api domain.SignAPI, guard domain.Guard, nav domain.Navigator, opts Options) *Flow {
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = DefaultRedirectDelay
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Flow{
		api:   api,
		guard: guard,
		nav:   nav,
		log:   opts.Log,
		delay: opts.RedirectDelay,
		step:  StepBrandName,
	}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Draft returns a copy of the draft.
func (f *Flow) Draft() domain.SignDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Value returns one draft field.
func (f *Flow) Value(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := fieldPtr(&f.draft, field); p != nil {
		return *p
	}
	return ""
}

// Set stores value in the draft. Values are kept as typed; trimming only
// applies to the completeness check.
func (f *Flow) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := fieldPtr(&f.draft, field)
	if p == nil {
		return ErrUnknownField
	}
	*p = value
	return nil
}

// Missing lists the fields at the current step that are empty after trimming.
func (f *Flow) Missing() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return missingLocked(&f.draft, f.step)
}

// CanAdvance reports whether Next would move forward.
func (f *Flow) CanAdvance() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step < StepReview && len(missingLocked(&f.draft, f.step)) == 0
}

// Next moves one step forward. At the review step it does nothing; when the
// current step is incomplete it returns an *IncompleteError and stays put.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step >= StepReview {
		return nil
	}
	if missing := missingLocked(&f.draft, f.step); len(missing) > 0 {
		return &IncompleteError{Step: f.step, Missing: missing}
	}
	f.step++
	return nil
}

// Back moves one step backward; at the first step it does nothing.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step > StepBrandName {
		f.step--
	}
}

// Submit sends the draft to the backend. On success the draft is cleared,
// Message reports SuccessMessage and navigation to the listing is scheduled
// after the redirect delay. On failure Error holds the message, and the step
// and draft are left as they were.
func (f *Flow) Submit(ctx context.Context) (domain.SignResult, error) {
	f.mu.Lock()
	if f.step != StepReview {
		f.mu.Unlock()
		return domain.SignResult{}, ErrNotAtReview
	}
	if f.busy {
		f.mu.Unlock()
		return domain.SignResult{}, ErrBusy
	}
	if f.guard != nil {
		if err := f.guard.Require(); err != nil {
			f.errMsg = err.Error()
			f.mu.Unlock()
			return domain.SignResult{}, err
		}
	}
	f.busy = true
	f.message, f.errMsg = "", ""
	draft := f.draft
	f.mu.Unlock()

	res, err := f.api.CreateSign(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		f.errMsg = errorMessage(err)
		f.log.Debug("create sign failed", zap.String("sign_name", draft.SignName), zap.Error(err))
		return domain.SignResult{}, err
	}

	f.log.Info("sign created", zap.Int64("sign_id", int64(res.Sign.ID)), zap.String("sign_name", res.Sign.SignName))
	f.message = SuccessMessage
	f.draft = domain.SignDraft{}
	f.redirect = f.tasks.After(f.delay, func() {
		if f.nav != nil {
			f.nav.Navigate(domain.RouteSigns)
		}
	})
	return res, nil
}

// Busy reports whether a submission is in flight.
func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Message returns the success message of the last submission, if any.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Error returns the error message of the last submission, if any.
func (f *Flow) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Redirect returns the pending navigation scheduled by the last successful
// submission, or nil.
func (f *Flow) Redirect() *schedule.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirect
}

// Close cancels any pending redirect.
func (f *Flow) Close() {
	f.tasks.Close()
}

func errorMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackError
}

func missingLocked(d *domain.SignDraft, s Step) []Field {
	var missing []Field
	for _, field := range FieldsOf(s) {
		if strings.TrimSpace(*fieldPtr(d, field)) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func fieldPtr(d *domain.SignDraft, field Field) *string {
	switch field {
	case FieldSignName:
		return &d.SignName
	case FieldName:
		return &d.Name
	case FieldSurname:
		return &d.Surname
	case FieldEmail:
		return &d.Email
	case FieldAddress:
		return &d.Address
	}
	return nil
}
