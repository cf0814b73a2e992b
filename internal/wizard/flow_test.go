package wizard_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signa/internal/api"
	"signa/internal/domain"
	"signa/internal/session"
	"signa/internal/wizard"
)

type fakeSigns struct {
	domain.SignAPI // unused methods panic

	mu      sync.Mutex
	calls   []domain.SignDraft
	err     error
	release chan struct{} // when set, CreateSign blocks until closed
	entered chan struct{}
}

func (f *fakeSigns) CreateSign(ctx context.Context, d domain.SignDraft) (domain.SignResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, d)
	release, entered, err := f.release, f.entered, f.err
	f.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return domain.SignResult{}, err
	}
	return domain.SignResult{Message: "created", Sign: domain.Sign{ID: 1, SignName: d.SignName, Status: true}}, nil
}

type allow struct{ err error }

func (a allow) Require() error { return a.err }

type navSpy struct{ ch chan domain.Route }

func newNavSpy() *navSpy { return &navSpy{ch: make(chan domain.Route, 4)} }

func (n *navSpy) Navigate(r domain.Route) { n.ch <- r }

var acme = domain.SignDraft{SignName: "Acme", Name: "Ana", Surname: "Ruiz", Email: "a@b.com", Address: "Main 1"}

func fill(t *testing.T, f *wizard.Flow, d domain.SignDraft) {
	t.Helper()
	require.NoError(t, f.Set(wizard.FieldSignName, d.SignName))
	require.NoError(t, f.Set(wizard.FieldName, d.Name))
	require.NoError(t, f.Set(wizard.FieldSurname, d.Surname))
	require.NoError(t, f.Set(wizard.FieldEmail, d.Email))
	require.NoError(t, f.Set(wizard.FieldAddress, d.Address))
}

func toReview(t *testing.T, f *wizard.Flow) {
	t.Helper()
	require.NoError(t, f.Next())
	require.NoError(t, f.Next())
	require.Equal(t, wizard.StepReview, f.Step())
}

func TestFlow_StartsAtBrandName(t *testing.T) {
	f := wizard.New(&fakeSigns{}, allow{}, nil, wizard.Options{})
	assert.Equal(t, wizard.StepBrandName, f.Step())
	assert.Equal(t, domain.SignDraft{}, f.Draft())
}

func TestFlow_NextFromBrandName(t *testing.T) {
	tests := []struct {
		name     string
		signName string
		ok       bool
	}{
		{"empty", "", false},
		{"whitespace", "  \t ", false},
		{"set", "Acme", true},
		{"padded", "  Acme ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := wizard.New(&fakeSigns{}, allow{}, nil, wizard.Options{})
			require.NoError(t, f.Set(wizard.FieldSignName, tt.signName))

			err := f.Next()
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, wizard.StepOwnerInfo, f.Step())
				return
			}
			assert.ErrorIs(t, err, wizard.ErrIncomplete)
			assert.Equal(t, wizard.StepBrandName, f.Step())
		})
	}
}

func TestFlow_NextFromOwnerInfo_NeedsAllFour(t *testing.T) {
	f := wizard.New(&fakeSigns{}, allow{}, nil, wizard.Options{})
	require.NoError(t, f.Set(wizard.FieldSignName, "Acme"))
	require.NoError(t, f.Next())

	require.NoError(t, f.Set(wizard.FieldName, "Ana"))
	require.NoError(t, f.Set(wizard.FieldSurname, "Ruiz"))
	require.NoError(t, f.Set(wizard.FieldEmail, " "))

	err := f.Next()
	var inc *wizard.IncompleteError
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, wizard.StepOwnerInfo, inc.Step)
	assert.Equal(t, []wizard.Field{wizard.FieldEmail, wizard.FieldAddress}, inc.Missing)
	assert.Equal(t, wizard.StepOwnerInfo, f.Step())
	assert.False(t, f.CanAdvance())

	require.NoError(t, f.Set(wizard.FieldEmail, "a@b.com"))
	require.NoError(t, f.Set(wizard.FieldAddress, "Main 1"))
	assert.True(t, f.CanAdvance())
	require.NoError(t, f.Next())
	assert.Equal(t, wizard.StepReview, f.Step())
}

func TestFlow_BoundaryMovesAreNoops(t *testing.T) {
	f := wizard.New(&fakeSigns{}, allow{}, nil, wizard.Options{})
	f.Back()
	assert.Equal(t, wizard.StepBrandName, f.Step())

	fill(t, f, acme)
	toReview(t, f)
	assert.NoError(t, f.Next())
	assert.Equal(t, wizard.StepReview, f.Step())
	assert.False(t, f.CanAdvance())

	f.Back()
	assert.Equal(t, wizard.StepOwnerInfo, f.Step())
	f.Back()
	assert.Equal(t, wizard.StepBrandName, f.Step())
}

func TestFlow_RandomWalkStaysInRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		f := wizard.New(&fakeSigns{}, allow{}, nil, wizard.Options{})
		if r.IntN(2) == 0 {
			fill(t, f, acme)
		} else {
			require.NoError(t, f.Set(wizard.FieldSignName, "Acme"))
		}
		for j := 0; j < 30; j++ {
			before := f.Step()
			if r.IntN(2) == 0 {
				_ = f.Next()
			} else {
				f.Back()
			}
			after := f.Step()
			require.GreaterOrEqual(t, after, wizard.StepBrandName)
			require.LessOrEqual(t, after, wizard.StepReview)
			diff := int(after) - int(before)
			require.True(t, diff >= -1 && diff <= 1, "moved %d steps", diff)
		}
	}
}

func TestFlow_SubmitOnlyAtReview(t *testing.T) {
	signs := &fakeSigns{}
	f := wizard.New(signs, allow{}, nil, wizard.Options{})
	fill(t, f, acme)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrNotAtReview)
	assert.Empty(t, signs.calls)
}

func TestFlow_SubmitSuccess(t *testing.T) {
	signs := &fakeSigns{}
	nav := newNavSpy()
	f := wizard.New(signs, allow{}, nav, wizard.Options{RedirectDelay: 10 * time.Millisecond})
	defer f.Close()
	fill(t, f, acme)
	toReview(t, f)

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", res.Sign.SignName)
	assert.Equal(t, []domain.SignDraft{acme}, signs.calls)

	assert.Equal(t, wizard.SuccessMessage, f.Message())
	assert.Empty(t, f.Error())
	assert.Equal(t, domain.SignDraft{}, f.Draft())
	assert.False(t, f.Busy())

	select {
	case r := <-nav.ch:
		assert.Equal(t, domain.RouteSigns, r)
	case <-time.After(2 * time.Second):
		t.Fatal("no redirect to the listing")
	}
}

func TestFlow_SubmitFailureKeepsDraft(t *testing.T) {
	signs := &fakeSigns{err: &api.Error{Kind: api.KindStatus, Status: 409, Message: "duplicate sign_name"}}
	nav := newNavSpy()
	f := wizard.New(signs, allow{}, nav, wizard.Options{RedirectDelay: time.Millisecond})
	defer f.Close()
	fill(t, f, acme)
	toReview(t, f)

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "duplicate sign_name", f.Error())
	assert.Empty(t, f.Message())
	assert.Equal(t, wizard.StepReview, f.Step())
	assert.Equal(t, acme, f.Draft())
	assert.False(t, f.Busy(), "submit must be re-enabled")
	assert.Nil(t, f.Redirect())

	// Retry without re-entering anything.
	signs.mu.Lock()
	signs.err = nil
	signs.mu.Unlock()
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.SignDraft{acme, acme}, signs.calls)
}

func TestFlow_SubmitFailureWithoutMessage(t *testing.T) {
	signs := &fakeSigns{err: errors.New("  ")}
	f := wizard.New(signs, allow{}, nil, wizard.Options{})
	fill(t, f, acme)
	toReview(t, f)

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, wizard.FallbackError, f.Error())
}

func TestFlow_SubmitRequiresSession(t *testing.T) {
	signs := &fakeSigns{}
	f := wizard.New(signs, allow{err: session.ErrUnauthenticated}, nil, wizard.Options{})
	fill(t, f, acme)
	toReview(t, f)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.Empty(t, signs.calls)
	assert.Equal(t, acme, f.Draft())
}

func TestFlow_OneSubmissionInFlight(t *testing.T) {
	signs := &fakeSigns{release: make(chan struct{}), entered: make(chan struct{})}
	f := wizard.New(signs, allow{}, nil, wizard.Options{})
	defer f.Close()
	fill(t, f, acme)
	toReview(t, f)

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-signs.entered

	assert.True(t, f.Busy())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrBusy)

	close(signs.release)
	require.NoError(t, <-done)
	assert.False(t, f.Busy())
	assert.Len(t, signs.calls, 1)
}

func TestFlow_CloseCancelsRedirect(t *testing.T) {
	nav := newNavSpy()
	f := wizard.New(&fakeSigns{}, allow{}, nav, wizard.Options{RedirectDelay: time.Hour})
	fill(t, f, acme)
	toReview(t, f)

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	redirect := f.Redirect()
	require.NotNil(t, redirect)

	f.Close()
	<-redirect.Done()
	assert.True(t, redirect.Cancelled())
	assert.Empty(t, nav.ch)
}

func TestParseField(t *testing.T) {
	f, err := wizard.ParseField("Sign-Name")
	require.NoError(t, err)
	assert.Equal(t, wizard.FieldSignName, f)

	_, err = wizard.ParseField("password")
	assert.ErrorIs(t, err, wizard.ErrUnknownField)
}
