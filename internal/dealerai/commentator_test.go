package dealerai

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khelfun/vicjack/internal/game"
	"github.com/khelfun/vicjack/internal/randutil"
)

type stubResult struct {
	text string
	err  error
}

type stubCall struct {
	prompt string
	reply  chan stubResult
}

// stubService blocks each DealerComment call until the test releases it,
// so response ordering is fully under test control.
type stubService struct {
	calls chan stubCall
}

func newStubService() *stubService {
	return &stubService{calls: make(chan stubCall, 4)}
}

func (s *stubService) DealerComment(ctx context.Context, prompt string) (string, error) {
	call := stubCall{prompt: prompt, reply: make(chan stubResult)}
	s.calls <- call
	res := <-call.reply
	return res.text, res.err
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func waitForUpdate(t *testing.T, updates <-chan Update, want func(Update) bool) Update {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case u := <-updates:
			if want(u) {
				return u
			}
		case <-deadline:
			t.Fatal("timed out waiting for commentator update")
		}
	}
}

func TestCommentatorStaleResponseDiscarded(t *testing.T) {
	svc := newStubService()
	updates := make(chan Update, 16)
	c := NewCommentator(svc, testLogger(),
		WithRand(randutil.New(1)),
		WithTimeout(time.Minute),
		WithUpdateFunc(func(u Update) { updates <- u }),
	)

	snap := Snapshot{State: game.Playing, Results: []game.Result{game.ResultNone}}

	c.React(snap)
	first := <-svc.calls

	c.React(snap)
	second := <-svc.calls

	// The newer request resolves first and becomes the displayed line.
	second.reply <- stubResult{text: "Twenty, huh? Bold table today."}
	waitForUpdate(t, updates, func(u Update) bool {
		return u.Message == "Twenty, huh? Bold table today." && !u.Thinking
	})

	// The older request resolves late. Its token is no longer current,
	// so the reply must be dropped without a visible update.
	first.reply <- stubResult{text: "A late word from an earlier hand."}
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, "Twenty, huh? Bold table today.", c.Message())
	assert.False(t, c.Thinking())
	select {
	case u := <-updates:
		t.Fatalf("unexpected update after stale reply: %+v", u)
	default:
	}
}

func TestCommentatorServiceErrorFallsBack(t *testing.T) {
	svc := newStubService()
	updates := make(chan Update, 16)
	c := NewCommentator(svc, testLogger(),
		WithRand(randutil.New(7)),
		WithTimeout(time.Minute),
		WithUpdateFunc(func(u Update) { updates <- u }),
	)

	c.React(Snapshot{State: game.GameOver, Results: []game.Result{game.ResultBust}})
	call := <-svc.calls
	call.reply <- stubResult{err: context.DeadlineExceeded}

	u := waitForUpdate(t, updates, func(u Update) bool { return !u.Thinking })
	assert.Contains(t, fallbackComments[KeyBust], u.Message)
}

func TestCommentatorTimeoutFallsBack(t *testing.T) {
	mockClock := quartz.NewMock(t)
	svc := newStubService()
	updates := make(chan Update, 16)
	c := NewCommentator(svc, testLogger(),
		WithClock(mockClock),
		WithRand(randutil.New(3)),
		WithTimeout(10*time.Second),
		WithUpdateFunc(func(u Update) { updates <- u }),
	)

	c.React(Snapshot{State: game.GameOver, Results: []game.Result{game.ResultPush}})
	call := <-svc.calls

	// Let the request goroutine arm its timer before advancing.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(10 * time.Second).MustWait(ctx)

	u := waitForUpdate(t, updates, func(u Update) bool { return !u.Thinking })
	assert.Contains(t, fallbackComments[KeyPush], u.Message)

	// The real response arriving after the timeout is stale.
	call.reply <- stubResult{text: "Sorry I took so long."}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, u.Message, c.Message())
}

func TestCommentatorSaySupersedesPending(t *testing.T) {
	svc := newStubService()
	c := NewCommentator(svc, testLogger(),
		WithRand(randutil.New(11)),
		WithTimeout(time.Minute),
	)

	c.React(Snapshot{State: game.Playing, Results: []game.Result{game.ResultNone}})
	call := <-svc.calls

	c.Say("Place your bets.")
	require.Equal(t, "Place your bets.", c.Message())
	require.False(t, c.Thinking())

	call.reply <- stubResult{text: "Too slow to matter."}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "Place your bets.", c.Message())
}
