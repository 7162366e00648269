package dealerai

import (
	"context"
	"sync"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// CommentService produces a dealer one-liner for a prompt. Implemented
// by *Client; tests substitute fakes.
type CommentService interface {
	DealerComment(ctx context.Context, prompt string) (string, error)
}

// Update is delivered to the listener whenever the displayed dealer
// message changes.
type Update struct {
	Message  string
	Thinking bool
}

// Commentator turns table events into dealer chatter without ever
// blocking the game. Each React issues a monotonic request token;
// whichever response returns is applied only if its token is still the
// newest, so a slow reply can never overwrite a fresher one. In-flight
// requests are not cancelled, only suppressed.
type Commentator struct {
	svc      CommentService
	clock    quartz.Clock
	logger   *log.Logger
	rng      *rand.Rand
	timeout  time.Duration
	onUpdate func(Update)

	mu        sync.Mutex
	lastToken uint64
	nextToken uint64
	message   string
	thinking  bool
}

// CommentatorOption configures a Commentator
type CommentatorOption func(*Commentator)

// WithClock substitutes the clock used for the response timeout
func WithClock(clock quartz.Clock) CommentatorOption {
	return func(c *Commentator) { c.clock = clock }
}

// WithTimeout sets how long a comment request may stay pending before
// the canned fallback is shown
func WithTimeout(timeout time.Duration) CommentatorOption {
	return func(c *Commentator) { c.timeout = timeout }
}

// WithRand substitutes the RNG used for fallback selection
func WithRand(rng *rand.Rand) CommentatorOption {
	return func(c *Commentator) { c.rng = rng }
}

// WithUpdateFunc registers the listener notified on message changes
func WithUpdateFunc(fn func(Update)) CommentatorOption {
	return func(c *Commentator) { c.onUpdate = fn }
}

// NewCommentator creates a commentator around the given service
func NewCommentator(svc CommentService, logger *log.Logger, opts ...CommentatorOption) *Commentator {
	c := &Commentator{
		svc:     svc,
		clock:   quartz.NewReal(),
		logger:  logger.WithPrefix("commentator"),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		timeout: 10 * time.Second,
		message: "Welcome to the high limit room.",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Message returns the currently displayed dealer line
func (c *Commentator) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Thinking reports whether a comment request is pending
func (c *Commentator) Thinking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thinking
}

// Say displays a fixed line immediately, bypassing the service. The
// line still takes a token so it wins over older pending requests.
func (c *Commentator) Say(message string) {
	c.mu.Lock()
	token := c.issueLocked()
	c.mu.Unlock()
	c.apply(token, message)
}

// React requests a comment for the snapshot and returns immediately.
// The response (or, on failure/timeout, a canned line for the same
// event) is applied later, unless a newer request superseded it.
func (c *Commentator) React(snap Snapshot) {
	prompt, key := BuildComment(snap)

	c.mu.Lock()
	token := c.issueLocked()
	c.thinking = true
	fallback := Fallback(c.rng, key)
	c.mu.Unlock()
	c.notify()

	go c.request(token, prompt, fallback)
}

func (c *Commentator) request(token uint64, prompt, fallback string) {
	respCh := make(chan string, 1)
	go func() {
		text, err := c.svc.DealerComment(context.Background(), prompt)
		if err != nil {
			c.logger.Debug("comment request failed, using fallback", "error", err)
			respCh <- fallback
			return
		}
		respCh <- text
	}()

	timedOut := make(chan struct{})
	timer := c.clock.AfterFunc(c.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case text := <-respCh:
		c.apply(token, text)
	case <-timedOut:
		c.logger.Debug("comment request timed out, using fallback")
		c.apply(token, fallback)
	}
}

// apply installs a response if its token is still the newest; stale
// responses are discarded without touching the displayed message.
func (c *Commentator) apply(token uint64, message string) {
	c.mu.Lock()
	if token != c.lastToken {
		c.mu.Unlock()
		c.logger.Debug("discarding stale comment", "token", token)
		return
	}
	c.message = message
	c.thinking = false
	c.mu.Unlock()
	c.notify()
}

// issueLocked mints the next request token; callers hold mu.
func (c *Commentator) issueLocked() uint64 {
	c.nextToken++
	c.lastToken = c.nextToken
	return c.nextToken
}

func (c *Commentator) notify() {
	if c.onUpdate == nil {
		return
	}
	c.mu.Lock()
	update := Update{Message: c.message, Thinking: c.thinking}
	c.mu.Unlock()
	c.onUpdate(update)
}
