package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogo/lawchat/internal/api"
	apierrors "github.com/diogo/lawchat/internal/errors"
	"github.com/diogo/lawchat/internal/models"
)

// IDFunc generates message identifiers
type IDFunc func() string

// Reply carries a finished request back to the controller
type Reply struct {
	Seq     uint64
	Result  api.Result
	Elapsed time.Duration
}

// Controller owns the conversation state and the single request slot.
// It is driven from one event loop and is not safe for concurrent use.
type Controller struct {
	state  State
	asker  api.Asker
	logger zerolog.Logger
	newID  IDFunc
	seq    uint64
}

// Option configures a Controller
type Option func(*controllerConfig)

type controllerConfig struct {
	logger   zerolog.Logger
	newID    IDFunc
	greeting string
}

// WithLogger sets the controller's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *controllerConfig) {
		c.logger = logger
	}
}

// WithIDFunc overrides message ID generation
func WithIDFunc(fn IDFunc) Option {
	return func(c *controllerConfig) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithGreeting replaces the initial bot message; an empty string starts empty
func WithGreeting(text string) Option {
	return func(c *controllerConfig) {
		c.greeting = text
	}
}

// NewController creates a controller that asks questions through asker
func NewController(asker api.Asker, opts ...Option) *Controller {
	cfg := controllerConfig{
		logger:   zerolog.Nop(),
		newID:    uuid.NewString,
		greeting: models.GreetingText,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Controller{
		state:  NewState(cfg.newID(), cfg.greeting),
		asker:  asker,
		logger: cfg.logger,
		newID:  cfg.newID,
	}
}

// State returns the current conversation state
func (c *Controller) State() State {
	return c.state
}

// InFlight reports whether a request is outstanding
func (c *Controller) InFlight() bool {
	return c.state.InFlight
}

// Questions returns the past user questions shown in the side panel
func (c *Controller) Questions() []string {
	return c.state.Questions()
}

// SetDraft records the current input text
func (c *Controller) SetDraft(draft string) {
	c.state = c.state.WithDraft(draft)
}

// Submit records the question and returns the call that performs the
// request. It returns nil when the submission is rejected. The returned
// function blocks and must run off the event loop; its Reply goes to Receive.
func (c *Controller) Submit(ctx context.Context, text string) func() Reply {
	next, ok := c.state.Submit(text, c.newID())
	if !ok {
		c.logger.Debug().
			Bool("in_flight", c.state.InFlight).
			Msg("submission rejected")
		return nil
	}

	c.state = next
	c.seq++
	seq := c.seq
	question := lastQuestion(next)

	c.logger.Info().
		Uint64("seq", seq).
		Int("question_len", len(question)).
		Msg("question submitted")

	asker := c.asker
	return func() Reply {
		start := time.Now()
		result := asker.Ask(ctx, question)
		return Reply{Seq: seq, Result: result, Elapsed: time.Since(start)}
	}
}

// Receive applies a finished request to the conversation
func (c *Controller) Receive(reply Reply) {
	if !c.state.InFlight || reply.Seq != c.seq {
		c.logger.Warn().
			Uint64("seq", reply.Seq).
			Uint64("current", c.seq).
			Msg("ignoring stale reply")
		return
	}

	if reply.Result.OK() {
		c.logger.Info().
			Uint64("seq", reply.Seq).
			Dur("elapsed", reply.Elapsed).
			Bool("empty", reply.Result.Answer == "").
			Msg("question answered")
	} else {
		c.logger.Warn().
			Err(reply.Result.Err).
			Uint64("seq", reply.Seq).
			Dur("elapsed", reply.Elapsed).
			Str("kind", apierrors.Kind(reply.Result.Err)).
			Int("status", apierrors.GetHTTPStatus(reply.Result.Err)).
			Msg("answer service unavailable")
	}

	c.state = c.state.Resolve(reply.Result, c.newID())
}

func lastQuestion(s State) string {
	questions := s.Questions()
	if len(questions) == 0 {
		return ""
	}
	return questions[len(questions)-1]
}
