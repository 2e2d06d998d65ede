package conversation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/lawchat/internal/api"
	apierrors "github.com/diogo/lawchat/internal/errors"
	"github.com/diogo/lawchat/internal/models"
)

// sequentialIDs returns an IDFunc yielding "id-1", "id-2", ...
func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestController(mock *api.MockClient) *Controller {
	return NewController(mock, WithIDFunc(sequentialIDs()))
}

func texts(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func TestNewController_Greeting(t *testing.T) {
	c := newTestController(&api.MockClient{})

	state := c.State()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, models.GreetingText, state.Messages[0].Text)
	assert.Equal(t, models.SenderBot, state.Messages[0].Sender)
	assert.False(t, state.InFlight)
	assert.Empty(t, c.Questions())
}

func TestNewController_WithoutGreeting(t *testing.T) {
	c := NewController(&api.MockClient{}, WithGreeting(""))
	assert.Empty(t, c.State().Messages)
}

func TestSubmit_BlankIsNoop(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n", "   \r\n  "} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			mock := &api.MockClient{}
			c := newTestController(mock)
			c.SetDraft(text)
			before := c.State()

			call := c.Submit(context.Background(), text)

			assert.Nil(t, call)
			assert.Equal(t, before.Messages, c.State().Messages)
			assert.False(t, c.InFlight())
			assert.Equal(t, text, c.State().Draft, "rejected submit keeps the draft")
			assert.Zero(t, mock.CallCount())
		})
	}
}

func TestSubmit_AppendsQuestionAndPlaceholder(t *testing.T) {
	c := newTestController(&api.MockClient{ResultVal: api.Answer("X")})
	c.SetDraft("  contract question  ")

	call := c.Submit(context.Background(), "  contract question  ")
	require.NotNil(t, call)

	state := c.State()
	assert.True(t, state.InFlight)
	assert.Empty(t, state.Draft)
	require.Len(t, state.Messages, 3)
	assert.Equal(t, models.Message{ID: "id-2", Text: "contract question", Sender: models.SenderUser}, state.Messages[1])
	assert.True(t, state.Messages[2].IsPending())
	assert.Equal(t, models.PendingText, state.Messages[2].Text)
	assert.True(t, state.HasPending())
}

func TestSubmit_RejectedWhileInFlight(t *testing.T) {
	mock := &api.MockClient{ResultVal: api.Answer("X")}
	c := newTestController(mock)

	first := c.Submit(context.Background(), "first")
	require.NotNil(t, first)
	during := c.State()

	second := c.Submit(context.Background(), "second")
	assert.Nil(t, second)
	assert.Equal(t, during.Messages, c.State().Messages)

	pending := 0
	for _, msg := range c.State().Messages {
		if msg.IsPending() {
			pending++
		}
	}
	assert.Equal(t, 1, pending)
}

func TestSubmit_SendsTrimmedQuestion(t *testing.T) {
	mock := &api.MockClient{ResultVal: api.Answer("X")}
	c := newTestController(mock)

	call := c.Submit(context.Background(), "  lease terms \n")
	require.NotNil(t, call)
	call()

	assert.Equal(t, []string{"lease terms"}, mock.Questions)
}

func TestReceive_Success(t *testing.T) {
	c := newTestController(&api.MockClient{ResultVal: api.Answer("see clause 4")})

	call := c.Submit(context.Background(), "contract question")
	require.NotNil(t, call)
	c.Receive(call())

	state := c.State()
	assert.False(t, state.InFlight)
	assert.False(t, state.HasPending())
	assert.Equal(t,
		[]string{models.GreetingText, "contract question", "see clause 4"},
		texts(state.Messages),
	)
	assert.Equal(t, models.SenderBot, state.Messages[2].Sender)
	assert.Equal(t, []string{"contract question"}, c.Questions())
}

func TestReceive_EmptyAnswerFallsBack(t *testing.T) {
	for _, answer := range []string{"", "   "} {
		c := newTestController(&api.MockClient{ResultVal: api.Answer(answer)})

		c.Receive(c.Submit(context.Background(), "q")())

		last := c.State().Messages[len(c.State().Messages)-1]
		assert.Equal(t, models.NoAnswerText, last.Text)
		assert.False(t, c.InFlight())
	}
}

func TestReceive_FailureFallsBack(t *testing.T) {
	failures := []error{
		apierrors.NewNetworkError("query", errors.New("connection refused")),
		apierrors.NewTimeoutError("slow", nil),
		apierrors.NewAPIError(500, "e", "boom"),
		apierrors.NewParseError("not json", ""),
		errors.New("anything else"),
	}

	for _, failure := range failures {
		t.Run(apierrors.Kind(failure), func(t *testing.T) {
			c := newTestController(&api.MockClient{ResultVal: api.Fail(failure)})

			c.Receive(c.Submit(context.Background(), "q")())

			state := c.State()
			last := state.Messages[len(state.Messages)-1]
			assert.Equal(t, models.UnreachableText, last.Text)
			assert.Equal(t, models.SenderBot, last.Sender)
			assert.False(t, state.InFlight)
			assert.False(t, state.HasPending())
		})
	}
}

func TestReceive_StaleReplyIgnored(t *testing.T) {
	c := newTestController(&api.MockClient{ResultVal: api.Answer("X")})

	call := c.Submit(context.Background(), "q")
	reply := call()
	c.Receive(reply)
	after := c.State()

	c.Receive(reply)
	assert.Equal(t, after, c.State())
}

func TestSubmit_AfterResolutionAccepted(t *testing.T) {
	c := newTestController(&api.MockClient{ResultVal: api.Answer("X")})

	c.Receive(c.Submit(context.Background(), "one")())
	call := c.Submit(context.Background(), "two")
	require.NotNil(t, call)
	c.Receive(call())

	assert.Equal(t, []string{"one", "two"}, c.Questions())
	assert.Equal(t,
		[]string{models.GreetingText, "one", "X", "two", "X"},
		texts(c.State().Messages),
	)
}

func TestSubmit_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	var seen context.Context
	mock := &api.MockClient{AskFunc: func(ctx context.Context, question string) api.Result {
		seen = ctx
		return api.Answer("ok")
	}}
	c := newTestController(mock)

	c.Receive(c.Submit(ctx, "q")())
	require.NotNil(t, seen)
	assert.Equal(t, "v", seen.Value(key{}))
}

// Random interleavings of submits and replies must keep the panel equal to
// the user subsequence and the placeholder tied to InFlight.
func TestInvariants_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	words := []string{"", "  ", "deposit", "lease", "contract question", "\t"}

	for round := 0; round < 50; round++ {
		mock := &api.MockClient{AskFunc: func(ctx context.Context, q string) api.Result {
			if rng.Intn(2) == 0 {
				return api.Fail(errors.New("down"))
			}
			return api.Answer("answer to " + q)
		}}
		c := newTestController(mock)

		var outstanding func() Reply
		for step := 0; step < 30; step++ {
			if outstanding != nil && rng.Intn(3) == 0 {
				c.Receive(outstanding())
				outstanding = nil
			} else if call := c.Submit(context.Background(), words[rng.Intn(len(words))]); call != nil {
				require.Nil(t, outstanding, "accepted a submit while in flight")
				outstanding = call
			}

			state := c.State()
			assert.Equal(t, state.InFlight, state.HasPending())

			var users []string
			for _, msg := range state.Messages {
				if msg.Sender == models.SenderUser {
					users = append(users, msg.Text)
				}
			}
			assert.Equal(t, users, state.Questions())
		}
	}
}
