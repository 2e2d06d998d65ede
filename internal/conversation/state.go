// Package conversation holds the chat message list and the single
// in-flight request slot.
package conversation

import (
	"strings"

	"github.com/diogo/lawchat/internal/api"
	"github.com/diogo/lawchat/internal/models"
)

// State is the conversation as the view reads it. Transitions return a new
// State; the receiver's message slice is never written to.
//
// Invariant: the pending placeholder is present iff InFlight is true.
type State struct {
	Messages []models.Message
	Draft    string
	InFlight bool
}

// NewState returns a conversation holding a single bot greeting
func NewState(greetingID, greeting string) State {
	s := State{}
	if greeting != "" {
		s.Messages = []models.Message{{ID: greetingID, Text: greeting, Sender: models.SenderBot}}
	}
	return s
}

// WithDraft returns the state with the input draft replaced
func (s State) WithDraft(draft string) State {
	s.Draft = draft
	return s
}

// Submit appends the user's question and the pending placeholder. It returns
// false, with s unchanged, when text is blank or a request is already in flight.
func (s State) Submit(text, id string) (State, bool) {
	question := strings.TrimSpace(text)
	if question == "" || s.InFlight {
		return s, false
	}

	s.Messages = appendMessages(s.Messages,
		models.Message{ID: id, Text: question, Sender: models.SenderUser},
		models.Message{ID: models.PendingID, Text: models.PendingText, Sender: models.SenderBot},
	)
	s.Draft = ""
	s.InFlight = true
	return s, true
}

// Resolve removes the placeholder and appends the bot reply for result.
// A state with no request in flight is returned unchanged.
func (s State) Resolve(result api.Result, id string) State {
	if !s.InFlight {
		return s
	}

	kept := make([]models.Message, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if !msg.IsPending() {
			kept = append(kept, msg)
		}
	}

	s.Messages = append(kept, models.Message{ID: id, Text: ReplyText(result), Sender: models.SenderBot})
	s.InFlight = false
	return s
}

// ReplyText maps a service result to the text shown to the user.
// Every failure kind collapses to the same string.
func ReplyText(result api.Result) string {
	if !result.OK() {
		return models.UnreachableText
	}
	if strings.TrimSpace(result.Answer) == "" {
		return models.NoAnswerText
	}
	return result.Answer
}

// Questions returns the user's questions in the order they were asked
func (s State) Questions() []string {
	var questions []string
	for _, msg := range s.Messages {
		if msg.IsUser() {
			questions = append(questions, msg.Text)
		}
	}
	return questions
}

// HasPending reports whether the placeholder is in the list
func (s State) HasPending() bool {
	for _, msg := range s.Messages {
		if msg.IsPending() {
			return true
		}
	}
	return false
}

// LastReply returns the most recent non-placeholder bot message text
func (s State) LastReply() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		msg := s.Messages[i]
		if msg.Sender == models.SenderBot && !msg.IsPending() {
			return msg.Text, true
		}
	}
	return "", false
}

func appendMessages(base []models.Message, msgs ...models.Message) []models.Message {
	out := make([]models.Message, len(base), len(base)+len(msgs))
	copy(out, base)
	return append(out, msgs...)
}
