package models

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single entry in the chat. Messages are immutable once created.
type Message struct {
	ID     string
	Text   string
	Sender Sender
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsPending reports whether the message is the in-flight placeholder
func (m Message) IsPending() bool {
	return m.ID == PendingID
}
