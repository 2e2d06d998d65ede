// Package models contains data types and constants for the legal Q&A chat.
package models

// AnswerEndpoint is the Answer Service query URL. It is fixed for a build and
// can only be changed at link time:
//
//	go build -ldflags "-X github.com/diogo/lawchat/internal/models.AnswerEndpoint=http://host:8001/query"
var AnswerEndpoint = "http://192.168.3.161:8001/query"

// DefaultTopK is the number of supporting cases the service retrieves per question.
const DefaultTopK = 3

// Fixed user-facing strings
const (
	GreetingText    = "Hello, this is the legal chatbot."
	PendingText     = "Answering..."
	NoAnswerText    = "No answer was returned."
	UnreachableText = "Could not connect to the answer service."
	NoQuestionsText = "No questions yet."
)

// PendingID identifies the transient placeholder shown while a request is outstanding.
const PendingID = "pending"

// DefaultHeaders returns the headers sent with every query.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "lawchat",
	}
}
