package api

// Outcome tells which branch a Result took
type Outcome int

const (
	// Answered means the service replied with a usable body. The answer may be empty.
	Answered Outcome = iota
	// Failed covers every transport, status and parse failure.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Answered:
		return "answered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the value returned from the service-call boundary.
// Err is set only for Failed and is kept for diagnostics.
type Result struct {
	Outcome Outcome
	Answer  string
	Err     error
}

// Answer builds an Answered result
func Answer(text string) Result {
	return Result{Outcome: Answered, Answer: text}
}

// Fail builds a Failed result
func Fail(err error) Result {
	return Result{Outcome: Failed, Err: err}
}

// OK reports whether the service answered
func (r Result) OK() bool {
	return r.Outcome == Answered
}
