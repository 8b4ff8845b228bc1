package processor

import "go.uber.org/zap"

// Effect is one output action of processing a command. Effects are ordered;
// the gateway forwards them verbatim (Respond becomes the HTTP response,
// Log becomes a log line).
type Effect interface {
	isEffect()
}

// Respond carries the HTTP status and body for the caller.
type Respond struct {
	Status int
	Body   interface{}
}

func (Respond) isEffect() {}

// Log carries a structured log line about the command.
type Log struct {
	Message string
	Fields  []zap.Field
}

func (Log) isEffect() {}

// ErrorBody is the serialized shape of a command failure.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// respond is a convenience constructor.
func respond(status int, body interface{}) Respond {
	return Respond{Status: status, Body: body}
}

// logf is a convenience constructor.
func logf(message string, fields ...zap.Field) Log {
	return Log{Message: message, Fields: fields}
}

// ResponseOf returns the Respond effect of an effect list, if any.
// Apply always emits exactly one; this is a helper for callers and tests.
func ResponseOf(effects []Effect) (Respond, bool) {
	for _, e := range effects {
		if r, ok := e.(Respond); ok {
			return r, true
		}
	}
	return Respond{}, false
}
