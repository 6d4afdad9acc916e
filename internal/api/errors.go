package api

import "fmt"

// Kind classifies a failed identity API call so the flow controller can
// tell "retry later" from "session is dead".
type Kind int

const (
	// KindNetwork covers unreachable server, timeouts, and malformed
	// response bodies. The flow state never advances on it.
	KindNetwork Kind = iota + 1

	// KindAPI means the server rejected the request with a structured
	// reason (duplicate account, invalid code, wrong credentials). The
	// message is passed through from the server.
	KindAPI

	// KindUnauthorized means the bearer token was rejected. This is the
	// only kind that forces a state transition in the controller.
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the normalized failure returned by every Client method. Raw
// transport and decoding errors never cross the client boundary.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("identity api: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("identity api: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same Kind, so callers can write
// errors.Is(err, api.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is matching.
var (
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrAPI          = &Error{Kind: KindAPI}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

func networkError(msg string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, cause: cause}
}
