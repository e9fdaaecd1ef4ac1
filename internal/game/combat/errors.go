package combat

import "fmt"

// ErrorKind classifies a rejected action. Every kind is recovered locally:
// the acting side keeps its turn and no state changes.
type ErrorKind int

const (
	KindInvalidTarget ErrorKind = iota + 1
	KindInsufficientResource
	KindIllegalPosition
	KindInvalidState
	KindConfigurationGap
)

// String returns the kind label used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTarget:
		return "invalid target"
	case KindInsufficientResource:
		return "insufficient resource"
	case KindIllegalPosition:
		return "illegal position"
	case KindInvalidState:
		return "invalid state"
	case KindConfigurationGap:
		return "configuration gap"
	default:
		return "unknown"
	}
}

// ActionError reports why an intent was rejected.
type ActionError struct {
	Kind ErrorKind
	Msg  string
}

func (e *ActionError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches any ActionError of the same kind, so errors.Is(err, ErrInvalidTarget) works.
func (e *ActionError) Is(target error) bool {
	t, ok := target.(*ActionError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidTarget        = &ActionError{Kind: KindInvalidTarget}
	ErrInsufficientResource = &ActionError{Kind: KindInsufficientResource}
	ErrIllegalPosition      = &ActionError{Kind: KindIllegalPosition}
	ErrInvalidState         = &ActionError{Kind: KindInvalidState}
	ErrConfigurationGap     = &ActionError{Kind: KindConfigurationGap}
)

func reject(kind ErrorKind, format string, args ...any) error {
	return &ActionError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
