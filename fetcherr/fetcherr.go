// Package fetcherr classifies the ways a remote fetch or a cache access can
// fail. None of these errors reach consumers of the gateway; they are logged
// and carried in outcomes so callers and tests can tell failures apart.
package fetcherr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyList means upstream answered but has nothing published yet.
	ErrEmptyList = errors.New("empty list")
	// ErrSignalLost means neither standings table could be produced for a season.
	ErrSignalLost = errors.New("telemetry signal lost for the selected period")
)

type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindProtocol
	KindEnvelope
	KindStorage
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindEnvelope:
		return "envelope"
	case KindStorage:
		return "storage"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

type Error struct {
	Kind   Kind
	Op     string
	URL    string
	Key    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	target := e.URL
	if target == "" {
		target = e.Key
	}
	msg := fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	if target != "" {
		msg += " on " + target
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Transport(op, url string, err error) error {
	return &Error{Kind: KindTransport, Op: op, URL: url, Err: errors.WithStack(err)}
}

func Protocol(op, url string, status int) error {
	return &Error{Kind: KindProtocol, Op: op, URL: url, Status: status}
}

func Envelope(op, url string, err error) error {
	return &Error{Kind: KindEnvelope, Op: op, URL: url, Err: errors.Wrap(err, "decode envelope")}
}

func Storage(op, key string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Key: key, Err: errors.WithStack(err)}
}

func Invalid(op, format string, args ...any) error {
	return &Error{Kind: KindInvalid, Op: op, Err: errors.Errorf(format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
