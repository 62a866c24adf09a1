package nats

import (
	"errors"

	"github.com/codewandler/lrukv/ports/kv"
)

const (
	opPut    = "put"
	opGet    = "get"
	opHealth = "health"

	codeNotFound = "not_found"
	codeInvalid  = "invalid"

	defaultSubjectPrefix = "lrukv"
)

// requestFrame is the payload of put and get requests.
type requestFrame struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// replyFrame is the reply to every request. Code is set for the two
// client-facing outcomes so they survive the trip as sentinel errors.
type replyFrame struct {
	Value  string `json:"value,omitempty"`
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Err    string `json:"err,omitempty"`
}

func replyFromError(err error) replyFrame {
	rf := replyFrame{Err: err.Error()}
	switch {
	case errors.Is(err, kv.ErrNotFound):
		rf.Code = codeNotFound
	case errors.Is(err, kv.ErrInvalid):
		rf.Code = codeInvalid
	}
	return rf
}

func (rf replyFrame) error() error {
	switch {
	case rf.Code == codeNotFound:
		return kv.ErrNotFound
	case rf.Code == codeInvalid:
		return &remoteError{msg: rf.Err, kind: kv.ErrInvalid}
	case rf.Err != "":
		return &remoteError{msg: rf.Err}
	}
	return nil
}

// remoteError carries the server side message and, when known, the kv
// sentinel it corresponds to.
type remoteError struct {
	msg  string
	kind error
}

func (e *remoteError) Error() string { return "nats: remote: " + e.msg }
func (e *remoteError) Unwrap() error { return e.kind }

func subject(prefix, op string) string {
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	return prefix + "." + op
}
