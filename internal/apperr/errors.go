// Package apperr defines the structured errors surfaced by the core
// components. Every failure carries a kind plus the offending entity and
// id so the calling layer can render a user-facing message.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnauthorized
	KindTokenNotFound
	KindTokenExpired
	KindTokenAlreadyUsed
	KindEmptyBody
	KindNoPlayers
	KindAlreadyExists
	KindConflict
	// KindAlreadyRecorded is success-idempotent: the response the caller
	// wanted recorded is recorded. Callers must not propagate it as a
	// failure to the end user.
	KindAlreadyRecorded
)

// String returns the kind's wire name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindTokenNotFound:
		return "token_not_found"
	case KindTokenExpired:
		return "token_expired"
	case KindTokenAlreadyUsed:
		return "token_already_used"
	case KindEmptyBody:
		return "empty_body"
	case KindNoPlayers:
		return "no_players"
	case KindAlreadyExists:
		return "already_exists"
	case KindConflict:
		return "conflict"
	case KindAlreadyRecorded:
		return "already_recorded"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged error naming the entity it concerns.
type Error struct {
	Kind   Kind
	Entity string
	ID     string
	Msg    string
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.ID != "":
		return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Entity, e.ID, e.Msg)
	case e.ID != "":
		return fmt.Sprintf("%s: %s %s", e.Kind, e.Entity, e.ID)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	default:
		return e.Kind.String()
	}
}

// Is matches errors by kind, so callers can use errors.Is with a bare
// &Error{Kind: ...} sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound reports a missing entity.
func NotFound(entity string, id interface{}) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: fmt.Sprint(id)}
}

// Unauthorized reports a failed admin scope check.
func Unauthorized(entity string, id interface{}, msg string) *Error {
	return &Error{Kind: KindUnauthorized, Entity: entity, ID: fmt.Sprint(id), Msg: msg}
}

// TokenNotFound reports a token lookup miss.
func TokenNotFound() *Error {
	return &Error{Kind: KindTokenNotFound, Entity: "report_token"}
}

// TokenExpired reports redemption of an expired token.
func TokenExpired(id int64) *Error {
	return &Error{Kind: KindTokenExpired, Entity: "report_token", ID: fmt.Sprint(id)}
}

// TokenAlreadyUsed reports redemption of a consumed token.
func TokenAlreadyUsed(id int64) *Error {
	return &Error{Kind: KindTokenAlreadyUsed, Entity: "report_token", ID: fmt.Sprint(id)}
}

// EmptyBody reports a report submission without body text.
func EmptyBody() *Error {
	return &Error{Kind: KindEmptyBody, Entity: "report", Msg: "report body must not be empty"}
}

// NoPlayers reports a report submission accusing nobody.
func NoPlayers() *Error {
	return &Error{Kind: KindNoPlayers, Entity: "report", Msg: "a report must accuse at least one player"}
}

// AlreadyExists reports creation of a row that already exists.
func AlreadyExists(entity string, id interface{}) *Error {
	return &Error{Kind: KindAlreadyExists, Entity: entity, ID: fmt.Sprint(id)}
}

// Conflict reports an operation refused by a relational guard, such as
// deleting a player that reports still reference.
func Conflict(entity string, id interface{}, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: fmt.Sprint(id), Msg: msg}
}

// AlreadyRecorded reports that a response for the pair already exists.
func AlreadyRecorded(prID, communityID int64) *Error {
	return &Error{
		Kind:   KindAlreadyRecorded,
		Entity: "player_report_response",
		ID:     fmt.Sprintf("%d/%d", prID, communityID),
	}
}

// KindOf extracts the kind from any error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
