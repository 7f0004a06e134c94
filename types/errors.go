package types

import (
	"context"
	"errors"
)

// FailureReason is the user-facing failure taxonomy of a payment session.
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonNoWalletFound      FailureReason = "NO_WALLET_FOUND"
	ReasonUserRejected       FailureReason = "USER_REJECTED"
	ReasonInvalidAmount      FailureReason = "INVALID_AMOUNT"
	ReasonSubmissionTimedOut FailureReason = "SUBMISSION_TIMED_OUT"
	ReasonUnknown            FailureReason = "UNKNOWN"
)

func (r FailureReason) String() string {
	return string(r)
}

// Message returns the stable text shown to the user for r.
func (r FailureReason) Message() string {
	switch r {
	case ReasonNoWalletFound:
		return "No Solana wallet found. Install Phantom or Solflare to continue."
	case ReasonUserRejected:
		return "The request was rejected in your wallet."
	case ReasonInvalidAmount:
		return "Enter a valid amount greater than zero."
	case ReasonSubmissionTimedOut:
		return "The payment timed out. Please try again."
	case ReasonNone:
		return ""
	default:
		return "Something went wrong. Please try again."
	}
}

// Error is a coded walletpay error
type Error struct {
	Reason  FailureReason `json:"reason"`
	Message string        `json:"message"`
	Err     error         `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// NewError builds an *Error for reason wrapping cause.
func NewError(reason FailureReason, msg string, cause error) *Error {
	return &Error{Reason: reason, Message: msg, Err: cause}
}

// Sentinel errors, comparable with errors.Is
var (
	ErrNoWalletFound      = &Error{Reason: ReasonNoWalletFound, Message: "no wallet provider found"}
	ErrUserRejected       = &Error{Reason: ReasonUserRejected, Message: "user rejected the request"}
	ErrInvalidAmount      = &Error{Reason: ReasonInvalidAmount, Message: "invalid amount"}
	ErrSubmissionTimedOut = &Error{Reason: ReasonSubmissionTimedOut, Message: "submission timed out"}
	ErrUnknown            = &Error{Reason: ReasonUnknown, Message: "unexpected wallet error"}
)

// ReasonOf folds any error into the failure taxonomy.
func ReasonOf(err error) FailureReason {
	if err == nil {
		return ReasonNone
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonSubmissionTimedOut
	}

	return ReasonUnknown
}
