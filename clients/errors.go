package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitwit/walletpay/types"
)

// Error codes returned by injected wallets
const (
	CodeUserRejected = 4001
	CodeUnauthorized = 4100
	CodeUnsupported  = 4200
	CodeInternal     = -32603
)

// ProviderError is an error raised by an injected wallet object.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}

// ErrRejected is what wallets return when the user declines a prompt.
var ErrRejected = &ProviderError{Code: CodeUserRejected, Message: "User rejected the request."}

// Classify folds an error raised by a provider call into the walletpay
// taxonomy. Errors already classified are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var werr *types.Error
	if errors.As(err, &werr) {
		return err
	}

	var perr *ProviderError
	if errors.As(err, &perr) && perr.Code == CodeUserRejected {
		return types.NewError(types.ReasonUserRejected, op+" rejected by user", err)
	}

	// A wallet call running out of time is not a payment timeout. The
	// session controller maps its own deadline to SubmissionTimedOut.
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewError(types.ReasonUnknown, op+" timed out", err)
	}

	return types.NewError(types.ReasonUnknown, op+" failed", err)
}

// Guard runs fn and converts a panic inside the injected object into an
// Unknown error.
func Guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewError(types.ReasonUnknown, op+" panicked", fmt.Errorf("%v", r))
		}
	}()
	return fn()
}
