package clients

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitwit/walletpay/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.FailureReason
	}{
		{"nil", nil, types.ReasonNone},
		{"user rejected", ErrRejected, types.ReasonUserRejected},
		{"wrapped rejection", fmt.Errorf("connect: %w", &ProviderError{Code: CodeUserRejected}), types.ReasonUserRejected},
		{"unauthorized", &ProviderError{Code: CodeUnauthorized, Message: "nope"}, types.ReasonUnknown},
		{"internal", &ProviderError{Code: CodeInternal}, types.ReasonUnknown},
		{"deadline", context.DeadlineExceeded, types.ReasonUnknown},
		{"canceled", context.Canceled, types.ReasonUnknown},
		{"plain", errors.New("boom"), types.ReasonUnknown},
		{"already classified", types.ErrNoWalletFound, types.ReasonNoWalletFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("connect", tt.err)
			assert.Equal(t, tt.want, types.ReasonOf(got))
			if tt.err != nil {
				assert.ErrorIs(t, got, tt.err)
			}
		})
	}
}

func TestGuard(t *testing.T) {
	err := Guard("connect", func() error { panic("extension crashed") })
	assert.ErrorIs(t, err, types.ErrUnknown)
	assert.Contains(t, err.Error(), "extension crashed")

	assert.NoError(t, Guard("connect", func() error { return nil }))

	plain := errors.New("plain")
	assert.Equal(t, plain, Guard("connect", func() error { return plain }))
}

func TestProviderError(t *testing.T) {
	assert.Equal(t, "wallet error 4001: User rejected the request.", ErrRejected.Error())
}
