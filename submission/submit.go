// Package submission performs the asynchronous step a payment session waits
// on once the user clicks Pay with a valid amount.
package submission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitwit/walletpay/types"
)

// Request describes one payment attempt.
type Request struct {
	SessionID   string
	Provider    types.ProviderKind
	Payer       string
	Amount      decimal.Decimal
	USDEstimate decimal.Decimal
	TokenSymbol string
}

// Receipt is returned by a successful submission.
type Receipt struct {
	Reference   string    `json:"reference"`
	Payer       string    `json:"payer"`
	CompletedAt time.Time `json:"completedAt"`
}

// Submitter submits a payment. Implementations must return when ctx is done.
type Submitter interface {
	Submit(ctx context.Context, req *Request) (*Receipt, error)
}

// SimulatedSubmitter stands in for a payment backend: it "processes" for
// Delay and then succeeds, unless Outcome returns an error.
type SimulatedSubmitter struct {
	Delay   time.Duration
	Outcome func(req *Request) error
}

var _ Submitter = (*SimulatedSubmitter)(nil)

func NewSimulatedSubmitter(delay time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{Delay: delay}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, req *Request) (*Receipt, error) {
	if req == nil {
		return nil, types.NewError(types.ReasonUnknown, "nil submission request", nil)
	}

	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	if s.Outcome != nil {
		if err := s.Outcome(req); err != nil {
			return nil, err
		}
	}

	return &Receipt{
		Reference:   uuid.NewString(),
		Payer:       req.Payer,
		CompletedAt: time.Now(),
	}, nil
}
