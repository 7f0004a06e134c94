package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/vitwit/walletpay/types"
	"github.com/vitwit/walletpay/utils"
)

// Signer is the part of the wallet adapter the approval flow needs.
type Signer interface {
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
}

// ApprovalSubmitter asks the connected wallet to sign a readable approval of
// the payment and checks the signature against the payer's key. Nothing is
// broadcast; the signature is the receipt reference.
type ApprovalSubmitter struct {
	signer Signer
	now    func() time.Time
}

var _ Submitter = (*ApprovalSubmitter)(nil)

func NewApprovalSubmitter(signer Signer) *ApprovalSubmitter {
	return &ApprovalSubmitter{signer: signer, now: time.Now}
}

// ApprovalMessage is the text the user is asked to sign.
func ApprovalMessage(req *Request) []byte {
	var b strings.Builder
	b.WriteString("Approve payment\n")
	fmt.Fprintf(&b, "Amount: %s (%s)\n", utils.FormatTokenAmount(req.Amount, req.TokenSymbol), utils.EstimateLabel(req.USDEstimate))
	fmt.Fprintf(&b, "From: %s\n", req.Payer)
	fmt.Fprintf(&b, "Session: %s", req.SessionID)
	return []byte(b.String())
}

func (s *ApprovalSubmitter) Submit(ctx context.Context, req *Request) (*Receipt, error) {
	if req == nil {
		return nil, types.NewError(types.ReasonUnknown, "nil submission request", nil)
	}

	payer, err := utils.ValidateSolanaAddress(req.Payer)
	if err != nil {
		return nil, types.NewError(types.ReasonUnknown, "approval requires a Solana wallet", err)
	}

	msg := ApprovalMessage(req)
	raw, err := s.signer.SignMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	sig, err := VerifyApproval(payer, msg, raw)
	if err != nil {
		return nil, types.NewError(types.ReasonUnknown, "invalid approval signature", err)
	}

	return &Receipt{
		Reference:   sig.String(),
		Payer:       payer.String(),
		CompletedAt: s.now(),
	}, nil
}

// VerifyApproval checks that raw is payer's ed25519 signature over msg.
func VerifyApproval(payer solana.PublicKey, msg, raw []byte) (solana.Signature, error) {
	if len(raw) != solana.SignatureLength {
		return solana.Signature{}, fmt.Errorf("signature must be %d bytes, got %d", solana.SignatureLength, len(raw))
	}

	sig := solana.SignatureFromBytes(raw)
	if !sig.Verify(payer, msg) {
		return solana.Signature{}, fmt.Errorf("signature does not match %s", utils.ShortAddress(payer.String()))
	}
	return sig, nil
}
