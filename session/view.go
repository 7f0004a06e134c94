package session

// MessageKind styles the message region.
type MessageKind string

const (
	MessageNone    MessageKind = ""
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// View is the page surface the controller writes to. Methods are called with
// the controller's lock held and must not call back into the controller.
type View interface {
	SetPayButton(label string, disabled bool)
	SetMessage(kind MessageKind, text string)
	SetEstimate(text string, visible bool)
	SetWallet(label string, connected bool)
	ClearAmount()
}

// NopView discards all updates.
type NopView struct{}

func (NopView) SetPayButton(string, bool)      {}
func (NopView) SetMessage(MessageKind, string) {}
func (NopView) SetEstimate(string, bool)       {}
func (NopView) SetWallet(string, bool)         {}
func (NopView) ClearAmount()                   {}

// Button labels and fixed messages.
const (
	LabelPay        = "Pay"
	LabelProcessing = "Processing..."
	LabelTryAgain   = "Try again"

	LabelInstallWallet = "Install a wallet"
	LabelConnectPrefix = "Connect "

	MessageWalletRequired = "Connect your wallet to continue."
	MessageSubmitting     = "Processing payment..."
	MessageSucceeded      = "Payment successful!"
)
