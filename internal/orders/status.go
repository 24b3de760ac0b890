package orders

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentSucceeded, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the order can still change state. A FAILED
// order may be retried with a fresh checkout, so only SUCCEEDED and
// REFUNDED are terminal.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentSucceeded || s == PaymentRefunded
}
