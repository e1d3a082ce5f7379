package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodOther        PaymentMethod = "other"
)

// DefaultPaymentMethod is used for payments synthesized by return processing.
const DefaultPaymentMethod = PaymentMethodCash

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodOther:
		return true
	}
	return false
}

type Payment struct {
	ID          int64           `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	RentalID    int64           `json:"rental_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	PaymentDate time.Time       `json:"payment_date"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PaymentSummary struct {
	RentalID    int64           `json:"rental_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	BalanceDue  decimal.Decimal `json:"balance_due"`
}

// PaymentFilter narrows payment listings. Zero values are ignored.
type PaymentFilter struct {
	RentalID *int64
	From     *time.Time
	To       *time.Time
	Method   PaymentMethod
}
