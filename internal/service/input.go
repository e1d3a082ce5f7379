package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// newValidator treats utils.Date as the time it wraps so "required" rejects a zero date.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(utils.Date); ok {
			return d.Time
		}
		return nil
	}, utils.Date{})
	return v
}

// validateInput runs struct tag validation and reports failures as domain.ErrValidation.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func requirePrincipal(p domain.Principal) error {
	if !p.Valid() {
		return domain.ErrUnauthorized
	}
	return nil
}

type RentalItemInput struct {
	// ID references an existing line item on update. Nil adds a new line.
	ID              *int64          `json:"id,omitempty"`
	InventoryItemID int64           `json:"inventory_item_id" validate:"required,gt=0"`
	Quantity        int32           `json:"quantity" validate:"gte=1"`
	RateType        domain.RateType `json:"rate_type" validate:"required,oneof=hourly daily weekly monthly"`
	// RateAmount overrides the item's list price for RateType.
	RateAmount *decimal.Decimal `json:"rate_amount,omitempty"`
	Notes      string           `json:"notes"`
}

type CreateRentalInput struct {
	CustomerID    int64               `json:"customer_id" validate:"required,gt=0"`
	StartDate     utils.Date          `json:"start_date" validate:"required"`
	EndDate       utils.Date          `json:"end_date" validate:"required"`
	// Status defaults to draft and must be an initial status.
	Status        domain.RentalStatus `json:"status"`
	DepositAmount *decimal.Decimal    `json:"deposit_amount,omitempty"`
	Notes         string              `json:"notes"`
	Items         []RentalItemInput   `json:"items" validate:"required,min=1,dive"`
}

// UpdateRentalInput is a partial update. Nil fields are left unchanged.
// A non-nil Items is merged into the rental's line items by ID.
type UpdateRentalInput struct {
	CustomerID    *int64               `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	StartDate     *utils.Date          `json:"start_date,omitempty"`
	EndDate       *utils.Date          `json:"end_date,omitempty"`
	Status        *domain.RentalStatus `json:"status,omitempty" validate:"omitempty,oneof=draft upcoming active completed cancelled overdue"`
	DepositAmount *decimal.Decimal     `json:"deposit_amount,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	Items         []RentalItemInput    `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type ReturnItemInput struct {
	RentalItemID   int64                `json:"rental_item_id" validate:"required,gt=0"`
	ConditionAfter domain.ItemCondition `json:"condition_after" validate:"required,oneof=new good fair needs_repair"`
	Notes          string               `json:"notes"`
}

type ReturnInput struct {
	// ReturnDate defaults to the time of processing.
	ReturnDate        utils.Date        `json:"return_date"`
	Notes             string            `json:"notes"`
	AdditionalCharges decimal.Decimal   `json:"additional_charges"`
	Items             []ReturnItemInput `json:"items" validate:"dive"`
}

type InventoryItemInput struct {
	CategoryID     *int64               `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Name           string               `json:"name" validate:"required,max=200"`
	Description    string               `json:"description"`
	SKU            string               `json:"sku" validate:"max=64"`
	QuantityTotal  int32                `json:"quantity_total" validate:"gte=0"`
	Condition      domain.ItemCondition `json:"condition" validate:"omitempty,oneof=new good fair needs_repair"`
	Pricing        domain.Pricing       `json:"pricing" validate:"required"`
	DepositAmount  decimal.Decimal      `json:"deposit_amount"`
	MinRentalHours int32                `json:"min_rental_hours" validate:"gte=0"`
	Status         domain.ItemStatus    `json:"status" validate:"omitempty,oneof=available rented maintenance retired"`
	Notes          string               `json:"notes"`
}

type CustomerInput struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Phone    string   `json:"phone" validate:"max=40"`
	Address  string   `json:"address"`
	IDNumber string   `json:"id_number" validate:"max=64"`
	Tags     []string `json:"tags" validate:"dive,required,max=50"`
	Notes    string   `json:"notes"`
}

type PaymentInput struct {
	RentalID int64           `json:"rental_id" validate:"required,gt=0"`
	Amount   decimal.Decimal `json:"amount"`
	// Method defaults to cash.
	Method domain.PaymentMethod `json:"method" validate:"omitempty,oneof=cash card bank_transfer other"`
	// PaymentDate defaults to the time of recording.
	PaymentDate utils.Date `json:"payment_date"`
	Notes       string     `json:"notes"`
}
