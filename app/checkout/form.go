package checkout

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
)

// MaxDescriptionLength is the form's description limit in characters. The
// payments API itself forwards descriptions unchanged.
const MaxDescriptionLength = 128

var (
	ErrAmountRequired     = errors.New("Amount is required")
	ErrAmountInvalid      = errors.New("Invalid number")
	ErrAmountTooSmall     = errors.New("Amount must be at least 1 ruble")
	ErrAmountTooLarge     = errors.New("Amount must not exceed 100,000 rubles")
	ErrDescriptionTooLong = errors.New("Description must not exceed 128 characters")
)

// Form is the user input of the first checkout step.
type Form struct {
	Amount      string
	Description string
}

// Parse validates the form with the payments API amount bounds plus the
// description limit and returns the request to submit. A comma is accepted
// as decimal separator.
func (f Form) Parse() (*types.CreatePaymentRequest, error) {
	raw := strings.TrimSpace(f.Amount)
	if raw == "" {
		return nil, ErrAmountRequired
	}

	amount, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return nil, ErrAmountInvalid
	}
	if amount.LessThan(types.MinPaymentAmount) {
		return nil, ErrAmountTooSmall
	}
	if amount.GreaterThan(types.MaxPaymentAmount) {
		return nil, ErrAmountTooLarge
	}

	description := strings.TrimSpace(f.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	return &types.CreatePaymentRequest{Amount: amount, Description: description}, nil
}
