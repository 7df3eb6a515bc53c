package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
)

// TimestampLayout renders timestamps as UTC ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func PaymentToCreateResponse(item *entity.Payment) *types.CreatePaymentResponse {
	if item == nil {
		return nil
	}

	return &types.CreatePaymentResponse{
		ID:     item.ID,
		Status: string(item.Status),
		Amount: amountToTypes(item),
		Confirmation: types.Confirmation{
			Type:            types.ConfirmationTypeQR,
			ConfirmationURL: item.ConfirmationURL,
		},
		Description: derefString(item.Description),
		Test:        item.Test,
		CreatedAt:   FormatTimestamp(item.CreatedAt),
	}
}

func PaymentToStatusResponse(item *entity.Payment) *types.PaymentStatusResponse {
	if item == nil {
		return nil
	}

	resp := &types.PaymentStatusResponse{
		ID:          item.ID,
		Status:      string(item.Status),
		Amount:      amountToTypes(item),
		Description: derefString(item.Description),
		CreatedAt:   FormatTimestamp(item.CreatedAt),
		Test:        item.Test,
	}
	if paidAt := item.PaidAt(); paidAt != nil {
		resp.PaidAt = FormatTimestamp(*paidAt)
	}

	return resp
}

func amountToTypes(item *entity.Payment) types.Amount {
	return types.Amount{
		Value:    item.Amount.StringFixed(2),
		Currency: item.Currency,
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
