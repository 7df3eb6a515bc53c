package mapper

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types/checkoutpb"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

var ErrInvalidProtoAmount = errors.New("amount must be a decimal number")

func CreatePaymentRequestToProto(req *types.CreatePaymentRequest) proto.Message {
	msg := checkoutpb.NewCreatePaymentRequest()
	checkoutpb.SetString(msg, "amount", req.GetAmount().String())
	checkoutpb.SetString(msg, "description", req.GetDescription())
	return msg
}

func CreatePaymentRequestFromProto(msg proto.Message) (*types.CreatePaymentRequest, error) {
	m := msg.ProtoReflect()

	raw := strings.TrimSpace(checkoutpb.GetString(m, "amount"))
	amount := decimal.Zero
	if raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, ErrInvalidProtoAmount
		}
		amount = parsed
	}

	return &types.CreatePaymentRequest{
		Amount:      amount,
		Description: strings.TrimSpace(checkoutpb.GetString(m, "description")),
	}, nil
}

func GetPaymentRequestToProto(req *types.GetPaymentRequest) proto.Message {
	msg := checkoutpb.NewGetPaymentRequest()
	checkoutpb.SetString(msg, "id", req.GetId())
	return msg
}

func GetPaymentRequestFromProto(msg proto.Message) *types.GetPaymentRequest {
	return &types.GetPaymentRequest{Id: strings.TrimSpace(checkoutpb.GetString(msg.ProtoReflect(), "id"))}
}

func CreatePaymentResponseToProto(resp *types.CreatePaymentResponse) proto.Message {
	msg := checkoutpb.NewCreatePaymentResponse()
	checkoutpb.SetString(msg, "id", resp.ID)
	checkoutpb.SetString(msg, "status", resp.Status)
	amountToProto(checkoutpb.MutableMessage(msg, "amount"), resp.Amount)
	confirmation := checkoutpb.MutableMessage(msg, "confirmation")
	checkoutpb.SetString(confirmation, "type", resp.Confirmation.Type)
	checkoutpb.SetString(confirmation, "confirmation_url", resp.Confirmation.ConfirmationURL)
	checkoutpb.SetString(msg, "description", resp.Description)
	checkoutpb.SetBool(msg, "test", resp.Test)
	checkoutpb.SetString(msg, "created_at", resp.CreatedAt)
	return msg
}

func CreatePaymentResponseFromProto(msg proto.Message) *types.CreatePaymentResponse {
	m := msg.ProtoReflect()
	confirmation := checkoutpb.GetMessage(m, "confirmation")

	return &types.CreatePaymentResponse{
		ID:     checkoutpb.GetString(m, "id"),
		Status: checkoutpb.GetString(m, "status"),
		Amount: amountFromProto(checkoutpb.GetMessage(m, "amount")),
		Confirmation: types.Confirmation{
			Type:            checkoutpb.GetString(confirmation, "type"),
			ConfirmationURL: checkoutpb.GetString(confirmation, "confirmation_url"),
		},
		Description: checkoutpb.GetString(m, "description"),
		Test:        checkoutpb.GetBool(m, "test"),
		CreatedAt:   checkoutpb.GetString(m, "created_at"),
	}
}

func PaymentStatusResponseToProto(resp *types.PaymentStatusResponse) proto.Message {
	msg := checkoutpb.NewPaymentStatusResponse()
	checkoutpb.SetString(msg, "id", resp.ID)
	checkoutpb.SetString(msg, "status", resp.Status)
	amountToProto(checkoutpb.MutableMessage(msg, "amount"), resp.Amount)
	checkoutpb.SetString(msg, "description", resp.Description)
	checkoutpb.SetString(msg, "created_at", resp.CreatedAt)
	checkoutpb.SetBool(msg, "test", resp.Test)
	checkoutpb.SetString(msg, "paid_at", resp.PaidAt)
	return msg
}

func PaymentStatusResponseFromProto(msg proto.Message) *types.PaymentStatusResponse {
	m := msg.ProtoReflect()
	return &types.PaymentStatusResponse{
		ID:          checkoutpb.GetString(m, "id"),
		Status:      checkoutpb.GetString(m, "status"),
		Amount:      amountFromProto(checkoutpb.GetMessage(m, "amount")),
		Description: checkoutpb.GetString(m, "description"),
		CreatedAt:   checkoutpb.GetString(m, "created_at"),
		Test:        checkoutpb.GetBool(m, "test"),
		PaidAt:      checkoutpb.GetString(m, "paid_at"),
	}
}

func HealthResponseToProto(resp *types.HealthResponse) proto.Message {
	msg := checkoutpb.NewHealthResponse()
	checkoutpb.SetString(msg, "status", resp.Status)
	checkoutpb.SetString(msg, "timestamp", resp.Timestamp)
	return msg
}

func HealthResponseFromProto(msg proto.Message) *types.HealthResponse {
	m := msg.ProtoReflect()
	return &types.HealthResponse{
		Status:    checkoutpb.GetString(m, "status"),
		Timestamp: checkoutpb.GetString(m, "timestamp"),
	}
}

func amountToProto(m protoreflect.Message, amount types.Amount) {
	checkoutpb.SetString(m, "value", amount.Value)
	checkoutpb.SetString(m, "currency", amount.Currency)
}

func amountFromProto(m protoreflect.Message) types.Amount {
	return types.Amount{
		Value:    checkoutpb.GetString(m, "value"),
		Currency: checkoutpb.GetString(m, "currency"),
	}
}
