// Package checkoutpb carries the protobuf schema of checkout.PaymentsService
// (proto/checkout/v1/checkout.proto). The file descriptor is registered in
// the global registry so reflection clients can resolve it, and messages are
// dynamic protobuf messages encoded with the standard proto codec.
package checkoutpb

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	FileName    = "checkout/v1/checkout.proto"
	PackageName = "checkout"
	ServiceName = "checkout.PaymentsService"

	CreatePaymentFullMethod = "/checkout.PaymentsService/CreatePayment"
	GetPaymentFullMethod    = "/checkout.PaymentsService/GetPayment"
	HealthFullMethod        = "/checkout.PaymentsService/Health"

	goPackage = "github.com/vibast-solutions/ms-go-sbp-checkout/app/types/checkoutpb"
)

var (
	File protoreflect.FileDescriptor

	AmountDescriptor                protoreflect.MessageDescriptor
	ConfirmationDescriptor          protoreflect.MessageDescriptor
	CreatePaymentRequestDescriptor  protoreflect.MessageDescriptor
	CreatePaymentResponseDescriptor protoreflect.MessageDescriptor
	GetPaymentRequestDescriptor     protoreflect.MessageDescriptor
	PaymentStatusResponseDescriptor protoreflect.MessageDescriptor
	HealthRequestDescriptor         protoreflect.MessageDescriptor
	HealthResponseDescriptor        protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic("checkoutpb: build descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("checkoutpb: register descriptor: " + err.Error())
	}

	File = fd
	messages := fd.Messages()
	AmountDescriptor = messages.ByName("Amount")
	ConfirmationDescriptor = messages.ByName("Confirmation")
	CreatePaymentRequestDescriptor = messages.ByName("CreatePaymentRequest")
	CreatePaymentResponseDescriptor = messages.ByName("CreatePaymentResponse")
	GetPaymentRequestDescriptor = messages.ByName("GetPaymentRequest")
	PaymentStatusResponseDescriptor = messages.ByName("PaymentStatusResponse")
	HealthRequestDescriptor = messages.ByName("HealthRequest")
	HealthResponseDescriptor = messages.ByName("HealthResponse")
}

func NewCreatePaymentRequest() *dynamicpb.Message {
	return dynamicpb.NewMessage(CreatePaymentRequestDescriptor)
}

func NewCreatePaymentResponse() *dynamicpb.Message {
	return dynamicpb.NewMessage(CreatePaymentResponseDescriptor)
}

func NewGetPaymentRequest() *dynamicpb.Message {
	return dynamicpb.NewMessage(GetPaymentRequestDescriptor)
}

func NewPaymentStatusResponse() *dynamicpb.Message {
	return dynamicpb.NewMessage(PaymentStatusResponseDescriptor)
}

func NewHealthRequest() *dynamicpb.Message {
	return dynamicpb.NewMessage(HealthRequestDescriptor)
}

func NewHealthResponse() *dynamicpb.Message {
	return dynamicpb.NewMessage(HealthResponseDescriptor)
}

// GetString returns the named string field, or "" when m lacks it.
func GetString(m protoreflect.Message, name protoreflect.Name) string {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil {
		return ""
	}
	return m.Get(fd).String()
}

func SetString(m protoreflect.Message, name protoreflect.Name, value string) {
	m.Set(mustField(m, name), protoreflect.ValueOfString(value))
}

func GetBool(m protoreflect.Message, name protoreflect.Name) bool {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil {
		return false
	}
	return m.Get(fd).Bool()
}

func SetBool(m protoreflect.Message, name protoreflect.Name, value bool) {
	m.Set(mustField(m, name), protoreflect.ValueOfBool(value))
}

// GetMessage returns the named message field; unset fields read as empty.
func GetMessage(m protoreflect.Message, name protoreflect.Name) protoreflect.Message {
	return m.Get(mustField(m, name)).Message()
}

func MutableMessage(m protoreflect.Message, name protoreflect.Name) protoreflect.Message {
	return m.Mutable(mustField(m, name)).Message()
}

func mustField(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil {
		panic("checkoutpb: " + string(m.Descriptor().FullName()) + " has no field " + string(name))
	}
	return fd
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String(PackageName),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{GoPackage: proto.String(goPackage)},
		MessageType: []*descriptorpb.DescriptorProto{
			messageProto("Amount",
				scalarField("value", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("currency", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("Confirmation",
				scalarField("type", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("confirmation_url", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("CreatePaymentRequest",
				scalarField("amount", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("description", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("CreatePaymentResponse",
				scalarField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("status", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				messageField("amount", 3, "Amount"),
				messageField("confirmation", 4, "Confirmation"),
				scalarField("description", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("test", 6, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
				scalarField("created_at", 7, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("GetPaymentRequest",
				scalarField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("PaymentStatusResponse",
				scalarField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("status", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				messageField("amount", 3, "Amount"),
				scalarField("description", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("created_at", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("test", 6, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
				scalarField("paid_at", 7, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("HealthRequest"),
			messageProto("HealthResponse",
				scalarField("status", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("timestamp", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("PaymentsService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				methodProto("CreatePayment", "CreatePaymentRequest", "CreatePaymentResponse"),
				methodProto("GetPayment", "GetPaymentRequest", "PaymentStatusResponse"),
				methodProto("Health", "HealthRequest", "HealthResponse"),
			},
		}},
	}
}

func messageProto(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalarField(name string, number int32, kind descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}
}

func messageField(name string, number int32, message string) *descriptorpb.FieldDescriptorProto {
	field := scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	field.TypeName = proto.String("." + PackageName + "." + message)
	return field
}

func methodProto(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + PackageName + "." + input),
		OutputType: proto.String("." + PackageName + "." + output),
	}
}
