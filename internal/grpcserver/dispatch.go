package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

const (
	Dispatch_Authenticate_FullMethodName    = "/agrimove.v1.Dispatch/Authenticate"
	Dispatch_EndSession_FullMethodName      = "/agrimove.v1.Dispatch/EndSession"
	Dispatch_SubmitRequest_FullMethodName   = "/agrimove.v1.Dispatch/SubmitRequest"
	Dispatch_AcceptRequest_FullMethodName   = "/agrimove.v1.Dispatch/AcceptRequest"
	Dispatch_SendMessage_FullMethodName     = "/agrimove.v1.Dispatch/SendMessage"
	Dispatch_MarkMessageRead_FullMethodName = "/agrimove.v1.Dispatch/MarkMessageRead"
	Dispatch_ListRequests_FullMethodName    = "/agrimove.v1.Dispatch/ListRequests"
	Dispatch_ListMessages_FullMethodName    = "/agrimove.v1.Dispatch/ListMessages"
)

type Empty struct{}

type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AuthenticateResponse struct {
	Token   string        `json:"token"`
	Account store.Account `json:"account"`
}

type SubmitRequestRequest struct {
	CargoCategory string  `json:"cargo_category"`
	WeightKg      float64 `json:"weight_kg"`
	PickupPoint   string  `json:"pickup_point"`
	Destination   string  `json:"destination"`
}

type AcceptRequestRequest struct {
	RequestID     string  `json:"request_id"`
	RatePerUnit   float64 `json:"rate_per_unit"`
	EstimatedTime string  `json:"estimated_time"`
}

type RequestResponse struct {
	Request store.TransportRequest `json:"request"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
	RequestID   string `json:"request_id,omitempty"`
}

type SendMessageResponse struct {
	Message store.Message `json:"message"`
}

type MarkMessageReadRequest struct {
	MessageID string `json:"message_id"`
}

// ListRequestsRequest filters combine. Recent takes precedence over the
// other selectors when positive.
type ListRequestsRequest struct {
	Mine         bool   `json:"mine,omitempty"`
	Status       string `json:"status,omitempty"`
	AcceptedByMe bool   `json:"accepted_by_me,omitempty"`
	Recent       int    `json:"recent,omitempty"`
}

type ListRequestsResponse struct {
	Requests []store.TransportRequest `json:"requests"`
}

type ListMessagesRequest struct {
	UnreadOnly bool `json:"unread_only,omitempty"`
}

type ListMessagesResponse struct {
	Messages []store.Message `json:"messages"`
}

type DispatchServer interface {
	Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error)
	EndSession(context.Context, *Empty) (*Empty, error)
	SubmitRequest(context.Context, *SubmitRequestRequest) (*RequestResponse, error)
	AcceptRequest(context.Context, *AcceptRequestRequest) (*RequestResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	MarkMessageRead(context.Context, *MarkMessageReadRequest) (*Empty, error)
	ListRequests(context.Context, *ListRequestsRequest) (*ListRequestsResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(DispatchServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DispatchServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DispatchServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var Dispatch_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "agrimove.v1.Dispatch",
	HandlerType: (*DispatchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Authenticate", Handler: unaryHandler(Dispatch_Authenticate_FullMethodName, DispatchServer.Authenticate)},
		{MethodName: "EndSession", Handler: unaryHandler(Dispatch_EndSession_FullMethodName, DispatchServer.EndSession)},
		{MethodName: "SubmitRequest", Handler: unaryHandler(Dispatch_SubmitRequest_FullMethodName, DispatchServer.SubmitRequest)},
		{MethodName: "AcceptRequest", Handler: unaryHandler(Dispatch_AcceptRequest_FullMethodName, DispatchServer.AcceptRequest)},
		{MethodName: "SendMessage", Handler: unaryHandler(Dispatch_SendMessage_FullMethodName, DispatchServer.SendMessage)},
		{MethodName: "MarkMessageRead", Handler: unaryHandler(Dispatch_MarkMessageRead_FullMethodName, DispatchServer.MarkMessageRead)},
		{MethodName: "ListRequests", Handler: unaryHandler(Dispatch_ListRequests_FullMethodName, DispatchServer.ListRequests)},
		{MethodName: "ListMessages", Handler: unaryHandler(Dispatch_ListMessages_FullMethodName, DispatchServer.ListMessages)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "agrimove/v1/dispatch",
}

func RegisterDispatchServer(s grpc.ServiceRegistrar, srv DispatchServer) {
	s.RegisterService(&Dispatch_ServiceDesc, srv)
}

type DispatchClient struct {
	cc grpc.ClientConnInterface
}

func NewDispatchClient(cc grpc.ClientConnInterface) *DispatchClient {
	return &DispatchClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispatchClient) Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error) {
	return invoke[AuthenticateResponse](ctx, c.cc, Dispatch_Authenticate_FullMethodName, in, opts)
}

func (c *DispatchClient) EndSession(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Dispatch_EndSession_FullMethodName, in, opts)
}

func (c *DispatchClient) SubmitRequest(ctx context.Context, in *SubmitRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, Dispatch_SubmitRequest_FullMethodName, in, opts)
}

func (c *DispatchClient) AcceptRequest(ctx context.Context, in *AcceptRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, Dispatch_AcceptRequest_FullMethodName, in, opts)
}

func (c *DispatchClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, Dispatch_SendMessage_FullMethodName, in, opts)
}

func (c *DispatchClient) MarkMessageRead(ctx context.Context, in *MarkMessageReadRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Dispatch_MarkMessageRead_FullMethodName, in, opts)
}

func (c *DispatchClient) ListRequests(ctx context.Context, in *ListRequestsRequest, opts ...grpc.CallOption) (*ListRequestsResponse, error) {
	return invoke[ListRequestsResponse](ctx, c.cc, Dispatch_ListRequests_FullMethodName, in, opts)
}

func (c *DispatchClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, Dispatch_ListMessages_FullMethodName, in, opts)
}
