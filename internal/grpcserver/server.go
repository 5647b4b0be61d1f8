package grpcserver

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

var _ DispatchServer = (*Server)(nil)

type Store interface {
	Login(email, password string, role store.Role) (store.Account, bool)
	EndSession()
	AccountByID(id string) (store.Account, bool)

	SubmitRequest(draft store.RequestDraft) store.TransportRequest
	AcceptRequest(requestID, accepterID, accepterName string, ratePerUnit float64, estimatedTime string) (store.TransportRequest, bool)
	Requests() []store.TransportRequest
	RequestsByRequester(requesterID string) []store.TransportRequest
	RequestsAcceptedBy(haulerID string) []store.TransportRequest
	PendingRequests() []store.TransportRequest
	RecentRequests(requesterID string, n int) []store.TransportRequest

	SendMessage(draft store.MessageDraft) store.Message
	MarkMessageRead(messageID string) bool
	MessagesFor(recipientID string) []store.Message
	UnreadMessagesFor(recipientID string) []store.Message
}

type TokenIssuer interface {
	Issue(account store.Account) (string, error)
	Validate(token string) (*auth.Claims, error)
	Revoke(claims *auth.Claims)
}

type AuditLogger interface {
	LogEntry(ctx context.Context, entry audit.Entry)
}

type Server struct {
	store  Store
	tokens TokenIssuer
	audit  AuditLogger
	logger *zap.Logger
	grpc   *grpc.Server
}

func NewServer(st Store, tokens TokenIssuer, auditLogger AuditLogger, logger *zap.Logger) *Server {
	s := &Server{
		store:  st,
		tokens: tokens,
		audit:  auditLogger,
		logger: logger.With(zap.String("component", "grpc")),
	}
	s.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(s.observeInterceptor, s.authInterceptor))
	RegisterDispatchServer(s.grpc, s)
	return s
}

func (s *Server) Run(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve blocks until Shutdown is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", zap.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown waits for in-flight calls and falls back to a hard stop when ctx
// expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down gRPC server")
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server shutdown completed")
		return nil
	case <-ctx.Done():
		s.grpc.Stop()
		return ctx.Err()
	}
}

func (s *Server) Authenticate(_ context.Context, req *AuthenticateRequest) (*AuthenticateResponse, error) {
	l := s.logger.With(zap.String("rpc_method", "Authenticate"), zap.String("email", req.Email))
	l.Debug("RPC call received")

	if req.Email == "" || req.Password == "" {
		metrics.OperationErrorsTotal.WithLabelValues("authenticate").Inc()
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}
	role, err := store.ParseRole(req.Role)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("authenticate").Inc()
		return nil, status.Error(codes.InvalidArgument, "role must be producer or hauler")
	}

	account, ok := s.store.Login(req.Email, req.Password, role)
	if !ok {
		l.Info("Login rejected")
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		l.Error("Failed to issue token", zap.Error(err))
		metrics.OperationErrorsTotal.WithLabelValues("issue_token").Inc()
		return nil, status.Errorf(codes.Internal, "failed to create session: %v", err)
	}

	l.Info("Session started", zap.String("account_id", account.ID))
	return &AuthenticateResponse{Token: token, Account: account}, nil
}

func (s *Server) EndSession(ctx context.Context, _ *Empty) (*Empty, error) {
	if claims, ok := auth.FromContext(ctx); ok {
		s.tokens.Revoke(claims)
	}
	s.store.EndSession()
	s.logger.Info("Session ended", zap.String("rpc_method", "EndSession"))
	return &Empty{}, nil
}

func (s *Server) SubmitRequest(ctx context.Context, req *SubmitRequestRequest) (*RequestResponse, error) {
	l := s.logger.With(zap.String("rpc_method", "SubmitRequest"), zap.String("cargo_category", req.CargoCategory))
	l.Debug("RPC call received")

	caller, err := requireRole(ctx, store.RoleProducer)
	if err != nil {
		return nil, err
	}

	switch {
	case !lo.Contains(store.CargoCategories, req.CargoCategory):
		metrics.OperationErrorsTotal.WithLabelValues("submit_request").Inc()
		return nil, status.Errorf(codes.InvalidArgument, "cargo_category must be one of: %s", strings.Join(store.CargoCategories, ", "))
	case req.WeightKg <= 0:
		metrics.OperationErrorsTotal.WithLabelValues("submit_request").Inc()
		return nil, status.Error(codes.InvalidArgument, "weight_kg must be greater than 0")
	case strings.TrimSpace(req.PickupPoint) == "" || strings.TrimSpace(req.Destination) == "":
		metrics.OperationErrorsTotal.WithLabelValues("submit_request").Inc()
		return nil, status.Error(codes.InvalidArgument, "pickup_point and destination are required")
	}

	account, ok := s.store.AccountByID(caller.AccountID)
	if !ok {
		return nil, status.Error(codes.NotFound, "account not found")
	}

	created := s.store.SubmitRequest(store.RequestDraft{
		RequesterID:   account.ID,
		RequesterName: account.Name,
		CargoCategory: req.CargoCategory,
		WeightKg:      req.WeightKg,
		PickupPoint:   req.PickupPoint,
		Destination:   req.Destination,
	})

	l.Info("Transport request submitted", zap.String("request_id", created.ID))
	return &RequestResponse{Request: created}, nil
}

func (s *Server) AcceptRequest(ctx context.Context, req *AcceptRequestRequest) (*RequestResponse, error) {
	l := s.logger.With(zap.String("rpc_method", "AcceptRequest"), zap.String("request_id", req.RequestID))
	l.Debug("RPC call received")

	caller, err := requireRole(ctx, store.RoleHauler)
	if err != nil {
		return nil, err
	}

	if req.RequestID == "" || strings.TrimSpace(req.EstimatedTime) == "" || req.RatePerUnit <= 0 {
		metrics.OperationErrorsTotal.WithLabelValues("accept_request").Inc()
		return nil, status.Error(codes.InvalidArgument, "request_id, positive rate_per_unit and estimated_time are required")
	}

	account, ok := s.store.AccountByID(caller.AccountID)
	if !ok {
		return nil, status.Error(codes.NotFound, "account not found")
	}

	accepted, ok := s.store.AcceptRequest(req.RequestID, account.ID, account.Name, req.RatePerUnit, req.EstimatedTime)
	if !ok {
		metrics.OperationErrorsTotal.WithLabelValues("accept_request").Inc()
		if accepted.ID == "" {
			l.Warn("Request not found")
			return nil, status.Error(codes.NotFound, "request not found")
		}
		l.Warn("Request past acceptance", zap.String("current_status", string(accepted.Status)))
		return nil, status.Errorf(codes.FailedPrecondition, "request is already %s", accepted.Status)
	}

	l.Info("Transport request accepted", zap.String("hauler_id", account.ID))
	return &RequestResponse{Request: accepted}, nil
}

func (s *Server) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	l := s.logger.With(zap.String("rpc_method", "SendMessage"), zap.String("recipient_id", req.RecipientID))
	l.Debug("RPC call received")

	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.RecipientID == "" || strings.TrimSpace(req.Body) == "" {
		metrics.OperationErrorsTotal.WithLabelValues("send_message").Inc()
		return nil, status.Error(codes.InvalidArgument, "recipient_id and body are required")
	}

	var recipientRole store.Role
	if recipient, ok := s.store.AccountByID(req.RecipientID); ok {
		recipientRole = recipient.Role
	}

	msg := s.store.SendMessage(store.MessageDraft{
		SenderID:      caller.AccountID,
		SenderRole:    caller.Role,
		RecipientID:   req.RecipientID,
		RecipientRole: recipientRole,
		Body:          req.Body,
		RequestID:     req.RequestID,
	})

	l.Info("Message sent", zap.String("message_id", msg.ID))
	return &SendMessageResponse{Message: msg}, nil
}

func (s *Server) MarkMessageRead(_ context.Context, req *MarkMessageReadRequest) (*Empty, error) {
	if req.MessageID == "" {
		return nil, status.Error(codes.InvalidArgument, "message_id is required")
	}
	if !s.store.MarkMessageRead(req.MessageID) {
		return nil, status.Error(codes.NotFound, "message not found")
	}
	return &Empty{}, nil
}

func (s *Server) ListRequests(ctx context.Context, req *ListRequestsRequest) (*ListRequestsResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var statusFilter store.RequestStatus
	if req.Status != "" {
		parsed, err := store.ParseStatus(req.Status)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid status filter: %v", err)
		}
		statusFilter = parsed
	}
	if req.Recent < 0 {
		return nil, status.Error(codes.InvalidArgument, "recent must not be negative")
	}

	var requests []store.TransportRequest
	switch {
	case req.Recent > 0:
		requests = s.store.RecentRequests(caller.AccountID, req.Recent)
	case req.Mine:
		requests = s.store.RequestsByRequester(caller.AccountID)
	case req.AcceptedByMe:
		requests = s.store.RequestsAcceptedBy(caller.AccountID)
	case statusFilter == store.StatusPending:
		requests = s.store.PendingRequests()
	default:
		requests = s.store.Requests()
	}

	requests = lo.Filter(requests, func(r store.TransportRequest, _ int) bool {
		if statusFilter != "" && r.Status != statusFilter {
			return false
		}
		return !req.AcceptedByMe || r.AcceptedBy == caller.AccountID
	})

	return &ListRequestsResponse{Requests: requests}, nil
}

func (s *Server) ListMessages(ctx context.Context, req *ListMessagesRequest) (*ListMessagesResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.UnreadOnly {
		return &ListMessagesResponse{Messages: s.store.UnreadMessagesFor(caller.AccountID)}, nil
	}
	return &ListMessagesResponse{Messages: s.store.MessagesFor(caller.AccountID)}, nil
}

func callerFrom(ctx context.Context) (*auth.Claims, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing session token")
	}
	return claims, nil
}

func requireRole(ctx context.Context, role store.Role) (*auth.Claims, error) {
	claims, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, status.Errorf(codes.PermissionDenied, "only %s accounts can do this", role)
	}
	return claims, nil
}
