package grpcserver

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

const (
	authorizationKey = "authorization"
	maxAuditBody     = 4 << 10
)

func (s *Server) claimsFromMetadata(ctx context.Context) (*auth.Claims, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	var header string
	if values := md.Get(authorizationKey); len(values) > 0 {
		header = values[0]
	}
	return s.tokens.Validate(auth.BearerToken(header))
}

// authInterceptor puts the caller's claims into the context. Authenticate is
// the only call served without a token.
func (s *Server) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod == Dispatch_Authenticate_FullMethodName {
		return handler(ctx, req)
	}

	claims, err := s.claimsFromMetadata(ctx)
	if err != nil {
		s.logger.Debug("Rejected call", zap.String("rpc_method", info.FullMethod), zap.Error(err))
		return nil, status.Error(codes.Unauthenticated, "missing or invalid session token")
	}
	return handler(auth.WithClaims(ctx, claims), req)
}

// observeInterceptor counts, logs and audits every call.
func (s *Server) observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	var actorID string
	if claims, err := s.claimsFromMetadata(ctx); err == nil {
		actorID = claims.AccountID
	}

	resp, err := handler(ctx, req)

	method := path.Base(info.FullMethod)
	code := status.Code(err)
	metrics.GRPCRequestsTotal.WithLabelValues(method, code.String()).Inc()

	l := s.logger.With(
		zap.String("rpc_method", method),
		zap.String("code", code.String()),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		l.Warn("RPC failed", zap.Error(err))
	} else {
		l.Debug("RPC handled")
	}

	if s.audit != nil {
		s.audit.LogEntry(ctx, auditEntry(info.FullMethod, actorID, req, resp, code))
	}
	return resp, err
}

func auditEntry(fullMethod, actorID string, req, resp any, code codes.Code) audit.Entry {
	entry := audit.Entry{
		Timestamp:  time.Now().UTC(),
		Source:     audit.SourceGRPC,
		Action:     fullMethod,
		Handler:    path.Base(fullMethod),
		ActorID:    actorID,
		StatusCode: int(code),
	}

	switch r := req.(type) {
	case *AuthenticateRequest:
		entry.EntityType = store.EntityAccount
	case *AcceptRequestRequest:
		entry.EntityType = store.EntityRequest
		entry.EntityID = r.RequestID
	case *MarkMessageReadRequest:
		entry.EntityType = store.EntityMessage
		entry.EntityID = r.MessageID
	case *Empty:
		entry.EntityType = store.EntityAccount
		entry.EntityID = entry.ActorID
	}
	if _, isLogin := req.(*AuthenticateRequest); !isLogin {
		entry.Request = marshalForAudit(req)
	}

	// Handlers return typed nil responses alongside errors.
	if code != codes.OK {
		return entry
	}

	switch out := resp.(type) {
	case *AuthenticateResponse:
		entry.EntityID = out.Account.ID
		entry.ActorID = out.Account.ID
		return entry
	case *RequestResponse:
		entry.EntityType = store.EntityRequest
		entry.EntityID = out.Request.ID
		entry.NewStatus = string(out.Request.Status)
	case *SendMessageResponse:
		entry.EntityType = store.EntityMessage
		entry.EntityID = out.Message.ID
	case *ListRequestsResponse, *ListMessagesResponse:
		return entry
	}
	entry.Response = marshalForAudit(resp)
	return entry
}

func marshalForAudit(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	if len(data) > maxAuditBody {
		return string(data[:maxAuditBody]) + "...(truncated)"
	}
	return string(data)
}
