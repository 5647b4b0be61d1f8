package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

const maxAuditBody = 4 << 10

// auditLogMiddleware records every routed request. Passwords never reach the
// audit log: the session body is dropped.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := audit.Entry{
			Timestamp: time.Now().UTC(),
			Source:    audit.SourceHTTP,
			Method:    r.Method,
			Path:      r.URL.Path,
		}

		if route := mux.CurrentRoute(r); route != nil {
			entry.Handler = route.GetName()
			if tpl, err := route.GetPathTemplate(); err == nil {
				entry.Action = r.Method + " " + tpl
			}
		}
		if entry.Action == "" {
			entry.Action = r.Method + " " + r.URL.Path
		}

		if claims, err := s.tokens.Validate(auth.BearerToken(r.Header.Get("Authorization"))); err == nil {
			entry.ActorID = claims.AccountID
		}

		id := mux.Vars(r)["id"]
		switch {
		case strings.HasPrefix(r.URL.Path, "/requests"):
			entry.EntityType = store.EntityRequest
			entry.EntityID = id
		case strings.HasPrefix(r.URL.Path, "/messages"):
			entry.EntityType = store.EntityMessage
			entry.EntityID = id
		case strings.HasPrefix(r.URL.Path, "/session"):
			entry.EntityType = store.EntityAccount
			entry.EntityID = entry.ActorID
		}

		isAccept := entry.Handler == "handleAcceptRequest"
		if isAccept {
			if req, ok := s.store.Request(id); ok {
				entry.OldStatus = string(req.Status)
			}
		}

		if r.Body != nil && entry.Handler != "handleCreateSession" {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = truncate(string(requestBody))
		}

		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		entry.StatusCode = wrw.GetStatusCode()
		if entry.Handler != "handleMetrics" && entry.Handler != "handleCreateSession" {
			entry.Response = truncate(string(wrw.GetBody()))
		}
		if isAccept && entry.StatusCode == http.StatusOK {
			if req, ok := s.store.Request(id); ok {
				entry.NewStatus = string(req.Status)
			}
		}

		s.audit.LogEntry(r.Context(), entry)
	})
}

func truncate(s string) string {
	if len(s) <= maxAuditBody {
		return s
	}
	return s[:maxAuditBody] + "..."
}
