//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
	"go.uber.org/zap"
)

type Store interface {
	Login(email, password string, role store.Role) (store.Account, bool)
	EndSession()
	Session() (store.Account, bool)
	AccountByID(id string) (store.Account, bool)

	SubmitRequest(draft store.RequestDraft) store.TransportRequest
	AcceptRequest(requestID, accepterID, accepterName string, ratePerUnit float64, estimatedTime string) (store.TransportRequest, bool)
	Requests() []store.TransportRequest
	Request(id string) (store.TransportRequest, bool)
	RequestsByRequester(requesterID string) []store.TransportRequest
	RequestsAcceptedBy(haulerID string) []store.TransportRequest
	PendingRequests() []store.TransportRequest
	RecentRequests(requesterID string, n int) []store.TransportRequest

	SendMessage(draft store.MessageDraft) store.Message
	MarkMessageRead(messageID string) bool
	MessagesFor(recipientID string) []store.Message
	UnreadMessagesFor(recipientID string) []store.Message

	ProducerSummary(producerID string) store.ProducerSummary
	HaulerSummary(haulerID string) store.HaulerSummary
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
	store       Store
	tokens      TokenIssuer
	audit       AuditLogger
	validate    *validator.Validate
	corsOrigins []string
	logger      *zap.Logger
	server      *http.Server
}

func New(st Store, tokens TokenIssuer, auditLogger AuditLogger, corsOrigins []string, logger *zap.Logger) *Server {
	return &Server{
		store:       st,
		tokens:      tokens,
		audit:       auditLogger,
		validate:    newValidator(),
		corsOrigins: corsOrigins,
		logger:      logger.With(zap.String("component", "http")),
	}
}

// Run serves until Shutdown is called.
func (s *Server) Run(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("HTTP server shutdown completed")
	return nil
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.auditLogMiddleware)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet).Name("handleHealth")
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("handleMetrics")
	r.HandleFunc("/cargo-categories", handleCargoCategories).Methods(http.MethodGet).Name("handleCargoCategories")
	r.HandleFunc("/session", s.handleCreateSession).Methods(http.MethodPost).Name("handleCreateSession")

	api := r.NewRoute().Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/session", s.handleGetSession).Methods(http.MethodGet).Name("handleGetSession")
	api.HandleFunc("/session", s.handleDeleteSession).Methods(http.MethodDelete).Name("handleDeleteSession")
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet).Name("handleDashboard")

	api.HandleFunc("/requests", s.handleListRequests).Methods(http.MethodGet).Name("handleListRequests")
	api.HandleFunc("/requests", requireRole(store.RoleProducer, s.handleSubmitRequest)).Methods(http.MethodPost).Name("handleSubmitRequest")
	api.HandleFunc("/requests/{id}", s.handleGetRequest).Methods(http.MethodGet).Name("handleGetRequest")
	api.HandleFunc("/requests/{id}/accept", requireRole(store.RoleHauler, s.handleAcceptRequest)).Methods(http.MethodPost).Name("handleAcceptRequest")

	api.HandleFunc("/messages", s.handleListMessages).Methods(http.MethodGet).Name("handleListMessages")
	api.HandleFunc("/messages", s.handleSendMessage).Methods(http.MethodPost).Name("handleSendMessage")
	api.HandleFunc("/messages/{id}/read", s.handleMarkMessageRead).Methods(http.MethodPost).Name("handleMarkMessageRead")

	return cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
