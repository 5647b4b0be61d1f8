package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
	"go.uber.org/zap"
)

type sessionResponse struct {
	Token   string        `json:"token"`
	Account store.Account `json:"account"`
	Home    string        `json:"home"`
}

type producerDashboard struct {
	Role           store.Role               `json:"role"`
	Account        store.Account            `json:"account"`
	Summary        store.ProducerSummary    `json:"summary"`
	RecentRequests []store.TransportRequest `json:"recent_requests"`
	UnreadMessages []store.Message          `json:"unread_messages"`
}

type haulerDashboard struct {
	Role              store.Role               `json:"role"`
	Account           store.Account            `json:"account"`
	Summary           store.HaulerSummary      `json:"summary"`
	AvailableRequests []store.TransportRequest `json:"available_requests"`
	AcceptedTrips     []store.TransportRequest `json:"accepted_trips"`
	UnreadMessages    []store.Message          `json:"unread_messages"`
}

const recentRequestsOnDashboard = 3

func homeFor(role store.Role) string {
	switch role {
	case store.RoleProducer:
		return "/farmer-dashboard"
	case store.RoleHauler:
		return "/trucker-dashboard"
	}
	return "/"
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if err := s.decodeAndValidate(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := store.ParseRole(body.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed: role must be producer or hauler")
		return
	}

	account, ok := s.store.Login(body.Email, body.Password, role)
	if !ok {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("issue_token").Inc()
		s.logger.Error("Failed to issue token", zap.String("account_id", account.ID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Token: token, Account: account, Home: homeFor(account.Role)})
}

// handleGetSession reports the store's active session only to the account
// that holds it.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	account, ok := s.store.Session()
	if !ok || account.ID != callerFrom(r).AccountID {
		respondError(w, http.StatusNotFound, "No active session")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.tokens.Revoke(callerFrom(r))
	s.store.EndSession()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	account, ok := s.store.AccountByID(caller.AccountID)
	if !ok {
		respondError(w, http.StatusNotFound, "Account not found")
		return
	}

	switch caller.Role {
	case store.RoleProducer:
		respondJSON(w, http.StatusOK, producerDashboard{
			Role:           caller.Role,
			Account:        account,
			Summary:        s.store.ProducerSummary(account.ID),
			RecentRequests: s.store.RecentRequests(account.ID, recentRequestsOnDashboard),
			UnreadMessages: s.store.UnreadMessagesFor(account.ID),
		})
	case store.RoleHauler:
		respondJSON(w, http.StatusOK, haulerDashboard{
			Role:              caller.Role,
			Account:           account,
			Summary:           s.store.HaulerSummary(account.ID),
			AvailableRequests: s.store.PendingRequests(),
			AcceptedTrips:     s.store.RequestsAcceptedBy(account.ID),
			UnreadMessages:    s.store.UnreadMessagesFor(account.ID),
		})
	default:
		respondError(w, http.StatusForbidden, "Unknown role")
	}
}

func handleCargoCategories(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, store.CargoCategories)
}

// handleListRequests supports ?mine=true, ?status=, ?accepted_by= ("me" is
// the caller) and ?recent=N. Filters combine.
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	q := r.URL.Query()

	var status store.RequestStatus
	if raw := q.Get("status"); raw != "" {
		parsed, err := store.ParseStatus(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		status = parsed
	}

	acceptedBy := q.Get("accepted_by")
	if acceptedBy == "me" {
		acceptedBy = caller.AccountID
	}

	mine := q.Get("mine") == "true"

	var requests []store.TransportRequest
	switch {
	case q.Has("recent"):
		n, err := strconv.Atoi(q.Get("recent"))
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid recent count")
			return
		}
		requests = s.store.RecentRequests(caller.AccountID, n)
	case mine:
		requests = s.store.RequestsByRequester(caller.AccountID)
	case acceptedBy != "":
		requests = s.store.RequestsAcceptedBy(acceptedBy)
	case status == store.StatusPending:
		requests = s.store.PendingRequests()
	default:
		requests = s.store.Requests()
	}

	requests = lo.Filter(requests, func(req store.TransportRequest, _ int) bool {
		if status != "" && req.Status != status {
			return false
		}
		if acceptedBy != "" && req.AcceptedBy != acceptedBy {
			return false
		}
		return true
	})

	respondJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	req, ok := s.store.Request(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Request not found")
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body requestBody
	if err := s.decodeAndValidate(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := callerFrom(r)
	account, ok := s.store.AccountByID(caller.AccountID)
	if !ok {
		respondError(w, http.StatusNotFound, "Account not found")
		return
	}

	req := s.store.SubmitRequest(store.RequestDraft{
		RequesterID:   account.ID,
		RequesterName: account.Name,
		CargoCategory: body.CargoCategory,
		WeightKg:      body.WeightKg,
		PickupPoint:   body.PickupPoint,
		Destination:   body.Destination,
	})
	respondJSON(w, http.StatusCreated, req)
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	var body acceptBody
	if err := s.decodeAndValidate(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := callerFrom(r)
	account, ok := s.store.AccountByID(caller.AccountID)
	if !ok {
		respondError(w, http.StatusNotFound, "Account not found")
		return
	}

	id := mux.Vars(r)["id"]
	req, ok := s.store.AcceptRequest(id, account.ID, account.Name, body.RatePerUnit, body.EstimatedTime)
	if !ok {
		if req.ID == "" {
			respondError(w, http.StatusNotFound, "Request not found")
			return
		}
		respondError(w, http.StatusConflict, "Request is already "+string(req.Status))
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	if r.URL.Query().Get("unread") == "true" {
		respondJSON(w, http.StatusOK, s.store.UnreadMessagesFor(caller.AccountID))
		return
	}
	respondJSON(w, http.StatusOK, s.store.MessagesFor(caller.AccountID))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body messageBody
	if err := s.decodeAndValidate(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := callerFrom(r)
	var recipientRole store.Role
	if recipient, ok := s.store.AccountByID(body.RecipientID); ok {
		recipientRole = recipient.Role
	}

	msg := s.store.SendMessage(store.MessageDraft{
		SenderID:      caller.AccountID,
		SenderRole:    caller.Role,
		RecipientID:   body.RecipientID,
		RecipientRole: recipientRole,
		Body:          body.Body,
		RequestID:     body.RequestID,
	})
	respondJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.MarkMessageRead(id) {
		respondError(w, http.StatusNotFound, "Message not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
