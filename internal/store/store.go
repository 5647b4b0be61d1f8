package store

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

// SharedPassword is the one password every seeded account logs in with.
// It stands in for a real credential backend.
const SharedPassword = "password"

// Store owns the session, the transport requests and the inbox. Every
// mutation goes through its methods and completes under one lock.
type Store struct {
	mu sync.RWMutex

	accounts []Account
	session  *Account
	requests []TransportRequest
	messages []Message

	passwordHash []byte
	passwordCost int

	listenersMu sync.RWMutex
	listeners   []Listener

	timeNow func() time.Time
	newID   func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.timeNow = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithPasswordCost(cost int) Option {
	return func(s *Store) { s.passwordCost = cost }
}

func WithListener(l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

func New(seed Seed, opts ...Option) (*Store, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		accounts:     append([]Account(nil), seed.Accounts...),
		requests:     append([]TransportRequest(nil), seed.Requests...),
		messages:     []Message{},
		passwordCost: bcrypt.DefaultCost,
		timeNow:      time.Now,
		newID:        newUUIDv7,
	}
	for _, opt := range opts {
		opt(s)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SharedPassword), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash shared password: %w", err)
	}
	s.passwordHash = hash

	return s, nil
}

func newUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Authenticate starts a session for the account matching email and role
// when password is the shared password.
func (s *Store) Authenticate(email, password string, role Role) bool {
	_, ok := s.Login(email, password, role)
	return ok
}

// Login is Authenticate returning the matched account.
func (s *Store) Login(email, password string, role Role) (Account, bool) {
	// accounts never change after New, no lock needed for the lookup
	account, found := lo.Find(s.accounts, func(a Account) bool {
		return a.Email == email && a.Role == role
	})
	if !found {
		return Account{}, false
	}
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return Account{}, false
	}

	s.mu.Lock()
	session := account
	s.session = &session
	s.mu.Unlock()

	s.emit(Event{
		Kind:       EventSessionStarted,
		EntityType: EntityAccount,
		EntityID:   account.ID,
		ActorID:    account.ID,
		At:         s.timeNow().UTC(),
	})
	return account, true
}

// EndSession clears the session and discards every message in the store,
// including messages addressed to other accounts.
func (s *Store) EndSession() {
	s.mu.Lock()
	var actorID string
	if s.session != nil {
		actorID = s.session.ID
	}
	s.session = nil
	s.messages = []Message{}
	s.mu.Unlock()

	s.emit(Event{
		Kind:       EventSessionEnded,
		EntityType: EntityAccount,
		EntityID:   actorID,
		ActorID:    actorID,
		At:         s.timeNow().UTC(),
	})
}

// SubmitRequest appends a pending request. The draft is stored as given.
func (s *Store) SubmitRequest(draft RequestDraft) TransportRequest {
	s.mu.Lock()
	req := TransportRequest{
		ID:            s.newID(),
		RequesterID:   draft.RequesterID,
		RequesterName: draft.RequesterName,
		CargoCategory: draft.CargoCategory,
		WeightKg:      draft.WeightKg,
		PickupPoint:   draft.PickupPoint,
		Destination:   draft.Destination,
		CreatedAt:     s.timeNow().UTC(),
		Status:        StatusPending,
	}
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	s.emit(Event{
		Kind:       EventRequestSubmitted,
		EntityType: EntityRequest,
		EntityID:   req.ID,
		ActorID:    req.RequesterID,
		NewStatus:  string(req.Status),
		At:         req.CreatedAt,
	})
	return req
}

// AcceptRequest marks the request accepted by the hauler and notifies the
// requester. An unknown id changes nothing and reports false. An already
// accepted request is accepted again, overwriting the previous hauler.
// Requests past acceptance are left alone so the status never regresses.
func (s *Store) AcceptRequest(requestID, accepterID, accepterName string, ratePerUnit float64, estimatedTime string) (TransportRequest, bool) {
	s.mu.Lock()
	idx := s.requestIndex(requestID)
	if idx < 0 {
		s.mu.Unlock()
		return TransportRequest{}, false
	}

	req := &s.requests[idx]
	if req.Status.After(StatusAccepted) {
		current := *req
		s.mu.Unlock()
		return current, false
	}

	oldStatus := req.Status
	req.Status = StatusAccepted
	req.AcceptedBy = accepterID
	req.AccepterName = accepterName

	rate := ratePerUnit
	msg := s.appendMessage(MessageDraft{
		SenderID:      accepterID,
		SenderRole:    RoleHauler,
		RecipientID:   req.RequesterID,
		RecipientRole: RoleProducer,
		Body:          acceptanceBody(*req),
		RequestID:     req.ID,
		RatePerUnit:   &rate,
		EstimatedTime: estimatedTime,
	})
	accepted := *req
	s.mu.Unlock()

	now := s.timeNow().UTC()
	s.emit(
		Event{
			Kind:       EventRequestAccepted,
			EntityType: EntityRequest,
			EntityID:   accepted.ID,
			ActorID:    accepterID,
			OldStatus:  string(oldStatus),
			NewStatus:  string(accepted.Status),
			At:         now,
		},
		Event{
			Kind:       EventMessageSent,
			EntityType: EntityMessage,
			EntityID:   msg.ID,
			ActorID:    accepterID,
			At:         msg.CreatedAt,
		},
	)
	return accepted, true
}

func acceptanceBody(req TransportRequest) string {
	return fmt.Sprintf("Your transport request for %s (%skg) from %s to %s has been accepted!",
		req.CargoCategory,
		strconv.FormatFloat(req.WeightKg, 'f', -1, 64),
		req.PickupPoint,
		req.Destination,
	)
}

// SendMessage appends an unread message. Recipients are not checked.
func (s *Store) SendMessage(draft MessageDraft) Message {
	s.mu.Lock()
	msg := s.appendMessage(draft)
	s.mu.Unlock()

	s.emit(Event{
		Kind:       EventMessageSent,
		EntityType: EntityMessage,
		EntityID:   msg.ID,
		ActorID:    msg.SenderID,
		At:         msg.CreatedAt,
	})
	return msg.clone()
}

// appendMessage requires s.mu held for writing.
func (s *Store) appendMessage(draft MessageDraft) Message {
	msg := Message{
		ID:            s.newID(),
		SenderID:      draft.SenderID,
		SenderRole:    draft.SenderRole,
		RecipientID:   draft.RecipientID,
		RecipientRole: draft.RecipientRole,
		Body:          draft.Body,
		CreatedAt:     s.timeNow().UTC(),
		RequestID:     draft.RequestID,
		RatePerUnit:   draft.RatePerUnit,
		EstimatedTime: draft.EstimatedTime,
		Read:          false,
	}
	msg = msg.clone()
	s.messages = append(s.messages, msg)
	return msg
}

// MarkMessageRead flips the read flag. It reports whether the message exists;
// marking an already read message again is not an error.
func (s *Store) MarkMessageRead(messageID string) bool {
	s.mu.Lock()
	idx := s.messageIndex(messageID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	msg := &s.messages[idx]
	changed := !msg.Read
	msg.Read = true
	recipient := msg.RecipientID
	s.mu.Unlock()

	if changed {
		s.emit(Event{
			Kind:       EventMessageRead,
			EntityType: EntityMessage,
			EntityID:   messageID,
			ActorID:    recipient,
			At:         s.timeNow().UTC(),
		})
	}
	return true
}

func (s *Store) requestIndex(id string) int {
	for i := range s.requests {
		if s.requests[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) messageIndex(id string) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}
