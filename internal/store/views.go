package store

import (
	"slices"

	"github.com/samber/lo"
)

type ProducerSummary struct {
	TotalRequests     int `json:"total_requests"`
	PendingRequests   int `json:"pending_requests"`
	DeliveredRequests int `json:"delivered_requests"`
	Messages          int `json:"messages"`
	UnreadMessages    int `json:"unread_messages"`
}

type HaulerSummary struct {
	AvailableRequests int `json:"available_requests"`
	AcceptedTrips     int `json:"accepted_trips"`
}

func (s *Store) Session() (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Account{}, false
	}
	return *s.session, true
}

func (s *Store) Accounts() []Account {
	return append([]Account{}, s.accounts...)
}

func (s *Store) AccountByID(id string) (Account, bool) {
	return lo.Find(s.accounts, func(a Account) bool { return a.ID == id })
}

// Requests returns every request in insertion order.
func (s *Store) Requests() []TransportRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TransportRequest{}, s.requests...)
}

func (s *Store) Request(id string) (TransportRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.requestIndex(id)
	if idx < 0 {
		return TransportRequest{}, false
	}
	return s.requests[idx], true
}

func (s *Store) RequestsByRequester(requesterID string) []TransportRequest {
	return s.filterRequests(func(r TransportRequest) bool { return r.RequesterID == requesterID })
}

func (s *Store) RequestsByStatus(status RequestStatus) []TransportRequest {
	return s.filterRequests(func(r TransportRequest) bool { return r.Status == status })
}

func (s *Store) PendingRequests() []TransportRequest {
	return s.RequestsByStatus(StatusPending)
}

func (s *Store) RequestsAcceptedBy(haulerID string) []TransportRequest {
	return s.filterRequests(func(r TransportRequest) bool { return r.AcceptedBy == haulerID })
}

// RecentRequests returns up to n of the requester's requests, newest first.
// n <= 0 returns all of them.
func (s *Store) RecentRequests(requesterID string, n int) []TransportRequest {
	mine := s.RequestsByRequester(requesterID)
	slices.SortStableFunc(mine, func(a, b TransportRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if n > 0 && len(mine) > n {
		mine = mine[:n]
	}
	return mine
}

func (s *Store) filterRequests(keep func(TransportRequest) bool) []TransportRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.requests, func(r TransportRequest, _ int) bool { return keep(r) })
}

// Messages returns every message in insertion order.
func (s *Store) Messages() []Message {
	return s.filterMessages(func(Message) bool { return true })
}

func (s *Store) Message(id string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.messageIndex(id)
	if idx < 0 {
		return Message{}, false
	}
	return s.messages[idx].clone(), true
}

func (s *Store) MessagesFor(recipientID string) []Message {
	return s.filterMessages(func(m Message) bool { return m.RecipientID == recipientID })
}

func (s *Store) UnreadMessagesFor(recipientID string) []Message {
	return s.filterMessages(func(m Message) bool { return m.RecipientID == recipientID && !m.Read })
}

func (s *Store) filterMessages(keep func(Message) bool) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kept := lo.Filter(s.messages, func(m Message, _ int) bool { return keep(m) })
	return lo.Map(kept, func(m Message, _ int) Message { return m.clone() })
}

func (s *Store) ProducerSummary(producerID string) ProducerSummary {
	mine := s.RequestsByRequester(producerID)
	inbox := s.MessagesFor(producerID)
	return ProducerSummary{
		TotalRequests:     len(mine),
		PendingRequests:   lo.CountBy(mine, func(r TransportRequest) bool { return r.Status == StatusPending }),
		DeliveredRequests: lo.CountBy(mine, func(r TransportRequest) bool { return r.Status == StatusDelivered }),
		Messages:          len(inbox),
		UnreadMessages:    lo.CountBy(inbox, func(m Message) bool { return !m.Read }),
	}
}

func (s *Store) HaulerSummary(haulerID string) HaulerSummary {
	return HaulerSummary{
		AvailableRequests: len(s.PendingRequests()),
		AcceptedTrips:     len(s.RequestsAcceptedBy(haulerID)),
	}
}

// Counts reports the number of pending requests and unread messages across
// the whole store.
func (s *Store) Counts() (pending, unread int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending = lo.CountBy(s.requests, func(r TransportRequest) bool { return r.Status == StatusPending })
	unread = lo.CountBy(s.messages, func(m Message) bool { return !m.Read })
	return pending, unread
}
