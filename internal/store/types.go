package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrUnknownStatus = errors.New("unknown request status")
	ErrInvalidSeed   = errors.New("invalid seed")
)

type Role string

const (
	RoleProducer Role = "producer"
	RoleHauler   Role = "hauler"
)

// ParseRole accepts the canonical role names and the dashboard aliases
// "farmer" and "trucker".
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "producer", "farmer":
		return RoleProducer, nil
	case "hauler", "trucker":
		return RoleHauler, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	switch r {
	case RoleProducer, RoleHauler:
		return true
	}
	return false
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusInTransit RequestStatus = "in_transit"
	StatusDelivered RequestStatus = "delivered"
)

var statusRank = map[RequestStatus]int{
	StatusPending:   0,
	StatusAccepted:  1,
	StatusInTransit: 2,
	StatusDelivered: 3,
}

func ParseStatus(s string) (RequestStatus, error) {
	status := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

func (s RequestStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank is the position of the status in the lifecycle, -1 when unknown.
func (s RequestStatus) Rank() int {
	rank, ok := statusRank[s]
	if !ok {
		return -1
	}
	return rank
}

func (s RequestStatus) After(other RequestStatus) bool {
	return s.Rank() > other.Rank()
}

type Account struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Role     Role   `json:"role" yaml:"role"`
	Phone    string `json:"phone,omitempty" yaml:"phone"`
	Location string `json:"location,omitempty" yaml:"location"`
}

type TransportRequest struct {
	ID            string        `json:"id"`
	RequesterID   string        `json:"requester_id"`
	RequesterName string        `json:"requester_name"`
	CargoCategory string        `json:"cargo_category"`
	WeightKg      float64       `json:"weight_kg"`
	PickupPoint   string        `json:"pickup_point"`
	Destination   string        `json:"destination"`
	CreatedAt     time.Time     `json:"created_at"`
	Status        RequestStatus `json:"status"`
	AcceptedBy    string        `json:"accepted_by,omitempty"`
	AccepterName  string        `json:"accepter_name,omitempty"`
}

// RequestDraft is what a producer supplies; the store assigns the rest.
type RequestDraft struct {
	RequesterID   string
	RequesterName string
	CargoCategory string
	WeightKg      float64
	PickupPoint   string
	Destination   string
}

type Message struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	SenderRole    Role      `json:"sender_role"`
	RecipientID   string    `json:"recipient_id"`
	RecipientRole Role      `json:"recipient_role"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	RequestID     string    `json:"request_id,omitempty"`
	RatePerUnit   *float64  `json:"rate_per_unit,omitempty"`
	EstimatedTime string    `json:"estimated_time,omitempty"`
	Read          bool      `json:"read"`
}

func (m Message) clone() Message {
	if m.RatePerUnit != nil {
		rate := *m.RatePerUnit
		m.RatePerUnit = &rate
	}
	return m
}

type MessageDraft struct {
	SenderID      string
	SenderRole    Role
	RecipientID   string
	RecipientRole Role
	Body          string
	RequestID     string
	RatePerUnit   *float64
	EstimatedTime string
}

// CargoCategories is the list offered by the request form.
var CargoCategories = []string{
	"Wheat", "Rice", "Corn", "Barley", "Vegetables", "Fruits",
	"Cotton", "Sugarcane", "Pulses", "Oilseeds", "Other",
}
