package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Seed struct {
	Accounts []Account
	Requests []TransportRequest
}

// DefaultSeed is the fixture the dashboard ships with. Request timestamps are
// relative to now.
func DefaultSeed(now time.Time) Seed {
	now = now.UTC()
	return Seed{
		Accounts: []Account{
			{
				ID:       "farmer1",
				Name:     "Rajesh Kumar",
				Email:    "farmer@test.com",
				Role:     RoleProducer,
				Phone:    "+91 98765 43210",
				Location: "Ludhiana, Punjab",
			},
			{
				ID:       "trucker1",
				Name:     "Vikram Singh",
				Email:    "trucker@test.com",
				Role:     RoleHauler,
				Phone:    "+91 87654 32109",
				Location: "Delhi",
			},
		},
		Requests: []TransportRequest{
			{
				ID:            "req1",
				RequesterID:   "farmer1",
				RequesterName: "Rajesh Kumar",
				CargoCategory: "Wheat",
				WeightKg:      2500,
				PickupPoint:   "Ludhiana, Punjab",
				Destination:   "Delhi Mandi",
				CreatedAt:     now.Add(-2 * time.Hour),
				Status:        StatusPending,
			},
			{
				ID:            "req2",
				RequesterID:   "farmer2",
				RequesterName: "Sunita Devi",
				CargoCategory: "Rice",
				WeightKg:      1800,
				PickupPoint:   "Karnal, Haryana",
				Destination:   "Chandigarh Market",
				CreatedAt:     now.Add(-4 * time.Hour),
				Status:        StatusPending,
			},
			{
				ID:            "req3",
				RequesterID:   "farmer3",
				RequesterName: "Mukesh Singh",
				CargoCategory: "Vegetables",
				WeightKg:      800,
				PickupPoint:   "Hisar, Haryana",
				Destination:   "Gurgaon Market",
				CreatedAt:     now.Add(-6 * time.Hour),
				Status:        StatusPending,
			},
		},
	}
}

// Validate checks uniqueness of account ids, emails and request ids, and the
// accepted-by invariant of every seeded request.
func (s Seed) Validate() error {
	ids := make(map[string]struct{}, len(s.Accounts))
	emails := make(map[string]struct{}, len(s.Accounts))
	for _, a := range s.Accounts {
		if a.ID == "" || a.Email == "" {
			return fmt.Errorf("%w: account with empty id or email", ErrInvalidSeed)
		}
		if !a.Role.Valid() {
			return fmt.Errorf("%w: account %s: %w", ErrInvalidSeed, a.ID, ErrUnknownRole)
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("%w: duplicate account id %s", ErrInvalidSeed, a.ID)
		}
		if _, dup := emails[a.Email]; dup {
			return fmt.Errorf("%w: duplicate email %s", ErrInvalidSeed, a.Email)
		}
		ids[a.ID] = struct{}{}
		emails[a.Email] = struct{}{}
	}

	reqIDs := make(map[string]struct{}, len(s.Requests))
	for _, r := range s.Requests {
		if r.ID == "" {
			return fmt.Errorf("%w: request with empty id", ErrInvalidSeed)
		}
		if _, dup := reqIDs[r.ID]; dup {
			return fmt.Errorf("%w: duplicate request id %s", ErrInvalidSeed, r.ID)
		}
		reqIDs[r.ID] = struct{}{}

		if !r.Status.Valid() {
			return fmt.Errorf("%w: request %s: %w", ErrInvalidSeed, r.ID, ErrUnknownStatus)
		}
		wantAccepter := r.Status != StatusPending
		if (r.AcceptedBy != "") != wantAccepter || (r.AccepterName != "") != wantAccepter {
			return fmt.Errorf("%w: request %s: accepted_by and accepter_name must be set iff status is not pending", ErrInvalidSeed, r.ID)
		}
	}
	return nil
}

type seedFile struct {
	Accounts []Account        `yaml:"accounts"`
	Requests []seedFileRecord `yaml:"requests"`
}

type seedFileRecord struct {
	ID            string        `yaml:"id"`
	RequesterID   string        `yaml:"requester_id"`
	RequesterName string        `yaml:"requester_name"`
	CargoCategory string        `yaml:"cargo_category"`
	WeightKg      float64       `yaml:"weight_kg"`
	PickupPoint   string        `yaml:"pickup_point"`
	Destination   string        `yaml:"destination"`
	CreatedAt     time.Time     `yaml:"created_at"`
	Age           time.Duration `yaml:"age"`
	Status        string        `yaml:"status"`
	AcceptedBy    string        `yaml:"accepted_by"`
	AccepterName  string        `yaml:"accepter_name"`
}

// LoadSeed reads a YAML fixture. A request without created_at is placed
// age before now; a request without status is pending.
func LoadSeed(path string, now time.Time) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data, now)
}

func ParseSeed(data []byte, now time.Time) (Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Seed{}, fmt.Errorf("failed to parse seed: %w", err)
	}

	seed := Seed{Accounts: file.Accounts}
	for _, rec := range file.Requests {
		status := StatusPending
		if rec.Status != "" {
			parsed, err := ParseStatus(rec.Status)
			if err != nil {
				return Seed{}, fmt.Errorf("%w: request %s: %w", ErrInvalidSeed, rec.ID, err)
			}
			status = parsed
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = now.Add(-rec.Age)
		}
		seed.Requests = append(seed.Requests, TransportRequest{
			ID:            rec.ID,
			RequesterID:   rec.RequesterID,
			RequesterName: rec.RequesterName,
			CargoCategory: rec.CargoCategory,
			WeightKg:      rec.WeightKg,
			PickupPoint:   rec.PickupPoint,
			Destination:   rec.Destination,
			CreatedAt:     createdAt.UTC(),
			Status:        status,
			AcceptedBy:    rec.AcceptedBy,
			AccepterName:  rec.AccepterName,
		})
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}
