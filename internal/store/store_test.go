package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedTime = time.Date(2025, 3, 10, 8, 45, 22, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	seq := 0
	base := []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithPasswordCost(bcrypt.MinCost),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	}
	s, err := New(DefaultSeed(fixedTime), append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestStore_Authenticate(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		role     Role
		want     bool
		wantID   string
	}{
		{
			name:     "seeded producer",
			email:    "farmer@test.com",
			password: SharedPassword,
			role:     RoleProducer,
			want:     true,
			wantID:   "farmer1",
		},
		{
			name:     "seeded hauler",
			email:    "trucker@test.com",
			password: SharedPassword,
			role:     RoleHauler,
			want:     true,
			wantID:   "trucker1",
		},
		{
			name:     "wrong password",
			email:    "farmer@test.com",
			password: "password1",
			role:     RoleProducer,
		},
		{
			name:     "empty password",
			email:    "trucker@test.com",
			password: "",
			role:     RoleHauler,
		},
		{
			name:     "role mismatch",
			email:    "farmer@test.com",
			password: SharedPassword,
			role:     RoleHauler,
		},
		{
			name:     "unknown email",
			email:    "nobody@test.com",
			password: SharedPassword,
			role:     RoleProducer,
		},
		{
			name:     "email is case sensitive",
			email:    "Farmer@test.com",
			password: SharedPassword,
			role:     RoleProducer,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)

			got := s.Authenticate(tc.email, tc.password, tc.role)
			assert.Equal(t, tc.want, got)

			session, ok := s.Session()
			assert.Equal(t, tc.want, ok)
			if tc.want {
				assert.Equal(t, tc.wantID, session.ID)
				assert.Equal(t, tc.role, session.Role)
			}
		})
	}
}

func TestStore_AuthenticateFailureKeepsSession(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.Authenticate("farmer@test.com", SharedPassword, RoleProducer))
	assert.False(t, s.Authenticate("trucker@test.com", "nope", RoleHauler))

	session, ok := s.Session()
	require.True(t, ok)
	assert.Equal(t, "farmer1", session.ID)
}

func TestStore_EndSession(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.Authenticate("farmer@test.com", SharedPassword, RoleProducer))

	s.SendMessage(MessageDraft{SenderID: "trucker1", RecipientID: "farmer1", Body: "hello"})
	s.SendMessage(MessageDraft{SenderID: "farmer1", RecipientID: "trucker1", Body: "hi"})
	s.SendMessage(MessageDraft{SenderID: "x", RecipientID: "someone-else", Body: "unrelated"})
	requestsBefore := s.Requests()

	s.EndSession()

	_, ok := s.Session()
	assert.False(t, ok)
	// Every message goes, not only the ones addressed to the account that
	// logged out. Kept as observed; see DESIGN.md open questions.
	assert.Empty(t, s.Messages())
	assert.Equal(t, requestsBefore, s.Requests())
}

func TestStore_EndSessionWithoutSession(t *testing.T) {
	s := newTestStore(t)
	s.SendMessage(MessageDraft{Body: "orphan"})

	s.EndSession()

	_, ok := s.Session()
	assert.False(t, ok)
	assert.Len(t, s.Messages(), 0)
}

func TestStore_SubmitRequest(t *testing.T) {
	t.Run("appends a pending request", func(t *testing.T) {
		s := newTestStore(t)
		before := s.Requests()

		req := s.SubmitRequest(RequestDraft{
			RequesterID:   "farmer1",
			RequesterName: "Rajesh Kumar",
			CargoCategory: "Wheat",
			WeightKg:      2500,
			PickupPoint:   "Ludhiana",
			Destination:   "Delhi",
		})

		after := s.Requests()
		require.Len(t, after, len(before)+1)
		assert.Equal(t, before, after[:len(before)])
		assert.Equal(t, req, after[len(after)-1])

		assert.Equal(t, StatusPending, req.Status)
		assert.Equal(t, fixedTime, req.CreatedAt)
		assert.Empty(t, req.AcceptedBy)
		assert.Empty(t, req.AccepterName)
		for _, prev := range before {
			assert.NotEqual(t, prev.ID, req.ID)
		}
	})

	t.Run("ids are unique across submissions", func(t *testing.T) {
		s := newTestStore(t)
		seen := map[string]bool{}
		for _, r := range s.Requests() {
			seen[r.ID] = true
		}
		for i := 0; i < 20; i++ {
			req := s.SubmitRequest(RequestDraft{RequesterID: "farmer1", WeightKg: float64(i + 1)})
			assert.False(t, seen[req.ID], "duplicate id %s", req.ID)
			seen[req.ID] = true
		}
	})

	t.Run("default generator yields unique ids", func(t *testing.T) {
		s, err := New(DefaultSeed(fixedTime), WithPasswordCost(bcrypt.MinCost))
		require.NoError(t, err)

		a := s.SubmitRequest(RequestDraft{RequesterID: "farmer1"})
		b := s.SubmitRequest(RequestDraft{RequesterID: "farmer1"})
		assert.NotEqual(t, a.ID, b.ID)
		assert.Less(t, a.ID, b.ID)
	})

	t.Run("degenerate draft is stored as given", func(t *testing.T) {
		s := newTestStore(t)

		req := s.SubmitRequest(RequestDraft{WeightKg: -3})

		stored, ok := s.Request(req.ID)
		require.True(t, ok)
		assert.Equal(t, -3.0, stored.WeightKg)
		assert.Empty(t, stored.PickupPoint)
		assert.Empty(t, stored.Destination)
		assert.Equal(t, StatusPending, stored.Status)
	})
}

func TestStore_AcceptRequest(t *testing.T) {
	t.Run("pending request becomes accepted and notifies requester", func(t *testing.T) {
		s := newTestStore(t)

		accepted, ok := s.AcceptRequest("req1", "trucker1", "Vikram Singh", 15, "2 hours")
		require.True(t, ok)

		assert.Equal(t, StatusAccepted, accepted.Status)
		assert.Equal(t, "trucker1", accepted.AcceptedBy)
		assert.Equal(t, "Vikram Singh", accepted.AccepterName)

		stored, _ := s.Request("req1")
		assert.Equal(t, accepted, stored)

		msgs := s.Messages()
		require.Len(t, msgs, 1)
		msg := msgs[0]
		assert.Equal(t, "trucker1", msg.SenderID)
		assert.Equal(t, RoleHauler, msg.SenderRole)
		assert.Equal(t, "farmer1", msg.RecipientID)
		assert.Equal(t, RoleProducer, msg.RecipientRole)
		assert.Equal(t, "req1", msg.RequestID)
		require.NotNil(t, msg.RatePerUnit)
		assert.Equal(t, 15.0, *msg.RatePerUnit)
		assert.Equal(t, "2 hours", msg.EstimatedTime)
		assert.False(t, msg.Read)
		assert.Equal(t,
			"Your transport request for Wheat (2500kg) from Ludhiana, Punjab to Delhi Mandi has been accepted!",
			msg.Body)
	})

	t.Run("unknown id changes nothing", func(t *testing.T) {
		s := newTestStore(t)
		s.SendMessage(MessageDraft{SenderID: "a", RecipientID: "b", Body: "existing"})
		requestsBefore := s.Requests()
		messagesBefore := s.Messages()

		_, ok := s.AcceptRequest("missing", "trucker1", "Vikram Singh", 15, "2 hours")

		assert.False(t, ok)
		assert.Equal(t, requestsBefore, s.Requests())
		assert.Equal(t, messagesBefore, s.Messages())
	})

	t.Run("rate is not validated", func(t *testing.T) {
		s := newTestStore(t)

		_, ok := s.AcceptRequest("req2", "trucker1", "Vikram Singh", -4, "")
		require.True(t, ok)

		msg := s.Messages()[0]
		assert.Equal(t, -4.0, *msg.RatePerUnit)
		assert.Equal(t, "farmer2", msg.RecipientID)
	})

	t.Run("re-accepting overwrites the hauler and sends another message", func(t *testing.T) {
		s := newTestStore(t)

		_, ok := s.AcceptRequest("req1", "trucker1", "Vikram Singh", 15, "2 hours")
		require.True(t, ok)
		second, ok := s.AcceptRequest("req1", "trucker9", "Other Hauler", 12, "3 hours")
		require.True(t, ok)

		assert.Equal(t, StatusAccepted, second.Status)
		assert.Equal(t, "trucker9", second.AcceptedBy)
		assert.Equal(t, "Other Hauler", second.AccepterName)
		assert.Len(t, s.Messages(), 2)
	})

	t.Run("status past accepted never regresses", func(t *testing.T) {
		seed := DefaultSeed(fixedTime)
		seed.Requests = append(seed.Requests, TransportRequest{
			ID:           "req4",
			RequesterID:  "farmer1",
			Status:       StatusInTransit,
			AcceptedBy:   "trucker1",
			AccepterName: "Vikram Singh",
			CreatedAt:    fixedTime,
		})
		s, err := New(seed, WithPasswordCost(bcrypt.MinCost))
		require.NoError(t, err)

		current, ok := s.AcceptRequest("req4", "trucker9", "Other Hauler", 10, "1 hour")

		assert.False(t, ok)
		assert.Equal(t, StatusInTransit, current.Status)
		assert.Equal(t, "trucker1", current.AcceptedBy)
		assert.Empty(t, s.Messages())
	})
}

// No operation moves a request to in_transit or delivered. Those states are
// reachable only through seeding.
func TestStore_LifecycleStatesAreInert(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.Authenticate("farmer@test.com", SharedPassword, RoleProducer))
	req := s.SubmitRequest(RequestDraft{RequesterID: "farmer1", WeightKg: 100})
	_, _ = s.AcceptRequest(req.ID, "trucker1", "Vikram Singh", 10, "1 hour")
	_, _ = s.AcceptRequest("req2", "trucker1", "Vikram Singh", 10, "1 hour")
	for _, m := range s.Messages() {
		s.MarkMessageRead(m.ID)
	}
	s.EndSession()

	for _, r := range s.Requests() {
		assert.NotEqual(t, StatusInTransit, r.Status)
		assert.NotEqual(t, StatusDelivered, r.Status)
	}
}

func TestStore_SendMessage(t *testing.T) {
	s := newTestStore(t)
	rate := 9.5

	msg := s.SendMessage(MessageDraft{
		SenderID:      "farmer1",
		SenderRole:    RoleProducer,
		RecipientID:   "not-an-account",
		RecipientRole: RoleHauler,
		Body:          "call me",
		RatePerUnit:   &rate,
	})

	assert.Equal(t, "id-001", msg.ID)
	assert.Equal(t, fixedTime, msg.CreatedAt)
	assert.False(t, msg.Read)

	rate = 100
	stored, ok := s.Message(msg.ID)
	require.True(t, ok)
	assert.Equal(t, 9.5, *stored.RatePerUnit)

	second := s.SendMessage(MessageDraft{Body: "second"})
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, msg.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)
}

func TestStore_MarkMessageRead(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		s := newTestStore(t)
		msg := s.SendMessage(MessageDraft{RecipientID: "farmer1", Body: "x"})

		assert.True(t, s.MarkMessageRead(msg.ID))
		stored, _ := s.Message(msg.ID)
		assert.True(t, stored.Read)

		assert.True(t, s.MarkMessageRead(msg.ID))
		stored, _ = s.Message(msg.ID)
		assert.True(t, stored.Read)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := newTestStore(t)
		msg := s.SendMessage(MessageDraft{RecipientID: "farmer1", Body: "x"})

		assert.False(t, s.MarkMessageRead("missing"))

		stored, _ := s.Message(msg.ID)
		assert.False(t, stored.Read)
	})
}

func TestStore_ProducerHaulerScenario(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.Authenticate("farmer@test.com", "password", RoleProducer))
	producer, _ := s.Session()
	prior := len(s.Requests())

	req := s.SubmitRequest(RequestDraft{
		RequesterID:   producer.ID,
		RequesterName: producer.Name,
		CargoCategory: "Wheat",
		WeightKg:      2500,
		PickupPoint:   "Ludhiana",
		Destination:   "Delhi",
	})
	require.Len(t, s.Requests(), prior+1)
	assert.Equal(t, StatusPending, req.Status)

	require.True(t, s.Authenticate("trucker@test.com", "password", RoleHauler))
	hauler, _ := s.Session()

	_, ok := s.AcceptRequest(req.ID, hauler.ID, "Vikram Singh", 15, "2 hours")
	require.True(t, ok)

	stored, _ := s.Request(req.ID)
	assert.Equal(t, StatusAccepted, stored.Status)
	assert.Equal(t, hauler.ID, stored.AcceptedBy)

	inbox := s.MessagesFor(producer.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, 15.0, *inbox[0].RatePerUnit)
	assert.Equal(t, "2 hours", inbox[0].EstimatedTime)
	assert.Contains(t, inbox[0].Body, "Wheat (2500kg) from Ludhiana to Delhi")
}

func TestStore_Events(t *testing.T) {
	var (
		mu     sync.Mutex
		events []Event
	)
	s := newTestStore(t, WithListener(ListenerFunc(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})))

	kinds := func() []EventKind {
		mu.Lock()
		defer mu.Unlock()
		out := make([]EventKind, 0, len(events))
		for _, e := range events {
			out = append(out, e.Kind)
		}
		return out
	}

	assert.False(t, s.Authenticate("farmer@test.com", "bad", RoleProducer))
	_, ok := s.AcceptRequest("missing", "trucker1", "Vikram Singh", 1, "")
	assert.False(t, ok)
	assert.False(t, s.MarkMessageRead("missing"))
	assert.Empty(t, kinds())

	require.True(t, s.Authenticate("farmer@test.com", SharedPassword, RoleProducer))
	req := s.SubmitRequest(RequestDraft{RequesterID: "farmer1"})
	_, ok = s.AcceptRequest(req.ID, "trucker1", "Vikram Singh", 1, "1h")
	require.True(t, ok)
	msg := s.Messages()[0]
	s.MarkMessageRead(msg.ID)
	s.MarkMessageRead(msg.ID)
	s.EndSession()

	assert.Equal(t, []EventKind{
		EventSessionStarted,
		EventRequestSubmitted,
		EventRequestAccepted,
		EventMessageSent,
		EventMessageRead,
		EventSessionEnded,
	}, kinds())

	mu.Lock()
	accepted := events[2]
	mu.Unlock()
	assert.Equal(t, req.ID, accepted.EntityID)
	assert.Equal(t, string(StatusPending), accepted.OldStatus)
	assert.Equal(t, string(StatusAccepted), accepted.NewStatus)
}

func TestStore_SubscribeAfterConstruction(t *testing.T) {
	s := newTestStore(t)
	got := make(chan Event, 1)
	s.Subscribe(ListenerFunc(func(e Event) { got <- e }))

	s.SubmitRequest(RequestDraft{RequesterID: "farmer1"})

	select {
	case e := <-got:
		assert.Equal(t, EventRequestSubmitted, e.Kind)
		assert.Equal(t, "farmer1", e.ActorID)
	default:
		t.Fatal("listener was not called")
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := newTestStore(t, WithIDGenerator(newUUIDv7))
	before := len(s.Requests())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := s.SubmitRequest(RequestDraft{RequesterID: "farmer1", WeightKg: 1})
			s.AcceptRequest(req.ID, "trucker1", "Vikram Singh", 1, "1h")
			_ = s.PendingRequests()
		}()
	}
	wg.Wait()

	assert.Len(t, s.Requests(), before+50)
	assert.Len(t, s.Messages(), 50)
}
