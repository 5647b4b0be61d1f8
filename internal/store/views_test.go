package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RequestViews(t *testing.T) {
	s := newTestStore(t)
	mine := s.SubmitRequest(RequestDraft{RequesterID: "farmer1", CargoCategory: "Rice"})
	_, ok := s.AcceptRequest("req2", "trucker1", "Vikram Singh", 10, "1 hour")
	require.True(t, ok)

	t.Run("by requester", func(t *testing.T) {
		got := s.RequestsByRequester("farmer1")
		require.Len(t, got, 2)
		assert.Equal(t, "req1", got[0].ID)
		assert.Equal(t, mine.ID, got[1].ID)
	})

	t.Run("pending", func(t *testing.T) {
		got := s.PendingRequests()
		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"req1", "req3", mine.ID}, ids)
	})

	t.Run("accepted by hauler", func(t *testing.T) {
		got := s.RequestsAcceptedBy("trucker1")
		require.Len(t, got, 1)
		assert.Equal(t, "req2", got[0].ID)
		assert.Empty(t, s.RequestsAcceptedBy("trucker2"))
	})

	t.Run("unknown request", func(t *testing.T) {
		_, ok := s.Request("nope")
		assert.False(t, ok)
	})

	t.Run("empty views are non-nil", func(t *testing.T) {
		assert.NotNil(t, s.RequestsByRequester("nobody"))
		assert.NotNil(t, s.MessagesFor("nobody"))
	})
}

func TestStore_RecentRequests(t *testing.T) {
	now := fixedTime
	s := newTestStore(t, WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))
	a := s.SubmitRequest(RequestDraft{RequesterID: "farmer1"})
	b := s.SubmitRequest(RequestDraft{RequesterID: "farmer1"})

	got := s.RecentRequests("farmer1", 3)
	require.Len(t, got, 3)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.Equal(t, "req1", got[2].ID)

	assert.Len(t, s.RecentRequests("farmer1", 1), 1)
	assert.Len(t, s.RecentRequests("farmer1", 0), 3)
}

func TestStore_ViewsReturnCopies(t *testing.T) {
	s := newTestStore(t)
	_, ok := s.AcceptRequest("req1", "trucker1", "Vikram Singh", 15, "2 hours")
	require.True(t, ok)

	reqs := s.Requests()
	reqs[0].Status = StatusDelivered
	stored, _ := s.Request("req1")
	assert.Equal(t, StatusAccepted, stored.Status)

	msgs := s.Messages()
	*msgs[0].RatePerUnit = 99
	msgs[0].Read = true
	again := s.Messages()
	assert.Equal(t, 15.0, *again[0].RatePerUnit)
	assert.False(t, again[0].Read)

	accounts := s.Accounts()
	accounts[0].Name = "changed"
	acc, _ := s.AccountByID("farmer1")
	assert.Equal(t, "Rajesh Kumar", acc.Name)
}

func TestStore_Summaries(t *testing.T) {
	seed := DefaultSeed(fixedTime)
	seed.Requests = append(seed.Requests, TransportRequest{
		ID:           "req9",
		RequesterID:  "farmer1",
		Status:       StatusDelivered,
		AcceptedBy:   "trucker1",
		AccepterName: "Vikram Singh",
		CreatedAt:    fixedTime,
	})
	s, err := New(seed, WithPasswordCost(4))
	require.NoError(t, err)

	s.SubmitRequest(RequestDraft{RequesterID: "farmer1"})
	_, ok := s.AcceptRequest("req3", "trucker1", "Vikram Singh", 10, "1 hour")
	require.True(t, ok)
	s.SendMessage(MessageDraft{RecipientID: "farmer1", Body: "note"})
	read := s.SendMessage(MessageDraft{RecipientID: "farmer1", Body: "seen"})
	s.MarkMessageRead(read.ID)

	assert.Equal(t, ProducerSummary{
		TotalRequests:     3,
		PendingRequests:   2,
		DeliveredRequests: 1,
		Messages:          2,
		UnreadMessages:    1,
	}, s.ProducerSummary("farmer1"))

	assert.Equal(t, HaulerSummary{
		AvailableRequests: 3,
		AcceptedTrips:     2,
	}, s.HaulerSummary("trucker1"))

	pending, unread := s.Counts()
	assert.Equal(t, 3, pending)
	assert.Equal(t, 2, unread)
}

func TestStore_UnreadMessagesFor(t *testing.T) {
	s := newTestStore(t)
	first := s.SendMessage(MessageDraft{RecipientID: "farmer1", Body: "1"})
	s.SendMessage(MessageDraft{RecipientID: "farmer1", Body: "2"})
	s.SendMessage(MessageDraft{RecipientID: "trucker1", Body: "3"})
	s.MarkMessageRead(first.ID)

	unread := s.UnreadMessagesFor("farmer1")
	require.Len(t, unread, 1)
	assert.Equal(t, "2", unread[0].Body)
	assert.Len(t, s.MessagesFor("farmer1"), 2)
}
