package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func TestStoreListener(t *testing.T) {
	s, err := store.New(store.DefaultSeed(time.Now()), store.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	PendingRequests.Set(0)
	UnreadMessages.Set(7)
	s.Subscribe(StoreListener(s))
	assert.Equal(t, 3.0, testutil.ToFloat64(PendingRequests), "seeded requests count before any mutation")
	assert.Equal(t, 0.0, testutil.ToFloat64(UnreadMessages))

	submitted := testutil.ToFloat64(RequestsSubmittedTotal)
	accepted := testutil.ToFloat64(RequestsAcceptedTotal)
	sent := testutil.ToFloat64(MessagesSentTotal)

	req := s.SubmitRequest(store.RequestDraft{RequesterID: "farmer1", CargoCategory: "Corn", WeightKg: 100})
	assert.Equal(t, submitted+1, testutil.ToFloat64(RequestsSubmittedTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(PendingRequests))

	_, ok := s.AcceptRequest(req.ID, "trucker1", "Vikram Singh", 12, "3 hours")
	require.True(t, ok)
	assert.Equal(t, accepted+1, testutil.ToFloat64(RequestsAcceptedTotal))
	assert.Equal(t, sent+1, testutil.ToFloat64(MessagesSentTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(PendingRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(UnreadMessages))

	s.EndSession()
	assert.Equal(t, 0.0, testutil.ToFloat64(UnreadMessages))
}
