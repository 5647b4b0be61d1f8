package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

type collectedAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (c *collectedAudit) LogEntry(_ context.Context, e audit.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return rr
}

func (c *apiClient) login(email, role string) {
	c.t.Helper()
	rr := c.do(http.MethodPost, "/session", `{"email":"`+email+`","password":"password","role":"`+role+`"}`)
	require.Equal(c.t, http.StatusOK, rr.Code, rr.Body.String())

	var resp sessionResponse
	require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &resp))
	c.token = resp.Token
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestRoutes_ProducerHaulerFlow(t *testing.T) {
	st, err := store.New(store.DefaultSeed(time.Now()), store.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	log := &collectedAudit{}
	handler := New(st, auth.NewIssuer("test-secret", time.Hour), log, nil, zap.NewNop()).Routes()

	producer := &apiClient{t: t, handler: handler}
	hauler := &apiClient{t: t, handler: handler}

	producer.login("farmer@test.com", "farmer")

	rr := producer.do(http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "farmer1", decode[store.Account](t, rr).ID)

	rr = producer.do(http.MethodPost, "/requests", `{"cargo_category":"Rice","weight_kg":500,"pickup_point":"   ","destination":"\t"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, st.Requests(), 3, "blank route is not stored")

	rr = producer.do(http.MethodPost, "/requests",
		`{"cargo_category":"Corn","weight_kg":1200.5,"pickup_point":"Amritsar","destination":"Jalandhar"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	submitted := decode[store.TransportRequest](t, rr)
	assert.Equal(t, "Rajesh Kumar", submitted.RequesterName)
	assert.Equal(t, store.StatusPending, submitted.Status)

	rr = producer.do(http.MethodPost, "/requests/"+submitted.ID+"/accept", `{"rate_per_unit":10,"estimated_time":"1 day"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	hauler.login("trucker@test.com", "hauler")

	rr = producer.do(http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "another account holds the session")

	rr = hauler.do(http.MethodPost, "/requests", `{"cargo_category":"Corn","weight_kg":1,"pickup_point":"A","destination":"B"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = hauler.do(http.MethodGet, "/requests?status=pending", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]store.TransportRequest](t, rr), 4)

	rr = hauler.do(http.MethodPost, "/requests/"+submitted.ID+"/accept", `{"rate_per_unit":18,"estimated_time":"6 hours"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	accepted := decode[store.TransportRequest](t, rr)
	assert.Equal(t, store.StatusAccepted, accepted.Status)
	assert.Equal(t, "trucker1", accepted.AcceptedBy)

	rr = hauler.do(http.MethodPost, "/requests/nope/accept", `{"rate_per_unit":18,"estimated_time":"6 hours"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = hauler.do(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	hd := decode[haulerDashboard](t, rr)
	assert.Equal(t, store.HaulerSummary{AvailableRequests: 3, AcceptedTrips: 1}, hd.Summary)

	rr = producer.do(http.MethodGet, "/messages?unread=true", "")
	require.Equal(t, http.StatusOK, rr.Code)
	inbox := decode[[]store.Message](t, rr)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Your transport request for Corn (1200.5kg) from Amritsar to Jalandhar has been accepted!", inbox[0].Body)
	require.NotNil(t, inbox[0].RatePerUnit)
	assert.Equal(t, 18.0, *inbox[0].RatePerUnit)

	rr = producer.do(http.MethodPost, "/messages/"+inbox[0].ID+"/read", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = producer.do(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	pd := decode[producerDashboard](t, rr)
	assert.Equal(t, 2, pd.Summary.TotalRequests)
	assert.Equal(t, 1, pd.Summary.PendingRequests)
	assert.Equal(t, 0, pd.Summary.UnreadMessages)
	require.Len(t, pd.RecentRequests, 2)
	assert.Equal(t, submitted.ID, pd.RecentRequests[0].ID)

	rr = producer.do(http.MethodPost, "/messages", `{"recipient_id":"trucker1","body":"Thanks!","request_id":"`+submitted.ID+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	sent := decode[store.Message](t, rr)
	assert.Equal(t, store.RoleProducer, sent.SenderRole)
	assert.Equal(t, store.RoleHauler, sent.RecipientRole)

	rr = hauler.do(http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "trucker1", decode[store.Account](t, rr).ID)

	rr = hauler.do(http.MethodDelete, "/session", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, st.Messages())

	rr = hauler.do(http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "token revoked by logout")

	rr = producer.do(http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	log.mu.Lock()
	defer log.mu.Unlock()
	require.NotEmpty(t, log.entries)
	for _, e := range log.entries {
		assert.Equal(t, audit.SourceHTTP, e.Source)
		if e.Handler == "handleCreateSession" {
			assert.Empty(t, e.Request)
		}
	}
}

func TestRoutes_Public(t *testing.T) {
	st, err := store.New(store.DefaultSeed(time.Now()), store.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	handler := New(st, auth.NewIssuer("test-secret", time.Hour), &collectedAudit{}, nil, zap.NewNop()).Routes()
	c := &apiClient{t: t, handler: handler}

	rr := c.do(http.MethodGet, "/cargo-categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, store.CargoCategories, decode[[]string](t, rr))

	rr = c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = c.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = c.do(http.MethodPost, "/session", `{"email":"farmer@test.com","password":"password","role":"hauler"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
