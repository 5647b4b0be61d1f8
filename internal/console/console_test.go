package console

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

func TestMain(m *testing.M) {
	color.Disable()
	os.Exit(m.Run())
}

func newTestConsole(t *testing.T) (*Console, *store.Store, *bytes.Buffer) {
	t.Helper()
	st, err := store.New(store.DefaultSeed(time.Now()), store.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return New(st, out, zap.NewNop()), st, out
}

// run executes line and returns only the output it produced.
func run(c *Console, out *bytes.Buffer, line string) string {
	out.Reset()
	c.Execute(line)
	return out.String()
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr error
	}{
		{name: "empty", line: "   ", want: nil},
		{name: "plain words", line: "login farmer@test.com password farmer", want: []string{"login", "farmer@test.com", "password", "farmer"}},
		{name: "double quotes", line: `submit Wheat 100 "Ludhiana, Punjab" "Delhi Mandi"`, want: []string{"submit", "Wheat", "100", "Ludhiana, Punjab", "Delhi Mandi"}},
		{name: "single quotes", line: `send trucker1 'hi there'`, want: []string{"send", "trucker1", "hi there"}},
		{name: "empty quoted arg", line: `x "" y`, want: []string{"x", "", "y"}},
		{name: "escaped quote", line: `send a say\"hi\"`, want: []string{"send", "a", `say"hi"`}},
		{name: "tabs", line: "pending\t\t", want: []string{"pending"}},
		{name: "unterminated", line: `submit "Ludhiana`, wantErr: ErrUnbalancedQuotes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsole_RequiresSession(t *testing.T) {
	c, _, out := newTestConsole(t)

	for _, line := range []string{"submit Wheat 1 a b", "pending", "inbox", "dashboard", "accept req1 10 1h", "read m1", "send a b"} {
		assert.Contains(t, run(c, out, line), "Please login first", line)
	}
	assert.Contains(t, run(c, out, "whoami"), "Not logged in")
	assert.Contains(t, run(c, out, "logout"), "No active session")
}

func TestConsole_Login(t *testing.T) {
	c, st, out := newTestConsole(t)

	assert.Contains(t, run(c, out, "login farmer@test.com wrong farmer"), "Invalid credentials")
	assert.Contains(t, run(c, out, "login farmer@test.com password admin"), "role must be producer or hauler")
	assert.Contains(t, run(c, out, "login farmer@test.com"), "Usage: login")

	assert.Contains(t, run(c, out, "login farmer@test.com password farmer"), "Welcome, Rajesh Kumar (producer)")
	account, ok := st.Session()
	require.True(t, ok)
	assert.Equal(t, "farmer1", account.ID)

	whoami := run(c, out, "whoami")
	assert.Contains(t, whoami, "Rajesh Kumar <farmer@test.com> producer")
	assert.Contains(t, whoami, "Ludhiana, Punjab")
}

func TestConsole_ProducerHaulerFlow(t *testing.T) {
	c, st, out := newTestConsole(t)

	run(c, out, "login farmer@test.com password producer")
	assert.Contains(t, run(c, out, "accept req1 10 1 day"), "Only hauler accounts can do this")
	assert.Contains(t, run(c, out, "submit gold 10 a b"), "category must be one of")
	assert.Contains(t, run(c, out, "submit Corn -1 a b"), "weight must be a positive number")
	assert.Contains(t, run(c, out, `submit Corn 10 "  " b`), "pickup point and destination are required")

	assert.Contains(t, run(c, out, `submit corn 1200.5 "Amritsar, Punjab" Jalandhar`), "submitted")
	mine := st.RequestsByRequester("farmer1")
	require.Len(t, mine, 2)
	submitted := mine[len(mine)-1]
	assert.Equal(t, "Corn", submitted.CargoCategory)
	assert.Equal(t, "Amritsar, Punjab", submitted.PickupPoint)

	listing := run(c, out, "requests --mine")
	assert.Contains(t, listing, submitted.ID)
	assert.Contains(t, listing, "req1")
	assert.NotContains(t, listing, "req2")

	assert.Contains(t, run(c, out, "requests --status lost"), "Invalid value for --status")

	run(c, out, "login trucker@test.com password hauler")
	assert.Contains(t, run(c, out, "submit Corn 1 a b"), "Only producer accounts can do this")
	assert.Contains(t, run(c, out, "accept nope 10 6 hours"), "request nope not found")
	assert.Contains(t, run(c, out, "accept "+submitted.ID+" 0 6 hours"), "rate must be a positive number")

	assert.Contains(t, run(c, out, "accept "+submitted.ID+" 18 6 hours"), "Rajesh Kumar has been notified")
	accepted, ok := st.Request(submitted.ID)
	require.True(t, ok)
	assert.Equal(t, store.StatusAccepted, accepted.Status)
	assert.Equal(t, "trucker1", accepted.AcceptedBy)

	assert.Contains(t, run(c, out, "accepted"), submitted.ID)
	assert.NotContains(t, run(c, out, "pending"), submitted.ID)

	unread := st.UnreadMessagesFor("farmer1")
	require.Len(t, unread, 1)
	assert.Equal(t, "6 hours", unread[0].EstimatedTime)

	assert.Contains(t, run(c, out, "send farmer1 --request "+submitted.ID+" Loading at 6am"), "sent")
	farmerInbox := st.MessagesFor("farmer1")
	require.Len(t, farmerInbox, 2)
	assert.Equal(t, "Loading at 6am", farmerInbox[1].Body)
	assert.Equal(t, submitted.ID, farmerInbox[1].RequestID)
	assert.Equal(t, store.RoleProducer, farmerInbox[1].RecipientRole)

	run(c, out, "login farmer@test.com password producer")
	inbox := run(c, out, "inbox --unread")
	assert.Contains(t, inbox, unread[0].ID)
	assert.Contains(t, inbox, "18/unit, 6 hours")

	assert.Contains(t, run(c, out, "read "+unread[0].ID), "marked as read")
	assert.Contains(t, run(c, out, "read missing"), "message missing not found")
	assert.Len(t, st.UnreadMessagesFor("farmer1"), 1)

	dashboard := run(c, out, "dashboard")
	assert.Contains(t, dashboard, "Total requests")
	assert.Contains(t, dashboard, submitted.ID)
	assert.Contains(t, dashboard, "Unread messages:")

	assert.Contains(t, run(c, out, "logout"), "Logged out")
	_, ok = st.Session()
	assert.False(t, ok)
	assert.Empty(t, st.Messages())
}

func TestConsole_UnknownCommand(t *testing.T) {
	c, _, out := newTestConsole(t)
	assert.Contains(t, run(c, out, "fly"), `Unknown command "fly"`)
	assert.Contains(t, run(c, out, `login "x`), "unbalanced quotes")
	assert.Empty(t, run(c, out, ""))
}

func TestConsole_Run(t *testing.T) {
	c, st, out := newTestConsole(t)

	in := strings.NewReader("login trucker@test.com password trucker\npending\nexit\nwhoami\n")
	require.NoError(t, c.Run(context.Background(), in))

	output := out.String()
	assert.Contains(t, output, "Available commands:")
	assert.Contains(t, output, "Welcome, Vikram Singh (hauler)")
	assert.Contains(t, output, "Vikram Singh> ")
	assert.Contains(t, output, "req1")
	assert.Contains(t, output, "Bye")
	assert.NotContains(t, output, "<trucker@test.com>")

	_, ok := st.Session()
	assert.True(t, ok)
}

func TestConsole_RunStopsAtEOF(t *testing.T) {
	c, _, out := newTestConsole(t)
	require.NoError(t, c.Run(context.Background(), strings.NewReader("help\n")))
	assert.NotContains(t, out.String(), "Bye")
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", relative(now, now.Add(-20*time.Second)))
	assert.Equal(t, "15m ago", relative(now, now.Add(-15*time.Minute)))
	assert.Equal(t, "2h ago", relative(now, now.Add(-2*time.Hour)))
	assert.Equal(t, now.Add(-72*time.Hour).Local().Format("2006-01-02"), relative(now, now.Add(-72*time.Hour)))
}
