package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

const recentOnDashboard = 3

func (c *Console) HandleHelp() {
	fmt.Fprintln(c.out, `Available commands:
	login <email> <password> <producer|hauler> - Start a session
	logout - End the session and clear the inbox
	whoami - Show the signed-in account
	submit <category> <weightKg> "<pickup>" "<destination>" - Request transport (producer)
	requests [--mine] [--status S] [--recent N] - List transport requests
	pending - List requests waiting for a hauler
	accepted - List trips you accepted (hauler)
	accept <requestID> <ratePerUnit> <estimated time...> - Accept a request (hauler)
	inbox [--unread] - List your messages
	read <messageID> - Mark a message as read
	send <recipientID> [--request ID] <text...> - Send a message
	dashboard - Show your dashboard
	exit - Exit program`)
}

func (c *Console) HandleLogin(args []string) {
	if len(args) != 3 {
		c.fail("Usage: login <email> <password> <producer|hauler>")
		return
	}

	role, err := store.ParseRole(args[2])
	if err != nil {
		c.fail("Error: role must be producer or hauler")
		return
	}

	account, ok := c.store.Login(args[0], args[1], role)
	if !ok {
		c.fail("Invalid credentials")
		return
	}
	c.ok("Welcome, %s (%s)", account.Name, account.Role)
}

func (c *Console) HandleLogout() {
	if _, ok := c.store.Session(); !ok {
		c.info("No active session")
		return
	}
	c.store.EndSession()
	c.ok("Logged out")
}

func (c *Console) HandleWhoAmI() {
	account, ok := c.store.Session()
	if !ok {
		c.info("Not logged in")
		return
	}
	fmt.Fprintf(c.out, "%s <%s> %s\n", account.Name, account.Email, account.Role)
	if account.Location != "" {
		fmt.Fprintf(c.out, "Location: %s\n", account.Location)
	}
	if account.Phone != "" {
		fmt.Fprintf(c.out, "Phone: %s\n", account.Phone)
	}
}

// session returns the signed-in account, printing a hint when there is none
// or when it does not hold role. An empty role accepts any account.
func (c *Console) session(role store.Role) (store.Account, bool) {
	account, ok := c.store.Session()
	if !ok {
		c.fail("Please login first")
		return store.Account{}, false
	}
	if role != "" && account.Role != role {
		c.fail("Only %s accounts can do this", role)
		return store.Account{}, false
	}
	return account, true
}

func (c *Console) HandleSubmit(args []string) {
	account, ok := c.session(store.RoleProducer)
	if !ok {
		return
	}
	if len(args) != 4 {
		c.fail(`Usage: submit <category> <weightKg> "<pickup>" "<destination>"`)
		return
	}

	category, found := lo.Find(store.CargoCategories, func(cat string) bool {
		return strings.EqualFold(cat, args[0])
	})
	if !found {
		c.fail("Error: category must be one of: %s", strings.Join(store.CargoCategories, ", "))
		return
	}

	weight, err := strconv.ParseFloat(args[1], 64)
	if err != nil || weight <= 0 {
		c.fail("Error: weight must be a positive number")
		return
	}

	pickup, destination := strings.TrimSpace(args[2]), strings.TrimSpace(args[3])
	if pickup == "" || destination == "" {
		c.fail("Error: pickup point and destination are required")
		return
	}

	req := c.store.SubmitRequest(store.RequestDraft{
		RequesterID:   account.ID,
		RequesterName: account.Name,
		CargoCategory: category,
		WeightKg:      weight,
		PickupPoint:   pickup,
		Destination:   destination,
	})
	c.ok("Request %s submitted", req.ID)
}

func (c *Console) HandleRequests(args []string) {
	account, ok := c.session("")
	if !ok {
		return
	}

	var (
		mine   bool
		status store.RequestStatus
		recent int
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--mine":
			mine = true
		case "--status":
			if i+1 >= len(args) {
				c.fail("Missing value for --status")
				return
			}
			parsed, err := store.ParseStatus(args[i+1])
			if err != nil {
				c.fail("Invalid value for --status")
				return
			}
			status = parsed
			i++
		case "--recent":
			if i+1 >= len(args) {
				c.fail("Missing value for --recent")
				return
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n <= 0 {
				c.fail("Invalid value for --recent")
				return
			}
			recent = n
			i++
		default:
			c.fail("Unknown flag %q", args[i])
			return
		}
	}

	var requests []store.TransportRequest
	switch {
	case recent > 0:
		requests = c.store.RecentRequests(account.ID, recent)
	case mine:
		requests = c.store.RequestsByRequester(account.ID)
	default:
		requests = c.store.Requests()
	}
	if status != "" {
		requests = lo.Filter(requests, func(r store.TransportRequest, _ int) bool {
			return r.Status == status
		})
	}

	c.printRequests(requests)
}

func (c *Console) HandlePending() {
	if _, ok := c.session(""); !ok {
		return
	}
	c.printRequests(c.store.PendingRequests())
}

func (c *Console) HandleAccepted() {
	account, ok := c.session(store.RoleHauler)
	if !ok {
		return
	}
	c.printRequests(c.store.RequestsAcceptedBy(account.ID))
}

func (c *Console) HandleAccept(args []string) {
	account, ok := c.session(store.RoleHauler)
	if !ok {
		return
	}
	if len(args) < 3 {
		c.fail("Usage: accept <requestID> <ratePerUnit> <estimated time...>")
		return
	}

	rate, err := strconv.ParseFloat(args[1], 64)
	if err != nil || rate <= 0 {
		c.fail("Error: rate must be a positive number")
		return
	}
	estimate := strings.Join(args[2:], " ")

	req, accepted := c.store.AcceptRequest(args[0], account.ID, account.Name, rate, estimate)
	if !accepted {
		if req.ID == "" {
			c.fail("Error: request %s not found", args[0])
			return
		}
		c.fail("Error: request %s is already %s", req.ID, req.Status)
		return
	}
	c.ok("Request %s accepted, %s has been notified", req.ID, req.RequesterName)
}

func (c *Console) HandleInbox(args []string) {
	account, ok := c.session("")
	if !ok {
		return
	}

	unreadOnly := lo.Contains(args, "--unread")
	messages := c.store.MessagesFor(account.ID)
	if unreadOnly {
		messages = c.store.UnreadMessagesFor(account.ID)
	}
	c.printMessages(messages)
}

func (c *Console) HandleRead(args []string) {
	if _, ok := c.session(""); !ok {
		return
	}
	if len(args) != 1 {
		c.fail("Usage: read <messageID>")
		return
	}
	if !c.store.MarkMessageRead(args[0]) {
		c.fail("Error: message %s not found", args[0])
		return
	}
	c.ok("Message %s marked as read", args[0])
}

func (c *Console) HandleSend(args []string) {
	account, ok := c.session("")
	if !ok {
		return
	}
	if len(args) < 2 {
		c.fail("Usage: send <recipientID> [--request ID] <text...>")
		return
	}

	recipientID, rest := args[0], args[1:]
	var requestID string
	if rest[0] == "--request" {
		if len(rest) < 3 {
			c.fail("Usage: send <recipientID> [--request ID] <text...>")
			return
		}
		requestID, rest = rest[1], rest[2:]
	}

	body := strings.TrimSpace(strings.Join(rest, " "))
	if body == "" {
		c.fail("Error: message text is required")
		return
	}

	var recipientRole store.Role
	if recipient, found := c.store.AccountByID(recipientID); found {
		recipientRole = recipient.Role
	}

	msg := c.store.SendMessage(store.MessageDraft{
		SenderID:      account.ID,
		SenderRole:    account.Role,
		RecipientID:   recipientID,
		RecipientRole: recipientRole,
		Body:          body,
		RequestID:     requestID,
	})
	c.ok("Message %s sent", msg.ID)
}

func (c *Console) HandleDashboard() {
	account, ok := c.session("")
	if !ok {
		return
	}

	switch account.Role {
	case store.RoleProducer:
		summary := c.store.ProducerSummary(account.ID)
		c.printSummary([][2]string{
			{"Total requests", strconv.Itoa(summary.TotalRequests)},
			{"Pending", strconv.Itoa(summary.PendingRequests)},
			{"Delivered", strconv.Itoa(summary.DeliveredRequests)},
			{"Messages", strconv.Itoa(summary.Messages)},
			{"Unread", strconv.Itoa(summary.UnreadMessages)},
		})
		fmt.Fprintln(c.out, "Recent requests:")
		c.printRequests(c.store.RecentRequests(account.ID, recentOnDashboard))
	case store.RoleHauler:
		summary := c.store.HaulerSummary(account.ID)
		c.printSummary([][2]string{
			{"Available requests", strconv.Itoa(summary.AvailableRequests)},
			{"Accepted trips", strconv.Itoa(summary.AcceptedTrips)},
		})
		fmt.Fprintln(c.out, "Available requests:")
		c.printRequests(c.store.PendingRequests())
	}

	if unread := c.store.UnreadMessagesFor(account.ID); len(unread) > 0 {
		fmt.Fprintln(c.out, "Unread messages:")
		c.printMessages(unread)
	}
}
