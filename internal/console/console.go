package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

type Store interface {
	Login(email, password string, role store.Role) (store.Account, bool)
	EndSession()
	Session() (store.Account, bool)
	AccountByID(id string) (store.Account, bool)

	SubmitRequest(draft store.RequestDraft) store.TransportRequest
	AcceptRequest(requestID, accepterID, accepterName string, ratePerUnit float64, estimatedTime string) (store.TransportRequest, bool)
	Requests() []store.TransportRequest
	RequestsByRequester(requesterID string) []store.TransportRequest
	RequestsAcceptedBy(haulerID string) []store.TransportRequest
	PendingRequests() []store.TransportRequest
	RecentRequests(requesterID string, n int) []store.TransportRequest

	SendMessage(draft store.MessageDraft) store.Message
	MarkMessageRead(messageID string) bool
	MessagesFor(recipientID string) []store.Message
	UnreadMessagesFor(recipientID string) []store.Message

	ProducerSummary(producerID string) store.ProducerSummary
	HaulerSummary(haulerID string) store.HaulerSummary
}

var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

type Console struct {
	store  Store
	out    io.Writer
	logger *zap.Logger
}

func New(st Store, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		store:  st,
		out:    out,
		logger: logger.With(zap.String("component", "console")),
	}
}

// Run reads commands from in until exit, EOF or ctx cancellation.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.HandleHelp()
	for {
		c.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if c.Execute(line) {
				return nil
			}
		}
	}
}

func (c *Console) prompt() {
	who := "guest"
	if account, ok := c.store.Session(); ok {
		who = account.Name
	}
	fmt.Fprint(c.out, color.Cyan.Sprint(who)+"> ")
}

// Execute runs one command line and reports whether the console should stop.
func (c *Console) Execute(line string) bool {
	args, err := Tokenize(line)
	if err != nil {
		c.fail("Error: %v", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	cmd, args := strings.ToLower(args[0]), args[1:]
	c.logger.Debug("Command received", zap.String("command", cmd), zap.Int("args", len(args)))

	switch cmd {
	case "help":
		c.HandleHelp()
	case "login":
		c.HandleLogin(args)
	case "logout":
		c.HandleLogout()
	case "whoami":
		c.HandleWhoAmI()
	case "submit":
		c.HandleSubmit(args)
	case "requests":
		c.HandleRequests(args)
	case "pending":
		c.HandlePending()
	case "accepted":
		c.HandleAccepted()
	case "accept":
		c.HandleAccept(args)
	case "inbox":
		c.HandleInbox(args)
	case "read":
		c.HandleRead(args)
	case "send":
		c.HandleSend(args)
	case "dashboard":
		c.HandleDashboard()
	case "exit", "quit":
		fmt.Fprintln(c.out, "Bye")
		return true
	default:
		c.fail("Unknown command %q. Type 'help' for the list of commands", cmd)
	}
	return false
}

// Tokenize splits a command line on whitespace. Single or double quotes group
// words, a backslash escapes the next rune.
func Tokenize(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inToken bool
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnbalancedQuotes
	}
	if inToken {
		args = append(args, current.String())
	}
	return args, nil
}

func (c *Console) ok(format string, a ...any) {
	fmt.Fprintln(c.out, color.Green.Sprintf(format, a...))
}

func (c *Console) fail(format string, a ...any) {
	fmt.Fprintln(c.out, color.Red.Sprintf(format, a...))
}

func (c *Console) info(format string, a ...any) {
	fmt.Fprintln(c.out, color.Yellow.Sprintf(format, a...))
}
