package panel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/tracectx"
	"github.com/aalemi-dev/tracewire/wsbinder"
)

// DefaultWorkMillis is the payload of the work command when no duration is
// given.
const DefaultWorkMillis = 800

var (
	// ErrQuit is returned by Execute for the quit command.
	ErrQuit = errors.New("quit")

	// ErrLoggedOut is returned by Execute after logout.
	ErrLoggedOut = errors.New("logged out")
)

// Client is the part of *wsbinder.WSClient the panel drives.
type Client interface {
	Connect(ctx context.Context, token string) error
	Send(ctx context.Context, msgType string, payload interface{}) (tracectx.TraceContext, error)
	Close() error
	Endpoint() string
}

// Session supplies the auth token. It is implemented by *auth.Service.
type Session interface {
	Token() string
	Logout(ctx context.Context)
}

// Panel writes demo events to out. It is safe for concurrent use; messages
// arrive on the client's read goroutine.
type Panel struct {
	client  Client
	session Session

	mu  sync.Mutex
	out io.Writer
}

// New creates a panel writing to out.
func New(out io.Writer, client Client, session Session) *Panel {
	return &Panel{client: client, session: session, out: out}
}

// Handlers returns the connection handlers that print the [connect], [open],
// [message], [close] and [error] lines.
func (p *Panel) Handlers() wsbinder.Handlers {
	return wsbinder.Handlers{
		OnStateChange: func(_, to wsbinder.State) {
			if to == wsbinder.Connecting {
				p.log("[connect]", p.client.Endpoint())
			}
		},
		OnOpen: func() { p.log("[open]") },
		OnMessage: func(data []byte) {
			p.log("[message]", string(data))
		},
		OnClose: func(code int, reason string) {
			p.log("[close]", "code=", strconv.Itoa(code), "reason=", reason)
		},
		OnError: func(error) { p.log("[error]") },
	}
}

// Run reads commands from in, one per line, until EOF, quit or logout.
// Command errors are printed, not returned.
func (p *Panel) Run(ctx context.Context, in io.Reader) error {
	p.log("Type connect, then ping, work or boom. help lists all commands.")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		err := p.Execute(ctx, scanner.Text())
		if errors.Is(err, ErrQuit) || errors.Is(err, ErrLoggedOut) {
			return nil
		}
		if err != nil {
			p.log("[error]", err.Error())
		}
	}
	_ = p.client.Close()
	if err := scanner.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

// Execute runs one command line.
func (p *Panel) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "connect":
		return p.connect(ctx)
	case "disconnect":
		return p.client.Close()
	case "ping":
		return p.send(ctx, "ping", nil)
	case "work":
		ms := DefaultWorkMillis
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("work: invalid duration %q", args[0])
			}
			ms = n
		}
		return p.send(ctx, "work", map[string]int{"ms": ms})
	case "boom":
		return p.send(ctx, "boom", nil)
	case "logout":
		_ = p.client.Close()
		p.session.Logout(ctx)
		p.log("[info] logged out")
		return ErrLoggedOut
	case "help":
		p.log("commands: connect, disconnect, ping, work [ms], boom, logout, quit")
		return nil
	case "quit", "exit":
		_ = p.client.Close()
		return ErrQuit
	default:
		p.log("[warn] unknown command:", cmd)
		return nil
	}
}

// connect reports dial failures through the [error] and [close] handlers, so
// only ErrAlreadyConnected is handled here.
func (p *Panel) connect(ctx context.Context) error {
	err := p.client.Connect(ctx, p.session.Token())
	if errors.Is(err, wsbinder.ErrAlreadyConnected) {
		p.log("[info] already connected/connecting")
	}
	return nil
}

func (p *Panel) send(ctx context.Context, msgType string, payload interface{}) error {
	tc, err := p.client.Send(ctx, msgType, payload)
	switch {
	case errors.Is(err, wsbinder.ErrNotOpen):
		p.log("[warn] ws not open")
		return nil
	case err != nil:
		return err
	case tc.IsValid():
		p.log("[sent]", msgType, "(trace="+carrier.Encode(tc)+")")
	default:
		p.log("[sent]", msgType)
	}
	return nil
}

func (p *Panel) log(parts ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, strings.Join(parts, " ")+"\n")
}
