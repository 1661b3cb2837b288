// Package interactive provides the interactive command-line interface
// for dnssd-browser.
package interactive

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/nsdbridge/nsdbridge-go/pkg/dnssd"
)

// Browser handles interactive mode for dnssd-browser.
type Browser struct {
	bridge *dnssd.Bridge
	rl     *readline.Instance

	// Session bookkeeping for the sessions command. The bridge only hands
	// out identifiers; the query each one browses is remembered here.
	mu       sync.Mutex
	sessions map[dnssd.SessionID]string
}

// New creates a new interactive browser handler.
func New(bridge *dnssd.Bridge) (*Browser, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dnssd> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Browser{
		bridge:   bridge,
		rl:       rl,
		sessions: make(map[dnssd.SessionID]string),
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (b *Browser) Stdout() io.Writer {
	return b.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (b *Browser) Stderr() io.Writer {
	return b.rl.Stderr()
}

// OnReady is the bridge initialization success callback.
func (b *Browser) OnReady(ctx any, err error) {
	fmt.Fprintln(b.rl.Stdout(), "Bridge ready")
}

// OnInitError is the bridge initialization failure callback.
func (b *Browser) OnInitError(ctx any, err error) {
	fmt.Fprintf(b.rl.Stdout(), "Bridge initialization failed: %v\n", err)
}

// Run starts the interactive command loop.
func (b *Browser) Run(ctx context.Context, cancel context.CancelFunc) {
	defer b.rl.Close()

	b.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := b.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(b.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			b.printHelp()

		case "browse", "b":
			b.cmdBrowse(args)

		case "stop":
			b.cmdStop(args)

		case "sessions", "ls":
			b.cmdSessions()

		case "resolve", "r":
			b.cmdResolve(args)

		case "publish", "p":
			b.cmdPublish(args)

		case "remove":
			b.cmdRemove()

		case "stats":
			b.cmdStats()

		case "quit", "exit", "q":
			fmt.Fprintln(b.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(b.rl.Stdout(), "Unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func (b *Browser) printHelp() {
	fmt.Fprint(b.rl.Stdout(), `Commands:
  browse <type> [subtype]            Start browsing (e.g. browse _http._tcp)
  stop <session-id>                  Stop a browse session
  sessions                           List active browse sessions
  resolve <instance> <type>          Resolve a service instance
  publish <type> <port> [instance]   Publish a service (TXT: key=value args)
  remove                             Remove all published services
  stats                              Show TXT record accounting
  quit                               Exit
`)
}

// StartBrowse starts a browse for a dotted service type like "_http._tcp",
// optionally filtered to a subtype.
func (b *Browser) StartBrowse(serviceType, subType string) error {
	base, proto, err := dnssd.SplitProtocol(serviceType)
	if err != nil {
		return err
	}
	if subType != "" {
		base = subType + "._sub." + base
	}

	id, err := b.bridge.Browse(base, proto, dnssd.AddressFamilyAny, "", b.onBrowse, nil)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.sessions[id] = serviceType
	b.mu.Unlock()

	fmt.Fprintf(b.rl.Stdout(), "Browsing %s (session %d)\n", serviceType, id)
	return nil
}

func (b *Browser) cmdBrowse(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(b.rl.Stdout(), "Usage: browse <type> [subtype]")
		return
	}
	subType := ""
	if len(args) > 1 {
		subType = args[1]
	}
	if err := b.StartBrowse(args[0], subType); err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Browse failed: %v\n", err)
	}
}

func (b *Browser) cmdStop(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(b.rl.Stdout(), "Usage: stop <session-id>")
		return
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Invalid session id: %s\n", args[0])
		return
	}
	id := dnssd.SessionID(n)

	if err := b.bridge.StopBrowse(id); err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Stop failed: %v\n", err)
		return
	}

	b.mu.Lock()
	delete(b.sessions, id)
	b.mu.Unlock()
	fmt.Fprintf(b.rl.Stdout(), "Session %d stopped\n", id)
}

func (b *Browser) cmdSessions() {
	ids := b.bridge.Sessions()
	if len(ids) == 0 {
		fmt.Fprintln(b.rl.Stdout(), "No active sessions")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		fmt.Fprintf(b.rl.Stdout(), "  %d  %s\n", id, b.sessions[id])
	}
}

func (b *Browser) cmdResolve(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(b.rl.Stdout(), "Usage: resolve <instance> <type>")
		return
	}
	base, proto, err := dnssd.SplitProtocol(args[1])
	if err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Invalid type: %v\n", err)
		return
	}

	svc := &dnssd.Service{
		Name:     args[0],
		Type:     base,
		Protocol: proto,
	}
	if err := b.bridge.Resolve(svc, "", b.onResolve, nil); err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Resolve failed: %v\n", err)
		return
	}
	fmt.Fprintf(b.rl.Stdout(), "Resolving %s.%s...\n", args[0], args[1])
}

func (b *Browser) cmdPublish(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(b.rl.Stdout(), "Usage: publish <type> <port> [instance] [key=value]...")
		return
	}
	base, proto, err := dnssd.SplitProtocol(args[0])
	if err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Invalid type: %v\n", err)
		return
	}
	port, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Invalid port: %s\n", args[1])
		return
	}

	name := ""
	var text []dnssd.TextEntry
	for _, arg := range args[2:] {
		if key, value, ok := strings.Cut(arg, "="); ok {
			text = append(text, dnssd.TextEntry{Key: key, Value: []byte(value)})
		} else if name == "" {
			name = arg
		} else {
			text = append(text, dnssd.TextEntry{Key: arg})
		}
	}
	if name == "" {
		name = "dnssd-browser-" + uuid.NewString()[:8]
	}

	svc := &dnssd.Service{
		Name:     name,
		Type:     base,
		Protocol: proto,
		Port:     uint16(port),
		Text:     text,
	}
	if err := b.bridge.PublishService(svc, nil, nil); err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Publish failed: %v\n", err)
		return
	}
	if err := b.bridge.FinalizeServiceUpdate(); err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Finalize failed: %v\n", err)
		return
	}
	fmt.Fprintf(b.rl.Stdout(), "Published %s.%s on port %d\n", name, args[0], port)
}

func (b *Browser) cmdRemove() {
	if err := b.bridge.RemoveServices(); err != nil {
		fmt.Fprintf(b.rl.Stdout(), "Remove failed: %v\n", err)
		return
	}
	fmt.Fprintln(b.rl.Stdout(), "All published services removed")
}

func (b *Browser) cmdStats() {
	stats := b.bridge.TextAllocStats()
	fmt.Fprintf(b.rl.Stdout(), "TXT buffers: allocated %d, released %d\n",
		stats.Allocated, stats.Released)
}

// onBrowse runs with the bridge lock held; it only prints.
func (b *Browser) onBrowse(ctx any, services []dnssd.Service, finalBatch bool, err error) {
	if err != nil {
		fmt.Fprintf(b.rl.Stdout(), "[BROWSE] error: %v\n", err)
		return
	}
	for _, svc := range services {
		fmt.Fprintf(b.rl.Stdout(), "[BROWSE] found %s (%s.%s)\n",
			svc.Name, svc.Type, svc.Protocol)
	}
}

// onResolve runs with the bridge lock held; it only prints.
func (b *Browser) onResolve(ctx any, service *dnssd.Service, addrs []netip.Addr, err error) {
	if err != nil {
		fmt.Fprintf(b.rl.Stdout(), "[RESOLVE] error: %v\n", err)
		return
	}

	fmt.Fprintf(b.rl.Stdout(), "[RESOLVE] %s -> %s port %d\n",
		service.Name, service.HostName, service.Port)
	for _, addr := range addrs {
		fmt.Fprintf(b.rl.Stdout(), "    address: %s\n", addr)
	}
	for _, entry := range service.Text {
		if entry.Value != nil {
			fmt.Fprintf(b.rl.Stdout(), "    txt: %s=%s\n", entry.Key, entry.Value)
		} else {
			fmt.Fprintf(b.rl.Stdout(), "    txt: %s\n", entry.Key)
		}
	}
}
