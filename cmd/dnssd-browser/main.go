// Command dnssd-browser is a reference client for the DNS-SD bridge.
//
// This command demonstrates a complete bridge setup with:
//   - CLI argument parsing
//   - Configuration file support
//   - Zeroconf discovery backend wiring
//   - Interactive command interface
//   - CBOR trace logging
//
// Usage:
//
//	dnssd-browser [flags]
//
// Flags:
//
//	-config string           Configuration file path
//	-interface string        Network interface to use (default all)
//	-domain string           mDNS domain (default "local")
//	-resolve-timeout duration  Resolve timeout (default 10s)
//	-trace-file string       CBOR trace log file path
//	-log-level string        Log level: debug, info, warn, error (default "info")
//	-browse string           Service type to browse at startup (e.g. "_http._tcp")
//	-interactive             Enable interactive command mode
//
// Examples:
//
//	# Browse for HTTP servers and print what appears
//	dnssd-browser -browse _http._tcp
//
//	# Interactive session on a single interface with a trace file
//	dnssd-browser -interactive -interface eth0 -trace-file /tmp/dnssd.dlog
//
//	# Run from a config file
//	dnssd-browser -config /etc/dnssd-browser.yaml -interactive
//
// Interactive Commands:
//
//	browse <type> [subtype]  - Start browsing a service type
//	stop <session-id>        - Stop a browse session
//	sessions                 - List active browse sessions
//	resolve <instance> <type> - Resolve a service instance
//	publish <type> <port> [instance] - Publish a service
//	remove                   - Remove all published services
//	stats                    - Show TXT record accounting
//	quit                     - Exit
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsdbridge/nsdbridge-go/cmd/dnssd-browser/interactive"
	"github.com/nsdbridge/nsdbridge-go/pkg/discovery"
	"github.com/nsdbridge/nsdbridge-go/pkg/dnssd"
	tracelog "github.com/nsdbridge/nsdbridge-go/pkg/log"
)

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&config.Interface, "interface", "", "Network interface to use (default all)")
	flag.StringVar(&config.Domain, "domain", "", "mDNS domain (default \"local\")")
	flag.DurationVar(&config.ResolveTimeout, "resolve-timeout", 0, "Resolve timeout (default 10s)")
	flag.StringVar(&config.TraceFile, "trace-file", "", "CBOR trace log file path")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.BrowseType, "browse", "", "Service type to browse at startup")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enable interactive command mode")
}

func main() {
	flag.Parse()

	if config.ConfigFile != "" {
		if err := loadConfigFile(config.ConfigFile, &config); err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
	}

	logger := setupLogging(config.LogLevel)

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.Println("DNS-SD Bridge Browser")
	log.Println("=====================")
	if config.Interface != "" {
		log.Printf("Interface: %s", config.Interface)
	}

	// Set up trace logging if requested
	trace := tracelog.Logger(tracelog.NoopLogger{})
	if config.TraceFile != "" {
		fl, err := tracelog.NewFileLogger(config.TraceFile)
		if err != nil {
			log.Fatalf("Failed to open trace file: %v", err)
		}
		defer fl.Close()
		trace = fl
		log.Printf("Trace file: %s", config.TraceFile)
	}

	backend := discovery.NewZeroconfBackend(discovery.Config{
		Interface:      config.Interface,
		Domain:         config.Domain,
		ResolveTimeout: config.ResolveTimeout,
	})
	defer backend.Close()

	bridge := dnssd.New(dnssd.Config{
		Logger: logger,
		Trace:  trace,
	})
	bridge.Bind(backend.Capability())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	browser, err := interactive.New(bridge)
	if err != nil {
		log.Fatalf("Failed to create browser: %v", err)
	}

	if err := bridge.Init(browser.OnReady, browser.OnInitError, nil); err != nil {
		log.Fatalf("Failed to initialize bridge: %v", err)
	}

	if config.BrowseType != "" {
		if err := browser.StartBrowse(config.BrowseType, ""); err != nil {
			log.Fatalf("Failed to start browse: %v", err)
		}
	}

	if config.Interactive {
		// Redirect log output through readline to avoid interfering with input
		log.SetOutput(browser.Stdout())
		go browser.Run(ctx, cancel)
	}

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Context was cancelled (e.g., by interactive quit command)
	}

	log.Println("Shutting down...")
	cancel()

	// Drain remaining browse sessions before the backend goes away.
	for _, id := range bridge.Sessions() {
		if err := bridge.StopBrowse(id); err != nil {
			log.Printf("Error stopping session %d: %v", id, err)
		}
	}
	bridge.Shutdown()

	log.Println("Goodbye!")
}

func setupLogging(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return logger
}
