// Command codamon watches the realtime event stream of a coda backend.
//
// It connects with the realtime client, shows connection state and a live
// log of events in the terminal, and can serve a JSON status snapshot over
// HTTP. Logs go to a file because the terminal belongs to the UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	realtime "github.com/koscakluka/coda-realtime/core"
	"github.com/koscakluka/coda-realtime/core/events"
)

// shutdownTimeout bounds waiting for queued deliveries and the status server.
const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "codamon:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		endpoint   = flag.String("endpoint", "", "backend websocket URL, overrides config and "+endpointEnv)
		statusAddr = flag.String("status-addr", "", "listen address of the HTTP status endpoint")
		logFile    = flag.String("log-file", "", "file receiving structured logs")
		schema     = flag.String("schema", "", `print the JSON schema of an event kind ("all" for every kind) and exit`)
		plain      = flag.Bool("plain", false, "print events line by line instead of the interactive view")
	)
	flag.Parse()

	if *schema != "" {
		return writeSchemas(os.Stdout, *schema)
	}

	cfg, err := Load(*configPath)
	if err != nil {
		return err
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *statusAddr != "" {
		cfg.StatusAddr = *statusAddr
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := realtime.NewClient(cfg.Endpoint, clientOptions(cfg)...)
	if err != nil {
		return err
	}
	defer shutdownClient(client)

	if cfg.StatusAddr != "" {
		server := newStatusServer(cfg.StatusAddr, client)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("status server stopped", "addr", cfg.StatusAddr, "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()
		slog.Info("serving status", "addr", cfg.StatusAddr)
	}

	if *plain {
		return runPlain(client, os.Stdout)
	}
	return runInteractive(client, cfg)
}

func clientOptions(cfg *Config) []realtime.ClientOption {
	opts := []realtime.ClientOption{realtime.WithHandshakeTimeout(cfg.HandshakeTimeout)}
	if !cfg.Backoff.IsZero() {
		backoff := realtime.BackoffConfig{
			Initial: cfg.Backoff.Initial,
			Max:     cfg.Backoff.Max,
			Factor:  cfg.Backoff.Factor,
			Jitter:  cfg.Backoff.Jitter,
		}
		opts = append(opts, realtime.WithBackoff(backoff))
	}
	for key, value := range cfg.Headers {
		opts = append(opts, realtime.WithHeader(key, value))
	}
	if cfg.Auth.Enabled {
		opts = append(opts, realtime.WithAuthToken(cfg.Auth.Token))
	}
	if cfg.ExpandReplay {
		opts = append(opts, realtime.WithExpandReplay())
	}
	return opts
}

func shutdownClient(client *realtime.Client) {
	client.Close()
	select {
	case <-client.Done():
	case <-time.After(shutdownTimeout):
		slog.Warn("timed out waiting for queued deliveries")
	}
}

func runInteractive(client *realtime.Client, cfg *Config) error {
	program := tea.NewProgram(newModel(client, cfg.Endpoint, cfg.MaxLines), tea.WithAltScreen())

	client.RegisterStatusObserver(func(status events.ConnectionStatus) {
		program.Send(statusMsg(status))
	})
	client.RegisterEventObserver(func(event events.Event) {
		program.Send(eventMsg{event: event})
	})

	client.Connect()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("monitor stopped: %w", err)
	}
	return nil
}

func runPlain(client *realtime.Client, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client.RegisterStatusObserver(func(status events.ConnectionStatus) {
		fmt.Fprintln(out, formatLine(status, 0))
	})
	client.RegisterEventObserver(func(event events.Event) {
		fmt.Fprintln(out, formatLine(event, 0))
	})

	client.Connect()
	<-ctx.Done()
	return nil
}
