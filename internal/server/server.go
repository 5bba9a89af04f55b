// Package server orchestrates all agent components: control channel, command
// relay, data channel, status pushes, HTTP health.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/printwatch/printer-agent/internal/config"
	"github.com/printwatch/printer-agent/pkg/backoff"
	"github.com/printwatch/printer-agent/pkg/capability"
	"github.com/printwatch/printer-agent/pkg/commsutil"
	"github.com/printwatch/printer-agent/pkg/datachannel"
	"github.com/printwatch/printer-agent/pkg/dedup"
	"github.com/printwatch/printer-agent/pkg/errstats"
	"github.com/printwatch/printer-agent/pkg/identity"
	"github.com/printwatch/printer-agent/pkg/printer"
	"github.com/printwatch/printer-agent/pkg/relay"
	"github.com/printwatch/printer-agent/pkg/serverapi"
	"github.com/printwatch/printer-agent/pkg/settings"
	"github.com/printwatch/printer-agent/pkg/status"
	"github.com/printwatch/printer-agent/pkg/systags"
	"github.com/printwatch/printer-agent/pkg/version"
	"github.com/printwatch/printer-agent/pkg/webcam"
)

const logPrefix = "server:server"

// Server is the printer-agent orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	ids        *identity.Store
	httpServer *http.Server
}

// commsPassthru publishes result envelopes on the reliable control channel.
type commsPassthru struct {
	nc      *comms.Conn
	subject string
}

func (p *commsPassthru) SendPassthru(ref, ret interface{}) error {
	data, err := commsutil.EncodePayload(&relay.PassthruReply{
		Passthru: relay.ResultEnvelope{Ref: ref, Ret: ret},
	})
	if err != nil {
		return fmt.Errorf("%s - failed to encode passthru reply: %w", logPrefix, err)
	}
	return p.nc.Publish(p.subject, data)
}

// localSettings reports the agent-side view of the print server setup. It
// backs the settings snapshot attached to status pushes.
type localSettings struct {
	cfg *config.Config
}

func (l *localSettings) EffectiveSettings() map[string]interface{} {
	return map[string]interface{}{
		"print_server": map[string]interface{}{
			"url":         l.cfg.PrintServerURL,
			"api_key_set": l.cfg.PrintServerAPIKey != "",
		},
		"data_channel": map[string]interface{}{
			"max_payload": l.cfg.DataChannelMaxPayload,
		},
	}
}

// Run starts the agent, blocks until shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	// Setup structured logging
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info(fmt.Sprintf("%s - Starting %s %s", logPrefix, version.AgentName, version.Agent))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg, ids: identity.NewStore()}

	// Determine control channel subjects
	commandSubject := cfg.CommandSubject
	if commandSubject == "" {
		commandSubject = commsutil.BuildCommandSubject(cfg.AgentID)
	}
	passthruSubject := cfg.PassthruSubject
	if passthruSubject == "" {
		passthruSubject = commsutil.SubjectPassthru
	}
	statusSubject := cfg.StatusSubject
	if statusSubject == "" {
		statusSubject = commsutil.SubjectStatus
	}
	slog.Info(fmt.Sprintf("%s - Command subject: %s", logPrefix, commandSubject))

	// Step 1: Connect to the control channel
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to control channel: %w", logPrefix, err)
	}
	s.nc = nc
	slog.Info(fmt.Sprintf("%s - Connected to control channel at %s", logPrefix, cfg.COMMSURL))

	// Step 2: Resolve the linked printer from the management server.
	// Link failures are tolerated: the agent still relays commands, it only
	// withholds data channel replies until an identity is known.
	if cfg.AuthToken != "" {
		api := serverapi.NewClient(cfg.ServerEndpoint, cfg.AuthToken, errstats.NewTracker())
		go linkPrinter(ctx, api, s.ids)
	} else {
		slog.Warn(fmt.Sprintf("%s - AGENT_AUTH_TOKEN not set, running unlinked", logPrefix))
	}

	// Step 3: Data channel peer
	dc := datachannel.NewConn(cfg.DataChannelHost, cfg.DataChannelPort, cfg.DataChannelMaxPayload)

	// Step 4: Capability registry with the local print server controls
	caps := capability.NewRegistry()
	caps.Register("_printer", printer.Group(printer.NewRESTController(cfg.PrintServerURL, cfg.PrintServerAPIKey)))
	if cfg.WebcamSnapshotURL != "" {
		caps.Register("_webcam", webcam.Group(webcam.NewClient(cfg.WebcamSnapshotURL)))
	}

	// Step 5: Settings snapshot and status pusher
	upd := settings.NewUpdater(&localSettings{cfg: cfg}, cfg.SettingsRefreshInterval)
	pusher := status.NewCommsPusher(nc, statusSubject, func() *status.Document {
		doc := &status.Document{
			Status: map[string]interface{}{
				"agent":   version.AgentName,
				"version": version.Agent,
			},
			SystemTags: systags.Get(),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}
		if p := s.ids.LinkedPrinter(); p != nil {
			doc.PrinterID = p.ID
		}
		if snap := upd.Snapshot(); snap != nil {
			doc.Settings = snap
		}
		return doc
	})
	notifier := status.NewNotifier(pusher.Push, cfg.SettleDelay)

	// Step 6: Relay wiring
	rel := relay.NewRelay(relay.Params{
		Capabilities: caps,
		Ledger:       dedup.NewLedger(cfg.DedupCapacity),
		Identity:     s.ids,
		Passthru:     &commsPassthru{nc: nc, subject: passthruSubject},
		Data:         dc,
		Status:       notifier,
	})

	// Step 7: Subscribe to inbound commands
	commandTimeout := cfg.CommandTimeout
	sub, err := nc.Subscribe(commandSubject, func(msg *comms.Msg) {
		var env relay.CommandEnvelope
		if err := commsutil.DecodePayload(msg.Data, &env); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode command: %v", logPrefix, err))
			return
		}

		cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		if err := rel.HandleCommand(cmdCtx, &env); err != nil {
			if errors.Is(err, relay.ErrPrinterIDMismatch) {
				slog.Warn(fmt.Sprintf("%s - dropped command for other printer: %v", logPrefix, err))
				return
			}
			slog.Error(fmt.Sprintf("%s - command %s.%s failed: %v", logPrefix, env.Target, env.Func, err))
		}
	})
	if err != nil {
		notifier.Close()
		dc.Close()
		nc.Close()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, commandSubject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, commandSubject))

	// Step 8: Start HTTP health server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Agent is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown
	sub.Unsubscribe()
	s.httpServer.Shutdown(ctx)
	notifier.Close()
	dc.Close()
	nc.Drain()

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// linkPrinter asks the management server which printer this agent is linked
// to, with backoff across transient failures. An unlinked agent is normal
// right after install; it keeps running and retries on the next start.
func linkPrinter(ctx context.Context, api *serverapi.Client, ids *identity.Store) {
	bo := backoff.New(30*time.Second, 8)
	for {
		p, err := api.LinkedPrinter(ctx)
		if err == nil {
			if p == nil {
				slog.Info(fmt.Sprintf("%s - agent not linked to a printer yet", logPrefix))
				return
			}
			ids.Set(p)
			slog.Info(fmt.Sprintf("%s - linked to printer %s (%s)", logPrefix, p.ID, p.Name))
			return
		}
		if ctx.Err() != nil {
			return
		}
		slog.Warn(fmt.Sprintf("%s - linked printer lookup failed: %v", logPrefix, err))
		if err := bo.More(err); err != nil {
			slog.Warn(fmt.Sprintf("%s - giving up on printer link: %v", logPrefix, err))
			return
		}
	}
}

// healthOutput is the /health response body.
type healthOutput struct {
	Status    string          `json:"status"`
	Checks    map[string]bool `json:"checks"`
	PrinterID string          `json:"printer_id,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// health reports liveness of the control channel and the linked identity.
func (s *Server) health() *healthOutput {
	connected := s.nc != nil && s.nc.IsConnected()
	out := &healthOutput{
		Status:    "healthy",
		Checks:    map[string]bool{"comms": connected},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if !connected {
		out.Status = "unhealthy"
	}
	if p := s.ids.LinkedPrinter(); p != nil {
		out.PrinterID = p.ID
	}
	return out
}

// handleHealth returns the /health handler. 503 when the control channel is
// down so supervisors restart the agent.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, cancel := context.WithTimeout(r.Context(), s.cfg.HealthCheckTimeout)
		defer cancel()

		h := s.health()
		w.Header().Set("Content-Type", "application/json")
		if h.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(h)
	}
}
