package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/printwatch/printer-agent/pkg/capability"
	"github.com/printwatch/printer-agent/pkg/dedup"
	"github.com/printwatch/printer-agent/pkg/identity"
	"github.com/printwatch/printer-agent/pkg/wire"
)

const logPrefix = "relay:relay"

// ErrPrinterIDMismatch is returned when an envelope names a printer other than
// the one this agent is linked to. The envelope is dropped; other in-flight
// envelopes are unaffected.
var ErrPrinterIDMismatch = errors.New("printer_id mismatch")

// IdentityProvider reports the currently linked printer, or nil when the agent
// has not linked yet.
type IdentityProvider interface {
	LinkedPrinter() *identity.Printer
}

// PassthruSender delivers a result envelope over the reliable control channel.
type PassthruSender interface {
	SendPassthru(ref, ret interface{}) error
}

// DataSender delivers a compressed payload over the best-effort data channel.
// Satisfied by *datachannel.Conn.
type DataSender interface {
	Send(payload []byte)
}

// StatusNotifier schedules an asynchronous status push to the server.
type StatusNotifier interface {
	ScheduleStatusPush()
}

// Relay is the per-agent command dispatcher. It holds no state across
// envelopes beyond the dedup ledger.
type Relay struct {
	caps     *capability.Registry
	ledger   *dedup.Ledger
	identity IdentityProvider
	passthru PassthruSender
	data     DataSender
	status   StatusNotifier
}

// Params holds the collaborators for NewRelay.
type Params struct {
	Capabilities *capability.Registry
	Ledger       *dedup.Ledger
	Identity     IdentityProvider
	Passthru     PassthruSender
	Data         DataSender
	Status       StatusNotifier
}

// NewRelay creates a Relay. A nil Ledger gets a default-capacity one.
func NewRelay(p Params) *Relay {
	ledger := p.Ledger
	if ledger == nil {
		ledger = dedup.NewLedger(0)
	}
	return &Relay{
		caps:     p.Capabilities,
		ledger:   ledger,
		identity: p.Identity,
		passthru: p.Passthru,
		data:     p.Data,
		status:   p.Status,
	}
}

// HandleCommand runs one inbound envelope through the dispatch state machine:
// identity check, target/func resolution, dedup, invocation, reply on both
// channels, then a scheduled status push. Unknown targets and operations are
// dropped silently so the agent tolerates protocol skew against newer or
// older server versions. Operation errors are returned to the caller, which
// is expected to log and keep processing subsequent envelopes.
func (r *Relay) HandleCommand(ctx context.Context, env *CommandEnvelope) error {
	linked := r.identity.LinkedPrinter()

	if env.PrinterID != "" {
		if linked == nil || linked.ID != env.PrinterID {
			return fmt.Errorf("%s - %w: envelope for %q", logPrefix, ErrPrinterIDMismatch, env.PrinterID)
		}
	}

	group, ok := r.caps.Resolve(env.Target)
	if !ok {
		slog.Debug(fmt.Sprintf("%s - unknown target %q, dropping", logPrefix, env.Target))
		return nil
	}
	handler, ok := group.Operation(env.Func)
	if !ok {
		slog.Debug(fmt.Sprintf("%s - unknown func %q on %q, dropping", logPrefix, env.Func, env.Target))
		return nil
	}

	ref := refKey(env.Ref)
	if ref != "" {
		if r.ledger.SeenOrRecord(ref) {
			slog.Debug(fmt.Sprintf("%s - duplicate ref %s, ignoring", logPrefix, ref))
			return nil
		}
	}

	ret, err := handler(ctx, env.Args)
	if err != nil {
		return fmt.Errorf("%s - %s.%s: %w", logPrefix, env.Target, env.Func, err)
	}

	if ref != "" {
		r.sendReplies(env.Ref, ret, linked)
	}

	r.status.ScheduleStatusPush()
	return nil
}

// sendReplies fans the result out over both channels. The sends are
// independent: failure of one never blocks or rolls back the other. The
// data-channel send is suppressed entirely when no printer is linked, since
// there is no identity to tag the payload with.
func (r *Relay) sendReplies(ref, ret interface{}, linked *identity.Printer) {
	if err := r.passthru.SendPassthru(ref, ret); err != nil {
		slog.Error(fmt.Sprintf("%s - passthru reply failed: %v", logPrefix, err))
	}

	if linked == nil || linked.ID == "" {
		return
	}
	payload, err := wire.Encode(&DataChannelReply{
		Ref:       ref,
		Ret:       ret,
		PrinterID: linked.ID,
		WebRTC:    true,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("%s - datachannel reply encode failed: %v", logPrefix, err))
		return
	}
	r.data.Send(payload)
}

// refKey normalizes an opaque ref scalar to a ledger key. Absent and null refs
// map to the empty key and are never recorded.
func refKey(ref interface{}) string {
	if ref == nil {
		return ""
	}
	return fmt.Sprint(ref)
}
