package status

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/printwatch/printer-agent/pkg/commsutil"
)

const commsPusherLogPrefix = "status:comms_pusher"

// CommsPusher publishes status documents to the server's status subject over
// the control channel.
type CommsPusher struct {
	nc      *comms.Conn
	subject string
	build   func() *Document
}

// NewCommsPusher creates a CommsPusher. build is called at push time so the
// document reflects the state after the settle delay. An empty subject falls
// back to the default status subject.
func NewCommsPusher(nc *comms.Conn, subject string, build func() *Document) *CommsPusher {
	if subject == "" {
		subject = commsutil.SubjectStatus
	}
	return &CommsPusher{nc: nc, subject: subject, build: build}
}

// Push builds and publishes the current status document.
func (p *CommsPusher) Push(_ context.Context) error {
	doc := p.build()
	data, err := commsutil.EncodePayload(doc)
	if err != nil {
		return fmt.Errorf("%s - failed to encode status: %w", commsPusherLogPrefix, err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("%s - failed to publish to %s: %w", commsPusherLogPrefix, p.subject, err)
	}
	slog.Debug(fmt.Sprintf("%s - Pushed status for %s", commsPusherLogPrefix, doc.PrinterID))
	return nil
}
