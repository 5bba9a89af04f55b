// Package relay dispatches inbound command envelopes to capability groups and
// fans results back out over the control channel and the data channel.
package relay

// CommandEnvelope is the JSON envelope for an inbound remote command. The same
// envelope may arrive on both the control channel and the data channel; Ref
// correlates the duplicates.
type CommandEnvelope struct {
	// PrinterID, when present, must match the linked printer's id.
	PrinterID string `json:"printer_id,omitempty"`
	// Target names a capability group on the agent (e.g. "printer").
	Target string `json:"target"`
	// Func names an operation within the target group.
	Func string `json:"func"`
	// Args are positional arguments for the operation.
	Args []interface{} `json:"args,omitempty"`
	// Ref is an opaque dedup/acknowledgement token. Commands without a ref
	// are processed unconditionally and produce no reply.
	Ref interface{} `json:"ref,omitempty"`
}

// ResultEnvelope echoes a command's ref together with the operation's return
// value.
type ResultEnvelope struct {
	Ref interface{} `json:"ref"`
	Ret interface{} `json:"ret"`
}

// PassthruReply is the control-channel wrapping of a ResultEnvelope.
type PassthruReply struct {
	Passthru ResultEnvelope `json:"passthru"`
}

// DataChannelReply is the data-channel form of a result. It is tagged with the
// linked printer id and a marker so the server can tell it took the
// low-latency path.
type DataChannelReply struct {
	Ref       interface{} `json:"ref"`
	Ret       interface{} `json:"ret"`
	PrinterID string      `json:"printer_id"`
	WebRTC    bool        `json:"_webrtc"`
}
