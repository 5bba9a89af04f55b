package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	// SubjectPassthru carries reliable-channel replies to server-issued
	// commands, wrapped in a passthru envelope.
	SubjectPassthru = "server.passthru.v1"
	// SubjectStatus carries asynchronous printer status pushes.
	SubjectStatus = "server.status.v1"
)

// BuildCommandSubject builds the per-agent subject the server publishes
// commands to.
func BuildCommandSubject(agentID string) string {
	safe := strings.ReplaceAll(agentID, ".", "_")
	return fmt.Sprintf("agent.%s.cmd.v1", safe)
}
