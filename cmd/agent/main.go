// Package main is the entrypoint for the printer agent (binary name "agent").
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/printwatch/printer-agent/internal/config"
	"github.com/printwatch/printer-agent/internal/server"
	"github.com/printwatch/printer-agent/pkg/version"
)

const usage = `Usage: agent [command]
       agent serve      Start the agent (control channel, relay, HTTP health).
       agent check      Load and validate configuration, then exit.
       agent version    Print the agent version.

Commands:
  serve     (default) Start the printer agent.
  check     Validate configuration from the environment without starting.
  version   Print name and version.

Environment: AGENT_ID (required), COMMS_URL, SERVER_ENDPOINT_PREFIX, AGENT_AUTH_TOKEN,
PRINT_SERVER_URL, PRINT_SERVER_API_KEY, DATA_CHANNEL_HOST, DATA_CHANNEL_PORT. See README.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "check":
		if err := runCheck(); err != nil {
			log.Fatalf("agent check: %v", err)
		}
		fmt.Println("Configuration OK.")
		return
	case "version":
		fmt.Printf("%s %s\n", version.AgentName, version.Agent)
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
		break
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("agent: %v", err)
	}
}

func runCheck() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return cfg.ValidateForServe()
}
