// Command simfixtures seeds fixture files into iOS simulator app sandboxes.
//
// Usage:
//
//	simfixtures seed --device <udid|name>                  # Copy fixtures into the active app container
//	simfixtures launch --device <udid|name> --bundle <id>  # Seed, then launch the app
//	simfixtures find-container --device <udid|name>        # Show the container that would be used
//	simfixtures devices                                    # List simulators
//	simfixtures serve                                      # Start MCP server (stdio)
//	simfixtures check                                      # Check prerequisites
//
// Fixtures are configured in ~/.simfixtures/config.yaml:
//
//	fixtures:
//	  - ./e2e/fixtures/seed.json
//	  - filePath: ./e2e/fixtures/app.sqlite
//	    destinationDir: db
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
