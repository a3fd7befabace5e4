/*
main.go - Application entry point

PURPOSE:
  Starts the backlog command-line tool. All commands, flags, configuration
  and logging live in the cli package.

EXAMPLES:
  # Write the monthly report for the configured scenario
  backlog report --out ./out

  # Serve the HTTP API with runs persisted in SQLite
  BACKLOG_STORE_DRIVER=sqlite BACKLOG_STORE_PATH=./data/backlog.db backlog serve

  # Build the briefing deck with a notes handout
  backlog deck --out briefing.pptx --notes notes.html

SEE ALSO:
  - cli/root.go: Command tree
  - config/config.go: Configuration sources
*/
package main

import "github.com/warp/backlog-report/cli"

func main() {
	cli.Execute()
}
