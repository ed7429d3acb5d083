// cmd/roku/main.go
package main

import (
	roku "github.com/Srimaan215/Roku-AI/internal/commands"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = roku.SetVersionInfo
	executeCmd     = roku.Execute
)

// main injects build info and hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
