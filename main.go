package main

import (
	"resolvemcp/cmd"
	"resolvemcp/internal/app"
)

// version can be set during build with -ldflags.
var version = "dev"

func main() {
	app.Version = version
	cmd.Execute()
}
