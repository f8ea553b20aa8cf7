package main

import (
	"context"
	"os"
	"os/signal"

	"cheztheme/internal/cli"
)

// Version information - injected at build time via ldflags
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], cli.Deps{Version: versionInfo()})
	stop()
	os.Exit(code)
}

func versionInfo() cli.VersionInfo {
	return cli.VersionInfo{Version: Version, Build: Build, BuildTime: BuildTime}
}
