// cmd/xpload/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/deploymenttheory/go-xpload/cli"
	"github.com/deploymenttheory/go-xpload/httpclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	httpclient.Shutdown()
	os.Exit(code)
}
