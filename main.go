// embridge - drive an external Emacs process as a remote display and
// command surface over a supervised loopback channel.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"embridge/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "embridge: %v\n", err)
		os.Exit(1)
	}
}
