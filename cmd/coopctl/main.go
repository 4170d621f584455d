package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:           "coopctl",
		Short:         "inspect and reconcile a consumer group snapshot",
		Long:          `Run the payment and basket views over an exported orders snapshot without a database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.AddCommand(newPaymentsCmd(), newBasketsCmd())
	return c
}
