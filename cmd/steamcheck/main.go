// Command steamcheck runs a Steam profile lookup from the terminal.
//
// Usage:
//
//	steamcheck lookup 76561197960287930
//	steamcheck lookup https://steamcommunity.com/id/gabelogannewell/
//	steamcheck lookup gabelogannewell --digest-only
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"steam-profile-bot/internal/app"
	"steam-profile-bot/internal/config"
	"steam-profile-bot/internal/usecase"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "steamcheck",
		Short:         "Steam profile lookup CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(lookupCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func lookupCmd() *cobra.Command {
	var digestOnly bool
	cmd := &cobra.Command{
		Use:   "lookup <steam id, vanity name or profile link>",
		Short: "Fetch a profile and print the card, commentary and digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(func(ctx context.Context, a *app.App) error {
				out, err := a.Lookup.Lookup(ctx, usecase.LookupInput{ChatID: "cli", Text: args[0]})
				if err != nil {
					return errors.New(usecase.ErrorReply(err, a.Lookup.ReplyLanguage()))
				}
				printLookup(cmd.OutOrStdout(), out, digestOnly)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&digestOnly, "digest-only", false, "Print only the digest, skipping the card and commentary")
	return cmd
}

func printLookup(w io.Writer, out usecase.LookupOutput, digestOnly bool) {
	if digestOnly {
		fmt.Fprintln(w, out.Digest)
		return
	}
	fmt.Fprintln(w, out.Card.Text())
	fmt.Fprintln(w)
	fmt.Fprintln(w, out.Report)
}

// runLookup handles config loading, wiring and interrupt cancellation.
func runLookup(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel, false)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}
