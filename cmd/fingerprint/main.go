package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fingerprint-agent/internal/config"
	"fingerprint-agent/internal/fingerprint"

	"github.com/spf13/cobra"
)

func main() {
	var (
		cfgFile string
		debug   bool
		pageURL string
	)

	rootCmd := &cobra.Command{
		Use:           "fingerprint",
		Short:         "Collect browser fingerprints and deliver them to a collection endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	withApp := func(action func(context.Context, *App, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if debug {
				cfg.Debug = true
			}

			app, err := NewApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			return action(cmd.Context(), app, args)
		}
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the page, wait for the DOM, collect and deliver once",
		RunE: withApp(func(ctx context.Context, app *App, _ []string) error {
			res, err := app.RunPass(ctx, pageURL)
			if err != nil {
				return err
			}
			app.logger.Info("fingerprint pass finished",
				"run_id", res.RunID,
				"delivered", res.Report.Delivered,
				"attempts", res.Report.Attempts,
				"duration_ms", res.Duration.Milliseconds(),
			)
			return nil
		}),
	}
	runCmd.Flags().StringVar(&pageURL, "url", "", "page to fingerprint")
	_ = runCmd.MarkFlagRequired("url")

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect fingerprints from the page and print the record",
		RunE: withApp(func(ctx context.Context, app *App, _ []string) error {
			agent, done, err := app.Agent(ctx, pageURL)
			if err != nil {
				return err
			}
			defer done()

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(agent.Collect(ctx))
		}),
	}
	collectCmd.Flags().StringVar(&pageURL, "url", "", "page to fingerprint")
	_ = collectCmd.MarkFlagRequired("url")

	var recordFile string
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver a previously collected record",
		RunE: withApp(func(ctx context.Context, app *App, _ []string) error {
			rec, err := readRecord(recordFile)
			if err != nil {
				return err
			}

			agent, done, err := app.Agent(ctx, pageURL)
			if err != nil {
				return err
			}
			defer done()

			if !agent.Send(ctx, rec) {
				return errors.New("fingerprints not delivered")
			}
			app.logger.Info("fingerprints delivered")
			return nil
		}),
	}
	sendCmd.Flags().StringVar(&recordFile, "file", "-", "record JSON file, - for stdin")
	sendCmd.Flags().StringVar(&pageURL, "url", "", "page to send from (needed for the page transport)")

	var (
		runsHost  string
		runsLimit int64
	)
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List journaled passes",
		RunE: withApp(func(ctx context.Context, app *App, _ []string) error {
			if app.storage == nil {
				return errors.New("run journal is disabled (storage.mongodb.enabled)")
			}
			runs, err := app.storage.RecentRuns(ctx, runsHost, runsLimit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			for _, r := range runs {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	runsCmd.Flags().StringVar(&runsHost, "host", "", "only runs for this host")
	runsCmd.Flags().Int64Var(&runsLimit, "limit", 20, "maximum runs to list")

	rootCmd.AddCommand(runCmd, collectCmd, sendCmd, runsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readRecord(path string) (fingerprint.Record, error) {
	var rec fingerprint.Record

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return rec, fmt.Errorf("failed to open record: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return rec, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}
