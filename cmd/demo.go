package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/chatlog/internal/demo"
	"github.com/zhubert/chatlog/internal/logger"
)

var (
	demoFixture   string
	demoAddr      string
	demoServeOnly bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run chatlog against a built-in demo archive server",
	Long: `Starts a local archive server seeded with a demo archive and opens the
TUI against it. Uploaded .zip exports replace the demo data for as long
as the server runs.

Use --fixture to seed the server from your own YAML file, and
--serve-only to run just the server, e.g. for the list and upload
commands.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoFixture, "fixture", "", "YAML fixture to seed the demo server with")
	demoCmd.Flags().StringVar(&demoAddr, "addr", "127.0.0.1:0", "Address for the demo server")
	demoCmd.Flags().BoolVar(&demoServeOnly, "serve-only", false, "Run only the server until interrupted")
	rootCmd.AddCommand(demoCmd)
}

// loadDemoFixture reads the fixture at path, or the bundled one when path is empty
func loadDemoFixture(path string) (*demo.Fixture, error) {
	if path == "" {
		return demo.DefaultFixture()
	}
	return demo.LoadFixture(path)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	fixture, err := loadDemoFixture(demoFixture)
	if err != nil {
		return fmt.Errorf("error loading fixture: %w", err)
	}

	srv, err := demo.Start(demoAddr, demo.NewStore(fixture))
	if err != nil {
		return fmt.Errorf("error starting demo server: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if demoServeOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "Demo archive server listening on %s\n", srv.URL())
		fmt.Fprintf(cmd.OutOrStdout(), "Try: chatlog list --server %s\n", srv.URL())
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		<-ctx.Done()
		return nil
	}

	if err := cfg.SetServerURL(srv.URL()); err != nil {
		return err
	}
	return runApp(cfg)
}
