package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/chatlog/internal/app"
	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/config"
	"github.com/zhubert/chatlog/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	serverFlag            string
	localeFlag            string
	themeFlag             string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "chatlog",
	Short: "Browse an archive of exported chat conversations",
	Long: `chatlog is a terminal browser for a chat archive server.
It lists conversations by group, shows transcripts, searches all
messages, charts activity and cost, and imports exported .zip archives.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Archive server URL (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "Status message language: en or zh")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "UI theme name")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("chatlog %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("chatlog %s\n", version)
}

// loadConfig reads the config file and applies the command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := applyOverrides(cfg, serverFlag, localeFlag, themeFlag); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides sets flag values on cfg. Empty values keep the file's.
func applyOverrides(cfg *config.Config, server, locale, theme string) error {
	if server != "" {
		if err := cfg.SetServerURL(server); err != nil {
			return fmt.Errorf("invalid --server: %w", err)
		}
	}
	if locale != "" {
		if err := cfg.SetLocale(locale); err != nil {
			return fmt.Errorf("invalid --locale: %w", err)
		}
	}
	if theme != "" {
		cfg.SetTheme(theme)
	}
	return nil
}

// newClient connects to the configured archive server
func newClient(cfg *config.Config) *archive.Client {
	return archive.NewClient(cfg.GetServerURL(), cfg.GetRequestTimeout())
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	return runApp(cfg)
}

// runApp runs the TUI against the server in cfg until the user quits
func runApp(cfg *config.Config) error {
	logger.WithComponent("cmd").Info("starting", "version", version, "server", cfg.GetServerURL())

	m := app.New(cfg, newClient(cfg))
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
