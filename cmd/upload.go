package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/chatlog/internal/logger"
	"github.com/zhubert/chatlog/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.zip>",
	Short: "Import an exported .zip archive without starting the TUI",
	Long: `Uploads an exported chat archive to the archive server. The file is
checked the same way as a file dropped on the TUI: only .zip archives
are sent.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	machine := upload.New(newClient(cfg), cfg.GetLocale())
	out := cmd.OutOrStdout()

	start := machine.SelectFile(args[0])
	if machine.State() == upload.StateFailed {
		return fmt.Errorf("%s", machine.Status().Message)
	}
	fmt.Fprintln(out, machine.Status().Message)

	done, ok := awaitDone(start)
	if !ok {
		return fmt.Errorf("upload did not report a result")
	}
	// The returned timers only matter to the TUI
	machine.HandleDone(done)

	if machine.State() != upload.StateSucceeded {
		return fmt.Errorf("%s", machine.Status().Message)
	}
	if res := machine.Result(); res != nil {
		if res.Count > 0 {
			fmt.Fprintln(out, machine.ImportedText(res.Count))
		} else if res.Detail != "" {
			fmt.Fprintln(out, res.Detail)
		}
	}
	return nil
}

// awaitDone runs an upload command outside a Bubble Tea program and
// returns its result. Batched commands are run in order until one
// reports the upload outcome.
func awaitDone(cmd tea.Cmd) (upload.DoneMsg, bool) {
	if cmd == nil {
		return upload.DoneMsg{}, false
	}
	switch msg := cmd().(type) {
	case upload.DoneMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if done, ok := awaitDone(c); ok {
				return done, true
			}
		}
	}
	return upload.DoneMsg{}, false
}
