package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zachkp/resume-site/internal/intro"
	"github.com/Zachkp/resume-site/internal/tui"
)

// narrowWidth is the terminal width below which the intro uses touch timing.
const narrowWidth = 80

var introCmd = &cobra.Command{
	Use:   "intro",
	Short: "Play the terminal intro in this terminal",
	Args:  cobra.NoArgs,
	RunE:  runIntro,
}

func init() {
	introCmd.Flags().String("device", "auto", "timing profile: auto, desktop or touch")
	rootCmd.AddCommand(introCmd)
}

func runIntro(cmd *cobra.Command, _ []string) error {
	_, logger, err := setup()
	if err != nil {
		return err
	}

	flag, _ := cmd.Flags().GetString("device")
	device := deviceFor(flag, terminalWidth())

	m := tui.NewIntro(intro.DefaultScript, intro.WithDevice(device), intro.WithLogger(logger))
	skipped, err := tui.RunIntro(m)
	if err != nil {
		return err
	}
	logger.Debug("intro finished", "device", device.String(), "skipped", skipped)
	if skipped {
		fmt.Fprintln(cmd.OutOrStdout(), "intro skipped")
	}
	return nil
}

// deviceFor resolves the --device flag. "auto" picks touch timing for
// narrow terminals.
func deviceFor(flag string, width int) intro.DeviceClass {
	if flag != "auto" {
		return intro.ParseDeviceClass(flag)
	}
	if width > 0 && width < narrowWidth {
		return intro.Touch
	}
	return intro.Desktop
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
