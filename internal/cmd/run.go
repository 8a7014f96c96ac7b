package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vkutk/bridge/internal/bridge"
	"github.com/vkutk/bridge/internal/term"
)

var strictFlag bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <script> <session>",
	Short: "Run a script and print its JSON output",
	Long: `Run "<interpreter> <script> <session>" and print the JSON document the
script writes to stdout.

This is the fetch_student_info command run locally. Output is indented when
stdout is a terminal.`,
	Args: cobra.ExactArgs(2),
	RunE: runFetch,
}

var captureCmd = &cobra.Command{
	Use:   "capture <script> <session>",
	Short: "Run a script and print its text output",
	Long: `Run "<interpreter> <script> <session>" and print what the script writes to
stdout, or a confirmation message when it writes nothing.

This is the capture_session command run locally.`,
	Args: cobra.ExactArgs(2),
	RunE: runCapture,
}

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Report whether a session file exists",
	Long: `Print true or false depending on whether path exists. The exit status is 0
when it exists and 1 otherwise.

Without --strict any error looking up the path counts as "does not exist".
With --strict, errors other than "does not exist" (for example permission
denied) are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the commands served to front-ends",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range bridge.NewDispatcher(newBridge(nil)).Names() {
			term.Println(name)
		}
	},
}

func init() {
	checkCmd.Flags().BoolVar(&strictFlag, "strict", false, "report lookup errors instead of printing false")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(commandsCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	auditLog, closeAudit, err := openAudit(cfg.Audit.File)
	if err != nil {
		return err
	}
	defer closeAudit()

	value, err := newBridge(auditLog).FetchStudentInfo(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	return term.PrintValue(value)
}

func runCapture(cmd *cobra.Command, args []string) error {
	auditLog, closeAudit, err := openAudit(cfg.Audit.File)
	if err != nil {
		return err
	}
	defer closeAudit()

	out, err := newBridge(auditLog).CaptureSession(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	term.Print(out)
	if out != "" && out[len(out)-1] != '\n' {
		term.Println()
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	var exists bool
	if strictFlag {
		var err error
		exists, err = bridge.StrictExists(args[0])
		if err != nil {
			return err
		}
	} else {
		exists = newBridge(nil).CheckSessionFile(args[0])
	}

	term.Println(exists)
	if !exists {
		return NewExitCodeError(1)
	}
	return nil
}
