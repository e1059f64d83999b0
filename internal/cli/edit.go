package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/annotate/internal/core"
	"github.com/kilupskalvis/annotate/internal/history"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [image]",
	Short: "Apply an edit script to the annotations of an image",
	Long: `Open the annotations of an image, apply an edit script, and save the result.

Scripts hold one command per line:

  add rect <label> <x1> <y1> <x2> <y2>
  add seg <label> <x,y> <x,y> <x,y> ...
  remove <idx>
  move <idx> <dx> <dy>
  relabel <idx> <label>
  select <idx>
  undo [n]
  redo [n]
  clear

The script is read from --file, from -e commands, or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEdit,
}

var (
	editFile     string
	editCommands []string
	editFormat   string
	editDryRun   bool
	editVerbose  bool
	editLog      bool
)

func init() {
	editCmd.Flags().StringVarP(&editFile, "file", "f", "", "Read the script from a file")
	editCmd.Flags().StringArrayVarP(&editCommands, "exec", "e", nil, "Script command (repeatable)")
	editCmd.Flags().StringVar(&editFormat, "format", "", "Annotation format for a new image (detection, segmentation)")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "Show the result without saving")
	editCmd.Flags().BoolVarP(&editVerbose, "verbose", "v", false, "Print every history event")
	editCmd.Flags().BoolVar(&editLog, "log", false, "Print the operation log after the script")
}

func runEdit(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	image := c.resolveImage(args)

	format := parseFormatFlag(editFormat)
	if existing, err := c.Store.GetDocument(image); err == nil && existing == nil && format == "" {
		format = c.Config.Format()
	}

	s, err := core.OpenSession(c.Store, image, format, c.Logger)
	if err != nil {
		exitError("%v", err)
	}

	if editVerbose {
		sub := s.History.Subscribe(printEvent)
		defer sub.Unsubscribe()
	}

	script, err := editScript()
	if err != nil {
		exitError("%v", err)
	}

	result, err := core.ApplyScript(s.History, script)
	if err != nil {
		exitError("%v", err)
	}

	if editLog {
		printOperationLog(s.History)
	}

	green := color.New(color.FgGreen)
	green.Printf("%d changes", result.TotalChanges())
	fmt.Printf(" (%d added, %d removed, %d modified, %d undone, %d redone)\n",
		result.Added, result.Removed, result.Modified, result.Undone, result.Redone)

	if editDryRun {
		fmt.Println()
		printItems(s.History.Items())
		return
	}

	if err := s.Save(); err != nil {
		exitError("%v", err)
	}
	fmt.Printf("Saved %d annotations of %s (revision %s)\n", s.History.Len(), s.Image, shortRevision(s.Revision))
}

func editScript() (io.Reader, error) {
	if len(editCommands) > 0 {
		return strings.NewReader(strings.Join(editCommands, "\n")), nil
	}
	if editFile != "" {
		data, err := os.ReadFile(editFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read script: %w", err)
		}
		return strings.NewReader(string(data)), nil
	}
	return os.Stdin, nil
}

// printOperationLog prints the log oldest first, marking the cursor and undone entries
func printOperationLog(h *history.History) {
	yellow := color.New(color.FgYellow)
	faint := color.New(color.Faint)
	cyan := color.New(color.FgCyan)

	ops := h.Operations()
	if len(ops) == 0 {
		fmt.Println("Operation log is empty")
		return
	}

	for i, op := range ops {
		line := fmt.Sprintf("%3d  %s", i, op.Description())
		switch {
		case i == h.Cursor():
			yellow.Print(line)
			cyan.Println(" (current)")
		case i > h.Cursor():
			faint.Println(line + " (undone)")
		default:
			fmt.Println(line)
		}
	}
	fmt.Println()
}

func printEvent(ev history.Event) {
	magenta := color.New(color.FgMagenta)
	switch ev.Type {
	case history.EventItemAdded:
		magenta.Printf("  %s %s\n", ev.Type, ev.Item.Identity())
	case history.EventItemInserted, history.EventItemModified:
		magenta.Printf("  %s [%d] %s\n", ev.Type, ev.Index, ev.Item.Identity())
	case history.EventItemRemoved:
		magenta.Printf("  %s [%d]\n", ev.Type, ev.Index)
	case history.EventUndoAvailable, history.EventRedoAvailable:
		magenta.Printf("  %s %t\n", ev.Type, ev.Enabled)
	case history.EventLabelIDReturned:
		magenta.Printf("  %s %s\n", ev.Type, ev.Label)
	default:
		magenta.Printf("  %s\n", ev.Type)
	}
}
