package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/kilupskalvis/annotate/internal/core"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <image> <file>",
	Short: "Import annotations from a JSON file",
	Long: `Replace the annotations of an image with the contents of a JSON file.
The file holds either {"annotations": [...]} or a bare array. Use "-" to read stdin.`,
	Args: cobra.ExactArgs(2),
	Run:  runImport,
}

var importFormat string

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "Annotation format (detection, segmentation); defaults to the workspace format")
}

func runImport(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	image, path := args[0], args[1]

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		exitError("failed to read %s: %v", path, err)
	}

	format := parseFormatFlag(importFormat)
	if format == "" {
		format = c.Config.Format()
	}

	result, err := core.ImportJSON(c.Store, image, format, data, c.Logger)
	if err != nil {
		exitError("import failed: %v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Imported %d annotations ", result.Imported)
	fmt.Printf("into %s (revision %s)\n", result.Image, shortRevision(result.Revision))
	if result.Replaced > 0 {
		fmt.Printf("Replaced %d previous annotations\n", result.Replaced)
	}
}

// shortRevision returns first 8 characters of a revision id
func shortRevision(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
