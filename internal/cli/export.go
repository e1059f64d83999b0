package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/annotate/internal/core"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [image]",
	Short: "Export annotations as JSON",
	Long:  `Write the annotations of an image as {"annotations": [...]} to stdout or a file.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runExport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	image := c.resolveImage(args)
	data, err := core.ExportJSON(c.Store, image)
	if err != nil {
		exitError("%v", err)
	}

	if exportOutput == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(exportOutput, append(data, '\n'), 0644); err != nil {
		exitError("failed to write %s: %v", exportOutput, err)
	}
}
