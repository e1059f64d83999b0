package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List annotated images",
	Long:  `List every image with stored annotations, its format, and annotation count.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	docs, err := c.Store.ListDocuments()
	if err != nil {
		exitError("failed to list documents: %v", err)
	}

	if len(docs) == 0 {
		fmt.Println("No annotated images yet")
		return
	}

	current, _ := c.Store.GetCurrentImage()
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, doc := range docs {
		yellow.Printf("%s ", doc.ShortRevision())
		fmt.Printf("%-14s %4d  %s", doc.Format, doc.Count(), doc.Image)
		if doc.Image == current {
			cyan.Print(" (current)")
		}
		fmt.Println()
	}
}
