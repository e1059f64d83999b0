package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <image>",
	Short: "Delete the stored annotations of an image",
	Args:  cobra.ExactArgs(1),
	Run:   runRm,
}

func runRm(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := c.Store.DeleteDocument(args[0]); err != nil {
		exitError("%v", err)
	}

	if current, _ := c.Store.GetCurrentImage(); current == args[0] {
		_ = c.Store.SetCurrentImage("")
	}
	fmt.Printf("Deleted annotations of %s\n", args[0])
}
