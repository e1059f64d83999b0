package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/annotate/internal/config"
	"github.com/kilupskalvis/annotate/internal/models"
	"github.com/kilupskalvis/annotate/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new annotate workspace",
	Long: `Initialize a new annotate workspace in the current directory.
This creates a .annotate directory holding the configuration and the annotation database.`,
	Run: runInit,
}

var initFormat string

func init() {
	initCmd.Flags().StringVar(&initFormat, "format", string(models.FormatDetection), "Default annotation format (detection, segmentation)")
}

func runInit(cmd *cobra.Command, args []string) {
	format, err := models.ParseFormat(initFormat)
	if err != nil {
		exitError("%v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}

	cfg, err := config.Initialize(cwd, format)
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to create store: %v", err)
	}
	defer st.Close()

	if err := st.Initialize(); err != nil {
		exitError("failed to initialize store: %v", err)
	}

	fmt.Printf("Initialized empty annotate workspace in %s/\n", config.WorkspaceDir)
	fmt.Printf("Default format: %s\n", format)
}
