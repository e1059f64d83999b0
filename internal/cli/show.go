package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/annotate/internal/core"
	"github.com/kilupskalvis/annotate/internal/models"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [image]",
	Short: "Show the annotations of an image",
	Long:  `Show every annotation of an image with its index, label, instance id, and geometry.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	image := c.resolveImage(args)
	s, err := core.OpenSession(c.Store, image, "", c.Logger)
	if err != nil {
		exitError("%v", err)
	}

	yellow := color.New(color.FgYellow)
	yellow.Printf("image %s", s.Image)
	fmt.Printf(" (%s, revision %s)\n\n", s.Format, shortRevision(s.Revision))

	if s.History.Len() == 0 {
		fmt.Println("No annotations")
		return
	}
	printItems(s.History.Items())
}

// printItems prints one line per annotation
func printItems(items []models.Item) {
	cyan := color.New(color.FgCyan)
	for i, item := range items {
		fmt.Printf("  [%d] ", i)
		cyan.Printf("%-16s", item.Identity())
		fmt.Printf(" %s\n", geometrySummary(item))
	}
}

func geometrySummary(item models.Item) string {
	switch v := item.(type) {
	case models.RectAnnotation:
		r := v.Rect
		return fmt.Sprintf("rect (%d,%d)-(%d,%d) %dx%d", r.XMin, r.YMin, r.XMax, r.YMax, r.Width(), r.Height())
	case models.SegmentationAnnotation:
		points := 0
		for _, p := range v.Polygons {
			points += len(p)
		}
		b := v.Bounds()
		return fmt.Sprintf("segmentation %d polygons, %d points, bounds (%d,%d)-(%d,%d)",
			len(v.Polygons), points, b.XMin, b.YMin, b.XMax, b.YMax)
	default:
		return item.Kind().String()
	}
}
