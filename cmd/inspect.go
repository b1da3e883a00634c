package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"appicon/internal/source"
	"appicon/internal/tui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <logo>...",
	Short: "Report how a logo will be treated without generating icons",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for i, path := range args {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			rep, err := source.Inspect(path, appConfig.Upload)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stdout, "%s\n  %s %s\n", inspectFileStyle.Render(path), inspectBulletStyle.Render("-"), inspectWarnStyle.Render(err.Error()))
				continue
			}
			printReport(rep)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d logos could not be inspected", failed, len(args))
		}
		return nil
	},
}

func printReport(rep *source.Report) {
	fmt.Fprintf(os.Stdout, "%s\n", inspectFileStyle.Render(rep.Path))
	field := func(label, value string) {
		fmt.Fprintf(os.Stdout, "  %s %s\n", inspectCategoryStyle.Render(label+":"), inspectValueStyle.Render(value))
	}
	field("Format", rep.Format.String())
	field("Size", fmt.Sprintf("%dx%d, %s", rep.Width, rep.Height, tui.HumanBytes(rep.Bytes)))
	if rep.Orientation > 1 {
		field("Orientation", fmt.Sprintf("%d", rep.Orientation))
	}
	field("Alpha", fmt.Sprintf("%t", rep.HasAlpha))
	if len(rep.Categories) > 0 {
		field("Metadata", strings.Join(rep.Categories, ", "))
	} else {
		field("Metadata", inspectDimStyle.Render("none"))
	}
	if rep.Exif != nil && rep.Exif.TagCount > 0 {
		field("EXIF tags", fmt.Sprintf("%d", rep.Exif.TagCount))
	}
	if rep.PNG != nil && len(rep.PNG.TextKeys) > 0 {
		field("PNG text", strings.Join(rep.PNG.TextKeys, ", "))
	}

	if len(rep.Notes) == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "  %s\n", inspectCategoryStyle.Render("Notes:"))
	for _, note := range rep.Notes {
		style := inspectValueStyle
		if note.Kind == "Limit" {
			style = inspectWarnStyle
		}
		fmt.Fprintf(os.Stdout, "    %s %s %s\n",
			inspectBulletStyle.Render("-"),
			inspectDimStyle.Render("["+note.Kind+"]"),
			style.Render(note.Message),
		)
	}
}

var (
	inspectFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	inspectCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	inspectValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	inspectWarnStyle     = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	inspectDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	inspectBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}
