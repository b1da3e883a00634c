package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"appicon/internal/catalog"
	"appicon/internal/tui"
)

var sizesCmd = &cobra.Command{
	Use:   "sizes [platform]...",
	Short: "List the icon sizes each platform expects",
	RunE: func(cmd *cobra.Command, args []string) error {
		platforms := catalog.Platforms
		if len(args) > 0 {
			platforms = nil
			for _, arg := range args {
				p, err := catalog.ParsePlatform(arg)
				if err != nil {
					return err
				}
				platforms = append(platforms, p)
			}
		}

		for i, p := range platforms {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintln(os.Stdout, sizesPlatformStyle.Render(p.Label()))
			for _, s := range catalog.ForPlatform(p) {
				fmt.Fprintf(os.Stdout, "  %s %s %s\n",
					sizesDimStyle.Render(fmt.Sprintf("%-9s", s.Dimensions())),
					sizesNameStyle.Render(fmt.Sprintf("%-22s", s.Name)),
					sizesDimStyle.Render(s.FileName("png")),
				)
			}
		}

		if custom := appConfig.CustomSizes(); len(custom) > 0 {
			fmt.Fprintln(os.Stdout)
			fmt.Fprintln(os.Stdout, sizesPlatformStyle.Render(catalog.PlatformCustom.Label()))
			for _, s := range custom {
				fmt.Fprintf(os.Stdout, "  %s %s\n",
					sizesDimStyle.Render(fmt.Sprintf("%-9s", s.Dimensions())),
					sizesNameStyle.Render(s.Name),
				)
			}
		}
		return nil
	},
}

var (
	sizesPlatformStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	sizesNameStyle     = lipgloss.NewStyle().Foreground(tui.ColorInk)
	sizesDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(sizesCmd)
}
