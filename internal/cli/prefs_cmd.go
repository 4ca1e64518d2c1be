package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/ganttkit/internal/cli/formatter"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/service"
	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or reset saved page preferences",
	}

	cmd.AddCommand(
		newPrefsShowCmd(app),
		newPrefsResetCmd(app),
	)

	return cmd
}

func newPrefsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "show PAGE",
		Short:             "Show the effective preferences of a page",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePages(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pageArg(app, args)
			if err != nil {
				return err
			}
			view, err := app.Prefs.Show(cmd.Context(), page)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatPreferences(view, app))
			return nil
		},
	}
}

func formatPreferences(v *service.PreferencesView, app *App) string {
	p := v.Effective
	var rows [][]string
	add := func(k, val string) { rows = append(rows, []string{formatter.Dim(k), val}) }

	switch {
	case v.Stored != nil:
		saved := formatter.HumanTime(v.Stored.SavedAt, app.now())
		if v.Stored.SessionID != "" {
			saved += formatter.Dim(" by session ") + formatter.TruncID(v.Stored.SessionID)
		}
		add("saved", saved)
	case v.Problem != "":
		add("saved", formatter.StyleRed.Render("unreadable, using defaults"))
	default:
		add("saved", formatter.Dim("never (defaults)"))
	}
	add("storage key", v.StorageKey)

	auto := ""
	if p.AutoTimeScale {
		auto = formatter.Dim(" (auto)")
	}
	add("time scale", p.TimeScale.DisplayName+auto)
	add("zoom", fmt.Sprintf("%d", p.Zoom)+formatter.Dim(fmt.Sprintf(" (slider %d)", p.ScalePosition)))
	add("grid width", fmt.Sprintf("%d", p.GridWidth))
	if len(p.ColumnWidths) > 0 {
		add("column widths", joinInts(p.ColumnWidths))
	}
	add("scroll left", fmt.Sprintf("%d", p.ScrollLeft))
	add("relative time", formatter.OnOff(p.ShowRelativeTime))
	add("gridlines", formatter.OnOff(p.ShowPrimaryGridlines)+" / "+formatter.OnOff(p.ShowSecondaryGridlines))
	add("arrows", formatter.OnOff(p.ShowArrows))
	add("overlay", formatter.OnOff(p.ShowOverlay))
	add("legend", formatter.OnOff(p.ShowChartLegend))
	if p.ColorBy != "" {
		add("color by", p.ColorBy)
	}
	add("expanded rows", expandedRows(p.RowStatus))

	out := formatter.RenderBox("Preferences: "+v.Page, formatter.RenderTable([]string{"SETTING", "VALUE"}, rows))
	if v.Problem != "" {
		out += "\n" + formatter.StyleRed.Render("Stored blob ignored: "+v.Problem)
	}
	return out
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

func expandedRows(s domain.RowStatus) string {
	var ids []int
	for id, st := range s {
		if st.IsExpanded {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return formatter.Dim("none")
	}
	sort.Ints(ids)
	return joinInts(ids)
}

func newPrefsResetCmd(app *App) *cobra.Command {
	var all, clearDrops, yes bool

	cmd := &cobra.Command{
		Use:               "reset [PAGE...]",
		Short:             "Delete saved preferences so pages start from their defaults",
		ValidArgsFunction: completePages(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pages []string
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("pass page names or --all, not both")
			case all:
				pages = app.Registry.Names()
			case len(args) == 0:
				return fmt.Errorf("name at least one page, or pass --all")
			default:
				for _, a := range args {
					name, err := resolvePage(app.Registry, a)
					if err != nil {
						return err
					}
					pages = append(pages, name)
				}
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to reset %s without --yes", strings.Join(pages, ", "))
				}
				confirmed := false
				title := fmt.Sprintf("Reset preferences of %s?", strings.Join(pages, ", "))
				if err := confirmForm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing reset.")
					return nil
				}
			}

			res, err := app.Prefs.Reset(cmd.Context(), pages, clearDrops)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Reset %d of %d pages", res.Cleared, len(res.Pages))
			if clearDrops {
				msg += fmt.Sprintf(", deleted %d drops", res.DropsDeleted)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render(msg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Reset every page")
	cmd.Flags().BoolVar(&clearDrops, "drops", false, "Also delete the drop log of the reset pages")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
