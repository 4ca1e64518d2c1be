package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttkit/internal/cli/formatter"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/service"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resolvePage maps user input to a registered page name. Exact names win;
// otherwise a single fuzzy match is accepted ("sched" for "scheduler").
func resolvePage(registry *controller.Registry, input string) (string, error) {
	input = strings.TrimSpace(input)
	if _, ok := registry.Lookup(input); ok {
		return input, nil
	}

	names := registry.Names()
	matches := fuzzy.Find(input, names)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%q: %w (available: %s)", input, service.ErrUnknownPage, strings.Join(names, ", "))
	case 1:
		return matches[0].Str, nil
	}
	candidates := make([]string, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, m.Str)
	}
	return "", fmt.Errorf("%q: %w (did you mean %s?)", input, service.ErrUnknownPage, strings.Join(candidates, " or "))
}

// pageValue is a --page flag that resolves page names as it parses.
type pageValue struct {
	registry *controller.Registry
	name     string
}

var _ pflag.Value = (*pageValue)(nil)

func newPageValue(registry *controller.Registry) *pageValue {
	return &pageValue{registry: registry}
}

func (v *pageValue) String() string { return v.name }

func (v *pageValue) Set(s string) error {
	name, err := resolvePage(v.registry, s)
	if err != nil {
		return err
	}
	v.name = name
	return nil
}

func (v *pageValue) Type() string { return "page" }

// pageArg resolves the single PAGE positional argument.
func pageArg(app *App, args []string) (string, error) {
	return resolvePage(app.Registry, args[0])
}

func completePages(app *App) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return app.Registry.Names(), cobra.ShellCompDirectiveNoFileComp
	}
}

func newPagesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the chart pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPages(app.Pages.Pages(cmd.Context())))
			return nil
		},
	}
}
