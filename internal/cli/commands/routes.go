package commands

import (
	"strings"

	"github.com/conduit-lang/jsonres/internal/cli/ui"
	"github.com/spf13/cobra"
)

// NewRoutesCommand creates the routes command
func NewRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes derived from the configured resources",
		Long: `List every route the server registers, with the route name used
for link generation and the path parameters it binds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{})
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			table := ui.NewTable(cmd.OutOrStdout(), []string{"METHOD", "PATTERN", "NAME", "PARAMETERS"}, noColor)
			for _, route := range a.router.GetRoutes() {
				table.AddRow(route.Method, route.Pattern, route.Name, strings.Join(route.Parameters, ", "))
			}
			table.Render()
			return nil
		},
	}
}
