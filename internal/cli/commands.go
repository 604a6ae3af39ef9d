package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/semlayer/internal/resolve"
)

// newValidateCommand creates the validate command.
func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate and install the recipe's models",
		Long: `Validate the recipe: name legality, dimension/measure collisions,
and relation targets. All violations across the batch are reported
together; nothing is installed unless the whole batch passes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recipe ok: %d models installed for %s\n",
				len(p.Models), p.Dialect.Name())
			return nil
		},
	}
}

// newModelsCommand creates the models command.
func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the recipe's models and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range p.Models {
				fmt.Fprintf(out, "%s (%s)\n", m.Name, m.Target)
				for _, d := range m.Dimensions {
					fmt.Fprintf(out, "  dimension %-20s %s\n", d.Name, d.Type)
				}
				for _, ms := range m.Measures {
					fmt.Fprintf(out, "  measure   %-20s %s\n", ms.Name, ms.Aggregation)
				}
				for _, r := range m.Relations {
					fmt.Fprintf(out, "  relation  %-20s -> %s\n", r.Name, r.Model)
				}
			}
			return nil
		},
	}
}

// newRenderCommand creates the render command.
func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <model>",
		Short: "Render the SQL reference for a model",
		Long: `Render the SQL fragment referring to a model in the target dialect,
with templates expanded. When the dialect hoists rendered templates,
the accumulated view definitions are printed as a WITH prologue.`,
		Example: `  # Render a model's SQL reference
  semlayer render orders

  # Render against a different warehouse
  semlayer render orders --dialect bigquery`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}

			modelName := args[0]
			m, err := p.Context.Model(modelName)
			if err != nil {
				return err
			}

			ref, err := p.Context.SQLReference(m.Target, modelName, resolve.SQLRefOptions{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if views := p.Context.ViewAliases(); len(views) > 0 {
				clauses := make([]string, len(views))
				for i, v := range views {
					clauses[i] = fmt.Sprintf("%s AS (\n%s\n)", p.Dialect.QuoteIdentifier(v.Alias), v.Definition)
				}
				fmt.Fprintf(out, "WITH %s\n", strings.Join(clauses, ",\n"))
			}
			fmt.Fprintln(out, ref)
			return nil
		},
	}
}
