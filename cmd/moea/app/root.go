package app

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the moea command with the emas, nsga2 and hypervolume
// subcommands. Logging flags are added by component-base when the command is
// run through cli.Run.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moea",
		Short: "Multi-objective evolutionary optimisation with EMAS and NSGA-II",
		Long: `moea runs the evolutionary multi-agent system (EMAS) with elite islands
or NSGA-II on the registered benchmark problems and reports the found
Pareto fronts as plots, data dumps, SQLite records or an OptimizationRun file.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newEMASCommand(),
		newNSGA2Command(),
		newHypervolumeCommand(),
	)
	return cmd
}
