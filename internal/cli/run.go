package cli

import (
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/incr/internal/graphdef"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <graph.yaml>",
		Short: "Build a graph and run its steps",
		Long: `Build the cells and computed nodes of a graph definition, then run its
steps in order, printing one line per action. Failed actions are reported
in the output and do not stop the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(rootOpts, args[0], cmd)
		},
	}
}

func runGraph(opts *RootOptions, path string, cmd *cobra.Command) error {
	def, err := graphdef.Load(path)
	if err != nil {
		return withExitCode(ExitUsage, "loading graph", err)
	}

	g, err := graphdef.Build(def, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return withExitCode(ExitInvalid, "building graph", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.Results(g.Run(def.Steps))
}
