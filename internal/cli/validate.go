package cli

import (
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/incr/internal/graphdef"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <graph.yaml>",
		Short: "Check a graph definition without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	def, err := graphdef.Load(path)
	if err == nil {
		err = def.Validate()
	}

	if err != nil {
		if werr := out.Validation(ValidationResult{Valid: false, Errors: splitErrors(err)}); werr != nil {
			return werr
		}
		return withExitCode(ExitInvalid, "invalid graph", err)
	}

	return out.Validation(ValidationResult{Valid: true})
}

// splitErrors flattens errors built with errors.Join.
func splitErrors(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
