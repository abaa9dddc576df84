package cli

import (
	"github.com/spf13/cobra"
	"github.com/user/lifesim/internal/storage"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inspect <life-id>",
		Short:        "Print a stored life as JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			life, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), life)
		},
	}
	return cmd
}
