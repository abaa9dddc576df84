package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/user/lifesim/internal/game"
	"github.com/user/lifesim/internal/storage"
)

// AutoplayOptions holds flags for the autoplay command
type AutoplayOptions struct {
	Turns    int
	Seed     int64
	Location string
	Player   string
}

// NewAutoplayCommand creates the autoplay command
func NewAutoplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AutoplayOptions{}

	cmd := &cobra.Command{
		Use:   "autoplay",
		Short: "Play a fresh life on autopilot and print the result",
		Long: `Create a new life in memory and let the decision engine play it.

The same seed, location and player always replay the same game.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutoplay(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Turns, "turns", "t", 10, "number of turns to play")
	cmd.Flags().Int64VarP(&opts.Seed, "seed", "s", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVarP(&opts.Location, "location", "l", "", "starting location id (random when empty)")
	cmd.Flags().StringVarP(&opts.Player, "player", "p", "autopilot", "player id")

	return cmd
}

func runAutoplay(cmd *cobra.Command, rootOpts *RootOptions, opts *AutoplayOptions) error {
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return err
	}
	engine, err := rootOpts.engine(cfg)
	if err != nil {
		return err
	}

	service := game.NewService(storage.NewMemoryStore(), engine, game.NewSeededDiceRoller(opts.Seed))
	service.SetLogger(rootOpts.logger(cmd.ErrOrStderr()))

	ctx := cmd.Context()
	life, err := service.NewGame(ctx, game.NewGameRequest{PlayerID: opts.Player, Location: opts.Location})
	if err != nil {
		return err
	}
	if life, err = service.Autoplay(ctx, life.ID, opts.Turns); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), life)
}
