package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drake/galley/codec"
	"github.com/drake/galley/dish"
	"github.com/drake/galley/internal/logging"
	"github.com/drake/galley/pipeline"
	"github.com/drake/galley/render"
)

func newStatsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Bake once and print the stats block",
		Long: `Bake the input once without opening the viewer and print the result's
kind followed by the same stats block the viewer shows.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, flags)
		},
	}
}

func runStats(cmd *cobra.Command, args []string, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := logging.FromContext(cmd.Context())

	input, name, _, err := readInput(args, cmd.InOrStdin(), stdinIsTerminal())
	if err != nil {
		return err
	}

	c := codec.New(codec.Options{
		Placeholder:     cfg.PlaceholderRune(),
		ControlPictures: cfg.ControlPictures,
	})
	baker, err := selectBaker(flags.bake, name, c)
	if err != nil {
		return err
	}

	res := pipeline.Run(cmd.Context(), baker, input)
	if res.Err != nil {
		return res.Err
	}

	store := dish.NewStore(dish.Options{Codec: c, Logger: logger})
	if err := store.Set(res.Payload, res.Elapsed); err != nil {
		return err
	}
	d, _ := store.Current()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "kind: %s\n", d.Kind)
	fmt.Fprintln(out, render.FormatStats(d))
	return nil
}
