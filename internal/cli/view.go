package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/drake/galley/codec"
	"github.com/drake/galley/config"
	"github.com/drake/galley/debug"
	"github.com/drake/galley/highlight"
	"github.com/drake/galley/internal/logging"
	"github.com/drake/galley/pipeline"
	"github.com/drake/galley/platform"
	"github.com/drake/galley/session"
	"github.com/drake/galley/ui"
)

func newViewCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Open the viewer",
		Long: `Open the viewer on a file, on piped stdin, or empty.

Keys in the output pane: c copy, s save, i switch to input, u undo,
[ slice the buffer, x close, h highlight, r rebake, e erase input,
tab switch panes, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args, flags)
		},
	}
}

func runView(cmd *cobra.Command, args []string, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	input, name, hasInput, err := readInput(args, cmd.InOrStdin(), stdinIsTerminal())
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closer.Close()
	logging.SetDefault(logger)

	c := codec.New(codec.Options{
		Placeholder:     cfg.PlaceholderRune(),
		ControlPictures: cfg.ControlPictures,
	})
	baker, err := selectBaker(flags.bake, name, c)
	if err != nil {
		return err
	}

	tui := ui.NewBubbleTeaUI(logger)
	sess, err := session.New(tui, sessionConfig(cfg, c, baker, logger))
	if err != nil {
		return err
	}
	if hasInput {
		sess.Load(input)
	}

	debug.NewMonitor(cmd.Context(), sess, logger).Start()

	logger.Info("viewer started", logging.FieldFilename, name, "bake", baker.Name(), "config", cfg.Source)
	return sess.Run()
}

func sessionConfig(cfg config.Config, c *codec.Codec, baker pipeline.Baker, logger *log.Logger) session.Config {
	return session.Config{
		Baker:           baker,
		Codec:           c,
		Clipboard:       platform.SystemClipboard{},
		Saver:           &platform.DirSaver{Dir: cfg.DownloadDir},
		Highlighter:     highlight.New(cfg.HighlightStyle),
		Debounce:        cfg.Debounce(),
		DefaultFilename: cfg.DefaultFilename,
		ScriptTimeout:   cfg.ScriptTimeout(),
		ScriptCacheSize: cfg.ScriptCacheSize,
		Logger:          logger,
	}
}
