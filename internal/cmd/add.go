package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Digital-Shane/show-onboard/internal/config"
	"github.com/Digital-Shane/show-onboard/internal/log"
	"github.com/Digital-Shane/show-onboard/internal/tui/addshow"
	"github.com/Digital-Shane/show-onboard/internal/wizard"
)

// addFlags holds the per-run overrides of the add command.
type addFlags struct {
	name             string
	path             string
	providedName     string
	providedIdentity string
	indexer          int
	timeout          int
	anime            bool
	root             string
	quality          string
}

var addOpts addFlags

var addCmd = &cobra.Command{
	Use:   "add [show name]",
	Short: "Add a TV show with the interactive wizard",
	Long: `Add a TV show to your library.

The wizard searches for the show, lets you pick the parent folder (or enter a
full show path), choose a quality preset and, for anime, allowed and blocked
release groups. A show can be supplied up front with --provided-identity to
skip the search.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAddCommand,
}

func runAddCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	flags := addOpts
	if len(args) == 1 && flags.name == "" {
		flags.name = args[0]
	}

	logger := newLogger(cfg)
	defer logger.Close()

	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)
	if err := log.StartSession("add", args); err != nil {
		logger.Warn().Err(err).Msg("Failed to start session log")
	}
	defer func() {
		if err := log.EndSession(); err != nil {
			logger.Warn().Err(err).Msg("Failed to write session log")
		}
	}()

	opts, err := wizardOptions(cfg, flags, cmd.Flags().Changed("anime"))
	if err != nil {
		return err
	}

	svc, submitter, err := newBackend(cfg, opts.Timeout, logger.Logger)
	if err != nil {
		return err
	}
	opts.Service = svc
	opts.Submitter = submitter
	opts.Logger = logger.Logger
	opts.OnSearchComplete = recordSearch

	model := addshow.New(wizard.New(opts), addshow.WithOnSubmit(recordOutcome))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run add show wizard: %w", err)
	}

	printResult(cmd.OutOrStdout(), model.Result(), submitter == nil)
	return nil
}

// wizardOptions merges the config with the command line overrides.
func wizardOptions(cfg *config.Config, flags addFlags, animeChanged bool) (wizard.Options, error) {
	opts := wizard.Options{
		Timeout:          cfg.Timeout(),
		Indexer:          cfg.DefaultIndexer,
		NameToSearch:     strings.TrimSpace(flags.name),
		ProvidedName:     flags.providedName,
		ProvidedIdentity: flags.providedIdentity,
		ExplicitPath:     flags.path,
		RootDirs:         cfg.RootDirs,
		RootDir:          cfg.RootDirIndex(),
		QualityPresets:   cfg.QualityPresets,
		QualityPreset:    cfg.DefaultQuality,
		Anime:            cfg.AnimeDefault,
		AnonRedirect:     cfg.AnonRedirect,
	}

	if flags.providedName != "" && flags.providedIdentity == "" {
		return opts, fmt.Errorf("--provided-name requires --provided-identity")
	}
	if flags.indexer >= 0 {
		opts.Indexer = flags.indexer
	}
	if flags.timeout > 0 {
		opts.Timeout = time.Duration(flags.timeout) * time.Second
	}
	if animeChanged {
		opts.Anime = flags.anime
	}
	if flags.quality != "" {
		opts.QualityPreset = flags.quality
	}

	switch {
	case flags.root != "":
		index := cfg.IndexOfRootDir(flags.root)
		if index < 0 {
			return opts, fmt.Errorf("root directory %q is not one of root_dirs", flags.root)
		}
		opts.RootDir = index
	case flags.path != "":
		// An explicit path only counts when no root directory is chosen.
		opts.RootDir = -1
	}
	return opts, nil
}

func recordSearch(outcome wizard.SearchOutcome) {
	log.LogSearch(outcome.Query.Term, outcome.Query.Language, outcome.Query.Indexer, outcome.Results, outcome.Err)
}

func recordOutcome(msg wizard.SubmitResultMsg) {
	if msg.Skipped {
		log.LogSkip(msg.Show, msg.Err)
		return
	}
	log.LogAddShow(msg.Show, msg.Form.Get("whichSeries"), destination(msg), msg.Err)
}

func destination(msg wizard.SubmitResultMsg) string {
	if root := msg.Form.Get("rootDir"); root != "" {
		return root
	}
	return msg.Form.Get("fullShowPath")
}

// printResult reports the outcome once the terminal is restored. Without a
// server nothing was posted, so the form is printed for the caller to use.
func printResult(w io.Writer, result *wizard.SubmitResultMsg, local bool) {
	if result == nil {
		fmt.Fprintln(w, "No show added.")
		return
	}

	show := result.Show
	if show == "" {
		show = "show"
	}
	if result.Skipped {
		fmt.Fprintf(w, "Skipped %s.\n", show)
	} else {
		fmt.Fprintf(w, "Added %s into %s.\n", show, destination(*result))
	}
	if local {
		fmt.Fprintln(w, result.Form.Encode())
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	loggerCfg := log.LoggerConfig{Level: cfg.LogLevel}
	if cfg.EnableLogging {
		if dir, err := log.LogDir(); err == nil {
			loggerCfg.Dir = dir
		}
	}
	return log.NewLogger(loggerCfg)
}

func init() {
	addCmd.Flags().StringVarP(&addOpts.name, "name", "n", "", "Show name to search for on start")
	addCmd.Flags().StringVarP(&addOpts.path, "path", "p", "", "Full show path, used when no parent folder is chosen")
	addCmd.Flags().StringVar(&addOpts.providedName, "provided-name", "", "Name of a show supplied up front")
	addCmd.Flags().StringVar(&addOpts.providedIdentity, "provided-identity", "", "Identity of a show supplied up front; skips the search")
	addCmd.Flags().IntVar(&addOpts.indexer, "indexer", -1, "Indexer key to search (0 searches all indexers)")
	addCmd.Flags().IntVar(&addOpts.timeout, "timeout", 0, "Search timeout in seconds")
	addCmd.Flags().BoolVar(&addOpts.anime, "anime", false, "Treat the show as anime")
	addCmd.Flags().StringVar(&addOpts.root, "root", "", "Parent folder, one of the configured root_dirs")
	addCmd.Flags().StringVarP(&addOpts.quality, "quality", "q", "", "Quality preset")

	rootCmd.AddCommand(addCmd)
}
