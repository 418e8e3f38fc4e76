package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/noxmail/internal/app"
	"github.com/nhle/noxmail/internal/logging"
	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/model"
	"github.com/nhle/noxmail/internal/store"
	"github.com/nhle/noxmail/internal/theme"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nox",
		Short:         "Read the maildir tree under ~/.Mail in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, cleanup, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			slog.SetDefault(logger)
			logger.Info("starting nox", "root", cfg.Mail.Root)

			return run(cfg, logger)
		},
	}

	flags := rootCmd.Flags()
	flags.String("config", model.DefaultConfigPath(), "path to the configuration file")
	flags.String("mail-root", "", "maildir tree to read (overrides mail.root)")
	flags.String("log-level", "", "debug, info, warn or error (overrides log.level)")

	return rootCmd
}

// loadConfig reads the configuration file named by --config and applies
// the flag overrides.
func loadConfig(cmd *cobra.Command) (*model.AppConfig, error) {
	flags := cmd.Flags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if root, _ := flags.GetString("mail-root"); root != "" {
		cfg.Mail.Root = root
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			return nil, err
		}
		cfg.Log.Level = level
	}
	return cfg, nil
}

func run(cfg *model.AppConfig, logger *slog.Logger) error {
	if err := theme.Apply(cfg.Display.Theme); err != nil {
		return err
	}

	contacts, closeStore := prepare(cfg, logger)
	defer closeStore()

	m := app.New(app.Config{
		Root:          cfg.Mail.Root,
		ArchiveFolder: cfg.Mail.ArchiveFolder,
		OutboxFolder:  cfg.Mail.OutboxFolder,
		PollInterval:  time.Duration(cfg.Display.PollIntervalMs) * time.Millisecond,
		Logger:        logger,
	}, contacts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// prepare creates the archive and outbox folders and opens the contact
// store. Either failing is logged once; archiving, drafts and the address
// book then report their own errors while reading keeps working.
func prepare(cfg *model.AppConfig, logger *slog.Logger) (store.ContactStore, func()) {
	if err := mailstore.EnsureFolders(cfg.Mail.Root, cfg.Mail.ArchiveFolder, cfg.Mail.OutboxFolder); err != nil {
		logger.Error("creating mail folders", "root", cfg.Mail.Root, "error", err)
	}

	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("contact store unavailable", "path", cfg.Store.Path, "error", err)
		return nil, func() {}
	}
	return s, func() { _ = s.Close() }
}
