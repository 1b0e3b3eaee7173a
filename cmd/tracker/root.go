package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/productivity-tracker/internal/logging"
	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/service"
	"github.com/nhle/productivity-tracker/internal/store"
	"github.com/nhle/productivity-tracker/internal/theme"
	"github.com/nhle/productivity-tracker/internal/tracker"
)

// cli holds the flags and the wiring shared by every command.
type cli struct {
	configPath string
	dbPath     string
	username   string
	verbose    bool

	cfg    *model.AppConfig
	logger *slog.Logger
	store  *store.SQLiteStore
	svc    *service.Service
	styles theme.Styles
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Personal tasks and milestones",
		Long: `tracker keeps users, tasks and milestones in a local SQLite database.

Log in once with --remember and later commands act as that user, or pass
--user to act as someone else.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", model.DefaultConfigPath(), "Configuration file")
	flags.StringVar(&c.dbPath, "db", "", "Database file (overrides store.path)")
	flags.StringVarP(&c.username, "user", "u", "", "Act as this user instead of the remembered one")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newSignupCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newThemeCmd(c),
		newDeleteAccountCmd(c),
		newTaskCmd(c),
		newMilestoneCmd(c),
		newStatsCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newDoctorCmd(c),
	)
	return root
}

// open loads the configuration and builds the store, tracker and service.
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := model.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.dbPath != "" {
		cfg.Store.Path = c.dbPath
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	c.cfg = cfg

	c.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	c.styles = theme.For(model.Theme(cfg.Display.Theme))

	c.store, err = store.NewSQLiteStore(cfg.Store.Path,
		store.WithBusyTimeout(cfg.Store.BusyTimeout),
		store.WithMaxReadConns(cfg.Store.MaxReadConns),
	)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	tr := tracker.New(c.store, c.logger)
	c.svc = service.New(tr, c.logger, cfg.OperationTimeout)
	return nil
}

func (c *cli) close() {
	if c.store == nil {
		return
	}
	if err := c.store.Close(); err != nil {
		c.logger.Error("closing store", slog.String("error", err.Error()))
	}
	c.store = nil
}

var errNotLoggedIn = errors.New("not logged in: run `tracker login --remember` or pass --user")

// actingUser resolves --user, falling back to the remembered session, and
// switches the styles to the user's theme.
func (c *cli) actingUser(cmd *cobra.Command) (*model.User, error) {
	ctx := cmd.Context()

	var (
		u   *model.User
		err error
	)
	if c.username != "" {
		u, err = c.svc.GetUserByUsername(ctx, c.username)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no user named %q", c.username)
		}
	} else {
		u, err = c.svc.ResumeSession(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotLoggedIn
		}
	}
	if err != nil {
		return nil, err
	}

	c.styles = theme.For(u.Theme)
	return u, nil
}

func (c *cli) today() string {
	return time.Now().UTC().Format(model.DateLayout)
}

func (c *cli) printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}
