package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nhle/productivity-tracker/internal/model"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise tasks and milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			stats, err := c.svc.GetTaskStatistics(cmd.Context(), u.ID)
			if err != nil {
				return err
			}

			label := c.styles.Label.Render
			body := fmt.Sprintf("%s %d (%d completed, %d pending, %s)\n%s %d (%d completed)\n%s %.1f%%",
				label("tasks:     "), stats.TotalTasks, stats.CompletedTasks, stats.PendingTasks,
				c.styles.Overdue.Render(fmt.Sprintf("%d overdue", stats.OverdueTasks)),
				label("milestones:"), stats.TotalMilestones, stats.CompletedMilestones,
				label("completion:"), stats.CompletionRate,
			)
			c.printf(cmd, "%s\n%s\n", c.styles.Header.Render("Statistics"), c.styles.Border.Render(body))
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the acting user's data to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			data, err := c.svc.ExportUserData(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding export: %w", err)
			}
			if err := os.WriteFile(args[0], raw, 0o600); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			c.printf(cmd, "%s exported %d task(s) and %d milestone(s) to %s\n",
				c.styles.Success.Render("✓"), len(data.Tasks), len(data.Milestones), args[0])
			return nil
		},
	}
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a user from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading import: %w", err)
			}
			var data model.UserExport
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("decoding import %s: %w", args[0], err)
			}
			if err := c.svc.ImportUserData(cmd.Context(), &data); err != nil {
				return err
			}
			c.printf(cmd, "%s imported %s with %d task(s) and %d milestone(s)\n",
				c.styles.Success.Render("✓"), data.User.Username, len(data.Tasks), len(data.Milestones))
			return nil
		},
	}
}

func newDoctorCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Show configuration and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			counts, err := c.store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			c.printf(cmd, "%s\n", c.styles.Header.Render("tracker doctor"))
			c.printf(cmd, "%s %s\n", c.styles.Label.Render("config:  "), c.configPath)
			c.printf(cmd, "%s %s\n", c.styles.Label.Render("database:"), c.store.Path())
			c.printf(cmd, "%s %s\n", c.styles.Label.Render("timeout: "), c.cfg.OperationTimeout)

			tables := make([]string, 0, len(counts))
			for table := range counts {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				c.printf(cmd, "  %-20s %d\n", table, counts[table])
			}

			session, ok, err := c.svc.GetRememberedSession(cmd.Context())
			switch {
			case err != nil:
				return err
			case ok:
				c.printf(cmd, "remembered session: user #%d\n", session.UserID)
			default:
				c.printf(cmd, "remembered session: none\n")
			}
			return nil
		},
	}
}
