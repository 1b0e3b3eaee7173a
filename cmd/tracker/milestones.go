package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
	"github.com/nhle/productivity-tracker/internal/theme"
)

func newMilestoneCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestone",
		Aliases: []string{"ms"},
		Short:   "Manage milestones",
	}
	cmd.AddCommand(
		newMilestoneAddCmd(c),
		newMilestoneListCmd(c),
		newMilestoneRmCmd(c),
	)
	return cmd
}

func newMilestoneAddCmd(c *cli) *cobra.Command {
	var description, due, taskArg string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a milestone, standalone or attached with --task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			m := model.Milestone{
				UserID:      u.ID,
				Title:       args[0],
				Description: description,
				DueDate:     due,
			}
			if taskArg != "" {
				taskID, err := parseID("task", taskArg)
				if err != nil {
					return err
				}
				m.TaskID = &taskID
			}
			id, err := c.svc.CreateMilestone(cmd.Context(), m)
			if err != nil {
				return err
			}
			c.printf(cmd, "%s created milestone #%d\n", c.styles.Success.Render("✓"), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Milestone description")
	cmd.Flags().StringVar(&due, "due", "", "Due date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&taskArg, "task", "t", "", "Attach to this task id")
	return cmd
}

func newMilestoneListCmd(c *cli) *cobra.Command {
	var unassigned bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			list := c.svc.GetMilestones
			if unassigned {
				list = c.svc.GetUnassignedMilestones
			}
			milestones, err := list(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			if len(milestones) == 0 {
				c.printf(cmd, "%s\n", c.styles.Help.Render("no milestones"))
				return nil
			}
			for _, m := range milestones {
				task := "unassigned"
				if m.TaskID != nil {
					task = fmt.Sprintf("task #%d", *m.TaskID)
				}
				c.printf(cmd, "%s #%d %s %s\n", theme.Checkbox(m.Completed), m.ID, m.Title, c.styles.Help.Render(task))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unassigned, "unassigned", false, "Only milestones without a task")
	return cmd
}

func newMilestoneRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			id, err := parseID("milestone", args[0])
			if err != nil {
				return err
			}
			owned, err := c.svc.GetMilestones(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			for _, m := range owned {
				if m.ID == id {
					if err := c.svc.DeleteMilestone(cmd.Context(), id); err != nil {
						return err
					}
					c.printf(cmd, "deleted milestone #%d %s\n", id, m.Title)
					return nil
				}
			}
			return fmt.Errorf("milestone #%d: %w", id, store.ErrNotFound)
		},
	}
}
