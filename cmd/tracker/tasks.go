package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
	"github.com/nhle/productivity-tracker/internal/theme"
)

func newTaskCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(c),
		newTaskListCmd(c),
		newTaskUpdateCmd(c),
		newTaskDoneCmd(c),
		newTaskRmCmd(c),
		newTaskSearchCmd(c),
	)
	return cmd
}

func milestoneDrafts(titles []string) []model.MilestoneDraft {
	drafts := make([]model.MilestoneDraft, 0, len(titles))
	for _, title := range titles {
		drafts = append(drafts, model.MilestoneDraft{Title: title})
	}
	return drafts
}

func newTaskAddCmd(c *cli) *cobra.Command {
	var description, priority, due string
	var milestones []string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task, optionally with milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			created, err := c.svc.CreateTask(cmd.Context(), u.ID, model.TaskDraft{
				Title:       args[0],
				Description: description,
				Priority:    model.Priority(priority),
				DueDate:     due,
			}, milestoneDrafts(milestones))
			if err != nil {
				return err
			}
			c.printf(cmd, "%s created task #%d", c.styles.Success.Render("✓"), created.TaskID)
			if n := len(created.MilestoneIDs); n > 0 {
				c.printf(cmd, " with %d milestone(s)", n)
			}
			c.printf(cmd, "\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high (default medium)")
	cmd.Flags().StringVar(&due, "due", "", "Due date, YYYY-MM-DD")
	cmd.Flags().StringArrayVarP(&milestones, "milestone", "m", nil, "Milestone title (repeatable)")
	return cmd
}

func newTaskListCmd(c *cli) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with their milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			tasks, err := c.svc.GetTasksWithMilestones(cmd.Context(), u.ID)
			if err != nil {
				return err
			}

			c.printf(cmd, "%s\n", c.styles.Header.Render("Tasks of "+u.Username))
			shown := 0
			for _, task := range tasks {
				if pendingOnly && task.Completed {
					continue
				}
				shown++
				renderTask(cmd.OutOrStdout(), c.styles, task.Task, c.today())
				for _, m := range task.Milestones {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s #%d %s\n", theme.Checkbox(m.Completed), m.ID, m.Title)
				}
			}
			if shown == 0 {
				c.printf(cmd, "%s\n", c.styles.Help.Render("no tasks"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Hide completed tasks")
	return cmd
}

func renderTask(w io.Writer, styles theme.Styles, task model.Task, today string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d %s", theme.Checkbox(task.Completed), task.ID, task.Title)
	line := styles.Task(task, today).Render(b.String())

	line += " " + styles.Priority(task.Priority).Render(string(task.Priority))
	if task.DueDate != "" {
		due := "due " + task.DueDate
		if task.IsOverdue(today) {
			due = styles.Overdue.Render(due + " (overdue)")
		}
		line += " " + due
	}
	fmt.Fprintln(w, line)
	if task.Description != "" {
		fmt.Fprintf(w, "    %s\n", styles.Help.Render(task.Description))
	}
}

// ownTask loads a task and hides it when it belongs to someone else.
func (c *cli) ownTask(cmd *cobra.Command, userID int64, arg string) (*model.Task, error) {
	id, err := parseID("task", arg)
	if err != nil {
		return nil, err
	}
	task, err := c.svc.GetTask(cmd.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil || task.UserID != userID {
		return nil, fmt.Errorf("task #%d: %w", id, store.ErrNotFound)
	}
	return task, nil
}

func newTaskUpdateCmd(c *cli) *cobra.Command {
	var title, description, priority, due string
	var done bool
	var milestones []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			task, err := c.ownTask(cmd, u.ID, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			patch := model.TaskPatch{AddMilestones: milestoneDrafts(milestones)}
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("priority") {
				p := model.Priority(priority)
				patch.Priority = &p
			}
			if flags.Changed("due") {
				patch.DueDate = &due
			}
			if flags.Changed("done") {
				patch.Completed = &done
			}

			updated, err := c.svc.UpdateTask(cmd.Context(), task.ID, patch)
			if err != nil {
				return err
			}
			renderTask(cmd.OutOrStdout(), c.styles, *updated, c.today())
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "New title")
	flags.StringVarP(&description, "description", "d", "", "New description")
	flags.StringVarP(&priority, "priority", "p", "", "low, medium or high")
	flags.StringVar(&due, "due", "", "New due date, YYYY-MM-DD, empty to clear")
	flags.BoolVar(&done, "done", false, "Mark completed (--done=false reopens)")
	flags.StringArrayVarP(&milestones, "milestone", "m", nil, "Attach a new milestone (repeatable)")
	return cmd
}

func newTaskDoneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			task, err := c.ownTask(cmd, u.ID, args[0])
			if err != nil {
				return err
			}
			completed := true
			if _, err := c.svc.UpdateTask(cmd.Context(), task.ID, model.TaskPatch{Completed: &completed}); err != nil {
				return err
			}
			c.printf(cmd, "%s completed #%d %s\n", c.styles.Success.Render("✓"), task.ID, task.Title)
			return nil
		},
	}
}

func newTaskRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its milestones",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			task, err := c.ownTask(cmd, u.ID, args[0])
			if err != nil {
				return err
			}
			if err := c.svc.DeleteTask(cmd.Context(), task.ID); err != nil {
				return err
			}
			c.printf(cmd, "deleted task #%d %s\n", task.ID, task.Title)
			return nil
		},
	}
}

func newTaskSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find tasks by title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			tasks, err := c.svc.SearchTasks(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				c.printf(cmd, "%s\n", c.styles.Help.Render("no matches"))
				return nil
			}
			for _, task := range tasks {
				renderTask(cmd.OutOrStdout(), c.styles, task, c.today())
			}
			return nil
		},
	}
}
