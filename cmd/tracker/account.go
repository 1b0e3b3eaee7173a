package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/service"
	"github.com/nhle/productivity-tracker/internal/theme"
)

// readPassword returns the --password flag, or the first line of stdin when
// the flag is empty.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return "", errors.New("password required: pass --password or pipe it on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}

func newSignupCmd(c *cli) *cobra.Command {
	var email, fullName, password, themeName string

	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			id, err := c.svc.CreateUser(cmd.Context(), model.User{
				Username: args[0],
				Email:    email,
				Password: pw,
				FullName: fullName,
				Theme:    model.Theme(themeName),
			})
			if err != nil {
				return err
			}
			c.printf(cmd, "%s created user %s (#%d)\n", c.styles.Success.Render("✓"), args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	cmd.Flags().StringVar(&themeName, "theme", "", "Display theme: light or dark")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login <username|email>",
		Short: "Log in, optionally remembering the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			u, err := c.svc.Login(cmd.Context(), args[0], pw, remember)
			if errors.Is(err, service.ErrInvalidCredentials) {
				return errors.New("unknown user or wrong password")
			}
			if err != nil {
				return err
			}
			c.styles = theme.For(u.Theme)
			c.printf(cmd, "%s welcome, %s (login #%d)\n", c.styles.Success.Render("✓"), displayName(u), u.LoginCount)
			if remember {
				c.printf(cmd, "%s\n", c.styles.Help.Render("session remembered until logout"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	cmd.Flags().BoolVar(&remember, "remember", false, "Remember this login for later commands")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.svc.Logout(cmd.Context()); err != nil {
				return err
			}
			c.printf(cmd, "logged out\n")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the acting user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}

			lastLogin := "never"
			if u.LastLogin != nil {
				lastLogin = u.LastLogin.Local().Format("2006-01-02 15:04")
			}
			lines := []string{
				c.styles.Header.Render(displayName(u)),
				fmt.Sprintf("%s %s", c.styles.Label.Render("username:"), u.Username),
				fmt.Sprintf("%s %s", c.styles.Label.Render("email:   "), u.Email),
				fmt.Sprintf("%s %s", c.styles.Label.Render("theme:   "), u.Theme),
				fmt.Sprintf("%s %d (last %s)", c.styles.Label.Render("logins:  "), u.LoginCount, lastLogin),
			}
			c.printf(cmd, "%s\n", c.styles.Border.Render(strings.Join(lines, "\n")))
			return nil
		},
	}
}

func newThemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme <light|dark>",
		Short:     "Change the display theme of the acting user",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			next := model.Theme(args[0])
			if err := c.svc.UpdateUserTheme(cmd.Context(), u.ID, next); err != nil {
				return err
			}
			u.Theme = next
			c.styles = theme.For(u.Theme)
			c.printf(cmd, "%s theme set to %s\n", c.styles.Success.Render("✓"), next)
			return nil
		},
	}
}

func newDeleteAccountCmd(c *cli) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the acting user with all tasks and milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.actingUser(cmd)
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("refusing to delete %s without --yes", u.Username)
			}
			if err := c.svc.DeleteUser(cmd.Context(), u.ID); err != nil {
				return err
			}
			c.printf(cmd, "deleted account %s\n", u.Username)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the deletion")
	return cmd
}

func displayName(u *model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
