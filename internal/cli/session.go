package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/myseum/pkg/session"
)

// sessionCommand creates the session command for API tokens.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Issue and revoke API tokens",
		Long: `Issue and revoke API tokens.

Sessions live in the directory set by server.sessions in the config file
and are read by "myseum serve". Clients send the token as
"Authorization: Bearer <token>".`,
	}

	cmd.AddCommand(c.sessionNewCommand())
	cmd.AddCommand(c.sessionRevokeCommand())
	cmd.AddCommand(c.sessionCleanupCommand())

	return cmd
}

func (c *CLI) sessionNewCommand() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "new <user>",
		Short: "Create a session for a user and print its token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessions()
			if err != nil {
				return err
			}
			sess, err := session.New(args[0], ttl)
			if err != nil {
				return err
			}
			if err := store.Set(cmd.Context(), sess); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("session created", "user", sess.UserID, "dir", store.Path())
			fmt.Fprintln(stdout, sess.ID)
			printDetail("user %s, expires %s", sess.UserID, sess.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", session.DefaultTTL, "token lifetime")
	return cmd
}

func (c *CLI) sessionRevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessions()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Revoked token")
			return nil
		},
	}
}

func (c *CLI) sessionCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessions()
			if err != nil {
				return err
			}
			if err := store.Cleanup(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Removed expired sessions")
			return nil
		},
	}
}
