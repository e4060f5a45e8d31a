package cli

import (
	"github.com/spf13/cobra"
)

// NewUserCommand groups the account commands.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register users and track who is logged in",
	}
	cmd.AddCommand(newUserRegisterCommand(rootOpts))
	cmd.AddCommand(newUserLoginCommand(rootOpts))
	cmd.AddCommand(newUserLogoutCommand(rootOpts))
	cmd.AddCommand(newUserWhoamiCommand(rootOpts))
	return cmd
}

func newUserRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Auth.Register(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).User(u)
		},
	}
}

func newUserLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log a user in, logging out anyone else",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Auth.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).User(u)
		},
	}
}

func newUserLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout [username]",
		Short: "Log a user out; defaults to the logged in user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var username string
			if len(args) == 1 {
				username = args[0]
			} else {
				cur, err := a.Auth.Current(cmd.Context())
				if err != nil {
					return err
				}
				username = cur.Username
			}

			if err := a.Auth.Logout(cmd.Context(), username); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Message("logged out %s", username)
		},
	}
}

func newUserWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Auth.Current(cmd.Context())
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).User(u)
		},
	}
}
