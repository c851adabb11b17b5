package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aalemi-dev/tracewire/auth"
	"github.com/aalemi-dev/tracewire/panel"
)

var errNotLoggedIn = errors.New("not logged in; run tracedemo login first")

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, func(ctx context.Context, c client) error {
				if _, err := c.Auth.Login(ctx, email, password); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "[auth] logged in")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email.")
	cmd.Flags().StringVar(&password, "password", "", "Account password.")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(flags *rootFlags) *cobra.Command {
	var (
		req auth.RegisterRequest
		age int
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("age") {
				req.Age = &age
			}
			return withClient(cmd, flags, func(ctx context.Context, c client) error {
				if _, err := c.Auth.Register(ctx, req); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "[auth] registered and logged in")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name.")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email.")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password.")
	cmd.Flags().IntVar(&age, "age", 0, "Optional age.")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, func(ctx context.Context, c client) error {
				c.Auth.Logout(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "[auth] logged out")
				return nil
			})
		},
	}
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session token is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, func(ctx context.Context, c client) error {
				state := "logged out"
				if c.Auth.LoggedIn() {
					state = "logged in"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[auth] %s\n[ws] %s\n", state, c.WS.Endpoint())
				return nil
			})
		},
	}
}

func newWSCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ws",
		Short: "Open the interactive WebSocket panel",
		Long: "Reads panel commands from stdin: connect, disconnect, ping, work [ms],\n" +
			"boom, logout, help and quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, func(ctx context.Context, c client) error {
				if !c.Auth.LoggedIn() {
					return errNotLoggedIn
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()

				p := panel.New(cmd.OutOrStdout(), c.WS, c.Auth)
				c.WS.WithHandlers(p.Handlers())

				err := p.Run(ctx, cmd.InOrStdin())
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}
