package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/npipe-admin/internal/console"
	"github.com/amoylab/npipe-admin/internal/resource"
	"github.com/spf13/cobra"
)

var (
	username string
	password string

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in to the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				return login(ctx, cmd, c)
			})
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				if !c.app.Authenticated() {
					fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
					return nil
				}
				c.app.RequestLogout()
				if err := c.run(ctx, func() bool { return !c.app.Authenticated() }); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}

	testAuthCmd = &cobra.Command{
		Use:   "test-auth",
		Short: "Check whether the saved session is still valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				if err := c.requireLogin(); err != nil {
					return err
				}
				slot := c.app.TestAuth()
				if err := c.wait(ctx, slot.Ready); err != nil {
					return err
				}
				res := slot.Resource()
				if res.Result.Kind == resource.KindError {
					return fmt.Errorf("session check failed: %w", res.Result.Err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "session of %s is valid\n", c.username)
				return nil
			})
		},
	}
)

func init() {
	loginCmd.Flags().StringVarP(&username, "username", "u", "admin", "admin username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
}

func login(ctx context.Context, cmd *cobra.Command, c *client) error {
	if c.app.Authenticated() {
		c.app.Logout()
	}

	page := console.NewLoginPage(c.app)
	if err := page.Submit(username, password); err != nil {
		return err
	}
	err := c.run(ctx, func() bool {
		return c.app.Authenticated() || (!page.Waiting() && page.Err() != "")
	})
	if err != nil {
		return err
	}
	if !c.app.Authenticated() {
		return errors.New(page.Err())
	}

	c.username = username
	fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", username)
	return nil
}
