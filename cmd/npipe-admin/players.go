package main

import (
	"context"
	"fmt"

	"github.com/amoylab/npipe-admin/internal/console"
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/spf13/cobra"
)

var players = listCommands[proto.Player]{
	schema: console.PlayerSchema,
	header: "ID\tUSERNAME\tONLINE",
	row: func(p proto.Player) string {
		return fmt.Sprintf("%d\t%s\t%t", p.ID, p.Username, p.Online)
	},
}

var (
	playerUsername string
	playerPassword string

	playersCmd = &cobra.Command{
		Use:   "players",
		Short: "Manage players",
	}

	playersListCmd = &cobra.Command{
		Use:   "list",
		Short: "List players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				return players.list(ctx, cmd.OutOrStdout(), c, pageFlag(cmd))
			})
		},
	}

	playersAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				req := proto.PlayerAddReq{Username: playerUsername, Password: playerPassword}
				if err := players.add(ctx, c, req); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "player %s added\n", playerUsername)
				return nil
			})
		},
	}

	playersUpdateCmd = &cobra.Command{
		Use:   "update <id>",
		Short: "Update a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				item := proto.Player{ID: id, Username: playerUsername, Password: playerPassword}
				if err := players.update(ctx, c, item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "player %d updated\n", id)
				return nil
			})
		},
	}

	playersRemoveCmd = &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				if err := players.remove(ctx, c, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "player %d removed\n", id)
				return nil
			})
		},
	}
)

func init() {
	playersListCmd.Flags().Uint32("page", 1, "page to show, starting at 1")
	for _, cmd := range []*cobra.Command{playersAddCmd, playersUpdateCmd} {
		cmd.Flags().StringVar(&playerUsername, "username", "", "player username")
		cmd.Flags().StringVar(&playerPassword, "password", "", "player password")
		_ = cmd.MarkFlagRequired("username")
		_ = cmd.MarkFlagRequired("password")
	}
	playersCmd.AddCommand(playersListCmd, playersAddCmd, playersUpdateCmd, playersRemoveCmd)
}
