package main

import (
	"context"
	"fmt"

	"github.com/amoylab/npipe-admin/internal/console"
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/spf13/cobra"
)

var tunnels = listCommands[proto.Tunnel]{
	schema: console.TunnelSchema,
	header: "ID\tSOURCE\tENDPOINT\tENABLED\tSENDER\tRECEIVER\tDESCRIPTION",
	row: func(t proto.Tunnel) string {
		return fmt.Sprintf("%d\t%s\t%s\t%t\t%d\t%d\t%s",
			t.ID, t.Source, t.Endpoint, t.Enabled, t.Sender, t.Receiver, t.Description)
	},
}

// tunnel collects the flags shared by add and update
var tunnel proto.Tunnel

var (
	tunnelsCmd = &cobra.Command{
		Use:   "tunnels",
		Short: "Manage tunnels",
	}

	tunnelsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List tunnels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				return tunnels.list(ctx, cmd.OutOrStdout(), c, pageFlag(cmd))
			})
		},
	}

	tunnelsAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a tunnel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				req := proto.TunnelAddReq{
					Source:      tunnel.Source,
					Endpoint:    tunnel.Endpoint,
					Enabled:     proto.BoolFlag(tunnel.Enabled),
					Sender:      tunnel.Sender,
					Receiver:    tunnel.Receiver,
					Description: tunnel.Description,
				}
				if err := tunnels.add(ctx, c, req); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tunnel %s -> %s added\n", tunnel.Source, tunnel.Endpoint)
				return nil
			})
		},
	}

	tunnelsUpdateCmd = &cobra.Command{
		Use:   "update <id>",
		Short: "Update a tunnel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				item := tunnel
				item.ID = id
				if err := tunnels.update(ctx, c, item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tunnel %d updated\n", id)
				return nil
			})
		},
	}

	tunnelsRemoveCmd = &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a tunnel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client) error {
				if err := tunnels.remove(ctx, c, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tunnel %d removed\n", id)
				return nil
			})
		},
	}
)

func init() {
	tunnelsListCmd.Flags().Uint32("page", 1, "page to show, starting at 1")
	for _, cmd := range []*cobra.Command{tunnelsAddCmd, tunnelsUpdateCmd} {
		f := cmd.Flags()
		f.StringVar(&tunnel.Source, "source", "", "listen address on the sender side")
		f.StringVar(&tunnel.Endpoint, "endpoint", "", "address the receiver connects to")
		f.BoolVar(&tunnel.Enabled, "enabled", true, "whether the tunnel is active")
		f.Uint32Var(&tunnel.Sender, "sender", 0, "id of the sending player")
		f.Uint32Var(&tunnel.Receiver, "receiver", 0, "id of the receiving player")
		f.StringVar(&tunnel.Description, "description", "", "free text shown in listings")
		_ = cmd.MarkFlagRequired("source")
		_ = cmd.MarkFlagRequired("endpoint")
	}
	tunnelsCmd.AddCommand(tunnelsListCmd, tunnelsAddCmd, tunnelsUpdateCmd, tunnelsRemoveCmd)
}
