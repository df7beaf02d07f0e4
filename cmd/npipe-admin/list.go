package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/console"
	"github.com/spf13/cobra"
)

// listCommands builds the list, add, update and remove subcommands shared by
// every paginated list
type listCommands[T any] struct {
	schema console.ListSchema[T]
	header string
	row    func(T) string
}

func (l listCommands[T]) open(c *client) (*console.ListPage[T], error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	return console.NewListPage(c.app, l.schema), nil
}

func (l listCommands[T]) list(ctx context.Context, out io.Writer, c *client, page uint32) error {
	p, err := l.open(c)
	if err != nil {
		return err
	}
	p.GoTo(page)
	err = c.wait(ctx, func() bool {
		return (p.Loaded() && !p.Busy()) || p.ListErr() != ""
	})
	if err != nil {
		return err
	}
	if msg := p.ListErr(); msg != "" {
		return fmt.Errorf("failed to list %s: %s", l.schema.Name, msg)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, l.header)
	for _, item := range p.Items() {
		fmt.Fprintln(w, l.row(item))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "page %d/%d, %d %s\n", p.Page()+1, p.PageCount(), p.Total(), l.schema.Name)
	return nil
}

func (l listCommands[T]) add(ctx context.Context, c *client, req any) error {
	p, err := l.open(c)
	if err != nil {
		return err
	}
	if err := p.Add(req); err != nil {
		return err
	}
	if err := c.wait(ctx, func() bool { return p.AddStatus().State != console.RowWait }); err != nil {
		return err
	}
	if st := p.AddStatus(); st.State == console.RowError {
		return fmt.Errorf("failed to add to %s: %s", l.schema.Name, st.Err)
	}
	return nil
}

func (l listCommands[T]) update(ctx context.Context, c *client, item T) error {
	p, err := l.open(c)
	if err != nil {
		return err
	}
	if err := p.Update(item); err != nil {
		return err
	}
	return l.waitRow(ctx, c, p, l.schema.ID(item), cnst.ActionUpdate)
}

func (l listCommands[T]) remove(ctx context.Context, c *client, id uint32) error {
	p, err := l.open(c)
	if err != nil {
		return err
	}
	if err := p.Remove(id); err != nil {
		return err
	}
	return l.waitRow(ctx, c, p, id, cnst.ActionRemove)
}

func (l listCommands[T]) waitRow(ctx context.Context, c *client, p *console.ListPage[T], id uint32, action cnst.ActionType) error {
	err := c.wait(ctx, func() bool { return p.RowStatus(id, action).State != console.RowWait })
	if err != nil {
		return err
	}
	if st := p.RowStatus(id, action); st.State == console.RowError {
		return fmt.Errorf("%s of %d failed: %s", action, id, st.Err)
	}
	return nil
}

func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return uint32(id), nil
}

func pageFlag(cmd *cobra.Command) uint32 {
	n, _ := cmd.Flags().GetUint32("page")
	if n == 0 {
		return 0
	}
	return n - 1
}
