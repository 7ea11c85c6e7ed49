package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/miniticket/pkg/client"
)

var errNotLoggedIn = errors.New("not logged in; run `ticketctl login` first")

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok, err := rootOpts.restoredClient()
			if err != nil {
				return err
			}
			if !ok {
				return errNotLoggedIn
			}
			ticket, err := c.CreateTicket(cmd.Context(), title, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created ticket %s (%s)\n", ticket.ID, ticket.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "ticket title")
	cmd.Flags().StringVar(&description, "description", "", "ticket description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tickets (all tickets with owner info for admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok, err := rootOpts.restoredClient()
			if err != nil {
				return err
			}
			if !ok {
				return errNotLoggedIn
			}
			tickets, err := c.ListTickets(cmd.Context())
			if err != nil {
				return err
			}
			printTickets(cmd, tickets)
			return nil
		},
	}
}

// NewSetStatusCommand creates the set-status command.
func NewSetStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "set-status <ticket-id>",
		Short: "Change a ticket's status (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok, err := rootOpts.restoredClient()
			if err != nil {
				return err
			}
			if !ok {
				return errNotLoggedIn
			}
			ticket, err := c.UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ticket %s is now %s\n", ticket.ID, ticket.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "new status (open|inprogress|closed)")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <ticket-id>",
		Short: "Show a ticket's status changes (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok, err := rootOpts.restoredClient()
			if err != nil {
				return err
			}
			if !ok {
				return errNotLoggedIn
			}
			entries, err := c.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tFROM\tTO\tBY")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					entry.OldStatus, entry.NewStatus, entry.ChangedByID)
			}
			return w.Flush()
		},
	}
}

func printTickets(cmd *cobra.Command, tickets []client.Ticket) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tOWNER")
	for _, ticket := range tickets {
		owner := ""
		if ticket.Owner != nil {
			owner = fmt.Sprintf("%s <%s>", ticket.Owner.Name, ticket.Owner.Email)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ticket.ID, ticket.Status, ticket.Title, owner)
	}
	_ = w.Flush()
}
