package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spec-kit/miniticket/pkg/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIBase     string
	SessionFile string
}

// NewRootCommand creates the root command for the ticketctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "ticketctl",
		Short:         "ticketctl - command-line client for the miniticket API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.APIBase, "api", defaultAPIBase(), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", defaultSessionFile(), "path to the session file")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSetStatusCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// newClient builds an API client with the session file store.
func (o *RootOptions) newClient() *client.Client {
	return client.New(o.APIBase, client.WithStore(client.NewFileStore(o.SessionFile)))
}

// restoredClient builds a client and restores the stored session,
// reporting whether one was live.
func (o *RootOptions) restoredClient() (*client.Client, bool, error) {
	c := o.newClient()
	ok, err := c.Restore()
	return c, ok, err
}

func defaultAPIBase() string {
	if base := os.Getenv("TICKET_API_BASE"); base != "" {
		return base
	}
	return "http://localhost:8080"
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ticketctl", "session.json")
}
