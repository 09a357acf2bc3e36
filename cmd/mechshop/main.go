// Command mechshop is a terminal client for the Cool X3 Mechanics API.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	mechshop "github.com/coolx3/mechshop-go"
	"github.com/coolx3/mechshop-go/auth"
)

func main() {
	// Missing .env is fine; the resolver has its own fallbacks.
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	var apiURL string
	var verbose bool

	root := &cobra.Command{
		Use:           "mechshop",
		Short:         "Cool X3 Mechanics shop client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (or set MECHSHOP_API_URL)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every API request")

	newClient := func() (*mechshop.Client, error) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		return mechshop.NewClient(mechshop.Config{
			BaseURL:   apiURL,
			Telemetry: mechshop.ZerologTelemetry(logger.Level(level)),
		})
	}

	root.AddCommand(newLoginCmd(newClient))
	root.AddCommand(newLogoutCmd(newClient))
	root.AddCommand(newWhoamiCmd(newClient))
	root.AddCommand(newTicketsCmd(newClient))
	root.AddCommand(newInventoryCmd(newClient))

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

type clientFactory func() (*mechshop.Client, error)

func newLoginCmd(newClient clientFactory) *cobra.Command {
	var identifier, password, roleFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("MECHSHOP_PASSWORD")
			}
			if identifier == "" {
				return fmt.Errorf("identifier is required (use --identifier)")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
			role, ok := mechshop.ParseRole(roleFlag)
			if !ok {
				return fmt.Errorf("invalid role %q (customer or mechanic)", roleFlag)
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			session, err := client.Session().Login(cmd.Context(), mechshop.Credentials{
				Identifier: identifier,
				Password:   password,
			}, role)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", session.Profile.DisplayName(), session.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "email or username")
	cmd.Flags().StringVar(&password, "password", "", "password (or set MECHSHOP_PASSWORD, prompts otherwise)")
	cmd.Flags().StringVar(&roleFlag, "role", "customer", "login role: customer or mechanic")
	return cmd
}

func newLogoutCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			client.Session().Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			session := client.Session().Bootstrap(cmd.Context())
			if session.Token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", session.Profile.DisplayName(), session.Role)
			if session.IsAdmin {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin: yes")
			}
			if auth.IsJWTLike(session.Token) {
				if claims, err := auth.Decode(session.Token); err == nil && claims.ExpiresAt != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Token expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
				}
			}
			return nil
		},
	}
}

func newTicketsCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "tickets",
		Short: "List service tickets (staff)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			if session := client.Session().Bootstrap(cmd.Context()); session.Token == "" {
				return fmt.Errorf("not logged in; run 'mechshop login' first")
			}
			tickets, err := client.Tickets.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(tickets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tickets")
				return nil
			}
			for _, tk := range tickets {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d %s %s $%.2f %s\n",
					tk.ID, tk.VIN, tk.ServiceDate, tk.Price, tk.ServiceDescription)
			}
			return nil
		},
	}
}

func newInventoryCmd(newClient clientFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory [query]",
		Short: "Browse or search shop inventory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			var items []mechshop.InventoryItem
			if len(args) == 1 {
				items, err = client.Inventory.Search(cmd.Context(), args[0])
			} else {
				items, err = client.Inventory.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s $%.2f\n", item.Name, item.Price)
			}
			return nil
		},
	}
	return cmd
}
