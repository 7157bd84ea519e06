package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"assettracker/internal/core/logger"
	"assettracker/internal/dashboard"
	"assettracker/pkg/client"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets through the HTTP API",
	}
	cmd.PersistentFlags().String("api-url", "", "API base URL (default: $ASSET_API_URL or "+client.DefaultBaseURL+")")
	cmd.PersistentFlags().String("token", "", "Bearer token (default: $ASSET_API_TOKEN)")

	cmd.AddCommand(
		newAssetsListCmd(),
		newAssetsAddCmd(),
		newAssetsCheckoutCmd(),
		newAssetsCheckinCmd(),
		newAssetsDeleteCmd(),
		newAssetsHistoryCmd(),
	)

	return cmd
}

func newAPIClient(cmd *cobra.Command) *client.Client {
	apiURL, _ := cmd.Flags().GetString("api-url")
	token, _ := cmd.Flags().GetString("token")

	return client.NewFromEnv(client.WithBaseURL(apiURL), client.WithToken(token))
}

func newController(cmd *cobra.Command) *dashboard.Controller {
	errOut := cmd.ErrOrStderr()
	notifier := dashboard.NotifierFunc(func(n dashboard.Notification) {
		if n.Level == dashboard.LevelError {
			fmt.Fprintln(errOut, "error:", n.Message)
			return
		}
		fmt.Fprintln(errOut, n.Message)
	})

	return dashboard.NewController(newAPIClient(cmd), notifier, logger.NewLogger().WithOptions(zap.IncreaseLevel(zap.ErrorLevel)))
}

func render(cmd *cobra.Command, c *dashboard.Controller) error {
	return dashboard.Render(cmd.OutOrStdout(), c.State())
}

func newAssetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show stats and all assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newController(cmd)
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			return render(cmd, c)
		},
	}
}

func newAssetsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new asset in the warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			description, _ := cmd.Flags().GetString("description")
			serial, _ := cmd.Flags().GetString("serial")

			c := newController(cmd)
			if err := c.Add(cmd.Context(), description, serial); err != nil {
				return err
			}
			return render(cmd, c)
		},
	}
	cmd.Flags().String("description", "", "Asset description")
	cmd.Flags().String("serial", "", "Asset serial number")

	return cmd
}

func newAssetsCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout <id>",
		Short: "Check an asset out to a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, _ := cmd.Flags().GetString("location")

			c := newController(cmd)
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			if err := c.Checkout(cmd.Context(), args[0], location); err != nil {
				return err
			}
			return render(cmd, c)
		},
	}
	cmd.Flags().String("location", "", "Where the asset goes")

	return cmd
}

func newAssetsCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <id>",
		Short: "Return an asset to the warehouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newController(cmd)
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			if err := c.Checkin(cmd.Context(), args[0]); err != nil {
				return err
			}
			return render(cmd, c)
		},
	}
}

func newAssetsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			c := newController(cmd)
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			if err := c.RequestDelete(args[0]); err != nil {
				return err
			}

			confirmed := yes
			if !confirmed {
				if !isTerminal() {
					c.CancelDelete()
					return errors.New("refusing to delete without confirmation, pass --yes")
				}
				var err error
				confirmed, err = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete asset %s permanently? [y/N]: ", args[0]))
				if err != nil {
					c.CancelDelete()
					return err
				}
			}

			if !confirmed {
				c.CancelDelete()
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := c.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			return render(cmd, c)
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newAssetsHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the audit trail of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := newAPIClient(cmd).AssetHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tACTION\tACTOR\tSTATUS\tLOCATION")
			for _, entry := range history {
				actor := "-"
				if entry.Actor != nil {
					actor = *entry.Actor
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%v\n",
					entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action, actor,
					valueOr(entry.Data["status"]), valueOr(entry.Data["location"]))
			}
			return tw.Flush()
		},
	}
}

func valueOr(v interface{}) interface{} {
	if v == nil {
		return "-"
	}
	return v
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
