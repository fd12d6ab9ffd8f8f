package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophwallet/internal/client/config"
	"github.com/dmitrijs2005/gophwallet/internal/client/routing"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

// NewRootCommand builds the gophwallet command tree. Running the root
// command without a subcommand starts the shell. Extra dial options are
// passed to the account client.
func NewRootCommand(dialOpts ...grpc.DialOption) *cobra.Command {
	var flags config.Flags

	// openApp resolves the configuration of cmd and builds the App.
	openApp := func(cmd *cobra.Command) (*App, error) {
		cfg, err := flags.Load(cmd.Flags())
		if err != nil {
			return nil, err
		}
		logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		return NewApp(cmd.Context(), cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout(), dialOpts...)
	}

	runShell := func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return app.Shell(cmd.Context())
	}

	root := &cobra.Command{
		Use:           "gophwallet",
		Short:         "Wallet client shell",
		Long:          `gophwallet is a terminal rendition of the wallet app: onboarding, email verification, passcode login and the wallet tabs, with the same routing rules as the mobile client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}
	flags.Bind(root.PersistentFlags())

	shell := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}

	var at string
	route := &cobra.Command{
		Use:   "route",
		Short: "Print where the app would send the user from a location",
		Long: `Mount the route guard at the given location, the way a cold start would,
and print the redirect target or "stay".

Examples:
  gophwallet route --at "/(tabs)/wallet"
  gophwallet route --at /verify-email --db ./wallet.db
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			d, redirected, err := app.Route(cmd.Context(), at)
			if err != nil {
				return err
			}
			if redirected {
				fmt.Fprintln(cmd.OutOrStdout(), d.Target)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "stay")
			}
			return nil
		},
	}
	route.Flags().StringVar(&at, "at", routing.RouteWelcome, "location href")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the local session and the welcome flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "local data wiped")
			return nil
		},
	}

	root.AddCommand(shell, route, reset)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
