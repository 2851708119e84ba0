package cli

import (
	"bufio"
	"io"
	"time"

	"github.com/dmitrijs2005/seniko/internal/client/client"
	"github.com/dmitrijs2005/seniko/internal/client/config"
	"github.com/spf13/cobra"
)

// App is the state shared by all subcommands.
type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

// globalFlags mirror the persistent flags; they are applied over JSON and
// environment only when set explicitly.
type globalFlags struct {
	configFile string
	server     string
	timeout    time.Duration
}

// NewRootCmd creates the root command for the SeNiko CLI reading prompts
// from in and writing results to out.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	app := &App{config: cfg, reader: bufio.NewReader(in), out: out}
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "seniko",
		Short: "SeNiko - register and log in against a SeNiko server",
		Long: `seniko is the command-line client of the SeNiko authentication
service. It registers accounts, logs in and inspects issued tokens.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.configure(cmd, flags)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "JSON config file path")
	cmd.PersistentFlags().StringVar(&flags.server, "server", "", "base URL of the SeNiko server")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "request timeout")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newMeCmd(app))

	return cmd
}

func (a *App) configure(cmd *cobra.Command, flags *globalFlags) error {
	if flags.configFile != "" {
		if err := config.LoadJSON(a.config, flags.configFile); err != nil {
			return err
		}
	}
	a.config.ApplyEnv()
	if cmd.Flags().Changed("server") {
		a.config.ServerURL = flags.server
	}
	if cmd.Flags().Changed("timeout") {
		a.config.Timeout = flags.timeout
	}

	if a.client == nil {
		a.client = client.NewHTTPClient(a.config.ServerURL, a.config.Timeout)
	}
	return nil
}
