package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the code generator over HTTP",
		Long: `Serve the code generator over HTTP.

Routes:
  POST /v1/generate    generate code for an inline workspace document
  GET  /v1/languages   list target languages
  GET  /healthz        liveness probe

The listen address defaults to server.addr from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, timeout time.Duration) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	defaults := c.baseOptions()
	srv := server.New(runner, loggerFromContext(ctx),
		server.WithDefaults(defaults),
		server.WithTimeout(timeout),
	)

	printInfo("Serving %s", StyleTitle.Render(appName))
	printKeyValue("Address", StyleLink.Render("http://"+displayAddr(addr)))
	printKeyValue("Cache", c.cfg.Cache.Backend)
	if defaults.Language != "" {
		printKeyValue("Language", defaults.Language)
	}

	return srv.ListenAndServe(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
