package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rpclient/internal/logging"
	"rpclient/pkg/rp"
)

const envPrefix = "RP_CLIENT"

// cli carries the settings shared by every subcommand. Values come from
// flags, RP_CLIENT_* environment variables and the --config file, in that
// order of precedence.
type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "rpreport",
		Short: "Report launches, test items and logs to ReportPortal",
		Long: "rpreport drives the ReportPortal reporting API from scripts and CI jobs:\n" +
			"start and finish launches and test items, add logs and upload attachments.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.ParseLevel(c.v.GetString("log-level")), c.v.GetString("log-format"), cmd.ErrOrStderr())
		},
	}

	f := root.PersistentFlags()
	f.String("config", "", "Path to a YAML config file")
	f.String("endpoint", "", "ReportPortal base URL")
	f.String("project", "", "ReportPortal project")
	f.String("api-key", "", "ReportPortal API key")
	f.String("api-key-file", "", "Path to a file holding the API key")
	f.Duration("connect-timeout", rp.DefaultConnectTimeout, "TCP connect timeout")
	f.Duration("socket-timeout", rp.DefaultSocketTimeout, "Response timeout")
	f.String("log-level", "warn", "Log level: debug, info, warn, error")
	f.String("log-format", "text", "Log format: text or json")
	for _, name := range []string{
		"config", "endpoint", "project", "api-key", "api-key-file",
		"connect-timeout", "socket-timeout", "log-level", "log-format",
	} {
		_ = c.v.BindPFlag(name, f.Lookup(name))
	}

	root.AddCommand(c.launchCmd())
	root.AddCommand(c.itemCmd())
	root.AddCommand(c.logCmd())
	root.AddCommand(c.attachCmd())
	root.AddCommand(c.configCmd())
	return root
}

// config resolves the client settings. The config file is the base layer;
// flags and environment override individual fields.
func (c *cli) config() (rp.Config, error) {
	cfg := rp.DefaultConfig()
	if path := c.v.GetString("config"); path != "" {
		loaded, err := rp.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if s := c.v.GetString("endpoint"); s != "" {
		cfg.Endpoint = s
	}
	if s := c.v.GetString("project"); s != "" {
		cfg.Project = s
	}
	if s := c.v.GetString("api-key"); s != "" {
		cfg.APIKey = s
	}
	if s := c.v.GetString("api-key-file"); s != "" {
		cfg.APIKeyFile = s
	}
	if c.v.IsSet("connect-timeout") {
		cfg.Connection.ConnectTimeout = c.v.GetDuration("connect-timeout")
	}
	if c.v.IsSet("socket-timeout") {
		cfg.Connection.SocketTimeout = c.v.GetDuration("socket-timeout")
	}
	return cfg, nil
}

func (c *cli) client() (*rp.Client, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolveAPIKey(); err != nil {
		return nil, err
	}
	client, err := rp.New(cfg, rp.WithLogger(logging.New("rp")))
	if err != nil {
		return nil, fmt.Errorf("create RP client: %w", err)
	}
	return client, nil
}

// parseTime accepts RFC 3339 or epoch milliseconds. Empty means now.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or epoch milliseconds", s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
