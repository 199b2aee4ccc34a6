package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"rpclient/internal/logging"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Inspect the resolved client configuration"}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration after flags and environment are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if err := cfg.ResolveAPIKey(); err != nil {
				return err
			}
			cfg.APIKey = logging.MaskSecret(cfg.APIKey)

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return cmd
}
