package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rpclient/pkg/rp"
)

func (c *cli) launchCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "launch", Short: "Start, finish or update a launch"}
	cmd.AddCommand(c.launchStartCmd())
	cmd.AddCommand(c.launchFinishCmd())
	cmd.AddCommand(c.launchUpdateCmd())
	return cmd
}

type launchStartFlags struct {
	name        string
	description string
	attributes  string
	mode        string
	rerunOf     string
	uuid        string
	startTime   string
}

func (c *cli) launchStartCmd() *cobra.Command {
	var flags launchStartFlags
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a launch and print its UUID and number",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTime(flags.startTime)
			if err != nil {
				return err
			}
			if flags.uuid == "" {
				flags.uuid = uuid.NewString()
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			rs, err := client.StartLaunch(cmd.Context(), rp.StartLaunchProperties{
				Name:        flags.name,
				StartTime:   start,
				RerunOf:     flags.rerunOf,
				Mode:        rp.Mode(flags.mode),
				Description: flags.description,
				Attributes:  flags.attributes,
				UUID:        flags.uuid,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rs)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.name, "name", "", "Launch name (required)")
	f.StringVar(&flags.description, "description", "", "Launch description")
	f.StringVar(&flags.attributes, "attributes", "", `Attributes, e.g. "build:4.21;nightly"`)
	f.StringVar(&flags.mode, "mode", "", "Launch mode: DEFAULT or DEBUG")
	f.StringVar(&flags.rerunOf, "rerun-of", "", "UUID of the launch this one reruns")
	f.StringVar(&flags.uuid, "uuid", "", "Launch UUID (generated when empty)")
	f.StringVar(&flags.startTime, "start-time", "", "Start time, RFC 3339 or epoch ms (default now)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

type launchFinishFlags struct {
	launch      string
	status      string
	description string
	attributes  string
	endTime     string
}

func (c *cli) launchFinishCmd() *cobra.Command {
	var flags launchFinishFlags
	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Finish a launch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			end, err := parseTime(flags.endTime)
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			rs, err := client.FinishLaunch(cmd.Context(), rp.FinishLaunchProperties{
				LaunchUUID:  flags.launch,
				EndTime:     end,
				Status:      rp.Status(flags.status),
				Description: flags.description,
				Attributes:  flags.attributes,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rs)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.launch, "launch", "", "Launch UUID (required)")
	f.StringVar(&flags.status, "status", "", "Final status; computed by the server when empty")
	f.StringVar(&flags.description, "description", "", "Launch description")
	f.StringVar(&flags.attributes, "attributes", "", "Attributes to set")
	f.StringVar(&flags.endTime, "end-time", "", "End time, RFC 3339 or epoch ms (default now)")
	_ = cmd.MarkFlagRequired("launch")
	return cmd
}

type launchUpdateFlags struct {
	id          int
	description string
	attributes  string
	mode        string
}

func (c *cli) launchUpdateCmd() *cobra.Command {
	var flags launchUpdateFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update description, attributes or mode of a launch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.id <= 0 {
				return fmt.Errorf("--id must be a positive launch ID")
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			rs, err := client.UpdateLaunch(cmd.Context(), rp.UpdateLaunchProperties{
				LaunchID:    flags.id,
				Description: flags.description,
				Attributes:  flags.attributes,
				Mode:        rp.Mode(flags.mode),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rs)
		},
	}
	f := cmd.Flags()
	f.IntVar(&flags.id, "id", 0, "Numeric launch ID (required)")
	f.StringVar(&flags.description, "description", "", "New description")
	f.StringVar(&flags.attributes, "attributes", "", "New attributes")
	f.StringVar(&flags.mode, "mode", "", "New mode: DEFAULT or DEBUG")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
