package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rpclient/pkg/rp"
)

func (c *cli) itemCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "item", Short: "Start or finish a test item"}
	cmd.AddCommand(c.itemStartCmd())
	cmd.AddCommand(c.itemFinishCmd())
	return cmd
}

type itemStartFlags struct {
	launch      string
	parent      string
	name        string
	itemType    string
	description string
	attributes  string
	codeRef     string
	uuid        string
	startTime   string
	noStats     bool
}

func (c *cli) itemStartCmd() *cobra.Command {
	var flags itemStartFlags
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a test item, nested under --parent when given",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTime(flags.startTime)
			if err != nil {
				return err
			}
			if flags.uuid == "" {
				flags.uuid = uuid.NewString()
			}
			props := rp.StartTestItemProperties{
				LaunchUUID:  flags.launch,
				ParentUUID:  flags.parent,
				Name:        flags.name,
				Description: flags.description,
				StartTime:   start,
				Attributes:  flags.attributes,
				CodeRef:     flags.codeRef,
				Type:        rp.ItemType(flags.itemType),
				UUID:        flags.uuid,
			}
			if flags.noStats {
				hasStats := false
				props.HasStats = &hasStats
			}

			client, err := c.client()
			if err != nil {
				return err
			}
			rs, err := client.StartItem(cmd.Context(), props)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rs)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.launch, "launch", "", "Launch UUID (required)")
	f.StringVar(&flags.parent, "parent", "", "Parent item UUID")
	f.StringVar(&flags.name, "name", "", "Item name (required)")
	f.StringVar(&flags.itemType, "type", string(rp.ItemTypeStep), "Item type, e.g. SUITE, TEST, STEP")
	f.StringVar(&flags.description, "description", "", "Item description")
	f.StringVar(&flags.attributes, "attributes", "", "Item attributes")
	f.StringVar(&flags.codeRef, "code-ref", "", "Code reference of the test")
	f.StringVar(&flags.uuid, "uuid", "", "Item UUID (generated when empty)")
	f.StringVar(&flags.startTime, "start-time", "", "Start time, RFC 3339 or epoch ms (default now)")
	f.BoolVar(&flags.noStats, "no-stats", false, "Exclude the item from launch statistics")
	_ = cmd.MarkFlagRequired("launch")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

type itemFinishFlags struct {
	item       string
	launch     string
	status     string
	attributes string
	endTime    string
}

func (c *cli) itemFinishCmd() *cobra.Command {
	var flags itemFinishFlags
	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Finish a test item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			end, err := parseTime(flags.endTime)
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			rs, err := client.FinishItem(cmd.Context(), rp.FinishTestItemProperties{
				ItemUUID:   flags.item,
				LaunchUUID: flags.launch,
				EndTime:    end,
				Status:     rp.Status(flags.status),
				Attributes: flags.attributes,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rs)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.item, "item", "", "Item UUID (required)")
	f.StringVar(&flags.launch, "launch", "", "Launch UUID (required)")
	f.StringVar(&flags.status, "status", string(rp.StatusPassed), "Item status")
	f.StringVar(&flags.attributes, "attributes", "", "Item attributes")
	f.StringVar(&flags.endTime, "end-time", "", "End time, RFC 3339 or epoch ms (default now)")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("launch")
	return cmd
}
