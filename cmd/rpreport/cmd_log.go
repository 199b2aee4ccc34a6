package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rpclient/internal/logging"
	"rpclient/pkg/rp"
)

type logFlags struct {
	launch  string
	item    string
	level   string
	message string
	time    string
}

func (c *cli) logCmd() *cobra.Command {
	var flags logFlags
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Add a log entry to a test item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseTime(flags.time)
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			rs, err := client.AddLog(cmd.Context(), rp.AddLogProperties{
				LaunchUUID: flags.launch,
				ItemUUID:   flags.item,
				Level:      rp.LogLevel(flags.level),
				Time:       at,
				Message:    flags.message,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rs)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.launch, "launch", "", "Launch UUID (required)")
	f.StringVar(&flags.item, "item", "", "Item UUID (required)")
	f.StringVar(&flags.level, "level", string(rp.LogLevelInfo), "Log level")
	f.StringVarP(&flags.message, "message", "m", "", "Log message (required)")
	f.StringVar(&flags.time, "time", "", "Log time, RFC 3339 or epoch ms (default now)")
	_ = cmd.MarkFlagRequired("launch")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

type attachFlags struct {
	launch   string
	item     string
	level    string
	message  string
	time     string
	parallel int
}

// attachResult is one line of the attach command output.
type attachResult struct {
	File string `json:"file"`
	ID   string `json:"id"`
}

func (c *cli) attachCmd() *cobra.Command {
	var flags attachFlags
	cmd := &cobra.Command{
		Use:   "attach FILE...",
		Short: "Upload files as log attachments of a launch or test item",
		Long: "Upload each file as its own log entry. Without --item the files are\n" +
			"attached to the launch. Uploads run in parallel, one request per file.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			if flags.parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1")
			}
			at, err := parseTime(flags.time)
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}

			logger := logging.New("attach")
			results := make([]attachResult, len(files))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(flags.parallel)
			for i, path := range files {
				i, path := i, path
				g.Go(func() error {
					message := flags.message
					if message == "" {
						message = filepath.Base(path)
					}
					rs, err := client.AddFileAttachment(ctx, rp.AddFileAttachmentProperties{
						LaunchUUID: flags.launch,
						ItemUUID:   flags.item,
						Level:      rp.LogLevel(flags.level),
						Time:       at,
						Message:    message,
						FilePath:   path,
					})
					if err != nil {
						return fmt.Errorf("attach %s: %w", path, err)
					}
					logger.Debug("attachment uploaded", "file", path, "id", rs.ID)
					results[i] = attachResult{File: path, ID: rs.ID}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.launch, "launch", "", "Launch UUID (required)")
	f.StringVar(&flags.item, "item", "", "Item UUID; attach to the launch when empty")
	f.StringVar(&flags.level, "level", string(rp.LogLevelInfo), "Log level")
	f.StringVarP(&flags.message, "message", "m", "", "Log message (default the file name)")
	f.StringVar(&flags.time, "time", "", "Log time, RFC 3339 or epoch ms (default now)")
	f.IntVarP(&flags.parallel, "parallel", "p", 4, "Maximum concurrent uploads")
	_ = cmd.MarkFlagRequired("launch")
	return cmd
}
