// Package rp is a reporting client for the Report Portal 5 API.
//
// It covers the write side of a test run: starting and finishing launches and
// test items, and attaching logs and files to them.
//
// Usage:
//
//	cfg := rp.DefaultConfig()
//	cfg.Endpoint, cfg.Project, cfg.APIKey = "https://rp.example.com", "ecosystem-qe", key
//	client, err := rp.New(cfg, rp.WithLogger(slog.Default()))
//	launch, err := client.StartLaunch(ctx, rp.StartLaunchProperties{
//		Name:       "nightly",
//		StartTime:  time.Now(),
//		Attributes: "build:1234;smoke",
//	})
//	item, err := client.StartItem(ctx, rp.StartTestItemProperties{
//		LaunchUUID: launch.ID,
//		Name:       "TestLogin",
//		Type:       rp.ItemTypeStep,
//		StartTime:  time.Now(),
//	})
//
// Every non-2xx response is returned as a *ClientError carrying the HTTP
// status and the decoded Report Portal error body.
package rp
