package rp

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// StartLaunch starts a new launch. The returned ID is the launch UUID used
// by StartItem, AddFileAttachment and FinishLaunch.
func (c *Client) StartLaunch(ctx context.Context, props StartLaunchProperties) (*StartLaunchResponse, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("start launch: %w", err)
	}
	u := startLaunchPath.expand(c.endpoint, c.project)

	var rs StartLaunchResponse
	if err := c.doJSON(ctx, http.MethodPost, u, "start launch", newStartLaunchRequest(props), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// FinishLaunch finishes the launch identified by props.LaunchUUID.
func (c *Client) FinishLaunch(ctx context.Context, props FinishLaunchProperties) (*FinishLaunchResponse, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("finish launch: %w", err)
	}
	u := finishLaunchPath.expand(c.endpoint, c.project, props.LaunchUUID)

	var rs FinishLaunchResponse
	if err := c.doJSON(ctx, http.MethodPut, u, "finish launch", newFinishLaunchRequest(props), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// UpdateLaunch changes the description, attributes or mode of a launch
// identified by its numeric ID.
func (c *Client) UpdateLaunch(ctx context.Context, props UpdateLaunchProperties) (*OperationCompletionResponse, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("update launch: %w", err)
	}
	u := updateLaunchPath.expand(c.endpoint, c.project, strconv.Itoa(props.LaunchID))

	var rs OperationCompletionResponse
	if err := c.doJSON(ctx, http.MethodPut, u, "update launch", newUpdateLaunchRequest(props), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}
