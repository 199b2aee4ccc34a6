package rp

import (
	"context"
	"fmt"
	"net/http"
)

// StartItem starts a test item in a launch, nested under props.ParentUUID
// when it is set.
func (c *Client) StartItem(ctx context.Context, props StartTestItemProperties) (*EntryCreatedResponse, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("start item: %w", err)
	}
	u := startItemURL(c.endpoint, c.project, props.ParentUUID)

	var rs EntryCreatedResponse
	if err := c.doJSON(ctx, http.MethodPost, u, "start item", newStartTestItemRequest(props), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// FinishItem finishes the test item identified by props.ItemUUID.
func (c *Client) FinishItem(ctx context.Context, props FinishTestItemProperties) (*EntryCreatedResponse, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("finish item: %w", err)
	}
	u := finishItemPath.expand(c.endpoint, c.project, props.ItemUUID)

	var rs EntryCreatedResponse
	if err := c.doJSON(ctx, http.MethodPut, u, "finish item", newFinishTestItemRequest(props), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}
