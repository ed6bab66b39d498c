package productr

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListItems fetches catalog items matching params.
func (c *SDKClient) ListItems(ctx context.Context, token string, params ListItemsParams) ([]Item, error) {
	path := "/items"
	if q := params.encode(); q != "" {
		path += "?" + q
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := decodeEnvelope(resp, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// GetItem fetches a single catalog item by ID.
func (c *SDKClient) GetItem(ctx context.Context, token, id string) (*Item, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/items/"+url.PathEscape(id), token, nil)
	if err != nil {
		return nil, err
	}

	var item Item
	if err := decodeEnvelope(resp, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

// CreateItem creates a new catalog item and returns the stored record.
func (c *SDKClient) CreateItem(ctx context.Context, token string, item Item) (*Item, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/items", token, item)
	if err != nil {
		return nil, err
	}

	var created Item
	if err := decodeEnvelope(resp, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateItem replaces an existing catalog item.
func (c *SDKClient) UpdateItem(ctx context.Context, token, id string, item Item) (*Item, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/items/"+url.PathEscape(id), token, item)
	if err != nil {
		return nil, err
	}

	var updated Item
	if err := decodeEnvelope(resp, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteItem removes a catalog item.
func (c *SDKClient) DeleteItem(ctx context.Context, token, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), token, nil)
	if err != nil {
		return err
	}

	return decodeEnvelope(resp, nil)
}

// UpdateItemStatus flips an item between Active and Inactive without touching
// the rest of the record.
func (c *SDKClient) UpdateItemStatus(ctx context.Context, token, id, status string) (*Item, error) {
	resp, err := c.doRequest(
		ctx,
		http.MethodPatch,
		"/items/"+url.PathEscape(id)+"/status",
		token,
		statusUpdateRequest{Status: status},
	)
	if err != nil {
		return nil, err
	}

	var updated Item
	if err := decodeEnvelope(resp, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// encode renders the non-zero params as a query string.
func (p ListItemsParams) encode() string {
	values := url.Values{}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.Status != "" {
		values.Set("status", p.Status)
	}
	if p.Type != "" {
		values.Set("productType", p.Type)
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	return values.Encode()
}
