// Package pixdev is a small client for a running charges service.
package pixdev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alovak/pixflow-playground/charges/models"
)

type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// BuildPayload asks the service for a payload without creating a charge.
func (c *Client) BuildPayload(ctx context.Context, req models.CreateCharge) (string, error) {
	var out models.Payload
	if err := c.postJSON(ctx, "/payloads", req, http.StatusOK, &out); err != nil {
		return "", fmt.Errorf("build payload: %w", err)
	}
	return out.Payload, nil
}

func (c *Client) CreateCharge(ctx context.Context, req models.CreateCharge) (*models.Charge, error) {
	var out models.Charge
	if err := c.postJSON(ctx, "/charges", req, http.StatusCreated, &out); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}
	return &out, nil
}

func (c *Client) GetCharge(ctx context.Context, id string) (*models.Charge, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/charges/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("get charge: %w", err)
	}
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get charge: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get charge: %w", statusError(resp))
	}

	var out models.Charge
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode charge: %w", err)
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any, want int, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
}
