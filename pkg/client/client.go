// Package client provides a Go client for a running fibermap server.
//
// It fetches the encoded fibers, their summary statistics and the per-model
// membership and color tables, with the same error semantics as the
// server's JSON responses.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/render"
	"github.com/sanonone/fibermap/pkg/zone"
)

// APIError represents an error returned by the fibermap API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// ModelInfo summarizes one analyzed model instance.
type ModelInfo struct {
	Model   int        `json:"model"`
	Zones   []ZoneInfo `json:"zones"`
	Entries int        `json:"entries"`
	Touched int        `json:"touched_fibers"`
}

// ZoneInfo is one influence zone as reported by the server.
type ZoneInfo struct {
	Index     int         `json:"index"`
	Electrode string      `json:"electrode,omitempty"`
	Sphere    zone.Sphere `json:"sphere"`
	Fibers    int         `json:"fibers"`
}

// Models is the response of the model listing.
type Models struct {
	RunID  uuid.UUID   `json:"run_id"`
	Policy zone.Policy `json:"policy"`
	Fibers int         `json:"fibers"`
	Models []ModelInfo `json:"models"`
}

// FiberColor is the resolved zone and packed color of one fiber.
type FiberColor struct {
	Fiber int        `json:"fiber"`
	Zone  int        `json:"zone"`
	Color uint32     `json:"color"`
	RGB   [3]float32 `json:"rgb"`
}

type membershipResponse struct {
	Membership zone.Table `json:"membership"`
}

type zoneFibersResponse struct {
	Fibers []int `json:"fibers"`
}

// FiberZones is the zone view of a single fiber.
type FiberZones struct {
	Zones    []int `json:"zones"`
	Assigned int   `json:"assigned_zone"`
}

type colorsResponse struct {
	Fibers []FiberColor `json:"fibers"`
}

// Client is the Go client for a fibermap server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL, e.g. "http://localhost:9093".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// request executes a GET and returns the body of a successful response.
func (c *Client) request(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp["error"]}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.request(ctx, endpoint, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}

// Fibers downloads and decodes the served FiberSet.
func (c *Client) Fibers(ctx context.Context) (fiber.FiberSet, error) {
	body, err := c.request(ctx, "/fibers.bin", "application/octet-stream")
	if err != nil {
		return nil, err
	}
	return fiber.Decode(body)
}

// Stats returns the summary of the served FiberSet.
func (c *Client) Stats(ctx context.Context) (*fiber.Stats, error) {
	var s fiber.Stats
	if err := c.getJSON(ctx, "/api/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Models lists the analyzed model instances.
func (c *Client) Models(ctx context.Context) (*Models, error) {
	var m Models
	if err := c.getJSON(ctx, "/api/models", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Membership returns the first-touch table of a model.
func (c *Client) Membership(ctx context.Context, model int) (zone.Table, error) {
	var resp membershipResponse
	if err := c.getJSON(ctx, "/api/models/"+strconv.Itoa(model)+"/membership", &resp); err != nil {
		return nil, err
	}
	return resp.Membership, nil
}

// Colors returns the resolved per-fiber colors of a model.
func (c *Client) Colors(ctx context.Context, model int) ([]FiberColor, error) {
	var resp colorsResponse
	if err := c.getJSON(ctx, "/api/models/"+strconv.Itoa(model)+"/colors", &resp); err != nil {
		return nil, err
	}
	return resp.Fibers, nil
}

// Positions downloads the placed vertex stream of a model as flat xyz values.
// Half streams are widened back to float32.
func (c *Client) Positions(ctx context.Context, model int, enc render.Encoding) ([]float32, error) {
	endpoint := "/api/models/" + strconv.Itoa(model) + "/positions?format=" + string(enc)
	body, err := c.request(ctx, endpoint, "application/octet-stream")
	if err != nil {
		return nil, err
	}
	return render.DecodePositions(body, enc)
}

// ZoneFibers returns the fibers touching zone z of a model.
func (c *Client) ZoneFibers(ctx context.Context, model, z int) ([]int, error) {
	var resp zoneFibersResponse
	endpoint := "/api/models/" + strconv.Itoa(model) + "/zones/" + strconv.Itoa(z) + "/fibers"
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Fibers, nil
}

// FiberZones returns the zones a fiber touches in a model and the one it was assigned.
func (c *Client) FiberZones(ctx context.Context, model, f int) (*FiberZones, error) {
	var resp FiberZones
	endpoint := "/api/models/" + strconv.Itoa(model) + "/fibers/" + strconv.Itoa(f) + "/zones"
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
