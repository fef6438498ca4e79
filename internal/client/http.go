package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"devshelf/internal/models"

	"github.com/gofiber/fiber/v2"
)

// DefaultRequestTimeout bounds every catalog API call.
const DefaultRequestTimeout = 10 * time.Second

// ResourcePayload is the wire form of a create or update request.
type ResourcePayload struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Link        string   `json:"link"`
	Tag         []string `json:"tag"`
}

// APIError is a non-2xx answer from the server, carrying its error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// HTTPClient talks to the catalog API. It implements both Fetcher and
// Mutator, so one client can back a Controller and a Synchronizer.
type HTTPClient struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NewHTTPClient returns a client for the given base URL. Token, when set, is
// sent as a bearer credential on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Token:   token,
		Timeout: DefaultRequestTimeout,
	}
}

// ListResources fetches one catalog page for the view parameters.
func (h *HTTPClient) ListResources(ctx context.Context, p ViewParams) (*ListPage, error) {
	q := url.Values{}
	q.Set("tag", p.APITag())
	q.Set("sortBy", p.APISort())
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))

	agent := fiber.Get(h.BaseURL + "/api/resources?" + q.Encode())
	var page ListPage
	if err := h.do(ctx, agent, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyResources fetches the caller's own resources, newest first.
func (h *HTTPClient) MyResources(ctx context.Context) ([]models.Resource, error) {
	agent := fiber.Get(h.BaseURL + "/api/resources/me")
	var body struct {
		Resources []models.Resource `json:"resources"`
	}
	if err := h.do(ctx, agent, &body); err != nil {
		return nil, err
	}
	return body.Resources, nil
}

// CreateResource submits a new resource.
func (h *HTTPClient) CreateResource(ctx context.Context, payload ResourcePayload) (*models.Resource, error) {
	agent := fiber.Post(h.BaseURL + "/api/resources")
	agent.JSON(payload)
	var created models.Resource
	if err := h.do(ctx, agent, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateResource submits a full-field replacement; payload.ID names the target.
func (h *HTTPClient) UpdateResource(ctx context.Context, payload ResourcePayload) (*models.Resource, error) {
	agent := fiber.Put(h.BaseURL + "/api/resources")
	agent.JSON(payload)
	var updated models.Resource
	if err := h.do(ctx, agent, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteResource removes a resource by id.
func (h *HTTPClient) DeleteResource(ctx context.Context, id string) error {
	agent := fiber.Delete(h.BaseURL + "/api/resources")
	agent.JSON(fiber.Map{"id": id})
	return h.do(ctx, agent, nil)
}

// do executes the request and decodes the answer into dest. Non-2xx answers
// become *APIError carrying the server's error body.
func (h *HTTPClient) do(ctx context.Context, agent *fiber.Agent, dest any) error {
	if h.Token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+h.Token)
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}

	if status < 200 || status >= 300 {
		var er models.ErrorResponse
		if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
			return &APIError{Status: status, Message: string(body)}
		}
		return &APIError{Status: status, Code: er.Code, Message: er.Error}
	}

	if dest == nil {
		return nil
	}
	return json.Unmarshal(body, dest)
}
