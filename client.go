package scriptgate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/rs/xid"
)

// Client talks to a running gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the gateway at baseURL.
// A nil httpClient means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Run asks the gateway to execute script and returns its standard output.
// Rejections and failed scripts come back as *ScriptError.
func (c *Client) Run(ctx context.Context, script string) (string, error) {
	var (
		resp struct {
			Output string `json:"output"`
			Error  string `json:"error"`
		}
		status int
		reqID  string
	)
	err := requests.
		URL(c.baseURL).
		Path("/run").
		Client(c.httpClient).
		BodyJSON(NewRequest(script)).
		AddValidator(func(res *http.Response) error {
			status = res.StatusCode
			reqID = res.Header.Get("X-Request-Id")
			switch status {
			case http.StatusOK, http.StatusBadRequest, http.StatusForbidden:
				return nil
			}
			return fmt.Errorf("unexpected status %d from %s", status, res.Request.URL)
		}).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", script, err)
	}

	if status != http.StatusOK {
		se := &ScriptError{StatusCode: status, Message: resp.Error}
		if id, err := xid.FromString(reqID); err == nil {
			se.RequestID = id
		}
		return "", se
	}
	return resp.Output, nil
}
