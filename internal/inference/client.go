package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"routelabel/internal/frames"
)

const defaultHTTPTimeout = 120 * time.Second

// Config captures the model server settings.
type Config struct {
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client talks to a TensorFlow Serving style REST endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a model client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("model request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

// BatchPredict posts every frame as one instance and returns the predictions
// in order.
func (c *Client) BatchPredict(ctx context.Context, batch []frames.Frame) ([]Prediction, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	endpoint, err := c.endpoint(":predict")
	if err != nil {
		return nil, err
	}
	body := encodeInstances(batch)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("model request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	payload, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var parsed predictResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("model response: decode: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("model response: %s", parsed.Error)
	}
	out := make([]Prediction, len(parsed.Predictions))
	for i, p := range parsed.Predictions {
		out[i] = Prediction(p)
	}
	return out, nil
}

// HealthCheck verifies the configured model is loaded and reports its status.
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint, err := c.endpoint("")
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("model health: new request: %w", err)
	}
	payload, err := c.do(req)
	if err != nil {
		return fmt.Errorf("model health: %w", err)
	}
	var status struct {
		ModelVersionStatus []struct {
			Version string `json:"version"`
			State   string `json:"state"`
		} `json:"model_version_status"`
	}
	if err := json.Unmarshal(payload, &status); err != nil {
		return fmt.Errorf("model health: decode: %w", err)
	}
	if len(status.ModelVersionStatus) == 0 {
		return nil
	}
	for _, v := range status.ModelVersionStatus {
		if strings.EqualFold(v.State, "AVAILABLE") {
			return nil
		}
	}
	return fmt.Errorf("model health: no available version of %q", c.cfg.Model)
}

// Endpoint returns the prediction URL, for display.
func (c *Client) Endpoint() string {
	endpoint, err := c.endpoint(":predict")
	if err != nil {
		return c.cfg.BaseURL
	}
	return endpoint
}

func (c *Client) endpoint(suffix string) (string, error) {
	if c.cfg.BaseURL == "" {
		return "", errors.New("model request: base url required")
	}
	if c.cfg.Model == "" {
		return "", errors.New("model request: model name required")
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "v1", "models", c.cfg.Model+suffix)
	if err != nil {
		return "", fmt.Errorf("model request: build url: %w", err)
	}
	return endpoint, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("model request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

// encodeInstances writes {"instances": [H×W×3, ...]} directly. A full route
// is hundreds of megabytes of floats, so the reflection based encoder is
// avoided.
func encodeInstances(batch []frames.Frame) []byte {
	size := 16
	for _, f := range batch {
		size += len(f.Pix)*7 + f.Height*f.Width*3 + f.Height*2 + 4
	}
	buf := make([]byte, 0, size)
	buf = append(buf, `{"instances":[`...)
	for n, f := range batch {
		if n > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for y := 0; y < f.Height; y++ {
			if y > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, '[')
			for x := 0; x < f.Width; x++ {
				if x > 0 {
					buf = append(buf, ',')
				}
				i := (y*f.Width + x) * 3
				buf = append(buf, '[')
				buf = strconv.AppendFloat(buf, float64(f.Pix[i]), 'g', 6, 32)
				buf = append(buf, ',')
				buf = strconv.AppendFloat(buf, float64(f.Pix[i+1]), 'g', 6, 32)
				buf = append(buf, ',')
				buf = strconv.AppendFloat(buf, float64(f.Pix[i+2]), 'g', 6, 32)
				buf = append(buf, ']')
			}
			buf = append(buf, ']')
		}
		buf = append(buf, ']')
	}
	buf = append(buf, "]}"...)
	return buf
}
