package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/lawchat/internal/errors"
	"github.com/diogo/lawchat/internal/models"
)

const (
	// maxResponseBytes bounds how much of a reply is read
	maxResponseBytes = 1 << 20
	// maxErrorBodyBytes bounds the body kept on an APIError
	maxErrorBodyBytes = 4096
)

// Asker is the service-call boundary used by the conversation
type Asker interface {
	Ask(ctx context.Context, question string) Result
}

var _ Asker = (*Client)(nil)

// Ask sends one question and folds every failure into a Failed result.
// It makes exactly one attempt.
func (c *Client) Ask(ctx context.Context, question string) Result {
	resp, err := c.Query(ctx, question)
	if err != nil {
		return Fail(err)
	}
	return Answer(resp.Answer)
}

// Query posts the question and decodes the reply
func (c *Client) Query(ctx context.Context, question string) (*models.QueryResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apierrors.ErrEmptyQuestion
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	payload, err := json.Marshal(models.QueryRequest{
		Question: question,
		TopK:     c.topK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.Debug().Str("endpoint", c.endpoint).Int("top_k", c.topK).Msg("posting question")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, "query failed", string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(c.endpoint, err)
	}

	parsed, err := parseQueryResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("answer_len", len(parsed.Answer)).
		Msg("answer received")
	if parsed.Error != "" {
		c.logger.Warn().Str("service_error", parsed.Error).Msg("answer service reported an error")
	}

	return parsed, nil
}

// parseQueryResponse extracts the answer and error fields from a reply body.
// A missing or empty answer is not an error; the caller decides the fallback.
func parseQueryResponse(body []byte) (*models.QueryResponse, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, apierrors.NewParseError("empty response body", "")
	}
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, apierrors.NewParseError("response is not a JSON object", "")
	}

	out := &models.QueryResponse{}

	if answer := root.Get("answer"); answer.Exists() && answer.Type != gjson.Null {
		if answer.Type != gjson.String {
			return nil, apierrors.NewParseError("answer is not a string", "answer")
		}
		out.Answer = answer.String()
	}

	if serviceErr := root.Get("error"); serviceErr.Exists() {
		out.Error = serviceErr.String()
	}

	return out, nil
}

// classifyTransportError turns a transport failure into a typed error
func classifyTransportError(endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(endpoint, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError(endpoint, err)
	}

	return apierrors.NewNetworkErrorWithEndpoint("query", endpoint, err)
}
