package questionbank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// UpstreamError carries a non-2xx question-bank response through to the
// caller with its original status and payload intact.
type UpstreamError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("question bank returned %d", e.StatusCode)
}

// Client talks to the external question-bank service. Every request carries
// the shared admin bearer credential; payloads pass through both ways as raw
// JSON since the bank's schema is not this gateway's concern.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a question-bank client with a bounded request timeout.
func NewClient(baseURL, adminToken string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		adminToken: adminToken,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FetchQuestion asks the bank for the next question for a user, bounded by
// the exam's question count.
func (c *Client) FetchQuestion(ctx context.Context, username string, questionLimit int) (json.RawMessage, error) {
	query := url.Values{
		"username":       {username},
		"question_limit": {strconv.Itoa(questionLimit)},
	}
	return c.do(ctx, http.MethodGet, "/question", query, nil)
}

// AddQuestion forwards a new question payload to the bank.
func (c *Client) AddQuestion(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/question/add", nil, payload)
}

// SubmitAnswer forwards a student's answer to the bank for grading.
func (c *Client) SubmitAnswer(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/answer/submit", nil, payload)
}

// SubmitFeedback forwards end-of-exam feedback to the bank.
func (c *Client) SubmitFeedback(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/submit/feedback", nil, payload)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload json.RawMessage) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.adminToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call question bank: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read question bank response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("Question bank error")
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}
