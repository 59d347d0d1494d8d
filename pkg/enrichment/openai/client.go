// Package openai provides an enrichment.Enricher backed by the OpenAI chat
// completions API.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backlinks/pkg/enrichment"
	"backlinks/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const (
	// DefaultBaseURL is the public OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is used when Options.Model is empty.
	DefaultModel = "gpt-4o-mini"

	maxScore = 10

	systemPrompt = "You are an SEO analyst. Rate a backlink opportunity for a client site. " +
		`Reply with a JSON object {"relevance": 0-10, "quality": 0-10, "summary": "one sentence"}.`
)

// Options configures a Client.
type Options struct {
	// BaseURL of the API, without trailing slash.
	BaseURL string
	// Model is the chat model name.
	Model string
}

// Client talks to the chat completions endpoint and fulfills the
// enrichment.Enricher interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to the API
	token      string       // token is the API key
	opts       Options
}

// ParseRateLimit extracts the request budget from the x-ratelimit-* response
// headers. Reset durations ("1s", "6m0s") are resolved against now. A response
// without rate-limit headers yields a zero status.
func ParseRateLimit(h http.Header, now time.Time) (enrichment.RateLimitStatus, error) {
	resetStr := h.Get("X-Ratelimit-Reset-Requests")
	if resetStr == "" {
		return enrichment.RateLimitStatus{}, nil
	}

	atoi := func(s string) int {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}

		return 0
	}

	reset, err := time.ParseDuration(resetStr)
	if err != nil {
		return enrichment.RateLimitStatus{}, errors.Wrap(err, "parse reset duration")
	}

	return enrichment.RateLimitStatus{
		Limit:     atoi(h.Get("X-Ratelimit-Limit-Requests")),
		Remaining: atoi(h.Get("X-Ratelimit-Remaining-Requests")),
		ResetAt:   now.Add(reset),
	}, nil
}

// Enrich asks the model to score url for the client described by
// clientContext.
//
// Errors carry a semantic kind: 429 with code insufficient_quota maps to
// serrors.ErrQuotaExhausted, any other 429 to serrors.ErrRateLimited, 5xx
// to serrors.ErrUnavailable and a deadline to serrors.ErrTimeout.
func (c *Client) Enrich(
	ctx context.Context,
	url string,
	clientContext string,
) (enrichment.Result, enrichment.RateLimitStatus, error) {
	body := c.encodeRequest(url, clientContext)

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.opts.BaseURL+"/chat/completions",
		bytes.NewReader(body))
	if err != nil {
		return enrichment.Result{}, enrichment.RateLimitStatus{}, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return enrichment.Result{}, enrichment.RateLimitStatus{}, serrors.Wrap(serrors.ErrTimeout, err, "enrichment timed out")
		}

		return enrichment.Result{}, enrichment.RateLimitStatus{}, serrors.Wrap(serrors.ErrUnavailable, err, "send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	rl, err := ParseRateLimit(resp.Header, time.Now().UTC())
	if err != nil {
		return enrichment.Result{}, rl, errors.Wrap(err, "parse rate limit")
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return enrichment.Result{}, rl, serrors.Wrap(serrors.ErrUnavailable, err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return enrichment.Result{}, rl, statusError(resp.StatusCode, b)
	}

	content, err := decodeCompletion(b)
	if err != nil {
		return enrichment.Result{}, rl, errors.Wrap(err, "decode completion")
	}
	res, err := decodeAssessment(content)
	if err != nil {
		return enrichment.Result{}, rl, errors.Wrap(err, "decode assessment")
	}

	return res, rl, nil
}

func (c *Client) encodeRequest(url, clientContext string) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("model", func(e *jx.Encoder) { e.Str(c.opts.Model) })
		e.Field("temperature", func(e *jx.Encoder) { e.Int(0) })
		e.Field("response_format", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("type", func(e *jx.Encoder) { e.Str("json_object") })
			})
		})
		e.Field("messages", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				message(e, "system", systemPrompt)
				message(e, "user", fmt.Sprintf("Client site: %s\nBacklink URL: %s", clientContext, url))
			})
		})
	})

	return e.Bytes()
}

func message(e *jx.Encoder, role, content string) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("role", func(e *jx.Encoder) { e.Str(role) })
		e.Field("content", func(e *jx.Encoder) { e.Str(content) })
	})
}

// statusError maps a non-2xx response to a semantic error.
func statusError(status int, body []byte) error {
	code, msg := decodeAPIError(body)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	switch {
	case status == http.StatusTooManyRequests && code == "insufficient_quota":
		return serrors.With(serrors.ErrQuotaExhausted, "quota exhausted: %s", msg)
	case status == http.StatusTooManyRequests:
		return serrors.With(serrors.ErrRateLimited, "rate limited: %s", msg)
	case status >= http.StatusInternalServerError:
		return serrors.With(serrors.ErrUnavailable, "provider unavailable (%d): %s", status, msg)
	default:
		return errors.Errorf("enrichment failed (%d): %s", status, msg)
	}
}

// decodeAPIError reads {"error":{"message":...,"code":...,"type":...}}. Type
// stands in for a missing code.
func decodeAPIError(body []byte) (code, msg string) {
	var typ string
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		if key != "error" {
			return d.Skip()
		}

		return d.Obj(func(d *jx.Decoder, key string) error {
			if d.Next() != jx.String {
				return d.Skip()
			}
			var err error
			switch key {
			case "message":
				msg, err = d.Str()
			case "code":
				code, err = d.Str()
			case "type":
				typ, err = d.Str()
			default:
				return d.Skip()
			}

			return err
		})
	})
	if err != nil {
		return "", ""
	}
	if code == "" {
		code = typ
	}

	return code, msg
}

// decodeCompletion returns the content of the first choice.
func decodeCompletion(body []byte) (string, error) {
	var (
		content string
		found   bool
	)
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		if key != "choices" {
			return d.Skip()
		}

		return d.Arr(func(d *jx.Decoder) error {
			if found {
				return d.Skip()
			}

			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "message" {
					return d.Skip()
				}

				return d.Obj(func(d *jx.Decoder, key string) error {
					if key != "content" || d.Next() != jx.String {
						return d.Skip()
					}
					s, err := d.Str()
					content, found = s, true

					return err
				})
			})
		})
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.New("no choices in response")
	}

	return content, nil
}

// decodeAssessment parses the model's JSON reply, clamping scores to 0-10.
func decodeAssessment(content string) (enrichment.Result, error) {
	var res enrichment.Result
	err := jx.DecodeStr(content).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "relevance":
			n, err := score(d)
			res.Relevance = n

			return err
		case "quality":
			n, err := score(d)
			res.Quality = n

			return err
		case "summary":
			s, err := d.Str()
			res.Summary = strings.TrimSpace(s)

			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return enrichment.Result{}, err
	}

	return res, nil
}

func score(d *jx.Decoder) (int, error) {
	f, err := d.Float64()
	if err != nil {
		return 0, err
	}

	return min(max(int(f+0.5), 0), maxScore), nil
}

// Ensure Client conforms to the enrichment.Enricher interface at compile time.
var _ enrichment.Enricher = (*Client)(nil)

// New constructs a Client that uses the provided http.Client and API token.
// Empty options fall back to DefaultBaseURL and DefaultModel.
func New(httpClient *http.Client, token string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	return &Client{
		httpClient: httpClient,
		token:      token,
		opts:       opts,
	}
}
