package answerstore

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/careerfit"
	defaultRetries  = 2
	defaultBackoff  = 500 * time.Millisecond
)

// HTTPStore reads sections from the drafts API:
// GET {BaseURL}/sessions/{session}/sections/{section}.
type HTTPStore struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
	MaxRetries int
	Backoff    time.Duration
}

func NewHTTPStore(logger *zap.Logger, baseURL, token string) *HTTPStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPStore{
		token:   token,
		logger:  logger,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent:  userAgent,
		MaxRetries: defaultRetries,
		Backoff:    defaultBackoff,
	}
}

func (s *HTTPStore) Section(ctx context.Context, session string, section Section) (json.RawMessage, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/sessions/%s/sections/%s", s.BaseURL, url.PathEscape(session), url.PathEscape(string(section)))

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Debug("retrying answer store request",
				zap.String("section", string(section)),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, s.Backoff*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}

		data, retry, err := s.getJSON(ctx, endpoint)
		if err == nil {
			return data, nil
		}
		if !retry {
			if err == ErrNotFound {
				return nil, fmt.Errorf("%s/%s: %w", session, section, ErrNotFound)
			}
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("answer store %s/%s: %w", session, section, lastErr)
}

// getJSON performs one request. retry reports whether the failure is transient.
func (s *HTTPStore) getJSON(ctx context.Context, endpoint string) (data json.RawMessage, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req = s.setHeaders(req)

	s.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("bad status: %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, false, err
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, true, err
	}
	if !json.Valid(body) {
		return nil, false, fmt.Errorf("response from %s is not valid JSON", endpoint)
	}

	return json.RawMessage(body), false, nil
}

func (s *HTTPStore) setHeaders(req *http.Request) *http.Request {
	if s.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.token))
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
