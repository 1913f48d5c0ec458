// Package pdfco provides a client for the PDF.co conversion API.
package pdfco

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
)

const (
	// DefaultBaseURL is the base URL for the PDF.co API.
	DefaultBaseURL = "https://api.pdf.co/v1"

	// DefaultTimeout is the default HTTP timeout. Synchronous conversions of
	// large reports take well over a minute.
	DefaultTimeout = 120 * time.Second
)

// ErrMissingAPIKey is returned by every call when no key is configured.
var ErrMissingAPIKey = errors.New("PDFCO_API_KEY is not set")

// Client is a PDF.co API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

var _ interfaces.RemoteConverter = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP timeout of the default client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less means unlimited.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new PDF.co API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error from the PDF.co API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return e.Message
}

// do sends req and returns the response when the status is 2xx. Any other
// status is reported as an APIError carrying fallbackMsg.
func (c *Client) do(req *http.Request, endpoint, fallbackMsg string) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("method", req.Method).
			Str("endpoint", endpoint).
			Msg("PDF.co API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallbackMsg, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fallbackMsg,
			Endpoint:   endpoint,
		}
	}

	return resp, nil
}

// Presign requests a presigned upload URL for a PDF named name.
func (c *Client) Presign(ctx context.Context, name string) (*PresignResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	const endpoint = "/file/upload/get-presigned-url"
	const failure = "PDF.co presign failed"

	params := url.Values{}
	params.Set("contenttype", "application/pdf")
	params.Set("name", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, endpoint, failure)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var presign PresignResponse
	if err := json.NewDecoder(resp.Body).Decode(&presign); err != nil {
		return nil, fmt.Errorf("failed to decode presign response: %w", err)
	}
	if presign.Error {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: messageOr(presign.Message, failure), Endpoint: endpoint}
	}
	if presign.PresignedURL == "" || presign.URL == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "PDF.co presign response missing URLs", Endpoint: endpoint}
	}

	return &presign, nil
}

// Upload PUTs the PDF body to a presigned URL.
func (c *Client) Upload(ctx context.Context, presignedURL string, body io.Reader, size int64) error {
	const failure = "PDF.co upload failed"

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := c.do(req, "presigned-upload", failure)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// ConvertToXLSX converts the uploaded PDF at fileURL synchronously. The
// response URL points at the resulting workbook.
func (c *Client) ConvertToXLSX(ctx context.Context, fileURL, name string) (*ConvertResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	const endpoint = "/pdf/convert/to/xlsx"
	const failure = "PDF.co conversion failed"

	payload, err := json.Marshal(ConvertRequest{URL: fileURL, Async: false, Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, endpoint, failure)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var converted ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&converted); err != nil {
		return nil, fmt.Errorf("failed to decode conversion response: %w", err)
	}
	if converted.Error {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: messageOr(converted.Message, failure), Endpoint: endpoint}
	}
	if converted.URL == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "PDF.co conversion response missing URL", Endpoint: endpoint}
	}

	return &converted, nil
}

// Download streams the file at fileURL into w.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req, "result-download", "PDF.co download failed")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("PDF.co download failed: %w", err)
	}
	return n, nil
}

// ConvertFile converts the PDF at pdfPath into an xlsx at xlsxPath:
// presign, upload, convert, download.
func (c *Client) ConvertFile(ctx context.Context, pdfPath, xlsxPath string) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	outputName := filepath.Base(xlsxPath)
	uploadName := strings.TrimSuffix(outputName, ".xlsx") + ".pdf"
	if !strings.HasSuffix(outputName, ".xlsx") {
		uploadName = outputName
	}

	presign, err := c.Presign(ctx, uploadName)
	if err != nil {
		return err
	}

	src, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat PDF: %w", err)
	}

	if err := c.Upload(ctx, presign.PresignedURL, src, info.Size()); err != nil {
		return err
	}

	converted, err := c.ConvertToXLSX(ctx, presign.URL, outputName)
	if err != nil {
		return err
	}

	dst, err := os.Create(xlsxPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := c.Download(ctx, converted.URL, dst)
	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write output file: %w", closeErr)
	}
	if err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Info().
			Str("output", outputName).
			Int64("bytes", n).
			Int("pages", converted.PageCount).
			Int("credits", converted.Credits).
			Int("remaining_credits", converted.Remaining).
			Msg("PDF.co conversion complete")
	}

	return nil
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
