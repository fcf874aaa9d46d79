// Package servicem8 is a small REST client for the ServiceM8 API covering the
// resources the portal proxies: jobs, company contacts and attachments.
package servicem8

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookingportal/internal/logging"
	"bookingportal/internal/models"
)

const DefaultBaseURL = "https://api.servicem8.com/api_1.0"

// MaxErrorBodySize caps how much of a non-2xx response body is kept.
const MaxErrorBodySize = 1 << 20

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client handles direct REST API communication with ServiceM8
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a ServiceM8 REST client. Every request carries the static API key.
func NewClient(cfg Config, logger logging.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// APIError is a non-2xx response from ServiceM8. Body holds at most MaxErrorBodySize bytes.
type APIError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("servicem8 API returned status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// makeRequest performs a request and returns the response for 2xx statuses only.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, query url.Values) (*http.Response, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug(ctx, "servicem8 request", "method", method, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
		c.logger.Warn(ctx, "servicem8 API error", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &APIError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	resp, err := c.makeRequest(ctx, http.MethodGet, endpoint, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// filterEq builds an OData "$filter" for field eq 'value'.
func filterEq(field, value string) url.Values {
	escaped := strings.ReplaceAll(value, "'", "''")
	return url.Values{"$filter": []string{fmt.Sprintf("%s eq '%s'", field, escaped)}}
}

// FindContactsByEmail returns the company contacts registered with email.
func (c *Client) FindContactsByEmail(ctx context.Context, email string) ([]models.CompanyContact, error) {
	var contacts []models.CompanyContact
	if err := c.getJSON(ctx, "/companycontact.json", filterEq("email", email), &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) GetJob(ctx context.Context, jobUUID string) (*models.Job, error) {
	var job models.Job
	if err := c.getJSON(ctx, "/job/"+url.PathEscape(jobUUID)+".json", nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobsByCompany returns every job whose client is companyUUID.
func (c *Client) ListJobsByCompany(ctx context.Context, companyUUID string) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.getJSON(ctx, "/job.json", filterEq("company_uuid", companyUUID), &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListAttachments returns the attachments linked to a job (or any other object).
func (c *Client) ListAttachments(ctx context.Context, relatedUUID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := c.getJSON(ctx, "/attachment.json", filterEq("related_object_uuid", relatedUUID), &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// AttachmentFile is an open attachment download. Callers must close Body.
type AttachmentFile struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// OpenAttachment starts downloading the binary content of an attachment.
func (c *Client) OpenAttachment(ctx context.Context, attachmentUUID string) (*AttachmentFile, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, "/Attachment/"+url.PathEscape(attachmentUUID)+".file", nil)
	if err != nil {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &AttachmentFile{
		Body:          resp.Body,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
	}, nil
}
