// Package client is an HTTP client of the FindGreatSchool.com API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/application"
	"github.com/trezcool/findgreatschool/core/contact"
	"github.com/trezcool/findgreatschool/core/institution"
)

// RemoteError is a failed API call. Message is the server's message when it sent one.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

type (
	Option func(c *Client)

	// Client calls the API. It is safe for concurrent use.
	Client struct {
		baseURL string
		token   string
		http    *http.Client
		logger  core.Logger // optional
	}
)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger logs the records dropped by normalization.
func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs the search of fs. Invalid records are dropped.
func (c *Client) Search(ctx context.Context, fs institution.FilterState) ([]institution.Summary, error) {
	var resp struct {
		Results []institution.Summary `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/institutions?"+institution.Encode(fs), nil, &resp); err != nil {
		return nil, err
	}
	results := make([]institution.Summary, 0, len(resp.Results))
	for _, s := range resp.Results {
		s, err := institution.Normalize(s)
		if err != nil {
			c.dropped(err)
			continue
		}
		results = append(results, s)
	}
	return results, nil
}

// GetApproved returns the approved institutions among ids, in the order of ids. Invalid records are dropped.
func (c *Client) GetApproved(ctx context.Context, ids []string) ([]institution.Institution, error) {
	ids = core.CleanStrings(ids)
	if len(ids) == 0 {
		return []institution.Institution{}, nil
	}
	v := make(url.Values)
	for _, id := range ids {
		v.Add("id", id)
	}
	var insts []institution.Institution
	if err := c.do(ctx, http.MethodGet, "/v1/institutions/lookup?"+v.Encode(), nil, &insts); err != nil {
		return nil, err
	}
	valid := make([]institution.Institution, 0, len(insts))
	for _, inst := range insts {
		inst, err := institution.NormalizeInstitution(inst)
		if err != nil {
			c.dropped(err)
			continue
		}
		valid = append(valid, inst)
	}
	return valid, nil
}

func (c *Client) Get(ctx context.Context, id string) (institution.Institution, error) {
	var inst institution.Institution
	if err := c.do(ctx, http.MethodGet, "/v1/institutions/"+url.PathEscape(id), nil, &inst); err != nil {
		return institution.Institution{}, err
	}
	return institution.NormalizeInstitution(inst)
}

// Filters fetches the filter panel of fs.Category, checked according to fs.
func (c *Client) Filters(ctx context.Context, fs institution.FilterState) (institution.Panel, error) {
	var p institution.Panel
	err := c.do(ctx, http.MethodGet, "/v1/filters?"+institution.Encode(fs), nil, &p)
	return p, err
}

// Apply returns the server's confirmation message.
func (c *Client) Apply(ctx context.Context, institutionID string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/institutions/"+url.PathEscape(institutionID)+"/apply", nil, &resp)
	return resp.Message, err
}

func (c *Client) Applications(ctx context.Context) ([]application.StudentApplication, error) {
	var apps []application.StudentApplication
	if err := c.do(ctx, http.MethodGet, "/v1/applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Contact returns the server's confirmation message.
func (c *Client) Contact(ctx context.Context, msg contact.Message) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/contact", msg, &resp)
	return resp.Message, err
}

func (c *Client) dropped(err error) {
	if c.logger != nil {
		c.logger.Warn(fmt.Sprintf("dropping record: %v", err))
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Message: "could not reach the server: " + errors.Cause(err).Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{StatusCode: resp.StatusCode, Message: "could not read the response"}
	}
	if resp.StatusCode >= 400 {
		return &RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &RemoteError{StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}

// errorMessage extracts the message of an API error body: either {"error": msg} or {field: msg}.
func errorMessage(code int, data []byte) string {
	var single struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &single); err == nil && single.Error != "" {
		return single.Error
	}
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err == nil && len(fields) > 0 {
		msgs := make([]string, 0, len(fields))
		for f, m := range fields {
			msgs = append(msgs, f+": "+m)
		}
		sort.Strings(msgs)
		return strings.Join(msgs, "; ")
	}
	return http.StatusText(code)
}
