package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// APIError is a non-2xx response from the contacts API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contacts api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("contacts api: status %d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the contacts HTTP API.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetError(&errorBody{})
	return &Client{http: rc}
}

func (c *Client) FetchContacts(ctx context.Context, page, limit int) (*contacts.Page, error) {
	var out contacts.Page
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if page > 0 {
		req.SetQueryParam("page", strconv.Itoa(page))
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	resp, err := req.Get("/contacts")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	if out.Contacts == nil {
		out.Contacts = []repository.Contact{}
	}
	return &out, nil
}

func (c *Client) CreateContact(ctx context.Context, in contacts.Input) (*repository.Contact, error) {
	var out repository.Contact
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		Post("/contacts")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Delete("/contacts/{id}")
	return check(resp, err)
}

func (c *Client) DeleteAllContacts(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("all", "true").
		Delete("/contacts")
	return check(resp, err)
}

// Health reports whether the server and its store answer.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/healthz")
	return check(resp, err)
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("contacts api request failed: %w", err)
	}
	if !resp.IsError() && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(resp.Body()))
	}
	return apiErr
}
