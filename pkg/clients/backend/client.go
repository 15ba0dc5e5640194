// Package backend is the record gateway to the REST backend. Every call
// resolves to either a payload or a *models.Error; nothing is retried.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/config"
	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// Client is a resty-backed gateway shared by every resource.
type Client struct {
	httpClient *resty.Client
	bearer     bool
	logger     *zap.Logger
	articles   *ArticleResource
	clients    *Resource[models.Client]
}

// NewClient builds a gateway using the provided configuration values. In
// cookie mode resty's cookie jar carries the backend session; in bearer mode
// the token found on the request context is sent instead.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	c := &Client{
		httpClient: restyClient,
		bearer:     cfg.AuthMode == config.AuthModeBearer,
		logger:     logger,
	}
	c.articles = &ArticleResource{Resource: newResource[models.Article](c, cfg.ArticlesPath, articleEntity)}
	c.clients = newResource[models.Client](c, cfg.ClientsPath, clientEntity)
	return c
}

// Articles returns the article resource.
func (c *Client) Articles() *ArticleResource { return c.articles }

// Clients returns the client resource.
func (c *Client) Clients() *Resource[models.Client] { return c.clients }

type tokenKey struct{}

// WithToken attaches a session token used as bearer credentials.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// errorBody is the error payload the backend returns.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) request(ctx context.Context, apiErr *errorBody) *resty.Request {
	req := c.httpClient.R().SetContext(ctx).SetError(apiErr)
	if c.bearer {
		if token := tokenFrom(ctx); token != "" {
			req.SetAuthToken(token)
		}
	}
	return req
}

// entity carries the user-facing wording for one record type.
type entity struct {
	name      string
	duplicate string
}

var (
	articleEntity = entity{name: "Article", duplicate: "Article reference already exists"}
	clientEntity  = entity{name: "Client", duplicate: "Client already exists"}
)

// classify turns a transport outcome into the shared error taxonomy.
func (c *Client) classify(e entity, op string, resp *resty.Response, err error, apiErr *errorBody) error {
	if err != nil {
		var netErr net.Error
		var out *models.Error
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
			out = models.NewError(models.KindTimeout, 0, "Request timeout. Please try again.", err)
		case resp != nil && resp.RawResponse != nil:
			out = models.NewError(models.KindServer, resp.StatusCode(), "Unexpected response from server", err)
		default:
			out = models.NewError(models.KindNetwork, 0, "Network error. Please check your connection and try again.", err)
		}
		c.logFailure(e, op, out)
		return out
	}

	if !resp.IsError() {
		return nil
	}

	status := resp.StatusCode()
	detail := ""
	if apiErr != nil {
		detail = apiErr.Message
		if detail == "" {
			detail = apiErr.Error
		}
	}
	if detail == "" {
		detail = fmt.Sprintf("Failed to %s %s", op, strings.ToLower(e.name))
	}

	var out *models.Error
	switch {
	case status == http.StatusBadRequest:
		out = models.NewError(models.KindBadRequest, status, "Validation error: "+detail, nil)
	case status == http.StatusUnauthorized:
		out = models.NewError(models.KindUnauthorized, status, "Authentication required", nil)
	case status == http.StatusForbidden:
		out = models.NewError(models.KindForbidden, status, "Access denied", nil)
	case status == http.StatusNotFound:
		out = models.NewError(models.KindNotFound, status, e.name+" not found", nil)
	case status == http.StatusConflict:
		out = models.NewError(models.KindDuplicate, status, e.duplicate, nil)
	case status == http.StatusUnprocessableEntity:
		out = models.NewError(models.KindBadRequest, status, "Invalid data: "+detail, nil)
	case status == http.StatusTooManyRequests:
		out = models.NewError(models.KindServer, status, "Too many requests. Please try again later.", nil)
	case status >= http.StatusInternalServerError:
		out = models.NewError(models.KindServer, status, "Server error. Please try again later.", nil)
	default:
		out = models.NewError(models.KindServer, status, "Error: "+detail, nil)
	}
	c.logFailure(e, op, out)
	return out
}

func (c *Client) logFailure(e entity, op string, err *models.Error) {
	c.logger.Warn("backend request failed",
		zap.String("entity", e.name),
		zap.String("operation", op),
		zap.String("kind", string(err.Kind)),
		zap.Int("status", err.Status),
		zap.Error(err))
}
