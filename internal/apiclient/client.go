// internal/apiclient/client.go
//
// Typed HTTP client for the data API.
//
// Context
// -------
// cmd/web never touches MySQL; every read and write goes through here.
// Failures come back as internal/errs values:
//
//   • error JSON body       → errs.FromWire (same kind the server raised)
//   • transport failure     → errs.ErrUnreachable
//   • oversized upload      → errs.ErrPayloadTooLarge before any request
//
// Notes
// -----
// • No client-side timeout.  Callers bound a call with their context; a
//   request handler's context ends when the browser goes away.
// • The bearer token is taken from the context (auth.Token), so the same
//   Client serves every visitor.

package apiclient

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

	"github.com/yanizio/viyakaptan/internal/auth"
	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
)

// Client is safe for concurrent use.
type Client struct {
	base string
	http *http.Client

	Categories *Resource[content.Category, content.CategoryInput]
	Posts      *Posts
	Routes     *Resource[content.CaravanRoute, content.RouteInput]
	Hero       *Resource[content.HeroSection, content.HeroInput]
	Features   *Resource[content.FeatureCard, content.FeatureInput]
	Team       *Resource[content.TeamMember, content.TeamInput]
	Settings   *Settings
	Media      *Media
	Dashboard  *Dashboard
	Homepage   *Homepage
}

// New returns a client for the API at baseURL.  hc nil means a plain
// http.Client with no timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	c := &Client{base: strings.TrimSuffix(baseURL, "/"), http: hc}
	c.Categories = newResource[content.Category, content.CategoryInput](c, content.EntityCategories)
	c.Posts = &Posts{Resource: newResource[content.Post, content.PostInput](c, content.EntityPosts)}
	c.Routes = newResource[content.CaravanRoute, content.RouteInput](c, content.EntityRoutes)
	c.Hero = newResource[content.HeroSection, content.HeroInput](c, content.EntityHero)
	c.Features = newResource[content.FeatureCard, content.FeatureInput](c, content.EntityFeatures)
	c.Team = newResource[content.TeamMember, content.TeamInput](c, content.EntityTeam)
	c.Settings = &Settings{c: c}
	c.Media = &Media{c: c}
	c.Dashboard = &Dashboard{c: c}
	c.Homepage = &Homepage{c: c}
	return c
}

// do sends one request.  in is JSON-encoded when non-nil; out is decoded
// when non-nil and the response has a body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.base + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := auth.Token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// A cancelled caller is not an outage.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errs.Unreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var b struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Field   string `json:"field"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &b); err != nil || b.Error.Code == "" {
		// Not our error shape: a proxy or load balancer answered.
		if resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable ||
			resp.StatusCode == http.StatusGatewayTimeout {
			return errs.Unreachable(fmt.Errorf("status %d", resp.StatusCode))
		}
		return errs.FromWire(resp.StatusCode, "", strings.TrimSpace(string(raw)))
	}
	err := errs.FromWire(resp.StatusCode, b.Error.Code, b.Error.Message)
	var e *errs.Error
	if b.Error.Field != "" && errors.As(err, &e) {
		e.Field = b.Error.Field
	}
	return err
}

func filterQuery(f content.Filter) url.Values {
	q := url.Values{}
	if f.ActiveOnly {
		q.Set("activeOnly", "true")
	}
	if f.PublishedOnly {
		q.Set("publishedOnly", "true")
	}
	return q
}

func idPath(entity string, id int64) string {
	return "/" + entity + "/" + strconv.FormatInt(id, 10)
}
