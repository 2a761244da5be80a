package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/encodeous/coretopo/perf"
	"github.com/encodeous/coretopo/state"
	"github.com/jellydator/ttlcache/v3"
)

// Session is the part of a remote CORE session the editor talks to
type Session interface {
	GetLinks(ctx context.Context, node state.NodeId) (LinksResponse, error)
	GetNodeAddresses(ctx context.Context, node state.NodeId, ip4, ip6 netip.Prefix) (Addresses, error)
	CreateNode(ctx context.Context, node NodeRecord) (Ack, error)
	CreateLink(ctx context.Context, link LinkRecord) (Ack, error)
	SetSessionState(ctx context.Context, s SessionState) error
}

// Client implements Session over the CORE REST API
type Client struct {
	base    *url.URL
	http    *http.Client
	session atomic.Int64
	links   *ttlcache.Cache[state.NodeId, LinksResponse]
	log     *slog.Logger
}

var _ Session = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(cl *Client) {
		cl.http.Timeout = timeout
	}
}

// WithLinkCache caches node link listings for ttl. Creating a link clears the cache.
func WithLinkCache(ttl time.Duration) Option {
	return func(cl *Client) {
		if ttl <= 0 {
			return
		}
		cl.links = ttlcache.New[state.NodeId, LinksResponse](
			ttlcache.WithTTL[state.NodeId, LinksResponse](ttl),
			ttlcache.WithDisableTouchOnHit[state.NodeId, LinksResponse](),
		)
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(cl *Client) {
		cl.log = log
	}
}

func NewClient(baseUrl string, session int, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote url %q: scheme must be http or https", baseUrl)
	}
	c := &Client{
		base: base,
		http: &http.Client{},
		log:  slog.Default(),
	}
	c.session.Store(int64(session))
	for _, opt := range opts {
		opt(c)
	}
	if c.links != nil {
		go c.links.Start()
	}
	return c, nil
}

// NewClientFromConfig builds a client from the remote section of the config
func NewClientFromConfig(cfg state.RemoteCfg, log *slog.Logger) (*Client, error) {
	return NewClient(cfg.Url, cfg.Session,
		WithTimeout(cfg.Timeout),
		WithLinkCache(cfg.LinkCacheTTL),
		WithLogger(log),
	)
}

func (c *Client) Close() {
	if c.links != nil {
		c.links.Stop()
	}
}

func (c *Client) SessionId() int {
	return int(c.session.Load())
}

// UseSession points all session scoped calls at another session
func (c *Client) UseSession(id int) {
	c.session.Store(int64(id))
	if c.links != nil {
		c.links.DeleteAll()
	}
}

func (c *Client) sessionPath(format string, args ...any) string {
	return fmt.Sprintf("/sessions/%d", c.SessionId()) + fmt.Sprintf(format, args...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	perf.RemoteCalls.Add(1)
	err := c.roundTrip(ctx, method, path, body, out)
	if err != nil {
		perf.RemoteFailures.Add(1)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("remote call", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) Sessions(ctx context.Context) ([]SessionInfo, error) {
	var res SessionsResponse
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &res); err != nil {
		return nil, &state.RemoteError{Op: "get sessions", Err: err}
	}
	return res.Sessions, nil
}

// CreateSession creates a session and switches the client to it
func (c *Client) CreateSession(ctx context.Context) (SessionInfo, error) {
	var res SessionInfo
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, &res); err != nil {
		return SessionInfo{}, &state.RemoteError{Op: "create session", Err: err}
	}
	c.UseSession(res.Id)
	return res, nil
}

func (c *Client) GetSession(ctx context.Context) (SessionInfo, error) {
	var res SessionInfo
	if err := c.do(ctx, http.MethodGet, c.sessionPath(""), nil, &res); err != nil {
		return SessionInfo{}, &state.RemoteError{Op: "get session", Err: err}
	}
	if res.Id == 0 {
		res.Id = c.SessionId()
	}
	return res, nil
}

func (c *Client) GetLinks(ctx context.Context, node state.NodeId) (LinksResponse, error) {
	if c.links != nil {
		if item := c.links.Get(node); item != nil {
			return item.Value(), nil
		}
	}
	var res LinksResponse
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/nodes/%d/links", node), nil, &res); err != nil {
		return LinksResponse{}, &state.RemoteError{Op: "get links", Node: node, Err: err}
	}
	if c.links != nil {
		c.links.Set(node, res, ttlcache.DefaultTTL)
	}
	return res, nil
}

type ipsRequest struct {
	Session int          `json:"session"`
	Id      state.NodeId `json:"id"`
	Ip4     string       `json:"ip4"`
	Ip6     string       `json:"ip6"`
}

func (c *Client) GetNodeAddresses(ctx context.Context, node state.NodeId, ip4, ip6 netip.Prefix) (Addresses, error) {
	req := ipsRequest{
		Session: c.SessionId(),
		Id:      node,
		Ip4:     ip4.String(),
		Ip6:     ip6.String(),
	}
	var res Addresses
	if err := c.do(ctx, http.MethodPost, "/ips", req, &res); err != nil {
		return Addresses{}, &state.RemoteError{Op: "get node addresses", Node: node, Err: err}
	}
	return res, nil
}

func (c *Client) CreateNode(ctx context.Context, node NodeRecord) (Ack, error) {
	var res Ack
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/nodes"), node, &res); err != nil {
		return Ack{}, &state.RemoteError{Op: "create node", Node: node.Id, Err: err}
	}
	return res, nil
}

func (c *Client) CreateLink(ctx context.Context, link LinkRecord) (Ack, error) {
	var res Ack
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/links"), link, &res); err != nil {
		return Ack{}, &state.RemoteError{Op: "create link " + state.LinkKey(link.Node1Id, link.Node2Id), Err: err}
	}
	if c.links != nil {
		c.links.DeleteAll()
	}
	return res, nil
}

type stateRequest struct {
	State SessionState `json:"state"`
}

func (c *Client) SetSessionState(ctx context.Context, s SessionState) error {
	if err := c.do(ctx, http.MethodPut, c.sessionPath("/state"), stateRequest{State: s}, nil); err != nil {
		return &state.RemoteError{Op: "set session state " + s.String(), Err: err}
	}
	return nil
}
