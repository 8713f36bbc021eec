// Package remote downloads string resources from the game's content servers
// and checks a local table against them.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/lawnstrings/pkg/adapters/plain"
	"github.com/aretw0/lawnstrings/pkg/core"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

var (
	ErrUnknownServer   = errors.New("unknown server")
	ErrUnknownResource = errors.New("unknown resource")
)

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Server holds the URLs of one server's resources.
type Server struct {
	Strings string `mapstructure:"strings" toml:"strings" yaml:"strings" json:"strings"`
	Hash    string `mapstructure:"hash" toml:"hash" yaml:"hash" json:"hash"`
}

// Servers maps a server name to its resources.
type Servers map[string]Server

// DefaultServers returns the release and shipping servers.
func DefaultServers() Servers {
	return Servers{
		"release": {
			Strings: "https://pvz2cdn.ditwan.cn/ad/res_release/pvz2_l.txt",
			Hash:    "https://pvz2cdn.ditwan.cn/ad/res_release/file_list.txt",
		},
		"shipping": {
			Strings: "https://pvz2cdn.ditwan.cn/ad/res_shipping/pvz2_l.txt",
			Hash:    "https://pvz2cdn.ditwan.cn/ad/res_shipping/file_list.txt",
		},
	}
}

// Names returns the server names in lexical order.
func (s Servers) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resource selects what to download from a server.
type Resource int

const (
	ResourceStrings Resource = iota
	ResourceHash
	ResourceAll
)

func (r Resource) String() string {
	switch r {
	case ResourceStrings:
		return "strings"
	case ResourceHash:
		return "hash"
	case ResourceAll:
		return "all"
	}
	return fmt.Sprintf("Resource(%d)", int(r))
}

// ParseResource parses "strings", "hash" (or "md5") and "all".
func ParseResource(s string) (Resource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strings", "res":
		return ResourceStrings, nil
	case "hash", "md5":
		return ResourceHash, nil
	case "all":
		return ResourceAll, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResource, s)
}

// Client fetches resources over HTTP.
type Client struct {
	http      *http.Client
	servers   Servers
	transform Transform
	codec     core.PlainCodec
	logger    *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout is left as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithServers replaces the server table.
func WithServers(s Servers) Option {
	return func(c *Client) {
		c.servers = s
	}
}

// WithTransform sets the compiled-text transform applied to every body.
func WithTransform(t Transform) Option {
	return func(c *Client) {
		c.transform = t
	}
}

// WithPlainCodec sets the codec used to read and write plain-text tables.
func WithPlainCodec(codec core.PlainCodec) Option {
	return func(c *Client) {
		c.codec = codec
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Client for the default servers.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		servers:   DefaultServers(),
		transform: TransformPlain,
		codec:     plain.NewCodec(),
		logger:    slog.New(slog.DiscardHandler),
		userAgent: "lawnstrings",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Server looks up a server by name.
func (c *Client) Server(name string) (Server, error) {
	s, ok := c.servers[name]
	if !ok {
		return Server{}, fmt.Errorf("%w: %q", ErrUnknownServer, name)
	}
	return s, nil
}

// Fetch downloads rawURL and writes the decoded body to w.
func (c *Client) Fetch(ctx context.Context, rawURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching", "url", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := c.transform.Decode(resp.Body)
	if err != nil {
		return err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	c.logger.Debug("fetched", "url", rawURL, "bytes", n)
	return nil
}

// Download fetches rawURL into dir under the URL's base name and returns the
// written path. The file only appears once the body was read completely.
func (c *Client) Download(ctx context.Context, rawURL, dir string) (string, error) {
	name, err := fileName(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	target := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".part-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := c.Fetch(ctx, rawURL, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to rename temp file to %s: %w", target, err)
	}

	c.logger.Info("downloaded", "file", target)
	return target, nil
}

// DownloadAll fetches res from the named server into <baseDir>/<server> and
// returns the written paths. Both files of ResourceAll are fetched concurrently.
func (c *Client) DownloadAll(ctx context.Context, server string, res Resource, baseDir string) ([]string, error) {
	s, err := c.Server(server)
	if err != nil {
		return nil, err
	}

	var urls []string
	switch res {
	case ResourceStrings:
		urls = []string{s.Strings}
	case ResourceHash:
		urls = []string{s.Hash}
	case ResourceAll:
		urls = []string{s.Hash, s.Strings}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownResource, res)
	}

	dir := filepath.Join(baseDir, server)
	paths := make([]string, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			p, err := c.Download(ctx, u, dir)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// GetUpdate writes to diff the entries of the server's strings whose keys are
// missing from local. Both sides are plain text in the default encoding.
func (c *Client) GetUpdate(ctx context.Context, local io.Reader, diff io.Writer, server string, exclude core.ExcludeSet) error {
	s, err := c.Server(server)
	if err != nil {
		return err
	}

	var res bytes.Buffer
	if err := c.Fetch(ctx, s.Strings, &res); err != nil {
		return err
	}

	enc := core.EncodingUTF8BOM
	localMap, err := c.codec.ReadMap(local, enc)
	if err != nil {
		return fmt.Errorf("failed to read local strings: %w", err)
	}
	serverMap, err := c.codec.ReadMap(&res, enc)
	if err != nil {
		return fmt.Errorf("failed to read server strings: %w", err)
	}

	added := core.AddedMap(localMap, serverMap, exclude)
	c.logger.Debug("update computed", "server", server, "added", len(added))
	return c.codec.WriteEntries(diff, added, enc)
}

func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("invalid url %q: no file name", rawURL)
	}
	return name, nil
}
