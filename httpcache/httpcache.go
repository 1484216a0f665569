// Package httpcache contains http utils to deal with remote services.
//
// Responses to successful GET requests are kept on disk and reused until the
// period they were fetched in is over.
package httpcache

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/riskreport/date"
	"github.com/rs/zerolog/log"
)

// Dir is the folder where cached responses are stored.
var Dir = os.TempDir()

// Disabled turns off the disk cache for every client created afterwards.
var Disabled bool

// UserAgent is sent with every request that does not set one.
var UserAgent = "riskreport/1.0 (+https://github.com/etnz/riskreport)"

// Period tells how long a cached response stays fresh.
type Period int

const (
	Daily   Period = iota // entries expire at midnight
	Monthly               // entries expire at the end of the month
)

// identifier returns a string unique to the period containing day.
func (p Period) identifier(day date.Date) string {
	if p == Monthly {
		return day.Format("2006-01")
	}
	return day.String()
}

func (p Period) String() string {
	if p == Monthly {
		return "monthly"
	}
	return "daily"
}

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base   http.RoundTripper
	period Period
	dir    string
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	// the key is unique per period, so the local tmp expires with it.
	key := fmt.Sprintf("%s %s %s", c.period.identifier(date.Today()), req.Method, req.URL.String())
	key = fmt.Sprintf("%s-%x", c.period, sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		log.Debug().Str("url", req.URL.Redacted()).Msg("cache hit")
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Str("status", resp.Status).Msg("http")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	if err := c.put(key, resp); err != nil {
		log.Warn().Err(err).Msg("cache write error (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// New returns an http.Client that uses a disk cache where entries expire
// with the period, or a plain client when the cache is Disabled.
func New(period Period) *http.Client {
	client := new(http.Client)
	if Disabled {
		return client
	}
	client.Transport = &diskCache{base: http.DefaultTransport, period: period, dir: Dir}
	return client
}

// StatusError is returned for a non 2xx response.
type StatusError struct {
	URL    string // without query, so without credentials
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %s: %s", e.URL, e.Status)
}

// Get performs an HTTP GET request and returns the response body.
//
// header may be nil. A non 2xx response returns a *StatusError.
func Get(ctx context.Context, client *http.Client, addr string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: resp.Request.URL.Host + resp.Request.URL.Path, Code: resp.StatusCode, Status: resp.Status}
	}
	return io.ReadAll(resp.Body)
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func GetJSON(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	body, err := Get(ctx, client, addr, header)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
