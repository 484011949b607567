package crates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/integrations"
)

// DefaultBaseURL is the crates.io API root.
const DefaultBaseURL = "https://crates.io/api/v1"

// CrateInfo holds metadata for a Rust crate from crates.io.
//
// Version is the crate's max_version. This struct is safe for concurrent
// reads after construction.
type CrateInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"`
	Repository  string `json:"repository,omitempty"`
	HomePage    string `json:"homepage,omitempty"`
	Downloads   int    `json:"downloads,omitempty"`
}

// Client provides access to the crates.io registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
// The client sets the User-Agent header crates.io requires.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return NewClientWithBaseURL(backend, cacheTTL, DefaultBaseURL)
}

// NewClientWithBaseURL is [NewClient] against a mirror or test server.
func NewClientWithBaseURL(backend cache.Cache, cacheTTL time.Duration, baseURL string) *Client {
	headers := map[string]string{"User-Agent": integrations.UserAgent}
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, headers),
		baseURL: baseURL,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// key scopes a cache key to the API root, so a mirror's answers are never
// served for another root sharing the cache.
func (c *Client) key(k string) string { return c.baseURL + "|" + k }

// FetchCrate retrieves crate metadata. Returns an error wrapping
// [integrations.ErrNotFound] if the crate does not exist.
func (c *Client) FetchCrate(ctx context.Context, crate string, refresh bool) (*CrateInfo, error) {
	var info CrateInfo
	err := c.Cached(ctx, c.key(crate), refresh, &info, func() error {
		return c.fetchCrate(ctx, crate, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetchCrate(ctx context.Context, crate string, info *CrateInfo) error {
	var data crateResponse
	url := fmt.Sprintf("%s/crates/%s", c.baseURL, integrations.PathEscape(crate))
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}

	*info = CrateInfo{
		Name:        data.Crate.Name,
		Version:     data.Crate.MaxVersion,
		Description: data.Crate.Description,
		License:     data.Crate.License,
		Repository:  integrations.NormalizeRepoURL(data.Crate.Repository),
		HomePage:    data.Crate.HomePage,
		Downloads:   data.Crate.Downloads,
	}
	return nil
}

// FetchDependencies retrieves the raw dependency records of one crate
// version, in the order crates.io returns them. Use [Adapt] or
// [AdaptDependencies] to turn them into dependency lists.
func (c *Client) FetchDependencies(ctx context.Context, crate, version string, refresh bool) ([]Record, error) {
	var data depsResponse
	err := c.Cached(ctx, c.key(crate+"@"+version), refresh, &data, func() error {
		url := fmt.Sprintf("%s/crates/%s/%s/dependencies",
			c.baseURL, integrations.PathEscape(crate), integrations.PathEscape(version))
		if err := c.Get(ctx, url, &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: crate %s %s", err, crate, version)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data.Dependencies, nil
}

type crateResponse struct {
	Crate struct {
		Name        string `json:"name"`
		MaxVersion  string `json:"max_version"`
		Description string `json:"description"`
		License     string `json:"license"`
		Repository  string `json:"repository"`
		HomePage    string `json:"homepage"`
		Downloads   int    `json:"downloads"`
	} `json:"crate"`
}

type depsResponse struct {
	Dependencies []Record `json:"dependencies"`
}
