// Package integrations provides the HTTP plumbing for fetching lockfiles and
// registry data.
//
// # Overview
//
// [Client] is shared by every fetcher:
//
//   - [crates]: the crates.io registry API
//   - lockfiles served over HTTP (via [Client.CachedText])
//
// It handles:
//   - default headers (crates.io requires a User-Agent, see [UserAgent])
//   - retries with exponential backoff for transient failures
//   - response caching through any [cache.Cache] backend
//
// # Errors
//
// A 404 maps to [ErrNotFound]. Connection failures and 5xx or 429 responses
// map to [ErrNetwork] and are retried; other statuses map to [ErrNetwork]
// without retry.
//
// [crates]: github.com/matzehuels/lockgraph/pkg/integrations/crates
// [cache.Cache]: github.com/matzehuels/lockgraph/pkg/cache.Cache
package integrations
