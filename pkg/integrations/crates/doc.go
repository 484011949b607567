// Package crates provides an HTTP client for the crates.io API and the
// adapter that turns its dependency records into dependency lists.
//
// # Usage
//
//	client := crates.NewClient(cache.NewNullCache(), 24*time.Hour)
//
//	info, err := client.FetchCrate(ctx, "serde", false)
//	records, err := client.FetchDependencies(ctx, "serde", info.Version, false)
//
//	names := crates.Adapt(records)             // []string{"serde_derive", ...}
//	ds := crates.AdaptDependencies(records)    // with req, kind, optional
//
// # Records
//
// crates.io returns dependency entries as JSON objects under a
// "dependencies" key. They are kept as generic [Record] values so fields the
// adapter does not know about never break decoding. A record without a
// string crate_id is skipped rather than treated as an error.
//
// # Kinds
//
// All kinds (normal, dev, build) are returned. Callers decide which to keep.
//
// # User-Agent
//
// crates.io rejects anonymous clients; [NewClient] sets
// [integrations.UserAgent] on every request.
package crates
