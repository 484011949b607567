// Package httputil provides the retry policy shared by the registry and
// lockfile HTTP clients.
//
// A [Policy] re-runs a fetch with doubling waits, but only when the error is
// wrapped in [RetryableError]. Clients wrap connection failures, 429 and 5xx
// responses; a 404 fails immediately. When the server sends Retry-After, the
// client stores the parsed value ([RetryAfter]) in RetryableError.After and
// the policy waits at least that long, capped by MaxDelay:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    if resp.StatusCode == http.StatusTooManyRequests {
//	        after := httputil.RetryAfter(resp.Header.Get("Retry-After"), time.Now())
//	        return &httputil.RetryableError{Err: errRateLimited, After: after}
//	    }
//	    ...
//	})
//
// Cancelling the context stops waiting immediately.
package httputil
