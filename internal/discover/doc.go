// Package discover finds the pages a seed document links to.
//
// A Discoverer fetches one seed URL, extracts every anchor whose href is
// rooted at "/" and resolves those references against the seed. The result
// always starts with the seed, contains no duplicates and holds at most
// limit+1 entries. Only the seed is fetched; the returned URLs are meant for
// a downstream ingestion step that fetches them on its own.
//
// # Bounds
//
// Let n be the number of root-relative anchors and cap = min(limit+1, n).
// Candidates are examined in document order until either the result holds
// cap entries or cap candidates have been examined. The second bound means
// duplicate links consume examination budget:
//
//	limit=1, links "/", "/", "/a", seed "https://example.com/"
//	=> ["https://example.com/"]
//
// Because the seed already occupies one slot, a page with n candidates adds
// at most n-1 URLs. A page with a single root-relative link yields only the
// seed.
//
// # Errors
//
// Failures to retrieve the seed are reported as *FetchError, including
// non-2xx responses. A body that is not markup is reported as *ParseError.
// Both are wrapped with the "discover:" prefix and inspected with errors.As.
//
// # Usage
//
//	d := discover.New(client, discover.WithUserAgent("my-agent"))
//	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
//	defer cancel()
//	urls, err := d.Discover(ctx, "https://example.com/docs/", 10)
package discover
