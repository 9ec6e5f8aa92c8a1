// Package main provides the entry point for the linkscout CLI.
//
// linkscout fetches seed pages and lists the same-site pages they link to,
// bounded per seed, for handing to a downstream ingestion step.
//
// Usage:
//
//	linkscout discover https://example.com/docs/
//	linkscout history https://example.com/docs/ --diff
//
// See --help for all available options.
package main

func main() {
	Execute()
}
