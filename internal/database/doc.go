// Package database stores discovery history in a single SQLite file
// (modernc.org/sqlite, no cgo).
//
// Each discovery is one row in discoveries; its URLs, in result order, are
// rows in discovered_urls. History is used to show how the links found for
// a seed change between runs.
package database
