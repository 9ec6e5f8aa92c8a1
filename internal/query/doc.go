// Package query serializes ordered query parameters for seed URLs.
//
// The encoding matches what browsers and most HTTP client libraries produce
// for form-style parameters: components are percent-encoded, spaces become
// "+", and the characters ':', '$', ',', '[' and ']' are left readable.
// Lists are written as key[0]=a&key[1]=b unless indices are skipped.
package query
