// Package transport builds the HTTP clients used to fetch seed documents.
//
// A Client dials either directly or through a SOCKS5 proxy such as a local
// Tor daemon. EmbeddedTor starts a private Tor process for users without
// one. Site specific cookies and headers are attached by a RoundTripper
// wrapper so that redirects carry them as well.
//
// Seeds on .onion hosts are only reachable through Tor; ValidateOnionHost
// rejects malformed or retired (v2) onion names before any dial happens.
package transport
