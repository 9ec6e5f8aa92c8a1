package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 probe in CheckConnection.
const checkProxyTimeout = 2 * time.Second

// maxRedirects is the number of redirects followed before the last response
// is returned as is.
const maxRedirects = 10

// Client dials connections for HTTP clients, either directly or through a
// SOCKS5 proxy.
type Client struct {
	// proxyAddress is the SOCKS5 proxy in host:port form, or empty for
	// direct connections.
	proxyAddress string

	dialer  proxy.Dialer
	timeout time.Duration
}

// NewClient returns a Client that dials through the SOCKS5 proxy at
// proxyAddress. An empty proxyAddress dials directly.
//
// The proxy is not contacted here; use CheckConnection to verify it.
func NewClient(proxyAddress string, timeout time.Duration) (*Client, error) {
	if proxyAddress == "" {
		return &Client{dialer: proxy.Direct, timeout: timeout}, nil
	}

	if !isValidProxyAddress(proxyAddress) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, proxyAddress)
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	return &Client{
		proxyAddress: proxyAddress,
		dialer:       dialer,
		timeout:      timeout,
	}, nil
}

// isValidProxyAddress checks that address is host:port with a non-empty
// host and a port in 1..65535. IPv6 hosts must be bracketed.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// ProxyAddress returns the configured proxy address, or "" when dialing
// directly.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// Proxied reports whether connections go through a SOCKS5 proxy.
func (c *Client) Proxied() bool {
	return c.proxyAddress != ""
}

// SOCKS5 protocol constants.
const (
	socks5Version       = 0x05
	socks5AuthNone      = 0x00
	socks5AuthNoAccept  = 0xFF
	socks5CmdConnect    = 0x01
	socks5AddrTypeDomID = 0x03

	// socks5ProbeHost is a reserved name (RFC 6761) used in the CONNECT probe.
	// Only the shape of the reply matters, not whether it succeeds.
	socks5ProbeHost = "linkscout-probe.invalid"
)

// CheckConnection performs a SOCKS5 greeting and CONNECT request against
// the proxy. A proxy that answers the CONNECT with any SOCKS5 reply code is
// considered working. Direct clients always report ProxyStatusOK.
func (c *Client) CheckConnection(ctx context.Context) ProxyStatus {
	if !c.Proxied() {
		return ProxyStatusOK
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		return readFailure(err)
	}
	if authResp[0] != socks5Version || authResp[1] == socks5AuthNoAccept || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	const probePort = 80
	connectReq := []byte{
		socks5Version,
		socks5CmdConnect,
		0x00, // reserved
		socks5AddrTypeDomID,
		byte(len(socks5ProbeHost)),
	}
	connectReq = append(connectReq, socks5ProbeHost...)
	connectReq = append(connectReq, byte(probePort>>8), byte(probePort&0xFF))

	if _, err := conn.Write(connectReq); err != nil {
		return ProxyStatusCannotConnect
	}

	// version, reply, reserved, address type
	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		return readFailure(err)
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// readFailure classifies an error reading a SOCKS5 reply.
func readFailure(err error) ProxyStatus {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}

// DialContext connects to address through the configured dialer.
func (c *Client) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := c.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan dialResult, 1)
	go func() {
		conn, err := c.dialer.Dial(network, address)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case result := <-resultCh:
		return result.conn, result.err
	case <-ctx.Done():
		go func() {
			if result := <-resultCh; result.conn != nil {
				_ = result.conn.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// NewHTTPClient returns an HTTP client that dials through c. It keeps
// cookies set during redirects and follows at most ten redirects.
func (c *Client) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext:         c.DialContext,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	if c.Proxied() {
		// Compressed sizes leak content over anonymizing circuits.
		transport.DisableCompression = true
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// HTTPClientWithConfig returns NewHTTPClient wrapped so every request,
// redirects included, carries cookie and headers. A client without either
// is returned unwrapped.
//
// cookie is a raw Cookie header value such as "session=abc; theme=dark".
func (c *Client) HTTPClientWithConfig(cookie string, headers map[string]string) *http.Client {
	client := c.NewHTTPClient()
	if cookie == "" && len(headers) == 0 {
		return client
	}

	client.Transport = &headerInjectingTransport{
		base:    client.Transport,
		cookie:  cookie,
		headers: headers,
	}
	return client
}

// headerInjectingTransport adds a cookie and fixed headers to each request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
