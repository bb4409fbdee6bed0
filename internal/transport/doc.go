// Package transport provides the HTTP client used for every outbound fetch.
//
// The client enforces two independent timeouts: a connect timeout for
// establishing the TCP connection and a read timeout that bounds every
// single read from the socket, including the wait for response headers.
// A slow but steadily streaming server is not cut off; a stalled one is.
//
// Traffic can optionally be routed through a SOCKS5 proxy.
package transport
