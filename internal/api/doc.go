// Package api is the HTTP client for the Parser Engine backend.
//
// Every endpoint of the backend has a method on Client. All methods take a
// context and return the decoded response. Non-2xx responses are returned
// as *Error, whose Message follows the backend's "detail" / "error" fields;
// transport failures wrap ErrUnreachable.
//
// Backend traffic can be routed through a SOCKS5 proxy with WithProxy.
package api
