// Package log provides the slog setup used across parsescope. Its handler
// wraps any slog.Handler and scrubs attribute values before they are
// written.
//
// Values are masked when:
//   - the attribute key names a secret (authorization, cookie, x-api-key,
//     password, token and similar)
//   - the value looks like a token (JWT, bearer or basic credentials,
//     long API keys, AWS access keys, private key armor)
//   - the value is shaped like a credential dump line, identifier:secret,
//     which is common in extracted file content
//
// Other string values are clipped to DefaultMaxValueLen characters.
// Masking applies in verbose mode too.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: verbose, Format: log.FormatJSON})
//	logger.Debug("request sent", "x-api-key", key) // "x-api-key":"***REDACTED***"
//	slog.SetDefault(logger)
package log
