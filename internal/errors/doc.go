// Package errors provides structured, actionable errors for Imaginify.
//
// Every user-facing failure carries a code that maps to a registered
// template with a short message, a longer explanation and a documentation
// link. The CLI renders them with Format; the HTTP service serializes them
// with FormatJSON.
//
// # Error Categories
//
//   - runtime: failures raised while handling a request or command
//   - validation: bad user input (query strings, dimensions, merge inputs)
//   - transform: unknown transformation types or configs
//   - storage: upload and download failures
//   - config: invalid imaginify.json or environment overrides
//   - cli: command-line usage errors
//
// # Normalization
//
// Normalize turns any recovered or caught value into an error, logging the
// derived message before handing it back:
//
//	if err := doWork(); err != nil {
//	    return errors.Normalize(logger, err) // E100 "Error: <message>"
//	}
//
//	errors.Normalize(nil, 42) // E101 "Unknown error: 42"
package errors
