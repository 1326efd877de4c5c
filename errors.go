package infopoisk

import "errors"

// ═══════════════════════════════════════════════════════════════════════════════
// ERROR DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════
// Errors are package-level sentinel values so callers can compare with errors.Is.
// TermNotFound is deliberately absent from this list: an unknown term resolves
// to an empty posting set silently (see parseFactor in query.go), it is not
// an error.
// ═══════════════════════════════════════════════════════════════════════════════
var (
	// ErrInvalidFormat means the file's magic number did not match "FASH".
	ErrInvalidFormat = errors.New("infopoisk: invalid index file format")

	// ErrUnsupportedVersion means the file's version field was not 1.
	ErrUnsupportedVersion = errors.New("infopoisk: unsupported index file version")

	// ErrFormatLimitExceeded means a string field overflowed its length prefix
	// (255 bytes for a 1-byte length, 65535 bytes for a 2-byte length).
	ErrFormatLimitExceeded = errors.New("infopoisk: field exceeds binary format length limit")

	// ErrOutOfRange means a document id was requested outside [0, doc_count).
	ErrOutOfRange = errors.New("infopoisk: document id out of range")

	// ErrMalformedQuery means the query parser hit an unexpected lexeme, a
	// missing closing parenthesis, or an empty factor position.
	ErrMalformedQuery = errors.New("infopoisk: malformed query")

	// ErrIndexNotLoaded means a search was attempted against a facade whose
	// index has not been built or loaded.
	ErrIndexNotLoaded = errors.New("infopoisk: index not loaded")
)
