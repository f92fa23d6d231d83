package types

import "errors"

// Sentinel errors returned by the build and query paths. Components wrap
// these with fmt.Errorf("%w", ...) so callers can classify failures with
// errors.Is.
var (
	// ErrNotFound indicates a required input (the collected stream, a
	// chunk ID) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBuildFailed indicates staging or store construction failed. The
	// previously active index, if any, is preserved.
	ErrBuildFailed = errors.New("index build failed")

	// ErrBuildInProgress indicates another build of the same collection is
	// already running.
	ErrBuildInProgress = errors.New("index build already in progress")

	// ErrInvalidArgument indicates malformed query parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexUnavailable indicates a query arrived before any successful
	// build.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrIdentityCollision indicates two chunks produced the same chunk ID
	// within one build. This is an invariant violation and aborts the build.
	ErrIdentityCollision = errors.New("chunk identity collision")
)
