// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors; callers match with errors.Is.
var (
	// Wait errors
	ErrTimeout = errors.New("meshtest: timed out")

	// Packet decoding errors
	ErrPacketTooShort   = errors.New("meshtest: packet too short")
	ErrUnsupportedProto = errors.New("meshtest: unsupported protocol")

	// Shell introspection errors
	ErrMalformedOutput = errors.New("meshtest: malformed command output")

	// Configuration errors
	ErrConfigInvalid = errors.New("meshtest: invalid configuration")
)
