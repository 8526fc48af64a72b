// Package repository provides MySQL persistence for gate agents and the
// boarding-sequence history.  Sentinel errors defined here let handlers map
// failures onto HTTP statuses without inspecting driver errors:
// ErrManifestNotFound becomes 404 and ErrEmailExists 409.
package repository

import "errors"

// ErrManifestNotFound is returned when a manifest lookup yields no rows.
var ErrManifestNotFound = errors.New("manifest not found")

// ErrEmailExists is returned when registering an agent with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
