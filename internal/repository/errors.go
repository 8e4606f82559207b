// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios. For example,
// ErrNotFound indicates that a chat has no stored appointment; the admin
// handlers translate it into a 404 while the webhook handler turns it into
// a conversational reply.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist, such as
// asking for the appointment of a chat that never scheduled one.
var ErrNotFound = errors.New("not found")
