// Package repository holds the storage-slot backends a layout envelope can
// be persisted to.  Every backend stores one opaque string per key.
package repository

import "errors"

// ErrSlotEmpty is returned by Get when nothing is stored under the key.
// The storage layer translates it into NO_DATA.
var ErrSlotEmpty = errors.New("slot is empty")
