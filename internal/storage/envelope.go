// Package storage wraps layout snapshots in a versioned envelope and moves
// them in and out of a single keyed slot or plain text.
package storage

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/model"
)

const (
	// AppID marks envelopes written by this application.
	AppID = "colmena-unidos"
	// SchemaVersion is the only envelope version Load accepts.
	SchemaVersion = 1
	// DefaultKey is the slot key used when none is configured.
	DefaultKey = "colmena_unidos_layout"

	savedAtLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Payload is the versioned body of an envelope.
type Payload struct {
	Version  int              `json:"version"`
	Snapshot *layout.Snapshot `json:"snapshot"`
}

// Envelope is the persisted and exchanged wire form of a layout.
type Envelope struct {
	App           string  `json:"app"`
	SchemaVersion int     `json:"schemaVersion"`
	SavedAt       string  `json:"savedAt"`
	Payload       Payload `json:"payload"`
}

// Meta is what a successful load reports besides the snapshot.
type Meta struct {
	SavedAt string `json:"savedAt"`
}

// Wrap puts snap in a current-version envelope stamped with now.
func Wrap(snap layout.Snapshot, now time.Time) Envelope {
	return Envelope{
		App:           AppID,
		SchemaVersion: SchemaVersion,
		SavedAt:       now.UTC().Format(savedAtLayout),
		Payload:       Payload{Version: SchemaVersion, Snapshot: &snap},
	}
}

// rawEnvelope keeps every field undecoded so shape checks can run before
// any typed decoding.
type rawEnvelope struct {
	App           json.RawMessage `json:"app"`
	SchemaVersion json.RawMessage `json:"schemaVersion"`
	SavedAt       json.RawMessage `json:"savedAt"`
	Payload       json.RawMessage `json:"payload"`
}

type rawPayload struct {
	Version  json.RawMessage `json:"version"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Decode parses an envelope and returns its snapshot.  It never touches a
// State.  Failures carry INVALID_JSON, UNSUPPORTED_VERSION or
// MISSING_SNAPSHOT.  Text that parses to a falsy value such as null is
// INVALID_JSON, and any other non-object is UNSUPPORTED_VERSION.
func Decode(data []byte) (layout.Snapshot, Meta, error) {
	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return layout.Snapshot{}, Meta{}, apperr.New(apperr.CodeInvalidJSON, err)
	}
	if !model.Truthy(top) {
		return layout.Snapshot{}, Meta{}, apperr.ErrInvalidJSON
	}
	if !isObject(top) {
		return layout.Snapshot{}, Meta{}, apperr.ErrUnsupportedVersion
	}

	var raw rawEnvelope
	if err := json.Unmarshal(top, &raw); err != nil {
		return layout.Snapshot{}, Meta{}, apperr.New(apperr.CodeInvalidJSON, err)
	}

	env, err := migrate(raw)
	if err != nil {
		return layout.Snapshot{}, Meta{}, err
	}

	var p rawPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return layout.Snapshot{}, Meta{}, apperr.New(apperr.CodeInvalidJSON, err)
	}
	if isAbsent(p.Snapshot) {
		return layout.Snapshot{}, Meta{}, apperr.ErrMissingSnapshot
	}

	var snap layout.Snapshot
	if err := json.Unmarshal(p.Snapshot, &snap); err != nil {
		return layout.Snapshot{}, Meta{}, apperr.New(apperr.CodeInvalidJSON, err)
	}

	var meta Meta
	// savedAt is informational; a malformed value is dropped, not fatal.
	_ = json.Unmarshal(env.SavedAt, &meta.SavedAt)
	return snap, meta, nil
}

// migrate validates the envelope shape and brings it to SchemaVersion.
// Only version 1 exists, so anything else is rejected.
func migrate(raw rawEnvelope) (rawEnvelope, error) {
	var app string
	if err := json.Unmarshal(raw.App, &app); err != nil || app != AppID {
		return raw, apperr.ErrUnsupportedVersion
	}
	var version float64
	if err := json.Unmarshal(raw.SchemaVersion, &version); err != nil {
		return raw, apperr.ErrUnsupportedVersion
	}
	if !isObject(raw.Payload) {
		return raw, apperr.ErrUnsupportedVersion
	}

	switch version {
	case SchemaVersion:
		return raw, nil
	default:
		return raw, apperr.ErrUnsupportedVersion
	}
}

// isAbsent treats every falsy snapshot value as missing.  A truthy
// non-object decodes as an empty snapshot and fails at apply time.
func isAbsent(m json.RawMessage) bool {
	return !model.Truthy(m)
}

func isObject(m json.RawMessage) bool {
	m = bytes.TrimSpace(m)
	return len(m) > 0 && m[0] == '{'
}

// ExportText renders s as an indented envelope.
func ExportText(s *layout.State, now time.Time) (string, error) {
	b, err := json.MarshalIndent(Wrap(s.Snapshot(), now), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseText decodes an envelope from text, tolerating comments and trailing
// commas so hand-edited files load.
func ParseText(text string) (layout.Snapshot, Meta, error) {
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return layout.Snapshot{}, Meta{}, apperr.ErrInvalidJSON
	}
	return Decode(jsonc.ToJSON([]byte(text)))
}

// ImportText parses text and applies it to s.  s is left untouched on any
// failure.
func ImportText(text string, s *layout.State) (Meta, error) {
	snap, meta, err := ParseText(text)
	if err != nil {
		return Meta{}, err
	}
	if err := s.Apply(snap); err != nil {
		return Meta{}, apperr.New(apperr.CodeApplyFailed, err)
	}
	return meta, nil
}
