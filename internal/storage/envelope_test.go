package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/layout"
)

func TestExportImportText(t *testing.T) {
	src := paintedState()
	text, err := ExportText(src, fixedNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "{\n  \"app\": \"colmena-unidos\""))

	dst := layout.NewState(layout.Overrides{})
	meta, err := ImportText(text, dst)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T09:26:53.589Z", meta.SavedAt)
	assert.Equal(t, src.Cells, dst.Cells)
	assert.Equal(t, src.EventName, dst.EventName)
}

func TestImportTextToleratesComments(t *testing.T) {
	text, err := ExportText(paintedState(), fixedNow)
	require.NoError(t, err)
	edited := "// exported for the Gala\n" + strings.Replace(text, `"schemaVersion": 1,`, `"schemaVersion": 1, /* v1 */`, 1)

	dst := layout.NewState(layout.Overrides{})
	_, err = ImportText(edited, dst)
	require.NoError(t, err)
	assert.Equal(t, "Gala", dst.EventName)
}

func TestImportTextFailuresLeaveStateUntouched(t *testing.T) {
	cases := map[string]apperr.Code{
		"":    apperr.CodeInvalidJSON,
		"   ": apperr.CodeInvalidJSON,
		"[1,": apperr.CodeInvalidJSON,
		`{"app":"colmena-unidos","schemaVersion":2,"payload":{}}`:                                          apperr.CodeUnsupportedVersion,
		`{"app":"colmena-unidos","schemaVersion":1,"payload":{}}`:                                          apperr.CodeMissingSnapshot,
		`{"app":"colmena-unidos","schemaVersion":1,"payload":{"snapshot":{"rows":5,"cols":5,"cells":[]}}}`: apperr.CodeApplyFailed,
	}
	for text, code := range cases {
		dst := paintedState()
		before := dst.Snapshot()
		_, err := ImportText(text, dst)
		assert.Equal(t, code, apperr.CodeOf(err), "input %q", text)
		assert.Equal(t, before, dst.Snapshot(), "input %q", text)
	}
}

func TestDecodeSanitizesBogusCells(t *testing.T) {
	cells := strings.Repeat(`{"type":null,"zone":"none","sellState":"available"},`, 24)
	text := `{"app":"colmena-unidos","schemaVersion":1,"payload":{"version":1,"snapshot":{"rows":5,"cols":5,"cells":[` +
		cells + `{"type":"bogus","zone":"nowhere","sellState":"??"}]}}}`

	snap, _, err := Decode([]byte(text))
	require.NoError(t, err)

	s := layout.NewState(layout.Overrides{})
	require.NoError(t, s.Apply(snap))
	last := s.Cells[24]
	assert.True(t, last.IsEmpty())
	assert.Equal(t, "none", string(last.Zone))
	assert.Equal(t, "available", string(last.SellState))
}
