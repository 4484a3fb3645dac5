package config

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	assert.NoError(t, err)
	old := os.Stderr
	os.Stderr = w
	fn()
	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestPrintFatal(t *testing.T) {
	out := captureStderr(t, func() {
		PrintFatal(errors.New("boom"))
	})
	assert.Contains(t, out, "boom")
}

func TestPrintSummary_ReportsFailures(t *testing.T) {
	out := captureStderr(t, func() {
		PrintSummary([]UnitResult{
			{Path: "a.th", Err: errors.New("parse error")},
			{Path: "b.th", ObjectPath: "build/b.o"},
		})
	})
	assert.Contains(t, out, "a.th")
	assert.Contains(t, out, "1 of 2 units failed")
}
