package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	a := NewAdapter(l.WithField("component", "updater"))

	a.Debug("state", "state", "identify")
	a.Info("control unit identified", "unit", "03:04", "hardware", "FG01h")
	a.Error("update failed", "error", "timeout", "dangling")

	entries := hook.AllEntries()
	require.Len(t, entries, 3)

	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, "identify", entries[0].Data["state"])
	assert.Equal(t, "updater", entries[0].Data["component"])

	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, "control unit identified", entries[1].Message)
	assert.Equal(t, "03:04", entries[1].Data["unit"])
	assert.Equal(t, "FG01h", entries[1].Data["hardware"])

	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)
	assert.Equal(t, "timeout", entries[2].Data["error"])
	assert.Equal(t, "dangling", entries[2].Data["extra"])
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kv   []interface{}
		want logrus.Fields
	}{
		{name: "empty", kv: nil, want: logrus.Fields{}},
		{name: "pairs", kv: []interface{}{"a", 1, "b", "x"}, want: logrus.Fields{"a": 1, "b": "x"}},
		{name: "non-string key", kv: []interface{}{7, true}, want: logrus.Fields{"7": true}},
		{name: "odd", kv: []interface{}{"a", 1, "b"}, want: logrus.Fields{"a": 1, "extra": "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fields(tt.kv))
		})
	}
}

func TestNewComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New("transport", Output(&buf), Level("debug"))
	defer func() {
		_ = Set(Level("info"))
		_ = Set(Output(os.Stderr))
	}()

	l.Debug("tx")
	assert.Contains(t, buf.String(), "component=transport")
	assert.Contains(t, buf.String(), "msg=tx")
}
