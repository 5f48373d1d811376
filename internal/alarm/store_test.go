package alarm_test

import (
	"bytes"
	"github.com/clambin/smartlamp/internal/alarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr assert.ErrorAssertionFunc
		want    alarm.Alarms
	}{
		{
			name:    "valid",
			content: "Hour,Minute,Week_Day\n7,0,0\n6,30,4\n7,0,0\n",
			wantErr: assert.NoError,
			want:    alarm.Alarms{{6, 30, 4}, {7, 0, 0}},
		},
		{
			name:    "column order",
			content: "Week_Day,Hour,Minute\n2,7,10\n",
			wantErr: assert.NoError,
			want:    alarm.Alarms{{7, 10, 2}},
		},
		{
			name:    "out of range rows are skipped",
			content: "Hour,Minute,Week_Day\n24,0,0\n7,0,7\n7,0,6\n",
			wantErr: assert.NoError,
			want:    alarm.Alarms{{7, 0, 6}},
		},
		{
			name:    "header only",
			content: "Hour,Minute,Week_Day\n",
			wantErr: assert.NoError,
			want:    alarm.Alarms{},
		},
		{
			name:    "empty",
			content: "",
			wantErr: assert.Error,
		},
		{
			name:    "missing column",
			content: "Hour,Minute\n7,0\n",
			wantErr: assert.Error,
		},
		{
			name:    "not a number",
			content: "Hour,Minute,Week_Day\nseven,0,0\n",
			wantErr: assert.Error,
		},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := alarm.Read(strings.NewReader(tt.content))
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, alarm.Write(&out, alarm.Alarms{{6, 30, 4}, {7, 0, 0}}))
	assert.Equal(t, "Hour,Minute,Week_Day\n6,30,4\n7,0,0\n", out.String())
}

func TestLoadSave(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "Alarms.csv")

	assert.Empty(t, alarm.Load(path, l))

	alarms := alarm.Alarms{{6, 30, 4}, {7, 0, 0}}
	require.NoError(t, alarm.Save(path, alarms))
	assert.Equal(t, alarms, alarm.Load(path, l))

	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0644))
	assert.Empty(t, alarm.Load(path, l))
}
