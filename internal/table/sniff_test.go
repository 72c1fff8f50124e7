// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name      string
		sample    string
		truncated bool
		want      rune
		wantErr   bool
	}{
		{name: "comma", sample: "Name,Status,Due\nA,Done,2024-01-01\nB,Open,\n", want: ','},
		{name: "semicolon", sample: "Name;Status\nA;Done\n", want: ';'},
		{name: "tab", sample: "Name\tStatus\nA\tDone\n", want: '\t'},
		{name: "pipe", sample: "Name|Status\nA|Done\n", want: '|'},
		{name: "header only", sample: "Name,Tags", want: ','},
		{name: "short row still detected", sample: "Name,Status\nTask A\n", want: ','},
		{
			name:   "consistency beats preference",
			sample: "Name, Title;Score\nA;1\nB;2\n",
			want:   ';',
		},
		{
			name:   "quoted delimiters ignored",
			sample: "Name;Notes\nA;\"x, y, z\"\nB;\"multi\nline, text\"\n",
			want:   ';',
		},
		{
			name:      "truncated last record ignored",
			sample:    "Name,Status\nA,Done\nB;x;y;z",
			truncated: true,
			want:      ',',
		},
		{name: "crlf line endings", sample: "Name,Status\r\nA,Done\r\n", want: ','},
		{name: "single column", sample: "Name\nA\nB\n", wantErr: true},
		{name: "blank", sample: "\n  \n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(tt.sample, tt.truncated)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUndetectableDelimiter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), string(got))
		})
	}
}
