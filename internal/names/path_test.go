// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "every segment cleaned",
			in:   "Workspace " + bareID + "/Projects " + bareID + "/Plan " + bareID + ".md",
			want: "Workspace/Projects/Plan.md",
		},
		{
			name: "attachment next to page",
			in:   "Projects " + bareID + "/image_" + bareID + ".png",
			want: "Projects/image.png",
		},
		{
			name: "empty segment dropped",
			in:   "???/Plan " + bareID + ".md",
			want: "Plan.md",
		},
		{
			name: "all segments empty falls back to untitled",
			in:   "???/***",
			want: Untitled,
		},
		{
			name: "plain path unchanged",
			in:   "notes/today.md",
			want: "notes/today.md",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPath(tt.in))
		})
	}
}

func TestCleanPathOSSeparators(t *testing.T) {
	in := filepath.Join("Projects "+bareID, "Plan "+bareID+".md")
	assert.Equal(t, "Projects/Plan.md", CleanPath(in))
}

func TestCleanPathNeverEmpty(t *testing.T) {
	inputs := []string{"a", "?", "_", " ", "|/|", bareID, "x/" + "<>", "."}
	for _, in := range inputs {
		assert.NotEmpty(t, CleanPath(in), "input %q", in)
	}
}

func TestStemAndReplaceExt(t *testing.T) {
	assert.Equal(t, "Plan "+bareID, Stem("dir/Plan "+bareID+".md"))
	assert.Equal(t, "archive.tar", Stem("archive.tar.gz"))
	assert.Equal(t, "Tasks/Board.md", ReplaceExt("Tasks/Board.csv", ".md"))
	assert.Equal(t, "README.md", ReplaceExt("README", ".md"))
}
