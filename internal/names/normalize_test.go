// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	dashedID = "2d41ab7b-61d1-4cec-8853-57ab17d48536"
	bareID   = "2d41ab7b61d14cec885357ab17d48536"
)

func TestRemoveIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dashed trailing", "Meeting Notes " + dashedID, "Meeting Notes"},
		{"bare trailing", "Meeting Notes " + bareID, "Meeting Notes"},
		{"bare before extension", "Home " + bareID + ".md", "Home.md"},
		{"dashed before extension", "Home " + dashedID + ".md", "Home.md"},
		{"underscore before extension", "image_" + bareID + ".png", "image.png"},
		{"underscore dashed before extension", "image_" + dashedID + ".png", "image.png"},
		{"uppercase", "Plan " + "2D41AB7B61D14CEC885357AB17D48536", "Plan"},
		{"tab separated", "Plan\t" + bareID, "Plan"},
		{"embedded mid word", "Plan" + bareID, "Plan" + bareID},
		{"followed by text", "Plan " + bareID + " copy", "Plan " + bareID + " copy"},
		{"longer hex run", "Plan " + bareID + "a", "Plan " + bareID + "a"},
		{"underscore without extension", "Plan_" + bareID, "Plan_" + bareID},
		{"no identifier", "  Plain name.md ", "Plain name.md"},
		{"only identifier", bareID, bareID},
		{"double extension", "backup " + bareID + ".tar.gz", "backup.tar.gz"},
		{"underscore double extension", "backup_" + dashedID + ".tar.gz", "backup.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveIdentifier(tt.in))
		})
	}
}

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`What? Why: "because" <maybe>`, "What Why because maybe"},
		{`a*b/c\d|e`, "a b c d e"},
		{"snake_case__name", "snake case name"},
		{"  spaced   out  ", "spaced out"},
		{"???", ""},
		{"Normal Name.md", "Normal Name.md"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFilename(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Projects " + bareID, "Projects"},
		{"Q&A: Roadmap " + dashedID + ".md", "Q&A Roadmap.md"},
		{"draft_" + bareID, "draft"},
		{"A " + bareID + " " + bareID, "A"},
		{"file:" + bareID, "file"},
		{"___", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Meeting Notes " + dashedID,
		"image_" + bareID + ".png",
		"draft_" + bareID,
		"a_b_" + bareID + "_" + bareID + ".csv",
		`Weird: "name" ` + bareID,
		"Plain",
		"Plan" + bareID,
		"  ",
		"x " + bareID + " " + dashedID + ".md",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
