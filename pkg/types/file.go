// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// FileKind classifies a source file by how it is migrated.
type FileKind string

const (
	KindDocument FileKind = "document"
	KindTable    FileKind = "table"
	KindOther    FileKind = "other"
)

// FileStatus records what happened to a single source file.
type FileStatus string

const (
	StatusConverted FileStatus = "converted"
	StatusCopied    FileStatus = "copied"
	StatusFailed    FileStatus = "failed"
	StatusSkipped   FileStatus = "skipped"
)

// IssueKind names a recoverable problem met while migrating a file.
type IssueKind string

const (
	// IssueUnreadableInput marks content that was not valid UTF-8 and was
	// decoded with substitution.
	IssueUnreadableInput IssueKind = "unreadable_input"

	// IssueUndetectableDelimiter marks a tabular file whose field separator
	// could not be inferred from its leading sample.
	IssueUndetectableDelimiter IssueKind = "undetectable_delimiter"

	// IssueMalformedTable marks a tabular file that could not be parsed
	// with the sniffed delimiter.
	IssueMalformedTable IssueKind = "malformed_table"

	// IssueUnresolvableLink marks a link that yielded no usable title.
	IssueUnresolvableLink IssueKind = "unresolvable_link"

	// IssueDestinationCollision marks a file whose cleaned destination was
	// already claimed by another file.
	IssueDestinationCollision IssueKind = "destination_collision"

	// IssueIO marks a read, write, or copy failure.
	IssueIO IssueKind = "io"
)

// Issue is a recoverable error tied to one source file.
type Issue struct {
	// SourcePath is the file path relative to the migration root.
	SourcePath string `json:"source_path" yaml:"source_path"`

	Kind IssueKind `json:"kind" yaml:"kind"`

	Message string `json:"message" yaml:"message"`
}

// String formats the issue for summaries and progress output.
func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.SourcePath, i.Message)
}

// FileRecord holds the outcome of migrating one source file.
type FileRecord struct {
	// SourcePath is relative to the source root, slash separated.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// DestPath is relative to the destination root, slash separated.
	DestPath string `json:"dest_path" yaml:"dest_path"`

	// TablePath is the prose-table sibling written for tabular files.
	TablePath string `json:"table_path,omitempty" yaml:"table_path,omitempty"`

	Kind   FileKind   `json:"kind" yaml:"kind"`
	Status FileStatus `json:"status" yaml:"status"`

	// LinksRewritten counts links replaced with cross-references or cleaned paths.
	LinksRewritten int `json:"links_rewritten" yaml:"links_rewritten"`

	// LinksUnresolved counts links left untouched because no title could be derived.
	LinksUnresolved int `json:"links_unresolved" yaml:"links_unresolved"`

	// Lossy is set when the content needed substitution to decode.
	Lossy bool `json:"lossy,omitempty" yaml:"lossy,omitempty"`
}
