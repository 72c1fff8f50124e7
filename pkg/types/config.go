package types

const (
	DefaultDocumentExt = ".md"
	DefaultTableExt    = ".csv"
	DefaultHostToken   = "notion.so"
	DefaultSampleSize  = 1024
	DefaultWorkers     = 4
)

// RewriteConfig holds settings for link rewriting.
type RewriteConfig struct {
	// DocumentExt is the extension of page documents (default ".md").
	DocumentExt string `json:"document_ext" yaml:"document_ext" mapstructure:"document_ext"`

	// HostToken identifies platform URLs that point at exported pages
	// (default "notion.so").
	HostToken string `json:"host_token" yaml:"host_token" mapstructure:"host_token"`
}

// TableConfig holds settings for tabular conversion.
type TableConfig struct {
	// Ext is the extension of tabular source files (default ".csv").
	Ext string `json:"ext" yaml:"ext" mapstructure:"ext"`

	// SampleSize is the number of leading bytes inspected to detect the
	// field delimiter (default 1024).
	SampleSize int `json:"sample_size" yaml:"sample_size" mapstructure:"sample_size"`

	// Frontmatter adds a YAML frontmatter block to generated table documents.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`
}

// MigrationConfig groups all settings of a migration run.
type MigrationConfig struct {
	// Workers bounds the number of files transformed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Exclude lists doublestar globs, relative to the source root, of paths
	// that are not migrated.
	Exclude []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`

	// LedgerPath is the SQLite ledger location. Empty means
	// <dest>/.notion-migrate/ledger.db.
	LedgerPath string `json:"ledger" yaml:"ledger" mapstructure:"ledger"`

	// DisableLedger turns off ledger recording.
	DisableLedger bool `json:"no_ledger" yaml:"no_ledger" mapstructure:"no_ledger"`

	Rewrite RewriteConfig `json:"rewrite" yaml:"rewrite" mapstructure:"rewrite"`
	Tables  TableConfig   `json:"tables" yaml:"tables" mapstructure:"tables"`
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c MigrationConfig) WithDefaults() MigrationConfig {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	c.Rewrite = c.Rewrite.WithDefaults()
	c.Tables = c.Tables.WithDefaults()
	return c
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c RewriteConfig) WithDefaults() RewriteConfig {
	if c.DocumentExt == "" {
		c.DocumentExt = DefaultDocumentExt
	}
	if c.HostToken == "" {
		c.HostToken = DefaultHostToken
	}
	return c
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c TableConfig) WithDefaults() TableConfig {
	if c.Ext == "" {
		c.Ext = DefaultTableExt
	}
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
	return c
}
