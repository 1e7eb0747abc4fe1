// Package config defines the JSON-serializable pipeline configuration for
// the customer import. Field names in Go mirror the JSON structure used in
// pipeline files under configs/pipelines/*.json; decoding is performed by
// the standard library, with a light Options helper for typed access to
// parser-specific settings.
package config

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run for logs and metric labels.
	Job string `json:"job"`

	// Source describes where the CRM export comes from.
	Source Source `json:"source"`

	// Parser configures how raw bytes become records (CSV today).
	Parser Parser `json:"parser"`

	// Cleaning holds knobs for the normalization chain.
	Cleaning Cleaning `json:"cleaning"`

	// Storage selects and configures the destination sink.
	Storage Storage `json:"storage"`

	// Runtime controls concurrency, batching, and channel buffers.
	Runtime RuntimeConfig `json:"runtime"`
}

// Source identifies the data source.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	File SourceFile `json:"file"`
	HTTP SourceHTTP `json:"http"`
}

// SourceFile holds options for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// SourceHTTP holds options for the "http" source kind.
type SourceHTTP struct {
	URL string `json:"url"`
}

// Parser selects how the source bytes are parsed into rows.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser. For CSV the
	// recognized keys are comma (string), trim_space (bool) and
	// lazy_quotes (bool); the first line is always read as the header.
	Options Options `json:"options"`
}

// Cleaning configures the normalization chain.
type Cleaning struct {
	// Seed seeds the placeholder randomness. 0 derives a seed from the
	// clock; fix it for reproducible runs.
	Seed uint64 `json:"seed"`

	// EmailDomain is the fixed domain for synthesized addresses.
	// Defaults to "gmail.com".
	EmailDomain string `json:"email_domain"`

	// HeaderOverrides optionally remaps source columns (source column ->
	// canonical field) on top of the built-in header table.
	HeaderOverrides map[string]string `json:"header_overrides,omitempty"`
}

// Storage selects the sink used to persist import rows.
type Storage struct {
	// Kind selects the sink: "mysql", "postgres", "mssql", "sqlite",
	// or "csv" (delimited-file export).
	Kind string `json:"kind"`

	DB   DBConfig   `json:"db"`
	File FileConfig `json:"file"`
}

// DBConfig configures the database sinks.
type DBConfig struct {
	// DSN is the driver connection string. The SUBSYNC_DB_DSN environment
	// variable overrides it when set.
	DSN string `json:"dsn"`

	// Table is the destination table name (optionally schema-qualified).
	Table string `json:"table"`

	// AutoCreateTable creates the customers table before loading.
	AutoCreateTable bool `json:"auto_create_table"`
}

// FileConfig configures the "csv" export sink.
type FileConfig struct {
	Path  string `json:"path"`
	Comma string `json:"comma,omitempty"`
}

// RuntimeConfig controls concurrency and buffering. Zero values fall back
// to environment variables, then to built-in defaults.
type RuntimeConfig struct {
	CleanWorkers  int `json:"clean_workers"`
	BatchSize     int `json:"batch_size"`
	ChannelBuffer int `json:"channel_buffer"`
}

// Options is a small helper to fetch typed values from arbitrary JSON
// maps. It performs only minimal coercion and returns the provided default
// when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as
// float64, so both float64 and int are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Useful
// for single-character settings such as the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}
