// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperrank/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SourcesConfig holds settings for the source adapters.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// LimitPerSource caps the records requested from each adapter (default 10).
	LimitPerSource int `json:"limit_per_source" yaml:"limit_per_source" mapstructure:"limit_per_source"`

	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar" mapstructure:"enable_semantic_scholar"`
	EnableOpenAlex        bool `json:"enable_openalex" yaml:"enable_openalex" mapstructure:"enable_openalex"`
	EnableArxiv           bool `json:"enable_arxiv" yaml:"enable_arxiv" mapstructure:"enable_arxiv"`
	EnableCrossref        bool `json:"enable_crossref" yaml:"enable_crossref" mapstructure:"enable_crossref"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// Email is sent as mailto to OpenAlex and Crossref for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
}

// ExpansionConfig holds settings for citation graph expansion.
type ExpansionConfig struct {
	// BatchSize bounds the identifiers sent per graph API call (default and max 50).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// CallTimeout bounds each batched graph API call (default 30s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout" mapstructure:"call_timeout"`

	// TopN is the number of top-scored papers used as seeds (0 disables expansion).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`

	// RequestsPerSecond throttles the graph API client (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// RankingConfig holds settings for the ranking engine.
type RankingConfig struct {
	// Profile names the weight profile used for scoring (default "general").
	Profile string `json:"profile" yaml:"profile" mapstructure:"profile"`

	// ProfilesFile is an optional YAML file with additional weight profiles.
	ProfilesFile string `json:"profiles_file,omitempty" yaml:"profiles_file,omitempty" mapstructure:"profiles_file"`

	// VenueFile is the semicolon-separated venue metrics table (Scimago export).
	VenueFile string `json:"venue_file,omitempty" yaml:"venue_file,omitempty" mapstructure:"venue_file"`

	// AuthorConcurrency bounds parallel author lookups (default 5).
	AuthorConcurrency int `json:"author_concurrency" yaml:"author_concurrency" mapstructure:"author_concurrency"`

	// AuthorTimeout bounds each author lookup (default 10s).
	AuthorTimeout time.Duration `json:"author_timeout" yaml:"author_timeout" mapstructure:"author_timeout"`

	// AuthorCacheSize bounds the author authority cache (default 4096).
	AuthorCacheSize int `json:"author_cache_size" yaml:"author_cache_size" mapstructure:"author_cache_size"`
}

// LoggingConfig contains logger configuration options.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error, fatal, panic).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console, pretty).
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is the output destination (stdout, stderr).
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// LibraryConfig holds settings for saved runs.
type LibraryConfig struct {
	// Dir holds the SQLite database (default "library").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Sources   SourcesConfig   `json:"sources" yaml:"sources" mapstructure:"sources"`
	Expansion ExpansionConfig `json:"expansion" yaml:"expansion" mapstructure:"expansion"`
	Ranking   RankingConfig   `json:"ranking" yaml:"ranking" mapstructure:"ranking"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging" mapstructure:"logging"`
	Library   LibraryConfig   `json:"library" yaml:"library" mapstructure:"library"`
}

// DefaultPipelineConfig returns the configuration used when no file or
// flag overrides a value.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Sources: SourcesConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "paperrank/0.1",
			},
			LimitPerSource:        10,
			EnableSemanticScholar: true,
			EnableOpenAlex:        true,
			EnableArxiv:           true,
			EnableCrossref:        true,
		},
		Expansion: ExpansionConfig{
			BatchSize:         50,
			CallTimeout:       30 * time.Second,
			RequestsPerSecond: 5,
		},
		Ranking: RankingConfig{
			Profile:           "general",
			AuthorConcurrency: 5,
			AuthorTimeout:     10 * time.Second,
			AuthorCacheSize:   4096,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Library: LibraryConfig{Dir: "library"},
	}
}
