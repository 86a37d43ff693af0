// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and contact addresses from a directory of
// plain-text files. Each file is one secret: the filename is the key name
// and the trimmed file contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperrank/pkg/types"
)

// Key files understood by Apply.
const (
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	OpenAlexEmail         = "openalex-email"
)

// DefaultDir is the secrets directory used when none is configured.
const DefaultDir = ".secrets"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills source credentials that the configuration left empty.
func Apply(secrets map[string]string, cfg *types.SourcesConfig) {
	if cfg.SemanticScholarAPIKey == "" {
		cfg.SemanticScholarAPIKey = secrets[SemanticScholarAPIKey]
	}
	if cfg.Email == "" {
		cfg.Email = secrets[OpenAlexEmail]
	}
}
