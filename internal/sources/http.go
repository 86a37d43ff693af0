// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"net/http"
	"time"

	"github.com/pdiddy/paperrank/pkg/types"
)

const defaultHTTPTimeout = 30 * time.Second

func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func clampLimit(limit, ceiling int) int {
	if limit <= 0 {
		limit = 10
	}
	return min(limit, ceiling)
}
