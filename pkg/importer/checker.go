// CLAUDE:SUMMARY Periodic content check of table sources: fetch each URL or local path, validate it with its adapter, and record entries, missing cục and errors in SourceDB.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxCheckBytes caps how much of a source is read during a check.
const maxCheckBytes = 32 << 20

// Checker fetches every source in the ledger and validates it with the
// adapter that would import it.
type Checker struct {
	sources  *SourceDB
	adapters map[string]Adapter
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

// NewChecker creates a Checker over adapters, run every interval by Start.
func NewChecker(sources *SourceDB, adapters []Adapter, logger *slog.Logger, interval time.Duration) *Checker {
	byID := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		byID[a.ID()] = a
	}
	return &Checker{
		sources:  sources,
		adapters: byID,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: time.Minute,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start runs an immediate check then repeats every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll checks every source and records the result. It returns the
// number of sources that failed.
func (c *Checker) CheckAll(ctx context.Context) int {
	sources, err := c.sources.List()
	if err != nil {
		c.logger.Error("source check: list sources", "error", err)
		return 0
	}

	var failed int
	for _, src := range sources {
		if ctx.Err() != nil {
			return failed
		}
		check := c.Check(ctx, src)
		if err := c.sources.RecordCheck(src.AdapterID, check); err != nil {
			c.logger.Error("source check: record", "adapter", src.AdapterID, "error", err)
		}

		switch {
		case !check.OK():
			failed++
			c.logger.Warn("source invalid",
				"adapter", src.AdapterID, "kind", src.Kind, "url", src.URL,
				"status", check.Status, "error", check.Err)
		case check.Missing > 0:
			c.logger.Warn("source incomplete",
				"adapter", src.AdapterID, "kind", src.Kind, "entries", check.Entries, "missing", check.Missing)
		}
	}

	c.logger.Info("source check complete", "total", len(sources), "failed", failed)
	return failed
}

// Check fetches one source and validates it. A non-200 status skips
// validation.
func (c *Checker) Check(ctx context.Context, src Source) Check {
	check := Check{At: time.Now()}

	a, ok := c.adapters[src.AdapterID]
	if !ok {
		check.Err = fmt.Sprintf("no adapter %q", src.AdapterID)
		return check
	}

	data, status, err := c.fetch(ctx, src.URL)
	check.Status = status
	if err != nil {
		check.Err = err.Error()
		return check
	}
	if status != http.StatusOK {
		check.Err = http.StatusText(status)
		return check
	}

	v, err := a.Validate(data)
	if err != nil {
		check.Err = err.Error()
		return check
	}
	check.Entries = v.Entries
	check.Missing = v.Missing
	return check
}

// fetch reads a source in one attempt. Local paths report 200 when readable;
// network errors report status 0.
func (c *Checker) fetch(ctx context.Context, url string) ([]byte, int, error) {
	if !isRemote(url) {
		f, err := os.Open(strings.TrimPrefix(url, "file://"))
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxCheckBytes))
		if err != nil {
			return nil, 0, err
		}
		return data, http.StatusOK, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCheckBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", url, err)
	}
	return data, resp.StatusCode, nil
}
