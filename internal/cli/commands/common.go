// Package commands implements the tablesplit subcommands.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/benjaminschreck/go-tablesplit/internal/cli/config"
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

// getConfig returns the current configuration, or the defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// loadTable reads path and returns the table selected by --table.
func loadTable(path string, cfg *config.Config) (*xml.Table, error) {
	tables, err := tablesplit.LoadTables(path)
	if err != nil {
		return nil, err
	}
	table, err := tablesplit.SelectTable(tables, cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tablesplit.WithFields(tablesplit.Fields{"path": path, "table": cfg.Table}).
		Debug("selected table with %d rows", len(table.Rows))
	return table, nil
}

// newRegionPipeline creates a pipeline whose classifier answers with the regions in path.
func newRegionPipeline(path string, cfg *config.Config) (*tablesplit.Pipeline, error) {
	metas, err := tablesplit.LoadRegions(path)
	if err != nil {
		return nil, err
	}
	classifier, err := tablesplit.NewStaticClassifier(metas)
	if err != nil {
		return nil, err
	}
	lib := cfg.Library()
	// A fixed response never changes between attempts
	lib.MaxAttempts = 1
	return tablesplit.NewPipeline(classifier, lib)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// marshalJSON is writeJSON into a byte slice
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fileSafe keeps letters and digits of a region name and replaces everything else with '_'
func fileSafe(name string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
	if safe == "" {
		return "region"
	}
	return safe
}
