package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// ImportSchema is one team's ledger aggregates for one or more periods.
// Files may be YAML or JSON; both use the same snake_case keys.
type ImportSchema struct {
	Team    TeamImport     `yaml:"team"`
	Periods []PeriodImport `yaml:"periods"`
}

// TeamImport identifies the team. An empty ID is derived from the name, so
// re-importing the same file updates rather than duplicates.
type TeamImport struct {
	ID       string `yaml:"id,omitempty"`
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
	Locale   string `yaml:"locale,omitempty"`
}

// PeriodImport is one period's snapshot. Number is ignored for yearly periods.
type PeriodImport struct {
	Type         string                 `yaml:"type"`
	Year         int                    `yaml:"year"`
	Number       int                    `yaml:"number,omitempty"`
	Transactions int                    `yaml:"transactions"`
	LastBankSync *string                `yaml:"last_bank_sync,omitempty"` // RFC 3339
	Current      domain.MetricData      `yaml:"current"`
	Previous     domain.MetricData      `yaml:"previous"`
	Activity     domain.InsightActivity `yaml:"activity"`
}

// LoadImportSchema reads a snapshot file. Files ending in .json are decoded
// as JSON; everything else as YAML.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// ParseImportSchema decodes raw file contents. Unknown keys are rejected in
// both formats.
func ParseImportSchema(data []byte, isJSON bool) (*ImportSchema, error) {
	if isJSON {
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		// Re-encode so JSON goes through the same strict YAML decoder.
		var err error
		if data, err = yaml.Marshal(generic); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}

	var schema ImportSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
