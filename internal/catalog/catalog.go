// Package catalog loads the static customer reference data served to the
// browser and fed into email generation. Records are immutable after startup;
// the browser may edit its own copy but nothing is ever written back.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrNotFound = errors.New("customer not found")

// Company is a single entry in the /api/companies listing.
type Company struct {
	Name string `json:"name"`
}

// Catalog holds the loaded customer records. Each record is kept as raw JSON
// so that whatever shape the file (or a browser-side edit of it) carries is
// passed through to the prompt untouched.
type Catalog struct {
	names   []string
	records map[string]json.RawMessage
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", path, err)
	}
	return cat, nil
}

func Parse(data []byte) (*Catalog, error) {
	var rawRecords []json.RawMessage
	if err := json.Unmarshal(data, &rawRecords); err != nil {
		return nil, fmt.Errorf("catalog is not a JSON array: %w", err)
	}

	cat := &Catalog{records: make(map[string]json.RawMessage, len(rawRecords))}
	for i, record := range rawRecords {
		var probe struct {
			Account struct {
				Name string `json:"name"`
			} `json:"account"`
		}
		if err := json.Unmarshal(record, &probe); err != nil {
			return nil, fmt.Errorf("catalog record %d is malformed: %w", i, err)
		}
		if probe.Account.Name == "" {
			return nil, fmt.Errorf("catalog record %d has no account.name", i)
		}
		if _, exists := cat.records[probe.Account.Name]; exists {
			return nil, fmt.Errorf("duplicate catalog entry for %q", probe.Account.Name)
		}
		cat.names = append(cat.names, probe.Account.Name)
		cat.records[probe.Account.Name] = record
	}
	return cat, nil
}

// List returns the companies in catalog file order. The ordering is stable
// across calls as long as the backing data is unchanged.
func (c *Catalog) List() []Company {
	companies := make([]Company, 0, len(c.names))
	for _, name := range c.names {
		companies = append(companies, Company{Name: name})
	}
	return companies
}

// Get looks up a record by exact, case-sensitive company name.
func (c *Catalog) Get(name string) (json.RawMessage, error) {
	record, ok := c.records[name]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

func (c *Catalog) Len() int {
	return len(c.names)
}
