package registry

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Load reads a county registry from path, dispatching on the file
// extension: .json, .yaml/.yml, or .csv. A missing or malformed source is a
// fatal startup error; nothing is defaulted.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: open %s", path)
	}
	defer f.Close()

	var counties []County
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		counties, err = parseJSON(f)
	case ".yaml", ".yml":
		counties, err = parseYAML(f)
	case ".csv":
		counties, err = parseCSV(f)
	default:
		return nil, eris.Errorf("registry: unsupported format %q (want .json, .yaml, or .csv)", ext)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "registry: parse %s", path)
	}

	return New(counties)
}

// jsonCounty keeps the rate as json.Number so "0.011" survives decoding
// without a float round-trip.
type jsonCounty struct {
	Name    string      `json:"name"`
	TaxRate json.Number `json:"tax_rate"`
}

func parseJSON(r io.Reader) ([]County, error) {
	var raw []jsonCounty
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "decode json array")
	}

	counties := make([]County, 0, len(raw))
	for i, rc := range raw {
		rate, err := decimal.NewFromString(rc.TaxRate.String())
		if err != nil {
			return nil, eris.Wrapf(err, "entry %d (%q): tax_rate", i, rc.Name)
		}
		counties = append(counties, County{Name: rc.Name, TaxRate: rate})
	}
	return counties, nil
}

// yamlCounty keeps the rate as a raw node so the scalar's literal text is
// parsed by decimal, not by the YAML float machinery.
type yamlCounty struct {
	Name    string    `yaml:"name"`
	TaxRate yaml.Node `yaml:"tax_rate"`
}

func parseYAML(r io.Reader) ([]County, error) {
	var raw []yamlCounty
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "decode yaml sequence")
	}

	counties := make([]County, 0, len(raw))
	for i, rc := range raw {
		rate, err := decimal.NewFromString(strings.TrimSpace(rc.TaxRate.Value))
		if err != nil {
			return nil, eris.Wrapf(err, "entry %d (%q): tax_rate", i, rc.Name)
		}
		counties = append(counties, County{Name: rc.Name, TaxRate: rate})
	}
	return counties, nil
}

func parseCSV(r io.Reader) ([]County, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read csv header")
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), "name") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "tax_rate") {
		return nil, eris.Errorf("csv header must be name,tax_rate, got %s,%s", header[0], header[1])
	}

	var counties []County
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "read csv line %d", line)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, eris.Wrapf(err, "line %d (%q): tax_rate", line, record[0])
		}
		counties = append(counties, County{Name: strings.TrimSpace(record[0]), TaxRate: rate})
	}
	return counties, nil
}
