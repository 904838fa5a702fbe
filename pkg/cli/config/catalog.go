package config

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog selects the page and panel definitions
type Catalog struct {
	Path string
}

// Flags returns CLI flags for Catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Catalog YAML file (built-in catalog if not set)",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("TRIALDASH_CATALOG"),
			Destination: &c.Path,
		},
	}
}

// Load reads and validates the configured catalog
func (c *Catalog) Load() (*model.Catalog, error) {
	if c.Path == "" {
		catalog, err := ParseCatalog(defaultCatalog)
		if err != nil {
			return nil, goerr.Wrap(err, "built-in catalog is invalid")
		}
		return catalog, nil
	}

	return LoadCatalogFromFile(c.Path)
}

// LoadCatalogFromFile loads a catalog from a YAML file
func LoadCatalogFromFile(path string) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(err, "catalog file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid catalog file", goerr.V("path", path))
	}
	return catalog, nil
}

// ParseCatalog decodes and validates catalog YAML. Unknown keys are errors.
func ParseCatalog(data []byte) (*model.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var catalog model.Catalog
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, goerr.New("catalog is empty")
		}
		return nil, goerr.Wrap(err, "failed to parse catalog YAML")
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed")
	}

	return &catalog, nil
}

// LogValue returns structured log value
func (c Catalog) LogValue() slog.Value {
	path := c.Path
	if path == "" {
		path = "(built-in)"
	}
	return slog.GroupValue(slog.String("path", path))
}
