package riskconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// portfolioFile is the on-disk YAML layout: a top-level list of portfolios.
type portfolioFile struct {
	Portfolios []Portfolio `yaml:"portfolios"`
}

// Load reads portfolio definitions from a YAML file and validates each one.
// A file with zero portfolios is a configuration error.
func Load(path string) ([]Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file %s: %w", path, err)
	}

	var file portfolioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse portfolio file %s: %v", ErrInvalidConfiguration, path, err)
	}
	if len(file.Portfolios) == 0 {
		return nil, fmt.Errorf("%w: portfolio file %s defines no portfolios", ErrInvalidConfiguration, path)
	}

	for i := range file.Portfolios {
		p := &file.Portfolios[i]
		if p.TradingDaysPerYear == 0 {
			p.TradingDaysPerYear = 252
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("portfolio %q: %w", p.Name, err)
		}
	}

	return file.Portfolios, nil
}
