package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// loadBatch reads a YAML sequence of variable definitions, e.g.
//
//	- {x: 1, y: 2}
//	- {x: 1.5, y: -3e10}
func loadBatch(path string, prec uint) ([]map[string]*big.Float, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading batch file")
	}
	return parseBatch(b, prec)
}

func parseBatch(b []byte, prec uint) ([]map[string]*big.Float, error) {
	var raw []map[string]string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding batch file")
	}
	sets := make([]map[string]*big.Float, len(raw))
	for i, m := range raw {
		sets[i] = make(map[string]*big.Float, len(m))
		for name, s := range m {
			v, _, err := big.ParseFloat(s, 10, prec, big.ToNearestEven)
			if err != nil {
				return nil, errors.Wrapf(err, "set %d: %s = %q", i+1, name, s)
			}
			sets[i][name] = v
		}
	}
	return sets, nil
}
