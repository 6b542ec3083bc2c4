package main

import (
	"fmt"
	"io"
	"os"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/plan"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML layout shared by catalog export and generate.
type catalogFile struct {
	Exercises      []plan.Exercise      `yaml:"exercises"`
	NutritionItems []plan.NutritionItem `yaml:"nutritionItems"`
}

// readYAML decodes the single document in path into dst. Unknown keys are errors so that typos do not silently fall
// back to defaults.
func readYAML(path string, dst any) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s is empty", path)
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd // conventional YAML indent.
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}
	return nil
}
