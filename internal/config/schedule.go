package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type scheduleFile struct {
	Fields []struct {
		ID     string `yaml:"id"`
		Prompt string `yaml:"prompt"`
		Label  string `yaml:"label"`
	} `yaml:"fields"`
}

// LoadSchedule builds the field schedule. With an empty path the builtin
// schedule is used; otherwise the YAML file must parse and validate.
func LoadSchedule(path string) (*domain.Schedule, error) {
	if path == "" {
		return domain.DefaultSchedule(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule file: %w", err)
	}

	var sf scheduleFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("parsing schedule file: %w", err)
	}

	fields := make([]domain.Field, 0, len(sf.Fields))
	for _, f := range sf.Fields {
		fields = append(fields, domain.Field{
			ID:     domain.FieldID(f.ID),
			Prompt: f.Prompt,
			Label:  f.Label,
		})
	}

	s, err := domain.NewSchedule(fields)
	if err != nil {
		return nil, fmt.Errorf("schedule file %s: %w", path, err)
	}
	return s, nil
}
