package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"captable/internal/model"

	"gopkg.in/yaml.v3"
)

// ScenarioFile is the on-disk scenario shape (YAML; JSON also parses).
type ScenarioFile struct {
	// Optional: load founders from a separate YAML (e.g. examples/founders/*.yaml).
	// Founders listed inline take precedence over the file, matched by id.
	FoundersFile string `yaml:"founders_file"`

	Scenario model.Scenario `yaml:",inline"`
}

// Load reads a scenario file and validates it.
// The returned error lists every violation.
func Load(path string) (*model.Scenario, error) {
	s, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadUnchecked loads and merges a scenario file, but does not validate it.
// Useful for live editing, where violations are shown rather than fatal.
func LoadUnchecked(path string) (*model.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f ScenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s := f.Scenario
	if f.FoundersFile != "" {
		foundersPath := ResolveRelative(path, f.FoundersFile)
		loaded, err := LoadFounders(foundersPath)
		if err != nil {
			return nil, err
		}
		s.Founders = MergeFounders(loaded, s.Founders)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}

// Validate wraps model.Validate as an error.
func Validate(s *model.Scenario) error {
	if s == nil {
		return errors.New("scenario is nil")
	}
	if violations := model.Validate(*s); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// ValidationError carries every violation found in a scenario file.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "scenario invalid: " + strings.Join(e.Violations, "; ")
}

// ResolveRelative prefers interpreting ref relative to the directory of base,
// but falls back to ref as given (relative to cwd) if that doesn't exist.
func ResolveRelative(base, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	cand := filepath.Join(filepath.Dir(base), ref)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return ref
}

type foundersFileWrapper struct {
	Founders []model.Founder `yaml:"founders"`
}

func LoadFounders(path string) ([]model.Founder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w foundersFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Founders, nil
}

// MergeFounders overlays override onto base by founder id. Founders only in
// override are appended. Non-zero fields of an override replace the base.
func MergeFounders(base, override []model.Founder) []model.Founder {
	out := make([]model.Founder, len(base))
	copy(out, base)
	for _, o := range override {
		idx := -1
		for i := range out {
			if out[i].ID == o.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, o)
			continue
		}
		out[idx] = mergeFounder(out[idx], o)
	}
	return out
}

func mergeFounder(base, override model.Founder) model.Founder {
	merged := base
	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.InitialEquity != 0 {
		merged.InitialEquity = override.InitialEquity
	}
	if override.Email != "" {
		merged.Email = override.Email
	}
	if override.Color != "" {
		merged.Color = override.Color
	}
	return merged
}
