package visx

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BuildConfigFile is an optional per-tree build configuration. Its leading
// dot keeps it out of the archive via the hidden-file rule.
const BuildConfigFile = ".visx.yaml"

// BuildConfig carries tree-local build settings. CLI flags take precedence
// over every field here.
type BuildConfig struct {
	// Exclude lists extra exclusion glob patterns merged into the rule set.
	Exclude []string `yaml:"exclude"`

	// Package overrides descriptor-derived metadata.
	Package struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Description string `yaml:"description"`
	} `yaml:"package"`
}

// loadBuildConfig reads root/.visx.yaml. A missing file yields a zero config;
// a malformed one yields a zero config plus a warning, mirroring the
// descriptor policy — build configuration must never abort a build.
func loadBuildConfig(root string) (BuildConfig, []string) {
	var cfg BuildConfig
	data, err := os.ReadFile(filepath.Join(root, BuildConfigFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, []string{fmt.Sprintf("could not read %s: %v", BuildConfigFile, err)}
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BuildConfig{}, []string{fmt.Sprintf("could not parse %s: %v", BuildConfigFile, err)}
	}
	return cfg, nil
}
