package visx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrhapile/visx/pkg/types"
)

// DescriptorFile is the conventional package descriptor read by the
// inspector.
const DescriptorFile = "package.json"

// fallbackVersion is used when the source carries no parseable version.
const fallbackVersion = "1.0.0"

// InspectPackage derives package identity from the descriptor file in root,
// falling back to the directory base name and default version when the
// descriptor is absent. A malformed descriptor never fails the build: each
// unreadable field falls back individually and a warning describing it is
// returned for the caller to log.
func InspectPackage(root string) (types.PackageInfo, []string) {
	info := types.PackageInfo{
		Name:         filepath.Base(root),
		Version:      fallbackVersion,
		Dependencies: map[string]string{},
	}

	path := filepath.Join(root, DescriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return info, []string{fmt.Sprintf("could not read %s: %v", DescriptorFile, err)}
		}
		return info, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return info, []string{fmt.Sprintf("could not parse %s: %v", DescriptorFile, err)}
	}

	var warnings []string
	readField := func(key string, dst any) {
		msg, ok := raw[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring malformed %q in %s: %v", key, DescriptorFile, err))
		}
	}

	var name, version string
	readField("name", &name)
	readField("version", &version)
	readField("description", &info.Description)
	readField("dependencies", &info.Dependencies)
	if name != "" {
		info.Name = name
	}
	if version != "" {
		info.Version = version
	}
	if info.Dependencies == nil {
		info.Dependencies = map[string]string{}
	}
	return info, warnings
}

// DetectType resolves the package type from the source tree: a descriptor
// file means a Node package, a top-level .wasm file a WASM module, a
// top-level .js file a plain JavaScript package, anything else generic. Runs
// once per build; an explicit caller-supplied type skips detection entirely.
func DetectType(root string) types.PackageType {
	if _, err := os.Stat(filepath.Join(root, DescriptorFile)); err == nil {
		return types.TypeNode
	}
	if m, _ := filepath.Glob(filepath.Join(root, "*.wasm")); len(m) > 0 {
		return types.TypeWASM
	}
	if m, _ := filepath.Glob(filepath.Join(root, "*.js")); len(m) > 0 {
		return types.TypeJavaScript
	}
	return types.TypeGeneric
}
