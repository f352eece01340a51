package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// packageSpecFile is the on-disk shape of the --packages YAML file: a flat
// list of PackageSpec{name, classesDir, sourcesDir?}, per spec.md §1's
// "the core consumes a list of PackageSpec{name, classesDir, sourcesDir?}".
type packageSpecFile struct {
	Packages []packageSpecEntry `yaml:"packages"`
}

type packageSpecEntry struct {
	Name              string `yaml:"name"`
	ClassesDir        string `yaml:"classes_dir"`
	SourcesDir        string `yaml:"sources_dir"`
	IsLocal           bool   `yaml:"is_local"`
	ProjectSourceRoot string `yaml:"project_source_root"`
}

// loadPackageSpecs reads a --packages YAML file into model.PackageSpec
// values.
func loadPackageSpecs(path string) ([]model.PackageSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package spec file: %w", err)
	}

	var file packageSpecFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing package spec file: %w", err)
	}
	if len(file.Packages) == 0 {
		return nil, fmt.Errorf("package spec file %s declares no packages", path)
	}

	specs := make([]model.PackageSpec, 0, len(file.Packages))
	for _, e := range file.Packages {
		if e.Name == "" {
			return nil, fmt.Errorf("package spec entry missing name")
		}
		if e.ClassesDir == "" {
			return nil, fmt.Errorf("package %s: classes_dir is required", e.Name)
		}
		specs = append(specs, model.PackageSpec{
			Name:              e.Name,
			ClassesDir:        e.ClassesDir,
			SourcesDir:        e.SourcesDir,
			IsLocal:           e.IsLocal,
			ProjectSourceRoot: e.ProjectSourceRoot,
		})
	}
	return specs, nil
}
