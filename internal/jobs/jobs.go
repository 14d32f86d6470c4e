// Package jobs turns TOML job files dropped into a watched directory into
// pipeline runs.
package jobs

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/rzstudio/abstractgen/internal/pipeline"
)

// LoadFile reads one TOML job description.
func LoadFile(path string) (pipeline.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Job{}, fmt.Errorf("failed to read job file: %w", err)
	}

	var job pipeline.Job
	if err := toml.Unmarshal(data, &job); err != nil {
		return pipeline.Job{}, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	return job, nil
}
