package batch

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a YAML list of wallpapers to download in one run.
type File struct {
	Version int   `yaml:"version"`
	Jobs    []Job `yaml:"jobs"`
}

type Job struct {
	ID     string `yaml:"id"`
	Dir    string `yaml:"dir"`    // overrides the download root for this job
	SHA256 string `yaml:"sha256"` // expected digest of the saved file, optional
}

func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("unsupported batch version: %d", f.Version)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("batch has no jobs")
	}
	for i, j := range f.Jobs {
		if strings.TrimSpace(j.ID) == "" {
			return nil, fmt.Errorf("job %d: id is required", i+1)
		}
		f.Jobs[i].ID = strings.TrimSpace(j.ID)
		f.Jobs[i].SHA256 = strings.ToLower(strings.TrimSpace(j.SHA256))
	}
	return &f, nil
}

// Merge appends jobs to base, dropping repeated ids. The first occurrence wins.
func Merge(base []Job, more ...Job) []Job {
	seen := make(map[string]bool, len(base)+len(more))
	out := make([]Job, 0, len(base)+len(more))
	for _, j := range append(append([]Job(nil), base...), more...) {
		if seen[j.ID] {
			continue
		}
		seen[j.ID] = true
		out = append(out, j)
	}
	return out
}
