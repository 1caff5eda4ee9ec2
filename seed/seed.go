// Package seed provides the thoughts shown when the list first opens.
package seed

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var defaults = []string{
	"This is a place for your passing thoughts.",
	"They'll be removed after 15 seconds.",
}

// File is the on-disk layout of a seed file:
//
//	thoughts:
//	  - first note
//	  - second note
type File struct {
	Thoughts []string `yaml:"thoughts"`
}

// Defaults returns the built-in seed texts in display order.
func Defaults() []string {
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// Load reads seed texts from a YAML file. Blank entries are dropped.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read seed file %s", path)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parse seed file %s", path)
	}

	var out []string
	for _, t := range f.Thoughts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
