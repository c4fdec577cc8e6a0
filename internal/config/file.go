package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// StringList decodes either a scalar (comma separated) or a sequence.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = splitList(node.Value)
		return nil
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		*l = cleanList(values)
		return nil
	default:
		return errors.Errorf("line %d: expected a string or a list", node.Line)
	}
}

// File mirrors fextract.yml.
type File struct {
	Files  StringList `yaml:"files"`
	Output string     `yaml:"output"`
	Start  string     `yaml:"start"`
	End    string     `yaml:"end"`
	Types  StringList `yaml:"types"`
	Dot    *bool      `yaml:"dot"`
	Ignore StringList `yaml:"ignore"`
	Jobs   int        `yaml:"jobs"`
}

func (f File) Options() Options {
	opts := Options{
		Files:  f.Files,
		Output: f.Output,
		Start:  f.Start,
		End:    f.End,
		Types:  f.Types,
		Ignore: f.Ignore,
		Jobs:   f.Jobs,
	}
	if f.Dot != nil {
		if *f.Dot {
			opts.Dot = "true"
		} else {
			opts.Dot = "false"
		}
	}
	return opts
}

// LoadFile reads a config file. A missing file yields empty options.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Options{}, nil
	}
	if err != nil {
		return Options{}, errors.Errorf("reading %s: %w", path, err)
	}
	return ParseFile(data)
}

func ParseFile(data []byte) (Options, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Options{}, nil
	}
	var f File
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, errors.Errorf("parsing YAML: %w", err)
	}
	return f.Options(), nil
}
