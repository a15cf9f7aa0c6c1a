package problem

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a problem document. YAML is a superset of JSON, so both work.
func Load(path string) (ParsedProblem, error) {
	f, err := os.Open(path)
	if err != nil {
		return ParsedProblem{}, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (ParsedProblem, error) {
	var p ParsedProblem
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return ParsedProblem{}, fmt.Errorf("decode problem: %w", err)
	}
	if !p.Family.Valid() {
		return ParsedProblem{}, fmt.Errorf("%w: %q", ErrUnsupportedProblemType, p.Family)
	}
	if p.Parameters == nil {
		p.Parameters = map[string]float64{}
	}
	return p, nil
}

func Save(path string, p ParsedProblem) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
