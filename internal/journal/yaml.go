package journal

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLSink appends each attempt as one YAML document to a file
type YAMLSink struct {
	path string
	mu   sync.Mutex
}

func NewYAMLSink(path string) *YAMLSink {
	return &YAMLSink{path: path}
}

func (s *YAMLSink) Record(_ context.Context, attempt Attempt) error {
	data, err := yaml.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("os.OpenFile(%s) > %w", s.path, err)
	}
	defer file.Close()

	if _, err := file.Write(append([]byte("---\n"), data...)); err != nil {
		return fmt.Errorf("write %s > %w", s.path, err)
	}
	return nil
}

func (s *YAMLSink) Close() error { return nil }
