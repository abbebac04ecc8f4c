// Package exercise holds the catalogue of writing prompts and picks one per round.
package exercise

import (
	"errors"
	"math/rand/v2"
)

// DefaultPrompts is the built-in catalogue used when the configuration does not override it.
var DefaultPrompts = []string{
	"Walk me through what a typical weekend looks like for you.",
	"Tell me about a time you tried something new and how it went.",
	"What does your ideal day off look like, from start to finish?",
	"Describe what your mornings are usually like.",
	"How did you spend your holiday, and what moments stood out the most?",
}

var ErrEmptyCatalogue = errors.New("exercise catalogue is empty")

// Catalogue is an immutable list of prompts
type Catalogue struct {
	prompts []string
	intn    func(n int) int
}

func NewCatalogue(prompts []string) (*Catalogue, error) {
	return NewCatalogueWithRand(prompts, rand.IntN)
}

// NewCatalogueWithRand lets tests control which prompt is picked
func NewCatalogueWithRand(prompts []string, intn func(n int) int) (*Catalogue, error) {
	if len(prompts) == 0 {
		return nil, ErrEmptyCatalogue
	}
	copied := make([]string, len(prompts))
	copy(copied, prompts)
	return &Catalogue{prompts: copied, intn: intn}, nil
}

// Pick returns a prompt chosen uniformly at random
func (c *Catalogue) Pick() string {
	return c.prompts[c.intn(len(c.prompts))]
}

func (c *Catalogue) Prompts() []string {
	prompts := make([]string, len(c.prompts))
	copy(prompts, c.prompts)
	return prompts
}

func (c *Catalogue) Contains(prompt string) bool {
	for _, p := range c.prompts {
		if p == prompt {
			return true
		}
	}
	return false
}
