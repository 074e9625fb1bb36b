// Package demo is a self-contained archive backend for trying chatlog
// without a real server. It serves the same HTTP API from an in-memory
// store seeded with fixture conversations, and accepts archive uploads
// in the export format.
package demo

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pErrors "github.com/zhubert/chatlog/internal/errors"
)

// timeLayout is the wire format of all timestamps
const timeLayout = "2006-01-02 15:04:05"

//go:embed fixtures/archive.yaml
var defaultFixture []byte

// Fixture is the YAML seed of a demo store.
type Fixture struct {
	Now           string                `yaml:"now"`
	Costs         []FixtureCost         `yaml:"costs"`
	Conversations []FixtureConversation `yaml:"conversations"`
}

type FixtureCost struct {
	Month  string `yaml:"month"`
	Input  int    `yaml:"input"`
	Output int    `yaml:"output"`
}

type FixtureConversation struct {
	ID       string           `yaml:"id"`
	Title    *string          `yaml:"title"`
	Group    string           `yaml:"group"` // overrides the date group when set
	Favorite bool             `yaml:"favorite"`
	Messages []FixtureMessage `yaml:"messages"`
}

type FixtureMessage struct {
	Role string `yaml:"role"`
	At   string `yaml:"at"`
	Text string `yaml:"text"` // markdown
}

// DefaultFixture returns the bundled demo archive.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pErrors.E(pErrors.Op("demo.LoadFixture"), pErrors.KindIO, err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and checks a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	const op = pErrors.Op("demo.ParseFixture")

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, pErrors.E(op, pErrors.KindDecode, err)
	}
	if f.Now != "" {
		if _, err := time.ParseInLocation(timeLayout, f.Now, time.Local); err != nil {
			return nil, pErrors.E(op, pErrors.KindInvalid, fmt.Sprintf("now %q", f.Now), err)
		}
	}
	for _, c := range f.Conversations {
		if c.ID == "" {
			return nil, pErrors.E(op, pErrors.KindInvalid, "conversation without id")
		}
		for _, m := range c.Messages {
			if _, err := time.ParseInLocation(timeLayout, m.At, time.Local); err != nil {
				return nil, pErrors.E(op, pErrors.KindInvalid, fmt.Sprintf("conversation %s: message time %q", c.ID, m.At), err)
			}
		}
	}
	return &f, nil
}
