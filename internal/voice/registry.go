// Package voice holds the immutable table of speaking personas and their
// per-provider identifiers.
package voice

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nikhilbhutani/memocast/internal/apperr"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Voice maps a short key onto provider identifiers. AlternateProviderID is
// the free-streaming voice name and may be empty.
type Voice struct {
	Key                 string `yaml:"key"`
	DisplayName         string `yaml:"name"`
	Gender              Gender `yaml:"gender"`
	PrimaryProviderID   string `yaml:"primary_id"`
	AlternateProviderID string `yaml:"alternate_id,omitempty"`
}

// Summary is the public projection of a voice returned by GET /voices.
type Summary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// Registry is built once at startup and never mutated afterwards.
type Registry struct {
	byKey map[string]Voice
	order []string
}

func NewRegistry(voices []Voice) (*Registry, error) {
	if len(voices) == 0 {
		return nil, fmt.Errorf("voice registry requires at least one voice")
	}

	r := &Registry{
		byKey: make(map[string]Voice, len(voices)),
		order: make([]string, 0, len(voices)),
	}
	for _, v := range voices {
		key := normalize(v.Key)
		if key == "" {
			return nil, fmt.Errorf("voice %q: key is required", v.DisplayName)
		}
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("voice %q: duplicate key", key)
		}
		if v.Gender != Male && v.Gender != Female {
			return nil, fmt.Errorf("voice %q: gender must be %q or %q", key, Male, Female)
		}
		if v.PrimaryProviderID == "" {
			return nil, fmt.Errorf("voice %q: primary provider id is required", key)
		}
		if v.DisplayName == "" {
			v.DisplayName = v.Key
		}
		v.Key = key
		r.byKey[key] = v
		r.order = append(r.order, key)
	}
	return r, nil
}

// Default returns the stock voice table.
func Default() *Registry {
	r, err := NewRegistry(defaultVoices)
	if err != nil {
		panic(fmt.Sprintf("default voice table: %v", err))
	}
	return r
}

type voiceFile struct {
	Voices []Voice `yaml:"voices"`
}

// LoadFile reads a YAML voice table of the form
//
//	voices:
//	  - key: june
//	    name: June
//	    gender: female
//	    primary_id: 21m00Tcm4TlvDq8ikWAM
//	    alternate_id: en-US-JennyNeural
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read voices file: %w", err)
	}

	var f voiceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse voices file: %w", err)
	}
	return NewRegistry(f.Voices)
}

// Resolve looks a voice up by key, ignoring case.
func (r *Registry) Resolve(key string) (Voice, error) {
	v, ok := r.byKey[normalize(key)]
	if !ok {
		return Voice{}, apperr.New(apperr.KindUnknownVoice, "resolve voice", "Invalid voice").
			WithDetail("requestedVoice", key).
			WithDetail("availableVoices", r.List())
	}
	return v, nil
}

func (r *Registry) IsValid(key string) bool {
	_, ok := r.byKey[normalize(key)]
	return ok
}

// List returns voice summaries in registration order.
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.order))
	for _, key := range r.order {
		v := r.byKey[key]
		out = append(out, Summary{ID: v.Key, Name: v.DisplayName, Gender: v.Gender})
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
