package config

import (
	"fmt"
	"strings"

	"github.com/dooshek/mstts/internal/tts"
	"github.com/dooshek/mstts/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

const (
	percentMin = -100
	percentMax = 100
)

// FieldError is a single schema violation
type FieldError struct {
	Field       string
	Description string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// ValidationError lists every schema violation found in a configuration
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the violations
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func stringList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func percentSchema() map[string]any {
	return map[string]any{"type": "integer", "minimum": percentMin, "maximum": percentMax}
}

// requireKeyWhen makes section.api_key non-empty when platform is selected
func requireKeyWhen(platform types.Platform, section string) map[string]any {
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{
				"tts": map[string]any{
					"properties": map[string]any{"platform": map[string]any{"const": string(platform)}},
				},
			},
		},
		"then": map[string]any{
			"properties": map[string]any{
				"tts": map[string]any{
					"properties": map[string]any{
						section: map[string]any{
							"properties": map[string]any{"api_key": map[string]any{"type": "string", "minLength": 1}},
						},
					},
				},
			},
		},
	}
}

// configSchema is the declarative platform schema
func configSchema() map[string]any {
	microsoft := map[string]any{
		"type":     "object",
		"required": []any{"api_key"},
		"properties": map[string]any{
			"api_key":  map[string]any{"type": "string"},
			"language": map[string]any{"enum": stringList(tts.SupportedLanguages())},
			"gender":   map[string]any{"enum": stringList(types.Genders)},
			"type":     map[string]any{"type": "string"},
			"rate":     percentSchema(),
			"volume":   percentSchema(),
			"pitch":    map[string]any{"type": "string"},
			"contour":  map[string]any{"type": "string"},
			"region":   map[string]any{"type": "string", "minLength": 1},
		},
	}

	openAI := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"api_key":  map[string]any{"type": "string"},
			"model":    map[string]any{"type": "string"},
			"voice":    map[string]any{"type": "string"},
			"speed":    map[string]any{"type": "number", "minimum": 0.25, "maximum": 4.0},
			"format":   map[string]any{"enum": []any{"mp3", "opus", "aac", "flac", "wav", "pcm"}},
			"language": map[string]any{"enum": stringList(tts.SupportedLanguages())},
		},
	}

	realtime := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model":    map[string]any{"type": "string"},
			"voice":    map[string]any{"type": "string"},
			"language": map[string]any{"enum": stringList(tts.SupportedLanguages())},
		},
	}

	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"tts": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"platform": map[string]any{"enum": []any{
						string(types.PlatformMicrosoft),
						string(types.PlatformOpenAI),
						string(types.PlatformOpenAIRealtime),
					}},
					"microsoft": microsoft,
					"openai":    openAI,
					"realtime":  realtime,
				},
			},
			"server": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"listen_addr": map[string]any{"type": "string"},
					"save_audio":  map[string]any{"type": "boolean"},
				},
			},
		},
		"allOf": []any{
			requireKeyWhen(types.PlatformMicrosoft, "microsoft"),
			requireKeyWhen(types.PlatformOpenAI, "openai"),
			requireKeyWhen(types.PlatformOpenAIRealtime, "openai"),
		},
	}
}

var schemaLoader = gojsonschema.NewGoLoader(configSchema())

// Validate checks config against the platform schema: enumerated languages
// and genders, rate and volume within [-100, 100], and an API key for the
// selected platform
func Validate(config *types.Config) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(config))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, e := range result.Errors() {
		// if/then failures are reported alongside the concrete field error
		if e.Type() == "condition_then" || e.Type() == "number_all_of" {
			continue
		}
		verr.Errors = append(verr.Errors, FieldError{Field: e.Field(), Description: e.Description()})
	}
	return verr
}
