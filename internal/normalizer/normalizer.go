// Package normalizer turns creature exports into entities.CreatureRecord.
//
// Every supported payload names its format in a top-level formatTag
// field; the tag selects exactly one adapter and the payload content is
// never sniffed. Adapters share the canonical key tables and the record
// builder, but each reads its own schema.
//
// Abilities that the source names without a stable catalog reference are
// returned as entities.UnresolvedAbilityRef for the resolver. Weapons,
// features and catalog-bound abilities are built directly.
package normalizer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

// EditorName is the editor discriminator of both editor formats
const EditorName = "SPLITTERMOND_CREATURE_EDITOR"

// Config holds the dependencies of the normalizer
type Config struct {
	Mapping *config.Mapping
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Mapping == nil {
		vb.RequiredField("Mapping")
	}
	return vb.Build()
}

type adapter func(ctx context.Context, mapping *config.Mapping, payload []byte) (*entities.CreatureRecord, error)

// Normalizer dispatches payloads to their format adapter
type Normalizer struct {
	mapping  *config.Mapping
	adapters map[entities.Format]adapter
}

// New creates a normalizer
func New(cfg *Config) (*Normalizer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Normalizer{
		mapping: cfg.Mapping,
		adapters: map[entities.Format]adapter{
			entities.FormatEditorV1:  normalizeEditorV1,
			entities.FormatEditorV2:  normalizeEditorV2,
			entities.FormatVTTImport: normalizeVTT,
		},
	}, nil
}

// Normalize converts a raw payload. A FormatValidation error means nothing
// of the payload was applied.
func (n *Normalizer) Normalize(ctx context.Context, payload []byte) (*entities.CreatureRecord, error) {
	format, err := DetectFormat(payload)
	if err != nil {
		return nil, err
	}

	rec, err := n.adapters[format](ctx, n.mapping, payload)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "normalized creature",
		"format", format,
		"name", rec.Name,
		"unresolved", len(rec.Unresolved),
		"abilities", len(rec.Abilities),
		"weapons", len(rec.Weapons))
	return rec, nil
}

type envelope struct {
	FormatTag *string `json:"formatTag"`
}

// DetectFormat reads the formatTag discriminator
func DetectFormat(payload []byte) (entities.Format, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", errors.FormatValidation("payload", "a JSON object", "")
	}

	expected := "one of " + joinFormats()
	if env.FormatTag == nil {
		return "", errors.FormatValidation("formatTag", expected, "")
	}

	tag := entities.Format(strings.TrimSpace(*env.FormatTag))
	for _, f := range entities.Formats {
		if tag == f {
			return f, nil
		}
	}
	return "", errors.FormatValidation("formatTag", expected, *env.FormatTag)
}

func joinFormats() string {
	names := make([]string, len(entities.Formats))
	for i, f := range entities.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// decode unmarshals a payload whose discriminator was already checked.
// Type mismatches in the body are format errors of the named field.
func decode(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			return errors.FormatValidation(typeErr.Field, "a value of type "+typeErr.Type.String(), typeErr.Value)
		}
		return errors.FormatValidation("payload", "a JSON object", "")
	}
	return nil
}

func requireName(name *string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		got := ""
		if name != nil {
			got = *name
		}
		return "", errors.FormatValidation("name", "a non-empty creature name", got)
	}
	return strings.TrimSpace(*name), nil
}

func requireEditor(editor *string) error {
	if editor == nil {
		return errors.FormatValidation("editor", EditorName, "")
	}
	if *editor != EditorName {
		return errors.FormatValidation("editor", EditorName, *editor)
	}
	return nil
}
