// Package menu validates, decodes, times and trims generated training menus.
package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ValidationError names the first field of a candidate menu that failed
// the structural check.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate checks a parsed JSON candidate against the menu schema,
// stopping at the first violation.
func Validate(candidate any) error {
	root, ok := candidate.(map[string]any)
	if !ok {
		return &ValidationError{Path: "$", Reason: "must be an object"}
	}
	if _, ok := root["title"].(string); !ok {
		return &ValidationError{Path: "title", Reason: "must be a string"}
	}
	sections, ok := root["menu"].([]any)
	if !ok {
		return &ValidationError{Path: "menu", Reason: "must be an array"}
	}
	if !isNumber(root["totalTime"]) {
		return &ValidationError{Path: "totalTime", Reason: "must be a number"}
	}

	for i, raw := range sections {
		path := fmt.Sprintf("menu[%d]", i)
		section, ok := raw.(map[string]any)
		if !ok {
			return &ValidationError{Path: path, Reason: "must be an object"}
		}
		if _, ok := section["name"].(string); !ok {
			return &ValidationError{Path: path + ".name", Reason: "must be a string"}
		}
		items, ok := section["items"].([]any)
		if !ok {
			return &ValidationError{Path: path + ".items", Reason: "must be an array"}
		}
		for j, rawItem := range items {
			if err := validateItem(fmt.Sprintf("%s.items[%d]", path, j), rawItem); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateItem(path string, raw any) error {
	item, ok := raw.(map[string]any)
	if !ok {
		return &ValidationError{Path: path, Reason: "must be an object"}
	}
	if desc, ok := item["description"].(string); !ok || desc == "" {
		return &ValidationError{Path: path + ".description", Reason: "must be a non-empty string"}
	}
	if _, isString := item["distance"].(string); !isString && !isNumber(item["distance"]) {
		return &ValidationError{Path: path + ".distance", Reason: "must be a string or number"}
	}
	if !isNumber(item["sets"]) {
		return &ValidationError{Path: path + ".sets", Reason: "must be a number"}
	}
	if _, ok := item["circle"].(string); !ok {
		return &ValidationError{Path: path + ".circle", Reason: "must be a string"}
	}
	return nil
}

// IsValid reports whether candidate passes Validate, logging the
// failing field when it does not.
func IsValid(candidate any, logger *slog.Logger) bool {
	err := Validate(candidate)
	if err == nil {
		return true
	}
	if logger != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			logger.LogAttrs(context.Background(), slog.LevelWarn, "menu validation failed",
				slog.String("field", ve.Path), slog.String("reason", ve.Reason))
		}
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, json.Number:
		return true
	}
	return false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
