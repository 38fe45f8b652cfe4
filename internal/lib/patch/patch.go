// Package patch применяет частичные JSON-обновления к структурам.
package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// ErrInvalidUpdates в обновлении есть поле вне списка разрешённых
// или значение не подходит по типу.
var ErrInvalidUpdates = errors.New("invalid updates")

// Apply накладывает поля updates на dst. dst должен быть указателем на
// структуру с json-тегами. Ключи вне allowed отклоняются целиком,
// частично применённых обновлений не бывает.
func Apply(dst any, updates map[string]json.RawMessage, allowed []string) error {
	const op = "patch.Apply"

	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("%s: destination must be a non-nil pointer", op)
	}
	if len(updates) == 0 {
		return fmt.Errorf("%s: %w: empty update", op, ErrInvalidUpdates)
	}
	for key := range updates {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%s: %w: field %q is not allowed", op, ErrInvalidUpdates, key)
		}
	}

	current, err := json.Marshal(dst)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	merged := make(map[string]json.RawMessage)
	if err = json.Unmarshal(current, &merged); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for key, value := range updates {
		merged[key] = value
	}

	buf, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidUpdates, err)
	}
	next := reflect.New(target.Elem().Type())
	next.Elem().Set(target.Elem())
	if err = json.Unmarshal(buf, next.Interface()); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidUpdates, err)
	}
	target.Elem().Set(next.Elem())
	return nil
}
