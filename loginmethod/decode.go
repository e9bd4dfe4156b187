package loginmethod

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-secure-stdlib/parseutil"
)

// DecodeParams builds Params from loosely typed input such as CLI key=value
// pairs or HCL attributes. Keys match case-insensitively, unknown keys are
// ignored, and rotation flags accept the usual boolean spellings.
func DecodeParams(raw map[string]any) (*Params, error) {
	var p Params
	if err := decode(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode login method parameters: %w", err)
	}
	return &p, nil
}

// DecodeRequest builds a Request from a flat map holding the request fields
// (type, name, description, sourceType, targetType) next to the parameters.
func DecodeRequest(raw map[string]any) (*Request, error) {
	var r Request
	if err := decode(raw, &r); err != nil {
		return nil, fmt.Errorf("failed to decode login method request: %w", err)
	}
	return &r, nil
}

func decode(raw map[string]any, out any) error {
	if err := checkDuplicateKeys(raw); err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			familyHook,
			boolHook,
		),
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
		Result: out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func familyHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(Family("")) || from.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if s == "" {
		return Family(""), nil
	}
	return ParseFamily(s)
}

func boolHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Bool || from.Kind() != reflect.String {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return parseutil.ParseBool(data)
}

// checkDuplicateKeys rejects maps where two keys fold to the same field, as
// in "change_password" next to "changePassword". Which value mapstructure
// kept would otherwise depend on map iteration order.
func checkDuplicateKeys(raw map[string]any) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]string, len(keys))
	for _, k := range keys {
		norm := normalizeKey(k)
		if prev, ok := seen[norm]; ok {
			return fmt.Errorf("keys %q and %q name the same field", prev, k)
		}
		seen[norm] = k
	}
	return nil
}

// normalizeKey lets "change_password", "change-password" and
// "changePassword" name the same field.
func normalizeKey(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '-':
			continue
		case c >= 'A' && c <= 'Z':
			out = append(out, c+'a'-'A')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
