package token

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/todamoon/terminal/internal/models"
)

const (
	separator = ": "
	keyUID    = "uid"
	keyName   = "name"
)

// ParsePayload reads newline separated "key: value" lines. Lines without the
// separator are skipped. Keys and values are kept verbatim apart from a
// trailing "\r"; a repeated key keeps its last value.
func ParsePayload(text string) models.Payload {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		key, value, ok := strings.Cut(line, separator)
		if !ok || key == "" {
			continue
		}
		fields[key] = value
	}

	payload := models.Payload{
		UID:  fields[keyUID],
		Name: fields[keyName],
	}
	delete(fields, keyUID)
	delete(fields, keyName)
	if len(fields) > 0 {
		payload.Extra = fields
	}
	return payload
}

// checkEncodable rejects payloads that ParsePayload could not rebuild exactly.
func checkEncodable(p models.Payload) error {
	if err := checkValue(keyUID, p.UID); err != nil {
		return err
	}
	if err := checkValue(keyName, p.Name); err != nil {
		return err
	}
	if p.Extra != nil && len(p.Extra) == 0 {
		return errors.New("extra must be nil when empty")
	}
	for k, v := range p.Extra {
		switch {
		case k == "":
			return errors.New("extra key is empty")
		case k == keyUID || k == keyName:
			return fmt.Errorf("extra key %q is reserved", k)
		case strings.Contains(k, separator) || strings.ContainsAny(k, "\r\n"):
			return fmt.Errorf("extra key %q contains a separator", k)
		case !utf8.ValidString(k):
			return fmt.Errorf("extra key %q is not valid UTF-8", k)
		}
		if err := checkValue(k, v); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(key, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("value of %q contains a line break", key)
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("value of %q is not valid UTF-8", key)
	}
	return nil
}

// FormatPayload renders uid and name first, then extras sorted by key.
func FormatPayload(p models.Payload) string {
	lines := []string{keyUID + separator + p.UID}
	if p.Name != "" {
		lines = append(lines, keyName+separator+p.Name)
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, k+separator+p.Extra[k])
	}

	return strings.Join(lines, "\n")
}
