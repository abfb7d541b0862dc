package address

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ZipCode is a Thai postal code. Datasets disagree on whether codes are
// strings or numbers; both decode to the plain decimal string.
type ZipCode string

// UnmarshalJSON accepts a JSON string, number, or null.
func (z *ZipCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*z = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("zip code: %w", err)
		}
		*z = ZipCode(strings.TrimSpace(s))
		return nil
	}

	s, err := normalizeNumeric(string(data))
	if err != nil {
		return err
	}
	*z = ZipCode(s)
	return nil
}

// UnmarshalYAML accepts a scalar of any tag; numeric scalars are normalized.
func (z *ZipCode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("zip code: line %d: expected scalar", value.Line)
	}

	switch value.ShortTag() {
	case "!!null":
		*z = ""
	case "!!int", "!!float":
		s, err := normalizeNumeric(value.Value)
		if err != nil {
			return err
		}
		*z = ZipCode(s)
	default:
		*z = ZipCode(strings.TrimSpace(value.Value))
	}
	return nil
}

// String returns the code as text.
func (z ZipCode) String() string {
	return string(z)
}

func normalizeNumeric(raw string) (string, error) {
	if _, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return raw, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return "", fmt.Errorf("zip code: invalid numeric value %q", raw)
	}
	return strconv.FormatFloat(f, 'f', 0, 64), nil
}
