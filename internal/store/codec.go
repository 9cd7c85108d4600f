package store

import (
	"encoding/json"
	"fmt"
)

// Steps, variables and tags live in TEXT columns as JSON arrays;
// variables_used on experiments is a JSON object. These helpers are the only
// place the serialized form is visible. Decoding is validated here, at the
// storage boundary, so the scorer and suggestion code never see raw JSON.

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return list, nil
}

func encodeMap(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding map: %w", err)
	}
	return string(data), nil
}

func decodeMap(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return m, nil
}
