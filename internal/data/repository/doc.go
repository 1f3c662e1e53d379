package repository

import (
	"encoding/json"
	"fmt"
)

// docData flattens an entity into a document payload. The id travels in the
// document path, not the payload, so it is stripped here.
func docData(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	delete(data, "id")
	return data, nil
}

// docInto decodes a document payload into an entity, re-injecting the id
// taken from the document path.
func docInto(id string, data map[string]any, v any) error {
	payload := make(map[string]any, len(data)+1)
	for k, val := range data {
		payload[k] = val
	}
	payload["id"] = id

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	return nil
}
