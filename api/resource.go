package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Resource is the envelope every platform admin endpoint answers with.
type Resource struct {
	// Data is the actual contents of the resource. The format of the data
	// is arbitrary and depends on the endpoint.
	Data map[string]any `json:"data"`
}

// ParseResource is used to parse a resource value from JSON from an io.Reader.
// A body that carries no "data" key is treated as the data itself, unless it
// only contains an "errors" list.
func ParseResource(r io.Reader) (*Resource, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, nil
	}
	raw := buf.Bytes()

	var resource Resource
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&resource); err != nil {
		return nil, err
	}
	if resource.Data != nil {
		return &resource, nil
	}

	data := make(map[string]any)
	dec = json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}

	errRaw, errPresent := data["errors"]
	if len(data) == 1 && errPresent {
		return nil, nil
	}
	if errPresent {
		var errStrArray []string
		errBytes, err := json.Marshal(errRaw)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(errBytes, &errStrArray); err != nil {
			return nil, err
		}
		return nil, errors.New(strings.Join(errStrArray, " "))
	}

	if len(data) > 0 {
		resource.Data = data
	}
	return &resource, nil
}
