package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ValidateFormat rejects unknown --format values.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatTable, FormatJSON:
		return nil
	}
	return fmt.Errorf("unsupported format %q: must be table or json", format)
}

type resultEnvelope struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// WriteResult reports the outcome of a command. In JSON format both
// outcomes are written as an envelope and the error is not returned, so the
// caller's output stays machine readable. Otherwise success prints
// "Success! <msg>" and the error is returned unchanged.
func WriteResult(w io.Writer, format string, msg string, err error) error {
	if strings.EqualFold(format, FormatJSON) {
		env := resultEnvelope{Result: msg}
		if err != nil {
			env = resultEnvelope{Error: err.Error()}
		}
		return WriteJSON(w, env)
	}

	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Success! %s\n", msg)
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
