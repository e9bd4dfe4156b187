package helpers

import (
	"github.com/stephnangue/lcadmin/api"
)

// MaskValue is the default mask used for sensitive fields
const MaskValue = "***********"

// SensitiveFields are the source configuration keys that carry secrets.
var SensitiveFields = []string{"password", "token", "ticket"}

// MaskConfigFields masks sensitive config values based on a list of sensitive field names
func MaskConfigFields(sensitiveFields []string, config map[string]any) map[string]any {
	if config == nil {
		return nil
	}

	sensitive := make(map[string]bool)
	for _, f := range sensitiveFields {
		sensitive[f] = true
	}

	masked := make(map[string]any, len(config))
	for k, v := range config {
		if sensitive[k] {
			masked[k] = MaskValue
		} else {
			masked[k] = v
		}
	}
	return masked
}

// MaskLoginMethod returns a copy of the record with secrets masked.
func MaskLoginMethod(m *api.LoginMethod) *api.LoginMethod {
	masked := *m
	masked.SourceConfiguration = MaskConfigFields(SensitiveFields, m.SourceConfiguration)
	return &masked
}

// MaskInput returns a copy of the normalized request with secrets masked.
func MaskInput(in *api.LoginMethodInput) *api.LoginMethodInput {
	masked := *in
	masked.SourceConfiguration = MaskConfigFields(SensitiveFields, in.SourceConfiguration)
	return &masked
}
