package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/mitchellh/go-homedir"
)

// BatchFile is a set of login methods applied together.
type BatchFile struct {
	LoginMethods []LoginMethodBlock `hcl:"login_method,block"`
}

// LoginMethodBlock is one login_method block of a batch file.
type LoginMethodBlock struct {
	Name        string            `hcl:"name,label"`
	Type        string            `hcl:"type"`
	Description string            `hcl:"description,optional"`
	SourceType  string            `hcl:"source_type,optional"`
	TargetType  string            `hcl:"target_type,optional"`
	Params      map[string]string `hcl:"params,optional"`
}

// LoadBatch decodes and validates a batch file.
func LoadBatch(batchFile string) (*BatchFile, error) {
	path, err := homedir.Expand(batchFile)
	if err != nil {
		return nil, fmt.Errorf("failed to expand batch path: %w", err)
	}

	var batch BatchFile
	if err := hclsimple.DecodeFile(path, nil, &batch); err != nil {
		return nil, err
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Validate rejects empty batches and duplicate names, so that no two items
// of one batch ever target the same login method.
func (b *BatchFile) Validate() error {
	if len(b.LoginMethods) == 0 {
		return fmt.Errorf("no login_method blocks found")
	}

	var result *multierror.Error
	seen := make(map[string]bool, len(b.LoginMethods))
	for _, lm := range b.LoginMethods {
		if lm.Name == "" {
			result = multierror.Append(result, fmt.Errorf("login_method with empty name"))
			continue
		}
		if seen[lm.Name] {
			result = multierror.Append(result, fmt.Errorf("duplicate login_method %q", lm.Name))
		}
		seen[lm.Name] = true
	}
	return result.ErrorOrNil()
}

// Raw flattens the block into the key/value form accepted by the login
// method request decoder.
func (lm *LoginMethodBlock) Raw() map[string]any {
	raw := make(map[string]any, len(lm.Params)+5)
	for k, v := range lm.Params {
		raw[k] = v
	}
	raw["name"] = lm.Name
	raw["type"] = lm.Type
	raw["description"] = lm.Description
	raw["sourceType"] = lm.SourceType
	raw["targetType"] = lm.TargetType
	return raw
}
