package loginmethod

import "github.com/stephnangue/lcadmin/api"

// tokenMapper handles API token login methods.
type tokenMapper struct{}

func (tokenMapper) Family() Family { return FamilyToken }

func (tokenMapper) DefaultSourceKind() SourceKind { return SourceDefault }

func (tokenMapper) MapSource(kind SourceKind, p *Params, existing *api.LoginMethod) (*SourceMapping, error) {
	switch kind {
	case SourceDefault:
		return TokenSourceDefault.mapping(map[string]any{}), nil

	case SourceSystemReference:
		return TokenSourceSystemReference.mapping(map[string]any{}), nil

	case SourceProvided:
		if err := requireFields(FamilyToken, string(kind), field{"token", p.Token}); err != nil {
			return nil, err
		}
		cfg := secretConfig(map[string]any{"token": p.Token}, "changeToken", p.ChangeToken, existing)
		return TokenSourceProvided.mapping(cfg), nil

	case SourceProfileReference:
		cfg, err := profileConfig(FamilyToken, kind, p)
		if err != nil {
			return nil, err
		}
		return TokenSourceProfile.mapping(cfg), nil

	case SourceUserAttributeReference:
		cfg, err := userAttributeConfig(FamilyToken, kind, p)
		if err != nil {
			return nil, err
		}
		return TokenSourceUserAttribute.mapping(cfg), nil
	}
	return nil, unsupportedSource(FamilyToken, kind)
}

// MapTarget supports Default and CustomHeader. QueryParameter is not a Token
// target and falls back to Default like any other unknown kind.
func (tokenMapper) MapTarget(kind TargetKind, p *Params) (*TargetMapping, error) {
	if kind == TargetCustomHeader {
		return mapCustomHeader(FamilyToken, p)
	}
	return defaultTarget(), nil
}
