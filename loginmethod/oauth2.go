package loginmethod

import "github.com/stephnangue/lcadmin/api"

// oauth2Mapper handles login methods delegated to an external OAuth2 client.
type oauth2Mapper struct{}

func (oauth2Mapper) Family() Family { return FamilyDelegatedAuth }

func (oauth2Mapper) DefaultSourceKind() SourceKind { return SourceDefault }

func (oauth2Mapper) MapSource(kind SourceKind, p *Params, _ *api.LoginMethod) (*SourceMapping, error) {
	switch kind {
	case SourceDefault, SourceReference:
		if err := requireFields(FamilyDelegatedAuth, string(kind), field{"oauth2ClientName", p.OAuth2ClientName}); err != nil {
			return nil, err
		}
		code := OAuth2SourceDefault
		if kind == SourceReference {
			code = OAuth2SourceReference
		}
		return code.mapping(map[string]any{"clientName": p.OAuth2ClientName}), nil

	case SourceProfileReference:
		cfg, err := profileConfig(FamilyDelegatedAuth, kind, p)
		if err != nil {
			return nil, err
		}
		return OAuth2SourceProfile.mapping(cfg), nil

	case SourceUserAttributeReference:
		cfg, err := userAttributeConfig(FamilyDelegatedAuth, kind, p)
		if err != nil {
			return nil, err
		}
		return OAuth2SourceUserAttribute.mapping(cfg), nil
	}
	return nil, unsupportedSource(FamilyDelegatedAuth, kind)
}

func (oauth2Mapper) MapTarget(kind TargetKind, p *Params) (*TargetMapping, error) {
	switch kind {
	case TargetCustomHeader:
		return mapCustomHeader(FamilyDelegatedAuth, p)
	case TargetQueryParameter:
		if err := requireFields(FamilyDelegatedAuth, string(kind), field{"queryParameterKey", p.QueryParameterKey}); err != nil {
			return nil, err
		}
		return TargetCodeQueryParameter.mapping(map[string]any{"key": p.QueryParameterKey}), nil
	}
	return defaultTarget(), nil
}

// usesExternalClient reports whether the source kind embeds a client name
// that must exist in the registry.
func usesExternalClient(kind SourceKind) bool {
	return kind == SourceDefault || kind == SourceReference
}
