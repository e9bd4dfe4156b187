package loginmethod

import "github.com/stephnangue/lcadmin/api"

// ssoMapper handles single sign-on ticket login methods. It has no target
// variants.
type ssoMapper struct{}

func (ssoMapper) Family() Family { return FamilySingleSignOn }

func (ssoMapper) DefaultSourceKind() SourceKind { return SourceDefault }

func (ssoMapper) MapSource(kind SourceKind, p *Params, existing *api.LoginMethod) (*SourceMapping, error) {
	switch kind {
	case SourceDefault:
		return SSOSourceDefault.mapping(map[string]any{}), nil

	case SourceSystemReference:
		return SSOSourceSystemReference.mapping(map[string]any{}), nil

	case SourceProvided:
		if err := requireFields(FamilySingleSignOn, string(kind), field{"ticket", p.Ticket}); err != nil {
			return nil, err
		}
		cfg := secretConfig(map[string]any{"ticket": p.Ticket}, "changeTicket", p.ChangeTicket, existing)
		return SSOSourceProvided.mapping(cfg), nil

	case SourceProfileReference:
		cfg, err := profileConfig(FamilySingleSignOn, kind, p)
		if err != nil {
			return nil, err
		}
		return SSOSourceProfile.mapping(cfg), nil

	case SourceUserAttributeReference:
		cfg, err := userAttributeConfig(FamilySingleSignOn, kind, p)
		if err != nil {
			return nil, err
		}
		return SSOSourceUserAttribute.mapping(cfg), nil
	}
	// Reference lands here too: tickets cannot come from an external client.
	return nil, unsupportedSource(FamilySingleSignOn, kind)
}

func (ssoMapper) MapTarget(TargetKind, *Params) (*TargetMapping, error) {
	return defaultTarget(), nil
}
