package loginmethod

import "github.com/stephnangue/lcadmin/api"

// credentialMapper handles username and password login methods. It has no
// target variants.
type credentialMapper struct{}

func (credentialMapper) Family() Family { return FamilyCredential }

func (credentialMapper) DefaultSourceKind() SourceKind { return SourceProvided }

func (credentialMapper) MapSource(kind SourceKind, p *Params, existing *api.LoginMethod) (*SourceMapping, error) {
	switch kind {
	case SourceProvided:
		err := requireFields(FamilyCredential, string(kind),
			field{"username", p.Username},
			field{"password", p.Password},
		)
		if err != nil {
			return nil, err
		}
		cfg := secretConfig(map[string]any{
			"username": p.Username,
			"password": p.Password,
		}, "changePassword", p.ChangePassword, existing)
		return CredentialSourceProvided.mapping(cfg), nil

	case SourceProfileReference:
		cfg, err := profileConfig(FamilyCredential, kind, p)
		if err != nil {
			return nil, err
		}
		return CredentialSourceProfile.mapping(cfg), nil

	case SourceUserAttributeReference:
		cfg, err := userAttributeConfig(FamilyCredential, kind, p)
		if err != nil {
			return nil, err
		}
		return CredentialSourceUserAttribute.mapping(cfg), nil
	}
	return nil, unsupportedSource(FamilyCredential, kind)
}

func (credentialMapper) MapTarget(TargetKind, *Params) (*TargetMapping, error) {
	return defaultTarget(), nil
}
