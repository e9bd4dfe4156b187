package loginmethod

import (
	"github.com/stephnangue/lcadmin/api"
)

// Params is the family-specific bag of optional inputs. Only the fields
// required by the resolved source and target kinds are read.
type Params struct {
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	ChangePassword bool   `mapstructure:"changePassword"`

	Token       string `mapstructure:"token"`
	ChangeToken bool   `mapstructure:"changeToken"`

	Ticket       string `mapstructure:"ticket"`
	ChangeTicket bool   `mapstructure:"changeTicket"`

	ProfileKey            string `mapstructure:"profileKey"`
	UserAttributeName     string `mapstructure:"userAttributeName"`
	UserAttributeCategory string `mapstructure:"userAttributeCategory"`

	// OAuth2ClientName is the name of an external client registered on the
	// platform.
	OAuth2ClientName string `mapstructure:"oauth2ClientName"`

	CustomHeaderName  string `mapstructure:"customHeaderName"`
	QueryParameterKey string `mapstructure:"queryParameterKey"`
}

// Request describes one create-or-update of a login method.
type Request struct {
	Family      Family     `mapstructure:"type"`
	Name        string     `mapstructure:"name"`
	Description string     `mapstructure:"description"`
	SourceKind  SourceKind `mapstructure:"sourceType"`
	TargetKind  TargetKind `mapstructure:"targetType"`
	Params      Params     `mapstructure:",squash"`
}

// SourceMapping is a source code together with the family that gives it
// meaning.
type SourceMapping struct {
	Family Family
	Code   int
	Config map[string]any
}

// TargetMapping is a target code and its optional configuration.
type TargetMapping struct {
	Code   int
	Config map[string]any
}

func defaultTarget() *TargetMapping { return TargetCodeDefault.mapping(nil) }

// Mapper turns source and target kinds into the codes and configuration a
// single family expects.
type Mapper interface {
	Family() Family
	DefaultSourceKind() SourceKind

	// MapSource resolves a source kind. existing is the stored record when
	// one was found; rotation flags are only emitted in that case.
	MapSource(kind SourceKind, params *Params, existing *api.LoginMethod) (*SourceMapping, error)

	// MapTarget resolves a target kind. Unrecognized kinds fall back to the
	// Default target.
	MapTarget(kind TargetKind, params *Params) (*TargetMapping, error)
}

var mappers = map[Family]Mapper{
	FamilyCredential:    credentialMapper{},
	FamilyToken:         tokenMapper{},
	FamilySingleSignOn:  ssoMapper{},
	FamilyDelegatedAuth: oauth2Mapper{},
}

// MapperFor returns the mapper of a family.
func MapperFor(family Family) (Mapper, error) {
	m, ok := mappers[family]
	if !ok {
		return nil, &UnsupportedVariantError{Axis: "family", Kind: string(family)}
	}
	return m, nil
}

// field pairs a wire parameter name with its value for presence checks.
type field struct {
	name  string
	value string
}

// requireFields reports every empty field of the resolved kind at once.
func requireFields(family Family, kind string, fields ...field) error {
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Family: family, Kind: kind, Fields: missing}
	}
	return nil
}

// profileConfig and userAttributeConfig are shared by every family.

func profileConfig(family Family, kind SourceKind, p *Params) (map[string]any, error) {
	if err := requireFields(family, string(kind), field{"profileKey", p.ProfileKey}); err != nil {
		return nil, err
	}
	return map[string]any{"key": p.ProfileKey}, nil
}

func userAttributeConfig(family Family, kind SourceKind, p *Params) (map[string]any, error) {
	err := requireFields(family, string(kind),
		field{"userAttributeName", p.UserAttributeName},
		field{"userAttributeCategory", p.UserAttributeCategory},
	)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"name":     p.UserAttributeName,
		"category": p.UserAttributeCategory,
	}, nil
}

// secretConfig builds the config of a directly provided secret. The rotation
// flag is part of the shape only when updating an existing record.
func secretConfig(values map[string]any, flag string, rotate bool, existing *api.LoginMethod) map[string]any {
	if existing != nil {
		values[flag] = rotate
	}
	return values
}

// mapCustomHeader is the CustomHeader target shared by Token and DelegatedAuth.
func mapCustomHeader(family Family, p *Params) (*TargetMapping, error) {
	if err := requireFields(family, string(TargetCustomHeader), field{"customHeaderName", p.CustomHeaderName}); err != nil {
		return nil, err
	}
	return TargetCodeCustomHeader.mapping(map[string]any{"name": p.CustomHeaderName}), nil
}
