package loginmethod

// SourceKind says how the secret or reference of a login method is obtained.
type SourceKind string

const (
	SourceDefault                SourceKind = "Default"
	SourceProvided               SourceKind = "Provided"
	SourceReference              SourceKind = "Reference"
	SourceSystemReference        SourceKind = "SystemReference"
	SourceProfileReference       SourceKind = "ProfileReference"
	SourceUserAttributeReference SourceKind = "UserAttributeReference"
)

// TargetKind says how the credential is attached to an outgoing call.
type TargetKind string

const (
	TargetDefault        TargetKind = "Default"
	TargetCustomHeader   TargetKind = "CustomHeader"
	TargetQueryParameter TargetKind = "QueryParameter"
)

// Source codes are only meaningful together with their family, so every
// family gets its own code type. Each type builds SourceMappings stamped with
// its family.

type CredentialSourceCode int

const (
	CredentialSourceProvided      CredentialSourceCode = 1
	CredentialSourceProfile       CredentialSourceCode = 4
	CredentialSourceUserAttribute CredentialSourceCode = 5
)

func (c CredentialSourceCode) mapping(config map[string]any) *SourceMapping {
	return &SourceMapping{Family: FamilyCredential, Code: int(c), Config: config}
}

type TokenSourceCode int

const (
	TokenSourceDefault         TokenSourceCode = 0
	TokenSourceProvided        TokenSourceCode = 1
	TokenSourceSystemReference TokenSourceCode = 3
	TokenSourceProfile         TokenSourceCode = 4
	TokenSourceUserAttribute   TokenSourceCode = 5
)

func (c TokenSourceCode) mapping(config map[string]any) *SourceMapping {
	return &SourceMapping{Family: FamilyToken, Code: int(c), Config: config}
}

type SSOSourceCode int

const (
	SSOSourceDefault         SSOSourceCode = 0
	SSOSourceProvided        SSOSourceCode = 1
	SSOSourceSystemReference SSOSourceCode = 3
	SSOSourceProfile         SSOSourceCode = 4
	SSOSourceUserAttribute   SSOSourceCode = 5
)

func (c SSOSourceCode) mapping(config map[string]any) *SourceMapping {
	return &SourceMapping{Family: FamilySingleSignOn, Code: int(c), Config: config}
}

type OAuth2SourceCode int

const (
	OAuth2SourceDefault       OAuth2SourceCode = 0
	OAuth2SourceReference     OAuth2SourceCode = 2
	OAuth2SourceProfile       OAuth2SourceCode = 4
	OAuth2SourceUserAttribute OAuth2SourceCode = 5
)

func (c OAuth2SourceCode) mapping(config map[string]any) *SourceMapping {
	return &SourceMapping{Family: FamilyDelegatedAuth, Code: int(c), Config: config}
}

// TargetCode is shared by the two families that expose targets; the
// QueryParameter code only exists for DelegatedAuth.
type TargetCode int

const (
	TargetCodeDefault        TargetCode = 0
	TargetCodeCustomHeader   TargetCode = 1
	TargetCodeQueryParameter TargetCode = 2
)

func (c TargetCode) mapping(config map[string]any) *TargetMapping {
	return &TargetMapping{Code: int(c), Config: config}
}
