package loginmethod

import "strings"

// Family is the top-level login method kind. It selects the Mapper and is
// sent to the platform as loginMethodType.
type Family string

const (
	FamilyCredential    Family = "Credential"
	FamilyToken         Family = "Token"
	FamilySingleSignOn  Family = "SingleSignOn"
	FamilyDelegatedAuth Family = "DelegatedAuth"
)

// Families lists every supported family in display order.
var Families = []Family{FamilyCredential, FamilyToken, FamilySingleSignOn, FamilyDelegatedAuth}

var familyAliases = map[string]Family{
	"credential":    FamilyCredential,
	"basic":         FamilyCredential,
	"token":         FamilyToken,
	"apikey":        FamilyToken,
	"singlesignon":  FamilySingleSignOn,
	"sso":           FamilySingleSignOn,
	"delegatedauth": FamilyDelegatedAuth,
	"oauth2":        FamilyDelegatedAuth,
}

// ParseFamily resolves user input to a Family, case-insensitively and with
// the short aliases basic, apikey, sso and oauth2.
func ParseFamily(s string) (Family, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	if f, ok := familyAliases[key]; ok {
		return f, nil
	}
	return "", &UnsupportedVariantError{Axis: "family", Kind: s}
}

func (f Family) String() string {
	return string(f)
}
