package loginmethod

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephnangue/lcadmin/api"
)

func fullParams() Params {
	return Params{
		Username:              "admin",
		Password:              "p1",
		Token:                 "tok",
		Ticket:                "tkt",
		ProfileKey:            "profile.key",
		UserAttributeName:     "attr",
		UserAttributeCategory: "cat",
		OAuth2ClientName:      "infraOIDC",
		CustomHeaderName:      "X-Auth",
		QueryParameterKey:     "access_token",
	}
}

// unset empties one parameter by its wire name.
func unset(p *Params, name string) {
	switch name {
	case "username":
		p.Username = ""
	case "password":
		p.Password = ""
	case "token":
		p.Token = ""
	case "ticket":
		p.Ticket = ""
	case "profileKey":
		p.ProfileKey = ""
	case "userAttributeName":
		p.UserAttributeName = ""
	case "userAttributeCategory":
		p.UserAttributeCategory = ""
	case "oauth2ClientName":
		p.OAuth2ClientName = ""
	case "customHeaderName":
		p.CustomHeaderName = ""
	case "queryParameterKey":
		p.QueryParameterKey = ""
	default:
		panic("unknown param " + name)
	}
}

type sourceCase struct {
	family   Family
	kind     SourceKind
	code     int
	required []string
	config   map[string]any
	flag     string
}

func sourceCases() []sourceCase {
	userAttr := map[string]any{"name": "attr", "category": "cat"}
	profile := map[string]any{"key": "profile.key"}
	attrFields := []string{"userAttributeName", "userAttributeCategory"}

	return []sourceCase{
		{FamilyCredential, SourceProvided, 1, []string{"username", "password"}, map[string]any{"username": "admin", "password": "p1"}, "changePassword"},
		{FamilyCredential, SourceProfileReference, 4, []string{"profileKey"}, profile, ""},
		{FamilyCredential, SourceUserAttributeReference, 5, attrFields, userAttr, ""},

		{FamilyToken, SourceDefault, 0, nil, map[string]any{}, ""},
		{FamilyToken, SourceSystemReference, 3, nil, map[string]any{}, ""},
		{FamilyToken, SourceProvided, 1, []string{"token"}, map[string]any{"token": "tok"}, "changeToken"},
		{FamilyToken, SourceProfileReference, 4, []string{"profileKey"}, profile, ""},
		{FamilyToken, SourceUserAttributeReference, 5, attrFields, userAttr, ""},

		{FamilySingleSignOn, SourceDefault, 0, nil, map[string]any{}, ""},
		{FamilySingleSignOn, SourceSystemReference, 3, nil, map[string]any{}, ""},
		{FamilySingleSignOn, SourceProvided, 1, []string{"ticket"}, map[string]any{"ticket": "tkt"}, "changeTicket"},
		{FamilySingleSignOn, SourceProfileReference, 4, []string{"profileKey"}, profile, ""},
		{FamilySingleSignOn, SourceUserAttributeReference, 5, attrFields, userAttr, ""},

		{FamilyDelegatedAuth, SourceDefault, 0, []string{"oauth2ClientName"}, map[string]any{"clientName": "infraOIDC"}, ""},
		{FamilyDelegatedAuth, SourceReference, 2, []string{"oauth2ClientName"}, map[string]any{"clientName": "infraOIDC"}, ""},
		{FamilyDelegatedAuth, SourceProfileReference, 4, []string{"profileKey"}, profile, ""},
		{FamilyDelegatedAuth, SourceUserAttributeReference, 5, attrFields, userAttr, ""},
	}
}

func TestMapSource_Table(t *testing.T) {
	for _, tc := range sourceCases() {
		t.Run(string(tc.family)+"/"+string(tc.kind), func(t *testing.T) {
			m, err := MapperFor(tc.family)
			require.NoError(t, err)

			p := fullParams()
			got, err := m.MapSource(tc.kind, &p, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.family, got.Family)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.config, got.Config)
		})
	}
}

func TestMapSource_RotationFlag(t *testing.T) {
	existing := &api.LoginMethod{Name: "lm"}

	for _, tc := range sourceCases() {
		if tc.flag == "" {
			continue
		}
		t.Run(string(tc.family), func(t *testing.T) {
			m, err := MapperFor(tc.family)
			require.NoError(t, err)

			p := fullParams()
			got, err := m.MapSource(tc.kind, &p, nil)
			require.NoError(t, err)
			assert.NotContains(t, got.Config, tc.flag, "flag must be absent on create")

			for _, rotate := range []bool{true, false} {
				p := fullParams()
				p.ChangePassword, p.ChangeToken, p.ChangeTicket = rotate, rotate, rotate

				got, err := m.MapSource(tc.kind, &p, existing)
				require.NoError(t, err)
				assert.Equal(t, rotate, got.Config[tc.flag])
			}

			// The flag is present on update even when the caller never set it.
			p = fullParams()
			got, err = m.MapSource(tc.kind, &p, existing)
			require.NoError(t, err)
			assert.Equal(t, false, got.Config[tc.flag])
		})
	}
}

func TestMapSource_MissingField(t *testing.T) {
	for _, tc := range sourceCases() {
		for _, missing := range tc.required {
			t.Run(string(tc.family)+"/"+string(tc.kind)+"/"+missing, func(t *testing.T) {
				m, err := MapperFor(tc.family)
				require.NoError(t, err)

				p := fullParams()
				unset(&p, missing)

				_, err = m.MapSource(tc.kind, &p, nil)
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMissingField))

				var mfe *MissingFieldError
				require.ErrorAs(t, err, &mfe)
				assert.Equal(t, []string{missing}, mfe.Fields)
				assert.Equal(t, tc.family, mfe.Family)
				assert.Contains(t, err.Error(), missing)
			})
		}
	}
}

func TestMapSource_OnlyRequiredFields(t *testing.T) {
	for _, tc := range sourceCases() {
		t.Run(string(tc.family)+"/"+string(tc.kind), func(t *testing.T) {
			m, err := MapperFor(tc.family)
			require.NoError(t, err)

			// Start from nothing and set only what the kind requires.
			full := fullParams()
			var p Params
			for _, name := range tc.required {
				switch name {
				case "username":
					p.Username = full.Username
				case "password":
					p.Password = full.Password
				case "token":
					p.Token = full.Token
				case "ticket":
					p.Ticket = full.Ticket
				case "profileKey":
					p.ProfileKey = full.ProfileKey
				case "userAttributeName":
					p.UserAttributeName = full.UserAttributeName
				case "userAttributeCategory":
					p.UserAttributeCategory = full.UserAttributeCategory
				case "oauth2ClientName":
					p.OAuth2ClientName = full.OAuth2ClientName
				}
			}

			got, err := m.MapSource(tc.kind, &p, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.config, got.Config)
		})
	}
}

func TestMapSource_ReportsAllMissingFields(t *testing.T) {
	m, err := MapperFor(FamilyCredential)
	require.NoError(t, err)

	_, err = m.MapSource(SourceProvided, &Params{}, nil)

	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, []string{"username", "password"}, mfe.Fields)
	assert.Equal(t, string(SourceProvided), mfe.Kind)
}

func TestMapSource_SingleSignOnReferenceUnsupported(t *testing.T) {
	m, err := MapperFor(FamilySingleSignOn)
	require.NoError(t, err)

	inputs := []Params{{}, fullParams()}
	for _, p := range inputs {
		for _, existing := range []*api.LoginMethod{nil, {Name: "lm"}} {
			_, err := m.MapSource(SourceReference, &p, existing)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedVariant))
			assert.False(t, errors.Is(err, ErrMissingField))
		}
	}
}

func TestMapSource_UnsupportedKinds(t *testing.T) {
	tests := []struct {
		family Family
		kind   SourceKind
	}{
		{FamilyCredential, SourceDefault},
		{FamilyCredential, SourceSystemReference},
		{FamilyCredential, SourceReference},
		{FamilyToken, SourceReference},
		{FamilyDelegatedAuth, SourceProvided},
		{FamilyDelegatedAuth, SourceSystemReference},
		{FamilyToken, SourceKind("provided")},
		{FamilyToken, SourceKind("Bogus")},
	}

	for _, tt := range tests {
		t.Run(string(tt.family)+"/"+string(tt.kind), func(t *testing.T) {
			m, err := MapperFor(tt.family)
			require.NoError(t, err)

			p := fullParams()
			_, err = m.MapSource(tt.kind, &p, nil)

			var uve *UnsupportedVariantError
			require.ErrorAs(t, err, &uve)
			assert.Equal(t, tt.family, uve.Family)
			assert.Equal(t, string(tt.kind), uve.Kind)
			assert.Equal(t, "source", uve.Axis)
			assert.Contains(t, err.Error(), string(tt.family))
		})
	}
}

func TestDefaultSourceKind(t *testing.T) {
	want := map[Family]SourceKind{
		FamilyCredential:    SourceProvided,
		FamilyToken:         SourceDefault,
		FamilySingleSignOn:  SourceDefault,
		FamilyDelegatedAuth: SourceDefault,
	}
	for family, kind := range want {
		m, err := MapperFor(family)
		require.NoError(t, err)
		assert.Equal(t, family, m.Family())
		assert.Equal(t, kind, m.DefaultSourceKind())
	}
}

func TestMapTarget(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		kind   TargetKind
		code   int
		config map[string]any
	}{
		{"token default", FamilyToken, TargetDefault, 0, nil},
		{"token custom header", FamilyToken, TargetCustomHeader, 1, map[string]any{"name": "X-Auth"}},
		{"token query parameter falls back", FamilyToken, TargetQueryParameter, 0, nil},
		{"token unknown falls back", FamilyToken, TargetKind("Cookie"), 0, nil},
		{"oauth2 default", FamilyDelegatedAuth, TargetDefault, 0, nil},
		{"oauth2 custom header", FamilyDelegatedAuth, TargetCustomHeader, 1, map[string]any{"name": "X-Auth"}},
		{"oauth2 query parameter", FamilyDelegatedAuth, TargetQueryParameter, 2, map[string]any{"key": "access_token"}},
		{"oauth2 unknown falls back", FamilyDelegatedAuth, TargetKind("customheader"), 0, nil},
		{"oauth2 empty falls back", FamilyDelegatedAuth, TargetKind(""), 0, nil},
		{"credential ignores target", FamilyCredential, TargetCustomHeader, 0, nil},
		{"credential ignores query parameter", FamilyCredential, TargetQueryParameter, 0, nil},
		{"sso ignores target", FamilySingleSignOn, TargetCustomHeader, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MapperFor(tt.family)
			require.NoError(t, err)

			p := fullParams()
			got, err := m.MapTarget(tt.kind, &p)
			require.NoError(t, err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.config, got.Config)
		})
	}
}

func TestMapTarget_MissingField(t *testing.T) {
	tests := []struct {
		family  Family
		kind    TargetKind
		missing string
	}{
		{FamilyToken, TargetCustomHeader, "customHeaderName"},
		{FamilyDelegatedAuth, TargetCustomHeader, "customHeaderName"},
		{FamilyDelegatedAuth, TargetQueryParameter, "queryParameterKey"},
	}

	for _, tt := range tests {
		t.Run(string(tt.family)+"/"+string(tt.kind), func(t *testing.T) {
			m, err := MapperFor(tt.family)
			require.NoError(t, err)

			p := fullParams()
			unset(&p, tt.missing)

			_, err = m.MapTarget(tt.kind, &p)
			var mfe *MissingFieldError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, []string{tt.missing}, mfe.Fields)
		})
	}
}

func TestMapTarget_UnknownKindNeverFails(t *testing.T) {
	for _, family := range []Family{FamilyToken, FamilyDelegatedAuth} {
		m, err := MapperFor(family)
		require.NoError(t, err)

		// No parameters at all: fallback must not need any.
		got, err := m.MapTarget(TargetKind("Unknown"), &Params{})
		require.NoError(t, err)
		assert.Equal(t, 0, got.Code)
		assert.Nil(t, got.Config)
	}
}

func TestMapperFor_Unknown(t *testing.T) {
	_, err := MapperFor(Family("Kerberos"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedVariant))
	assert.Contains(t, err.Error(), "Kerberos")
}

func TestSourceCodesAreScopedByFamily(t *testing.T) {
	// Code 1 is "provided" in three families; the mapping keeps its family.
	var got []*SourceMapping
	for _, family := range []Family{FamilyCredential, FamilyToken, FamilySingleSignOn} {
		m, err := MapperFor(family)
		require.NoError(t, err)
		p := fullParams()
		sm, err := m.MapSource(SourceProvided, &p, nil)
		require.NoError(t, err)
		got = append(got, sm)
	}

	for i, family := range []Family{FamilyCredential, FamilyToken, FamilySingleSignOn} {
		assert.Equal(t, 1, got[i].Code)
		assert.Equal(t, family, got[i].Family)
	}
}
