package loginmethod

import (
	"github.com/hashicorp/go-secure-stdlib/strutil"
	"github.com/stephnangue/lcadmin/api"
)

// ValidateExternalClient checks that name is one of the known client names.
// An empty registry is valid input; every lookup against it fails.
func ValidateExternalClient(name string, known []string) error {
	if !strutil.StrListContains(known, name) {
		return &ReferenceError{Name: name}
	}
	return nil
}

func clientNames(clients []*api.OAuth2Client) []string {
	names := make([]string, 0, len(clients))
	for _, c := range clients {
		if c != nil {
			names = append(names, c.Name)
		}
	}
	return names
}
