package user

import (
	"github.com/jinzhu/copier"
	"github.com/semmi1986/SB-keyclock/pkg/keycloak"
)

// ToUserProfile builds the response view of a user from its representation
// and the names of its realm roles and groups. Names are de-duplicated
// keeping first-seen order.
func ToUserProfile(rep keycloak.UserRepresentation, roles, groups []string) UserProfile {
	var profile UserProfile
	// Only string fields with matching names are copied, which cannot fail.
	_ = copier.Copy(&profile, &rep)

	profile.Roles = uniqueNames(roles)
	profile.Groups = uniqueNames(groups)
	return profile
}

// ToUserRepresentation builds the representation sent to the provider for a
// new user: enabled, with the password as a single non-temporary credential.
func ToUserRepresentation(req UserCreationRequest) keycloak.UserRepresentation {
	var rep keycloak.UserRepresentation
	_ = copier.Copy(&rep, &req)

	rep.Enabled = true
	rep.Credentials = []keycloak.Credential{
		{
			Type:      keycloak.CredentialTypePassword,
			Value:     req.Password,
			Temporary: false,
		},
	}
	return rep
}

func uniqueNames(names []string) []string {
	result := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}
