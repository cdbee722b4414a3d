package user

import (
	"log/slog"
	"strings"
)

// UserCreationRequest is the body of a create user request. It is forwarded
// to the provider and never stored.
type UserCreationRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LogValue implements slog.LogValuer. The password is never logged.
func (r UserCreationRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", r.Username),
		slog.String("email", r.Email),
		slog.String("firstName", r.FirstName),
		slog.String("lastName", r.LastName),
	)
}

// MissingFields returns the names of the required fields that are empty or
// only whitespace
func (r UserCreationRequest) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"username", r.Username},
		{"email", r.Email},
		{"password", r.Password},
		{"firstName", r.FirstName},
		{"lastName", r.LastName},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// UserProfile is the response view of a user. Roles and Groups are never nil.
type UserProfile struct {
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	Groups    []string `json:"groups"`
}
