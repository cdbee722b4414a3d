package keycloak

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// InMemoryProvider implements Provider with in-memory maps. It behaves like
// Keycloak for the operations the service uses: usernames and emails are
// unique (case-insensitive) and duplicates are answered with 409.
type InMemoryProvider struct {
	mu     sync.RWMutex
	users  map[string]UserRepresentation
	roles  map[string][]string // userID -> realm role names
	groups map[string][]string // userID -> group names

	// DefaultRoles are mapped to every created user, like a realm's default roles.
	DefaultRoles []string
}

// NewInMemoryProvider creates an empty in-memory provider
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		users:  make(map[string]UserRepresentation),
		roles:  make(map[string][]string),
		groups: make(map[string][]string),
	}
}

// CreateUser stores a user and returns 201 with its location
func (p *InMemoryProvider) CreateUser(ctx context.Context, rep UserRepresentation) (ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return ProviderResponse{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.users {
		if strings.EqualFold(existing.Username, rep.Username) ||
			(rep.Email != "" && strings.EqualFold(existing.Email, rep.Email)) {
			return ProviderResponse{StatusCode: http.StatusConflict}, nil
		}
	}

	rep.ID = uuid.NewString()
	rep.Username = strings.ToLower(rep.Username)
	rep.Credentials = nil
	p.users[rep.ID] = rep
	p.roles[rep.ID] = append([]string(nil), p.DefaultRoles...)

	return ProviderResponse{
		StatusCode: http.StatusCreated,
		Location:   "/admin/realms/inmem/users/" + rep.ID,
	}, nil
}

// GetUser returns a stored user or ErrUserNotFound
func (p *InMemoryProvider) GetUser(ctx context.Context, id string) (UserRepresentation, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rep, ok := p.users[id]
	if !ok {
		return UserRepresentation{}, ErrUserNotFound
	}
	return rep, nil
}

// GetRealmRoleMappings returns the roles mapped to a user
func (p *InMemoryProvider) GetRealmRoleMappings(ctx context.Context, id string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.users[id]; !ok {
		return nil, ErrUserNotFound
	}
	return append([]string{}, p.roles[id]...), nil
}

// GetGroupMemberships returns the groups a user belongs to
func (p *InMemoryProvider) GetGroupMemberships(ctx context.Context, id string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.users[id]; !ok {
		return nil, ErrUserNotFound
	}
	return append([]string{}, p.groups[id]...), nil
}

// AssignRealmRoles maps additional realm roles to a user
func (p *InMemoryProvider) AssignRealmRoles(id string, roles ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.users[id]; !ok {
		return ErrUserNotFound
	}
	p.roles[id] = append(p.roles[id], roles...)
	return nil
}

// AddToGroups adds a user to groups
func (p *InMemoryProvider) AddToGroups(id string, groups ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.users[id]; !ok {
		return ErrUserNotFound
	}
	p.groups[id] = append(p.groups[id], groups...)
	return nil
}
