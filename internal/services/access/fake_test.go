package access

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/argo-platform/program-service/internal/identity"
)

var mutatingCalls = map[string]bool{
	"CreateGroup":         true,
	"DeleteGroup":         true,
	"AddUsersToGroup":     true,
	"RemoveUserFromGroup": true,
	"CreatePolicy":        true,
	"DeletePolicy":        true,
	"SetGroupPermission":  true,
}

func apiErr(kind identity.ErrorKind, status int, call string) error {
	return &identity.APIError{Kind: kind, StatusCode: status, Method: "FAKE", Path: call}
}

// fakeIdentity is an in-memory identity service that records every call.
type fakeIdentity struct {
	mu sync.Mutex

	nextID   int
	groups   map[string]identity.Group
	members  map[string]map[string]struct{}
	policies map[string]identity.Policy
	grants   map[string]map[string]identity.Mask

	calls []string
	// queued errors are returned, in order, by the next calls of that name
	queued map[string][]error
	// always errors are returned by every call of that name
	always map[string]error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		groups:   map[string]identity.Group{},
		members:  map[string]map[string]struct{}{},
		policies: map[string]identity.Policy{},
		grants:   map[string]map[string]identity.Mask{},
		queued:   map[string][]error{},
		always:   map[string]error{},
	}
}

func (f *fakeIdentity) failNext(call string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued[call] = append(f.queued[call], errs...)
}

func (f *fakeIdentity) failAlways(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.always[call] = err
}

// enter records the call and returns an injected failure, if any. Callers hold f.mu.
func (f *fakeIdentity) enter(call string) error {
	f.calls = append(f.calls, call)
	if err, ok := f.always[call]; ok {
		return err
	}
	if q := f.queued[call]; len(q) > 0 {
		f.queued[call] = q[1:]
		return q[0]
	}
	return nil
}

func (f *fakeIdentity) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeIdentity) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeIdentity) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if mutatingCalls[c] {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeIdentity) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeIdentity) groupByName(name string) (identity.Group, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.Name == name {
			return g, true
		}
	}
	return identity.Group{}, false
}

func (f *fakeIdentity) policyByName(name string) (identity.Policy, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.policies {
		if p.Name == name {
			return p, true
		}
	}
	return identity.Policy{}, false
}

func (f *fakeIdentity) memberIDs(groupID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for id := range f.members[groupID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (f *fakeIdentity) grant(policyID, groupID string) identity.Mask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grants[policyID][groupID]
}

// seedGroup creates a group directly, bypassing call recording.
func (f *fakeIdentity) seedGroup(name string, memberIDs ...string) identity.Group {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := identity.Group{ID: f.id("group"), Name: name, Status: identity.StatusApproved}
	f.groups[g.ID] = g
	f.members[g.ID] = map[string]struct{}{}
	for _, id := range memberIDs {
		f.members[g.ID][id] = struct{}{}
	}
	return g
}

// dropGroup removes a group directly, as an operator would upstream.
func (f *fakeIdentity) dropGroup(groupID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.groups, groupID)
	delete(f.members, groupID)
	for _, g := range f.grants {
		delete(g, groupID)
	}
}

func (f *fakeIdentity) addMemberDirect(groupID, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[groupID][userID] = struct{}{}
}

func page[T any](items []T, opts identity.ListOptions) *identity.Page[T] {
	p := &identity.Page[T]{Limit: opts.Limit, Offset: opts.Offset, Count: len(items)}
	if opts.Offset >= len(items) {
		return p
	}
	end := len(items)
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	p.ResultSet = append([]T(nil), items[opts.Offset:end]...)
	return p
}

func (f *fakeIdentity) CreateGroup(_ context.Context, name, description string) (*identity.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateGroup"); err != nil {
		return nil, err
	}
	for _, g := range f.groups {
		if g.Name == name {
			return nil, apiErr(identity.KindConflict, http.StatusConflict, "CreateGroup")
		}
	}
	g := identity.Group{ID: f.id("group"), Name: name, Description: description, Status: identity.StatusApproved}
	f.groups[g.ID] = g
	f.members[g.ID] = map[string]struct{}{}
	return &g, nil
}

func (f *fakeIdentity) GetGroup(_ context.Context, groupID string) (*identity.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetGroup"); err != nil {
		return nil, err
	}
	g, ok := f.groups[groupID]
	if !ok {
		return nil, apiErr(identity.KindNotFound, http.StatusNotFound, "GetGroup")
	}
	return &g, nil
}

func (f *fakeIdentity) DeleteGroup(_ context.Context, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteGroup"); err != nil {
		return err
	}
	if _, ok := f.groups[groupID]; !ok {
		return apiErr(identity.KindNotFound, http.StatusNotFound, "DeleteGroup")
	}
	delete(f.groups, groupID)
	delete(f.members, groupID)
	for _, g := range f.grants {
		delete(g, groupID)
	}
	return nil
}

func (f *fakeIdentity) ListGroups(_ context.Context, opts identity.ListOptions) (*identity.Page[identity.Group], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListGroups"); err != nil {
		return nil, err
	}
	var out []identity.Group
	for _, g := range f.groups {
		if strings.Contains(g.Name, opts.Query) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, opts), nil
}

func (f *fakeIdentity) ListGroupUsers(_ context.Context, groupID string, opts identity.ListOptions) (*identity.Page[identity.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListGroupUsers"); err != nil {
		return nil, err
	}
	set, ok := f.members[groupID]
	if !ok {
		return nil, apiErr(identity.KindNotFound, http.StatusNotFound, "ListGroupUsers")
	}
	var out []identity.User
	for id := range set {
		out = append(out, identity.User{ID: id, Email: id + "@example.org"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), nil
}

func (f *fakeIdentity) AddUsersToGroup(_ context.Context, groupID string, userIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("AddUsersToGroup"); err != nil {
		return err
	}
	set, ok := f.members[groupID]
	if !ok {
		return apiErr(identity.KindNotFound, http.StatusNotFound, "AddUsersToGroup")
	}
	for _, id := range userIDs {
		set[id] = struct{}{}
	}
	return nil
}

func (f *fakeIdentity) RemoveUserFromGroup(_ context.Context, groupID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RemoveUserFromGroup"); err != nil {
		return err
	}
	set, ok := f.members[groupID]
	if !ok {
		return apiErr(identity.KindNotFound, http.StatusNotFound, "RemoveUserFromGroup")
	}
	if _, ok := set[userID]; !ok {
		return apiErr(identity.KindNotFound, http.StatusNotFound, "RemoveUserFromGroup")
	}
	delete(set, userID)
	return nil
}

func (f *fakeIdentity) CreatePolicy(_ context.Context, name string) (*identity.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreatePolicy"); err != nil {
		return nil, err
	}
	for _, p := range f.policies {
		if p.Name == name {
			return nil, apiErr(identity.KindConflict, http.StatusConflict, "CreatePolicy")
		}
	}
	p := identity.Policy{ID: f.id("policy"), Name: name}
	f.policies[p.ID] = p
	f.grants[p.ID] = map[string]identity.Mask{}
	return &p, nil
}

func (f *fakeIdentity) DeletePolicy(_ context.Context, policyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeletePolicy"); err != nil {
		return err
	}
	if _, ok := f.policies[policyID]; !ok {
		return apiErr(identity.KindNotFound, http.StatusNotFound, "DeletePolicy")
	}
	delete(f.policies, policyID)
	delete(f.grants, policyID)
	return nil
}

func (f *fakeIdentity) ListPolicies(_ context.Context, opts identity.ListOptions) (*identity.Page[identity.Policy], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListPolicies"); err != nil {
		return nil, err
	}
	var out []identity.Policy
	for _, p := range f.policies {
		if strings.Contains(p.Name, opts.Query) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, opts), nil
}

func (f *fakeIdentity) ListPolicyGroups(_ context.Context, policyID string) ([]identity.PolicyGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListPolicyGroups"); err != nil {
		return nil, err
	}
	grants, ok := f.grants[policyID]
	if !ok {
		return nil, apiErr(identity.KindNotFound, http.StatusNotFound, "ListPolicyGroups")
	}
	var out []identity.PolicyGroup
	for groupID, mask := range grants {
		out = append(out, identity.PolicyGroup{ID: groupID, Name: f.groups[groupID].Name, Mask: mask})
	}
	return out, nil
}

func (f *fakeIdentity) SetGroupPermission(_ context.Context, policyID, groupID string, mask identity.Mask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SetGroupPermission"); err != nil {
		return err
	}
	grants, ok := f.grants[policyID]
	if !ok {
		return apiErr(identity.KindNotFound, http.StatusNotFound, "SetGroupPermission")
	}
	if _, ok := f.groups[groupID]; !ok {
		return apiErr(identity.KindNotFound, http.StatusNotFound, "SetGroupPermission")
	}
	grants[groupID] = mask
	return nil
}

// memoryBindings is an in-memory BindingStore.
type memoryBindings struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[Role]Binding
}

func newMemoryBindings() *memoryBindings {
	return &memoryBindings{rows: map[uuid.UUID]map[Role]Binding{}}
}

func (m *memoryBindings) ListBindings(_ context.Context, entityID uuid.UUID) ([]Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Binding
	for _, b := range m.rows[entityID] {
		out = append(out, b)
	}
	return out, nil
}

func (m *memoryBindings) SaveBinding(_ context.Context, b Binding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[b.EntityID] == nil {
		m.rows[b.EntityID] = map[Role]Binding{}
	}
	m.rows[b.EntityID][b.Role] = b
	return nil
}

func (m *memoryBindings) DeleteBinding(_ context.Context, entityID uuid.UUID, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows[entityID], role)
	return nil
}

func (m *memoryBindings) get(entityID uuid.UUID, role Role) (Binding, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[entityID][role]
	return b, ok
}

func (m *memoryBindings) size(entityID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[entityID])
}
