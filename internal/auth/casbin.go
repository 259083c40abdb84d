package auth

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var casbinModelContent string

var (
	// ErrAnonymous is returned when an operation requires an authenticated principal.
	ErrAnonymous = errors.New("authentication required")
	// ErrPermissionDenied is returned when no authority grants the requested action.
	ErrPermissionDenied = errors.New("permission denied")
)

// Program scoped authorities are normalised to these subjects before enforcement,
// after checking the authority belongs to the program being accessed.
const (
	subjectProgramRead  = "PROGRAM.READ"
	subjectProgramWrite = "PROGRAM.WRITE"
)

// defaultPolicies are loaded into every enforcer. Write implies read.
var defaultPolicies = [][]string{
	{ServiceAuthority(MaskWrite), ObjectPrograms, "(read|write)"},
	{ServiceAuthority(MaskWrite), ObjectPrograms + "/:key", "(read|write)"},
	{ServiceAuthority(MaskRead), ObjectPrograms, "read"},
	{ServiceAuthority(MaskRead), ObjectPrograms + "/:key", "read"},
	{subjectProgramWrite, ObjectPrograms + "/:key", "(read|write)"},
	{subjectProgramRead, ObjectPrograms + "/:key", "read"},
}

// Authorizer evaluates principal authorities against the embedded RBAC model.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewAuthorizer creates an in-memory enforcer with the embedded model and default policies.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(casbinModelContent)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("load casbin policies: %w", err)
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// Authorize returns nil when the principal may perform action on object.
// An explicit DENY authority on the program always wins.
func (a *Authorizer) Authorize(p Principal, object, action string) error {
	if p.IsAnonymous() {
		return ErrAnonymous
	}

	programKey := programKeyFromObject(object)
	if programKey != "" && p.HasAuthority(ProgramAuthority(programKey, MaskDeny)) {
		return fmt.Errorf("%w: %s is banned from %s", ErrPermissionDenied, p.Subject, programKey)
	}

	for _, authority := range p.Authorities {
		sub := enforcementSubject(authority, programKey)
		if sub == "" {
			continue
		}
		ok, err := a.enforcer.Enforce(sub, object, action)
		if err != nil {
			return fmt.Errorf("enforce %s %s %s: %w", sub, object, action, err)
		}
		if ok {
			return nil
		}
	}

	return fmt.Errorf("%w: %s cannot %s %s", ErrPermissionDenied, p.Subject, action, object)
}

func programKeyFromObject(object string) string {
	prefix := ObjectPrograms + "/"
	if !strings.HasPrefix(object, prefix) {
		return ""
	}
	return strings.TrimPrefix(object, prefix)
}

// enforcementSubject maps a token authority to a casbin subject, or "" when the
// authority is irrelevant for the program being accessed.
func enforcementSubject(authority, programKey string) string {
	policy, mask, err := SplitAuthority(authority)
	if err != nil {
		return ""
	}
	if policy == ServiceScope {
		return authority
	}
	if programKey == "" || policy != ProgramPolicyName(programKey) {
		return ""
	}
	switch mask {
	case MaskWrite:
		return subjectProgramWrite
	case MaskRead:
		return subjectProgramRead
	default:
		return ""
	}
}
