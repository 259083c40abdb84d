package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/argo-platform/program-service/api/program/v1/programv1connect"
	"github.com/argo-platform/program-service/internal/auth"
)

// PrincipalAuthorizer decides whether a principal may act on an object.
// *auth.Authorizer implements it.
type PrincipalAuthorizer interface {
	Authorize(p auth.Principal, object, action string) error
}

// AuthzDependencies provides the collaborators needed for authorization decisions.
type AuthzDependencies struct {
	Authorizer PrincipalAuthorizer
	Logger     *slog.Logger
}

// programScoped is implemented by requests that target a single program.
type programScoped interface {
	GetProgramShortName() string
}

// procedureRule describes how one RPC is authorized.
type procedureRule struct {
	// public procedures accept anonymous callers and skip enforcement.
	public bool
	action string
	// scoped procedures are checked against the program named in the request
	// rather than the program collection.
	scoped bool
}

var procedureRules = map[string]procedureRule{
	programv1connect.ProgramServiceListCancersProcedure:      {public: true},
	programv1connect.ProgramServiceListPrimarySitesProcedure: {public: true},

	programv1connect.ProgramServiceListProgramsProcedure:     {action: auth.ActionRead},
	programv1connect.ProgramServiceCreateProgramProcedure:    {action: auth.ActionWrite},
	programv1connect.ProgramServiceUpdateProgramProcedure:    {action: auth.ActionWrite},
	programv1connect.ProgramServiceRemoveProgramProcedure:    {action: auth.ActionWrite},
	programv1connect.ProgramServiceReconcileProgramProcedure: {action: auth.ActionWrite},

	programv1connect.ProgramServiceGetProgramProcedure:     {action: auth.ActionRead, scoped: true},
	programv1connect.ProgramServiceListUsersProcedure:      {action: auth.ActionRead, scoped: true},
	programv1connect.ProgramServiceInviteUserProcedure:     {action: auth.ActionWrite, scoped: true},
	programv1connect.ProgramServiceUpdateUserRoleProcedure: {action: auth.ActionWrite, scoped: true},
	programv1connect.ProgramServiceRemoveUserProcedure:     {action: auth.ActionWrite, scoped: true},
}

// NewAuthzInterceptor creates a Connect UnaryInterceptor that enforces the
// per-procedure rules above. It must run after the authn interceptor.
//
// Program administration (create, update, remove, reconcile) needs a service
// wide authority; membership changes need WRITE on the program itself.
// Procedures without a rule are refused.
func NewAuthzInterceptor(deps AuthzDependencies) (connect.UnaryInterceptorFunc, error) {
	if deps.Authorizer == nil {
		return nil, errors.New("authz interceptor requires an authorizer")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			rule, ok := procedureRules[procedure]
			if !ok {
				return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("procedure %s is not authorized", procedure))
			}
			if rule.public {
				return next(ctx, req)
			}

			object := auth.ObjectPrograms
			if rule.scoped {
				scoped, ok := req.Any().(programScoped)
				if !ok {
					return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("procedure %s has no program scope", procedure))
				}
				shortName := strings.TrimSpace(scoped.GetProgramShortName())
				if shortName == "" {
					return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("program short name is required"))
				}
				object = auth.ProgramObject(strings.ToUpper(shortName))
			}

			principal, _ := auth.PrincipalFromContext(ctx)
			if err := deps.Authorizer.Authorize(principal, object, rule.action); err != nil {
				logger.Info("authorization denied", "procedure", procedure, "subject", principal.Subject, "object", object, "error", err)
				return nil, authzError(err)
			}
			return next(ctx, req)
		})
	}), nil
}

func authzError(err error) *connect.Error {
	switch {
	case errors.Is(err, auth.ErrAnonymous):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
