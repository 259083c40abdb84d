package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/argo-platform/program-service/internal/auth"
	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/lock"
	"github.com/argo-platform/program-service/internal/repository"
	"github.com/argo-platform/program-service/internal/services/access"
	"github.com/argo-platform/program-service/internal/services/program"
	"github.com/argo-platform/program-service/internal/services/reference"
)

var (
	// errIdentityCredential hides upstream detail when the identity service
	// rejects our own service credential. Operators find the cause in the logs.
	errIdentityCredential = errors.New("identity service rejected the service credential")

	errProgramRequired = errors.New("program is required")
	errUserRequired    = errors.New("user is required")
)

// mapServiceError converts a service error to a Connect error code.
func mapServiceError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, access.ErrProvisioningFailed):
		return connect.NewError(connect.CodeUnavailable, err)
	case identity.IsUnauthorized(err):
		return connect.NewError(connect.CodeInternal, errIdentityCredential)
	case errors.Is(err, lock.ErrNotAcquired):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, repository.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, repository.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, program.ErrValidation),
		errors.Is(err, program.ErrUnknownUser),
		errors.Is(err, reference.ErrUnknownReference):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrAnonymous):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	case identity.IsConflict(err):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case identity.IsTransient(err):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
