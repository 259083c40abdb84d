package server

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	programv1 "github.com/argo-platform/program-service/api/program/v1"
	"github.com/argo-platform/program-service/api/program/v1/programv1connect"
	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/services/program"
)

// ProgramService is the domain surface behind the RPC handlers.
// *program.Service implements it.
type ProgramService interface {
	CreateProgram(ctx context.Context, in program.CreateInput) (*program.Details, error)
	GetProgram(ctx context.Context, shortName string) (*program.Details, error)
	ListPrograms(ctx context.Context, filter string) ([]models.Program, error)
	UpdateProgram(ctx context.Context, shortName string, in program.ProgramInput) (*program.Details, error)
	RemoveProgram(ctx context.Context, shortName string) error
	InviteUser(ctx context.Context, shortName string, in program.UserInput) (*models.ProgramMembership, error)
	UpdateUserRole(ctx context.Context, shortName, email, role string) (*models.ProgramMembership, error)
	RemoveUser(ctx context.Context, shortName, email string) error
	ListUsers(ctx context.Context, shortName string) ([]models.ProgramMembership, error)
	ReconcileProgram(ctx context.Context, shortName string) error
}

// ReferenceService lists reference data. *reference.Service implements it.
type ReferenceService interface {
	ListCancers(ctx context.Context) ([]models.Cancer, error)
	ListPrimarySites(ctx context.Context) ([]models.PrimarySite, error)
}

// ProgramServiceHandler wires the program services to Connect RPC contracts.
// Authentication and authorization happen in interceptors before any method runs.
type ProgramServiceHandler struct {
	programv1connect.UnimplementedProgramServiceHandler
	programs   ProgramService
	references ReferenceService
	logger     *slog.Logger
}

// NewProgramServiceHandler constructs a handler backed by the provided services.
func NewProgramServiceHandler(programs ProgramService, references ReferenceService, logger *slog.Logger) *ProgramServiceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgramServiceHandler{programs: programs, references: references, logger: logger}
}

// fail logs and maps a service error.
func (h *ProgramServiceHandler) fail(ctx context.Context, procedure string, err error) error {
	mapped := mapServiceError(err)
	if connect.CodeOf(mapped) == connect.CodeInternal || connect.CodeOf(mapped) == connect.CodeUnavailable {
		h.logger.ErrorContext(ctx, "rpc failed", "procedure", procedure, "error", err)
	}
	return mapped
}

// CreateProgram creates a program with its initial admins and provisions its access.
func (h *ProgramServiceHandler) CreateProgram(
	ctx context.Context,
	req *connect.Request[programv1.CreateProgramRequest],
) (*connect.Response[programv1.CreateProgramResponse], error) {
	if req.Msg.Program == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errProgramRequired)
	}

	in := program.CreateInput{
		ShortName:    req.Msg.Program.ShortName,
		ProgramInput: programInput(req.Msg.Program),
	}
	for _, u := range req.Msg.Admins {
		if u != nil {
			in.Admins = append(in.Admins, userInput(u))
		}
	}

	details, err := h.programs.CreateProgram(ctx, in)
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.CreateProgramResponse{Program: toProgramMessage(details)}), nil
}

// GetProgram returns a program by short name.
func (h *ProgramServiceHandler) GetProgram(
	ctx context.Context,
	req *connect.Request[programv1.GetProgramRequest],
) (*connect.Response[programv1.GetProgramResponse], error) {
	details, err := h.programs.GetProgram(ctx, req.Msg.ShortName)
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.GetProgramResponse{Program: toProgramMessage(details)}), nil
}

// ListPrograms returns programs matching the optional filter.
func (h *ProgramServiceHandler) ListPrograms(
	ctx context.Context,
	req *connect.Request[programv1.ListProgramsRequest],
) (*connect.Response[programv1.ListProgramsResponse], error) {
	programs, err := h.programs.ListPrograms(ctx, req.Msg.Filter)
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}

	resp := &programv1.ListProgramsResponse{Programs: make([]*programv1.Program, 0, len(programs))}
	for i := range programs {
		resp.Programs = append(resp.Programs, toProgramMessage(&program.Details{Program: programs[i]}))
	}
	return connect.NewResponse(resp), nil
}

// UpdateProgram replaces the mutable attributes of a program.
func (h *ProgramServiceHandler) UpdateProgram(
	ctx context.Context,
	req *connect.Request[programv1.UpdateProgramRequest],
) (*connect.Response[programv1.UpdateProgramResponse], error) {
	if req.Msg.Program == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errProgramRequired)
	}

	details, err := h.programs.UpdateProgram(ctx, req.Msg.Program.ShortName, programInput(req.Msg.Program))
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.UpdateProgramResponse{Program: toProgramMessage(details)}), nil
}

// RemoveProgram deprovisions and deletes a program.
func (h *ProgramServiceHandler) RemoveProgram(
	ctx context.Context,
	req *connect.Request[programv1.RemoveProgramRequest],
) (*connect.Response[programv1.RemoveProgramResponse], error) {
	if err := h.programs.RemoveProgram(ctx, req.Msg.ShortName); err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.RemoveProgramResponse{}), nil
}

// InviteUser adds a user to a program with a role.
func (h *ProgramServiceHandler) InviteUser(
	ctx context.Context,
	req *connect.Request[programv1.InviteUserRequest],
) (*connect.Response[programv1.InviteUserResponse], error) {
	if req.Msg.User == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errUserRequired)
	}

	m, err := h.programs.InviteUser(ctx, req.Msg.ProgramShortName, userInput(req.Msg.User))
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.InviteUserResponse{User: toUserMessage(m)}), nil
}

// UpdateUserRole moves a member to another role.
func (h *ProgramServiceHandler) UpdateUserRole(
	ctx context.Context,
	req *connect.Request[programv1.UpdateUserRoleRequest],
) (*connect.Response[programv1.UpdateUserRoleResponse], error) {
	m, err := h.programs.UpdateUserRole(ctx, req.Msg.ProgramShortName, req.Msg.Email, req.Msg.Role)
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.UpdateUserRoleResponse{User: toUserMessage(m)}), nil
}

// RemoveUser removes a member from a program.
func (h *ProgramServiceHandler) RemoveUser(
	ctx context.Context,
	req *connect.Request[programv1.RemoveUserRequest],
) (*connect.Response[programv1.RemoveUserResponse], error) {
	if err := h.programs.RemoveUser(ctx, req.Msg.ProgramShortName, req.Msg.Email); err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.RemoveUserResponse{Message: "user removed from " + req.Msg.ProgramShortName}), nil
}

// ListUsers returns the members of a program.
func (h *ProgramServiceHandler) ListUsers(
	ctx context.Context,
	req *connect.Request[programv1.ListUsersRequest],
) (*connect.Response[programv1.ListUsersResponse], error) {
	members, err := h.programs.ListUsers(ctx, req.Msg.ProgramShortName)
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}

	resp := &programv1.ListUsersResponse{Users: make([]*programv1.User, 0, len(members))}
	for i := range members {
		resp.Users = append(resp.Users, toUserMessage(&members[i]))
	}
	return connect.NewResponse(resp), nil
}

// ListCancers returns the cancer catalogue.
func (h *ProgramServiceHandler) ListCancers(
	ctx context.Context,
	req *connect.Request[programv1.ListCancersRequest],
) (*connect.Response[programv1.ListCancersResponse], error) {
	cancers, err := h.references.ListCancers(ctx)
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}

	resp := &programv1.ListCancersResponse{Cancers: make([]*programv1.Cancer, 0, len(cancers))}
	for _, c := range cancers {
		resp.Cancers = append(resp.Cancers, &programv1.Cancer{ID: c.ID.String(), Name: c.Name})
	}
	return connect.NewResponse(resp), nil
}

// ListPrimarySites returns the primary site catalogue.
func (h *ProgramServiceHandler) ListPrimarySites(
	ctx context.Context,
	req *connect.Request[programv1.ListPrimarySitesRequest],
) (*connect.Response[programv1.ListPrimarySitesResponse], error) {
	sites, err := h.references.ListPrimarySites(ctx)
	if err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}

	resp := &programv1.ListPrimarySitesResponse{PrimarySites: make([]*programv1.PrimarySite, 0, len(sites))}
	for _, s := range sites {
		resp.PrimarySites = append(resp.PrimarySites, &programv1.PrimarySite{ID: s.ID.String(), Name: s.Name})
	}
	return connect.NewResponse(resp), nil
}

// ReconcileProgram re-runs access provisioning for a program.
func (h *ProgramServiceHandler) ReconcileProgram(
	ctx context.Context,
	req *connect.Request[programv1.ReconcileProgramRequest],
) (*connect.Response[programv1.ReconcileProgramResponse], error) {
	if err := h.programs.ReconcileProgram(ctx, req.Msg.ShortName); err != nil {
		return nil, h.fail(ctx, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&programv1.ReconcileProgramResponse{}), nil
}
