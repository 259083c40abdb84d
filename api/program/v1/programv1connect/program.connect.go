// Package programv1connect wires the program.v1.ProgramService API to Connect.
package programv1connect

import (
	context "context"
	errors "errors"
	http "net/http"
	strings "strings"

	connect "connectrpc.com/connect"

	v1 "github.com/argo-platform/program-service/api/program/v1"
)

// This is a compile-time assertion to ensure this package is compatible with
// the version of connect it is built against.
const _ = connect.IsAtLeastVersion1_13_0

const (
	// ProgramServiceName is the fully-qualified name of the ProgramService service.
	ProgramServiceName = "program.v1.ProgramService"
)

// These constants are the fully-qualified names of the RPCs defined in this package. They're
// exposed at runtime as Spec.Procedure and as the final two segments of the HTTP route.
const (
	// ProgramServiceCreateProgramProcedure is the fully-qualified name of the ProgramService's CreateProgram RPC.
	ProgramServiceCreateProgramProcedure = "/program.v1.ProgramService/CreateProgram"
	// ProgramServiceGetProgramProcedure is the fully-qualified name of the ProgramService's GetProgram RPC.
	ProgramServiceGetProgramProcedure = "/program.v1.ProgramService/GetProgram"
	// ProgramServiceListProgramsProcedure is the fully-qualified name of the ProgramService's ListPrograms RPC.
	ProgramServiceListProgramsProcedure = "/program.v1.ProgramService/ListPrograms"
	// ProgramServiceUpdateProgramProcedure is the fully-qualified name of the ProgramService's UpdateProgram RPC.
	ProgramServiceUpdateProgramProcedure = "/program.v1.ProgramService/UpdateProgram"
	// ProgramServiceRemoveProgramProcedure is the fully-qualified name of the ProgramService's RemoveProgram RPC.
	ProgramServiceRemoveProgramProcedure = "/program.v1.ProgramService/RemoveProgram"
	// ProgramServiceInviteUserProcedure is the fully-qualified name of the ProgramService's InviteUser RPC.
	ProgramServiceInviteUserProcedure = "/program.v1.ProgramService/InviteUser"
	// ProgramServiceUpdateUserRoleProcedure is the fully-qualified name of the ProgramService's UpdateUserRole RPC.
	ProgramServiceUpdateUserRoleProcedure = "/program.v1.ProgramService/UpdateUserRole"
	// ProgramServiceRemoveUserProcedure is the fully-qualified name of the ProgramService's RemoveUser RPC.
	ProgramServiceRemoveUserProcedure = "/program.v1.ProgramService/RemoveUser"
	// ProgramServiceListUsersProcedure is the fully-qualified name of the ProgramService's ListUsers RPC.
	ProgramServiceListUsersProcedure = "/program.v1.ProgramService/ListUsers"
	// ProgramServiceListCancersProcedure is the fully-qualified name of the ProgramService's ListCancers RPC.
	ProgramServiceListCancersProcedure = "/program.v1.ProgramService/ListCancers"
	// ProgramServiceListPrimarySitesProcedure is the fully-qualified name of the ProgramService's ListPrimarySites RPC.
	ProgramServiceListPrimarySitesProcedure = "/program.v1.ProgramService/ListPrimarySites"
	// ProgramServiceReconcileProgramProcedure is the fully-qualified name of the ProgramService's ReconcileProgram RPC.
	ProgramServiceReconcileProgramProcedure = "/program.v1.ProgramService/ReconcileProgram"
)

// ProgramServiceClient is a client for the program.v1.ProgramService service.
type ProgramServiceClient interface {
	CreateProgram(context.Context, *connect.Request[v1.CreateProgramRequest]) (*connect.Response[v1.CreateProgramResponse], error)
	GetProgram(context.Context, *connect.Request[v1.GetProgramRequest]) (*connect.Response[v1.GetProgramResponse], error)
	ListPrograms(context.Context, *connect.Request[v1.ListProgramsRequest]) (*connect.Response[v1.ListProgramsResponse], error)
	UpdateProgram(context.Context, *connect.Request[v1.UpdateProgramRequest]) (*connect.Response[v1.UpdateProgramResponse], error)
	RemoveProgram(context.Context, *connect.Request[v1.RemoveProgramRequest]) (*connect.Response[v1.RemoveProgramResponse], error)
	InviteUser(context.Context, *connect.Request[v1.InviteUserRequest]) (*connect.Response[v1.InviteUserResponse], error)
	UpdateUserRole(context.Context, *connect.Request[v1.UpdateUserRoleRequest]) (*connect.Response[v1.UpdateUserRoleResponse], error)
	RemoveUser(context.Context, *connect.Request[v1.RemoveUserRequest]) (*connect.Response[v1.RemoveUserResponse], error)
	ListUsers(context.Context, *connect.Request[v1.ListUsersRequest]) (*connect.Response[v1.ListUsersResponse], error)
	ListCancers(context.Context, *connect.Request[v1.ListCancersRequest]) (*connect.Response[v1.ListCancersResponse], error)
	ListPrimarySites(context.Context, *connect.Request[v1.ListPrimarySitesRequest]) (*connect.Response[v1.ListPrimarySitesResponse], error)
	ReconcileProgram(context.Context, *connect.Request[v1.ReconcileProgramRequest]) (*connect.Response[v1.ReconcileProgramResponse], error)
}

// NewProgramServiceClient constructs a client for the program.v1.ProgramService service.
// Messages are exchanged as JSON.
//
// The URL supplied here should be the base URL for the Connect or gRPC server (for example,
// http://api.acme.com or https://acme.com/grpc).
func NewProgramServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProgramServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &programServiceClient{
		createProgram: connect.NewClient[v1.CreateProgramRequest, v1.CreateProgramResponse](
			httpClient,
			baseURL+ProgramServiceCreateProgramProcedure,
			opts...,
		),
		getProgram: connect.NewClient[v1.GetProgramRequest, v1.GetProgramResponse](
			httpClient,
			baseURL+ProgramServiceGetProgramProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		listPrograms: connect.NewClient[v1.ListProgramsRequest, v1.ListProgramsResponse](
			httpClient,
			baseURL+ProgramServiceListProgramsProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		updateProgram: connect.NewClient[v1.UpdateProgramRequest, v1.UpdateProgramResponse](
			httpClient,
			baseURL+ProgramServiceUpdateProgramProcedure,
			opts...,
		),
		removeProgram: connect.NewClient[v1.RemoveProgramRequest, v1.RemoveProgramResponse](
			httpClient,
			baseURL+ProgramServiceRemoveProgramProcedure,
			opts...,
		),
		inviteUser: connect.NewClient[v1.InviteUserRequest, v1.InviteUserResponse](
			httpClient,
			baseURL+ProgramServiceInviteUserProcedure,
			opts...,
		),
		updateUserRole: connect.NewClient[v1.UpdateUserRoleRequest, v1.UpdateUserRoleResponse](
			httpClient,
			baseURL+ProgramServiceUpdateUserRoleProcedure,
			opts...,
		),
		removeUser: connect.NewClient[v1.RemoveUserRequest, v1.RemoveUserResponse](
			httpClient,
			baseURL+ProgramServiceRemoveUserProcedure,
			opts...,
		),
		listUsers: connect.NewClient[v1.ListUsersRequest, v1.ListUsersResponse](
			httpClient,
			baseURL+ProgramServiceListUsersProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		listCancers: connect.NewClient[v1.ListCancersRequest, v1.ListCancersResponse](
			httpClient,
			baseURL+ProgramServiceListCancersProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		listPrimarySites: connect.NewClient[v1.ListPrimarySitesRequest, v1.ListPrimarySitesResponse](
			httpClient,
			baseURL+ProgramServiceListPrimarySitesProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		reconcileProgram: connect.NewClient[v1.ReconcileProgramRequest, v1.ReconcileProgramResponse](
			httpClient,
			baseURL+ProgramServiceReconcileProgramProcedure,
			opts...,
		),
	}
}

// programServiceClient implements ProgramServiceClient.
type programServiceClient struct {
	createProgram *connect.Client[v1.CreateProgramRequest, v1.CreateProgramResponse]
	getProgram *connect.Client[v1.GetProgramRequest, v1.GetProgramResponse]
	listPrograms *connect.Client[v1.ListProgramsRequest, v1.ListProgramsResponse]
	updateProgram *connect.Client[v1.UpdateProgramRequest, v1.UpdateProgramResponse]
	removeProgram *connect.Client[v1.RemoveProgramRequest, v1.RemoveProgramResponse]
	inviteUser *connect.Client[v1.InviteUserRequest, v1.InviteUserResponse]
	updateUserRole *connect.Client[v1.UpdateUserRoleRequest, v1.UpdateUserRoleResponse]
	removeUser *connect.Client[v1.RemoveUserRequest, v1.RemoveUserResponse]
	listUsers *connect.Client[v1.ListUsersRequest, v1.ListUsersResponse]
	listCancers *connect.Client[v1.ListCancersRequest, v1.ListCancersResponse]
	listPrimarySites *connect.Client[v1.ListPrimarySitesRequest, v1.ListPrimarySitesResponse]
	reconcileProgram *connect.Client[v1.ReconcileProgramRequest, v1.ReconcileProgramResponse]
}

// CreateProgram calls program.v1.ProgramService.CreateProgram.
func (c *programServiceClient) CreateProgram(ctx context.Context, req *connect.Request[v1.CreateProgramRequest]) (*connect.Response[v1.CreateProgramResponse], error) {
	return c.createProgram.CallUnary(ctx, req)
}

// GetProgram calls program.v1.ProgramService.GetProgram.
func (c *programServiceClient) GetProgram(ctx context.Context, req *connect.Request[v1.GetProgramRequest]) (*connect.Response[v1.GetProgramResponse], error) {
	return c.getProgram.CallUnary(ctx, req)
}

// ListPrograms calls program.v1.ProgramService.ListPrograms.
func (c *programServiceClient) ListPrograms(ctx context.Context, req *connect.Request[v1.ListProgramsRequest]) (*connect.Response[v1.ListProgramsResponse], error) {
	return c.listPrograms.CallUnary(ctx, req)
}

// UpdateProgram calls program.v1.ProgramService.UpdateProgram.
func (c *programServiceClient) UpdateProgram(ctx context.Context, req *connect.Request[v1.UpdateProgramRequest]) (*connect.Response[v1.UpdateProgramResponse], error) {
	return c.updateProgram.CallUnary(ctx, req)
}

// RemoveProgram calls program.v1.ProgramService.RemoveProgram.
func (c *programServiceClient) RemoveProgram(ctx context.Context, req *connect.Request[v1.RemoveProgramRequest]) (*connect.Response[v1.RemoveProgramResponse], error) {
	return c.removeProgram.CallUnary(ctx, req)
}

// InviteUser calls program.v1.ProgramService.InviteUser.
func (c *programServiceClient) InviteUser(ctx context.Context, req *connect.Request[v1.InviteUserRequest]) (*connect.Response[v1.InviteUserResponse], error) {
	return c.inviteUser.CallUnary(ctx, req)
}

// UpdateUserRole calls program.v1.ProgramService.UpdateUserRole.
func (c *programServiceClient) UpdateUserRole(ctx context.Context, req *connect.Request[v1.UpdateUserRoleRequest]) (*connect.Response[v1.UpdateUserRoleResponse], error) {
	return c.updateUserRole.CallUnary(ctx, req)
}

// RemoveUser calls program.v1.ProgramService.RemoveUser.
func (c *programServiceClient) RemoveUser(ctx context.Context, req *connect.Request[v1.RemoveUserRequest]) (*connect.Response[v1.RemoveUserResponse], error) {
	return c.removeUser.CallUnary(ctx, req)
}

// ListUsers calls program.v1.ProgramService.ListUsers.
func (c *programServiceClient) ListUsers(ctx context.Context, req *connect.Request[v1.ListUsersRequest]) (*connect.Response[v1.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// ListCancers calls program.v1.ProgramService.ListCancers.
func (c *programServiceClient) ListCancers(ctx context.Context, req *connect.Request[v1.ListCancersRequest]) (*connect.Response[v1.ListCancersResponse], error) {
	return c.listCancers.CallUnary(ctx, req)
}

// ListPrimarySites calls program.v1.ProgramService.ListPrimarySites.
func (c *programServiceClient) ListPrimarySites(ctx context.Context, req *connect.Request[v1.ListPrimarySitesRequest]) (*connect.Response[v1.ListPrimarySitesResponse], error) {
	return c.listPrimarySites.CallUnary(ctx, req)
}

// ReconcileProgram calls program.v1.ProgramService.ReconcileProgram.
func (c *programServiceClient) ReconcileProgram(ctx context.Context, req *connect.Request[v1.ReconcileProgramRequest]) (*connect.Response[v1.ReconcileProgramResponse], error) {
	return c.reconcileProgram.CallUnary(ctx, req)
}

// ProgramServiceHandler is an implementation of the program.v1.ProgramService service.
type ProgramServiceHandler interface {
	CreateProgram(context.Context, *connect.Request[v1.CreateProgramRequest]) (*connect.Response[v1.CreateProgramResponse], error)
	GetProgram(context.Context, *connect.Request[v1.GetProgramRequest]) (*connect.Response[v1.GetProgramResponse], error)
	ListPrograms(context.Context, *connect.Request[v1.ListProgramsRequest]) (*connect.Response[v1.ListProgramsResponse], error)
	UpdateProgram(context.Context, *connect.Request[v1.UpdateProgramRequest]) (*connect.Response[v1.UpdateProgramResponse], error)
	RemoveProgram(context.Context, *connect.Request[v1.RemoveProgramRequest]) (*connect.Response[v1.RemoveProgramResponse], error)
	InviteUser(context.Context, *connect.Request[v1.InviteUserRequest]) (*connect.Response[v1.InviteUserResponse], error)
	UpdateUserRole(context.Context, *connect.Request[v1.UpdateUserRoleRequest]) (*connect.Response[v1.UpdateUserRoleResponse], error)
	RemoveUser(context.Context, *connect.Request[v1.RemoveUserRequest]) (*connect.Response[v1.RemoveUserResponse], error)
	ListUsers(context.Context, *connect.Request[v1.ListUsersRequest]) (*connect.Response[v1.ListUsersResponse], error)
	ListCancers(context.Context, *connect.Request[v1.ListCancersRequest]) (*connect.Response[v1.ListCancersResponse], error)
	ListPrimarySites(context.Context, *connect.Request[v1.ListPrimarySitesRequest]) (*connect.Response[v1.ListPrimarySitesResponse], error)
	ReconcileProgram(context.Context, *connect.Request[v1.ReconcileProgramRequest]) (*connect.Response[v1.ReconcileProgramResponse], error)
}

// NewProgramServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
//
// By default, handlers support the Connect, gRPC, and gRPC-Web protocols with the JSON codec.
func NewProgramServiceHandler(svc ProgramServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	programServiceCreateProgramHandler := connect.NewUnaryHandler(
		ProgramServiceCreateProgramProcedure,
		svc.CreateProgram,
		opts...,
	)
	programServiceGetProgramHandler := connect.NewUnaryHandler(
		ProgramServiceGetProgramProcedure,
		svc.GetProgram,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	programServiceListProgramsHandler := connect.NewUnaryHandler(
		ProgramServiceListProgramsProcedure,
		svc.ListPrograms,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	programServiceUpdateProgramHandler := connect.NewUnaryHandler(
		ProgramServiceUpdateProgramProcedure,
		svc.UpdateProgram,
		opts...,
	)
	programServiceRemoveProgramHandler := connect.NewUnaryHandler(
		ProgramServiceRemoveProgramProcedure,
		svc.RemoveProgram,
		opts...,
	)
	programServiceInviteUserHandler := connect.NewUnaryHandler(
		ProgramServiceInviteUserProcedure,
		svc.InviteUser,
		opts...,
	)
	programServiceUpdateUserRoleHandler := connect.NewUnaryHandler(
		ProgramServiceUpdateUserRoleProcedure,
		svc.UpdateUserRole,
		opts...,
	)
	programServiceRemoveUserHandler := connect.NewUnaryHandler(
		ProgramServiceRemoveUserProcedure,
		svc.RemoveUser,
		opts...,
	)
	programServiceListUsersHandler := connect.NewUnaryHandler(
		ProgramServiceListUsersProcedure,
		svc.ListUsers,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	programServiceListCancersHandler := connect.NewUnaryHandler(
		ProgramServiceListCancersProcedure,
		svc.ListCancers,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	programServiceListPrimarySitesHandler := connect.NewUnaryHandler(
		ProgramServiceListPrimarySitesProcedure,
		svc.ListPrimarySites,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	programServiceReconcileProgramHandler := connect.NewUnaryHandler(
		ProgramServiceReconcileProgramProcedure,
		svc.ReconcileProgram,
		opts...,
	)
	return "/program.v1.ProgramService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ProgramServiceCreateProgramProcedure:
			programServiceCreateProgramHandler.ServeHTTP(w, r)
		case ProgramServiceGetProgramProcedure:
			programServiceGetProgramHandler.ServeHTTP(w, r)
		case ProgramServiceListProgramsProcedure:
			programServiceListProgramsHandler.ServeHTTP(w, r)
		case ProgramServiceUpdateProgramProcedure:
			programServiceUpdateProgramHandler.ServeHTTP(w, r)
		case ProgramServiceRemoveProgramProcedure:
			programServiceRemoveProgramHandler.ServeHTTP(w, r)
		case ProgramServiceInviteUserProcedure:
			programServiceInviteUserHandler.ServeHTTP(w, r)
		case ProgramServiceUpdateUserRoleProcedure:
			programServiceUpdateUserRoleHandler.ServeHTTP(w, r)
		case ProgramServiceRemoveUserProcedure:
			programServiceRemoveUserHandler.ServeHTTP(w, r)
		case ProgramServiceListUsersProcedure:
			programServiceListUsersHandler.ServeHTTP(w, r)
		case ProgramServiceListCancersProcedure:
			programServiceListCancersHandler.ServeHTTP(w, r)
		case ProgramServiceListPrimarySitesProcedure:
			programServiceListPrimarySitesHandler.ServeHTTP(w, r)
		case ProgramServiceReconcileProgramProcedure:
			programServiceReconcileProgramHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedProgramServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedProgramServiceHandler struct{}

func (UnimplementedProgramServiceHandler) CreateProgram(context.Context, *connect.Request[v1.CreateProgramRequest]) (*connect.Response[v1.CreateProgramResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.CreateProgram is not implemented"))
}

func (UnimplementedProgramServiceHandler) GetProgram(context.Context, *connect.Request[v1.GetProgramRequest]) (*connect.Response[v1.GetProgramResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.GetProgram is not implemented"))
}

func (UnimplementedProgramServiceHandler) ListPrograms(context.Context, *connect.Request[v1.ListProgramsRequest]) (*connect.Response[v1.ListProgramsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.ListPrograms is not implemented"))
}

func (UnimplementedProgramServiceHandler) UpdateProgram(context.Context, *connect.Request[v1.UpdateProgramRequest]) (*connect.Response[v1.UpdateProgramResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.UpdateProgram is not implemented"))
}

func (UnimplementedProgramServiceHandler) RemoveProgram(context.Context, *connect.Request[v1.RemoveProgramRequest]) (*connect.Response[v1.RemoveProgramResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.RemoveProgram is not implemented"))
}

func (UnimplementedProgramServiceHandler) InviteUser(context.Context, *connect.Request[v1.InviteUserRequest]) (*connect.Response[v1.InviteUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.InviteUser is not implemented"))
}

func (UnimplementedProgramServiceHandler) UpdateUserRole(context.Context, *connect.Request[v1.UpdateUserRoleRequest]) (*connect.Response[v1.UpdateUserRoleResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.UpdateUserRole is not implemented"))
}

func (UnimplementedProgramServiceHandler) RemoveUser(context.Context, *connect.Request[v1.RemoveUserRequest]) (*connect.Response[v1.RemoveUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.RemoveUser is not implemented"))
}

func (UnimplementedProgramServiceHandler) ListUsers(context.Context, *connect.Request[v1.ListUsersRequest]) (*connect.Response[v1.ListUsersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.ListUsers is not implemented"))
}

func (UnimplementedProgramServiceHandler) ListCancers(context.Context, *connect.Request[v1.ListCancersRequest]) (*connect.Response[v1.ListCancersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.ListCancers is not implemented"))
}

func (UnimplementedProgramServiceHandler) ListPrimarySites(context.Context, *connect.Request[v1.ListPrimarySitesRequest]) (*connect.Response[v1.ListPrimarySitesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.ListPrimarySites is not implemented"))
}

func (UnimplementedProgramServiceHandler) ReconcileProgram(context.Context, *connect.Request[v1.ReconcileProgramRequest]) (*connect.Response[v1.ReconcileProgramResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("program.v1.ProgramService.ReconcileProgram is not implemented"))
}
