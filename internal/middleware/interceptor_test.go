package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	programv1 "github.com/argo-platform/program-service/api/program/v1"
	"github.com/argo-platform/program-service/api/program/v1/programv1connect"
	"github.com/argo-platform/program-service/internal/auth"
	"github.com/argo-platform/program-service/internal/logging"
)

// echoHandler reports the principal each business method observed.
type echoHandler struct {
	programv1connect.UnimplementedProgramServiceHandler
	calls int
}

func (h *echoHandler) GetProgram(ctx context.Context, req *connect.Request[programv1.GetProgramRequest]) (*connect.Response[programv1.GetProgramResponse], error) {
	h.calls++
	p, _ := auth.PrincipalFromContext(ctx)
	return connect.NewResponse(&programv1.GetProgramResponse{Program: &programv1.Program{ShortName: req.Msg.ShortName, Name: p.Subject}}), nil
}

func (h *echoHandler) ListCancers(ctx context.Context, req *connect.Request[programv1.ListCancersRequest]) (*connect.Response[programv1.ListCancersResponse], error) {
	h.calls++
	p, _ := auth.PrincipalFromContext(ctx)
	return connect.NewResponse(&programv1.ListCancersResponse{Cancers: []*programv1.Cancer{{Name: p.Subject}}}), nil
}

func (h *echoHandler) CreateProgram(ctx context.Context, req *connect.Request[programv1.CreateProgramRequest]) (*connect.Response[programv1.CreateProgramResponse], error) {
	h.calls++
	return connect.NewResponse(&programv1.CreateProgramResponse{Program: req.Msg.Program}), nil
}

func (h *echoHandler) InviteUser(ctx context.Context, req *connect.Request[programv1.InviteUserRequest]) (*connect.Response[programv1.InviteUserResponse], error) {
	h.calls++
	return connect.NewResponse(&programv1.InviteUserResponse{User: req.Msg.User}), nil
}

func newInterceptedServer(t *testing.T) (programv1connect.ProgramServiceClient, *echoHandler) {
	t.Helper()

	authn, err := NewAuthnInterceptor(AuthnDependencies{Verifier: fakeVerifier{}, Logger: logging.Discard()})
	require.NoError(t, err)
	authorizer, err := auth.NewAuthorizer()
	require.NoError(t, err)
	authz, err := NewAuthzInterceptor(AuthzDependencies{Authorizer: authorizer, Logger: logging.Discard()})
	require.NoError(t, err)

	h := &echoHandler{}
	path, handler := programv1connect.NewProgramServiceHandler(h, connect.WithInterceptors(authn, authz))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return programv1connect.NewProgramServiceClient(srv.Client(), srv.URL), h
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestInterceptors_ValidTokenReachesHandler(t *testing.T) {
	client, h := newInterceptedServer(t)

	resp, err := client.GetProgram(context.Background(), withToken(&programv1.GetProgramRequest{ShortName: "TEST-CA"}, "jane:PROGRAM-TEST-CA.READ"))
	require.NoError(t, err)
	assert.Equal(t, "jane", resp.Msg.Program.Name)
	assert.Equal(t, 1, h.calls)
}

func TestInterceptors_InvalidTokenNeverReachesHandler(t *testing.T) {
	client, h := newInterceptedServer(t)

	for _, token := range []string{"expired", "garbage", ":x"} {
		// Public procedures reject bad credentials too.
		_, err := client.ListCancers(context.Background(), withToken(&programv1.ListCancersRequest{}, token))
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), token)
	}
	assert.Zero(t, h.calls)
}

func TestInterceptors_AnonymousAccess(t *testing.T) {
	client, h := newInterceptedServer(t)
	ctx := context.Background()

	resp, err := client.ListCancers(ctx, withToken(&programv1.ListCancersRequest{}, ""))
	require.NoError(t, err)
	assert.Equal(t, "", resp.Msg.Cancers[0].Name)

	_, err = client.GetProgram(ctx, withToken(&programv1.GetProgramRequest{ShortName: "TEST-CA"}, ""))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	assert.Equal(t, 1, h.calls)
}

func TestAuthzInterceptor_Rules(t *testing.T) {
	client, _ := newInterceptedServer(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func(token string) error
		token string
		code  connect.Code
	}{
		{
			name: "program read on own program",
			call: func(tok string) error {
				_, err := client.GetProgram(ctx, withToken(&programv1.GetProgramRequest{ShortName: "test-ca"}, tok))
				return err
			},
			token: "jane:PROGRAM-TEST-CA.READ",
		},
		{
			name: "program read on other program",
			call: func(tok string) error {
				_, err := client.GetProgram(ctx, withToken(&programv1.GetProgramRequest{ShortName: "OTHER-US"}, tok))
				return err
			},
			token: "jane:PROGRAM-TEST-CA.READ",
			code:  connect.CodePermissionDenied,
		},
		{
			name: "banned overrides service write",
			call: func(tok string) error {
				_, err := client.GetProgram(ctx, withToken(&programv1.GetProgramRequest{ShortName: "TEST-CA"}, tok))
				return err
			},
			token: "jane:PROGRAMSERVICE.WRITE,PROGRAM-TEST-CA.DENY",
			code:  connect.CodePermissionDenied,
		},
		{
			name: "missing short name",
			call: func(tok string) error {
				_, err := client.GetProgram(ctx, withToken(&programv1.GetProgramRequest{}, tok))
				return err
			},
			token: "jane:PROGRAMSERVICE.WRITE",
			code:  connect.CodeInvalidArgument,
		},
		{
			name: "program admin invites",
			call: func(tok string) error {
				_, err := client.InviteUser(ctx, withToken(&programv1.InviteUserRequest{ProgramShortName: "TEST-CA", User: &programv1.User{Email: "a@b.c", Role: "ADMIN"}}, tok))
				return err
			},
			token: "jane:PROGRAM-TEST-CA.WRITE",
		},
		{
			name: "program reader cannot invite",
			call: func(tok string) error {
				_, err := client.InviteUser(ctx, withToken(&programv1.InviteUserRequest{ProgramShortName: "TEST-CA"}, tok))
				return err
			},
			token: "jane:PROGRAM-TEST-CA.READ",
			code:  connect.CodePermissionDenied,
		},
		{
			name: "program admin cannot create programs",
			call: func(tok string) error {
				_, err := client.CreateProgram(ctx, withToken(&programv1.CreateProgramRequest{Program: &programv1.Program{ShortName: "NEW"}}, tok))
				return err
			},
			token: "jane:PROGRAM-TEST-CA.WRITE",
			code:  connect.CodePermissionDenied,
		},
		{
			name: "service writer creates programs",
			call: func(tok string) error {
				_, err := client.CreateProgram(ctx, withToken(&programv1.CreateProgramRequest{Program: &programv1.Program{ShortName: "NEW"}}, tok))
				return err
			},
			token: "ops:PROGRAMSERVICE.WRITE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(tt.token)
			if tt.code == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err))
		})
	}
}

func TestNewAuthzInterceptor_RequiresAuthorizer(t *testing.T) {
	_, err := NewAuthzInterceptor(AuthzDependencies{})
	require.Error(t, err)
}

func TestAuthzError(t *testing.T) {
	assert.Equal(t, connect.CodeUnauthenticated, authzError(auth.ErrAnonymous).Code())
	assert.Equal(t, connect.CodePermissionDenied, authzError(auth.ErrPermissionDenied).Code())
	assert.Equal(t, connect.CodeInternal, authzError(errors.New("enforcer exploded")).Code())
}

func TestProcedureRules_CoverEveryProcedure(t *testing.T) {
	procedures := []string{
		programv1connect.ProgramServiceCreateProgramProcedure,
		programv1connect.ProgramServiceGetProgramProcedure,
		programv1connect.ProgramServiceListProgramsProcedure,
		programv1connect.ProgramServiceUpdateProgramProcedure,
		programv1connect.ProgramServiceRemoveProgramProcedure,
		programv1connect.ProgramServiceInviteUserProcedure,
		programv1connect.ProgramServiceUpdateUserRoleProcedure,
		programv1connect.ProgramServiceRemoveUserProcedure,
		programv1connect.ProgramServiceListUsersProcedure,
		programv1connect.ProgramServiceListCancersProcedure,
		programv1connect.ProgramServiceListPrimarySitesProcedure,
		programv1connect.ProgramServiceReconcileProgramProcedure,
	}
	for _, p := range procedures {
		_, ok := procedureRules[p]
		assert.True(t, ok, p)
	}
	assert.Len(t, procedureRules, len(procedures))
}
