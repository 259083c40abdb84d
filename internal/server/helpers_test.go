package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/argo-platform/program-service/api/program/v1/programv1connect"
	"github.com/argo-platform/program-service/internal/auth"
	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/repository"
	"github.com/argo-platform/program-service/internal/services/program"
)

// fakePrograms lets each test override the calls it cares about.
// Unset calls report not found.
type fakePrograms struct {
	createFn  func(ctx context.Context, in program.CreateInput) (*program.Details, error)
	getFn     func(ctx context.Context, shortName string) (*program.Details, error)
	listFn    func(ctx context.Context, filter string) ([]models.Program, error)
	updateFn  func(ctx context.Context, shortName string, in program.ProgramInput) (*program.Details, error)
	removeFn  func(ctx context.Context, shortName string) error
	inviteFn  func(ctx context.Context, shortName string, in program.UserInput) (*models.ProgramMembership, error)
	roleFn    func(ctx context.Context, shortName, email, role string) (*models.ProgramMembership, error)
	removeUFn func(ctx context.Context, shortName, email string) error
	usersFn   func(ctx context.Context, shortName string) ([]models.ProgramMembership, error)
	reconFn   func(ctx context.Context, shortName string) error
}

func (f *fakePrograms) CreateProgram(ctx context.Context, in program.CreateInput) (*program.Details, error) {
	if f.createFn != nil {
		return f.createFn(ctx, in)
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrograms) GetProgram(ctx context.Context, shortName string) (*program.Details, error) {
	if f.getFn != nil {
		return f.getFn(ctx, shortName)
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrograms) ListPrograms(ctx context.Context, filter string) ([]models.Program, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakePrograms) UpdateProgram(ctx context.Context, shortName string, in program.ProgramInput) (*program.Details, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, shortName, in)
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrograms) RemoveProgram(ctx context.Context, shortName string) error {
	if f.removeFn != nil {
		return f.removeFn(ctx, shortName)
	}
	return repository.ErrNotFound
}

func (f *fakePrograms) InviteUser(ctx context.Context, shortName string, in program.UserInput) (*models.ProgramMembership, error) {
	if f.inviteFn != nil {
		return f.inviteFn(ctx, shortName, in)
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrograms) UpdateUserRole(ctx context.Context, shortName, email, role string) (*models.ProgramMembership, error) {
	if f.roleFn != nil {
		return f.roleFn(ctx, shortName, email, role)
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrograms) RemoveUser(ctx context.Context, shortName, email string) error {
	if f.removeUFn != nil {
		return f.removeUFn(ctx, shortName, email)
	}
	return repository.ErrNotFound
}

func (f *fakePrograms) ListUsers(ctx context.Context, shortName string) ([]models.ProgramMembership, error) {
	if f.usersFn != nil {
		return f.usersFn(ctx, shortName)
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrograms) ReconcileProgram(ctx context.Context, shortName string) error {
	if f.reconFn != nil {
		return f.reconFn(ctx, shortName)
	}
	return repository.ErrNotFound
}

type fakeReferences struct {
	cancers []models.Cancer
	sites   []models.PrimarySite
	err     error
}

func (f *fakeReferences) ListCancers(ctx context.Context) ([]models.Cancer, error) {
	return f.cancers, f.err
}

func (f *fakeReferences) ListPrimarySites(ctx context.Context) ([]models.PrimarySite, error) {
	return f.sites, f.err
}

func defaultReferences() *fakeReferences {
	return &fakeReferences{
		cancers: []models.Cancer{{ID: uuid.New(), Name: "Lung cancer"}, {ID: uuid.New(), Name: "Breast cancer"}},
		sites:   []models.PrimarySite{{ID: uuid.New(), Name: "Lung"}},
	}
}

// fakeVerifier accepts tokens of the form "<subject>:<authority>,<authority>".
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (*auth.Claims, error) {
	sub, scopes, ok := strings.Cut(token, ":")
	if !ok || sub == "" {
		return nil, &auth.VerificationError{Reason: auth.ErrSignatureInvalid, Err: auth.ErrSignatureInvalid}
	}
	claims := &auth.Claims{Subject: sub, Type: auth.PrincipalTypeUser, Email: sub + "@example.org"}
	if scopes != "" {
		claims.Authorities = strings.Split(scopes, ",")
	}
	return claims, nil
}

// newTestServer serves the router and returns a client pointed at it.
func newTestServer(t *testing.T, opts RouterOptions) (programv1connect.ProgramServiceClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(NewRouter(opts))
	t.Cleanup(srv.Close)
	return programv1connect.NewProgramServiceClient(http.DefaultClient, srv.URL), srv
}

// withToken returns a request carrying a bearer token.
func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}
