package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	programv1 "github.com/argo-platform/program-service/api/program/v1"
	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/repository"
	"github.com/argo-platform/program-service/internal/services/program"
)

func testProgram(short string) models.Program {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.Program{
		ID:             uuid.New(),
		ShortName:      short,
		Name:           "Test Program",
		MembershipType: models.MembershipFull,
		Countries:      models.StringList{"Canada"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateProgram_ConvertsRequestAndResponse(t *testing.T) {
	var got program.CreateInput
	programs := &fakePrograms{
		createFn: func(_ context.Context, in program.CreateInput) (*program.Details, error) {
			got = in
			return &program.Details{
				Program:      testProgram("TEST-CA"),
				CancerTypes:  in.CancerTypes,
				PrimarySites: in.PrimarySites,
			}, nil
		},
	}
	client, _ := newTestServer(t, RouterOptions{Programs: programs, References: defaultReferences()})

	resp, err := client.CreateProgram(context.Background(), connect.NewRequest(&programv1.CreateProgramRequest{
		Program: &programv1.Program{
			ShortName:        "TEST-CA",
			Name:             "Test Program",
			MembershipType:   models.MembershipFull,
			CommitmentDonors: 100,
			Countries:        []string{"Canada"},
			CancerTypes:      []string{"Lung cancer"},
			PrimarySites:     []string{"Lung"},
		},
		Admins: []*programv1.User{
			{Email: "admin@example.org", FirstName: "Ada", LastName: "Admin", Role: "ADMIN"},
			nil,
		},
	}))
	require.NoError(t, err)

	assert.Equal(t, "TEST-CA", got.ShortName)
	assert.Equal(t, 100, got.CommitmentDonors)
	require.Len(t, got.Admins, 1)
	assert.Equal(t, "admin@example.org", got.Admins[0].Email)

	p := resp.Msg.Program
	assert.Equal(t, "TEST-CA", p.ShortName)
	assert.Equal(t, []string{"Canada"}, p.Countries)
	assert.Equal(t, []string{"Lung cancer"}, p.CancerTypes)
	assert.Equal(t, []string{"Lung"}, p.PrimarySites)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateProgram_RequiresProgram(t *testing.T) {
	client, _ := newTestServer(t, RouterOptions{Programs: &fakePrograms{}, References: defaultReferences()})

	_, err := client.CreateProgram(context.Background(), connect.NewRequest(&programv1.CreateProgramRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestGetProgram_NotFound(t *testing.T) {
	client, _ := newTestServer(t, RouterOptions{Programs: &fakePrograms{}, References: defaultReferences()})

	_, err := client.GetProgram(context.Background(), connect.NewRequest(&programv1.GetProgramRequest{ShortName: "NOPE"}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestListPrograms_PassesFilter(t *testing.T) {
	var filter string
	programs := &fakePrograms{
		listFn: func(_ context.Context, f string) ([]models.Program, error) {
			filter = f
			return []models.Program{testProgram("A-CA"), testProgram("B-CA")}, nil
		},
	}
	client, _ := newTestServer(t, RouterOptions{Programs: programs, References: defaultReferences()})

	resp, err := client.ListPrograms(context.Background(), connect.NewRequest(&programv1.ListProgramsRequest{
		Filter: `membershipType == "FULL"`,
	}))
	require.NoError(t, err)
	assert.Equal(t, `membershipType == "FULL"`, filter)
	require.Len(t, resp.Msg.Programs, 2)
	assert.Equal(t, "A-CA", resp.Msg.Programs[0].ShortName)
}

func TestUpdateProgram_UsesShortNameFromMessage(t *testing.T) {
	var short string
	programs := &fakePrograms{
		updateFn: func(_ context.Context, s string, in program.ProgramInput) (*program.Details, error) {
			short = s
			p := testProgram(s)
			p.Name = in.Name
			return &program.Details{Program: p}, nil
		},
	}
	client, _ := newTestServer(t, RouterOptions{Programs: programs, References: defaultReferences()})

	resp, err := client.UpdateProgram(context.Background(), connect.NewRequest(&programv1.UpdateProgramRequest{
		Program: &programv1.Program{ShortName: "TEST-CA", Name: "Renamed", MembershipType: models.MembershipAssociate},
	}))
	require.NoError(t, err)
	assert.Equal(t, "TEST-CA", short)
	assert.Equal(t, "Renamed", resp.Msg.Program.Name)
}

func TestMembershipRPCs(t *testing.T) {
	members := map[string]*models.ProgramMembership{}
	programs := &fakePrograms{
		inviteFn: func(_ context.Context, short string, in program.UserInput) (*models.ProgramMembership, error) {
			if _, ok := members[in.Email]; ok {
				return nil, fmt.Errorf("member '%s' %w", in.Email, repository.ErrAlreadyExists)
			}
			m := &models.ProgramMembership{Email: in.Email, FirstName: in.FirstName, Role: in.Role}
			members[in.Email] = m
			return m, nil
		},
		roleFn: func(_ context.Context, short, email, role string) (*models.ProgramMembership, error) {
			m, ok := members[email]
			if !ok {
				return nil, fmt.Errorf("member '%s' %w", email, repository.ErrNotFound)
			}
			m.Role = role
			return m, nil
		},
		usersFn: func(_ context.Context, short string) ([]models.ProgramMembership, error) {
			out := make([]models.ProgramMembership, 0, len(members))
			for _, m := range members {
				out = append(out, *m)
			}
			return out, nil
		},
		removeUFn: func(_ context.Context, short, email string) error {
			delete(members, email)
			return nil
		},
	}
	client, _ := newTestServer(t, RouterOptions{Programs: programs, References: defaultReferences()})
	ctx := context.Background()

	invited, err := client.InviteUser(ctx, connect.NewRequest(&programv1.InviteUserRequest{
		ProgramShortName: "TEST-CA",
		User:             &programv1.User{Email: "sub@example.org", FirstName: "Sam", Role: "SUBMITTER"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "SUBMITTER", invited.Msg.User.Role)

	_, err = client.InviteUser(ctx, connect.NewRequest(&programv1.InviteUserRequest{
		ProgramShortName: "TEST-CA",
		User:             &programv1.User{Email: "sub@example.org", Role: "SUBMITTER"},
	}))
	assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))

	_, err = client.InviteUser(ctx, connect.NewRequest(&programv1.InviteUserRequest{ProgramShortName: "TEST-CA"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	updated, err := client.UpdateUserRole(ctx, connect.NewRequest(&programv1.UpdateUserRoleRequest{
		ProgramShortName: "TEST-CA", Email: "sub@example.org", Role: "CURATOR",
	}))
	require.NoError(t, err)
	assert.Equal(t, "CURATOR", updated.Msg.User.Role)

	list, err := client.ListUsers(ctx, connect.NewRequest(&programv1.ListUsersRequest{ProgramShortName: "TEST-CA"}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Users, 1)

	removed, err := client.RemoveUser(ctx, connect.NewRequest(&programv1.RemoveUserRequest{
		ProgramShortName: "TEST-CA", Email: "sub@example.org",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, removed.Msg.Message)

	list, err = client.ListUsers(ctx, connect.NewRequest(&programv1.ListUsersRequest{ProgramShortName: "TEST-CA"}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Users)
}

func TestReferenceRPCs(t *testing.T) {
	refs := defaultReferences()
	client, _ := newTestServer(t, RouterOptions{Programs: &fakePrograms{}, References: refs})

	cancers, err := client.ListCancers(context.Background(), connect.NewRequest(&programv1.ListCancersRequest{}))
	require.NoError(t, err)
	require.Len(t, cancers.Msg.Cancers, 2)
	assert.Equal(t, refs.cancers[0].ID.String(), cancers.Msg.Cancers[0].ID)
	assert.Equal(t, "Lung cancer", cancers.Msg.Cancers[0].Name)

	sites, err := client.ListPrimarySites(context.Background(), connect.NewRequest(&programv1.ListPrimarySitesRequest{}))
	require.NoError(t, err)
	require.Len(t, sites.Msg.PrimarySites, 1)
	assert.Equal(t, "Lung", sites.Msg.PrimarySites[0].Name)
}

func TestReconcileAndRemoveProgram(t *testing.T) {
	var calls []string
	programs := &fakePrograms{
		reconFn: func(_ context.Context, short string) error {
			calls = append(calls, "reconcile:"+short)
			return nil
		},
		removeFn: func(_ context.Context, short string) error {
			calls = append(calls, "remove:"+short)
			return nil
		},
	}
	client, _ := newTestServer(t, RouterOptions{Programs: programs, References: defaultReferences()})
	ctx := context.Background()

	_, err := client.ReconcileProgram(ctx, connect.NewRequest(&programv1.ReconcileProgramRequest{ShortName: "TEST-CA"}))
	require.NoError(t, err)
	_, err = client.RemoveProgram(ctx, connect.NewRequest(&programv1.RemoveProgramRequest{ShortName: "TEST-CA"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"reconcile:TEST-CA", "remove:TEST-CA"}, calls)
}
