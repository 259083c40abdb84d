// Package programv1 holds the messages of the program.v1.ProgramService API.
//
// Messages are plain structs carried as JSON over Connect; field names follow
// the lowerCamelCase JSON mapping clients already use.
package programv1

import "time"

// Program describes a program and its reference links.
type Program struct {
	ShortName        string    `json:"shortName"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	MembershipType   string    `json:"membershipType"`
	CommitmentDonors int       `json:"commitmentDonors"`
	SubmittedDonors  int       `json:"submittedDonors"`
	GenomicDonors    int       `json:"genomicDonors"`
	Website          string    `json:"website,omitempty"`
	Institutions     []string  `json:"institutions,omitempty"`
	Countries        []string  `json:"countries,omitempty"`
	Regions          []string  `json:"regions,omitempty"`
	CancerTypes      []string  `json:"cancerTypes,omitempty"`
	PrimarySites     []string  `json:"primarySites,omitempty"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
	UpdatedAt        time.Time `json:"updatedAt,omitzero"`
}

// User is a program member.
type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
}

// Cancer is a cancer type programs may study.
type Cancer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PrimarySite is an anatomical primary site programs may study.
type PrimarySite struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateProgramRequest struct {
	Program *Program `json:"program"`
	Admins  []*User  `json:"admins"`
}

type CreateProgramResponse struct {
	Program *Program `json:"program"`
}

type GetProgramRequest struct {
	ShortName string `json:"shortName"`
}

func (x *GetProgramRequest) GetProgramShortName() string {
	if x == nil {
		return ""
	}
	return x.ShortName
}

type GetProgramResponse struct {
	Program *Program `json:"program"`
}

type ListProgramsRequest struct {
	// Filter is a boolean expression over program fields, e.g. `"Canada" in countries`.
	Filter string `json:"filter,omitempty"`
}

type ListProgramsResponse struct {
	Programs []*Program `json:"programs"`
}

type UpdateProgramRequest struct {
	Program *Program `json:"program"`
}

func (x *UpdateProgramRequest) GetProgramShortName() string {
	if x == nil || x.Program == nil {
		return ""
	}
	return x.Program.ShortName
}

type UpdateProgramResponse struct {
	Program *Program `json:"program"`
}

type RemoveProgramRequest struct {
	ShortName string `json:"shortName"`
}

func (x *RemoveProgramRequest) GetProgramShortName() string {
	if x == nil {
		return ""
	}
	return x.ShortName
}

type RemoveProgramResponse struct{}

type InviteUserRequest struct {
	ProgramShortName string `json:"programShortName"`
	User             *User  `json:"user"`
}

func (x *InviteUserRequest) GetProgramShortName() string {
	if x == nil {
		return ""
	}
	return x.ProgramShortName
}

type InviteUserResponse struct {
	User *User `json:"user"`
}

type UpdateUserRoleRequest struct {
	ProgramShortName string `json:"programShortName"`
	Email            string `json:"email"`
	Role             string `json:"role"`
}

func (x *UpdateUserRoleRequest) GetProgramShortName() string {
	if x == nil {
		return ""
	}
	return x.ProgramShortName
}

type UpdateUserRoleResponse struct {
	User *User `json:"user"`
}

type RemoveUserRequest struct {
	ProgramShortName string `json:"programShortName"`
	Email            string `json:"email"`
}

func (x *RemoveUserRequest) GetProgramShortName() string {
	if x == nil {
		return ""
	}
	return x.ProgramShortName
}

type RemoveUserResponse struct {
	Message string `json:"message"`
}

type ListUsersRequest struct {
	ProgramShortName string `json:"programShortName"`
}

func (x *ListUsersRequest) GetProgramShortName() string {
	if x == nil {
		return ""
	}
	return x.ProgramShortName
}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type ListCancersRequest struct{}

type ListCancersResponse struct {
	Cancers []*Cancer `json:"cancers"`
}

type ListPrimarySitesRequest struct{}

type ListPrimarySitesResponse struct {
	PrimarySites []*PrimarySite `json:"primarySites"`
}

type ReconcileProgramRequest struct {
	ShortName string `json:"shortName"`
}

func (x *ReconcileProgramRequest) GetProgramShortName() string {
	if x == nil {
		return ""
	}
	return x.ShortName
}

type ReconcileProgramResponse struct{}
