package models

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Membership types of a program.
const (
	MembershipFull      = "FULL"
	MembershipAssociate = "ASSOCIATE"
)

// ShortNamePattern constrains program short names. They become part of
// identity-service group and policy names.
var ShortNamePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]*$`)

const maxShortNameLen = 64

// Program is a research program owning access-control state upstream.
type Program struct {
	bun.BaseModel `bun:"table:programs,alias:p"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid"`
	ShortName        string     `bun:"short_name,notnull,unique"`
	Name             string     `bun:"name,notnull"`
	Description      string     `bun:"description"`
	MembershipType   string     `bun:"membership_type,notnull"`
	CommitmentDonors int        `bun:"commitment_donors,notnull,default:0"`
	SubmittedDonors  int        `bun:"submitted_donors,notnull,default:0"`
	GenomicDonors    int        `bun:"genomic_donors,notnull,default:0"`
	Website          string     `bun:"website"`
	Institutions     StringList `bun:"institutions,type:jsonb"`
	Countries        StringList `bun:"countries,type:jsonb"`
	Regions          StringList `bun:"regions,type:jsonb"`
	CreatedAt        time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// ValidateForCreate verifies the record is well formed before insertion.
func (p *Program) ValidateForCreate() error {
	if p.ID == uuid.Nil {
		return errors.New("program id is required")
	}
	if p.ShortName == "" {
		return errors.New("short_name is required")
	}
	if len(p.ShortName) > maxShortNameLen {
		return errors.New("short_name exceeds maximum length")
	}
	if !ShortNamePattern.MatchString(p.ShortName) {
		return errors.New("short_name is invalid: use upper-case letters, digits and dashes")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	return p.validateCommon()
}

// ValidateForUpdate verifies mutable fields.
func (p *Program) ValidateForUpdate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return p.validateCommon()
}

func (p *Program) validateCommon() error {
	switch p.MembershipType {
	case MembershipFull, MembershipAssociate:
	default:
		return errors.New("membership_type is invalid: expected FULL or ASSOCIATE")
	}
	if p.CommitmentDonors < 0 || p.SubmittedDonors < 0 || p.GenomicDonors < 0 {
		return errors.New("donor counts must not be negative")
	}
	return nil
}

// ProgramCancer links a program to a cancer type.
type ProgramCancer struct {
	bun.BaseModel `bun:"table:program_cancers,alias:pc"`

	ProgramID uuid.UUID `bun:"program_id,pk,type:uuid"`
	CancerID  uuid.UUID `bun:"cancer_id,pk,type:uuid"`
}

// ProgramPrimarySite links a program to a primary site.
type ProgramPrimarySite struct {
	bun.BaseModel `bun:"table:program_primary_sites,alias:pps"`

	ProgramID     uuid.UUID `bun:"program_id,pk,type:uuid"`
	PrimarySiteID uuid.UUID `bun:"primary_site_id,pk,type:uuid"`
}
