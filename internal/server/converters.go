package server

import (
	programv1 "github.com/argo-platform/program-service/api/program/v1"
	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/services/program"
)

func programInput(p *programv1.Program) program.ProgramInput {
	return program.ProgramInput{
		Name:             p.Name,
		Description:      p.Description,
		MembershipType:   p.MembershipType,
		CommitmentDonors: p.CommitmentDonors,
		SubmittedDonors:  p.SubmittedDonors,
		GenomicDonors:    p.GenomicDonors,
		Website:          p.Website,
		Institutions:     p.Institutions,
		Countries:        p.Countries,
		Regions:          p.Regions,
		CancerTypes:      p.CancerTypes,
		PrimarySites:     p.PrimarySites,
	}
}

func userInput(u *programv1.User) program.UserInput {
	return program.UserInput{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

func toProgramMessage(d *program.Details) *programv1.Program {
	p := d.Program
	return &programv1.Program{
		ShortName:        p.ShortName,
		Name:             p.Name,
		Description:      p.Description,
		MembershipType:   p.MembershipType,
		CommitmentDonors: p.CommitmentDonors,
		SubmittedDonors:  p.SubmittedDonors,
		GenomicDonors:    p.GenomicDonors,
		Website:          p.Website,
		Institutions:     []string(p.Institutions),
		Countries:        []string(p.Countries),
		Regions:          []string(p.Regions),
		CancerTypes:      d.CancerTypes,
		PrimarySites:     d.PrimarySites,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toUserMessage(m *models.ProgramMembership) *programv1.User {
	return &programv1.User{
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Role:      m.Role,
	}
}
