package program

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-bexpr"

	"github.com/argo-platform/program-service/internal/db/models"
)

// programFilterFields flattens a program for filter evaluation.
//
//	shortName == "TEST-CA"
//	"Canada" in countries and membershipType == "FULL"
//	name matches "^Pan"
func programFilterFields(p *models.Program) map[string]any {
	return map[string]any{
		"shortName":        p.ShortName,
		"name":             p.Name,
		"membershipType":   p.MembershipType,
		"website":          p.Website,
		"countries":        []string(p.Countries),
		"regions":          []string(p.Regions),
		"institutions":     []string(p.Institutions),
		"commitmentDonors": p.CommitmentDonors,
		"submittedDonors":  p.SubmittedDonors,
		"genomicDonors":    p.GenomicDonors,
	}
}

type programMatcher func(p *models.Program) (bool, error)

func compileFilter(filter string) (programMatcher, error) {
	if strings.TrimSpace(filter) == "" {
		return func(*models.Program) (bool, error) { return true, nil }, nil
	}

	evaluator, err := bexpr.CreateEvaluator(filter)
	if err != nil {
		return nil, validationError("invalid filter: %v", err)
	}

	return func(p *models.Program) (bool, error) {
		ok, err := evaluator.Evaluate(programFilterFields(p))
		if err != nil {
			return false, fmt.Errorf("%w: evaluate filter: %v", ErrValidation, err)
		}
		return ok, nil
	}, nil
}
