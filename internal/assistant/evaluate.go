package assistant

import (
	"fmt"
	"math"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// Evaluation weights
const (
	CommercialWeight = 0.7
	TechnicalWeight  = 0.3
)

// EvaluateProposal scores a proposal against its RFP. Scores depend only on
// which documents were supplied, so repeated evaluations agree.
func EvaluateProposal(p domain.Proposal, rfp domain.RFP) domain.Evaluation {
	commercial, technical := 40.0, 35.0
	var strengths, weaknesses []string

	if p.CommercialDocument != "" {
		commercial = 75
		strengths = append(strengths, "Competitive pricing")
	} else {
		weaknesses = append(weaknesses, "Commercial document missing")
	}
	if p.TechnicalDocument != "" {
		technical = 70
		strengths = append(strengths, "Good technical approach")
	} else {
		weaknesses = append(weaknesses, "Technical document missing")
	}
	strengths = append(strengths, "Timely submission")
	weaknesses = append(weaknesses, "Limited experience", "Basic proposal format")
	if len(weaknesses) > 3 {
		weaknesses = weaknesses[:3]
	}

	overall := math.Round((commercial*CommercialWeight+technical*TechnicalWeight)*10) / 10

	return domain.Evaluation{
		CommercialScore: commercial,
		TechnicalScore:  technical,
		OverallScore:    overall,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendation:  Recommendation(overall),
		DetailedAnalysis: fmt.Sprintf(
			"%s evaluated for %q (budget %.0f SAR, %s approval): commercial %.0f, technical %.0f, weighted %.1f.",
			p.VendorCompany, rfp.Title, rfp.Budget, rfp.ApprovalLevel, commercial, technical, overall),
	}
}

// Recommendation maps an overall score to the reviewer's verdict.
func Recommendation(overall float64) string {
	switch {
	case overall >= 80:
		return "Highly Recommended"
	case overall >= 65:
		return "Recommended"
	default:
		return "Not Recommended"
	}
}
