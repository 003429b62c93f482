package domain

// ApprovalLevel is the sign-off authority an RFP needs, derived from its budget.
type ApprovalLevel string

const (
	ApprovalProcurementOfficer ApprovalLevel = "procurement_officer"
	ApprovalManager            ApprovalLevel = "manager"
	ApprovalCFO                ApprovalLevel = "cfo"
	ApprovalCEO                ApprovalLevel = "ceo"
)

// ApprovalLevelFor maps a budget (SAR) to the approval level it requires.
// Bounds are inclusive.
func ApprovalLevelFor(budget float64) ApprovalLevel {
	switch {
	case budget <= 100_000:
		return ApprovalProcurementOfficer
	case budget <= 500_000:
		return ApprovalManager
	case budget <= 1_000_000:
		return ApprovalCFO
	default:
		return ApprovalCEO
	}
}

func (a ApprovalLevel) String() string {
	return string(a)
}
