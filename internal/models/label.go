package models

// Label is the reconciliation outcome attached to every surviving row. The
// value is the text written to the NOTE column.
type Label string

const (
	LabelDHSPaid          Label = "DHS PAID"
	LabelNotPaid          Label = "NOT PAID"
	LabelSelfPaid         Label = "SELF PAID"
	LabelNonTraditional   Label = "NON TRADITIONAL"
	LabelExtraDHS         Label = "EXTRA DHS"
	LabelExtraCopay       Label = "EXTRA COPAY"
	LabelExtraCopayAndDHS Label = "EXTRA COPAY & EXTRA DHS"
	LabelExtra            Label = "EXTRA"
)

// Labels lists every label in report order.
var Labels = []Label{
	LabelDHSPaid,
	LabelNotPaid,
	LabelSelfPaid,
	LabelNonTraditional,
	LabelExtraDHS,
	LabelExtraCopay,
	LabelExtraCopayAndDHS,
	LabelExtra,
}

// IsExtra reports whether the label marks a payment with no matching attendance.
func (l Label) IsExtra() bool {
	switch l {
	case LabelExtraDHS, LabelExtraCopay, LabelExtraCopayAndDHS, LabelExtra:
		return true
	}
	return false
}

func (l Label) String() string {
	return string(l)
}
