package plan

// Plan is the operator's subscription tier.
type Plan string

const (
	Free    Plan = "free"
	Premium Plan = "premium"
)

// UnlimitedCustomers marks a tier without a customer ceiling.
const UnlimitedCustomers = -1

// Limits is a pure lookup result; enforcement happens at each call site.
type Limits struct {
	MaxCustomers   int
	CanExportExcel bool
	CanUploadPhoto bool
}

func Parse(s string) Plan {
	if s == string(Premium) {
		return Premium
	}
	return Free
}

func LimitsFor(p Plan) Limits {
	switch p {
	case Premium:
		return Limits{
			MaxCustomers:   UnlimitedCustomers,
			CanExportExcel: true,
			CanUploadPhoto: true,
		}
	default:
		return Limits{
			MaxCustomers:   10,
			CanExportExcel: false,
			CanUploadPhoto: false,
		}
	}
}

// AllowsCustomerCount reports whether one more customer may be added when
// the account already has current customers.
func (l Limits) AllowsCustomerCount(current int) bool {
	if l.MaxCustomers == UnlimitedCustomers {
		return true
	}
	return current < l.MaxCustomers
}
