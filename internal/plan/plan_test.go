package plan_test

import (
	"testing"

	"github.com/pocketsalon/salon-manager/internal/plan"
)

func TestLimitsForFree(t *testing.T) {
	limits := plan.LimitsFor(plan.Free)

	if limits.MaxCustomers != 10 {
		t.Errorf("free plan MaxCustomers = %d, want 10", limits.MaxCustomers)
	}
	if limits.CanExportExcel {
		t.Error("free plan should not allow excel export")
	}
	if limits.CanUploadPhoto {
		t.Error("free plan should not allow photo upload")
	}
}

func TestLimitsForPremium(t *testing.T) {
	limits := plan.LimitsFor(plan.Premium)

	if limits.MaxCustomers != plan.UnlimitedCustomers {
		t.Errorf("premium plan MaxCustomers = %d, want unlimited", limits.MaxCustomers)
	}
	if !limits.CanExportExcel {
		t.Error("premium plan should allow excel export")
	}
	if !limits.CanUploadPhoto {
		t.Error("premium plan should allow photo upload")
	}
}

func TestAllowsCustomerCount(t *testing.T) {
	free := plan.LimitsFor(plan.Free)

	// 9 existing customers: the 10th may still be added.
	if !free.AllowsCustomerCount(9) {
		t.Error("free plan should allow a 10th customer")
	}

	// 10 existing customers: the 11th is blocked.
	if free.AllowsCustomerCount(10) {
		t.Error("free plan should block an 11th customer")
	}

	premium := plan.LimitsFor(plan.Premium)
	if !premium.AllowsCustomerCount(100000) {
		t.Error("premium plan should never block customer creation")
	}
}

func TestParseUnknownFallsBackToFree(t *testing.T) {
	if got := plan.Parse("enterprise"); got != plan.Free {
		t.Errorf("Parse(enterprise) = %q, want free", got)
	}
	if got := plan.Parse("premium"); got != plan.Premium {
		t.Errorf("Parse(premium) = %q, want premium", got)
	}
}
