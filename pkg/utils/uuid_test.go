package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"City Pharmacy":        "city-pharmacy",
		"  Main -- Branch!  ":  "main-branch",
		"Aspirin 100mg (Tabs)": "aspirin-100mg-tabs",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDocumentNumberPrefixes(t *testing.T) {
	if got := GeneratePendingSaleNumber("MB"); !strings.HasPrefix(got, "PENDING_MB_") {
		t.Errorf("pending number = %q", got)
	}
	if got := GenerateBillNumber("MB"); !strings.HasPrefix(got, "BILL_MB_") {
		t.Errorf("bill number = %q", got)
	}
	if got := GeneratePatientNumber("MB"); !strings.HasPrefix(got, "PT_MB_") {
		t.Errorf("patient number = %q", got)
	}
	if got := GenerateBulkOrderNumber(); !strings.HasPrefix(got, "BO-") {
		t.Errorf("bulk order number = %q", got)
	}
	if got := GenerateProductCode(); !strings.HasPrefix(got, "MED-") || len(got) != 12 {
		t.Errorf("product code = %q", got)
	}
}

func TestGenerateBatchNumberEmbedsOrder(t *testing.T) {
	itemID := uuid.New()
	got := GenerateBatchNumber("BO-20250101120000-AB12", itemID)
	if !strings.HasPrefix(got, "BO-20250101120000-AB12-") {
		t.Errorf("batch number = %q", got)
	}
	if !strings.HasSuffix(got, strings.ToUpper(itemID.String()[:8])) {
		t.Errorf("batch number %q missing item token", got)
	}
}
