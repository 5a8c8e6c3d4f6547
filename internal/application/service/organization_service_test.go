package service

import (
	"testing"

	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

func newOrganizationService(f *testFixture) *OrganizationService {
	return NewOrganizationService(infraRepo.NewOrganizationRepository(f.db))
}

func TestCreateOrganizationSeedsMainBranch(t *testing.T) {
	f := newTestFixture(t)
	svc := newOrganizationService(f)

	org, err := svc.CreateOrganization(f.ctx, &CreateOrganizationInput{Name: "Afya Chemists"})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	if org.Slug != "afya-chemists" {
		t.Fatalf("slug = %s, want afya-chemists", org.Slug)
	}
	if len(org.Branches) != 1 || org.Branches[0].Name != "Main Branch" {
		t.Fatalf("expected a main branch, got %+v", org.Branches)
	}

	if _, err := svc.CreateOrganization(f.ctx, &CreateOrganizationInput{Name: "Afya Chemists"}); err == nil {
		t.Fatal("expected conflict for duplicate slug")
	}
}

func TestListOrganizationsPaginates(t *testing.T) {
	f := newTestFixture(t)
	svc := newOrganizationService(f)

	for _, name := range []string{"Alpha Chemists", "Beta Pharmacy"} {
		if _, err := svc.CreateOrganization(f.ctx, &CreateOrganizationInput{Name: name}); err != nil {
			t.Fatalf("create organization: %v", err)
		}
	}

	// The fixture org plus the two created above
	result, err := svc.ListOrganizations(f.ctx, &pagination.PaginationParams{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("list organizations: %v", err)
	}
	if result.Pagination.Total != 3 {
		t.Fatalf("total = %d, want 3", result.Pagination.Total)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items on the first page, got %d", len(result.Items))
	}
	if result.Pagination.TotalPages != 2 || !result.Pagination.HasNext {
		t.Fatalf("unexpected pagination %+v", result.Pagination)
	}
}
