package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testFixture struct {
	db      *gorm.DB
	ctx     context.Context
	org     entity.Organization
	branch  entity.Branch
	user    entity.User
	product entity.Product

	batchSeq int
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	db := setupTestDB(t)

	f := &testFixture{db: db}

	f.org = entity.Organization{Name: "Test Pharmacy", Slug: "test-pharmacy", Active: true}
	if err := db.Create(&f.org).Error; err != nil {
		t.Fatalf("seed org: %v", err)
	}

	f.branch = entity.Branch{OrganizationID: f.org.ID, Name: "Main Branch", Active: true}
	if err := db.Create(&f.branch).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	f.user = entity.User{
		OrganizationID: f.org.ID,
		FirstName:      "Test",
		LastName:       "Pharmacist",
		Email:          "pharmacist@" + f.org.Slug + ".test",
		Role:           enum.UserRoleAdmin,
		Active:         true,
	}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	f.product = entity.Product{
		OrganizationID: f.org.ID,
		GenericName:    "Paracetamol",
		Code:           "MED-TEST-" + f.org.ID.String()[:8],
		Unit:           "tablet",
		ReorderLevel:   10,
		Active:         true,
	}
	if err := db.Create(&f.product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	f.ctx = infraRepo.WithBranch(infraRepo.WithOrganization(context.Background(), f.org.ID), f.branch.ID)
	return f
}

// seedBatch creates a batch of the fixture product at the fixture branch
func (f *testFixture) seedBatch(t *testing.T, quantity int, sellingPrice int64, expiryDate *time.Time) entity.Batch {
	t.Helper()
	f.batchSeq++
	selling := sellingPrice
	batch := entity.Batch{
		OrganizationID:  f.org.ID,
		BranchID:        f.branch.ID,
		ProductID:       f.product.ID,
		Quantity:        quantity,
		InitialQuantity: quantity,
		CostPrice:       sellingPrice / 2,
		SellingPrice:    &selling,
		BatchNumber:     fmt.Sprintf("LOT-%03d", f.batchSeq),
		ExpiryDate:      expiryDate,
		SupplierType:    enum.SupplierTypeCustom,
		IsActive:        true,
		CreatedByID:     f.user.ID,
	}
	if err := f.db.Create(&batch).Error; err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return batch
}

func (f *testFixture) batchQuantity(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var batch entity.Batch
	if err := f.db.First(&batch, "id = ?", id).Error; err != nil {
		t.Fatalf("load batch: %v", err)
	}
	return batch.Quantity
}

func daysFromNow(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}

func TestIdempotencyKeyGeneratesID(t *testing.T) {
	f := newTestFixture(t)

	key := entity.IdempotencyKey{
		Key:          "b1946ac9-complete-sale",
		UserID:       f.user.ID,
		Endpoint:     "POST /sales/complete",
		ResponseCode: 200,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}
	if err := f.db.Create(&key).Error; err != nil {
		t.Fatalf("create idempotency key: %v", err)
	}
	if key.ID == uuid.Nil {
		t.Fatal("expected an ID to be generated on create")
	}
}
