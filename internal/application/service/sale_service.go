package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/config"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"github.com/sangkips/pharmacare-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// SaleService drives the point-of-sale workflow. A sale is saved pending
// with a batch allocation snapshot per line, completed in one transaction
// that deducts the snapshotted stock, and may carry credit that patients
// pay off later.
type SaleService struct {
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	patientRepo    repository.PatientRepository
	batchRepo      repository.BatchRepository
	stockEntryRepo repository.StockEntryRepository
	settingsRepo   repository.SettingsRepository
	allocator      *AllocatorService
	txManager      repository.TransactionManager
	posCfg         config.POSConfig
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	patientRepo repository.PatientRepository,
	batchRepo repository.BatchRepository,
	stockEntryRepo repository.StockEntryRepository,
	settingsRepo repository.SettingsRepository,
	allocator *AllocatorService,
	txManager repository.TransactionManager,
	posCfg config.POSConfig,
) *SaleService {
	return &SaleService{
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		patientRepo:    patientRepo,
		batchRepo:      batchRepo,
		stockEntryRepo: stockEntryRepo,
		settingsRepo:   settingsRepo,
		allocator:      allocator,
		txManager:      txManager,
		posCfg:         posCfg,
	}
}

// SaleItemInput represents one line of a sale request
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// SaveSaleInput represents a sale being saved as a pending bill
type SaveSaleInput struct {
	BranchID     uuid.UUID
	PatientID    *uuid.UUID
	PatientName  string
	PatientPhone string
	Discount     float64
	Notes        *string
	CreatedByID  uuid.UUID
	Items        []SaleItemInput
}

// SavePending saves a sale as a pending bill. Each line is allocated
// against batches first-expiry-first-out and the allocation is stored as
// a snapshot on the line. Stock quantities are not touched until the sale
// completes.
func (s *SaleService) SavePending(ctx context.Context, input *SaveSaleInput) (*entity.Sale, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("A sale requires at least one item")
	}

	patientID, err := s.resolvePatient(ctx, orgID, input.PatientID, input.PatientName, input.PatientPhone)
	if err != nil {
		return nil, err
	}

	items, subTotal, err := s.buildItems(ctx, input.BranchID, input.Items)
	if err != nil {
		return nil, err
	}

	discount := toCents(input.Discount)
	if discount < 0 || discount > subTotal {
		return nil, apperror.NewBadRequestError("Discount cannot be negative or exceed the subtotal")
	}

	taxRate, taxType, err := s.taxPolicy(ctx, orgID, input.BranchID)
	if err != nil {
		return nil, err
	}
	tax, total := applyTax(subTotal, discount, taxRate, taxType)

	sale := &entity.Sale{
		OrganizationID: orgID,
		BranchID:       input.BranchID,
		PatientID:      patientID,
		SaleNumber:     utils.GeneratePendingSaleNumber(branchCode(input.BranchID)),
		Status:         enum.SaleStatusPending,
		SubTotal:       subTotal,
		Discount:       discount,
		Tax:            tax,
		Total:          total,
		Notes:          input.Notes,
		CreatedByID:    input.CreatedByID,
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for i := range items {
			items[i].SaleID = sale.ID
		}
		return s.saleRepo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// UpdatePending replaces a pending sale's lines and recomputes its totals.
// The previous lines are dropped wholesale, so retrying the same update is
// harmless.
func (s *SaleService) UpdatePending(ctx context.Context, saleID uuid.UUID, input *SaveSaleInput) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status != enum.SaleStatusPending {
		return nil, apperror.NewBadRequestError("Only pending sales can be edited")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("A sale requires at least one item")
	}

	patientID, err := s.resolvePatient(ctx, sale.OrganizationID, input.PatientID, input.PatientName, input.PatientPhone)
	if err != nil {
		return nil, err
	}

	items, subTotal, err := s.buildItems(ctx, sale.BranchID, input.Items)
	if err != nil {
		return nil, err
	}

	discount := toCents(input.Discount)
	if discount < 0 || discount > subTotal {
		return nil, apperror.NewBadRequestError("Discount cannot be negative or exceed the subtotal")
	}

	taxRate, taxType, err := s.taxPolicy(ctx, sale.OrganizationID, sale.BranchID)
	if err != nil {
		return nil, err
	}
	tax, total := applyTax(subTotal, discount, taxRate, taxType)

	sale.PatientID = patientID
	sale.SubTotal = subTotal
	sale.Discount = discount
	sale.Tax = tax
	sale.Total = total
	if input.Notes != nil {
		sale.Notes = input.Notes
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.saleRepo.DeleteItemsBySaleID(ctx, sale.ID); err != nil {
			return err
		}
		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := s.saleRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		return s.saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// SalePaymentInput represents one tendered payment at completion
type SalePaymentInput struct {
	Amount          float64
	Method          enum.PaymentMethod
	ReferenceNumber *string
}

// CompleteSaleInput represents the payments taken at completion. Several
// payments may be tendered against one sale; their sum need not equal the
// total — a shortfall becomes credit and an excess becomes change.
type CompleteSaleInput struct {
	Payments      []SalePaymentInput
	CompletedByID uuid.UUID
}

// Complete finishes a pending sale: the allocation snapshots are verified
// against current stock, each allocated batch is decremented, stock trail
// entries are written, the bill gets its final number and the payment is
// recorded. Shortfalls against the total become credit when the sale has a
// patient. Everything runs in a single transaction.
func (s *SaleService) Complete(ctx context.Context, saleID uuid.UUID, input *CompleteSaleInput) (*entity.Sale, error) {
	var paid int64
	for _, p := range input.Payments {
		if !p.Method.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid payment method")
		}
		if p.Amount <= 0 {
			return nil, apperror.NewBadRequestError("Payment amounts must be greater than zero")
		}
		paid += toCents(p.Amount)
	}

	var completed *entity.Sale
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Status != enum.SaleStatusPending {
			return apperror.NewBadRequestError("Sale is not pending")
		}

		for i := range sale.Items {
			item := &sale.Items[i]
			err := s.allocator.Validate(ctx, item.AllocatedBatches)
			// The snapshot must still cover the full line quantity; a
			// missing or short snapshot would complete the sale without
			// deducting the stock it charges for
			if err == nil && item.AllocatedBatches.TotalQuantity() != item.Quantity {
				err = apperror.NewAllocationMismatchError(
					fmt.Sprintf("snapshot covers %d of %d units", item.AllocatedBatches.TotalQuantity(), item.Quantity))
			}
			if err != nil {
				if !s.posCfg.ReallocateOnMismatch {
					return err
				}
				logrus.WithFields(logrus.Fields{
					"sale_id":    sale.ID,
					"product_id": item.ProductID,
				}).Warn("Allocation snapshot stale, reallocating")
				fresh, allocErr := s.allocator.Allocate(ctx, item.ProductID, sale.BranchID, item.Quantity)
				if allocErr != nil {
					return allocErr
				}
				item.AllocatedBatches = fresh
				item.UnitPrice = fresh[0].UnitPrice
				item.Total = lineTotal(fresh)
			}
		}

		// Re-derive totals from the (possibly refreshed) lines
		var subTotal int64
		for i := range sale.Items {
			subTotal += sale.Items[i].Total
		}
		taxRate, taxType, err := s.taxPolicy(ctx, sale.OrganizationID, sale.BranchID)
		if err != nil {
			return err
		}
		tax, total := applyTax(subTotal, sale.Discount, taxRate, taxType)

		// Deduct stock batch by batch; the conditional update catches any
		// concurrent sale that drained a batch after validation
		for i := range sale.Items {
			item := &sale.Items[i]
			for _, alloc := range item.AllocatedBatches {
				ok, err := s.batchRepo.AtomicReduceQuantity(ctx, alloc.BatchID, alloc.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return apperror.NewAllocationMismatchError(
						fmt.Sprintf("batch %s was drained by a concurrent sale", alloc.BatchNumber))
				}
			}
		}

		change := int64(0)
		credit := int64(0)
		if paid > total {
			change = paid - total
		} else if paid < total {
			credit = total - paid
		}
		if credit > 0 && sale.PatientID == nil {
			return apperror.NewBadRequestError("Credit sales require a patient")
		}

		now := time.Now()
		sale.SaleNumber = utils.GenerateBillNumber(branchCode(sale.BranchID))
		sale.Status = enum.SaleStatusCompleted
		sale.SubTotal = subTotal
		sale.Tax = tax
		sale.Total = total
		sale.AmountPaid = paid
		sale.Change = change
		sale.Credit = credit
		sale.PaymentMethod = enum.PaymentMethodCredit
		if len(input.Payments) == 1 {
			sale.PaymentMethod = input.Payments[0].Method
		} else if len(input.Payments) > 1 {
			sale.PaymentMethod = enum.PaymentMethodMixed
		}
		sale.CompletedByID = &input.CompletedByID
		sale.CompletedAt = &now

		if err := s.saleRepo.Update(ctx, sale); err != nil {
			return err
		}

		// Persist any refreshed line snapshots
		if err := s.saleRepo.DeleteItemsBySaleID(ctx, sale.ID); err != nil {
			return err
		}
		items := make([]entity.SaleItem, len(sale.Items))
		for i := range sale.Items {
			items[i] = sale.Items[i]
			items[i].ID = uuid.Nil
			items[i].SaleID = sale.ID
		}
		if err := s.saleRepo.CreateItems(ctx, items); err != nil {
			return err
		}

		for _, p := range input.Payments {
			payment := &entity.Payment{
				SaleID:          sale.ID,
				Amount:          toCents(p.Amount),
				Method:          p.Method,
				ReferenceNumber: p.ReferenceNumber,
				ReceivedByID:    input.CompletedByID,
			}
			if err := s.saleRepo.CreatePayment(ctx, payment); err != nil {
				return err
			}
		}

		for i := range items {
			item := &items[i]
			for _, alloc := range item.AllocatedBatches {
				batch, err := s.batchRepo.GetByID(ctx, alloc.BatchID)
				if err != nil {
					return err
				}
				previous := 0
				current := 0
				if batch != nil {
					current = batch.Quantity
					previous = current + alloc.Quantity
				}
				entry := &entity.StockEntry{
					OrganizationID:   sale.OrganizationID,
					BranchID:         sale.BranchID,
					ProductID:        item.ProductID,
					BatchID:          &alloc.BatchID,
					EntryType:        enum.StockEntryTypeSale,
					Quantity:         -alloc.Quantity,
					PreviousQuantity: previous,
					CurrentQuantity:  current,
					ReferenceNumber:  sale.SaleNumber,
					UnitCost:         alloc.UnitPrice,
					CreatedByID:      input.CompletedByID,
				}
				if err := s.stockEntryRepo.Create(ctx, entry); err != nil {
					return err
				}
			}
		}

		completed = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, completed.ID)
}

// PayCredit records a payment against a completed sale's outstanding credit
func (s *SaleService) PayCredit(ctx context.Context, saleID uuid.UUID, amount float64, method enum.PaymentMethod, referenceNumber *string, receivedByID uuid.UUID) (*entity.Sale, error) {
	if !method.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}

	amountCents := toCents(amount)
	if amountCents <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Status != enum.SaleStatusCompleted {
			return apperror.NewBadRequestError("Credit payments apply to completed sales only")
		}
		if !sale.HasCredit() {
			return apperror.NewBadRequestError("Sale has no outstanding credit")
		}
		if amountCents > sale.Credit {
			return apperror.NewBadRequestError("Payment exceeds the outstanding credit")
		}

		sale.AmountPaid += amountCents
		sale.Credit -= amountCents
		if err := s.saleRepo.Update(ctx, sale); err != nil {
			return err
		}

		return s.saleRepo.CreatePayment(ctx, &entity.Payment{
			SaleID:          sale.ID,
			Amount:          amountCents,
			Method:          method,
			ReferenceNumber: referenceNumber,
			ReceivedByID:    receivedByID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// Delete removes a sale. Completed sales have their stock restored to the
// exact batches in each line's snapshot before the rows are dropped; the
// restore is written to the stock trail as a return.
func (s *SaleService) Delete(ctx context.Context, saleID uuid.UUID, role enum.UserRole, deletedByID uuid.UUID) error {
	if !role.CanDeleteSales() {
		return apperror.ErrForbidden
	}

	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}

		if sale.Status == enum.SaleStatusCompleted {
			for i := range sale.Items {
				item := &sale.Items[i]
				for _, alloc := range item.AllocatedBatches {
					if err := s.batchRepo.IncrementQuantity(ctx, alloc.BatchID, alloc.Quantity); err != nil {
						return err
					}
					batch, err := s.batchRepo.GetByID(ctx, alloc.BatchID)
					if err != nil {
						return err
					}
					current := alloc.Quantity
					if batch != nil {
						current = batch.Quantity
					}
					entry := &entity.StockEntry{
						OrganizationID:   sale.OrganizationID,
						BranchID:         sale.BranchID,
						ProductID:        item.ProductID,
						BatchID:          &alloc.BatchID,
						EntryType:        enum.StockEntryTypeReturn,
						Quantity:         alloc.Quantity,
						PreviousQuantity: current - alloc.Quantity,
						CurrentQuantity:  current,
						ReferenceNumber:  sale.SaleNumber,
						UnitCost:         alloc.UnitPrice,
						CreatedByID:      deletedByID,
					}
					if err := s.stockEntryRepo.Create(ctx, entry); err != nil {
						return err
					}
				}
			}
		}

		return s.saleRepo.Delete(ctx, sale.ID)
	})
}

// GetSale retrieves a sale with its items, payments and patient
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListPendingBills lists the saved bills waiting at a branch
func (s *SaleService) ListPendingBills(ctx context.Context, branchID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.ListPending(ctx, branchID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// GetReceipt builds the printable receipt for a completed sale
func (s *SaleService) GetReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status != enum.SaleStatusCompleted {
		return nil, apperror.NewBadRequestError("Receipts are only available for completed sales")
	}

	settings, err := s.settingsRepo.GetForBranch(ctx, sale.OrganizationID, &sale.BranchID)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		BillNumber:    sale.SaleNumber,
		PaymentMethod: sale.PaymentMethod.String(),
		SubTotal:      float64(sale.SubTotal) / 100,
		Discount:      float64(sale.Discount) / 100,
		Tax:           float64(sale.Tax) / 100,
		Total:         float64(sale.Total) / 100,
		Paid:          float64(sale.AmountPaid) / 100,
		Change:        float64(sale.Change) / 100,
		Credit:        float64(sale.Credit) / 100,
	}
	if sale.CompletedAt != nil {
		receipt.Date = sale.CompletedAt.Format("2006-01-02 15:04")
	}
	if settings != nil {
		receipt.Header.BusinessName = settings.BusinessName
		if settings.Address != nil {
			receipt.Header.Address = *settings.Address
		}
		if settings.Phone != nil {
			receipt.Header.Phone = *settings.Phone
		}
		receipt.Footer = settings.ReceiptFooter
	}
	if sale.Patient != nil {
		receipt.Patient = sale.Patient.FullName()
	}
	for i := range sale.Items {
		item := &sale.Items[i]
		name := item.Product.DisplayName()
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
		})
	}

	return receipt, nil
}

// PreviewAllocation plans batch coverage for one line without saving
// anything, so the register can show which lots a sale would draw from.
func (s *SaleService) PreviewAllocation(ctx context.Context, productID, branchID uuid.UUID, quantity int) (entity.BatchAllocationList, error) {
	return s.allocator.Allocate(ctx, productID, branchID, quantity)
}

// StockAvailability reports whether one requested line can be covered
type StockAvailability struct {
	ProductID  uuid.UUID `json:"product_id"`
	Requested  int       `json:"requested"`
	Available  int       `json:"available"`
	Sufficient bool      `json:"sufficient"`
}

// ValidateStock checks each requested line against the quantity on hand
// at a branch, without allocating or reserving anything.
func (s *SaleService) ValidateStock(ctx context.Context, branchID uuid.UUID, items []SaleItemInput) ([]StockAvailability, error) {
	results := make([]StockAvailability, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Quantities must be greater than zero")
		}
		available, err := s.batchRepo.TotalAvailable(ctx, item.ProductID, branchID)
		if err != nil {
			return nil, err
		}
		results = append(results, StockAvailability{
			ProductID:  item.ProductID,
			Requested:  item.Quantity,
			Available:  available,
			Sufficient: available >= item.Quantity,
		})
	}
	return results, nil
}

// buildItems allocates every requested line and returns the built sale
// items with the running subtotal.
func (s *SaleService) buildItems(ctx context.Context, branchID uuid.UUID, inputs []SaleItemInput) ([]entity.SaleItem, int64, error) {
	productIDs := make([]uuid.UUID, len(inputs))
	for i, item := range inputs {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, 0, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var subTotal int64
	items := make([]entity.SaleItem, 0, len(inputs))
	for _, input := range inputs {
		product, exists := productMap[input.ProductID]
		if !exists {
			return nil, 0, apperror.NewNotFoundError(fmt.Sprintf("Product %s", input.ProductID))
		}
		if input.Quantity <= 0 {
			return nil, 0, apperror.NewBadRequestError(fmt.Sprintf("Invalid quantity for %s", product.DisplayName()))
		}

		allocations, err := s.allocator.Allocate(ctx, input.ProductID, branchID, input.Quantity)
		if err != nil {
			return nil, 0, err
		}

		total := lineTotal(allocations)
		items = append(items, entity.SaleItem{
			ProductID:        input.ProductID,
			Quantity:         input.Quantity,
			UnitPrice:        allocations[0].UnitPrice,
			Total:            total,
			AllocatedBatches: allocations,
		})
		subTotal += total
	}

	return items, subTotal, nil
}

// resolvePatient returns the patient to attach: the given ID when set, a
// freshly registered walk-in when a name is supplied, nil otherwise.
func (s *SaleService) resolvePatient(ctx context.Context, orgID uuid.UUID, patientID *uuid.UUID, name, phone string) (*uuid.UUID, error) {
	if patientID != nil {
		patient, err := s.patientRepo.GetByID(ctx, *patientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, apperror.NewNotFoundError("Patient")
		}
		return patientID, nil
	}

	if name == "" {
		return nil, nil
	}

	if phone != "" {
		existing, err := s.patientRepo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &existing.ID, nil
		}
	}

	firstName := name
	lastName := ""
	if idx := strings.IndexByte(name, ' '); idx > 0 {
		firstName = name[:idx]
		lastName = name[idx+1:]
	}

	patient := &entity.Patient{
		OrganizationID: orgID,
		PatientNumber:  utils.GeneratePatientNumber(branchCode(orgID)),
		FirstName:      firstName,
		LastName:       lastName,
		PatientType:    "walk_in",
	}
	if phone != "" {
		patient.Phone = &phone
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return &patient.ID, nil
}

/// taxPolicy returns the percentage and mode to apply: the branch or
// organization POS settings when present, the configured default otherwise.
func (s *SaleService) taxPolicy(ctx context.Context, orgID, branchID uuid.UUID) (float64, enum.TaxType, error) {
	settings, err := s.settingsRepo.GetForBranch(ctx, orgID, &branchID)
	if err != nil {
		return 0, enum.TaxTypeExclusive, err
	}
	if settings != nil {
		return settings.TaxRate, settings.TaxType, nil
	}
	return s.posCfg.DefaultTaxRate, enum.TaxTypeExclusive, nil
}

// applyTax computes the tax on the discounted subtotal and the grand
// total. Inclusive tax is already carried by the prices, so it is
// extracted from the taxable amount without raising the total.
func applyTax(subTotal, discount int64, rate float64, taxType enum.TaxType) (tax, total int64) {
	taxable := subTotal - discount
	if taxType == enum.TaxTypeInclusive {
		tax = int64(math.Round(float64(taxable) * rate / (100 + rate)))
		return tax, taxable
	}
	tax = int64(math.Round(float64(taxable) * rate / 100))
	return tax, taxable + tax
}

// toCents converts a currency amount to integer cents, rounding to the
// nearest cent so float inputs like 0.29 survive the conversion intact
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// lineTotal sums an allocation snapshot at each batch's own price
func lineTotal(allocations entity.BatchAllocationList) int64 {
	var total int64
	for _, a := range allocations {
		total += int64(a.Quantity) * a.UnitPrice
	}
	return total
}

// branchCode derives the short code used in generated document numbers
func branchCode(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}
