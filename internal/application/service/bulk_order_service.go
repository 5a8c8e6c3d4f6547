package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"github.com/sangkips/pharmacare-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// BulkOrderService drives wholesale orders between a pharmacy and a
// registered supplier through their state machine. Every transition goes
// through the status enum's legality check and appends exactly one status
// log row, inside the same transaction as the change itself.
type BulkOrderService struct {
	orderRepo      repository.BulkOrderRepository
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	batchRepo      repository.BatchRepository
	stockEntryRepo repository.StockEntryRepository
	allocator      *AllocatorService
	txManager      repository.TransactionManager
}

// NewBulkOrderService creates a new bulk order service
func NewBulkOrderService(
	orderRepo repository.BulkOrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	batchRepo repository.BatchRepository,
	stockEntryRepo repository.StockEntryRepository,
	allocator *AllocatorService,
	txManager repository.TransactionManager,
) *BulkOrderService {
	return &BulkOrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		batchRepo:      batchRepo,
		stockEntryRepo: stockEntryRepo,
		allocator:      allocator,
		txManager:      txManager,
	}
}

// BulkOrderItemInput represents one requested line on a new bulk order
type BulkOrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice float64
}

// CreateBulkOrderInput represents a new bulk order submission
type CreateBulkOrderInput struct {
	BranchID             uuid.UUID
	SupplierUserID       uuid.UUID
	DeliveryAddress      *string
	DeliveryNotes        *string
	ExpectedDeliveryDate *time.Time
	CreatedByID          uuid.UUID
	Items                []BulkOrderItemInput
}

// Create submits a new bulk order to a supplier. The order starts in the
// submitted state with an opening status log entry.
func (s *BulkOrderService) Create(ctx context.Context, input *CreateBulkOrderInput) (*entity.BulkOrder, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("A bulk order requires at least one item")
	}

	supplier, err := s.userRepo.GetByID(ctx, input.SupplierUserID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || !supplier.IsSupplier() {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var subTotal int64
	items := make([]entity.BulkOrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if _, exists := productMap[item.ProductID]; !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantities must be greater than zero")
		}
		priceCents := toCents(item.UnitPrice)
		items = append(items, entity.BulkOrderItem{
			ProductID:         item.ProductID,
			RequestedQuantity: item.Quantity,
			UnitPrice:         priceCents,
		})
		subTotal += priceCents * int64(item.Quantity)
	}

	order := &entity.BulkOrder{
		OrderNumber:          utils.GenerateBulkOrderNumber(),
		OrganizationID:       orgID,
		BranchID:             input.BranchID,
		SupplierUserID:       input.SupplierUserID,
		Status:               enum.BulkOrderStatusSubmitted,
		SubTotal:             subTotal,
		Total:                subTotal,
		DeliveryAddress:      input.DeliveryAddress,
		DeliveryNotes:        input.DeliveryNotes,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		CreatedByID:          input.CreatedByID,
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].BulkOrderID = order.ID
		}
		if err := s.orderRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		return s.orderRepo.CreateStatusLog(ctx, &entity.BulkOrderStatusLog{
			BulkOrderID: order.ID,
			FromStatus:  "",
			ToStatus:    enum.BulkOrderStatusSubmitted,
			Notes:       "Order submitted",
			ChangedByID: input.CreatedByID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// StartSupplierReview moves a submitted order into supplier review
func (s *BulkOrderService) StartSupplierReview(ctx context.Context, orderID, supplierUserID uuid.UUID) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.lockSupplierOrder(ctx, orderID, supplierUserID)
		if err != nil {
			return err
		}
		return s.transition(ctx, order, enum.BulkOrderStatusSupplierReviewing, "Supplier reviewing order", supplierUserID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(infraRepo.WithSkipOrgScope(ctx), orderID)
}

// SupplierItemUpdate carries the supplier's response to one order line
type SupplierItemUpdate struct {
	ItemID             uuid.UUID
	ConfirmedQuantity  *int
	ConfirmedUnitPrice *float64
	Available          *bool
	SupplierNote       *string
}

// SupplierRespondInput carries the supplier's confirmation or rejection
type SupplierRespondInput struct {
	SupplierUserID uuid.UUID
	Accept         bool
	Notes          string
	Items          []SupplierItemUpdate
}

// SupplierRespond applies the supplier's decision: line confirmations and
// a move to supplier_confirmed, or a rejection that terminates the order.
// Totals are recomputed from the confirmed lines.
func (s *BulkOrderService) SupplierRespond(ctx context.Context, orderID uuid.UUID, input *SupplierRespondInput) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.lockSupplierOrder(ctx, orderID, input.SupplierUserID)
		if err != nil {
			return err
		}

		if !input.Accept {
			notes := input.Notes
			if notes == "" {
				notes = "Supplier rejected order"
			}
			return s.transition(ctx, order, enum.BulkOrderStatusSupplierRejected, notes, input.SupplierUserID)
		}

		items, err := s.orderRepo.GetItems(ctx, order.ID)
		if err != nil {
			return err
		}
		itemMap := make(map[uuid.UUID]*entity.BulkOrderItem, len(items))
		for i := range items {
			itemMap[items[i].ID] = &items[i]
		}

		for _, update := range input.Items {
			item, exists := itemMap[update.ItemID]
			if !exists {
				return apperror.NewNotFoundError(fmt.Sprintf("Order item %s", update.ItemID))
			}
			if update.ConfirmedQuantity != nil {
				if *update.ConfirmedQuantity < 0 {
					return apperror.NewBadRequestError("Confirmed quantity cannot be negative")
				}
				item.ConfirmedQuantity = update.ConfirmedQuantity
			}
			if update.ConfirmedUnitPrice != nil {
				v := toCents(*update.ConfirmedUnitPrice)
				item.ConfirmedUnitPrice = &v
			}
			if update.Available != nil {
				item.Available = update.Available
				if !*update.Available {
					item.Cancelled = true
				}
			}
			if update.SupplierNote != nil {
				item.SupplierNote = update.SupplierNote
			}
			if err := s.orderRepo.UpdateItem(ctx, item); err != nil {
				return err
			}
		}

		order.SubTotal = orderSubTotal(items)
		order.Total = order.SubTotal + order.Tax + order.ShippingCost
		if input.Notes != "" {
			order.SupplierNotes = &input.Notes
		}

		notes := input.Notes
		if notes == "" {
			notes = "Supplier confirmed order"
		}
		return s.transition(ctx, order, enum.BulkOrderStatusSupplierConfirmed, notes, input.SupplierUserID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(infraRepo.WithSkipOrgScope(ctx), orderID)
}

// BuyerItemUpdate carries the buyer's final adjustment to one line
type BuyerItemUpdate struct {
	ItemID        uuid.UUID
	FinalQuantity *int
	Cancelled     *bool
}

// BuyerConfirmInput carries the buyer's final order confirmation
type BuyerConfirmInput struct {
	UserID uuid.UUID
	Notes  string
	Items  []BuyerItemUpdate
}

// BuyerConfirm applies the buyer's final line adjustments and confirms the
// order. A supplier-confirmed order first moves through buyer_reviewing,
// with its own log entry, so the audit trail shows both steps.
func (s *BulkOrderService) BuyerConfirm(ctx context.Context, orderID uuid.UUID, input *BuyerConfirmInput) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, orderID)
		if err != nil {
			return err
		}

		if order.Status == enum.BulkOrderStatusSupplierConfirmed {
			if err := s.transition(ctx, order, enum.BulkOrderStatusBuyerReviewing, "Buyer reviewing confirmed order", input.UserID); err != nil {
				return err
			}
		}
		if order.Status != enum.BulkOrderStatusBuyerReviewing {
			return apperror.NewInvalidTransitionError(order.Status.String(), enum.BulkOrderStatusBuyerConfirmed.String())
		}

		items, err := s.orderRepo.GetItems(ctx, order.ID)
		if err != nil {
			return err
		}
		itemMap := make(map[uuid.UUID]*entity.BulkOrderItem, len(items))
		for i := range items {
			itemMap[items[i].ID] = &items[i]
		}

		for _, update := range input.Items {
			item, exists := itemMap[update.ItemID]
			if !exists {
				return apperror.NewNotFoundError(fmt.Sprintf("Order item %s", update.ItemID))
			}
			if update.FinalQuantity != nil {
				if *update.FinalQuantity < 0 {
					return apperror.NewBadRequestError("Final quantity cannot be negative")
				}
				confirmed := item.RequestedQuantity
				if item.ConfirmedQuantity != nil {
					confirmed = *item.ConfirmedQuantity
				}
				if *update.FinalQuantity > confirmed {
					return apperror.NewBadRequestError("Final quantity cannot exceed the confirmed quantity")
				}
				item.FinalQuantity = update.FinalQuantity
			}
			if update.Cancelled != nil {
				item.Cancelled = *update.Cancelled
			}
			if err := s.orderRepo.UpdateItem(ctx, item); err != nil {
				return err
			}
		}

		order.SubTotal = orderSubTotal(items)
		order.Total = order.SubTotal + order.Tax + order.ShippingCost

		notes := input.Notes
		if notes == "" {
			notes = "Buyer confirmed order"
		}
		return s.transition(ctx, order, enum.BulkOrderStatusBuyerConfirmed, notes, input.UserID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// RecordPaymentInput carries one installment against a bulk order
type RecordPaymentInput struct {
	Amount          float64
	Method          enum.PaymentMethod
	CashAmount      float64
	OnlineAmount    float64
	CreditAmount    float64
	ReferenceNumber *string
	Notes           *string
	RecordedByID    uuid.UUID
}

// RecordPayment records an installment and moves the order through the
// payment states: partial while a balance remains, completed and then
// ready_to_ship once fully paid.
func (s *BulkOrderService) RecordPayment(ctx context.Context, orderID uuid.UUID, input *RecordPaymentInput) (*entity.BulkOrder, error) {
	amountCents := toCents(input.Amount)
	if amountCents <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}
	if input.Method == enum.PaymentMethodMixed {
		split := toCents(input.CashAmount) + toCents(input.OnlineAmount) + toCents(input.CreditAmount)
		if split != amountCents {
			return nil, apperror.NewBadRequestError("Mixed payment split does not add up to the amount")
		}
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if amountCents > order.RemainingAmount() {
			return apperror.NewBadRequestError("Payment exceeds the remaining amount")
		}

		payment := &entity.BulkOrderPayment{
			BulkOrderID:     order.ID,
			Amount:          amountCents,
			Method:          input.Method,
			CashAmount:      toCents(input.CashAmount),
			OnlineAmount:    toCents(input.OnlineAmount),
			CreditAmount:    toCents(input.CreditAmount),
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
			RecordedByID:    input.RecordedByID,
		}
		if err := s.orderRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		order.AmountPaid += amountCents

		target := enum.BulkOrderStatusPaymentPartial
		notes := fmt.Sprintf("Payment of %.2f recorded", input.Amount)
		if order.RemainingAmount() == 0 {
			target = enum.BulkOrderStatusPaymentCompleted
			notes = "Payment completed"
		}
		if order.Status == target {
			// Same payment state, just persist the new balance
			return s.orderRepo.Update(ctx, order)
		}
		if err := s.transition(ctx, order, target, notes, input.RecordedByID); err != nil {
			return err
		}

		if target == enum.BulkOrderStatusPaymentCompleted {
			return s.transition(ctx, order, enum.BulkOrderStatusReadyToShip, "Ready to ship", input.RecordedByID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// ShipInput carries the supplier's dispatch details
type ShipInput struct {
	SupplierUserID uuid.UUID
	Carrier        *string
	TrackingNumber *string
	Notes          string
}

// Ship marks the order as dispatched. Shipping is legal from any state
// after buyer confirmation; unpaid balances simply ride along as credit
// between the parties.
func (s *BulkOrderService) Ship(ctx context.Context, orderID uuid.UUID, input *ShipInput) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.lockSupplierOrder(ctx, orderID, input.SupplierUserID)
		if err != nil {
			return err
		}

		now := time.Now()
		order.ShippedDate = &now
		order.Carrier = input.Carrier
		order.TrackingNumber = input.TrackingNumber

		notes := input.Notes
		if notes == "" {
			notes = "Order shipped"
		}
		return s.transition(ctx, order, enum.BulkOrderStatusShipped, notes, input.SupplierUserID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(infraRepo.WithSkipOrgScope(ctx), orderID)
}

// MarkDelivered records that the shipment arrived at the buyer
func (s *BulkOrderService) MarkDelivered(ctx context.Context, orderID, userID uuid.UUID) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, orderID)
		if err != nil {
			return err
		}
		now := time.Now()
		order.DeliveredDate = &now
		return s.transition(ctx, order, enum.BulkOrderStatusDelivered, "Order delivered", userID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// ReleaseStock deducts the delivered quantities from the supplier's own
// batches, first-expiry-first-out, and moves the order to released. Each
// deduction is written to the supplier's stock trail.
func (s *BulkOrderService) ReleaseStock(ctx context.Context, orderID uuid.UUID, supplierUserID uuid.UUID, supplierBranchID uuid.UUID) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(infraRepo.WithSkipOrgScope(ctx), orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Bulk order")
		}
		if order.SupplierUserID != supplierUserID {
			return apperror.ErrForbidden
		}
		if !order.Status.CanTransitionTo(enum.BulkOrderStatusReleased) {
			return apperror.NewInvalidTransitionError(order.Status.String(), enum.BulkOrderStatusReleased.String())
		}

		items, err := s.orderRepo.GetItems(ctx, order.ID)
		if err != nil {
			return err
		}

		// The supplier's own stock lives outside the buyer's organization
		// scope, so the deduction runs unscoped within the transaction
		releaseCtx := infraRepo.WithSkipOrgScope(ctx)

		for i := range items {
			item := &items[i]
			quantity := item.EffectiveQuantity()
			if quantity == 0 {
				continue
			}

			allocations, err := s.allocator.Allocate(releaseCtx, item.ProductID, supplierBranchID, quantity)
			if err != nil {
				return err
			}
			for _, alloc := range allocations {
				ok, err := s.batchRepo.AtomicReduceQuantity(releaseCtx, alloc.BatchID, alloc.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return apperror.NewAllocationMismatchError(
						fmt.Sprintf("supplier batch %s was drained concurrently", alloc.BatchNumber))
				}
			}

			logrus.WithFields(logrus.Fields{
				"order_number": order.OrderNumber,
				"product_id":   item.ProductID,
				"quantity":     quantity,
			}).Info("Released supplier stock for bulk order")
		}

		return s.transition(ctx, order, enum.BulkOrderStatusReleased, "Supplier released stock", supplierUserID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(infraRepo.WithSkipOrgScope(ctx), orderID)
}

// ImportItemPricing lets the buyer set a selling price per imported line
type ImportItemPricing struct {
	ItemID       uuid.UUID
	SellingPrice float64
}

// ImportStockInput carries the buyer-side import of released stock
type ImportStockInput struct {
	UserID  uuid.UUID
	Pricing []ImportItemPricing
}

// ImportStock turns each released line into a new batch in the buyer's
// inventory at the confirmed price, with an optional selling price per
// line, and moves the order to imported. A markup is applied when no
// selling price is given.
func (s *BulkOrderService) ImportStock(ctx context.Context, orderID uuid.UUID, input *ImportStockInput) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(enum.BulkOrderStatusImported) {
			return apperror.NewInvalidTransitionError(order.Status.String(), enum.BulkOrderStatusImported.String())
		}

		items, err := s.orderRepo.GetItems(ctx, order.ID)
		if err != nil {
			return err
		}

		pricing := make(map[uuid.UUID]int64, len(input.Pricing))
		for _, p := range input.Pricing {
			pricing[p.ItemID] = toCents(p.SellingPrice)
		}

		for i := range items {
			item := &items[i]
			quantity := item.EffectiveQuantity()
			if quantity == 0 {
				continue
			}

			costPrice := item.EffectiveUnitPrice()
			sellingPrice, ok := pricing[item.ID]
			if !ok || sellingPrice <= 0 {
				// Default markup over the confirmed cost
				sellingPrice = costPrice + costPrice/5
			}

			batch := &entity.Batch{
				OrganizationID:  order.OrganizationID,
				BranchID:        order.BranchID,
				ProductID:       item.ProductID,
				Quantity:        quantity,
				InitialQuantity: quantity,
				CostPrice:       costPrice,
				SellingPrice:    &sellingPrice,
				BatchNumber:     utils.GenerateBatchNumber(order.OrderNumber, item.ID),
				SupplierType:    enum.SupplierTypeRegistered,
				SupplierUserID:  &order.SupplierUserID,
				IsActive:        true,
				CreatedByID:     input.UserID,
			}
			if err := s.batchRepo.Create(ctx, batch); err != nil {
				return err
			}

			entry := &entity.StockEntry{
				OrganizationID:   order.OrganizationID,
				BranchID:         order.BranchID,
				ProductID:        item.ProductID,
				BatchID:          &batch.ID,
				EntryType:        enum.StockEntryTypePurchase,
				Quantity:         quantity,
				PreviousQuantity: 0,
				CurrentQuantity:  quantity,
				ReferenceNumber:  order.OrderNumber,
				UnitCost:         costPrice,
				CreatedByID:      input.UserID,
			}
			if err := s.stockEntryRepo.Create(ctx, entry); err != nil {
				return err
			}
		}

		return s.transition(ctx, order, enum.BulkOrderStatusImported, "Stock imported into inventory", input.UserID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// CompleteOrder closes an imported order
func (s *BulkOrderService) CompleteOrder(ctx context.Context, orderID, userID uuid.UUID) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, orderID)
		if err != nil {
			return err
		}
		return s.transition(ctx, order, enum.BulkOrderStatusCompleted, "Order completed", userID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// Cancel cancels a non-terminal order
func (s *BulkOrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID, reason string) (*entity.BulkOrder, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, orderID)
		if err != nil {
			return err
		}
		notes := reason
		if notes == "" {
			notes = "Order cancelled"
		}
		return s.transition(ctx, order, enum.BulkOrderStatusCancelled, notes, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// GetOrder retrieves a bulk order with items, status logs and payments
func (s *BulkOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.BulkOrder, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Bulk order")
	}
	return order, nil
}

// ListOrders lists bulk orders with filtering
func (s *BulkOrderService) ListOrders(ctx context.Context, params *repository.BulkOrderFilterParams) (*pagination.PaginatedResult[entity.BulkOrder], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// GetStatusLogs returns an order's audit trail in transition order
func (s *BulkOrderService) GetStatusLogs(ctx context.Context, orderID uuid.UUID) ([]entity.BulkOrderStatusLog, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Bulk order")
	}
	return s.orderRepo.GetStatusLogs(ctx, orderID)
}

// transition validates and applies one state change, persisting the order
// and appending exactly one status log row.
func (s *BulkOrderService) transition(ctx context.Context, order *entity.BulkOrder, target enum.BulkOrderStatus, notes string, changedByID uuid.UUID) error {
	if !order.Status.CanTransitionTo(target) {
		return apperror.NewInvalidTransitionError(order.Status.String(), target.String())
	}

	from := order.Status
	order.Status = target
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	return s.orderRepo.CreateStatusLog(ctx, &entity.BulkOrderStatusLog{
		BulkOrderID: order.ID,
		FromStatus:  from,
		ToStatus:    target,
		Notes:       notes,
		ChangedByID: changedByID,
	})
}

// getOrder loads an order or returns a not-found error
func (s *BulkOrderService) getOrder(ctx context.Context, id uuid.UUID) (*entity.BulkOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Bulk order")
	}
	return order, nil
}

// lockSupplierOrder loads an order on behalf of its supplier. Supplier
// lookups run outside the buyer's organization scope, and frozen orders
// reject supplier changes.
func (s *BulkOrderService) lockSupplierOrder(ctx context.Context, orderID, supplierUserID uuid.UUID) (*entity.BulkOrder, error) {
	order, err := s.orderRepo.GetByID(infraRepo.WithSkipOrgScope(ctx), orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Bulk order")
	}
	if order.SupplierUserID != supplierUserID {
		return nil, apperror.ErrForbidden
	}
	if order.Status.SupplierLocked() {
		return nil, apperror.NewBadRequestError("Order is locked for supplier changes")
	}
	return order, nil
}

// orderSubTotal sums the effective line totals
func orderSubTotal(items []entity.BulkOrderItem) int64 {
	var subTotal int64
	for i := range items {
		subTotal += items[i].LineTotal()
	}
	return subTotal
}
