package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/core/services"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntriesByItemID(ctx context.Context, itemID string, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, itemID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByProjectID(ctx context.Context, projectID string, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, projectID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByProjectName(ctx context.Context, projectName string, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, projectName, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListAllEntries(ctx context.Context, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) LoadKeySet(ctx context.Context) (map[domain.LedgerKey]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.LedgerKey]struct{}), args.Error(1)
}

func (m *MockLedgerRepository) KeyExists(ctx context.Context, key domain.LedgerKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) InsertEntries(ctx context.Context, entries []domain.LedgerEntry) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}

// --- Test Suite ---
type ReconcilerServiceTestSuite struct {
	suite.Suite
	mockOrderRepo    *MockOrderRepository
	mockLedgerRepo   *MockLedgerRepository
	mockSupplierRepo *MockSupplierRepository
	mockProjectRepo  *MockProjectRepository
	service          portssvc.ReconcilerSvc
}

func (suite *ReconcilerServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = new(MockOrderRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockSupplierRepo = new(MockSupplierRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.service = services.NewReconcilerService(suite.mockOrderRepo, suite.mockLedgerRepo, suite.mockSupplierRepo, suite.mockProjectRepo)
}

func receivedOrder(orderID, supplierID string, createdAt time.Time) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		OrderID:      orderID,
		OrderNumber:  "PO-" + orderID[:8],
		SupplierID:   supplierID,
		SupplierName: "Aceros del Sur",
		ProjectID:    "project-1",
		ProjectName:  "North Plant",
		Status:       domain.StatusReceived,
		Items: []domain.PurchaseOrderItem{
			{ItemID: "item-1", Name: "Rebar 12mm", SKU: "RB-12", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromFloat(2.5), Unit: "kg", LineType: domain.LineTypeMaterial},
			{Name: "Freight", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(80), LineType: domain.LineTypeService},
		},
		AuditFields: domain.AuditFields{CreatedAt: createdAt},
	}
}

// --- ReconcileAll ---

func (suite *ReconcilerServiceTestSuite) TestReconcileAll_BackfillsMissingEntries() {
	ctx := context.Background()
	createdAt := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	order := receivedOrder(uuid.NewString(), "supplier-1", createdAt)
	supplier := &domain.Supplier{SupplierID: "supplier-1", Name: "Aceros del Sur SA"}
	project := &domain.Project{ProjectID: "project-1", Name: "North Plant Extension"}

	suite.mockOrderRepo.On("ListOrdersByStatuses", ctx, []domain.OrderStatus{domain.StatusSentToSupplier, domain.StatusReceived, domain.StatusPartiallyReceived}).
		Return([]domain.PurchaseOrder{order}, nil).Once()
	suite.mockLedgerRepo.On("LoadKeySet", ctx).Return(map[domain.LedgerKey]struct{}{}, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByID", ctx, "supplier-1").Return(supplier, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, "project-1").Return(project, nil).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		if len(entries) != 1 {
			return false
		}
		e := entries[0]
		return e.OrderID == order.OrderID &&
			e.ItemID == "item-1" &&
			e.SupplierID == "supplier-1" &&
			e.SupplierName == "Aceros del Sur SA" &&
			e.ProjectName == "North Plant Extension" &&
			e.EntryDate.Equal(createdAt) &&
			e.TotalPrice.Equal(decimal.NewFromInt(25))
	})).Return(1, nil).Once()

	result, err := suite.service.ReconcileAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.OrdersProcessed)
	suite.Equal(1, result.EntriesCreated)
	suite.Equal(0, result.Skipped)
	suite.Empty(result.Errors)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestReconcileAll_IncludesSentToSupplierOrders() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())
	order.Status = domain.StatusSentToSupplier

	// Dispatched orders count as purchases; the backfill must pick them up
	// even before any delivery lands.
	suite.mockOrderRepo.On("ListOrdersByStatuses", ctx, mock.MatchedBy(func(statuses []domain.OrderStatus) bool {
		for _, s := range statuses {
			if s == domain.StatusSentToSupplier {
				return true
			}
		}
		return false
	})).Return([]domain.PurchaseOrder{order}, nil).Once()
	suite.mockLedgerRepo.On("LoadKeySet", ctx).Return(map[domain.LedgerKey]struct{}{}, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 1 && entries[0].OrderID == order.OrderID
	})).Return(1, nil).Once()

	result, err := suite.service.ReconcileAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.OrdersProcessed)
	suite.Equal(1, result.EntriesCreated)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestReconcileAll_SkipsExistingKeys() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())

	suite.mockOrderRepo.On("ListOrdersByStatuses", ctx, mock.Anything).
		Return([]domain.PurchaseOrder{order}, nil).Once()
	suite.mockLedgerRepo.On("LoadKeySet", ctx).Return(map[domain.LedgerKey]struct{}{
		{OrderID: order.OrderID, ItemID: "item-1"}: {},
	}, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, "Aceros del Sur").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, "project-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 0
	})).Return(0, nil).Once()

	result, err := suite.service.ReconcileAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.OrdersProcessed)
	suite.Equal(0, result.EntriesCreated)
	suite.Equal(1, result.Skipped)
}

func (suite *ReconcilerServiceTestSuite) TestReconcileAll_SupplierNameFallback() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "gone-supplier", time.Now().UTC())
	supplier := &domain.Supplier{SupplierID: "supplier-2", Name: "Aceros del Sur"}

	suite.mockOrderRepo.On("ListOrdersByStatuses", ctx, mock.Anything).
		Return([]domain.PurchaseOrder{order}, nil).Once()
	suite.mockLedgerRepo.On("LoadKeySet", ctx).Return(map[domain.LedgerKey]struct{}{}, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByID", ctx, "gone-supplier").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, "Aceros del Sur").Return(supplier, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, "project-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 1 && entries[0].SupplierID == "supplier-2"
	})).Return(1, nil).Once()

	result, err := suite.service.ReconcileAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.EntriesCreated)
	suite.mockSupplierRepo.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestReconcileAll_UnresolvedSupplierKeepsName() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())

	suite.mockOrderRepo.On("ListOrdersByStatuses", ctx, mock.Anything).
		Return([]domain.PurchaseOrder{order}, nil).Once()
	suite.mockLedgerRepo.On("LoadKeySet", ctx).Return(map[domain.LedgerKey]struct{}{}, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, "Aceros del Sur").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, "project-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 1 && entries[0].SupplierID == "" && entries[0].SupplierName == "Aceros del Sur"
	})).Return(1, nil).Once()

	result, err := suite.service.ReconcileAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.EntriesCreated)
}

func (suite *ReconcilerServiceTestSuite) TestReconcileAll_InsertFailureReportsPartialProgress() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())

	suite.mockOrderRepo.On("ListOrdersByStatuses", ctx, mock.Anything).
		Return([]domain.PurchaseOrder{order}, nil).Once()
	suite.mockLedgerRepo.On("LoadKeySet", ctx).Return(map[domain.LedgerKey]struct{}{}, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.Anything).Return(0, assert.AnError).Once()

	result, err := suite.service.ReconcileAll(ctx)

	// A mid-run failure is reported inside the result, not as an error.
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(0, result.EntriesCreated)
	suite.Len(result.Errors, 1)
}

// --- ReconcileOrder ---

func (suite *ReconcilerServiceTestSuite) TestReconcileOrder_RecordsReceivedLines() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())

	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(&order, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, "Aceros del Sur").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, "project-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("KeyExists", ctx, domain.LedgerKey{OrderID: order.OrderID, ItemID: "item-1"}).Return(false, nil).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		if len(entries) != 1 {
			return false
		}
		e := entries[0]
		// Incremental entries carry the reconciliation moment, not the order date.
		return e.Quantity.Equal(decimal.NewFromInt(4)) &&
			e.TotalPrice.Equal(decimal.NewFromInt(10)) &&
			time.Since(e.EntryDate) < time.Minute
	})).Return(1, nil).Once()

	lines := []domain.ReceivedLine{{ItemID: "item-1", Quantity: decimal.NewFromInt(4)}}
	result, err := suite.service.ReconcileOrder(ctx, order.OrderID, lines)

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestReconcileOrder_SumsRepeatedItemLines() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())

	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(&order, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("KeyExists", ctx, domain.LedgerKey{OrderID: order.OrderID, ItemID: "item-1"}).Return(false, nil).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 1 &&
			entries[0].Quantity.Equal(decimal.NewFromInt(7)) &&
			entries[0].TotalPrice.Equal(decimal.NewFromFloat(17.5))
	})).Return(1, nil).Once()

	// One request naming the same item twice yields a single summed entry,
	// never two rows fighting over the same key.
	lines := []domain.ReceivedLine{
		{ItemID: "item-1", Quantity: decimal.NewFromInt(3)},
		{ItemID: "item-1", Quantity: decimal.NewFromInt(4)},
	}
	result, err := suite.service.ReconcileOrder(ctx, order.OrderID, lines)

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertNumberOfCalls(suite.T(), "KeyExists", 1)
}

func (suite *ReconcilerServiceTestSuite) TestReconcileOrder_SkipsExistingKey() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())

	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(&order, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("KeyExists", ctx, mock.Anything).Return(true, nil).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 0
	})).Return(0, nil).Once()

	lines := []domain.ReceivedLine{{ItemID: "item-1", Quantity: decimal.NewFromInt(4)}}
	result, err := suite.service.ReconcileOrder(ctx, order.OrderID, lines)

	suite.Require().NoError(err)
	suite.True(result.Success)
}

func (suite *ReconcilerServiceTestSuite) TestReconcileOrder_IgnoresNonMaterialLines() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())

	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(&order, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByName", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("InsertEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 0
	})).Return(0, nil).Once()

	// item-42 is not a material line of the order.
	lines := []domain.ReceivedLine{{ItemID: "item-42", Quantity: decimal.NewFromInt(1)}}
	result, err := suite.service.ReconcileOrder(ctx, order.OrderID, lines)

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "KeyExists", mock.Anything, mock.Anything)
}

func (suite *ReconcilerServiceTestSuite) TestReconcileOrder_WrongStatus() {
	ctx := context.Background()
	order := receivedOrder(uuid.NewString(), "", time.Now().UTC())
	order.Status = domain.StatusSentToSupplier

	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(&order, nil).Once()

	result, err := suite.service.ReconcileOrder(ctx, order.OrderID, nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "InsertEntries", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestReconcilerService(t *testing.T) {
	suite.Run(t, new(ReconcilerServiceTestSuite))
}
