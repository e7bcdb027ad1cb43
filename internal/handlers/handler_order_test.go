package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/core/services"
	"github.com/obralink/procurement_backend/internal/dto"
	"github.com/obralink/procurement_backend/internal/handlers"
	"github.com/obralink/procurement_backend/pkg/config"
)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}
func (m *MockOrderService) GetOrder(ctx context.Context, orderID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}
func (m *MockOrderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListOrdersResponse), args.Error(1)
}
func (m *MockOrderService) UpdateOrder(ctx context.Context, orderID string, req dto.UpdateOrderRequest, userID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, orderID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}
func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID string, userID string) error {
	args := m.Called(ctx, orderID, userID)
	return args.Error(0)
}
func (m *MockOrderService) RequestTransition(ctx context.Context, orderID string, req dto.TransitionRequest, userID string) (*dto.TransitionResult, error) {
	args := m.Called(ctx, orderID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransitionResult), args.Error(1)
}
func (m *MockOrderService) CreateBackorder(ctx context.Context, orderID string, req dto.BackorderRequest, userID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, orderID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Test Suite ---
type OrderHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *MockOrderService
	jwtSecret        string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *OrderHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "procurement-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockOrderService = new(MockOrderService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // keeps swagger out of the test router
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Order: suite.mockOrderService,
	})
}

func (suite *OrderHandlerTestSuite) authedRequest(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *OrderHandlerTestSuite) TestGetOrder_Success() {
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := &domain.PurchaseOrder{
		OrderID:     orderID,
		OrderNumber: "PO-1001",
		Status:      domain.StatusPendingApproval,
		TotalAmount: decimal.NewFromInt(525),
	}

	suite.mockOrderService.On("GetOrder", mock.Anything, orderID).Return(order, nil).Once()

	w := suite.authedRequest(http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", orderID), nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OrderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(orderID, resp.OrderID)
	suite.Equal("PO-1001", resp.OrderNumber)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestGetOrder_NotFound() {
	orderID := uuid.NewString()

	suite.mockOrderService.On("GetOrder", mock.Anything, orderID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.authedRequest(http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", orderID), nil, uuid.NewString())

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *OrderHandlerTestSuite) TestGetOrder_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "GetOrder", mock.Anything, mock.Anything)
}

func (suite *OrderHandlerTestSuite) TestCreateOrder_Success() {
	userID := uuid.NewString()
	body := dto.CreateOrderRequest{
		OrderNumber:  "PO-1001",
		ProjectID:    uuid.NewString(),
		SupplierName: "Aceros del Sur",
		Items: []dto.OrderItemRequest{
			{Name: "Rebar 12mm", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromFloat(2.5), LineType: "MATERIAL"},
		},
	}
	created := &domain.PurchaseOrder{
		OrderID:     uuid.NewString(),
		OrderNumber: body.OrderNumber,
		Status:      domain.StatusPendingApproval,
		TotalAmount: decimal.NewFromInt(25),
	}

	suite.mockOrderService.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req dto.CreateOrderRequest) bool {
		return req.OrderNumber == body.OrderNumber && len(req.Items) == 1
	}), userID).Return(created, nil).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/orders", body, userID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.OrderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.OrderID, resp.OrderID)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestCreateOrder_MissingItems() {
	body := dto.CreateOrderRequest{
		OrderNumber:  "PO-1001",
		ProjectID:    uuid.NewString(),
		SupplierName: "Aceros del Sur",
	}

	w := suite.authedRequest(http.MethodPost, "/api/v1/orders", body, uuid.NewString())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderHandlerTestSuite) TestRequestTransition_DisallowedReturnsFailedResult() {
	orderID := uuid.NewString()
	userID := uuid.NewString()
	body := dto.TransitionRequest{TargetStatus: "RECEIVED"}

	suite.mockOrderService.On("RequestTransition", mock.Anything, orderID, mock.Anything, userID).
		Return(&dto.TransitionResult{Success: false, Message: "cannot move order from PENDING_APPROVAL to RECEIVED"}, nil).Once()

	w := suite.authedRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/transition", orderID), body, userID)

	// Disallowed transitions are an outcome, not a transport failure.
	suite.Equal(http.StatusOK, w.Code)
	var result dto.TransitionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.False(result.Success)
	suite.Contains(result.Message, "cannot move order")
}

func (suite *OrderHandlerTestSuite) TestReceiveOrder_RoutedThroughStatusMachine() {
	orderID := uuid.NewString()
	userID := uuid.NewString()
	body := dto.ReceiveOrderRequest{
		Lines:   []dto.ReceivedLineRequest{{ItemID: "item-1", Quantity: decimal.NewFromInt(6)}},
		Comment: "first pallet",
	}

	suite.mockOrderService.On("RequestTransition", mock.Anything, orderID, mock.MatchedBy(func(req dto.TransitionRequest) bool {
		return req.TargetStatus == "RECEIVED" &&
			req.Comment == "first pallet" &&
			len(req.ReceivedLines) == 1 &&
			req.ReceivedLines[0].ItemID == "item-1" &&
			req.ReceivedLines[0].Quantity.Equal(decimal.NewFromInt(6))
	}), userID).
		Return(&dto.TransitionResult{Success: true, Message: "order moved to PARTIALLY_RECEIVED"}, nil).Once()

	w := suite.authedRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/receive", orderID), body, userID)

	suite.Equal(http.StatusOK, w.Code)
	var result dto.TransitionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.True(result.Success)
	suite.Contains(result.Message, "PARTIALLY_RECEIVED")
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestUpdateOrder_ConflictWhenNoLongerEditable() {
	orderID := uuid.NewString()
	userID := uuid.NewString()
	location := "Site B"
	body := dto.UpdateOrderRequest{DeliveryLocation: &location}

	suite.mockOrderService.On("UpdateOrder", mock.Anything, orderID, mock.Anything, userID).
		Return(nil, fmt.Errorf("%w: status is APPROVED", services.ErrOrderNotEditable)).Once()

	w := suite.authedRequest(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s", orderID), body, userID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestDeleteOrder_ConflictAfterApproval() {
	orderID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockOrderService.On("DeleteOrder", mock.Anything, orderID, userID).
		Return(fmt.Errorf("%w: status is SENT_TO_SUPPLIER", services.ErrOrderNotDeletable)).Once()

	w := suite.authedRequest(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%s", orderID), nil, userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrderHandlerTestSuite) TestCreateBackorder_ConflictWhenNotPartiallyReceived() {
	orderID := uuid.NewString()
	userID := uuid.NewString()
	body := dto.BackorderRequest{}

	suite.mockOrderService.On("CreateBackorder", mock.Anything, orderID, mock.Anything, userID).
		Return(nil, fmt.Errorf("%w: status is APPROVED", services.ErrNotPartiallyRecvd)).Once()

	w := suite.authedRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/backorder", orderID), body, userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrderHandlerTestSuite) TestRequests_IssuerMismatchRejected() {
	router := gin.New()
	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		JWTIssuer:    "procurement-backend",
		IsProduction: true,
	}
	handlers.RegisterRoutes(router, cfg, &portssvc.ServiceContainer{Order: suite.mockOrderService})

	// Token signed with the right key but issued by someone else.
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", uuid.NewString()), nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "GetOrder", mock.Anything, mock.Anything)
}

func (suite *OrderHandlerTestSuite) TestDeleteOrder_NoContent() {
	orderID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockOrderService.On("DeleteOrder", mock.Anything, orderID, userID).Return(nil).Once()

	w := suite.authedRequest(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%s", orderID), nil, userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockOrderService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestOrderHandler(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}
