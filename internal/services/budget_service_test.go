package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/repositories/repository_mocks"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockBudgetRepo *repository_mocks.MockBudgetRepositoryInterface
	service        BudgetServiceInterface
	auditLog       *bytes.Buffer
	userID         uuid.UUID
}

func (s *BudgetServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockBudgetRepo = repository_mocks.NewMockBudgetRepositoryInterface(s.ctrl)
	s.auditLog = &bytes.Buffer{}
	s.service = NewBudgetService(s.mockBudgetRepo, NewAuditLogger(slog.New(slog.NewJSONHandler(s.auditLog, nil))))
	s.userID = uuid.New()
}

func (s *BudgetServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestBudgetServiceSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}

func (s *BudgetServiceTestSuite) TestCreateBudget_Success() {
	category := gofakeit.Word()

	s.mockBudgetRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *models.Budget) error {
			s.Equal(s.userID, b.UserID)
			s.Equal(category, b.BudgetCategory)
			s.Equal(int64(250000), b.BudgetLimit)
			b.ID = uuid.New()
			return nil
		})

	budget, err := s.service.CreateBudget(context.Background(), s.userID, &dto.CreateBudgetRequest{
		BudgetCategory: "  " + category + " ",
		BudgetLimit:    250000,
	})

	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, budget.ID)
	s.Contains(s.auditLog.String(), `"event_type":"budget_created"`)
}

func (s *BudgetServiceTestSuite) TestCreateBudget_InvalidLimit() {
	budget, err := s.service.CreateBudget(context.Background(), s.userID, &dto.CreateBudgetRequest{
		BudgetCategory: "Food",
		BudgetLimit:    0,
	})

	s.ErrorIs(err, ErrInvalidBudget)
	s.Nil(budget)
}

func (s *BudgetServiceTestSuite) TestCreateBudget_RepositoryError() {
	s.mockBudgetRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := s.service.CreateBudget(context.Background(), s.userID, &dto.CreateBudgetRequest{
		BudgetCategory: "Food",
		BudgetLimit:    100,
	})

	s.Error(err)
	s.Contains(err.Error(), "failed to create budget")
}

func (s *BudgetServiceTestSuite) TestGetBudget_NotFound() {
	id := uuid.New()
	s.mockBudgetRepo.EXPECT().GetByID(gomock.Any(), s.userID, id).Return(nil, repositories.ErrBudgetNotFound)

	budget, err := s.service.GetBudget(context.Background(), s.userID, id)

	s.ErrorIs(err, ErrBudgetNotFound)
	s.Nil(budget)
}

func (s *BudgetServiceTestSuite) TestListBudgets_EmptyIsNotNil() {
	s.mockBudgetRepo.EXPECT().ListByUser(gomock.Any(), s.userID).Return(nil, nil)

	budgets, err := s.service.ListBudgets(context.Background(), s.userID)

	s.NoError(err)
	s.NotNil(budgets)
	s.Empty(budgets)
}

func (s *BudgetServiceTestSuite) TestUpdateBudget_MapsErrors() {
	id := uuid.New()
	limit := int64(500)
	update := repositories.BudgetUpdate{BudgetLimit: &limit}

	s.mockBudgetRepo.EXPECT().Update(gomock.Any(), s.userID, id, update).Return(nil, repositories.ErrNothingToUpdate)
	_, err := s.service.UpdateBudget(context.Background(), s.userID, id, update)
	s.ErrorIs(err, ErrNothingToUpdate)

	s.mockBudgetRepo.EXPECT().Update(gomock.Any(), s.userID, id, update).Return(nil, models.ErrInvalidBudgetLimit)
	_, err = s.service.UpdateBudget(context.Background(), s.userID, id, update)
	s.ErrorIs(err, ErrInvalidBudget)
}

func (s *BudgetServiceTestSuite) TestDeleteBudget() {
	id := uuid.New()
	s.mockBudgetRepo.EXPECT().Delete(gomock.Any(), s.userID, id).Return(nil)
	s.NoError(s.service.DeleteBudget(context.Background(), s.userID, id))

	s.mockBudgetRepo.EXPECT().Delete(gomock.Any(), s.userID, id).Return(repositories.ErrBudgetNotFound)
	s.ErrorIs(s.service.DeleteBudget(context.Background(), s.userID, id), ErrBudgetNotFound)
}

func (s *BudgetServiceTestSuite) TestReconcileSpend_ReportOnly() {
	drift := []models.BudgetSpendDrift{{BudgetID: uuid.New(), BudgetCategory: "Food", AmountSpent: 100, ExpenseTotal: 80}}
	s.mockBudgetRepo.EXPECT().ListSpendDrift(gomock.Any(), s.userID).Return(drift, nil)

	result, err := s.service.ReconcileSpend(context.Background(), s.userID, false)

	s.NoError(err)
	s.Equal(drift, result)
}

func (s *BudgetServiceTestSuite) TestReconcileSpend_Fix() {
	first := models.BudgetSpendDrift{BudgetID: uuid.New(), AmountSpent: 100, ExpenseTotal: 80}
	second := models.BudgetSpendDrift{BudgetID: uuid.New(), AmountSpent: 0, ExpenseTotal: 40}

	gomock.InOrder(
		s.mockBudgetRepo.EXPECT().ListSpendDrift(gomock.Any(), s.userID).Return([]models.BudgetSpendDrift{first, second}, nil),
		s.mockBudgetRepo.EXPECT().SyncAmountSpent(gomock.Any(), s.userID, first.BudgetID).Return(int64(80), nil),
		s.mockBudgetRepo.EXPECT().SyncAmountSpent(gomock.Any(), s.userID, second.BudgetID).Return(int64(40), nil),
	)

	result, err := s.service.ReconcileSpend(context.Background(), s.userID, true)

	s.NoError(err)
	s.Len(result, 2)
	s.Equal(2, bytes.Count(s.auditLog.Bytes(), []byte(`"event_type":"budget_spend_reconciled"`)))
}

func (s *BudgetServiceTestSuite) TestReconcileSpend_NoDrift() {
	s.mockBudgetRepo.EXPECT().ListSpendDrift(gomock.Any(), s.userID).Return(nil, nil)

	result, err := s.service.ReconcileSpend(context.Background(), s.userID, true)

	s.NoError(err)
	s.NotNil(result)
	s.Empty(result)
}
