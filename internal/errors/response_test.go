package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "8f2c1d6e-trace"
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_Defaults() {
	response := NewErrorResponse(ReportInvalidType, s.traceID)

	s.Equal(http.StatusBadRequest, response.Error.StatusCode)
	s.Equal("REPORT_001", response.Error.Code)
	s.Equal("Invalid report type", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_Options() {
	response := NewErrorResponse(BudgetNotFound, s.traceID,
		WithMessage("first"),
		WithDetails("ignored"),
		WithMessage("Budget 42 not found"),
		WithDetails("budget_id: 42"),
	)

	// later options win
	s.Equal("Budget 42 not found", response.Error.Message)
	s.Equal([]string{"budget_id: 42"}, response.Error.Details)
	s.Equal(http.StatusNotFound, response.Error.StatusCode)
}

func (s *ResponseTestSuite) TestNewValidationError_SortedDetails() {
	response := NewValidationError(map[string]string{
		"userName":   "must not be blank",
		"reportType": "must be a valid report type (monthly, yearly)",
		"amount":     "must be greater than 0",
	}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal(http.StatusBadRequest, response.Error.StatusCode)
	s.Equal([]string{
		"amount: must be greater than 0",
		"reportType: must be a valid report type (monthly, yearly)",
		"userName: must not be blank",
	}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_Empty() {
	response := NewValidationError(map[string]string{}, s.traceID)

	s.NotNil(response.Error.Details)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationErrorFromList() {
	response := NewValidationErrorFromList([]string{"budgetLimit: must be greater than 0"}, s.traceID)

	s.Equal("Validation failed", response.Error.Message)
	s.Len(response.Error.Details, 1)

	response = NewValidationErrorFromList(nil, s.traceID)
	s.NotNil(response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesInternalDetail() {
	internal := errors.New("pq: relation \"expenses\" does not exist")

	response, err := WrapSystemError(internal, s.traceID)

	s.Same(internal, err)
	s.Equal("Server error, Please try again later!", response.Error.Message)
	s.Equal(http.StatusInternalServerError, response.Error.StatusCode)

	body, jsonErr := response.ToJSON()
	s.Require().NoError(jsonErr)
	s.NotContains(string(body), "relation")
}

func (s *ResponseTestSuite) TestWrapDatabaseError() {
	internal := errors.New("connection reset by peer")

	response, err := WrapDatabaseError(internal, s.traceID)

	s.Same(internal, err)
	s.Equal(string(SystemDatabaseError), response.Error.Code)
	s.True(response.IsServerError())
}

func (s *ResponseTestSuite) TestToJSON_Envelope() {
	response := NewErrorResponse(ExpenseNotFound, s.traceID, WithDetails("expense_id: 7"))

	body, err := response.ToJSON()
	s.Require().NoError(err)

	var envelope map[string]map[string]any
	s.Require().NoError(json.Unmarshal(body, &envelope))

	inner := envelope["error"]
	s.Equal(float64(http.StatusNotFound), inner["status_code"])
	s.Equal("EXPENSE_001", inner["code"])
	s.Equal("Expense not found", inner["message"])
	s.Equal(s.traceID, inner["trace_id"])
	s.Equal([]any{"expense_id: 7"}, inner["details"])
}

func (s *ResponseTestSuite) TestToJSON_OmitsEmptyDetails() {
	body, err := NewErrorResponse(AuthMissingToken, s.traceID).ToJSON()

	s.Require().NoError(err)
	s.NotContains(string(body), "details")
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	cases := map[ErrorCode]int{
		ValidationRequiredField:    http.StatusBadRequest,
		UserAlreadyExists:          http.StatusBadRequest,
		BudgetNoChanges:            http.StatusBadRequest,
		ReportInvalidUserName:      http.StatusBadRequest,
		AuthExpiredToken:           http.StatusUnauthorized,
		AuthInsufficientPermission: http.StatusForbidden,
		UserRegistrationInvalid:    http.StatusForbidden,
		UserNotFound:               http.StatusNotFound,
		SystemNotFound:             http.StatusNotFound,
		SystemRateLimitExceeded:    http.StatusTooManyRequests,
		SystemServiceUnavailable:   http.StatusServiceUnavailable,
		SystemConfigurationError:   http.StatusInternalServerError,
		ErrorCode("NOPE_999"):      http.StatusInternalServerError,
	}

	for code, status := range cases {
		s.Equal(status, GetHTTPStatus(code), string(code))
	}
}

func (s *ResponseTestSuite) TestClientServerClassification() {
	client := NewErrorResponse(ReportInvalidType, s.traceID)
	s.True(client.IsClientError())
	s.False(client.IsServerError())
	s.Equal(http.StatusBadRequest, client.GetHTTPStatus())

	server := NewErrorResponse(SystemUnexpectedError, s.traceID)
	s.False(server.IsClientError())
	s.True(server.IsServerError())
}

func (s *ResponseTestSuite) TestString() {
	response := NewErrorResponse(ReportInvalidUserName, s.traceID)

	s.Equal("[REPORT_002] Invalid username (trace: 8f2c1d6e-trace)", response.String())
}
