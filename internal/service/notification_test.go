package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/upassistify/upassistify/internal/api/dto"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/testutil"
	"github.com/upassistify/upassistify/internal/types"
)

type NotificationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service NotificationService
}

func TestNotificationService(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewNotificationService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *NotificationServiceSuite) TestSendSignupWelcome() {
	resp, err := s.service.SendSignupWelcome(s.GetContext(), dto.WelcomeEmailRequest{Email: "jamie@example.com"})
	s.Require().NoError(err)
	s.True(resp.Success)
	s.NotEmpty(resp.ID)

	sent := s.GetMocks().Mailer.SentTo("jamie@example.com")
	s.Require().Len(sent, 1)
	s.Equal("Welcome to UpAssistify!", sent[0].Subject)
	s.Contains(sent[0].HTML, "jamie")
}

func (s *NotificationServiceSuite) TestSendProfileWelcomeUsesName() {
	_, err := s.service.SendProfileWelcome(s.GetContext(), dto.WelcomeEmailRequest{Email: "r@example.com", Name: "Robin"})
	s.Require().NoError(err)

	sent := s.GetMocks().Mailer.SentTo("r@example.com")
	s.Require().Len(sent, 1)
	s.Contains(sent[0].HTML, "Robin")
}

func (s *NotificationServiceSuite) TestSendPasswordReset() {
	_, err := s.service.SendPasswordReset(s.GetContext(), dto.PasswordResetEmailRequest{
		Email:     "r@example.com",
		ResetLink: "https://upassistify.example/reset?token=abc",
	})
	s.Require().NoError(err)

	sent := s.GetMocks().Mailer.SentTo("r@example.com")
	s.Require().Len(sent, 1)
	s.Equal("Reset Your Password", sent[0].Subject)
	s.Contains(sent[0].HTML, "https://upassistify.example/reset?token=abc")

	_, err = s.service.SendPasswordReset(s.GetContext(), dto.PasswordResetEmailRequest{Email: "r@example.com", ResetLink: "not a url"})
	s.True(ierr.IsValidation(err))
}

func (s *NotificationServiceSuite) TestSendPurchaseConfirmation() {
	_, err := s.service.SendPurchaseConfirmation(s.GetContext(), dto.PurchaseConfirmationRequest{
		Email:         "buyer@example.com",
		Plan:          types.PlanTypeMonthly,
		Amount:        json.RawMessage("9.5"),
		TransactionID: "pi_123",
	})
	s.Require().NoError(err)

	sent := s.GetMocks().Mailer.SentTo("buyer@example.com")
	s.Require().Len(sent, 1)
	s.Equal("Payment Confirmed - Monthly Subscription", sent[0].Subject)
	s.Contains(sent[0].HTML, "$9.50")
	s.Contains(sent[0].HTML, "pi_123")
}

func (s *NotificationServiceSuite) TestSendPurchaseConfirmationUnknownPlanFallsBack() {
	_, err := s.service.SendPurchaseConfirmation(s.GetContext(), dto.PurchaseConfirmationRequest{
		Email:  "buyer@example.com",
		Plan:   "enterprise",
		Amount: json.RawMessage("100"),
	})
	s.Require().NoError(err)

	sent := s.GetMocks().Mailer.SentTo("buyer@example.com")
	s.Require().Len(sent, 1)
	s.Equal("Payment Confirmed - Lifetime Access", sent[0].Subject)
}

func (s *NotificationServiceSuite) TestSendPurchaseConfirmationValidation() {
	_, err := s.service.SendPurchaseConfirmation(s.GetContext(), dto.PurchaseConfirmationRequest{
		Email:  "buyer@example.com",
		Plan:   types.PlanTypeMonthly,
		Amount: json.RawMessage(`"9.5"`),
	})
	s.True(ierr.IsValidation(err))
	s.Equal("Valid amount is required", ierr.DisplayMessage(err, ""))
}

func (s *NotificationServiceSuite) TestMailerFailureIsReturned() {
	s.GetMocks().Mailer.FailAll(true)

	_, err := s.service.SendSignupWelcome(s.GetContext(), dto.WelcomeEmailRequest{Email: "x@example.com"})
	s.True(ierr.IsHTTPClient(err))
}
