package utils

import (
	"context"
	"edulearn/config"
	"edulearn/logger"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

const appName = "EduLearn"

// SendEmail delivers an html message through SendGrid. Without an API key the
// message is only logged.
func SendEmail(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	if cfg == nil || cfg.SendgridApiKey == "" {
		logger.Log.Info("email not sent, sendgrid is not configured",
			zap.Strings("to", to), zap.String("subject", subject))
		return nil
	}

	p := sgmail.NewPersonalization()
	p.Subject = "[" + appName + "] " + subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(appName, cfg.EmailSender))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlBody))

	req := sendgrid.GetRequest(cfg.SendgridApiKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		logger.Log.Error("sendgrid request failed", zap.Strings("to", to), zap.Error(err))
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		logger.Log.Error("sendgrid rejected email", zap.Int("status", res.StatusCode), zap.String("body", res.Body))
		return fmt.Errorf("sendgrid: status %d", res.StatusCode)
	}

	logger.Log.Debug("email sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
			.info-box { background: #EFF6FF; padding: 15px; border-radius: 4px; border-left: 4px solid #3B82F6; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>EDULEARN</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; EduLearn. Learn anything, anywhere.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Register
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>EduLearn</strong>! Your account has been created.</p>
		<p>Set up your bank account to start enrolling in courses.</p>
	`, html.EscapeString(name))

	go SendEmail([]string{email}, "Welcome to EduLearn", getEmailTemplate("Welcome Onboard!", body))
}

// 2. Wallet top-up
func SendWalletDepositEmail(email, name string, amount, balance decimal.Decimal) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have added <strong>%s</strong> to your wallet.</p>
		<div class="info-box">Current balance: <strong>%s</strong></div>
	`, html.EscapeString(name), amount.StringFixed(2), balance.StringFixed(2))

	go SendEmail([]string{email}, "Funds Added to Wallet", getEmailTemplate("Deposit Confirmed", body))
}

// 3. Enrollment requested (student and instructor)
func SendEnrollmentRequestedEmails(studentEmail, studentName, instructorEmail, instructorName, courseName string, amount decimal.Decimal) {
	studentBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your request to enroll in <strong>%s</strong> has been sent to the instructor.</p>
		<div class="info-box"><strong>%s</strong> is reserved from your wallet until the instructor decides.</div>
	`, html.EscapeString(studentName), html.EscapeString(courseName), amount.StringFixed(2))
	go SendEmail([]string{studentEmail}, "Enrollment Requested: "+courseName, getEmailTemplate("Request Received", studentBody))

	instructorBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p><strong>%s</strong> wants to join <strong>%s</strong>.</p>
		<p>Approve or reject the request from your dashboard.</p>
	`, html.EscapeString(instructorName), html.EscapeString(studentName), html.EscapeString(courseName))
	go SendEmail([]string{instructorEmail}, "New Enrollment Request: "+courseName, getEmailTemplate("Pending Enrollment", instructorBody))
}

// 4. Enrollment approved
func SendEnrollmentApprovedEmail(email, name, courseName string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Great news! Your enrollment in <strong>%s</strong> has been APPROVED.</p>
		<p>All lectures are now available in your dashboard.</p>
	`, html.EscapeString(name), html.EscapeString(courseName))

	go SendEmail([]string{email}, "Enrollment Approved: "+courseName, getEmailTemplate("Enrollment Approved", body))
}

// 5. Enrollment rejected or expired
func SendEnrollmentRejectedEmail(email, name, courseName string, refund decimal.Decimal, expired bool) {
	reason := "was rejected by the instructor"
	if expired {
		reason = "expired before the instructor responded"
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your enrollment request for <strong>%s</strong> %s.</p>
		<div class="info-box"><strong>%s</strong> has been returned to your wallet.</div>
	`, html.EscapeString(name), html.EscapeString(courseName), reason, refund.StringFixed(2))

	go SendEmail([]string{email}, "Enrollment Update: "+courseName, getEmailTemplate("Enrollment Not Approved", body))
}
