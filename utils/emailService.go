package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"greenfund/config"
	"greenfund/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through SendGrid when an API key is
// configured, falling back to plain SMTP otherwise.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridApiKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSmtp(to, subject, htmlBody)
}

func sendViaSendGrid(to []string, subject, htmlBody string) error {
	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	from := mail.NewEmail("GreenFund", config.AppConfig.EmailSender)

	for _, addr := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", addr), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			log.Println("Error sending email via SendGrid:", err)
			return err
		}
		if resp.StatusCode >= 300 {
			log.Printf("SendGrid rejected email to %s: %d", addr, resp.StatusCode)
			return fmt.Errorf("sendgrid rejected email, code: %d", resp.StatusCode)
		}
	}
	return nil
}

func sendViaSmtp(to []string, subject, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: GreenFund <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outbound mails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #14532D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #14532D; line-height: 1.6; }
			.content h2 { color: #14532D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #ECFDF5; padding: 15px; border-radius: 4px; border-left: 4px solid #22C55E; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>GREENFUND</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 GreenFund. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a freshly signed-up user
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to GreenFund"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>GreenFund</strong>! Your account has been created.</p>
		<p>Make your first deposit to activate your plan and start earning daily rewards.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendOTPEmail delivers a verification code
func SendOTPEmail(otp, email string) {
	subject := "OTP Verification Code for GreenFund"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) is:</p>
		<h1 style="text-align: center; color: #22C55E; font-size: 40px; margin: 20px 0;">%s</h1>
		<p>Do not share this OTP with anyone. It expires in 10 minutes.</p>
	`, otp)

	go SendEmail([]string{email}, subject, getEmailTemplate("OTP Verification", body))
}

// EmailNotifier adapts the mail triggers to the ledger's notifier
// interface. All sends are fired on goroutines; failures are logged.
type EmailNotifier struct{}

func (EmailNotifier) DepositRequested(email, name string, amount float64, depositID string) {
	if email == "" {
		return
	}
	subject := "Deposit Request Received"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your deposit request of <strong>%.2f</strong>.</p>
		<div class="info-box">Reference: <strong>%s</strong></div>
		<p>Your funds will reflect in your balance once the deposit is approved.</p>
	`, name, amount, depositID)

	go SendEmail([]string{email}, subject, getEmailTemplate("Deposit Received", body))
}

func (EmailNotifier) DepositResolved(email, name string, amount float64, status models.DepositStatus) {
	if email == "" {
		return
	}
	subject := "Deposit Update"
	var body string
	if status == models.DepositStatusProceed {
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>Your deposit of <strong>%.2f</strong> has been approved and credited to your balance.</p>
		`, name, amount)
	} else {
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>Unfortunately your deposit of <strong>%.2f</strong> could not be processed.</p>
			<p>Please contact support if you believe this is a mistake.</p>
		`, name, amount)
	}

	go SendEmail([]string{email}, subject, getEmailTemplate("Deposit Update", body))
}

func (EmailNotifier) WithdrawalRequested(email, name string, amount float64, wType models.WithdrawalType) {
	if email == "" {
		return
	}
	var subject, body string
	switch wType {
	case models.WithdrawalTypeFull:
		subject = "Full Withdrawal Requested"
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>We have received your request to withdraw your full balance of <strong>%.2f</strong>.</p>
			<p>Your account has been deactivated. A new qualifying deposit will reactivate it.</p>
		`, name, amount)
	case models.WithdrawalTypeCustom:
		subject = "Withdrawal Requested"
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>We have received your request to withdraw <strong>%.2f</strong> from your reward balance.</p>
		`, name, amount)
	default:
		subject = "Reward Withdrawal Requested"
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>We have received your request to withdraw your reward balance of <strong>%.2f</strong>.</p>
		`, name, amount)
	}

	go SendEmail([]string{email}, subject, getEmailTemplate("Withdrawal Requested", body))
}

func (EmailNotifier) WithdrawalResolved(email, name string, amount float64, wType models.WithdrawalType, status models.WithdrawalStatus) {
	if email == "" {
		return
	}
	subject := "Withdrawal Update"
	var body string
	if status == models.WithdrawalStatusProceed {
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>Your withdrawal of <strong>%.2f</strong> has been processed and is on its way.</p>
		`, name, amount)
	} else {
		extra := ""
		if wType == models.WithdrawalTypeFull {
			extra = "<p>Your funds have been returned and your account has been reactivated.</p>"
		} else {
			extra = "<p>The amount has been returned to your reward balance.</p>"
		}
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>Your withdrawal of <strong>%.2f</strong> could not be processed.</p>
			%s
		`, name, amount, extra)
	}

	go SendEmail([]string{email}, subject, getEmailTemplate("Withdrawal Update", body))
}
