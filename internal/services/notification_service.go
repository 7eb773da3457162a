// internal/services/notification_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/config"
	"github.com/locmaq/locmaq-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	template := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":     user.Username,
		"PlatformURL":  s.config.Frontend.BaseURL,
		"PlatformName": "LocMaq",
	}

	subject := "Bem-vindo à LocMaq"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	template := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username":  user.Username,
		"ResetURL":  fmt.Sprintf("%s/redefinir-senha?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hora",
	}

	subject := "Redefinição de senha"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Quote notifications
func (s *NotificationService) SendQuoteReceivedNotification(quote *models.Quote) error {
	landlord := quote.Landlord

	if err := s.createInAppNotification(quote.LandlordID, "quote_received",
		"Nova solicitação de orçamento",
		fmt.Sprintf("%s solicitou um orçamento para a máquina '%s'", quote.Client.Username, quote.Machine.Name),
		"quote", quote.ID); err != nil {
		return err
	}

	data := map[string]interface{}{
		"LandlordName": landlord.Username,
		"ClientName":   quote.Client.Username,
		"MachineName":  quote.Machine.Name,
		"QuoteURL":     fmt.Sprintf("%s/orcamentos/%s", s.config.Frontend.BaseURL, quote.ID),
	}

	subject := "Nova solicitação de orçamento - " + quote.Machine.Name
	template := s.getEmailTemplate("quote_received")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(landlord.Email, subject, body)
}

func (s *NotificationService) SendQuoteAnsweredNotification(quote *models.Quote) error {
	client := quote.Client

	if err := s.createInAppNotification(quote.ClientID, "quote_answered",
		"Orçamento respondido",
		fmt.Sprintf("O locador respondeu seu orçamento para '%s'", quote.Machine.Name),
		"quote", quote.ID); err != nil {
		return err
	}

	data := map[string]interface{}{
		"ClientName":  client.Username,
		"MachineName": quote.Machine.Name,
		"Price":       quote.ResponsePrice.Decimal.StringFixed(2),
		"QuoteURL":    fmt.Sprintf("%s/orcamentos/%s", s.config.Frontend.BaseURL, quote.ID),
	}

	subject := "Orçamento respondido - " + quote.Machine.Name
	template := s.getEmailTemplate("quote_answered")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(client.Email, subject, body)
}

func (s *NotificationService) SendQuoteRejectedNotification(quote *models.Quote) error {
	client := quote.Client

	if err := s.createInAppNotification(quote.ClientID, "quote_rejected",
		"Orçamento recusado",
		fmt.Sprintf("Seu orçamento para '%s' foi recusado", quote.Machine.Name),
		"quote", quote.ID); err != nil {
		return err
	}

	data := map[string]interface{}{
		"ClientName":  client.Username,
		"MachineName": quote.Machine.Name,
		"Reason":      quote.Response,
	}

	subject := "Orçamento recusado - " + quote.Machine.Name
	template := s.getEmailTemplate("quote_rejected")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(client.Email, subject, body)
}

func (s *NotificationService) SendQuoteApprovedNotification(quote *models.Quote, rental *models.Rental) error {
	landlord := rental.Landlord

	if err := s.createInAppNotification(rental.LandlordID, "quote_approved",
		"Orçamento aprovado",
		fmt.Sprintf("O cliente aprovou o orçamento da máquina '%s' e uma locação foi criada", rental.Machine.Name),
		"rental", rental.ID); err != nil {
		return err
	}

	data := map[string]interface{}{
		"LandlordName": landlord.Username,
		"MachineName":  rental.Machine.Name,
		"Price":        rental.Price.StringFixed(2),
		"RentalURL":    fmt.Sprintf("%s/locacoes/%s", s.config.Frontend.BaseURL, rental.ID),
	}

	subject := "Orçamento aprovado - " + rental.Machine.Name
	template := s.getEmailTemplate("quote_approved")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(landlord.Email, subject, body)
}

// Rental notifications
func (s *NotificationService) SendRentalApprovedNotification(rental *models.Rental) error {
	client := rental.Client

	if err := s.createInAppNotification(rental.ClientID, "rental_approved",
		"Locação confirmada",
		fmt.Sprintf("Sua locação da máquina '%s' foi confirmada e está ativa", rental.Machine.Name),
		"rental", rental.ID); err != nil {
		return err
	}

	data := map[string]interface{}{
		"ClientName":  client.Username,
		"MachineName": rental.Machine.Name,
		"RentalURL":   fmt.Sprintf("%s/locacoes/%s", s.config.Frontend.BaseURL, rental.ID),
	}

	subject := "Locação confirmada - " + rental.Machine.Name
	template := s.getEmailTemplate("rental_approved")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(client.Email, subject, body)
}

func (s *NotificationService) SendRentalRejectedNotification(rental *models.Rental) error {
	client := rental.Client

	if err := s.createInAppNotification(rental.ClientID, "rental_rejected",
		"Locação cancelada",
		fmt.Sprintf("Sua locação da máquina '%s' foi cancelada pelo locador", rental.Machine.Name),
		"rental", rental.ID); err != nil {
		return err
	}

	data := map[string]interface{}{
		"ClientName":  client.Username,
		"MachineName": rental.Machine.Name,
		"Reason":      rental.CancellationReason,
	}

	subject := "Locação cancelada - " + rental.Machine.Name
	template := s.getEmailTemplate("rental_rejected")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(client.Email, subject, body)
}

// Return notifications
func (s *NotificationService) SendReturnRequestedNotification(ret *models.Return, rental *models.Rental) error {
	if err := s.createInAppNotification(rental.LandlordID, "return_requested",
		"Devolução solicitada",
		fmt.Sprintf("O cliente solicitou a devolução da máquina da locação %s", rental.ID),
		"return", ret.ID); err != nil {
		return err
	}

	var landlord models.User
	if err := s.db.First(&landlord, rental.LandlordID).Error; err != nil {
		return fmt.Errorf("landlord not found: %w", err)
	}

	data := map[string]interface{}{
		"LandlordName":  landlord.Username,
		"Method":        string(ret.Method),
		"RequestedDate": ret.RequestedDate.Format("02/01/2006"),
		"ReturnURL":     fmt.Sprintf("%s/devolucoes/%s", s.config.Frontend.BaseURL, ret.ID),
	}

	subject := "Devolução solicitada"
	template := s.getEmailTemplate("return_requested")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(landlord.Email, subject, body)
}

func (s *NotificationService) SendReturnApprovedNotification(ret *models.Return, rental *models.Rental) error {
	if err := s.createInAppNotification(rental.ClientID, "return_approved",
		"Devolução aprovada",
		"Sua solicitação de devolução foi aprovada pelo locador",
		"return", ret.ID); err != nil {
		return err
	}

	var client models.User
	if err := s.db.First(&client, rental.ClientID).Error; err != nil {
		return fmt.Errorf("client not found: %w", err)
	}

	data := map[string]interface{}{
		"ClientName":    client.Username,
		"Method":        string(ret.Method),
		"RequestedDate": ret.RequestedDate.Format("02/01/2006"),
	}

	subject := "Devolução aprovada"
	template := s.getEmailTemplate("return_approved")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(client.Email, subject, body)
}

func (s *NotificationService) SendReturnCompletedNotification(ret *models.Return, rental *models.Rental) error {
	if err := s.createInAppNotification(rental.ClientID, "return_completed",
		"Devolução concluída",
		"A devolução foi concluída e sua locação está encerrada",
		"return", ret.ID); err != nil {
		return err
	}

	var client models.User
	if err := s.db.First(&client, rental.ClientID).Error; err != nil {
		return fmt.Errorf("client not found: %w", err)
	}

	data := map[string]interface{}{
		"ClientName": client.Username,
		"RentalURL":  fmt.Sprintf("%s/locacoes/%s", s.config.Frontend.BaseURL, rental.ID),
	}

	subject := "Devolução concluída"
	template := s.getEmailTemplate("return_completed")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(client.Email, subject, body)
}

// Admin notifications
func (s *NotificationService) SendUserStatusChangeNotification(user *models.User, oldStatus models.UserStatus, reason string) error {
	data := map[string]interface{}{
		"Username":  user.Username,
		"NewStatus": user.Status,
		"OldStatus": oldStatus,
		"Reason":    reason,
	}

	subject := "Atualização do status da conta"
	template := s.getEmailTemplate("user_status_change")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// In-app notification access
func (s *NotificationService) ListNotifications(userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("status = ?", models.NotificationStatusUnread)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationStatusUnread).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkNotificationRead(id, userID uuid.UUID) error {
	now := time.Now()
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllNotificationsRead(userID uuid.UUID) error {
	now := time.Now()
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationStatusUnread).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": now,
		}).Error; err != nil {
		return fmt.Errorf("failed to update notifications: %w", err)
	}
	return nil
}

// Helper methods
func (s *NotificationService) createInAppNotification(userID uuid.UUID, notifType, title, message, resourceType string, resourceID uuid.UUID) error {
	notification := &models.Notification{
		UserID:              userID,
		Type:                notifType,
		Title:               title,
		Message:             message,
		Status:              models.NotificationStatusUnread,
		RelatedResourceType: resourceType,
		RelatedResourceID:   &resourceID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("email delivery skipped, SMTP not configured")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Bem-vindo à LocMaq",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Bem-vindo, {{.Username}}!</h2>
	<p>Obrigado por se cadastrar na LocMaq. Encontre as melhores máquinas e equipamentos para sua obra:</p>
	<a href="{{.PlatformURL}}">Acessar a plataforma</a>
	<p>Atenciosamente,<br>Equipe {{.PlatformName}}</p>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Redefinição de senha",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Olá, {{.Username}}</h2>
	<p>Recebemos uma solicitação para redefinir sua senha. Clique no link abaixo para continuar:</p>
	<a href="{{.ResetURL}}">Redefinir senha</a>
	<p>O link expira em {{.ExpiresIn}}. Se você não fez esta solicitação, ignore este e-mail.</p>
</body>
</html>`,
		},
		"quote_answered": {
			Subject: "Orçamento respondido",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Olá, {{.ClientName}}</h2>
	<p>O locador respondeu seu orçamento para "{{.MachineName}}" com o valor de R$ {{.Price}}.</p>
	<a href="{{.QuoteURL}}">Ver orçamento</a>
	<p>Atenciosamente,<br>Equipe LocMaq</p>
</body>
</html>`,
		},
		"quote_approved": {
			Subject: "Orçamento aprovado",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Olá, {{.LandlordName}}</h2>
	<p>O cliente aprovou o orçamento da máquina "{{.MachineName}}" no valor de R$ {{.Price}}. Uma locação foi criada e aguarda sua confirmação.</p>
	<a href="{{.RentalURL}}">Ver locação</a>
	<p>Atenciosamente,<br>Equipe LocMaq</p>
</body>
</html>`,
		},
		// Add more templates as needed...
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notificação",
		Body:    "<p>{{.Message}}</p>",
	}
}
