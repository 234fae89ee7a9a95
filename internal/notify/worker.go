package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"servicom/backend/internal/config"
	"servicom/backend/internal/models"
)

// DepartmentLookup resolves an event's department for its alert channels.
type DepartmentLookup interface {
	GetDepartmentByID(id uint) (*models.Department, error)
}

// Worker drains the notification queue, renders each event, and hands it to
// the configured sinks. The email collaborator subscribes to the same queue
// in production; here the rendered mail is logged as the hand-off record.
type Worker struct {
	Consumer    Consumer
	Departments DepartmentLookup
	Telegram    *TelegramSink
}

// NewWorker creates a notification worker.
func NewWorker(c Consumer, depts DepartmentLookup, tg *TelegramSink) *Worker {
	return &Worker{Consumer: c, Departments: depts, Telegram: tg}
}

// Run registers the consumer. It returns once consumption is set up; message
// handling continues on the consumer's goroutine.
func (w *Worker) Run(ctx context.Context) error {
	return w.Consumer.Consume(ctx, config.NotificationsQueue, w.handle)
}

func (w *Worker) handle(ctx context.Context, body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed notification payload: %w", err)
	}

	subject, text := Render(event)

	recipients := []string{}
	if event.RecipientEmail != "" {
		recipients = append(recipients, event.RecipientEmail)
	}

	var dept *models.Department
	if event.DepartmentID != 0 && w.Departments != nil {
		var err error
		dept, err = w.Departments.GetDepartmentByID(event.DepartmentID)
		if err != nil {
			log.Printf("ERROR: Department %d lookup failed for notification %s: %v", event.DepartmentID, event.Reference, err)
		} else {
			recipients = append(recipients, dept.NotifyEmails...)
		}
	}

	if len(recipients) > 0 {
		log.Printf("MAIL to=%s subject=%q body=%q", strings.Join(recipients, ","), subject, text)
	}

	if w.Telegram != nil && dept != nil && dept.TelegramChatID != 0 {
		if err := w.Telegram.Send(dept.TelegramChatID, subject+"\n"+text); err != nil {
			// Delivery is best-effort; never bounce the message back.
			log.Printf("ERROR: Telegram alert failed for %s: %v", event.Reference, err)
		}
	}
	return nil
}

// Render produces the subject and body for an event.
func Render(event models.NotificationEvent) (subject, text string) {
	switch event.Kind {
	case models.EventSubmitted:
		subject = "Complaint Submitted"
		text = fmt.Sprintf("Your complaint has been submitted. Reference: %s", event.Reference)
	case models.EventStatusChanged:
		subject = "Complaint Status Updated"
		text = fmt.Sprintf("Complaint %s is now %s.", event.Reference, event.Status)
		if event.Narrative != "" {
			text += fmt.Sprintf("\nResolution details: %s", event.Narrative)
		}
		if event.ResponderName != "" {
			text += fmt.Sprintf("\nHandled by: %s", event.ResponderName)
		}
	case models.EventResponseAdded:
		subject = "New Response to Your Complaint"
		text = fmt.Sprintf("Complaint %s received a response from %s.", event.Reference, event.ResponderName)
	case models.EventAccountActivated:
		subject = "Account Activated"
		text = "Your account has been reactivated. You can log in again."
	default:
		subject = "Notification"
		text = fmt.Sprintf("Event %s for complaint %s.", event.Kind, event.Reference)
	}
	return subject, text
}
