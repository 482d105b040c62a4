package service

import (
	"context"
	"fmt"
	"time"

	"cafekiosk/mail"
	"cafekiosk/model"
	"cafekiosk/store"
)

// StatisticsService mails daily sales summaries.
type StatisticsService struct {
	store store.Store
	mail  mail.Client
	from  string
}

func NewStatisticsService(st store.Store, client mail.Client, fromAddr string) *StatisticsService {
	return &StatisticsService{store: st, mail: client, from: fromAddr}
}

// SendOrderStatisticsMail sums the total price of payment-completed
// orders registered on the given day, mails the summary to the
// recipient and records the send in the mail history.
func (s *StatisticsService) SendOrderStatisticsMail(ctx context.Context, day time.Time, to string) error {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	orders, err := s.store.FindOrdersByStatusAndRange(ctx, model.OrderStatusPaymentCompleted, from, from.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("load completed orders: %w", err)
	}

	total := 0
	for _, o := range orders {
		total += o.TotalPrice
	}

	subject := fmt.Sprintf("Sales summary for %s", from.Format("2006-01-02"))
	content := fmt.Sprintf("Total sales on %s: %d (from %d orders)", from.Format("2006-01-02"), total, len(orders))
	if err := s.mail.Send(ctx, s.from, to, subject, content); err != nil {
		return fmt.Errorf("send statistics mail: %w", err)
	}

	if _, err := s.store.SaveMailHistory(ctx, model.MailSendHistory{
		FromEmail: s.from,
		ToEmail:   to,
		Subject:   subject,
		Content:   content,
	}); err != nil {
		return fmt.Errorf("record mail history: %w", err)
	}
	return nil
}
