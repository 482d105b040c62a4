package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafekiosk/model"
	"cafekiosk/store"
)

// recordingMailClient captures outbound mail.
type recordingMailClient struct {
	sent []model.MailSendHistory
	err  error
}

func (c *recordingMailClient) Send(_ context.Context, from, to, subject, content string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, model.MailSendHistory{FromEmail: from, ToEmail: to, Subject: subject, Content: content})
	return nil
}

func seedOrder(t *testing.T, st store.Store, status model.OrderStatus, total int, registeredAt time.Time) {
	t.Helper()
	_, err := st.SaveOrder(context.Background(), model.Order{
		Status:       status,
		TotalPrice:   total,
		RegisteredAt: registeredAt,
	})
	require.NoError(t, err)
}

func TestSendOrderStatisticsMail(t *testing.T) {
	st := store.NewMemoryStore()
	day := time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)

	// Only completed payments registered on the day count.
	seedOrder(t, st, model.OrderStatusPaymentCompleted, 6000, day.Add(-time.Second))
	seedOrder(t, st, model.OrderStatusPaymentCompleted, 6000, day)
	seedOrder(t, st, model.OrderStatusPaymentCompleted, 6000, day.Add(24*time.Hour-time.Second))
	seedOrder(t, st, model.OrderStatusPaymentCompleted, 6000, day.Add(24*time.Hour))
	seedOrder(t, st, model.OrderStatusInit, 9999, day)

	client := &recordingMailClient{}
	svc := NewStatisticsService(st, client, "no-reply@cafekiosk.local")

	err := svc.SendOrderStatisticsMail(context.Background(), day, "ops@example.com")

	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "no-reply@cafekiosk.local", client.sent[0].FromEmail)
	assert.Equal(t, "ops@example.com", client.sent[0].ToEmail)
	assert.Contains(t, client.sent[0].Content, "12000")

	histories := st.MailHistories()
	require.Len(t, histories, 1)
	assert.Contains(t, histories[0].Content, "12000")
	assert.Equal(t, "ops@example.com", histories[0].ToEmail)
}

func TestSendOrderStatisticsMailSendFailure(t *testing.T) {
	st := store.NewMemoryStore()
	seedOrder(t, st, model.OrderStatusPaymentCompleted, 5000, time.Date(2023, 3, 5, 12, 0, 0, 0, time.UTC))

	client := &recordingMailClient{err: errors.New("relay down")}
	svc := NewStatisticsService(st, client, "no-reply@cafekiosk.local")

	err := svc.SendOrderStatisticsMail(context.Background(), time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), "ops@example.com")

	require.Error(t, err)
	assert.Empty(t, st.MailHistories())
}

func TestSendOrderStatisticsMailEmptyDay(t *testing.T) {
	st := store.NewMemoryStore()
	client := &recordingMailClient{}
	svc := NewStatisticsService(st, client, "no-reply@cafekiosk.local")

	err := svc.SendOrderStatisticsMail(context.Background(), time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), "ops@example.com")

	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Contains(t, client.sent[0].Content, "Total sales on 2023-03-05: 0")
}
