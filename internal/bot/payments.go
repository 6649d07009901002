package bot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/darynalevychkina/course-work/internal/booking"
	"github.com/darynalevychkina/course-work/internal/receipts"
)

// handlePayment simulates a payment against an order: no real acquiring,
// just a receipt file produced and recorded. Requires the admin to have
// set an amount first.
func (b *Bot) handlePayment(c tele.Context, orderID string) error {
	if orderID == "" {
		return c.Respond(&tele.CallbackResponse{Text: "Некоректні дані платежу", ShowAlert: true})
	}

	appt, err := b.store.FindByOrderID(orderID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Замовлення не знайдено.", ShowAlert: true})
	}
	if appt.Amount <= 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Сума не встановлена адміністратором.", ShowAlert: true})
	}

	customerName, phone := "", ""
	if u, ok := b.registry.Get(appt.UserID); ok {
		customerName = u.FullName
		phone = u.Phone
	}

	text := receipts.FormatReceipt(orderID, appt.Amount, customerName, phone, b.now())
	path, err := b.receipts.Save(orderID, []byte(text), customerName, "txt")
	if err != nil {
		b.logger.Error("receipt save failed", zap.String("order", orderID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Не вдалося зберегти квитанцію 😕", ShowAlert: true})
	}

	paid, err := b.store.MarkPaid(orderID, path)
	if err != nil {
		// Receipt file exists but the order state could not move; this
		// should only happen if the amount was reset concurrently.
		if !errors.Is(err, booking.ErrNotFound) {
			b.logger.Error("mark paid failed", zap.String("order", orderID), zap.Error(err))
		}
		return c.Respond(&tele.CallbackResponse{Text: "Не вдалося провести оплату.", ShowAlert: true})
	}

	go b.mirrorReceiptLink(paid)

	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: filepath.Base(path),
		Caption: fmt.Sprintf(
			"🧾 Квитанція по замовленню #%s\nСума: %d грн\nДякуємо за оплату!",
			orderID, appt.Amount,
		),
	}
	if err := c.Send(doc); err != nil {
		b.logger.Error("receipt delivery failed", zap.String("order", orderID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Не вдалося надіслати файл квитанції 😕", ShowAlert: true})
	}

	return c.Respond(&tele.CallbackResponse{
		Text:      "Оплату проведено (тест). Квитанцію надіслано.",
		ShowAlert: true,
	})
}

// mirrorReceiptLink appends the receipt location to the calendar event,
// best-effort. The order tag is repaired first in case the event was
// edited in the calendar UI since creation.
func (b *Bot) mirrorReceiptLink(appt *booking.Appointment) {
	if b.calendar == nil || appt.CalendarEventID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	if err := b.calendar.EnsureOrderID(ctx, appt.CalendarEventID, appt.OrderID); err != nil {
		b.logger.Warn("order tag repair failed",
			zap.String("order", appt.OrderID),
			zap.Error(err))
	}

	if err := b.calendar.AppendReceiptLink(ctx, appt.CalendarEventID, appt.ReceiptPath); err != nil {
		b.logger.Warn("receipt link mirror failed",
			zap.String("order", appt.OrderID),
			zap.Error(err))
	}
}
