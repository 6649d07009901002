package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/darynalevychkina/course-work/internal/booking"
	"github.com/darynalevychkina/course-work/internal/schedule"
	"github.com/darynalevychkina/course-work/internal/users"
)

const adminDenied = "❌ Доступ тільки для адміністратора."

func (b *Bot) handleAdminEntry(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return c.Send(adminDenied)
	}
	return c.Send("Адмін-меню:", adminMenu())
}

func (b *Bot) handleAdminToday(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return c.Send(adminDenied)
	}
	today := b.now().Format(schedule.DateKeyLayout)
	return b.sendSchedule(c, today)
}

func (b *Bot) handleAdminByDate(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return c.Send(adminDenied)
	}

	sess := b.sessions.reset(userID)
	sess.step = stepAdminDate

	return c.Send(
		"Введіть дату у форматі *dd.mm* або *dd.mm.yy*:",
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: cancelMenu()},
	)
}

func (b *Bot) adminDateEntered(c tele.Context, sess *session) error {
	if !b.isAdmin(c.Sender().ID) {
		return nil
	}

	dateKey, ok := schedule.NormalizeDate(c.Text(), b.now())
	if !ok {
		return c.Send(
			"Дата некоректна. Приклад: `15.02` або `15.02.25`",
			&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		)
	}

	b.sessions.reset(c.Sender().ID)
	return b.sendSchedule(c, dateKey)
}

// sendSchedule renders the day's appointments sorted by time, each with
// the owner's profile and a "car ready" button.
func (b *Bot) sendSchedule(c tele.Context, dateKey string) error {
	items := b.store.Schedule(dateKey)
	if len(items) == 0 {
		return c.Send(fmt.Sprintf("📭 На %s записів немає.", dateKey))
	}

	lines := []string{fmt.Sprintf("📅 Записи на %s:", dateKey), ""}
	for _, a := range items {
		lines = append(lines, b.renderAppointment(a), strings.Repeat("─", 20))
	}

	return c.Send(strings.Join(lines, "\n"), readyButtonsKeyboard(items))
}

func (b *Bot) renderAppointment(a *booking.Appointment) string {
	fio, phone, vin, plate, car := "—", "—", "—", "—", "—"
	if u, ok := b.registry.Get(a.UserID); ok {
		fio = orDash(u.FullName)
		phone = orDash(u.Phone)
		vin = orDash(u.VIN)
		plate = orDash(u.Plate)
		car = orDash(vehicleLine(u))
	}

	return fmt.Sprintf(
		"• %s — %s\n"+
			"  📞 +38%s | VIN: %s | №: %s\n"+
			"  🚗 %s\n"+
			"  🎯 %s\n"+
			"  💵 %d грн\n"+
			"  🧾 Order ID: %s\n"+
			"  🗓 Google Event ID: %s",
		a.Time, fio, phone, vin, plate, car, a.Reason, a.Amount,
		orDash(a.OrderID), orDash(a.CalendarEventID),
	)
}

// adminReadyClicked opens the amount-entry session for an appointment.
func (b *Bot) adminReadyClicked(c tele.Context, args []string) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return c.Respond(&tele.CallbackResponse{Text: "Доступ лише для адміністратора", ShowAlert: true})
	}

	if len(args) != 3 {
		return c.Respond(&tele.CallbackResponse{Text: "Некоректні дані кнопки.", ShowAlert: true})
	}
	dateKey, timeStr := args[0], args[1]
	customerID, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Некоректні дані кнопки.", ShowAlert: true})
	}

	appt, err := b.store.Find(dateKey, timeStr, customerID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Запис не знайдено", ShowAlert: true})
	}

	sess := b.sessions.reset(userID)
	sess.step = stepAdminAmount
	sess.amountDateKey = dateKey
	sess.amountTime = timeStr
	sess.amountUserID = customerID

	fio := "Клієнт"
	if u, ok := b.registry.Get(customerID); ok && u.FullName != "" {
		fio = u.FullName
	}

	if err := c.Send(
		fmt.Sprintf(
			"Введи суму до сплати для %s на %s о %s (зараз: %d грн).\nНапр.: 1850",
			fio, dateKey, timeStr, appt.Amount,
		),
		cancelMenu(),
	); err != nil {
		return err
	}
	return c.Respond()
}

// adminAmountEntered parses the amount (comma decimals accepted,
// truncated to whole UAH), commits it, then notifies the customer. The
// amount stays committed even when the notification fails.
func (b *Bot) adminAmountEntered(c tele.Context, sess *session) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return nil
	}

	text := strings.ReplaceAll(strings.TrimSpace(c.Text()), ",", ".")
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return c.Send("Введи число (грн), напр.: 1850")
	}
	amount := int(value)

	appt, err := b.store.SetAmount(sess.amountDateKey, sess.amountTime, sess.amountUserID, amount)
	if err != nil {
		// Bad input keeps the session open for another attempt; only a
		// vanished appointment aborts the flow.
		if errors.Is(err, booking.ErrNegativeAmount) {
			return c.Send("Сума не може бути від'ємною. Введи число (грн), напр.: 1850")
		}
		b.sessions.reset(userID)
		return c.Send("Запис не знайдено після перевірки.")
	}

	b.sessions.reset(userID)

	notifyErr := b.notifyCarReady(appt)
	if notifyErr != nil {
		b.logger.Error("car-ready notification failed",
			zap.String("order", appt.OrderID),
			zap.Int64("user", appt.UserID),
			zap.Error(notifyErr))
		return c.Send(
			"Не вдалося надіслати клієнту. Перевір, що бот може писати користувачу.",
			adminMenu(),
		)
	}

	return c.Send(
		fmt.Sprintf(
			"✅ Суму встановлено і повідомлення надіслано клієнту.\n"+
				"Дата: %s, час: %s\nСума: %d грн\nOrder: #%s",
			appt.DateKey, appt.Time, appt.Amount, appt.OrderID,
		),
		adminMenu(),
	)
}

func (b *Bot) notifyCarReady(appt *booking.Appointment) error {
	text := fmt.Sprintf(
		"🚗 Авто готове до видачі.\nЗамовлення #%s\nДо сплати: %d грн",
		appt.OrderID, appt.Amount,
	)
	_, err := b.tg.Send(
		&tele.User{ID: appt.UserID},
		text,
		payKeyboard(appt.OrderID, b.cfg.RouteURL),
	)
	return err
}

func vehicleLine(u *users.User) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.Vehicle.Make, u.Vehicle.Model, u.Vehicle.Year} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return u.Plate
	}
	return strings.Join(parts, ", ")
}
