package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/darynalevychkina/course-work/internal/booking"
	"github.com/darynalevychkina/course-work/internal/calendar"
	"github.com/darynalevychkina/course-work/internal/schedule"
)

// startBooking enters the booking flow. Registration is a prerequisite.
func (b *Bot) startBooking(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isRegistered(userID) {
		return c.Send("Спочатку зареєструйся, будь ласка.", mainMenu(false, b.isAdmin(userID)))
	}

	sess := b.sessions.reset(userID)
	sess.step = stepBookDate

	return c.Send(
		"Введи дату *dd.mm* або *dd.mm.yy*:",
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: cancelMenu()},
	)
}

// bookDate normalizes the typed date and rejects past and closed days.
func (b *Bot) bookDate(c tele.Context, sess *session) error {
	now := b.now()

	dateKey, ok := schedule.NormalizeDate(c.Text(), now)
	if !ok {
		return c.Send(
			"Дата некоректна. Приклад: `15.02` або `15.02.25`",
			&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		)
	}

	date, err := schedule.ParseDateKey(dateKey, b.policy.Location())
	if err != nil {
		return c.Send("Дата некоректна. Спробуй ще раз.")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.policy.Location())
	if date.Before(today) {
		return c.Send("❌ Не можна записуватись на минулу дату. Обери іншу.", cancelMenu())
	}

	closed, err := b.policy.IsClosed(date)
	if err != nil {
		b.logger.Error("closed-day check failed", zap.String("date", dateKey), zap.Error(err))
		return c.Send("Не вдалося перевірити дату. Спробуй ще раз трохи пізніше.")
	}
	if closed {
		return c.Send(
			fmt.Sprintf("❌ На %s запис недоступний. Обери іншу дату.", dateKey),
			cancelMenu(),
		)
	}

	sess.dateKey = dateKey
	sess.step = stepBookTime
	return b.sendTimeList(c, dateKey, false)
}

// sendTimeList renders the available times, recomputed fresh every time.
func (b *Bot) sendTimeList(c tele.Context, dateKey string, edit bool) error {
	times := b.store.AvailableTimes(dateKey, b.now())
	if len(times) == 0 {
		b.logger.Info("no free slots", zap.String("date", dateKey))
	}

	text := fmt.Sprintf("Оберіть час (09–19) на %s:", dateKey)
	if edit {
		return c.Edit(text, timeKeyboard(times))
	}
	return c.Send(text, timeKeyboard(times))
}

// bookTimeChosen re-validates the tapped slot: the render it came from
// may be stale by now.
func (b *Bot) bookTimeChosen(c tele.Context, timeStr string) error {
	sess := b.sessions.get(c.Sender().ID)
	if sess.step != stepBookTime || sess.dateKey == "" {
		return c.Respond(&tele.CallbackResponse{Text: "Почни запис заново."})
	}

	slot, err := schedule.ParseSlot(sess.dateKey, timeStr, b.policy.Location())
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Некоректний час.", ShowAlert: true})
	}

	if !slot.After(b.now()) {
		if err := c.Respond(&tele.CallbackResponse{Text: "Цей час уже минув. Обери інший.", ShowAlert: true}); err != nil {
			return err
		}
		return b.sendTimeList(c, sess.dateKey, true)
	}

	if !contains(b.store.AvailableTimes(sess.dateKey, b.now()), timeStr) {
		if err := c.Respond(&tele.CallbackResponse{Text: "Ця година вже зайнята 😕", ShowAlert: true}); err != nil {
			return err
		}
		return b.sendTimeList(c, sess.dateKey, true)
	}

	sess.timeStr = timeStr
	sess.step = stepBookReason

	if err := c.Edit(
		fmt.Sprintf("Обери причину візиту на %s о %s:", sess.dateKey, timeStr),
		reasonsKeyboard(),
	); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) bookTimeBack(c tele.Context) error {
	sess := b.sessions.get(c.Sender().ID)
	sess.step = stepBookDate

	if err := c.Edit(
		"Введи нову дату *dd.mm* або *dd.mm.yy*:",
		&tele.SendOptions{ParseMode: tele.ModeMarkdown},
	); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) bookReasonChosen(c tele.Context, tag string) error {
	sess := b.sessions.get(c.Sender().ID)
	if sess.step != stepBookReason {
		return c.Respond(&tele.CallbackResponse{Text: "Почни запис заново."})
	}

	if tag == "other" {
		sess.step = stepBookReasonOther
		if err := c.Edit("Введи коротко іншу причину:"); err != nil {
			return err
		}
		return c.Respond()
	}

	reason, ok := reasonTitles[tag]
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Невідома причина", ShowAlert: true})
	}
	return b.finalizeBooking(c, sess, reason, true)
}

func (b *Bot) bookReasonBack(c tele.Context) error {
	sess := b.sessions.get(c.Sender().ID)
	if sess.dateKey == "" {
		return c.Respond(&tele.CallbackResponse{Text: "Почни запис заново."})
	}
	sess.step = stepBookTime

	if err := b.sendTimeList(c, sess.dateKey, true); err != nil {
		return err
	}
	return c.Respond()
}

// bookReasonOther accepts a free-text reason, at least 3 characters
// after collapsing whitespace.
func (b *Bot) bookReasonOther(c tele.Context, sess *session) error {
	reason := strings.Join(strings.Fields(c.Text()), " ")
	if len([]rune(reason)) < 3 {
		return c.Send("Дуже коротко. Опиши трохи детальніше (від 3 символів).")
	}
	return b.finalizeBooking(c, sess, reason, false)
}

// finalizeBooking claims the slot. A lost race sends the user back to
// time selection with a fresh list; success commits and mirrors the
// booking to the calendar off the critical path.
func (b *Bot) finalizeBooking(c tele.Context, sess *session, reason string, fromCallback bool) error {
	userID := c.Sender().ID
	dateKey, timeStr := sess.dateKey, sess.timeStr

	appt, err := b.store.Claim(dateKey, timeStr, userID, reason, b.now())
	if err != nil {
		b.logger.Info("claim rejected",
			zap.String("date", dateKey),
			zap.String("time", timeStr),
			zap.Int64("user", userID),
			zap.Error(err))

		notice := "Цей слот недоступний (можливо, час уже минув або його зайняли)."
		if errors.Is(err, booking.ErrClosedDay) {
			notice = fmt.Sprintf("На %s запис недоступний.", dateKey)
		}

		sess.step = stepBookTime
		if fromCallback {
			if respErr := c.Respond(&tele.CallbackResponse{Text: notice, ShowAlert: true}); respErr != nil {
				return respErr
			}
			return b.sendTimeList(c, dateKey, true)
		}
		if sendErr := c.Send(notice+" Обери інший:", timeKeyboard(b.store.AvailableTimes(dateKey, b.now()))); sendErr != nil {
			return sendErr
		}
		return nil
	}

	b.sessions.reset(userID)

	go b.mirrorToCalendar(appt)

	confirmation := fmt.Sprintf(
		"✅ Запис створено на %s о %s.\nПричина: %s\n\nДякуємо! Чекаємо 🤝",
		dateKey, timeStr, reason,
	)
	if fromCallback {
		if err := c.Edit(confirmation); err != nil {
			return err
		}
		if err := c.Send("Повертаю в головне меню.", b.mainMenuFor(userID)); err != nil {
			return err
		}
		return c.Respond()
	}
	if err := c.Send(confirmation); err != nil {
		return err
	}
	return c.Send("Повертаю в головне меню.", b.mainMenuFor(userID))
}

// mirrorToCalendar creates the external calendar event for a committed
// booking. Runs after commit, off the user's interaction; failure is
// logged and the booking stands.
func (b *Bot) mirrorToCalendar(appt *booking.Appointment) {
	if b.calendar == nil {
		return
	}

	start, err := schedule.ParseSlot(appt.DateKey, appt.Time, b.policy.Location())
	if err != nil {
		b.logger.Error("calendar mirror: bad slot", zap.String("order", appt.OrderID), zap.Error(err))
		return
	}

	details := calendar.EventDetails{
		OrderID: appt.OrderID,
		Start:   start,
		End:     start.Add(time.Hour),
		Reason:  appt.Reason,
	}
	if u, ok := b.registry.Get(appt.UserID); ok {
		details.CustomerName = u.FullName
		details.Phone = u.Phone
		details.VIN = u.VIN
		details.VehicleLine = vehicleLine(u)
	}

	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	eventID, err := b.calendar.CreateEventForOrder(ctx, details)
	if err != nil {
		b.logger.Error("calendar event failed", zap.String("order", appt.OrderID), zap.Error(err))
		return
	}

	if err := b.store.AttachCalendarEvent(appt.OrderID, eventID); err != nil {
		b.logger.Warn("calendar event orphaned",
			zap.String("order", appt.OrderID),
			zap.String("event", eventID),
			zap.Error(err))
		return
	}
	b.logger.Info("calendar event created",
		zap.String("order", appt.OrderID),
		zap.String("event", eventID))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
