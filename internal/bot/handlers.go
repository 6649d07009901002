package bot

import (
	"strings"

	tele "gopkg.in/telebot.v3"
)

// handleStart handles the /start command
func (b *Bot) handleStart(c tele.Context) error {
	b.sessions.reset(c.Sender().ID)
	return c.Send(
		"Привіт! 👋 Це бот запису на СТО.\n\n"+
			"• Якщо ти вже зареєстрований — тисни «Зробити запис».\n"+
			"• Якщо ні — тисни «Зареєструватися».",
		b.mainMenuFor(c.Sender().ID),
	)
}

// handleText routes every plain text message. The cancel button is
// checked before anything else, in every state.
func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	userID := c.Sender().ID

	if text == btnCancel {
		return b.handleCancel(c)
	}

	switch text {
	case btnRegister:
		return b.startRegistration(c)
	case btnBook:
		return b.startBooking(c)
	case btnAdmin:
		return b.handleAdminEntry(c)
	case btnAdminToday:
		return b.handleAdminToday(c)
	case btnAdminByDate:
		return b.handleAdminByDate(c)
	case btnAdminBack:
		return c.Send("Повертаю в головне:", b.mainMenuFor(userID))
	}

	sess := b.sessions.get(userID)
	switch sess.step {
	case stepRegName:
		return b.regFullName(c, sess)
	case stepRegPhone:
		return b.regPhoneText(c, sess)
	case stepRegVIN:
		return b.regVIN(c, sess)
	case stepRegPlate:
		return b.regPlate(c, sess)
	case stepBookDate:
		return b.bookDate(c, sess)
	case stepBookReasonOther:
		return b.bookReasonOther(c, sess)
	case stepAdminDate:
		return b.adminDateEntered(c, sess)
	case stepAdminAmount:
		return b.adminAmountEntered(c, sess)
	}

	// Stray admin text outside any flow lands back on the admin menu,
	// with a hint when it looks like a "car ready" attempt.
	if b.isAdmin(userID) {
		if strings.Contains(strings.ToLower(text), "готове") {
			return c.Send(
				"Оберіть дату через «📅 Записи на дату» та натисніть "+
					"«💬 Авто готове» біля потрібного запису.",
				adminMenu(),
			)
		}
		return c.Send("Адмін-меню:", adminMenu())
	}

	return nil
}

// handleCancel clears the session unconditionally. Admins abandoning an
// admin flow land back on the admin menu, everyone else on the main one.
func (b *Bot) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.get(userID)
	wasAdminFlow := sess.isAdminFlow()
	b.sessions.reset(userID)

	if wasAdminFlow && b.isAdmin(userID) {
		return c.Send("Скасовано. Повертаю в меню.", adminMenu())
	}
	return c.Send("Дію скасовано. Повертаю в головне меню.", b.mainMenuFor(userID))
}

// handleCallback dispatches inline-keyboard callbacks. telebot joins the
// button's unique tag and data with "|".
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	parts := strings.Split(strings.TrimSpace(callback.Data), "|")
	action := strings.TrimSpace(parts[0])
	args := parts[1:]
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	switch action {
	case "reg":
		return b.regMethodChosen(c, firstArg(args))
	case "vin":
		return b.regVINConfirm(c, firstArg(args))
	case "plate":
		return b.regPlateConfirm(c, firstArg(args))
	case "time":
		return b.bookTimeChosen(c, firstArg(args))
	case "time_back":
		return b.bookTimeBack(c)
	case "reason":
		return b.bookReasonChosen(c, firstArg(args))
	case "reason_back":
		return b.bookReasonBack(c)
	case "ready":
		return b.adminReadyClicked(c, args)
	case "pay":
		return b.handlePayment(c, firstArg(args))
	}

	return c.Respond(&tele.CallbackResponse{Text: "Невідома дія"})
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
