package bot

import (
	tele "gopkg.in/telebot.v3"

	"github.com/darynalevychkina/course-work/internal/booking"
)

// Fixed visit reasons offered during booking.
var reasonTitles = map[string]string{
	"oil":   "заміна мастила",
	"diag":  "діагностика",
	"tires": "заміни шин",
	"other": "інша причина",
}

const (
	btnRegister = "Зареєструватися"
	btnBook     = "Зробити запис"
	btnCancel   = "Скасувати"
	btnAdmin    = "🛠 Адмін"

	btnAdminToday  = "📋 Записи на сьогодні"
	btnAdminByDate = "📅 Записи на дату"
	btnAdminBack   = "⬅️ В головне меню"
)

// mainMenu returns the persistent reply keyboard for the user.
func mainMenu(isRegistered, isAdmin bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}

	rows := make([]tele.Row, 0, 3)
	if isRegistered {
		rows = append(rows, markup.Row(markup.Text(btnBook)))
	} else {
		rows = append(rows, markup.Row(markup.Text(btnRegister)))
	}
	if isAdmin {
		rows = append(rows, markup.Row(markup.Text(btnAdmin)))
	}
	rows = append(rows, markup.Row(markup.Text(btnCancel)))

	markup.Reply(rows...)
	return markup
}

func cancelMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(markup.Row(markup.Text(btnCancel)))
	return markup
}

func contactOrCancelMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Contact("📲 Надіслати мій номер")),
		markup.Row(markup.Text(btnCancel)),
	)
	return markup
}

func adminMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(btnAdminToday)),
		markup.Row(markup.Text(btnAdminByDate)),
		markup.Row(markup.Text(btnAdminBack)),
	)
	return markup
}

// timeKeyboard lays the free slots out four per row, with a back button.
func timeKeyboard(times []string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	rows := make([]tele.Row, 0, len(times)/4+2)
	for start := 0; start < len(times); start += 4 {
		end := start + 4
		if end > len(times) {
			end = len(times)
		}
		row := make([]tele.Btn, 0, 4)
		for _, t := range times[start:end] {
			row = append(row, markup.Data(t, "time", t))
		}
		rows = append(rows, markup.Row(row...))
	}
	rows = append(rows, markup.Row(markup.Data("Назад", "time_back")))

	markup.Inline(rows...)
	return markup
}

func reasonsKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data(reasonTitles["oil"], "reason", "oil"),
			markup.Data(reasonTitles["diag"], "reason", "diag"),
		),
		markup.Row(
			markup.Data(reasonTitles["tires"], "reason", "tires"),
			markup.Data(reasonTitles["other"], "reason", "other"),
		),
		markup.Row(markup.Data("Назад", "reason_back")),
	)
	return markup
}

func vinConfirmKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Так, це моє авто", "vin", "confirm_yes"),
		markup.Data("❌ Ні, ввести інший VIN", "vin", "confirm_no"),
	))
	return markup
}

func plateConfirmKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Так, це моє авто", "plate", "confirm_yes"),
		markup.Data("❌ Ні, не моє", "plate", "confirm_no"),
	))
	return markup
}

func regMethodKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("🔑 За VIN", "reg", "via_vin"),
		markup.Data("🔤 За номером авто", "reg", "via_plate"),
	))
	return markup
}

func plateRetryKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🔁 Ввести інший номер", "reg", "via_plate")),
		markup.Row(markup.Data("🔑 Реєстрація за VIN", "reg", "via_vin")),
	)
	return markup
}

// payKeyboard offers the simulated payment action and, when configured,
// a route link to the shop.
func payKeyboard(orderID, routeURL string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	rows := []tele.Row{
		markup.Row(markup.Data("💳 Оплатити", "pay", orderID)),
	}
	if routeURL != "" {
		rows = append(rows, markup.Row(markup.URL("📍 Маршрут до СТО", routeURL)))
	}

	markup.Inline(rows...)
	return markup
}

// readyButtonsKeyboard adds one "car ready" button per appointment.
func readyButtonsKeyboard(items []*booking.Appointment) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	rows := make([]tele.Row, 0, len(items))
	for _, a := range items {
		rows = append(rows, markup.Row(markup.Data(
			"💬 Авто готове • "+a.Time,
			"ready", a.DateKey, a.Time, formatUserID(a.UserID),
		)))
	}

	markup.Inline(rows...)
	return markup
}
