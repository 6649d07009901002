package bot

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/darynalevychkina/course-work/internal/users"
	"github.com/darynalevychkina/course-work/internal/vehicle"
)

var (
	phoneRe  = regexp.MustCompile(`^\d{10}$`)
	digitsRe = regexp.MustCompile(`\D`)
)

const collaboratorTimeout = 15 * time.Second

// startRegistration enters the registration flow, resetting any session
// already in progress.
func (b *Bot) startRegistration(c tele.Context) error {
	userID := c.Sender().ID
	if b.isRegistered(userID) {
		return c.Send("Ти вже зареєстрований ✅", b.mainMenuFor(userID))
	}

	sess := b.sessions.reset(userID)
	sess.step = stepRegName

	return c.Send(
		"Введи *Ім’я та прізвище* одним рядком:",
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: cancelMenu()},
	)
}

// regFullName expects at least two space-separated tokens, length >= 3.
func (b *Bot) regFullName(c tele.Context, sess *session) error {
	full := strings.Join(strings.Fields(c.Text()), " ")
	if len(full) < 3 || !strings.Contains(full, " ") {
		return c.Send(
			"Будь ласка, введи *Ім’я та прізвище* (через пробіл).",
			&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		)
	}

	sess.fullName = full
	sess.step = stepRegPhone
	return c.Send(
		"Введи номер телефону (10 цифр, без +38) або натисни кнопку нижче:",
		contactOrCancelMenu(),
	)
}

// regPhoneText accepts a typed phone: exactly 10 digits.
func (b *Bot) regPhoneText(c tele.Context, sess *session) error {
	text := strings.TrimSpace(c.Text())
	if !phoneRe.MatchString(text) {
		return c.Send(
			"Телефон має містити **рівно 10 цифр**. "+
				"Спробуй ще раз або натисни кнопку нижче.",
			&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: contactOrCancelMenu()},
		)
	}
	return b.regPhoneAccepted(c, sess, text)
}

// handleContact accepts a shared contact. The contact must belong to the
// sender; anyone can forward someone else's card.
func (b *Bot) handleContact(c tele.Context) error {
	sess := b.sessions.get(c.Sender().ID)
	if sess.step != stepRegPhone {
		return nil
	}

	contact := c.Message().Contact
	if contact == nil {
		return nil
	}
	if contact.UserID != c.Sender().ID {
		return c.Send("❌ Можна надіслати тільки власний номер.", contactOrCancelMenu())
	}

	digits := digitsRe.ReplaceAllString(contact.PhoneNumber, "")
	if len(digits) < 10 {
		return c.Send(
			"Телефон має містити **рівно 10 цифр**. "+
				"Спробуй ще раз або натисни кнопку нижче.",
			&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: contactOrCancelMenu()},
		)
	}
	return b.regPhoneAccepted(c, sess, digits[len(digits)-10:])
}

func (b *Bot) regPhoneAccepted(c tele.Context, sess *session, phone string) error {
	sess.phone = phone
	sess.step = stepRegMethod
	return c.Send("Оберіть спосіб реєстрації автомобіля:", regMethodKeyboard())
}

func (b *Bot) regMethodChosen(c tele.Context, method string) error {
	sess := b.sessions.get(c.Sender().ID)

	switch method {
	case "via_vin":
		sess.step = stepRegVIN
		if err := c.Edit("Введи VIN (17 символів, латиниця/цифри, без I/O/Q):"); err != nil {
			return err
		}
	case "via_plate":
		sess.step = stepRegPlate
		if err := c.Edit(
			"Введи держномер авто (наприклад, **АА1234ВС**).",
			&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		); err != nil {
			return err
		}
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Невідомий спосіб"})
	}
	return c.Respond()
}

// regVIN verifies a typed VIN: format and checksum locally, then
// best-effort enrichment through the vehicle registry.
func (b *Bot) regVIN(c tele.Context, sess *session) error {
	vin := vehicle.NormalizeVIN(c.Text())

	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	ok, note, veh := b.verifier.VerifyVIN(ctx, vin, b.now())
	if !ok {
		return c.Send("❌ " + note)
	}

	sess.vin = vin
	sess.vehicle = veh
	sess.step = stepRegVINConfirm

	line := "— —, —"
	if veh != nil {
		line = veh.Line()
	}
	return c.Send(
		"VIN підтверджено.\nЗнайшов авто: "+line+"\n\nПідтверджуєш?",
		vinConfirmKeyboard(),
	)
}

func (b *Bot) regVINConfirm(c tele.Context, answer string) error {
	userID := c.Sender().ID
	sess := b.sessions.get(userID)
	if sess.step != stepRegVINConfirm {
		return c.Respond(&tele.CallbackResponse{Text: "Дія вже неактуальна"})
	}

	switch answer {
	case "confirm_yes":
		if err := b.commitProfile(c, sess, sess.vin, ""); err != nil {
			return err
		}
	case "confirm_no":
		sess.step = stepRegVIN
		if err := c.Edit("Введи інший VIN (17 символів):"); err != nil {
			return err
		}
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Невідома відповідь"})
	}
	return c.Respond()
}

// regPlate validates the plate format and asks the registry about it.
func (b *Bot) regPlate(c tele.Context, sess *session) error {
	plate := vehicle.NormalizePlate(c.Text())
	if !vehicle.ValidPlateFormat(plate) {
		return c.Send(
			"Невірний формат. Приклад: **АА1234ВС** (без пробілів/дефісів).",
			&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	info, err := b.plates.Lookup(ctx, plate)
	if err != nil {
		b.logger.Error("plate lookup failed", zap.String("plate", plate), zap.Error(err))
		info = nil
	}
	if info == nil {
		return c.Send(
			"Не вдалося підтягнути авто за номером. " +
				"Спробуй інший номер або реєстрацію за VIN.",
		)
	}

	sess.plate = info.Plate
	sess.vehicle = &vehicle.Vehicle{Make: info.Vendor, Model: info.Model, Year: info.Year}
	sess.step = stepRegPlateConfirm

	warn := ""
	if info.IsStolen {
		warn = "⚠️ В базі позначено як можливе викрадення!\n"
	}
	return c.Send(
		warn+"Знайшов авто:\n"+
			"• Марка/модель: "+orDash(info.Vendor)+" "+orDash(info.Model)+"\n"+
			"• Рік: "+orDash(info.Year)+"\n\n"+
			"Підтверджуєш?",
		plateConfirmKeyboard(),
	)
}

func (b *Bot) regPlateConfirm(c tele.Context, answer string) error {
	userID := c.Sender().ID
	sess := b.sessions.get(userID)
	if sess.step != stepRegPlateConfirm {
		return c.Respond(&tele.CallbackResponse{Text: "Дія вже неактуальна"})
	}

	switch answer {
	case "confirm_yes":
		if err := b.commitProfile(c, sess, "", sess.plate); err != nil {
			return err
		}
	case "confirm_no":
		if err := c.Edit("Окей. Обери інший спосіб:", plateRetryKeyboard()); err != nil {
			return err
		}
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Невідома відповідь"})
	}
	return c.Respond()
}

// commitProfile writes the registration into the registry and ends the flow.
func (b *Bot) commitProfile(c tele.Context, sess *session, vin, plate string) error {
	userID := c.Sender().ID

	user := &users.User{
		ID:       userID,
		FullName: sess.fullName,
		Phone:    sess.phone,
		VIN:      vin,
		Plate:    plate,
	}
	if sess.vehicle != nil {
		user.Vehicle = users.Vehicle{
			Make:  sess.vehicle.Make,
			Model: sess.vehicle.Model,
			Year:  sess.vehicle.Year,
		}
	}

	if err := b.registry.Put(user); err != nil {
		b.logger.Error("profile save failed", zap.Int64("user", userID), zap.Error(err))
		return c.Send("Не вдалося зберегти профіль. Спробуй ще раз.")
	}

	b.sessions.reset(userID)
	b.logger.Info("user registered", zap.Int64("user", userID))

	if err := c.Edit("Реєстрацію завершено ✅"); err != nil {
		return err
	}
	return c.Send("Тепер натисни «Зробити запис».", b.mainMenuFor(userID))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
