package navigation

import (
	"fmt"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// Texts is the user-facing wording of notices and button labels. Front-ends
// that localize on their own key off Notice.Kind and Button.Action and can
// ignore it.
type Texts struct {
	Notices map[models.NoticeKind]string

	Back           string
	FavoriteAdd    string
	FavoriteExists string
	FavoriteDelete string
	// ShowDay labels the toggle to the given day-type.
	ShowDay map[models.DayType]string
	// ShowClass labels the empty favorites view's way into a vehicle list.
	ShowClass map[models.VehicleClass]string
	// Vehicle is a format taking the vehicle number.
	Vehicle string
	// Favorite is a format taking number, stop name and direction name.
	Favorite string
}

// DefaultTexts is the Russian wording of the Mogilev bot.
func DefaultTexts() Texts {
	return Texts{
		Notices: map[models.NoticeKind]string{
			models.NoticeInvalidToken:    "Ошибка: некорректные данные кнопки.",
			models.NoticeNotFound:        "Не найдено в текущем расписании.",
			models.NoticeUnavailable:     "Не удалось загрузить расписание. Попробуйте позже.",
			models.NoticeFavoriteAdded:   "Добавлено в избранное ⭐",
			models.NoticeFavoriteRemoved: "Удалено из избранного",
			models.NoticeAlreadyFavorite: "Это уже в избранном.",
			models.NoticeAlreadyRemoved:  "Уже удалено из избранного",
			models.NoticeActionFailed:    "Произошла ошибка. Попробуйте позже.",
		},
		Back:           "Назад",
		FavoriteAdd:    "В избранное",
		FavoriteExists: "В избранном",
		FavoriteDelete: "Удалить",
		ShowDay: map[models.DayType]string{
			models.Weekday: "Показать на будни",
			models.Weekend: "Показать на выходные",
		},
		ShowClass: map[models.VehicleClass]string{
			models.Bus:        "Показать автобусы",
			models.Trolleybus: "Показать троллейбусы",
		},
		Vehicle:  "№%s",
		Favorite: "№%s, %s (%s)",
	}
}

// WithTexts replaces DefaultTexts.
func WithTexts(t Texts) Option {
	return func(e *Engine) {
		e.texts = t
	}
}

func (e *Engine) notice(kind models.NoticeKind) *models.Notice {
	return &models.Notice{Kind: kind, Text: e.texts.Notices[kind]}
}

func (e *Engine) alert(kind models.NoticeKind) models.ActionResult {
	n := e.notice(kind)
	n.Alert = true
	return models.ActionResult{Notice: n}
}

func (e *Engine) vehicleLabel(number string) string {
	return fmt.Sprintf(e.texts.Vehicle, number)
}

func (e *Engine) favoriteLabel(number, stop, route string) string {
	return fmt.Sprintf(e.texts.Favorite, number, stop, route)
}
