package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"steam-profile-bot/internal/domain"
)

// Message keys double as the English text.
const (
	msgName          = "Name"
	msgStatus        = "Status"
	msgVisibility    = "Visibility"
	msgOpenProfile   = "Open profile"
	msgPublic        = "Public"
	msgPrivate       = "Private"
	msgOffline       = "Offline"
	msgOnline        = "Online"
	msgBusy          = "Busy"
	msgAway          = "Away"
	msgSnooze        = "Snooze"
	msgLookingTrade  = "Looking to trade"
	msgLookingPlay   = "Looking to play"
	msgUnknownStatus = "Unknown"

	msgGreeting        = "Hi! Send me a SteamID (numeric or custom URL) and I'll show what your profile says about you.\nExamples:\n- 76561198000000000\n- https://steamcommunity.com/id/your_name/\n- your_name"
	msgUnresolved      = "❌ Could not find the profile. Make sure the name is correct and the profile is public."
	msgUnavailable     = "❌ Could not fetch the data. The profile is private or does not exist."
	msgUnsupportedLink = "❌ Unsupported link format."
	msgEmptyInput      = "❌ Send a SteamID, a custom URL name or a profile link."
	msgInternal        = "❌ Something went wrong. Please try again later."
	msgHistoryEmpty    = "No lookups yet."
	msgHistoryHeader   = "Recent lookups:"
	msgOutcomeFound    = "found"
	msgOutcomeNotFound = "not found"
	msgOutcomeInvalid  = "invalid input"
)

var russianMessages = map[string]string{
	msgName:          "Имя",
	msgStatus:        "Статус",
	msgVisibility:    "Видимость",
	msgOpenProfile:   "Открыть профиль",
	msgPublic:        "Публичный",
	msgPrivate:       "Приватный",
	msgOffline:       "Оффлайн",
	msgOnline:        "Онлайн",
	msgBusy:          "Занят",
	msgAway:          "Отошёл",
	msgSnooze:        "Спит",
	msgLookingTrade:  "Хочет обменяться",
	msgLookingPlay:   "Хочет поиграть",
	msgUnknownStatus: "Неизвестно",

	msgGreeting:        "Привет! Отправь мне свой SteamID (цифровой или кастомный URL), и я покажу информацию о твоём профиле.\nПримеры:\n- 76561198000000000\n- https://steamcommunity.com/id/ваш_ник/\n- ваш_ник",
	msgUnresolved:      "❌ Не удалось найти профиль. Убедитесь, что ник верный и профиль публичный.",
	msgUnavailable:     "❌ Не удалось получить данные. Профиль приватный или не существует.",
	msgUnsupportedLink: "❌ Неверный формат ссылки.",
	msgEmptyInput:      "❌ Отправь SteamID, кастомный ник или ссылку на профиль.",
	msgInternal:        "❌ Что-то пошло не так. Попробуй позже.",
	msgHistoryEmpty:    "Пока нет запросов.",
	msgHistoryHeader:   "Последние запросы:",
	msgOutcomeFound:    "найден",
	msgOutcomeNotFound: "не найден",
	msgOutcomeInvalid:  "неверный ввод",
}

var supportedReplyTags = []language.Tag{language.English, language.Russian}

var replyMatcher = language.NewMatcher(supportedReplyTags)

func init() {
	for key, text := range russianMessages {
		if err := message.SetString(language.Russian, key, text); err != nil {
			panic(fmt.Sprintf("usecase: register message %q: %v", key, err))
		}
	}
}

// ReplyTag maps any tag onto the closest supported reply language, English
// when nothing matches.
func ReplyTag(tag language.Tag) language.Tag {
	_, idx, conf := replyMatcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supportedReplyTags[idx]
}

func printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(ReplyTag(tag))
}

// Greeting is the usage text sent for /start.
func Greeting(tag language.Tag) string {
	return printer(tag).Sprintf(msgGreeting)
}

// ErrorReply renders a lookup error as a user-facing message.
func ErrorReply(err error, tag language.Tag) string {
	p := printer(tag)
	ucErr := AsError(err)
	switch {
	case ucErr.Code == ErrorNotFound && ucErr.Reason == ReasonProfileUnavailable:
		return p.Sprintf(msgUnavailable)
	case ucErr.Code == ErrorNotFound:
		return p.Sprintf(msgUnresolved)
	case ucErr.Reason == ReasonUnsupportedLink:
		return p.Sprintf(msgUnsupportedLink)
	case ucErr.Code == ErrorInvalidInput:
		return p.Sprintf(msgEmptyInput)
	default:
		return p.Sprintf(msgInternal)
	}
}

// HistoryReply lists recent lookups, newest first.
func HistoryReply(records []domain.LookupRecord, tag language.Tag) string {
	p := printer(tag)
	if len(records) == 0 {
		return p.Sprintf(msgHistoryEmpty)
	}
	lines := []string{p.Sprintf(msgHistoryHeader)}
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("- %s → %s", r.Input, p.Sprintf(outcomeKey(r.Outcome))))
	}
	return strings.Join(lines, "\n")
}

func outcomeKey(outcome string) string {
	switch outcome {
	case domain.OutcomeFound:
		return msgOutcomeFound
	case domain.OutcomeNotFound:
		return msgOutcomeNotFound
	default:
		return msgOutcomeInvalid
	}
}
