package usecase

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/language"

	"steam-profile-bot/internal/domain"
)

const cardNameFallback = "—"

// CardField is one labelled line of the profile card.
type CardField struct {
	Icon  string
	Label string
	Value string
}

// ProfileCard is the short profile summary sent before the commentary.
// PhotoURL is empty when the profile has no avatar.
type ProfileCard struct {
	Fields     []CardField
	LinkLabel  string
	ProfileURL string
	PhotoURL   string
}

// BuildProfileCard renders the card labels in the reply language for tag.
func BuildProfileCard(p domain.ProfileRecord, tag language.Tag) ProfileCard {
	pr := printer(tag)

	visibility := msgPrivate
	if p.CommunityVisibilityState == domain.VisibilityPublic {
		visibility = msgPublic
	}

	return ProfileCard{
		Fields: []CardField{
			{Icon: "👤", Label: pr.Sprintf(msgName), Value: orDefault(p.PersonaName, cardNameFallback)},
			{Icon: "🌐", Label: pr.Sprintf(msgStatus), Value: pr.Sprintf(personaStateKey(p.PersonaState))},
			{Icon: "👁️", Label: pr.Sprintf(msgVisibility), Value: pr.Sprintf(visibility)},
		},
		LinkLabel:  pr.Sprintf(msgOpenProfile),
		ProfileURL: p.ProfileURL,
		PhotoURL:   p.AvatarFull,
	}
}

// HTML renders the card for Telegram's HTML parse mode.
func (c ProfileCard) HTML() string {
	lines := make([]string, 0, len(c.Fields)+1)
	for _, f := range c.Fields {
		lines = append(lines, fmt.Sprintf("%s <b>%s:</b> %s", f.Icon, html.EscapeString(f.Label), html.EscapeString(f.Value)))
	}
	if c.ProfileURL != "" {
		lines = append(lines, fmt.Sprintf("🔗 <a href=\"%s\">%s</a>", html.EscapeString(c.ProfileURL), html.EscapeString(c.LinkLabel)))
	}
	return strings.Join(lines, "\n")
}

// Text renders the card as plain text.
func (c ProfileCard) Text() string {
	lines := make([]string, 0, len(c.Fields)+1)
	for _, f := range c.Fields {
		lines = append(lines, fmt.Sprintf("%s %s: %s", f.Icon, f.Label, f.Value))
	}
	if c.ProfileURL != "" {
		lines = append(lines, fmt.Sprintf("🔗 %s: %s", c.LinkLabel, c.ProfileURL))
	}
	return strings.Join(lines, "\n")
}

func personaStateKey(state int) string {
	switch state {
	case domain.PersonaOffline:
		return msgOffline
	case domain.PersonaOnline:
		return msgOnline
	case domain.PersonaBusy:
		return msgBusy
	case domain.PersonaAway:
		return msgAway
	case domain.PersonaSnooze:
		return msgSnooze
	case domain.PersonaTrade:
		return msgLookingTrade
	case domain.PersonaPlay:
		return msgLookingPlay
	default:
		return msgUnknownStatus
	}
}
