package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"steam-profile-bot/internal/domain"
)

func TestBuildProfileCard_Russian(t *testing.T) {
	card := BuildProfileCard(domain.ProfileRecord{
		PersonaName:              "<gaben>",
		PersonaState:             domain.PersonaPlay,
		CommunityVisibilityState: domain.VisibilityPublic,
		ProfileURL:               "https://steamcommunity.com/id/gaben/",
		AvatarFull:               "https://avatars.example/full.jpg",
	}, language.Russian)

	require.Equal(t, "👤 <b>Имя:</b> &lt;gaben&gt;\n"+
		"🌐 <b>Статус:</b> Хочет поиграть\n"+
		"👁️ <b>Видимость:</b> Публичный\n"+
		"🔗 <a href=\"https://steamcommunity.com/id/gaben/\">Открыть профиль</a>", card.HTML())
	require.Equal(t, "https://avatars.example/full.jpg", card.PhotoURL)
}

func TestBuildProfileCard_EnglishFallbacks(t *testing.T) {
	card := BuildProfileCard(domain.ProfileRecord{PersonaState: 42, CommunityVisibilityState: 1}, language.English)

	require.Equal(t, "👤 Name: —\n🌐 Status: Unknown\n👁️ Visibility: Private", card.Text())
	require.Empty(t, card.PhotoURL)
}

func TestPersonaStateKey(t *testing.T) {
	want := []string{"Offline", "Online", "Busy", "Away", "Snooze", "Looking to trade", "Looking to play"}
	for state, label := range want {
		require.Equal(t, label, personaStateKey(state))
	}
	require.Equal(t, "Unknown", personaStateKey(-1))
}
