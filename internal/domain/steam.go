package domain

// UnknownCountry marks a friend whose profile carries no country code.
const UnknownCountry = "??"

// Visibility and presence values as reported by the Steam Web API.
const (
	VisibilityPublic = 3

	PersonaOffline = 0
	PersonaOnline  = 1
	PersonaBusy    = 2
	PersonaAway    = 3
	PersonaSnooze  = 4
	PersonaTrade   = 5
	PersonaPlay    = 6
)

// ProfileRecord is a single account summary returned by GetPlayerSummaries.
// Optional fields are left at their zero value when the provider omits them.
type ProfileRecord struct {
	SteamID                  string `json:"steamid"`
	PersonaName              string `json:"personaname"`
	RealName                 string `json:"realname"`
	CountryCode              string `json:"loccountrycode"`
	TimeCreated              int64  `json:"timecreated"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	PersonaState             int    `json:"personastate"`
	AvatarFull               string `json:"avatarfull"`
	ProfileURL               string `json:"profileurl"`
}

// FriendRecord is one friend relation with the friend's country code, or
// UnknownCountry when the friend's profile lacks it.
type FriendRecord struct {
	SteamID     string
	CountryCode string
}

// GameRecord is one owned title with its cumulative playtime in minutes.
type GameRecord struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeMinutes int64  `json:"playtime_forever"`
}

// ProfileAggregate is everything the summarizer needs about one account.
// Games holds at most the ten highest-playtime titles.
type ProfileAggregate struct {
	Profile ProfileRecord
	Friends []FriendRecord
	Games   []GameRecord
}
