package models

// Default values for a freshly created guild configuration.
const (
	DefaultMaxPlayers   = 90
	DefaultMinNumber    = 1
	DefaultMaxNumber    = 456
	DefaultRoleName     = "Registered"
	DefaultRewardAmount = 25000
	DefaultLanguage     = "en"
)

// TitleInventory tracks the cosmetic titles a user owns and which one is displayed.
type TitleInventory struct {
	// Owned contains the names of titles the user has purchased or been granted
	Owned StringSet `json:"owned"`

	// Equipped is the title shown on the leaderboard, empty if none.
	// If set, it must be a member of Owned.
	Equipped string `json:"equipped,omitempty"`
}

// GuildConfig holds all per-guild event state. One record exists per Discord
// guild; records are created lazily with defaults and never deleted.
type GuildConfig struct {
	// GuildName is the display name of the guild, informational only
	GuildName string `json:"guild_name"`

	// MaxPlayers is the registration capacity ceiling
	MaxPlayers int `json:"max_players"`

	// MinNumber and MaxNumber are the inclusive bounds of the number space
	MinNumber int `json:"min_number"`
	MaxNumber int `json:"max_number"`

	// RegistrationRoleName is the role granted to registered players
	RegistrationRoleName string `json:"registration_role_name"`

	// UsedNumbers holds the numbers currently allocated to players
	UsedNumbers IntSet `json:"used_numbers"`

	// RegisteredPlayers holds the user IDs currently enrolled
	RegisteredPlayers StringSet `json:"registered_players"`

	// PlayerNumbers maps user ID to the zero-padded 3-digit number string
	PlayerNumbers map[string]string `json:"player_numbers"`

	// RegistrationOrder is the insertion order of registration, the basis for
	// leaderboard rank and top-3 prize eligibility
	RegistrationOrder []string `json:"registration_order"`

	// State machine flags
	RegistrationOpen bool `json:"registration_open"`
	GameActive       bool `json:"game_active"`

	// PrizesDistributed guards against double payout within one game cycle
	PrizesDistributed bool `json:"prizes_distributed"`

	// PlayerTitles persists across game resets, never cleared by settlement
	PlayerTitles map[string]*TitleInventory `json:"player_titles"`

	// Pointer to the live leaderboard message, cleared if the message is gone
	LeaderboardMessageID string `json:"leaderboard_message_id,omitempty"`
	LeaderboardChannelID string `json:"leaderboard_channel_id,omitempty"`

	// BackupChannelID is the destination for automatic backup snapshots
	BackupChannelID string `json:"backup_channel_id,omitempty"`

	// RewardAmount is the flat payout per participant at settlement
	RewardAmount int64 `json:"reward_amount"`

	// Language is the guild's display language code
	Language string `json:"language,omitempty"`
}

// NewGuildConfig returns a fresh configuration with default values. Every
// mutable collection is freshly allocated so records never share state.
func NewGuildConfig(guildName string) *GuildConfig {
	return &GuildConfig{
		GuildName:            guildName,
		MaxPlayers:           DefaultMaxPlayers,
		MinNumber:            DefaultMinNumber,
		MaxNumber:            DefaultMaxNumber,
		RegistrationRoleName: DefaultRoleName,
		UsedNumbers:          make(IntSet),
		RegisteredPlayers:    make(StringSet),
		PlayerNumbers:        make(map[string]string),
		RegistrationOrder:    []string{},
		PlayerTitles:         make(map[string]*TitleInventory),
		RewardAmount:         DefaultRewardAmount,
		Language:             DefaultLanguage,
	}
}

// Clone returns a deep copy of the configuration.
func (c *GuildConfig) Clone() *GuildConfig {
	clone := *c

	clone.UsedNumbers = make(IntSet, len(c.UsedNumbers))
	for n := range c.UsedNumbers {
		clone.UsedNumbers[n] = true
	}

	clone.RegisteredPlayers = make(StringSet, len(c.RegisteredPlayers))
	for id := range c.RegisteredPlayers {
		clone.RegisteredPlayers[id] = true
	}

	clone.PlayerNumbers = make(map[string]string, len(c.PlayerNumbers))
	for id, num := range c.PlayerNumbers {
		clone.PlayerNumbers[id] = num
	}

	clone.RegistrationOrder = make([]string, len(c.RegistrationOrder))
	copy(clone.RegistrationOrder, c.RegistrationOrder)

	clone.PlayerTitles = make(map[string]*TitleInventory, len(c.PlayerTitles))
	for id, inv := range c.PlayerTitles {
		owned := make(StringSet, len(inv.Owned))
		for t := range inv.Owned {
			owned[t] = true
		}
		clone.PlayerTitles[id] = &TitleInventory{
			Owned:    owned,
			Equipped: inv.Equipped,
		}
	}

	return &clone
}

// Normalize replaces nil collections with empty ones. Configurations loaded
// from older save files may be missing newer fields entirely.
func (c *GuildConfig) Normalize() {
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = DefaultMaxPlayers
	}
	if c.MinNumber <= 0 {
		c.MinNumber = DefaultMinNumber
	}
	if c.MaxNumber <= 0 {
		c.MaxNumber = DefaultMaxNumber
	}
	if c.RegistrationRoleName == "" {
		c.RegistrationRoleName = DefaultRoleName
	}
	if c.RewardAmount <= 0 {
		c.RewardAmount = DefaultRewardAmount
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.UsedNumbers == nil {
		c.UsedNumbers = make(IntSet)
	}
	if c.RegisteredPlayers == nil {
		c.RegisteredPlayers = make(StringSet)
	}
	if c.PlayerNumbers == nil {
		c.PlayerNumbers = make(map[string]string)
	}
	if c.RegistrationOrder == nil {
		c.RegistrationOrder = []string{}
	}
	if c.PlayerTitles == nil {
		c.PlayerTitles = make(map[string]*TitleInventory)
	}
	for _, inv := range c.PlayerTitles {
		if inv.Owned == nil {
			inv.Owned = make(StringSet)
		}
	}
}
