package registration

import "context"

// Service defines the interface for event registration operations
type Service interface {
	// StartRegistration opens registration for a new game cycle
	StartRegistration(ctx context.Context, input *StartRegistrationInput) (*StartRegistrationOutput, error)

	// EndPhase advances the end state machine: the first call closes
	// registration, the second settles the game and resets per-cycle state
	EndPhase(ctx context.Context, input *EndPhaseInput) (*EndPhaseOutput, error)

	// RegisterPlayer enrolls a player and allocates their unique number
	RegisterPlayer(ctx context.Context, input *RegisterPlayerInput) (*RegisterPlayerOutput, error)

	// ResetPlayer removes a single player's registration
	ResetPlayer(ctx context.Context, input *ResetPlayerInput) (*ResetPlayerOutput, error)

	// ChangeNumber reassigns a registered player's number
	ChangeNumber(ctx context.Context, input *ChangeNumberInput) (*ChangeNumberOutput, error)

	// GetStatus reports the guild's registration and game state
	GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error)

	// ListPlayers returns the registered players in registration order
	ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error)

	// FreeNumbers reports how much of the number space remains
	FreeNumbers(ctx context.Context, input *FreeNumbersInput) (*FreeNumbersOutput, error)

	// SetMaxPlayers changes the registration capacity ceiling
	SetMaxPlayers(ctx context.Context, input *SetMaxPlayersInput) (*SetMaxPlayersOutput, error)

	// SetRewardAmount changes the flat settlement payout
	SetRewardAmount(ctx context.Context, input *SetRewardAmountInput) (*SetRewardAmountOutput, error)

	// SetLanguage changes the guild's display language
	SetLanguage(ctx context.Context, input *SetLanguageInput) (*SetLanguageOutput, error)

	// SetBackupChannel designates the automatic backup destination
	SetBackupChannel(ctx context.Context, input *SetBackupChannelInput) (*SetBackupChannelOutput, error)

	// SetLeaderboardMessage records the live leaderboard message pointer
	SetLeaderboardMessage(ctx context.Context, input *SetLeaderboardMessageInput) (*SetLeaderboardMessageOutput, error)

	// ClearLeaderboardMessage drops a stale leaderboard pointer and persists
	// the clearing
	ClearLeaderboardMessage(ctx context.Context, input *ClearLeaderboardMessageInput) (*ClearLeaderboardMessageOutput, error)

	// GetLeaderboardPage builds one page of the leaderboard view
	GetLeaderboardPage(ctx context.Context, input *GetLeaderboardPageInput) (*GetLeaderboardPageOutput, error)
}
