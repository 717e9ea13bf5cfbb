package registration

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/inkgame/inkbot/internal/economy"
	"github.com/inkgame/inkbot/internal/models"
	"github.com/inkgame/inkbot/internal/numbers"
	"github.com/inkgame/inkbot/internal/store"
)

var supportedLanguages = map[string]bool{
	"en": true,
	"ru": true,
}

// service implements the Service interface
type service struct {
	store       *store.Store
	economy     economy.Client
	numbers     numbers.Source
	payoutDelay time.Duration
	prizeTable  []int64
}

// New creates a new registration service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Store == nil {
		return nil, ErrNilStore
	}
	if cfg.Economy == nil {
		return nil, ErrNilEconomy
	}
	if cfg.Numbers == nil {
		return nil, ErrNilNumberSource
	}

	delay := cfg.PayoutDelay
	if delay == 0 {
		delay = 500 * time.Millisecond
	}
	if delay < 0 {
		delay = 0
	}

	prizes := cfg.PrizeTable
	if len(prizes) == 0 {
		prizes = DefaultPrizeTable
	}

	return &service{
		store:       cfg.Store,
		economy:     cfg.Economy,
		numbers:     cfg.Numbers,
		payoutDelay: delay,
		prizeTable:  prizes,
	}, nil
}

// StartRegistration opens registration for a new game cycle.
func (s *service) StartRegistration(ctx context.Context, input *StartRegistrationInput) (*StartRegistrationOutput, error) {
	out := &StartRegistrationOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if cfg.RegistrationOpen {
			return ErrRegistrationOpen
		}
		if cfg.GameActive {
			return ErrGameInProgress
		}

		cfg.RegistrationOpen = true
		cfg.GameActive = true
		cfg.PrizesDistributed = false

		out.MaxPlayers = cfg.MaxPlayers
		out.AvailableSpots = cfg.MaxPlayers - len(cfg.RegisteredPlayers)
		out.MinNumber = cfg.MinNumber
		out.MaxNumber = cfg.MaxNumber
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// EndPhase advances the end state machine. The first call in a cycle closes
// registration; the second performs settlement and returns the guild to idle.
// Calling it again after settlement is rejected without touching state or
// writing to disk.
func (s *service) EndPhase(ctx context.Context, input *EndPhaseInput) (*EndPhaseOutput, error) {
	out := &EndPhaseOutput{}

	var settle *settlementPlan

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if !cfg.GameActive {
			return ErrGameNotActive
		}

		out.RegisteredCount = len(cfg.RegisteredPlayers)
		out.MaxPlayers = cfg.MaxPlayers

		if cfg.RegistrationOpen {
			cfg.RegistrationOpen = false
			out.Phase = EndPhaseClosed
			return nil
		}

		// Second call: the game ends now; payouts happen outside the lock
		cfg.GameActive = false
		out.Phase = EndPhaseSettled

		settle = &settlementPlan{
			players:           make([]SettledPlayer, 0, len(cfg.RegistrationOrder)),
			rewardAmount:      cfg.RewardAmount,
			prizesDistributed: cfg.PrizesDistributed,
			roleName:          cfg.RegistrationRoleName,
		}
		for _, userID := range cfg.RegistrationOrder {
			settle.players = append(settle.players, SettledPlayer{
				UserID: userID,
				Number: cfg.PlayerNumbers[userID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Phase == EndPhaseClosed {
		return out, nil
	}

	result := s.runSettlement(ctx, input.GuildID, settle)
	out.Settlement = result

	// Clear per-cycle state; titles survive settlement
	err = s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if len(result.PrizeAwards) > 0 {
			cfg.PrizesDistributed = true
		}
		cfg.UsedNumbers = make(models.IntSet)
		cfg.RegisteredPlayers = make(models.StringSet)
		cfg.PlayerNumbers = make(map[string]string)
		cfg.RegistrationOrder = []string{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

type settlementPlan struct {
	players           []SettledPlayer
	rewardAmount      int64
	prizesDistributed bool
	roleName          string
}

// runSettlement pays prizes and rewards. Every call is attempted
// independently; failures are collected, never fatal. Calls are paced to stay
// under the economy API's rate limits.
func (s *service) runSettlement(ctx context.Context, guildID string, plan *settlementPlan) *SettlementResult {
	result := &SettlementResult{
		Players:      plan.players,
		RewardAmount: plan.rewardAmount,
		RoleName:     plan.roleName,
	}

	if len(plan.players) == 0 {
		result.PrizesSkipped = true
		return result
	}

	// Top-3 prizes by registration order, paid once per cycle
	if len(plan.players) >= 3 && !plan.prizesDistributed {
		for place := 0; place < 3 && place < len(s.prizeTable); place++ {
			winner := plan.players[place]
			amount := s.prizeTable[place]

			if err := s.economy.AdjustBalance(ctx, guildID, winner.UserID, amount); err != nil {
				result.PayoutErrors = append(result.PayoutErrors,
					fmt.Sprintf("prize for %s: %v", winner.UserID, err))
			} else {
				result.PrizeAwards = append(result.PrizeAwards, PrizeAward{
					Place:  place + 1,
					UserID: winner.UserID,
					Amount: amount,
				})
			}
			s.pause()
		}
	} else {
		result.PrizesSkipped = true
	}

	// Flat participation reward for everyone
	for _, player := range plan.players {
		if err := s.economy.AdjustBalance(ctx, guildID, player.UserID, plan.rewardAmount); err != nil {
			result.PayoutErrors = append(result.PayoutErrors,
				fmt.Sprintf("reward for %s: %v", player.UserID, err))
		} else {
			result.RewardsPaid++
		}
		s.pause()
	}

	return result
}

func (s *service) pause() {
	if s.payoutDelay > 0 {
		time.Sleep(s.payoutDelay)
	}
}

// RegisterPlayer enrolls a player, allocating a unique number. Role and
// nickname work is returned to the caller; cosmetic failures there do not
// roll back the registration.
func (s *service) RegisterPlayer(ctx context.Context, input *RegisterPlayerInput) (*RegisterPlayerOutput, error) {
	out := &RegisterPlayerOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if !cfg.RegistrationOpen {
			return ErrRegistrationClosed
		}
		if len(cfg.RegisteredPlayers) >= cfg.MaxPlayers {
			return ErrCapacityReached
		}
		if cfg.RegisteredPlayers.Contains(input.UserID) {
			return ErrAlreadyRegistered
		}

		n, err := numbers.Allocate(s.numbers, cfg)
		if err != nil {
			return ErrNumbersExhausted
		}

		formatted := numbers.Format(n)
		cfg.RegisteredPlayers.Add(input.UserID)
		cfg.PlayerNumbers[input.UserID] = formatted
		cfg.RegistrationOrder = append(cfg.RegistrationOrder, input.UserID)

		out.Number = formatted
		out.Position = len(cfg.RegistrationOrder)
		out.MaxPlayers = cfg.MaxPlayers
		out.RoleName = cfg.RegistrationRoleName
		out.Nickname = numbers.WithSuffix(input.DisplayName, formatted)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ResetPlayer removes a single player's registration. Valid in any state.
func (s *service) ResetPlayer(ctx context.Context, input *ResetPlayerInput) (*ResetPlayerOutput, error) {
	out := &ResetPlayerOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if !cfg.RegisteredPlayers.Contains(input.UserID) {
			return ErrNotRegistered
		}

		formatted := cfg.PlayerNumbers[input.UserID]
		if n, err := strconv.Atoi(formatted); err == nil {
			cfg.UsedNumbers.Remove(n)
		}

		cfg.RegisteredPlayers.Remove(input.UserID)
		delete(cfg.PlayerNumbers, input.UserID)

		order := cfg.RegistrationOrder[:0]
		for _, id := range cfg.RegistrationOrder {
			if id != input.UserID {
				order = append(order, id)
			}
		}
		cfg.RegistrationOrder = order

		out.FreedNumber = formatted
		out.RestoredNick = numbers.RestoredNick(input.DisplayName, input.Username)
		out.RoleName = cfg.RegistrationRoleName
		out.RegisteredCount = len(cfg.RegisteredPlayers)
		out.MaxPlayers = cfg.MaxPlayers
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ChangeNumber reassigns a registered player's number to a requested one.
func (s *service) ChangeNumber(ctx context.Context, input *ChangeNumberInput) (*ChangeNumberOutput, error) {
	out := &ChangeNumberOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if !cfg.RegisteredPlayers.Contains(input.UserID) {
			return ErrNotRegistered
		}
		if input.Number < cfg.MinNumber || input.Number > cfg.MaxNumber {
			return ErrNumberOutOfRange
		}

		current := cfg.PlayerNumbers[input.UserID]
		currentInt, _ := strconv.Atoi(current)

		if input.Number != currentInt && cfg.UsedNumbers.Contains(input.Number) {
			return ErrNumberTaken
		}

		cfg.UsedNumbers.Remove(currentInt)
		cfg.UsedNumbers.Add(input.Number)

		formatted := numbers.Format(input.Number)
		cfg.PlayerNumbers[input.UserID] = formatted

		out.OldNumber = current
		out.NewNumber = formatted
		out.Nickname = numbers.WithSuffix(input.DisplayName, formatted)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetStatus reports the guild's registration and game state.
func (s *service) GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error) {
	out := &GetStatusOutput{}

	s.store.View(input.GuildID, input.GuildName, func(cfg *models.GuildConfig) {
		out.RegistrationOpen = cfg.RegistrationOpen
		out.GameActive = cfg.GameActive
		out.RegisteredCount = len(cfg.RegisteredPlayers)
		out.MaxPlayers = cfg.MaxPlayers
		out.AvailableSpots = cfg.MaxPlayers - len(cfg.RegisteredPlayers)
		out.UsedNumbers = len(cfg.UsedNumbers)
		out.TotalNumbers = cfg.MaxNumber - cfg.MinNumber + 1
		out.MinNumber = cfg.MinNumber
		out.MaxNumber = cfg.MaxNumber
		out.RewardAmount = cfg.RewardAmount
		out.RoleName = cfg.RegistrationRoleName
		out.Language = cfg.Language
		out.BackupChannelID = cfg.BackupChannelID
		out.LeaderboardChannelID = cfg.LeaderboardChannelID
		out.LeaderboardMessageID = cfg.LeaderboardMessageID
	})

	return out, nil
}

// ListPlayers returns the registered players in registration order.
func (s *service) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	out := &ListPlayersOutput{}

	s.store.View(input.GuildID, input.GuildName, func(cfg *models.GuildConfig) {
		out.RegistrationOpen = cfg.RegistrationOpen
		out.GameActive = cfg.GameActive
		out.MaxPlayers = cfg.MaxPlayers

		out.Players = make([]PlayerEntry, 0, len(cfg.RegistrationOrder))
		for i, userID := range cfg.RegistrationOrder {
			entry := PlayerEntry{
				UserID:   userID,
				Number:   cfg.PlayerNumbers[userID],
				Position: i + 1,
			}
			if inv, ok := cfg.PlayerTitles[userID]; ok {
				entry.EquippedTitle = inv.Equipped
			}
			out.Players = append(out.Players, entry)
		}
	})

	return out, nil
}

// FreeNumbers reports how much of the number space remains.
func (s *service) FreeNumbers(ctx context.Context, input *FreeNumbersInput) (*FreeNumbersOutput, error) {
	sampleSize := input.SampleSize
	if sampleSize <= 0 {
		sampleSize = 30
	}

	out := &FreeNumbersOutput{}

	s.store.View(input.GuildID, input.GuildName, func(cfg *models.GuildConfig) {
		out.TotalCount = cfg.MaxNumber - cfg.MinNumber + 1
		out.FreeCount = out.TotalCount - len(cfg.UsedNumbers)

		for n := cfg.MinNumber; n <= cfg.MaxNumber && len(out.Sample) < sampleSize; n++ {
			if !cfg.UsedNumbers.Contains(n) {
				out.Sample = append(out.Sample, n)
			}
		}
	})

	return out, nil
}

// SetMaxPlayers changes the registration capacity ceiling.
func (s *service) SetMaxPlayers(ctx context.Context, input *SetMaxPlayersInput) (*SetMaxPlayersOutput, error) {
	if input.MaxPlayers <= 0 {
		return nil, ErrInvalidCapacity
	}

	out := &SetMaxPlayersOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if input.MaxPlayers < len(cfg.RegisteredPlayers) {
			return ErrCapacityBelowCount
		}
		cfg.MaxPlayers = input.MaxPlayers

		out.MaxPlayers = cfg.MaxPlayers
		out.RegisteredCount = len(cfg.RegisteredPlayers)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SetRewardAmount changes the flat settlement payout.
func (s *service) SetRewardAmount(ctx context.Context, input *SetRewardAmountInput) (*SetRewardAmountOutput, error) {
	if input.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		cfg.RewardAmount = input.Amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetRewardAmountOutput{Amount: input.Amount}, nil
}

// SetLanguage changes the guild's display language.
func (s *service) SetLanguage(ctx context.Context, input *SetLanguageInput) (*SetLanguageOutput, error) {
	if !supportedLanguages[input.Code] {
		return nil, ErrUnsupportedLang
	}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		cfg.Language = input.Code
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetLanguageOutput{Code: input.Code}, nil
}

// SetBackupChannel designates the automatic backup destination.
func (s *service) SetBackupChannel(ctx context.Context, input *SetBackupChannelInput) (*SetBackupChannelOutput, error) {
	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		cfg.BackupChannelID = input.ChannelID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetBackupChannelOutput{ChannelID: input.ChannelID}, nil
}

// SetLeaderboardMessage records the live leaderboard message pointer.
func (s *service) SetLeaderboardMessage(ctx context.Context, input *SetLeaderboardMessageInput) (*SetLeaderboardMessageOutput, error) {
	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		cfg.LeaderboardChannelID = input.ChannelID
		cfg.LeaderboardMessageID = input.MessageID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetLeaderboardMessageOutput{
		ChannelID: input.ChannelID,
		MessageID: input.MessageID,
	}, nil
}

// ClearLeaderboardMessage drops a stale leaderboard pointer and persists the
// clearing, so a deleted message stops being edited on every refresh.
func (s *service) ClearLeaderboardMessage(ctx context.Context, input *ClearLeaderboardMessageInput) (*ClearLeaderboardMessageOutput, error) {
	out := &ClearLeaderboardMessageOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		if cfg.LeaderboardMessageID == "" && cfg.LeaderboardChannelID == "" {
			return nil
		}
		cfg.LeaderboardMessageID = ""
		cfg.LeaderboardChannelID = ""
		out.Cleared = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetLeaderboardPage builds one page of the leaderboard view.
func (s *service) GetLeaderboardPage(ctx context.Context, input *GetLeaderboardPageInput) (*GetLeaderboardPageOutput, error) {
	out := &GetLeaderboardPageOutput{}

	s.store.View(input.GuildID, input.GuildName, func(cfg *models.GuildConfig) {
		total := len(cfg.RegistrationOrder)
		out.TotalPlayers = total
		out.MaxPlayers = cfg.MaxPlayers

		out.TotalPages = (total + LeaderboardPageSize - 1) / LeaderboardPageSize
		if out.TotalPages == 0 {
			out.TotalPages = 1
		}

		page := input.Page
		if page < 1 {
			page = 1
		}
		if page > out.TotalPages {
			page = out.TotalPages
		}
		out.Page = page

		start := (page - 1) * LeaderboardPageSize
		end := start + LeaderboardPageSize
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			userID := cfg.RegistrationOrder[i]
			entry := LeaderboardEntry{
				Position: i + 1,
				UserID:   userID,
				Number:   cfg.PlayerNumbers[userID],
			}
			if inv, ok := cfg.PlayerTitles[userID]; ok {
				entry.EquippedTitle = inv.Equipped
			}
			out.Entries = append(out.Entries, entry)
		}

		if total >= 3 {
			out.ShowPrizes = true
			for place, amount := range s.prizeTable {
				out.Prizes = append(out.Prizes, PrizeTier{
					Place:  place + 1,
					Amount: amount,
				})
			}
		}
	})

	return out, nil
}
