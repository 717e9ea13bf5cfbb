package registration

import (
	"context"
	"errors"
	"testing"

	economyMocks "github.com/inkgame/inkbot/internal/economy/mocks"
	"github.com/inkgame/inkbot/internal/models"
	stateMocks "github.com/inkgame/inkbot/internal/repositories/guildstate/mocks"
	"github.com/inkgame/inkbot/internal/store"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// seqSource hands out offsets 0, 1, 2, ... so allocated numbers are
// MinNumber, MinNumber+1, ... in order.
type seqSource struct {
	next int
}

func (s *seqSource) Intn(n int) int {
	v := s.next % n
	s.next++
	return v
}

type RegistrationServiceTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockRepo    *stateMocks.MockRepository
	mockEconomy *economyMocks.MockClient
	store       *store.Store
	service     Service
	ctx         context.Context

	testGuildID   string
	testGuildName string
	testUserID    string
	testUserID2   string
	testUserID3   string
}

func (s *RegistrationServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = stateMocks.NewMockRepository(s.mockCtrl)
	s.mockEconomy = economyMocks.NewMockClient(s.mockCtrl)

	s.ctx = context.Background()

	s.testGuildID = "guild-123"
	s.testGuildName = "Test Guild"
	s.testUserID = "user-1"
	s.testUserID2 = "user-2"
	s.testUserID3 = "user-3"

	st, err := store.New(&store.Config{Repo: s.mockRepo})
	s.Require().NoError(err)
	s.store = st

	svc, err := New(&Config{
		Store:       st,
		Economy:     s.mockEconomy,
		Numbers:     &seqSource{},
		PayoutDelay: -1,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *RegistrationServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectSaves allows the repository to accept any number of persists.
func (s *RegistrationServiceTestSuite) expectSaves() {
	s.mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *RegistrationServiceTestSuite) startGame() {
	_, err := s.service.StartRegistration(s.ctx, &StartRegistrationInput{
		GuildID:   s.testGuildID,
		GuildName: s.testGuildName,
	})
	s.Require().NoError(err)
}

func (s *RegistrationServiceTestSuite) register(userID, displayName string) *RegisterPlayerOutput {
	out, err := s.service.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GuildID:     s.testGuildID,
		GuildName:   s.testGuildName,
		UserID:      userID,
		DisplayName: displayName,
	})
	s.Require().NoError(err)
	return out
}

func (s *RegistrationServiceTestSuite) TestNew_ValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilStore)

	_, err = New(&Config{Store: s.store})
	s.ErrorIs(err, ErrNilEconomy)

	_, err = New(&Config{Store: s.store, Economy: s.mockEconomy})
	s.ErrorIs(err, ErrNilNumberSource)
}

func (s *RegistrationServiceTestSuite) TestStartRegistration() {
	s.expectSaves()

	out, err := s.service.StartRegistration(s.ctx, &StartRegistrationInput{
		GuildID:   s.testGuildID,
		GuildName: s.testGuildName,
	})
	s.Require().NoError(err)
	s.Equal(models.DefaultMaxPlayers, out.MaxPlayers)
	s.Equal(models.DefaultMaxPlayers, out.AvailableSpots)
	s.Equal(models.DefaultMinNumber, out.MinNumber)
	s.Equal(models.DefaultMaxNumber, out.MaxNumber)

	status, err := s.service.GetStatus(s.ctx, &GetStatusInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.True(status.RegistrationOpen)
	s.True(status.GameActive)
}

func (s *RegistrationServiceTestSuite) TestStartRegistration_AlreadyOpen() {
	s.expectSaves()
	s.startGame()

	_, err := s.service.StartRegistration(s.ctx, &StartRegistrationInput{
		GuildID: s.testGuildID,
	})
	s.ErrorIs(err, ErrRegistrationOpen)
}

func (s *RegistrationServiceTestSuite) TestStartRegistration_GameStillActive() {
	s.expectSaves()
	s.startGame()

	// Close registration but leave the game running
	_, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.StartRegistration(s.ctx, &StartRegistrationInput{
		GuildID: s.testGuildID,
	})
	s.ErrorIs(err, ErrGameInProgress)
}

func (s *RegistrationServiceTestSuite) TestRegisterPlayer() {
	s.expectSaves()
	s.startGame()

	out := s.register(s.testUserID, "Player One")
	s.Equal("001", out.Number)
	s.Equal(1, out.Position)
	s.Equal(models.DefaultRoleName, out.RoleName)
	s.Equal("Player One (001)", out.Nickname)

	out = s.register(s.testUserID2, "Player Two")
	s.Equal("002", out.Number)
	s.Equal(2, out.Position)
}

func (s *RegistrationServiceTestSuite) TestRegisterPlayer_RegistrationClosed() {
	s.expectSaves()

	_, err := s.service.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
	})
	s.ErrorIs(err, ErrRegistrationClosed)
}

func (s *RegistrationServiceTestSuite) TestRegisterPlayer_Duplicate() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")

	_, err := s.service.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GuildID:     s.testGuildID,
		UserID:      s.testUserID,
		DisplayName: "Player One",
	})
	s.ErrorIs(err, ErrAlreadyRegistered)

	// The duplicate attempt must not disturb the original registration
	players, err := s.service.ListPlayers(s.ctx, &ListPlayersInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Len(players.Players, 1)
	s.Equal("001", players.Players[0].Number)
}

func (s *RegistrationServiceTestSuite) TestRegisterPlayer_CapacityReached() {
	s.expectSaves()
	s.startGame()

	_, err := s.service.SetMaxPlayers(s.ctx, &SetMaxPlayersInput{
		GuildID:    s.testGuildID,
		MaxPlayers: 2,
	})
	s.Require().NoError(err)

	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")

	_, err = s.service.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GuildID:     s.testGuildID,
		UserID:      s.testUserID3,
		DisplayName: "Player Three",
	})
	s.ErrorIs(err, ErrCapacityReached)

	status, err := s.service.GetStatus(s.ctx, &GetStatusInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(2, status.RegisteredCount)
	s.Equal(0, status.AvailableSpots)
}

func (s *RegistrationServiceTestSuite) TestRegisterPlayer_RejectionDoesNotPersist() {
	// Exactly one persist: opening registration. The rejected register
	// must not reach the repository.
	s.mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	s.startGame()

	_, err := s.service.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GuildID: "other-guild",
		UserID:  s.testUserID,
	})
	s.ErrorIs(err, ErrRegistrationClosed)
}

func (s *RegistrationServiceTestSuite) TestRegisterPlayer_NumbersExhausted() {
	s.expectSaves()
	s.startGame()

	// Shrink the number space to two via direct store mutation
	err := s.store.Update(s.ctx, s.testGuildID, "", func(cfg *models.GuildConfig) error {
		cfg.MinNumber = 1
		cfg.MaxNumber = 2
		return nil
	})
	s.Require().NoError(err)

	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")

	_, err = s.service.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GuildID:     s.testGuildID,
		UserID:      s.testUserID3,
		DisplayName: "Player Three",
	})
	s.ErrorIs(err, ErrNumbersExhausted)
}

func (s *RegistrationServiceTestSuite) TestResetPlayer() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")

	out, err := s.service.ResetPlayer(s.ctx, &ResetPlayerInput{
		GuildID:     s.testGuildID,
		UserID:      s.testUserID,
		DisplayName: "Player One (001)",
		Username:    "playerone",
	})
	s.Require().NoError(err)
	s.Equal("001", out.FreedNumber)
	s.Equal("Player One", out.RestoredNick)
	s.Equal(1, out.RegisteredCount)

	// The freed number goes back into the pool and the order closes up
	players, err := s.service.ListPlayers(s.ctx, &ListPlayersInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Len(players.Players, 1)
	s.Equal(s.testUserID2, players.Players[0].UserID)
	s.Equal(1, players.Players[0].Position)

	free, err := s.service.FreeNumbers(s.ctx, &FreeNumbersInput{GuildID: s.testGuildID, SampleSize: 3})
	s.Require().NoError(err)
	s.Equal([]int{1, 3, 4}, free.Sample)
}

func (s *RegistrationServiceTestSuite) TestResetPlayer_NotRegistered() {
	s.expectSaves()
	s.startGame()

	_, err := s.service.ResetPlayer(s.ctx, &ResetPlayerInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
	})
	s.ErrorIs(err, ErrNotRegistered)
}

func (s *RegistrationServiceTestSuite) TestChangeNumber() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")

	out, err := s.service.ChangeNumber(s.ctx, &ChangeNumberInput{
		GuildID:     s.testGuildID,
		UserID:      s.testUserID,
		DisplayName: "Player One (001)",
		Number:      77,
	})
	s.Require().NoError(err)
	s.Equal("001", out.OldNumber)
	s.Equal("077", out.NewNumber)
	s.Equal("Player One (077)", out.Nickname)

	// The old number is free again
	free, err := s.service.FreeNumbers(s.ctx, &FreeNumbersInput{GuildID: s.testGuildID, SampleSize: 1})
	s.Require().NoError(err)
	s.Equal([]int{1}, free.Sample)
}

func (s *RegistrationServiceTestSuite) TestChangeNumber_Taken() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")

	_, err := s.service.ChangeNumber(s.ctx, &ChangeNumberInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Number:  2,
	})
	s.ErrorIs(err, ErrNumberTaken)
}

func (s *RegistrationServiceTestSuite) TestChangeNumber_SameNumberAllowed() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")

	out, err := s.service.ChangeNumber(s.ctx, &ChangeNumberInput{
		GuildID:     s.testGuildID,
		UserID:      s.testUserID,
		DisplayName: "Player One",
		Number:      1,
	})
	s.Require().NoError(err)
	s.Equal("001", out.NewNumber)
}

func (s *RegistrationServiceTestSuite) TestChangeNumber_OutOfRange() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")

	_, err := s.service.ChangeNumber(s.ctx, &ChangeNumberInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Number:  457,
	})
	s.ErrorIs(err, ErrNumberOutOfRange)

	_, err = s.service.ChangeNumber(s.ctx, &ChangeNumberInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Number:  0,
	})
	s.ErrorIs(err, ErrNumberOutOfRange)
}

func (s *RegistrationServiceTestSuite) TestEndPhase_FullCycle() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")
	s.register(s.testUserID3, "Player Three")

	// Give a player a title; it must survive settlement
	err := s.store.Update(s.ctx, s.testGuildID, "", func(cfg *models.GuildConfig) error {
		cfg.PlayerTitles[s.testUserID] = &models.TitleInventory{
			Owned:    models.StringSet{"VIP": true},
			Equipped: "VIP",
		}
		return nil
	})
	s.Require().NoError(err)

	// First end call closes registration only
	out, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(EndPhaseClosed, out.Phase)
	s.Equal(3, out.RegisteredCount)
	s.Nil(out.Settlement)

	status, err := s.service.GetStatus(s.ctx, &GetStatusInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.False(status.RegistrationOpen)
	s.True(status.GameActive)

	// With 3+ players, settlement pays three prizes then three rewards
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(1000000)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID2, int64(500000)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID3, int64(250000)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(models.DefaultRewardAmount)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID2, int64(models.DefaultRewardAmount)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID3, int64(models.DefaultRewardAmount)).Return(nil)

	out, err = s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(EndPhaseSettled, out.Phase)
	s.Require().NotNil(out.Settlement)
	s.Len(out.Settlement.PrizeAwards, 3)
	s.Equal(1, out.Settlement.PrizeAwards[0].Place)
	s.Equal(s.testUserID, out.Settlement.PrizeAwards[0].UserID)
	s.Equal(3, out.Settlement.RewardsPaid)
	s.Empty(out.Settlement.PayoutErrors)
	s.False(out.Settlement.PrizesSkipped)

	// Per-cycle state is gone; titles remain
	status, err = s.service.GetStatus(s.ctx, &GetStatusInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.False(status.GameActive)
	s.Equal(0, status.RegisteredCount)
	s.Equal(0, status.UsedNumbers)

	cfg := s.store.GuildSnapshot(s.testGuildID, "")
	s.True(cfg.PrizesDistributed)
	s.Empty(cfg.RegistrationOrder)
	s.Require().Contains(cfg.PlayerTitles, s.testUserID)
	s.Equal("VIP", cfg.PlayerTitles[s.testUserID].Equipped)
}

func (s *RegistrationServiceTestSuite) TestEndPhase_FewPlayersSkipsPrizes() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")

	_, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	// Only the two flat rewards, no prizes
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, gomock.Any(), int64(models.DefaultRewardAmount)).
		Return(nil).Times(2)

	out, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(EndPhaseSettled, out.Phase)
	s.True(out.Settlement.PrizesSkipped)
	s.Empty(out.Settlement.PrizeAwards)
	s.Equal(2, out.Settlement.RewardsPaid)

	cfg := s.store.GuildSnapshot(s.testGuildID, "")
	s.False(cfg.PrizesDistributed)
}

func (s *RegistrationServiceTestSuite) TestEndPhase_NoRegistrantsSettlesQuietly() {
	s.expectSaves()
	s.startGame()

	out, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(EndPhaseClosed, out.Phase)
	s.Equal(0, out.RegisteredCount)

	// No economy expectations: settling an empty roster pays nobody
	out, err = s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(EndPhaseSettled, out.Phase)
	s.Require().NotNil(out.Settlement)
	s.True(out.Settlement.PrizesSkipped)
	s.Empty(out.Settlement.PrizeAwards)
	s.Equal(0, out.Settlement.RewardsPaid)
	s.Empty(out.Settlement.PayoutErrors)

	// The guild is back to idle
	status, err := s.service.GetStatus(s.ctx, &GetStatusInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.False(status.RegistrationOpen)
	s.False(status.GameActive)
	s.Equal(0, status.RegisteredCount)

	cfg := s.store.GuildSnapshot(s.testGuildID, "")
	s.False(cfg.PrizesDistributed)
}

func (s *RegistrationServiceTestSuite) TestEndPhase_CollectsPayoutErrors() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")
	s.register(s.testUserID3, "Player Three")

	_, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	apiErr := errors.New("rate limited")
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(1000000)).Return(apiErr)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID2, int64(500000)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID3, int64(250000)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(models.DefaultRewardAmount)).Return(apiErr)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID2, int64(models.DefaultRewardAmount)).Return(nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID3, int64(models.DefaultRewardAmount)).Return(nil)

	out, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Len(out.Settlement.PayoutErrors, 2)
	s.Len(out.Settlement.PrizeAwards, 2)
	s.Equal(2, out.Settlement.RewardsPaid)

	// Settlement still completes and resets per-cycle state
	status, err := s.service.GetStatus(s.ctx, &GetStatusInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.False(status.GameActive)
	s.Equal(0, status.RegisteredCount)
}

func (s *RegistrationServiceTestSuite) TestEndPhase_IdleGuildRejectedWithoutPersist() {
	// No Save expectation at all: the rejected call must not touch the repo
	_, err := s.service.EndPhase(s.ctx, &EndPhaseInput{GuildID: s.testGuildID})
	s.ErrorIs(err, ErrGameNotActive)
}

func (s *RegistrationServiceTestSuite) TestSetMaxPlayers() {
	s.expectSaves()
	s.startGame()
	s.register(s.testUserID, "Player One")
	s.register(s.testUserID2, "Player Two")

	out, err := s.service.SetMaxPlayers(s.ctx, &SetMaxPlayersInput{
		GuildID:    s.testGuildID,
		MaxPlayers: 50,
	})
	s.Require().NoError(err)
	s.Equal(50, out.MaxPlayers)

	_, err = s.service.SetMaxPlayers(s.ctx, &SetMaxPlayersInput{
		GuildID:    s.testGuildID,
		MaxPlayers: 1,
	})
	s.ErrorIs(err, ErrCapacityBelowCount)

	_, err = s.service.SetMaxPlayers(s.ctx, &SetMaxPlayersInput{
		GuildID:    s.testGuildID,
		MaxPlayers: 0,
	})
	s.ErrorIs(err, ErrInvalidCapacity)
}

func (s *RegistrationServiceTestSuite) TestSetRewardAmount() {
	s.expectSaves()

	out, err := s.service.SetRewardAmount(s.ctx, &SetRewardAmountInput{
		GuildID: s.testGuildID,
		Amount:  50000,
	})
	s.Require().NoError(err)
	s.Equal(int64(50000), out.Amount)

	_, err = s.service.SetRewardAmount(s.ctx, &SetRewardAmountInput{
		GuildID: s.testGuildID,
		Amount:  -1,
	})
	s.ErrorIs(err, ErrInvalidAmount)
}

func (s *RegistrationServiceTestSuite) TestSetLanguage() {
	s.expectSaves()

	out, err := s.service.SetLanguage(s.ctx, &SetLanguageInput{
		GuildID: s.testGuildID,
		Code:    "ru",
	})
	s.Require().NoError(err)
	s.Equal("ru", out.Code)

	_, err = s.service.SetLanguage(s.ctx, &SetLanguageInput{
		GuildID: s.testGuildID,
		Code:    "fr",
	})
	s.ErrorIs(err, ErrUnsupportedLang)
}

func (s *RegistrationServiceTestSuite) TestLeaderboardPointers() {
	s.expectSaves()

	_, err := s.service.SetLeaderboardMessage(s.ctx, &SetLeaderboardMessageInput{
		GuildID:   s.testGuildID,
		ChannelID: "chan-1",
		MessageID: "msg-1",
	})
	s.Require().NoError(err)

	status, err := s.service.GetStatus(s.ctx, &GetStatusInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal("chan-1", status.LeaderboardChannelID)
	s.Equal("msg-1", status.LeaderboardMessageID)

	out, err := s.service.ClearLeaderboardMessage(s.ctx, &ClearLeaderboardMessageInput{
		GuildID: s.testGuildID,
	})
	s.Require().NoError(err)
	s.True(out.Cleared)

	out, err = s.service.ClearLeaderboardMessage(s.ctx, &ClearLeaderboardMessageInput{
		GuildID: s.testGuildID,
	})
	s.Require().NoError(err)
	s.False(out.Cleared)
}

func (s *RegistrationServiceTestSuite) TestGetLeaderboardPage() {
	s.expectSaves()
	s.startGame()

	for i := 0; i < 12; i++ {
		s.register(string(rune('a'+i))+"-user", "Player")
	}

	out, err := s.service.GetLeaderboardPage(s.ctx, &GetLeaderboardPageInput{
		GuildID: s.testGuildID,
		Page:    1,
	})
	s.Require().NoError(err)
	s.Equal(1, out.Page)
	s.Equal(2, out.TotalPages)
	s.Equal(12, out.TotalPlayers)
	s.Len(out.Entries, LeaderboardPageSize)
	s.Equal(1, out.Entries[0].Position)
	s.Equal("001", out.Entries[0].Number)
	s.True(out.ShowPrizes)
	s.Len(out.Prizes, 3)

	out, err = s.service.GetLeaderboardPage(s.ctx, &GetLeaderboardPageInput{
		GuildID: s.testGuildID,
		Page:    2,
	})
	s.Require().NoError(err)
	s.Len(out.Entries, 2)
	s.Equal(11, out.Entries[0].Position)

	// Out-of-range pages clamp
	out, err = s.service.GetLeaderboardPage(s.ctx, &GetLeaderboardPageInput{
		GuildID: s.testGuildID,
		Page:    99,
	})
	s.Require().NoError(err)
	s.Equal(2, out.Page)
}

func (s *RegistrationServiceTestSuite) TestGetLeaderboardPage_Empty() {
	s.expectSaves()

	out, err := s.service.GetLeaderboardPage(s.ctx, &GetLeaderboardPageInput{
		GuildID: s.testGuildID,
		Page:    1,
	})
	s.Require().NoError(err)
	s.Equal(1, out.Page)
	s.Equal(1, out.TotalPages)
	s.Empty(out.Entries)
	s.False(out.ShowPrizes)
}

func TestRegistrationServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistrationServiceTestSuite))
}
