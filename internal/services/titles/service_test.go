package titles

import (
	"context"
	"errors"
	"testing"

	"github.com/inkgame/inkbot/internal/economy"
	economyMocks "github.com/inkgame/inkbot/internal/economy/mocks"
	"github.com/inkgame/inkbot/internal/models"
	stateMocks "github.com/inkgame/inkbot/internal/repositories/guildstate/mocks"
	"github.com/inkgame/inkbot/internal/store"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TitlesServiceTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockRepo    *stateMocks.MockRepository
	mockEconomy *economyMocks.MockClient
	store       *store.Store
	service     Service
	ctx         context.Context

	testGuildID string
	testUserID  string
}

func (s *TitlesServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = stateMocks.NewMockRepository(s.mockCtrl)
	s.mockEconomy = economyMocks.NewMockClient(s.mockCtrl)

	s.ctx = context.Background()
	s.testGuildID = "guild-123"
	s.testUserID = "user-1"

	st, err := store.New(&store.Config{Repo: s.mockRepo})
	s.Require().NoError(err)
	s.store = st

	svc, err := New(&Config{Store: st, Economy: s.mockEconomy})
	s.Require().NoError(err)
	s.service = svc
}

func (s *TitlesServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *TitlesServiceTestSuite) expectSaves() {
	s.mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *TitlesServiceTestSuite) inventory() *models.TitleInventory {
	cfg := s.store.GuildSnapshot(s.testGuildID, "")
	return cfg.PlayerTitles[s.testUserID]
}

func (s *TitlesServiceTestSuite) TestListTitles() {
	s.expectSaves()

	_, err := s.service.Grant(s.ctx, &GrantInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.Require().NoError(err)

	out, err := s.service.ListTitles(s.ctx, &ListTitlesInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
	})
	s.Require().NoError(err)
	s.Len(out.Titles, len(catalog))

	s.Equal("VIP", out.Titles[0].Name)
	s.True(out.Titles[0].Owned)
	s.True(out.Titles[0].Equipped)
	s.False(out.Titles[1].Owned)
}

func (s *TitlesServiceTestSuite) TestBuy() {
	s.expectSaves()

	s.mockEconomy.EXPECT().
		GetBalance(s.ctx, s.testGuildID, s.testUserID).
		Return(&economy.Balance{Cash: 30000, Bank: 40000}, nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(-50000)).
		Return(nil)

	out, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.Require().NoError(err)
	s.Equal(int64(50000), out.Title.Price)
	s.Equal(int64(70000), out.Balance)
	s.True(out.AutoEquipped)

	inv := s.inventory()
	s.Require().NotNil(inv)
	s.True(inv.Owned.Contains("VIP"))
	s.Equal("VIP", inv.Equipped)
}

func (s *TitlesServiceTestSuite) TestBuy_NoAutoEquipWhenEquipped() {
	s.expectSaves()

	_, err := s.service.Grant(s.ctx, &GrantInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.Require().NoError(err)

	s.mockEconomy.EXPECT().
		GetBalance(s.ctx, s.testGuildID, s.testUserID).
		Return(&economy.Balance{Cash: 100000}, nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(-75000)).
		Return(nil)

	out, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "Survivor",
	})
	s.Require().NoError(err)
	s.False(out.AutoEquipped)
	s.Equal("VIP", s.inventory().Equipped)
}

func (s *TitlesServiceTestSuite) TestBuy_InsufficientFunds() {
	// No Save expectation: a failed purchase must not mutate or persist
	s.mockEconomy.EXPECT().
		GetBalance(s.ctx, s.testGuildID, s.testUserID).
		Return(&economy.Balance{Cash: 10000, Bank: 5000}, nil)

	_, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.ErrorIs(err, ErrInsufficientFunds)

	s.Nil(s.inventory())
}

func (s *TitlesServiceTestSuite) TestBuy_UnknownTitle() {
	_, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "Emperor",
	})
	s.ErrorIs(err, ErrUnknownTitle)
}

func (s *TitlesServiceTestSuite) TestBuy_GrantOnly() {
	_, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "Content Creator",
	})
	s.ErrorIs(err, ErrNotPurchasable)
}

func (s *TitlesServiceTestSuite) TestBuy_AlreadyOwned() {
	s.expectSaves()

	_, err := s.service.Grant(s.ctx, &GrantInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.Require().NoError(err)

	// No balance check or debit is attempted for an owned title
	_, err = s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.ErrorIs(err, ErrAlreadyOwned)
}

func (s *TitlesServiceTestSuite) TestBuy_ParallelPurchaseRefunded() {
	s.expectSaves()

	s.mockEconomy.EXPECT().
		GetBalance(s.ctx, s.testGuildID, s.testUserID).
		Return(&economy.Balance{Cash: 100000}, nil)

	// A second purchase lands while this one is off talking to the economy
	// API; the loser's debit must come back
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(-50000)).
		DoAndReturn(func(ctx context.Context, guildID, userID string, amount int64) error {
			return s.store.Update(ctx, s.testGuildID, "", func(cfg *models.GuildConfig) error {
				cfg.PlayerTitles[s.testUserID] = &models.TitleInventory{
					Owned:    models.StringSet{"VIP": true},
					Equipped: "VIP",
				}
				return nil
			})
		})
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(50000)).
		Return(nil)

	_, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.ErrorIs(err, ErrAlreadyOwned)

	// The winner's inventory is intact, not double-granted
	inv := s.inventory()
	s.Require().NotNil(inv)
	s.True(inv.Owned.Contains("VIP"))
	s.Equal("VIP", inv.Equipped)
}

func (s *TitlesServiceTestSuite) TestBuy_BalanceCheckFails() {
	s.mockEconomy.EXPECT().
		GetBalance(s.ctx, s.testGuildID, s.testUserID).
		Return(nil, errors.New("api down"))

	_, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.ErrorIs(err, ErrBalanceCheck)
	s.Nil(s.inventory())
}

func (s *TitlesServiceTestSuite) TestBuy_DebitFails() {
	s.mockEconomy.EXPECT().
		GetBalance(s.ctx, s.testGuildID, s.testUserID).
		Return(&economy.Balance{Cash: 100000}, nil)
	s.mockEconomy.EXPECT().
		AdjustBalance(s.ctx, s.testGuildID, s.testUserID, int64(-50000)).
		Return(errors.New("api down"))

	_, err := s.service.Buy(s.ctx, &BuyInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "VIP",
	})
	s.ErrorIs(err, ErrDebitFailed)
	s.Nil(s.inventory())
}

func (s *TitlesServiceTestSuite) TestEquipAndUnequip() {
	s.expectSaves()

	for _, title := range []string{"VIP", "Legend"} {
		_, err := s.service.Grant(s.ctx, &GrantInput{
			GuildID: s.testGuildID,
			UserID:  s.testUserID,
			Title:   title,
		})
		s.Require().NoError(err)
	}

	out, err := s.service.Equip(s.ctx, &EquipInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "Legend",
	})
	s.Require().NoError(err)
	s.Equal("VIP", out.Previous)
	s.Equal("Legend", out.Equipped)

	unequipped, err := s.service.Unequip(s.ctx, &UnequipInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
	})
	s.Require().NoError(err)
	s.Equal("Legend", unequipped.Removed)
	s.Equal("", s.inventory().Equipped)

	_, err = s.service.Unequip(s.ctx, &UnequipInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
	})
	s.ErrorIs(err, ErrNothingEquipped)
}

func (s *TitlesServiceTestSuite) TestEquip_NotOwned() {
	_, err := s.service.Equip(s.ctx, &EquipInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "Legend",
	})
	s.ErrorIs(err, ErrNotOwned)
}

func (s *TitlesServiceTestSuite) TestGrant_Idempotent() {
	s.expectSaves()

	out, err := s.service.Grant(s.ctx, &GrantInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "Content Creator",
	})
	s.Require().NoError(err)
	s.True(out.AutoEquipped)
	s.False(out.AlreadyOwned)

	out, err = s.service.Grant(s.ctx, &GrantInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
		Title:   "Content Creator",
	})
	s.Require().NoError(err)
	s.True(out.AlreadyOwned)
}

func (s *TitlesServiceTestSuite) TestGetInventory() {
	s.expectSaves()

	out, err := s.service.GetInventory(s.ctx, &GetInventoryInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
	})
	s.Require().NoError(err)
	s.Empty(out.Owned)
	s.Equal("", out.Equipped)

	for _, title := range []string{"Legend", "VIP"} {
		_, err := s.service.Grant(s.ctx, &GrantInput{
			GuildID: s.testGuildID,
			UserID:  s.testUserID,
			Title:   title,
		})
		s.Require().NoError(err)
	}

	out, err = s.service.GetInventory(s.ctx, &GetInventoryInput{
		GuildID: s.testGuildID,
		UserID:  s.testUserID,
	})
	s.Require().NoError(err)
	s.Equal([]string{"VIP", "Legend"}, out.Owned)
	s.Equal("Legend", out.Equipped)
}

func TestTitlesServiceSuite(t *testing.T) {
	suite.Run(t, new(TitlesServiceTestSuite))
}
