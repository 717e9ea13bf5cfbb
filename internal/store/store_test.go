package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/inkgame/inkbot/internal/models"
	"github.com/inkgame/inkbot/internal/repositories/guildstate"
	"github.com/inkgame/inkbot/internal/repositories/guildstate/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type StoreTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockRepo *mocks.MockRepository
	store    *Store
	ctx      context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = mocks.NewMockRepository(s.mockCtrl)
	s.ctx = context.Background()

	st, err := New(&Config{Repo: s.mockRepo})
	s.Require().NoError(err)
	s.store = st
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestUpdateCreatesGuildWithDefaults() {
	s.mockRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	err := s.store.Update(s.ctx, "guild-1", "Test Guild", func(cfg *models.GuildConfig) error {
		s.Equal("Test Guild", cfg.GuildName)
		s.Equal(models.DefaultMaxPlayers, cfg.MaxPlayers)
		s.Equal(models.DefaultMinNumber, cfg.MinNumber)
		s.Equal(models.DefaultMaxNumber, cfg.MaxNumber)
		cfg.RegisteredPlayers.Add("user-a")
		return nil
	})
	s.Require().NoError(err)
	s.Equal(1, s.store.GuildCount())
}

func (s *StoreTestSuite) TestUpdateRejectionSkipsPersist() {
	// No Save expectation: a rejected mutation must not hit the repository
	wantErr := errors.New("precondition failed")

	err := s.store.Update(s.ctx, "guild-1", "Test Guild", func(cfg *models.GuildConfig) error {
		return wantErr
	})
	s.ErrorIs(err, wantErr)
}

func (s *StoreTestSuite) TestUpdatePersistsWholeStore() {
	var saved *guildstate.SaveInput
	s.mockRepo.EXPECT().Save(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, input *guildstate.SaveInput) error {
			saved = input
			return nil
		}).Times(2)

	s.Require().NoError(s.store.Update(s.ctx, "guild-1", "One", func(cfg *models.GuildConfig) error {
		return nil
	}))
	s.Require().NoError(s.store.Update(s.ctx, "guild-2", "Two", func(cfg *models.GuildConfig) error {
		return nil
	}))

	// The second save carries both guilds, not just the mutated one
	s.Require().NotNil(saved)
	s.Len(saved.Guilds, 2)
}

func (s *StoreTestSuite) TestDefaultsAreNotShared() {
	s.mockRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil).Times(2)

	s.Require().NoError(s.store.Update(s.ctx, "guild-1", "One", func(cfg *models.GuildConfig) error {
		cfg.RegisteredPlayers.Add("user-a")
		cfg.UsedNumbers.Add(67)
		return nil
	}))
	s.Require().NoError(s.store.Update(s.ctx, "guild-2", "Two", func(cfg *models.GuildConfig) error {
		s.Empty(cfg.RegisteredPlayers)
		s.Empty(cfg.UsedNumbers)
		return nil
	}))
}

func (s *StoreTestSuite) TestViewReturnsCopy() {
	cfg := s.store.GuildSnapshot("guild-1", "Test Guild")
	cfg.RegisteredPlayers.Add("user-a")

	// The escaped copy must not have touched the stored record
	s.store.View("guild-1", "", func(current *models.GuildConfig) {
		s.Empty(current.RegisteredPlayers)
	})
}

func (s *StoreTestSuite) TestReplaceGuild() {
	s.mockRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	restored := models.NewGuildConfig("Restored")
	restored.RegisteredPlayers.Add("user-z")

	s.Require().NoError(s.store.ReplaceGuild(s.ctx, "guild-1", restored))

	s.store.View("guild-1", "", func(cfg *models.GuildConfig) {
		s.True(cfg.RegisteredPlayers.Contains("user-z"))
		s.Equal("Restored", cfg.GuildName)
	})
}

// TestLoadRoundTripWithFileRepo exercises the store against the real file
// backend: save, then load into a fresh store and compare.
func TestLoadRoundTripWithFileRepo(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "game_data.json")

	repo, err := guildstate.NewFile(&guildstate.FileConfig{Path: path})
	require.NoError(t, err)

	first, err := New(&Config{Repo: repo})
	require.NoError(t, err)

	require.NoError(t, first.Update(ctx, "guild-1", "Test Guild", func(cfg *models.GuildConfig) error {
		cfg.RegistrationOpen = true
		cfg.GameActive = true
		cfg.RegisteredPlayers.Add("user-a")
		cfg.UsedNumbers.Add(67)
		cfg.PlayerNumbers["user-a"] = "067"
		cfg.RegistrationOrder = append(cfg.RegistrationOrder, "user-a")
		return nil
	}))

	second, err := New(&Config{Repo: repo})
	require.NoError(t, err)
	require.NoError(t, second.Load(ctx))

	second.View("guild-1", "", func(cfg *models.GuildConfig) {
		assert.True(t, cfg.RegistrationOpen)
		assert.True(t, cfg.GameActive)
		assert.Equal(t, []string{"user-a"}, cfg.RegisteredPlayers.Values())
		assert.Equal(t, []int{67}, cfg.UsedNumbers.Values())
		assert.Equal(t, "067", cfg.PlayerNumbers["user-a"])
		assert.Equal(t, []string{"user-a"}, cfg.RegistrationOrder)
	})
}
