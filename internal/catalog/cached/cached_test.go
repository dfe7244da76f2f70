package cached_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/catalog/cached"
	catalogmock "github.com/KirkDiggler/creature-import/internal/catalog/mock"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/testutils"
)

type CachedSourceTestSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	inner   *catalogmock.MockSource
	mr      *miniredis.Miniredis
	cleanup func()
	source  *cached.Source

	spells catalog.Partition
}

func TestCachedSourceTestSuite(t *testing.T) {
	suite.Run(t, new(CachedSourceTestSuite))
}

func (s *CachedSourceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.inner = catalogmock.NewMockSource(s.ctrl)

	client, mr, cleanup := testutils.CreateTestRedis(s.T())
	s.mr = mr
	s.cleanup = cleanup

	source, err := cached.New(&cached.Config{Source: s.inner, Client: client, TTL: time.Minute})
	s.Require().NoError(err)
	s.source = source

	s.spells = catalog.Partition{ID: "spells", Label: "Zauber"}
}

func (s *CachedSourceTestSuite) TearDownTest() {
	s.ctrl.Finish()
	s.cleanup()
}

func (s *CachedSourceTestSuite) TestNewValidatesConfig() {
	_, err := cached.New(&cached.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Source")
	s.Contains(err.Error(), "Client")
}

func (s *CachedSourceTestSuite) TestListPartitionsIsCached() {
	s.inner.EXPECT().ListPartitions(gomock.Any()).Return([]catalog.Partition{s.spells}, nil).Times(1)

	for range 2 {
		partitions, err := s.source.ListPartitions(s.ctx)
		s.Require().NoError(err)
		s.Equal([]catalog.Partition{s.spells}, partitions)
	}
}

func (s *CachedSourceTestSuite) TestScanPartition() {
	entries := []entities.IndexEntry{
		{Partition: "spells", ID: "ember", Name: "Ember", Kind: entities.AbilityKindSpell, Skill: "firemagic", Level: 1},
	}

	s.Run("caches the full projection and projects on read", func() {
		s.inner.EXPECT().
			ScanPartition(gomock.Any(), s.spells, catalog.IndexProjection).
			Return(entries, nil).
			Times(1)

		got, err := s.source.ScanPartition(s.ctx, s.spells, catalog.IndexProjection)
		s.Require().NoError(err)
		s.Equal(entries, got)

		names, err := s.source.ScanPartition(s.ctx, s.spells, catalog.Projection{})
		s.Require().NoError(err)
		s.Require().Len(names, 1)
		s.Empty(names[0].Skill)
		s.Zero(names[0].Level)
	})

	s.Run("refetches after the TTL", func() {
		s.mr.FastForward(2 * time.Minute)
		s.inner.EXPECT().
			ScanPartition(gomock.Any(), s.spells, catalog.IndexProjection).
			Return(entries, nil).
			Times(1)

		_, err := s.source.ScanPartition(s.ctx, s.spells, catalog.IndexProjection)
		s.Require().NoError(err)
	})
}

func (s *CachedSourceTestSuite) TestScanFailureIsNotCached() {
	broken := catalog.Partition{ID: "broken"}
	gomock.InOrder(
		s.inner.EXPECT().
			ScanPartition(gomock.Any(), broken, catalog.IndexProjection).
			Return(nil, errors.Unavailablef("source down")),
		s.inner.EXPECT().
			ScanPartition(gomock.Any(), broken, catalog.IndexProjection).
			Return([]entities.IndexEntry{}, nil),
	)

	_, err := s.source.ScanPartition(s.ctx, broken, catalog.IndexProjection)
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))

	_, err = s.source.ScanPartition(s.ctx, broken, catalog.IndexProjection)
	s.Require().NoError(err)
}

func (s *CachedSourceTestSuite) TestFetchFullEntry() {
	entry := &entities.ReferenceLibraryEntry{
		IndexEntry:  entities.IndexEntry{Partition: "spells", ID: "ember", Name: "Ember", Kind: entities.AbilityKindSpell},
		Description: "A small flame.",
	}
	s.inner.EXPECT().FetchFullEntry(gomock.Any(), s.spells, "ember").Return(entry, nil).Times(1)

	for range 2 {
		got, err := s.source.FetchFullEntry(s.ctx, s.spells, "ember")
		s.Require().NoError(err)
		s.Equal(entry, got)
	}
	s.True(s.mr.Exists("catalog:entry:spells:ember"))
}

func (s *CachedSourceTestSuite) TestInvalidate() {
	skills := catalog.Partition{ID: "masteries"}
	s.inner.EXPECT().ListPartitions(gomock.Any()).Return([]catalog.Partition{s.spells, skills}, nil).Times(2)
	s.inner.EXPECT().
		FetchFullEntry(gomock.Any(), s.spells, "ember").
		Return(&entities.ReferenceLibraryEntry{IndexEntry: entities.IndexEntry{ID: "ember"}}, nil)
	s.inner.EXPECT().
		FetchFullEntry(gomock.Any(), skills, "tough").
		Return(&entities.ReferenceLibraryEntry{IndexEntry: entities.IndexEntry{ID: "tough"}}, nil)

	_, err := s.source.ListPartitions(s.ctx)
	s.Require().NoError(err)
	_, err = s.source.FetchFullEntry(s.ctx, s.spells, "ember")
	s.Require().NoError(err)
	_, err = s.source.FetchFullEntry(s.ctx, skills, "tough")
	s.Require().NoError(err)

	s.Require().NoError(s.source.Invalidate(s.ctx, "spells"))
	s.False(s.mr.Exists("catalog:partitions"))
	s.False(s.mr.Exists("catalog:entry:spells:ember"))
	s.True(s.mr.Exists("catalog:entry:masteries:tough"))

	_, err = s.source.ListPartitions(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.source.Invalidate(s.ctx))
	s.False(s.mr.Exists("catalog:entry:masteries:tough"))
}

func (s *CachedSourceTestSuite) TestNamespaceSeparatesSources() {
	client, mr, cleanup := testutils.CreateTestRedis(s.T())
	defer cleanup()

	sqliteInner := catalogmock.NewMockSource(s.ctrl)
	srdInner := catalogmock.NewMockSource(s.ctrl)
	sqliteInner.EXPECT().ListPartitions(gomock.Any()).Return([]catalog.Partition{{ID: "masteries"}}, nil).Times(1)
	srdInner.EXPECT().ListPartitions(gomock.Any()).Return([]catalog.Partition{s.spells}, nil).Times(1)

	fromSQLite, err := cached.New(&cached.Config{Source: sqliteInner, Client: client, Namespace: "sqlite"})
	s.Require().NoError(err)
	fromSRD, err := cached.New(&cached.Config{Source: srdInner, Client: client, Namespace: "srd"})
	s.Require().NoError(err)

	partitions, err := fromSQLite.ListPartitions(s.ctx)
	s.Require().NoError(err)
	s.Equal("masteries", partitions[0].ID)

	partitions, err = fromSRD.ListPartitions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]catalog.Partition{s.spells}, partitions)

	s.True(mr.Exists("catalog:sqlite:partitions"))
	s.True(mr.Exists("catalog:srd:partitions"))

	_, err = cached.New(&cached.Config{Source: sqliteInner, Client: client, Namespace: "a:b"})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *CachedSourceTestSuite) TestWatchDeliversInvalidations() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	got := make(chan []string, 2)
	done := make(chan error, 1)
	go func() {
		done <- s.source.Watch(ctx, func(partitionIDs ...string) {
			got <- partitionIDs
		})
	}()

	s.Require().Eventually(func() bool {
		return s.mr.PubSubNumSub("catalog:invalidated")["catalog:invalidated"] == 1
	}, time.Second, 10*time.Millisecond)

	s.Require().NoError(s.source.Invalidate(s.ctx, "spells"))
	select {
	case ids := <-got:
		s.Equal([]string{"spells"}, ids)
	case <-time.After(time.Second):
		s.Fail("invalidation was not delivered")
	}

	s.Require().NoError(s.source.Invalidate(s.ctx))
	select {
	case ids := <-got:
		s.Empty(ids)
	case <-time.After(time.Second):
		s.Fail("invalidation was not delivered")
	}

	cancel()
	s.NoError(<-done)
}
