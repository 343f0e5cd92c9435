//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"givebridge/internal/events"
	"givebridge/internal/events/postgres"
	"givebridge/pkg/testutil/containers"
)

type PostgresEventsSuite struct {
	suite.Suite
	container *containers.PostgresContainer
	store     *postgres.Store
}

func TestPostgresEventsSuite(t *testing.T) {
	suite.Run(t, new(PostgresEventsSuite))
}

func (s *PostgresEventsSuite) SetupSuite() {
	s.container = containers.NewPostgresContainer(s.T())
	s.container.Apply(s.T(), postgres.Schema)
	s.store = postgres.New(s.container.DB)
}

func (s *PostgresEventsSuite) SetupTest() {
	s.Require().NoError(s.container.TruncateTables(context.Background(), "donation_events"))
}

func (s *PostgresEventsSuite) TestAppendAndListByDonation() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	trail := []events.Event{
		{ID: "evt-1", Type: events.TypeReserved, DonationID: "don-1", ActorID: "recipient-1", Timestamp: base},
		{ID: "evt-2", Type: events.TypePickupAccepted, DonationID: "don-1", ActorID: "donor-1", Timestamp: base.Add(time.Minute)},
		{ID: "evt-3", Type: events.TypePartyConfirmed, DonationID: "don-1", ActorID: "donor-1", Party: "donor", Timestamp: base.Add(2 * time.Minute), RequestID: "req-9", ClientIP: "10.0.0.4", Device: "Firefox/Linux"},
		{ID: "evt-4", Type: events.TypeReserved, DonationID: "don-2", ActorID: "recipient-2", Timestamp: base},
	}
	for _, e := range trail {
		s.Require().NoError(s.store.Append(ctx, e))
	}

	got, err := s.store.ListByDonation(ctx, "don-1")
	s.Require().NoError(err)
	s.Require().Len(got, 3)

	assert.Equal(s.T(), []string{"evt-1", "evt-2", "evt-3"}, []string{got[0].ID, got[1].ID, got[2].ID}, "events come back in occurrence order")
	assert.Equal(s.T(), events.TypePartyConfirmed, got[2].Type)
	assert.Equal(s.T(), "donor", got[2].Party)
	assert.Equal(s.T(), "req-9", got[2].RequestID)
	assert.Equal(s.T(), "10.0.0.4", got[2].ClientIP)
	assert.Equal(s.T(), "Firefox/Linux", got[2].Device)
	assert.True(s.T(), got[0].Timestamp.Equal(base))
}

func (s *PostgresEventsSuite) TestDuplicateEventIDFails() {
	ctx := context.Background()
	e := events.Event{ID: "evt-dup", Type: events.TypeReserved, DonationID: "don-1", ActorID: "recipient-1", Timestamp: time.Now().UTC()}

	s.Require().NoError(s.store.Append(ctx, e))
	require.Error(s.T(), s.store.Append(ctx, e), "event ids are unique")
}

func (s *PostgresEventsSuite) TestListUnknownDonationIsEmpty() {
	got, err := s.store.ListByDonation(context.Background(), "missing")
	s.Require().NoError(err)
	s.Empty(got)
}
