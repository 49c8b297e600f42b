package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kita-dienstplan/internal/calendar"
)

var (
	testNow    = func() time.Time { return time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC) }
	quietLog   = slog.New(slog.NewTextHandler(io.Discard, nil))
	firstWeek  = calendar.WeekID{Year: 2024, Week: 1}
	yearEndWk  = calendar.WeekID{Year: 2020, Week: 53}
	errStorage = errors.New("database is locked")
)

func TestPeriodResolverFound(t *testing.T) {
	t.Parallel()

	repo := newPeriodRepoStub()
	repo.periods[firstWeek] = WeeklyPeriod{ID: "existing", Week: firstWeek}
	resolver := NewPeriodResolver(repo, sequentialIDs("period"), testNow, quietLog)

	res, err := resolver.Resolve(context.Background(), firstWeek)
	require.NoError(t, err)
	assert.Equal(t, "existing", res.Period.ID)
	assert.Equal(t, []ResolveState{StateAttemptRead, StateFound}, res.Trace)
	assert.Equal(t, StateFound, res.Final())
	assert.Zero(t, repo.creates)
}

func TestPeriodResolverCreatesMissingPeriod(t *testing.T) {
	t.Parallel()

	repo := newPeriodRepoStub()
	resolver := NewPeriodResolver(repo, sequentialIDs("period"), testNow, quietLog)

	res, err := resolver.Resolve(context.Background(), yearEndWk)
	require.NoError(t, err)
	assert.Equal(t, []ResolveState{StateAttemptRead, StateAttemptCreate, StateCreated}, res.Trace)
	assert.Equal(t, "period-1", res.Period.ID)
	assert.Equal(t, "2020-12-28", res.Period.StartDate.String())
	assert.Equal(t, "2021-01-03", res.Period.EndDate.String())
	assert.Equal(t, testNow(), res.Period.CreatedAt)
	assert.Equal(t, 1, repo.creates)

	again, err := resolver.Resolve(context.Background(), yearEndWk)
	require.NoError(t, err)
	assert.Equal(t, StateFound, again.Final())
	assert.Equal(t, 1, repo.creates)
}

func TestPeriodResolverReadFailureStillCreates(t *testing.T) {
	t.Parallel()

	repo := newPeriodRepoStub()
	repo.findErr = errStorage
	resolver := NewPeriodResolver(repo, sequentialIDs("period"), testNow, quietLog)

	res, err := resolver.Resolve(context.Background(), firstWeek)
	require.NoError(t, err)
	assert.Equal(t, StateCreated, res.Final())
}

func TestPeriodResolverCreateFailureIsReported(t *testing.T) {
	t.Parallel()

	repo := newPeriodRepoStub()
	repo.createErr = errStorage
	resolver := NewPeriodResolver(repo, sequentialIDs("period"), testNow, quietLog)

	res, err := resolver.Resolve(context.Background(), firstWeek)
	require.Error(t, err)

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, firstWeek, pErr.Week)
	assert.ErrorIs(t, err, ErrPeriodMissing)
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, "persistence", ErrorKind(err))
	assert.Equal(t, []ResolveState{StateAttemptRead, StateAttemptCreate, StateFailed}, res.Trace)
	assert.Equal(t, 1, repo.creates, "creation must be attempted exactly once")
}

func TestPeriodResolverRejectsInvalidWeek(t *testing.T) {
	t.Parallel()

	repo := newPeriodRepoStub()
	resolver := NewPeriodResolver(repo, nil, nil, quietLog)

	_, err := resolver.Resolve(context.Background(), calendar.WeekID{Year: 2021, Week: 53})
	assert.ErrorIs(t, err, calendar.ErrInvalidWeek)
	assert.Zero(t, repo.finds)
}

func TestPeriodResolverFind(t *testing.T) {
	t.Parallel()

	repo := newPeriodRepoStub()
	resolver := NewPeriodResolver(repo, nil, nil, quietLog)

	_, err := resolver.Find(context.Background(), firstWeek)
	assert.ErrorIs(t, err, ErrPeriodMissing)
	assert.Zero(t, repo.creates)

	repo.findErr = errStorage
	_, err = resolver.Find(context.Background(), firstWeek)
	var pErr *PersistenceError
	assert.ErrorAs(t, err, &pErr)
}

func TestResolveStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "attempt_create", StateAttemptCreate.String())
	assert.Equal(t, "ResolveState(42)", ResolveState(42).String())
}
