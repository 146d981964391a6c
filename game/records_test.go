package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in  time.Duration
		out string
	}{
		{0, "0:00.00"},
		{9 * time.Millisecond, "0:00.00"},
		{999 * time.Millisecond, "0:00.99"},
		{12345 * time.Millisecond, "0:12.34"},
		{59999 * time.Millisecond, "0:59.99"},
		{61234 * time.Millisecond, "1:01.23"},
		{3600000 * time.Millisecond, "60:00.00"},
		{-time.Second, "0:00.00"},
	}

	for _, c := range cases {
		assert.Equal(t, c.out, FormatTime(c.in), "FormatTime(%s)", c.in)
	}
}

func TestFormatBestTime(t *testing.T) {
	assert.Equal(t, "--:--.--", FormatBestTime(0, false))
	assert.Equal(t, "0:00.00", FormatBestTime(0, true))
	assert.Equal(t, "1:01.23", FormatBestTime(61234*time.Millisecond, true))
}

func TestRecordKeys(t *testing.T) {
	assert.Equal(t, "easy_1", RecordKey{Easy, 1}.String())
	assert.Equal(t, "hard_12", RecordKey{Hard, 12}.String())

	key, err := ParseRecordKey("medium_7")
	require.NoError(t, err)
	assert.Equal(t, RecordKey{Medium, 7}, key)

	for _, bad := range []string{"", "easy", "easy_", "easy_0", "easy_x", "insane_1", "_3", "easy_01", "easy_+1", "easy_ 1"} {
		_, err := ParseRecordKey(bad)
		assert.Error(t, err, "key %q", bad)
	}
}

func TestBestTimeOnlyImprovesStrictly(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	tracker := NewTracker(store, clock.Now)

	runs := []struct {
		duration  time.Duration
		newRecord bool
	}{
		{5000 * time.Millisecond, true},
		{7000 * time.Millisecond, false},
		{3000 * time.Millisecond, true},
		{3000 * time.Millisecond, false},
		{4000 * time.Millisecond, false},
	}

	for i, run := range runs {
		tracker.StartAttempt(Easy, 1)
		clock.Advance(run.duration)

		elapsed, newRecord := tracker.CompleteAttempt()
		assert.Equal(t, run.duration, elapsed, "run %d", i)
		assert.Equal(t, run.newRecord, newRecord, "run %d", i)
	}

	best, ok := tracker.BestTime(Easy, 1)
	require.True(t, ok)
	assert.Equal(t, 3000*time.Millisecond, best)

	stored, _ := store.Get(BestTimesKey)
	assert.JSONEq(t, `{"easy_1": 3000}`, stored)
}

func TestBestTimesAreKeptPerDifficultyAndLevel(t *testing.T) {
	clock := newFakeClock()
	tracker := NewTracker(NewMemoryStore(), clock.Now)

	tracker.StartAttempt(Easy, 1)
	clock.Advance(time.Second)
	tracker.CompleteAttempt()

	tracker.StartAttempt(Easy, 2)
	clock.Advance(2 * time.Second)
	tracker.CompleteAttempt()

	tracker.StartAttempt(Hard, 1)
	clock.Advance(3 * time.Second)
	tracker.CompleteAttempt()

	_, ok := tracker.BestTime(Medium, 1)
	assert.False(t, ok)

	assert.Equal(t, []Record{
		{RecordKey{Easy, 1}, time.Second},
		{RecordKey{Easy, 2}, 2 * time.Second},
		{RecordKey{Hard, 1}, 3 * time.Second},
	}, tracker.BestTimes().Records())
}

func TestBestTimesSurviveNewTracker(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()

	first := NewTracker(store, clock.Now)
	first.StartAttempt(Medium, 3)
	clock.Advance(4321 * time.Millisecond)
	first.CompleteAttempt()

	second := NewTracker(store, clock.Now)
	best, ok := second.BestTime(Medium, 3)
	require.True(t, ok)
	assert.Equal(t, 4321*time.Millisecond, best)
}

func TestElapsedIsTruncatedToMilliseconds(t *testing.T) {
	clock := newFakeClock()
	tracker := NewTracker(NewMemoryStore(), clock.Now)

	assert.Equal(t, time.Duration(0), tracker.Elapsed())

	tracker.StartAttempt(Easy, 1)
	clock.Advance(1234567 * time.Microsecond)
	assert.Equal(t, 1234*time.Millisecond, tracker.Elapsed())
}

func TestCompleteWithoutAttempt(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(), nil)
	elapsed, newRecord := tracker.CompleteAttempt()
	assert.Equal(t, time.Duration(0), elapsed)
	assert.False(t, newRecord)
	assert.Empty(t, tracker.BestTimes())
}

func TestCorruptBestTimesAreReplaced(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	require.NoError(t, store.Set(BestTimesKey, "{not json"))

	tracker := NewTracker(store, clock.Now)
	assert.Empty(t, tracker.BestTimes())

	tracker.StartAttempt(Easy, 1)
	clock.Advance(800 * time.Millisecond)
	_, newRecord := tracker.CompleteAttempt()
	assert.True(t, newRecord)

	stored, _ := store.Get(BestTimesKey)
	assert.JSONEq(t, `{"easy_1": 800}`, stored)
}

func TestLoadBestTimesDropsMalformedEntries(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(BestTimesKey, `{
		"easy_1": 100,
		"bogus": 5,
		"hard_x": 1,
		"medium_2": -4,
		"hard_3": 250,
		"easy_2": 1234.5,
		"easy_3": "fast",
		"medium_1": null,
		"medium_4": {"ms": 3},
		"hard_01": 7
	}`))

	assert.Equal(t, BestTimes{
		{Easy, 1}: 100 * time.Millisecond,
		{Hard, 3}: 250 * time.Millisecond,
	}, LoadBestTimes(store))
}

func TestNonCanonicalKeyDoesNotShadowRecord(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	require.NoError(t, store.Set(BestTimesKey, `{"easy_1": 5000, "easy_01": 10}`))

	tracker := NewTracker(store, clock.Now)
	best, ok := tracker.BestTime(Easy, 1)
	require.True(t, ok)
	assert.Equal(t, 5000*time.Millisecond, best)

	tracker.StartAttempt(Easy, 1)
	clock.Advance(4 * time.Second)
	_, newRecord := tracker.CompleteAttempt()
	assert.True(t, newRecord)

	stored, _ := store.Get(BestTimesKey)
	assert.JSONEq(t, `{"easy_1": 4000}`, stored)
}

func TestResumeAttemptCountsPriorTime(t *testing.T) {
	clock := newFakeClock()
	tracker := NewTracker(NewMemoryStore(), clock.Now)

	tracker.ResumeAttempt(Medium, 2, 3*time.Second)
	assert.Equal(t, 3*time.Second, tracker.Elapsed())

	clock.Advance(500 * time.Millisecond)
	elapsed, newRecord := tracker.CompleteAttempt()
	assert.Equal(t, 3500*time.Millisecond, elapsed)
	assert.True(t, newRecord)

	tracker.ResumeAttempt(Medium, 2, -time.Second)
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestLoadBestTimesFromEmptyStore(t *testing.T) {
	assert.Empty(t, LoadBestTimes(NewMemoryStore()))

	store := NewMemoryStore()
	require.NoError(t, store.Set(BestTimesKey, ""))
	assert.Empty(t, LoadBestTimes(store))

	require.NoError(t, store.Set(BestTimesKey, `[1, 2]`))
	assert.Empty(t, LoadBestTimes(store))
}
