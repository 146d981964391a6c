package game

import (
	"encoding/json"
	"fmt"
	log "github.com/sirupsen/logrus"
	"sort"
	"strconv"
	"strings"
	"time"
)

type RecordKey struct {
	Difficulty Difficulty
	Level      int
}

func (key RecordKey) String() string {
	return fmt.Sprintf("%s_%d", key.Difficulty, key.Level)
}

func ParseRecordKey(in string) (RecordKey, error) {
	sep := strings.LastIndexByte(in, '_')
	if sep < 0 {
		return RecordKey{}, fmt.Errorf("record key %q has no level", in)
	}

	difficulty, err := ParseDifficulty(in[:sep])
	if err != nil {
		return RecordKey{}, err
	}
	// Only the form written by String is accepted, so "easy_01" cannot shadow "easy_1"
	level, err := strconv.Atoi(in[sep+1:])
	if err != nil || level < 1 || strconv.Itoa(level) != in[sep+1:] {
		return RecordKey{}, fmt.Errorf("record key %q has an invalid level", in)
	}
	return RecordKey{Difficulty: difficulty, Level: level}, nil
}

// BestTimes maps a difficulty and level to the fastest completion, at
// millisecond resolution
type BestTimes map[RecordKey]time.Duration

// Record is a single BestTimes entry
type Record struct {
	RecordKey
	Time time.Duration
}

// Records lists the table sorted by difficulty, then level
func (times BestTimes) Records() []Record {
	records := make([]Record, 0, len(times))
	for key, best := range times {
		records = append(records, Record{RecordKey: key, Time: best})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Difficulty != records[j].Difficulty {
			return records[i].Difficulty < records[j].Difficulty
		}
		return records[i].Level < records[j].Level
	})
	return records
}

func (times BestTimes) serialize() (string, error) {
	flat := make(map[string]int64, len(times))
	for key, best := range times {
		flat[key.String()] = best.Milliseconds()
	}

	out, err := json.Marshal(flat)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// LoadBestTimes reads the best-time table from store. Missing or malformed
// data yields an empty table; individually malformed entries are dropped.
func LoadBestTimes(store Store) BestTimes {
	times := make(BestTimes)

	in, ok := store.Get(BestTimesKey)
	if !ok || in == "" {
		return times
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal([]byte(in), &flat); err != nil {
		log.WithError(err).Warn("Stored best times are unreadable; starting with no records")
		return times
	}

	for rawKey, rawValue := range flat {
		key, err := ParseRecordKey(rawKey)
		if err != nil {
			log.WithField("key", rawKey).WithError(err).Warn("Dropping malformed best time")
			continue
		}

		var ms int64
		err = json.Unmarshal(rawValue, &ms)
		if err != nil || ms < 0 || string(rawValue) == "null" {
			log.WithFields(log.Fields{
				"key":   rawKey,
				"value": string(rawValue),
			}).Warn("Dropping malformed best time")
			continue
		}
		times[key] = time.Duration(ms) * time.Millisecond
	}
	return times
}

type attempt struct {
	key   RecordKey
	start time.Time
}

// Tracker times attempts and keeps the best time of each difficulty and level
type Tracker struct {
	store Store
	now   func() time.Time

	times   BestTimes
	current *attempt
}

func NewTracker(store Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		store: store,
		now:   now,
		times: LoadBestTimes(store),
	}
}

// StartAttempt begins timing, replacing any attempt in flight
func (tracker *Tracker) StartAttempt(difficulty Difficulty, level int) {
	tracker.ResumeAttempt(difficulty, level, 0)
}

// ResumeAttempt begins timing as if elapsed had already passed
func (tracker *Tracker) ResumeAttempt(difficulty Difficulty, level int, elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	tracker.current = &attempt{
		key:   RecordKey{Difficulty: difficulty, Level: level},
		start: tracker.now().Add(-elapsed),
	}
}

// Elapsed is the running time of the current attempt
func (tracker *Tracker) Elapsed() time.Duration {
	if tracker.current == nil {
		return 0
	}
	return tracker.now().Sub(tracker.current.start).Truncate(time.Millisecond)
}

// CompleteAttempt ends the current attempt and returns its time, along with
// whether it set a new best time. Records are flushed to the store only on
// strict improvement.
func (tracker *Tracker) CompleteAttempt() (time.Duration, bool) {
	if tracker.current == nil {
		log.Warn("Completing an attempt that was never started")
		return 0, false
	}

	key := tracker.current.key
	elapsed := tracker.Elapsed()
	tracker.current = nil

	if best, ok := tracker.times[key]; ok && elapsed >= best {
		return elapsed, false
	}

	tracker.times[key] = elapsed
	tracker.flush()

	log.WithFields(log.Fields{
		"key":     key.String(),
		"elapsed": FormatTime(elapsed),
	}).Info("New best time")
	return elapsed, true
}

func (tracker *Tracker) BestTime(difficulty Difficulty, level int) (time.Duration, bool) {
	best, ok := tracker.times[RecordKey{Difficulty: difficulty, Level: level}]
	return best, ok
}

// BestTimes returns a copy of the whole table
func (tracker *Tracker) BestTimes() BestTimes {
	times := make(BestTimes, len(tracker.times))
	for key, best := range tracker.times {
		times[key] = best
	}
	return times
}

func (tracker *Tracker) flush() {
	out, err := tracker.times.serialize()
	if err != nil {
		log.WithError(err).Error("Encoding best times")
		return
	}
	if err := tracker.store.Set(BestTimesKey, out); err != nil {
		log.WithError(err).Error("Saving best times")
	}
}

// FormatTime renders d as minutes:seconds.centiseconds. Minutes are not padded
// and never roll over into hours.
func FormatTime(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	seconds := ms / 1000
	minutes := seconds / 60
	centiseconds := (ms % 1000) / 10
	return fmt.Sprintf("%d:%02d.%02d", minutes, seconds%60, centiseconds)
}

// FormatBestTime renders a best time, or a placeholder when there is none
func FormatBestTime(best time.Duration, ok bool) string {
	if !ok {
		return "--:--.--"
	}
	return FormatTime(best)
}
