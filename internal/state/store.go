package state

import (
	"errors"
	"sync"

	"github.com/five82/kampfrichter/internal/apperr"
	"github.com/five82/kampfrichter/internal/competition"
)

// ErrPoisoned is returned (wrapped in a MutexPoisonedError) when a field
// lock was released by a panicking holder.
var ErrPoisoned = errors.New("field lock poisoned")

type cell[T any] struct {
	mu       sync.Mutex
	poisoned bool
	v        T
}

// Store holds the shared competition state. Each field has its own lock.
// The zero value is an empty competition ready for use.
type Store struct {
	// Declaration order is the global lock order.
	name              cell[string]
	date              cell[string]
	place             cell[string]
	responsiblePerson cell[string]
	judgesMeetingTime cell[string]
	replacementJudges cell[[]string]
	judgingTables     cell[map[string]competition.JudgingTable]
}

// Field selects one lockable field of a Store.
type Field[T any] struct {
	name  string
	cell  func(*Store) *cell[T]
	clone func(T) T
}

func (f Field[T]) String() string {
	return f.name
}

func same[T any](v T) T { return v }

var (
	Name = Field[string]{"name", func(s *Store) *cell[string] { return &s.name }, same[string]}
	Date = Field[string]{"date", func(s *Store) *cell[string] { return &s.date }, same[string]}
	Place = Field[string]{"place", func(s *Store) *cell[string] { return &s.place }, same[string]}
	ResponsiblePerson = Field[string]{
		"responsiblePerson", func(s *Store) *cell[string] { return &s.responsiblePerson }, same[string],
	}
	JudgesMeetingTime = Field[string]{
		"judgesMeetingTime", func(s *Store) *cell[string] { return &s.judgesMeetingTime }, same[string],
	}
	ReplacementJudges = Field[[]string]{
		"replacementJudges", func(s *Store) *cell[[]string] { return &s.replacementJudges }, competition.CloneStrings,
	}
	JudgingTables = Field[map[string]competition.JudgingTable]{
		"judgingTables",
		func(s *Store) *cell[map[string]competition.JudgingTable] { return &s.judgingTables },
		competition.CloneTables,
	}
)

// Guard grants exclusive access to one field until Release.
type Guard[T any] struct {
	c        *cell[T]
	released bool
}

// Lock acquires f. A poisoned field fails with MutexPoisonedError; the
// caller must not retry.
func Lock[T any](s *Store, f Field[T]) (*Guard[T], error) {
	c := f.cell(s)
	c.mu.Lock()
	if c.poisoned {
		c.mu.Unlock()
		return nil, apperr.New(apperr.MutexPoisonedError, "lock "+f.name, ErrPoisoned)
	}
	return &Guard[T]{c: c}, nil
}

// Value returns the guarded value. Collections are shared with the store.
func (g *Guard[T]) Value() T {
	return g.c.v
}

// Set replaces the guarded value.
func (g *Guard[T]) Set(v T) {
	g.c.v = v
}

// Release unlocks the field. It must be called with defer directly so that a
// panic inside the critical section poisons the field before propagating.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	if r := recover(); r != nil {
		g.c.poisoned = true
		g.c.mu.Unlock()
		panic(r)
	}
	g.c.mu.Unlock()
}

// Load returns a copy of one field.
func Load[T any](s *Store, f Field[T]) (T, error) {
	g, err := Lock(s, f)
	if err != nil {
		var zero T
		return zero, err
	}
	defer g.Release()
	return f.clone(g.Value()), nil
}

// Put overwrites one field with a copy of v.
func Put[T any](s *Store, f Field[T], v T) error {
	g, err := Lock(s, f)
	if err != nil {
		return err
	}
	defer g.Release()
	g.Set(f.clone(v))
	return nil
}

// Update applies fn to one field under its lock. A panic in fn poisons the
// field.
func Update[T any](s *Store, f Field[T], fn func(T) T) error {
	g, err := Lock(s, f)
	if err != nil {
		return err
	}
	defer g.Release()
	g.Set(fn(g.Value()))
	return nil
}

// Snapshot copies every field in lock order, releasing each lock before
// taking the next. The result is consistent per field only.
func (s *Store) Snapshot() (competition.Competition, error) {
	var (
		c   competition.Competition
		err error
	)
	if c.Name, err = Load(s, Name); err != nil {
		return competition.Competition{}, err
	}
	if c.Date, err = Load(s, Date); err != nil {
		return competition.Competition{}, err
	}
	if c.Place, err = Load(s, Place); err != nil {
		return competition.Competition{}, err
	}
	if c.ResponsiblePerson, err = Load(s, ResponsiblePerson); err != nil {
		return competition.Competition{}, err
	}
	if c.JudgesMeetingTime, err = Load(s, JudgesMeetingTime); err != nil {
		return competition.Competition{}, err
	}
	if c.ReplacementJudges, err = Load(s, ReplacementJudges); err != nil {
		return competition.Competition{}, err
	}
	if c.JudgingTables, err = Load(s, JudgingTables); err != nil {
		return competition.Competition{}, err
	}
	return c, nil
}

// ReplaceAll writes every field in lock order as independent writes. It stops
// at the first poisoned field, leaving earlier fields already written.
func (s *Store) ReplaceAll(c competition.Competition) error {
	if err := Put(s, Name, c.Name); err != nil {
		return err
	}
	if err := Put(s, Date, c.Date); err != nil {
		return err
	}
	if err := Put(s, Place, c.Place); err != nil {
		return err
	}
	if err := Put(s, ResponsiblePerson, c.ResponsiblePerson); err != nil {
		return err
	}
	if err := Put(s, JudgesMeetingTime, c.JudgesMeetingTime); err != nil {
		return err
	}
	if err := Put(s, ReplacementJudges, c.ReplacementJudges); err != nil {
		return err
	}
	return Put(s, JudgingTables, c.JudgingTables)
}
