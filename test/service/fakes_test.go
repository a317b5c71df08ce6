package service_test

import (
	"context"
	"sort"

	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/service"
)

// In-memory fakes implementing the repository contracts. State is mutated the
// same way the postgres implementations would, so service tests can assert on
// end state instead of call traces.

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	f.calls++
	return fn(ctx)
}

var _ repository.TxManager = (*fakeTx)(nil)

type fakeTeamRepo struct {
	nextID    int64
	items     map[int64]model.Team
	createErr error
	lastPage  repository.Page
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, items: map[int64]model.Team{}}
}

func (f *fakeTeamRepo) Create(_ context.Context, t model.Team) (model.Team, error) {
	if f.createErr != nil {
		return model.Team{}, f.createErr
	}
	t.ID = f.nextID
	f.nextID++
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int64) (model.Team, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Team{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeTeamRepo) List(_ context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	f.lastPage = p
	res := repository.PageResult[model.Team]{}
	for _, v := range f.items {
		res.Items = append(res.Items, v)
	}
	res.Total = len(res.Items)
	return res, nil
}

func (f *fakeTeamRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

var _ repository.TeamRepository = (*fakeTeamRepo)(nil)

type fakePlayerRepo struct {
	nextID    int64
	items     map[int64]model.Player
	createErr error
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 1, items: map[int64]model.Player{}}
}

func (f *fakePlayerRepo) add(p model.Player) model.Player {
	p.ID = f.nextID
	f.nextID++
	f.items[p.ID] = p
	return p
}

func (f *fakePlayerRepo) Create(_ context.Context, p model.Player) (model.Player, error) {
	if f.createErr != nil {
		return model.Player{}, f.createErr
	}
	return f.add(p), nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int64) (model.Player, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakePlayerRepo) ListByTeam(_ context.Context, teamID int64, _ repository.Page) (repository.PageResult[model.Player], error) {
	res := repository.PageResult[model.Player]{}
	for _, v := range f.items {
		if v.TeamID == teamID {
			res.Items = append(res.Items, v)
		}
	}
	res.Total = len(res.Items)
	return res, nil
}

func (f *fakePlayerRepo) NumberTaken(_ context.Context, teamID int64, jerseyNumber int) (bool, error) {
	for _, v := range f.items {
		if v.TeamID == teamID && v.JerseyNumber == jerseyNumber {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.PlayerRepository = (*fakePlayerRepo)(nil)

type fakeMatchRepo struct {
	nextID  int64
	items   map[int64]model.Match
	updates int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, items: map[int64]model.Match{}}
}

func (f *fakeMatchRepo) add(m model.Match) model.Match {
	m.ID = f.nextID
	f.nextID++
	f.items[m.ID] = m
	return m
}

func (f *fakeMatchRepo) Create(_ context.Context, m model.Match) (model.Match, error) {
	return f.add(m), nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int64) (model.Match, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeMatchRepo) List(_ context.Context, _ repository.Page) (repository.PageResult[model.Match], error) {
	res := repository.PageResult[model.Match]{}
	for _, v := range f.items {
		res.Items = append(res.Items, v)
	}
	res.Total = len(res.Items)
	return res, nil
}

func (f *fakeMatchRepo) UpdateState(_ context.Context, m model.Match) (model.Match, error) {
	if _, ok := f.items[m.ID]; !ok {
		return model.Match{}, repository.ErrNotFound
	}
	f.items[m.ID] = m
	f.updates++
	return m, nil
}

var _ repository.MatchRepository = (*fakeMatchRepo)(nil)

type fakeEventRepo struct {
	nextID    int64
	items     map[int64]model.MatchEvent
	createErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, items: map[int64]model.MatchEvent{}}
}

func (f *fakeEventRepo) Create(_ context.Context, ev model.MatchEvent) (model.MatchEvent, error) {
	if f.createErr != nil {
		return model.MatchEvent{}, f.createErr
	}
	ev.ID = f.nextID
	f.nextID++
	f.items[ev.ID] = ev
	return ev, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (model.MatchEvent, error) {
	it, ok := f.items[id]
	if !ok {
		return model.MatchEvent{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeEventRepo) sorted(keep func(model.MatchEvent) bool) []model.MatchEvent {
	var out []model.MatchEvent
	for _, v := range f.items {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeEventRepo) ListByMatch(_ context.Context, matchID int64) ([]model.MatchEvent, error) {
	return f.sorted(func(ev model.MatchEvent) bool { return ev.MatchID == matchID }), nil
}

func (f *fakeEventRepo) ListByPlayerMatch(_ context.Context, playerID, matchID int64) ([]model.MatchEvent, error) {
	return f.sorted(func(ev model.MatchEvent) bool {
		return ev.MatchID == matchID && ev.PlayerID != nil && *ev.PlayerID == playerID
	}), nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

var _ repository.EventRepository = (*fakeEventRepo)(nil)

type statKey struct{ playerID, matchID int64 }

type fakeStatRepo struct {
	nextID int64
	items  map[statKey]model.PlayerStat
}

func newFakeStatRepo() *fakeStatRepo {
	return &fakeStatRepo{nextID: 1, items: map[statKey]model.PlayerStat{}}
}

func (f *fakeStatRepo) GetOrCreate(_ context.Context, playerID, matchID int64) (model.PlayerStat, error) {
	k := statKey{playerID, matchID}
	if it, ok := f.items[k]; ok {
		return it, nil
	}
	s := model.PlayerStat{ID: f.nextID, PlayerID: playerID, MatchID: matchID}
	f.nextID++
	f.items[k] = s
	return s, nil
}

func (f *fakeStatRepo) Get(_ context.Context, playerID, matchID int64) (model.PlayerStat, error) {
	it, ok := f.items[statKey{playerID, matchID}]
	if !ok {
		return model.PlayerStat{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeStatRepo) Update(_ context.Context, s model.PlayerStat) (model.PlayerStat, error) {
	k := statKey{s.PlayerID, s.MatchID}
	if _, ok := f.items[k]; !ok {
		return model.PlayerStat{}, repository.ErrNotFound
	}
	f.items[k] = s
	return s, nil
}

func (f *fakeStatRepo) ListByMatch(_ context.Context, matchID int64) ([]model.PlayerStat, error) {
	var out []model.PlayerStat
	for _, v := range f.items {
		if v.MatchID == matchID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ repository.StatRepository = (*fakeStatRepo)(nil)

type fakePublisher struct {
	published []model.MatchSnapshot
}

func (f *fakePublisher) Publish(snap model.MatchSnapshot) {
	f.published = append(f.published, snap)
}

var _ service.SnapshotPublisher = (*fakePublisher)(nil)

type fakeCache struct {
	items   map[int64]model.MatchSnapshot
	getErr  error
	setErr  error
	setHits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[int64]model.MatchSnapshot{}}
}

func (f *fakeCache) Get(_ context.Context, matchID int64) (model.MatchSnapshot, bool, error) {
	if f.getErr != nil {
		return model.MatchSnapshot{}, false, f.getErr
	}
	snap, ok := f.items[matchID]
	return snap, ok, nil
}

func (f *fakeCache) Set(_ context.Context, snap model.MatchSnapshot) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setHits++
	f.items[snap.MatchID] = snap
	return nil
}

var _ service.SnapshotCache = (*fakeCache)(nil)
