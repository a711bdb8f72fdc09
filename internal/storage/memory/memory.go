package memory

import (
	"context"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/storage"
	"sort"
	"strings"
	"sync"
)

// Storage bundles the in-memory backends. It is built once at startup and
// handed to the services.
type Storage struct {
	Films   *FilmStorage
	Users   *UserStorage
	Likes   *LikeIndex
	Friends *FriendIndex
	Refs    *RefStorage
}

func New() *Storage {
	return &Storage{
		Films:   &FilmStorage{t: newTable[models.Film]()},
		Users:   &UserStorage{t: newTable[models.User]()},
		Likes:   &LikeIndex{rel: newRelation()},
		Friends: &FriendIndex{rel: newRelation()},
		Refs:    NewRefStorage(),
	}
}

type FilmStorage struct {
	t *table[models.Film]
}

// Likes live in LikeIndex; the film row only keeps its own columns and genre ids.
func stripFilm(f models.Film) models.Film {
	f = f.Clone()
	f.Likes = nil
	for i := range f.Genres {
		f.Genres[i].Name = ""
	}
	if f.Mpa != nil {
		f.Mpa.Name = ""
	}
	return f
}

func (s *FilmStorage) Create(_ context.Context, film models.Film) (*models.Film, error) {
	created := s.t.insert(stripFilm(film))
	return &created, nil
}

func (s *FilmStorage) Get(_ context.Context, id int64) (*models.Film, error) {
	film, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &film, nil
}

func (s *FilmStorage) Update(_ context.Context, film models.Film) (*models.Film, error) {
	updated, err := s.t.replace(stripFilm(film))
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *FilmStorage) Delete(_ context.Context, id int64) (*models.Film, error) {
	film, err := s.t.remove(id)
	if err != nil {
		return nil, err
	}
	return &film, nil
}

func (s *FilmStorage) List(_ context.Context) ([]models.Film, error) {
	return s.t.list(), nil
}

type UserStorage struct {
	t *table[models.User]
}

func stripUser(u models.User) models.User {
	u = u.Clone()
	u.Friends = nil
	return u
}

func (s *UserStorage) Create(_ context.Context, user models.User) (*models.User, error) {
	created := s.t.insert(stripUser(user))
	return &created, nil
}

func (s *UserStorage) Get(_ context.Context, id int64) (*models.User, error) {
	user, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStorage) Update(_ context.Context, user models.User) (*models.User, error) {
	updated, err := s.t.replace(stripUser(user))
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *UserStorage) Delete(_ context.Context, id int64) (*models.User, error) {
	user, err := s.t.remove(id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStorage) List(_ context.Context) ([]models.User, error) {
	return s.t.list(), nil
}

func (s *UserStorage) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.t.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (s *UserStorage) FindByLogin(_ context.Context, login string) (*models.User, error) {
	user, ok := s.t.find(func(u models.User) bool { return u.Login == login })
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

// relation is a directed many-to-many edge set from one id space to another.
type relation struct {
	mu    sync.RWMutex
	edges map[int64]map[int64]struct{}
}

func newRelation() *relation {
	return &relation{edges: make(map[int64]map[int64]struct{})}
}

func (r *relation) add(from, to int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.edges[from]
	if !ok {
		set = make(map[int64]struct{})
		r.edges[from] = set
	}
	set[to] = struct{}{}
}

func (r *relation) remove(from, to int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges[from], to)
	if len(r.edges[from]) == 0 {
		delete(r.edges, from)
	}
}

func (r *relation) contains(from, to int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.edges[from][to]
	return ok
}

func (r *relation) count(from int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.edges[from])
}

func (r *relation) targets(from int64) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.edges[from])
}

func (r *relation) replace(from int64, to []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(to) == 0 {
		delete(r.edges, from)
		return
	}
	set := make(map[int64]struct{}, len(to))
	for _, id := range to {
		set[id] = struct{}{}
	}
	r.edges[from] = set
}

// dropSource removes every edge starting at id.
func (r *relation) dropSource(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, id)
}

// dropTarget removes every edge ending at id.
func (r *relation) dropTarget(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for from, set := range r.edges {
		delete(set, id)
		if len(set) == 0 {
			delete(r.edges, from)
		}
	}
}

func sortedKeys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LikeIndex maps film id to the set of user ids that liked it. Add is idempotent;
// rejecting duplicates is a service rule.
type LikeIndex struct {
	rel *relation
}

func (l *LikeIndex) Add(_ context.Context, filmID, userID int64) error {
	l.rel.add(filmID, userID)
	return nil
}

func (l *LikeIndex) Remove(_ context.Context, filmID, userID int64) error {
	l.rel.remove(filmID, userID)
	return nil
}

func (l *LikeIndex) Contains(_ context.Context, filmID, userID int64) (bool, error) {
	return l.rel.contains(filmID, userID), nil
}

func (l *LikeIndex) CountFor(_ context.Context, filmID int64) (int, error) {
	return l.rel.count(filmID), nil
}

func (l *LikeIndex) ListFor(_ context.Context, filmID int64) ([]int64, error) {
	return l.rel.targets(filmID), nil
}

func (l *LikeIndex) Replace(_ context.Context, filmID int64, userIDs []int64) error {
	l.rel.replace(filmID, userIDs)
	return nil
}

func (l *LikeIndex) RemoveFilm(_ context.Context, filmID int64) error {
	l.rel.dropSource(filmID)
	return nil
}

func (l *LikeIndex) RemoveUser(_ context.Context, userID int64) error {
	l.rel.dropTarget(userID)
	return nil
}

// FriendIndex holds directed friendship edges user -> friend.
type FriendIndex struct {
	rel *relation
}

func (f *FriendIndex) Add(_ context.Context, userID, friendID int64) error {
	f.rel.add(userID, friendID)
	return nil
}

func (f *FriendIndex) Remove(_ context.Context, userID, friendID int64) error {
	f.rel.remove(userID, friendID)
	return nil
}

func (f *FriendIndex) Contains(_ context.Context, userID, friendID int64) (bool, error) {
	return f.rel.contains(userID, friendID), nil
}

func (f *FriendIndex) ListFriendsOf(_ context.Context, userID int64) ([]int64, error) {
	return f.rel.targets(userID), nil
}

func (f *FriendIndex) CommonFriends(_ context.Context, userID, otherID int64) ([]int64, error) {
	f.rel.mu.RLock()
	defer f.rel.mu.RUnlock()
	a, b := f.rel.edges[userID], f.rel.edges[otherID]
	if len(b) < len(a) {
		a, b = b, a
	}
	common := make(map[int64]struct{})
	for id := range a {
		if _, ok := b[id]; ok {
			common[id] = struct{}{}
		}
	}
	return sortedKeys(common), nil
}

func (f *FriendIndex) Replace(_ context.Context, userID int64, friendIDs []int64) error {
	f.rel.replace(userID, friendIDs)
	return nil
}

func (f *FriendIndex) RemoveUser(_ context.Context, userID int64) error {
	f.rel.dropSource(userID)
	f.rel.dropTarget(userID)
	return nil
}
