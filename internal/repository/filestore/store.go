// Package filestore is the per-campus JSON file adapter. Each campus keeps
// its posts, with their reactions and comments embedded, in
// posts/<campus>.json under the data directory. Campus reference data lives
// in campuses.json and author records in users.json.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"hotgist/internal/models"
	"hotgist/internal/repository"

	"github.com/goccy/go-json"
)

const (
	postsDir     = "posts"
	campusesFile = "campuses.json"
	usersFile    = "users.json"
)

type postRecord struct {
	models.Post
	Reactions []*models.Reaction `json:"reactions"`
	Comments  []*models.Comment  `json:"comments"`
}

type campusFile struct {
	Posts []*postRecord `json:"posts"`
}

// Store holds every campus file in memory and writes a campus back to disk
// after each mutation. The mutex only guards memory; it does not make
// read-modify-write sequences in callers atomic.
type Store struct {
	dir string

	mu        sync.RWMutex
	campuses  map[string]*campusFile
	postIndex map[string]string // post ID -> campus
	catalog   []models.Campus
	users     map[string]*models.User
}

// Open loads every campus file under dir, creating the layout if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, postsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{
		dir:       dir,
		campuses:  make(map[string]*campusFile),
		postIndex: make(map[string]string),
		users:     make(map[string]*models.User),
	}

	if err := readJSON(filepath.Join(dir, campusesFile), &s.catalog); err != nil {
		return nil, err
	}

	var users []*models.User
	if err := readJSON(filepath.Join(dir, usersFile), &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		s.users[u.ID] = u
	}

	entries, err := os.ReadDir(filepath.Join(dir, postsDir))
	if err != nil {
		return nil, fmt.Errorf("read posts directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		campus := strings.TrimSuffix(e.Name(), ".json")
		if err := s.loadCampus(campus); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Repositories exposes the adapter through the storage boundary.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Posts:     &postRepository{s: s},
		Reactions: &reactionRepository{s: s},
		Comments:  &commentRepository{s: s},
		Users:     &userRepository{s: s},
		Campuses:  &campusRepository{s: s},
		Ping:      s.Ping,
		Close:     func() error { return nil },
	}
}

// Ping checks that the data directory is still reachable.
func (s *Store) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Join(s.dir, postsDir)); err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

func (s *Store) loadCampus(campus string) error {
	var cf campusFile
	if err := readJSON(s.campusPath(campus), &cf); err != nil {
		return err
	}
	for id, c := range s.postIndex {
		if c == campus {
			delete(s.postIndex, id)
		}
	}
	for _, p := range cf.Posts {
		s.postIndex[p.ID] = campus
	}
	s.campuses[campus] = &cf
	return nil
}

func (s *Store) campusPath(campus string) string {
	return filepath.Join(s.dir, postsDir, campus+".json")
}

// persistCampus writes one campus file. On failure the in-memory copy is
// reloaded from disk so memory never runs ahead of the file.
func (s *Store) persistCampus(campus string) error {
	cf := s.campuses[campus]
	if cf == nil {
		cf = &campusFile{}
	}
	if err := writeJSON(s.campusPath(campus), cf); err != nil {
		if reloadErr := s.loadCampus(campus); reloadErr != nil {
			err = errors.Join(err, reloadErr)
		}
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

func (s *Store) persistUsers() error {
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if err := writeJSON(filepath.Join(s.dir, usersFile), users); err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

func (s *Store) persistCatalog() error {
	if err := writeJSON(filepath.Join(s.dir, campusesFile), s.catalog); err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

// lookup returns the record and its campus. Callers hold s.mu.
func (s *Store) lookup(postID string) (*postRecord, string, bool) {
	campus, ok := s.postIndex[postID]
	if !ok {
		return nil, "", false
	}
	for _, p := range s.campuses[campus].Posts {
		if p.ID == postID {
			return p, campus, true
		}
	}
	return nil, "", false
}

func validCampusName(campus string) bool {
	return campus != "" && campus != "." && campus != ".." &&
		!strings.ContainsAny(campus, `/\`) && !strings.ContainsRune(campus, 0)
}

// readJSON decodes path into v. A missing file leaves v untouched.
func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return models.NewStorageUnavailableError(fmt.Errorf("read %s: %w", path, err))
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return models.NewStorageUnavailableError(fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}

// writeJSON replaces path atomically through a temp file and rename.
func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
