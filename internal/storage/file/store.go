// Package file keeps users in a flat text file, one record per line.
//
// The store loads the file once, serves lookups from memory, and rewrites the
// whole file after every Save. It does no locking: a single goroutine (or a
// caller-held lock) must own it, and only one process may use a given file.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/hongminglow/coffee-shop/internal/models"
	"github.com/hongminglow/coffee-shop/internal/storage"
	"github.com/hongminglow/coffee-shop/internal/storage/record"
)

// DefaultCapacity is the maximum number of users a store holds unless
// configured otherwise.
const DefaultCapacity = 200

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store provides file-backed persistence for users.
type Store struct {
	path     string
	capacity int
	log      zerolog.Logger

	users     []models.User
	loaded    bool
	truncated bool
}

// Option customises a Store.
type Option func(*Store)

// WithCapacity bounds the number of users held in memory and on disk.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithLogger sets the logger used to report skipped records.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewUserStore creates a Store over path. Nothing is read until first use.
func NewUserStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		capacity: DefaultCapacity,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// LoadAll replaces the in-memory collection with the file contents. Malformed
// lines are logged and skipped. A missing file loads as empty.
//
// When the file holds more valid records than capacity, only the first
// capacity records are kept and the store becomes read-only: Save fails with
// storage.ErrCapacity so the unread records are never overwritten.
func (s *Store) LoadAll(_ context.Context, capacity int) (int, error) {
	if capacity <= 0 {
		capacity = s.capacity
	}
	users, truncated, err := s.read(capacity)
	if err != nil {
		return 0, err
	}
	if truncated {
		s.log.Warn().Int("capacity", capacity).Str("path", s.path).Msg("user file exceeds capacity, store is read-only")
	}
	s.users = users
	s.truncated = truncated
	s.loaded = true
	return len(users), nil
}

// FindByID returns a copy of the user with the given id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.User{}, err
	}
	if i := s.indexOf(id); i >= 0 {
		return s.users[i], nil
	}
	return models.User{}, storage.ErrNotFound
}

// Save upserts the user and rewrites the file. When the write fails the
// in-memory collection is left as it was before the call.
func (s *Store) Save(ctx context.Context, user models.User) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidUser, err)
	}
	if s.truncated {
		return fmt.Errorf("%w: %s holds records beyond the loaded %d", storage.ErrCapacity, s.path, len(s.users))
	}

	if i := s.indexOf(user.ID); i >= 0 {
		previous := s.users[i]
		s.users[i] = user
		if err := s.writeAll(); err != nil {
			s.users[i] = previous
			return err
		}
		return nil
	}

	if len(s.users) >= s.capacity {
		return storage.ErrCapacity
	}
	s.users = append(s.users, user)
	if err := s.writeAll(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return err
	}
	return nil
}

// Users returns a copy of the collection in file order.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	if _, err := s.LoadAll(ctx, s.capacity); err != nil {
		return err
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// read decodes up to capacity records. Lines of any length are read whole, so
// a corrupt line is skipped like any other malformed record. truncated reports
// whether at least one further valid record was left unread.
func (s *Store) read(capacity int) (users []models.User, truncated bool, err error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open user store: %w", err)
	}
	defer f.Close()

	seen := make(map[int64]struct{})
	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, false, fmt.Errorf("read user store: %w", readErr)
		}
		if line != "" {
			lineNo++
			if u, ok := s.decode(line, lineNo, seen); ok {
				if len(users) >= capacity {
					return users, true, nil
				}
				users = append(users, u)
			}
		}
		if readErr != nil {
			return users, false, nil
		}
	}
}

func (s *Store) decode(line string, lineNo int, seen map[int64]struct{}) (models.User, bool) {
	if line == "\n" || line == "\r\n" {
		return models.User{}, false
	}
	u, err := record.DecodeLine(line)
	if err != nil {
		var fe *record.FormatError
		if errors.As(err, &fe) {
			fe.Line = lineNo
		}
		s.log.Warn().Err(err).Str("path", s.path).Msg("skipping user record")
		return models.User{}, false
	}
	if _, dup := seen[u.ID]; dup {
		s.log.Warn().Int64("id", u.ID).Int("line", lineNo).Str("path", s.path).Msg("skipping duplicate user id")
		return models.User{}, false
	}
	seen[u.ID] = struct{}{}
	return u, true
}

func (s *Store) writeAll() error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("unable to open user data file for writing")
		return &storage.WriteError{Path: s.path, Err: err}
	}
	w := bufio.NewWriter(f)
	for _, u := range s.users {
		if _, err := fmt.Fprintln(w, record.Encode(u)); err != nil {
			f.Close()
			return &storage.WriteError{Path: s.path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return &storage.WriteError{Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &storage.WriteError{Path: s.path, Err: err}
	}
	return nil
}
