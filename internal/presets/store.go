package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"vidtools/internal/fileutil"
	"vidtools/internal/logging"
	"vidtools/internal/services"
)

var (
	// ErrExists is returned by Save when the name is taken and force is off.
	ErrExists = errors.New("preset already exists")
	// ErrCorrupt marks a preset file that could not be parsed.
	ErrCorrupt = errors.New("preset file is not valid JSON")
)

// Entry is a preset as seen by listings.
type Entry struct {
	Name   string
	Preset Preset
	// Builtin is true when the name ships with vidtools.
	Builtin bool
	// Overridden is true when a user entry shadows the built-in.
	Overridden bool
}

// Store reads and writes the preset file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a store backed by path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the preset file location.
func (s *Store) Path() string { return s.path }

func (s *Store) lock() (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "preset", "lock", "create preset directory", err)
	}
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "preset", "lock", "acquire preset file lock", err)
	}
	return lock, nil
}

// readUser loads the user entries. A missing file yields an empty map.
func (s *Store) readUser() (map[string]Preset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("preset file not found; using built-in presets", logging.String("path", s.path))
			return map[string]Preset{}, nil
		}
		return nil, services.Wrap(services.ErrConfiguration, "preset", "read", s.path, err)
	}
	user := map[string]Preset{}
	if len(data) == 0 {
		return user, nil
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return user, nil
}

// Load returns built-in presets overlaid with the user file. An unparseable
// file is reported as a warning and only the built-ins are returned.
func (s *Store) Load() (map[string]Preset, error) {
	user, err := s.readUser()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		s.logger.Warn("invalid preset file; using built-in presets",
			logging.String("path", s.path),
			logging.Error(err),
		)
		user = nil
	}
	merged := make(map[string]Preset, len(builtins)+len(user))
	for name, p := range builtins {
		merged[name] = p
	}
	for name, p := range user {
		merged[name] = p
	}
	return merged, nil
}

// List returns every preset sorted by name.
func (s *Store) List() ([]Entry, error) {
	user, err := s.readUser()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return nil, err
	}
	if err != nil {
		s.logger.Warn("invalid preset file; listing built-in presets", logging.String("path", s.path), logging.Error(err))
		user = nil
	}
	entries := make([]Entry, 0, len(builtins)+len(user))
	for name, p := range builtins {
		if override, ok := user[name]; ok {
			entries = append(entries, Entry{Name: name, Preset: override, Builtin: true, Overridden: true})
			continue
		}
		entries = append(entries, Entry{Name: name, Preset: p, Builtin: true})
	}
	for name, p := range user {
		if IsBuiltin(name) {
			continue
		}
		entries = append(entries, Entry{Name: name, Preset: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Get returns the preset called name.
func (s *Store) Get(name string) (Preset, error) {
	all, err := s.Load()
	if err != nil {
		return Preset{}, err
	}
	p, ok := all[name]
	if !ok {
		return Preset{}, services.Wrap(services.ErrNotFound, "preset", "", fmt.Sprintf("preset %q not found (available: %s)", name, joinNames(all)), nil)
	}
	return p, nil
}

// Save stores p under name. An existing preset (user or built-in) is only
// replaced when force is set. Empty descriptions are generated.
func (s *Store) Save(name string, p Preset, force bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Operation == "" {
		p.Operation = p.Kind()
	}
	if p.Description == "" {
		p.Description = p.Describe()
	}
	return s.mutate(func(user map[string]Preset) error {
		_, inUser := user[name]
		if (inUser || IsBuiltin(name)) && !force {
			return services.Wrap(services.ErrValidation, "preset", "", fmt.Sprintf("preset %q already exists; use --force to replace it", name), ErrExists)
		}
		user[name] = p
		s.logger.Info("preset saved",
			logging.String(logging.FieldPreset, name),
			logging.String(logging.FieldOperation, p.Operation),
			logging.String("path", s.path),
		)
		return nil
	})
}

// Delete removes a user preset. Deleting a user override of a built-in
// restores the built-in; built-ins themselves cannot be deleted.
func (s *Store) Delete(name string) error {
	return s.mutate(func(user map[string]Preset) error {
		if _, ok := user[name]; !ok {
			if IsBuiltin(name) {
				return services.Validation("preset", "%q is a built-in preset and cannot be deleted", name)
			}
			return services.Wrap(services.ErrNotFound, "preset", "", fmt.Sprintf("preset %q not found", name), nil)
		}
		delete(user, name)
		s.logger.Info("preset deleted",
			logging.String(logging.FieldPreset, name),
			logging.Bool("builtin_restored", IsBuiltin(name)),
		)
		return nil
	})
}

// Materialize makes sure name has an entry in the user file, copying the
// built-in definition when needed, so it can be edited by hand.
func (s *Store) Materialize(name string) (Preset, error) {
	var out Preset
	err := s.mutate(func(user map[string]Preset) error {
		if p, ok := user[name]; ok {
			out = p
			return errUnchanged
		}
		p, ok := Builtin(name)
		if !ok {
			return services.Wrap(services.ErrNotFound, "preset", "", fmt.Sprintf("preset %q not found", name), nil)
		}
		user[name] = p
		out = p
		return nil
	})
	return out, err
}

var errUnchanged = errors.New("unchanged")

// mutate applies fn to the user entries under the file lock and writes the
// result back. fn may return errUnchanged to skip the write.
func (s *Store) mutate(fn func(map[string]Preset) error) error {
	lock, err := s.lock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	user, err := s.readUser()
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			return services.Wrap(services.ErrConfiguration, "preset", "write", "refusing to overwrite unparseable preset file; fix or remove it first", err)
		}
		return err
	}
	if err := fn(user); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	data, err := json.MarshalIndent(user, "", "    ")
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "preset", "write", s.path, err)
	}
	return nil
}

func joinNames(all map[string]Preset) string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
