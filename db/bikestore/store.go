// Package bikestore persists named bike specifications and the current one
// in a JSON file, with a backup copy that can be restored.
package bikestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"bike-config/core/types"
	"bike-config/internal/errors"
)

// Bike is a stored specification
type Bike struct {
	ID            uuid.UUID                  `json:"id"`
	Specification types.BicycleSpecification `json:"specification"`
	CreatedAt     time.Time                  `json:"created_at"`
}

type document struct {
	Current string `json:"current,omitempty"`
	Bikes   []Bike `json:"bikes"`
}

// Store is a file-backed specification store. All methods are safe for
// concurrent use within one process.
type Store struct {
	mu         sync.Mutex
	path       string
	backupPath string
	now        func() time.Time
}

// New creates a store on path, backing up to backupPath
func New(path, backupPath string) *Store {
	return &Store{path: path, backupPath: backupPath, now: time.Now}
}

// Create stores spec under its name and makes it current
func (s *Store) Create(spec types.BicycleSpecification) (Bike, error) {
	if err := Validate(spec); err != nil {
		return Bike{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(s.path)
	if err != nil {
		return Bike{}, err
	}
	if _, ok := doc.find(spec.Name); ok {
		return Bike{}, errors.Newf(errors.TypeInput, "bike %q already exists", spec.Name)
	}

	bike := Bike{ID: uuid.New(), Specification: spec, CreatedAt: s.now().UTC()}
	doc.Bikes = append(doc.Bikes, bike)
	doc.Current = spec.Name
	if err := writeFile(s.path, doc); err != nil {
		return Bike{}, err
	}
	return bike, nil
}

// Current returns the current bike
func (s *Store) Current() (Bike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(s.path)
	if err != nil {
		return Bike{}, err
	}
	if doc.Current == "" {
		return Bike{}, errors.New(errors.TypeNotFound, "no current bike")
	}
	bike, ok := doc.find(doc.Current)
	if !ok {
		return Bike{}, errors.NotFound("bike", doc.Current)
	}
	return bike, nil
}

// SetCurrent makes the named bike current
func (s *Store) SetCurrent(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(s.path)
	if err != nil {
		return err
	}
	if _, ok := doc.find(name); !ok {
		return errors.NotFound("bike", name)
	}
	doc.Current = name
	return writeFile(s.path, doc)
}

// Get returns the named bike
func (s *Store) Get(name string) (Bike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(s.path)
	if err != nil {
		return Bike{}, err
	}
	bike, ok := doc.find(name)
	if !ok {
		return Bike{}, errors.NotFound("bike", name)
	}
	return bike, nil
}

// List returns every bike sorted by name
func (s *Store) List() ([]Bike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(s.path)
	if err != nil {
		return nil, err
	}
	sort.Slice(doc.Bikes, func(i, j int) bool {
		return doc.Bikes[i].Specification.Name < doc.Bikes[j].Specification.Name
	})
	return doc.Bikes, nil
}

// DeleteAll removes every bike. The backup is left alone.
func (s *Store) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFile(s.path, document{Bikes: []Bike{}})
}

// Backup copies the store to the backup file
func (s *Store) Backup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(s.path)
	if err != nil {
		return err
	}
	return writeFile(s.backupPath, doc)
}

// RestoreFromBackup replaces the store with the backup file
func (s *Store) RestoreFromBackup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.backupPath); err != nil {
		return errors.Wrap(errors.TypeNotFound, "no backup at "+s.backupPath, err)
	}
	doc, err := s.read(s.backupPath)
	if err != nil {
		return err
	}
	return writeFile(s.path, doc)
}

func (s *Store) read(path string) (document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return document{Bikes: []Bike{}}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read bikes file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, errors.Internal("decode bikes file "+path, err)
	}
	if doc.Bikes == nil {
		doc.Bikes = []Bike{}
	}
	return doc, nil
}

func (d document) find(name string) (Bike, bool) {
	for _, b := range d.Bikes {
		if b.Specification.Name == name {
			return b, true
		}
	}
	return Bike{}, false
}

func writeFile(path string, doc document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bikes: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write bikes file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return multierr.Append(fmt.Errorf("replace bikes file: %w", err), os.Remove(tmp))
	}
	return nil
}

// Validate checks what the store needs from a specification: a name and
// gear counts in range. Every problem is reported.
func Validate(spec types.BicycleSpecification) error {
	var err error
	if spec.Name == "" {
		err = multierr.Append(err, errors.Input("bike name is required"))
	}
	if spec.FrameStyle == "" {
		err = multierr.Append(err, errors.Input("frame style is required"))
	}
	if spec.FrontGears < 1 || spec.FrontGears > 3 {
		err = multierr.Append(err, errors.Newf(errors.TypeInput, "front gears must be 1-3, got %d", spec.FrontGears))
	}
	if spec.RearGears < 1 || spec.RearGears > 12 {
		err = multierr.Append(err, errors.Newf(errors.TypeInput, "rear gears must be 1-12, got %d", spec.RearGears))
	}
	return err
}
