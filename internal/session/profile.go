package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNoProfile is returned when no profile has been saved yet
var ErrNoProfile = errors.New("no saved profile")

// Profile is the persisted session of the command line client
type Profile struct {
	APIURL        string    `yaml:"api_url"`
	Username      string    `yaml:"username,omitempty"`
	Cookies       []string  `yaml:"cookies"`
	Authenticated bool      `yaml:"authenticated"`
	SavedAt       time.Time `yaml:"saved_at"`
}

// Snapshot captures the state as a profile
func (s *State) Snapshot(apiURL, username string) *Profile {
	return &Profile{
		APIURL:        apiURL,
		Username:      username,
		Cookies:       s.Cookies(),
		Authenticated: s.authenticated,
	}
}

// ProfileStore reads and writes a profile file
type ProfileStore struct {
	path   string
	logger *zap.Logger
}

func NewProfileStore(path string, logger *zap.Logger) *ProfileStore {
	return &ProfileStore{
		path:   path,
		logger: logger.Named("session.profile"),
	}
}

func (s *ProfileStore) Path() string {
	return s.path
}

// Load reads the profile. It returns ErrNoProfile when the file is missing.
func (s *ProfileStore) Load() (*Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", s.path, err)
	}
	s.logger.Debug("profile loaded",
		zap.String("path", s.path),
		zap.Bool("authenticated", p.Authenticated))
	return &p, nil
}

// Save writes the profile, readable by the owner only
func (s *ProfileStore) Save(p *Profile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	p.SavedAt = time.Now().UTC().Truncate(time.Second)
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	s.logger.Debug("profile saved", zap.String("path", s.path))
	return nil
}

// Delete removes the profile. A missing file is not an error.
func (s *ProfileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return nil
}
