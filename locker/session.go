package locker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Prefs holds the two scalar preference slots (session user, theme) in a
// small JSON file separate from the main database. All operations are
// synchronous; every setter persists immediately.
type Prefs struct {
	path string
	data prefsData
}

type prefsData struct {
	SessionUserID string `json:"sessionUserId,omitempty"`
	Theme         Theme  `json:"theme,omitempty"`
}

// OpenPrefs loads the preference file at path, starting fresh when it does
// not exist or no longer parses.
func OpenPrefs(path string) (*Prefs, error) {
	p := &Prefs{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		// Corrupt preference files are replaced rather than blocking startup.
		p.data = prefsData{}
	}
	return p, nil
}

func (p *Prefs) save() error {
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create prefs dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	if err := os.WriteFile(p.path, raw, 0o600); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// SetSession records the signed-in user id.
func (p *Prefs) SetSession(userID string) error {
	p.data.SessionUserID = userID
	return p.save()
}

// Session returns the signed-in user id, or "" when no session exists.
func (p *Prefs) Session() string { return p.data.SessionUserID }

// ClearSession forgets the signed-in user.
func (p *Prefs) ClearSession() error {
	p.data.SessionUserID = ""
	return p.save()
}

// SetTheme records the UI theme.
func (p *Prefs) SetTheme(theme Theme) error {
	p.data.Theme = theme
	return p.save()
}

// Theme returns the stored theme, defaulting to light.
func (p *Prefs) Theme() Theme {
	if p.data.Theme == "" {
		return ThemeLight
	}
	return p.data.Theme
}
