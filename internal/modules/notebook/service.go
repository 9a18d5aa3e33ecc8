package notebook

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service manages journal entries.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new notebook service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "notebook").Logger(),
	}
}

// Create adds a journal entry. An empty entry date defaults to now.
func (s *Service) Create(userID int64, title, content string, entryDate time.Time, tags, symbols []string) (*Entry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("entry title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("entry content is required")
	}
	if entryDate.IsZero() {
		entryDate = time.Now().UTC()
	}

	entry := &Entry{
		UserID:       userID,
		Title:        title,
		Content:      content,
		EntryDate:    entryDate,
		Tags:         cleanList(tags, false),
		AssetSymbols: cleanList(symbols, true),
	}
	if err := s.repo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Get returns one of the user's entries, nil when not found.
func (s *Service) Get(userID, id int64) (*Entry, error) {
	return s.repo.Get(userID, id)
}

// List returns a page of the user's entries.
func (s *Service) List(userID int64, limit, offset int) ([]Entry, error) {
	return s.repo.ListByUser(userID, limit, offset)
}

// Update replaces an entry. Returns nil when the entry does not exist.
func (s *Service) Update(userID, id int64, title, content string, entryDate time.Time, tags, symbols []string) (*Entry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("entry title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("entry content is required")
	}
	if entryDate.IsZero() {
		entryDate = time.Now().UTC()
	}

	entry := &Entry{
		ID:           id,
		UserID:       userID,
		Title:        title,
		Content:      content,
		EntryDate:    entryDate,
		Tags:         cleanList(tags, false),
		AssetSymbols: cleanList(symbols, true),
	}
	updated, err := s.repo.Update(entry)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, nil
	}
	return s.repo.Get(userID, id)
}

// Delete removes a user's entry.
func (s *Service) Delete(userID, id int64) (bool, error) {
	return s.repo.Delete(userID, id)
}

func cleanList(values []string, uppercase bool) []string {
	cleaned := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if uppercase {
			value = strings.ToUpper(value)
		}
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		cleaned = append(cleaned, value)
	}
	return cleaned
}
