package mockapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/infra/api"
)

//go:embed seed.jsonc
var defaultSeed []byte

// DefaultSeed returns the fixture the demo mode starts from.
func DefaultSeed() []byte { return slices.Clone(defaultSeed) }

// seedFile is the fixture layout: users plus one array per resource, each
// object in the API's own wire shape. Comments are allowed.
type seedFile struct {
	Users    []json.RawMessage `json:"users"`
	Posts    []json.RawMessage `json:"posts"`
	Progress []json.RawMessage `json:"learning-progress"`
	Plans    []json.RawMessage `json:"learning-plan"`
}

// Seed replaces the server state with the JSONC fixture in data. Items are
// kept in fixture order, which should be newest first.
func (s *Server) Seed(data []byte) error {
	var f seedFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return fmt.Errorf("parsing seed: %w", err)
	}

	st := newStore(s.st.now)
	for _, raw := range f.Users {
		p, err := api.ProfileFromJSON(raw)
		if err != nil {
			return fmt.Errorf("parsing seed user: %w", err)
		}
		if p.ID == "" {
			return fmt.Errorf("parsing seed user: %w", domain.Required("id"))
		}
		st.profiles[p.ID] = p
	}
	for kind, raws := range map[domain.Kind][]json.RawMessage{
		domain.KindPost:     f.Posts,
		domain.KindProgress: f.Progress,
		domain.KindPlan:     f.Plans,
	} {
		for _, raw := range raws {
			it, err := api.ItemFromJSON(kind, raw)
			if err != nil {
				return fmt.Errorf("parsing seed %s: %w", kind.Label(), err)
			}
			if it.ID == "" {
				return fmt.Errorf("parsing seed %s: %w", kind.Label(), domain.Required("id"))
			}
			if it.AuthorName == "" {
				it.AuthorName = st.userName(it.AuthorID)
			}
			if it.CreatedAt.IsZero() {
				it.CreatedAt = st.now().Add(-time.Duration(len(st.items[kind])+1) * time.Hour)
			}
			st.items[kind] = append(st.items[kind], it)
		}
	}

	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
	return nil
}
