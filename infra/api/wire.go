package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// wireTime accepts the timestamp shapes the backend emits: RFC 3339 strings
// (with or without an offset), epoch milliseconds, or null.
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = wireTime{}
		return nil
	}
	if b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return err
		}
		*t = wireTime(time.UnixMilli(ms).UTC())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = wireTime{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = wireTime(parsed)
			return nil
		}
	}
	// Unparseable timestamps are shown as unknown rather than failing the list.
	*t = wireTime{}
	return nil
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(tt.UTC().Format(time.RFC3339Nano))
}

type wireLike struct {
	UserID    string   `json:"userId"`
	CreatedAt wireTime `json:"createdAt"`
}

type wireComment struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	UserName  string   `json:"userName"`
	Content   string   `json:"content"`
	CreatedAt wireTime `json:"createdAt"`
	UpdatedAt wireTime `json:"updatedAt"`
}

// wireItem is the union of the three resource shapes. Which payload fields
// are meaningful depends on the resource it was read from.
type wireItem struct {
	ID        string        `json:"id,omitempty"`
	UserID    string        `json:"userId,omitempty"`
	UserName  string        `json:"userName,omitempty"`
	CreatedAt wireTime      `json:"createdAt"`
	UpdatedAt wireTime      `json:"updatedAt"`
	Likes     []wireLike    `json:"likes"`
	Comments  []wireComment `json:"comments"`

	// post
	Description string   `json:"description,omitempty"`
	MediaURLs   []string `json:"mediaUrls,omitempty"`
	MediaTypes  []string `json:"mediaTypes,omitempty"`

	// progress
	TemplateType  string `json:"templateType,omitempty"`
	Status        string `json:"status,omitempty"`
	Title         string `json:"title,omitempty"`
	TutorialName  string `json:"tutorialName,omitempty"`
	ProjectName   string `json:"projectName,omitempty"`
	SkillsLearned string `json:"skillsLearned,omitempty"`
	Challenges    string `json:"challenges,omitempty"`
	NextSteps     string `json:"nextSteps,omitempty"`

	// plan
	Topics    string `json:"topics,omitempty"`
	Resources string `json:"resources,omitempty"`
}

func (w wireItem) toDomain(kind domain.Kind) domain.Item {
	it := domain.Item{
		Kind:       kind,
		ID:         w.ID,
		AuthorID:   w.UserID,
		AuthorName: w.UserName,
		CreatedAt:  time.Time(w.CreatedAt),
		UpdatedAt:  time.Time(w.UpdatedAt),
		Likes:      make([]domain.Like, 0, len(w.Likes)),
		Comments:   make([]domain.Comment, 0, len(w.Comments)),
	}
	for _, l := range w.Likes {
		// The backend has no unique constraint; keep the first like per user.
		if it.LikedBy(l.UserID) {
			continue
		}
		it.Likes = append(it.Likes, domain.Like{UserID: l.UserID, CreatedAt: time.Time(l.CreatedAt)})
	}
	for _, c := range w.Comments {
		it.Comments = append(it.Comments, domain.Comment{
			ID:         c.ID,
			AuthorID:   c.UserID,
			AuthorName: c.UserName,
			Content:    c.Content,
			CreatedAt:  time.Time(c.CreatedAt),
			UpdatedAt:  time.Time(c.UpdatedAt),
		})
	}

	switch kind {
	case domain.KindPost:
		it.Post = &domain.PostBody{
			Description: w.Description,
			MediaURLs:   w.MediaURLs,
			MediaTypes:  w.MediaTypes,
		}
	case domain.KindProgress:
		it.Progress = &domain.ProgressBody{
			TemplateType:  w.TemplateType,
			Status:        w.Status,
			Title:         w.Title,
			Description:   w.Description,
			TutorialName:  w.TutorialName,
			ProjectName:   w.ProjectName,
			SkillsLearned: w.SkillsLearned,
			Challenges:    w.Challenges,
			NextSteps:     w.NextSteps,
		}
	case domain.KindPlan:
		it.Plan = &domain.PlanBody{
			Title:       w.Title,
			Description: w.Description,
			Topics:      w.Topics,
			Resources:   w.Resources,
		}
	}
	return it
}

func fromDomain(it domain.Item) wireItem {
	w := wireItem{
		ID:        it.ID,
		UserID:    it.AuthorID,
		UserName:  it.AuthorName,
		CreatedAt: wireTime(it.CreatedAt),
		UpdatedAt: wireTime(it.UpdatedAt),
		Likes:     make([]wireLike, 0, len(it.Likes)),
		Comments:  make([]wireComment, 0, len(it.Comments)),
	}
	for _, l := range it.Likes {
		w.Likes = append(w.Likes, wireLike{UserID: l.UserID, CreatedAt: wireTime(l.CreatedAt)})
	}
	for _, c := range it.Comments {
		w.Comments = append(w.Comments, wireComment{
			ID:        c.ID,
			UserID:    c.AuthorID,
			UserName:  c.AuthorName,
			Content:   c.Content,
			CreatedAt: wireTime(c.CreatedAt),
			UpdatedAt: wireTime(c.UpdatedAt),
		})
	}
	switch {
	case it.Post != nil:
		w.Description = it.Post.Description
		w.MediaURLs = it.Post.MediaURLs
		w.MediaTypes = it.Post.MediaTypes
	case it.Progress != nil:
		p := it.Progress
		w.TemplateType = p.TemplateType
		w.Status = p.Status
		w.Title = p.Title
		w.Description = p.Description
		w.TutorialName = p.TutorialName
		w.ProjectName = p.ProjectName
		w.SkillsLearned = p.SkillsLearned
		w.Challenges = p.Challenges
		w.NextSteps = p.NextSteps
	case it.Plan != nil:
		w.Title = it.Plan.Title
		w.Description = it.Plan.Description
		w.Topics = it.Plan.Topics
		w.Resources = it.Plan.Resources
	}
	return w
}

// ItemFromJSON decodes one resource object as the given kind.
func ItemFromJSON(kind domain.Kind, data []byte) (domain.Item, error) {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.Item{}, err
	}
	return w.toDomain(kind), nil
}

// ItemToJSON encodes an item in the backend's resource shape.
func ItemToJSON(it domain.Item) ([]byte, error) {
	return json.Marshal(fromDomain(it))
}

type wireProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Skills         []string `json:"skills"`
	FollowedUsers  []string `json:"followedUsers"`
	FollowingUsers []string `json:"followingUsers"`
}

func (w wireProfile) toDomain() domain.Profile {
	return domain.Profile{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Bio:       w.Bio,
		Skills:    w.Skills,
		Followers: w.FollowedUsers,
		Following: w.FollowingUsers,
	}
}

// ProfileToJSON encodes a profile in the backend's shape.
func ProfileToJSON(p domain.Profile) ([]byte, error) {
	return json.Marshal(wireProfile{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Bio:            p.Bio,
		Skills:         p.Skills,
		FollowedUsers:  p.Followers,
		FollowingUsers: p.Following,
	})
}

// ProfileFromJSON decodes a profile in the backend's shape.
func ProfileFromJSON(data []byte) (domain.Profile, error) {
	var w wireProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.Profile{}, err
	}
	return w.toDomain(), nil
}
