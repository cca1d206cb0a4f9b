package domain

import (
	"slices"
	"time"
)

// Kind selects one of the three content item variants.
type Kind string

const (
	KindPost     Kind = "post"
	KindProgress Kind = "progress"
	KindPlan     Kind = "plan"
)

// Kinds lists every content kind in tab order.
var Kinds = []Kind{KindPost, KindProgress, KindPlan}

// Label is the human name used in notices and headers.
func (k Kind) Label() string {
	switch k {
	case KindPost:
		return "post"
	case KindProgress:
		return "progress update"
	case KindPlan:
		return "learning plan"
	default:
		return string(k)
	}
}

// ParseKind accepts the kind names plus the plural/resource spellings.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "post", "posts":
		return KindPost, true
	case "progress", "learning-progress":
		return KindProgress, true
	case "plan", "plans", "learning-plan":
		return KindPlan, true
	default:
		return "", false
	}
}

// Like is one user's like on an item. Unique per UserID within an item.
type Like struct {
	UserID    string
	CreatedAt time.Time
}

// Comment is a single comment on an item.
type Comment struct {
	ID         string
	AuthorID   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time // Zero or equal to CreatedAt when never edited
}

// Edited reports whether the comment was changed after creation.
func (c Comment) Edited() bool {
	return !c.UpdatedAt.IsZero() && !c.UpdatedAt.Equal(c.CreatedAt)
}

// PostBody is the payload of a skill-sharing post.
type PostBody struct {
	Description string
	MediaURLs   []string // http(s) or data: URLs
	MediaTypes  []string // "image" or "video", parallel to MediaURLs
}

// ProgressBody is the payload of a learning-progress entry.
type ProgressBody struct {
	TemplateType  string
	Status        string
	Title         string
	Description   string
	TutorialName  string
	ProjectName   string
	SkillsLearned string
	Challenges    string
	NextSteps     string
}

// PlanBody is the payload of a learning plan.
type PlanBody struct {
	Title       string
	Description string
	Topics      string
	Resources   string
}

// Item is a post, progress entry or plan. Exactly one of Post, Progress and
// Plan is set, matching Kind.
//
// Items are treated as values: code that changes likes or comments builds new
// slices rather than writing into the existing ones, so copies handed out
// earlier stay intact.
type Item struct {
	Kind       Kind
	ID         string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Likes      []Like
	Comments   []Comment

	Post     *PostBody
	Progress *ProgressBody
	Plan     *PlanBody
}

// OwnedBy reports whether userID authored the item.
func (it Item) OwnedBy(userID string) bool {
	return userID != "" && it.AuthorID == userID
}

// LikedBy reports whether userID has a like entry on the item.
func (it Item) LikedBy(userID string) bool {
	return slices.ContainsFunc(it.Likes, func(l Like) bool { return l.UserID == userID })
}

// Comment returns the comment with the given ID.
func (it Item) Comment(id string) (Comment, bool) {
	i := slices.IndexFunc(it.Comments, func(c Comment) bool { return c.ID == id })
	if i < 0 {
		return Comment{}, false
	}
	return it.Comments[i], true
}

// Title is a one-line heading for lists.
func (it Item) Title() string {
	switch {
	case it.Post != nil:
		return it.Post.Description
	case it.Progress != nil:
		return it.Progress.Title
	case it.Plan != nil:
		return it.Plan.Title
	}
	return ""
}

// WithLike returns a copy of the item with a like for userID at t. An
// existing like for the user is kept as is.
func (it Item) WithLike(userID string, t time.Time) Item {
	if it.LikedBy(userID) {
		return it
	}
	likes := make([]Like, 0, len(it.Likes)+1)
	likes = append(likes, it.Likes...)
	it.Likes = append(likes, Like{UserID: userID, CreatedAt: t})
	return it
}

// WithoutLike returns a copy of the item with every like by userID removed.
func (it Item) WithoutLike(userID string) Item {
	if !it.LikedBy(userID) {
		return it
	}
	likes := make([]Like, 0, len(it.Likes))
	for _, l := range it.Likes {
		if l.UserID != userID {
			likes = append(likes, l)
		}
	}
	it.Likes = likes
	return it
}

// WithCommentContent returns a copy with the comment's content replaced and
// UpdatedAt set to t.
func (it Item) WithCommentContent(commentID, content string, t time.Time) Item {
	comments := slices.Clone(it.Comments)
	for i, c := range comments {
		if c.ID == commentID {
			c.Content = content
			c.UpdatedAt = t
			comments[i] = c
		}
	}
	it.Comments = comments
	return it
}

// WithoutComment returns a copy without the comment.
func (it Item) WithoutComment(commentID string) Item {
	comments := make([]Comment, 0, len(it.Comments))
	for _, c := range it.Comments {
		if c.ID != commentID {
			comments = append(comments, c)
		}
	}
	it.Comments = comments
	return it
}
