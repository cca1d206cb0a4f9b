package domain

import (
	"slices"
	"strings"
)

// ProgressTemplate describes which fields a progress entry shows and which
// of them must be filled in.
type ProgressTemplate struct {
	ID       string
	Name     string
	Icon     string
	Fields   []string
	Required []string
}

// Progress field names, as used on the wire.
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldTutorialName  = "tutorialName"
	FieldProjectName   = "projectName"
	FieldSkillsLearned = "skillsLearned"
	FieldChallenges    = "challenges"
	FieldNextSteps     = "nextSteps"
)

// ProgressTemplates is the template lookup table, in display order.
var ProgressTemplates = []ProgressTemplate{
	{
		ID:       "general",
		Name:     "General Progress",
		Icon:     "📝",
		Fields:   []string{FieldTitle, FieldDescription, FieldSkillsLearned},
		Required: []string{FieldTitle, FieldDescription},
	},
	{
		ID:       "tutorial",
		Name:     "Tutorial Completion",
		Icon:     "🎓",
		Fields:   []string{FieldTitle, FieldTutorialName, FieldSkillsLearned, FieldChallenges},
		Required: []string{FieldTitle, FieldTutorialName},
	},
	{
		ID:       "project",
		Name:     "Project Milestone",
		Icon:     "🏆",
		Fields:   []string{FieldTitle, FieldProjectName, FieldDescription, FieldSkillsLearned, FieldNextSteps},
		Required: []string{FieldTitle, FieldProjectName, FieldDescription},
	},
}

// Progress status values.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// StatusNames maps a status value to its display name.
var StatusNames = map[string]string{
	StatusNotStarted: "Not Started",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
}

// TemplateByID looks up a progress template.
func TemplateByID(id string) (ProgressTemplate, bool) {
	i := slices.IndexFunc(ProgressTemplates, func(t ProgressTemplate) bool { return t.ID == id })
	if i < 0 {
		return ProgressTemplate{}, false
	}
	return ProgressTemplates[i], true
}

// Field returns the named field's value.
func (p ProgressBody) Field(name string) string {
	switch name {
	case FieldTitle:
		return p.Title
	case FieldDescription:
		return p.Description
	case FieldTutorialName:
		return p.TutorialName
	case FieldProjectName:
		return p.ProjectName
	case FieldSkillsLearned:
		return p.SkillsLearned
	case FieldChallenges:
		return p.Challenges
	case FieldNextSteps:
		return p.NextSteps
	}
	return ""
}

// ValidateProgress checks the entry against its template's required fields.
func ValidateProgress(p ProgressBody) error {
	if strings.TrimSpace(p.TemplateType) == "" {
		return Required("templateType")
	}
	tmpl, ok := TemplateByID(p.TemplateType)
	if !ok {
		return &ValidationError{Field: "templateType", Reason: "unknown template " + p.TemplateType}
	}
	for _, f := range tmpl.Required {
		if strings.TrimSpace(p.Field(f)) == "" {
			return Required(f)
		}
	}
	if p.Status != "" {
		if _, ok := StatusNames[p.Status]; !ok {
			return &ValidationError{Field: "status", Reason: "unknown status " + p.Status}
		}
	}
	return nil
}

// ValidatePlan requires a title and a description.
func ValidatePlan(p PlanBody) error {
	if strings.TrimSpace(p.Title) == "" {
		return Required(FieldTitle)
	}
	if strings.TrimSpace(p.Description) == "" {
		return Required(FieldDescription)
	}
	return nil
}

// ValidatePost requires a description or at least one attachment.
func ValidatePost(p PostBody) error {
	if strings.TrimSpace(p.Description) == "" && len(p.MediaURLs) == 0 {
		return &ValidationError{Field: FieldDescription, Reason: "add a description or at least one file"}
	}
	if len(p.MediaTypes) != 0 && len(p.MediaTypes) != len(p.MediaURLs) {
		return &ValidationError{Field: "mediaTypes", Reason: "must match mediaUrls"}
	}
	return nil
}

// Validate checks the item's payload for its kind.
func (it Item) Validate() error {
	switch it.Kind {
	case KindPost:
		if it.Post == nil {
			return Required("post")
		}
		return ValidatePost(*it.Post)
	case KindProgress:
		if it.Progress == nil {
			return Required("progress")
		}
		return ValidateProgress(*it.Progress)
	case KindPlan:
		if it.Plan == nil {
			return Required("plan")
		}
		return ValidatePlan(*it.Plan)
	}
	return &ValidationError{Field: "kind", Reason: "unknown kind " + string(it.Kind)}
}
