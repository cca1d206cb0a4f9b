package domain

import (
	"path"
	"strings"
)

// Editable field names beyond the progress template fields.
const (
	FieldTemplate  = "templateType"
	FieldStatus    = "status"
	FieldMedia     = "mediaUrls"
	FieldTopics    = "topics"
	FieldResources = "resources"
)

// FieldLabels are the display names of editable fields.
var FieldLabels = map[string]string{
	FieldTitle:         "Title",
	FieldDescription:   "Description",
	FieldTutorialName:  "Tutorial",
	FieldProjectName:   "Project",
	FieldSkillsLearned: "Skills learned",
	FieldChallenges:    "Challenges",
	FieldNextSteps:     "Next steps",
	FieldTemplate:      "Template",
	FieldStatus:        "Status",
	FieldMedia:         "Media URLs",
	FieldTopics:        "Topics",
	FieldResources:     "Resources",
}

// EditableFields lists the fields a user fills in for an item of kind, in
// form order. Progress fields come from the template; an unknown template
// yields nil.
func EditableFields(kind Kind, template string) []string {
	switch kind {
	case KindPost:
		return []string{FieldDescription, FieldMedia}
	case KindProgress:
		tmpl, ok := TemplateByID(template)
		if !ok {
			return nil
		}
		return append(append([]string(nil), tmpl.Fields...), FieldStatus)
	case KindPlan:
		return []string{FieldTitle, FieldDescription, FieldTopics, FieldResources}
	}
	return nil
}

// RequiredFields lists the fields of EditableFields that must not be blank.
func RequiredFields(kind Kind, template string) []string {
	switch kind {
	case KindProgress:
		if tmpl, ok := TemplateByID(template); ok {
			return tmpl.Required
		}
	case KindPlan:
		return []string{FieldTitle, FieldDescription}
	}
	return nil
}

// FieldValues returns the item's editable fields keyed by name. Media URLs
// are joined with spaces.
func (it Item) FieldValues() map[string]string {
	v := make(map[string]string)
	switch {
	case it.Post != nil:
		v[FieldDescription] = it.Post.Description
		v[FieldMedia] = strings.Join(it.Post.MediaURLs, " ")
	case it.Progress != nil:
		p := it.Progress
		v[FieldTemplate] = p.TemplateType
		v[FieldStatus] = p.Status
		for _, f := range []string{FieldTitle, FieldDescription, FieldTutorialName, FieldProjectName, FieldSkillsLearned, FieldChallenges, FieldNextSteps} {
			v[f] = p.Field(f)
		}
	case it.Plan != nil:
		v[FieldTitle] = it.Plan.Title
		v[FieldDescription] = it.Plan.Description
		v[FieldTopics] = it.Plan.Topics
		v[FieldResources] = it.Plan.Resources
	}
	return v
}

// WithFields returns a copy of it whose payload for kind is rebuilt from
// values. Names missing from values keep the item's current content, so an
// edit only needs the fields that changed. The result is not validated.
func (it Item) WithFields(kind Kind, values map[string]string) Item {
	cur := it.FieldValues()
	get := func(name string) string {
		if s, ok := values[name]; ok {
			return strings.TrimSpace(s)
		}
		return cur[name]
	}

	it.Kind = kind
	it.Post, it.Progress, it.Plan = nil, nil, nil
	switch kind {
	case KindPost:
		urls := strings.Fields(get(FieldMedia))
		it.Post = &PostBody{Description: get(FieldDescription)}
		if len(urls) > 0 {
			it.Post.MediaURLs = urls
			it.Post.MediaTypes = make([]string, len(urls))
			for i, u := range urls {
				it.Post.MediaTypes[i] = MediaType(u)
			}
		}
	case KindProgress:
		it.Progress = &ProgressBody{
			TemplateType:  get(FieldTemplate),
			Status:        get(FieldStatus),
			Title:         get(FieldTitle),
			Description:   get(FieldDescription),
			TutorialName:  get(FieldTutorialName),
			ProjectName:   get(FieldProjectName),
			SkillsLearned: get(FieldSkillsLearned),
			Challenges:    get(FieldChallenges),
			NextSteps:     get(FieldNextSteps),
		}
	case KindPlan:
		it.Plan = &PlanBody{
			Title:       get(FieldTitle),
			Description: get(FieldDescription),
			Topics:      get(FieldTopics),
			Resources:   get(FieldResources),
		}
	}
	return it
}

var videoExts = map[string]bool{".mp4": true, ".webm": true, ".mov": true, ".m4v": true, ".ogg": true}

// MediaType guesses "image" or "video" for an attachment URL.
func MediaType(url string) string {
	if strings.HasPrefix(url, "data:video/") {
		return "video"
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if videoExts[strings.ToLower(path.Ext(url))] {
		return "video"
	}
	return "image"
}
