package domain

import (
	"slices"
	"testing"
)

func TestEditableFields_FollowTemplate(t *testing.T) {
	got := EditableFields(KindProgress, "tutorial")
	want := []string{FieldTitle, FieldTutorialName, FieldSkillsLearned, FieldChallenges, FieldStatus}
	if !slices.Equal(got, want) {
		t.Fatalf("tutorial fields: got %v want %v", got, want)
	}
	if EditableFields(KindProgress, "nope") != nil {
		t.Fatalf("unknown template must have no fields")
	}
	if !slices.Equal(RequiredFields(KindProgress, "project"), []string{FieldTitle, FieldProjectName, FieldDescription}) {
		t.Fatalf("project required fields come from the template")
	}
	for _, kind := range Kinds {
		for _, tmpl := range []string{"general", "tutorial", "project"} {
			for _, f := range EditableFields(kind, tmpl) {
				if FieldLabels[f] == "" {
					t.Fatalf("field %s of %s has no label", f, kind)
				}
			}
		}
	}
}

func TestWithFields_BuildsValidPayloads(t *testing.T) {
	post := Item{}.WithFields(KindPost, map[string]string{
		FieldDescription: "  demo day ",
		FieldMedia:       "https://x.test/a.png https://x.test/b.MP4?dl=1",
	})
	if post.Post.Description != "demo day" || !slices.Equal(post.Post.MediaTypes, []string{"image", "video"}) {
		t.Fatalf("unexpected post %#v", post.Post)
	}
	if err := post.Validate(); err != nil {
		t.Fatalf("post: %v", err)
	}

	prog := Item{}.WithFields(KindProgress, map[string]string{
		FieldTemplate: "project", FieldTitle: "CLI", FieldProjectName: "skillfeed", FieldDescription: "forms",
	})
	if err := prog.Validate(); err != nil {
		t.Fatalf("progress: %v", err)
	}

	plan := Item{}.WithFields(KindPlan, map[string]string{FieldTitle: "Rust"})
	if err := plan.Validate(); err == nil {
		t.Fatalf("plan without description must not validate")
	}
}

func TestWithFields_EditKeepsUntouchedFields(t *testing.T) {
	it := Item{ID: "g1", Kind: KindPlan, Plan: &PlanBody{Title: "Go", Description: "basics", Topics: "channels"}}
	edited := it.WithFields(KindPlan, map[string]string{FieldTitle: "Go 2"})
	if edited.ID != "g1" || edited.Plan.Title != "Go 2" || edited.Plan.Description != "basics" || edited.Plan.Topics != "channels" {
		t.Fatalf("unexpected edit %#v", edited.Plan)
	}
	if it.Plan.Title != "Go" {
		t.Fatalf("original must not change")
	}
	if v := edited.FieldValues(); v[FieldTopics] != "channels" {
		t.Fatalf("unexpected values %v", v)
	}
}
