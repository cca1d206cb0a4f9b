package common

import "testing"

func TestDefaultKeyMap_HasCriticalBindings(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ToggleHints.Keys()) == 0 || km.ToggleHints.Keys()[0] != "?" {
		t.Fatalf("expected ? key binding for hints")
	}
	if len(km.ForceQuit.Keys()) == 0 || km.ForceQuit.Keys()[0] != "ctrl+c" {
		t.Fatalf("expected ctrl+c force quit binding")
	}
	if km.Comment.Keys()[0] != "c" || km.CommentEditor.Keys()[0] != "C" {
		t.Fatalf("expected c/C comment bindings")
	}
	if km.NextTab.Keys()[0] != "tab" {
		t.Fatalf("expected tab to switch kinds")
	}
}

func TestDefaultKeyMap_NoOverlapInFeed(t *testing.T) {
	km := DefaultKeyMap()
	seen := map[string]string{}
	for name, b := range map[string][]string{
		"quit":          km.Quit.Keys(),
		"refresh":       km.Refresh.Keys(),
		"like":          km.Like.Keys(),
		"comment":       km.Comment.Keys(),
		"commentEditor": km.CommentEditor.Keys(),
		"editComment":   km.EditComment.Keys(),
		"deleteComment": km.DeleteComment.Keys(),
		"delete":        km.Delete.Keys(),
		"follow":        km.Follow.Keys(),
		"openMedia":     km.OpenMedia.Keys(),
		"newItem":       km.NewItem.Keys(),
		"editItem":      km.EditItem.Keys(),
		"editProfile":   km.EditProfile.Keys(),
		"nextTab":       km.NextTab.Keys(),
		"prevTab":       km.PrevTab.Keys(),
		"open":          km.Open.Keys(),
		"toggleHints":   km.ToggleHints.Keys(),
		"up":            km.Up.Keys(),
		"down":          km.Down.Keys(),
	} {
		for _, k := range b {
			if other, ok := seen[k]; ok {
				t.Fatalf("key %q bound to both %s and %s", k, other, name)
			}
			seen[k] = name
		}
	}
}
