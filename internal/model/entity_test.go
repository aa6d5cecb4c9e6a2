package model

import "testing"

func TestNilEntitiesAreSafe(t *testing.T) {
	var (
		minion *Minion
		card   *CardEntity
		ctrl   *Controller
	)
	tests := []struct {
		name string
		e    Entity
	}{
		{"untyped nil", nil},
		{"nil minion", minion},
		{"nil card entity", card},
		{"nil controller", ctrl},
		{"minion without card", &Minion{ID: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameOf(tt.e); got != "" {
				t.Errorf("NameOf = %q, want empty", got)
			}
		})
	}

	if id := EntityIDOf(minion); id != 0 {
		t.Errorf("EntityIDOf(nil minion) = %d, want 0", id)
	}
	if minion.Controller() != nil || card.Controller() != nil {
		t.Error("nil playables report a controller")
	}
	if got := PlayableNames([]Playable{minion, NewMinion(1, &Card{Name: "Wisp"}, nil)}); got[0] != "" || got[1] != "Wisp" {
		t.Errorf("PlayableNames = %v", got)
	}
}
