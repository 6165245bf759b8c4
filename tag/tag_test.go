package tag

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/intentlab/intentprint/canon"
	"github.com/intentlab/intentprint/vocab"
)

func newTestTagger(t *testing.T) *Tagger {
	t.Helper()
	tagger, err := New(vocab.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tagger
}

func personaForm() canon.Form {
	return canon.Form{
		Kind:               canon.KindPrompt,
		Roles:              []string{"sheldon"},
		Constraints:        []string{"catchphrase_required"},
		Goal:               "roleplay",
		InteractionPattern: canon.PatternUnstructured,
		Metadata: canon.Metadata{
			LengthBucket:     canon.LengthShort,
			ComplexityBucket: canon.ComplexityModerate,
		},
	}
}

func TestTagPersonaForm(t *testing.T) {
	tagger := newTestTagger(t)
	set := tagger.Tag(personaForm())

	if len(set.Primary) != 0 {
		t.Errorf("Primary = %v, want none", set.Primary)
	}
	want := []string{"persona_adoption", "character_impersonation"}
	if !reflect.DeepEqual(set.Secondary, want) {
		t.Errorf("Secondary = %v, want %v", set.Secondary, want)
	}
	// One of three keywords hit: 0.6*(1/3) + 0.4 = 0.6
	for _, id := range want {
		if conf := set.Confidence[id]; math.Abs(conf-0.6) > 1e-9 {
			t.Errorf("Confidence[%s] = %v, want 0.6", id, conf)
		}
	}
}

func TestTagSummarizationForm(t *testing.T) {
	tagger := newTestTagger(t)
	set := tagger.Tag(canon.Form{
		Kind:               canon.KindInstruction,
		Goal:               "summarization",
		InteractionPattern: canon.PatternSingleShot,
		Patterns:           []string{"list_output"},
		Metadata: canon.Metadata{
			LengthBucket:     canon.LengthShort,
			ComplexityBucket: canon.ComplexityModerate,
		},
	})

	// 0.6*(1/2) + 0.4 = 0.7, exactly the primary threshold.
	if want := []string{"summarization"}; !reflect.DeepEqual(set.Primary, want) {
		t.Errorf("Primary = %v, want %v", set.Primary, want)
	}
	if len(set.Secondary) != 0 {
		t.Errorf("Secondary = %v, want none", set.Secondary)
	}
}

func TestTagDeterministic(t *testing.T) {
	tagger := newTestTagger(t)
	form := personaForm()

	first := tagger.Tag(form)
	for i := 0; i < 10; i++ {
		if again := tagger.Tag(form); !reflect.DeepEqual(first, again) {
			t.Fatalf("Tag not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestTagEligibilityGate(t *testing.T) {
	tagger := newTestTagger(t)

	// No roles: persona_adoption (and its child) must be ineligible even
	// though the goal mentions roleplay.
	set := tagger.Tag(canon.Form{
		Kind:               canon.KindPrompt,
		Goal:               "roleplay",
		InteractionPattern: canon.PatternUnstructured,
	})
	for _, id := range set.All() {
		if id == "persona_adoption" || id == "character_impersonation" {
			t.Errorf("tag %q emitted without required fields", id)
		}
	}
}

func TestTagKeywordGate(t *testing.T) {
	tagger := newTestTagger(t)

	// Goal is populated but no summarization evidence exists, so the
	// summarization rule must stay silent instead of matching on the field
	// bonus alone.
	set := tagger.Tag(canon.Form{
		Kind:               canon.KindPrompt,
		Goal:               "generation",
		InteractionPattern: canon.PatternUnstructured,
	})
	for _, id := range set.All() {
		if id == "summarization" {
			t.Error("summarization tag emitted with zero keyword hits")
		}
	}
	if want := []string{"creative_generation"}; !reflect.DeepEqual(set.All(), want) {
		t.Errorf("tags = %v, want %v", set.All(), want)
	}
}

func TestTagParentChain(t *testing.T) {
	tagger := newTestTagger(t)

	// Constraints alone satisfy character_impersonation's own requirement
	// but not the parent's roles requirement.
	set := tagger.Tag(canon.Form{
		Kind:               canon.KindPrompt,
		Constraints:        []string{"catchphrase_required"},
		Goal:               canon.GoalUnknown,
		InteractionPattern: canon.PatternUnstructured,
	})
	for _, id := range set.All() {
		if id == "character_impersonation" {
			t.Error("child tag emitted without its parent chain satisfied")
		}
	}
}

func TestTagEmptyForm(t *testing.T) {
	tagger := newTestTagger(t)

	set := tagger.Tag(canon.Form{
		Kind:               canon.KindPrompt,
		Goal:               canon.GoalUnknown,
		InteractionPattern: canon.PatternUnstructured,
	})
	if len(set.All()) != 0 {
		t.Errorf("empty form produced tags: %v", set.All())
	}
}

func TestTagDialogueDataset(t *testing.T) {
	tagger := newTestTagger(t)

	set := tagger.Tag(canon.Form{
		Kind:               canon.KindDataset,
		Goal:               canon.GoalUnknown,
		InteractionPattern: canon.PatternStructuredTurn,
		Patterns:           []string{"dialogue_structure"},
	})
	// dataset and structured_turn hit: 0.6*(2/3) + 0.4 = 0.8
	if want := []string{"dialogue_dataset"}; !reflect.DeepEqual(set.Primary, want) {
		t.Errorf("Primary = %v, want %v", set.Primary, want)
	}
	if conf := set.Confidence["dialogue_dataset"]; math.Abs(conf-0.8) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.8", conf)
	}
}

func TestNewRejectsInvalidStore(t *testing.T) {
	store, err := vocab.NewStore([]vocab.TagRule{
		{ID: "orphan", Required: []string{"roles"}, Parent: "missing"},
	}, nil, nil)
	if err == nil {
		// NewStore may defer validation; the tagger must still refuse.
		if _, err := New(store); err == nil {
			t.Fatal("New accepted a rule with a dangling parent")
		}
		return
	}
	var cfgErr *vocab.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *vocab.ConfigError", err)
	}
}
