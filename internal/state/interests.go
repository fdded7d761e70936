package state

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hoanghai1803/newsbot/internal/markdown"
	"github.com/hoanghai1803/newsbot/internal/models"
)

// DefaultDecay is the multiplicative reduction applied to previously known
// non-pinned, non-blocked interest weights on each learning cycle, so that
// topics the user stops visiting fade out over time.
const DefaultDecay = 0.9

// Interest tier boundaries by final weight. Entries below the moderate
// floor are dropped from the profile entirely.
const (
	highTierMin     = 0.65
	moderateTierMin = 0.3
)

// reinforceFactor damps how much a single learning batch can move an
// already-known interest, so one burst of browsing cannot dominate.
const reinforceFactor = 0.3

const defaultInterestsContent = `# Interests

## High Interest

## Moderate Interest

## Pinned (always include)

## Blocked (never include)
`

// LoadInterests reads the persisted interest profile. A missing or
// unreadable file yields the empty profile; this operation never fails the
// caller.
func (s *Store) LoadInterests() models.InterestProfile {
	raw, err := os.ReadFile(s.interestsPath())
	if err != nil {
		return models.InterestProfile{}
	}
	return ParseInterests(string(raw))
}

// ParseInterests parses the markdown interest file. Sections are matched by
// heading keyword; list entries without an explicit weight annotation get
// the section default (0.8 high, 0.5 moderate, 1.0 pinned and blocked).
func ParseInterests(raw string) models.InterestProfile {
	var profile models.InterestProfile

	for _, section := range markdown.ParseSections(raw) {
		var (
			target        *[]models.Interest
			defaultWeight float64
			pinned        bool
			blocked       bool
		)
		switch {
		case section.HeadingContains("high"):
			target, defaultWeight = &profile.High, 0.8
		case section.HeadingContains("moderate"):
			target, defaultWeight = &profile.Moderate, 0.5
		case section.HeadingContains("pinned"):
			target, defaultWeight, pinned = &profile.Pinned, 1.0, true
		case section.HeadingContains("blocked"):
			target, defaultWeight, blocked = &profile.Blocked, 1.0, true
		default:
			continue
		}

		for _, item := range section.Items {
			// Only a "weight: N" annotation is metadata here. Any other
			// trailing parenthetical is part of the topic itself, e.g.
			// "AI (safety research)".
			topic := item.Text
			weight := defaultWeight
			if w, ok := parseWeightAnnotation(item.Annotation); ok {
				weight = w
			} else if item.Annotation != "" {
				topic = item.Text + " (" + item.Annotation + ")"
			}
			*target = append(*target, models.Interest{
				Topic:   topic,
				Weight:  weight,
				Pinned:  pinned,
				Blocked: blocked,
			})
		}
	}
	return profile
}

// parseWeightAnnotation parses a "weight: 0.NN" list-item annotation.
func parseWeightAnnotation(annotation string) (float64, bool) {
	rest, ok := strings.CutPrefix(annotation, "weight:")
	if !ok {
		return 0, false
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, false
	}
	return w, true
}

// SaveInterests atomically persists the interest profile.
func (s *Store) SaveInterests(profile models.InterestProfile) error {
	return s.atomicWrite(s.interestsPath(), []byte(FormatInterests(profile)))
}

// FormatInterests renders the profile in the markdown interest format.
// Empty tiers are omitted.
func FormatInterests(profile models.InterestProfile) string {
	var doc markdown.Builder
	doc.Title("Interests")

	weighted := func(heading string, interests []models.Interest) {
		if len(interests) == 0 {
			return
		}
		doc.Section(heading)
		for _, i := range interests {
			doc.Item(fmt.Sprintf("%s (weight: %.2f)", i.Topic, i.Weight))
		}
		doc.Blank()
	}
	bare := func(heading string, interests []models.Interest) {
		if len(interests) == 0 {
			return
		}
		doc.Section(heading)
		for _, i := range interests {
			doc.Item(i.Topic)
		}
		doc.Blank()
	}

	weighted("High Interest", profile.High)
	weighted("Moderate Interest", profile.Moderate)
	bare("Pinned (always include)", profile.Pinned)
	bare("Blocked (never include)", profile.Blocked)

	return doc.String()
}

// MergeInterests folds freshly extracted interests into an existing profile.
//
// Previously known high/moderate interests decay by the given factor, then
// extracted interests reinforce existing topics (damped, capped at 1.0) or
// join the working set unchanged. The result is re-tiered by final weight;
// entries below the moderate floor are dropped. Pinned and blocked lists
// are carried over verbatim, and topics on either list never enter the
// weighted tiers.
func MergeInterests(existing models.InterestProfile, extracted []models.Interest, decay float64) models.InterestProfile {
	reserved := make(map[string]bool, len(existing.Pinned)+len(existing.Blocked))
	for _, i := range existing.Pinned {
		reserved[i.Key()] = true
	}
	for _, i := range existing.Blocked {
		reserved[i.Key()] = true
	}

	working := make(map[string]models.Interest)
	order := make([]string, 0, len(existing.High)+len(existing.Moderate))

	for _, i := range slices.Concat(existing.High, existing.Moderate) {
		key := i.Key()
		if reserved[key] {
			continue
		}
		i.Weight *= decay
		working[key] = i
		order = append(order, key)
	}

	for _, i := range extracted {
		key := i.Key()
		if reserved[key] {
			continue
		}
		if prev, ok := working[key]; ok {
			prev.Weight = min(1.0, prev.Weight+i.Weight*reinforceFactor)
			working[key] = prev
		} else {
			working[key] = i
			order = append(order, key)
		}
	}

	all := make([]models.Interest, 0, len(working))
	for _, key := range order {
		all = append(all, working[key])
	}
	slices.SortStableFunc(all, func(a, b models.Interest) int {
		return cmp.Compare(b.Weight, a.Weight)
	})

	merged := models.InterestProfile{
		Pinned:  slices.Clone(existing.Pinned),
		Blocked: slices.Clone(existing.Blocked),
	}
	for _, i := range all {
		switch {
		case i.Weight >= highTierMin:
			merged.High = append(merged.High, i)
		case i.Weight >= moderateTierMin:
			merged.Moderate = append(merged.Moderate, i)
		}
	}
	return merged
}
