// Package slides partitions named view preferences into numbered slides for
// multi-screen navigation.
package slides

import (
	"sort"

	"github.com/Sphmer/vsr/internal/config"
)

// Organize buckets every non-skipped preference into its slide number and
// returns the bucket map plus the total slide count. Names within a bucket
// are sorted so the layout is deterministic across runs. Slide numbers
// below one count as slide one. Total is never below one, even with no
// preferences at all.
func Organize(prefs map[string]config.Preference) (map[int][]string, int) {
	names := make([]string, 0, len(prefs))
	for name := range prefs {
		names = append(names, name)
	}
	sort.Strings(names)

	slideMap := make(map[int][]string)
	total := 1
	for _, name := range names {
		p := prefs[name].Normalize()
		if p.View == config.ViewSkip {
			continue
		}
		slideMap[p.Slide] = append(slideMap[p.Slide], name)
		if p.Slide > total {
			total = p.Slide
		}
	}
	return slideMap, total
}

// Clamp resets a selected slide that fell outside 1..total back to the
// first slide. Reconfiguration can shrink the slide count under the
// current selection.
func Clamp(selected, total int) int {
	if selected < 1 || selected > total {
		return 1
	}
	return selected
}
