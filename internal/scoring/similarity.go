package scoring

import "strings"

// Similarity scores two texts in [0, 1] using the Dice coefficient over
// their token sets. It stands in for an external string-similarity oracle;
// any implementation honoring the [0, 1] contract may replace it.
func Similarity(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}

	shared := 0
	for tok := range as {
		if _, ok := bs[tok]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(as)+len(bs))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()[]{}\"'")
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// OverlapCount counts the values shared by two string lists, case-insensitive.
func OverlapCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		key := strings.ToLower(strings.TrimSpace(v))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := set[key]; ok {
			count++
		}
	}
	return count
}
