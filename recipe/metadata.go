package recipe

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/use-agent/recipeparse/cleaner"
)

// timeRe matches a time mention such as "15-20 minutes", "1–2 hrs", "5 min".
// Group 1 is the lower bound, group 3 the unit.
var timeRe = regexp.MustCompile(`(?i)(\d{1,3})(?:\s*(?:-|–|to)\s*(\d{1,3}))?\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)\b`)

var (
	digitsRe    = regexp.MustCompile(`^\d+$`)
	isoRe       = regexp.MustCompile(`(?i)^P(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	yieldRe     = regexp.MustCompile(`\d+(?:\s*[-–]\s*\d+)?`)
	leadYieldRe = regexp.MustCompile(`^\s*(\d+(?:\s*[-–]\s*\d+)?)`)
	joinerRe    = regexp.MustCompile(`(?i)^\s*(?:and|,|&)?\s*$`)
)

// maxLabelGap is how far after a label a time phrase may start.
const maxLabelGap = 15

// maxMinutes bounds durations read from page data. Larger values are
// treated as unreadable.
const maxMinutes = math.MaxInt32

// formatMinutes renders a minute count as "45 min", "2 h" or "1 h 30 min".
func formatMinutes(m int) string {
	h, r := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", r)
	case r == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, r)
	}
}

// FormatDuration normalizes a duration value:
//
//	"PT1H30M" -> "1 h 30 min"   (ISO 8601)
//	"45"      -> "45 min"       (bare minutes)
//	"1 hr 20 mins" -> "1 h 20 min"
//
// Zero durations return "". Values that cannot be read are returned cleaned,
// on the assumption that they are already human readable.
func FormatDuration(raw string) string {
	s := cleaner.Text(raw)
	if s == "" {
		return ""
	}

	if digitsRe.MatchString(s) {
		m, err := strconv.Atoi(s)
		if err != nil || m > maxMinutes {
			return s
		}
		if m == 0 {
			return ""
		}
		return formatMinutes(m)
	}

	if m := isoRe.FindStringSubmatch(s); m != nil && len(s) > 1 {
		days, hours, mins, secs := isoPart(m[1]), isoPart(m[2]), isoPart(m[3]), isoPart(m[4])
		f := math.Round(days*24*60 + hours*60 + mins + secs/60)
		if math.IsInf(f, 0) || math.IsNaN(f) || f > maxMinutes {
			return s
		}
		total := int(f)
		if total == 0 && secs > 0 {
			total = 1
		}
		if total == 0 {
			return ""
		}
		return formatMinutes(total)
	}

	if m := phraseMinutes(s, len(s)); m > 0 {
		return formatMinutes(m)
	}
	return s
}

func isoPart(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// phraseMinutes reads the time phrase starting within maxStart bytes of s.
// Adjacent mentions ("1 hr 20 mins", "1 hour and 5 minutes") are summed;
// ranges count their lower bound. It returns 0 when there is no phrase.
func phraseMinutes(s string, maxStart int) int {
	matches := timeRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 || matches[0][0] > maxStart {
		return 0
	}
	total := 0
	for i, m := range matches {
		if i > 0 && !joinerRe.MatchString(s[matches[i-1][1]:m[0]]) {
			break
		}
		total += mentionMinutes(s, m)
	}
	return total
}

func mentionMinutes(s string, m []int) int {
	n, _ := strconv.Atoi(s[m[2]:m[3]])
	if unit := strings.ToLower(s[m[6]:m[7]]); strings.HasPrefix(unit, "h") {
		return n * 60
	}
	return n
}

// DeriveCookTime sums every time mention across the steps, taking the lower
// bound of ranges. It returns "" when no step mentions a time.
func DeriveCookTime(steps []string) string {
	total := 0
	for _, step := range steps {
		for _, m := range timeRe.FindAllStringSubmatchIndex(step, -1) {
			total += mentionMinutes(step, m)
		}
	}
	if total == 0 {
		return ""
	}
	return formatMinutes(total)
}

// NormalizeYield reduces a recipeYield value to its count or range:
// "Serves 4" -> "4", "4 – 6" -> "4-6", 12 -> "12". Lists use their first
// usable entry. Text without a number is returned cleaned.
func NormalizeYield(v any) string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if y := NormalizeYield(item); y != "" {
				return y
			}
		}
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	s := textOf(v)
	if s == "" {
		return ""
	}
	if m := yieldRe.FindString(s); m != "" {
		return compactRange(m)
	}
	return s
}

func compactRange(s string) string {
	s = strings.ReplaceAll(s, "–", "-")
	return strings.Join(strings.Fields(s), "")
}

// pickImage returns the first usable URL from an image value: a string, a
// list, or an ImageObject carrying url, @id or contentUrl.
func pickImage(v any) string {
	switch t := v.(type) {
	case string:
		return cleaner.Text(t)
	case []any:
		for _, item := range t {
			if u := pickImage(item); u != "" {
				return u
			}
		}
	case map[string]any:
		for _, key := range []string{"url", "@id", "contentUrl"} {
			if u := pickImage(t[key]); u != "" {
				return u
			}
		}
	}
	return ""
}

// resolveURL makes ref absolute against base. ref is returned unchanged when
// either side cannot be parsed.
func resolveURL(base *url.URL, ref string) string {
	if base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// labels holds times and yield scanned from labelled page text.
type labels struct {
	prep, cook, yield string
}

var (
	prepLabelRe  = regexp.MustCompile(`\bprep(?:aration)?\b(?:\s+time)?\s*:?\s*`)
	cookLabelRe  = regexp.MustCompile(`\bcook(?:ing)?\b(?:\s+time)?\s*:?\s*`)
	totalLabelRe = regexp.MustCompile(`\b(?:total(?:\s+time)?|ready\s+in)\b\s*:?\s*`)
	yieldLabelRe = regexp.MustCompile(`\b(?:serves?|servings?|yields?|makes)\b\s*:?\s*`)
)

// scanLabels looks for "Prep: 15 mins", "Cook time 1 hr", "Ready in 40
// minutes" and "Serves 4" style labels in page text. Cook falls back to the
// total time.
func scanLabels(text string) labels {
	lower := strings.ToLower(cleaner.Text(text))
	l := labels{
		prep:  timeAfter(lower, prepLabelRe),
		cook:  timeAfter(lower, cookLabelRe),
		yield: countAfter(lower, yieldLabelRe),
	}
	if l.cook == "" {
		l.cook = timeAfter(lower, totalLabelRe)
	}
	return l
}

// labelWindow is how much text after a label is considered.
const labelWindow = 60

func labelSlices(text string, re *regexp.Regexp) []string {
	var out []string
	for _, loc := range re.FindAllStringIndex(text, -1) {
		end := loc[1] + labelWindow
		if end > len(text) {
			end = len(text)
		}
		out = append(out, text[loc[1]:end])
	}
	return out
}

func timeAfter(text string, re *regexp.Regexp) string {
	for _, s := range labelSlices(text, re) {
		if m := phraseMinutes(s, maxLabelGap); m > 0 {
			return formatMinutes(m)
		}
	}
	return ""
}

func countAfter(text string, re *regexp.Regexp) string {
	for _, s := range labelSlices(text, re) {
		if m := leadYieldRe.FindStringSubmatch(s); m != nil {
			return compactRange(m[1])
		}
	}
	return ""
}
