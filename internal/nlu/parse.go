// Package nlu extracts scheduling details (date, time, duration, title) from
// free-text chat messages.  Hint regexes decide whether a date or a time was
// actually present in the message; the fuzzy parse only fills slots the hints
// (or the parse result itself) confirm, so "book a dentist" never invents a
// date.
package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Details holds whatever scheduling slots a message contained.  Empty string
// / zero means the slot was absent.
type Details struct {
	Date     string // YYYY-MM-DD, in the parser's timezone
	Time     string // HH:MM, 24h
	Duration int    // minutes
	Title    string // stopword-stripped remainder, "" when nothing usable
}

var (
	durationRE = regexp.MustCompile(`(?i)\b(\d+)\s?(minutes?|mins?|m|hours?|hrs?|h)\b`)

	timeHintRE = regexp.MustCompile(`(?i)\b(?:[01]?\d|2[0-3]):[0-5]\d\b|\b(?:1[0-2]|0?[1-9])\s?(?:am|pm)\b|\b(?:noon|midnight)\b`)
	hourOnlyRE = regexp.MustCompile(`(?i)\bat\s+(1[0-2]|0?[1-9]|2[0-3])\b`)
	dateHintRE = regexp.MustCompile(`(?i)\b\d{4}-\d{2}-\d{2}\b` +
		`|\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b` +
		`|\b(?:today|tomorrow|tonight)\b` +
		`|\b(?:next|this)\s+(?:week|weekend|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b` +
		`|\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b` +
		`|\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`)

	isoDateRE = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	clockRE   = regexp.MustCompile(`(?i)\b([01]?\d|2[0-3]):([0-5]\d)\s?(am|pm)?\b`)

	// Cleanup patterns used when inferring a title from the leftover words.
	timeCleanRE = regexp.MustCompile(`(?i)\b(?:at\s+)?(?:[01]?\d|2[0-3])(?::[0-5]\d)?\s?(?:am|pm)?\b|\b(?:noon|midnight)\b`)
	dateCleanRE = regexp.MustCompile(`(?i)\b\d{4}-\d{2}-\d{2}\b` +
		`|\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b` +
		`|\b(?:today|tomorrow|tonight|yesterday)\b` +
		`|\b(?:next|this)\s+(?:week|weekend|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b` +
		`|\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b` +
		`|\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)(?:\s+\d{1,2}(?:st|nd|rd|th)?)?\b`)
	nonWordRE = regexp.MustCompile(`[^\w\s'-]`)
)

var titleStopwords = map[string]bool{
	"schedule": true, "scheduled": true, "scheduling": true,
	"book": true, "set": true, "setup": true, "set-up": true,
	"arrange": true, "appointment": true, "please": true,
	"could": true, "would": true, "like": true, "help": true,
	"me": true, "to": true, "for": true, "on": true, "at": true,
	"the": true, "a": true, "an": true, "new": true, "my": true,
	"with": true, "thanks": true, "thank": true, "you": true,
	"hey": true, "hi": true, "hello": true, "need": true,
	"make": true, "add": true, "create": true, "let": true,
	"know": true, "about": true, "and": true, "can": true,
	"we": true, "it": true, "is": true, "in": true,
}

// Parser extracts Details from messages.  All relative expressions are
// anchored at local midnight of the current day in loc.
type Parser struct {
	w   *when.Parser
	loc *time.Location
}

// New builds a Parser with the English and common rule sets.
func New(loc *time.Location) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{w: w, loc: loc}
}

// Extract pulls scheduling slots out of one message.  now anchors relative
// expressions such as "tomorrow".
func (p *Parser) Extract(text string, now time.Time) Details {
	var d Details
	lower := strings.ToLower(text)

	if m := durationRE.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "h") {
			n *= 60
		}
		d.Duration = n
	}

	d.Title = p.InferTitle(text)

	// Anchor at local midnight so the parse result reveals whether the
	// message actually mentioned a date or a time: anything still at the
	// anchor value was not in the text.
	local := now.In(p.loc)
	base := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)

	var parsed time.Time
	ok := false
	if r, err := p.w.Parse(text, base); err == nil && r != nil {
		parsed = r.Time.In(p.loc)
		ok = true
	}

	hasDate := false
	hasTime := false
	if ok {
		if parsed.Year() != base.Year() || parsed.YearDay() != base.YearDay() {
			hasDate = true
		}
		if parsed.Hour() != 0 || parsed.Minute() != 0 {
			hasTime = true
		}
	}
	if !hasDate && dateHintRE.MatchString(lower) {
		hasDate = true
	}
	if !hasTime && (timeHintRE.MatchString(lower) || hourOnlyRE.MatchString(lower)) {
		hasTime = true
	}

	if ok && hasDate {
		d.Date = parsed.Format("2006-01-02")
	}
	if ok && hasTime {
		d.Time = parsed.Format("15:04")
	}

	// Explicit forms win over the fuzzy parse, which does not understand
	// ISO dates.
	if m := isoDateRE.FindString(text); m != "" {
		d.Date = m
	}
	if m := clockRE.FindStringSubmatch(text); m != nil {
		d.Time = normalizeClock(m[1], m[2], m[3])
	}
	return d
}

// InferTitle strips date, time and duration tokens plus filler words from the
// message and returns what is left.  An empty result means the caller should
// fall back to a default title.
func (p *Parser) InferTitle(text string) string {
	cleaned := dateCleanRE.ReplaceAllString(text, " ")
	cleaned = timeCleanRE.ReplaceAllString(cleaned, " ")
	cleaned = durationRE.ReplaceAllString(cleaned, " ")
	cleaned = nonWordRE.ReplaceAllString(cleaned, " ")

	var kept []string
	for _, tok := range strings.Fields(cleaned) {
		if !titleStopwords[strings.ToLower(tok)] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func normalizeClock(hh, mm, meridiem string) string {
	h, _ := strconv.Atoi(hh)
	switch strings.ToLower(meridiem) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%s", h, mm)
}
