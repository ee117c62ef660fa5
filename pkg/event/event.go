package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gatherly/gatherly/internal/validation"
	"github.com/google/uuid"
)

// Mode says how an event is attended.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 1000
	maxOverviewLen    = 500
)

type Event struct {
	ID          uuid.UUID
	Title       string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string // normalized to YYYY-MM-DD
	Time        string // normalized to 24-hour HH:MM
	Mode        Mode
	Audience    string
	Agenda      []string
	Organizer   string
	Tags        []string
	Slug        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	slugStripRe   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacesRe  = regexp.MustCompile(`\s+`)
	slugHyphensRe = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe identifier from a title: lowercased, stripped of
// everything outside [a-z0-9\s-], whitespace and hyphen runs collapsed to a
// single hyphen, no leading or trailing hyphens. A title made entirely of
// punctuation yields an empty slug.
func Slugify(title string) string {
	slug := strings.TrimSpace(strings.ToLower(title))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpacesRe.ReplaceAllString(slug, "-")
	slug = slugHyphensRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// dateLayouts are tried in order by NormalizeDate.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

var epochRe = regexp.MustCompile(`^(?:[0-9]{10}|[0-9]{13})$`)

// NormalizeDate parses any supported date representation (ISO date or
// datetime, US slash format, spelled-out date, epoch seconds or milliseconds)
// and renders it as YYYY-MM-DD in UTC.
func NormalizeDate(input string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", fmt.Errorf("date is empty")
	}

	// All-digit input is an epoch timestamp, but only at a plausible
	// magnitude: 10 digits are seconds, 13 are milliseconds. Shorter digit
	// runs like "2024" are not a date.
	if epochRe.MatchString(raw) {
		epoch, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", fmt.Errorf("unparseable date: %q", input)
		}
		if len(raw) == 13 {
			return time.UnixMilli(epoch).UTC().Format("2006-01-02"), nil
		}
		return time.Unix(epoch, 0).UTC().Format("2006-01-02"), nil
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC().Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("unparseable date: %q", input)
}

var timeRe = regexp.MustCompile(`^\s*([0-9]{1,2}):([0-9]{2})\s*([AaPp][Mm])?\s*$`)

// NormalizeTime parses H:MM or HH:MM with an optional AM/PM suffix and
// renders it as 24-hour HH:MM. 12:00 AM maps to 00:00 and 12:00 PM stays
// 12:00.
func NormalizeTime(input string) (string, error) {
	match := timeRe.FindStringSubmatch(input)
	if match == nil {
		return "", fmt.Errorf("unparseable time: %q", input)
	}

	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	meridiem := strings.ToUpper(match[3])

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("hour out of range for 12-hour time: %q", input)
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "PM" {
			hour += 12
		}
	}

	if hour > 23 || minute > 59 {
		return "", fmt.Errorf("time out of range: %q", input)
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// Validate trims and normalizes the event in place and checks every field
// constraint. All violations are collected and reported together.
func (e *Event) Validate() error {
	errs := validation.NewErrors()

	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Overview = strings.TrimSpace(e.Overview)
	e.Image = strings.TrimSpace(e.Image)
	e.Venue = strings.TrimSpace(e.Venue)
	e.Location = strings.TrimSpace(e.Location)
	e.Audience = strings.TrimSpace(e.Audience)
	e.Organizer = strings.TrimSpace(e.Organizer)
	e.Mode = Mode(strings.TrimSpace(string(e.Mode)))

	switch {
	case e.Title == "":
		errs.Add("title", "Title is required")
	case utf8.RuneCountInString(e.Title) > maxTitleLen:
		errs.Add("title", "Title cannot exceed 100 characters")
	}
	switch {
	case e.Description == "":
		errs.Add("description", "Description is required")
	case utf8.RuneCountInString(e.Description) > maxDescriptionLen:
		errs.Add("description", "Description cannot exceed 1000 characters")
	}
	switch {
	case e.Overview == "":
		errs.Add("overview", "Overview is required")
	case utf8.RuneCountInString(e.Overview) > maxOverviewLen:
		errs.Add("overview", "Overview cannot exceed 500 characters")
	}
	if e.Image == "" {
		errs.Add("image", "Image is required")
	}
	if e.Venue == "" {
		errs.Add("venue", "Venue is required")
	}
	if e.Location == "" {
		errs.Add("location", "Location is required")
	}
	if e.Audience == "" {
		errs.Add("audience", "Audience is required")
	}
	if e.Organizer == "" {
		errs.Add("organizer", "Organizer is required")
	}

	switch e.Mode {
	case "":
		errs.Add("mode", "Mode is required")
	case ModeOnline, ModeOffline, ModeHybrid:
	default:
		errs.Add("mode", "Mode must be either online, offline, or hybrid")
	}

	if strings.TrimSpace(e.Date) == "" {
		errs.Add("date", "Date is required")
	} else if date, err := NormalizeDate(e.Date); err != nil {
		errs.Add("date", "Date must be a valid date")
	} else {
		e.Date = date
	}

	if strings.TrimSpace(e.Time) == "" {
		errs.Add("time", "Time is required")
	} else if normalized, err := NormalizeTime(e.Time); err != nil {
		errs.Add("time", "Time must be a valid time")
	} else {
		e.Time = normalized
	}

	if err := validateEntries(e.Agenda); err != nil {
		errs.Add("agenda", "At least one agenda item is required")
	}
	if err := validateEntries(e.Tags); err != nil {
		errs.Add("tags", "At least one tag is required")
	}

	return errs.ErrOrNil()
}

func validateEntries(entries []string) error {
	if len(entries) == 0 {
		return fmt.Errorf("empty list")
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("blank entry")
		}
	}
	return nil
}
