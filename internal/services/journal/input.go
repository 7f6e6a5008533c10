package journal

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

const (
	maxTitleLen       = 200
	maxContentLen     = 100_000
	maxQueryLen       = 200
	maxNameLen        = 100
	maxDescriptionLen = 500
)

// CreateEntryInput holds the parameters for publishing a new entry.
type CreateEntryInput struct {
	Title        string
	Content      string
	Mood         string
	MoodQuery    string
	CollectionID *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CreateEntryInput) Validate() error {
	return validateEntryFields(i.Title, i.Content, i.Mood, i.MoodQuery, nil)
}

// UpdateEntryInput holds the parameters for editing an existing entry.
type UpdateEntryInput struct {
	ID           uuid.UUID
	Title        string
	Content      string
	Mood         string
	MoodQuery    string
	CollectionID *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i UpdateEntryInput) Validate() error {
	var errs []models.FieldError
	if i.ID == uuid.Nil {
		errs = append(errs, models.FieldError{Field: "id", Message: "required"})
	}
	return validateEntryFields(i.Title, i.Content, i.Mood, i.MoodQuery, errs)
}

func validateEntryFields(title, content, mood, query string, errs []models.FieldError) error {
	title = strings.TrimSpace(title)
	if title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "required"})
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		errs = append(errs, models.FieldError{Field: "title", Message: "max 200 characters"})
	}

	if strings.TrimSpace(content) == "" {
		errs = append(errs, models.FieldError{Field: "content", Message: "required"})
	} else if len(content) > maxContentLen {
		errs = append(errs, models.FieldError{Field: "content", Message: "too long"})
	}

	if strings.TrimSpace(mood) == "" {
		errs = append(errs, models.FieldError{Field: "mood", Message: "required"})
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		errs = append(errs, models.FieldError{Field: "mood_query", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}
	return nil
}

// ListEntriesInput narrows a listing. CollectionID is empty for all entries,
// "unorganized" for entries outside any collection, or a collection id.
type ListEntriesInput struct {
	CollectionID string
	Order        string
}

// Validate checks all fields and collects all errors.
func (i ListEntriesInput) Validate() error {
	var errs []models.FieldError
	switch strings.ToLower(i.Order) {
	case "", "asc", "desc":
	default:
		errs = append(errs, models.FieldError{Field: "order", Message: "must be asc or desc"})
	}
	if c := i.CollectionID; c != "" && c != models.UnorganizedCollection {
		if _, err := uuid.Parse(c); err != nil {
			errs = append(errs, models.FieldError{Field: "collection_id", Message: "invalid id"})
		}
	}
	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}
	return nil
}

func (i ListEntriesInput) filter() models.EntryFilter {
	f := models.EntryFilter{Ascending: strings.EqualFold(i.Order, "asc")}
	switch i.CollectionID {
	case "":
	case models.UnorganizedCollection:
		f.Unorganized = true
	default:
		id := uuid.MustParse(i.CollectionID)
		f.CollectionID = &id
	}
	return f
}

// SaveDraftInput is the full content of the draft slot. All fields empty clears it.
type SaveDraftInput struct {
	Title   string
	Content string
	Mood    string
}

func (i SaveDraftInput) empty() bool {
	return strings.TrimSpace(i.Title) == "" && strings.TrimSpace(i.Content) == "" && strings.TrimSpace(i.Mood) == ""
}

// Validate checks all fields and collects all errors.
func (i SaveDraftInput) Validate() error {
	var errs []models.FieldError
	if utf8.RuneCountInString(strings.TrimSpace(i.Title)) > maxTitleLen {
		errs = append(errs, models.FieldError{Field: "title", Message: "max 200 characters"})
	}
	if len(i.Content) > maxContentLen {
		errs = append(errs, models.FieldError{Field: "content", Message: "too long"})
	}
	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}
	return nil
}

// CreateCollectionInput holds the parameters for creating a collection.
type CreateCollectionInput struct {
	Name        string
	Description string
}

// Validate checks all fields and collects all errors.
func (i CreateCollectionInput) Validate() error {
	var errs []models.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "required"})
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs = append(errs, models.FieldError{Field: "name", Message: "max 100 characters"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(i.Description)) > maxDescriptionLen {
		errs = append(errs, models.FieldError{Field: "description", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}
	return nil
}

// AnalyticsInput selects the reporting period: 7d, 15d or 30d. Empty means 7d.
type AnalyticsInput struct {
	Period string
}

// Validate checks all fields and collects all errors.
func (i AnalyticsInput) Validate() error {
	if _, ok := periodDays[i.period()]; !ok {
		return models.NewValidationError("period", "must be one of 7d, 15d, 30d")
	}
	return nil
}

func (i AnalyticsInput) period() string {
	if i.Period == "" {
		return models.Period7Days
	}
	return strings.ToLower(i.Period)
}

var periodDays = map[string]int{
	models.Period7Days:  7,
	models.Period15Days: 15,
	models.Period30Days: 30,
}
