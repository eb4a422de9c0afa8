package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"taskapi/internal/domain/errors"
)

// TaskStatus is the closed set of task states.
type TaskStatus string

const (
	StatusOpen      TaskStatus = "open"
	StatusConcluded TaskStatus = "concluded"
)

var TaskStatuses = []TaskStatus{StatusOpen, StatusConcluded}

// DefaultLanguage is the language used by Label.
var DefaultLanguage = language.BrazilianPortuguese

var (
	labelLanguages = []language.Tag{language.BrazilianPortuguese, language.English}
	labelMatcher   = language.NewMatcher(labelLanguages)
	labelCatalog   = newLabelCatalog()
)

func newLabelCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))
	entries := map[language.Tag]map[TaskStatus]string{
		language.BrazilianPortuguese: {
			StatusOpen:      "Aberto",
			StatusConcluded: "Concluído",
		},
		language.English: {
			StatusOpen:      "Open",
			StatusConcluded: "Concluded",
		},
	}
	for tag, labels := range entries {
		for status, label := range labels {
			_ = b.SetString(tag, string(status), label)
		}
	}
	return b
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, status := range TaskStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", errors.ErrInvalidStatus
}

func (s TaskStatus) Valid() bool {
	_, err := ParseTaskStatus(string(s))
	return err == nil
}

// Label returns the display label in DefaultLanguage.
func (s TaskStatus) Label() string {
	return s.LabelFor(DefaultLanguage)
}

// LabelFor returns the display label for the closest supported language.
func (s TaskStatus) LabelFor(tag language.Tag) string {
	if !s.Valid() {
		return string(s)
	}
	_, idx, _ := labelMatcher.Match(tag)
	p := message.NewPrinter(labelLanguages[idx], message.Catalog(labelCatalog))
	return p.Sprintf(string(s))
}

// MatchLanguage picks a supported label language from an Accept-Language
// header value, falling back to DefaultLanguage.
func MatchLanguage(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := labelMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return labelLanguages[idx]
}
