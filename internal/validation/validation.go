package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"studyhub/internal/keywords"
)

// EmailPattern accepts anything shaped local@domain.tld without trying to
// enforce the full RFC grammar.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PhonePattern accepts 8-15 digits with an optional leading plus.
var PhonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// Question and answer length bounds, in runes.
const (
	QuestionTitleMin   = 10
	QuestionTitleMax   = 150
	QuestionContentMin = 30
	AnswerContentMin   = 10
)

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) bool {
	return EmailPattern.MatchString(email)
}

// ValidatePhone checks the basic shape of a phone number.
func ValidatePhone(phone string) bool {
	return PhonePattern.MatchString(phone)
}

// ValidateQuestionTitle checks question title length bounds.
func ValidateQuestionTitle(title string) (bool, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < QuestionTitleMin {
		return false, "Title must be at least 10 characters"
	}
	if n > QuestionTitleMax {
		return false, "Title must be at most 150 characters"
	}
	return true, ""
}

// ValidateQuestionContent checks question body length.
func ValidateQuestionContent(content string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < QuestionContentMin {
		return false, "Content must be at least 30 characters"
	}
	return true, ""
}

// ValidateAnswerContent checks answer body length.
func ValidateAnswerContent(content string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < AnswerContentMin {
		return false, "Content must be at least 10 characters"
	}
	return true, ""
}

// ValidateTitle checks the title of lectures, documents and collections.
func ValidateTitle(title string) (bool, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 {
		return false, "Title is required"
	}
	if n > 200 {
		return false, "Title must be at most 200 characters"
	}
	return true, ""
}

// Slugify turns a human title into a URL slug: diacritics stripped,
// lowercased, non-alphanumerics collapsed into single hyphens.
func Slugify(s string) string {
	return strings.ReplaceAll(keywords.Normalize(s), " ", "-")
}
