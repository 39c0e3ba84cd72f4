package sanitization

import (
	"regexp"
	"strings"

	"github.com/allinsys/contactforms/internal/api/dto/v1/contact"
)

var whitespace = regexp.MustCompile(`\s+`)

// SanitizeString collapses runs of whitespace and trims the result.
// Values are stored as typed; HTML escaping is left to whoever renders them.
func SanitizeString(input string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(input, " "))
}

// SanitizeEmail trims surrounding whitespace from an email address
func SanitizeEmail(input string) string {
	return strings.TrimSpace(input)
}

// SanitizePhone keeps the phone as typed, minus surrounding whitespace
func SanitizePhone(input string) string {
	return strings.TrimSpace(input)
}

// SanitizeText trims multi-line free text, keeping line breaks
func SanitizeText(input string) string {
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SanitizeContactRequest cleans a decoded submission in place so validation
// sees the values that will be stored
func SanitizeContactRequest(req *contact.CreateContactRequest) {
	req.FullName = SanitizeString(req.FullName)
	req.Email = SanitizeEmail(req.Email)
	req.Phone = SanitizePhone(req.Phone)
	req.Objective = SanitizeText(req.Objective)
	req.Source = strings.TrimSpace(req.Source)
	req.Location = SanitizeString(req.Location)
	req.Feedback = SanitizeText(req.Feedback)
	req.BusinessName = SanitizeString(req.BusinessName)
	req.LinkedIn = SanitizeString(req.LinkedIn)
}
