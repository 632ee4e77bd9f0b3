package directory

import (
	"regexp"

	"github.com/user-directory/internal/models"
)

// Search returns the records of dir where at least one of fields contains
// term as a case-insensitive literal substring. Regex metacharacters in
// term carry no meaning. An empty term matches every record; an empty
// fields list matches none. Result order follows dir.
func Search(dir Directory, term string, fields []models.Field) []models.User {
	results := make([]models.User, 0, len(dir))
	if len(fields) == 0 {
		return results
	}

	matcher := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))

	for _, user := range dir {
		for _, f := range fields {
			if matcher.MatchString(user.Value(f)) {
				results = append(results, user)
				break
			}
		}
	}

	return results
}
