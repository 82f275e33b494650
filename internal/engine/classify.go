package engine

import "strings"

// mutatingKeywords are the statement keywords that mark a query as a write.
// Detection is a substring match over the upper-cased text, so a SELECT whose
// body merely mentions one of these words is also treated as mutating.
var mutatingKeywords = []string{
	"INSERT",
	"UPDATE",
	"DELETE",
	"DROP",
	"ALTER",
	"CREATE",
	"TRUNCATE",
}

// IsMutating reports whether the statement contains any write keyword.
func IsMutating(query string) bool {
	upper := strings.ToUpper(query)
	for _, kw := range mutatingKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
