package normalize

import (
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// Condition classifies a listing from its title and URL. "(Sale)" is a
// price tag, not a condition, so it deliberately maps to new.
func Condition(title, url string) types.Condition {
	t := strings.ToLower(title)
	u := strings.ToLower(url)
	switch {
	case strings.Contains(t, "(blem)"), strings.Contains(t, "- blem"),
		strings.Contains(u, "-blem"), strings.Contains(u, "/blem"):
		return types.ConditionBlemished
	case strings.Contains(t, "(closeout)"), strings.Contains(t, "- closeout"),
		strings.Contains(u, "/outlet/"), strings.Contains(u, "-closeout"):
		return types.ConditionCloseout
	}
	return types.ConditionNew
}
