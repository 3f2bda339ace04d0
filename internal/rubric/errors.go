package rubric

import (
	"fmt"
	"sort"
	"strings"
)

func unknownRubricError(name string, catalog map[string]Rubric) error {
	known := make([]string, 0, len(catalog))
	for n := range catalog {
		known = append(known, n)
	}
	sort.Strings(known)
	return fmt.Errorf("unknown rubric %q (known: %s)", name, strings.Join(known, ", "))
}
