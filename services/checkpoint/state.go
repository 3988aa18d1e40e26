package checkpoint

import (
	"sort"
	"time"
)

type (
	// State is what the sync remembers between runs.
	State struct {
		LastSync           time.Time `yaml:"lastSync"`
		ImportedExpenseIDs []int64   `yaml:"importedExpenseIDs"`
	}
)

// Imported tells whether the expense was already pushed to YNAB.
func (s *State) Imported(expenseID int64) bool {
	i := sort.Search(len(s.ImportedExpenseIDs), func(i int) bool {
		return s.ImportedExpenseIDs[i] >= expenseID
	})
	return i < len(s.ImportedExpenseIDs) && s.ImportedExpenseIDs[i] == expenseID
}

// MarkImported records the expense ids keeping the list sorted and unique.
func (s *State) MarkImported(expenseIDs ...int64) {
	for _, id := range expenseIDs {
		i := sort.Search(len(s.ImportedExpenseIDs), func(i int) bool {
			return s.ImportedExpenseIDs[i] >= id
		})
		if i < len(s.ImportedExpenseIDs) && s.ImportedExpenseIDs[i] == id {
			continue
		}
		s.ImportedExpenseIDs = append(s.ImportedExpenseIDs, 0)
		copy(s.ImportedExpenseIDs[i+1:], s.ImportedExpenseIDs[i:])
		s.ImportedExpenseIDs[i] = id
	}
}
