package competition

import (
	"sort"
	"strings"
)

// MarkDuplicates returns a copy of tables with DuplicateFound recomputed.
// Final and non-final tables are checked separately: within each group a
// judge is flagged when the same non-empty name is assigned more than once.
func MarkDuplicates(tables map[string]JudgingTable) map[string]JudgingTable {
	marked := CloneTables(tables)
	counts := duplicateCounts(marked)
	for id, table := range marked {
		for judgeID, judge := range table.Judges {
			key := normalizeName(judge.Name)
			judge.DuplicateFound = key != "" && counts[table.IsFinal][key] >= 2
			table.Judges[judgeID] = judge
		}
		marked[id] = table
	}
	return marked
}

// DuplicateNames lists the names assigned more than once within the final or
// non-final group, sorted.
func DuplicateNames(tables map[string]JudgingTable) []string {
	counts := duplicateCounts(tables)
	seen := map[string]bool{}
	var names []string
	for _, table := range tables {
		for _, judge := range table.Judges {
			key := normalizeName(judge.Name)
			if key == "" || seen[key] || counts[table.IsFinal][key] < 2 {
				continue
			}
			seen[key] = true
			names = append(names, strings.TrimSpace(judge.Name))
		}
	}
	sort.Strings(names)
	return names
}

func duplicateCounts(tables map[string]JudgingTable) map[bool]map[string]int {
	counts := map[bool]map[string]int{false: {}, true: {}}
	for _, table := range tables {
		for _, judge := range table.Judges {
			if key := normalizeName(judge.Name); key != "" {
				counts[table.IsFinal][key]++
			}
		}
	}
	return counts
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
