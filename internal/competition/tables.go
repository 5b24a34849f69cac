package competition

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NewTable returns an empty, non-final table with a fresh random id.
func NewTable(kind, name string) JudgingTable {
	return JudgingTable{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(name),
		Kind:   strings.TrimSpace(kind),
		Judges: map[string]Judge{},
	}
}

// SetJudge assigns name to role on t. An existing judge holding the role is
// renamed in place; otherwise a judge with a fresh id is added. The judge id
// is returned.
func (t *JudgingTable) SetJudge(role, name string) string {
	if t.Judges == nil {
		t.Judges = map[string]Judge{}
	}
	role = strings.TrimSpace(role)
	name = strings.TrimSpace(name)
	for id, judge := range t.Judges {
		if judge.Role == role {
			judge.Name = name
			t.Judges[id] = judge
			return id
		}
	}
	id := uuid.NewString()
	t.Judges[id] = Judge{Role: role, Name: name}
	return id
}

// SortedTableIDs returns table ids ordered by table name, then id.
func SortedTableIDs(tables map[string]JudgingTable) []string {
	ids := make([]string, 0, len(tables))
	for id := range tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := tables[ids[i]], tables[ids[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return ids[i] < ids[j]
	})
	return ids
}

// SortedJudgeIDs returns judge ids ordered by role, then id.
func SortedJudgeIDs(judges map[string]Judge) []string {
	ids := make([]string, 0, len(judges))
	for id := range judges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := judges[ids[i]], judges[ids[j]]
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return ids[i] < ids[j]
	})
	return ids
}
