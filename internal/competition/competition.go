package competition

// Judge is one assignment on a judging table.
type Judge struct {
	Role string `json:"role"`
	Name string `json:"name"`
	// DuplicateFound is advisory; see MarkDuplicates.
	DuplicateFound bool `json:"doubleFound"`
}

// JudgingTable is one judging panel within a competition.
type JudgingTable struct {
	ID      string           `json:"uniqueID"`
	Name    string           `json:"table_name"`
	Kind    string           `json:"table_kind"`
	IsFinal bool             `json:"table_is_finale"`
	Judges  map[string]Judge `json:"judges"`
}

// Competition is the authoritative record of one competition. Collections
// produced by this package are never nil.
type Competition struct {
	Name              string                  `json:"wk_name"`
	Date              string                  `json:"wk_date"`
	Place             string                  `json:"wk_place"`
	ResponsiblePerson string                  `json:"wk_responsible_person"`
	JudgesMeetingTime string                  `json:"wk_judgesmeeting_time"`
	ReplacementJudges []string                `json:"wk_replacement_judges"`
	JudgingTables     map[string]JudgingTable `json:"wk_judgingtables"`
}

// Record is the wire shape exchanged with front ends. A nil collection means
// the front end omitted it; a non-nil empty one is an explicit empty value.
type Record struct {
	Name              string                  `json:"wk_name"`
	Date              string                  `json:"wk_date"`
	Place             string                  `json:"wk_place"`
	ResponsiblePerson string                  `json:"wk_responsible_person"`
	JudgesMeetingTime string                  `json:"wk_judgesmeeting_time"`
	ReplacementJudges []string                `json:"wk_replacement_judges"`
	JudgingTables     map[string]JudgingTable `json:"wk_judgingtables"`
}

// Competition converts r to a Competition. Absent collections become empty,
// never "unchanged".
func (r Record) Competition() Competition {
	return Competition(r).Clone()
}

// Record converts c to its wire shape with both collections present.
func (c Competition) Record() Record {
	return Record(c.Clone())
}

// Clone returns a deep copy of c with non-nil collections.
func (c Competition) Clone() Competition {
	c.ReplacementJudges = CloneStrings(c.ReplacementJudges)
	c.JudgingTables = CloneTables(c.JudgingTables)
	return c
}

// CloneStrings copies names, returning an empty slice for nil.
func CloneStrings(names []string) []string {
	dup := make([]string, len(names))
	copy(dup, names)
	return dup
}

// CloneTables deep-copies tables, returning an empty map for nil.
func CloneTables(tables map[string]JudgingTable) map[string]JudgingTable {
	dup := make(map[string]JudgingTable, len(tables))
	for id, table := range tables {
		dup[id] = table.Clone()
	}
	return dup
}

// Clone returns a deep copy of t with a non-nil judge map.
func (t JudgingTable) Clone() JudgingTable {
	judges := make(map[string]Judge, len(t.Judges))
	for id, judge := range t.Judges {
		judges[id] = judge
	}
	t.Judges = judges
	return t
}
