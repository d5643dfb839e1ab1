package relation

// List is a disjunction of relations, used to carry the branches of a
// conditional until they are aggregated by Sum (spec §4.5's RelationList).
type List []Relation

// ComposeWith composes every member of rl with r (spec §4.5).
func (rl List) ComposeWith(r Relation) (List, error) {
	out := make(List, 0, len(rl))
	for _, member := range rl {
		composed, err := Compose(member, r)
		if err != nil {
			return nil, relationErrorf("List.ComposeWith", err)
		}
		out = append(out, composed)
	}

	return out, nil
}

// Reduce aggregates rl into a single Relation by elementwise polynomial add
// after homogenizing every member to the widest variable set (spec §4.5's
// RelationList.sum).
func (rl List) Reduce() (Relation, error) {
	if len(rl) == 0 {
		return Relation{}, relationErrorf("List.Reduce", ErrEmptyList)
	}
	acc := rl[0]
	for _, next := range rl[1:] {
		var err error
		acc, err = Sum(acc, next)
		if err != nil {
			return Relation{}, relationErrorf("List.Reduce", err)
		}
	}

	return acc, nil
}
