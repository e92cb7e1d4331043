package response

import (
	"slices"
)

// Aggregate merges the INTERESTED and YES candidate lists into a single
// deduplicated guest list plus its going/interested views.
//
// The union keeps all elements of both lists in order, interested first.
// Sorting is by creation time, most recent first, where entries without a
// timestamp are incomparable: they keep their position relative to everything
// else while dated entries order among themselves. Deduplication by user ID
// keeps the first occurrence after sorting. Since INTERESTED entries carry no
// timestamp and precede YES entries in the union, a user who is both
// interested and confirmed keeps the INTERESTED entry. That is long-standing
// behavior and callers rely on Going/Interested counting each user once.
func Aggregate(interested []Entry, yes []Entry) Responses {
	all := make([]Entry, 0, len(interested)+len(yes))
	all = append(all, interested...)
	all = append(all, yes...)

	slices.SortStableFunc(all, func(a, b Entry) int {
		if a.CreatedAt.IsZero() || b.CreatedAt.IsZero() {
			return 0
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	var rs Responses
	seen := make(map[int64]struct{}, len(all))
	for _, entry := range all {
		if _, ok := seen[entry.User.ID]; ok {
			continue
		}
		seen[entry.User.ID] = struct{}{}
		rs.Guests = append(rs.Guests, entry)

		switch entry.Status {
		case StatusYes:
			rs.Going = append(rs.Going, entry)
		case StatusInterested:
			rs.Interested = append(rs.Interested, entry)
		}
	}

	return rs
}
