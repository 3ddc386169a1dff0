package engine

import "sort"

// OrderRequests sorts a timeslot's requests into review order:
// highest preference first, ties broken by submission time (earliest
// first) and finally by id for a stable result. This ordering is the
// engine's only built-in scheduling heuristic; actual conflict
// arbitration stays with the hoster.
func OrderRequests(rs []RequestDetail) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Preference != rs[j].Preference {
			return rs[i].Preference > rs[j].Preference
		}
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		}
		return rs[i].ID < rs[j].ID
	})
}
