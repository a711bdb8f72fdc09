package filters

// Popular selects films for the popularity ranking. Nil fields fall back to
// the service defaults.
type Popular struct {
	Count          *int  `schema:"count"`
	IncludeUnliked *bool `schema:"includeUnliked"`
}

func (p Popular) CountOr(def int) int {
	if p.Count == nil {
		return def
	}
	return *p.Count
}

func (p Popular) IncludeUnlikedOr(def bool) bool {
	if p.IncludeUnliked == nil {
		return def
	}
	return *p.IncludeUnliked
}
