package models

// Page bounds a list query.
type Page struct {
	Offset int
	Limit  int
}

// Normalize applies defLimit when no limit is given and caps it at maxLimit.
func (p Page) Normalize(defLimit, maxLimit int) Page {
	if p.Offset < 0 {
		p.Offset = 0
	}

	if p.Limit <= 0 {
		p.Limit = defLimit
	}

	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	return p
}
