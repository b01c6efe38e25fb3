package domain

// PostsPerPage is the fixed page size used by every post listing.
const PostsPerPage = 10

// Page is one slice of an ordered post listing, along with the metadata
// the templates need to render pagination controls.
type Page struct {
	Posts      []Post `json:"posts"`
	Number     int    `json:"number"`
	TotalPages int    `json:"total_pages"`
	TotalCount int    `json:"total_count"`
}

// HasNext reports whether a later page exists.
func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p *Page) HasPrev() bool {
	return p.Number > 1
}

// NextNumber and PrevNumber exist for the pagination template,
// which cannot do arithmetic itself.
func (p *Page) NextNumber() int {
	return p.Number + 1
}

func (p *Page) PrevNumber() int {
	return p.Number - 1
}

// ClampPage normalizes a requested 1-based page number against a total item
// count. Requests below 1 clamp to the first page, requests past the end
// clamp to the last. An empty listing still has one (empty) page, so the
// templates always have something to render.
func ClampPage(number, totalCount int) (page, totalPages int) {
	totalPages = (totalCount + PostsPerPage - 1) / PostsPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return number, totalPages
}
