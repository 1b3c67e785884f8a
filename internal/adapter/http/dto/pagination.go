package dto

import (
	"net/url"
	"strconv"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
)

// PageLinks points at neighbouring pages. Next and Prev are null at the ends.
type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Self  string  `json:"self"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// PageResponse is the envelope every paginated list is returned in.
type PageResponse[T any] struct {
	Items []T       `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Pages int       `json:"pages"`
	Links PageLinks `json:"links"`
}

// NewPageResponse maps a page of domain values through convert and links it
// relative to self, keeping any other query parameters such as kind.
func NewPageResponse[S, T any](paged *usecase.Paged[S], self *url.URL, convert func(S) T) *PageResponse[T] {
	items := make([]T, len(paged.Items))
	for i, item := range paged.Items {
		items[i] = convert(item)
	}

	page := paged.Page
	pages := page.Pages(paged.Total)

	links := PageLinks{
		First: pageURL(self, 1, page.Size),
		Last:  pageURL(self, pages, page.Size),
		Self:  pageURL(self, page.Number, page.Size),
	}
	if page.Number < pages {
		next := pageURL(self, page.Number+1, page.Size)
		links.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(self, min(page.Number-1, pages), page.Size)
		links.Prev = &prev
	}

	return &PageResponse[T]{
		Items: items,
		Total: paged.Total,
		Page:  page.Number,
		Size:  page.Size,
		Pages: pages,
		Links: links,
	}
}

func pageURL(self *url.URL, number, size int) string {
	q := self.Query()
	q.Set("page", strconv.Itoa(number))
	q.Set("size", strconv.Itoa(size))

	u := url.URL{Path: self.Path, RawQuery: q.Encode()}
	return u.String()
}

// ParsePage reads page and size query parameters. Missing values fall back to
// the defaults, out-of-range values are rejected.
func ParsePage(q url.Values) (domain.Page, error) {
	number, err := intParam(q, "page", domain.DefaultPage)
	if err != nil {
		return domain.Page{}, err
	}
	size, err := intParam(q, "size", domain.DefaultPageSize)
	if err != nil {
		return domain.Page{}, err
	}

	if number < 1 {
		return domain.Page{}, &ParamError{Name: "page", Reason: "must be at least 1"}
	}
	if size < 1 || size > domain.MaxPageSize {
		return domain.Page{}, &ParamError{Name: "size", Reason: "must be between 1 and " + strconv.Itoa(domain.MaxPageSize)}
	}
	if last := domain.MaxPageNumber(size); number > last {
		return domain.Page{}, &ParamError{Name: "page", Reason: "must be at most " + strconv.Itoa(last)}
	}

	return domain.NewPage(number, size), nil
}

// ParamError reports an invalid query parameter.
type ParamError struct {
	Name   string
	Reason string
}

func (e *ParamError) Error() string {
	return e.Name + " " + e.Reason
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParamError{Name: key, Reason: "must be an integer"}
	}
	return v, nil
}
