package repository

import (
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10

	// Beyond this many pages the link sequence elides far-away numbers.
	linkElisionThreshold = 13
	linkWindow           = 2
)

// DefaultAllowedPageSizes is the page-size allow-list used when the
// deployment does not configure its own.
var DefaultAllowedPageSizes = []int{10, 20, 50, 100, 500}

// Paginator validates requested page sizes against an allow-list. A
// requested size outside the list silently resolves to the default; page
// size is an advisory presentation parameter, never an error.
type Paginator struct {
	AllowedSizes []int
	DefaultSize  int
}

func NewPaginator(allowedSizes []int, defaultSize int) Paginator {
	if len(allowedSizes) == 0 {
		allowedSizes = DefaultAllowedPageSizes
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	return Paginator{AllowedSizes: allowedSizes, DefaultSize: defaultSize}
}

func (p Paginator) ResolvePageSize(raw string) int {
	requested, err := strconv.Atoi(raw)
	if err != nil {
		return p.DefaultSize
	}
	for _, size := range p.AllowedSizes {
		if requested == size {
			return requested
		}
	}
	return p.DefaultSize
}

// ResolvePage coerces the raw page parameter, flooring at the first page.
func ResolvePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}

// PageLink describes one pagination control: a previous/next slot or a page
// number. URL is nil when the control is disabled.
type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

type Page[T any] struct {
	CurrentPage int        `json:"current_page"`
	Data        []T        `json:"data"`
	From        int        `json:"from"`
	To          int        `json:"to"`
	LastPage    int        `json:"last_page"`
	PerPage     int        `json:"per_page"`
	Total       int64      `json:"total"`
	Path        string     `json:"path"`
	PrevPageURL *string    `json:"prev_page_url"`
	NextPageURL *string    `json:"next_page_url"`
	Links       []PageLink `json:"links"`
}

// Paginate counts the constrained query, fetches one page of rows and
// assembles the page object. query carries the surviving request parameters
// so every link reproduces the active filter state.
func Paginate[T any](db *gorm.DB, page, perPage int, path string, query url.Values) (Page[T], error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	lastPage := calcTotalPages(total, perPage)
	if lastPage < 1 {
		lastPage = 1
	}
	if total == 0 {
		page = 1
	}

	items := []T{}
	if total > 0 {
		if err := db.Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
			return Page[T]{}, err
		}
	}

	from, to := 0, 0
	if len(items) > 0 {
		from = (page-1)*perPage + 1
		to = from + len(items) - 1
	}

	result := Page[T]{
		CurrentPage: page,
		Data:        items,
		From:        from,
		To:          to,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
		Path:        path,
		Links:       BuildPageLinks(path, query, page, lastPage),
	}
	if page > 1 {
		result.PrevPageURL = pageURL(path, query, page-1)
	}
	if page < lastPage {
		result.NextPageURL = pageURL(path, query, page+1)
	}
	return result, nil
}

// BuildPageLinks is a pure function of (current, last). The sequence always
// starts with a previous slot and ends with a next slot, disabled at the
// boundaries. Large page counts collapse far-away numbers behind an
// ellipsis placeholder.
func BuildPageLinks(path string, query url.Values, current, last int) []PageLink {
	links := []PageLink{prevNextLink(path, query, current-1, "Previous", current > 1)}
	for _, n := range pageNumberSequence(current, last) {
		if n == 0 {
			links = append(links, PageLink{Label: "..."})
			continue
		}
		links = append(links, PageLink{
			URL:    pageURL(path, query, n),
			Label:  strconv.Itoa(n),
			Active: n == current,
		})
	}
	links = append(links, prevNextLink(path, query, current+1, "Next", current < last))
	return links
}

// pageNumberSequence returns the page numbers to render, with 0 marking an
// ellipsis slot.
func pageNumberSequence(current, last int) []int {
	if last <= linkElisionThreshold {
		seq := make([]int, 0, last)
		for n := 1; n <= last; n++ {
			seq = append(seq, n)
		}
		return seq
	}

	windowStart := current - linkWindow
	windowEnd := current + linkWindow
	if windowStart < 3 {
		windowStart = 3
	}
	if windowEnd > last-2 {
		windowEnd = last - 2
	}

	seq := []int{1, 2}
	if windowStart > 3 {
		seq = append(seq, 0)
	}
	for n := windowStart; n <= windowEnd; n++ {
		seq = append(seq, n)
	}
	if windowEnd < last-2 {
		seq = append(seq, 0)
	}
	return append(seq, last-1, last)
}

func prevNextLink(path string, query url.Values, target int, label string, enabled bool) PageLink {
	link := PageLink{Label: label}
	if enabled {
		link.URL = pageURL(path, query, target)
	}
	return link
}

func pageURL(path string, query url.Values, page int) *string {
	q := url.Values{}
	for key, values := range query {
		for _, v := range values {
			if v != "" {
				q.Add(key, v)
			}
		}
	}
	q.Set("page", strconv.Itoa(page))
	u := path + "?" + q.Encode()
	return &u
}

func calcTotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	ps := int64(pageSize)
	pages := total / ps
	if total%ps != 0 {
		pages++
	}
	maxInt := int64(^uint(0) >> 1)
	if pages > maxInt {
		return int(maxInt)
	}
	return int(pages)
}
