package core

// DefaultPageSize is the fixed page size of the transaction list.
const DefaultPageSize = 10

// Page is a zero-based pagination cursor.
type Page struct {
	Index int
	Size  int
	Total int
}

func NewPage(size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page{Size: size}
}

func (p Page) Offset() int {
	return p.Index * p.Size
}

// TotalPages is ceil(Total/Size) with a minimum of one.
func (p Page) TotalPages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 1
	}
	n := (p.Total + p.Size - 1) / p.Size
	if n < 1 {
		return 1
	}
	return n
}

func (p Page) HasPrev() bool {
	return p.Index > 0
}

func (p Page) HasNext() bool {
	return p.Index < p.TotalPages()-1
}

// Next advances one page; it reports false at the last page.
func (p *Page) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.Index++
	return true
}

// Prev steps back one page; it reports false at the first page.
func (p *Page) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.Index--
	return true
}

func (p *Page) Reset() {
	p.Index = 0
}
