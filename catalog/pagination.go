package catalog

import "ornament-catalog/models"

// PageSize is the number of tiles per page
const PageSize = 10

// Pagination derives a fixed-size visible slice of the catalog
type Pagination struct {
	index int
	total int
}

// PageCount returns ceil(total/PageSize)
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Clamp records the current number of records and pulls the page index back into range
func (p *Pagination) Clamp(total int) {
	p.total = total
	last := PageCount(total) - 1
	if last < 0 {
		last = 0
	}
	if p.index > last {
		p.index = last
	}
	if p.index < 0 {
		p.index = 0
	}
}

// Index returns the current page index
func (p *Pagination) Index() int {
	return p.index
}

// PageCount returns the number of pages for the last clamped total
func (p *Pagination) PageCount() int {
	return PageCount(p.total)
}

// Next moves forward one page unless on the last page
func (p *Pagination) Next() bool {
	if p.index < PageCount(p.total)-1 {
		p.index++
		return true
	}
	return false
}

// Previous moves back one page unless on the first page
func (p *Pagination) Previous() bool {
	if p.index > 0 {
		p.index--
		return true
	}
	return false
}

// Reset returns to the first page
func (p *Pagination) Reset() {
	p.index = 0
}

// Visible returns the records on the current page
func (p *Pagination) Visible(records []models.OrnamentRecord) []models.OrnamentRecord {
	return PageSlice(records, p.index)
}

// PageSlice returns records[index*PageSize : index*PageSize+PageSize], bounded by len(records)
func PageSlice(records []models.OrnamentRecord, index int) []models.OrnamentRecord {
	start := index * PageSize
	if index < 0 || start >= len(records) {
		return nil
	}
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
