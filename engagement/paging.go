package engagement

import "github.com/pmedv/folio/content"

// PageSize is the fixed number of items per list page.
const PageSize = 6

// Page is one slice of a listing's remainder. Number is the requested page
// number as-is: an out-of-range request produces an empty page whose
// indicator can read past TotalPages, which the site has always shown rather
// than corrected.
type Page struct {
	Items      []content.Item
	Number     int
	TotalPages int
}

// TotalPages returns the number of pages needed for n items (zero for zero).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the 1-based page number of the remainder. It does not
// validate or clamp number: anything outside [1, TotalPages] yields an empty
// page with no error. Navigation controls clamp via ClampPage before
// building links; a page number supplied directly does not get that.
func Paginate(remainder []content.Item, number int) Page {
	p := Page{Number: number, TotalPages: TotalPages(len(remainder))}
	if number < 1 || number > p.TotalPages {
		return p
	}
	start := (number - 1) * PageSize
	end := start + PageSize
	if end > len(remainder) {
		end = len(remainder)
	}
	p.Items = remainder[start:end]
	return p
}

// ClampPage clamps a target page number into [1, total] for building
// previous/next links.
func ClampPage(number, total int) int {
	if number < 1 {
		return 1
	}
	if total > 0 && number > total {
		return total
	}
	return number
}
