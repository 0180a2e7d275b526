package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams extracts page/size query parameters. A missing size
// means "everything", which is how the listing pages call it.
func GetPaginationParams(c echo.Context) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("size"))

	if page <= 0 {
		page = 1
	}

	if pageSize < 0 || pageSize > 100 {
		pageSize = 20
	}

	offset := 0
	if pageSize > 0 {
		offset = (page - 1) * pageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   offset,
	}
}

// Window returns the [start, end) bounds of the page inside a list of total items.
func (p PaginationParams) Window(total int) (int, int) {
	if p.PageSize == 0 {
		return 0, total
	}
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}
