package entity

import "net/url"

type Category struct {
	Code  string `json:"code"`
	ID    int    `json:"id"`
	Label string `json:"label"`
}

const DefaultCategoryCode = "clothes"

var categories = []Category{
	{Code: "clothes", ID: 1, Label: "의류"},
	{Code: "books", ID: 2, Label: "도서 / 문구"},
	{Code: "appliances", ID: 3, Label: "가전 / 주방"},
	{Code: "helper", ID: 4, Label: "도우미 / 기타"},
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func CategoryByCode(code string) (Category, bool) {
	for _, c := range categories {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

func CategoryByID(id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func CategoryByLabel(label string) (Category, bool) {
	for _, c := range categories {
		if c.Label == label {
			return c, true
		}
	}
	return Category{}, false
}

// ResolveCategory maps a route parameter (code or label, possibly
// URL-escaped) to a category, defaulting to clothes.
func ResolveCategory(param string) Category {
	decoded, err := url.PathUnescape(param)
	if err != nil {
		decoded = param
	}
	if c, ok := CategoryByCode(decoded); ok {
		return c
	}
	if c, ok := CategoryByLabel(decoded); ok {
		return c
	}
	c, _ := CategoryByCode(DefaultCategoryCode)
	return c
}
