package post

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
)

const PageSize = 3

var ErrInvalidPage = errors.New("invalid page")

type Page struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Count       int64 `json:"count"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Paginate découpe q en pages de size posts. raw vaut "" (page 1), un
// numéro ou "last". Une page hors bornes renvoie ErrInvalidPage; une liste
// vide a quand même une page 1.
func Paginate(q *gorm.DB, raw string, size int) ([]Post, Page, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, Page{}, err
	}

	numPages := int((count + int64(size) - 1) / int64(size))
	if numPages == 0 {
		numPages = 1
	}

	number := 1
	switch raw {
	case "":
	case "last":
		number = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > numPages {
			return nil, Page{}, ErrInvalidPage
		}
		number = n
	}

	posts, err := FindOrdered(q, size, (number-1)*size)
	if err != nil {
		return nil, Page{}, err
	}

	return posts, Page{
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}, nil
}
