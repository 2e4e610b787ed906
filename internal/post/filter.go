package post

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Clés de filtre acceptées dans la query string
const (
	FilterTitle        = "title"
	FilterAuthor       = "author"
	FilterCategoryType = "categoryType"
	FilterPostCategory = "postCategory"
	FilterRatingMin    = "rating_min"
	FilterDateAfter    = "date_after"
)

const dateLayout = "2006-01-02"

// Filter restreint une requête de posts. Toutes les conditions sont cumulées.
type Filter struct {
	Params map[string]string `json:"params"`
	Errors FieldErrors       `json:"errors,omitempty"`

	scopes []func(*gorm.DB) *gorm.DB
}

// NewFilter ignore les clés inconnues ou vides. Une valeur illisible est
// signalée dans Errors et ne filtre rien.
func NewFilter(query url.Values) *Filter {
	f := &Filter{Params: map[string]string{}, Errors: FieldErrors{}}

	if v := value(query, FilterTitle); v != "" {
		f.Params[FilterTitle] = v
		pattern := "%" + escapeLike(v) + "%"
		f.where(`LOWER(posts.title) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}

	if v := value(query, FilterAuthor); v != "" {
		f.Params[FilterAuthor] = v
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.where("posts.author_id = ?", uint(id))
		} else {
			f.where("posts.author_id IN (SELECT id FROM users WHERE username = ?)", v)
		}
	}

	if v := value(query, FilterCategoryType); v != "" {
		f.Params[FilterCategoryType] = v
		if t := CategoryType(v); t.IsValid() {
			f.where("posts.category_type = ?", t)
		} else {
			f.Errors.add(FilterCategoryType, "Choix invalide.")
		}
	}

	if v := value(query, FilterPostCategory); v != "" {
		f.Params[FilterPostCategory] = v
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.where("posts.id IN (SELECT post_id FROM post_categories WHERE category_id = ?)", uint(id))
		} else {
			f.Errors.add(FilterPostCategory, "Identifiant de catégorie invalide.")
		}
	}

	if v := value(query, FilterRatingMin); v != "" {
		f.Params[FilterRatingMin] = v
		if n, err := strconv.Atoi(v); err == nil {
			f.where("posts.rating >= ?", n)
		} else {
			f.Errors.add(FilterRatingMin, "Saisissez un nombre entier.")
		}
	}

	if v := value(query, FilterDateAfter); v != "" {
		f.Params[FilterDateAfter] = v
		if d, err := time.ParseInLocation(dateLayout, v, time.UTC); err == nil {
			f.where("posts.created_at >= ?", d)
		} else {
			f.Errors.add(FilterDateAfter, "Saisissez une date valide (AAAA-MM-JJ).")
		}
	}

	return f
}

func (f *Filter) where(query string, args ...interface{}) {
	f.scopes = append(f.scopes, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	})
}

// Apply ne lance aucune requête : le résultat est évalué au Find/Count
func (f *Filter) Apply(base *gorm.DB) *gorm.DB {
	return base.Scopes(f.scopes...).Session(&gorm.Session{})
}

func (f *Filter) IsBound() bool {
	return len(f.Params) > 0
}

func value(query url.Values, key string) string {
	return strings.TrimSpace(query.Get(key))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
