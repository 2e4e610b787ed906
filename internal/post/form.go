package post

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/category"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

// Champs du formulaire de post
const (
	FieldAuthor       = "author"
	FieldCategoryType = "categoryType"
	FieldPostCategory = "postCategory"
	FieldTitle        = "title"
	FieldText         = "text"
	FieldRating       = "rating"
)

var FormFields = []string{FieldAuthor, FieldCategoryType, FieldPostCategory, FieldTitle, FieldText, FieldRating}

const titleMaxLen = 128

const msgRequired = "Ce champ est obligatoire."

// FieldErrors associe un champ à ses messages d'erreur
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Form contient une saisie validée
type Form struct {
	AuthorID     uint
	CategoryType CategoryType
	CategoryIDs  []uint
	Title        string
	Text         string
	Rating       int

	categories []category.Category
}

// FormSchema décrit le formulaire vide pour les pages GET
func FormSchema() gin.H {
	return gin.H{
		"fields": FormFields,
		"choices": gin.H{
			FieldCategoryType: []CategoryType{News, Article},
		},
	}
}

// ReadFormData lit un corps JSON ou un formulaire (urlencoded / multipart)
func ReadFormData(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("corps JSON invalide: %w", err)
		}
		data := url.Values{}
		for k, v := range raw {
			switch vv := v.(type) {
			case []interface{}:
				for _, item := range vv {
					data.Add(k, scalarString(item))
				}
			case nil:
			default:
				data.Add(k, scalarString(vv))
			}
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	return r.PostForm, nil
}

func scalarString(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(vv)
	default:
		b, _ := json.Marshal(vv)
		return string(b)
	}
}

// BindForm valide data. Tous les champs sont obligatoires; l'auteur et les
// catégories doivent exister en base.
func BindForm(db *gorm.DB, data url.Values) (*Form, FieldErrors) {
	f := &Form{}
	errs := FieldErrors{}

	if v := strings.TrimSpace(data.Get(FieldAuthor)); v == "" {
		errs.add(FieldAuthor, msgRequired)
	} else if id, err := strconv.ParseUint(v, 10, 64); err != nil {
		errs.add(FieldAuthor, "Sélectionnez un choix valide.")
	} else if _, err := user.FindByID(db, uint(id)); err != nil {
		errs.add(FieldAuthor, "Sélectionnez un choix valide. Cet auteur n'existe pas.")
	} else {
		f.AuthorID = uint(id)
	}

	if v := strings.TrimSpace(data.Get(FieldCategoryType)); v == "" {
		errs.add(FieldCategoryType, msgRequired)
	} else if t := CategoryType(v); !t.IsValid() {
		errs.add(FieldCategoryType, fmt.Sprintf("Sélectionnez un choix valide. %s n'en fait pas partie.", v))
	} else {
		f.CategoryType = t
	}

	f.bindCategories(db, data[FieldPostCategory], errs)

	f.Title = strings.TrimSpace(data.Get(FieldTitle))
	if f.Title == "" {
		errs.add(FieldTitle, msgRequired)
	} else if utf8.RuneCountInString(f.Title) > titleMaxLen {
		errs.add(FieldTitle, fmt.Sprintf("Assurez-vous que cette valeur comporte au plus %d caractères.", titleMaxLen))
	}

	f.Text = strings.TrimSpace(data.Get(FieldText))
	if f.Text == "" {
		errs.add(FieldText, msgRequired)
	}

	if v := strings.TrimSpace(data.Get(FieldRating)); v == "" {
		errs.add(FieldRating, msgRequired)
	} else if n, err := strconv.Atoi(v); err != nil {
		errs.add(FieldRating, "Saisissez un nombre entier.")
	} else {
		f.Rating = n
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return f, nil
}

func (f *Form) bindCategories(db *gorm.DB, raw []string, errs FieldErrors) {
	seen := map[uint]bool{}
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs.add(FieldPostCategory, fmt.Sprintf("« %s » n'est pas une valeur correcte.", v))
			return
		}
		if !seen[uint(id)] {
			seen[uint(id)] = true
			f.CategoryIDs = append(f.CategoryIDs, uint(id))
		}
	}
	if len(f.CategoryIDs) == 0 {
		errs.add(FieldPostCategory, msgRequired)
		return
	}

	categories, err := category.ByIDs(db, f.CategoryIDs)
	if err != nil || len(categories) != len(f.CategoryIDs) {
		errs.add(FieldPostCategory, "Sélectionnez un choix valide. Une des catégories n'existe pas.")
		return
	}
	f.categories = categories
}

// Save crée p (ID nul) ou le met à jour, catégories comprises, dans une transaction
func (f *Form) Save(db *gorm.DB, p *Post) error {
	return db.Transaction(func(tx *gorm.DB) error {
		p.AuthorID = f.AuthorID
		p.CategoryType = f.CategoryType
		p.Title = f.Title
		p.Text = f.Text
		p.Rating = f.Rating

		if p.ID == 0 {
			if err := tx.Omit("Author", "Categories").Create(p).Error; err != nil {
				return err
			}
		} else {
			err := tx.Model(p).
				Select("AuthorID", "CategoryType", "Title", "Text", "Rating").
				Updates(Post{AuthorID: p.AuthorID, CategoryType: p.CategoryType, Title: p.Title, Text: p.Text, Rating: p.Rating}).Error
			if err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", p.ID).Delete(&PostCategory{}).Error; err != nil {
				return err
			}
		}

		links := make([]PostCategory, 0, len(f.CategoryIDs))
		for _, id := range f.CategoryIDs {
			links = append(links, PostCategory{PostID: p.ID, CategoryID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
		p.Categories = f.categories
		return nil
	})
}
