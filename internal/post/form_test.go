package post

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) validData() url.Values {
	return url.Values{
		FieldAuthor:       {f.uintString(f.author.ID)},
		FieldCategoryType: {"NW"},
		FieldPostCategory: {f.uintString(f.sport.ID), f.uintString(f.culture.ID)},
		FieldTitle:        {"Nouvelle saison"},
		FieldText:         {"Le championnat reprend."},
		FieldRating:       {"4"},
	}
}

func TestFormCreate(t *testing.T) {
	f := setupFixture(t)

	form, errs := BindForm(f.db, f.validData())
	require.Nil(t, errs)

	p := &Post{}
	require.NoError(t, form.Save(f.db, p))
	require.NotZero(t, p.ID)

	saved, err := GetByID(f.db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, saved.AuthorID)
	assert.Equal(t, News, saved.CategoryType)
	assert.Equal(t, "Nouvelle saison", saved.Title)
	assert.Equal(t, "Le championnat reprend.", saved.Text)
	assert.Equal(t, 4, saved.Rating)
	require.Len(t, saved.Categories, 2)
	assert.Equal(t, f.sport.ID, saved.Categories[0].ID)
	assert.Equal(t, f.culture.ID, saved.Categories[1].ID)
}

func TestFormUpdateReplacesCategories(t *testing.T) {
	f := setupFixture(t)
	p := f.addPost(t, Post{AuthorID: f.author.ID, CategoryType: News, Title: "Avant", Text: "t"}, f.sport)

	data := f.validData()
	data.Set(FieldTitle, "Après")
	data.Set(FieldCategoryType, "AR")
	data[FieldPostCategory] = []string{f.uintString(f.culture.ID)}
	form, errs := BindForm(f.db, data)
	require.Nil(t, errs)

	require.NoError(t, form.Save(f.db, p))

	saved, err := GetByID(f.db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Après", saved.Title)
	assert.Equal(t, Article, saved.CategoryType)
	require.Len(t, saved.Categories, 1)
	assert.Equal(t, "Culture", saved.Categories[0].Name)

	var count int64
	f.db.Model(&Post{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBindFormErrors(t *testing.T) {
	f := setupFixture(t)

	tests := []struct {
		name   string
		mutate func(url.Values)
		fields []string
	}{
		{
			name:   "everything missing",
			mutate: func(v url.Values) {
				for _, field := range FormFields {
					v.Del(field)
				}
			},
			fields: FormFields,
		},
		{
			name:   "unknown author",
			mutate: func(v url.Values) { v.Set(FieldAuthor, "999") },
			fields: []string{FieldAuthor},
		},
		{
			name:   "non numeric author",
			mutate: func(v url.Values) { v.Set(FieldAuthor, "alice") },
			fields: []string{FieldAuthor},
		},
		{
			name:   "invalid category type",
			mutate: func(v url.Values) { v.Set(FieldCategoryType, "XX") },
			fields: []string{FieldCategoryType},
		},
		{
			name:   "unknown category",
			mutate: func(v url.Values) { v.Add(FieldPostCategory, "999") },
			fields: []string{FieldPostCategory},
		},
		{
			name:   "title too long",
			mutate: func(v url.Values) { v.Set(FieldTitle, strings.Repeat("é", titleMaxLen+1)) },
			fields: []string{FieldTitle},
		},
		{
			name:   "rating not an integer",
			mutate: func(v url.Values) { v.Set(FieldRating, "4.5") },
			fields: []string{FieldRating},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := f.validData()
			tt.mutate(data)

			form, errs := BindForm(f.db, data)

			assert.Nil(t, form)
			require.Len(t, errs, len(tt.fields))
			for _, field := range tt.fields {
				assert.NotEmpty(t, errs[field], field)
			}
		})
	}

	var count int64
	f.db.Model(&Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestBindFormTitleAtLimit(t *testing.T) {
	f := setupFixture(t)
	data := f.validData()
	data.Set(FieldTitle, strings.Repeat("é", titleMaxLen))

	_, errs := BindForm(f.db, data)

	assert.Nil(t, errs)
}

func TestReadFormData(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/news/add", strings.NewReader(`{"author":3,"postCategory":[1,2],"title":"T","rating":-2,"text":null}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		data, err := ReadFormData(req)

		require.NoError(t, err)
		assert.Equal(t, "3", data.Get(FieldAuthor))
		assert.Equal(t, []string{"1", "2"}, data[FieldPostCategory])
		assert.Equal(t, "-2", data.Get(FieldRating))
		assert.NotContains(t, data, FieldText)
	})

	t.Run("urlencoded body", func(t *testing.T) {
		body := url.Values{FieldTitle: {"T"}, FieldPostCategory: {"1", "2"}}.Encode()
		req := httptest.NewRequest(http.MethodPost, "/news/add", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		data, err := ReadFormData(req)

		require.NoError(t, err)
		assert.Equal(t, "T", data.Get(FieldTitle))
		assert.Equal(t, []string{"1", "2"}, data[FieldPostCategory])
	})

	t.Run("broken json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/news/add", strings.NewReader(`{"title":`))
		req.Header.Set("Content-Type", "application/json")

		_, err := ReadFormData(req)

		assert.Error(t, err)
	})
}
