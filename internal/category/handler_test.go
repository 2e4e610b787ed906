package category

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	originalDB := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = originalDB
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/news/categories", ListCategories)
	r.POST("/news/categories", CreateCategory)
	return r
}

func TestCreateAndListCategories(t *testing.T) {
	r := setupRouter(t)

	for _, name := range []string{"Sport", "Culture"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/news/categories", strings.NewReader(`{"name":"`+name+`"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/news/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "Culture", body.Categories[0].Name)
	assert.Equal(t, "Sport", body.Categories[1].Name)
}

func TestCreateCategoryValidation(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"missing name", `{}`, http.StatusBadRequest},
		{"blank name", `{"name":"   "}`, http.StatusBadRequest},
		{"malformed body", `{"name":`, http.StatusBadRequest},
		{"long name padded with spaces", `{"name":"  ` + strings.Repeat("y", 64) + `  "}`, http.StatusCreated},
		{"too long", `{"name":"` + strings.Repeat("x", 65) + `"}`, http.StatusBadRequest},
		{"created", `{"name":"Tech"}`, http.StatusCreated},
		{"duplicate ignoring case", `{"name":"tech"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/news/categories", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestCreateCategoryTrimsName(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/news/categories", strings.NewReader(`{"name":"  Politique  "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Category Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Politique", body.Category.Name)

	var count int64
	database.DB.Model(&Category{}).Where("name = ?", "").Count(&count)
	assert.Zero(t, count)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	setupRouter(t)

	_, err := Create(context.Background(), database.DB, "  ")

	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCreateDuplicateOnInsert(t *testing.T) {
	setupRouter(t)

	inserted := false
	require.NoError(t, database.DB.Callback().Create().Before("gorm:create").Register("test:concurrent_category", func(tx *gorm.DB) {
		if inserted || tx.Statement.Table != "categories" {
			return
		}
		inserted = true
		tx.Session(&gorm.Session{NewDB: true}).Exec("INSERT INTO categories (name) VALUES (?)", "Sport")
	}))

	_, err := Create(context.Background(), database.DB, "Sport")

	require.True(t, inserted)
	assert.ErrorIs(t, err, ErrDuplicate)
}
