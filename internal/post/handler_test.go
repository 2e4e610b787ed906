package post

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/events"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

const testUserHeader = "X-Test-User"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader(testUserHeader), 10, 64); err == nil {
			c.Set(user.ContextKey, uint(id))
		}
	})
	r.GET("/news/", ListPosts)
	r.POST("/news/", CreateFromList)
	r.GET("/news/search/", SearchPosts)
	r.GET("/news/add", AddPostForm)
	r.POST("/news/add", AddPost)
	r.GET("/news/:id", GetPost)
	r.GET("/news/:id/edit", EditPostForm)
	r.POST("/news/:id/edit", EditPost)
	r.GET("/news/:id/delete", DeletePostConfirm)
	r.POST("/news/:id/delete", DeletePost)
	return r
}

func do(r *gin.Engine, method, target, body string, userID uint) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(uint64(userID), 10))
	}
	r.ServeHTTP(w, req)
	return w
}

func (f *fixture) validJSON(title string) string {
	body, _ := json.Marshal(map[string]interface{}{
		FieldAuthor:       f.author.ID,
		FieldCategoryType: "AR",
		FieldPostCategory: []uint{f.sport.ID},
		FieldTitle:        title,
		FieldText:         "Contenu",
		FieldRating:       2,
	})
	return string(body)
}

type listBody struct {
	News   []Post `json:"news"`
	Page   Page   `json:"page"`
	Filter struct {
		Params  map[string]string `json:"params"`
		Errors  FieldErrors       `json:"errors"`
		Results []Post            `json:"results"`
	} `json:"filter"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Errors FieldErrors `json:"errors"`
	Post   *Post       `json:"post"`
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) listBody {
	t.Helper()
	var body listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestListPosts(t *testing.T) {
	f := setupFixture(t)
	f.addPosts(t, 5)
	r := setupRouter()

	w := do(r, http.MethodGet, "/news/", "", 0)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeList(t, w)
	require.Len(t, body.News, PageSize)
	assert.Equal(t, "Post 5", body.News[0].Title)
	assert.Equal(t, Page{Number: 1, NumPages: 2, Count: 5, HasNext: true}, body.Page)
	assert.Len(t, body.Categories, 2)
	assert.Empty(t, body.Filter.Params)
	assert.Nil(t, body.Filter.Results)

	w = do(r, http.MethodGet, "/news/?page=9", "", 0)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPostsWithFilter(t *testing.T) {
	f := setupFixture(t)
	f.addPosts(t, 5)
	r := setupRouter()

	w := do(r, http.MethodGet, "/news/?rating_min=4&categoryType=ZZ", "", 0)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeList(t, w)
	assert.Equal(t, "4", body.Filter.Params["rating_min"])
	assert.Contains(t, body.Filter.Errors, "categoryType")
	require.Len(t, body.Filter.Results, 2)
	assert.Equal(t, "Post 5", body.Filter.Results[0].Title)
	assert.Equal(t, "Post 4", body.Filter.Results[1].Title)
}

func TestSearchPosts(t *testing.T) {
	f := setupFixture(t)
	f.addPosts(t, 5)
	r := setupRouter()

	w := do(r, http.MethodGet, "/news/search/?title=post&rating_min=2", "", 0)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		News []Post `json:"news"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.News, 4)
}

func TestCreateFromList(t *testing.T) {
	f := setupFixture(t)
	f.addPosts(t, 4)
	rec := recordEvents(t)
	r := setupRouter()

	w := do(r, http.MethodPost, "/news/", f.validJSON("Depuis la liste"), 0)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeList(t, w)
	require.NotNil(t, body.Post)
	require.Len(t, body.News, 5, "the list is not paginated")
	assert.Equal(t, "Depuis la liste", body.News[0].Title)
	assert.Equal(t, body.Post.ID, body.News[0].ID)
	assert.Equal(t, []string{events.PostCreated}, rec.subjects)
}

func TestCreateFromListInvalid(t *testing.T) {
	f := setupFixture(t)
	f.addPosts(t, 2)
	rec := recordEvents(t)
	r := setupRouter()

	w := do(r, http.MethodPost, "/news/", `{"title":""}`, 0)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeList(t, w)
	assert.Len(t, body.Errors, len(FormFields))
	assert.Len(t, body.News, 2)
	assert.Nil(t, body.Post)
	assert.Empty(t, rec.subjects)
}

func TestAddPost(t *testing.T) {
	f := setupFixture(t)
	rec := recordEvents(t)
	r := setupRouter()

	w := do(r, http.MethodGet, "/news/add", "", f.reader.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_not_authors":true`)

	w = do(r, http.MethodPost, "/news/add", f.validJSON("Nouveau"), f.author.ID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Post         Post `json:"post"`
		IsNotAuthors bool `json:"is_not_authors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.IsNotAuthors)
	assert.Equal(t, "Nouveau", body.Post.Title)
	assert.Equal(t, "alice", body.Post.Author.Username)
	require.Len(t, body.Post.Categories, 1)
	assert.Equal(t, []string{events.PostCreated}, rec.subjects)

	w = do(r, http.MethodPost, "/news/add", `{"title":"x"}`, f.author.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPost(t *testing.T) {
	f := setupFixture(t)
	p := f.addPost(t, Post{AuthorID: f.author.ID, CategoryType: News, Title: "Détail", Text: "t"}, f.culture)
	r := setupRouter()

	w := do(r, http.MethodGet, "/news/"+f.uintString(p.ID), "", 0)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Détail"`)
	assert.NotContains(t, w.Body.String(), "alice@example.com")

	for _, target := range []string{"/news/999", "/news/abc", "/news/0"} {
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, target, "", 0).Code, target)
	}
}

func TestEditPost(t *testing.T) {
	f := setupFixture(t)
	p := f.addPost(t, Post{AuthorID: f.author.ID, CategoryType: News, Title: "Avant", Text: "t"}, f.culture)
	rec := recordEvents(t)
	r := setupRouter()
	target := "/news/" + f.uintString(p.ID) + "/edit"

	w := do(r, http.MethodGet, target, "", f.author.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Avant"`)

	w = do(r, http.MethodPost, target, f.validJSON("Après"), f.author.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	saved, err := GetByID(f.db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Après", saved.Title)
	assert.Equal(t, Article, saved.CategoryType)
	require.Len(t, saved.Categories, 1)
	assert.Equal(t, "Sport", saved.Categories[0].Name)
	assert.Equal(t, []string{events.PostUpdated}, rec.subjects)

	w = do(r, http.MethodPost, target, `{"title":""}`, f.author.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/news/999/edit", f.validJSON("Fantôme"), f.author.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePost(t *testing.T) {
	f := setupFixture(t)
	p := f.addPost(t, Post{AuthorID: f.author.ID, CategoryType: News, Title: "À supprimer", Text: "t"}, f.sport)
	rec := recordEvents(t)
	r := setupRouter()
	target := "/news/" + f.uintString(p.ID) + "/delete"

	w := do(r, http.MethodGet, target, "", f.reader.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, target, "", f.reader.ID)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, ListURL, w.Header().Get("Location"))
	assert.Equal(t, []string{events.PostDeleted}, rec.subjects)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/news/"+f.uintString(p.ID), "", 0).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, target, "", f.reader.ID).Code)
}
