package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/mocks"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
	"github.com/pageza/recipebox/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRecipeTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	router := gin.New()
	SetupAPI(router, service.NewRecipeService(store.NewMemoryStore()))
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		jsonData, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createRecipe(t *testing.T, router http.Handler, name string, ingredients ...string) types.Recipe {
	t.Helper()
	if ingredients == nil {
		ingredients = []string{}
	}
	w := doJSON(t, router, "POST", "/recipes", map[string]interface{}{"name": name, "ingredients": ingredients})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe
}

func listRecipes(t *testing.T, router http.Handler) []map[string]interface{} {
	t.Helper()
	w := doJSON(t, router, "GET", "/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var recipes []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	return recipes
}

func TestListRecipesEmpty(t *testing.T) {
	router := setupRecipeTestRouter(t)

	w := doJSON(t, router, "GET", "/recipes", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateRecipe(t *testing.T) {
	router := setupRecipeTestRouter(t)

	newItem := map[string]interface{}{
		"name":        "KFC",
		"ingredients": []interface{}{"chicken", "11 secret herbs and spices"},
	}
	w := doJSON(t, router, "POST", "/recipes", newItem)
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response, "id")
	assert.NotEmpty(t, response["id"])

	newItem["id"] = response["id"]
	assert.Equal(t, newItem, response)

	recipes := listRecipes(t, router)
	assert.Contains(t, recipes, newItem)
}

func TestCreateRecipeIgnoresClientID(t *testing.T) {
	router := setupRecipeTestRouter(t)

	w := doJSON(t, router, "POST", "/recipes", `{"id":"mine","name":"toast","ingredients":["bread"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var recipe types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.NotEqual(t, "mine", recipe.ID)
}

func TestCreateRecipeValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"ingredients":[]}`, "name"},
		{"empty name", `{"name":"","ingredients":[]}`, "name"},
		{"blank name", `{"name":"  ","ingredients":[]}`, "name"},
		{"missing ingredients", `{"name":"toast"}`, "ingredients"},
		{"null ingredients", `{"name":"toast","ingredients":null}`, "ingredients"},
		{"ingredients not a list", `{"name":"toast","ingredients":"bread"}`, "invalid request body"},
		{"name not a string", `{"name":7,"ingredients":[]}`, "invalid request body"},
		{"malformed json", `{"name":`, "invalid request body"},
		{"empty body", ``, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRecipeTestRouter(t)

			w := doJSON(t, router, "POST", "/recipes", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var response types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Contains(t, response.Error, tt.want)
			assert.Empty(t, listRecipes(t, router))
		})
	}
}

func TestCreateRecipeEmptyIngredients(t *testing.T) {
	router := setupRecipeTestRouter(t)

	recipe := createRecipe(t, router, "ice")
	assert.Equal(t, []string{}, recipe.Ingredients)
}

func TestGetRecipe(t *testing.T) {
	router := setupRecipeTestRouter(t)
	created := createRecipe(t, router, "toast", "bread", "butter")

	w := doJSON(t, router, "GET", "/recipes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)

	w = doJSON(t, router, "GET", "/recipes/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRecipe(t *testing.T) {
	router := setupRecipeTestRouter(t)
	created := createRecipe(t, router, "toast", "bread")

	updateData := map[string]interface{}{
		"id":          created.ID,
		"name":        "foo",
		"ingredients": []interface{}{"bacon", "lettuce", "tomato"},
	}

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, "PUT", "/recipes/"+created.ID, updateData)
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, updateData, response)
		assert.Equal(t, []map[string]interface{}{updateData}, listRecipes(t, router))
	}
}

func TestUpdateRecipeIDMismatch(t *testing.T) {
	router := setupRecipeTestRouter(t)
	a := createRecipe(t, router, "a", "x")
	b := createRecipe(t, router, "b", "y")
	before := listRecipes(t, router)

	w := doJSON(t, router, "PUT", "/recipes/"+a.ID, map[string]interface{}{
		"id":          b.ID,
		"name":        "changed",
		"ingredients": []string{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must match")
	assert.Equal(t, before, listRecipes(t, router))
}

func TestUpdateRecipeValidation(t *testing.T) {
	router := setupRecipeTestRouter(t)
	created := createRecipe(t, router, "toast", "bread")

	bodies := []string{
		`{"name":"foo","ingredients":[]}`,
		`{"id":"` + created.ID + `","ingredients":[]}`,
		`{"id":"` + created.ID + `","name":"foo"}`,
		`{"id":"` + created.ID + `","name":"foo","ingredients":[1,2]}`,
	}
	for _, body := range bodies {
		w := doJSON(t, router, "PUT", "/recipes/"+created.ID, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w := doJSON(t, router, "GET", "/recipes/"+created.ID, nil)
	var got types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	router := setupRecipeTestRouter(t)
	id := "3f1e2c4a-0000-4000-8000-000000000000"

	w := doJSON(t, router, "PUT", "/recipes/"+id, map[string]interface{}{
		"id":          id,
		"name":        "foo",
		"ingredients": []string{},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"recipe not found"}`, w.Body.String())
}

func TestDeleteRecipe(t *testing.T) {
	router := setupRecipeTestRouter(t)
	keep := createRecipe(t, router, "keep")
	gone := createRecipe(t, router, "gone")

	w := doJSON(t, router, "DELETE", "/recipes/"+gone.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	recipes := listRecipes(t, router)
	require.Len(t, recipes, 1)
	assert.Equal(t, keep.ID, recipes[0]["id"])

	w = doJSON(t, router, "DELETE", "/recipes/"+gone.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := setupRecipeTestRouter(t)
	createRecipe(t, router, "toast")

	w := doJSON(t, router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","recipes":1}`, w.Body.String())
}

func TestInternalErrors(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	svc.On("ListRecipes", mock.Anything).Return(nil, errors.New("disk on fire"))
	svc.On("DeleteRecipe", mock.Anything, "abc").Return(errors.New("disk on fire"))
	svc.On("CountRecipes", mock.Anything).Return(0, errors.New("disk on fire"))

	router := gin.New()
	SetupAPI(router, svc)

	w := doJSON(t, router, "GET", "/recipes", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())

	w = doJSON(t, router, "DELETE", "/recipes/abc", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	svc.AssertExpectations(t)
}

func TestValidationErrorsFromService(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	svc.On("CreateRecipe", mock.Anything, mock.AnythingOfType("*types.CreateRecipeRequest")).
		Return(types.Recipe{}, &service.ValidationError{Field: "name", Message: "must not be empty"})

	router := gin.New()
	SetupAPI(router, svc)

	w := doJSON(t, router, "POST", "/recipes", `{"name":"x","ingredients":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"name: must not be empty"}`, w.Body.String())
}
