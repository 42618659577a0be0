package gomag

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomag-importer/internal/types"
)

func testRecord() types.ImportRecord {
	return types.ImportRecord{
		SKU:         "MO9480",
		Name:        "Cana de bambus",
		Description: "Pastreaza bauturile calde",
		Images:      []string{"https://cdn.test/a.jpg"},
		Specs:       map[string]string{"Material": "Bambus"},
		Variants:    []types.Variant{{Name: "color", Value: "Rosu"}},
		Price:       types.NormalizedPrice{Amount: 49.90, Currency: "RON", SourceHadPrice: true},
		Stock:       1,
		Active:      true,
		CategoryID:  12,
		SourceURL:   "https://shop.test/p/bamboo-mug",
	}
}

func TestBuildPayload(t *testing.T) {
	got := BuildPayload(testRecord())

	assert.Equal(t, "MO9480", got["sku"])
	assert.Equal(t, "Cana de bambus", got["name"])
	assert.Equal(t, 49.90, got["price"])
	assert.Equal(t, "RON", got["currency"])
	assert.Equal(t, 1, got["stock"])
	assert.Equal(t, 1, got["active"])
	assert.Equal(t, 12, got["category_id"])
	assert.Equal(t, []string{"https://cdn.test/a.jpg"}, got["images"])
	assert.Equal(t, []map[string]string{{"name": "color", "value": "Rosu"}}, got["variants"])
}

func TestBuildPayload_OmitsEmptyOptionals(t *testing.T) {
	record := testRecord()
	record.CategoryID = 0
	record.Images = nil
	record.Specs = nil
	record.Variants = nil
	record.Active = false

	got := BuildPayload(record)

	assert.Equal(t, 0, got["active"])
	assert.NotContains(t, got, "category_id")
	assert.NotContains(t, got, "images")
	assert.NotContains(t, got, "attributes")
	assert.NotContains(t, got, "variants")
}

func TestProductWrite_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.Header.Get("Apikey"))
		assert.Equal(t, "https://shop.test", r.Header.Get("ApiShop"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Write([]byte(`{"error":null,"data":{"id":101}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "https://shop.test/", logrus.New())

	err := c.ProductWrite(context.Background(), testRecord())
	require.NoError(t, err)

	assert.Equal(t, "/product/write/json", gotPath)
	assert.Equal(t, "MO9480", gotBody["sku"])
}

func TestProductWrite_ErrorInsideOKResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":"Invalid category","data":null}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", "s", logrus.New())

	err := c.ProductWrite(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid category")
}

func TestProductWrite_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "wrong", "s", logrus.New())

	err := c.ProductWrite(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestCategoryRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/category/read/json", r.URL.Path)
		w.Write([]byte(`{"error":null,"data":[{"id":1,"name":"Cani"},{"id":2,"name":"Birou","parent_id":1}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", "s", logrus.New())

	got, err := c.CategoryRead(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Category{ID: 1, Name: "Cani"}, got[0])
	assert.Equal(t, Category{ID: 2, Name: "Birou", ParentID: 1}, got[1])
}

func TestCategoryRead_BareArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":7,"name":"Promo"}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", "s", logrus.New())

	got, err := c.CategoryRead(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Promo", got[0].Name)
}

func TestCategoryWrite(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/category/write/json", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		gotBody = nil
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"error":null,"data":{"id":31}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", "s", logrus.New())

	require.NoError(t, c.CategoryWrite(context.Background(), "Cani termice", 4))
	assert.Equal(t, "Cani termice", gotBody["name"])
	assert.Equal(t, float64(4), gotBody["parent_id"])

	// Root categories carry no parent reference.
	require.NoError(t, c.CategoryWrite(context.Background(), "Birotica", 0))
	assert.Equal(t, "Birotica", gotBody["name"])
	assert.NotContains(t, gotBody, "parent_id")
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", "k", "s", logrus.New())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
