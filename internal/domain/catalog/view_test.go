package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products(t *testing.T, raw string) []Resource {
	t.Helper()
	spec, ok := Lookup(KindProducts)
	require.True(t, ok)
	items, err := ParseResources(spec, json.RawMessage(raw))
	require.NoError(t, err)
	return items
}

func ids(items []Resource) []int64 {
	out := make([]int64, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestBuildView_StatusFilter(t *testing.T) {
	spec, _ := Lookup(KindProducts)
	items := products(t, `[{"id":1,"activeStatus":true},{"id":2,"activeStatus":false},{"id":3,"activeStatus":true}]`)

	active := BuildView(spec, items, ViewParams{Filter: FilterActive, Page: 1})
	trash := BuildView(spec, items, ViewParams{Filter: FilterTrash, Page: 1})

	if diff := cmp.Diff([]int64{1, 3}, ids(active.Items)); diff != "" {
		t.Errorf("active view mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{2}, ids(trash.Items)); diff != "" {
		t.Errorf("trash view mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildView_DeletedStatusKinds(t *testing.T) {
	spec, _ := Lookup(KindOrders)
	items, err := ParseResources(spec, json.RawMessage(
		`[{"orderId":10,"isDeletedStatus":false},{"orderId":11,"isDeletedStatus":true},{"orderId":12}]`))
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 12}, ids(BuildView(spec, items, ViewParams{Filter: FilterActive}).Items))
	assert.Equal(t, []int64{11}, ids(BuildView(spec, items, ViewParams{Filter: FilterTrash}).Items))
	assert.Len(t, BuildView(spec, items, ViewParams{Filter: FilterAll}).Items, 3)
}

func TestBuildView_Pagination(t *testing.T) {
	spec, _ := Lookup(KindBrands)
	raw := "["
	for i := 1; i <= 13; i++ {
		if i > 1 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"brandId":%d,"activeStatus":true}`, i)
	}
	raw += "]"
	items, err := ParseResources(spec, json.RawMessage(raw))
	require.NoError(t, err)

	want := map[int][]int64{
		1: {1, 2, 3, 4, 5, 6},
		2: {7, 8, 9, 10, 11, 12},
		3: {13},
		4: {},
	}
	for page, expected := range want {
		view := BuildView(spec, items, ViewParams{Filter: FilterActive, Page: page, PageSize: 6})
		assert.Equal(t, expected, ids(view.Items), "page %d", page)
		assert.Equal(t, 3, view.TotalPages)
	}
}

func TestBuildView_Search(t *testing.T) {
	spec, _ := Lookup(KindProducts)
	items := products(t, `[
		{"productId":1,"productName":"Red Shoe","activeStatus":true},
		{"productId":2,"productName":"Blue Hat","activeStatus":true,"brandName":"Redwood"},
		{"productId":3,"productName":"Green Scarf","activeStatus":true}]`)

	view := BuildView(spec, items, ViewParams{Filter: FilterActive, Search: "red", Page: 1})
	assert.Equal(t, []int64{1, 2}, ids(view.Items))
	assert.Equal(t, 2, view.Total)
}

func TestApplySearch_ResetsPage(t *testing.T) {
	values := url.Values{"productpage": {"4"}, "brandpage": {"2"}, "search": {"old"}}

	next := ApplySearch(values, "productpage", "shoes")

	assert.Equal(t, "1", next.Get("productpage"))
	assert.Equal(t, "shoes", next.Get("search"))
	assert.Equal(t, "2", next.Get("brandpage"), "other lists keep their page")
	assert.Equal(t, "4", values.Get("productpage"), "input is not mutated")

	cleared := ApplySearch(values, "productpage", "")
	assert.False(t, cleared.Has("search"))
	assert.Equal(t, "1", cleared.Get("productpage"))
}

func TestPageFromQuery(t *testing.T) {
	assert.Equal(t, 1, PageFromQuery(url.Values{}, "orderpage"))
	assert.Equal(t, 1, PageFromQuery(url.Values{"orderpage": {"abc"}}, "orderpage"))
	assert.Equal(t, 1, PageFromQuery(url.Values{"orderpage": {"-3"}}, "orderpage"))
	assert.Equal(t, 3, PageFromQuery(url.Values{"orderpage": {"3"}}, "orderpage"))
}

func TestBuildView_PageFromHugeQuery(t *testing.T) {
	spec, _ := Lookup(KindProducts)
	items := make([]Resource, 13)
	for i := range items {
		items[i] = Resource{ID: int64(i + 1)}
	}
	values := url.Values{spec.PageParam: {fmt.Sprint(math.MaxInt)}}
	page := PageFromQuery(values, spec.PageParam)
	assert.Equal(t, math.MaxInt, page)

	view := BuildView(spec, items, ViewParams{Filter: FilterActive, Page: page, PageSize: 6})
	assert.Empty(t, view.Items)
	assert.Equal(t, 3, view.TotalPages)

	links := BuildLinks("/api/v1/products", values, spec.PageParam, view)
	assert.Empty(t, links.Next)
	assert.NotEmpty(t, links.Prev)
}

func TestBuildLinks(t *testing.T) {
	spec, _ := Lookup(KindProducts)
	items := make([]Resource, 13)
	for i := range items {
		items[i] = Resource{ID: int64(i + 1)}
	}
	page := BuildView(spec, items, ViewParams{Filter: FilterActive, Page: 2, PageSize: 6})

	links := BuildLinks("/api/v1/products", url.Values{}, spec.PageParam, page)
	assert.Equal(t, "/api/v1/products?productpage=2", links.Self)
	assert.Equal(t, "/api/v1/products?productpage=3", links.Next)
	assert.Equal(t, "/api/v1/products?productpage=1", links.Prev)
}

func TestParseResource(t *testing.T) {
	spec, _ := Lookup(KindEmployees)
	r, err := ParseResource(spec, json.RawMessage(`{"employeeId":"42","fullName":"Ana","position":"Manager","isDeletedStatus":false}`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), r.ID)
	assert.Equal(t, "Ana", r.Name)
	assert.False(t, r.InTrash)
	assert.Equal(t, "Manager", r.String("position"))

	_, err = ParseResource(spec, json.RawMessage(`{"fullName":"No id"}`))
	assert.Error(t, err)

	_, err = ParseResources(spec, json.RawMessage(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestResource_MarshalKeepsBackendShape(t *testing.T) {
	spec, _ := Lookup(KindBrands)
	raw := `{"activeStatus":true,"brandId":5,"brandName":"Acme","extra":{"a":1}}`
	r, err := ParseResource(spec, json.RawMessage(raw))
	require.NoError(t, err)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestParseKind(t *testing.T) {
	spec, err := ParseKind("Reviews")
	require.NoError(t, err)
	assert.Equal(t, "reviewpage", spec.PageParam)
	assert.Equal(t, "/reviews/harddelete/3", spec.HardDeletePath(3))
	assert.Equal(t, "/reviews/restore/3", spec.RestorePath(3))
	assert.Equal(t, "/reviews/status/3", spec.StatusPath(3))

	_, err = ParseKind("suppliers")
	assert.Error(t, err)
	assert.Len(t, Kinds(), 7)
}
