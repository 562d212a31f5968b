package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Kind is a backend resource collection
type Kind string

const (
	KindBrands     Kind = "brands"
	KindCategories Kind = "categories"
	KindProducts   Kind = "products"
	KindEmployees  Kind = "employees"
	KindCustomers  Kind = "customers"
	KindOrders     Kind = "orders"
	KindReviews    Kind = "reviews"
)

// StatusField names the boolean flag that decides active vs trashbin
type StatusField string

const (
	// StatusActive marks live rows with true
	StatusActive StatusField = "activeStatus"
	// StatusDeleted marks trashed rows with true
	StatusDeleted StatusField = "isDeletedStatus"
)

// KindSpec describes how one collection is addressed and filtered
type KindSpec struct {
	Kind         Kind
	Path         string
	PageParam    string
	StatusField  StatusField
	IDField      string
	NameField    string
	SearchFields []string
	// Public collections are readable without a session
	Public bool
}

var kindSpecs = []KindSpec{
	{Kind: KindBrands, Path: "/brands", PageParam: "brandpage", StatusField: StatusActive,
		IDField: "brandId", NameField: "brandName", SearchFields: []string{"brandName", "description"}, Public: true},
	{Kind: KindCategories, Path: "/categories", PageParam: "categorypage", StatusField: StatusActive,
		IDField: "categoryId", NameField: "categoryName", SearchFields: []string{"categoryName", "description"}, Public: true},
	{Kind: KindProducts, Path: "/products", PageParam: "productpage", StatusField: StatusActive,
		IDField: "productId", NameField: "productName", SearchFields: []string{"productName", "description", "brandName", "categoryName"}, Public: true},
	{Kind: KindEmployees, Path: "/employees", PageParam: "employeepage", StatusField: StatusDeleted,
		IDField: "employeeId", NameField: "fullName", SearchFields: []string{"fullName", "userName", "email", "position"}},
	{Kind: KindCustomers, Path: "/customers", PageParam: "customerpage", StatusField: StatusDeleted,
		IDField: "customerId", NameField: "fullName", SearchFields: []string{"fullName", "userName", "email", "phone"}},
	{Kind: KindOrders, Path: "/orders", PageParam: "orderpage", StatusField: StatusDeleted,
		IDField: "orderId", NameField: "fullName", SearchFields: []string{"fullName", "email", "phone", "orderStatus"}},
	{Kind: KindReviews, Path: "/reviews", PageParam: "reviewpage", StatusField: StatusActive,
		IDField: "reviewId", NameField: "productName", SearchFields: []string{"productName", "content", "fullName"}},
}

// Kinds returns every known collection in display order
func Kinds() []KindSpec {
	return slices.Clone(kindSpecs)
}

// Lookup returns the spec for k
func Lookup(k Kind) (KindSpec, bool) {
	i := slices.IndexFunc(kindSpecs, func(s KindSpec) bool { return s.Kind == k })
	if i < 0 {
		return KindSpec{}, false
	}
	return kindSpecs[i], true
}

// ParseKind resolves a path segment to a KindSpec
func ParseKind(s string) (KindSpec, error) {
	spec, ok := Lookup(Kind(strings.ToLower(strings.TrimSpace(s))))
	if !ok {
		return KindSpec{}, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("unknown resource kind %q", s))
	}
	return spec, nil
}

// ItemPath is the backend path of one resource
func (k KindSpec) ItemPath(id int64) string {
	return fmt.Sprintf("%s/%d", k.Path, id)
}

// StatusPath is the backend path toggling a resource's status
func (k KindSpec) StatusPath(id int64) string {
	return fmt.Sprintf("%s/status/%d", k.Path, id)
}

// RestorePath is the backend path restoring a trashed resource
func (k KindSpec) RestorePath(id int64) string {
	return fmt.Sprintf("%s/restore/%d", k.Path, id)
}

// HardDeletePath is the backend path removing a resource permanently
func (k KindSpec) HardDeletePath(id int64) string {
	return fmt.Sprintf("%s/harddelete/%d", k.Path, id)
}
