package enums

import "fmt"

// Page identifies a navigable storefront page.
type Page string

const (
	PageHome     Page = "home"
	PageShops    Page = "shops"
	PageShop     Page = "shop"
	PageSearch   Page = "search"
	PageCart     Page = "cart"
	PageCheckout Page = "checkout"
	PageProfile  Page = "profile"
	PageOrders   Page = "orders"
	PageAuth     Page = "auth"
)

var validPages = []Page{
	PageHome,
	PageShops,
	PageShop,
	PageSearch,
	PageCart,
	PageCheckout,
	PageProfile,
	PageOrders,
	PageAuth,
}

// String implements fmt.Stringer.
func (p Page) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Page.
func (p Page) IsValid() bool {
	for _, candidate := range validPages {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresIdentity reports whether the page is behind the auth gate.
func (p Page) RequiresIdentity() bool {
	switch p {
	case PageProfile, PageOrders, PageCheckout:
		return true
	default:
		return false
	}
}

// ParsePage converts raw input into a Page.
func ParsePage(value string) (Page, error) {
	for _, candidate := range validPages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid page %q", value)
}
