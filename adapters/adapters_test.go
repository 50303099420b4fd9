package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"product-extractor/internal/config"
	"product-extractor/internal/types"
)

const amazonPage = `<html><body>
<div id="centerCol">
  <h1 id="title"><span id="productTitle">
      The Psychology of Money
  </span></h1>
  <div id="averageCustomerReviews">
    <span id="acrPopover"><span class="a-icon-alt">4.6 out of 5 stars</span></span>
  </div>
  <div id="corePrice"><span class="a-price"><span class="a-offscreen">₹285</span><span class="a-price-whole">285</span></span></div>
  <div id="availability"><span class="a-size-medium a-color-success"> In stock </span></div>
</div>
<div id="reviews"><span class="a-icon-alt">1.0 out of 5 stars</span></div>
</body></html>`

func newDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newAmazon(t *testing.T) *AmazonAdapter {
	t.Helper()
	adapter := NewAmazonAdapter(types.DefaultConfig(), logrus.New())
	t.Cleanup(adapter.Close)
	return adapter
}

func TestAmazonExtract_AllFields(t *testing.T) {
	record := newAmazon(t).Extract(newDoc(t, amazonPage))

	assert.Equal(t, types.ProductRecord{
		Title:        "The Psychology of Money",
		Price:        "₹285",
		Rating:       "4.6 out of 5 stars",
		Availability: "In stock",
	}, record)
}

func TestAmazonExtract_MissingPrice(t *testing.T) {
	html := strings.Replace(amazonPage,
		`<div id="corePrice"><span class="a-price"><span class="a-offscreen">₹285</span><span class="a-price-whole">285</span></span></div>`,
		"", 1)

	record := newAmazon(t).Extract(newDoc(t, html))

	assert.Equal(t, types.DefaultPrice, record.Price)
	assert.Equal(t, "The Psychology of Money", record.Title)
	assert.Equal(t, "4.6 out of 5 stars", record.Rating)
	assert.Equal(t, "In stock", record.Availability)
}

func TestAmazonExtract_WhitespaceAvailability(t *testing.T) {
	html := strings.Replace(amazonPage,
		`<span class="a-size-medium a-color-success"> In stock </span>`,
		"<span>  \n\t  </span>", 1)

	record := newAmazon(t).Extract(newDoc(t, html))

	assert.Equal(t, types.DefaultAvailability, record.Availability)
	assert.Equal(t, "₹285", record.Price)
}

func TestAmazonExtract_EmptyDocument(t *testing.T) {
	adapter := newAmazon(t)

	assert.Equal(t, types.DefaultProductRecord(), adapter.Extract(newDoc(t, "")))
	assert.Equal(t, types.DefaultProductRecord(), adapter.Extract(newDoc(t, "<html><body><p>nothing here</p></body></html>")))
}

func TestAmazonExtract_NilDocument(t *testing.T) {
	assert.Equal(t, types.DefaultProductRecord(), newAmazon(t).Extract(nil))
}

func TestAmazonExtract_Idempotent(t *testing.T) {
	adapter := newAmazon(t)
	doc := newDoc(t, amazonPage)

	assert.Equal(t, adapter.Extract(doc), adapter.Extract(doc))
}

func TestAmazonExtract_FieldIndependence(t *testing.T) {
	adapter := newAmazon(t)
	full := adapter.Extract(newDoc(t, amazonPage))

	removals := map[string]string{
		"title": `<h1 id="title"><span id="productTitle">
      The Psychology of Money
  </span></h1>`,
		"price":        `<div id="corePrice"><span class="a-price"><span class="a-offscreen">₹285</span><span class="a-price-whole">285</span></span></div>`,
		"rating":       `<span id="acrPopover"><span class="a-icon-alt">4.6 out of 5 stars</span></span>`,
		"availability": `<div id="availability"><span class="a-size-medium a-color-success"> In stock </span></div>`,
	}

	for field, fragment := range removals {
		field, fragment := field, fragment
		t.Run(field, func(t *testing.T) {
			require.Contains(t, amazonPage, fragment)
			record := adapter.Extract(newDoc(t, strings.Replace(amazonPage, fragment, "", 1)))

			got := map[string]string{
				"title":        record.Title,
				"price":        record.Price,
				"rating":       record.Rating,
				"availability": record.Availability,
			}
			want := map[string]string{
				"title":        full.Title,
				"price":        full.Price,
				"rating":       full.Rating,
				"availability": full.Availability,
			}
			delete(got, field)
			delete(want, field)
			assert.Equal(t, want, got)
		})
	}
}

func TestAmazonExtract_FirstMatchWins(t *testing.T) {
	html := `<html><body>
<span id="productTitle">First</span>
<span class="a-price"><span class="a-offscreen">$10.00</span></span>
<span class="a-price"><span class="a-offscreen">$99.00</span></span>
</body></html>`

	record := newAmazon(t).Extract(newDoc(t, html))

	assert.Equal(t, "First", record.Title)
	assert.Equal(t, "$10.00", record.Price)
}

func TestAmazonExtract_PriceVerbatim(t *testing.T) {
	for _, price := range []string{"€ 12,99", "¥1,200", "US$ 9.99 - $19.99", "call for price"} {
		html := `<span class="a-price"><span class="a-offscreen">` + price + `</span></span>`
		record := newAmazon(t).Extract(newDoc(t, html))
		assert.Equal(t, price, record.Price)
	}
}

func TestAmazonExtract_FallbackSelectors(t *testing.T) {
	html := `<html><body>
<span id="priceblock_dealprice"> ₹199 </span>
<i><span class="a-icon-alt">4.1 out of 5 stars</span></i>
<div id="availability"> Only 2 left in stock. </div>
</body></html>`

	record := newAmazon(t).Extract(newDoc(t, html))

	assert.Equal(t, types.DefaultTitle, record.Title)
	assert.Equal(t, "₹199", record.Price)
	assert.Equal(t, "4.1 out of 5 stars", record.Rating)
	assert.Equal(t, "Only 2 left in stock.", record.Availability)
}

func TestAmazonMatches(t *testing.T) {
	adapter := newAmazon(t)

	assert.True(t, adapter.Matches("www.amazon.in"))
	assert.True(t, adapter.Matches("amazon.com"))
	assert.True(t, adapter.Matches("AMZN.in"))
	assert.False(t, adapter.Matches("notamazon.example.com"))
	assert.False(t, adapter.Matches("books.toscrape.com"))
}

const booksPage = `<html><body>
<div class="col-sm-6 product_main">
  <h1>A Light in the Attic</h1>
  <p class="price_color">£51.77</p>
  <p class="instock availability">
    <i class="icon-ok"></i>

        In stock (22 available)

  </p>
  <p class="star-rating Three">
    <i class="icon-star"></i>
  </p>
</div>
</body></html>`

func TestBooksToScrapeExtract(t *testing.T) {
	adapter := NewBooksToScrapeAdapter(types.DefaultConfig(), logrus.New())
	defer adapter.Close()

	record := adapter.Extract(newDoc(t, booksPage))

	assert.Equal(t, types.ProductRecord{
		Title:        "A Light in the Attic",
		Price:        "£51.77",
		Rating:       "3 out of 5 stars",
		Availability: "In stock (22 available)",
	}, record)
}

func TestBooksToScrapeExtract_UnknownStarWord(t *testing.T) {
	adapter := NewBooksToScrapeAdapter(types.DefaultConfig(), logrus.New())
	defer adapter.Close()

	record := adapter.Extract(newDoc(t, `<div class="product_main"><h1>Book</h1><p class="star-rating Zero"></p></div>`))

	assert.Equal(t, "Book", record.Title)
	assert.Equal(t, types.DefaultRating, record.Rating)
}

func TestApplyTransform(t *testing.T) {
	value, ok := ApplyTransform(TransformStarRating, "star-rating Five")
	assert.True(t, ok)
	assert.Equal(t, "5 out of 5 stars", value)

	value, ok = ApplyTransform(TransformCollapse, "  In \n\n stock  ")
	assert.True(t, ok)
	assert.Equal(t, "In stock", value)

	_, ok = ApplyTransform(TransformStarRating, "star-rating")
	assert.False(t, ok)

	value, ok = ApplyTransform(TransformNone, "as is")
	assert.True(t, ok)
	assert.Equal(t, "as is", value)
}

func TestExtractAttribute(t *testing.T) {
	doc := newDoc(t, `<a class="buy" href=" /cart ">Buy</a><a class="empty" href="  "></a>`)

	value, ok := ExtractAttribute(doc.Selection, "a.buy", "href")
	assert.True(t, ok)
	assert.Equal(t, "/cart", value)

	_, ok = ExtractAttribute(doc.Selection, "a.buy", "data-missing")
	assert.False(t, ok)

	_, ok = ExtractAttribute(doc.Selection, "a.empty", "href")
	assert.False(t, ok)

	_, ok = ExtractAttribute(doc.Selection, "a.none", "href")
	assert.False(t, ok)
}

func TestExtractText(t *testing.T) {
	doc := newDoc(t, "<p class=\"a\"> first </p><p class=\"a\">second</p><p class=\"blank\"> \n\t </p>")

	value, ok := ExtractText(doc.Selection, "p.a")
	assert.True(t, ok)
	assert.Equal(t, "first", value)

	_, ok = ExtractText(doc.Selection, "p.blank")
	assert.False(t, ok)

	_, ok = ExtractText(doc.Selection, "p.none")
	assert.False(t, ok)
}

func TestResolveRule_UsesAttributeWhenSet(t *testing.T) {
	doc := newDoc(t, `<p class="star-rating Four">ignored text</p>`)

	value, ok := ResolveRule(doc.Selection, "p", types.FieldRule{Attribute: "class", Transform: TransformStarRating})
	assert.True(t, ok)
	assert.Equal(t, "4 out of 5 stars", value)

	value, ok = ResolveRule(doc.Selection, "p", types.FieldRule{})
	assert.True(t, ok)
	assert.Equal(t, "ignored text", value)
}

func TestConfiguredAdapter(t *testing.T) {
	site, err := config.ParseSiteConfig([]byte(`
name: demo
display_name: Demo Shop
hosts: [shop.example.com]
fields:
  title: {selectors: [".name"]}
  price: {selectors: [".cost"]}
  rating: {selectors: [".stars"], attribute: data-score}
  availability: {selectors: [".stock"], transform: collapse}
`))
	require.NoError(t, err)

	adapter, err := NewConfiguredAdapter(site, types.DefaultConfig(), logrus.New())
	require.NoError(t, err)
	defer adapter.Close()

	record := adapter.Extract(newDoc(t, `<div class="name">Widget</div><div class="cost">$5</div>
<div class="stars" data-score="4.2 of 5"></div><div class="stock">Ships   tomorrow</div>`))

	assert.Equal(t, "demo", adapter.Name())
	assert.Equal(t, "Demo Shop", adapter.DisplayName())
	assert.True(t, adapter.Matches("SHOP.example.com"))
	assert.Equal(t, types.ProductRecord{
		Title:        "Widget",
		Price:        "$5",
		Rating:       "4.2 of 5",
		Availability: "Ships tomorrow",
	}, record)
}

func TestConfiguredAdapter_UnknownTransform(t *testing.T) {
	site := &config.SiteConfig{
		Name: "bad",
		Fields: types.FieldRules{
			Title:        types.FieldRule{Selectors: []string{"h1"}, Transform: "uppercase"},
			Price:        types.FieldRule{Selectors: []string{".p"}},
			Rating:       types.FieldRule{Selectors: []string{".r"}},
			Availability: types.FieldRule{Selectors: []string{".a"}},
		},
	}

	_, err := NewConfiguredAdapter(site, types.DefaultConfig(), logrus.New())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transform")
}

func TestRegistry(t *testing.T) {
	registry := NewDefaultRegistry(types.DefaultConfig(), logrus.New())
	defer registry.Close()

	adapter, err := registry.ForURL("https://www.amazon.in/dp/9390166268")
	require.NoError(t, err)
	assert.Equal(t, "amazon", adapter.Name())

	adapter, err = registry.ForURL("http://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html")
	require.NoError(t, err)
	assert.Equal(t, "bookstoscrape", adapter.Name())

	adapter, err = registry.ForURL("https://shop.example.org/item/1")
	require.NoError(t, err)
	assert.Equal(t, "amazon", adapter.Name())

	_, err = registry.ForURL("ftp://books.toscrape.com/file")
	assert.Error(t, err)

	_, err = registry.ForURL("not a url")
	assert.Error(t, err)

	adapter, err = registry.ByName("BooksToScrape")
	require.NoError(t, err)
	assert.Equal(t, "bookstoscrape", adapter.Name())

	_, err = registry.ByName("unsupported-site")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no adapter found")

	assert.Equal(t, []string{"bookstoscrape", "amazon"}, registry.Names())
}

func TestAmazonFetchDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(amazonPage))
	}))
	defer server.Close()

	adapter := newAmazon(t)
	doc, err := adapter.FetchDocument(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "The Psychology of Money", adapter.Extract(doc).Title)
}

func TestAmazonFetchDocument_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newAmazon(t).FetchDocument(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get page content")
}

func TestAmazonFetchDocument_MissingTitleStillFetches(t *testing.T) {
	page := strings.Replace(amazonPage, `<span id="productTitle">
      The Psychology of Money
  </span>`, "", 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	adapter := newAmazon(t)
	doc, err := adapter.FetchDocument(context.Background(), server.URL)
	require.NoError(t, err)

	record := adapter.Extract(doc)
	assert.Equal(t, types.DefaultTitle, record.Title)
	assert.Equal(t, "₹285", record.Price)
	assert.Equal(t, "4.6 out of 5 stars", record.Rating)
}
