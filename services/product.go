package services

import (
	"time"

	"github.com/rpupo63/research-portal-backend/models"
)

// Product is the public view of an approved project. Submitter details, review
// notes and the workflow version stay private.
type Product struct {
	ProductDocument
	Media       []ProductMedia   `json:"media"`
	Documents   []ProductDocLink `json:"documents"`
	PublishedAt *time.Time       `json:"publishedAt,omitempty"`
}

type ProductMedia struct {
	URL  string           `json:"url"`
	Kind models.MediaKind `json:"kind"`
}

type ProductDocLink struct {
	URL   string              `json:"url"`
	Title string              `json:"title"`
	Kind  models.DocumentKind `json:"kind"`
}

func newProduct(p *models.Project) Product {
	product := Product{
		ProductDocument: productDocument(p),
		Media:           make([]ProductMedia, 0, len(p.Media)),
		Documents:       make([]ProductDocLink, 0, len(p.Documents)),
		PublishedAt:     p.ReviewedAt,
	}
	for _, m := range p.Media {
		product.Media = append(product.Media, ProductMedia{URL: m.URL, Kind: m.Kind})
	}
	for _, d := range p.Documents {
		product.Documents = append(product.Documents, ProductDocLink{URL: d.URL, Title: d.Title, Kind: d.Kind})
	}
	return product
}

func newProducts(projects []models.Project) []Product {
	products := make([]Product, 0, len(projects))
	for i := range projects {
		products = append(products, newProduct(&projects[i]))
	}
	return products
}
