package services

import (
	"context"

	"github.com/google/uuid"
	meili "github.com/meilisearch/meilisearch-go"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const productsIndex = "portal_products"

// ProductIndex keeps the public product search in step with approvals.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Project) error
	RemoveProduct(ctx context.Context, id uuid.UUID) error
}

// ProductDocument is the searchable form of an approved project.
type ProductDocument struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Tagline       string   `json:"tagline"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Tags          []string `json:"tags"`
	Technologies  []string `json:"technologies"`
	ProductStatus string   `json:"productStatus"`
	Departments   []string `json:"departments"`
	DemoURL       string   `json:"demoUrl,omitempty"`
	GithubURL     string   `json:"githubUrl,omitempty"`
}

func productDocument(p *models.Project) ProductDocument {
	doc := ProductDocument{
		ID:            p.ID.String(),
		Name:          p.Name,
		Tagline:       p.Tagline,
		Description:   p.Description,
		Image:         p.Image,
		Tags:          []string(p.Tags),
		Technologies:  []string(p.Technologies),
		ProductStatus: string(p.ProductStatus),
		Departments:   make([]string, 0, len(p.Departments)),
	}
	for _, d := range p.Departments {
		doc.Departments = append(doc.Departments, d.Slug)
	}
	if p.DemoURL != nil {
		doc.DemoURL = *p.DemoURL
	}
	if p.GithubURL != nil {
		doc.GithubURL = *p.GithubURL
	}
	return doc
}

// MeiliProductIndex indexes products in Meilisearch.
type MeiliProductIndex struct {
	client meili.ServiceManager
	logger zerolog.Logger
}

// NewMeiliProductIndex creates the client and makes sure the products index exists
// with its filterable and searchable attributes. Setup failures are logged; the
// index calls report their own errors later.
func NewMeiliProductIndex(url, apiKey string) *MeiliProductIndex {
	m := &MeiliProductIndex{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		logger: log.With().Str("service", "productIndex").Logger(),
	}

	if _, err := m.client.Health(); err != nil {
		m.logger.Warn().Err(err).Str("url", url).Msg("meilisearch unavailable")
		return m
	}
	m.configure()
	return m
}

func (m *MeiliProductIndex) configure() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        productsIndex,
		PrimaryKey: "id",
	}); err != nil {
		m.logger.Debug().Err(err).Msg("create products index (may already exist)")
	}

	index := m.client.Index(productsIndex)
	filterable := []interface{}{"departments", "productStatus", "tags", "technologies"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		m.logger.Warn().Err(err).Msg("update filterable attributes")
	}
	searchable := []string{"name", "tagline", "description", "tags", "technologies"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		m.logger.Warn().Err(err).Msg("update searchable attributes")
	}
}

// IndexProduct adds or replaces the product document.
func (m *MeiliProductIndex) IndexProduct(_ context.Context, p *models.Project) error {
	_, err := m.client.Index(productsIndex).AddDocuments([]ProductDocument{productDocument(p)}, nil)
	return err
}

// RemoveProduct deletes the product document. Removing an unknown id is not an error.
func (m *MeiliProductIndex) RemoveProduct(_ context.Context, id uuid.UUID) error {
	_, err := m.client.Index(productsIndex).DeleteDocument(id.String(), nil)
	return err
}

type nopIndex struct{}

func (nopIndex) IndexProduct(context.Context, *models.Project) error { return nil }
func (nopIndex) RemoveProduct(context.Context, uuid.UUID) error      { return nil }
