package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
	repo "github.com/oksasatya/bienesraices/internal/domain/repository"
	"github.com/oksasatya/bienesraices/pkg/helpers"
)

const (
	// PageSize is the number of listings per dashboard page.
	PageSize = 10

	// CatalogCacheKey holds the cached categories and prices.
	CatalogCacheKey = "catalog:options"

	homeSectionSize = 3
	browseLimit     = 50
	minMessageLen   = 10
)

// ImageStore saves and removes property pictures.
type ImageStore interface {
	Save(ctx context.Context, ownerID string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// SearchIndex mirrors published listings into a full-text index.
type SearchIndex interface {
	Enabled() bool
	Index(ctx context.Context, p *entity.Property) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, term string, size int) ([]string, error)
}

type PropertyService struct {
	Properties repo.PropertyRepository
	Catalog    repo.CatalogRepository
	Inbox      repo.MessageRepository
	Images     ImageStore
	Search     SearchIndex
	Redis      *redis.Client
	CacheTTL   time.Duration
	Logger     *logrus.Logger
}

func NewPropertyService(props repo.PropertyRepository, catalog repo.CatalogRepository, msgs repo.MessageRepository,
	images ImageStore, search SearchIndex, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *PropertyService {
	return &PropertyService{
		Properties: props,
		Catalog:    catalog,
		Inbox:      msgs,
		Images:     images,
		Search:     search,
		Redis:      rdb,
		CacheTTL:   cacheTTL,
		Logger:     logger,
	}
}

// PropertyInput carries the editable listing fields.
type PropertyInput struct {
	Title       string
	Description string
	Rooms       int
	Parking     int
	Bathrooms   int
	Street      string
	Lat         string
	Lng         string
	PriceID     int
	CategoryID  int
}

type FormOptions struct {
	Categories []entity.Category `json:"categorias"`
	Prices     []entity.Price    `json:"precios"`
}

type DashboardPage struct {
	Properties []entity.Property `json:"propiedades"`
	Page       int               `json:"paginaActual"`
	Pages      int               `json:"paginas"`
	Total      int               `json:"total"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

type HomeSection struct {
	Category   entity.Category   `json:"categoria"`
	Properties []entity.Property `json:"propiedades"`
}

type HomeView struct {
	Categories []entity.Category `json:"categorias"`
	Prices     []entity.Price    `json:"precios"`
	Sections   []HomeSection     `json:"secciones"`
}

// Dashboard lists the owner's properties, PageSize per page, newest first.
func (s *PropertyService) Dashboard(ctx context.Context, ownerID string, page int) (*DashboardPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize
	total, err := s.Properties.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}
	list, err := s.Properties.ListByOwner(ctx, ownerID, PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	if list == nil {
		list = []entity.Property{}
	}
	return &DashboardPage{
		Properties: list,
		Page:       page,
		Pages:      (total + PageSize - 1) / PageSize,
		Total:      total,
		Limit:      PageSize,
		Offset:     offset,
	}, nil
}

// FormOptions returns the category and price lookups, cached in Redis when available.
func (s *PropertyService) FormOptions(ctx context.Context) (*FormOptions, error) {
	var cached FormOptions
	if ok, err := helpers.RedisGetJSON(ctx, s.Redis, CatalogCacheKey, &cached); err != nil {
		helpers.LogError(s.Logger, "catalog cache read failed", err, nil)
	} else if ok {
		return &cached, nil
	}

	cats, err := s.Catalog.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	prices, err := s.Catalog.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	opts := &FormOptions{Categories: cats, Prices: prices}
	if err := helpers.RedisSetJSON(ctx, s.Redis, CatalogCacheKey, opts, s.CacheTTL); err != nil {
		helpers.LogError(s.Logger, "catalog cache write failed", err, nil)
	}
	return opts, nil
}

func (s *PropertyService) checkCatalog(ctx context.Context, in PropertyInput) error {
	opts, err := s.FormOptions(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, c := range opts.Categories {
		if c.ID == in.CategoryID {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownCategory
	}
	for _, p := range opts.Prices {
		if p.ID == in.PriceID {
			return nil
		}
	}
	return ErrUnknownPrice
}

func checkInputLengths(in PropertyInput) error {
	return checkLengths(
		lengthRule{"titulo", strings.TrimSpace(in.Title), maxTitleLen},
		lengthRule{"calle", strings.TrimSpace(in.Street), maxStreetLen},
		lengthRule{"lat", in.Lat, maxCoordLen},
		lengthRule{"lng", in.Lng, maxCoordLen},
	)
}

func applyInput(p *entity.Property, in PropertyInput) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.Rooms = in.Rooms
	p.Parking = in.Parking
	p.Bathrooms = in.Bathrooms
	p.Street = strings.TrimSpace(in.Street)
	p.Lat = in.Lat
	p.Lng = in.Lng
	p.PriceID = in.PriceID
	p.CategoryID = in.CategoryID
}

// Create stores a new unpublished listing without image.
func (s *PropertyService) Create(ctx context.Context, ownerID string, in PropertyInput) (*entity.Property, error) {
	if err := checkInputLengths(in); err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, in); err != nil {
		return nil, err
	}
	p := &entity.Property{UserID: ownerID}
	applyInput(p, in)
	if err := s.Properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return p, nil
}

// GetForEdit loads a listing its owner is about to edit.
func (s *PropertyService) GetForEdit(ctx context.Context, id, ownerID string) (*entity.Property, error) {
	return s.owned(ctx, id, ownerID)
}

// Update rewrites the editable fields. The owner and publication state are kept.
func (s *PropertyService) Update(ctx context.Context, id, ownerID string, in PropertyInput) (*entity.Property, error) {
	p, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := checkInputLengths(in); err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, in); err != nil {
		return nil, err
	}
	applyInput(p, in)
	if err := s.Properties.Update(ctx, p); err != nil {
		return nil, s.notFound(err, "update property")
	}
	if fresh, err := s.Properties.GetByID(ctx, p.ID); err == nil {
		p = fresh
	}
	if p.Published {
		s.reindex(ctx, p)
	}
	return p, nil
}

// Delete removes the listing together with its image and search document.
func (s *PropertyService) Delete(ctx context.Context, id, ownerID string) error {
	p, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.Properties.Delete(ctx, p.ID); err != nil {
		return s.notFound(err, "delete property")
	}
	if p.Image != "" && s.Images != nil {
		if err := s.Images.Delete(ctx, p.Image); err != nil {
			helpers.LogError(s.Logger, "delete image failed", err, logrus.Fields{"property_id": p.ID})
		}
	}
	s.unindex(ctx, p.ID)
	return nil
}

// TogglePublished flips the published flag and returns the new value.
func (s *PropertyService) TogglePublished(ctx context.Context, id, ownerID string) (bool, error) {
	p, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	p.Published = !p.Published
	if err := s.Properties.SetPublished(ctx, p.ID, p.Published); err != nil {
		return false, s.notFound(err, "toggle property")
	}
	if p.Published {
		s.reindex(ctx, p)
	} else {
		s.unindex(ctx, p.ID)
	}
	return p.Published, nil
}

// ImageTarget loads a listing that may still receive its image.
func (s *PropertyService) ImageTarget(ctx context.Context, id, ownerID string) (*entity.Property, error) {
	p, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if p.Published {
		return nil, ErrAlreadyPublished
	}
	return p, nil
}

// AttachImage stores the picture and publishes the listing.
func (s *PropertyService) AttachImage(ctx context.Context, id, ownerID string, r io.Reader) (*entity.Property, error) {
	p, err := s.ImageTarget(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if s.Images == nil {
		return nil, errors.New("image storage not configured")
	}
	ref, err := s.Images.Save(ctx, ownerID, r)
	if err != nil {
		return nil, err
	}
	previous := p.Image

	if err := s.Properties.SetImage(ctx, p.ID, ref); err != nil {
		s.dropImage(ctx, ref, p.ID)
		return nil, s.notFound(err, "store image")
	}
	if err := s.Properties.SetPublished(ctx, p.ID, true); err != nil {
		return nil, s.notFound(err, "publish property")
	}
	p.Image = ref
	p.Published = true
	if previous != "" && previous != ref {
		s.dropImage(ctx, previous, p.ID)
	}
	s.reindex(ctx, p)
	return p, nil
}

// Messages lists contact messages on one of the owner's listings.
func (s *PropertyService) Messages(ctx context.Context, id, ownerID string) (*entity.Property, []entity.Message, error) {
	p, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.Inbox.ListByProperty(ctx, p.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []entity.Message{}
	}
	return p, msgs, nil
}

// Show returns a published listing and whether viewerID is its seller.
func (s *PropertyService) Show(ctx context.Context, id, viewerID string) (*entity.Property, bool, error) {
	p, err := s.public(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, p.IsOwnedBy(viewerID), nil
}

// SendMessage stores a buyer's message on a published listing.
func (s *PropertyService) SendMessage(ctx context.Context, propertyID, senderID, body string) (*entity.Message, error) {
	p, err := s.public(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if senderID == "" {
		return nil, ErrLoginRequired
	}
	if p.IsOwnedBy(senderID) {
		return nil, ErrOwnProperty
	}
	body = strings.TrimSpace(body)
	switch n := len([]rune(body)); {
	case n < minMessageLen:
		return nil, ErrMessageTooShort
	case n > maxMessageLen:
		return nil, ErrMessageTooLong
	}
	m := &entity.Message{Body: body, PropertyID: p.ID, UserID: senderID}
	if err := s.Inbox.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// Home returns the lookups plus the newest listings of each category.
func (s *PropertyService) Home(ctx context.Context) (*HomeView, error) {
	opts, err := s.FormOptions(ctx)
	if err != nil {
		return nil, err
	}
	view := &HomeView{Categories: opts.Categories, Prices: opts.Prices, Sections: []HomeSection{}}
	for _, c := range opts.Categories {
		list, err := s.Properties.ListPublished(ctx, c.ID, homeSectionSize)
		if err != nil {
			return nil, fmt.Errorf("list category %d: %w", c.ID, err)
		}
		if len(list) == 0 {
			continue
		}
		view.Sections = append(view.Sections, HomeSection{Category: c, Properties: list})
	}
	return view, nil
}

// ByCategory lists the published listings of one category.
func (s *PropertyService) ByCategory(ctx context.Context, categoryID int) (*entity.Category, []entity.Property, error) {
	opts, err := s.FormOptions(ctx)
	if err != nil {
		return nil, nil, err
	}
	var cat *entity.Category
	for i := range opts.Categories {
		if opts.Categories[i].ID == categoryID {
			cat = &opts.Categories[i]
			break
		}
	}
	if cat == nil {
		return nil, nil, ErrCategoryNotFound
	}
	list, err := s.Properties.ListPublished(ctx, categoryID, browseLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("list category: %w", err)
	}
	if list == nil {
		list = []entity.Property{}
	}
	return cat, list, nil
}

// SearchListings runs a full-text search over published listings. The index
// is used when available; SQL matching is the fallback.
func (s *PropertyService) SearchListings(ctx context.Context, term string) ([]entity.Property, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []entity.Property{}, nil
	}
	if s.Search != nil && s.Search.Enabled() {
		ids, err := s.Search.Search(ctx, term, browseLimit)
		if err == nil {
			return s.byIDs(ctx, ids)
		}
		helpers.LogError(s.Logger, "search index query failed; using sql", err, logrus.Fields{"term": term})
	}
	list, err := s.Properties.SearchPublished(ctx, term, browseLimit)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	if list == nil {
		list = []entity.Property{}
	}
	return list, nil
}

// byIDs loads listings keeping the index ranking.
func (s *PropertyService) byIDs(ctx context.Context, ids []string) ([]entity.Property, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	list, err := s.Properties.ListPublishedByIDs(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("load search hits: %w", err)
	}
	byID := make(map[string]entity.Property, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}
	out := make([]entity.Property, 0, len(list))
	for _, id := range valid {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PropertyService) load(ctx context.Context, id string) (*entity.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPropertyNotFound
	}
	p, err := s.Properties.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err, "load property")
	}
	return p, nil
}

// owned loads a property and verifies the owner before anything else happens.
func (s *PropertyService) owned(ctx context.Context, id, ownerID string) (*entity.Property, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(ownerID) {
		return nil, ErrNotOwner
	}
	return p, nil
}

func (s *PropertyService) public(ctx context.Context, id string) (*entity.Property, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

func (s *PropertyService) notFound(err error, op string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrPropertyNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PropertyService) dropImage(ctx context.Context, ref, propertyID string) {
	if err := s.Images.Delete(ctx, ref); err != nil {
		helpers.LogError(s.Logger, "delete image failed", err, logrus.Fields{"property_id": propertyID})
	}
}

func (s *PropertyService) reindex(ctx context.Context, p *entity.Property) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, p); err != nil {
		helpers.LogError(s.Logger, "index property failed", err, logrus.Fields{"property_id": p.ID})
	}
}

func (s *PropertyService) unindex(ctx context.Context, id string) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Remove(ctx, id); err != nil {
		helpers.LogError(s.Logger, "unindex property failed", err, logrus.Fields{"property_id": id})
	}
}
