package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
	repo "github.com/oksasatya/bienesraices/internal/domain/repository"
)

const (
	propID = "6f1c0b8e-3c7e-4f0e-9d7f-1a2b3c4d5e6f"
	owner  = "owner-1"
	buyer  = "buyer-1"
)

type propFixture struct {
	props   *mockPropertyRepo
	catalog *mockCatalogRepo
	msgs    *mockMessageRepo
	images  *mockImageStore
	search  *mockSearchIndex
	svc     *PropertyService
}

func newPropFixture() *propFixture {
	f := &propFixture{
		props:   new(mockPropertyRepo),
		catalog: new(mockCatalogRepo),
		msgs:    new(mockMessageRepo),
		images:  new(mockImageStore),
		search:  new(mockSearchIndex),
	}
	f.svc = NewPropertyService(f.props, f.catalog, f.msgs, f.images, f.search, nil, 0, nil)
	f.catalog.On("Categories", mock.Anything).Return([]entity.Category{{ID: 1, Name: "Casa"}, {ID: 2, Name: "Departamento"}}, nil).Maybe()
	f.catalog.On("Prices", mock.Anything).Return([]entity.Price{{ID: 1, Name: "0 - $10,000 USD"}}, nil).Maybe()
	f.search.On("Enabled").Return(true).Maybe()
	f.search.On("Index", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.search.On("Remove", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func listing(published bool) *entity.Property {
	return &entity.Property{ID: propID, Title: "Casa en la playa", UserID: owner, Published: published, CategoryID: 1, PriceID: 1}
}

func validInput() PropertyInput {
	return PropertyInput{
		Title: "Casa en la playa", Description: "Bonita casa frente al mar",
		Rooms: 3, Parking: 1, Bathrooms: 2, Street: "Calle 1", Lat: "19.4", Lng: "-99.1",
		PriceID: 1, CategoryID: 1,
	}
}

func TestDashboard_Paginates(t *testing.T) {
	f := newPropFixture()
	f.props.On("CountByOwner", mock.Anything, owner).Return(23, nil)
	f.props.On("ListByOwner", mock.Anything, owner, PageSize, 10).Return([]entity.Property{*listing(false)}, nil)

	page, err := f.svc.Dashboard(context.Background(), owner, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 23, page.Total)
	assert.Len(t, page.Properties, 1)
}

func TestDashboard_ClampsPageAndEmptyList(t *testing.T) {
	f := newPropFixture()
	f.props.On("CountByOwner", mock.Anything, owner).Return(0, nil)
	f.props.On("ListByOwner", mock.Anything, owner, PageSize, 0).Return(nil, nil)

	page, err := f.svc.Dashboard(context.Background(), owner, -4)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.Pages)
	assert.NotNil(t, page.Properties)
}

func TestCreate_UnpublishedWithoutImage(t *testing.T) {
	f := newPropFixture()
	f.props.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Property) bool {
		return p.UserID == owner && !p.Published && p.Image == "" && p.Title == "Casa en la playa"
	})).Return(nil)

	p, err := f.svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	assert.Equal(t, owner, p.UserID)
	f.props.AssertExpectations(t)
}

func TestCreate_RejectsOverlongFields(t *testing.T) {
	f := newPropFixture()
	cases := []struct {
		field string
		max   int
		edit  func(in *PropertyInput)
	}{
		{"titulo", 100, func(in *PropertyInput) { in.Title = strings.Repeat("t", 150) }},
		{"calle", 60, func(in *PropertyInput) { in.Street = strings.Repeat("c", 61) }},
		{"lat", 30, func(in *PropertyInput) { in.Lat = strings.Repeat("1", 40) }},
		{"lng", 30, func(in *PropertyInput) { in.Lng = strings.Repeat("2", 31) }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			_, err := f.svc.Create(context.Background(), owner, in)
			var tooLong *FieldTooLongError
			require.ErrorAs(t, err, &tooLong)
			assert.Equal(t, tc.field, tooLong.Field)
			assert.Equal(t, tc.max, tooLong.Max)
		})
	}

	// multibyte text is measured in characters
	in := validInput()
	in.Title = strings.Repeat("ñ", 100)
	f.props.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	_, err := f.svc.Create(context.Background(), owner, in)
	require.NoError(t, err)
	f.props.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreate_RejectsUnknownCatalogIDs(t *testing.T) {
	f := newPropFixture()

	in := validInput()
	in.CategoryID = 9
	_, err := f.svc.Create(context.Background(), owner, in)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	in = validInput()
	in.PriceID = 9
	_, err = f.svc.Create(context.Background(), owner, in)
	assert.ErrorIs(t, err, ErrUnknownPrice)

	f.props.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOwnerOnlyOperations_RejectOtherUsers(t *testing.T) {
	ctx := context.Background()
	ops := map[string]func(s *PropertyService) error{
		"edit":     func(s *PropertyService) error { _, err := s.GetForEdit(ctx, propID, buyer); return err },
		"update":   func(s *PropertyService) error { _, err := s.Update(ctx, propID, buyer, validInput()); return err },
		"delete":   func(s *PropertyService) error { return s.Delete(ctx, propID, buyer) },
		"toggle":   func(s *PropertyService) error { _, err := s.TogglePublished(ctx, propID, buyer); return err },
		"image":    func(s *PropertyService) error { _, err := s.ImageTarget(ctx, propID, buyer); return err },
		"attach":   func(s *PropertyService) error { _, err := s.AttachImage(ctx, propID, buyer, strings.NewReader("x")); return err },
		"messages": func(s *PropertyService) error { _, _, err := s.Messages(ctx, propID, buyer); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			f := newPropFixture()
			f.props.On("GetByID", mock.Anything, propID).Return(listing(false), nil)

			assert.ErrorIs(t, op(f.svc), ErrNotOwner)

			for _, m := range []string{"Update", "Delete", "SetPublished", "SetImage"} {
				assert.False(t, called(f.props.Calls, m), "%s must not be called", m)
			}
			f.images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
			f.msgs.AssertNotCalled(t, "ListByProperty", mock.Anything, mock.Anything)
		})
	}
}

func called(calls []mock.Call, method string) bool {
	for _, c := range calls {
		if c.Method == method {
			return true
		}
	}
	return false
}

func TestLoad_InvalidOrMissingID(t *testing.T) {
	f := newPropFixture()
	_, err := f.svc.GetForEdit(context.Background(), "not-a-uuid", owner)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	f.props.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)

	f.props.On("GetByID", mock.Anything, propID).Return(nil, repo.ErrNotFound)
	_, err = f.svc.GetForEdit(context.Background(), propID, owner)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestUpdate_KeepsOwner(t *testing.T) {
	f := newPropFixture()
	current := listing(true)
	f.props.On("GetByID", mock.Anything, propID).Return(current, nil)
	f.props.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Property) bool {
		return p.UserID == owner && p.Title == "Nuevo titulo"
	})).Return(nil)

	in := validInput()
	in.Title = "Nuevo titulo"
	p, err := f.svc.Update(context.Background(), propID, owner, in)
	require.NoError(t, err)
	assert.Equal(t, owner, p.UserID)
	f.search.AssertCalled(t, "Index", mock.Anything, mock.Anything)
}

func TestTogglePublished(t *testing.T) {
	f := newPropFixture()
	f.props.On("GetByID", mock.Anything, propID).Return(listing(false), nil).Once()
	f.props.On("SetPublished", mock.Anything, propID, true).Return(nil).Once()

	published, err := f.svc.TogglePublished(context.Background(), propID, owner)
	require.NoError(t, err)
	assert.True(t, published)
	f.search.AssertCalled(t, "Index", mock.Anything, mock.Anything)

	f.props.On("GetByID", mock.Anything, propID).Return(listing(true), nil).Once()
	f.props.On("SetPublished", mock.Anything, propID, false).Return(nil).Once()

	published, err = f.svc.TogglePublished(context.Background(), propID, owner)
	require.NoError(t, err)
	assert.False(t, published)
	f.search.AssertCalled(t, "Remove", mock.Anything, propID)
	f.props.AssertExpectations(t)
}

func TestAttachImage_PublishesListing(t *testing.T) {
	f := newPropFixture()
	body := strings.NewReader("png-bytes")
	f.props.On("GetByID", mock.Anything, propID).Return(listing(false), nil)
	f.images.On("Save", mock.Anything, owner, body).Return("/uploads/properties/owner-1/a.png", nil)
	f.props.On("SetImage", mock.Anything, propID, "/uploads/properties/owner-1/a.png").Return(nil)
	f.props.On("SetPublished", mock.Anything, propID, true).Return(nil)

	p, err := f.svc.AttachImage(context.Background(), propID, owner, body)
	require.NoError(t, err)
	assert.True(t, p.Published)
	assert.Equal(t, "/uploads/properties/owner-1/a.png", p.Image)
	f.props.AssertExpectations(t)
	f.search.AssertCalled(t, "Index", mock.Anything, p)
}

func TestAttachImage_RejectsPublished(t *testing.T) {
	f := newPropFixture()
	f.props.On("GetByID", mock.Anything, propID).Return(listing(true), nil)

	_, err := f.svc.AttachImage(context.Background(), propID, owner, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrAlreadyPublished)
	f.images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachImage_RemovesUploadWhenStoreFails(t *testing.T) {
	f := newPropFixture()
	f.props.On("GetByID", mock.Anything, propID).Return(listing(false), nil)
	f.images.On("Save", mock.Anything, owner, mock.Anything).Return("/uploads/x.png", nil)
	f.images.On("Delete", mock.Anything, "/uploads/x.png").Return(nil)
	f.props.On("SetImage", mock.Anything, propID, "/uploads/x.png").Return(errors.New("db down"))

	_, err := f.svc.AttachImage(context.Background(), propID, owner, strings.NewReader("x"))
	assert.Error(t, err)
	f.images.AssertExpectations(t)
	f.props.AssertNotCalled(t, "SetPublished", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_RemovesImageAndIndex(t *testing.T) {
	f := newPropFixture()
	p := listing(true)
	p.Image = "/uploads/x.png"
	f.props.On("GetByID", mock.Anything, propID).Return(p, nil)
	f.props.On("Delete", mock.Anything, propID).Return(nil)
	f.images.On("Delete", mock.Anything, "/uploads/x.png").Return(errors.New("gone"))

	require.NoError(t, f.svc.Delete(context.Background(), propID, owner))
	f.images.AssertExpectations(t)
	f.search.AssertCalled(t, "Remove", mock.Anything, propID)
}

func TestShow(t *testing.T) {
	f := newPropFixture()
	f.props.On("GetByID", mock.Anything, propID).Return(listing(true), nil)

	_, seller, err := f.svc.Show(context.Background(), propID, owner)
	require.NoError(t, err)
	assert.True(t, seller)

	_, seller, err = f.svc.Show(context.Background(), propID, buyer)
	require.NoError(t, err)
	assert.False(t, seller)

	_, seller, err = f.svc.Show(context.Background(), propID, "")
	require.NoError(t, err)
	assert.False(t, seller)
}

func TestShow_UnpublishedIsHidden(t *testing.T) {
	f := newPropFixture()
	f.props.On("GetByID", mock.Anything, propID).Return(listing(false), nil)

	_, _, err := f.svc.Show(context.Background(), propID, owner)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	f := newPropFixture()
	f.props.On("GetByID", mock.Anything, propID).Return(listing(true), nil)

	_, err := f.svc.SendMessage(ctx, propID, "", "Me interesa la casa")
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = f.svc.SendMessage(ctx, propID, owner, "Me interesa la casa")
	assert.ErrorIs(t, err, ErrOwnProperty)

	_, err = f.svc.SendMessage(ctx, propID, buyer, "  corto  ")
	assert.ErrorIs(t, err, ErrMessageTooShort)

	_, err = f.svc.SendMessage(ctx, propID, buyer, strings.Repeat("a", 300))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	f.msgs.On("Create", mock.Anything, mock.MatchedBy(func(m *entity.Message) bool {
		return m.PropertyID == propID && m.UserID == buyer && m.Body == "Me interesa la casa"
	})).Return(nil).Once()
	m, err := f.svc.SendMessage(ctx, propID, buyer, " Me interesa la casa ")
	require.NoError(t, err)
	assert.Equal(t, "Me interesa la casa", m.Body)
	f.msgs.AssertExpectations(t)
}

func TestMessages_OwnerSeesThem(t *testing.T) {
	f := newPropFixture()
	f.props.On("GetByID", mock.Anything, propID).Return(listing(true), nil)
	f.msgs.On("ListByProperty", mock.Anything, propID).Return([]entity.Message{{Body: "Me interesa la casa", UserID: buyer}}, nil)

	p, msgs, err := f.svc.Messages(context.Background(), propID, owner)
	require.NoError(t, err)
	assert.Equal(t, propID, p.ID)
	require.Len(t, msgs, 1)
	assert.Equal(t, buyer, msgs[0].UserID)
}

func TestSearchListings(t *testing.T) {
	other := "0b6c3e0e-9a8c-4c59-9d0b-1f7a4c2b9e11"

	t.Run("index keeps ranking", func(t *testing.T) {
		f := newPropFixture()
		f.search.On("Search", mock.Anything, "playa", browseLimit).Return([]string{other, propID, "junk"}, nil)
		f.props.On("ListPublishedByIDs", mock.Anything, []string{other, propID}).
			Return([]entity.Property{{ID: propID}, {ID: other}}, nil)

		list, err := f.svc.SearchListings(context.Background(), " playa ")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, other, list[0].ID)
		assert.Equal(t, propID, list[1].ID)
	})

	t.Run("falls back to sql", func(t *testing.T) {
		f := newPropFixture()
		f.search.On("Search", mock.Anything, "playa", browseLimit).Return(nil, errors.New("es down"))
		f.props.On("SearchPublished", mock.Anything, "playa", browseLimit).Return([]entity.Property{{ID: propID}}, nil)

		list, err := f.svc.SearchListings(context.Background(), "playa")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("blank term", func(t *testing.T) {
		f := newPropFixture()
		list, err := f.svc.SearchListings(context.Background(), "   ")
		require.NoError(t, err)
		assert.Empty(t, list)
		f.props.AssertNotCalled(t, "SearchPublished", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHomeAndCategory(t *testing.T) {
	f := newPropFixture()
	f.props.On("ListPublished", mock.Anything, 1, homeSectionSize).Return([]entity.Property{*listing(true)}, nil)
	f.props.On("ListPublished", mock.Anything, 2, homeSectionSize).Return(nil, nil)

	home, err := f.svc.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, home.Categories, 2)
	require.Len(t, home.Sections, 1)
	assert.Equal(t, "Casa", home.Sections[0].Category.Name)

	f.props.On("ListPublished", mock.Anything, 1, browseLimit).Return([]entity.Property{*listing(true)}, nil)
	cat, list, err := f.svc.ByCategory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Casa", cat.Name)
	assert.Len(t, list, 1)

	_, _, err = f.svc.ByCategory(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
