package application

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/pkg/mailer"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByToken(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Insert(ctx context.Context, e entity.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Dispatch(ctx context.Context, job mailer.EmailJob) error {
	return m.Called(ctx, job).Error(0)
}

type mockPropertyRepo struct{ mock.Mock }

func (m *mockPropertyRepo) Create(ctx context.Context, p *entity.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]entity.Property, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	l, _ := args.Get(0).([]entity.Property)
	return l, args.Error(1)
}

func (m *mockPropertyRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *entity.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPropertyRepo) SetPublished(ctx context.Context, id string, published bool) error {
	return m.Called(ctx, id, published).Error(0)
}

func (m *mockPropertyRepo) SetImage(ctx context.Context, id, image string) error {
	return m.Called(ctx, id, image).Error(0)
}

func (m *mockPropertyRepo) ListPublished(ctx context.Context, categoryID, limit int) ([]entity.Property, error) {
	args := m.Called(ctx, categoryID, limit)
	l, _ := args.Get(0).([]entity.Property)
	return l, args.Error(1)
}

func (m *mockPropertyRepo) ListPublishedByIDs(ctx context.Context, ids []string) ([]entity.Property, error) {
	args := m.Called(ctx, ids)
	l, _ := args.Get(0).([]entity.Property)
	return l, args.Error(1)
}

func (m *mockPropertyRepo) SearchPublished(ctx context.Context, term string, limit int) ([]entity.Property, error) {
	args := m.Called(ctx, term, limit)
	l, _ := args.Get(0).([]entity.Property)
	return l, args.Error(1)
}

type mockCatalogRepo struct{ mock.Mock }

func (m *mockCatalogRepo) Categories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]entity.Category)
	return l, args.Error(1)
}

func (m *mockCatalogRepo) Prices(ctx context.Context) ([]entity.Price, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]entity.Price)
	return l, args.Error(1)
}

type mockMessageRepo struct{ mock.Mock }

func (m *mockMessageRepo) Create(ctx context.Context, msg *entity.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockMessageRepo) ListByProperty(ctx context.Context, propertyID string) ([]entity.Message, error) {
	args := m.Called(ctx, propertyID)
	l, _ := args.Get(0).([]entity.Message)
	return l, args.Error(1)
}

type mockImageStore struct{ mock.Mock }

func (m *mockImageStore) Save(ctx context.Context, ownerID string, r io.Reader) (string, error) {
	args := m.Called(ctx, ownerID, r)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

type mockSearchIndex struct{ mock.Mock }

func (m *mockSearchIndex) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *mockSearchIndex) Index(ctx context.Context, p *entity.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockSearchIndex) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSearchIndex) Search(ctx context.Context, term string, size int) ([]string, error) {
	args := m.Called(ctx, term, size)
	l, _ := args.Get(0).([]string)
	return l, args.Error(1)
}
