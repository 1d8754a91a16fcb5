package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/bienesraices/internal/application"
	"github.com/oksasatya/bienesraices/internal/domain/entity"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, in application.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockAuth) Confirm(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*entity.User, application.Session, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Get(1).(application.Session), args.Error(2)
}

func (m *mockAuth) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuth) CheckResetToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuth) ResetPassword(ctx context.Context, token, password string) error {
	return m.Called(ctx, token, password).Error(0)
}

type mockProps struct{ mock.Mock }

func (m *mockProps) Dashboard(ctx context.Context, ownerID string, page int) (*application.DashboardPage, error) {
	args := m.Called(ctx, ownerID, page)
	p, _ := args.Get(0).(*application.DashboardPage)
	return p, args.Error(1)
}

func (m *mockProps) FormOptions(ctx context.Context) (*application.FormOptions, error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).(*application.FormOptions)
	return o, args.Error(1)
}

func (m *mockProps) Create(ctx context.Context, ownerID string, in application.PropertyInput) (*entity.Property, error) {
	args := m.Called(ctx, ownerID, in)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockProps) GetForEdit(ctx context.Context, id, ownerID string) (*entity.Property, error) {
	args := m.Called(ctx, id, ownerID)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockProps) Update(ctx context.Context, id, ownerID string, in application.PropertyInput) (*entity.Property, error) {
	args := m.Called(ctx, id, ownerID, in)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockProps) Delete(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockProps) TogglePublished(ctx context.Context, id, ownerID string) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProps) ImageTarget(ctx context.Context, id, ownerID string) (*entity.Property, error) {
	args := m.Called(ctx, id, ownerID)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockProps) AttachImage(ctx context.Context, id, ownerID string, r io.Reader) (*entity.Property, error) {
	args := m.Called(ctx, id, ownerID, r)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockProps) Messages(ctx context.Context, id, ownerID string) (*entity.Property, []entity.Message, error) {
	args := m.Called(ctx, id, ownerID)
	p, _ := args.Get(0).(*entity.Property)
	msgs, _ := args.Get(1).([]entity.Message)
	return p, msgs, args.Error(2)
}

func (m *mockProps) Show(ctx context.Context, id, viewerID string) (*entity.Property, bool, error) {
	args := m.Called(ctx, id, viewerID)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Bool(1), args.Error(2)
}

func (m *mockProps) SendMessage(ctx context.Context, propertyID, senderID, body string) (*entity.Message, error) {
	args := m.Called(ctx, propertyID, senderID, body)
	msg, _ := args.Get(0).(*entity.Message)
	return msg, args.Error(1)
}

func (m *mockProps) Home(ctx context.Context) (*application.HomeView, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*application.HomeView)
	return v, args.Error(1)
}

func (m *mockProps) ByCategory(ctx context.Context, categoryID int) (*entity.Category, []entity.Property, error) {
	args := m.Called(ctx, categoryID)
	c, _ := args.Get(0).(*entity.Category)
	l, _ := args.Get(1).([]entity.Property)
	return c, l, args.Error(2)
}

func (m *mockProps) SearchListings(ctx context.Context, term string) ([]entity.Property, error) {
	args := m.Called(ctx, term)
	l, _ := args.Get(0).([]entity.Property)
	return l, args.Error(1)
}
