package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Name     string `form:"nombre" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,pwd"`
	Repeat   string `form:"repetir_password" validate:"eqfield=Password"`
}

type listingForm struct {
	Description string `json:"descripcion" validate:"required,listdesc"`
	Rooms       string `json:"habitaciones" validate:"numeric"`
	Body        string `validate:"msgbody"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToDetails_UsesFormNamesAndAliases(t *testing.T) {
	v := newValidator()
	err := v.Struct(registerForm{Name: "", Email: "nope", Password: "123", Repeat: "321"})

	details := ToDetails(err)

	assert.Equal(t, "is required", details["nombre"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.Contains(t, details["repetir_password"], "must match")
}

func TestToDetails_ListingRules(t *testing.T) {
	v := newValidator()
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	err := v.Struct(listingForm{Description: string(long), Rooms: "three", Body: "short"})

	details := ToDetails(err)

	assert.Equal(t, "is too long", details["descripcion"])
	assert.Equal(t, "must be numeric", details["habitaciones"])
	assert.Equal(t, "is empty or too short", details["Body"])
}

func TestToDetails_NonValidationErrors(t *testing.T) {
	assert.Nil(t, ToDetails(nil))

	var target map[string]any
	err := json.Unmarshal([]byte("{bad"), &target)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
