package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalog/internal/imagestore"
)

// Form field names, shared with the HTML forms.
const (
	FieldName        = "name"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldNewImage    = "newImage"
)

// DefaultMaxImageKB is the upload limit when none is configured.
const DefaultMaxImageKB = 2048

// maxPrice is the largest magnitude the decimal(10,2) price column holds.
var maxPrice = decimal.New(9999999999, -2)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// Input carries the submitted product form. Image is nil when no file was sent.
type Input struct {
	Name        string
	Price       string
	Description string
	Image       *imagestore.Upload
}

type productForm struct {
	Name        string `validate:"required,max=255"`
	Price       string `validate:"required"`
	Description string
}

type validated struct {
	name        string
	price       decimal.Decimal
	description string
	imageExt    string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// check validates in; imageField names the upload field in error messages.
func (s *Service) check(in Input, imageField string) (validated, error) {
	form := productForm{
		Name:        strings.TrimSpace(in.Name),
		Price:       strings.TrimSpace(in.Price),
		Description: strings.TrimSpace(in.Description),
	}

	verr := &ValidationError{}
	if err := validate.Struct(form); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return validated{}, fmt.Errorf("validate product: %w", err)
		}
		for _, fe := range fieldErrs {
			field := strings.ToLower(fe.Field())
			verr.add(field, message(field, fe.Tag(), fe.Param()))
		}
	}

	var price decimal.Decimal
	if _, missing := verr.Fields[FieldPrice]; !missing {
		var msg string
		if price, msg = parsePrice(form.Price); msg != "" {
			verr.add(FieldPrice, msg)
		}
	}

	var ext string
	if in.Image != nil {
		var err error
		ext, err = s.checkImage(in.Image, imageField, verr)
		if err != nil {
			return validated{}, err
		}
	}

	if len(verr.Fields) > 0 {
		return validated{}, verr
	}

	return validated{
		name:        form.Name,
		price:       price,
		description: form.Description,
		imageExt:    ext,
	}, nil
}

// parsePrice accepts anything decimal.NewFromString reads (".5", "1.", "1e3")
// and rounds to cents. A non-empty string is the field error.
func parsePrice(raw string) (decimal.Decimal, string) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Sprintf("The %s field must be a number.", FieldPrice)
	}
	if d.IsZero() {
		return decimal.Zero, ""
	}

	// Magnitude first: Round expands the coefficient to the exponent.
	mag := int64(d.NumDigits()) + int64(d.Exponent())
	switch {
	case mag > 8:
		return decimal.Decimal{}, priceRangeMessage()
	case mag < -2:
		return decimal.Zero, ""
	}

	d = d.Round(2)
	if d.Abs().GreaterThan(maxPrice) {
		return decimal.Decimal{}, priceRangeMessage()
	}
	return d, ""
}

func priceRangeMessage() string {
	return fmt.Sprintf("The %s field must be between %s and %s.", FieldPrice, maxPrice.Neg().StringFixed(2), maxPrice.StringFixed(2))
}

func (s *Service) checkImage(u *imagestore.Upload, field string, verr *ValidationError) (string, error) {
	if u.Size > s.maxImageKB*1024 {
		verr.add(field, fmt.Sprintf("The %s field must not be greater than %d kilobytes.", field, s.maxImageKB))
		return "", nil
	}

	mt, err := u.Detect()
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(mt.String(), "image/") {
		verr.add(field, fmt.Sprintf("The %s field must be an image.", field))
		return "", nil
	}
	for t, ext := range allowedImageTypes {
		if mt.Is(t) {
			return ext, nil
		}
	}
	verr.add(field, fmt.Sprintf("The %s field must be a file of type: png, jpg, jpeg.", field))
	return "", nil
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, param)
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
