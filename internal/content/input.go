// internal/content/input.go
//
// Write payloads accepted by create/update, plus their validation.
//
// Context
// -------
// Inputs carry every editable field.  An update replaces the editable
// columns of the addressed row with the input, except PostInput.PublishedAt,
// where nil means "leave as stored" (see store.Posts).
//
// Validation uses go-playground/validator struct tags.  Validate reports the
// first failing field as errs.ErrValidation, named by its JSON key so the
// message matches what the admin form shows.

package content

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/viyakaptan/internal/errs"
)

type CategoryInput struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Slug        string `json:"slug"        validate:"required,max=100,slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"        validate:"max=100"`
	Color       string `json:"color"       validate:"max=50"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`
}

type PostInput struct {
	Title           string     `json:"title"           validate:"required,max=255"`
	Slug            string     `json:"slug"            validate:"required,max=255,slug"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	FeaturedImage   string     `json:"featuredImage"   validate:"max=500"`
	AuthorName      string     `json:"authorName"      validate:"max=100"`
	AuthorTitle     string     `json:"authorTitle"     validate:"max=100"`
	AuthorImage     string     `json:"authorImage"     validate:"max=500"`
	CategoryID      *int64     `json:"categoryId"      validate:"omitempty,gt=0"`
	ReadTime        int        `json:"readTime"        validate:"gte=0,lte=600"`
	IsPublished     bool       `json:"isPublished"`
	IsFeatured      bool       `json:"isFeatured"`
	MetaTitle       string     `json:"metaTitle"       validate:"max=255"`
	MetaDescription string     `json:"metaDescription"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
}

type RouteInput struct {
	Name            string     `json:"name"            validate:"required,max=255"`
	Slug            string     `json:"slug"            validate:"required,max=255,slug"`
	Description     string     `json:"description"`
	Content         string     `json:"content"`
	FeaturedImage   string     `json:"featuredImage"   validate:"max=500"`
	Distance        string     `json:"distance"        validate:"max=50"`
	Duration        string     `json:"duration"        validate:"max=50"`
	Difficulty      Difficulty `json:"difficulty"      validate:"oneof=easy medium hard"`
	Locations       StringList `json:"locations"`
	Highlights      StringList `json:"highlights"`
	Tips            StringList `json:"tips"`
	Gallery         StringList `json:"gallery"         validate:"dive,max=500"`
	IsPublished     bool       `json:"isPublished"`
	IsFeatured      bool       `json:"isFeatured"`
	MetaTitle       string     `json:"metaTitle"       validate:"max=255"`
	MetaDescription string     `json:"metaDescription"`
}

type HeroInput struct {
	Title               string `json:"title"               validate:"required,max=255"`
	Subtitle            string `json:"subtitle"`
	BackgroundImage     string `json:"backgroundImage"     validate:"max=500"`
	PrimaryButtonText   string `json:"primaryButtonText"   validate:"max=100"`
	PrimaryButtonLink   string `json:"primaryButtonLink"   validate:"max=500"`
	SecondaryButtonText string `json:"secondaryButtonText" validate:"max=100"`
	SecondaryButtonLink string `json:"secondaryButtonLink" validate:"max=500"`
	IsActive            bool   `json:"isActive"`
	SortOrder           int    `json:"sortOrder"`
}

type FeatureInput struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description"`
	Icon        string `json:"icon"        validate:"max=100"`
	Color       string `json:"color"       validate:"max=50"`
	Link        string `json:"link"        validate:"max=500"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`
}

type TeamInput struct {
	Name        string      `json:"name"        validate:"required,max=100"`
	Title       string      `json:"title"       validate:"max=100"`
	Bio         string      `json:"bio"`
	Image       string      `json:"image"       validate:"max=500"`
	Email       string      `json:"email"       validate:"omitempty,email,max=255"`
	SocialLinks SocialLinks `json:"socialLinks" validate:"dive,keys,required,endkeys,max=500"`
	SortOrder   int         `json:"sortOrder"`
	IsActive    bool        `json:"isActive"`
}

// UploadInput is the media upload payload; the bytes travel base64-encoded.
type UploadInput struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Base64   string `json:"base64"   validate:"required,base64"`
	MimeType string `json:"mimeType" validate:"required,max=100"`
	Alt      string `json:"alt"      validate:"max=255"`
	Caption  string `json:"caption"`
}

//
// validator wiring
//

var (
	validate  = validator.New()
	slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugShape.MatchString(fl.Field().String())
	})
}

// Validate checks in against its struct tags.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errs.Validation("", err.Error())
	}
	fe := verrs[0]
	return errs.Validation(fe.Field(), describe(fe))
}

// describe renders one field error in the site's language.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s alanı zorunludur", fe.Field())
	case "slug":
		return fmt.Sprintf("%s yalnızca küçük harf, rakam ve tire içerebilir", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s şu değerlerden biri olmalıdır: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s en fazla %s karakter olabilir", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s geçerli bir e-posta adresi olmalıdır", fe.Field())
	default:
		return fmt.Sprintf("%s geçersiz (%s)", fe.Field(), fe.Tag())
	}
}
