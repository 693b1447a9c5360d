// internal/content/types.go
//
// Entity records shared by the data API, the API client, the query layer,
// and the page handlers.
//
// Context
// -------
// All records are owned by the data API; everything outside cmd/api holds
// transient copies only.  JSON names match the wire format the admin pages
// and the public site exchange with the API, `db` names match the MySQL
// schema in internal/database/schema.sql.
//
// Nullable columns are limited to the two places where "unset" carries
// meaning: a post's category and its first-publication timestamp.  Every
// other optional text field is stored as '' so drafts never see nil.

package content

import "time"

// Entity names used for routing, cache scoping, and metrics labels.
const (
	EntityCategories = "categories"
	EntityPosts      = "posts"
	EntityRoutes     = "routes"
	EntityHero       = "hero"
	EntityFeatures   = "features"
	EntityTeam       = "team"
	EntitySettings   = "settings"
	EntityMedia      = "media"
)

// Filter narrows list reads.  Zero value returns every row.
type Filter struct {
	ActiveOnly    bool `json:"activeOnly,omitempty"`
	PublishedOnly bool `json:"publishedOnly,omitempty"`
}

// Key is a stable cache key for the filter.
func (f Filter) Key() string {
	switch {
	case f.ActiveOnly && f.PublishedOnly:
		return "active+published"
	case f.ActiveOnly:
		return "active"
	case f.PublishedOnly:
		return "published"
	default:
		return "all"
	}
}

type Category struct {
	ID          int64     `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Slug        string    `db:"slug"        json:"slug"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon"        json:"icon"`
	Color       string    `db:"color"       json:"color"`
	SortOrder   int       `db:"sort_order"  json:"sortOrder"`
	IsActive    bool      `db:"is_active"   json:"isActive"`
	CreatedAt   time.Time `db:"created_at"  json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updatedAt"`
}

type Post struct {
	ID              int64      `db:"id"               json:"id"`
	Title           string     `db:"title"            json:"title"`
	Slug            string     `db:"slug"             json:"slug"`
	Excerpt         string     `db:"excerpt"          json:"excerpt"`
	Content         string     `db:"content"          json:"content"`
	FeaturedImage   string     `db:"featured_image"   json:"featuredImage"`
	AuthorName      string     `db:"author_name"      json:"authorName"`
	AuthorTitle     string     `db:"author_title"     json:"authorTitle"`
	AuthorImage     string     `db:"author_image"     json:"authorImage"`
	CategoryID      *int64     `db:"category_id"      json:"categoryId"`
	ReadTime        int        `db:"read_time"        json:"readTime"`
	ViewCount       int        `db:"view_count"       json:"viewCount"`
	IsPublished     bool       `db:"is_published"     json:"isPublished"`
	IsFeatured      bool       `db:"is_featured"      json:"isFeatured"`
	MetaTitle       string     `db:"meta_title"       json:"metaTitle"`
	MetaDescription string     `db:"meta_description" json:"metaDescription"`
	PublishedAt     *time.Time `db:"published_at"     json:"publishedAt"`
	CreatedAt       time.Time  `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updatedAt"`
}

type CaravanRoute struct {
	ID              int64      `db:"id"               json:"id"`
	Name            string     `db:"name"             json:"name"`
	Slug            string     `db:"slug"             json:"slug"`
	Description     string     `db:"description"      json:"description"`
	Content         string     `db:"content"          json:"content"`
	FeaturedImage   string     `db:"featured_image"   json:"featuredImage"`
	Distance        string     `db:"distance"         json:"distance"`
	Duration        string     `db:"duration"         json:"duration"`
	Difficulty      Difficulty `db:"difficulty"       json:"difficulty"`
	Locations       StringList `db:"locations"        json:"locations"`
	Highlights      StringList `db:"highlights"       json:"highlights"`
	Tips            StringList `db:"tips"             json:"tips"`
	Gallery         StringList `db:"gallery"          json:"gallery"`
	IsPublished     bool       `db:"is_published"     json:"isPublished"`
	IsFeatured      bool       `db:"is_featured"      json:"isFeatured"`
	MetaTitle       string     `db:"meta_title"       json:"metaTitle"`
	MetaDescription string     `db:"meta_description" json:"metaDescription"`
	CreatedAt       time.Time  `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updatedAt"`
}

type HeroSection struct {
	ID                  int64     `db:"id"                    json:"id"`
	Title               string    `db:"title"                 json:"title"`
	Subtitle            string    `db:"subtitle"              json:"subtitle"`
	BackgroundImage     string    `db:"background_image"      json:"backgroundImage"`
	PrimaryButtonText   string    `db:"primary_button_text"   json:"primaryButtonText"`
	PrimaryButtonLink   string    `db:"primary_button_link"   json:"primaryButtonLink"`
	SecondaryButtonText string    `db:"secondary_button_text" json:"secondaryButtonText"`
	SecondaryButtonLink string    `db:"secondary_button_link" json:"secondaryButtonLink"`
	IsActive            bool      `db:"is_active"             json:"isActive"`
	SortOrder           int       `db:"sort_order"            json:"sortOrder"`
	CreatedAt           time.Time `db:"created_at"            json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at"            json:"updatedAt"`
}

type FeatureCard struct {
	ID          int64     `db:"id"          json:"id"`
	Title       string    `db:"title"       json:"title"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon"        json:"icon"`
	Color       string    `db:"color"       json:"color"`
	Link        string    `db:"link"        json:"link"`
	SortOrder   int       `db:"sort_order"  json:"sortOrder"`
	IsActive    bool      `db:"is_active"   json:"isActive"`
	CreatedAt   time.Time `db:"created_at"  json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updatedAt"`
}

type TeamMember struct {
	ID          int64       `db:"id"           json:"id"`
	Name        string      `db:"name"         json:"name"`
	Title       string      `db:"title"        json:"title"`
	Bio         string      `db:"bio"          json:"bio"`
	Image       string      `db:"image"        json:"image"`
	Email       string      `db:"email"        json:"email"`
	SocialLinks SocialLinks `db:"social_links" json:"socialLinks"`
	SortOrder   int         `db:"sort_order"   json:"sortOrder"`
	IsActive    bool        `db:"is_active"    json:"isActive"`
	CreatedAt   time.Time   `db:"created_at"   json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at"   json:"updatedAt"`
}

// SiteSetting is keyed by Key; there is no numeric id.
type SiteSetting struct {
	Key   string `db:"key"   json:"key"`
	Value string `db:"value" json:"value"`
	Type  string `db:"type"  json:"type"`
	Group string `db:"group" json:"group"`
	Label string `db:"label" json:"label"`
}

type Media struct {
	ID           int64     `db:"id"            json:"id"`
	ObjectKey    string    `db:"object_key"    json:"objectKey"`
	URL          string    `db:"url"           json:"url"`
	OriginalName string    `db:"original_name" json:"originalName"`
	MimeType     string    `db:"mime_type"     json:"mimeType"`
	Size         int64     `db:"size"          json:"size"`
	Alt          string    `db:"alt"           json:"alt"`
	Caption      string    `db:"caption"       json:"caption"`
	CreatedAt    time.Time `db:"created_at"    json:"createdAt"`
}

// Stats backs the admin dashboard cards.
type Stats struct {
	Posts      int `json:"posts"`
	Routes     int `json:"routes"`
	Categories int `json:"categories"`
	Pages      int `json:"pages"`
}

// Homepage is the aggregate read for the landing page.
type Homepage struct {
	Hero     *HeroSection      `json:"hero"`
	Features []FeatureCard     `json:"features"`
	Posts    []Post            `json:"posts"`
	Routes   []CaravanRoute    `json:"routes"`
	Settings map[string]string `json:"settings"`
}
