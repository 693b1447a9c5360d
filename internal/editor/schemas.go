// internal/editor/schemas.go
//
// One schema per admin CRUD page.

package editor

import (
	"strconv"
	"strings"
	"time"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
)

var (
	sortField   = Field{Name: "sortOrder", Label: "Sıralama", Kind: Number, Default: "0"}
	activeField = Field{Name: "isActive", Label: "Aktif", Kind: Checkbox, Default: "true"}
	slugField   = func(ph string) Field {
		return Field{Name: "slug", Label: "URL Slug", Kind: Text, Placeholder: ph, Required: true}
	}
)

/*──────────────────────────── categories ──────────────────────────────────*/

var Categories = &Schema[content.Category, content.CategoryInput]{
	Entity: content.EntityCategories,
	Copy: Copy{
		Heading:    "Kategoriler",
		Subheading: "Blog yazıları için kategorileri yönetin",
		Noun:       "Kategori",
		NewTitle:   "Yeni Kategori",
		EditTitle:  "Kategori Düzenle",
		Empty:      "Henüz kategori eklenmemiş",
		Confirm:    "Bu kategoriyi silmek istediğinize emin misiniz?",
	},
	SlugFrom: "name",
	Fields: []Field{
		{Name: "name", Label: "Kategori Adı", Kind: Text, Placeholder: "Örn: Denizcilik", Required: true, Wide: true},
		slugField("Örn: denizcilik"),
		{Name: "description", Label: "Açıklama", Kind: TextArea, Placeholder: "Kategori açıklaması...", Wide: true},
		{Name: "icon", Label: "İkon (RemixIcon)", Kind: Text, Placeholder: "ri-ship-line"},
		{Name: "color", Label: "Renk", Kind: Text, Placeholder: "#0ea5e9"},
		sortField,
		activeField,
	},
	ID: func(c content.Category) int64 { return c.ID },
	Draft: func(c content.Category) Draft {
		return Draft{
			"name":        c.Name,
			"slug":        c.Slug,
			"description": c.Description,
			"icon":        c.Icon,
			"color":       c.Color,
			"sortOrder":   intText(c.SortOrder),
			"isActive":    boolText(c.IsActive),
		}
	},
	Input: func(d Draft, _ *content.Category, _ time.Time) (content.CategoryInput, error) {
		sort, err := d.Int("sortOrder")
		if err != nil {
			return content.CategoryInput{}, err
		}
		return content.CategoryInput{
			Name:        strings.TrimSpace(d["name"]),
			Slug:        d["slug"],
			Description: d["description"],
			Icon:        d["icon"],
			Color:       d["color"],
			SortOrder:   sort,
			IsActive:    d.Bool("isActive"),
		}, nil
	},
}

/*──────────────────────────── posts ───────────────────────────────────────*/

// NoCategory is the post form's "Kategori Yok" choice.
var NoCategory = Option{Value: "", Label: "Kategori Yok"}

var Posts = &Schema[content.Post, content.PostInput]{
	Entity: content.EntityPosts,
	Copy: Copy{
		Heading:    "Blog Yazıları",
		Subheading: "Denizcilik blog yazılarını yönetin",
		Noun:       "Yazı",
		NewTitle:   "Yeni Yazı",
		EditTitle:  "Yazı Düzenle",
		Empty:      "Henüz yazı eklenmemiş",
		Confirm:    "Bu yazıyı silmek istediğinize emin misiniz?",
	},
	SlugFrom: "title",
	Fields: []Field{
		{Name: "title", Label: "Başlık", Kind: Text, Placeholder: "Yazı başlığı", Required: true, Wide: true},
		slugField("yazi-basligi"),
		{Name: "categoryId", Label: "Kategori", Kind: Select, Options: []Option{NoCategory}},
		{Name: "excerpt", Label: "Özet", Kind: TextArea, Placeholder: "Kısa özet...", Wide: true},
		{Name: "content", Label: "İçerik (HTML)", Kind: TextArea, Placeholder: "Yazı içeriği (HTML destekler)...", Wide: true},
		{Name: "featuredImage", Label: "Öne Çıkan Görsel URL", Kind: URL, Placeholder: "https://...", Wide: true},
		{Name: "authorName", Label: "Yazar Adı", Kind: Text, Placeholder: "Kaptan Mehmet"},
		{Name: "authorTitle", Label: "Yazar Ünvanı", Kind: Text, Placeholder: "Denizcilik Uzmanı"},
		{Name: "authorImage", Label: "Yazar Fotoğrafı URL", Kind: URL, Placeholder: "https://..."},
		{Name: "readTime", Label: "Okuma Süresi (dk)", Kind: Number, Default: "5"},
		{Name: "metaTitle", Label: "SEO Başlık", Kind: Text, Placeholder: "SEO için başlık"},
		{Name: "metaDescription", Label: "SEO Açıklama", Kind: Text, Placeholder: "SEO için açıklama"},
		{Name: "isPublished", Label: "Yayınla", Kind: Checkbox, Default: "false"},
		{Name: "isFeatured", Label: "Öne Çıkar", Kind: Checkbox, Default: "false"},
	},
	ID: func(p content.Post) int64 { return p.ID },
	Draft: func(p content.Post) Draft {
		cat := ""
		if p.CategoryID != nil {
			cat = strconv.FormatInt(*p.CategoryID, 10)
		}
		readTime := p.ReadTime
		if readTime == 0 {
			readTime = 5
		}
		return Draft{
			"title":           p.Title,
			"slug":            p.Slug,
			"categoryId":      cat,
			"excerpt":         p.Excerpt,
			"content":         p.Content,
			"featuredImage":   p.FeaturedImage,
			"authorName":      p.AuthorName,
			"authorTitle":     p.AuthorTitle,
			"authorImage":     p.AuthorImage,
			"readTime":        intText(readTime),
			"metaTitle":       p.MetaTitle,
			"metaDescription": p.MetaDescription,
			"isPublished":     boolText(p.IsPublished),
			"isFeatured":      boolText(p.IsFeatured),
		}
	},
	Input: func(d Draft, orig *content.Post, now time.Time) (content.PostInput, error) {
		readTime, err := d.Int("readTime")
		if err != nil {
			return content.PostInput{}, err
		}
		var cat *int64
		if s := strings.TrimSpace(d["categoryId"]); s != "" && s != "none" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil || id <= 0 {
				return content.PostInput{}, errs.Validation("categoryId", "geçersiz kategori")
			}
			cat = &id
		}
		in := content.PostInput{
			Title:           strings.TrimSpace(d["title"]),
			Slug:            d["slug"],
			Excerpt:         d["excerpt"],
			Content:         d["content"],
			FeaturedImage:   d["featuredImage"],
			AuthorName:      d["authorName"],
			AuthorTitle:     d["authorTitle"],
			AuthorImage:     d["authorImage"],
			CategoryID:      cat,
			ReadTime:        readTime,
			IsPublished:     d.Bool("isPublished"),
			IsFeatured:      d.Bool("isFeatured"),
			MetaTitle:       d["metaTitle"],
			MetaDescription: d["metaDescription"],
		}
		// Stamped only on the false → true transition of this submission.
		if in.IsPublished && (orig == nil || !orig.IsPublished) {
			t := now
			in.PublishedAt = &t
		}
		return in, nil
	},
}

/*──────────────────────────── routes ──────────────────────────────────────*/

func difficultyOptions() []Option {
	out := make([]Option, 0, len(content.Difficulties))
	for _, d := range content.Difficulties {
		out = append(out, Option{Value: string(d), Label: d.Label()})
	}
	return out
}

var Routes = &Schema[content.CaravanRoute, content.RouteInput]{
	Entity: content.EntityRoutes,
	Copy: Copy{
		Heading:    "Karavan Rotaları",
		Subheading: "Karavan rotalarını yönetin",
		Noun:       "Rota",
		NewTitle:   "Yeni Rota",
		EditTitle:  "Rota Düzenle",
		Empty:      "Henüz rota eklenmemiş",
		Confirm:    "Bu rotayı silmek istediğinize emin misiniz?",
	},
	SlugFrom: "name",
	Fields: []Field{
		{Name: "name", Label: "Rota Adı", Kind: Text, Placeholder: "Karadeniz Yaylaları", Required: true},
		slugField("karadeniz-yaylalari"),
		{Name: "difficulty", Label: "Zorluk", Kind: Select, Default: string(content.Medium), Options: difficultyOptions()},
		{Name: "distance", Label: "Mesafe", Kind: Text, Placeholder: "850 km"},
		{Name: "duration", Label: "Süre", Kind: Text, Placeholder: "7-10 gün"},
		{Name: "description", Label: "Kısa Açıklama", Kind: TextArea, Wide: true},
		{Name: "content", Label: "Detaylı İçerik (HTML)", Kind: TextArea, Wide: true},
		{Name: "featuredImage", Label: "Öne Çıkan Görsel URL", Kind: URL, Placeholder: "https://...", Wide: true},
		{Name: "locations", Label: "Konumlar (virgülle ayırın)", Kind: List, Sep: content.SepComma, Placeholder: "Trabzon, Rize, Artvin", Wide: true},
		{Name: "highlights", Label: "Öne Çıkan Özellikler (her satıra bir tane)", Kind: List, Sep: content.SepNewline, Wide: true},
		{Name: "tips", Label: "İpuçları (her satıra bir tane)", Kind: List, Sep: content.SepNewline, Wide: true},
		{Name: "gallery", Label: "Galeri Görselleri (her satıra bir URL)", Kind: List, Sep: content.SepNewline, Wide: true},
		{Name: "metaTitle", Label: "SEO Başlık", Kind: Text},
		{Name: "metaDescription", Label: "SEO Açıklama", Kind: Text},
		{Name: "isPublished", Label: "Yayınla", Kind: Checkbox, Default: "false"},
		{Name: "isFeatured", Label: "Öne Çıkar", Kind: Checkbox, Default: "false"},
	},
	ID: func(r content.CaravanRoute) int64 { return r.ID },
	Draft: func(r content.CaravanRoute) Draft {
		return Draft{
			"name":            r.Name,
			"slug":            r.Slug,
			"difficulty":      string(content.ParseDifficulty(string(r.Difficulty))),
			"distance":        r.Distance,
			"duration":        r.Duration,
			"description":     r.Description,
			"content":         r.Content,
			"featuredImage":   r.FeaturedImage,
			"locations":       content.JoinList(r.Locations, content.SepComma),
			"highlights":      content.JoinList(r.Highlights, content.SepNewline),
			"tips":            content.JoinList(r.Tips, content.SepNewline),
			"gallery":         content.JoinList(r.Gallery, content.SepNewline),
			"metaTitle":       r.MetaTitle,
			"metaDescription": r.MetaDescription,
			"isPublished":     boolText(r.IsPublished),
			"isFeatured":      boolText(r.IsFeatured),
		}
	},
	Input: func(d Draft, _ *content.CaravanRoute, _ time.Time) (content.RouteInput, error) {
		return content.RouteInput{
			Name:            strings.TrimSpace(d["name"]),
			Slug:            d["slug"],
			Description:     d["description"],
			Content:         d["content"],
			FeaturedImage:   d["featuredImage"],
			Distance:        d["distance"],
			Duration:        d["duration"],
			Difficulty:      content.ParseDifficulty(d["difficulty"]),
			Locations:       content.SplitList(d["locations"], content.SepComma),
			Highlights:      content.SplitList(d["highlights"], content.SepNewline),
			Tips:            content.SplitList(d["tips"], content.SepNewline),
			Gallery:         content.SplitList(d["gallery"], content.SepNewline),
			IsPublished:     d.Bool("isPublished"),
			IsFeatured:      d.Bool("isFeatured"),
			MetaTitle:       d["metaTitle"],
			MetaDescription: d["metaDescription"],
		}, nil
	},
}

/*──────────────────────────── hero ────────────────────────────────────────*/

var Hero = &Schema[content.HeroSection, content.HeroInput]{
	Entity: content.EntityHero,
	Copy: Copy{
		Heading:    "Hero Bölümü",
		Subheading: "Ana sayfa hero bölümünü yönetin",
		Noun:       "Hero bölümü",
		NewTitle:   "Yeni Hero",
		EditTitle:  "Hero Düzenle",
		Empty:      "Henüz hero bölümü eklenmemiş",
		Confirm:    "Bu hero bölümünü silmek istediğinize emin misiniz?",
	},
	Fields: []Field{
		{Name: "title", Label: "Başlık", Kind: Text, Required: true, Wide: true},
		{Name: "subtitle", Label: "Alt Başlık", Kind: TextArea, Wide: true},
		{Name: "backgroundImage", Label: "Arka Plan Görsel URL", Kind: URL, Placeholder: "https://...", Wide: true},
		{Name: "primaryButtonText", Label: "Birincil Buton Metni", Kind: Text},
		{Name: "primaryButtonLink", Label: "Birincil Buton Linki", Kind: Text},
		{Name: "secondaryButtonText", Label: "İkincil Buton Metni", Kind: Text},
		{Name: "secondaryButtonLink", Label: "İkincil Buton Linki", Kind: Text},
		sortField,
		activeField,
	},
	ID: func(h content.HeroSection) int64 { return h.ID },
	Draft: func(h content.HeroSection) Draft {
		return Draft{
			"title":               h.Title,
			"subtitle":            h.Subtitle,
			"backgroundImage":     h.BackgroundImage,
			"primaryButtonText":   h.PrimaryButtonText,
			"primaryButtonLink":   h.PrimaryButtonLink,
			"secondaryButtonText": h.SecondaryButtonText,
			"secondaryButtonLink": h.SecondaryButtonLink,
			"sortOrder":           intText(h.SortOrder),
			"isActive":            boolText(h.IsActive),
		}
	},
	Input: func(d Draft, _ *content.HeroSection, _ time.Time) (content.HeroInput, error) {
		sort, err := d.Int("sortOrder")
		if err != nil {
			return content.HeroInput{}, err
		}
		return content.HeroInput{
			Title:               strings.TrimSpace(d["title"]),
			Subtitle:            d["subtitle"],
			BackgroundImage:     d["backgroundImage"],
			PrimaryButtonText:   d["primaryButtonText"],
			PrimaryButtonLink:   d["primaryButtonLink"],
			SecondaryButtonText: d["secondaryButtonText"],
			SecondaryButtonLink: d["secondaryButtonLink"],
			IsActive:            d.Bool("isActive"),
			SortOrder:           sort,
		}, nil
	},
}

/*──────────────────────────── features ────────────────────────────────────*/

var Features = &Schema[content.FeatureCard, content.FeatureInput]{
	Entity: content.EntityFeatures,
	Copy: Copy{
		Heading:    "Özellik Kartları",
		Subheading: "Ana sayfa özellik kartlarını yönetin",
		Noun:       "Özellik kartı",
		NewTitle:   "Yeni Kart",
		EditTitle:  "Kart Düzenle",
		Empty:      "Henüz özellik kartı eklenmemiş",
		Confirm:    "Bu kartı silmek istediğinize emin misiniz?",
	},
	Fields: []Field{
		{Name: "title", Label: "Başlık", Kind: Text, Required: true, Wide: true},
		{Name: "description", Label: "Açıklama", Kind: TextArea, Wide: true},
		{Name: "icon", Label: "İkon (RemixIcon)", Kind: Text, Placeholder: "ri-compass-3-line"},
		{Name: "color", Label: "Renk", Kind: Text, Placeholder: "#0ea5e9"},
		{Name: "link", Label: "Link (opsiyonel)", Kind: Text, Wide: true},
		sortField,
		activeField,
	},
	ID: func(f content.FeatureCard) int64 { return f.ID },
	Draft: func(f content.FeatureCard) Draft {
		return Draft{
			"title":       f.Title,
			"description": f.Description,
			"icon":        f.Icon,
			"color":       f.Color,
			"link":        f.Link,
			"sortOrder":   intText(f.SortOrder),
			"isActive":    boolText(f.IsActive),
		}
	},
	Input: func(d Draft, _ *content.FeatureCard, _ time.Time) (content.FeatureInput, error) {
		sort, err := d.Int("sortOrder")
		if err != nil {
			return content.FeatureInput{}, err
		}
		return content.FeatureInput{
			Title:       strings.TrimSpace(d["title"]),
			Description: d["description"],
			Icon:        d["icon"],
			Color:       d["color"],
			Link:        d["link"],
			SortOrder:   sort,
			IsActive:    d.Bool("isActive"),
		}, nil
	},
}

/*──────────────────────────── team ────────────────────────────────────────*/

// socialKey is the draft key of one platform input.
func socialKey(platform string) string { return "social_" + platform }

var Team = &Schema[content.TeamMember, content.TeamInput]{
	Entity: content.EntityTeam,
	Copy: Copy{
		Heading:    "Ekip Üyeleri",
		Subheading: "Ekip üyelerini yönetin",
		Noun:       "Ekip üyesi",
		NewTitle:   "Yeni Üye",
		EditTitle:  "Üye Düzenle",
		Empty:      "Henüz ekip üyesi eklenmemiş",
		Confirm:    "Bu üyeyi silmek istediğinize emin misiniz?",
	},
	Fields: append([]Field{
		{Name: "name", Label: "Ad Soyad", Kind: Text, Placeholder: "Kaptan Mehmet", Required: true, Wide: true},
		{Name: "title", Label: "Ünvan", Kind: Text, Placeholder: "Denizcilik Uzmanı", Wide: true},
		{Name: "bio", Label: "Biyografi", Kind: TextArea, Placeholder: "Kısa biyografi...", Wide: true},
		{Name: "image", Label: "Fotoğraf URL", Kind: URL, Placeholder: "https://..."},
		{Name: "email", Label: "E-posta", Kind: Email, Placeholder: "kaptan@viyakaptan.com"},
	}, append(socialFields(), sortField, activeField)...),
	ID: func(m content.TeamMember) int64 { return m.ID },
	Draft: func(m content.TeamMember) Draft {
		d := Draft{
			"name":      m.Name,
			"title":     m.Title,
			"bio":       m.Bio,
			"image":     m.Image,
			"email":     m.Email,
			"sortOrder": intText(m.SortOrder),
			"isActive":  boolText(m.IsActive),
		}
		for _, p := range content.SocialPlatforms {
			d[socialKey(p)] = m.SocialLinks[p]
		}
		return d
	},
	Input: func(d Draft, orig *content.TeamMember, _ time.Time) (content.TeamInput, error) {
		sort, err := d.Int("sortOrder")
		if err != nil {
			return content.TeamInput{}, err
		}
		links := map[string]string{}
		// Keep platforms the form does not show.
		if orig != nil {
			for k, v := range orig.SocialLinks {
				links[k] = v
			}
		}
		for _, p := range content.SocialPlatforms {
			links[p] = d[socialKey(p)]
		}
		return content.TeamInput{
			Name:        strings.TrimSpace(d["name"]),
			Title:       d["title"],
			Bio:         d["bio"],
			Image:       d["image"],
			Email:       strings.TrimSpace(d["email"]),
			SocialLinks: content.BuildSocialLinks(links),
			SortOrder:   sort,
			IsActive:    d.Bool("isActive"),
		}, nil
	},
}

func socialFields() []Field {
	labels := map[string]string{"instagram": "Instagram", "twitter": "Twitter", "youtube": "YouTube", "linkedin": "LinkedIn"}
	out := make([]Field, 0, len(content.SocialPlatforms))
	for _, p := range content.SocialPlatforms {
		out = append(out, Field{Name: socialKey(p), Label: labels[p], Kind: URL, Placeholder: labels[p] + " URL"})
	}
	return out
}
